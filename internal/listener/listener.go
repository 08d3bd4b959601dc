package listener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"cpuwatch/internal/shared/logger"
)

// Handlers holds the callbacks dispatched by a Listener. Each callback runs
// to completion on the read loop goroutine before the next event is
// dispatched; none ever runs concurrently with another.
type Handlers struct {
	OnOpen    func()
	OnMessage func(raw []byte)
	OnError   func(err error)
	OnClose   func(code int, text string)
}

// Listener owns one WebSocket connection to the metrics endpoint for its
// entire lifetime. There is no reconnect: once the connection terminates,
// for any reason, the listener is done.
type Listener struct {
	url     string
	dialer  websocket.Dialer
	handler Handlers
	log     zerolog.Logger
}

func New(urlStr string, handshakeTimeout time.Duration, h Handlers) *Listener {
	return &Listener{
		url: urlStr,
		dialer: websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
		handler: h,
		log: logger.WithComponent("listener").With().
			Str("session_id", uuid.New().String()).Logger(),
	}
}

// Run dials the endpoint and blocks in a read loop until the connection
// terminates or ctx is cancelled. Every terminal path reports through the
// handlers; Run itself returns nil on a remote close and ctx.Err() on a
// local interrupt.
func (l *Listener) Run(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
	if err != nil {
		err = fmt.Errorf("websocket dial failed: %w", err)
		if l.handler.OnError != nil {
			l.handler.OnError(err)
		}
		return err
	}
	defer conn.Close()
	l.log.Debug().Str("remote_addr", conn.RemoteAddr().String()).Msg("WebSocket connection established.")

	if l.handler.OnOpen != nil {
		l.handler.OnOpen()
	}

	// Unblock the read loop when the caller cancels.
	runDone := make(chan struct{})
	defer close(runDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-runDone:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return l.finish(ctx, err)
		}
		if l.handler.OnMessage != nil {
			l.handler.OnMessage(raw)
		}
	}
}

// finish maps the terminal read error onto the close/error callbacks.
func (l *Listener) finish(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		l.log.Debug().Msg("Read loop unwound by local cancellation.")
		if l.handler.OnClose != nil {
			l.handler.OnClose(websocket.CloseNormalClosure, "local shutdown")
		}
		return ctx.Err()
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		l.log.Debug().Int("code", closeErr.Code).Str("text", closeErr.Text).Msg("Remote closed the connection.")
		if l.handler.OnClose != nil {
			l.handler.OnClose(closeErr.Code, closeErr.Text)
		}
		return nil
	}

	l.log.Debug().Err(err).Msg("Read loop terminated by transport error.")
	if l.handler.OnError != nil {
		l.handler.OnError(err)
	}
	if l.handler.OnClose != nil {
		l.handler.OnClose(websocket.CloseAbnormalClosure, "")
	}
	return err
}
