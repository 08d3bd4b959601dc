package feed

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"cpuwatch/internal/sample"
	"cpuwatch/internal/shared/logger"
)

// Hub maintains the set of subscribed clients and broadcasts CPU sample
// frames to them as binary msgpack messages.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			logger.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("Metrics subscriber registered.")
		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				logger.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("Metrics subscriber unregistered.")
			}
			h.mu.Unlock()
		case frame := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
					logger.Warn().Err(err).Str("remote_addr", conn.RemoteAddr().String()).Msg("Error writing frame to subscriber.")
					// Assume the client is gone; the read pump unregisters it.
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSample encodes one sample and queues it for all subscribers.
// When the queue is full the sample is dropped rather than blocking the
// producer tick.
func (h *Hub) BroadcastSample(s *sample.CpuSample) {
	frame, err := sample.Marshal(s)
	if err != nil {
		logger.Error().Err(err).Msg("Hub: failed to encode sample frame.")
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		logger.Warn().Msg("Hub: broadcast queue is full, dropping sample.")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request into a metrics subscription.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to upgrade websocket")
		return
	}
	hub.register <- conn

	// Read pump: its only job is to notice when the client disconnects.
	go func() {
		defer func() {
			hub.unregister <- conn
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Warn().Err(err).Msg("Unexpected websocket close error")
				}
				break
			}
		}
	}()
}
