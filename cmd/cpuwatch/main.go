package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cpuwatch/internal/display"
	"cpuwatch/internal/listener"
	"cpuwatch/internal/shared/config"
	"cpuwatch/internal/shared/logger"
)

func main() {
	configDir := flag.String("configdir", "configs", "Path to config directory")
	flag.Parse()

	iniPath := filepath.Join(*configDir, "cpuwatch.ini")

	cfg := config.Default()
	if err := config.LoadIni(cfg, iniPath); err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", iniPath, err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	printer := display.NewPrinter(os.Stdout)

	l := listener.New(cfg.URL, time.Duration(cfg.HandshakeTimeoutSec)*time.Second, listener.Handlers{
		OnOpen: func() {
			fmt.Println("WebSocket connected! Listening for CPU metrics...")
		},
		OnMessage: printer.HandleFrame,
		OnError: func(err error) {
			fmt.Printf("Error: %v\n", err)
		},
		OnClose: func(code int, text string) {
			fmt.Println("Connection closed")
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Connecting to WebSocket at %s\n", cfg.URL)
	err := l.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nStopping...")
	}
}
