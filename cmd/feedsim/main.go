package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"cpuwatch/internal/feed"
	"cpuwatch/internal/sample"
	"cpuwatch/internal/shared/logger"
	"cpuwatch/internal/shared/types"
)

// feedsim publishes synthetic per-core CPU samples over /ws so the cpuwatch
// client can be exercised without the real metrics producer.
func main() {
	addr := flag.String("addr", ":5062", "Listen address")
	cores := flag.Int("cores", 4, "Number of simulated CPU cores")
	interval := flag.Duration("interval", time.Second, "Publish interval")
	level := flag.String("loglevel", "info", "Log level")
	flag.Parse()

	if err := logger.Init(types.LogConf{Level: *level}); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	hub := feed.NewHub()
	go hub.Run()

	go publishLoop(hub, *cores, *interval)

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		feed.ServeWs(hub, w, r)
	})

	logger.Info().Str("addr", *addr).Int("cores", *cores).Msg("feedsim serving synthetic CPU samples on /ws")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server failed")
	}
}

// publishLoop ticks at the configured interval and broadcasts a sample where
// each core's load drifts as a bounded random walk within 0..100.
func publishLoop(hub *feed.Hub, cores int, interval time.Duration) {
	loads := make([]float64, cores)
	for i := range loads {
		loads[i] = 20 + rand.Float64()*60
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		for i := range loads {
			loads[i] += (rand.Float64() - 0.5) * 10
			if loads[i] < 0 {
				loads[i] = 0
			}
			if loads[i] > 100 {
				loads[i] = 100
			}
		}
		hub.BroadcastSample(&sample.CpuSample{
			TimestampMs: time.Now().UnixMilli(),
			CpuLoads:    append([]float64(nil), loads...),
		})
	}
}
