package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"deadwave/core/internal/room"
	"deadwave/core/internal/sim"
	"deadwave/core/internal/telemetry"
	"deadwave/core/logging"
	"deadwave/core/logging/sinks"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func main() {
	logger := telemetry.WrapLogger(log.Default())
	metricsStore := logging.NewMetrics()

	logCfg := logging.DefaultConfig()
	if path := os.Getenv("DEADWAVE_LOG_JSON"); path != "" {
		logCfg.EnabledSinks = append(logCfg.EnabledSinks, "json")
		logCfg.JSON.FilePath = path
	}

	var named []logging.NamedSink
	if logCfg.HasSink("console") {
		named = append(named, logging.NamedSink{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout)})
	}
	if logCfg.HasSink("json") {
		file, err := os.Create(logCfg.JSON.FilePath)
		if err != nil {
			log.Fatalf("failed to open json log file: %v", err)
		}
		defer file.Close()
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(file, logCfg.JSON.FlushInterval)})
	}

	router, err := logging.NewRouter(logging.SystemClock{}, logCfg, named)
	if err != nil {
		log.Fatalf("failed to construct logging router: %v", err)
	}
	defer router.Close(context.Background())

	cfg := room.DefaultConfig()
	if path := os.Getenv("DEADWAVE_ROOM"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read room config %s: %v", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("failed to parse room config %s: %v", path, err)
		}
	}

	loaded := room.Load(context.Background(), cfg, router)
	world := sim.NewWorld(loaded, sim.Deps{
		Publisher: router,
		Logger:    logger,
		Metrics:   telemetry.WrapMetrics(metricsStore),
	})
	world.SetPlayerID("player-" + uuid.New().String())

	var hub *Hub
	loop := sim.NewLoop(world, sim.LoopConfig{
		TickRate:        15,
		CatchupMaxTicks: 4,
		CommandCapacity: 256,
		PerActorLimit:   16,
	}, sim.LoopHooks{
		AfterStep: func(result sim.StepResult) {
			hub.Broadcast(result.Snapshot)
		},
	}, logger, telemetry.WrapMetrics(metricsStore), logging.SystemClock{})
	hub = newHub(loop, logger)

	stop := make(chan struct{})
	go loop.Run(stop)
	defer close(stop)

	playerID := world.PlayerID()

	mux := http.NewServeMux()
	mux.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     playerID,
			"roomId": loaded.ID,
			"width":  loaded.Config.Width,
			"height": loaded.Config.Height,
		})
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Printf("websocket upgrade failed: %v", err)
			return
		}
		sub := hub.Subscribe(conn)
		defer hub.Unsubscribe(sub)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			hub.HandleMessage(playerID, raw)
		}
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metricsStore.TelemetrySnapshot())
	})

	addr := os.Getenv("DEADWAVE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Printf("deadwaved listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
