package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"fx-alert-hub/internal/application/monitor"
	"fx-alert-hub/internal/infrastructure/config"
	"fx-alert-hub/internal/infrastructure/db"
	httpapi "fx-alert-hub/internal/interface/http"
)

func main() {
	cfg, err := config.LoadFromFile("config.yaml")
	if err != nil {
		log.Fatalf("CRITICAL: load config failed: %v", err)
	}
	log.Printf("configuration loaded (HTTP_ADDR=%s)", cfg.HTTP.Addr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Printf("testing database connection...")
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("CRITICAL: database connection failed: %v", err)
	}
	if pool == nil {
		log.Fatal("CRITICAL: DB_DSN is required")
	}
	defer pool.Close()
	log.Printf("database connected successfully")

	if _, err := os.Stat("web"); os.IsNotExist(err) {
		log.Printf("warning: 'web' directory not found in current directory")
	}

	apiServer := httpapi.NewServer(cfg, pool)

	if cfg.Monitor.Enabled {
		worker := monitor.NewWorker(apiServer.Checker(), cfg.Monitor.Interval)
		worker.Start()
		defer worker.Stop()
		log.Printf("alert monitor started (interval=%s)", cfg.Monitor.Interval)
	} else {
		log.Printf("alert monitor disabled; use POST /api/check-alerts or the checkalerts CLI")
	}

	addr := cfg.HTTP.Addr
	log.Printf("starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, apiServer.Handler()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
