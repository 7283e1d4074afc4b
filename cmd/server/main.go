// Command server runs the national identifier decoding gateway.
//
// main wires dependencies and owns the process lifecycle. Business
// logic lives in the internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	clientshandler "nidegypt/internal/clients/handler"
	clientsports "nidegypt/internal/clients/ports"
	clientsservice "nidegypt/internal/clients/service"
	clientsstore "nidegypt/internal/clients/store"
	httpapi "nidegypt/internal/http"
	"nidegypt/internal/nid/decoder"
	nidhandler "nidegypt/internal/nid/handler"
	nidmetrics "nidegypt/internal/nid/metrics"
	"nidegypt/internal/platform/config"
	"nidegypt/internal/platform/httpserver"
	"nidegypt/internal/platform/logger"
	platformredis "nidegypt/internal/platform/redis"
	rlmetrics "nidegypt/internal/ratelimit/metrics"
	rlmw "nidegypt/internal/ratelimit/middleware"
	rlports "nidegypt/internal/ratelimit/ports"
	rlservice "nidegypt/internal/ratelimit/service"
	"nidegypt/internal/ratelimit/store/window"
	"nidegypt/internal/usage"
	usageports "nidegypt/internal/usage/ports"
	usagestore "nidegypt/internal/usage/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New()

	health := map[string]func(context.Context) error{}

	// Optional Postgres: clients and usage fall back to memory without it.
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err == nil {
			err = db.Ping()
		}
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		health["postgres"] = db.PingContext
		log.Info("postgres connected")
	}

	// Optional Redis: without it rate-limit windows are node-local.
	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		health["redis"] = redisClient.Health
		log.Info("redis connected")
	}

	var clientStore clientsports.Store = clientsstore.NewMemoryStore()
	var usageStore usageports.Store = usagestore.NewMemoryStore()
	if db != nil {
		clientStore = clientsstore.NewPostgresStore(db)
		usageStore = usagestore.NewPostgresStore(db)
	}
	var windowStore rlports.WindowStore = window.NewMemoryStore()
	if redisClient != nil {
		windowStore = window.NewRedisStore(redisClient.Client)
	}

	clientsSvc, err := clientsservice.New(clientStore, []byte(cfg.JWTSigningKey), cfg.TokenTTL,
		clientsservice.WithLogger(log))
	if err != nil {
		log.Error("clients service init failed", "error", err)
		os.Exit(1)
	}

	rlSvc, err := rlservice.New(windowStore, cfg.MaxRequests, cfg.Window(),
		rlservice.WithLogger(log),
		rlservice.WithMetrics(rlmetrics.New()))
	if err != nil {
		log.Error("rate limit service init failed", "error", err)
		os.Exit(1)
	}

	recorder := usage.NewRecorder(log)
	worker := usage.NewWorker(usageStore, recorder, log)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("usage worker stopped", "error", err)
		}
	}()

	dec := decoder.New(decoder.WithChecksum(decoder.ChecksumByName(cfg.ChecksumMode)))

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       log,
		NID:          nidhandler.New(dec, log, nidhandler.WithMetrics(nidmetrics.New())),
		Clients:      clientshandler.New(clientsSvc, log),
		RateLimit:    rlmw.New(rlSvc, log),
		Usage:        recorder,
		Validator:    clientsSvc,
		HealthChecks: health,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting nid-egypt gateway",
		"addr", cfg.Addr,
		"max_requests", cfg.MaxRequests,
		"window_seconds", cfg.WindowSeconds,
		"checksum", cfg.ChecksumMode,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Stop the usage worker after the server so in-flight requests
	// still get recorded; Run drains the buffer before returning.
	stopWorker()
	<-workerDone
}
