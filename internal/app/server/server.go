package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"insights/internal/domain/analytics"
	"insights/internal/platform/config"
	"insights/internal/platform/db"
	"insights/internal/platform/jobs"
	"insights/internal/platform/narrative"
	analyticshandler "insights/internal/transport/http/handlers/analytics"
	authhandler "insights/internal/transport/http/handlers/auth"
	"insights/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	store := analytics.NewStore(pool)
	engine := analytics.NewEngine(store, cfg.AggregationWorkers)
	provider := narrative.New(narrative.Options{
		BaseURL: cfg.NarrativeBaseURL,
		APIKey:  cfg.NarrativeAPIKey,
		Model:   cfg.NarrativeModel,
		Timeout: cfg.NarrativeTimeout,
	})

	orchestrator := analytics.NewOrchestrator(engine, provider, cfg.NarrativeMaxTokens)
	var policy analytics.SnapshotPolicy
	if cfg.SnapshotEnabled {
		if day, ok := cfg.SnapshotDay(); ok {
			policy = analytics.WeekdaySnapshotPolicy(day)
			orchestrator.Snapshots = store
			orchestrator.Policy = policy
		}
	}

	jobService := jobs.New(store, orchestrator, cfg, policy)
	jobService.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		loginHandler := authhandler.NewHandler(pool, cfg.JWTSecret)
		r.Post("/auth/login", loginHandler.HandleLogin)

		reportHandler := analyticshandler.NewHandler(orchestrator)
		reportHandler.RegisterRoutes(r)
	})

	log.Printf("analytics server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
