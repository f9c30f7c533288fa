package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/flightdiversions/dashboard/dashboard"
	"github.com/flightdiversions/dashboard/handlers"
	"github.com/flightdiversions/dashboard/internal/config"
	"github.com/flightdiversions/dashboard/internal/log"
	"github.com/flightdiversions/dashboard/models"
	"github.com/flightdiversions/dashboard/repository"
)

func main() {
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()
	if err := log.Init(cfg.LogDebug); err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Infow("Starting flight diversion dashboard",
		"source", cfg.DataSource,
		"top_airports", cfg.TopAirports,
		"marker_scale", cfg.MarkerScale)

	ds, err := loadDataset(cfg)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	status := ds.Status(cfg.DataSource)
	log.Infow("Dataset loaded",
		"records", status.Records,
		"airports", status.Airports,
		"airlines", status.Airlines,
		"min_date", status.MinDate,
		"max_date", status.MaxDate)

	binder, err := dashboard.NewBinder(ds, dashboard.Options{
		TopAirports:     cfg.TopAirports,
		MarkerScale:     cfg.MarkerScale,
		DefaultAirlines: cfg.DefaultAirlines,
	})
	if err != nil {
		log.Fatalf("Failed to compute initial dashboard: %v", err)
	}
	binder.Subscribe(func(fs models.FilterState, payload *models.DashboardPayload) {
		log.Debugw("Filter updated",
			"airlines", fs.Airlines,
			"start", fs.Start.Format(models.DateLayout),
			"end", fs.End.Format(models.DateLayout),
			"filtered", payload.Summary.TotalDiversions,
			"snapshot", payload.SnapshotID.String())
	})

	dashboardHandler := handlers.NewDashboardHandler(binder)
	healthHandler := handlers.NewHealthHandler(binder, cfg.DataSource)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(log.HTTPLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	handlers.Mount(r, dashboardHandler, healthHandler)

	// Legacy ping endpoint
	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	// Static file serving (if configured)
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("API server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}
	log.Info("Goodbye!")
}

// loadDataset reads both tables from the configured source and indexes them
func loadDataset(cfg *config.Config) (*dashboard.Dataset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	src, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	records, airports, err := repository.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return dashboard.NewDataset(records, airports)
}
