package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/perflab/perfapi/internal/compute"
	"github.com/perflab/perfapi/internal/config"
	"github.com/perflab/perfapi/internal/db"
	"github.com/perflab/perfapi/internal/handlers"
	"github.com/perflab/perfapi/internal/hash"
	"github.com/perflab/perfapi/internal/middleware"
	"github.com/perflab/perfapi/internal/store"
)

func main() {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}

	log := newLogger(cfg)

	dbConn, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	defer dbConn.Close()

	if err := db.Migrate(dbConn, cfg.Mode); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	var (
		st    store.Store
		heavy func(int) int64
	)
	switch cfg.Mode {
	case config.ModeOptimized:
		memo, err := hash.NewMemoized(hash.SinglePass{}, cfg.HashCacheSize)
		if err != nil {
			log.Fatal().Err(err).Msg("hash cache")
		}
		st = store.NewOptimized(dbConn, memo)
		heavy = compute.SumOfSquares
	default:
		st = store.NewNaive(dbConn, hash.Iterated{Rounds: 1000})
		heavy = compute.SumOfSquaresWasteful
	}

	h := handlers.NewHandler(st, cfg.Mode, heavy, cfg.SeedUsers, cfg.SeedPosts, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(cfg.Mode))

	h.Register(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/debug", chimiddleware.Profiler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("mode", cfg.Mode).Str("db", cfg.DBPath).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
