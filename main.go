package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/bump-journal/internal/config"
	"github.com/msomdec/bump-journal/internal/handler"
	"github.com/msomdec/bump-journal/internal/metrics"
	"github.com/msomdec/bump-journal/internal/progress"
	"github.com/msomdec/bump-journal/internal/repository/sqlite"
	"github.com/msomdec/bump-journal/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost, cfg.TokenTTL)
	milestoneService := service.NewMilestoneService(db.Milestones(), db.Tips())
	tipService := service.NewTipService(db.Tips(), db.Milestones())
	progressService := service.NewProgressService(db.Users(), db.Milestones(), progress.Options{
		AssumedFirstMilestoneWeek: cfg.AssumedFirstMilestoneWeek,
		DefaultWeek:               cfg.DefaultWeek,
	})
	authLimiter := service.NewTokenBucket(cfg.AuthRatePerSecond, float64(cfg.AuthRateBurst))

	router := handler.NewRouter(handler.Deps{
		Auth:         authService,
		Milestones:   milestoneService,
		Tips:         tipService,
		Progress:     progressService,
		AuthLimiter:  authLimiter,
		DB:           db,
		Metrics:      m,
		Gatherer:     reg,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go authLimiter.RunSweeper(ctx, time.Minute, 10*time.Minute)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
