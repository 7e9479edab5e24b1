package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gp-dashboard/internal/config"
	"gp-dashboard/internal/service/expander"
	"gp-dashboard/internal/service/planner"
	"gp-dashboard/internal/service/reconcile"
	"gp-dashboard/internal/service/resolver"
	"gp-dashboard/internal/service/stock"
	"gp-dashboard/internal/storage"
	"gp-dashboard/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	store, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}

	orderResolver := resolver.New(store)
	demandExpander := expander.New(store)
	stockEstimator := stock.New(store)
	reconciler := reconcile.New(store, stockEstimator)
	planSvc := planner.New(log, store, orderResolver, demandExpander, reconciler)

	if cfg.PlanningInterval > 0 {
		go runPeriodicPlanning(log, planSvc, cfg.PlanningInterval)
	}

	log.Info("server started", slog.String("address", cfg.Address))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, store, planSvc, orderResolver),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	err = srv.ListenAndServe()
	if err != nil {
		log.Error("failed start server", slog.String("error", err.Error()))
	}

	log.Error("server stopped")
}

// runPeriodicPlanning re-runs the current date's planning cycle on a timer.
// Same-date triggers from the HTTP surface collapse into these runs through
// the planner's singleflight guard.
func runPeriodicPlanning(log *slog.Logger, planSvc *planner.Planner, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	operator := storage.Operator{Name: "system"}

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

		report, err := planSvc.RunForDate(ctx, operator, time.Now())
		cancel()

		if err != nil {
			log.Error("periodic planning run failed", slog.String("error", err.Error()))
			continue
		}
		if report.HasFailures() {
			log.Warn("periodic planning run finished with failures", slog.String("date", report.Date))
		}
	}
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	// Errors additionally go to the error log file.
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		cloned := r.Clone()
		_ = h.errorHandler.Handle(ctx, cloned)
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	var level slog.Level = slog.LevelDebug
	switch env {
	case envProd:
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envLocal:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("cannot open error log file", "error", err)
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	handler := &dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	}

	return slog.New(handler)
}
