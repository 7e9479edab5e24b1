package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"gp-dashboard/internal/storage"
)

type OrderDashboard interface {
	GetOrderRows(ctx context.Context, date time.Time) ([]*storage.OrderRow, error)
}

type MaterialDashboards interface {
	GetMaterialRows(ctx context.Context, category storage.MaterialCategory, date time.Time) ([]*storage.MaterialRow, error)
}

type ResponseOrders struct {
	Orders []*storage.OrderRow `json:"orders"`
	Status string              `json:"status"`
	Error  string              `json:"error,omitempty"`
}

type ResponseMaterials struct {
	Raw    []*storage.MaterialRow `json:"raw"`
	Sauce  []*storage.MaterialRow `json:"sauce"`
	Vege   []*storage.MaterialRow `json:"vege"`
	Status string                 `json:"status"`
	Error  string                 `json:"error,omitempty"`
}

func GetOrderDashboard(log *slog.Logger, dashboard OrderDashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.dashboard.get.GetOrderDashboard"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			log.Error("invalid date", slog.String("error", err.Error()))
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := dashboard.GetOrderRows(ctx, date)
		if err != nil {
			log.Error("failed to get order dashboard", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseOrders{Error: "failed to load order dashboard"})
			return
		}

		render.JSON(w, r, ResponseOrders{
			Orders: orders,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

// GetMaterialDashboards returns all three category tables for a date. The
// three reads are independent, so they run concurrently.
func GetMaterialDashboards(log *slog.Logger, dashboards MaterialDashboards) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.dashboard.get.GetMaterialDashboards"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			log.Error("invalid date", slog.String("error", err.Error()))
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var raw, sauce, vege []*storage.MaterialRow

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			raw, err = dashboards.GetMaterialRows(gCtx, storage.CategoryRaw, date)
			return err
		})
		g.Go(func() error {
			var err error
			sauce, err = dashboards.GetMaterialRows(gCtx, storage.CategorySauce, date)
			return err
		})
		g.Go(func() error {
			var err error
			vege, err = dashboards.GetMaterialRows(gCtx, storage.CategoryVege, date)
			return err
		})

		if err := g.Wait(); err != nil {
			log.Error("failed to get material dashboards", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseMaterials{Error: "failed to load material dashboards"})
			return
		}

		render.JSON(w, r, ResponseMaterials{
			Raw:    raw,
			Sauce:  sauce,
			Vege:   vege,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
