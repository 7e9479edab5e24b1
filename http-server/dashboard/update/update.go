package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	operatorctx "gp-dashboard/internal/middleware/operator"
	"gp-dashboard/internal/storage"
)

type OrderFieldUpdater interface {
	UpdateOrderField(ctx context.Context, pk int, field string, value any) error
}

type MaterialFieldUpdater interface {
	UpdateMaterialManualFields(ctx context.Context, category storage.MaterialCategory, pk int, stock, prepro, ipgo int) error
}

type Resp struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// UpdateOrderField edits one whitelisted numeric field on an order row.
func UpdateOrderField(log *slog.Logger, orders OrderFieldUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.dashboard.update.UpdateOrderField"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		pk, err := strconv.Atoi(chi.URLParam(r, "pk"))
		if err != nil {
			http.Error(w, "Invalid pk", http.StatusBadRequest)
			return
		}

		var req struct {
			Field string `json:"field"`
			Value any    `json:"value"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if !storage.EditableOrderFields[req.Field] {
			http.Error(w, "Field is not editable", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := orders.UpdateOrderField(ctx, pk, req.Field, req.Value); err != nil {
			log.Error("order field update failed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("order field updated",
			slog.Int("pk", pk),
			slog.String("field", req.Field),
			slog.Any("operator", operatorctx.FromContext(r.Context())))

		render.JSON(w, r, Resp{Status: "ok"})
	}
}

// UpdateMaterialFields edits the operator-owned fields of a material row.
// The reconciler never writes these, so edits survive planning runs.
func UpdateMaterialFields(log *slog.Logger, materials MaterialFieldUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.dashboard.update.UpdateMaterialFields"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		category, err := storage.ParseMaterialCategory(chi.URLParam(r, "category"))
		if err != nil {
			http.Error(w, "Unknown category", http.StatusBadRequest)
			return
		}

		pk, err := strconv.Atoi(chi.URLParam(r, "pk"))
		if err != nil {
			http.Error(w, "Invalid pk", http.StatusBadRequest)
			return
		}

		var req struct {
			Stock     int `json:"stock"`
			PreproQty int `json:"prepro_qty"`
			IpgoQty   int `json:"ipgo_qty"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := materials.UpdateMaterialManualFields(ctx, category, pk, req.Stock, req.PreproQty, req.IpgoQty); err != nil {
			log.Error("material fields update failed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("material manual fields updated",
			slog.String("category", category.String()),
			slog.Int("pk", pk),
			slog.Any("operator", operatorctx.FromContext(r.Context())))

		render.JSON(w, r, Resp{Status: "ok"})
	}
}
