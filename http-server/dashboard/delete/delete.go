package delete

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	operatorctx "gp-dashboard/internal/middleware/operator"
)

type OrderDeleter interface {
	DeleteOrderRows(ctx context.Context, date time.Time, unames []string) error
	PurgeDate(ctx context.Context, date time.Time) error
}

type Resp struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// DeleteOrderRows removes named products from a date's plan, or, when no
// names are given and purge is set, wipes the date across the order and all
// three material dashboards.
func DeleteOrderRows(log *slog.Logger, orders OrderDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.dashboard.delete.DeleteOrderRows"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req struct {
			Date   string   `json:"date"`
			UNames []string `json:"unames"`
			Purge  bool     `json:"purge"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		operator := operatorctx.FromContext(r.Context())

		switch {
		case req.Purge:
			err = orders.PurgeDate(ctx, date)
		case len(req.UNames) > 0:
			err = orders.DeleteOrderRows(ctx, date, req.UNames)
		default:
			http.Error(w, "Nothing to delete", http.StatusBadRequest)
			return
		}

		if err != nil {
			log.Error("delete failed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("order rows deleted",
			slog.String("date", req.Date),
			slog.Bool("purge", req.Purge),
			slog.Int("unames", len(req.UNames)),
			slog.Any("operator", operator))

		render.JSON(w, r, Resp{Status: "ok"})
	}
}
