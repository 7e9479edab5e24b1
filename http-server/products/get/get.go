package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gp-dashboard/internal/storage"
)

type DefaultProducts interface {
	DefaultProducts(ctx context.Context) ([]*storage.DefaultProduct, error)
}

type ResponseProducts struct {
	Products []*storage.DefaultProduct `json:"products"`
	Status   string                    `json:"status"`
	Error    string                    `json:"error,omitempty"`
}

// GetDefaultProducts lists the tracked (product, vendor) pairs refreshed on
// every planning run.
func GetDefaultProducts(log *slog.Logger, products DefaultProducts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.get.GetDefaultProducts"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := products.DefaultProducts(ctx)
		if err != nil {
			log.Error("failed to list default products", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseProducts{Error: "failed to list default products"})
			return
		}

		render.JSON(w, r, ResponseProducts{
			Products: list,
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
