package save

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

type ProductWriter interface {
	AddDefaultProduct(ctx context.Context, co, retailer string) error
	RemoveDefaultProduct(ctx context.Context, co, retailer string) error
}

type Resp struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func AddDefaultProduct(log *slog.Logger, products ProductWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.save.AddDefaultProduct"

		handleProductChange(w, r, log, op, products.AddDefaultProduct)
	}
}

func RemoveDefaultProduct(log *slog.Logger, products ProductWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.save.RemoveDefaultProduct"

		handleProductChange(w, r, log, op, products.RemoveDefaultProduct)
	}
}

func handleProductChange(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, change func(ctx context.Context, co, retailer string) error) {
	log = log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req struct {
		CO       string `json:"co"`
		Retailer string `json:"retailer"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.CO == "" || req.Retailer == "" {
		http.Error(w, "Missing co or retailer", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := change(ctx, req.CO, req.Retailer); err != nil {
		log.Error("default product change failed", slog.String("error", err.Error()))
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	log.Info("default product list changed",
		slog.String("co", req.CO),
		slog.String("retailer", req.Retailer),
		slog.Any("operator", operatorctx.FromContext(r.Context())))

	render.JSON(w, r, Resp{Status: "ok"})
}
