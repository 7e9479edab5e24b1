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
	"gp-dashboard/internal/service/resolver"
	"gp-dashboard/internal/storage"
)

type ProductStorage interface {
	MasterInfo(ctx context.Context, co string) (*storage.MasterInfo, error)
	LatestTodayResidue(ctx context.Context, co string) (int, error)
	ProducedBoxSum(ctx context.Context, co string, date time.Time) (int, error)
	InsertOrderRows(ctx context.Context, operator storage.Operator, orders []*storage.OrderRow) error
}

type OrderResolver interface {
	Resolve(ctx context.Context, co string, vendor resolver.Vendor, date time.Time, pacsu int) (int, error)
}

type Resp struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// AddProduct puts a product onto a date's plan: master lookup for name and
// pack data, resolver for the initial final order quantity, latest
// today-residue as the previous-day carry, and confirmed production packs.
func AddProduct(log *slog.Logger, products ProductStorage, res OrderResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.dashboard.save.AddProduct"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req struct {
			CO       string `json:"co"`
			Retailer string `json:"retailer"`
			Date     string `json:"date"`
			Bigo     string `json:"bigo"`
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

		master, err := products.MasterInfo(ctx, req.CO)
		if err != nil {
			log.Error("master lookup failed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if master == nil {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, Resp{Error: "unknown product code"})
			return
		}

		pacsu := master.Pacsu
		if pacsu <= 0 {
			pacsu = 1
		}

		vendor := resolver.ParseVendor(req.Retailer)
		qty, err := res.Resolve(ctx, req.CO, vendor, date, pacsu)
		if err != nil {
			log.Error("order quantity resolve failed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		prevResidue, err := products.LatestTodayResidue(ctx, req.CO)
		if err != nil {
			log.Error("residue lookup failed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		producedBoxes, err := products.ProducedBoxSum(ctx, req.CO, date)
		if err != nil {
			log.Error("production lookup failed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		operator := operatorctx.FromContext(r.Context())

		row := &storage.OrderRow{
			Bigo:          req.Bigo,
			SDate:         date,
			RName:         req.Retailer,
			UName:         master.UName,
			CO:            master.CO,
			PKG:           master.PackG,
			OrderQty:      qty,
			OrderQtyAfter: qty,
			PrevResidue:   prevResidue,
			ProducedQty:   producedBoxes * pacsu,
		}

		if err := products.InsertOrderRows(ctx, operator, []*storage.OrderRow{row}); err != nil {
			log.Error("insert failed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("product added to plan",
			slog.String("co", master.CO),
			slog.String("date", req.Date),
			slog.Any("operator", operator))

		render.JSON(w, r, Resp{Status: "ok"})
	}
}
