package planning

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	operatorctx "gp-dashboard/internal/middleware/operator"
	"gp-dashboard/internal/service/planner"
	"gp-dashboard/internal/storage"
)

type Runner interface {
	RunForDate(ctx context.Context, operator storage.Operator, date time.Time) (*planner.Report, error)
}

type Resp struct {
	Report *planner.Report `json:"report,omitempty"`
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// Run triggers the full planning cycle for a date. Silent mode suppresses the
// report body (204), useful for timer-driven triggers; the run itself is
// identical. Per-category failures come back inside the report with 207,
// whole-run failures as 500.
func Run(log *slog.Logger, runner Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.planning.Run"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req struct {
			Date   string `json:"date"`
			Silent bool   `json:"silent"`
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

		ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
		defer cancel()

		operator := operatorctx.FromContext(r.Context())

		report, err := runner.RunForDate(ctx, operator, date)
		if err != nil {
			log.Error("planning run failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Resp{Error: "planning run failed"})
			return
		}

		if req.Silent {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		status := "ok"
		code := http.StatusOK
		if report.HasFailures() {
			status = "partial"
			code = http.StatusMultiStatus
		}

		w.WriteHeader(code)
		render.JSON(w, r, Resp{
			Report: report,
			Status: status,
		})
	}
}
