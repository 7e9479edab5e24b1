package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"gp-dashboard/internal/constants"
	"gp-dashboard/internal/service/expander"
	"gp-dashboard/internal/service/reconcile"
	"gp-dashboard/internal/service/resolver"
	"gp-dashboard/internal/storage"
)

type Storage interface {
	DefaultProducts(ctx context.Context) ([]*storage.DefaultProduct, error)
	PacsuByCO(ctx context.Context, co string) (int, error)
	UpdateOrderQtyAfter(ctx context.Context, date time.Time, co string, qty int) error
	GetOrderRows(ctx context.Context, date time.Time) ([]*storage.OrderRow, error)
}

type OrderResolver interface {
	Resolve(ctx context.Context, co string, vendor resolver.Vendor, date time.Time, pacsu int) (int, error)
}

type DemandExpander interface {
	Expand(ctx context.Context, orders []*storage.OrderRow, f expander.Filter) ([]storage.MaterialDemand, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, category storage.MaterialCategory, date time.Time, demand []storage.MaterialDemand) (reconcile.Result, error)
}

// CategoryOutcome is one material category's pass. Err is set when expansion
// or reconciliation failed for this category; the other categories still run.
type CategoryOutcome struct {
	Result reconcile.Result `json:"result"`
	Err    string           `json:"error,omitempty"`
}

// Report lets the caller tell "ran, found nothing to plan" (zero counts, no
// errors) apart from "failed to run".
type Report struct {
	Date          string                     `json:"date"`
	OrdersUpdated int                        `json:"orders_updated"`
	OrderErrors   []string                   `json:"order_errors,omitempty"`
	Categories    map[string]CategoryOutcome `json:"categories"`
}

func (r *Report) HasFailures() bool {
	if len(r.OrderErrors) > 0 {
		return true
	}
	for _, c := range r.Categories {
		if c.Err != "" {
			return true
		}
	}
	return false
}

type Planner struct {
	log        *slog.Logger
	storage    Storage
	resolver   OrderResolver
	expander   DemandExpander
	reconciler Reconciler
	group      singleflight.Group
}

func New(log *slog.Logger, st Storage, res OrderResolver, exp DemandExpander, rec Reconciler) *Planner {
	return &Planner{
		log:        log,
		storage:    st,
		resolver:   res,
		expander:   exp,
		reconciler: rec,
	}
}

// RunForDate executes the full planning cycle for one date: refresh every
// tracked product's final order quantity, then expand and reconcile the three
// material categories. Concurrent triggers for the same date are collapsed
// into one run through singleflight; callers of a collapsed trigger receive
// the shared report.
func (p *Planner) RunForDate(ctx context.Context, operator storage.Operator, date time.Time) (*Report, error) {
	key := date.Format("2006-01-02")

	v, err, shared := p.group.Do(key, func() (interface{}, error) {
		return p.run(ctx, operator, date)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.log.Debug("planning run shared with concurrent trigger", slog.String("date", key))
	}

	return v.(*Report), nil
}

func (p *Planner) run(ctx context.Context, operator storage.Operator, date time.Time) (*Report, error) {
	const op = "service.planner.run"

	log := p.log.With(
		slog.String("op", op),
		slog.String("date", date.Format("2006-01-02")),
		slog.Any("operator", operator),
	)

	report := &Report{
		Date:       date.Format("2006-01-02"),
		Categories: make(map[string]CategoryOutcome),
	}

	products, err := p.storage.DefaultProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, product := range products {
		vendor := resolver.ParseVendor(product.Retailer)

		pacsu, err := p.storage.PacsuByCO(ctx, product.CO)
		if err != nil {
			report.OrderErrors = append(report.OrderErrors, fmt.Sprintf("%s: %v", product.CO, err))
			continue
		}

		qty, err := p.resolver.Resolve(ctx, product.CO, vendor, date, pacsu)
		if err != nil {
			report.OrderErrors = append(report.OrderErrors, fmt.Sprintf("%s: %v", product.CO, err))
			continue
		}

		if err := p.storage.UpdateOrderQtyAfter(ctx, date, product.CO, qty); err != nil {
			report.OrderErrors = append(report.OrderErrors, fmt.Sprintf("%s: %v", product.CO, err))
			continue
		}

		report.OrdersUpdated++
	}

	orders, err := p.storage.GetOrderRows(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(orders) == 0 {
		log.Info("no order rows for date, material dashboards left untouched")
		return report, nil
	}

	passes := []struct {
		category storage.MaterialCategory
		filter   expander.Filter
	}{
		{storage.CategoryRaw, expander.Filter{Keyword: constants.RawMaterialKeyword}},
		{storage.CategorySauce, expander.Filter{Keyword: constants.SauceMaterialKeyword}},
		{storage.CategoryVege, expander.Filter{BCOs: constants.VegeMaterialCodes}},
	}

	for _, pass := range passes {
		outcome := p.runCategory(ctx, pass.category, pass.filter, date, orders)
		report.Categories[pass.category.String()] = outcome

		if outcome.Err != "" {
			log.Error("category reconciliation failed",
				slog.String("category", pass.category.String()),
				slog.String("error", outcome.Err))
		} else {
			log.Info("category reconciled",
				slog.String("category", pass.category.String()),
				slog.Int("inserted", outcome.Result.Inserted),
				slog.Int("updated", outcome.Result.Updated),
				slog.Int("deleted", outcome.Result.Deleted))
		}
	}

	return report, nil
}

// runCategory expands and reconciles one material category. An empty
// aggregate means "no demand this date": the category's persisted rows are
// left as they are rather than treated as stale, since an empty expansion is
// indistinguishable from missing recipe data.
func (p *Planner) runCategory(ctx context.Context, category storage.MaterialCategory, f expander.Filter, date time.Time, orders []*storage.OrderRow) CategoryOutcome {
	demand, err := p.expander.Expand(ctx, orders, f)
	if err != nil {
		return CategoryOutcome{Err: err.Error()}
	}
	if len(demand) == 0 {
		return CategoryOutcome{}
	}

	result, err := p.reconciler.Reconcile(ctx, category, date, demand)
	if err != nil {
		return CategoryOutcome{Err: err.Error()}
	}

	return CategoryOutcome{Result: result}
}
