package stock

import (
	"context"
	"fmt"
	"time"
)

// LedgerStorage supplies per-receiving-location inventory nets.
type LedgerStorage interface {
	StockGroupNets(ctx context.Context, co string, asOf time.Time) ([]int, error)
}

type Estimator struct {
	storage LedgerStorage
}

func New(storage LedgerStorage) *Estimator {
	return &Estimator{storage: storage}
}

// Estimate sums the strictly positive per-location nets for a material up to
// the as-of date. Locations with a zero or negative net are excluded from the
// sum entirely, not floored: a shortfall in one location does not offset
// surplus in another. This asymmetric clamp is deliberate and must not be
// collapsed into a single ungrouped sum.
func (e *Estimator) Estimate(ctx context.Context, co string, asOf time.Time) (int, error) {
	const op = "service.stock.Estimate"

	nets, err := e.storage.StockGroupNets(ctx, co, asOf)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	total := 0
	for _, net := range nets {
		if net > 0 {
			total += net
		}
	}

	return total, nil
}
