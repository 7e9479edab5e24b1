package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gp-dashboard/internal/constants"
)

// resolveCostco is the only strategy with calendar logic. The step order is
// load-bearing: day shift first, then the Monday correction, then the Sunday
// veto on the corrected date, then the ledger lookup, then the optional
// pack-weight division. Reordering the Monday and Sunday steps changes which
// dates get vetoed.
func (r *Resolver) resolveCostco(ctx context.Context, co string, date time.Time) (int, error) {
	profile, ok := constants.CostcoProfiles[co]
	if !ok {
		return 0, nil
	}

	target := date.AddDate(0, 0, profile.DayShift)

	if target.Weekday() == time.Monday {
		target = target.AddDate(0, 0, profile.MondayShift)
	}

	if target.Weekday() == time.Sunday && !profile.SunProd {
		return 0, nil
	}

	total, err := r.storage.CostcoPackSum(ctx, co, target)
	if err != nil {
		return 0, fmt.Errorf("costco: %w", err)
	}

	// Self-managed (자율) products ledger raw weight instead of pack counts;
	// divide by the per-pack weight and truncate to whole packs.
	if profile.Category == constants.CostcoSelfManaged && profile.PackWeight > 0 {
		packs := decimal.NewFromInt(int64(total)).
			Div(decimal.NewFromFloat(profile.PackWeight)).
			IntPart()
		return int(packs), nil
	}

	return total, nil
}
