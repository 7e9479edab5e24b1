package expander

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gp-dashboard/internal/storage"
)

// Filter selects the material side of the recipe join: a substring keyword on
// the material name, an explicit material-code list, or both (OR-combined).
// The code list exists so a category like vegetables can force-include
// materials regardless of naming convention.
type Filter struct {
	Keyword string
	BCOs    []string
}

// RecipeStorage is the slice of the relational store the expander needs.
type RecipeStorage interface {
	RecipeLinks(ctx context.Context, coList []string, keyword string, bcoList []string) ([]*storage.RecipeLink, error)
}

type Expander struct {
	storage RecipeStorage
}

func New(storage RecipeStorage) *Expander {
	return &Expander{storage: storage}
}

var hundred = decimal.NewFromInt(100)

// Expand joins the date's order rows through the bill-of-materials into
// per-material kilogram demand: kg = production plan packs × pack weight ×
// yield ratio / 100, summed over all products sharing a material. Products
// without a matching recipe link contribute nothing and are dropped silently.
// An empty result is a valid "no demand" state, not an error.
func (e *Expander) Expand(ctx context.Context, orders []*storage.OrderRow, f Filter) ([]storage.MaterialDemand, error) {
	const op = "service.expander.Expand"

	if len(orders) == 0 {
		return nil, nil
	}

	var coList []string
	seen := make(map[string]bool)
	for _, o := range orders {
		co := strings.TrimSpace(o.CO)
		if co == "" || seen[co] {
			continue
		}
		seen[co] = true
		coList = append(coList, co)
	}
	if len(coList) == 0 {
		return nil, nil
	}

	links, err := e.storage.RecipeLinks(ctx, coList, f.Keyword, f.BCOs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(links) == 0 {
		return nil, nil
	}

	linksByCO := make(map[string][]*storage.RecipeLink)
	for _, l := range links {
		linksByCO[l.CO] = append(linksByCO[l.CO], l)
	}

	type aggregate struct {
		demand storage.MaterialDemand
		order  int
	}

	sums := make(map[storage.MaterialKey]*aggregate)
	var next int

	for _, o := range orders {
		co := strings.TrimSpace(o.CO)

		plan := decimal.NewFromInt(int64(o.ProductionPlan))
		pkg := decimal.NewFromFloat(o.PKG)

		for _, l := range linksByCO[co] {
			sa := decimal.NewFromFloat(l.SA)

			kg := plan.Mul(pkg).Mul(sa).Div(hundred)
			if kg.Sign() <= 0 {
				continue
			}

			key := storage.MaterialKey{CO: l.BCO, UName: l.BUName}
			agg, ok := sums[key]
			if !ok {
				agg = &aggregate{
					demand: storage.MaterialDemand{BCO: l.BCO, BUName: l.BUName},
					order:  next,
				}
				next++
				sums[key] = agg
			}
			agg.demand.PlanKG = agg.demand.PlanKG.Add(kg)
		}
	}

	if len(sums) == 0 {
		return nil, nil
	}

	result := make([]storage.MaterialDemand, len(sums))
	for _, agg := range sums {
		result[agg.order] = agg.demand
	}

	return result, nil
}
