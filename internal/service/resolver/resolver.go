package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Vendor is the closed set of retailers the engine can resolve order
// quantities for. Dispatching on the enum instead of raw retailer strings
// keeps the per-vendor multiplier rules exhaustive; a typo in stored data
// parses to VendorUnknown instead of silently matching the wrong rule.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorCoson
	VendorCostco
	VendorEmart
	VendorHomeplus
	VendorKurly
)

var vendorNames = map[Vendor]string{
	VendorCoson:    "코스온",
	VendorCostco:   "코스트코",
	VendorEmart:    "이마트",
	VendorHomeplus: "홈플러스",
	VendorKurly:    "마켓컬리",
}

func (v Vendor) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return fmt.Sprintf("vendor(%d)", int(v))
}

// ParseVendor maps a stored retailer name to its vendor. Unrecognized names
// yield VendorUnknown, which resolves to 0 packs by contract.
func ParseVendor(s string) Vendor {
	s = strings.TrimSpace(s)
	for v, name := range vendorNames {
		if s == name {
			return v
		}
	}
	return VendorUnknown
}

// LedgerStorage is the slice of the relational store the resolver needs.
type LedgerStorage interface {
	HomeplusBoxSum(ctx context.Context, co string, date time.Time) (int, error)
	EmartCO(ctx context.Context, tco string) (string, error)
	MpanPackSum(ctx context.Context, co string, date time.Time) (int, error)
	CosonLCode(ctx context.Context, co string) (string, error)
	CosonFinalQty(ctx context.Context, lcode string, date time.Time) (int, error)
	CostcoPackSum(ctx context.Context, co string, date time.Time) (int, error)
}

type Resolver struct {
	storage LedgerStorage
}

func New(storage LedgerStorage) *Resolver {
	return &Resolver{storage: storage}
}

// Resolve computes the final order quantity in packs for one product and
// date. Missing upstream rows resolve to 0 packs, never an error: absence of
// ledger data is a valid "nothing to order" state. Query failures are
// surfaced so the caller does not mistake an unreachable store for zero
// demand.
func (r *Resolver) Resolve(ctx context.Context, co string, vendor Vendor, date time.Time, pacsu int) (int, error) {
	if pacsu <= 0 {
		pacsu = 1
	}

	switch vendor {
	case VendorHomeplus:
		return r.resolveHomeplus(ctx, co, date, pacsu)
	case VendorEmart:
		return r.resolveEmart(ctx, co, date, pacsu)
	case VendorKurly:
		return r.resolveKurly(ctx, co, date)
	case VendorCoson:
		return r.resolveCoson(ctx, co, date)
	case VendorCostco:
		return r.resolveCostco(ctx, co, date)
	case VendorUnknown:
		return 0, nil
	}

	return 0, nil
}

// Homeplus ledger records boxes; convert with the packs-per-box factor.
func (r *Resolver) resolveHomeplus(ctx context.Context, co string, date time.Time, pacsu int) (int, error) {
	boxes, err := r.storage.HomeplusBoxSum(ctx, co, date)
	if err != nil {
		return 0, fmt.Errorf("homeplus: %w", err)
	}

	return boxes * pacsu, nil
}

// Emart orders are keyed by an internal code behind the MMASTER
// cross-reference; the looked-up quantity is then box-to-pack converted.
func (r *Resolver) resolveEmart(ctx context.Context, co string, date time.Time, pacsu int) (int, error) {
	internal, err := r.storage.EmartCO(ctx, co)
	if err != nil {
		return 0, fmt.Errorf("emart: %w", err)
	}
	if internal == "" {
		return 0, nil
	}

	packs, err := r.storage.MpanPackSum(ctx, internal, date)
	if err != nil {
		return 0, fmt.Errorf("emart: %w", err)
	}

	return packs * pacsu, nil
}

// Kurly shares the Emart cross-reference and ledger but its quantities are
// already packs, so no multiplier is applied.
func (r *Resolver) resolveKurly(ctx context.Context, co string, date time.Time) (int, error) {
	internal, err := r.storage.EmartCO(ctx, co)
	if err != nil {
		return 0, fmt.Errorf("kurly: %w", err)
	}
	if internal == "" {
		return 0, nil
	}

	packs, err := r.storage.MpanPackSum(ctx, internal, date)
	if err != nil {
		return 0, fmt.Errorf("kurly: %w", err)
	}

	return packs, nil
}

// Coson publishes a final quantity per ledger code; the product master maps
// our code to theirs.
func (r *Resolver) resolveCoson(ctx context.Context, co string, date time.Time) (int, error) {
	lcode, err := r.storage.CosonLCode(ctx, co)
	if err != nil {
		return 0, fmt.Errorf("coson: %w", err)
	}
	if lcode == "" {
		return 0, nil
	}

	qty, err := r.storage.CosonFinalQty(ctx, lcode, date)
	if err != nil {
		return 0, fmt.Errorf("coson: %w", err)
	}

	return qty, nil
}
