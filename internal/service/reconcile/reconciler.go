package reconcile

import (
	"context"
	"fmt"
	"time"

	"gp-dashboard/internal/storage"
)

// Storage is the slice of the relational store the reconciler needs. The
// change-set is applied by the store in one transaction per category, deletes
// first.
type Storage interface {
	GetMaterialRows(ctx context.Context, category storage.MaterialCategory, date time.Time) ([]*storage.MaterialRow, error)
	ApplyMaterialChanges(ctx context.Context, category storage.MaterialCategory, date time.Time, changes storage.MaterialChanges) error
}

// StockEstimator supplies the opening stock for newly appearing materials.
// Existing rows never get their stock recomputed: that field is
// operator-owned once the row exists.
type StockEstimator interface {
	Estimate(ctx context.Context, co string, asOf time.Time) (int, error)
}

// Result counts the applied changes. A second run on unchanged inputs
// reports all zeros.
type Result struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
}

type Reconciler struct {
	storage Storage
	stock   StockEstimator
}

func New(storage Storage, stock StockEstimator) *Reconciler {
	return &Reconciler{storage: storage, stock: stock}
}

// Reconcile diffs the freshly expanded demand against the category's
// persisted rows for the date:
//
//   - keys present only in the demand are inserted with estimated stock and
//     zeroed manual fields;
//   - keys present on both sides get only their order_qty_after overwritten,
//     by primary key — stock, prepro_qty and ipgo_qty are never touched;
//   - persisted keys absent from the demand are deleted.
//
// Updates that would not change the stored value are skipped, so repeated
// runs on unchanged inputs apply nothing.
func (r *Reconciler) Reconcile(ctx context.Context, category storage.MaterialCategory, date time.Time, demand []storage.MaterialDemand) (Result, error) {
	const op = "service.reconcile.Reconcile"

	existing, err := r.storage.GetMaterialRows(ctx, category, date)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	existByKey := make(map[storage.MaterialKey]*storage.MaterialRow, len(existing))
	for _, row := range existing {
		existByKey[storage.MaterialKey{CO: row.CO, UName: row.UName}] = row
	}

	validKeys := make(map[storage.MaterialKey]bool, len(demand))
	for _, d := range demand {
		validKeys[storage.MaterialKey{CO: d.BCO, UName: d.BUName}] = true
	}

	var changes storage.MaterialChanges

	// Stale keys first; the store applies deletes before inserts so a
	// removed key cannot collide with a same-named material re-added on the
	// same date.
	for _, row := range existing {
		key := storage.MaterialKey{CO: row.CO, UName: row.UName}
		if !validKeys[key] {
			changes.Deletes = append(changes.Deletes, key)
		}
	}

	now := time.Now()
	for _, d := range demand {
		qty := int(d.PlanKG.Round(0).IntPart())

		key := storage.MaterialKey{CO: d.BCO, UName: d.BUName}
		if row, ok := existByKey[key]; ok {
			if row.OrderQtyAfter == qty {
				continue
			}
			changes.Updates = append(changes.Updates, storage.MaterialUpdate{
				PK:            row.PK,
				OrderQtyAfter: qty,
			})
			continue
		}

		stockVal, err := r.stock.Estimate(ctx, d.BCO, date)
		if err != nil {
			return Result{}, fmt.Errorf("%s: stock for %s: %w", op, d.BCO, err)
		}

		changes.Inserts = append(changes.Inserts, storage.MaterialInsert{
			UName:       d.BUName,
			CO:          d.BCO,
			SDate:       date,
			CreatedTime: now,
			Stock:       stockVal,
			OrderQty:    qty,
		})
	}

	if changes.Empty() {
		return Result{}, nil
	}

	if err := r.storage.ApplyMaterialChanges(ctx, category, date, changes); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	return Result{
		Inserted: len(changes.Inserts),
		Updated:  len(changes.Updates),
		Deleted:  len(changes.Deletes),
	}, nil
}
