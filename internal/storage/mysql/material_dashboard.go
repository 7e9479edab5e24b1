package mysql

import (
	"context"
	"fmt"
	"time"

	"gp-dashboard/internal/storage"
)

func (s *Storage) GetMaterialRows(ctx context.Context, category storage.MaterialCategory, date time.Time) ([]*storage.MaterialRow, error) {
	const op = "storage.mysql.material_dashboard.GetMaterialRows"

	table, err := category.Table()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stmt := fmt.Sprintf(`
		SELECT PK, uname, co, stock,
		       order_qty, order_qty_after,
		       prepro_qty, ipgo_qty
		FROM %s
		WHERE DATE(sdate) = ?
		ORDER BY uname, co, PK
	`, table)

	rows, err := s.db.QueryContext(ctx, stmt, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var materials []*storage.MaterialRow
	for rows.Next() {
		var m storage.MaterialRow

		err := rows.Scan(&m.PK, &m.UName, &m.CO, &m.Stock,
			&m.OrderQty, &m.OrderQtyAfter,
			&m.PreproQty, &m.IpgoQty)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		materials = append(materials, &m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return materials, nil
}

// UpdateMaterialManualFields sets the three operator-owned fields by primary
// key. The reconciler never calls this; it belongs to the dashboard edit path.
func (s *Storage) UpdateMaterialManualFields(ctx context.Context, category storage.MaterialCategory, pk int, stock, prepro, ipgo int) error {
	const op = "storage.mysql.material_dashboard.UpdateMaterialManualFields"

	table, err := category.Table()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt := fmt.Sprintf(`
		UPDATE %s
		SET stock = ?, prepro_qty = ?, ipgo_qty = ?
		WHERE PK = ?
	`, table)

	_, err = s.db.ExecContext(ctx, stmt, stock, prepro, ipgo, pk)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ApplyMaterialChanges applies one category's reconcile change-set in a single
// transaction. Stale-key deletes run before updates and inserts so that a
// removed key cannot collide with a same-named material being re-added on the
// same date.
func (s *Storage) ApplyMaterialChanges(ctx context.Context, category storage.MaterialCategory, date time.Time, changes storage.MaterialChanges) error {
	const op = "storage.mysql.material_dashboard.ApplyMaterialChanges"

	if changes.Empty() {
		return nil
	}

	table, err := category.Table()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}

	defer tx.Rollback()

	dateStr := date.Format(dateLayout)

	delStmt := fmt.Sprintf(`
		DELETE FROM %s
		WHERE co = ? AND uname = ? AND DATE(sdate) = ?
	`, table)
	for _, key := range changes.Deletes {
		if _, err := tx.ExecContext(ctx, delStmt, key.CO, key.UName, dateStr); err != nil {
			return fmt.Errorf("%s: delete %s/%s: %w", op, key.CO, key.UName, err)
		}
	}

	upStmt := fmt.Sprintf(`UPDATE %s SET order_qty_after = ? WHERE PK = ?`, table)
	for _, u := range changes.Updates {
		if _, err := tx.ExecContext(ctx, upStmt, u.OrderQtyAfter, u.PK); err != nil {
			return fmt.Errorf("%s: update pk=%d: %w", op, u.PK, err)
		}
	}

	if len(changes.Inserts) > 0 {
		insStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (
				uname, co, sdate, created_time,
				stock, order_qty, order_qty_after,
				prepro_qty, ipgo_qty
			)
			VALUES (?,?,?,?,?,?,?,0,0)
		`, table))
		if err != nil {
			return fmt.Errorf("%s: prepare statement: %w", op, err)
		}

		for _, ins := range changes.Inserts {
			_, err := insStmt.ExecContext(ctx,
				ins.UName, ins.CO, ins.SDate, ins.CreatedTime,
				ins.Stock, ins.OrderQty, ins.OrderQty)
			if err != nil {
				return fmt.Errorf("%s: insert %s/%s: %w", op, ins.CO, ins.UName, err)
			}
		}
	}

	return tx.Commit()
}
