package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gp-dashboard/internal/storage"
)

func (s *Storage) GetOrderRows(ctx context.Context, date time.Time) ([]*storage.OrderRow, error) {
	const op = "storage.mysql.order_dashboard.GetOrderRows"

	stmt := `
		SELECT PK, bigo, sdate, rname, uname, co, pkg,
		       order_qty, order_qty_after,
		       prev_residue, production_plan, produced_qty,
		       today_residue, work_status, hide
		FROM ORDER_DASHBOARD
		WHERE DATE(sdate) = ?
		ORDER BY rname, uname, PK
	`

	rows, err := s.db.QueryContext(ctx, stmt, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.OrderRow
	for rows.Next() {
		var o storage.OrderRow
		var bigo, workStatus sql.NullString

		err := rows.Scan(&o.PK, &bigo, &o.SDate, &o.RName, &o.UName, &o.CO, &o.PKG,
			&o.OrderQty, &o.OrderQtyAfter,
			&o.PrevResidue, &o.ProductionPlan, &o.ProducedQty,
			&o.TodayResidue, &workStatus, &o.Hide)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		o.Bigo = bigo.String
		o.WorkStatus = workStatus.String

		orders = append(orders, &o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

// UpdateOrderQtyAfter overwrites the resolver-owned final order quantity for
// one product on one date.
func (s *Storage) UpdateOrderQtyAfter(ctx context.Context, date time.Time, co string, qty int) error {
	const op = "storage.mysql.order_dashboard.UpdateOrderQtyAfter"

	stmt := `UPDATE ORDER_DASHBOARD SET order_qty_after = ? WHERE DATE(sdate) = ? AND co = ?`

	_, err := s.db.ExecContext(ctx, stmt, qty, date.Format(dateLayout), co)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UpdateOrderField sets one operator-editable numeric field by primary key.
// The field name is checked against the whitelist before being interpolated.
func (s *Storage) UpdateOrderField(ctx context.Context, pk int, field string, value any) error {
	const op = "storage.mysql.order_dashboard.UpdateOrderField"

	if !storage.EditableOrderFields[field] {
		return fmt.Errorf("%s: field %q is not editable", op, field)
	}

	stmt := fmt.Sprintf(`UPDATE ORDER_DASHBOARD SET %s = ? WHERE PK = ?`, field)

	_, err := s.db.ExecContext(ctx, stmt, value, pk)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) InsertOrderRows(ctx context.Context, operator storage.Operator, orders []*storage.OrderRow) error {
	const op = "storage.mysql.order_dashboard.InsertOrderRows"

	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ORDER_DASHBOARD (
			bigo, sdate, created_time, id,
			rname, uname, co, pkg,
			order_qty, order_qty_after, prev_residue, production_plan,
			produced_qty, today_residue
		)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}

	now := time.Now()
	for _, o := range orders {
		_, err := stmt.ExecContext(ctx,
			o.Bigo, o.SDate, now, operator.Name,
			o.RName, o.UName, o.CO, o.PKG,
			o.OrderQty, o.OrderQtyAfter, o.PrevResidue, o.ProductionPlan,
			o.ProducedQty, o.TodayResidue)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return tx.Commit()
}

func (s *Storage) DeleteOrderRows(ctx context.Context, date time.Time, unames []string) error {
	const op = "storage.mysql.order_dashboard.DeleteOrderRows"

	if len(unames) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(unames))
	placeholders = placeholders[:len(placeholders)-1]

	stmt := fmt.Sprintf(`
		DELETE FROM ORDER_DASHBOARD
		WHERE DATE(sdate) = ? AND uname IN (%s)
	`, placeholders)

	args := make([]interface{}, 0, len(unames)+1)
	args = append(args, date.Format(dateLayout))
	for _, u := range unames {
		args = append(args, u)
	}

	_, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PurgeDate removes the date's rows from the order dashboard and all three
// material dashboards in one transaction.
func (s *Storage) PurgeDate(ctx context.Context, date time.Time) error {
	const op = "storage.mysql.order_dashboard.PurgeDate"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}

	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM ORDER_DASHBOARD WHERE DATE(sdate) = ?`,
		`DELETE FROM DASHBOARD_RAW WHERE DATE(sdate) = ?`,
		`DELETE FROM DASHBOARD_SAUCE WHERE DATE(sdate) = ?`,
		`DELETE FROM DASHBOARD_VEGE WHERE DATE(sdate) = ?`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, date.Format(dateLayout)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return tx.Commit()
}

// LatestTodayResidue returns the most recent today_residue recorded for the
// product, used as the previous-day residue when a product is added to a new
// date. No history is a valid zero.
func (s *Storage) LatestTodayResidue(ctx context.Context, co string) (int, error) {
	const op = "storage.mysql.order_dashboard.LatestTodayResidue"

	stmt := `
		SELECT today_residue
		FROM ORDER_DASHBOARD
		WHERE co = ?
		ORDER BY PK DESC
		LIMIT 1
	`

	var residue int
	err := s.db.QueryRowContext(ctx, stmt, co).Scan(&residue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return residue, nil
}
