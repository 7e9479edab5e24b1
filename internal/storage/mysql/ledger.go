package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Order ledger lookups. "No rows" is a valid zero for every one of these:
// absence of upstream data means nothing to order, not a fault.

func (s *Storage) HomeplusBoxSum(ctx context.Context, co string, date time.Time) (int, error) {
	const op = "storage.mysql.ledger.HomeplusBoxSum"

	stmt := `
		SELECT COALESCE(SUM(PAN), 0)
		FROM PAN
		WHERE CO = ? AND DATE(PDATE) = ?
	`

	var sum int
	err := s.db.QueryRowContext(ctx, stmt, co, date.Format(dateLayout)).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

// MpanPackSum sums the Emart/Kurly pack ledger for an internal product code.
func (s *Storage) MpanPackSum(ctx context.Context, co string, date time.Time) (int, error) {
	const op = "storage.mysql.ledger.MpanPackSum"

	stmt := `
		SELECT COALESCE(SUM(PANKG), 0)
		FROM MPAN
		WHERE CO = ? AND DATE(SDATE) = ?
	`

	var sum int
	err := s.db.QueryRowContext(ctx, stmt, co, date.Format(dateLayout)).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

func (s *Storage) CosonFinalQty(ctx context.Context, lcode string, date time.Time) (int, error) {
	const op = "storage.mysql.ledger.CosonFinalQty"

	stmt := `
		SELECT FINAL_QTY
		FROM COSONC
		WHERE LCODE = ? AND DATE(LDATE) = ?
		LIMIT 1
	`

	var qty int
	err := s.db.QueryRowContext(ctx, stmt, lcode, date.Format(dateLayout)).Scan(&qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return qty, nil
}

// CostcoPackSum sums the Costco receipt ledger. Product codes in COS_B carry
// stray whitespace, so the match is on the whitespace-stripped code.
func (s *Storage) CostcoPackSum(ctx context.Context, co string, date time.Time) (int, error) {
	const op = "storage.mysql.ledger.CostcoPackSum"

	stmt := `
		SELECT COALESCE(SUM(CAST(C17 AS SIGNED)), 0)
		FROM COS_B
		WHERE REPLACE(TRIM(C29), ' ', '') = ? AND DATE(C06) = ?
	`

	var sum int
	err := s.db.QueryRowContext(ctx, stmt, co, date.Format(dateLayout)).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

// ProducedBoxSum sums confirmed factory production boxes for one product and
// date. CH='C' marks confirmed rows; the JNAME filter pins the marinated-meat
// factory branch.
func (s *Storage) ProducedBoxSum(ctx context.Context, co string, date time.Time) (int, error) {
	const op = "storage.mysql.ledger.ProducedBoxSum"

	stmt := `
		SELECT COALESCE(SUM(PAN), 0)
		FROM PAN
		WHERE CH = 'C'
		  AND JNAME = '공장(양념육)'
		  AND CO = ?
		  AND DATE(PDATE) = ?
	`

	var sum int
	err := s.db.QueryRowContext(ctx, stmt, co, date.Format(dateLayout)).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}
