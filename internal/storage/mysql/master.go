package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gp-dashboard/internal/storage"
)

// MasterInfo returns the product master slice for one product code, or nil
// when the code is unknown.
func (s *Storage) MasterInfo(ctx context.Context, co string) (*storage.MasterInfo, error) {
	const op = "storage.mysql.master.MasterInfo"

	stmt := `SELECT CO, UNAME, PACKG, PACSU FROM MASTER WHERE CO = ? LIMIT 1`

	var info storage.MasterInfo
	var packg sql.NullFloat64
	var pacsu sql.NullInt64

	err := s.db.QueryRowContext(ctx, stmt, co).Scan(&info.CO, &info.UName, &packg, &pacsu)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	info.CO = strings.TrimSpace(info.CO)
	info.UName = strings.TrimSpace(info.UName)
	info.PackG = packg.Float64
	info.Pacsu = int(pacsu.Int64)

	return &info, nil
}

// PacsuByCO returns the packs-per-box conversion for a product. Missing or
// non-positive values fall back to 1 so the multiplier is always usable.
func (s *Storage) PacsuByCO(ctx context.Context, co string) (int, error) {
	const op = "storage.mysql.master.PacsuByCO"

	stmt := `SELECT PACSU FROM MASTER WHERE CO = ? LIMIT 1`

	var pacsu sql.NullInt64
	err := s.db.QueryRowContext(ctx, stmt, co).Scan(&pacsu)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 1, nil
		}
		return 1, fmt.Errorf("%s: %w", op, err)
	}

	if pacsu.Int64 <= 0 {
		return 1, nil
	}

	return int(pacsu.Int64), nil
}

// EmartCO translates an external product code to the internal code through
// the MMASTER cross-reference. No mapping yields "".
func (s *Storage) EmartCO(ctx context.Context, tco string) (string, error) {
	const op = "storage.mysql.master.EmartCO"

	stmt := `SELECT CO FROM MMASTER WHERE TCO = ? LIMIT 1`

	var co string
	err := s.db.QueryRowContext(ctx, stmt, tco).Scan(&co)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return strings.TrimSpace(co), nil
}

// CosonLCode translates a product code to the Coson ledger code (TCO3 in the
// product master). No mapping yields "".
func (s *Storage) CosonLCode(ctx context.Context, co string) (string, error) {
	const op = "storage.mysql.master.CosonLCode"

	stmt := `SELECT TCO3 FROM MASTER WHERE CO = ? LIMIT 1`

	var lcode sql.NullString
	err := s.db.QueryRowContext(ctx, stmt, co).Scan(&lcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return strings.TrimSpace(lcode.String), nil
}
