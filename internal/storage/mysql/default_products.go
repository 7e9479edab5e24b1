package mysql

import (
	"context"
	"fmt"
	"strings"

	"gp-dashboard/internal/storage"
)

func (s *Storage) DefaultProducts(ctx context.Context) ([]*storage.DefaultProduct, error) {
	const op = "storage.mysql.default_products.DefaultProducts"

	stmt := `SELECT co, retailer FROM DASHBOARD_DEFAULT_PRODUCTS`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []*storage.DefaultProduct
	for rows.Next() {
		var p storage.DefaultProduct

		if err := rows.Scan(&p.CO, &p.Retailer); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		p.CO = strings.TrimSpace(p.CO)
		p.Retailer = strings.TrimSpace(p.Retailer)

		products = append(products, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

// AddDefaultProduct inserts a tracked (product, vendor) pair; duplicates are
// ignored.
func (s *Storage) AddDefaultProduct(ctx context.Context, co, retailer string) error {
	const op = "storage.mysql.default_products.AddDefaultProduct"

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM DASHBOARD_DEFAULT_PRODUCTS WHERE co = ? AND retailer = ?`,
		co, retailer).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists > 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO DASHBOARD_DEFAULT_PRODUCTS (co, retailer) VALUES (?, ?)`,
		co, retailer)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) RemoveDefaultProduct(ctx context.Context, co, retailer string) error {
	const op = "storage.mysql.default_products.RemoveDefaultProduct"

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM DASHBOARD_DEFAULT_PRODUCTS WHERE co = ? AND retailer = ?`,
		co, retailer)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
