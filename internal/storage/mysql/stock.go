package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StockGroupNets returns per-receiving-location inventory nets for a material
// up to and including the as-of date: SUM(incoming) - SUM(consumed) per
// location, restricted to non-transfer branch-type rows with a location set.
// The caller decides how the group nets combine.
func (s *Storage) StockGroupNets(ctx context.Context, co string, asOf time.Time) ([]int, error) {
	const op = "storage.mysql.stock.StockGroupNets"

	stmt := `
		SELECT SUM(A.IPGO) - SUM(A.PAN)
		FROM PAN A
		WHERE A.CH <> 'M'
		  AND A.CO = ?
		  AND A.PDATE <= ?
		  AND A.JNAME <> ''
		  AND A.JUM = '지점'
		  AND A.DE = 'N'
		GROUP BY A.JNAME
	`

	rows, err := s.db.QueryContext(ctx, stmt, co, asOf.Format(dateLayout)+" 23:59:59")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var nets []int
	for rows.Next() {
		var net sql.NullFloat64

		if err := rows.Scan(&net); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		nets = append(nets, int(net.Float64))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return nets, nil
}
