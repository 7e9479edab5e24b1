package mysql

import (
	"context"
	"fmt"
	"strings"

	"gp-dashboard/internal/storage"
)

// RecipeLinks fetches bill-of-materials links for the given product set. The
// material side is filtered by a name keyword, an explicit material-code list,
// or both (OR-combined); an empty condition is omitted entirely so the
// vegetable category's code list does not pull every recipe row.
func (s *Storage) RecipeLinks(ctx context.Context, coList []string, keyword string, bcoList []string) ([]*storage.RecipeLink, error) {
	const op = "storage.mysql.recipe.RecipeLinks"

	if len(coList) == 0 {
		return nil, nil
	}
	if keyword == "" && len(bcoList) == 0 {
		return nil, fmt.Errorf("%s: no material filter given", op)
	}

	var args []interface{}
	for _, co := range coList {
		args = append(args, co)
	}

	var conds []string
	if keyword != "" {
		conds = append(conds, "BUNAME LIKE ?")
		args = append(args, "%"+keyword+"%")
	}
	if len(bcoList) > 0 {
		conds = append(conds, fmt.Sprintf("BCO IN (%s)", placeholders(len(bcoList))))
		for _, bco := range bcoList {
			args = append(args, bco)
		}
	}

	stmt := fmt.Sprintf(`
		SELECT CO, BCO, BUNAME, COALESCE(SA, 1)
		FROM RECIPE
		WHERE CO IN (%s)
		  AND (%s)
	`, placeholders(len(coList)), strings.Join(conds, " OR "))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var links []*storage.RecipeLink
	for rows.Next() {
		var l storage.RecipeLink

		if err := rows.Scan(&l.CO, &l.BCO, &l.BUName, &l.SA); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		l.CO = strings.TrimSpace(l.CO)
		l.BCO = strings.TrimSpace(l.BCO)
		l.BUName = strings.TrimSpace(l.BUName)

		links = append(links, &l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return links, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
