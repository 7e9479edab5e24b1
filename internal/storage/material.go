package storage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaterialCategory selects one of the three structurally identical material
// dashboard tables.
type MaterialCategory int

const (
	CategoryRaw MaterialCategory = iota
	CategorySauce
	CategoryVege
)

func (c MaterialCategory) String() string {
	switch c {
	case CategoryRaw:
		return "raw"
	case CategorySauce:
		return "sauce"
	case CategoryVege:
		return "vege"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Table returns the backing table name for the category.
func (c MaterialCategory) Table() (string, error) {
	switch c {
	case CategoryRaw:
		return "DASHBOARD_RAW", nil
	case CategorySauce:
		return "DASHBOARD_SAUCE", nil
	case CategoryVege:
		return "DASHBOARD_VEGE", nil
	}
	return "", fmt.Errorf("unknown material category %d", int(c))
}

// ParseMaterialCategory maps the URL segment to a category.
func ParseMaterialCategory(s string) (MaterialCategory, error) {
	switch s {
	case "raw":
		return CategoryRaw, nil
	case "sauce":
		return CategorySauce, nil
	case "vege":
		return CategoryVege, nil
	}
	return 0, fmt.Errorf("unknown material category %q", s)
}

// MaterialRow is one persisted line of a material dashboard table.
// Stock, PreproQty and IpgoQty are operator-owned; OrderQtyAfter is owned by
// the reconciler.
type MaterialRow struct {
	PK            int     `json:"pk"`
	UName         string  `json:"uname"`
	CO            string  `json:"co"`
	Stock         int     `json:"stock"`
	OrderQty      int     `json:"order_qty"`
	OrderQtyAfter int     `json:"order_qty_after"`
	PreproQty     int     `json:"prepro_qty"`
	IpgoQty       int     `json:"ipgo_qty"`
}

// MaterialKey identifies a material row within one date's table.
type MaterialKey struct {
	CO    string
	UName string
}

// MaterialDemand is one expanded demand aggregate: summed kilogram demand for
// a material across all finished products sharing it on a date. Transient,
// never persisted directly.
type MaterialDemand struct {
	BCO    string
	BUName string
	PlanKG decimal.Decimal
}

// MaterialInsert is a reconciler-produced new row. Manual fields start at zero.
type MaterialInsert struct {
	UName       string
	CO          string
	SDate       time.Time
	CreatedTime time.Time
	Stock       int
	OrderQty    int
}

// MaterialUpdate touches only the reconciler-owned demand field of an
// existing row.
type MaterialUpdate struct {
	PK            int
	OrderQtyAfter int
}

// MaterialChanges is one category's full reconcile change-set. The store
// applies it in a single transaction, deletes first.
type MaterialChanges struct {
	Deletes []MaterialKey
	Updates []MaterialUpdate
	Inserts []MaterialInsert
}

func (c MaterialChanges) Empty() bool {
	return len(c.Deletes) == 0 && len(c.Updates) == 0 && len(c.Inserts) == 0
}
