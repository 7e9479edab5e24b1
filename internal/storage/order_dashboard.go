package storage

import "time"

// OrderRow is one finished product's demand line on the order dashboard for
// one date. OrderQtyAfter is owned by the vendor resolver and overwritten on
// every planning run; ProductionPlan and TodayResidue are operator-entered.
type OrderRow struct {
	PK             int       `json:"pk"`
	Bigo           string    `json:"bigo"`
	SDate          time.Time `json:"sdate"`
	RName          string    `json:"rname"`
	UName          string    `json:"uname"`
	CO             string    `json:"co"`
	PKG            float64   `json:"pkg"`
	OrderQty       int       `json:"order_qty"`
	OrderQtyAfter  int       `json:"order_qty_after"`
	PrevResidue    int       `json:"prev_residue"`
	ProductionPlan int       `json:"production_plan"`
	ProducedQty    int       `json:"produced_qty"`
	TodayResidue   int       `json:"today_residue"`
	WorkStatus     string    `json:"work_status"`
	Hide           int       `json:"hide"`
}

// OrderRowFields that an operator may edit directly through the dashboard.
var EditableOrderFields = map[string]bool{
	"production_plan": true,
	"today_residue":   true,
	"prev_residue":    true,
	"order_qty_after": true,
	"work_status":     true,
	"produced_qty":    true,
	"hide":            true,
}
