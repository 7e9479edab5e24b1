package storage

// RecipeLink relates a finished product (CO) to a raw material (BCO) with a
// yield ratio SA in percent. Read-only reference data.
type RecipeLink struct {
	CO     string  `json:"co"`
	BCO    string  `json:"bco"`
	BUName string  `json:"buname"`
	SA     float64 `json:"sa"`
}
