package storage

// DefaultProduct is one tracked (product, vendor) pair refreshed on every
// planning run.
type DefaultProduct struct {
	CO       string `json:"co"`
	Retailer string `json:"retailer"`
}

// MasterInfo is the product master slice needed to add a product to a date's
// plan.
type MasterInfo struct {
	CO    string  `json:"co"`
	UName string  `json:"uname"`
	PackG float64 `json:"packg"`
	Pacsu int     `json:"pacsu"`
}
