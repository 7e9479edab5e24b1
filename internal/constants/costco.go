package constants

// CostcoCategory separates the two Costco product types: standard products
// whose ledger records pack counts, and self-managed (자율) products whose
// ledger records raw weight and needs the pack-weight divisor.
type CostcoCategory int

const (
	CostcoStandard CostcoCategory = iota
	CostcoSelfManaged
)

// CostcoProfile is static per-product order metadata for the Costco vendor.
type CostcoProfile struct {
	Category    CostcoCategory
	PackWeight  float64 // kg per pack, divisor for self-managed products
	DayShift    int     // days added to the requested date before lookup
	MondayShift int     // extra shift applied when the target lands on Monday
	SunProd     bool    // Sunday production allowed
}

// CostcoProfiles maps product code to its order profile. Products without an
// entry are not orderable through the Costco strategy.
var CostcoProfiles = map[string]CostcoProfile{
	"501998": {Category: CostcoStandard, PackWeight: 0, DayShift: 1, MondayShift: -1, SunProd: false},
	"520033": {Category: CostcoStandard, PackWeight: 0, DayShift: 1, MondayShift: -1, SunProd: false},
	"520427": {Category: CostcoSelfManaged, PackWeight: 2.6, DayShift: 1, MondayShift: 0, SunProd: true},
	"520261": {Category: CostcoSelfManaged, PackWeight: 2.3, DayShift: 0, MondayShift: 0, SunProd: true},
	"520513": {Category: CostcoSelfManaged, PackWeight: 2.3, DayShift: 0, MondayShift: 0, SunProd: true},
}
