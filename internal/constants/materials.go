package constants

// Recipe keywords selecting the raw and sauce material groups by name.
const (
	RawMaterialKeyword   = "(정선)"
	SauceMaterialKeyword = "소스"
)

// VegeMaterialCodes are the material codes force-included in the vegetable
// dashboard regardless of naming convention.
var VegeMaterialCodes = []string{"720192", "700122", "720094"}
