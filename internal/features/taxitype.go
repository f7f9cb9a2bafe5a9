package features

import "strings"

// TaxiType is one of the three fixed vehicle-class buckets.
type TaxiType string

const (
	TaxiEconomy  TaxiType = "economy"
	TaxiComfort  TaxiType = "comfort"
	TaxiBusiness TaxiType = "business"
)

var economyBrands = set("Daewoo", "Lifan", "FAW", "Great Wall", "Geely", "ЗАЗ", "Chery")

var economyModels = set(
	"Logan", "Symbol", "Sandero", "Lacetti", "Aveo", "Nexia", "Rio", "Spectra",
	"Granta", "Гранта", "Kalina", "Калина", "Priora", "Приора",
	"2110", "2112", "2115", "2107", "2114", "Самара", "S18",
)

var businessBrands = set("Toyota", "Honda", "Mitsubishi", "Subaru")

var businessModels = set(
	"Camry", "Corolla", "RAV4", "Avensis", "Civic", "Accord",
	"Qashqai", "X-Trail", "Tiguan", "Passat CC", "Passat",
	"CX-5", "Outlander", "Kyron", "Legacy",
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// DetectTaxiType classifies a vehicle by the fixed brand/model lookup table.
func DetectTaxiType(carName, carModel string) TaxiType {
	name := strings.TrimSpace(carName)
	model := strings.TrimSpace(carModel)

	if _, ok := economyBrands[name]; ok {
		return TaxiEconomy
	}
	if _, ok := economyModels[model]; ok {
		return TaxiEconomy
	}

	if _, ok := businessBrands[name]; ok {
		return TaxiBusiness
	}
	if _, ok := businessModels[model]; ok {
		return TaxiBusiness
	}

	return TaxiComfort
}
