// Package fuel computes the fuel-economics summary attached to every
// pricing response.
package fuel

import "github.com/shopspring/decimal"

const (
	litersPer100Km = 9.0
	rublesPerLiter = 55.0
	profitMargin   = 1.3
)

// Economics is the fuel-cost bound attached to one response.
type Economics struct {
	FuelCost           float64
	FuelLiters         float64
	DistanceKm         float64
	FuelPricePerLiter  float64
	ConsumptionPer100Km float64
	MinProfitablePrice float64
	NetProfitFromOptimal float64
}

// Compute derives fuel economics for a trip of distanceMeters against the
// chosen price.
func Compute(distanceMeters int64, price float64) Economics {
	distanceKm := decimal.NewFromInt(distanceMeters).Div(decimal.NewFromInt(1000))
	fuelLiters := distanceKm.Mul(decimal.NewFromFloat(litersPer100Km)).Div(decimal.NewFromInt(100))
	fuelCost := fuelLiters.Mul(decimal.NewFromFloat(rublesPerLiter))
	minProfitable := fuelCost.Mul(decimal.NewFromFloat(profitMargin))
	netProfit := decimal.NewFromFloat(price).Sub(fuelCost)

	round := func(d decimal.Decimal) float64 {
		f, _ := d.Round(2).Float64()
		return f
	}

	return Economics{
		FuelCost:             round(fuelCost),
		FuelLiters:           round(fuelLiters),
		DistanceKm:           round(distanceKm),
		FuelPricePerLiter:    rublesPerLiter,
		ConsumptionPer100Km:  litersPer100Km,
		MinProfitablePrice:   round(minProfitable),
		NetProfitFromOptimal: round(netProfit),
	}
}
