// Package response assembles the stable ModelResponse JSON document from
// the scan, zone, and fuel-economics outputs of one request.
package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drivee/bidprice-service/internal/fuel"
	"github.com/drivee/bidprice-service/internal/scan"
	"github.com/drivee/bidprice-service/internal/zones"
)

// PriceRange is a closed price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ZoneMetrics is one zone's aggregate statistics.
type ZoneMetrics struct {
	AvgProbabilityPercent           float64 `json:"avg_probability_percent"`
	AvgNormalizedProbabilityPercent float64 `json:"avg_normalized_probability_percent"`
	AvgExpectedValue                float64 `json:"avg_expected_value"`
}

// Zone is one emitted probability band.
type Zone struct {
	ZoneID     int         `json:"zone_id"`
	ZoneName   string      `json:"zone_name"`
	PriceRange PriceRange  `json:"price_range"`
	Metrics    ZoneMetrics `json:"metrics"`
}

// OptimalPrice is the chosen recommendation.
type OptimalPrice struct {
	Price                        float64 `json:"price"`
	ProbabilityPercent           float64 `json:"probability_percent"`
	NormalizedProbabilityPercent float64 `json:"normalized_probability_percent"`
	ExpectedValue                float64 `json:"expected_value"`
	ZoneID                       int     `json:"zone_id"`
	NetProfit                    float64 `json:"net_profit"`
}

// ZoneThresholds is an opaque, human-readable description of the four bands.
type ZoneThresholds struct {
	GreenZone      string `json:"green_zone"`
	YellowLowZone  string `json:"yellow_low_zone"`
	YellowHighZone string `json:"yellow_high_zone"`
	RedZone        string `json:"red_zone"`
}

// FuelEconomics mirrors fuel.Economics at the JSON boundary.
type FuelEconomics struct {
	FuelCost             float64 `json:"fuel_cost"`
	FuelLiters           float64 `json:"fuel_liters"`
	DistanceKm           float64 `json:"distance_km"`
	FuelPricePerLiter    float64 `json:"fuel_price_per_liter"`
	ConsumptionPer100Km  float64 `json:"consumption_per_100km"`
	MinProfitablePrice   float64 `json:"min_profitable_price"`
	NetProfitFromOptimal float64 `json:"net_profit_from_optimal"`
}

// Analysis carries the scan's summary statistics.
type Analysis struct {
	StartPrice            float64    `json:"start_price"`
	MaxProbabilityPercent float64    `json:"max_probability_percent"`
	MaxProbabilityPrice   float64    `json:"max_probability_price"`
	ScanRange             PriceRange `json:"scan_range"`
	Timestamp             string     `json:"timestamp"`
	PriceIncrement        float64    `json:"price_increment"`
}

// ModelResponse is the full, order-significant response document.
type ModelResponse struct {
	Zones          []Zone         `json:"zones"`
	OptimalPrice   OptimalPrice   `json:"optimal_price"`
	ZoneThresholds ZoneThresholds `json:"zone_thresholds"`
	FuelEconomics  FuelEconomics  `json:"fuel_economics"`
	Analysis       Analysis       `json:"analysis"`
}

var defaultThresholds = ZoneThresholds{
	GreenZone:      "High acceptance likelihood (70% or higher)",
	YellowLowZone:  "Moderate acceptance likelihood (50% to 70%)",
	YellowHighZone: "Below-average acceptance likelihood (30% to 50%)",
	RedZone:        "Low acceptance likelihood (below 30%)",
}

// Assemble builds the final response from a scan result, its zone
// partition, and the fuel economics for the chosen optimum, rounding every
// float to two decimals via decimal fixed-point arithmetic.
func Assemble(scanResult scan.Result, zoneList []zones.Zone, fuelEconomics fuel.Economics, startPrice float64, now time.Time) ModelResponse {
	optimumZoneID := zones.OptimumZoneID(zoneList, scanResult.Optimum.Probability)

	maxProb := 0.0
	maxProbPrice := 0.0
	for _, c := range scanResult.Candidates {
		if c.Probability > maxProb {
			maxProb = c.Probability
			maxProbPrice = c.Price
		}
	}
	normalizedProb := 0.0
	if maxProb > 0 {
		normalizedProb = scanResult.Optimum.Probability / maxProb
	}

	out := ModelResponse{
		ZoneThresholds: defaultThresholds,
		OptimalPrice: OptimalPrice{
			Price:                        round2(scanResult.Optimum.Price),
			ProbabilityPercent:           round2(scanResult.Optimum.Probability * 100),
			NormalizedProbabilityPercent: round2(normalizedProb * 100),
			ExpectedValue:                round2(scanResult.Optimum.ExpectedValue),
			ZoneID:                       optimumZoneID,
			NetProfit:                    round2(scanResult.Optimum.Price - fuelEconomics.FuelCost),
		},
		FuelEconomics: FuelEconomics{
			FuelCost:             fuelEconomics.FuelCost,
			FuelLiters:           fuelEconomics.FuelLiters,
			DistanceKm:           fuelEconomics.DistanceKm,
			FuelPricePerLiter:    fuelEconomics.FuelPricePerLiter,
			ConsumptionPer100Km:  fuelEconomics.ConsumptionPer100Km,
			MinProfitablePrice:   fuelEconomics.MinProfitablePrice,
			NetProfitFromOptimal: fuelEconomics.NetProfitFromOptimal,
		},
		Analysis: Analysis{
			StartPrice:            round2(startPrice),
			MaxProbabilityPercent: round2(maxProb * 100),
			MaxProbabilityPrice:   round2(maxProbPrice),
			ScanRange:             PriceRange{Min: round2(scanResult.ScanMin), Max: round2(scanResult.ScanMax)},
			Timestamp:             now.UTC().Format("2006-01-02 15:04:05"),
			PriceIncrement:        round2(scanResult.PriceIncrement),
		},
	}

	out.Zones = make([]Zone, len(zoneList))
	for i, z := range zoneList {
		out.Zones[i] = Zone{
			ZoneID:   z.ZoneID,
			ZoneName: z.ZoneName,
			PriceRange: PriceRange{
				Min: round2(z.PriceMin),
				Max: round2(z.PriceMax),
			},
			Metrics: ZoneMetrics{
				AvgProbabilityPercent:           round2(z.Metrics.AvgProbabilityPercent),
				AvgNormalizedProbabilityPercent: round2(z.Metrics.AvgNormalizedProbabilityPercent),
				AvgExpectedValue:                round2(z.Metrics.AvgExpectedValue),
			},
		}
	}

	return out
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
