// Package zones partitions a scored candidate scan into the four
// acceptance-probability bands shown to the driver.
package zones

import (
	"sort"

	"github.com/drivee/bidprice-service/internal/scan"
)

// Band is one of the four fixed probability bands, in the ids the response
// contract has always used.
type Band struct {
	ID   int
	Name string
	Lo   float64
	Hi   float64
}

var bands = []Band{
	{ID: 1, Name: "zone_1_red_low", Lo: 0.00, Hi: 0.30},
	{ID: 2, Name: "zone_2_yellow_low", Lo: 0.50, Hi: 0.70},
	{ID: 3, Name: "zone_3_green", Lo: 0.70, Hi: 1.00},
	{ID: 4, Name: "zone_4_yellow_high", Lo: 0.30, Hi: 0.50},
}

// Metrics is the per-zone aggregate set.
type Metrics struct {
	AvgProbabilityPercent           float64
	AvgNormalizedProbabilityPercent float64
	AvgExpectedValue                float64
}

// Zone is one emitted, non-empty band.
type Zone struct {
	ZoneID      int
	ZoneName    string
	PriceMin    float64
	PriceMax    float64
	Metrics     Metrics
}

func (b Band) contains(p float64) bool {
	if b.ID == 3 {
		return p >= b.Lo && p <= b.Hi
	}
	return p >= b.Lo && p < b.Hi
}

// Partition groups candidates into their bands and emits one Zone per
// non-empty band, sorted ascending by PriceMin.
func Partition(candidates []scan.Candidate) []Zone {
	maxProb := 0.0
	for _, c := range candidates {
		if c.Probability > maxProb {
			maxProb = c.Probability
		}
	}
	if maxProb == 0 {
		maxProb = 1
	}

	var out []Zone
	for _, b := range bands {
		var members []scan.Candidate
		for _, c := range candidates {
			if b.contains(c.Probability) {
				members = append(members, c)
			}
		}
		if len(members) == 0 {
			continue
		}

		priceMin, priceMax := members[0].Price, members[0].Price
		var sumProb, sumNormProb, sumEV float64
		for _, m := range members {
			if m.Price < priceMin {
				priceMin = m.Price
			}
			if m.Price > priceMax {
				priceMax = m.Price
			}
			sumProb += m.Probability
			sumNormProb += m.Probability / maxProb
			sumEV += m.Price * m.Probability
		}
		n := float64(len(members))

		out = append(out, Zone{
			ZoneID:   b.ID,
			ZoneName: b.Name,
			PriceMin: priceMin,
			PriceMax: priceMax,
			Metrics: Metrics{
				AvgProbabilityPercent:           100 * sumProb / n,
				AvgNormalizedProbabilityPercent: 100 * sumNormProb / n,
				AvgExpectedValue:                sumEV / n,
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PriceMin < out[j].PriceMin })
	return out
}

// OptimumZoneID returns the zone id that the optimum's probability falls
// into among the emitted zones, falling back to the zone with the highest
// AvgProbabilityPercent, and finally to zone_3_green if zones is empty.
func OptimumZoneID(zones []Zone, optimumProbability float64) int {
	for _, b := range bands {
		if !b.contains(optimumProbability) {
			continue
		}
		for _, z := range zones {
			if z.ZoneID == b.ID {
				return z.ZoneID
			}
		}
		break
	}

	if len(zones) == 0 {
		return 3
	}
	best := zones[0]
	for _, z := range zones[1:] {
		if z.Metrics.AvgProbabilityPercent > best.Metrics.AvgProbabilityPercent {
			best = z
		}
	}
	return best.ZoneID
}
