// Package scan derives the candidate price range for one order, batch-scores
// it against the acceptance classifier, and selects the weighted optimum.
package scan

import (
	"sort"

	"github.com/drivee/bidprice-service/internal/apierr"
	"github.com/drivee/bidprice-service/internal/features"
	"github.com/drivee/bidprice-service/internal/history"
	"github.com/drivee/bidprice-service/internal/model"
)

const (
	objectiveWeight  = 0.7
	edgeThreshold    = 0.05
	edgeGridSize     = 50
	minScanFloor     = 1.0
	minScanMultiplier = 0.6
)

// Candidate is one scanned (price, probability, expected value) tuple.
type Candidate struct {
	Price         float64
	Probability   float64
	ExpectedValue float64
}

// Result is the full scanned grid plus the chosen optimum.
type Result struct {
	Candidates     []Candidate
	Optimum        Candidate
	ScanMin        float64
	ScanMax        float64
	PriceIncrement float64
}

// Run derives the scan range for order, builds and scores gridSize
// candidates (floored at 20), and selects the weighted optimum.
func Run(order features.OrderRequest, artefact *model.Artefact, hist *history.Cache, gridSize int) (Result, error) {
	if gridSize < 20 {
		gridSize = 20
	}

	scanMin, scanMax := scanRange(order)
	prices := linspace(scanMin, scanMax, gridSize)
	increment := 0.0
	if len(prices) > 1 {
		increment = prices[1] - prices[0]
	}

	candidates, err := score(order, artefact, hist, prices)
	if err != nil {
		return Result{}, err
	}

	optimum, err := selectOptimum(candidates, order.PriceStartLocal)
	if err != nil {
		return Result{}, err
	}

	if scanMax > 0 && optimum.Price >= scanMax*(1-edgeThreshold) {
		extendMax := min(optimum.Price*1.20, scanMax*1.15)
		if extendMax > scanMax {
			extra := linspace(scanMax, extendMax, edgeGridSize)
			extraCandidates, err := score(order, artefact, hist, extra)
			if err != nil {
				return Result{}, err
			}
			candidates = append(candidates, extraCandidates...)
			if reoptimum, err := selectOptimum(candidates, order.PriceStartLocal); err == nil {
				optimum = reoptimum
			}
		}
	}

	return Result{
		Candidates:     candidates,
		Optimum:        optimum,
		ScanMin:        scanMin,
		ScanMax:        scanMax,
		PriceIncrement: increment,
	}, nil
}

// scanRange derives [min_scan, max_scan] from the order's starting price and
// its timestamp, applying the canonical multiplier precedence: night, then
// weekday peak, then weekend, else the default.
func scanRange(order features.OrderRequest) (float64, float64) {
	ts := order.Timestamp()
	hour := ts.Hour()
	wday := int(ts.Weekday())
	isWeekend := wday == 0 || wday == 6
	isNight := hour < 6 || hour >= 22
	isWeekdayPeak := !isWeekend && ((hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 20))

	multiplier := 1.60
	switch {
	case isNight:
		multiplier = 2.00
	case isWeekdayPeak:
		multiplier = 2.20
	case isWeekend:
		multiplier = 1.80
	}

	start := order.PriceStartLocal
	minScan := maxFloat(start*minScanMultiplier, minScanFloor)
	maxScan := maxFloat(start*multiplier, minScan+1.0)
	return minScan, maxScan
}

func score(order features.OrderRequest, artefact *model.Artefact, hist *history.Cache, prices []float64) ([]Candidate, error) {
	if artefact == nil {
		return nil, apierr.New(apierr.KindModelInference, "no model artefact loaded")
	}

	rows := make([][]float64, len(prices))
	for i, price := range prices {
		row := features.Build(order, price, hist)
		rows[i] = features.Align(row, artefact.FeatureNames)
	}

	probs := artefact.PredictProba(rows)
	if len(probs) != len(prices) {
		return nil, apierr.New(apierr.KindModelInference, "model returned a probability vector of unexpected length")
	}

	out := make([]Candidate, len(prices))
	for i, price := range prices {
		out[i] = Candidate{Price: price, Probability: probs[i], ExpectedValue: price * probs[i]}
	}
	return out, nil
}

// selectOptimum picks the weighted-objective optimum among the candidates
// whose price is at least the rider's starting price; if no such candidate
// exists, the whole set is considered valid.
func selectOptimum(candidates []Candidate, startPrice float64) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, apierr.New(apierr.KindModelInference, "scan produced no candidates")
	}

	valid := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Price >= startPrice {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		valid = candidates
	}

	maxEV := valid[0].ExpectedValue
	maxProb := valid[0].Probability
	for _, c := range valid[1:] {
		if c.ExpectedValue > maxEV {
			maxEV = c.ExpectedValue
		}
		if c.Probability > maxProb {
			maxProb = c.Probability
		}
	}
	if maxEV == 0 {
		maxEV = 1
	}
	if maxProb == 0 {
		maxProb = 1
	}

	type scored struct {
		Candidate
		score float64
	}
	scoredSet := make([]scored, len(valid))
	for i, c := range valid {
		s := objectiveWeight*(c.ExpectedValue/maxEV) + (1-objectiveWeight)*(c.Probability/maxProb)
		scoredSet[i] = scored{Candidate: c, score: s}
	}

	sort.SliceStable(scoredSet, func(i, j int) bool {
		if scoredSet[i].score != scoredSet[j].score {
			return scoredSet[i].score > scoredSet[j].score
		}
		if scoredSet[i].Probability != scoredSet[j].Probability {
			return scoredSet[i].Probability > scoredSet[j].Probability
		}
		return scoredSet[i].Price < scoredSet[j].Price
	})

	return scoredSet[0].Candidate, nil
}

func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = lo + step*float64(i)
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
