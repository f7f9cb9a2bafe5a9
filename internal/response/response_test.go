package response_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivee/bidprice-service/internal/fuel"
	"github.com/drivee/bidprice-service/internal/response"
	"github.com/drivee/bidprice-service/internal/scan"
	"github.com/drivee/bidprice-service/internal/zones"
)

func TestAssembleRoundsToTwoDecimals(t *testing.T) {
	candidates := []scan.Candidate{
		{Price: 100.005, Probability: 0.751, ExpectedValue: 75.1005},
	}
	scanResult := scan.Result{
		Candidates:     candidates,
		Optimum:        candidates[0],
		ScanMin:        60,
		ScanMax:        100.005,
		PriceIncrement: 2.222,
	}
	zoneList := zones.Partition(candidates)
	econ := fuel.Compute(5000, candidates[0].Price)

	out := response.Assemble(scanResult, zoneList, econ, 100.0, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, 100.01, out.OptimalPrice.Price)
	assert.Equal(t, 100.01, out.Analysis.ScanRange.Max)
	assert.Equal(t, 2.22, out.Analysis.PriceIncrement)
	assert.Equal(t, "2026-03-03 10:00:00", out.Analysis.Timestamp)
	assert.Equal(t, 1, len(out.Zones))
	assert.Equal(t, 3, out.OptimalPrice.ZoneID)
}

func TestAssembleKeyOrderIsStable(t *testing.T) {
	candidates := []scan.Candidate{{Price: 100, Probability: 0.8, ExpectedValue: 80}}
	scanResult := scan.Result{Candidates: candidates, Optimum: candidates[0], ScanMin: 60, ScanMax: 100}
	zoneList := zones.Partition(candidates)
	econ := fuel.Compute(1000, 100)

	out := response.Assemble(scanResult, zoneList, econ, 100, time.Now())
	data, err := json.Marshal(out)
	require.NoError(t, err)

	var rawOrder []string
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	require.NoError(t, err)
	assert.Equal(t, json.Delim('{'), tok)
	for dec.More() {
		key, err := dec.Token()
		require.NoError(t, err)
		rawOrder = append(rawOrder, key.(string))
		var v json.RawMessage
		require.NoError(t, dec.Decode(&v))
	}
	assert.Equal(t, []string{"zones", "optimal_price", "zone_thresholds", "fuel_economics", "analysis"}, rawOrder)
}
