package scan_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivee/bidprice-service/internal/features"
	"github.com/drivee/bidprice-service/internal/logging"
	"github.com/drivee/bidprice-service/internal/model"
	"github.com/drivee/bidprice-service/internal/scan"
)

const monotoneArtefact = `{
	"feature_names": ["price_bid_local"],
	"learning_rate": 1.0,
	"base_score": 0.0,
	"trees": [
		{"nodes": [
			{"is_leaf": false, "feature_index": 0, "threshold": 150, "left": 1, "right": 2},
			{"is_leaf": true, "leaf_value": -1.0},
			{"is_leaf": false, "feature_index": 0, "threshold": 200, "left": 3, "right": 4},
			{"is_leaf": true, "leaf_value": 0.5},
			{"is_leaf": true, "leaf_value": 2.0}
		]}
	]
}`

func loadArtefact(t *testing.T, body string) *model.Artefact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	artefact, err := model.NewLoader(path, logging.NewNop()).Load()
	require.NoError(t, err)
	return artefact
}

func weekdayMorning(t *testing.T) features.OrderRequest {
	ts := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC) // Tuesday
	return features.OrderRequest{
		OrderTimestamp:    ts.Unix(),
		DistanceInMeters:  1500,
		DurationInSeconds: 180,
		DriverRating:      4.9,
		Platform:          features.PlatformAndroid,
		PriceStartLocal:   150,
	}
}

func TestRunDerivesWeekdayScanRange(t *testing.T) {
	artefact := loadArtefact(t, monotoneArtefact)
	order := weekdayMorning(t)

	result, err := scan.Run(order, artefact, nil, 50)
	require.NoError(t, err)

	assert.InDelta(t, 90.0, result.ScanMin, 0.01)
	assert.InDelta(t, 240.0, result.ScanMax, 0.01)
	assert.GreaterOrEqual(t, result.Optimum.Price, order.PriceStartLocal)
	assert.GreaterOrEqual(t, len(result.Candidates), 50)
}

func TestRunNightMultiplier(t *testing.T) {
	artefact := loadArtefact(t, monotoneArtefact)
	order := weekdayMorning(t)
	order.OrderTimestamp = time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC).Unix()
	order.PriceStartLocal = 250

	result, err := scan.Run(order, artefact, nil, 20)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, result.ScanMax, 0.01)
}

func TestRunWeekendMultiplier(t *testing.T) {
	artefact := loadArtefact(t, monotoneArtefact)
	order := weekdayMorning(t)
	order.OrderTimestamp = time.Date(2026, 3, 7, 14, 0, 0, 0, time.UTC).Unix() // Saturday
	order.PriceStartLocal = 300

	result, err := scan.Run(order, artefact, nil, 20)
	require.NoError(t, err)
	assert.InDelta(t, 540.0, result.ScanMax, 0.01)
}

func TestRunGridFloor(t *testing.T) {
	artefact := loadArtefact(t, monotoneArtefact)
	order := weekdayMorning(t)

	result, err := scan.Run(order, artefact, nil, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(result.Candidates), 20)
}
