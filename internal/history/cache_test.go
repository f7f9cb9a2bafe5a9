package history_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drivee/bidprice-service/internal/history"
	"github.com/drivee/bidprice-service/internal/logging"
)

func TestLoadFromFilesMissingFilesServeDefaults(t *testing.T) {
	dir := t.TempDir()
	cache := history.LoadFromFiles(filepath.Join(dir, "missing_users.jsonl"), filepath.Join(dir, "missing_drivers.jsonl"), logging.NewNop())

	usersEmpty, driversEmpty := cache.Empty()
	assert.True(t, usersEmpty)
	assert.True(t, driversEmpty)

	row, found := cache.LookupUser("anyone")
	assert.False(t, found)
	assert.Equal(t, 0.5, row.AcceptanceRate)
}

func TestLoadFromFilesParsesKnownRows(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "users.jsonl")
	driverPath := filepath.Join(dir, "drivers.jsonl")

	err := os.WriteFile(userPath, []byte(`{"user_id":"u1","user_order_count":10,"user_acceptance_rate":0.8}`+"\n"), 0o644)
	assert.NoError(t, err)
	err = os.WriteFile(driverPath, []byte(`{"driver_id":"d1","driver_bid_count":5,"driver_acceptance_rate":0.6}`+"\n"), 0o644)
	assert.NoError(t, err)

	cache := history.LoadFromFiles(userPath, driverPath, logging.NewNop())

	row, found := cache.LookupUser("u1")
	assert.True(t, found)
	assert.Equal(t, 0.8, row.AcceptanceRate)

	driverRow, found := cache.LookupDriver("d1")
	assert.True(t, found)
	assert.Equal(t, 5.0, driverRow.BidCount)

	_, found = cache.LookupUser("unknown")
	assert.False(t, found)
}

func TestLookupNilCacheServesZeroValueSafely(t *testing.T) {
	var cache *history.Cache
	row, found := cache.LookupUser("anyone")
	assert.False(t, found)
	assert.Equal(t, history.UserHistory{}, row)
}
