package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivee/bidprice-service/internal/apierr"
	"github.com/drivee/bidprice-service/internal/logging"
)

func writeArtefact(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidArtefact(t *testing.T) {
	path := writeArtefact(t, `{
		"feature_names": ["a", "b"],
		"learning_rate": 1.0,
		"base_score": 0.0,
		"trees": [
			{"nodes": [
				{"is_leaf": false, "feature_index": 0, "threshold": 0.5, "left": 1, "right": 2},
				{"is_leaf": true, "leaf_value": -2.0},
				{"is_leaf": true, "leaf_value": 2.0}
			]}
		]
	}`)

	loader := NewLoader(path, logging.NewNop())
	artefact, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, artefact.ColumnIndex("a"))
	assert.Equal(t, 1, artefact.ColumnIndex("b"))
	assert.Equal(t, -1, artefact.ColumnIndex("missing"))

	probs := artefact.PredictProba([][]float64{{0.0, 0}, {1.0, 0}})
	assert.InDelta(t, sigmoid(-2.0), probs[0], 1e-9)
	assert.InDelta(t, sigmoid(2.0), probs[1], 1e-9)
}

func TestLoadMemoises(t *testing.T) {
	path := writeArtefact(t, `{"feature_names":["a"],"trees":[{"nodes":[{"is_leaf":true,"leaf_value":1.0}]}]}`)
	loader := NewLoader(path, logging.NewNop())

	first, err := loader.Load()
	require.NoError(t, err)
	second, err := loader.Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.json"), logging.NewNop())
	_, err := loader.Load()
	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.KindArtefactMissing, apiErr.Kind)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeArtefact(t, `not json`)
	loader := NewLoader(path, logging.NewNop())
	_, err := loader.Load()
	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.KindArtefactInvalid, apiErr.Kind)
}

func TestLoadNoTrees(t *testing.T) {
	path := writeArtefact(t, `{"feature_names":["a"],"trees":[]}`)
	loader := NewLoader(path, logging.NewNop())
	_, err := loader.Load()
	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.KindArtefactInvalid, apiErr.Kind)
}
