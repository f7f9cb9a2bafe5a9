// Package model loads and evaluates the pre-trained acceptance classifier.
//
// The source this service was ported from located the classifier via a
// dotted Python import path, memoised with an in-process LRU cache. Here the
// model ships as a single portable JSON tree-ensemble file, statically typed
// and evaluated in-process — the re-architecture the distilled spec calls
// for instead of embedding a foreign-language runtime.
package model

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/drivee/bidprice-service/internal/apierr"
	"github.com/drivee/bidprice-service/internal/logging"
)

// Artefact is the loaded, immutable predictor plus its expected feature order.
type Artefact struct {
	FeatureNames []string
	index        map[string]int
	forest       ensemble
}

// ColumnIndex returns the position of name in FeatureNames, or -1 if absent.
func (a *Artefact) ColumnIndex(name string) int {
	if idx, ok := a.index[name]; ok {
		return idx
	}
	return -1
}

// PredictProba scores a batch of rows, each already aligned to FeatureNames
// order, returning P(accepted) for every row.
func (a *Artefact) PredictProba(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = a.forest.predictOne(row)
	}
	return out
}

type artefactFile struct {
	FeatureNames []string `json:"feature_names"`
	Trees        []tree   `json:"trees"`
	LearningRate float64  `json:"learning_rate"`
	BaseScore    float64  `json:"base_score"`
}

// Loader memoises a single Artefact load, process-wide. Concurrent first
// callers block on the same underlying load and then share the result.
type Loader struct {
	path   string
	once   sync.Once
	result *Artefact
	err    error
	log    *logging.Logger
}

// NewLoader builds a Loader for the artefact at path.
func NewLoader(path string, log *logging.Logger) *Loader {
	return &Loader{path: path, log: log}
}

// Load returns the memoised Artefact, loading it on the first call.
func (l *Loader) Load() (*Artefact, error) {
	l.once.Do(func() {
		l.result, l.err = load(l.path)
	})
	return l.result, l.err
}

func load(path string) (*Artefact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierr.Wrap(apierr.KindArtefactMissing, "model artefact not found at "+path, err)
		}
		return nil, apierr.Wrap(apierr.KindArtefactMissing, "failed to read model artefact at "+path, err)
	}

	var raw artefactFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apierr.Wrap(apierr.KindArtefactInvalid, "model artefact is not valid JSON", err)
	}
	if len(raw.FeatureNames) == 0 {
		return nil, apierr.New(apierr.KindArtefactInvalid, "model artefact declares no feature_names")
	}
	if len(raw.Trees) == 0 {
		return nil, apierr.New(apierr.KindArtefactInvalid, "model artefact declares no trees; lacks predict capability")
	}
	if raw.LearningRate == 0 {
		raw.LearningRate = 1.0
	}

	idx := make(map[string]int, len(raw.FeatureNames))
	for i, name := range raw.FeatureNames {
		idx[name] = i
	}

	return &Artefact{
		FeatureNames: raw.FeatureNames,
		index:        idx,
		forest: ensemble{
			Trees:        raw.Trees,
			LearningRate: raw.LearningRate,
			BaseScore:    raw.BaseScore,
		},
	}, nil
}
