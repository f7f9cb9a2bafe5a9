// Package engine orchestrates one price-recommendation request end to end:
// feature scan, zone partition, fuel economics, and response assembly.
package engine

import (
	"time"

	"github.com/drivee/bidprice-service/internal/apierr"
	"github.com/drivee/bidprice-service/internal/features"
	"github.com/drivee/bidprice-service/internal/fuel"
	"github.com/drivee/bidprice-service/internal/history"
	"github.com/drivee/bidprice-service/internal/logging"
	"github.com/drivee/bidprice-service/internal/model"
	"github.com/drivee/bidprice-service/internal/response"
	"github.com/drivee/bidprice-service/internal/scan"
	"github.com/drivee/bidprice-service/internal/zones"
)

// Engine ties the scan, zone, and fuel stages together into one
// Recommend call.
type Engine struct {
	loader           *model.Loader
	history          *history.Cache
	gridSize         int
	allowStubFallback bool
	log              *logging.Logger
}

// New builds an Engine. history may be nil (every lookup then serves
// documented defaults).
func New(loader *model.Loader, hist *history.Cache, gridSize int, allowStubFallback bool, log *logging.Logger) *Engine {
	return &Engine{loader: loader, history: hist, gridSize: gridSize, allowStubFallback: allowStubFallback, log: log}
}

// Recommend validates order, runs the scan/zone/fuel pipeline, and returns
// the assembled response.
func (e *Engine) Recommend(order features.OrderRequest) (response.ModelResponse, error) {
	if err := order.Validate(); err != nil {
		return response.ModelResponse{}, err
	}

	artefact, err := e.loader.Load()
	if err != nil {
		apiErr, _ := apierr.As(err)
		if apiErr != nil && apiErr.Kind == apierr.KindArtefactMissing && e.allowStubFallback {
			e.log.Warn("model artefact unavailable, serving stub fallback response")
			return stubResponse(order), nil
		}
		return response.ModelResponse{}, err
	}

	scanResult, err := scan.Run(order, artefact, e.history, e.gridSize)
	if err != nil {
		return response.ModelResponse{}, err
	}

	zoneList := zones.Partition(scanResult.Candidates)
	fuelEconomics := fuel.Compute(order.DistanceInMeters, scanResult.Optimum.Price)

	return response.Assemble(scanResult, zoneList, fuelEconomics, order.PriceStartLocal, time.Now()), nil
}

// stubResponse is served only when the model artefact is missing and stub
// fallback is explicitly enabled; it recommends the rider's starting price
// unchanged rather than failing every request while a deployment's artefact
// pipeline catches up.
func stubResponse(order features.OrderRequest) response.ModelResponse {
	price := order.PriceStartLocal
	fuelEconomics := fuel.Compute(order.DistanceInMeters, price)
	candidate := scan.Candidate{Price: price, Probability: 0.5, ExpectedValue: price * 0.5}
	scanResult := scan.Result{
		Candidates:     []scan.Candidate{candidate},
		Optimum:        candidate,
		ScanMin:        price,
		ScanMax:        price,
		PriceIncrement: 0,
	}
	zoneList := zones.Partition(scanResult.Candidates)
	return response.Assemble(scanResult, zoneList, fuelEconomics, price, time.Now())
}
