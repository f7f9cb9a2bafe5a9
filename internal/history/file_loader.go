package history

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/drivee/bidprice-service/internal/logging"
)

type userRow struct {
	UserID           string  `json:"user_id"`
	OrderCount       float64 `json:"user_order_count"`
	AcceptanceRate   float64 `json:"user_acceptance_rate"`
	AvgBid           float64 `json:"user_avg_bid"`
	AvgStartPrice    float64 `json:"user_avg_start_price"`
	AvgPriceRatio    float64 `json:"user_avg_price_ratio"`
	IsNew            float64 `json:"user_is_new"`
	IsVIP            float64 `json:"user_is_vip"`
	IsPriceSensitive float64 `json:"user_is_price_sensitive"`
}

type driverRow struct {
	DriverID       string  `json:"driver_id"`
	BidCount       float64 `json:"driver_bid_count"`
	AcceptanceRate float64 `json:"driver_acceptance_rate"`
	AvgBid         float64 `json:"driver_avg_bid"`
	AvgStartPrice  float64 `json:"driver_avg_start_price"`
	AvgBidRatio    float64 `json:"driver_avg_bid_ratio"`
	IsActive       float64 `json:"driver_is_active"`
	IsAggressive   float64 `json:"driver_is_aggressive"`
	IsFlexible     float64 `json:"driver_is_flexible"`
}

// LoadFromFiles reads the rider and driver history tables from two
// newline-delimited JSON files. A missing file is not fatal: it yields an
// empty table, which LookupUser/LookupDriver then serve from documented
// defaults, and one warning is logged for that file.
func LoadFromFiles(userPath, driverPath string, log *logging.Logger) *Cache {
	users := map[string]UserHistory{}
	drivers := map[string]DriverHistory{}

	if rows, err := readJSONL[userRow](userPath); err != nil {
		log.WithError(err).Warn("user history file unavailable, falling back to defaults")
	} else {
		for _, r := range rows {
			users[r.UserID] = UserHistory{
				OrderCount: r.OrderCount, AcceptanceRate: r.AcceptanceRate,
				AvgBid: r.AvgBid, AvgStartPrice: r.AvgStartPrice,
				AvgPriceRatio: r.AvgPriceRatio, IsNew: r.IsNew,
				IsVIP: r.IsVIP, IsPriceSensitive: r.IsPriceSensitive,
			}
		}
	}

	if rows, err := readJSONL[driverRow](driverPath); err != nil {
		log.WithError(err).Warn("driver history file unavailable, falling back to defaults")
	} else {
		for _, r := range rows {
			drivers[r.DriverID] = DriverHistory{
				BidCount: r.BidCount, AcceptanceRate: r.AcceptanceRate,
				AvgBid: r.AvgBid, AvgStartPrice: r.AvgStartPrice,
				AvgBidRatio: r.AvgBidRatio, IsActive: r.IsActive,
				IsAggressive: r.IsAggressive, IsFlexible: r.IsFlexible,
			}
		}
	}

	return newCache(users, drivers)
}

func readJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []T
	scanner := bufio.NewReader(f)
	for {
		line, err := scanner.ReadBytes('\n')
		if len(line) > 0 {
			var row T
			if jsonErr := json.Unmarshal(line, &row); jsonErr == nil {
				out = append(out, row)
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return out, err
		}
	}
	return out, nil
}
