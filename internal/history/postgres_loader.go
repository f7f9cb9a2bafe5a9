package history

import (
	"time"

	"github.com/sony/gobreaker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/drivee/bidprice-service/internal/logging"
)

type userHistoryModel struct {
	UserID           string `gorm:"column:user_id;primaryKey"`
	OrderCount       float64 `gorm:"column:order_count"`
	AcceptanceRate   float64 `gorm:"column:acceptance_rate"`
	AvgBid           float64 `gorm:"column:avg_bid"`
	AvgStartPrice    float64 `gorm:"column:avg_start_price"`
	AvgPriceRatio    float64 `gorm:"column:avg_price_ratio"`
	IsNew            float64 `gorm:"column:is_new"`
	IsVIP            float64 `gorm:"column:is_vip"`
	IsPriceSensitive float64 `gorm:"column:is_price_sensitive"`
}

func (userHistoryModel) TableName() string { return "user_history" }

type driverHistoryModel struct {
	DriverID       string  `gorm:"column:driver_id;primaryKey"`
	BidCount       float64 `gorm:"column:bid_count"`
	AcceptanceRate float64 `gorm:"column:acceptance_rate"`
	AvgBid         float64 `gorm:"column:avg_bid"`
	AvgStartPrice  float64 `gorm:"column:avg_start_price"`
	AvgBidRatio    float64 `gorm:"column:avg_bid_ratio"`
	IsActive       float64 `gorm:"column:is_active"`
	IsAggressive   float64 `gorm:"column:is_aggressive"`
	IsFlexible     float64 `gorm:"column:is_flexible"`
}

func (driverHistoryModel) TableName() string { return "driver_history" }

// PostgresLoader loads the two history tables from a Postgres database,
// guarded by a circuit breaker so a database outage degrades to the
// documented mean fallback instead of blocking every request.
type PostgresLoader struct {
	db      *gorm.DB
	breaker *gobreaker.CircuitBreaker
	log     *logging.Logger
}

// NewPostgresLoader opens a connection to dsn and wires a circuit breaker
// around subsequent loads.
func NewPostgresLoader(dsn string, log *logging.Logger) (*PostgresLoader, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "history-postgres",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &PostgresLoader{db: db, breaker: breaker, log: log}, nil
}

// Load reads both tables. On any failure (including an open breaker) it
// logs a warning and returns an empty Cache, which serves documented
// defaults for every lookup rather than failing the caller.
func (p *PostgresLoader) Load() *Cache {
	users := map[string]UserHistory{}
	drivers := map[string]DriverHistory{}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		var rows []userHistoryModel
		if err := p.db.Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			users[r.UserID] = UserHistory{
				OrderCount: r.OrderCount, AcceptanceRate: r.AcceptanceRate,
				AvgBid: r.AvgBid, AvgStartPrice: r.AvgStartPrice,
				AvgPriceRatio: r.AvgPriceRatio, IsNew: r.IsNew,
				IsVIP: r.IsVIP, IsPriceSensitive: r.IsPriceSensitive,
			}
		}

		var driverRows []driverHistoryModel
		if err := p.db.Find(&driverRows).Error; err != nil {
			return nil, err
		}
		for _, r := range driverRows {
			drivers[r.DriverID] = DriverHistory{
				BidCount: r.BidCount, AcceptanceRate: r.AcceptanceRate,
				AvgBid: r.AvgBid, AvgStartPrice: r.AvgStartPrice,
				AvgBidRatio: r.AvgBidRatio, IsActive: r.IsActive,
				IsAggressive: r.IsAggressive, IsFlexible: r.IsFlexible,
			}
		}
		return nil, nil
	})
	if err != nil {
		p.log.WithError(err).Warn("history postgres backend unavailable, falling back to defaults")
		return newCache(map[string]UserHistory{}, map[string]DriverHistory{})
	}

	return newCache(users, drivers)
}
