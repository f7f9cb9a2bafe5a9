// Package history loads the two read-only rider/driver aggregate tables and
// serves lookups with a global-mean fallback, mirroring the pre-computed
// history cache this service consumes as a read-only artefact.
package history

// UserHistory is one rider's aggregate history row.
type UserHistory struct {
	OrderCount       float64
	AcceptanceRate   float64
	AvgBid           float64
	AvgStartPrice    float64
	AvgPriceRatio    float64
	IsNew            float64
	IsVIP            float64
	IsPriceSensitive float64
}

// DriverHistory is one driver's aggregate history row.
type DriverHistory struct {
	BidCount       float64
	AcceptanceRate float64
	AvgBid         float64
	AvgStartPrice  float64
	AvgBidRatio    float64
	IsActive       float64
	IsAggressive   float64
	IsFlexible     float64
}

// Cache is a read-only, lock-free-after-load lookup over the two tables.
// It is built once at startup and never mutated afterward.
type Cache struct {
	users       map[string]UserHistory
	drivers     map[string]DriverHistory
	userMean    UserHistory
	driverMean  DriverHistory
	usersEmpty  bool
	driversEmpty bool
}

// LookupUser returns the rider's row, or the global mean if id is unknown or
// the cache holds no rows at all. A nil Cache or an empty id yields the
// zero-value row, reported as not found. Lookup never fails.
func (c *Cache) LookupUser(id string) (row UserHistory, found bool) {
	if c == nil || id == "" {
		return UserHistory{}, false
	}
	if row, ok := c.users[id]; ok {
		return row, true
	}
	return c.userMean, false
}

// LookupDriver returns the driver's row, or the global mean if id is unknown
// or the cache holds no rows at all. A nil Cache or an empty id yields the
// zero-value row, reported as not found. Lookup never fails.
func (c *Cache) LookupDriver(id string) (row DriverHistory, found bool) {
	if c == nil || id == "" {
		return DriverHistory{}, false
	}
	if row, ok := c.drivers[id]; ok {
		return row, true
	}
	return c.driverMean, false
}

// Empty reports whether the cache loaded zero rows for either table (used
// for a one-time startup warning, never for request-time failure).
func (c *Cache) Empty() (usersEmpty, driversEmpty bool) {
	if c == nil {
		return true, true
	}
	return c.usersEmpty, c.driversEmpty
}

func newCache(users map[string]UserHistory, drivers map[string]DriverHistory) *Cache {
	c := &Cache{
		users:        users,
		drivers:      drivers,
		usersEmpty:   len(users) == 0,
		driversEmpty: len(drivers) == 0,
	}
	c.userMean = meanUser(users)
	c.driverMean = meanDriver(drivers)
	return c
}

func meanUser(rows map[string]UserHistory) UserHistory {
	if len(rows) == 0 {
		// Documented defaults for a history table with no data at all.
		return UserHistory{OrderCount: 1, AcceptanceRate: 0.5, AvgPriceRatio: 1.0, IsNew: 1.0, IsVIP: 0.0, IsPriceSensitive: 0.5}
	}
	var sum UserHistory
	for _, r := range rows {
		sum.OrderCount += r.OrderCount
		sum.AcceptanceRate += r.AcceptanceRate
		sum.AvgBid += r.AvgBid
		sum.AvgStartPrice += r.AvgStartPrice
		sum.AvgPriceRatio += r.AvgPriceRatio
		sum.IsNew += r.IsNew
		sum.IsVIP += r.IsVIP
		sum.IsPriceSensitive += r.IsPriceSensitive
	}
	n := float64(len(rows))
	return UserHistory{
		OrderCount:       sum.OrderCount / n,
		AcceptanceRate:   sum.AcceptanceRate / n,
		AvgBid:           sum.AvgBid / n,
		AvgStartPrice:    sum.AvgStartPrice / n,
		AvgPriceRatio:    sum.AvgPriceRatio / n,
		IsNew:            sum.IsNew / n,
		IsVIP:            sum.IsVIP / n,
		IsPriceSensitive: sum.IsPriceSensitive / n,
	}
}

func meanDriver(rows map[string]DriverHistory) DriverHistory {
	if len(rows) == 0 {
		return DriverHistory{BidCount: 1, AcceptanceRate: 0.5, AvgBidRatio: 1.0, IsActive: 0.5, IsAggressive: 0.0, IsFlexible: 0.5}
	}
	var sum DriverHistory
	for _, r := range rows {
		sum.BidCount += r.BidCount
		sum.AcceptanceRate += r.AcceptanceRate
		sum.AvgBid += r.AvgBid
		sum.AvgStartPrice += r.AvgStartPrice
		sum.AvgBidRatio += r.AvgBidRatio
		sum.IsActive += r.IsActive
		sum.IsAggressive += r.IsAggressive
		sum.IsFlexible += r.IsFlexible
	}
	n := float64(len(rows))
	return DriverHistory{
		BidCount:       sum.BidCount / n,
		AcceptanceRate: sum.AcceptanceRate / n,
		AvgBid:         sum.AvgBid / n,
		AvgStartPrice:  sum.AvgStartPrice / n,
		AvgBidRatio:    sum.AvgBidRatio / n,
		IsActive:       sum.IsActive / n,
		IsAggressive:   sum.IsAggressive / n,
		IsFlexible:     sum.IsFlexible / n,
	}
}
