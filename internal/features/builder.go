package features

import (
	"math"

	"github.com/drivee/bidprice-service/internal/history"
)

const epsilon = 0.1

// defaultResponseTimeSeconds is used for every candidate at inference time:
// there is no tender event for a hypothetical price, so the model's
// response-time family always sees the documented default.
const defaultResponseTimeSeconds = 30.0

// Row is one feature vector keyed by column name, built for one
// (OrderRequest, candidate price) pair. It is pure and side-effect-free.
type Row map[string]float64

// Build derives the full feature row for candidatePrice against order,
// consulting hist for the History family when user_id/driver_id are present.
func Build(order OrderRequest, candidatePrice float64, hist *history.Cache) Row {
	f := make(Row, 64)

	ts := order.Timestamp()
	hour := float64(ts.Hour())
	wday := float64(int(ts.Weekday()))

	start := order.PriceStartLocal
	bid := candidatePrice
	distM := float64(order.DistanceInMeters)
	durS := float64(order.DurationInSeconds)
	pickupM := float64(order.PickupInMeters)
	pickupS := float64(order.PickupInSeconds)
	distKm := distM / 1000.0
	durMin := durS / 60.0
	pickupKm := pickupM / 1000.0

	// Price family.
	priceIncreaseAbs := bid - start
	priceIncreasePct := safeDiv(bid-start, start) * 100
	f["price_bid_local"] = bid
	f["price_start_local"] = start
	f["price_increase_abs"] = priceIncreaseAbs
	f["price_increase_pct"] = priceIncreasePct
	f["is_price_increased"] = boolF(priceIncreasePct > 0)
	f["price_per_km"] = bid / (distKm + epsilon)
	f["price_per_minute"] = bid / (durMin + epsilon)

	// Time family.
	isMorningPeak := hour >= 7 && hour <= 9
	isEveningPeak := hour >= 17 && hour <= 20
	isPeakHour := isMorningPeak || isEveningPeak
	isNight := hour < 6 || hour >= 22
	isWeekend := wday == 0 || wday == 6
	f["hour_sin"] = math.Sin(2 * math.Pi * hour / 24)
	f["hour_cos"] = math.Cos(2 * math.Pi * hour / 24)
	f["day_of_week"] = wday
	f["day_sin"] = math.Sin(2 * math.Pi * wday / 7)
	f["day_cos"] = math.Cos(2 * math.Pi * wday / 7)
	f["is_weekend"] = boolF(isWeekend)
	f["is_morning_peak"] = boolF(isMorningPeak)
	f["is_evening_peak"] = boolF(isEveningPeak)
	f["is_peak_hour"] = boolF(isPeakHour)
	f["is_night"] = boolF(isNight)
	f["is_lunch_time"] = boolF(hour >= 12 && hour <= 14)

	// Trip family.
	f["distance_in_meters"] = distM
	f["duration_in_seconds"] = durS
	f["distance_km"] = distKm
	f["duration_min"] = durMin
	avgSpeed := clip(distM/(durS+epsilon)*3.6, 0, 150)
	f["avg_speed_kmh"] = avgSpeed
	f["is_traffic_jam"] = boolF(avgSpeed < 15)
	f["is_highway"] = boolF(avgSpeed > 50)
	f["is_short_trip"] = boolF(distKm < 2)
	f["is_medium_trip"] = boolF(distKm >= 2 && distKm < 10)
	f["is_long_trip"] = boolF(distKm >= 10)

	// Pickup family.
	f["pickup_in_meters"] = pickupM
	f["pickup_in_seconds"] = pickupS
	f["pickup_km"] = pickupKm
	f["pickup_speed_kmh"] = clip(pickupM/(pickupS+epsilon)*3.6, 0, 150)
	f["pickup_to_trip_ratio"] = clip(pickupM/(distM+1), 0, 10)
	f["pickup_time_ratio"] = clip(pickupS/(durS+1), 0, 10)
	f["total_distance"] = pickupM + distM
	f["total_time"] = pickupS + durS

	// Driver family.
	f["driver_rating"] = order.DriverRating
	experienceDays := 365.0
	if regTime, ok := order.driverRegTime(); ok {
		experienceDays = ts.Sub(regTime).Hours() / 24
	}
	experienceDays = clip(experienceDays, 0, 3650)
	f["driver_experience_days"] = experienceDays
	f["driver_experience_years"] = experienceDays / 365.25
	f["is_new_driver"] = boolF(experienceDays < 30)
	f["is_experienced_driver"] = boolF(experienceDays > 365)
	f["has_perfect_rating"] = boolF(order.DriverRating == 5.0)
	f["rating_deviation"] = 5.0 - order.DriverRating
	responseTime := clip(defaultResponseTimeSeconds, 0, 600)
	f["response_time_seconds"] = responseTime
	f["response_time_log"] = math.Log1p(responseTime)
	f["is_fast_response"] = boolF(responseTime < 10)
	f["is_slow_response"] = boolF(responseTime > 60)

	// Vehicle family.
	taxiType := DetectTaxiType(order.carName(), order.carModel())
	f["taxi_type_economy"] = boolF(taxiType == TaxiEconomy)
	f["taxi_type_comfort"] = boolF(taxiType == TaxiComfort)
	f["taxi_type_business"] = boolF(taxiType == TaxiBusiness)
	f["platform_android"] = boolF(order.Platform == PlatformAndroid)
	f["platform_ios"] = boolF(order.Platform == PlatformIOS)

	// Fuel family.
	fuelLiters := distKm * 9.0 / 100.0
	fuelCost := fuelLiters * 55.0
	minProfitable := fuelCost * 1.3
	netProfit := bid - fuelCost
	f["fuel_cost_rub"] = fuelCost
	f["fuel_liters"] = fuelLiters
	f["price_to_fuel_ratio"] = bid / (fuelCost + epsilon)
	f["min_profitable_price"] = minProfitable
	f["price_above_min_profitable"] = bid - minProfitable
	f["price_above_min_profitable_pct"] = safeDiv(bid-minProfitable, minProfitable+epsilon) * 100
	f["is_highly_profitable"] = boolF(bid >= minProfitable*2)
	f["is_profitable"] = boolF(bid >= minProfitable)
	f["is_unprofitable"] = boolF(bid < minProfitable)
	f["net_profit"] = netProfit
	f["net_profit_per_km"] = netProfit / (distKm + epsilon)
	f["net_profit_per_minute"] = netProfit / (durMin + epsilon)
	f["fuel_ratio_x_distance"] = f["price_to_fuel_ratio"] * distKm
	f["fuel_ratio_x_peak"] = f["price_to_fuel_ratio"] * boolF(isPeakHour)
	f["net_profit_x_rating"] = netProfit * order.DriverRating

	// History family.
	userHist, userFound := lookupUser(hist, order.userID())
	driverHist, driverFound := lookupDriver(hist, order.driverID())
	f["user_order_count"] = userHist.OrderCount
	f["user_acceptance_rate"] = userHist.AcceptanceRate
	f["user_avg_price_ratio"] = userHist.AvgPriceRatio
	f["user_is_new"] = userHist.IsNew
	f["user_is_vip"] = userHist.IsVIP
	f["user_is_price_sensitive"] = userHist.IsPriceSensitive
	f["driver_bid_count"] = driverHist.BidCount
	f["driver_acceptance_rate"] = driverHist.AcceptanceRate
	f["driver_avg_bid_ratio"] = driverHist.AvgBidRatio
	f["driver_is_active"] = driverHist.IsActive
	f["driver_is_aggressive"] = driverHist.IsAggressive
	f["driver_is_flexible"] = driverHist.IsFlexible
	f["user_driver_match_score"] = userHist.AcceptanceRate * driverHist.AcceptanceRate

	userAvgBid := userHist.AvgBid
	if !userFound || userAvgBid == 0 {
		userAvgBid = bid
	}
	driverAvgBid := driverHist.AvgBid
	if !driverFound || driverAvgBid == 0 {
		driverAvgBid = bid
	}
	f["price_vs_user_avg"] = bid / (userAvgBid + epsilon)
	f["price_vs_driver_avg"] = bid / (driverAvgBid + epsilon)

	// Route-quality family.
	routeEfficiency := distKm / (durMin + epsilon)
	f["route_efficiency"] = routeEfficiency
	f["is_very_short"] = boolF(distKm < 1)
	f["is_very_long"] = boolF(distKm > 20)
	f["pickup_burden"] = pickupKm / (distKm + epsilon)

	// Calendar family.
	dayOfMonth := float64(ts.Day())
	f["day_of_month"] = dayOfMonth
	f["is_month_start"] = boolF(dayOfMonth <= 5)
	f["is_month_end"] = boolF(dayOfMonth >= 25)
	f["hour_quartile"] = math.Floor(hour / 6)

	// Interactions.
	f["price_inc_x_distance"] = priceIncreasePct * distKm
	f["price_inc_x_night"] = priceIncreasePct * boolF(isNight)
	f["price_inc_x_peak"] = priceIncreasePct * boolF(isPeakHour)
	f["price_inc_x_weekend"] = priceIncreasePct * boolF(isWeekend)
	f["distance_x_night"] = distKm * boolF(isNight)
	f["distance_x_weekend"] = distKm * boolF(isWeekend)
	f["distance_x_peak"] = distKm * boolF(isPeakHour)
	f["speed_x_peak"] = avgSpeed * boolF(isPeakHour)
	f["rating_x_price_inc"] = order.DriverRating * priceIncreasePct
	f["experience_x_price_inc"] = (experienceDays / 365.25) * priceIncreasePct

	return sanitize(f)
}

func lookupUser(hist *history.Cache, id string) (history.UserHistory, bool) {
	if id == "" || hist == nil {
		return history.UserHistory{OrderCount: 1, AcceptanceRate: 0.5, AvgPriceRatio: 1.0, IsNew: 1.0, IsVIP: 0.0, IsPriceSensitive: 0.5}, false
	}
	return hist.LookupUser(id)
}

func lookupDriver(hist *history.Cache, id string) (history.DriverHistory, bool) {
	if id == "" || hist == nil {
		return history.DriverHistory{BidCount: 1, AcceptanceRate: 0.5, AvgBidRatio: 1.0, IsActive: 0.5, IsAggressive: 0.0, IsFlexible: 0.5}, false
	}
	return hist.LookupDriver(id)
}

// sanitize replaces non-finite values with 0 and clips to the inference-time
// bound, mirroring the determinism rules applied at training time.
func sanitize(f Row) Row {
	for k, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			f[k] = 0
		} else {
			f[k] = clip(f[k], -1e10, 1e10)
		}
	}
	return f
}

// Align reindexes row onto names in order, filling any absent column with
// 0.0 and dropping any row key not present in names.
func Align(row Row, names []string) []float64 {
	out := make([]float64, len(names))
	for i, name := range names {
		out[i] = row[name]
	}
	return out
}

func boolF(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
