// Package features derives the deterministic feature vector consumed by the
// acceptance classifier for one (order, candidate price) pair.
package features

import (
	"time"

	"github.com/drivee/bidprice-service/internal/apierr"
)

// Platform is the originating client platform.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

// OrderRequest is the inbound contract for one pricing request.
type OrderRequest struct {
	OrderTimestamp    int64    `json:"order_timestamp"`
	DistanceInMeters  int64    `json:"distance_in_meters"`
	DurationInSeconds int64    `json:"duration_in_seconds"`
	PickupInMeters    int64    `json:"pickup_in_meters"`
	PickupInSeconds   int64    `json:"pickup_in_seconds"`
	DriverRating      float64  `json:"driver_rating"`
	Platform          Platform `json:"platform"`
	PriceStartLocal   float64  `json:"price_start_local"`

	CarName       *string `json:"carname,omitempty"`
	CarModel      *string `json:"carmodel,omitempty"`
	DriverRegDate *string `json:"driver_reg_date,omitempty"`
	UserID        *string `json:"user_id,omitempty"`
	DriverID      *string `json:"driver_id,omitempty"`
}

// Validate enforces the OrderRequest constraints, rejecting the request
// before the engine is entered.
func (o OrderRequest) Validate() error {
	var problems []string

	if o.OrderTimestamp <= 0 {
		problems = append(problems, "order_timestamp must be positive")
	}
	if o.DistanceInMeters < 0 {
		problems = append(problems, "distance_in_meters must be non-negative")
	}
	if o.DurationInSeconds < 0 {
		problems = append(problems, "duration_in_seconds must be non-negative")
	}
	if o.PickupInMeters < 0 {
		problems = append(problems, "pickup_in_meters must be non-negative")
	}
	if o.PickupInSeconds < 0 {
		problems = append(problems, "pickup_in_seconds must be non-negative")
	}
	if o.DriverRating < 1.0 || o.DriverRating > 5.0 {
		problems = append(problems, "driver_rating must be within [1.0, 5.0]")
	}
	switch o.Platform {
	case PlatformAndroid, PlatformIOS, PlatformWeb:
	default:
		problems = append(problems, "platform must be one of android, ios, web")
	}
	if o.PriceStartLocal < 0 {
		problems = append(problems, "price_start_local must be non-negative")
	}

	if len(problems) == 0 {
		return nil
	}
	msg := problems[0]
	for _, p := range problems[1:] {
		msg += "; " + p
	}
	return apierr.New(apierr.KindValidation, msg)
}

// Timestamp returns the order's moment as a UTC time.
func (o OrderRequest) Timestamp() time.Time {
	return time.Unix(o.OrderTimestamp, 0).UTC()
}

// carName returns the vehicle brand, defaulting per §4.3 when absent.
func (o OrderRequest) carName() string {
	if o.CarName != nil && *o.CarName != "" {
		return *o.CarName
	}
	return "Renault"
}

// carModel returns the vehicle model, defaulting per §4.3 when absent.
func (o OrderRequest) carModel() string {
	if o.CarModel != nil && *o.CarModel != "" {
		return *o.CarModel
	}
	return "Logan"
}

// driverRegTime returns the driver's registration time, or a zero bool when
// absent/unparseable, in which case the builder uses the documented default
// experience (365 days).
func (o OrderRequest) driverRegTime() (time.Time, bool) {
	if o.DriverRegDate == nil || *o.DriverRegDate == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, *o.DriverRegDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (o OrderRequest) userID() string {
	if o.UserID == nil {
		return ""
	}
	return *o.UserID
}

func (o OrderRequest) driverID() string {
	if o.DriverID == nil {
		return ""
	}
	return *o.DriverID
}
