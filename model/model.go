package model

import (
	"time"
)

// Holds all external facing types.

// Station is a subway station or platform. Parent stations are the
// logical, rider-facing entities; child platforms are the physical
// stops the realtime feeds key arrivals by. Both share one id space.
type Station struct {
	ID     string
	Name   string
	Lat    float64
	Lon    float64
	Routes []string
}

// ServesRoute reports whether routeID appears in the station's route set.
func (s *Station) ServesRoute(routeID string) bool {
	for _, r := range s.Routes {
		if r == routeID {
			return true
		}
	}
	return false
}

// Arrival is a single predicted train arrival at a stop.
type Arrival struct {
	RouteID     string
	DirectionID int8
	// Unix timestamp of the predicted arrival.
	ArrivalTime int64
	MinutesAway int
	Destination string
	// Used only for deduplication, never for display.
	TripID string
}

// Alert is a service alert affecting a route. Two alerts with the same
// route and message are considered identical.
type Alert struct {
	RouteID  string
	Message  string
	Severity string
}

// RouteArrival is one entry on a rider-facing arrival board: the next
// train for a route in some direction.
type RouteArrival struct {
	RouteID     string
	MinutesAway int
	Destination string
}

// FeedFailure records a realtime feed that could not contribute to a
// query. Callers can inspect these to distinguish "no trains" from
// "feed down".
type FeedFailure struct {
	URL string
	Err error
}

// ArrivalBoard groups the next train per route under each direction
// label. Failures lists feeds that were skipped for this query.
type ArrivalBoard struct {
	Directions map[string][]RouteArrival
	Failures   []FeedFailure
}

// StationData is the complete answer for one station query, the sole
// object handed to presentation layers.
type StationData struct {
	Station     *Station
	Board       *ArrivalBoard
	Alerts      []Alert
	LastUpdated time.Time
}
