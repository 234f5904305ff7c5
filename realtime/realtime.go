// Package realtime decodes GTFS-realtime feed payloads into typed
// arrival and alert records.
package realtime

import (
	"strings"
	"time"

	gtfsproto "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	proto "google.golang.org/protobuf/proto"

	"traintrack.dev/traintrack/model"
)

// Predictions more than this far in the past are considered stale and
// dropped.
const StaleTolerance = 60 * time.Second

// ParseArrivals decodes trip-update entities from a feed payload,
// returning one Arrival per stop-time update whose stop id is in
// stopIDs. A payload that decodes but matches nothing yields an empty
// slice and no error; a payload that cannot be decoded yields a
// DecodeError.
func ParseArrivals(payload []byte, stopIDs map[string]bool, now time.Time) ([]model.Arrival, error) {
	feed := &gtfsproto.FeedMessage{}
	if err := proto.Unmarshal(payload, feed); err != nil {
		return nil, &model.DecodeError{Reason: "unmarshaling protobuf", Err: err}
	}

	arrivals := []model.Arrival{}

	for _, entity := range feed.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}

		trip := tripUpdate.GetTrip()
		routeID := trip.GetRouteId()
		hasDirection := trip != nil && trip.DirectionId != nil

		for _, update := range tripUpdate.GetStopTimeUpdate() {
			stopID := update.GetStopId()
			if !stopIDs[stopID] {
				continue
			}

			// Prefer arrival time, fall back to departure.
			arrivalTime := update.GetArrival().GetTime()
			if update.Arrival == nil {
				arrivalTime = update.GetDeparture().GetTime()
			}

			secondsAway := arrivalTime - now.Unix()
			if secondsAway < -int64(StaleTolerance.Seconds()) {
				continue
			}

			minutesAway := 0
			if secondsAway > 0 {
				// Ceiling, so a train 40 seconds out reads
				// "1 min", not "0 min".
				minutesAway = int((secondsAway + 59) / 60)
			}

			directionID := int8(0)
			if hasDirection {
				directionID = int8(trip.GetDirectionId())
			} else if strings.HasSuffix(strings.ToUpper(stopID), "N") {
				// MTA platform ids carry the direction as a
				// trailing N/S.
				directionID = 1
			}

			arrivals = append(arrivals, model.Arrival{
				RouteID:     routeID,
				DirectionID: directionID,
				ArrivalTime: arrivalTime,
				MinutesAway: minutesAway,
				Destination: routeID + " Train",
				TripID:      trip.GetTripId(),
			})
		}
	}

	return arrivals, nil
}

// ParseAlerts decodes alert entities from a feed payload. An alert is
// attributed to every route in routeIDs it informs, directly or via
// an informed trip, and emitted at most once per (entity, route).
func ParseAlerts(payload []byte, routeIDs map[string]bool) ([]model.Alert, error) {
	feed := &gtfsproto.FeedMessage{}
	if err := proto.Unmarshal(payload, feed); err != nil {
		return nil, &model.DecodeError{Reason: "unmarshaling protobuf", Err: err}
	}

	alerts := []model.Alert{}

	for _, entity := range feed.GetEntity() {
		alert := entity.GetAlert()
		if alert == nil {
			continue
		}

		message := alertMessage(alert)
		emitted := map[string]bool{}

		for _, informed := range alert.GetInformedEntity() {
			routeID := informed.GetRouteId()
			if routeID == "" && informed.GetTrip() != nil {
				routeID = informed.GetTrip().GetRouteId()
			}

			if routeID == "" || !routeIDs[routeID] || emitted[routeID] {
				continue
			}
			emitted[routeID] = true

			alerts = append(alerts, model.Alert{
				RouteID:  routeID,
				Message:  message,
				Severity: "WARNING",
			})
		}
	}

	return alerts, nil
}

// Message text is header plus description, first translation each,
// trimmed.
func alertMessage(alert *gtfsproto.Alert) string {
	header := firstTranslation(alert.GetHeaderText())
	description := firstTranslation(alert.GetDescriptionText())
	return strings.TrimSpace(header + " " + description)
}

func firstTranslation(ts *gtfsproto.TranslatedString) string {
	translations := ts.GetTranslation()
	if len(translations) == 0 {
		return ""
	}
	return translations[0].GetText()
}
