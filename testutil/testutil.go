package testutil

// Helpers for building static schedule and realtime feed fixtures.

import (
	"strings"
	"testing"

	gtfsproto "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/require"
	proto "google.golang.org/protobuf/proto"

	"traintrack.dev/traintrack/schedule"
)

// BuildIndex loads a schedule index from raw CSV table content.
func BuildIndex(t testing.TB, stops, routes, stopTimes string) *schedule.Index {
	t.Helper()

	idx, err := schedule.Load(
		strings.NewReader(strings.TrimSpace(stops)),
		strings.NewReader(strings.TrimSpace(routes)),
		strings.NewReader(strings.TrimSpace(stopTimes)),
		nil,
	)
	require.NoError(t, err)

	return idx
}

// BuildFeed marshals feed entities into a GTFS-realtime payload.
func BuildFeed(t testing.TB, entities ...*gtfsproto.FeedEntity) []byte {
	t.Helper()

	feed := &gtfsproto.FeedMessage{
		Header: &gtfsproto.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
		},
		Entity: entities,
	}

	payload, err := proto.Marshal(feed)
	require.NoError(t, err)

	return payload
}

// StopArrival is one stop-time update inside a trip update fixture. A
// zero Arrival with a non-zero Departure builds a departure-only
// update.
type StopArrival struct {
	StopID    string
	Arrival   int64
	Departure int64
}

// TripUpdateEntity builds a trip-update feed entity. Pass a negative
// direction to omit the direction flag.
func TripUpdateEntity(id, tripID, routeID string, direction int, stops ...StopArrival) *gtfsproto.FeedEntity {
	trip := &gtfsproto.TripDescriptor{
		TripId:  proto.String(tripID),
		RouteId: proto.String(routeID),
	}
	if direction >= 0 {
		trip.DirectionId = proto.Uint32(uint32(direction))
	}

	updates := make([]*gtfsproto.TripUpdate_StopTimeUpdate, 0, len(stops))
	for _, stop := range stops {
		update := &gtfsproto.TripUpdate_StopTimeUpdate{
			StopId: proto.String(stop.StopID),
		}
		if stop.Arrival != 0 {
			update.Arrival = &gtfsproto.TripUpdate_StopTimeEvent{Time: proto.Int64(stop.Arrival)}
		}
		if stop.Departure != 0 {
			update.Departure = &gtfsproto.TripUpdate_StopTimeEvent{Time: proto.Int64(stop.Departure)}
		}
		updates = append(updates, update)
	}

	return &gtfsproto.FeedEntity{
		Id: proto.String(id),
		TripUpdate: &gtfsproto.TripUpdate{
			Trip:           trip,
			StopTimeUpdate: updates,
		},
	}
}

// AlertEntity builds an alert feed entity informing the given routes
// directly.
func AlertEntity(id, header, description string, routeIDs ...string) *gtfsproto.FeedEntity {
	informed := make([]*gtfsproto.EntitySelector, 0, len(routeIDs))
	for _, routeID := range routeIDs {
		informed = append(informed, &gtfsproto.EntitySelector{
			RouteId: proto.String(routeID),
		})
	}

	alert := &gtfsproto.Alert{
		InformedEntity: informed,
	}
	if header != "" {
		alert.HeaderText = translated(header)
	}
	if description != "" {
		alert.DescriptionText = translated(description)
	}

	return &gtfsproto.FeedEntity{
		Id:    proto.String(id),
		Alert: alert,
	}
}

// AlertEntityForTrips builds an alert whose informed entities
// reference routes only through trip descriptors.
func AlertEntityForTrips(id, header string, tripRouteIDs ...string) *gtfsproto.FeedEntity {
	informed := make([]*gtfsproto.EntitySelector, 0, len(tripRouteIDs))
	for _, routeID := range tripRouteIDs {
		informed = append(informed, &gtfsproto.EntitySelector{
			Trip: &gtfsproto.TripDescriptor{RouteId: proto.String(routeID)},
		})
	}

	return &gtfsproto.FeedEntity{
		Id: proto.String(id),
		Alert: &gtfsproto.Alert{
			HeaderText:     translated(header),
			InformedEntity: informed,
		},
	}
}

func translated(text string) *gtfsproto.TranslatedString {
	return &gtfsproto.TranslatedString{
		Translation: []*gtfsproto.TranslatedString_Translation{
			{Text: proto.String(text)},
		},
	}
}
