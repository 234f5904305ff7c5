package traintrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionLabel(t *testing.T) {
	for _, tc := range []struct {
		name      string
		routeID   string
		direction int8
		borough   string
		want      string
	}{
		{"numbered downtown", "1", 0, "", "Downtown"},
		{"numbered uptown", "1", 1, "", "Uptown"},
		{"ace uses downtown uptown", "A", 0, "", "Downtown"},
		{"bdfm uses south north", "F", 1, "", "North"},
		{"g eastbound", "G", 0, "", "Eastbound"},
		{"l westbound", "L", 1, "", "Westbound"},
		{"nqrw eastbound", "Q", 0, "", "Eastbound"},
		{"j jamaica", "J", 0, "", "Jamaica"},
		{"z broad street", "Z", 1, "", "Broad Street"},
		{"shuttle queensbound", "S", 0, "", "Queensbound"},
		{"shuttle manhattanbound", "S", 1, "", "Manhattanbound"},
		{"sir tompkinsville", "SIR", 0, "", "Tompkinsville"},
		{"sir st george", "SIR", 1, "", "St. George"},
		{"unknown route falls back", "X", 0, "", "Direction 0"},
		{"unknown route falls back one", "X", 1, "", "Direction 1"},

		{"manhattan keeps route convention", "1", 1, BoroughManhattan, "Uptown"},
		{"brooklyn outbound", "2", 0, BoroughBrooklyn, "Brooklyn-bound"},
		{"brooklyn inbound", "2", 1, BoroughBrooklyn, "Manhattan-bound"},
		{"queens outbound", "7", 0, BoroughQueens, "Queens-bound"},
		{"queens inbound", "7", 1, BoroughQueens, "Manhattan-bound"},
		{"bronx outbound", "4", 1, BoroughBronx, "Bronx-bound"},
		{"bronx inbound", "4", 0, BoroughBronx, "Manhattan-bound"},
		{"staten island outbound", "SIR", 0, BoroughStatenIsland, "Tottenville-bound"},
		{"staten island inbound overrides any route", "Z", 1, BoroughStatenIsland, "St. George-bound"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DirectionLabel(tc.routeID, tc.direction, tc.borough))
		})
	}
}

func TestBorough(t *testing.T) {
	for _, tc := range []struct {
		name string
		lat  float64
		lon  float64
		want string
	}{
		{"times square is manhattan", 40.75529, -73.987495, BoroughManhattan},
		{"atlantic av is brooklyn", 40.684359, -73.977666, BoroughBrooklyn},
		{"flushing main st is queens", 40.7596, -73.83003, BoroughQueens},
		{"pelham bay park is bronx", 40.852462, -73.828121, BoroughBronx},
		{"st george is staten island", 40.643748, -74.073643, BoroughStatenIsland},
		{"outside all boxes", 51.5074, -0.1278, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Borough(tc.lat, tc.lon))
		})
	}
}
