package traintrack

import "strconv"

// Borough names as returned by Borough.
const (
	BoroughManhattan    = "Manhattan"
	BoroughBrooklyn     = "Brooklyn"
	BoroughQueens       = "Queens"
	BoroughBronx        = "Bronx"
	BoroughStatenIsland = "Staten Island"
)

type boroughBox struct {
	name           string
	minLat, maxLat float64
	minLon, maxLon float64
}

// Hand-tuned bounding boxes. The boxes overlap, so order matters:
// first match wins.
var boroughBoxes = []boroughBox{
	{BoroughStatenIsland, 40.48, 40.65, -74.25, -74.05},
	{BoroughBrooklyn, 40.56, 40.75, -74.05, -73.85},
	{BoroughManhattan, 40.68, 40.88, -74.04, -73.90},
	{BoroughQueens, 40.54, 40.81, -73.96, -73.70},
	{BoroughBronx, 40.79, 40.92, -73.94, -73.77},
}

// Borough roughly infers the NYC borough for a coordinate. Not
// perfect, but good enough for rider-facing direction labels. Returns
// "" for coordinates outside all boxes.
func Borough(lat, lon float64) string {
	for _, box := range boroughBoxes {
		if lat >= box.minLat && lat <= box.maxLat && lon >= box.minLon && lon <= box.maxLon {
			return box.name
		}
	}
	return ""
}

// Fixed per-route-group direction conventions, applied when no
// borough override does.
var routeDirections = map[string][2]string{
	"1":   {"Downtown", "Uptown"},
	"2":   {"Downtown", "Uptown"},
	"3":   {"Downtown", "Uptown"},
	"4":   {"Downtown", "Uptown"},
	"5":   {"Downtown", "Uptown"},
	"6":   {"Downtown", "Uptown"},
	"7":   {"Downtown", "Uptown"},
	"A":   {"Downtown", "Uptown"},
	"C":   {"Downtown", "Uptown"},
	"E":   {"Downtown", "Uptown"},
	"B":   {"South", "North"},
	"D":   {"South", "North"},
	"F":   {"South", "North"},
	"M":   {"South", "North"},
	"G":   {"Eastbound", "Westbound"},
	"L":   {"Eastbound", "Westbound"},
	"N":   {"Eastbound", "Westbound"},
	"Q":   {"Eastbound", "Westbound"},
	"R":   {"Eastbound", "Westbound"},
	"W":   {"Eastbound", "Westbound"},
	"J":   {"Jamaica", "Broad Street"},
	"Z":   {"Jamaica", "Broad Street"},
	"S":   {"Queensbound", "Manhattanbound"},
	"SIR": {"Tompkinsville", "St. George"},
}

// DirectionLabel translates a route and binary direction flag into a
// rider-facing label. A non-Manhattan borough overrides the per-route
// convention with a borough-pair label; Manhattan and unknown boroughs
// fall through to the route groups. Unrecognized routes get a literal
// "Direction <flag>" label.
func DirectionLabel(routeID string, directionID int8, borough string) string {
	switch borough {
	case BoroughBrooklyn:
		if directionID == 0 {
			return "Brooklyn-bound"
		}
		return "Manhattan-bound"
	case BoroughQueens:
		if directionID == 0 {
			return "Queens-bound"
		}
		return "Manhattan-bound"
	case BoroughBronx:
		if directionID == 0 {
			return "Manhattan-bound"
		}
		return "Bronx-bound"
	case BoroughStatenIsland:
		if directionID == 0 {
			return "Tottenville-bound"
		}
		return "St. George-bound"
	}

	if labels, found := routeDirections[routeID]; found {
		return labels[directionID&1]
	}

	return "Direction " + strconv.Itoa(int(directionID))
}
