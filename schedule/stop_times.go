package schedule

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

type stopTimeCSV struct {
	TripID string `csv:"trip_id"`
	StopID string `csv:"stop_id"`
}

// TripRouteID recovers the route id embedded in an MTA trip id, e.g.
// "AFA25GEN-1038-Sunday-00_020600_1..S03R" encodes route "1". The
// segment before the literal ".." is split on "_" and the final token
// is the route. Returns false for trip ids that don't follow the
// convention. The heuristic is fragile by nature; callers must verify
// the result against a known route table.
func TripRouteID(tripID string) (string, bool) {
	before, _, found := strings.Cut(tripID, "..")
	if !found {
		return "", false
	}

	segments := strings.Split(before, "_")
	routeID := segments[len(segments)-1]
	if routeID == "" {
		return "", false
	}

	return routeID, true
}

// Associates stops with routes via the trip id heuristic. Rows whose
// trip id is unparseable, or names a route absent from routes.txt, are
// skipped and counted.
func (idx *Index) loadStopTimes(data io.Reader) error {
	err := gocsv.UnmarshalToCallback(data, func(st *stopTimeCSV) {
		idx.stats.StopTimesSeen++

		if st.TripID == "" || st.StopID == "" {
			idx.stats.StopTimesSkipped++
			return
		}

		routeID, ok := TripRouteID(st.TripID)
		if !ok {
			idx.stats.StopTimesSkipped++
			return
		}

		stops, known := idx.stopsByRoute[routeID]
		if !known {
			idx.stats.StopTimesSkipped++
			return
		}

		stops[st.StopID] = true
		idx.stats.StopTimesMatched++
	})
	if err != nil {
		return errors.Wrap(err, "unmarshaling stop_times csv")
	}

	return nil
}
