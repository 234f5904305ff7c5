package schedule

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traintrack.dev/traintrack/model"
)

const (
	testStops = `stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station
127,Times Sq-42 St,40.75529,-73.987495,1,
127N,Times Sq-42 St,40.75529,-73.987495,0,127
127S,Times Sq-42 St,40.75529,-73.987495,0,127
A27,42 St-Port Authority,40.757308,-73.989735,1,
A27N,42 St-Port Authority,40.757308,-73.989735,0,A27
A27S,42 St-Port Authority,40.757308,-73.989735,0,A27`

	testRoutes = `route_id,route_short_name,route_long_name
1,1,Broadway - 7 Avenue Local
2,2,7 Avenue Express
A,,8 Avenue Express
FS,,`

	testStopTimes = `trip_id,stop_id
AFA25GEN-1038-Sunday-00_020600_1..S03R,127S
AFA25GEN-1038-Sunday-00_021000_1..N03R,127N
BFA25GEN-2042-Weekday-00_034500_2..S01R,127S
CFA25GEN-8088-Weekday-00_055000_A..N55R,A27N`
)

func load(t *testing.T, stops, routes, stopTimes string) *Index {
	t.Helper()
	idx, err := Load(
		strings.NewReader(stops),
		strings.NewReader(routes),
		strings.NewReader(stopTimes),
		nil,
	)
	require.NoError(t, err)
	return idx
}

func TestLoadBuildsStationGraph(t *testing.T) {
	idx := load(t, testStops, testRoutes, testStopTimes)

	station, err := idx.Station("127")
	require.NoError(t, err)
	assert.Equal(t, "Times Sq-42 St", station.Name)
	assert.Equal(t, 40.75529, station.Lat)
	assert.Equal(t, []string{"1", "2"}, station.Routes)

	north, err := idx.Station("127N")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, north.Routes)
}

func TestParentRouteSetIsUnionOfChildren(t *testing.T) {
	idx := load(t, testStops, testRoutes, testStopTimes)

	parent, err := idx.Station("127")
	require.NoError(t, err)

	for _, childID := range []string{"127N", "127S"} {
		child, err := idx.Station(childID)
		require.NoError(t, err)
		for _, routeID := range child.Routes {
			assert.Contains(t, parent.Routes, routeID,
				"parent must serve every route of child %s", childID)
		}
	}
}

func TestStationNotFound(t *testing.T) {
	idx := load(t, testStops, testRoutes, testStopTimes)

	_, err := idx.Station("999")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestFindStationsByName(t *testing.T) {
	idx := load(t, testStops, testRoutes, testStopTimes)

	for _, tc := range []struct {
		name    string
		query   string
		matches int
	}{
		{"case insensitive substring", "times sq", 3},
		{"exact name", "42 St-Port Authority", 3},
		{"shared substring", "42 St", 6},
		{"no match", "Coney Island", 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, idx.FindStationsByName(tc.query), tc.matches)
		})
	}
}

func TestRelatedStopIDs(t *testing.T) {
	idx := load(t, testStops, testRoutes, testStopTimes)

	for _, tc := range []struct {
		name   string
		stopID string
		want   []string
	}{
		{"parent with platforms", "127", []string{"127N", "127S"}},
		{"platform resolves to siblings", "127S", []string{"127N", "127S"}},
		{"unknown id returned as-is", "X99", []string{"X99"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, idx.RelatedStopIDs(tc.stopID))
		})
	}
}

func TestRelatedStopIDsWithoutPlatforms(t *testing.T) {
	stops := `stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station
S01,Lone Station,40.6,-74.0,1,`

	idx := load(t, stops, testRoutes, "trip_id,stop_id")
	assert.Equal(t, []string{"S01"}, idx.RelatedStopIDs("S01"))
}

func TestRouteNameFallback(t *testing.T) {
	idx := load(t, testStops, testRoutes, testStopTimes)

	assert.Equal(t, "1", idx.RouteName("1"))
	assert.Equal(t, "8 Avenue Express", idx.RouteName("A"), "long name when short missing")
	assert.Equal(t, "FS", idx.RouteName("FS"), "bare id when both missing")
	assert.Equal(t, "X", idx.RouteName("X"), "unknown routes fall back to id")
}

func TestStationsForRoute(t *testing.T) {
	idx := load(t, testStops, testRoutes, testStopTimes)

	assert.Equal(t, []string{"127N", "127S"}, idx.StationsForRoute("1"))
	assert.Empty(t, idx.StationsForRoute("FS"))
}

func TestLoadStatsCountSkippedRows(t *testing.T) {
	stops := `stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station
127,Times Sq-42 St,40.75529,-73.987495,1,
,Nameless,40.1,-73.9,0,
BAD,Bad Coords,not-a-float,-73.9,0,`

	stopTimes := `trip_id,stop_id
AFA25GEN-1038-Sunday-00_020600_1..S03R,127
no-dots-here,127
AFA25GEN-1038-Sunday-00_020600_9..S03R,127`

	idx := load(t, stops, testRoutes, stopTimes)

	stats := idx.Stats()
	assert.Equal(t, 3, stats.StopsSeen)
	assert.Equal(t, 2, stats.StopsSkipped)
	assert.Equal(t, 3, stats.StopTimesSeen)
	assert.Equal(t, 1, stats.StopTimesMatched)
	assert.Equal(t, 2, stats.StopTimesSkipped, "unparseable and unknown-route trips counted")
}

func TestLoadFromZipMatchesLoad(t *testing.T) {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range map[string]string{
		"stops.txt":      testStops,
		"routes.txt":     testRoutes,
		"stop_times.txt": testStopTimes,
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	fromZip, err := LoadFromZip(buf.Bytes(), nil)
	require.NoError(t, err)

	direct := load(t, testStops, testRoutes, testStopTimes)

	zipStation, err := fromZip.Station("127")
	require.NoError(t, err)
	directStation, err := direct.Station("127")
	require.NoError(t, err)
	assert.Equal(t, directStation, zipStation)
	assert.Equal(t, direct.Stats(), fromZip.Stats())
}

func TestLoadFromZipErrors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		_, err := LoadFromZip([]byte("not a zip"), nil)
		var decodeErr *model.DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})

	t.Run("missing table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := zip.NewWriter(buf)
		f, err := w.Create("stops.txt")
		require.NoError(t, err)
		_, err = f.Write([]byte(testStops))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		_, err = LoadFromZip(buf.Bytes(), nil)
		var decodeErr *model.DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}
