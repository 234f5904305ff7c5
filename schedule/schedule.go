// Package schedule builds an in-memory station/route graph from GTFS
// static data. Three tables are consumed: stops, routes and stop
// times. The index is built once and not mutated afterwards; callers
// share it freely across goroutines.
package schedule

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"traintrack.dev/traintrack/downloader"
	"traintrack.dev/traintrack/model"
)

// LoadStats counts rows processed during ingestion. Skipped rows are
// counted rather than silently dropped, so data loss is detectable.
type LoadStats struct {
	StopsSeen        int
	StopsSkipped     int
	RoutesSeen       int
	RoutesSkipped    int
	StopTimesSeen    int
	StopTimesMatched int
	StopTimesSkipped int
}

// Index answers station and route lookups against loaded static data.
type Index struct {
	stations         map[string]*model.Station
	stationsByName   map[string][]string
	routeNames       map[string]string
	stopsByRoute     map[string]map[string]bool
	parentToChildren map[string][]string
	stopToParent     map[string]string

	stats LoadStats
}

func newIndex() *Index {
	return &Index{
		stations:         map[string]*model.Station{},
		stationsByName:   map[string][]string{},
		routeNames:       map[string]string{},
		stopsByRoute:     map[string]map[string]bool{},
		parentToChildren: map[string][]string{},
		stopToParent:     map[string]string{},
	}
}

// Load builds an Index from the three static tables. Unreadable input
// fails the whole load with a DecodeError; malformed individual rows
// are skipped and counted in Stats.
func Load(stops, routes, stopTimes io.Reader, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// LazyCSVReader survives sloppy use of quotes. The BOM reader
	// strips unicode BOMs if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})

	idx := newIndex()

	if err := idx.loadStops(stops); err != nil {
		return nil, errors.Wrap(err, "loading stops")
	}
	if err := idx.loadRoutes(routes); err != nil {
		return nil, errors.Wrap(err, "loading routes")
	}
	if err := idx.loadStopTimes(stopTimes); err != nil {
		return nil, errors.Wrap(err, "loading stop times")
	}

	idx.propagateRoutes()

	logger.Info("static schedule loaded",
		"stations", len(idx.stations),
		"routes", len(idx.routeNames),
		"stops_skipped", idx.stats.StopsSkipped,
		"stop_times_skipped", idx.stats.StopTimesSkipped,
	)

	return idx, nil
}

// LoadFromURL downloads a zipped GTFS bundle and loads stops.txt,
// routes.txt and stop_times.txt from it. Produces the same index as
// LoadFromFiles for identical content.
func LoadFromURL(ctx context.Context, dl downloader.Downloader, url string, timeout time.Duration, logger *slog.Logger) (*Index, error) {
	buf, err := dl.Get(ctx, url, nil, downloader.GetOptions{Timeout: timeout})
	if err != nil {
		return nil, err
	}
	return LoadFromZip(buf, logger)
}

// LoadFromZip loads the three tables from a zipped GTFS bundle held in
// memory.
func LoadFromZip(buf []byte, logger *slog.Logger) (*Index, error) {
	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, &model.DecodeError{Reason: "unzipping bundle", Err: err}
	}

	file := map[string]io.ReadCloser{
		"stops.txt":      nil,
		"routes.txt":     nil,
		"stop_times.txt": nil,
	}

	defer func() {
		for _, rc := range file {
			if rc != nil {
				rc.Close()
			}
		}
	}()

	for _, f := range r.File {
		// There should not be any subdirectories. But, some
		// agencies don't care.
		if f.FileInfo().IsDir() {
			continue
		}
		path := strings.Split(f.Name, "/")
		fName := path[len(path)-1]

		if _, found := file[fName]; !found {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, &model.DecodeError{Reason: "opening " + f.Name, Err: err}
		}
		file[fName] = rc
	}

	for _, required := range []string{"stops.txt", "routes.txt", "stop_times.txt"} {
		if file[required] == nil {
			return nil, &model.DecodeError{Reason: "missing " + required}
		}
	}

	return Load(file["stops.txt"], file["routes.txt"], file["stop_times.txt"], logger)
}

// LoadFromFiles loads the three tables from local files.
func LoadFromFiles(stopsPath, routesPath, stopTimesPath string, logger *slog.Logger) (*Index, error) {
	readers := make([]io.Reader, 0, 3)
	for _, path := range []string{stopsPath, routesPath, stopTimesPath} {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", path)
		}
		defer f.Close()
		readers = append(readers, f)
	}

	return Load(readers[0], readers[1], readers[2], logger)
}

// Station returns a station by exact stop id.
func (idx *Index) Station(id string) (*model.Station, error) {
	station, found := idx.stations[id]
	if !found {
		return nil, errors.Wrapf(model.ErrNotFound, "station %q", id)
	}
	return station, nil
}

// FindStationsByName returns every station whose name contains the
// given substring, case-insensitively. Matches are grouped by name but
// otherwise unordered, and include both parent and platform entries.
func (idx *Index) FindStationsByName(name string) []*model.Station {
	nameLower := strings.ToLower(name)

	results := []*model.Station{}
	for stationName, stopIDs := range idx.stationsByName {
		if !strings.Contains(strings.ToLower(stationName), nameLower) {
			continue
		}
		for _, stopID := range stopIDs {
			results = append(results, idx.stations[stopID])
		}
	}

	return results
}

// RelatedStopIDs returns the physical platform ids for the given
// stop's parent station, or the bare parent id when no platforms
// exist. Realtime feeds key arrivals by platform, not by the logical
// parent.
func (idx *Index) RelatedStopIDs(stopID string) []string {
	if _, found := idx.stations[stopID]; !found {
		return []string{stopID}
	}

	parentID, found := idx.stopToParent[stopID]
	if !found {
		parentID = stopID
	}

	if children := idx.parentToChildren[parentID]; len(children) > 0 {
		return children
	}

	return []string{parentID}
}

// RouteName returns the display name for a route, falling back to the
// bare id.
func (idx *Index) RouteName(routeID string) string {
	if name, found := idx.routeNames[routeID]; found {
		return name
	}
	return routeID
}

// KnownRoute reports whether the route id appeared in the routes table.
func (idx *Index) KnownRoute(routeID string) bool {
	_, found := idx.routeNames[routeID]
	return found
}

// StationsForRoute returns the ids of all stops served by a route.
func (idx *Index) StationsForRoute(routeID string) []string {
	stops := idx.stopsByRoute[routeID]
	ids := make([]string, 0, len(stops))
	for id := range stops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stats returns ingestion counters for the loaded tables.
func (idx *Index) Stats() LoadStats {
	return idx.stats
}

// Fills in each station's route set from the stop time associations,
// then unions every platform's routes up into its parent. Route sets
// are not mutated after this.
func (idx *Index) propagateRoutes() {
	for routeID, stopIDs := range idx.stopsByRoute {
		for stopID := range stopIDs {
			if station, found := idx.stations[stopID]; found {
				station.Routes = appendUnique(station.Routes, routeID)
			}
		}
	}

	for childID, parentID := range idx.stopToParent {
		if childID == parentID {
			continue
		}
		child, childFound := idx.stations[childID]
		parent, parentFound := idx.stations[parentID]
		if !childFound || !parentFound {
			continue
		}
		for _, routeID := range child.Routes {
			parent.Routes = appendUnique(parent.Routes, routeID)
		}
	}

	for _, station := range idx.stations {
		sort.Strings(station.Routes)
	}
}

func appendUnique(routes []string, routeID string) []string {
	for _, r := range routes {
		if r == routeID {
			return routes
		}
	}
	return append(routes, routeID)
}
