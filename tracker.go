// Package traintrack merges a static subway schedule index with
// realtime arrival feeds to answer "what trains are arriving at this
// station, in which direction, and with what service disruptions".
package traintrack

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"traintrack.dev/traintrack/downloader"
	"traintrack.dev/traintrack/model"
	"traintrack.dev/traintrack/realtime"
	"traintrack.dev/traintrack/schedule"
)

const (
	DefaultFeedTTL     = 30 * time.Second
	DefaultFeedTimeout = 10 * time.Second
	DefaultFeedMaxSize = 1 << 20 // 1 MB
)

// ErrStationNotFound is returned when neither an id nor a name lookup
// resolves a station.
var ErrStationNotFound = model.ErrNotFound

// Options configures a Tracker. Zero values get defaults.
type Options struct {
	// FeedURLs are the realtime trip-update feeds to merge.
	FeedURLs []string
	// AlertFeedURL is the feed queried for service alerts.
	AlertFeedURL string
	FeedTTL      time.Duration
	FeedTimeout  time.Duration
	FeedMaxSize  int
	Logger       *slog.Logger
}

// Tracker is the public query surface. It owns no long-lived state
// beyond references to the schedule index and the feed downloader,
// and is safely reconstructable at any time. Construct one explicitly
// and pass it around; there is no process-wide instance.
type Tracker struct {
	index  *schedule.Index
	dl     downloader.Downloader
	opts   Options
	logger *slog.Logger

	TimeNow func() time.Time
}

func New(index *schedule.Index, dl downloader.Downloader, opts Options) *Tracker {
	if opts.FeedTTL == 0 {
		opts.FeedTTL = DefaultFeedTTL
	}
	if opts.FeedTimeout == 0 {
		opts.FeedTimeout = DefaultFeedTimeout
	}
	if opts.FeedMaxSize == 0 {
		opts.FeedMaxSize = DefaultFeedMaxSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{
		index:   index,
		dl:      dl,
		opts:    opts,
		logger:  logger,
		TimeNow: time.Now,
	}
}

// ResolveStation treats input as a stop id first, then as a name
// substring, returning the first match. Fails with ErrStationNotFound
// when neither resolves.
func (t *Tracker) ResolveStation(input string) (*model.Station, error) {
	station, err := t.index.Station(input)
	if err == nil {
		return station, nil
	}

	if matches := t.index.FindStationsByName(input); len(matches) > 0 {
		return matches[0], nil
	}

	return nil, ErrStationNotFound
}

// FindStationsByName returns all stations matching a name substring.
func (t *Tracker) FindStationsByName(name string) []*model.Station {
	return t.index.FindStationsByName(name)
}

// Arrivals returns the next train per route per direction for a
// station. A failing feed never aborts the query: its arrivals are
// omitted and the failure is recorded on the board.
func (t *Tracker) Arrivals(ctx context.Context, station *model.Station) *model.ArrivalBoard {
	stopIDs := map[string]bool{}
	for _, id := range t.index.RelatedStopIDs(station.ID) {
		stopIDs[id] = true
	}

	board := &model.ArrivalBoard{
		Directions: map[string][]model.RouteArrival{},
	}

	arrivals := []model.Arrival{}
	for _, url := range t.opts.FeedURLs {
		feedArrivals, err := t.feedArrivals(ctx, url, stopIDs)
		if err != nil {
			t.logger.Warn("feed skipped", "url", url, "error", err)
			board.Failures = append(board.Failures, model.FeedFailure{URL: url, Err: err})
			continue
		}
		arrivals = append(arrivals, feedArrivals...)
	}

	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].ArrivalTime < arrivals[j].ArrivalTime
	})

	borough := Borough(station.Lat, station.Lon)

	// Within each direction, keep only the closest train per route.
	closest := map[string]map[string]model.RouteArrival{}
	for _, arr := range arrivals {
		label := DirectionLabel(arr.RouteID, arr.DirectionID, borough)

		byRoute, found := closest[label]
		if !found {
			byRoute = map[string]model.RouteArrival{}
			closest[label] = byRoute
		}

		best, found := byRoute[arr.RouteID]
		if !found || arr.MinutesAway < best.MinutesAway {
			byRoute[arr.RouteID] = model.RouteArrival{
				RouteID:     arr.RouteID,
				MinutesAway: arr.MinutesAway,
				Destination: arr.Destination,
			}
		}
	}

	for label, byRoute := range closest {
		entries := make([]model.RouteArrival, 0, len(byRoute))
		for _, entry := range byRoute {
			entries = append(entries, entry)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].RouteID < entries[j].RouteID
		})
		board.Directions[label] = entries
	}

	return board
}

// Alerts returns deduplicated service alerts for the routes serving a
// station. A station serving no routes yields an empty set without
// touching the feed.
func (t *Tracker) Alerts(ctx context.Context, station *model.Station) ([]model.Alert, []model.FeedFailure) {
	if len(station.Routes) == 0 {
		return []model.Alert{}, nil
	}

	routeIDs := map[string]bool{}
	for _, routeID := range station.Routes {
		routeIDs[routeID] = true
	}

	url := t.opts.AlertFeedURL
	payload, err := t.fetchFeed(ctx, url)
	if err != nil {
		t.logger.Warn("alert feed skipped", "url", url, "error", err)
		return []model.Alert{}, []model.FeedFailure{{URL: url, Err: err}}
	}

	alerts, err := realtime.ParseAlerts(payload, routeIDs)
	if err != nil {
		t.logger.Warn("alert feed skipped", "url", url, "error", err)
		return []model.Alert{}, []model.FeedFailure{{URL: url, Err: err}}
	}

	// Alert identity is (route, message): the same message informed
	// through different feed objects is still one alert.
	type alertKey struct {
		routeID string
		message string
	}
	seen := map[alertKey]bool{}
	deduped := []model.Alert{}
	for _, alert := range alerts {
		key := alertKey{alert.RouteID, alert.Message}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, alert)
	}

	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].RouteID != deduped[j].RouteID {
			return deduped[i].RouteID < deduped[j].RouteID
		}
		return deduped[i].Message < deduped[j].Message
	})

	return deduped, nil
}

// StationData resolves a station and assembles its complete query
// result: arrival board, alerts and assembly timestamp. This is the
// one object presentation layers consume.
func (t *Tracker) StationData(ctx context.Context, input string) (*model.StationData, error) {
	station, err := t.ResolveStation(input)
	if err != nil {
		return nil, err
	}

	board := t.Arrivals(ctx, station)
	alerts, alertFailures := t.Alerts(ctx, station)
	board.Failures = append(board.Failures, alertFailures...)

	return &model.StationData{
		Station:     station,
		Board:       board,
		Alerts:      alerts,
		LastUpdated: t.TimeNow(),
	}, nil
}

func (t *Tracker) feedArrivals(ctx context.Context, url string, stopIDs map[string]bool) ([]model.Arrival, error) {
	payload, err := t.fetchFeed(ctx, url)
	if err != nil {
		return nil, err
	}
	return realtime.ParseArrivals(payload, stopIDs, t.TimeNow())
}

func (t *Tracker) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	return t.dl.Get(ctx, url, nil, downloader.GetOptions{
		Cache:    true,
		CacheTTL: t.opts.FeedTTL,
		Timeout:  t.opts.FeedTimeout,
		MaxSize:  t.opts.FeedMaxSize,
	})
}
