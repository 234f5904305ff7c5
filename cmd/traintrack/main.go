package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"traintrack.dev/traintrack"
	"traintrack.dev/traintrack/config"
	"traintrack.dev/traintrack/downloader"
	"traintrack.dev/traintrack/metrics"
	"traintrack.dev/traintrack/schedule"
)

var rootCmd = &cobra.Command{
	Use:          "traintrack",
	Short:        "NYC subway arrival tracker",
	Long:         "Tracks realtime subway arrivals and service alerts per station",
	SilenceUsage: true,
}

// Default NYC subway endpoints, used when no config file is given.
var defaultFeedURLs = []string{
	"https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-ace",
	"https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-bdfm",
	"https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-g",
	"https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-jz",
	"https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-nqrw",
	"https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-l",
	"https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs",
}

const (
	defaultAlertFeedURL = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs"
	defaultStaticURL    = "https://rrgtfsfeeds.s3.amazonaws.com/gtfs_subway.zip"
	staticCacheTTL      = 12 * time.Hour
	staticTimeout       = 60 * time.Second
)

var (
	configPath    string
	staticURL     string
	stopsPath     string
	routesPath    string
	stopTimesPath string
	cacheFile     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&staticURL, "static-url", "", defaultStaticURL, "Static schedule bundle URL")
	rootCmd.PersistentFlags().StringVarP(&stopsPath, "stops", "", "", "Local stops.txt path")
	rootCmd.PersistentFlags().StringVarP(&routesPath, "routes", "", "", "Local routes.txt path")
	rootCmd.PersistentFlags().StringVarP(&stopTimesPath, "stop-times", "", "", "Local stop_times.txt path")
	rootCmd.PersistentFlags().StringVarP(&cacheFile, "cache-file", "", "./traintrack-cache.json", "Static bundle cache file")

	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(arrivalsCmd)
	rootCmd.AddCommand(alertsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadIndex(logger *slog.Logger) (*schedule.Index, error) {
	if stopsPath != "" || routesPath != "" || stopTimesPath != "" {
		if stopsPath == "" || routesPath == "" || stopTimesPath == "" {
			return nil, fmt.Errorf("--stops, --routes and --stop-times must be given together")
		}
		return schedule.LoadFromFiles(stopsPath, routesPath, stopTimesPath, logger)
	}

	// Cache the bundle on disk so repeated invocations don't
	// re-download it.
	fs, err := downloader.NewFilesystem(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}

	ctx := context.Background()
	buf, err := fs.Get(ctx, staticURL, nil, downloader.GetOptions{
		Cache:    true,
		CacheTTL: staticCacheTTL,
		Timeout:  staticTimeout,
	})
	if err != nil {
		return nil, err
	}

	return schedule.LoadFromZip(buf, logger)
}

func buildTracker() (*traintrack.Tracker, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	feedURLs := defaultFeedURLs
	alertFeedURL := defaultAlertFeedURL
	dl := downloader.NewMemory()
	dl.Metrics = metrics.New()
	opts := traintrack.Options{Logger: logger}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		feedURLs = cfg.Feeds
		alertFeedURL = cfg.AlertFeed
		dl.TTL = cfg.Cache.TTL()
		dl.MaxEntries = cfg.Cache.MaxEntries
		opts.FeedTTL = cfg.Cache.TTL()
		opts.FeedTimeout = cfg.Cache.Timeout()
		if cfg.Static.URL != "" {
			staticURL = cfg.Static.URL
		}
		if cfg.Static.StopsPath != "" {
			stopsPath = cfg.Static.StopsPath
			routesPath = cfg.Static.RoutesPath
			stopTimesPath = cfg.Static.StopTimesPath
		}
	}

	index, err := loadIndex(logger)
	if err != nil {
		return nil, fmt.Errorf("loading static schedule: %w", err)
	}

	opts.FeedURLs = feedURLs
	opts.AlertFeedURL = alertFeedURL

	return traintrack.New(index, dl, opts), nil
}
