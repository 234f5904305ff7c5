package schedule

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

type routeCSV struct {
	ID        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
}

func (idx *Index) loadRoutes(data io.Reader) error {
	err := gocsv.UnmarshalToCallback(data, func(r *routeCSV) {
		idx.stats.RoutesSeen++

		if r.ID == "" {
			idx.stats.RoutesSkipped++
			return
		}

		name := r.ShortName
		if name == "" {
			name = r.LongName
		}
		if name == "" {
			name = r.ID
		}

		idx.routeNames[r.ID] = name
		idx.stopsByRoute[r.ID] = map[string]bool{}
	})
	if err != nil {
		return errors.Wrap(err, "unmarshaling routes csv")
	}

	return nil
}
