package schedule

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"traintrack.dev/traintrack/model"
)

type stopCSV struct {
	ID            string `csv:"stop_id"`
	Name          string `csv:"stop_name"`
	Lat           string `csv:"stop_lat"`
	Lon           string `csv:"stop_lon"`
	ParentStation string `csv:"parent_station"`
	LocationType  string `csv:"location_type"`
}

// Two passes over stops.txt: the first collects parent/child edges,
// the second constructs Station records. A platform's parent station
// may appear later in the table than the platform itself, so edges
// must be complete before any record is built.
func (idx *Index) loadStops(data io.Reader) error {
	rows := []*stopCSV{}
	err := gocsv.UnmarshalToCallback(data, func(st *stopCSV) {
		rows = append(rows, st)
	})
	if err != nil {
		return errors.Wrap(err, "unmarshaling stops csv")
	}

	// First pass: parent/child edges.
	for _, st := range rows {
		if st.ParentStation != "" {
			idx.parentToChildren[st.ParentStation] = append(idx.parentToChildren[st.ParentStation], st.ID)
		}
	}

	// Second pass: station records and the name index.
	for _, st := range rows {
		idx.stats.StopsSeen++

		if st.ID == "" || st.Name == "" {
			idx.stats.StopsSkipped++
			continue
		}

		lat, errLat := strconv.ParseFloat(st.Lat, 64)
		lon, errLon := strconv.ParseFloat(st.Lon, 64)
		if errLat != nil || errLon != nil {
			idx.stats.StopsSkipped++
			continue
		}

		idx.stations[st.ID] = &model.Station{
			ID:   st.ID,
			Name: st.Name,
			Lat:  lat,
			Lon:  lon,
		}

		if st.ParentStation != "" {
			idx.stopToParent[st.ID] = st.ParentStation
		} else if st.LocationType == "1" {
			// A parent station is its own parent.
			idx.stopToParent[st.ID] = st.ID
		}

		idx.stationsByName[st.Name] = append(idx.stationsByName[st.Name], st.ID)
	}

	return nil
}
