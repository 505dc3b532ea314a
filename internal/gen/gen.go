// Package gen writes synthetic input datasets for local runs and demos.
// It is a boundary adapter: output goes through the same CSV contracts the
// validator reads, including a small fraction of deliberately dirty rows so
// cleaning reports have something to count.
package gen

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Options controls dataset size and reproducibility.
type Options struct {
	Stations      int
	Trips         int
	Users         int
	Bikes         int
	Seed          int64
	DirtyFraction float64 // share of trip rows made invalid on purpose
}

// DefaultOptions returns a small but interesting dataset shape.
func DefaultOptions() Options {
	return Options{
		Stations:      12,
		Trips:         500,
		Users:         40,
		Bikes:         60,
		Seed:          1,
		DirtyFraction: 0.02,
	}
}

var stationNames = []string{
	"Harbor Gate", "Old Mill", "Union Square", "Riverside", "Cathedral",
	"North Yard", "Museum Row", "Garden Bridge", "Market Hall", "East Docks",
	"City Park", "Terminal West", "Foundry", "Lighthouse", "Granary",
}

var eventTypes = []string{"brake_adjustment", "tire_replacement", "battery_swap", "inspection"}

// Write produces stations.csv, trips.csv, and maintenance.csv under dataDir.
// The same seed always produces byte-identical files.
func Write(dataDir string, opt Options) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrapf(err, "create data dir %s", dataDir)
	}
	r := rand.New(rand.NewSource(opt.Seed))

	stations := make([]string, opt.Stations)
	stationRows := make([][]string, opt.Stations)
	for i := range stations {
		stations[i] = fmt.Sprintf("S%03d", i+1)
		stationRows[i] = []string{
			stations[i],
			stationNames[i%len(stationNames)],
			fmt.Sprintf("%.6f", 52.37+r.Float64()*0.1-0.05),
			fmt.Sprintf("%.6f", 4.89+r.Float64()*0.1-0.05),
			fmt.Sprintf("%d", 10+r.Intn(31)),
		}
	}
	if err := writeFile(filepath.Join(dataDir, "stations.csv"),
		[]string{"station_id", "name", "latitude", "longitude", "capacity"}, stationRows); err != nil {
		return err
	}

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	tripRows := make([][]string, 0, opt.Trips)
	for i := 0; i < opt.Trips; i++ {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return errors.Wrap(err, "generate trip id")
		}
		start := base.Add(time.Duration(r.Intn(90*24*60)) * time.Minute)
		end := start.Add(time.Duration(5+r.Intn(56)) * time.Minute)
		userType := "casual"
		if r.Intn(2) == 1 {
			userType = "member"
		}
		row := []string{
			id.String(),
			fmt.Sprintf("B%03d", 1+r.Intn(opt.Bikes)),
			stations[r.Intn(len(stations))],
			stations[r.Intn(len(stations))],
			start.Format("2006-01-02 15:04:05"),
			end.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("U%03d", 1+r.Intn(opt.Users)),
			userType,
		}
		if r.Float64() < opt.DirtyFraction {
			row = dirtyTrip(r, row)
		}
		tripRows = append(tripRows, row)
	}
	tripHeader := []string{
		"trip_id", "bike_id", "start_station_id", "end_station_id",
		"start_time", "end_time", "user_id", "user_type",
	}
	if err := writeFile(filepath.Join(dataDir, "trips.csv"), tripHeader, tripRows); err != nil {
		return err
	}

	maintRows := make([][]string, 0, opt.Trips/10)
	for i := 0; i < opt.Trips/10; i++ {
		ts := base.Add(time.Duration(r.Intn(90*24)) * time.Hour)
		maintRows = append(maintRows, []string{
			fmt.Sprintf("B%03d", 1+r.Intn(opt.Bikes)),
			stations[r.Intn(len(stations))],
			ts.Format("2006-01-02 15:04:05"),
			eventTypes[r.Intn(len(eventTypes))],
			fmt.Sprintf("%.2f", 5+r.Float64()*145),
		})
	}
	return writeFile(filepath.Join(dataDir, "maintenance.csv"),
		[]string{"bike_id", "station_id", "timestamp", "event_type", "cost"}, maintRows)
}

// dirtyTrip corrupts one field so the row trips a specific validation check.
func dirtyTrip(r *rand.Rand, row []string) []string {
	switch r.Intn(4) {
	case 0:
		row[4] = "not-a-timestamp"
	case 1:
		row[4], row[5] = row[5], row[4] // end before start
	case 2:
		row[2] = "S999" // unknown station
	default:
		row[6] = "" // missing user id
	}
	return row
}

func writeFile(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := w.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
