// Package report writes a completed run's outputs: cleaned datasets,
// ranking tables, a human-readable summary, a machine-readable cleaning
// report, and the data series consumed by an external chart renderer.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/veloscope/veloscope-cli/internal/analytics"
	"github.com/veloscope/veloscope-cli/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// Writer implements analytics.Writer against a local output directory.
type Writer struct {
	// HistogramBins sets the bin count of the duration histogram series.
	// Zero means 30.
	HistogramBins int
}

// Write produces every output file under outDir. Files are written
// atomically; figures go under outDir/figures.
func (w Writer) Write(outDir string, res *analytics.Results, cleaned analytics.Cleaned, reports []*model.CleaningReport) error {
	if err := EnsureDir(outDir); err != nil {
		return errors.Wrapf(err, "create output dir %s", outDir)
	}
	figDir := filepath.Join(outDir, "figures")
	if err := EnsureDir(figDir); err != nil {
		return errors.Wrapf(err, "create figures dir %s", figDir)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"stations_clean.csv", func() error { return w.writeStationsCSV(filepath.Join(outDir, "stations_clean.csv"), cleaned.Stations) }},
		{"trips_clean.csv", func() error { return w.writeTripsCSV(filepath.Join(outDir, "trips_clean.csv"), cleaned.Trips) }},
		{"maintenance_clean.csv", func() error { return w.writeMaintenanceCSV(filepath.Join(outDir, "maintenance_clean.csv"), cleaned.Maintenance) }},
		{"top_stations.csv", func() error {
			return w.writeRankingCSV(filepath.Join(outDir, "top_stations.csv"), "station_id", res.StationMetric, res.TopStations)
		}},
		{"top_users.csv", func() error {
			return w.writeRankingCSV(filepath.Join(outDir, "top_users.csv"), "user_id", res.UserMetric, res.TopUsers)
		}},
		{"summary_report.txt", func() error {
			return SafeWriteFile(filepath.Join(outDir, "summary_report.txt"), []byte(SummaryText(res, reports)))
		}},
		{"cleaning_report.yaml", func() error { return w.writeCleaningYAML(filepath.Join(outDir, "cleaning_report.yaml"), res.RunID, reports) }},
		{"figures", func() error { return w.writeFigures(figDir, res, cleaned.Trips) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return errors.Wrapf(err, "write %s", step.name)
		}
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return SafeWriteFile(path, buf.Bytes())
}

func (Writer) writeStationsCSV(path string, stations []model.Station) error {
	rows := make([][]string, 0, len(stations))
	for _, s := range stations {
		rows = append(rows, []string{
			s.ID, s.Name,
			formatFloat(s.Latitude), formatFloat(s.Longitude),
			strconv.Itoa(s.Capacity),
		})
	}
	return writeCSV(path, []string{"station_id", "name", "latitude", "longitude", "capacity"}, rows)
}

func (Writer) writeTripsCSV(path string, trips []model.Trip) error {
	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, []string{
			t.ID, t.BikeID, t.StartStationID, t.EndStationID,
			t.StartTime.Format(timeLayout), t.EndTime.Format(timeLayout),
			t.UserID, string(t.UserType),
			formatFloat(t.DurationMinutes), formatFloat(t.DistanceKM),
		})
	}
	header := []string{
		"trip_id", "bike_id", "start_station_id", "end_station_id",
		"start_time", "end_time", "user_id", "user_type",
		"duration_minutes", "distance_km",
	}
	return writeCSV(path, header, rows)
}

func (Writer) writeMaintenanceCSV(path string, events []model.Maintenance) error {
	rows := make([][]string, 0, len(events))
	for _, m := range events {
		cost := ""
		if m.HasCost {
			cost = formatFloat(m.Cost)
		}
		rows = append(rows, []string{
			m.BikeID, m.StationID, m.Timestamp.Format(timeLayout), m.EventType, cost,
		})
	}
	return writeCSV(path, []string{"bike_id", "station_id", "timestamp", "event_type", "cost"}, rows)
}

func (Writer) writeRankingCSV(path, idColumn, metric string, ranked []model.RankedEntity) error {
	rows := make([][]string, 0, len(ranked))
	for _, e := range ranked {
		rows = append(rows, []string{strconv.Itoa(e.Rank), e.ID, formatFloat(e.Score)})
	}
	return writeCSV(path, []string{"rank", idColumn, metric}, rows)
}

func (Writer) writeCleaningYAML(path, runID string, reports []*model.CleaningReport) error {
	doc := struct {
		RunID string                  `yaml:"run_id"`
		Files []*model.CleaningReport `yaml:"files"`
	}{RunID: runID, Files: reports}
	b, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}
	return SafeWriteFile(path, b)
}

// writeFigures emits the data series the external chart renderer consumes.
// Rendering itself (PNG output) is not this tool's job.
func (w Writer) writeFigures(figDir string, res *analytics.Results, trips []model.Trip) error {
	rows := make([][]string, 0, len(res.TopStations))
	for _, e := range res.TopStations {
		rows = append(rows, []string{e.ID, formatFloat(e.Score)})
	}
	if err := writeCSV(filepath.Join(figDir, "trips_per_station.csv"), []string{"station_id", res.StationMetric}, rows); err != nil {
		return err
	}

	months := make(map[string]int)
	for _, t := range trips {
		months[t.StartTime.Format("2006-01")]++
	}
	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows = rows[:0]
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(months[k])})
	}
	if err := writeCSV(filepath.Join(figDir, "monthly_trend.csv"), []string{"month", "trips"}, rows); err != nil {
		return err
	}

	if err := w.writeDurationHistogram(filepath.Join(figDir, "duration_histogram.csv"), res, trips); err != nil {
		return err
	}

	rows = rows[:0]
	for _, ut := range []model.UserType{model.UserCasual, model.UserMember} {
		if avg, ok := res.AvgDistanceByUser[ut]; ok {
			rows = append(rows, []string{string(ut), formatFloat(avg)})
		}
	}
	return writeCSV(filepath.Join(figDir, "distance_by_user_type.csv"), []string{"user_type", "avg_distance_km"}, rows)
}

func (w Writer) writeDurationHistogram(path string, res *analytics.Results, trips []model.Trip) error {
	bins := w.HistogramBins
	if bins <= 0 {
		bins = 30
	}
	lo, hi := res.GlobalDuration.Min, res.GlobalDuration.Max
	width := (hi - lo) / float64(bins)

	if width == 0 {
		// All durations identical: a single degenerate bin.
		rows := [][]string{{formatFloat(lo), formatFloat(hi), strconv.Itoa(res.GlobalDuration.Count)}}
		return writeCSV(path, []string{"bin_start", "bin_end", "count"}, rows)
	}

	counts := make([]int, bins)
	for _, t := range trips {
		i := int((t.DurationMinutes - lo) / width)
		if i >= bins {
			i = bins - 1 // max value lands in the last bin
		}
		counts[i]++
	}
	rows := make([][]string, 0, bins)
	for i, c := range counts {
		binLo := lo + float64(i)*width
		rows = append(rows, []string{formatFloat(binLo), formatFloat(binLo + width), strconv.Itoa(c)})
	}
	return writeCSV(path, []string{"bin_start", "bin_end", "count"}, rows)
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.4f", f)
}
