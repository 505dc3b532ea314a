package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veloscope/veloscope-cli/internal/analytics"
	"github.com/veloscope/veloscope-cli/internal/model"
	"github.com/veloscope/veloscope-cli/internal/numeric"
)

func sampleRun() (*analytics.Results, analytics.Cleaned, []*model.CleaningReport) {
	start := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	trips := []model.Trip{
		{
			ID: "T1", BikeID: "B1", StartStationID: "A", EndStationID: "B",
			StartTime: start, EndTime: start.Add(20 * time.Minute),
			UserID: "U1", UserType: model.UserCasual,
			DurationMinutes: 20, DistanceKM: 1.2,
		},
		{
			ID: "T2", BikeID: "B2", StartStationID: "A", EndStationID: "A",
			StartTime: start.Add(24 * time.Hour), EndTime: start.Add(24*time.Hour + 45*time.Minute),
			UserID: "U2", UserType: model.UserMember,
			DurationMinutes: 45, DistanceKM: 0,
		},
	}
	cleaned := analytics.Cleaned{
		Stations: []model.Station{
			{ID: "A", Name: "Harbor", Latitude: 52.37, Longitude: 4.89, Capacity: 20},
			{ID: "B", Name: "Mill", Latitude: 52.38, Longitude: 4.9, Capacity: 15},
		},
		Trips: trips,
		Maintenance: []model.Maintenance{
			{BikeID: "B1", StationID: "A", Timestamp: start, EventType: "inspection", Cost: 12.5, HasCost: true},
		},
	}
	duration, _ := numeric.Describe([]float64{20, 45})
	distance, _ := numeric.Describe([]float64{1.2, 0})
	res := &analytics.Results{
		RunID:           "test-run",
		TotalTrips:      2,
		TotalDistanceKM: 1.2,
		StationMetric:   analytics.MetricTrips,
		UserMetric:      analytics.MetricTrips,
		TopStations:     []model.RankedEntity{{Rank: 1, ID: "A", Score: 2}},
		TopUsers: []model.RankedEntity{
			{Rank: 1, ID: "U1", Score: 1},
			{Rank: 2, ID: "U2", Score: 1},
		},
		GlobalDuration: duration,
		GlobalDistance: distance,
		PerStation: []analytics.StationUsage{
			{StationID: "A", Trips: 2, Duration: duration, Distance: distance},
		},
		UserOutliers: []model.OutlierFlag{
			{ID: "U2", Metric: "distance_km", Value: 45, Center: 10, Deviation: 35},
		},
		TripsByWeekday:         map[time.Weekday]int{time.Monday: 1, time.Tuesday: 1},
		AvgDistanceByUser:      map[model.UserType]float64{model.UserCasual: 1.2, model.UserMember: 0},
		MaintenanceCostByEvent: map[string]float64{"inspection": 12.5},
		Pricing:                model.PricingCasual,
		TotalRevenue:           13,
	}
	res.PeakHours[8] = 2
	reports := []*model.CleaningReport{
		{File: "stations.csv", RowsRead: 2, Accepted: 2, Reasons: map[model.Reason]int{}},
		{File: "trips.csv", RowsRead: 3, Accepted: 2, Rejected: 1,
			Reasons: map[model.Reason]int{model.ReasonBadTimestamp: 1}},
	}
	return res, cleaned, reports
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriterProducesAllOutputs(t *testing.T) {
	res, cleaned, reports := sampleRun()
	outDir := filepath.Join(t.TempDir(), "output")

	if err := (Writer{HistogramBins: 5}).Write(outDir, res, cleaned, reports); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for _, name := range []string{
		"stations_clean.csv", "trips_clean.csv", "maintenance_clean.csv",
		"top_stations.csv", "top_users.csv",
		"summary_report.txt", "cleaning_report.yaml",
		filepath.Join("figures", "trips_per_station.csv"),
		filepath.Join("figures", "monthly_trend.csv"),
		filepath.Join("figures", "duration_histogram.csv"),
		filepath.Join("figures", "distance_by_user_type.csv"),
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
	}
}

func TestTopStationsCSV(t *testing.T) {
	res, cleaned, reports := sampleRun()
	outDir := t.TempDir()
	if err := (Writer{}).Write(outDir, res, cleaned, reports); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rows := readCSV(t, filepath.Join(outDir, "top_stations.csv"))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if got, want := strings.Join(rows[0], ","), "rank,station_id,trips"; got != want {
		t.Fatalf("header = %q, want %q", got, want)
	}
	if rows[1][0] != "1" || rows[1][1] != "A" {
		t.Fatalf("row = %v", rows[1])
	}
}

func TestCleanedTripsRoundTrip(t *testing.T) {
	res, cleaned, reports := sampleRun()
	outDir := t.TempDir()
	if err := (Writer{}).Write(outDir, res, cleaned, reports); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rows := readCSV(t, filepath.Join(outDir, "trips_clean.csv"))
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[1][0] != "T1" || rows[1][7] != "casual" {
		t.Fatalf("trip row = %v", rows[1])
	}
}

func TestCleaningYAML(t *testing.T) {
	res, cleaned, reports := sampleRun()
	outDir := t.TempDir()
	if err := (Writer{}).Write(outDir, res, cleaned, reports); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(outDir, "cleaning_report.yaml"))
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	var doc struct {
		RunID string                  `yaml:"run_id"`
		Files []*model.CleaningReport `yaml:"files"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.RunID != "test-run" || len(doc.Files) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Files[1].Reasons[model.ReasonBadTimestamp] != 1 {
		t.Fatalf("reasons not round-tripped: %+v", doc.Files[1])
	}
}

func TestSummaryText(t *testing.T) {
	res, _, reports := sampleRun()
	text := SummaryText(res, reports)

	for _, want := range []string{
		"Total Trips: 2",
		"trips.csv: 3 read, 2 accepted, 1 rejected",
		"bad_timestamp: 1",
		"[TOP STATIONS by trips]",
		" 1. A — 2.00",
		"user U2: distance_km=45.00",
		"Busiest hour: 08:00",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestSafeWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	if err := SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "two" {
		t.Fatalf("read back: %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
