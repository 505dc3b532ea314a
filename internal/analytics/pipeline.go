// Package analytics composes the ingest, numeric, and algo packages into a
// single-run pipeline: ingest -> validate -> aggregate -> report. Each run
// owns its records; nothing is shared or mutated across runs.
package analytics

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veloscope/veloscope-cli/internal/algo"
	"github.com/veloscope/veloscope-cli/internal/ingest"
	"github.com/veloscope/veloscope-cli/internal/model"
	"github.com/veloscope/veloscope-cli/internal/numeric"
)

// State tracks pipeline progress. Stages must run in order; a failed stage
// leaves the pipeline in its previous state.
type State int

const (
	StateUninitialized State = iota
	StateIngested
	StateValidated
	StateAggregated
	StateReported
)

func (s State) String() string {
	switch s {
	case StateIngested:
		return "ingested"
	case StateValidated:
		return "validated"
	case StateAggregated:
		return "aggregated"
	case StateReported:
		return "reported"
	default:
		return "uninitialized"
	}
}

// Metric names selectable for rankings.
const (
	MetricTrips    = "trips"
	MetricDistance = "distance"
)

// Options configures one pipeline run.
type Options struct {
	TopStations      int
	TopUsers         int
	StationMetric    string // trips | distance
	UserMetric       string // trips | distance
	OutlierMethod    numeric.OutlierMethod
	OutlierThreshold float64
	HistogramBins    int
	Pricing          model.PricingStrategy
}

// Writer persists the outputs of a completed run. Implemented by the report
// package; accepted as an interface so the pipeline stays write-agnostic.
type Writer interface {
	Write(outDir string, res *Results, cleaned Cleaned, reports []*model.CleaningReport) error
}

// Cleaned bundles the validated record sets for export.
type Cleaned struct {
	Stations    []model.Station
	Trips       []model.Trip
	Maintenance []model.Maintenance
}

// Pipeline is one batch run over a data directory.
type Pipeline struct {
	RunID string

	opts Options
	log  *zap.SugaredLogger

	state State

	stationsTable *ingest.Table
	tripsTable    *ingest.Table
	maintTable    *ingest.Table

	stations    []model.Station
	stationByID map[string]model.Station
	trips       []model.Trip
	maintenance []model.Maintenance
	reports     []*model.CleaningReport

	results *Results
}

// New creates a pipeline in the uninitialized state.
func New(opts Options, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		RunID: uuid.NewString(),
		opts:  opts,
		log:   log,
	}
}

// State returns the current stage.
func (p *Pipeline) State() State { return p.state }

// Results returns the aggregate outputs, nil before Aggregate has run.
func (p *Pipeline) Results() *Results { return p.results }

// Reports returns the per-file cleaning reports, nil before Validate.
func (p *Pipeline) Reports() []*model.CleaningReport { return p.reports }

// Cleaned returns the validated record sets.
func (p *Pipeline) Cleaned() Cleaned {
	return Cleaned{Stations: p.stations, Trips: p.trips, Maintenance: p.maintenance}
}

func (p *Pipeline) requireState(want State, stage string) error {
	if p.state != want {
		return errors.Newf("cannot %s: pipeline is %s, expected %s", stage, p.state, want)
	}
	return nil
}

// Ingest reads stations.csv, trips.csv, and maintenance.csv from dataDir.
// A missing required column or unreadable file is fatal for the run.
func (p *Pipeline) Ingest(dataDir string) error {
	if err := p.requireState(StateUninitialized, "ingest"); err != nil {
		return err
	}

	var err error
	if p.stationsTable, err = ingest.ReadTable(filepath.Join(dataDir, "stations.csv"), ingest.StationColumns); err != nil {
		return err
	}
	if p.tripsTable, err = ingest.ReadTable(filepath.Join(dataDir, "trips.csv"), ingest.TripColumns); err != nil {
		return err
	}
	if p.maintTable, err = ingest.ReadTable(filepath.Join(dataDir, "maintenance.csv"), ingest.MaintenanceColumns); err != nil {
		return err
	}

	p.log.Debugw("ingested raw tables",
		"run_id", p.RunID,
		"stations", len(p.stationsTable.Rows),
		"trips", len(p.tripsTable.Rows),
		"maintenance", len(p.maintTable.Rows))
	p.state = StateIngested
	return nil
}

// Validate cleans the raw tables in dependency order: stations first, then
// trips (station refs), then maintenance (station refs plus bike ids taken
// from accepted trips). Rejected rows are counted per reason, never fatal.
func (p *Pipeline) Validate() error {
	if err := p.requireState(StateIngested, "validate"); err != nil {
		return err
	}

	stations, stationReport := ingest.ValidateStations(p.stationsTable)
	p.stationByID = make(map[string]model.Station, len(stations))
	for _, s := range stations {
		p.stationByID[s.ID] = s
	}

	trips, tripReport := ingest.ValidateTrips(p.tripsTable, p.stationByID)
	bikes := make(map[string]bool)
	for _, t := range trips {
		bikes[t.BikeID] = true
	}

	maintenance, maintReport := ingest.ValidateMaintenance(p.maintTable, p.stationByID, bikes)

	p.stations = stations
	p.trips = trips
	p.maintenance = maintenance
	p.reports = []*model.CleaningReport{stationReport, tripReport, maintReport}

	for _, r := range p.reports {
		p.log.Infow("cleaned file",
			"run_id", p.RunID,
			"file", r.File,
			"rows", r.RowsRead,
			"accepted", r.Accepted,
			"rejected", r.Rejected)
	}
	p.state = StateValidated
	return nil
}

// Aggregate computes rankings, summaries, and outlier flags from the
// validated records. Statistics over an empty trip set are a fatal error.
func (p *Pipeline) Aggregate() error {
	if err := p.requireState(StateValidated, "aggregate"); err != nil {
		return err
	}

	res, err := p.aggregate()
	if err != nil {
		return err
	}
	p.results = res

	p.log.Infow("aggregated run",
		"run_id", p.RunID,
		"trips", res.TotalTrips,
		"total_distance_km", res.TotalDistanceKM,
		"sort_comparisons", res.SortMetrics.Comparisons)
	p.state = StateAggregated
	return nil
}

// Report writes all outputs through w. The pipeline itself decides nothing
// about file layout.
func (p *Pipeline) Report(w Writer, outDir string) error {
	if err := p.requireState(StateAggregated, "report"); err != nil {
		return err
	}
	if err := w.Write(outDir, p.results, p.Cleaned(), p.reports); err != nil {
		return err
	}
	p.log.Infow("wrote reports", "run_id", p.RunID, "out_dir", outDir)
	p.state = StateReported
	return nil
}

// rank sorts entity scores descending, ties broken by id, and truncates to
// n. The metrics accumulate across the run's sort calls so the summary can
// show total comparison work.
func (p *Pipeline) rank(scores map[string]float64, n int, m *algo.Metrics) []model.RankedEntity {
	entries := make([]model.RankedEntity, 0, len(scores))
	for id, score := range scores {
		entries = append(entries, model.RankedEntity{ID: id, Score: score})
	}
	sorted := algo.SortBy(entries,
		func(e model.RankedEntity) float64 { return e.Score },
		algo.Descending,
		func(e model.RankedEntity) string { return e.ID },
		m)
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	for i := range sorted {
		sorted[i].Rank = i + 1
	}
	return sorted
}
