package analytics

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/veloscope/veloscope-cli/internal/algo"
	"github.com/veloscope/veloscope-cli/internal/model"
	"github.com/veloscope/veloscope-cli/internal/numeric"
)

// StationUsage is the per-station slice of the usage summary.
type StationUsage struct {
	StationID string
	Trips     int
	Duration  numeric.Summary
	Distance  numeric.Summary
}

// Results holds everything a run produces beyond the cleaned datasets.
type Results struct {
	RunID string

	TotalTrips      int
	TotalDistanceKM float64

	StationMetric string
	UserMetric    string
	TopStations   []model.RankedEntity
	TopUsers      []model.RankedEntity

	GlobalDuration numeric.Summary
	GlobalDistance numeric.Summary
	PerStation     []StationUsage

	StationOutliers []model.OutlierFlag
	UserOutliers    []model.OutlierFlag

	PeakHours              [24]int
	TripsByWeekday         map[time.Weekday]int
	AvgDistanceByUser      map[model.UserType]float64
	MaintenanceCostByEvent map[string]float64

	Pricing      model.PricingStrategy
	TotalRevenue float64

	SortMetrics algo.Metrics
}

func (p *Pipeline) aggregate() (*Results, error) {
	if len(p.trips) == 0 {
		return nil, errors.Wrap(numeric.ErrEmptyInput, "no valid trips to aggregate")
	}

	res := &Results{
		RunID:         p.RunID,
		TotalTrips:    len(p.trips),
		StationMetric: p.opts.StationMetric,
		UserMetric:    p.opts.UserMetric,
		Pricing:       p.opts.Pricing,
	}

	durations := make([]float64, len(p.trips))
	distances := make([]float64, len(p.trips))

	stationScores := make(map[string]float64)
	userScores := make(map[string]float64)
	stationTrips := make(map[string]int)
	userDistance := make(map[string]float64)

	byStationDuration := make(map[string][]float64)
	byStationDistance := make(map[string][]float64)

	res.TripsByWeekday = make(map[time.Weekday]int)
	userTypeDistance := make(map[model.UserType]float64)
	userTypeCount := make(map[model.UserType]int)

	for i, t := range p.trips {
		durations[i] = t.DurationMinutes
		distances[i] = t.DistanceKM
		res.TotalDistanceKM += t.DistanceKM

		stationTrips[t.StartStationID]++
		userDistance[t.UserID] += t.DistanceKM
		stationScores[t.StartStationID] += metricValue(p.opts.StationMetric, t)
		userScores[t.UserID] += metricValue(p.opts.UserMetric, t)

		byStationDuration[t.StartStationID] = append(byStationDuration[t.StartStationID], t.DurationMinutes)
		byStationDistance[t.StartStationID] = append(byStationDistance[t.StartStationID], t.DistanceKM)

		res.PeakHours[t.StartTime.Hour()]++
		res.TripsByWeekday[t.StartTime.Weekday()]++
		userTypeDistance[t.UserType] += t.DistanceKM
		userTypeCount[t.UserType]++

		res.TotalRevenue += model.Fare(p.opts.Pricing, t)
	}

	res.TopStations = p.rank(stationScores, p.opts.TopStations, &res.SortMetrics)
	res.TopUsers = p.rank(userScores, p.opts.TopUsers, &res.SortMetrics)

	var err error
	if res.GlobalDuration, err = numeric.Describe(durations); err != nil {
		return nil, errors.Wrap(err, "trip durations")
	}
	if res.GlobalDistance, err = numeric.Describe(distances); err != nil {
		return nil, errors.Wrap(err, "trip distances")
	}

	stationIDs := sortedKeys(byStationDuration)
	for _, id := range stationIDs {
		dur, err := numeric.Describe(byStationDuration[id])
		if err != nil {
			return nil, errors.Wrapf(err, "station %s durations", id)
		}
		dist, err := numeric.Describe(byStationDistance[id])
		if err != nil {
			return nil, errors.Wrapf(err, "station %s distances", id)
		}
		res.PerStation = append(res.PerStation, StationUsage{
			StationID: id,
			Trips:     stationTrips[id],
			Duration:  dur,
			Distance:  dist,
		})
	}

	res.StationOutliers = p.flagOutliers("trip_count", intValues(stationTrips))
	res.UserOutliers = p.flagOutliers("distance_km", userDistance)

	res.AvgDistanceByUser = make(map[model.UserType]float64, len(userTypeCount))
	for ut, total := range userTypeDistance {
		res.AvgDistanceByUser[ut] = total / float64(userTypeCount[ut])
	}

	res.MaintenanceCostByEvent = make(map[string]float64)
	for _, m := range p.maintenance {
		if m.HasCost {
			res.MaintenanceCostByEvent[m.EventType] += m.Cost
		}
	}

	return res, nil
}

// flagOutliers runs the configured detector over the per-entity values. The
// entity order is fixed by sorting ids so that flags are deterministic. The
// reference statistic is the mean for the z-score method and the median for
// IQR.
func (p *Pipeline) flagOutliers(metric string, byEntity map[string]float64) []model.OutlierFlag {
	ids := sortedKeys(byEntity)
	values := make([]float64, len(ids))
	for i, id := range ids {
		values[i] = byEntity[id]
	}

	center := 0.0
	if sum, err := numeric.Describe(values); err == nil {
		if p.opts.OutlierMethod == numeric.MethodIQR {
			center = sum.Median
		} else {
			center = sum.Mean
		}
	}

	var flags []model.OutlierFlag
	for _, i := range numeric.Outliers(values, p.opts.OutlierMethod, p.opts.OutlierThreshold) {
		v := values[i]
		dev := v - center
		if dev < 0 {
			dev = -dev
		}
		flags = append(flags, model.OutlierFlag{
			ID:        ids[i],
			Metric:    metric,
			Value:     v,
			Center:    center,
			Deviation: dev,
		})
	}
	return flags
}

func metricValue(metric string, t model.Trip) float64 {
	if metric == MetricDistance {
		return t.DistanceKM
	}
	return 1 // trip count
}

func intValues(m map[string]int) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = float64(v)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
