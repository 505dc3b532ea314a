package ingest

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/veloscope/veloscope-cli/internal/model"
	"github.com/veloscope/veloscope-cli/internal/numeric"
)

// Column contracts per file. Missing required columns abort the run;
// optional columns degrade gracefully per row.
var (
	StationColumns     = []string{"station_id", "name", "latitude", "longitude", "capacity"}
	TripColumns        = []string{"bike_id", "start_station_id", "end_station_id", "start_time", "end_time", "user_id"}
	MaintenanceColumns = []string{"bike_id", "station_id", "timestamp", "event_type"}
)

// ValidateStations converts raw station rows into typed records. Rows with
// unparseable or out-of-range fields are rejected and counted.
func ValidateStations(t *Table) ([]model.Station, *model.CleaningReport) {
	report := model.NewCleaningReport(t.File)
	seen := make(map[string]bool, len(t.Rows))
	stations := make([]model.Station, 0, len(t.Rows))

	for _, row := range t.Rows {
		id := t.Field(row, "station_id")
		name := t.Field(row, "name")
		if id == "" || name == "" {
			report.Reject(model.ReasonMissingField)
			continue
		}
		if seen[id] {
			report.Reject(model.ReasonDuplicateID)
			continue
		}

		lat, ok := parseFloat(t.Field(row, "latitude"))
		if !ok {
			report.Reject(model.ReasonBadNumber)
			continue
		}
		lon, ok := parseFloat(t.Field(row, "longitude"))
		if !ok {
			report.Reject(model.ReasonBadNumber)
			continue
		}
		if lat < -90 || lat > 90 {
			report.Reject(model.ReasonBadLatitude)
			continue
		}
		if lon < -180 || lon > 180 {
			report.Reject(model.ReasonBadLongitude)
			continue
		}

		capacity, err := strconv.Atoi(t.Field(row, "capacity"))
		if err != nil {
			report.Reject(model.ReasonBadNumber)
			continue
		}
		if capacity < 0 {
			report.Reject(model.ReasonBadCapacity)
			continue
		}

		seen[id] = true
		stations = append(stations, model.Station{
			ID:        id,
			Name:      name,
			Latitude:  lat,
			Longitude: lon,
			Capacity:  capacity,
		})
		report.Accept()
	}
	return stations, report
}

// ValidateTrips converts raw trip rows into typed records, checking station
// references against the already validated station set. Duration is derived
// from the timestamps and distance from the great-circle distance between
// the two stations. A missing trip_id is filled with a generated uuid and
// counted, not rejected.
func ValidateTrips(t *Table, stations map[string]model.Station) ([]model.Trip, *model.CleaningReport) {
	report := model.NewCleaningReport(t.File)
	seen := make(map[string]bool, len(t.Rows))
	trips := make([]model.Trip, 0, len(t.Rows))

	for _, row := range t.Rows {
		bikeID := t.Field(row, "bike_id")
		startID := t.Field(row, "start_station_id")
		endID := t.Field(row, "end_station_id")
		userID := t.Field(row, "user_id")
		if bikeID == "" || startID == "" || endID == "" || userID == "" ||
			t.Field(row, "start_time") == "" || t.Field(row, "end_time") == "" {
			report.Reject(model.ReasonMissingField)
			continue
		}

		start, ok := parseTime(t.Field(row, "start_time"))
		if !ok {
			report.Reject(model.ReasonBadTimestamp)
			continue
		}
		end, ok := parseTime(t.Field(row, "end_time"))
		if !ok {
			report.Reject(model.ReasonBadTimestamp)
			continue
		}
		if end.Before(start) {
			report.Reject(model.ReasonEndBeforeStart)
			continue
		}

		from, okFrom := stations[startID]
		to, okTo := stations[endID]
		if !okFrom || !okTo {
			report.Reject(model.ReasonUnknownStation)
			continue
		}

		userType := model.UserType(t.Field(row, "user_type"))
		switch userType {
		case "":
			userType = model.UserCasual
		case model.UserCasual, model.UserMember:
		default:
			report.Reject(model.ReasonBadUserType)
			continue
		}

		id := t.Field(row, "trip_id")
		if id == "" {
			id = uuid.NewString()
			report.GeneratedIDs++
		}
		if seen[id] {
			report.Reject(model.ReasonDuplicateID)
			continue
		}

		seen[id] = true
		trips = append(trips, model.Trip{
			ID:              id,
			BikeID:          bikeID,
			StartStationID:  startID,
			EndStationID:    endID,
			StartTime:       start,
			EndTime:         end,
			UserID:          userID,
			UserType:        userType,
			DurationMinutes: end.Sub(start).Minutes(),
			DistanceKM:      numeric.Haversine(from.Latitude, from.Longitude, to.Latitude, to.Longitude),
		})
		report.Accept()
	}
	return trips, report
}

// ValidateMaintenance converts raw maintenance rows, checking station refs
// against the validated station set and bike refs against the bike ids seen
// in accepted trips.
func ValidateMaintenance(t *Table, stations map[string]model.Station, bikes map[string]bool) ([]model.Maintenance, *model.CleaningReport) {
	report := model.NewCleaningReport(t.File)
	events := make([]model.Maintenance, 0, len(t.Rows))

	for _, row := range t.Rows {
		bikeID := t.Field(row, "bike_id")
		stationID := t.Field(row, "station_id")
		eventType := t.Field(row, "event_type")
		if bikeID == "" || stationID == "" || eventType == "" || t.Field(row, "timestamp") == "" {
			report.Reject(model.ReasonMissingField)
			continue
		}

		ts, ok := parseTime(t.Field(row, "timestamp"))
		if !ok {
			report.Reject(model.ReasonBadTimestamp)
			continue
		}
		if _, ok := stations[stationID]; !ok {
			report.Reject(model.ReasonUnknownStation)
			continue
		}
		if !bikes[bikeID] {
			report.Reject(model.ReasonUnknownBike)
			continue
		}

		event := model.Maintenance{
			BikeID:    bikeID,
			StationID: stationID,
			Timestamp: ts,
			EventType: eventType,
		}
		if raw := t.Field(row, "cost"); raw != "" {
			cost, ok := parseFloat(raw)
			if !ok {
				report.Reject(model.ReasonBadNumber)
				continue
			}
			if cost < 0 {
				report.Reject(model.ReasonNegativeCost)
				continue
			}
			event.Cost = cost
			event.HasCost = true
		}

		events = append(events, event)
		report.Accept()
	}
	return events, report
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
