package model

import "time"

// UserType distinguishes pricing and reporting buckets for riders.
type UserType string

const (
	UserCasual UserType = "casual"
	UserMember UserType = "member"
)

// Station is a validated dock location.
type Station struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	Capacity  int
}

// Trip is a validated ride between two stations. DurationMinutes and
// DistanceKM are derived during validation, never read from input columns.
type Trip struct {
	ID             string
	BikeID         string
	StartStationID string
	EndStationID   string
	StartTime      time.Time
	EndTime        time.Time
	UserID         string
	UserType       UserType

	DurationMinutes float64
	DistanceKM      float64
}

// Maintenance is a validated service event. Cost is optional in the input;
// HasCost tells the two apart from a genuine zero-cost event.
type Maintenance struct {
	BikeID    string
	StationID string
	Timestamp time.Time
	EventType string
	Cost      float64
	HasCost   bool
}

// RankedEntity is one row of a top-N table. Ordering is total: score per the
// requested direction, ties broken by ID ascending.
type RankedEntity struct {
	Rank  int
	ID    string
	Score float64
}

// OutlierFlag records a single flagged observation and the reference
// statistic it deviated from.
type OutlierFlag struct {
	ID        string
	Metric    string
	Value     float64
	Center    float64
	Deviation float64
}
