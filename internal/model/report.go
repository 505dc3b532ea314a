package model

// Reason is a stable code naming why a row was rejected during cleaning.
type Reason string

const (
	ReasonMissingField   Reason = "missing_field"
	ReasonBadNumber      Reason = "bad_number"
	ReasonBadTimestamp   Reason = "bad_timestamp"
	ReasonEndBeforeStart Reason = "end_before_start"
	ReasonBadLatitude    Reason = "bad_latitude"
	ReasonBadLongitude   Reason = "bad_longitude"
	ReasonBadCapacity    Reason = "bad_capacity"
	ReasonUnknownStation Reason = "unknown_station"
	ReasonUnknownBike    Reason = "unknown_bike"
	ReasonNegativeCost   Reason = "negative_cost"
	ReasonDuplicateID    Reason = "duplicate_id"
	ReasonBadUserType    Reason = "bad_user_type"
)

// CleaningReport summarizes one file's ingestion outcome. It is built during
// validation and must not be mutated afterwards; Accepted+Rejected always
// equals RowsRead.
type CleaningReport struct {
	File         string         `yaml:"file"`
	RowsRead     int            `yaml:"rows_read"`
	Accepted     int            `yaml:"accepted"`
	Rejected     int            `yaml:"rejected"`
	Reasons      map[Reason]int `yaml:"reasons,omitempty"`
	GeneratedIDs int            `yaml:"generated_ids,omitempty"`
}

// NewCleaningReport starts an empty report for the named file.
func NewCleaningReport(file string) *CleaningReport {
	return &CleaningReport{File: file, Reasons: make(map[Reason]int)}
}

// Accept counts one row as accepted.
func (r *CleaningReport) Accept() {
	r.RowsRead++
	r.Accepted++
}

// Reject counts one row under the given reason.
func (r *CleaningReport) Reject(reason Reason) {
	r.RowsRead++
	r.Rejected++
	r.Reasons[reason]++
}
