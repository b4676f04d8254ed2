package database

import "time"

// EventSeverity orders event importance; comparisons use the underlying
// int so Debug < Info < Warning < Error < Critical.
type EventSeverity int

const (
	SeverityDebug EventSeverity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s EventSeverity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GeolocationMethod names the technique that produced a GeolocationRecord.
type GeolocationMethod string

const (
	MethodTDOA GeolocationMethod = "TDOA"
	MethodAOA  GeolocationMethod = "AOA"
)

// SignalRecord is a single detection. Metadata is an opaque JSON document
// serialized into a text column; callers own its shape.
type SignalRecord struct {
	ID           int64
	Timestamp    time.Time
	FreqHz       float64
	BandwidthHz  float64
	PowerDBm     float64
	SNRDB        float64
	SignalClass  string
	HasClass     bool
	Confidence   float64
	HasConfidence bool
	NodeID       string
	TrackID      string
	HasTrackID   bool
	Metadata     []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GeolocationRecord is a computed fix tied back to the signal that produced
// it. SignalID's foreign key cascades on delete.
type GeolocationRecord struct {
	ID            int64
	Timestamp     time.Time
	Lat           float64
	Lon           float64
	Alt           float64
	HasAlt        bool
	AccuracyM     float64
	HasAccuracy   bool
	SignalID      int64
	TrackID       string
	HasTrackID    bool
	Confidence    float64
	HasConfidence bool
	Method        GeolocationMethod
	Metadata      []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EventRecord is an append-only operational log entry.
type EventRecord struct {
	ID          int64
	Timestamp   time.Time
	EventType   string
	Severity    EventSeverity
	Source      string
	Description string
	Metadata    []byte
	CreatedAt   time.Time
}

// ReportRecord is a generated or scheduled report's persisted metadata; the
// rendered artifact itself lives at OutputPath.
type ReportRecord struct {
	ID         int64
	ReportType string
	Name       string
	Format     string
	OutputPath string
	Parameters []byte
	GeneratedAt time.Time
	CreatedAt  time.Time
}

// TimeRange bounds a query by [Start, End]; a zero value on either end
// means unbounded in that direction.
type TimeRange struct {
	Start time.Time
	End   time.Time
}
