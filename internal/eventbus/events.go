package eventbus

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// SubjectConfigChanged carries ConfigChangedEvent payloads.
	SubjectConfigChanged = "tdoa.config.changed"
	// SubjectNodeMetrics carries NodeMetricsEvent payloads.
	SubjectNodeMetrics = "tdoa.node.metrics"
)

// ConfigChangedEvent announces that a live configuration value changed.
type ConfigChangedEvent struct {
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedAt time.Time `json:"changed_at"`
}

// NodeMetricsEvent is a periodic health sample pushed by nodemonitor.
type NodeMetricsEvent struct {
	NodeID         string    `json:"node_id"`
	CPUPercent     float64   `json:"cpu_percent"`
	MemoryPercent  float64   `json:"memory_percent"`
	DiskPercent    float64   `json:"disk_percent"`
	NetworkBytesPS float64   `json:"network_bytes_per_sec"`
	SignalLoad     float64   `json:"signal_load"`
	ActiveSignals  int64     `json:"active_signals"`
	QueuedTasks    int64     `json:"queued_tasks"`
	Timestamp      time.Time `json:"timestamp"`
}

func marshalEvent(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("eventbus: marshal event: %w", err)
	}
	return data, nil
}
