package schema

import "time"

// StoreStatus represents the status of the project store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  uint             `json:"schema_version"`
	TotalProjects  int              `json:"total_projects"`
	TotalRisks     int              `json:"total_risks"`
	LastSavedAt    time.Time        `json:"last_saved_at"`
	OldestSavedAt  time.Time        `json:"oldest_saved_at"`
	TableSizes     map[string]int64 `json:"table_sizes"`
	SizeBytes      int64            `json:"size_bytes"`
	DatabaseTarget string           `json:"database_target,omitempty"`
}
