// ABOUTME: Sync run bookkeeping types shared by the synchronizers and orchestrator
// ABOUTME: Defines sync modes, per-endpoint results, and the sync_status audit row
package models

import "time"

// Mode selects how much of an endpoint is refetched.
type Mode string

const (
	// ModeIncremental bounds the fetch with the endpoint's last-sync
	// watermark where the endpoint supports one. Best effort: endpoints
	// without a usable change column silently behave like a full fetch.
	ModeIncremental Mode = "incremental"
	// ModeFull clears the endpoint's tables and repopulates them.
	ModeFull Mode = "full"
)

// Sync outcome states recorded in sync_status.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// SyncResult is what one endpoint synchronizer reports back.
type SyncResult struct {
	Endpoint    string         `json:"endpoint"`
	RecordCount int            `json:"record_count"`
	ChildCounts map[string]int `json:"child_counts,omitempty"`
	Status      string         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Duration    time.Duration  `json:"duration"`
}

// SyncStatus is one row of the sync_status audit table.
type SyncStatus struct {
	Endpoint    string
	LastSync    *time.Time
	RecordCount int
	Status      string
	Message     string
	UpdatedAt   time.Time
}
