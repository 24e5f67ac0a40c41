package schema

import "time"

// CacheStatus represents the status of the durable cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SnapshotStatus represents the status of the snapshot store.
type SnapshotStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalScores   int              `json:"total_scores"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// SnapshotRunRecord represents a row from the snapshot runs table.
type SnapshotRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalProjects int32
	ReferenceDate string
	ConfigParams  *string
}

// ProjectScoreRecord represents a row from the project scores table.
type ProjectScoreRecord struct {
	RunID             int64
	Project           string
	RepoName          string
	CalculatedAt      time.Time
	FinalScore        float64
	Grade             string
	GrowthScore       float64
	ActivityScore     float64
	ContributionScore float64
	CodeScore         float64
	StarCurrentMonth  int64
	ForkCurrentMonth  int64
	PushEvents        int64
	PullRequestEvents int64
	IssueEvents       int64
	Contributors      int64
	TotalChurn        int64
}
