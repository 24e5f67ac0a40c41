// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/repohealth/schema"
)

// WindowedQuerier issues batched range aggregates over the daily activity tables.
// Implementations fail soft: a query error yields the zero aggregate for that metric pair.
type WindowedQuerier interface {
	StarForkAggregates(ctx context.Context, key schema.ProjectKey, windows schema.ReferenceWindows) schema.StarForkAggregate
	CommitPRAggregates(ctx context.Context, key schema.ProjectKey, windows schema.ReferenceWindows) schema.CommitPRAggregate
}

// EventQuerier issues distinct-count queries over the raw event log.
// Implementations fail soft to the all-zero aggregate and report ok=false so it is not cached.
type EventQuerier interface {
	EventAggregates(ctx context.Context, key schema.ProjectKey) (schema.EventTypeAggregate, bool)
}

// TrendQuerier reads the raw rows needed for trend reconstruction and summaries.
type TrendQuerier interface {
	// TrendRows returns up to limit rows ordered by date descending.
	TrendRows(ctx context.Context, key schema.ProjectKey, metric schema.TrendMetric, limit int) []schema.TrendRow

	// ProjectSummary returns the authoritative star and fork totals.
	ProjectSummary(ctx context.Context, key schema.ProjectKey) schema.ProjectSummary

	// ContributorCounts returns push counts grouped by login, largest first.
	ContributorCounts(ctx context.Context, key schema.ProjectKey) []schema.ContributorCount
}

// Warehouse is the full read surface of the activity warehouse.
type Warehouse interface {
	WindowedQuerier
	EventQuerier
	TrendQuerier

	// ListProjects returns every project with star history, in warehouse form.
	ListProjects(ctx context.Context) ([]string, error)

	Close() error
}

// Clock supplies the current time so cache expiry can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// CacheManager defines the interface for managing local stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetEventStore() CacheStore
	GetSnapshotStore() SnapshotStore
}

// CacheStore defines the interface for durable cache data storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore records precomputed health scores for later export.
type SnapshotStore interface {
	// BeginRun creates a new snapshot run and returns its unique ID
	BeginRun(startTime time.Time, referenceDate string, configParams map[string]any) (int64, error)

	// EndRun updates the snapshot run with completion data
	EndRun(runID int64, endTime time.Time, totalProjects int) error

	// RecordProjectScore stores one computed health score
	RecordProjectScore(runID int64, result schema.HealthScoreResult) error

	GetStatus() (schema.SnapshotStatus, error)
	GetAllRuns() ([]schema.SnapshotRunRecord, error)
	GetAllProjectScores() ([]schema.ProjectScoreRecord, error)
	Close() error
}
