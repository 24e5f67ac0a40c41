// Package parquet exports score snapshots to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repohealth/schema"
	"github.com/parquet-go/parquet-go"
)

// SnapshotRun maps to the repohealth_snapshot_runs table.
type SnapshotRun struct {
	RunID         int64      `parquet:"run_id,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalProjects int32      `parquet:"total_projects,snappy"`
	ReferenceDate string     `parquet:"reference_date,snappy,dict"`

	// ConfigParams is the JSON-encoded configuration of the run
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ProjectScore maps to the repohealth_project_scores table.
type ProjectScore struct {
	RunID             int64     `parquet:"run_id,snappy"`
	Project           string    `parquet:"project,snappy"`
	RepoName          string    `parquet:"repo_name,snappy"`
	CalculatedAt      time.Time `parquet:"calculated_at,snappy"`
	FinalScore        float64   `parquet:"final_score,snappy"`
	Grade             string    `parquet:"grade,snappy,dict"`
	GrowthScore       float64   `parquet:"growth_score,snappy"`
	ActivityScore     float64   `parquet:"activity_score,snappy"`
	ContributionScore float64   `parquet:"contribution_score,snappy"`
	CodeScore         float64   `parquet:"code_score,snappy"`
	StarCurrentMonth  int64     `parquet:"star_current_month,snappy"`
	ForkCurrentMonth  int64     `parquet:"fork_current_month,snappy"`
	PushEvents        int64     `parquet:"push_events,snappy"`
	PullRequestEvents int64     `parquet:"pull_request_events,snappy"`
	IssueEvents       int64     `parquet:"issue_events,snappy"`
	Contributors      int64     `parquet:"contributors,snappy"`
	TotalChurn        int64     `parquet:"total_churn,snappy"`
}

// writeRows writes rows to a new Parquet file with a schema inferred from T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSnapshotRunsParquet writes snapshot runs to a Parquet file.
func WriteSnapshotRunsParquet(data []SnapshotRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteProjectScoresParquet writes project scores to a Parquet file.
func WriteProjectScoresParquet(data []ProjectScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertSnapshotRunRecords converts store records for Parquet export.
func ConvertSnapshotRunRecords(records []schema.SnapshotRunRecord) []SnapshotRun {
	result := make([]SnapshotRun, len(records))
	for i, record := range records {
		result[i] = SnapshotRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalProjects: record.TotalProjects,
			ReferenceDate: record.ReferenceDate,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertProjectScoreRecords converts store records for Parquet export.
func ConvertProjectScoreRecords(records []schema.ProjectScoreRecord) []ProjectScore {
	result := make([]ProjectScore, len(records))
	for i, r := range records {
		result[i] = ProjectScore(r)
	}
	return result
}
