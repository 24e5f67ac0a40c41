package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
)

// Table names for snapshot tracking.
const (
	snapshotRunsTable  = "repohealth_snapshot_runs"
	projectScoresTable = "repohealth_project_scores"
	migrationsTable    = "repohealth_schema_migrations"
)

// SnapshotStoreImpl records precompute runs and the scores they produced.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore opens the backend and creates the snapshot tables if needed.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (*SnapshotStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &SnapshotStoreImpl{backend: backend}, nil
	}

	db, err := openStoreDB(backend, connStr, contract.GetSnapshotDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	for _, table := range []struct{ name, query string }{
		{snapshotRunsTable, getCreateSnapshotRunsQuery(backend)},
		{projectScoresTable, getCreateProjectScoresQuery(backend)},
	} {
		if _, err := db.Exec(table.query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return &SnapshotStoreImpl{db: db, backend: backend}, nil
}

// getCreateSnapshotRunsQuery returns the CREATE TABLE query for the runs table.
func getCreateSnapshotRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(snapshotRunsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_projects INT NOT NULL DEFAULT 0,
				reference_date VARCHAR(10) NOT NULL,
				config_params TEXT
			)`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_projects INT NOT NULL DEFAULT 0,
				reference_date TEXT NOT NULL,
				config_params TEXT
			)`, quoted)
	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_projects INTEGER NOT NULL DEFAULT 0,
				reference_date TEXT NOT NULL,
				config_params TEXT
			)`, quoted)
	}
}

// getCreateProjectScoresQuery returns the CREATE TABLE query for the scores table.
func getCreateProjectScoresQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(projectScoresTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				project VARCHAR(255) NOT NULL,
				repo_name VARCHAR(255) NOT NULL,
				calculated_at DATETIME(6) NOT NULL,
				final_score DOUBLE NOT NULL,
				grade VARCHAR(1) NOT NULL,
				growth_score DOUBLE NOT NULL,
				activity_score DOUBLE NOT NULL,
				contribution_score DOUBLE NOT NULL,
				code_score DOUBLE NOT NULL,
				star_current_month BIGINT NOT NULL,
				fork_current_month BIGINT NOT NULL,
				push_events BIGINT NOT NULL,
				pull_request_events BIGINT NOT NULL,
				issue_events BIGINT NOT NULL,
				contributors BIGINT NOT NULL,
				total_churn BIGINT NOT NULL,
				PRIMARY KEY (run_id, project)
			)`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				project TEXT NOT NULL,
				repo_name TEXT NOT NULL,
				calculated_at TIMESTAMPTZ NOT NULL,
				final_score DOUBLE PRECISION NOT NULL,
				grade TEXT NOT NULL,
				growth_score DOUBLE PRECISION NOT NULL,
				activity_score DOUBLE PRECISION NOT NULL,
				contribution_score DOUBLE PRECISION NOT NULL,
				code_score DOUBLE PRECISION NOT NULL,
				star_current_month BIGINT NOT NULL,
				fork_current_month BIGINT NOT NULL,
				push_events BIGINT NOT NULL,
				pull_request_events BIGINT NOT NULL,
				issue_events BIGINT NOT NULL,
				contributors BIGINT NOT NULL,
				total_churn BIGINT NOT NULL,
				PRIMARY KEY (run_id, project)
			)`, quoted)
	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				project TEXT NOT NULL,
				repo_name TEXT NOT NULL,
				calculated_at TEXT NOT NULL,
				final_score REAL NOT NULL,
				grade TEXT NOT NULL,
				growth_score REAL NOT NULL,
				activity_score REAL NOT NULL,
				contribution_score REAL NOT NULL,
				code_score REAL NOT NULL,
				star_current_month INTEGER NOT NULL,
				fork_current_month INTEGER NOT NULL,
				push_events INTEGER NOT NULL,
				pull_request_events INTEGER NOT NULL,
				issue_events INTEGER NOT NULL,
				contributors INTEGER NOT NULL,
				total_churn INTEGER NOT NULL,
				PRIMARY KEY (run_id, project)
			)`, quoted)
	}
}

// BeginRun creates a new snapshot run and returns its ID.
func (ss *SnapshotStoreImpl) BeginRun(startTime time.Time, referenceDate string, configParams map[string]any) (int64, error) {
	if ss.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quoted := quoteTableName(snapshotRunsTable, ss.backend)
	args := []any{formatTime(startTime, ss.backend), referenceDate, string(configJSON)}

	var runID int64
	if ss.backend == schema.PostgreSQLBackend {
		query := fmt.Sprintf(`INSERT INTO %s (start_time, reference_date, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quoted)
		err = ss.db.QueryRow(query, args...).Scan(&runID)
	} else {
		query := fmt.Sprintf(`INSERT INTO %s (start_time, reference_date, config_params) VALUES (?, ?, ?)`, quoted)
		var result sql.Result
		if result, err = ss.db.Exec(query, args...); err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot run: %w", err)
	}
	return runID, nil
}

// EndRun stamps the run with its end time, duration and project count.
func (ss *SnapshotStoreImpl) EndRun(runID int64, endTime time.Time, totalProjects int) error {
	if ss.db == nil {
		return nil
	}

	quoted := quoteTableName(snapshotRunsTable, ss.backend)
	var start dbTime
	query := rebind(ss.backend, fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quoted))
	if err := ss.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(start.Time).Milliseconds()
	update := rebind(ss.backend, fmt.Sprintf(
		`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_projects = ? WHERE run_id = ?`, quoted))
	if _, err := ss.db.Exec(update, formatTime(endTime, ss.backend), durationMs, totalProjects, runID); err != nil {
		return fmt.Errorf("failed to update snapshot run: %w", err)
	}
	return nil
}

// RecordProjectScore stores the headline numbers of one score under a run.
func (ss *SnapshotStoreImpl) RecordProjectScore(runID int64, result schema.HealthScoreResult) error {
	if ss.db == nil {
		return nil
	}

	dims := result.Dimensions
	growth := dims[schema.GrowthDimension]
	activity := dims[schema.ActivityDimension]
	code := dims[schema.CodeDimension]

	query := rebind(ss.backend, fmt.Sprintf(`
		INSERT INTO %s (run_id, project, repo_name, calculated_at, final_score, grade,
		                growth_score, activity_score, contribution_score, code_score,
		                star_current_month, fork_current_month, push_events, pull_request_events,
		                issue_events, contributors, total_churn)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quoteTableName(projectScoresTable, ss.backend)))

	_, err := ss.db.Exec(query,
		runID, result.Project.Key(), result.RepoName, formatTime(result.CalculatedAt, ss.backend),
		result.FinalScore, string(result.Grade),
		growth.Score, activity.Score, dims[schema.ContributionDimension].Score, code.Score,
		int64(growth.Details[schema.DetailStarCurrentMonth]),
		int64(growth.Details[schema.DetailForkCurrentMonth]),
		int64(activity.Details[schema.DetailPushEvents]),
		int64(activity.Details[schema.DetailPullRequestEvents]),
		int64(activity.Details[schema.DetailIssueEvents]),
		int64(activity.Details[schema.DetailContributors]),
		int64(code.Details[schema.DetailTotalChurn]),
	)
	if err != nil {
		return fmt.Errorf("failed to insert project score for %s: %w", result.Project, err)
	}
	return nil
}

// Close closes the underlying connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns run counts, the run time range and per-table row counts.
func (ss *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ss.db == nil {
		return status, nil
	}

	runs := quoteTableName(snapshotRunsTable, ss.backend)
	if err := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest dbTime
		row := ss.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = last.Time

		row = ss.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs))
		if err := row.Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.Time
	}

	for _, table := range []string{snapshotRunsTable, projectScoresTable} {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ss.backend))
		if err := ss.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalScores = int(status.TableSizes[projectScoresTable])

	return status, nil
}

// GetAllRuns retrieves every snapshot run ordered by ID.
func (ss *SnapshotStoreImpl) GetAllRuns() ([]schema.SnapshotRunRecord, error) {
	if ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, total_projects, reference_date, config_params
		FROM %s ORDER BY run_id`, quoteTableName(snapshotRunsTable, ss.backend))
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SnapshotRunRecord
	for rows.Next() {
		var record schema.SnapshotRunRecord
		var start, end dbTime
		if err := rows.Scan(&record.RunID, &start, &end, &record.RunDurationMs,
			&record.TotalProjects, &record.ReferenceDate, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot run: %w", err)
		}
		record.StartTime = start.Time
		record.EndTime = end.Ptr()
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot runs: %w", err)
	}
	return results, nil
}

// GetAllProjectScores retrieves every recorded score ordered by run and project.
func (ss *SnapshotStoreImpl) GetAllProjectScores() ([]schema.ProjectScoreRecord, error) {
	if ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, project, repo_name, calculated_at, final_score, grade,
		growth_score, activity_score, contribution_score, code_score,
		star_current_month, fork_current_month, push_events, pull_request_events,
		issue_events, contributors, total_churn
		FROM %s ORDER BY run_id, project`, quoteTableName(projectScoresTable, ss.backend))
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query project scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ProjectScoreRecord
	for rows.Next() {
		var r schema.ProjectScoreRecord
		var calculatedAt dbTime
		if err := rows.Scan(&r.RunID, &r.Project, &r.RepoName, &calculatedAt, &r.FinalScore, &r.Grade,
			&r.GrowthScore, &r.ActivityScore, &r.ContributionScore, &r.CodeScore,
			&r.StarCurrentMonth, &r.ForkCurrentMonth, &r.PushEvents, &r.PullRequestEvents,
			&r.IssueEvents, &r.Contributors, &r.TotalChurn); err != nil {
			return nil, fmt.Errorf("failed to scan project score: %w", err)
		}
		r.CalculatedAt = calculatedAt.Time
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project scores: %w", err)
	}
	return results, nil
}
