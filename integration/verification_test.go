//go:build basic

// Package integration contains end-to-end tests for the repohealth CLI.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or with database containers: go test -tags database ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repohealth/core/algo"
	"github.com/huangsam/repohealth/schema"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // SQLite driver
)

// setupSQLiteWarehouse seeds a warehouse file and isolates HOME for the default cache file.
func setupSQLiteWarehouse(t *testing.T) (dir string, args []string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)

	dbPath := filepath.Join(dir, "warehouse.db")
	db, err := sqlx.Connect("sqlite", dbPath)
	require.NoError(t, err)
	seedWarehouse(t, db)
	require.NoError(t, db.Close())

	args = append([]string{"--warehouse-backend", "sqlite", "--warehouse-db-connect", dbPath}, referenceArgs...)
	return dir, args
}

// TestScoreVerification checks that the printed score is consistent with its own breakdown.
func TestScoreVerification(t *testing.T) {
	dir, args := setupSQLiteWarehouse(t)

	var result schema.HealthScoreResult
	out := runRepohealth(t, dir, append([]string{"score", "facebook/react", "--output", "json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, schema.ProjectKey("facebook_react"), result.Project)
	assert.Equal(t, "facebook/react", result.RepoName)
	assert.Equal(t, "2023-03-31", result.ReferenceDate)
	require.Len(t, result.Dimensions, len(schema.AllDimensions))

	var weighted float64
	for _, d := range schema.AllDimensions {
		dim, ok := result.Dimensions[d]
		require.True(t, ok, "missing dimension %s", d)
		assert.GreaterOrEqual(t, dim.Score, 0.0)
		assert.LessOrEqual(t, dim.Score, 100.0)
		weighted += dim.Score * result.Weights[d]
	}
	assert.InDelta(t, weighted, result.FinalScore, 0.01)
	assert.Equal(t, algo.ClassifyGrade(result.FinalScore).Grade, result.Grade)
	assert.Equal(t, schema.LookupGradeBand(result.Grade).Label, result.GradeLabel)

	code := result.Dimensions[schema.CodeDimension]
	assert.Equal(t, 120.0, code.Details[schema.DetailTotalChurn])
	assert.InDelta(t, 41.66, code.Score, 0.01)

	// The second run is served from the aggregate cache and must agree.
	var cached schema.HealthScoreResult
	out = runRepohealth(t, dir, append([]string{"score", "facebook_react", "--output", "json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &cached))
	assert.Equal(t, result.FinalScore, cached.FinalScore)
	assert.Equal(t, result.Dimensions, cached.Dimensions)
}

// TestTrendVerification checks that the star series ends at the recorded total.
func TestTrendVerification(t *testing.T) {
	dir, args := setupSQLiteWarehouse(t)

	var trends schema.ProjectTrends
	out := runRepohealth(t, dir, append([]string{"trend", "facebook/react", "--output", "json", "--cache-backend", "none"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &trends))

	assert.Equal(t, int64(1000), trends.Summary.TotalStars)
	assert.Equal(t, int64(300), trends.Summary.TotalForks)

	stars := trends.StarsTrend
	require.Len(t, stars.Cumulative, 4)
	assert.True(t, stars.AnchorHonored)
	assert.Equal(t, int64(1000), stars.Cumulative[len(stars.Cumulative)-1])
	assert.Equal(t, int64(1000-100), stars.Baseline)
}

// TestContributorsVerification checks push counts against the seeded events.
func TestContributorsVerification(t *testing.T) {
	dir, args := setupSQLiteWarehouse(t)

	var result schema.ContributorsResult
	out := runRepohealth(t, dir, append([]string{"contributors", "facebook/react", "--output", "json", "--cache-backend", "none"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, 2, result.TotalContributors)
	assert.Equal(t, int64(3), result.TotalCommits)
	require.Len(t, result.Contributors, 2)
	assert.Equal(t, "alice", result.Contributors[0].Username)
	assert.Equal(t, int64(2), result.Contributors[0].CommitCount)
	assert.Equal(t, "https://github.com/alice", result.Contributors[0].GitHubURL)
}

// TestPrecomputeAndSnapshotExport scores every project, records a snapshot and exports it.
func TestPrecomputeAndSnapshotExport(t *testing.T) {
	dir, args := setupSQLiteWarehouse(t)
	scoresFile := filepath.Join(dir, "scores.json")
	snapshotDB := filepath.Join(dir, "snapshots.db")
	snapshotArgs := []string{"--snapshot-backend", "sqlite", "--snapshot-db-connect", snapshotDB}

	runRepohealth(t, dir, append(append([]string{"precompute", "--output", "json", "--output-file", scoresFile, "--workers", "2", "--rate", "0"}, snapshotArgs...), args...)...)

	data, err := os.ReadFile(scoresFile)
	require.NoError(t, err)
	var doc struct {
		TotalProjects int                                            `json:"total_projects"`
		SuccessCount  int                                            `json:"success_count"`
		ErrorCount    int                                            `json:"error_count"`
		Scores        map[schema.ProjectKey]schema.HealthScoreResult `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.TotalProjects)
	assert.Equal(t, 2, doc.SuccessCount)
	assert.Zero(t, doc.ErrorCount)
	require.Len(t, doc.Scores, 2)
	assert.Contains(t, doc.Scores, schema.ProjectKey("facebook_react"))
	assert.Contains(t, doc.Scores, schema.ProjectKey("other_repo"))

	status := runRepohealth(t, dir, append([]string{"snapshot", "status"}, snapshotArgs...)...)
	assert.Contains(t, status, "Total Runs: 1")

	exportBase := filepath.Join(dir, "export")
	runRepohealth(t, dir, append([]string{"snapshot", "export", "--output-file", exportBase}, snapshotArgs...)...)
	assert.FileExists(t, exportBase+".snapshot_runs.parquet")
	assert.FileExists(t, exportBase+".project_scores.parquet")
}
