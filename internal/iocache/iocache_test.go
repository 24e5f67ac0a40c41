package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetManager restores the global manager between tests.
func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(func() {
		CloseCaching()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &CacheStoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite stores", func(t *testing.T) {
		resetManager(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		snapshotPath := filepath.Join(dir, "snapshots.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, snapshotPath))
		assert.NotNil(t, Manager.GetEventStore())
		assert.NotNil(t, Manager.GetSnapshotStore())

		CloseCaching()
		_, err := os.Stat(cachePath)
		assert.NoError(t, err)
		_, err = os.Stat(snapshotPath)
		assert.NoError(t, err)
	})

	t.Run("idempotent", func(t *testing.T) {
		resetManager(t)
		path := filepath.Join(t.TempDir(), "cache.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		first := Manager.GetEventStore()
		require.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		assert.Same(t, first, Manager.GetEventStore())

		CloseCaching()
		CloseCaching()
	})

	t.Run("unset backends", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores("", "", "", ""))
		assert.Nil(t, Manager.GetEventStore())
		assert.Nil(t, Manager.GetSnapshotStore())
	})

	t.Run("none backend", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
		require.NotNil(t, Manager.GetEventStore())
		status, err := Manager.GetEventStore().GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
	})

	t.Run("snapshot failure", func(t *testing.T) {
		resetManager(t)
		err := InitStores(schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"), schema.DatabaseBackend("oracle"), "")
		assert.ErrorContains(t, err, "failed to initialize snapshot store")
		assert.Nil(t, Manager.GetEventStore())
	})
}

func TestClearStores(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(eventTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		// Clearing twice is fine
		assert.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	})

	t.Run("snapshot sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshots.db")
		store, err := NewSnapshotStore(schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearSnapshots(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearSnapshots(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.ErrorContains(t, ClearCache(schema.DatabaseBackend("oracle"), "", ""), "unsupported")
	})
}

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    2,
		LastEntryTime:   time.Date(2023, time.April, 1, 10, 0, 0, 0, time.UTC),
		OldestEntryTime: time.Date(2023, time.April, 1, 9, 0, 0, 0, time.UTC),
		TableSizeBytes:  4096,
	})

	out := buf.String()
	assert.Contains(t, out, "Cache Backend: sqlite")
	assert.Contains(t, out, "Total Entries: 2")
	assert.Contains(t, out, "Last Entry: 2023-04-01 10:00:00")
	assert.Contains(t, out, "Table Size: 4096 bytes")

	buf.Reset()
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())
}

func TestPrintSnapshotStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintSnapshotStatus(&buf, schema.SnapshotStatus{
		Backend:     "sqlite",
		Connected:   true,
		TotalRuns:   1,
		LastRunID:   1,
		TotalScores: 300,
		TableSizes:  map[string]int64{projectScoresTable: 300, snapshotRunsTable: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "Total Runs: 1")
	assert.Contains(t, out, "Total Project Scores: 300")
	// Tables are listed in name order
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(projectScoresTable)), bytes.Index(buf.Bytes(), []byte(snapshotRunsTable)))
}

func TestExportSnapshots(t *testing.T) {
	store := newTestSnapshotStore(t)
	runID, err := store.BeginRun(runStart, "2023-03-31", nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordProjectScore(runID, sampleResult("facebook_react")))
	require.NoError(t, store.EndRun(runID, runStart.Add(time.Second), 1))

	output := filepath.Join(t.TempDir(), "export")
	var buf bytes.Buffer
	require.NoError(t, ExportSnapshots(store, output, &buf))

	for _, suffix := range []string{".snapshot_runs.parquet", ".project_scores.parquet"} {
		info, err := os.Stat(output + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, buf.String(), "Exported 1 snapshot runs")
	assert.Contains(t, buf.String(), "Exported 1 project scores")
}

func TestExportSnapshotsErrors(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorContains(t, ExportSnapshots(nil, "", &buf), "--output-file")
	assert.ErrorIs(t, ExportSnapshots(nil, "out", &buf), contract.ErrNoSnapshots)

	empty := newTestSnapshotStore(t)
	assert.ErrorIs(t, ExportSnapshots(empty, "out", &buf), contract.ErrNoSnapshots)

	mockStore := &MockSnapshotStore{}
	mockStore.On("GetStatus").Return(schema.SnapshotStatus{}, assert.AnError)
	assert.ErrorIs(t, ExportSnapshots(mockStore, "out", &buf), assert.AnError)

	failing := &MockSnapshotStore{}
	failing.On("GetStatus").Return(schema.SnapshotStatus{TotalRuns: 1}, nil)
	failing.On("GetAllRuns").Return([]schema.SnapshotRunRecord(nil), assert.AnError)
	assert.ErrorContains(t, ExportSnapshots(failing, "out", &buf), "failed to retrieve snapshot runs")
	failing.AssertExpectations(t)
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"event_aggregate_cache", false},
		{"_private", false},
		{"t1", false},
		{"", true},
		{"1table", true},
		{"bad-name", true},
		{"drop table;", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteAndRebind(t *testing.T) {
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))

	query := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", rebind(schema.PostgreSQLBackend, query))
	assert.Equal(t, query, rebind(schema.MySQLBackend, query))
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2023, time.April, 1, 9, 30, 0, 123000000, time.UTC)
	tests := []struct {
		name    string
		src     any
		valid   bool
		wantErr bool
	}{
		{"native", want, true, false},
		{"rfc3339 text", "2023-04-01T09:30:00.123Z", true, false},
		{"mysql bytes", []byte("2023-04-01 09:30:00.123000"), true, false},
		{"null", nil, false, false},
		{"garbage", "yesterday", false, true},
		{"wrong type", 42, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dbTime
			err := got.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, want.Equal(got.Time))
				require.NotNil(t, got.Ptr())
			} else {
				assert.Nil(t, got.Ptr())
			}
		})
	}
}
