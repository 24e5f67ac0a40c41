package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/iocache"
	"github.com/huangsam/repohealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// snapshotConfig reads and validates the snapshot backend settings.
// An empty backend is treated as none.
func snapshotConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("snapshot-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("snapshot-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// snapshotSetup loads minimal configuration needed for snapshot operations.
func snapshotSetup() error {
	backend, connStr, err := snapshotConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no event cache for snapshot commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize snapshots: %w", err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for snapshot commands.
func snapshotSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotSetup()
}

// snapshotMigrateSetup does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func snapshotMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := snapshotConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend {
		connStr = sqliteFilePath(connStr, contract.GetSnapshotDBFilePath())
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	return nil
}

// snapshotCmd focused on snapshot data management.
//
// Note: Snapshot subcommands use minimal initialization (snapshotSetup) instead of
// the full sharedSetup used by scoring commands.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage recorded precompute runs and project scores",
	Long: `Manage the snapshot store that keeps every precompute run and its project scores.

Stores:
- Run metadata (start, end, duration, reference date, configuration)
- One row per project per run with dimension scores and key inputs

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show snapshot statistics and connection info
  export  - Export runs and scores to Parquet
  migrate - Run database schema migrations
  clear   - Remove all snapshot data

Examples:
  # Check snapshot status
  repohealth snapshot status --snapshot-backend sqlite

  # Export to Parquet for analysis
  repohealth snapshot export --snapshot-backend sqlite --output-file march`,
}

// snapshotClearCmd clears all snapshot data.
var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs and scores",
	Long: `Delete all snapshot data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot and migration tables`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the open handle before the file or tables are removed.
		iocache.CloseCaching()
		if err := iocache.ClearSnapshots(cfg.SnapshotBackend, sqliteFilePath(cfg.SnapshotDBConnect, contract.GetSnapshotDBFilePath()), cfg.SnapshotDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshot data", err)
		}
		fmt.Println("Snapshot data cleared successfully.")
	},
}

// snapshotStatusCmd shows snapshot status.
var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot statistics and connection details",
	Long: `Show the backend, run count, latest and oldest run times, score count and table sizes.

Examples:
  repohealth snapshot status --snapshot-backend postgresql --snapshot-db-connect "host=... dbname=..."`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSnapshotStore()
		if store == nil {
			contract.LogFatal("Failed to get snapshot status", contract.ErrNoSnapshots)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		iocache.PrintSnapshotStatus(os.Stdout, status)
	},
}

// snapshotExportCmd exports snapshot data to Parquet.
var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs and scores to Parquet files",
	Long: `Write every snapshot run and project score to two Parquet files:
<output-file>.snapshot_runs.parquet and <output-file>.project_scores.parquet.

Examples:
  repohealth snapshot export --snapshot-backend sqlite --output-file march`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportSnapshots(iocache.Manager.GetSnapshotStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export snapshot data", err)
		}
	},
}

// snapshotMigrateCmd runs the embedded snapshot migrations.
var snapshotMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Apply or roll back the embedded snapshot store migrations.

Examples:
  # Migrate to the latest version
  repohealth snapshot migrate --snapshot-backend sqlite

  # Roll back every migration
  repohealth snapshot migrate --snapshot-backend sqlite --target-version 0`,
	PreRunE: snapshotMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.SnapshotBackend == schema.NoneBackend {
			contract.LogFatal("Failed to run migrations", fmt.Errorf("a snapshot backend is required"))
		}
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateSnapshots(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Snapshot schema already at version %d.\n", result.ToVersion)
			return
		}
		fmt.Printf("Snapshot schema migrated from version %d to %d.\n", result.FromVersion, result.ToVersion)
	},
}
