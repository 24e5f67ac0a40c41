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

// eventCacheTarget resolves the durable tier of the event aggregate cache.
// An empty backend falls back to SQLite.
func eventCacheTarget(backend, connStr string) (schema.DatabaseBackend, string, error) {
	b := schema.DatabaseBackend(backend)
	if b == "" {
		b = schema.SQLiteBackend
	}
	if err := contract.ValidateDatabaseConnectionString(b, connStr); err != nil {
		return "", "", fmt.Errorf("invalid event cache target: %w", err)
	}
	return b, connStr, nil
}

// openEventCache opens only the event aggregate store. The warehouse is never touched.
func openEventCache(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := eventCacheTarget(viper.GetString("cache-backend"), viper.GetString("cache-db-connect"))
	if err != nil {
		return err
	}
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to open event cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset cached event aggregates",
	Long: `Event aggregates scan a project's whole event history, so each result is kept
for --cache-ttl in memory and in the --cache-backend store (sqlite, mysql, postgresql or none).
Star, fork, commit and pull request windows are always read live from the warehouse.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached event aggregate",
	Long: `Drop every cached event aggregate so the next score rereads the warehouse.
Run it after loading new events. SQLite removes its file; MySQL and PostgreSQL drop the table.`,
	Example: `  repohealth cache clear
  REPOHEALTH_CACHE_BACKEND=postgresql REPOHEALTH_CACHE_DB_CONNECT="host=db dbname=health" repohealth cache clear`,
	PreRunE: openEventCache,
	Run: func(_ *cobra.Command, _ []string) {
		// The handle must be released before its file or table goes away.
		iocache.CloseCaching()
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteFilePath(cfg.CacheDBConnect, contract.GetCacheDBFilePath()), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear event cache", err)
		}
		fmt.Println("Event cache cleared.")
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Report cached projects, entry ages and store size",
	Example: `  repohealth cache status --cache-backend sqlite`,
	PreRunE: openEventCache,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetEventStore()
		if store == nil {
			contract.LogFatal("Failed to read event cache", fmt.Errorf("no event cache backend configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to read event cache", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// sqliteFilePath returns the configured SQLite file, or fallback when none is set.
func sqliteFilePath(connStr, fallback string) string {
	if connStr != "" {
		return connStr
	}
	return fallback
}
