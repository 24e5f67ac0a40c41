// Package cmd defines the command-line interface for repohealth.
package cmd

import (
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(precomputeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotClearCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("warehouse-backend", string(schema.MySQLBackend), "Warehouse backend: mysql or postgresql or sqlite")
	rootCmd.PersistentFlags().String("warehouse-db-connect", "", "Warehouse connection string (defaults to DB_* variables for mysql)")
	rootCmd.PersistentFlags().String("reference-date", "", "Inclusive end of every window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("month-start", "", "Start of the current month window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("prev-3m-start", "", "Start of the previous three months window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("last-week-start", "", "Start of the last week window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or prom")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Float64("rate", contract.DefaultRateLimit, "Projects started per second during precompute (0 disables pacing)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("trend-limit", schema.DefaultTrendLimit, "Most recent days per trend series")
	rootCmd.PersistentFlags().Int("top", schema.DefaultContributorTop, "Number of contributors to show")
	rootCmd.PersistentFlags().String("cache-ttl", "", "Event aggregate cache TTL as a duration or seconds (default 1h)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("snapshot-backend", "", "Snapshot backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for snapshots (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.LogFormatText, "Log format: text or json")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of mcpCmd to Viper
	mcpCmd.Flags().Bool("watch", false, "Reload the config file on change without restarting the server")
	if err := viper.BindPFlags(mcpCmd.Flags()); err != nil {
		contract.LogFatal("Error binding mcp flags", err)
	}

	// Bind all flags of snapshotMigrateCmd to Viper
	snapshotMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot migrate flags", err)
	}
}
