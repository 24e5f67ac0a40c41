package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/repohealth/core"
	"github.com/huangsam/repohealth/core/agg"
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/iocache"
	"github.com/huangsam/repohealth/internal/warehouse"
	"github.com/huangsam/repohealth/schema"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is rebuilt from the validated config in sharedSetup.
var logger = logrus.StandardLogger()

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "repohealth",
	Short:              "Score the health of open-source projects from GitHub activity.",
	Long:               `Repohealth turns longitudinal GitHub activity into a composite 0-100 health score, a letter grade and per-dimension breakdowns.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	// DB_* warehouse settings may live in .env; a missing file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		contract.LogWarn("Cannot load .env", err)
	}

	setConfigSource()

	// Set environment variable prefix
	viper.SetEnvPrefix("REPOHEALTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("warehouse-backend", schema.MySQLBackend)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("rate", contract.DefaultRateLimit)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("trend-limit", schema.DefaultTrendLimit)
	viper.SetDefault("top", schema.DefaultContributorTop)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("snapshot-backend", "")
	viper.SetDefault("snapshot-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.LogFormatText)
}

// setConfigSource points viper at --config or the default search paths.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".repohealth") // Name of config file (without extension)
	viper.SetConfigType("yaml")        // We'll use YAML format
	viper.AddConfigPath(".")           // Look in the current directory
	viper.AddConfigPath("$HOME")       // Look in the home directory
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// resolveConfig merges every source into a fresh raw input and validates it into target.
func resolveConfig(target *contract.Config, raw *contract.ConfigRawInput, args []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(raw); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// Positional arguments are not handled by Viper.
	if len(args) == 1 {
		raw.ProjectStr = strings.TrimSpace(args[0])
	}

	return contract.ProcessAndValidate(target, raw, os.Getenv)
}

// sharedSetup unmarshals config, runs validation and opens the local stores.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if err := resolveConfig(cfg, input, args); err != nil {
		return err
	}

	l, err := contract.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger = l
	color.NoColor = !cfg.UseColors

	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// projectSetupWrapper runs sharedSetup and requires a non-empty project argument.
func projectSetupWrapper(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if cfg.Project == "" {
		return contract.ErrEmptyProject
	}
	return nil
}

// newHealthService connects to the warehouse and wires the cached health service.
// The returned warehouse must be closed by the caller.
func newHealthService(ctx context.Context, c *contract.Config) (*core.HealthService, *warehouse.Warehouse, error) {
	wh, err := warehouse.Open(ctx, c.WarehouseBackend, c.WarehouseDBConnect, logger)
	if err != nil {
		return nil, nil, err
	}
	return buildHealthService(wh, c), wh, nil
}

// buildHealthService wires the health service on top of an open warehouse.
func buildHealthService(wh contract.Warehouse, c *contract.Config) *core.HealthService {
	var durable contract.CacheStore
	if cacheManager != nil {
		durable = cacheManager.GetEventStore()
	}
	clock := contract.SystemClock{}
	cache := agg.NewResultCache(clock, c.CacheTTL, durable, logger)
	return core.NewHealthService(wh, cache, c.Windows, c.Weights, clock, logger)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
