package contract

import (
	"fmt"
	"maps"
	"math"
	"net"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/repohealth/schema"
)

// Default values for configuration.
const (
	DefaultCacheTTL       = 3600 * time.Second
	DefaultPrecision      = 2
	DefaultRateLimit      = 20.0 // projects per second during precompute
	DefaultLogLevel       = "warn"
	MaxTrendLimit         = 1000
	DefaultPrecomputeFile = "health_scores.json"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Warehouse connection defaults, overridable through DB_* variables in .env.
const (
	defaultDBHost = "localhost"
	defaultDBPort = "3306"
	defaultDBUser = "root"
	defaultDBPass = "root"
	defaultDBName = "openrankdata"
)

// WeightsRawInput holds custom dimension weights from the YAML config file.
// Use float64 pointers so unset fields keep their defaults.
type WeightsRawInput struct {
	Growth       *float64 `mapstructure:"growth"`
	Activity     *float64 `mapstructure:"activity"`
	Contribution *float64 `mapstructure:"contribution"`
	Code         *float64 `mapstructure:"code"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Project schema.ProjectKey

	WarehouseBackend   schema.DatabaseBackend
	WarehouseDBConnect string // Please use env var as this is plaintext

	Windows schema.ReferenceWindows
	Weights schema.DimensionWeights

	CacheTTL       time.Duration
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	Workers    int
	RateLimit  float64 // Projects per second in precompute; 0 disables pacing
	TrendLimit int
	TopN       int

	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ProjectStr string

	WarehouseBackend   string `mapstructure:"warehouse-backend"`
	WarehouseDBConnect string `mapstructure:"warehouse-db-connect"`

	ReferenceDate string `mapstructure:"reference-date"`
	MonthStart    string `mapstructure:"month-start"`
	Prev3MStart   string `mapstructure:"prev-3m-start"`
	LastWeekStart string `mapstructure:"last-week-start"`

	CacheTTL          string `mapstructure:"cache-ttl"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	SnapshotBackend   string `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string `mapstructure:"snapshot-db-connect"`

	Output     string  `mapstructure:"output"`
	OutputFile string  `mapstructure:"output-file"`
	Precision  int     `mapstructure:"precision"`
	Color      string  `mapstructure:"color"`
	Width      int     `mapstructure:"width"`
	Workers    int     `mapstructure:"workers"`
	Rate       float64 `mapstructure:"rate"`
	TrendLimit int     `mapstructure:"trend-limit"`
	Top        int     `mapstructure:"top"`
	LogLevel   string  `mapstructure:"log-level"`
	LogFormat  string  `mapstructure:"log-format"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights != nil {
		clone.Weights = make(schema.DimensionWeights, len(c.Weights))
		maps.Copy(clone.Weights, c.Weights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, getenv func(string) string) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processReferenceWindows(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := processCacheTTL(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input, getenv); err != nil {
		return err
	}
	cfg.Project = schema.NormalizeProjectKey(input.ProjectStr)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// WarehouseDSNFromEnv assembles a MySQL DSN from DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME.
func WarehouseDSNFromEnv(getenv func(string) string) string {
	valueOr := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	mc := mysql.NewConfig()
	mc.User = valueOr("DB_USER", defaultDBUser)
	mc.Passwd = valueOr("DB_PASSWORD", defaultDBPass)
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(valueOr("DB_HOST", defaultDBHost), valueOr("DB_PORT", defaultDBPort))
	mc.DBName = valueOr("DB_NAME", defaultDBName)
	mc.ParseTime = true
	return mc.FormatDSN()
}

// validateSimpleInputs processes and validates all non-database fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, prom", input.Output)
	}

	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Rate < 0 || math.IsNaN(input.Rate) {
		return fmt.Errorf("rate must not be negative (received %v)", input.Rate)
	}
	cfg.RateLimit = input.Rate

	if input.TrendLimit <= 0 || input.TrendLimit > MaxTrendLimit {
		return fmt.Errorf("trend-limit must be greater than 0 and cannot exceed %d (received %d)", MaxTrendLimit, input.TrendLimit)
	}
	cfg.TrendLimit = input.TrendLimit

	if input.Top < 1 || input.Top > schema.MaxContributorTop {
		return fmt.Errorf("top must be between 1 and %d (received %d)", schema.MaxContributorTop, input.Top)
	}
	cfg.TopN = input.Top

	cfg.LogLevel = input.LogLevel
	cfg.LogFormat = input.LogFormat
	if _, err := NewLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	return nil
}

// processReferenceWindows parses the four window boundaries, falling back to defaults.
func processReferenceWindows(cfg *Config, input *ConfigRawInput) error {
	defaults := schema.DefaultReferenceWindows()
	fields := []struct {
		name     string
		raw      string
		fallback time.Time
		dst      *time.Time
	}{
		{"reference-date", input.ReferenceDate, defaults.ReferenceDate, &cfg.Windows.ReferenceDate},
		{"month-start", input.MonthStart, defaults.MonthStart, &cfg.Windows.MonthStart},
		{"prev-3m-start", input.Prev3MStart, defaults.Prev3MStart, &cfg.Windows.Prev3MStart},
		{"last-week-start", input.LastWeekStart, defaults.LastWeekStart, &cfg.Windows.LastWeekStart},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(f.raw)
		if raw == "" {
			*f.dst = f.fallback
			continue
		}
		parsed, err := time.Parse(schema.DateLayout, raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q. must be YYYY-MM-DD: %w", f.name, f.raw, err)
		}
		*f.dst = parsed
	}
	return cfg.Windows.Validate()
}

// processWeights merges custom weights over the defaults and checks they sum to 1.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultWeights()
	overrides := map[schema.Dimension]*float64{
		schema.GrowthDimension:       input.Weights.Growth,
		schema.ActivityDimension:     input.Weights.Activity,
		schema.ContributionDimension: input.Weights.Contribution,
		schema.CodeDimension:         input.Weights.Code,
	}
	for dim, w := range overrides {
		if w == nil {
			continue
		}
		if *w < 0 || *w > 1 || math.IsNaN(*w) {
			return fmt.Errorf("weight for %s must be between 0 and 1 (received %v)", dim, *w)
		}
		weights[dim] = *w
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("dimension weights must sum to 1.0 (received %.3f)", sum)
	}
	cfg.Weights = weights
	return nil
}

// processCacheTTL accepts a Go duration ("90m") or a bare number of seconds ("3600").
func processCacheTTL(cfg *Config, input *ConfigRawInput) error {
	raw := strings.TrimSpace(input.CacheTTL)
	if raw == "" {
		cfg.CacheTTL = DefaultCacheTTL
		return nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		cfg.CacheTTL = time.Duration(secs) * time.Second
	} else {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl %q: %w", input.CacheTTL, err)
		}
		cfg.CacheTTL = d
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("cache-ttl must be positive (received %s)", cfg.CacheTTL)
	}
	return nil
}

// validateBackendConfigs validates warehouse, cache and snapshot backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput, getenv func(string) string) error {
	// --- Warehouse Validation ---
	cfg.WarehouseBackend = schema.DatabaseBackend(strings.ToLower(input.WarehouseBackend))
	if _, ok := schema.ValidWarehouseBackends[cfg.WarehouseBackend]; !ok {
		return fmt.Errorf("invalid warehouse backend '%s'. must be mysql, postgresql, sqlite", input.WarehouseBackend)
	}
	cfg.WarehouseDBConnect = input.WarehouseDBConnect
	if cfg.WarehouseDBConnect == "" && cfg.WarehouseBackend == schema.MySQLBackend && getenv != nil {
		cfg.WarehouseDBConnect = WarehouseDSNFromEnv(getenv)
	}
	if cfg.WarehouseBackend == schema.SQLiteBackend && cfg.WarehouseDBConnect == "" {
		return fmt.Errorf("warehouse-db-connect must point to a database file for the sqlite warehouse")
	}
	if err := ValidateDatabaseConnectionString(cfg.WarehouseBackend, cfg.WarehouseDBConnect); err != nil {
		return fmt.Errorf("warehouse: %w", err)
	}

	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	// --- Snapshot Backend Validation ---
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if cfg.SnapshotBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.SnapshotBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		snapshotPath := cfg.SnapshotDBConnect
		if snapshotPath == "" {
			snapshotPath = GetSnapshotDBFilePath()
		}
		if cachePath == snapshotPath {
			return fmt.Errorf("cache and snapshot storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}
