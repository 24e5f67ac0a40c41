package schema

// Custom string types for type safety.
type (
	// Dimension represents one facet of the composite health score.
	Dimension string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents a relational backend for the warehouse or local stores.
	DatabaseBackend string

	// TrendMetric represents a cumulative metric that can be reconstructed from deltas.
	TrendMetric string
)

// Dimensions used in the composite score.
const (
	GrowthDimension       Dimension = "growth"
	ActivityDimension     Dimension = "activity"
	ContributionDimension Dimension = "contribution"
	CodeDimension         Dimension = "code"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	PromOut    OutputMode = "prom"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default for local stores
	MySQLBackend      DatabaseBackend = "mysql"  // default for the warehouse
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Trend metrics supported.
const (
	StarsMetric TrendMetric = "stars"
	ForksMetric TrendMetric = "forks"
)

// Event log constants for the warehouse.
const (
	EventTable            = "top300_2022_2023"
	PushEventType         = "PushEvent"
	PullRequestEventType  = "PullRequestEvent"
	IssuesEventType       = "IssuesEvent"
	DefaultTrendLimit     = 100
	DefaultContributorTop = 10
	MaxContributorTop     = 50
)

// AllDimensions lists the dimensions in display order.
var AllDimensions = []Dimension{GrowthDimension, ActivityDimension, ContributionDimension, CodeDimension}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
	PromOut: {},
}

// ValidDatabaseBackends lists all valid backends for local stores.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidWarehouseBackends lists backends that can host the activity warehouse.
var ValidWarehouseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// ValidTrendMetrics lists metrics with a delta and total column.
var ValidTrendMetrics = map[TrendMetric]struct{}{
	StarsMetric: {},
	ForksMetric: {},
}

// DimensionWeights maps each dimension to its share of the final score.
type DimensionWeights map[Dimension]float64

// GetDefaultWeights returns the fixed weights of the composite score.
func GetDefaultWeights() DimensionWeights {
	return DimensionWeights{
		GrowthDimension:       0.20,
		ActivityDimension:     0.40,
		ContributionDimension: 0.20,
		CodeDimension:         0.20,
	}
}

// DimensionDisplayName returns the human-readable name of a dimension.
func DimensionDisplayName(d Dimension) string {
	switch d {
	case GrowthDimension:
		return "Growth"
	case ActivityDimension:
		return "Activity"
	case ContributionDimension:
		return "Contribution"
	case CodeDimension:
		return "Code"
	default:
		return string(d)
	}
}
