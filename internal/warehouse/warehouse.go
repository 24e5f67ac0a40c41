// Package warehouse reads the longitudinal activity tables that health scores are computed from.
//
// Every accessor fails soft: query errors are logged and the zero value is returned,
// so a single broken table degrades a score instead of failing it.
package warehouse

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Warehouse runs read-only aggregate queries against the activity warehouse.
type Warehouse struct {
	db      *sqlx.DB
	backend schema.DatabaseBackend
	logger  *logrus.Logger
}

var _ contract.Warehouse = &Warehouse{} // Compile-time check

// DriverName returns the database/sql driver registered for a backend.
func DriverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	case schema.SQLiteBackend:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("%w for warehouse: %s", contract.ErrUnsupportedBackend, backend)
	}
}

// Open connects to the warehouse and verifies the connection.
func Open(ctx context.Context, backend schema.DatabaseBackend, dsn string, logger *logrus.Logger) (*Warehouse, error) {
	driverName, err := DriverName(backend)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s warehouse: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s warehouse. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return New(db, backend, logger), nil
}

// New wraps an existing connection.
func New(db *sqlx.DB, backend schema.DatabaseBackend, logger *logrus.Logger) *Warehouse {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Warehouse{db: db, backend: backend, logger: logger}
}

// Backend returns the backend the warehouse is connected to.
func (w *Warehouse) Backend() schema.DatabaseBackend {
	return w.backend
}

// Close releases the underlying connection pool.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// ListProjects returns every project with star history in owner/repo form.
func (w *Warehouse) ListProjects(ctx context.Context) ([]string, error) {
	var projects []string
	if err := w.db.SelectContext(ctx, &projects, "SELECT DISTINCT project FROM stars ORDER BY project"); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// monthExpr buckets a date column by calendar month.
func (w *Warehouse) monthExpr(col string) string {
	switch w.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m')", col)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", col)
	default:
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", col)
	}
}

// dayExpr renders a date column as YYYY-MM-DD text.
func (w *Warehouse) dayExpr(col string) string {
	switch w.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", col)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", col)
	default:
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", col)
	}
}

// logSoftFailure records a query failure that is being swallowed.
func (w *Warehouse) logSoftFailure(err error, key schema.ProjectKey, what string) {
	w.logger.WithError(err).WithFields(logrus.Fields{
		"project": key,
		"query":   what,
	}).Warn("warehouse query failed, using zero values")
}
