package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/pressly/goose/v3"

	"flightreport/internal/database/migrations"
	"flightreport/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a SQLite database holding BaseStation observations and/or the
// FlightRoute reference table
type DB struct {
	db       *sql.DB
	readOnly bool
}

// New opens a database for reading and writing, creating the file if needed.
// Used for the route reference database when importing routes.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, &models.StorageError{Op: "open " + dbPath, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &models.StorageError{Op: "ping " + dbPath, Err: err}
	}

	if err := optimizeSQLite(db); err != nil {
		db.Close()
		return nil, &models.StorageError{Op: "optimize " + dbPath, Err: err}
	}

	return &DB{db: db}, nil
}

// NewReadOnly opens an existing database without write access. The
// BaseStation database is owned by the receiver software and is never
// modified by the report.
func NewReadOnly(dbPath string) (*DB, error) {
	dsn := "file:" + (&url.URL{Path: dbPath}).EscapedPath() + "?mode=ro&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &models.StorageError{Op: "open " + dbPath, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &models.StorageError{Op: "ping " + dbPath, Err: err}
	}

	return &DB{db: db, readOnly: true}, nil
}

// optimizeSQLite applies connection settings for bulk route imports
func optimizeSQLite(db *sql.DB) error {
	// 64MB page cache, held in RAM
	if _, err := db.Exec("PRAGMA cache_size=-64000"); err != nil {
		return fmt.Errorf("failed to set cache size: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA temp_store=MEMORY"); err != nil {
		return fmt.Errorf("failed to set temp_store: %w", err)
	}

	// The receiver keeps writing to its database while we read
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// MigrateRoutes creates or upgrades the FlightRoute schema
func (d *DB) MigrateRoutes(ctx context.Context) error {
	if d.readOnly {
		return fmt.Errorf("cannot migrate a read-only database")
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, d.db, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return &models.StorageError{Op: "migrate routes", Err: err}
	}

	for _, r := range results {
		slog.Debug("Applied route migration", "source", r.Source.Path, "duration", r.Duration)
	}

	return nil
}

// Observations returns the repository over the joined Aircraft and Flights tables
func (d *DB) Observations() ObservationRepository {
	return NewObservationRepository(d.db)
}

// Routes returns the repository over the FlightRoute table
func (d *DB) Routes() RouteRepository {
	return NewRouteRepository(d.db)
}

// LoadRoutes loads flight,route CSV files into the FlightRoute table
func (d *DB) LoadRoutes(csvPaths []string, batchSize int) (int, error) {
	if d.readOnly {
		return 0, fmt.Errorf("cannot load routes into a read-only database")
	}
	return d.Routes().LoadFromMultipleCSV(csvPaths, batchSize)
}
