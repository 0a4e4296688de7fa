package database

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"flightreport/internal/models"
)

type RouteRepository interface {
	OpenSession(ctx context.Context) (*RouteSession, error)
	InsertBatch(routes []*models.Route) error
	LoadFromMultipleCSV(csvPaths []string, batchSize int) (int, error)
}

type routeRepository struct {
	db *sql.DB
}

func NewRouteRepository(db *sql.DB) RouteRepository {
	return &routeRepository{db: db}
}

// RouteSession resolves callsigns over one dedicated connection. Open one per
// report and Close it when the report is finished.
type RouteSession struct {
	conn *sql.Conn
	stmt *sql.Stmt
}

// OpenSession reserves a connection, makes LIKE case-sensitive on it and
// prepares the lookup statement
func (r *routeRepository) OpenSession(ctx context.Context) (*RouteSession, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "acquire route connection", Err: err}
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA case_sensitive_like = ON"); err != nil {
		conn.Close()
		return nil, &models.StorageError{Op: "configure route connection", Err: err}
	}

	stmt, err := conn.PrepareContext(ctx, "SELECT route FROM FlightRoute WHERE flight LIKE ? LIMIT 1")
	if err != nil {
		conn.Close()
		return nil, &models.StorageError{Op: "prepare route lookup", Err: err}
	}

	return &RouteSession{conn: conn, stmt: stmt}, nil
}

// Resolve returns the first route recorded for callsign, or
// models.RoutePlaceholder when there is none
func (s *RouteSession) Resolve(ctx context.Context, callsign string) (string, error) {
	var route sql.NullString
	err := s.stmt.QueryRowContext(ctx, callsign).Scan(&route)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoutePlaceholder, nil
	}
	if err != nil {
		return "", &models.StorageError{Op: "lookup route for " + callsign, Err: err}
	}
	if !route.Valid {
		return models.RoutePlaceholder, nil
	}
	return route.String, nil
}

// Close releases the prepared statement and the connection
func (s *RouteSession) Close() error {
	stmtErr := s.stmt.Close()
	if err := s.conn.Close(); err != nil {
		return err
	}
	return stmtErr
}

// InsertBatch inserts or replaces routes in a single transaction
func (r *routeRepository) InsertBatch(routes []*models.Route) error {
	if len(routes) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO FlightRoute (flight, route) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rt := range routes {
		if _, err := stmt.Exec(rt.Flight, rt.Route); err != nil {
			return fmt.Errorf("failed to insert route %s: %w", rt.Flight, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadFromMultipleCSV loads flight,route rows from one or more CSV files and
// returns how many routes were stored. The header of the first file decides
// column positions; rows with a different field count or without a flight
// are skipped.
func (r *routeRepository) LoadFromMultipleCSV(csvPaths []string, batchSize int) (int, error) {
	var headerMap map[string]int
	var expectedFields int
	loaded := 0
	batch := make([]*models.Route, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.InsertBatch(batch); err != nil {
			return fmt.Errorf("failed to insert batch: %w", err)
		}
		loaded += len(batch)
		batch = batch[:0]
		return nil
	}

	for fileIdx, csvPath := range csvPaths {
		if err := func() error {
			file, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("failed to open CSV file %s: %w", csvPath, err)
			}
			defer file.Close()

			reader := csv.NewReader(file)
			reader.LazyQuotes = true
			reader.FieldsPerRecord = -1

			header, err := reader.Read()
			if err != nil {
				return fmt.Errorf("failed to read CSV header from %s: %w", csvPath, err)
			}

			if fileIdx == 0 {
				expectedFields = len(header)
				headerMap = make(map[string]int)
				for i, h := range header {
					headerMap[strings.ToLower(strings.Trim(strings.TrimSpace(h), "'\""))] = i
				}
				if _, ok := headerMap["flight"]; !ok {
					return fmt.Errorf("CSV file %s has no flight column", csvPath)
				}
				if _, ok := headerMap["route"]; !ok {
					return fmt.Errorf("CSV file %s has no route column", csvPath)
				}
			}

			for {
				record, err := reader.Read()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to read CSV record from %s: %w", csvPath, err)
				}

				if len(record) != expectedFields {
					continue
				}

				rt := &models.Route{
					Flight: getField(record, headerMap, "flight"),
					Route:  getField(record, headerMap, "route"),
				}
				if rt.Flight == "" {
					continue
				}

				batch = append(batch, rt)
				if len(batch) >= batchSize {
					if err := flush(); err != nil {
						return err
					}
				}
			}
		}(); err != nil {
			return loaded, err
		}
	}

	if err := flush(); err != nil {
		return loaded, err
	}

	return loaded, nil
}

// getField safely retrieves a field from a CSV record by header name
func getField(record []string, headerMap map[string]int, fieldName string) string {
	if idx, ok := headerMap[fieldName]; ok && idx < len(record) {
		return strings.Trim(strings.TrimSpace(record[idx]), "'\"")
	}
	return ""
}
