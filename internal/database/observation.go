package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"flightreport/internal/models"
)

// ObservationRepository reads joined aircraft and flight records
type ObservationRepository interface {
	Find(ctx context.Context, sel models.Selection) ([]*models.RawObservation, error)
}

type observationRepository struct {
	db *sql.DB
}

func NewObservationRepository(db *sql.DB) ObservationRepository {
	return &observationRepository{db: db}
}

// Timestamps are cast to TEXT so the driver hands back the stored string
// instead of parsing the DATETIME declared type.
const observationColumns = `CAST(f.StartTime AS TEXT), CAST(f.EndTime AS TEXT),
	a.ModeS, a.ModeSCountry, a.Registration, a.Manufacturer, a.Type,
	a.RegisteredOwners, a.Interested, f.Callsign,
	f.FirstSquawk, f.LastSquawk, f.FirstAltitude, f.LastAltitude,
	f.FirstGroundSpeed, f.LastGroundSpeed, f.FirstVerticalRate, f.LastVerticalRate,
	f.FirstTrack, f.LastTrack`

// columnNames maps selection columns to the BaseStation schema
var columnNames = map[models.Column]string{
	models.ColumnStartTime:    "f.StartTime",
	models.ColumnEndTime:      "f.EndTime",
	models.ColumnInterested:   "a.Interested",
	models.ColumnRegistration: "a.Registration",
}

// Find returns every observation matching sel, ordered ascending by
// sel.OrderBy. Ties keep the order flights were recorded in.
func (r *observationRepository) Find(ctx context.Context, sel models.Selection) ([]*models.RawObservation, error) {
	query, args, err := buildObservationQuery(sel)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &models.StorageError{Op: "select observations", Err: err}
	}
	defer rows.Close()

	var observations []*models.RawObservation
	for rows.Next() {
		obs := &models.RawObservation{
			MessageSlots: make([]any, len(models.MessageSlotColumns)),
		}
		dest := []any{
			&obs.StartTime, &obs.EndTime,
			&obs.ModeS, &obs.ModeSCountry, &obs.Registration, &obs.Manufacturer, &obs.Type,
			&obs.Owner, &obs.Interested, &obs.Callsign,
			&obs.FirstSquawk, &obs.LastSquawk, &obs.FirstAltitude, &obs.LastAltitude,
			&obs.FirstGroundSpeed, &obs.LastGroundSpeed, &obs.FirstVerticalRate, &obs.LastVerticalRate,
			&obs.FirstTrack, &obs.LastTrack,
		}
		for i := range obs.MessageSlots {
			dest = append(dest, &obs.MessageSlots[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, &models.StorageError{Op: "scan observation", Err: err}
		}
		observations = append(observations, obs)
	}

	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "read observations", Err: err}
	}

	return observations, nil
}

// buildObservationQuery translates a selection into SQL with bound parameters
func buildObservationQuery(sel models.Selection) (string, []any, error) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	b.WriteString(observationColumns)
	for _, col := range models.MessageSlotColumns {
		b.WriteString(", f.")
		b.WriteString(col)
	}
	b.WriteString("\nFROM Aircraft a INNER JOIN Flights f ON (a.AircraftID = f.AircraftID)")

	var clauses []string

	if len(sel.AnyOf) > 0 {
		alternatives := make([]string, 0, len(sel.AnyOf))
		for _, p := range sel.AnyOf {
			clause, arg, err := predicateSQL(p)
			if err != nil {
				return "", nil, err
			}
			alternatives = append(alternatives, clause)
			args = append(args, arg...)
		}
		clauses = append(clauses, "("+strings.Join(alternatives, " OR ")+")")
	}

	for _, p := range sel.AllOf {
		clause, arg, err := predicateSQL(p)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, arg...)
	}

	if len(clauses) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}

	orderBy, ok := columnNames[sel.OrderBy]
	if !ok {
		return "", nil, fmt.Errorf("cannot order by column %s", sel.OrderBy)
	}
	b.WriteString("\nORDER BY ")
	b.WriteString(orderBy)
	// FlightID follows insertion order, which keeps ties stable
	b.WriteString(", f.FlightID")

	return b.String(), args, nil
}

func predicateSQL(p models.Predicate) (string, []any, error) {
	name, ok := columnNames[p.Column]
	if !ok {
		return "", nil, fmt.Errorf("cannot filter on column %s", p.Column)
	}

	switch p.Kind {
	case models.Equals:
		return name + " = ?", []any{p.Value}, nil
	case models.Like:
		return name + " LIKE ?", []any{p.Value}, nil
	case models.IsNull:
		return name + " IS NULL", nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate kind %d on %s", p.Kind, p.Column)
	}
}
