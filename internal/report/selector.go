package report

import (
	"context"
	"fmt"
	"time"

	"flightreport/internal/models"
)

// ObservationSource fetches observations matching a selection
type ObservationSource interface {
	Find(ctx context.Context, sel models.Selection) ([]*models.RawObservation, error)
}

// Selector picks the observations that belong in a report variant
type Selector struct {
	source ObservationSource
}

func NewSelector(source ObservationSource) *Selector {
	return &Selector{source: source}
}

// Select returns the flights that started or ended on day, filtered for
// variant and ordered by start time
func (s *Selector) Select(ctx context.Context, variant models.ReportVariant, day time.Time) ([]*models.RawObservation, error) {
	sel, err := Selection(variant, day)
	if err != nil {
		return nil, err
	}
	return s.source.Find(ctx, sel)
}

// Selection builds the predicate for variant over the calendar day of day.
// Stored timestamps are local wall-clock text, so the day is matched as a
// "YYYY-MM-DD%" pattern.
func Selection(variant models.ReportVariant, day time.Time) (models.Selection, error) {
	pattern := day.Format("2006-01-02") + "%"

	sel := models.Selection{
		AnyOf: []models.Predicate{
			{Kind: models.Like, Column: models.ColumnEndTime, Value: pattern},
			{Kind: models.Like, Column: models.ColumnStartTime, Value: pattern},
		},
		OrderBy: models.ColumnStartTime,
	}

	switch variant {
	case models.VariantAll:
	case models.VariantInterest:
		sel.AllOf = append(sel.AllOf, models.Predicate{Kind: models.Equals, Column: models.ColumnInterested, Value: 1})
	case models.VariantUnregistered:
		sel.AllOf = append(sel.AllOf, models.Predicate{Kind: models.IsNull, Column: models.ColumnRegistration})
	default:
		return models.Selection{}, fmt.Errorf("unknown report variant: %q", variant)
	}

	return sel, nil
}

// ReferenceDay returns midnight at the start of the day before now, in now's location
func ReferenceDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, now.Location())
}

// Title is the heading printed above a report
func Title(variant models.ReportVariant, day time.Time) string {
	return fmt.Sprintf("%s Flights seen on:  %s", variant, ReportDate(day))
}

// ReportDate formats day for titles and mail subjects, e.g.
// "Tuesday  April 30, 2024 EDT"
func ReportDate(day time.Time) string {
	zone, _ := day.Zone()
	return day.Format("Monday  January 02, 2006 ") + zone
}
