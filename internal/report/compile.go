package report

import (
	"context"
	"fmt"

	"flightreport/internal/models"
)

var (
	headerTop = []string{
		"Start Time", "Mode S", "Call Sign", "Country", "Manufacturer",
		"First Sqwk", "First Alt", "First GS", "First VR", "First Track", "#MsgRcvd",
	}
	headerBottom = []string{
		"End Time", "Registration", "Route", "Owner", "Type",
		"Last Sqwk", "Last Alt", "Last GS", "Last VR", "Last Track",
	}
)

// Compiler builds report tables from observations
type Compiler struct {
	normalizer *Normalizer
}

func NewCompiler(routes RouteResolver) *Compiler {
	return &Compiler{normalizer: NewNormalizer(routes)}
}

// Compile produces the two header rows, two body rows per observation in
// input order and the style directives for each row pair. An empty input
// yields a header-only table.
func (c *Compiler) Compile(ctx context.Context, observations []*models.RawObservation, variant models.ReportVariant) (*models.Table, error) {
	table := &models.Table{
		Header: [][]string{cloneRow(headerTop), cloneRow(headerBottom)},
		Body:   make([][]string, 0, 2*len(observations)),
	}

	for i, obs := range observations {
		position := i + 1

		fields, err := c.normalizer.Normalize(ctx, obs)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize observation %d: %w", position, err)
		}

		table.Body = append(table.Body, fields.TopRow(), fields.BottomRow())

		top := models.HeaderRowCount + 2*i
		for _, category := range Classify(position, variant, fields.Flagged, fields.Unregistered) {
			table.Styles = append(table.Styles, models.StyleDirective{
				TopRow:    top,
				BottomRow: top + 1,
				Category:  category,
			})
		}
	}

	return table, nil
}

func cloneRow(row []string) []string {
	return append([]string(nil), row...)
}
