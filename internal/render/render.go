// Package render turns compiled report tables into document artifacts.
// Page geometry, fonts and colors live here; the report package stays free
// of presentation concerns.
package render

import (
	"fmt"
	"io"
	"strings"

	"flightreport/internal/models"
)

// Document is everything a renderer needs to produce one report
type Document struct {
	Title string
	Table *models.Table
}

// Renderer writes a document in one file format
type Renderer interface {
	// Extension is the file name suffix without the dot, e.g. "pdf"
	Extension() string
	Render(w io.Writer, doc Document) error
}

// New returns the renderer for a configured format name
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "pdf":
		return NewPDF(), nil
	case "xlsx":
		return NewXLSX(), nil
	default:
		return nil, fmt.Errorf("unknown report format: %q (must be pdf or xlsx)", format)
	}
}

type rgb struct {
	R, G, B int
}

func (c rgb) hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

var (
	colorBlack      = rgb{0x00, 0x00, 0x00}
	colorWhite      = rgb{0xFF, 0xFF, 0xFF}
	colorBlue       = rgb{0x00, 0x00, 0xFF}
	colorGray       = rgb{0x80, 0x80, 0x80}
	colorLightBlue  = rgb{0xAD, 0xD8, 0xE6}
	colorLightGreen = rgb{0x90, 0xEE, 0x90}
	colorRed        = rgb{0xFF, 0x00, 0x00}
	colorYellow     = rgb{0xFF, 0xFF, 0x00}
)

// appearance is the fill and text color of one table row
type appearance struct {
	Fill rgb
	Text rgb
}

var (
	headerAppearance = appearance{Fill: colorLightBlue, Text: colorBlack}
	bodyAppearance   = appearance{Fill: colorWhite, Text: colorBlack}
)

// apply layers a highlight category over a row's current appearance
func (a appearance) apply(category models.HighlightCategory) appearance {
	switch category {
	case models.Alternate:
		a.Fill = colorLightGreen
	case models.PointOfInterest:
		a.Fill = colorRed
		a.Text = colorWhite
	case models.Unregistered:
		a.Fill = colorYellow
		a.Text = colorBlack
	}
	return a
}

// rowAppearances folds the style directives in order into the final
// appearance of every body row, indexed by absolute table row
func rowAppearances(t *models.Table) map[int]appearance {
	rows := make(map[int]appearance, len(t.Body))
	for i := range t.Body {
		rows[models.HeaderRowCount+i] = bodyAppearance
	}
	for _, s := range t.Styles {
		for r := s.TopRow; r <= s.BottomRow; r++ {
			if current, ok := rows[r]; ok {
				rows[r] = current.apply(s.Category)
			}
		}
	}
	return rows
}

// columnCount is the width of the widest table row
func columnCount(t *models.Table) int {
	n := 0
	for _, row := range t.Header {
		n = max(n, len(row))
	}
	for _, row := range t.Body {
		n = max(n, len(row))
	}
	return n
}
