package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"flightreport/internal/models"
)

// Page geometry in inches, landscape Letter
const (
	pdfMargin      = 0.2
	pdfRowHeight   = 0.16
	pdfTitleHeight = 0.4
	pdfFont        = "Courier"
	pdfFontSize    = 7
	pdfTitleFont   = "Helvetica"
	pdfTitleSize   = 18
)

// pdfColumnWidths follows the eleven report columns
var pdfColumnWidths = []float64{0.75, 0.8, 1, 2.2, 1.45, 0.65, 0.65, 0.65, 0.65, 0.65, 0.65}

// PDF renders reports as a paginated table with the header rows repeated
// on every page
type PDF struct{}

func NewPDF() *PDF {
	return &PDF{}
}

func (p *PDF) Extension() string {
	return "pdf"
}

func (p *PDF) Render(w io.Writer, doc Document) error {
	pdf, err := p.layout(doc)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// layout draws the whole document without writing it
func (p *PDF) layout(doc Document) (*gofpdf.Fpdf, error) {
	if doc.Table == nil {
		return nil, fmt.Errorf("no table to render")
	}
	t := doc.Table

	widths := pdfColumnWidths
	if n := columnCount(t); n > len(widths) {
		return nil, fmt.Errorf("table has %d columns, PDF layout supports %d", n, len(widths))
	}
	tableWidth := 0.0
	for _, w := range widths {
		tableWidth += w
	}

	pdf := gofpdf.New("L", "in", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()

	var tableTop float64

	drawRow := func(row []string, look appearance, border string) {
		pdf.SetFillColor(look.Fill.R, look.Fill.G, look.Fill.B)
		pdf.SetTextColor(look.Text.R, look.Text.G, look.Text.B)
		pdf.SetX(pdfMargin)
		for i, w := range widths {
			text := ""
			if i < len(row) {
				text = tr(row[i])
			}
			pdf.CellFormat(w, pdfRowHeight, text, border, 0, "LM", true, 0, "")
		}
		pdf.Ln(pdfRowHeight)
	}

	drawHeader := func() {
		tableTop = pdf.GetY()
		pdf.SetFont(pdfFont, "", pdfFontSize)
		pdf.SetDrawColor(colorGray.R, colorGray.G, colorGray.B)
		pdf.SetLineWidth(0.15 / 72)
		for _, row := range t.Header {
			drawRow(row, headerAppearance, "1")
		}
	}

	closeTable := func() {
		pdf.SetDrawColor(colorBlack.R, colorBlack.G, colorBlack.B)
		pdf.SetLineWidth(2.0 / 72)
		pdf.Rect(pdfMargin, tableTop, tableWidth, pdf.GetY()-tableTop, "D")
	}

	pdf.AddPage()
	pdf.SetFont(pdfTitleFont, "B", pdfTitleSize)
	pdf.SetFillColor(colorBlue.R, colorBlue.G, colorBlue.B)
	pdf.SetTextColor(colorWhite.R, colorWhite.G, colorWhite.B)
	pdf.CellFormat(0, pdfTitleHeight, tr(doc.Title), "", 1, "C", true, 0, "")
	pdf.Ln(pdfRowHeight)
	drawHeader()

	looks := rowAppearances(t)
	for i, row := range t.Body {
		// Keep both lines of a flight on the same page
		if i%2 == 0 && pdf.GetY()+2*pdfRowHeight > pageHeight-pdfMargin {
			closeTable()
			pdf.AddPage()
			drawHeader()
		}
		drawRow(row, looks[models.HeaderRowCount+i], "")
	}
	closeTable()

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to lay out PDF: %w", err)
	}
	return pdf, nil
}
