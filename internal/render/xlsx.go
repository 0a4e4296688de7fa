package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"flightreport/internal/models"
)

// xlsxFirstTableRow is the sheet row of the first header row; the title
// takes row 1
const xlsxFirstTableRow = 2

// XLSX renders reports as a single-sheet workbook
type XLSX struct{}

func NewXLSX() *XLSX {
	return &XLSX{}
}

func (x *XLSX) Extension() string {
	return "xlsx"
}

func (x *XLSX) Render(w io.Writer, doc Document) error {
	if doc.Table == nil {
		return fmt.Errorf("no table to render")
	}
	t := doc.Table

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	columns := columnCount(t)
	lastColumn, err := excelize.ColumnNumberToName(max(columns, 1))
	if err != nil {
		return fmt.Errorf("failed to name column %d: %w", columns, err)
	}

	styles := map[appearance]int{}
	styleFor := func(look appearance, bold bool) (int, error) {
		if id, ok := styles[look]; ok && !bold {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{look.Fill.hex()}, Pattern: 1},
			Font: &excelize.Font{Family: "Courier New", Size: 8, Color: look.Text.hex(), Bold: bold},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to create cell style: %w", err)
		}
		if !bold {
			styles[look] = id
		}
		return id, nil
	}

	writeRow := func(sheetRow int, row []string, styleID int) error {
		first, err := excelize.CoordinatesToCellName(1, sheetRow)
		if err != nil {
			return err
		}
		last := fmt.Sprintf("%s%d", lastColumn, sheetRow)

		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, first, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", sheetRow, err)
		}
		if err := f.SetCellStyle(sheet, first, last, styleID); err != nil {
			return fmt.Errorf("failed to style row %d: %w", sheetRow, err)
		}
		return nil
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorBlue.hex()}, Pattern: 1},
		Font:      &excelize.Font{Size: 18, Bold: true, Color: colorWhite.hex()},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	if err := f.SetCellValue(sheet, "A1", doc.Title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := f.MergeCell(sheet, "A1", lastColumn+"1"); err != nil {
		return fmt.Errorf("failed to merge title cells: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastColumn+"1", titleStyle); err != nil {
		return fmt.Errorf("failed to style title: %w", err)
	}

	headerStyle, err := styleFor(headerAppearance, true)
	if err != nil {
		return err
	}
	for i, row := range t.Header {
		if err := writeRow(xlsxFirstTableRow+i, row, headerStyle); err != nil {
			return err
		}
	}

	looks := rowAppearances(t)
	for i, row := range t.Body {
		tableRow := models.HeaderRowCount + i
		styleID, err := styleFor(looks[tableRow], false)
		if err != nil {
			return err
		}
		if err := writeRow(xlsxFirstTableRow+tableRow, row, styleID); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", lastColumn, 16); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
