package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mvallbona/stockledger/internal/domain"
)

// XLSXFilename is the download name of the spreadsheet report.
const XLSXFilename = "reporte_inventario.xlsx"

const sheetName = "Inventario"

// WriteXLSX renders the report as a spreadsheet to w.
func WriteXLSX(w io.Writer, items []*domain.ReportItem) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, item := range items {
		cells := row(item)
		excelRow := make([]interface{}, len(cells))
		for j, c := range cells {
			excelRow[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &excelRow); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	// Column widths: at least the header length, minimum 15.
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to compute column name: %w", err)
		}
		width := float64(len(h))
		if width < 15 {
			width = 15
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
