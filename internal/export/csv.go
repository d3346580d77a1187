package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mvallbona/stockledger/internal/domain"
)

// CSVFilename is the download name of the CSV report.
const CSVFilename = "reporte_inventario.csv"

// WriteCSV renders the report to w.
func WriteCSV(w io.Writer, items []*domain.ReportItem) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range items {
		if err := cw.Write(row(item)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
