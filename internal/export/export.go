// Package export renders the inventory report as CSV or XLSX. Both
// formats share the same fixed column set; the per-location quantities
// collapse into one free-text column.
package export

import (
	"strconv"
	"strings"

	"github.com/mvallbona/stockledger/internal/domain"
)

// headers is the fixed column order of both export formats.
var headers = []string{
	"Nom",
	"Model",
	"Família",
	"Subfamília",
	"Ús",
	"Observacions",
	"Quantitat per Localització",
}

// row flattens one report item into the export column order.
func row(item *domain.ReportItem) []string {
	pairs := make([]string, 0, len(item.Locations))
	for _, entry := range item.Locations {
		pairs = append(pairs, entry.LocationName+": "+strconv.Itoa(entry.Quantity))
	}
	return []string{
		item.Name,
		item.Model,
		item.FamilyName,
		item.SubfamilyName,
		item.Usage.Label(),
		item.Observations,
		strings.Join(pairs, "; "),
	}
}
