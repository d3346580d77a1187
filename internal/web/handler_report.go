package web

import (
	"net/http"

	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/export"
)

func reportFilters(r *http.Request) domain.ReportFilters {
	q := r.URL.Query()
	return domain.ReportFilters{
		FamilyID:    q.Get("family_id"),
		SubfamilyID: q.Get("subfamily_id"),
		LocationID:  q.Get("location_id"),
		Usage:       domain.Usage(q.Get("usage")),
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	items, err := s.reports.Query(r.Context(), reportFilters(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

// handleReportExport streams the filtered report as a downloadable file.
// The format query parameter selects csv (default) or xlsx.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	items, err := s.reports.Query(r.Context(), reportFilters(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename+`"`)
		if err := export.WriteCSV(w, items); err != nil {
			s.logger.Error("failed to write csv export", "error", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.XLSXFilename+`"`)
		if err := export.WriteXLSX(w, items); err != nil {
			s.logger.Error("failed to write xlsx export", "error", err)
		}
	default:
		http.Error(w, "unsupported format", http.StatusBadRequest)
	}
}
