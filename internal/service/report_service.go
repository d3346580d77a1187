package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mvallbona/stockledger/internal/domain"
)

// reportRepository is the subset of store.ReportStore that ReportService
// requires.
type reportRepository interface {
	Query(ctx context.Context, filters domain.ReportFilters) ([]*domain.ReportItem, error)
}

// ReportService produces the filtered inventory report that feeds the
// report screen and the CSV/XLSX exports.
type ReportService struct {
	reports reportRepository
	logger  *slog.Logger
}

func NewReportService(reports reportRepository, logger *slog.Logger) *ReportService {
	return &ReportService{reports: reports, logger: logger}
}

// Query returns items matching the filters, joined with taxonomy names
// and their full ledgers. The location filter is applied here, after the
// join: an item is included when any of its ledger entries sits at the
// requested location. The matching item keeps its full ledger, not just
// the matching entry.
func (s *ReportService) Query(ctx context.Context, filters domain.ReportFilters) ([]*domain.ReportItem, error) {
	if filters.Usage != "" && filters.Usage != domain.UsageInternal && filters.Usage != domain.UsageExternal {
		return nil, &domain.ValidationError{Entity: "report", Field: "usage", Reason: "must be internal or external"}
	}

	items, err := s.reports.Query(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	if filters.LocationID == "" {
		return items, nil
	}

	filtered := make([]*domain.ReportItem, 0, len(items))
	for _, item := range items {
		for _, entry := range item.Locations {
			if entry.LocationID == filters.LocationID {
				filtered = append(filtered, item)
				break
			}
		}
	}
	s.logger.Debug("report location filter applied",
		"location_id", filters.LocationID,
		"before", len(items),
		"after", len(filtered),
	)
	return filtered, nil
}
