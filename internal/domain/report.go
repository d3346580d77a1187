package domain

// ReportFilters narrows the inventory report. Empty fields mean "no
// filter". LocationID is applied after the join: an item matches when any
// of its ledger entries sits at that location.
type ReportFilters struct {
	FamilyID    string
	SubfamilyID string
	LocationID  string
	Usage       Usage
}

// ReportEntry is one ledger entry of a report row, resolved to the
// location's name.
type ReportEntry struct {
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Quantity     int    `json:"quantity"`
}

// ReportItem is an item joined with its taxonomy names and full ledger.
type ReportItem struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Model         string        `json:"model"`
	FamilyID      string        `json:"family_id"`
	FamilyName    string        `json:"family_name"`
	SubfamilyID   string        `json:"subfamily_id"`
	SubfamilyName string        `json:"subfamily_name"`
	Usage         Usage         `json:"usage"`
	Observations  string        `json:"observations"`
	Locations     []ReportEntry `json:"locations"`
}
