package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// ExportCSV streams the filtered lead set as CSV, one row per lead.
func ExportCSV(ctx context.Context, db *sql.DB, w io.Writer, opts ListLeadsOpts) error {
	leads, err := ListLeads(ctx, db, opts)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{
		"id", "discovery_date", "company_name", "domain", "discovery_source",
		"signal_type", "signal_strength", "signal_date", "details", "location",
		"timeline", "source_url", "county", "all_signals", "notes", "status",
		"industry", "employee_count", "contact_name", "contact_email",
		"contact_phone", "created_at", "updated_at",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, l := range leads {
		row := []string{
			strconv.FormatInt(l.ID, 10), l.DiscoveryDate, l.CompanyName, l.Domain,
			l.DiscoverySource, l.SignalType, l.SignalStrength, l.SignalDate,
			l.Details, l.Location, l.Timeline, l.SourceURL, l.County,
			l.AllSignals, l.Notes, l.Status, l.Industry,
			strconv.Itoa(l.EmployeeCount), l.ContactName, l.ContactEmail,
			l.ContactPhone, l.CreatedAt.Format(time.RFC3339), l.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
