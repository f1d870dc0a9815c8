package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"leadminer-engine/internal/domain"
)

const leadColumns = `id, discovery_date, company_name, domain, discovery_source,
signal_type, signal_strength, signal_date, details, location, timeline,
source_url, county, all_signals, notes, status, industry, employee_count,
contact_name, contact_email, contact_phone, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (domain.Lead, error) {
	var l domain.Lead
	var createdAt, updatedAt string
	err := row.Scan(
		&l.ID, &l.DiscoveryDate, &l.CompanyName, &l.Domain, &l.DiscoverySource,
		&l.SignalType, &l.SignalStrength, &l.SignalDate, &l.Details, &l.Location, &l.Timeline,
		&l.SourceURL, &l.County, &l.AllSignals, &l.Notes, &l.Status, &l.Industry, &l.EmployeeCount,
		&l.ContactName, &l.ContactEmail, &l.ContactPhone, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return l, nil
}

// InsertLeadIfNew persists a lead unless its source_url was seen before.
// Duplicates are an expected, non-fatal condition: the bool result says
// whether a row was actually added.
func InsertLeadIfNew(ctx context.Context, db *sql.DB, l domain.Lead) (bool, error) {
	if strings.TrimSpace(l.SourceURL) == "" {
		return false, fmt.Errorf("missing source_url")
	}
	if l.CompanyName == "" {
		l.CompanyName = "Unknown"
	}
	if l.SignalStrength == "" {
		l.SignalStrength = domain.StrengthMedium
	}
	if l.Status == "" {
		l.Status = domain.StatusNew
	}
	if l.Timeline == "" {
		l.Timeline = "Unknown"
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if l.DiscoveryDate == "" {
		l.DiscoveryDate = time.Now().UTC().Format("2006-01-02")
	}

	_, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO leads(
  discovery_date, company_name, domain, discovery_source, signal_type,
  signal_strength, signal_date, details, location, timeline, source_url,
  county, all_signals, notes, status, industry, employee_count,
  contact_name, contact_email, contact_phone, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		l.DiscoveryDate, l.CompanyName, l.Domain, l.DiscoverySource, l.SignalType,
		l.SignalStrength, l.SignalDate, l.Details, l.Location, l.Timeline, l.SourceURL,
		l.County, l.AllSignals, l.Notes, l.Status, l.Industry, l.EmployeeCount,
		l.ContactName, l.ContactEmail, l.ContactPhone, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert lead: %w", err)
	}

	// INSERT OR IGNORE doesn't surface rows-affected reliably across
	// drivers; changes() does.
	var changes int
	if err := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return true, nil
	}
	return changes > 0, nil
}

type ListLeadsOpts struct {
	Status          string
	SignalType      string
	SignalStrength  string
	DiscoverySource string
	Location        string // partial match
	Industry        string // partial match
	Search          string // company/domain/details/location/industry
	Sort            string // discovery_date | company | strength | status | created
	Limit           int
}

func ListLeads(ctx context.Context, db *sql.DB, opts ListLeadsOpts) ([]domain.Lead, error) {
	var where []string
	var args []any

	add := func(cond string, val any) {
		where = append(where, cond)
		args = append(args, val)
	}
	if opts.Status != "" {
		add("status = ?", opts.Status)
	}
	if opts.SignalType != "" {
		add("signal_type = ?", opts.SignalType)
	}
	if opts.SignalStrength != "" {
		add("signal_strength = ?", opts.SignalStrength)
	}
	if opts.DiscoverySource != "" {
		add("discovery_source = ?", opts.DiscoverySource)
	}
	if opts.Location != "" {
		add("location LIKE ?", "%"+opts.Location+"%")
	}
	if opts.Industry != "" {
		add("industry LIKE ?", "%"+opts.Industry+"%")
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		where = append(where, "(company_name LIKE ? OR domain LIKE ? OR details LIKE ? OR location LIKE ? OR industry LIKE ?)")
		args = append(args, like, like, like, like, like)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	// whitelist sort columns (prevents SQL injection)
	orderSQL := map[string]string{
		"discovery_date": "discovery_date DESC, created_at DESC",
		"company":        "company_name ASC",
		"strength": `CASE signal_strength
WHEN 'Very High' THEN 0 WHEN 'High' THEN 1 WHEN 'Medium' THEN 2 ELSE 3 END ASC, discovery_date DESC`,
		"status":  "status ASC, discovery_date DESC",
		"created": "created_at DESC",
	}[opts.Sort]
	if orderSQL == "" {
		orderSQL = "discovery_date DESC, created_at DESC"
	}

	limit := opts.Limit
	if limit <= 0 || limit > 50000 {
		limit = 50000
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM leads %s ORDER BY %s LIMIT ?;`, leadColumns, whereSQL, orderSQL)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func GetLead(ctx context.Context, db *sql.DB, id int64) (domain.Lead, error) {
	row := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM leads WHERE id = ?;`, leadColumns), id)
	return scanLead(row)
}

func GetLeadBySourceURL(ctx context.Context, db *sql.DB, sourceURL string) (domain.Lead, error) {
	row := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM leads WHERE source_url = ?;`, leadColumns), sourceURL)
	return scanLead(row)
}

// UpdateLead replaces all mutable fields of an existing lead.
func UpdateLead(ctx context.Context, db *sql.DB, l domain.Lead) error {
	res, err := db.ExecContext(ctx, `
UPDATE leads SET
  discovery_date = ?, company_name = ?, domain = ?, discovery_source = ?,
  signal_type = ?, signal_strength = ?, signal_date = ?, details = ?,
  location = ?, timeline = ?, source_url = ?, county = ?, all_signals = ?,
  notes = ?, status = ?, industry = ?, employee_count = ?, contact_name = ?,
  contact_email = ?, contact_phone = ?, updated_at = ?
WHERE id = ?;`,
		l.DiscoveryDate, l.CompanyName, l.Domain, l.DiscoverySource,
		l.SignalType, l.SignalStrength, l.SignalDate, l.Details,
		l.Location, l.Timeline, l.SourceURL, l.County, l.AllSignals,
		l.Notes, l.Status, l.Industry, l.EmployeeCount, l.ContactName,
		l.ContactEmail, l.ContactPhone, time.Now().UTC().Format(time.RFC3339),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteLead(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?;`, id)
	return err
}

// UpdateStatus is the quick single-field transition used by the admin UI.
// The status must be one of the enumerated lifecycle values.
func UpdateStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	res, err := db.ExecContext(ctx,
		`UPDATE leads SET status = ?, updated_at = ? WHERE id = ?;`,
		status, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecentSourceURLs returns links persisted in the last N days so a run can
// skip items the previous runs already stored, before spending classifier
// calls on them.
func RecentSourceURLs(ctx context.Context, db *sql.DB, days int) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `
SELECT source_url FROM leads
WHERE discovery_date >= date('now', ?);`, fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls[u] = true
	}
	return urls, rows.Err()
}

func CleanupOldLeads(db *sql.DB, retentionMonths int) (deleted int64, err error) {
	if retentionMonths <= 0 {
		retentionMonths = 3
	}
	res, err := db.Exec(`
DELETE FROM leads
WHERE status = 'archived'
  AND discovery_date < date('now', ?);`, fmt.Sprintf("-%d months", retentionMonths))
	if err != nil {
		return 0, fmt.Errorf("cleanup old leads: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
