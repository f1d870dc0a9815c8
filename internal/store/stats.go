package store

import (
	"context"
	"database/sql"

	"leadminer-engine/internal/domain"
)

// Stats is the dashboard summary payload.
type Stats struct {
	Total            int            `json:"total"`
	New              int            `json:"new"`
	Contacted        int            `json:"contacted"`
	Qualified        int            `json:"qualified"`
	ByStatus         map[string]int `json:"by_status"`
	BySignalType     map[string]int `json:"by_signal_type"`
	BySignalStrength map[string]int `json:"by_signal_strength"`
	Recent           []domain.Lead  `json:"recent"`
}

func countBy(ctx context.Context, db *sql.DB, column string) (map[string]int, error) {
	// column comes from a fixed call site, never from user input
	rows, err := db.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM leads GROUP BY `+column+`;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string]int)
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		m[k] = n
	}
	return m, rows.Err()
}

func GetStats(ctx context.Context, db *sql.DB) (Stats, error) {
	s := Stats{}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads;`).Scan(&s.Total); err != nil {
		return s, err
	}
	var err error
	if s.ByStatus, err = countBy(ctx, db, "status"); err != nil {
		return s, err
	}
	if s.BySignalType, err = countBy(ctx, db, "signal_type"); err != nil {
		return s, err
	}
	if s.BySignalStrength, err = countBy(ctx, db, "signal_strength"); err != nil {
		return s, err
	}
	s.New = s.ByStatus[domain.StatusNew]
	s.Contacted = s.ByStatus[domain.StatusContacted]
	s.Qualified = s.ByStatus[domain.StatusQualified]

	s.Recent, err = ListLeads(ctx, db, ListLeadsOpts{Sort: "created", Limit: 5})
	if err != nil {
		return s, err
	}
	return s, nil
}

// FilterValues lists the distinct values the admin UI can filter on.
// Statuses and strengths are the fixed enums; the rest reflect stored data.
type FilterValues struct {
	Statuses         []string `json:"statuses"`
	Strengths        []string `json:"strengths"`
	SignalTypes      []string `json:"signal_types"`
	DiscoverySources []string `json:"discovery_sources"`
	Locations        []string `json:"locations"`
	Industries       []string `json:"industries"`
}

func distinct(ctx context.Context, db *sql.DB, column string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT `+column+` FROM leads WHERE `+column+` != '' ORDER BY `+column+`;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func GetFilterValues(ctx context.Context, db *sql.DB) (FilterValues, error) {
	fv := FilterValues{Strengths: domain.Strengths}
	for _, st := range domain.StatusLabels {
		fv.Statuses = append(fv.Statuses, st.Value)
	}
	var err error
	if fv.SignalTypes, err = distinct(ctx, db, "signal_type"); err != nil {
		return fv, err
	}
	if fv.DiscoverySources, err = distinct(ctx, db, "discovery_source"); err != nil {
		return fv, err
	}
	if fv.Locations, err = distinct(ctx, db, "location"); err != nil {
		return fv, err
	}
	if fv.Industries, err = distinct(ctx, db, "industry"); err != nil {
		return fv, err
	}
	return fv, nil
}
