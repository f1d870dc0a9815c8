package store

import "database/sql"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS leads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  discovery_date TEXT NOT NULL,
  company_name TEXT NOT NULL,
  domain TEXT NOT NULL DEFAULT '',
  discovery_source TEXT NOT NULL,
  signal_type TEXT NOT NULL,
  signal_strength TEXT NOT NULL DEFAULT 'Medium',
  signal_date TEXT NOT NULL DEFAULT '',
  details TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  timeline TEXT NOT NULL DEFAULT 'Unknown',
  source_url TEXT NOT NULL,
  county TEXT NOT NULL DEFAULT '',
  all_signals TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'new',
  industry TEXT NOT NULL DEFAULT '',
  employee_count INTEGER NOT NULL DEFAULT 0,
  contact_name TEXT NOT NULL DEFAULT '',
  contact_email TEXT NOT NULL DEFAULT '',
  contact_phone TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// source_url uniquely identifies a lead; duplicate inserts are ignored,
	// not errored
	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_leads_source_url
ON leads(source_url);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_leads_discovery_date
ON leads(discovery_date);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_leads_status
ON leads(status);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
