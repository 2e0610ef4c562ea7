package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  scope TEXT NOT NULL,
  scopeId INTEGER NOT NULL,
  fetchedAt TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_snapshots_scope ON snapshots(scope, scopeId);

CREATE TABLE IF NOT EXISTS companies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  snapshotId INTEGER NOT NULL,
  section TEXT NOT NULL,
  companyId INTEGER NOT NULL,
  name TEXT NOT NULL,
  companyType TEXT NOT NULL,
  ownership TEXT NOT NULL DEFAULT '',
  primarySectorsJson TEXT NOT NULL,
  secondarySectorsJson TEXT NOT NULL,
  investorsJson TEXT NOT NULL,
  linkedinMembers INTEGER NOT NULL DEFAULT 0,
  country TEXT NOT NULL DEFAULT '',
  isInvestor INTEGER NOT NULL DEFAULT 0,
  logoSrc TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  FOREIGN KEY(snapshotId) REFERENCES snapshots(id)
);
CREATE INDEX IF NOT EXISTS idx_companies_snapshot ON companies(snapshotId);

CREATE TABLE IF NOT EXISTS transactions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  snapshotId INTEGER NOT NULL,
  dealDate TEXT NOT NULL DEFAULT '',
  buyer TEXT NOT NULL DEFAULT '',
  seller TEXT NOT NULL DEFAULT '',
  target TEXT NOT NULL DEFAULT '',
  dealValue TEXT NOT NULL DEFAULT '',
  dealType TEXT NOT NULL DEFAULT '',
  targetLogoSrc TEXT NOT NULL DEFAULT '',
  eventId INTEGER NOT NULL DEFAULT 0,
  targetCompanyId INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY(snapshotId) REFERENCES snapshots(id)
);
CREATE INDEX IF NOT EXISTS idx_transactions_snapshot ON transactions(snapshotId);

CREATE TABLE IF NOT EXISTS ranked_entities (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  snapshotId INTEGER NOT NULL,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  dealCount INTEGER NOT NULL DEFAULT 0,
  companyId INTEGER NOT NULL DEFAULT 0,
  mostRecentTarget TEXT NOT NULL DEFAULT '',
  closedDate TEXT NOT NULL DEFAULT '',
  logoSrc TEXT NOT NULL DEFAULT '',
  FOREIGN KEY(snapshotId) REFERENCES snapshots(id)
);
CREATE INDEX IF NOT EXISTS idx_ranked_snapshot ON ranked_entities(snapshotId);

CREATE TABLE IF NOT EXISTS parties (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  snapshotId INTEGER NOT NULL,
  kind TEXT NOT NULL,
  partyId INTEGER NOT NULL DEFAULT 0,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT '',
  linkHref TEXT NOT NULL DEFAULT '',
  logoSrc TEXT NOT NULL DEFAULT '',
  individualsJson TEXT NOT NULL,
  FOREIGN KEY(snapshotId) REFERENCES snapshots(id)
);
CREATE INDEX IF NOT EXISTS idx_parties_snapshot ON parties(snapshotId);

CREATE TABLE IF NOT EXISTS insights (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  snapshotId INTEGER NOT NULL,
  section TEXT NOT NULL,
  articleId INTEGER NOT NULL DEFAULT 0,
  title TEXT NOT NULL DEFAULT '',
  date TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  FOREIGN KEY(snapshotId) REFERENCES snapshots(id)
);
CREATE INDEX IF NOT EXISTS idx_insights_snapshot ON insights(snapshotId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// OpenSQLite opens (creating directories and schema as needed) the
// embedded default backend.
func OpenSQLite(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn, driver: driverSQLite}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}
