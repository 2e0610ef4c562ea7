package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
  id BIGSERIAL PRIMARY KEY,
  scope TEXT NOT NULL,
  scopeId BIGINT NOT NULL,
  fetchedAt TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_snapshots_scope ON snapshots(scope, scopeId);

CREATE TABLE IF NOT EXISTS companies (
  id BIGSERIAL PRIMARY KEY,
  snapshotId BIGINT NOT NULL REFERENCES snapshots(id),
  section TEXT NOT NULL,
  companyId BIGINT NOT NULL,
  name TEXT NOT NULL,
  companyType TEXT NOT NULL,
  ownership TEXT NOT NULL DEFAULT '',
  primarySectorsJson TEXT NOT NULL,
  secondarySectorsJson TEXT NOT NULL,
  investorsJson TEXT NOT NULL,
  linkedinMembers BIGINT NOT NULL DEFAULT 0,
  country TEXT NOT NULL DEFAULT '',
  isInvestor BIGINT NOT NULL DEFAULT 0,
  logoSrc TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_companies_snapshot ON companies(snapshotId);

CREATE TABLE IF NOT EXISTS transactions (
  id BIGSERIAL PRIMARY KEY,
  snapshotId BIGINT NOT NULL REFERENCES snapshots(id),
  dealDate TEXT NOT NULL DEFAULT '',
  buyer TEXT NOT NULL DEFAULT '',
  seller TEXT NOT NULL DEFAULT '',
  target TEXT NOT NULL DEFAULT '',
  dealValue TEXT NOT NULL DEFAULT '',
  dealType TEXT NOT NULL DEFAULT '',
  targetLogoSrc TEXT NOT NULL DEFAULT '',
  eventId BIGINT NOT NULL DEFAULT 0,
  targetCompanyId BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_transactions_snapshot ON transactions(snapshotId);

CREATE TABLE IF NOT EXISTS ranked_entities (
  id BIGSERIAL PRIMARY KEY,
  snapshotId BIGINT NOT NULL REFERENCES snapshots(id),
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  dealCount BIGINT NOT NULL DEFAULT 0,
  companyId BIGINT NOT NULL DEFAULT 0,
  mostRecentTarget TEXT NOT NULL DEFAULT '',
  closedDate TEXT NOT NULL DEFAULT '',
  logoSrc TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_ranked_snapshot ON ranked_entities(snapshotId);

CREATE TABLE IF NOT EXISTS parties (
  id BIGSERIAL PRIMARY KEY,
  snapshotId BIGINT NOT NULL REFERENCES snapshots(id),
  kind TEXT NOT NULL,
  partyId BIGINT NOT NULL DEFAULT 0,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT '',
  linkHref TEXT NOT NULL DEFAULT '',
  logoSrc TEXT NOT NULL DEFAULT '',
  individualsJson TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_parties_snapshot ON parties(snapshotId);

CREATE TABLE IF NOT EXISTS insights (
  id BIGSERIAL PRIMARY KEY,
  snapshotId BIGINT NOT NULL REFERENCES snapshots(id),
  section TEXT NOT NULL,
  articleId BIGINT NOT NULL DEFAULT 0,
  title TEXT NOT NULL DEFAULT '',
  date TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_insights_snapshot ON insights(snapshotId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// OpenPostgres connects with ping retries (the DB container may still be
// starting) and runs migrations.
func OpenPostgres(dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = conn.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	db := &DB{conn: conn, driver: driverPostgres}
	if _, err := conn.Exec(postgresSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return db, nil
}
