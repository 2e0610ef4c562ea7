package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sectorscope/internal"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Section / kind tags for child rows sharing one table.
const (
	sectionDirectory = "directory"
	sectionMarketMap = "market_map"
	sectionPrimary   = "primary"
	sectionRelated   = "related"
	kindAcquirer     = "acquirer"
	kindInvestor     = "investor"
	kindCounterparty = "counterparty"
	kindAdvisor      = "advisor"
)

// Stable bucket order for persisting market-map rows.
var bucketOrder = []internal.CompanyType{
	internal.CompanyPublic,
	internal.CompanyPEOwned,
	internal.CompanyVCBacked,
	internal.CompanyPrivate,
}

type DB struct {
	conn   *sql.DB
	driver string
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// bind rewrites ? placeholders to the $n form lib/pq expects; sqlite
// queries pass through untouched.
func (d *DB) bind(query string) string {
	if d.driver != driverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// insertID runs an insert and reports the new row id, papering over the
// LastInsertId/RETURNING split between the two drivers.
func (d *DB) insertID(tx *sql.Tx, query string, args ...any) (int64, error) {
	if d.driver == driverPostgres {
		var id int64
		err := tx.QueryRow(d.bind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := tx.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *DB) SaveSectorSnapshot(snap *internal.SectorSnapshot) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	marketMapCount := 0
	for _, bucket := range snap.MarketMap {
		marketMapCount += len(bucket)
	}
	countsJSON, _ := json.Marshal(map[string]int{
		"transactions": len(snap.Transactions),
		"acquirers":    len(snap.Acquirers),
		"investors":    len(snap.Investors),
		"companies":    len(snap.Companies),
		"marketMap":    marketMapCount,
		"insights":     len(snap.Insights),
	})

	id, err := d.insertID(tx,
		`INSERT INTO snapshots (scope, scopeId, fetchedAt, countsJson) VALUES (?, ?, ?, ?)`,
		"sector", snap.SectorID, snap.FetchedAt, string(countsJSON))
	if err != nil {
		return 0, err
	}

	if err := d.insertCompanies(tx, id, sectionDirectory, snap.Companies); err != nil {
		return 0, err
	}
	for _, bucket := range bucketOrder {
		if err := d.insertCompanies(tx, id, sectionMarketMap, snap.MarketMap[bucket]); err != nil {
			return 0, err
		}
	}
	if err := d.insertTransactions(tx, id, snap.Transactions); err != nil {
		return 0, err
	}
	if err := d.insertRanked(tx, id, kindAcquirer, snap.Acquirers); err != nil {
		return 0, err
	}
	if err := d.insertRanked(tx, id, kindInvestor, snap.Investors); err != nil {
		return 0, err
	}
	if err := d.insertInsights(tx, id, sectionPrimary, snap.Insights); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	snap.ID = id
	return id, nil
}

func (d *DB) SaveEventSnapshot(snap *internal.EventSnapshot) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	countsJSON, _ := json.Marshal(map[string]int{
		"counterparties":  len(snap.Counterparties),
		"advisors":        len(snap.Advisors),
		"insights":        len(snap.Insights),
		"relatedInsights": len(snap.RelatedInsights),
	})

	id, err := d.insertID(tx,
		`INSERT INTO snapshots (scope, scopeId, fetchedAt, countsJson) VALUES (?, ?, ?, ?)`,
		"event", snap.EventID, snap.FetchedAt, string(countsJSON))
	if err != nil {
		return 0, err
	}

	if err := d.insertParties(tx, id, kindCounterparty, snap.Counterparties); err != nil {
		return 0, err
	}
	if err := d.insertParties(tx, id, kindAdvisor, snap.Advisors); err != nil {
		return 0, err
	}
	if err := d.insertInsights(tx, id, sectionPrimary, snap.Insights); err != nil {
		return 0, err
	}
	if err := d.insertInsights(tx, id, sectionRelated, snap.RelatedInsights); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	snap.ID = id
	return id, nil
}

func (d *DB) insertCompanies(tx *sql.Tx, snapshotID int64, section string, companies []internal.Company) error {
	if len(companies) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(d.bind(`
INSERT INTO companies (
  snapshotId, section, companyId, name, companyType, ownership,
  primarySectorsJson, secondarySectorsJson, investorsJson,
  linkedinMembers, country, isInvestor, logoSrc, description
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range companies {
		primaryJSON, _ := json.Marshal(c.PrimarySectors)
		secondaryJSON, _ := json.Marshal(c.SecondarySectors)
		investorsJSON, _ := json.Marshal(c.Investors)
		isInvestor := 0
		if c.IsInvestor {
			isInvestor = 1
		}
		if _, err := stmt.Exec(
			snapshotID, section, c.ID, c.Name, string(c.Type), c.OwnershipText,
			string(primaryJSON), string(secondaryJSON), string(investorsJSON),
			c.LinkedinMembers, c.Country, isInvestor, c.LogoSrc, c.Description,
		); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) insertTransactions(tx *sql.Tx, snapshotID int64, txs []internal.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(d.bind(`
INSERT INTO transactions (
  snapshotId, dealDate, buyer, seller, target, dealValue, dealType,
  targetLogoSrc, eventId, targetCompanyId
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.Exec(
			snapshotID, t.Date, t.Buyer, t.Seller, t.Target, t.Value, t.Type,
			t.TargetLogoSrc, t.EventID, t.TargetCompanyID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) insertRanked(tx *sql.Tx, snapshotID int64, kind string, entities []internal.RankedEntity) error {
	if len(entities) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(d.bind(`
INSERT INTO ranked_entities (
  snapshotId, kind, name, dealCount, companyId, mostRecentTarget, closedDate, logoSrc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entities {
		if _, err := stmt.Exec(
			snapshotID, kind, e.Name, e.DealCount, e.CompanyID, e.MostRecentTarget, e.ClosedDate, e.LogoSrc,
		); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) insertParties(tx *sql.Tx, snapshotID int64, kind string, parties []internal.EventParty) error {
	if len(parties) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(d.bind(`
INSERT INTO parties (
  snapshotId, kind, partyId, name, role, linkHref, logoSrc, individualsJson
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range parties {
		individualsJSON, _ := json.Marshal(p.Individuals)
		if _, err := stmt.Exec(
			snapshotID, kind, p.ID, p.Name, p.Role, p.LinkHref, p.LogoSrc, string(individualsJSON),
		); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) insertInsights(tx *sql.Tx, snapshotID int64, section string, insights []internal.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(d.bind(`
INSERT INTO insights (snapshotId, section, articleId, title, date, source)
VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, i := range insights {
		if _, err := stmt.Exec(snapshotID, section, i.ArticleID, i.Title, i.Date, i.Source); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) GetSectorSnapshot(id int64) (*internal.SectorSnapshot, error) {
	snap := &internal.SectorSnapshot{ID: id}
	err := d.conn.QueryRow(d.bind(
		`SELECT scopeId, fetchedAt FROM snapshots WHERE id = ? AND scope = 'sector'`), id,
	).Scan(&snap.SectorID, &snap.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sector snapshot not found: id=%d", id)
	}
	if err != nil {
		return nil, err
	}

	directory, marketMapRows, err := d.loadCompanies(id)
	if err != nil {
		return nil, err
	}
	snap.Companies = directory
	if len(marketMapRows) > 0 {
		snap.MarketMap = make(map[internal.CompanyType][]internal.Company, 4)
		for _, c := range marketMapRows {
			snap.MarketMap[c.Type] = append(snap.MarketMap[c.Type], c)
		}
	}

	if snap.Transactions, err = d.loadTransactions(id); err != nil {
		return nil, err
	}
	if snap.Acquirers, err = d.loadRanked(id, kindAcquirer); err != nil {
		return nil, err
	}
	if snap.Investors, err = d.loadRanked(id, kindInvestor); err != nil {
		return nil, err
	}
	if snap.Insights, err = d.loadInsights(id, sectionPrimary); err != nil {
		return nil, err
	}
	return snap, nil
}

func (d *DB) loadCompanies(snapshotID int64) (directory, marketMap []internal.Company, err error) {
	rows, err := d.conn.Query(d.bind(`
SELECT section, companyId, name, companyType, ownership,
       primarySectorsJson, secondarySectorsJson, investorsJson,
       linkedinMembers, country, isInvestor, logoSrc, description
FROM companies WHERE snapshotId = ? ORDER BY id ASC`), snapshotID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c internal.Company
		var section, companyType, primaryJSON, secondaryJSON, investorsJSON string
		var isInvestor int
		if err := rows.Scan(
			&section, &c.ID, &c.Name, &companyType, &c.OwnershipText,
			&primaryJSON, &secondaryJSON, &investorsJSON,
			&c.LinkedinMembers, &c.Country, &isInvestor, &c.LogoSrc, &c.Description,
		); err != nil {
			return nil, nil, err
		}
		c.Type = internal.CompanyType(companyType)
		c.IsInvestor = isInvestor != 0
		_ = json.Unmarshal([]byte(primaryJSON), &c.PrimarySectors)
		_ = json.Unmarshal([]byte(secondaryJSON), &c.SecondarySectors)
		_ = json.Unmarshal([]byte(investorsJSON), &c.Investors)

		if section == sectionMarketMap {
			marketMap = append(marketMap, c)
		} else {
			directory = append(directory, c)
		}
	}
	return directory, marketMap, rows.Err()
}

func (d *DB) GetEventSnapshot(id int64) (*internal.EventSnapshot, error) {
	snap := &internal.EventSnapshot{ID: id}
	err := d.conn.QueryRow(d.bind(
		`SELECT scopeId, fetchedAt FROM snapshots WHERE id = ? AND scope = 'event'`), id,
	).Scan(&snap.EventID, &snap.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event snapshot not found: id=%d", id)
	}
	if err != nil {
		return nil, err
	}

	if snap.Counterparties, err = d.loadParties(id, kindCounterparty); err != nil {
		return nil, err
	}
	if snap.Advisors, err = d.loadParties(id, kindAdvisor); err != nil {
		return nil, err
	}
	if snap.Insights, err = d.loadInsights(id, sectionPrimary); err != nil {
		return nil, err
	}
	if snap.RelatedInsights, err = d.loadInsights(id, sectionRelated); err != nil {
		return nil, err
	}
	return snap, nil
}

func (d *DB) loadParties(snapshotID int64, kind string) ([]internal.EventParty, error) {
	rows, err := d.conn.Query(d.bind(`
SELECT partyId, name, role, linkHref, logoSrc, individualsJson
FROM parties WHERE snapshotId = ? AND kind = ? ORDER BY id ASC`), snapshotID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EventParty
	for rows.Next() {
		var p internal.EventParty
		var individualsJSON string
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.LinkHref, &p.LogoSrc, &individualsJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(individualsJSON), &p.Individuals)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) loadTransactions(snapshotID int64) ([]internal.Transaction, error) {
	rows, err := d.conn.Query(d.bind(`
SELECT dealDate, buyer, seller, target, dealValue, dealType, targetLogoSrc, eventId, targetCompanyId
FROM transactions WHERE snapshotId = ? ORDER BY id ASC`), snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Transaction
	for rows.Next() {
		var t internal.Transaction
		if err := rows.Scan(&t.Date, &t.Buyer, &t.Seller, &t.Target, &t.Value, &t.Type, &t.TargetLogoSrc, &t.EventID, &t.TargetCompanyID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *DB) loadRanked(snapshotID int64, kind string) ([]internal.RankedEntity, error) {
	rows, err := d.conn.Query(d.bind(`
SELECT name, dealCount, companyId, mostRecentTarget, closedDate, logoSrc
FROM ranked_entities WHERE snapshotId = ? AND kind = ? ORDER BY id ASC`), snapshotID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RankedEntity
	for rows.Next() {
		var e internal.RankedEntity
		if err := rows.Scan(&e.Name, &e.DealCount, &e.CompanyID, &e.MostRecentTarget, &e.ClosedDate, &e.LogoSrc); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) loadInsights(snapshotID int64, section string) ([]internal.Insight, error) {
	rows, err := d.conn.Query(d.bind(`
SELECT articleId, title, date, source
FROM insights WHERE snapshotId = ? AND section = ? ORDER BY id ASC`), snapshotID, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Insight
	for rows.Next() {
		var i internal.Insight
		if err := rows.Scan(&i.ArticleID, &i.Title, &i.Date, &i.Source); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(d.bind(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`), key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(d.bind(`SELECT value FROM metadata WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
