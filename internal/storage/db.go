package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/erenkarakoc/ekap-editor/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
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

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  inputRef TEXT NOT NULL,
  recordCount INTEGER NOT NULL DEFAULT 0,
  pricedCount INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  seq INTEGER NOT NULL,
  itemCode TEXT NOT NULL,
  description TEXT NOT NULL,
  unit TEXT,
  location TEXT,
  price1 TEXT,
  price2 TEXT,
  price3 TEXT,
  category TEXT,
  UNIQUE(runId, seq),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_records_runId ON records(runId);
CREATE INDEX IF NOT EXISTS idx_records_itemCode ON records(itemCode);

CREATE TABLE IF NOT EXISTS vision_pages (
  jobId TEXT NOT NULL,
  page INTEGER NOT NULL,
  status TEXT NOT NULL,
  resultJson TEXT,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(jobId, page)
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) CreateRun(id string, source internal.Source, inputRef string) error {
	_, err := d.conn.Exec(`
INSERT INTO runs (id, source, inputRef) VALUES (?, ?, ?)
`, id, string(source), inputRef)
	return err
}

// InsertRecords stores a run's records in one transaction and updates the
// run's counters. seq preserves document order for export.
func (d *DB) InsertRecords(runID string, records []internal.Record) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO records (runId, seq, itemCode, description, unit, location, price1, price2, price3, category)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(runId, seq) DO UPDATE SET
  itemCode=excluded.itemCode,
  description=excluded.description,
  unit=excluded.unit,
  location=excluded.location,
  price1=excluded.price1,
  price2=excluded.price2,
  price3=excluded.price3,
  category=excluded.category
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	priced := 0
	for i, r := range records {
		p1 := encodePrice(r.UnitPrice())
		var p2, p3 *string
		if p := r.InstallPrice(); p != nil {
			p2 = encodePrice(*p)
		}
		if p := r.RemovalPrice(); p != nil {
			p3 = encodePrice(*p)
		}
		if p1 != nil {
			priced++
		}
		if _, err := stmt.Exec(
			runID, i, r.ItemCode, r.Description, r.Unit, r.Location, p1, p2, p3, r.Category,
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
UPDATE runs SET recordCount = ?, pricedCount = ? WHERE id = ?
`, len(records), priced, runID); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *DB) GetRun(id string) (*internal.RunRow, error) {
	var row internal.RunRow
	err := d.conn.QueryRow(`
SELECT id, source, inputRef, recordCount, pricedCount, createdAt
FROM runs WHERE id = ?
`, id).Scan(&row.ID, &row.Source, &row.InputRef, &row.Records, &row.Priced, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// LatestRun returns the most recent run for a source, or nil.
func (d *DB) LatestRun(source internal.Source) (*internal.RunRow, error) {
	var row internal.RunRow
	err := d.conn.QueryRow(`
SELECT id, source, inputRef, recordCount, pricedCount, createdAt
FROM runs WHERE source = ? ORDER BY createdAt DESC, rowid DESC LIMIT 1
`, string(source)).Scan(&row.ID, &row.Source, &row.InputRef, &row.Records, &row.Priced, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListRecords(runID string) ([]internal.Record, error) {
	rows, err := d.conn.Query(`
SELECT itemCode, description, unit, location, price1, price2, price3, category
FROM records WHERE runId = ? ORDER BY seq ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Record
	for rows.Next() {
		var (
			r          internal.Record
			p1, p2, p3 *string
		)
		if err := rows.Scan(&r.ItemCode, &r.Description, &r.Unit, &r.Location, &p1, &p2, &p3, &r.Category); err != nil {
			return nil, err
		}
		for _, p := range []*string{p1, p2, p3} {
			if p == nil {
				break
			}
			r.Prices = append(r.Prices, decodePrice(*p))
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

func (d *DB) UpsertVisionPage(jobID string, page int, status, resultJSON string) error {
	_, err := d.conn.Exec(`
INSERT INTO vision_pages (jobId, page, status, resultJson)
VALUES (?, ?, ?, ?)
ON CONFLICT(jobId, page) DO UPDATE SET
  status=excluded.status,
  resultJson=excluded.resultJson,
  updatedAt=CURRENT_TIMESTAMP
`, jobID, page, status, resultJSON)
	return err
}

// VisionPageStatus returns the checkpoint status for one page, or "" when
// the page has not been attempted yet.
func (d *DB) VisionPageStatus(jobID string, page int) (string, error) {
	var status string
	err := d.conn.QueryRow(`
SELECT status FROM vision_pages WHERE jobId = ? AND page = ?
`, jobID, page).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// ListVisionResults returns the stored page payloads of a job in page order.
func (d *DB) ListVisionResults(jobID string) (map[int]string, error) {
	rows, err := d.conn.Query(`
SELECT page, resultJson FROM vision_pages
WHERE jobId = ? AND resultJson IS NOT NULL ORDER BY page ASC
`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var (
			page    int
			payload string
		)
		if err := rows.Scan(&page, &payload); err != nil {
			return nil, err
		}
		out[page] = payload
	}
	return out, rows.Err()
}

// Prices are stored as text: numeric amounts in decimal form, sentinels
// verbatim. The two never collide because sentinels are not parseable
// numbers.
func encodePrice(p internal.Price) *string {
	if p.Sentinel != "" {
		s := p.Sentinel
		return &s
	}
	if p.Amount != nil {
		s := p.Amount.String()
		return &s
	}
	return nil
}

func decodePrice(s string) internal.Price {
	if d, err := decimal.NewFromString(s); err == nil {
		return internal.Price{Amount: &d}
	}
	return internal.Price{Sentinel: s}
}
