package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/jobcost-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "sqlite: create data dir")
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS builds (
	id         TEXT PRIMARY KEY,
	input_path TEXT NOT NULL,
	fy         TEXT NOT NULL DEFAULT '',
	fact_rows  INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS dataset_tables (
	name       TEXT PRIMARY KEY,
	build_id   TEXT NOT NULL REFERENCES builds(id),
	payload    TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveDataset writes the build row and overwrites every dataset table in one
// transaction.
func (s *SQLiteStore) SaveDataset(ctx context.Context, info model.BuildInfo, ds model.Dataset) error {
	names, payloads, err := encodeTables(ds)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (id, input_path, fy, fact_rows, created_at) VALUES (?, ?, ?, ?, ?)`,
		info.ID, info.InputPath, info.FY, info.FactRows, info.CreatedAt,
	); err != nil {
		return eris.Wrap(err, "sqlite: insert build")
	}

	now := time.Now().UTC()
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dataset_tables (name, build_id, payload, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET build_id = excluded.build_id,
			 payload = excluded.payload, updated_at = excluded.updated_at`,
			name, info.ID, string(payloads[name]), now,
		); err != nil {
			return eris.Wrapf(err, "sqlite: save table %s", name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save")
}

// LoadDataset reads the most recently saved dataset.
func (s *SQLiteStore) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, payload FROM dataset_tables`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load dataset")
	}
	defer rows.Close()

	var ds model.Dataset
	var found bool
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan table")
		}
		if err := decodeTable(&ds, name, []byte(payload)); err != nil {
			return nil, err
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: load dataset iterate")
	}
	if !found {
		return nil, eris.New("store: no dataset saved, run a build first")
	}
	return &ds, nil
}

func (s *SQLiteStore) LatestBuild(ctx context.Context) (*model.BuildInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_path, fy, fact_rows, created_at FROM builds ORDER BY created_at DESC, id LIMIT 1`,
	)
	var b model.BuildInfo
	err := row.Scan(&b.ID, &b.InputPath, &b.FY, &b.FactRows, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("store: no builds recorded")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest build")
	}
	return &b, nil
}

func (s *SQLiteStore) ListBuilds(ctx context.Context, limit int) ([]model.BuildInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_path, fy, fact_rows, created_at FROM builds ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list builds")
	}
	defer rows.Close()

	var builds []model.BuildInfo
	for rows.Next() {
		var b model.BuildInfo
		if err := rows.Scan(&b.ID, &b.InputPath, &b.FY, &b.FactRows, &b.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan build")
		}
		builds = append(builds, b)
	}
	return builds, eris.Wrap(rows.Err(), "sqlite: list builds iterate")
}
