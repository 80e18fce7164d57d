package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/jobcost-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS builds (
	id         TEXT PRIMARY KEY,
	input_path TEXT NOT NULL,
	fy         TEXT NOT NULL DEFAULT '',
	fact_rows  INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS dataset_tables (
	name       TEXT PRIMARY KEY,
	build_id   TEXT NOT NULL REFERENCES builds(id),
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveDataset writes the build row and overwrites every dataset table in one
// transaction.
func (s *PostgresStore) SaveDataset(ctx context.Context, info model.BuildInfo, ds model.Dataset) error {
	names, payloads, err := encodeTables(ds)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin save")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO builds (id, input_path, fy, fact_rows, created_at) VALUES ($1, $2, $3, $4, $5)`,
		info.ID, info.InputPath, info.FY, info.FactRows, info.CreatedAt,
	); err != nil {
		return eris.Wrap(err, "postgres: insert build")
	}

	now := time.Now().UTC()
	for _, name := range names {
		if _, err := tx.Exec(ctx,
			`INSERT INTO dataset_tables (name, build_id, payload, updated_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name) DO UPDATE SET build_id = EXCLUDED.build_id,
			 payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
			name, info.ID, payloads[name], now,
		); err != nil {
			return eris.Wrapf(err, "postgres: save table %s", name)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit save")
}

// LoadDataset reads the most recently saved dataset.
func (s *PostgresStore) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, payload FROM dataset_tables`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load dataset")
	}
	defer rows.Close()

	var ds model.Dataset
	var found bool
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan table")
		}
		if err := decodeTable(&ds, name, payload); err != nil {
			return nil, err
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: load dataset iterate")
	}
	if !found {
		return nil, eris.New("store: no dataset saved, run a build first")
	}
	return &ds, nil
}

func (s *PostgresStore) LatestBuild(ctx context.Context) (*model.BuildInfo, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, input_path, fy, fact_rows, created_at FROM builds ORDER BY created_at DESC, id LIMIT 1`,
	)
	var b model.BuildInfo
	err := row.Scan(&b.ID, &b.InputPath, &b.FY, &b.FactRows, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("store: no builds recorded")
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest build")
	}
	return &b, nil
}

func (s *PostgresStore) ListBuilds(ctx context.Context, limit int) ([]model.BuildInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, input_path, fy, fact_rows, created_at FROM builds ORDER BY created_at DESC, id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list builds")
	}
	defer rows.Close()

	var builds []model.BuildInfo
	for rows.Next() {
		var b model.BuildInfo
		if err := rows.Scan(&b.ID, &b.InputPath, &b.FY, &b.FactRows, &b.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan build")
		}
		builds = append(builds, b)
	}
	return builds, eris.Wrap(rows.Err(), "postgres: list builds iterate")
}

// Open constructs a store from driver configuration.
func Open(ctx context.Context, driver, sqlitePath, databaseURL string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	case "sqlite", "":
		return NewSQLite(sqlitePath)
	}
	return nil, eris.Errorf("store: unknown driver %q", driver)
}
