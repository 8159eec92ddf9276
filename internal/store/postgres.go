package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/db"
	"github.com/sells-group/cohort-cli/internal/frame"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
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
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS cohort_runs (
	id         TEXT PRIMARY KEY,
	report     JSONB NOT NULL,
	row_count  INTEGER NOT NULL,
	col_count  INTEGER NOT NULL,
	key_unique BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_cohort_runs_created_at ON cohort_runs(created_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveTable drops and recreates the named table from the frame's schema, then
// bulk-loads all rows via COPY.
func (s *PostgresStore) SaveTable(ctx context.Context, name string, f *frame.Frame) error {
	if f == nil || f.NumCols() == 0 {
		return nil
	}
	table := tableName(name)
	cols := f.Columns()

	if _, err := s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))); err != nil {
		return eris.Wrapf(err, "postgres: drop %s", table)
	}

	defs := make([]string, len(cols))
	for i, c := range cols {
		typ := "TEXT"
		if f.Column(c).Kind == frame.KindNumber {
			typ = "DOUBLE PRECISION"
		}
		defs[i] = quoteIdent(c) + " " + typ
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := s.pool.Exec(ctx, create); err != nil {
		return eris.Wrapf(err, "postgres: create %s", table)
	}

	kinds := make([]frame.Kind, len(cols))
	for i, c := range cols {
		kinds[i] = f.Column(c).Kind
	}
	rows := make([][]any, f.NumRows())
	for r := range rows {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = sqlValue(f.Value(r, c), kinds[i])
		}
		rows[r] = row
	}

	_, err := db.CopyFrom(ctx, s.pool, table, cols, rows)
	return eris.Wrapf(err, "postgres: load %s", table)
}

func (s *PostgresStore) SaveRun(ctx context.Context, report *consolidate.Report) error {
	id := report.RunID
	if id == "" {
		id = uuid.New().String()
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO cohort_runs (id, report, row_count, col_count, key_unique, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, reportJSON, report.Rows, report.Columns, report.KeyUnique, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: insert run %s", id)
}
