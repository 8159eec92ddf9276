package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/frame"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
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
CREATE TABLE IF NOT EXISTS cohort_runs (
	id         TEXT PRIMARY KEY,
	report     TEXT NOT NULL,
	row_count  INTEGER NOT NULL,
	col_count  INTEGER NOT NULL,
	key_unique INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cohort_runs_created_at ON cohort_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveTable drops and recreates the named table from the frame's schema, then
// loads all rows inside one transaction.
func (s *SQLiteStore) SaveTable(ctx context.Context, name string, f *frame.Frame) error {
	if f == nil || f.NumCols() == 0 {
		return nil
	}
	table := tableName(name)
	cols := f.Columns()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrapf(err, "sqlite: begin %s", table)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))); err != nil {
		return eris.Wrapf(err, "sqlite: drop %s", table)
	}

	defs := make([]string, len(cols))
	for i, c := range cols {
		typ := "TEXT"
		if f.Column(c).Kind == frame.KindNumber {
			typ = "REAL"
		}
		defs[i] = quoteIdent(c) + " " + typ
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return eris.Wrapf(err, "sqlite: create %s", table)
	}

	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return eris.Wrapf(err, "sqlite: prepare insert %s", table)
	}
	defer stmt.Close()

	kinds := make([]frame.Kind, len(cols))
	for i, c := range cols {
		kinds[i] = f.Column(c).Kind
	}
	args := make([]any, len(cols))
	for r := 0; r < f.NumRows(); r++ {
		for i, c := range cols {
			args[i] = sqlValue(f.Value(r, c), kinds[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return eris.Wrapf(err, "sqlite: insert row into %s", table)
		}
	}

	return eris.Wrapf(tx.Commit(), "sqlite: commit %s", table)
}

func (s *SQLiteStore) SaveRun(ctx context.Context, report *consolidate.Report) error {
	id := report.RunID
	if id == "" {
		id = uuid.New().String()
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cohort_runs (id, report, row_count, col_count, key_unique, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(reportJSON), report.Rows, report.Columns, report.KeyUnique, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert run %s", id)
}
