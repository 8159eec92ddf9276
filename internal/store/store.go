// Package store persists consolidated cohort tables and run reports.
//
// Both backends share one shape: every saved frame becomes a SQL table whose
// columns mirror the frame's columns (numeric columns as floating point,
// everything else as text), and every consolidation run writes one row to
// cohort_runs carrying the full report as JSON.
package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/frame"
)

// Store is the persistence surface for consolidation output.
type Store interface {
	// SaveTable replaces the named table with the frame's contents.
	SaveTable(ctx context.Context, name string, f *frame.Frame) error
	// SaveRun records a consolidation report.
	SaveRun(ctx context.Context, report *consolidate.Report) error
	Migrate(ctx context.Context) error
	Close() error
}

// Open selects a backend by driver name.
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, poolCfg)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

var identPattern = regexp.MustCompile(`[^a-z0-9_]+`)

// tableName maps a source name to a plain lowercase SQL identifier.
func tableName(name string) string {
	s := identPattern.ReplaceAllString(strings.ToLower(name), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unnamed"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "t_" + s
	}
	return s
}

// quoteIdent double-quotes a column name so assay and test identifiers with
// unusual characters survive as-is.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqlValue converts a cell for driver binding. Missing cells become NULL.
// A text-kinded column can still hold numeric scalars in cells the
// aggregator never had to fold; those must bind as text, or the declared
// column type rejects them.
func sqlValue(s frame.Scalar, kind frame.Kind) any {
	if s.IsMissing() {
		return nil
	}
	if kind == frame.KindNumber {
		if v, ok := s.Float(); ok {
			return v
		}
	}
	return s.String()
}
