package consolidate

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// DefaultKey names the subject and visit columns used across this deployment.
var DefaultKey = []string{"PATNO", "EVENT_ID"}

// Source is one named input table to a consolidation run. Order is merge
// order; the merged content is order-independent because keys are unique by
// the time tables are folded in.
type Source struct {
	Name  string
	Frame *frame.Frame
}

// Options configures a consolidation run.
type Options struct {
	Key           []string // subject column first, then visit; DefaultKey when empty
	SubjectPrefix string   // stripped from subject identifiers, e.g. "PPMI-"
	Tolerance     float64  // numeric-equality tolerance for collision folding
	Include       []string // if non-empty, only these sources participate
	Exclude       []string // otherwise, all but these participate
}

func (o Options) key() []string {
	if len(o.Key) == 0 {
		return DefaultKey
	}
	return o.Key
}

// SourceStat is one source's contribution to the merged table.
type SourceStat struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// Report summarizes a consolidation run.
type Report struct {
	RunID      string       `json:"run_id"`
	Sources    []SourceStat `json:"sources"`
	Collisions []string     `json:"collisions,omitempty"` // suffixed duplicates that appeared despite prefixing
	Rows       int          `json:"rows"`
	Columns    int          `json:"columns"`
	KeyUnique  bool         `json:"key_unique"`
}

// Consolidate merges the given source tables into one wide table keyed by
// (subject, visit). Each participating source is aggregated to unique keys
// and its non-key columns prefixed with "<source>_" before a left join onto
// the union of all key pairs, so every key present anywhere survives. A final
// aggregation pass guards against residual duplication; if duplicates remain
// even then, the violation is logged as critical and the table is returned
// anyway for the caller to judge.
func Consolidate(sources []Source, opts Options) (*frame.Frame, *Report) {
	key := opts.key()
	report := &Report{RunID: uuid.New().String(), KeyUnique: true}
	log := zap.L().With(zap.String("run_id", report.RunID))

	participating := filterSources(sources, opts.Include, opts.Exclude)
	if len(participating) == 0 {
		log.Warn("no data sources remain after applying include/exclude filters")
		return frame.New(), report
	}
	names := make([]string, len(participating))
	for i, s := range participating {
		names[i] = s.Name
	}
	log.Info("consolidating data sources", zap.Strings("sources", names))

	// Prepare each source: normalize, aggregate locally, prefix columns.
	// The union of key pairs across prepared sources becomes the base frame.
	type prepared struct {
		name  string
		frame *frame.Frame
	}
	var ready []prepared
	pairs := make(map[string][2]string)

	for _, src := range participating {
		if src.Frame == nil || src.Frame.Empty() {
			log.Debug("skipping source with no data", zap.String("source", src.Name))
			continue
		}
		if !src.Frame.HasColumns(key...) {
			log.Warn("skipping source, key columns missing",
				zap.String("source", src.Name), zap.Strings("key", key))
			continue
		}

		g := src.Frame.Clone()
		NormalizeSubject(g, key[0], opts.SubjectPrefix)

		// Guard against a single loader producing duplicate keys.
		g = AggregateByKey(g, key, src.Name)

		for r := 0; r < g.NumRows(); r++ {
			pairs[g.RowKey(r, key)] = [2]string{
				g.Value(r, key[0]).String(),
				g.Value(r, key[1]).String(),
			}
		}

		for _, col := range g.Columns() {
			if col != key[0] && col != key[1] {
				g.Rename(col, src.Name+"_"+col)
			}
		}
		ready = append(ready, prepared{name: src.Name, frame: g})
	}

	if len(pairs) == 0 {
		log.Warn("no subject/visit pairs found across any source")
		return frame.New(), report
	}

	merged := baseFrame(key, pairs)
	log.Info("created base frame from union of key pairs", zap.Int("pairs", merged.NumRows()))

	for i := range ready {
		p := ready[i]
		stat := SourceStat{
			Name:    p.name,
			Rows:    p.frame.NumRows(),
			Columns: p.frame.NumCols() - len(key),
		}
		report.Sources = append(report.Sources, stat)
		log.Info("merging source into base frame",
			zap.String("source", p.name), zap.Int("rows", stat.Rows), zap.Int("columns", stat.Columns))

		dupSuffix := "_" + p.name + "_dup"
		out, err := frame.Join(merged, p.frame, key, frame.LeftJoin, [2]string{"", dupSuffix})
		if err != nil {
			log.Error("merge failed, source contributes nothing",
				zap.String("source", p.name), zap.Error(err))
			continue
		}
		merged = out

		for _, col := range merged.Columns() {
			if strings.HasSuffix(col, dupSuffix) {
				// Prefixing should have made collisions impossible; this
				// signals a bug in the prefixing step, not a data problem.
				log.Error("unexpected duplicate column after merge",
					zap.String("source", p.name), zap.String("column", col))
				report.Collisions = append(report.Collisions, col)
			}
		}

		// Large prepared tables are dropped as soon as they are folded in.
		ready[i].frame = nil
	}

	merged = AggregateByKey(merged, key, "consolidated")

	report.Rows = merged.NumRows()
	report.Columns = merged.NumCols()
	if hasDuplicateKeys(merged, key) {
		report.KeyUnique = false
		log.Error("CRITICAL: consolidated table still contains duplicate keys after safeguard aggregation")
	}
	log.Info("consolidation complete",
		zap.Int("rows", report.Rows), zap.Int("columns", report.Columns),
		zap.Bool("key_unique", report.KeyUnique))

	return merged, report
}

// filterSources applies the include filter when given, else the exclude
// filter, else passes everything through in order.
func filterSources(sources []Source, include, exclude []string) []Source {
	if len(include) > 0 {
		want := make(map[string]bool, len(include))
		for _, n := range include {
			want[n] = true
		}
		var out []Source
		for _, s := range sources {
			if want[s.Name] {
				out = append(out, s)
				delete(want, s.Name)
			}
		}
		for n := range want {
			zap.L().Warn("requested source not found", zap.String("source", n))
		}
		return out
	}
	if len(exclude) > 0 {
		skip := make(map[string]bool, len(exclude))
		for _, n := range exclude {
			skip[n] = true
		}
		var out []Source
		for _, s := range sources {
			if skip[s.Name] {
				zap.L().Info("excluding source", zap.String("source", s.Name))
				continue
			}
			out = append(out, s)
		}
		return out
	}
	return sources
}

// baseFrame builds the key-only frame from the union of pairs, sorted so the
// run is reproducible.
func baseFrame(key []string, pairs map[string][2]string) *frame.Frame {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := frame.NewWithColumns(key...)
	for _, k := range keys {
		p := pairs[k]
		f.AppendRow(map[string]frame.Scalar{
			key[0]: frame.Text(p[0]),
			key[1]: frame.Text(p[1]),
		})
	}
	return f
}
