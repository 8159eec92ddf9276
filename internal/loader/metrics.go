package loader

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/frame"
)

// metricColumn pairs a source column with the short name it gets in
// the wide output.
type metricColumn struct {
	Column string
	Short  string
}

// metricGroup describes one family of files whose rows are spread into
// wide columns named prefix_test_metric.
type metricGroup struct {
	frames  []*frame.Frame
	prefix  string
	columns []string // required beyond the key columns
	test    func(f *frame.Frame, r int) string
	metrics []metricColumn
}

// uniprotAssay is the test identity used by the proteomics projects.
func uniprotAssay(f *frame.Frame, r int) string {
	return f.Value(r, "UNIPROT").String() + "_" + f.Value(r, "ASSAY").String()
}

// collectMetrics folds one or more metric file groups into a wide
// frame with one row per subject and visit. The first non-missing
// value seen for a cell wins. Rows come out sorted by key and columns
// in first-appearance order.
func collectMetrics(groups []metricGroup, logName string) *frame.Frame {
	type pair struct{ subject, event string }

	data := make(map[pair]map[string]frame.Scalar)
	scalars := make(map[pair][2]frame.Scalar)
	var colOrder []string
	seenCol := make(map[string]bool)

	for _, g := range groups {
		for _, f := range g.frames {
			required := append([]string{SubjectColumn, EventColumn}, g.columns...)
			if !f.HasColumns(required...) {
				zap.L().Error("required columns missing",
					zap.String("source", logName), zap.Strings("required", required))
				continue
			}
			for r := 0; r < f.NumRows(); r++ {
				subject := f.Value(r, SubjectColumn)
				event := f.Value(r, EventColumn)
				key := pair{subject.String(), event.String()}
				if _, ok := data[key]; !ok {
					data[key] = make(map[string]frame.Scalar)
					scalars[key] = [2]frame.Scalar{subject, event}
				}
				test := g.test(f, r)
				for _, m := range g.metrics {
					name := g.prefix + "_" + test + "_" + m.Short
					if !seenCol[name] {
						seenCol[name] = true
						colOrder = append(colOrder, name)
					}
					if have, ok := data[key][name]; ok && !have.IsMissing() {
						continue
					}
					data[key][name] = f.Value(r, m.Column)
				}
			}
		}
	}

	if len(data) == 0 {
		zap.L().Warn("no rows collected", zap.String("source", logName))
		return frame.New()
	}

	keys := make([]pair, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].subject != keys[j].subject {
			return keys[i].subject < keys[j].subject
		}
		return keys[i].event < keys[j].event
	})

	out := frame.New()
	out.AddColumn(SubjectColumn, frame.KindText)
	out.AddColumn(EventColumn, frame.KindText)
	for _, name := range colOrder {
		out.AddColumn(name, frame.KindNumber)
	}
	for _, key := range keys {
		row := make(map[string]frame.Scalar, len(colOrder)+2)
		row[SubjectColumn] = scalars[key][0]
		row[EventColumn] = scalars[key][1]
		for name, v := range data[key] {
			row[name] = v
		}
		out.AppendRow(row)
	}
	settleKinds(out, colOrder)

	zap.L().Info("collected metrics", zap.String("source", logName),
		zap.Int("rows", out.NumRows()), zap.Int("columns", out.NumCols()))
	return out
}

// settleKinds demotes a column to text when any of its non-missing
// values is not numeric.
func settleKinds(f *frame.Frame, names []string) {
	for _, name := range names {
		c := f.Column(name)
		if c == nil {
			continue
		}
		for _, v := range c.Values {
			if !v.IsMissing() && !v.IsNumber() {
				c.Kind = frame.KindText
				break
			}
		}
	}
}

// joinStandardFiles folds loosely structured biospecimen tables into
// one frame keyed by subject and visit. A column appearing in more
// than one file is reported, and when the same cell receives distinct
// values they are pipe-joined in encounter order.
func joinStandardFiles(files []string, prefixes []string) *frame.Frame {
	type pair struct{ subject, event string }

	columnSources := make(map[string][]string)
	var loaded []*frame.Frame
	var names []string

	matched := make(map[string]bool)
	for _, prefix := range prefixes {
		for _, path := range matchPrefix(files, prefix) {
			if matched[path] {
				continue
			}
			matched[path] = true
			f, err := ReadTable(path)
			if err != nil {
				zap.L().Error("could not read file", zap.String("path", path), zap.Error(err))
				continue
			}
			if !f.HasColumns(SubjectColumn, EventColumn) {
				zap.L().Warn("file missing key columns, skipping", zap.String("path", path))
				continue
			}
			base := filepath.Base(path)
			for _, col := range f.Columns() {
				if col != SubjectColumn && col != EventColumn {
					columnSources[col] = append(columnSources[col], base)
				}
			}
			loaded = append(loaded, f)
			names = append(names, base)
		}
	}

	if len(loaded) == 0 {
		zap.L().Warn("no standard biospecimen files loaded")
		return frame.New()
	}

	for col, sources := range columnSources {
		if len(sources) > 1 {
			zap.L().Warn("column appears in multiple files",
				zap.String("column", col), zap.Strings("files", sources))
		}
	}

	data := make(map[pair]map[string]frame.Scalar)
	scalars := make(map[pair][2]frame.Scalar)
	var colOrder []string
	seenCol := make(map[string]bool)

	for _, f := range loaded {
		cols := f.Columns()
		for r := 0; r < f.NumRows(); r++ {
			subject := f.Value(r, SubjectColumn)
			event := f.Value(r, EventColumn)
			key := pair{subject.String(), event.String()}
			if _, ok := data[key]; !ok {
				data[key] = make(map[string]frame.Scalar)
				scalars[key] = [2]frame.Scalar{subject, event}
			}
			for _, col := range cols {
				if col == SubjectColumn || col == EventColumn {
					continue
				}
				v := f.Value(r, col)
				if v.IsMissing() {
					continue
				}
				if !seenCol[col] {
					seenCol[col] = true
					colOrder = append(colOrder, col)
				}
				have, ok := data[key][col]
				if !ok || have.IsMissing() {
					data[key][col] = v
					continue
				}
				rendered := v.String()
				if slices.Contains(strings.Split(have.String(), consolidate.PipeSeparator), rendered) {
					continue
				}
				data[key][col] = frame.Text(have.String() + consolidate.PipeSeparator + rendered)
			}
		}
	}

	keys := make([]pair, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].subject != keys[j].subject {
			return keys[i].subject < keys[j].subject
		}
		return keys[i].event < keys[j].event
	})

	out := frame.New()
	out.AddColumn(SubjectColumn, frame.KindText)
	out.AddColumn(EventColumn, frame.KindText)
	for _, name := range colOrder {
		out.AddColumn(name, frame.KindNumber)
	}
	for _, key := range keys {
		row := make(map[string]frame.Scalar, len(colOrder)+2)
		row[SubjectColumn] = scalars[key][0]
		row[EventColumn] = scalars[key][1]
		for name, v := range data[key] {
			row[name] = v
		}
		out.AppendRow(row)
	}
	settleKinds(out, colOrder)

	zap.L().Info("joined standard biospecimen files",
		zap.Int("files", len(names)), zap.Int("rows", out.NumRows()), zap.Int("columns", out.NumCols()))
	return out
}
