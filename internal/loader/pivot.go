package loader

import (
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// Column names used by the test-result biospecimen files.
const (
	testNameColumn  = "TESTNAME"
	testValueColumn = "TESTVALUE"
)

// demographic columns carried through a pivot when present.
var pivotCarryColumns = []string{"SEX", "COHORT"}

// readMatching loads every path the keep filter accepts. Unreadable
// files are logged and skipped.
func readMatching(paths []string, keep func(base string) bool) []*frame.Frame {
	var frames []*frame.Frame
	for _, path := range paths {
		if keep != nil && !keep(filepath.Base(path)) {
			continue
		}
		f, err := ReadTable(path)
		if err != nil {
			zap.L().Error("could not read file", zap.String("path", path), zap.Error(err))
			continue
		}
		frames = append(frames, f)
	}
	return frames
}

// pivotTests reshapes long test-result tables into one wide frame with
// a column per test name, prefixed with colPrefix. Duplicate results
// for the same subject, visit, and test keep the first occurrence.
// Rows and test columns come out in sorted order.
func pivotTests(frames []*frame.Frame, colPrefix, logName string) *frame.Frame {
	if len(frames) == 0 {
		zap.L().Warn("no files found", zap.String("source", logName))
		return frame.New()
	}
	combined := frame.Concat(frames...)
	if !combined.HasColumns(SubjectColumn, EventColumn, testNameColumn, testValueColumn) {
		zap.L().Error("required columns missing", zap.String("source", logName),
			zap.Strings("required", []string{SubjectColumn, EventColumn, testNameColumn, testValueColumn}))
		return frame.New()
	}

	indexCols := []string{SubjectColumn, EventColumn}
	for _, c := range pivotCarryColumns {
		if combined.HasColumn(c) {
			indexCols = append(indexCols, c)
		}
	}

	valueKind := combined.Column(testValueColumn).Kind

	// cells maps group key -> test name -> first value seen.
	cells := make(map[string]map[string]frame.Scalar)
	index := make(map[string][]frame.Scalar)
	testNames := make(map[string]bool)
	var keys []string

	for r := 0; r < combined.NumRows(); r++ {
		key := combined.RowKey(r, []string{SubjectColumn, EventColumn})
		if _, ok := cells[key]; !ok {
			cells[key] = make(map[string]frame.Scalar)
			idx := make([]frame.Scalar, len(indexCols))
			for i, c := range indexCols {
				idx[i] = combined.Value(r, c)
			}
			index[key] = idx
			keys = append(keys, key)
		}
		test := combined.Value(r, testNameColumn)
		if test.IsMissing() {
			continue
		}
		name := test.String()
		testNames[name] = true
		if _, ok := cells[key][name]; !ok {
			cells[key][name] = combined.Value(r, testValueColumn)
		}
	}

	sort.Strings(keys)
	sorted := make([]string, 0, len(testNames))
	for name := range testNames {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	out := frame.New()
	for _, c := range indexCols {
		out.AddColumn(c, combined.Column(c).Kind)
	}
	for _, name := range sorted {
		out.AddColumn(colPrefix+name, valueKind)
	}
	for _, key := range keys {
		row := make(map[string]frame.Scalar, len(indexCols)+len(sorted))
		for i, c := range indexCols {
			row[c] = index[key][i]
		}
		for name, v := range cells[key] {
			row[colPrefix+name] = v
		}
		out.AppendRow(row)
	}

	zap.L().Info("pivoted test results", zap.String("source", logName),
		zap.Int("rows", out.NumRows()), zap.Int("columns", out.NumCols()))
	return out
}
