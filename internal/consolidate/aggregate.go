package consolidate

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// maxConflictExamples caps how many affected columns get example values in
// the aggregation summary log.
const maxConflictExamples = 3

// columnConflicts records, for one column, how many key groups held multiple
// distinct values and what the first such group looked like.
type columnConflicts struct {
	column        string
	groups        int
	exampleKey    string
	exampleValues []string
}

// AggregateByKey folds all rows sharing the same key into exactly one row.
// Within a group, a column holding a single distinct non-missing value keeps
// that value and its type; two or more distinct values are rendered, sorted
// lexicographically, and pipe-joined, and the whole column is promoted to a
// string-capable kind. The first key column is the subject identifier and is
// re-normalized to string form defensively.
//
// A frame missing any key column is returned as-is with a diagnostic; this
// function never fails. The output holds the key columns first, then the
// remaining columns in their original order, one row per distinct key.
func AggregateByKey(f *frame.Frame, key []string, name string) *frame.Frame {
	if f.Empty() {
		return f
	}
	if !f.HasColumns(key...) {
		zap.L().Warn("cannot aggregate, key column missing; returning table unchanged",
			zap.String("source", name), zap.Strings("key", key))
		return f
	}

	out := f.Clone()
	NormalizeSubject(out, key[0], "")

	if !hasDuplicateKeys(out, key) {
		return out
	}

	zap.L().Info("consolidating rows with duplicate key pairs, conflicting values will be pipe-separated",
		zap.String("source", name), zap.Strings("key", key))

	keySet := make(map[string]bool)
	for _, k := range key {
		keySet[k] = true
	}
	var aggCols []string
	for _, c := range out.Columns() {
		if !keySet[c] {
			aggCols = append(aggCols, c)
		}
	}

	// Group rows by rendered key, then order groups lexicographically so the
	// result is reproducible regardless of input row order.
	groupRows := make(map[string][]int)
	var groupKeys []string
	for r := 0; r < out.NumRows(); r++ {
		k := out.RowKey(r, key)
		if _, ok := groupRows[k]; !ok {
			groupKeys = append(groupKeys, k)
		}
		groupRows[k] = append(groupRows[k], r)
	}
	sort.Strings(groupKeys)

	result := frame.New()
	for _, k := range key {
		src := out.Column(k)
		c := result.AddColumn(k, src.Kind)
		c.Values = make([]frame.Scalar, len(groupKeys))
		for g, gk := range groupKeys {
			c.Values[g] = out.Value(groupRows[gk][0], k)
		}
	}

	var conflicts []columnConflicts
	for _, colName := range aggCols {
		src := out.Column(colName)
		values := make([]frame.Scalar, len(groupKeys))
		stat := columnConflicts{column: colName}

		for g, gk := range groupKeys {
			values[g] = foldGroup(src, groupRows[gk], &stat, gk)
		}

		kind := src.Kind
		if stat.groups > 0 {
			kind = frame.KindText
			conflicts = append(conflicts, stat)
		}
		c := result.AddColumn(colName, kind)
		c.Values = values
	}

	logConflictSummary(name, conflicts)
	return result
}

// foldGroup reduces one column's values within a key group to one scalar.
func foldGroup(src *frame.Column, rows []int, stat *columnConflicts, groupKey string) frame.Scalar {
	var first frame.Scalar
	var distinct []string
	seen := make(map[string]bool)
	for _, r := range rows {
		v := src.Values[r]
		if v.IsMissing() {
			continue
		}
		if len(distinct) == 0 {
			first = v
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			distinct = append(distinct, s)
		}
	}

	switch len(distinct) {
	case 0:
		return frame.Missing()
	case 1:
		// One underlying value: keep it, original type intact.
		return first
	default:
		stat.groups++
		if stat.exampleKey == "" {
			stat.exampleKey = groupKey
			stat.exampleValues = append([]string(nil), distinct...)
		}
		sorted := append([]string(nil), distinct...)
		sort.Strings(sorted)
		return frame.Text(strings.Join(sorted, PipeSeparator))
	}
}

func hasDuplicateKeys(f *frame.Frame, key []string) bool {
	seen := make(map[string]bool, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		k := f.RowKey(r, key)
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}

// logConflictSummary reports pipe-joined columns in descending order of
// affected groups, with example conflicting values for the top few.
func logConflictSummary(name string, conflicts []columnConflicts) {
	if len(conflicts) == 0 {
		return
	}
	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].groups > conflicts[j].groups
	})

	zap.L().Info("pipe-separated column summary",
		zap.String("source", name), zap.Int("columns", len(conflicts)))
	for i, c := range conflicts {
		fields := []zap.Field{
			zap.String("column", c.column),
			zap.Int("groups_with_multiple_values", c.groups),
		}
		if i < maxConflictExamples {
			fields = append(fields,
				zap.String("example_group", strings.ReplaceAll(c.exampleKey, frame.KeySeparator, "/")),
				zap.Strings("example_values", c.exampleValues),
			)
		}
		zap.L().Info("column required pipe-joining", fields...)
	}
}
