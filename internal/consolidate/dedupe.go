package consolidate

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/frame"
)

const (
	suffixLeft  = "_x"
	suffixRight = "_y"
)

// DeduplicateSuffixes collapses every _x/_y column pair left behind by a
// two-way join into a single base-named column, combining values row by row
// with combinePair. A lone suffixed column is simply renamed. The input is
// consumed; the returned frame carries no collision suffix on any resolved
// base name.
func DeduplicateSuffixes(f *frame.Frame, tol float64) *frame.Frame {
	if f.Empty() {
		return f
	}

	var bases []string
	seen := make(map[string]bool)
	for _, name := range f.Columns() {
		var base string
		switch {
		case strings.HasSuffix(name, suffixLeft):
			base = strings.TrimSuffix(name, suffixLeft)
		case strings.HasSuffix(name, suffixRight):
			base = strings.TrimSuffix(name, suffixRight)
		default:
			continue
		}
		if base != "" && !seen[base] {
			seen[base] = true
			bases = append(bases, base)
		}
	}
	if len(bases) == 0 {
		return f
	}

	zap.L().Debug("deduplicating suffixed columns", zap.Strings("bases", bases))

	for _, base := range bases {
		colX := base + suffixLeft
		colY := base + suffixRight
		hasX := f.HasColumn(colX)
		hasY := f.HasColumn(colY)

		switch {
		case hasX && hasY:
			if f.HasColumn(base) {
				// Caller should have sanitized its column names before
				// joining; combining will shadow the pre-existing column.
				zap.L().Warn("base column already exists, combining _x/_y may overwrite it",
					zap.String("column", base))
			}
			cx := f.Column(colX)
			cy := f.Column(colY)

			values := make([]frame.Scalar, f.NumRows())
			numeric := true
			present := false
			for i := range values {
				v := combinePair(cx.Values[i], cy.Values[i], tol)
				if !v.IsMissing() {
					present = true
					if !v.IsNumber() {
						numeric = false
					}
				}
				values[i] = v
			}
			// All-missing columns stay text, matching CSV inference.
			kind := frame.KindText
			if present && numeric {
				kind = frame.KindNumber
			}

			f.Drop(colX, colY, base)
			c := f.AddColumn(base, kind)
			c.Values = values
		case hasX:
			f.Rename(colX, base)
		case hasY:
			f.Rename(colY, base)
		}
	}

	return f
}

// SanitizeSuffixes renames columns that already end in _x or _y before a
// join, so the join's own collision suffixes cannot clash with them.
// "COL_x" becomes "COL_x_orig", with a numeric tail if that is taken too.
func SanitizeSuffixes(f *frame.Frame) {
	for _, name := range f.Columns() {
		if !strings.HasSuffix(name, suffixLeft) && !strings.HasSuffix(name, suffixRight) {
			continue
		}
		candidate := name + "_orig"
		renamed := candidate
		for i := 1; f.HasColumn(renamed); i++ {
			renamed = candidate + strconv.Itoa(i)
		}
		zap.L().Debug("sanitizing pre-existing suffixed column",
			zap.String("from", name), zap.String("to", renamed))
		f.Rename(name, renamed)
	}
}
