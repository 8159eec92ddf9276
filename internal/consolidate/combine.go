// Package consolidate implements the record consolidation engine: suffix
// deduplication after two-way joins, key aggregation to a unique row per
// (subject, visit), and the orchestrated merge of all sources into one wide
// table. Every transform here is fail-safe: malformed input degrades into
// best-effort output with a diagnostic, never an error.
package consolidate

import (
	"math"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// DefaultTolerance is the relative epsilon used when deciding that two
// numeric values from a column collision are the same measurement.
const DefaultTolerance = 1e-9

// PipeSeparator joins conflicting values that cannot be reconciled.
const PipeSeparator = "|"

// combinePair folds the two sides of a column collision into one value:
// empty yields to present, stringwise-equal keeps the left side and its type,
// numerically-close values are treated as equal, anything else is rendered
// and pipe-joined in (x, y) order.
func combinePair(x, y frame.Scalar, tol float64) frame.Scalar {
	ex, ey := x.IsEmpty(), y.IsEmpty()
	switch {
	case ex && ey:
		return frame.Missing()
	case ex:
		return y
	case ey:
		return x
	}

	if x.Equal(y) {
		return x
	}

	if fx, okx := x.Float(); okx {
		if fy, oky := y.Float(); oky && numClose(fx, fy, tol) {
			return x
		}
	}

	return frame.Text(x.String() + PipeSeparator + y.String())
}

// numClose applies a relative tolerance with an absolute floor near zero.
func numClose(a, b, tol float64) bool {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= tol*math.Max(scale, 1)
}
