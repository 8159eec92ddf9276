package clean

import (
	"github.com/sells-group/cohort-cli/internal/frame"
)

// VisitMonthsColumn is added by AnnotateVisitMonths.
const VisitMonthsColumn = "VISIT_MONTHS"

// AnnotateVisitMonths adds a month-offset column derived from the visit
// schedule. Unscheduled events get a missing value. The frame is left
// untouched when it has no visit column or already carries the annotation.
func AnnotateVisitMonths(f *frame.Frame, sched *Schedule, eventCol string) {
	if f == nil || !f.HasColumn(eventCol) || f.HasColumn(VisitMonthsColumn) {
		return
	}
	vals := make([]frame.Scalar, f.NumRows())
	for r := range vals {
		if m, ok := sched.Months(f.Value(r, eventCol).String()); ok {
			vals[r] = frame.Number(m)
		}
	}
	col := f.AddColumn(VisitMonthsColumn, frame.KindNumber)
	copy(col.Values, vals)
}
