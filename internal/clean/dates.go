package clean

import (
	"time"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// Medication start and stop dates arrive as MM/YYYY strings.
const (
	startDateColumn = "STARTDT"
	stopDateColumn  = "STOPDT"

	monthYearLayout = "1/2006"
	isoMonthLayout  = "2006-01"
)

// normalizeMonthDates rewrites a MM/YYYY date column as YYYY-MM text
// so the values sort chronologically. Unparseable cells become
// missing, and their count is returned.
func normalizeMonthDates(f *frame.Frame, col string) int {
	c := f.Column(col)
	if c == nil {
		return 0
	}
	missing := 0
	for i, v := range c.Values {
		if v.IsEmpty() {
			c.Values[i] = frame.Missing()
			missing++
			continue
		}
		t, err := time.Parse(monthYearLayout, v.String())
		if err != nil {
			c.Values[i] = frame.Missing()
			missing++
			continue
		}
		c.Values[i] = frame.Text(t.Format(isoMonthLayout))
	}
	c.Kind = frame.KindText
	return missing
}
