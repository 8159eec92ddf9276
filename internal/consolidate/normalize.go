package consolidate

import (
	"strings"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// SubjectPrefix is the source-specific prefix some exports attach to subject
// identifiers; it is stripped before the identifier is used as a key.
const SubjectPrefix = "PPMI-"

// NormalizeSubject coerces the named subject column to canonical string
// form, stripping the given source prefix. Idempotent; a no-op when the
// column is absent.
func NormalizeSubject(f *frame.Frame, col, prefix string) {
	c := f.Column(col)
	if c == nil {
		return
	}
	for i, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		s := v.String()
		if prefix != "" {
			s = strings.TrimPrefix(s, prefix)
		}
		c.Values[i] = frame.Text(s)
	}
	c.Kind = frame.KindText
}
