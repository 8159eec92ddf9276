package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/cohort-cli/internal/frame"
)

func TestNormalizeSubject(t *testing.T) {
	f := frame.New()
	f.AddColumn("PATNO", frame.KindNumber)
	f.Column("PATNO").Values = []frame.Scalar{
		frame.Number(1001),
		frame.Text("PPMI-1002"),
		frame.Text("1003"),
		frame.Missing(),
	}

	NormalizeSubject(f, "PATNO", SubjectPrefix)

	assert.Equal(t, frame.KindText, f.Column("PATNO").Kind)
	assert.Equal(t, frame.Text("1001"), f.Value(0, "PATNO"))
	assert.Equal(t, frame.Text("1002"), f.Value(1, "PATNO"))
	assert.Equal(t, frame.Text("1003"), f.Value(2, "PATNO"))
	assert.True(t, f.Value(3, "PATNO").IsMissing())

	// Idempotent.
	NormalizeSubject(f, "PATNO", SubjectPrefix)
	assert.Equal(t, frame.Text("1002"), f.Value(1, "PATNO"))

	// Missing column is a no-op.
	NormalizeSubject(f, "NOPE", SubjectPrefix)
}
