package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBasics(t *testing.T) {
	f := NewWithColumns("PATNO", "EVENT_ID")
	f.AddColumn("SCORE", KindNumber)

	f.AppendRow(map[string]Scalar{
		"PATNO":    Text("1001"),
		"EVENT_ID": Text("BL"),
		"SCORE":    Number(12),
	})
	f.AppendRow(map[string]Scalar{
		"PATNO":    Text("1001"),
		"EVENT_ID": Text("V04"),
	})

	assert.Equal(t, 2, f.NumRows())
	assert.Equal(t, 3, f.NumCols())
	assert.Equal(t, []string{"PATNO", "EVENT_ID", "SCORE"}, f.Columns())
	assert.Equal(t, Number(12), f.Value(0, "SCORE"))
	assert.True(t, f.Value(1, "SCORE").IsMissing())
	assert.True(t, f.Value(0, "NOPE").IsMissing())
}

func TestFrameRenameDrop(t *testing.T) {
	f := NewWithColumns("CLINICAL_EVENT", "PATNO", "JUNK")
	f.AppendRow(map[string]Scalar{"CLINICAL_EVENT": Text("BL"), "PATNO": Text("1"), "JUNK": Text("x")})

	f.Rename("CLINICAL_EVENT", "EVENT_ID")
	assert.True(t, f.HasColumn("EVENT_ID"))
	assert.False(t, f.HasColumn("CLINICAL_EVENT"))
	assert.Equal(t, Text("BL"), f.Value(0, "EVENT_ID"))

	f.Drop("JUNK", "NOT_THERE")
	assert.Equal(t, []string{"EVENT_ID", "PATNO"}, f.Columns())
	assert.Equal(t, Text("1"), f.Value(0, "PATNO"))
}

func TestFrameSelectOrder(t *testing.T) {
	f := NewWithColumns("A", "B", "C")
	f.AppendRow(map[string]Scalar{"A": Text("a"), "B": Text("b"), "C": Text("c")})

	sel := f.Select("C", "A", "MISSING_COL")
	assert.Equal(t, []string{"C", "A"}, sel.Columns())
	assert.Equal(t, Text("c"), sel.Value(0, "C"))
}

func TestFrameClone(t *testing.T) {
	f := NewWithColumns("A")
	f.AppendRow(map[string]Scalar{"A": Text("1")})

	c := f.Clone()
	c.SetValue(0, "A", Text("2"))

	assert.Equal(t, Text("1"), f.Value(0, "A"))
	assert.Equal(t, Text("2"), c.Value(0, "A"))
}

func TestFrameRowKey(t *testing.T) {
	f := NewWithColumns("PATNO", "EVENT_ID")
	f.AppendRow(map[string]Scalar{"PATNO": Text("9999"), "EVENT_ID": Text("V04")})
	f.AppendRow(map[string]Scalar{"PATNO": Text("9999"), "EVENT_ID": Text("V04")})
	f.AppendRow(map[string]Scalar{"PATNO": Text("9999"), "EVENT_ID": Text("BL")})

	require.Equal(t, f.RowKey(0, []string{"PATNO", "EVENT_ID"}), f.RowKey(1, []string{"PATNO", "EVENT_ID"}))
	assert.NotEqual(t, f.RowKey(0, []string{"PATNO", "EVENT_ID"}), f.RowKey(2, []string{"PATNO", "EVENT_ID"}))
}
