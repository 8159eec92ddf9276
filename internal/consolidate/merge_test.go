package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cohort-cli/internal/frame"
)

func sourceFrame(cols []string, rows ...map[string]frame.Scalar) *frame.Frame {
	f := frame.NewWithColumns(cols...)
	for _, r := range rows {
		f.AppendRow(r)
	}
	return f
}

func TestConsolidatePrefixingAvoidsCollisions(t *testing.T) {
	a := sourceFrame([]string{"PATNO", "EVENT_ID", "X"},
		rowOf("PATNO", frame.Text("1"), "EVENT_ID", frame.Text("BL"), "X", frame.Number(10)))
	b := sourceFrame([]string{"PATNO", "EVENT_ID", "X"},
		rowOf("PATNO", frame.Text("1"), "EVENT_ID", frame.Text("BL"), "X", frame.Number(20)))

	merged, report := Consolidate([]Source{{Name: "A", Frame: a}, {Name: "B", Frame: b}}, Options{})

	require.Equal(t, 1, merged.NumRows())
	assert.True(t, merged.HasColumn("A_X"))
	assert.True(t, merged.HasColumn("B_X"))
	assert.False(t, merged.HasColumn("X_x"))
	assert.False(t, merged.HasColumn("X_y"))
	assert.Equal(t, frame.Number(10), merged.Value(0, "A_X"))
	assert.Equal(t, frame.Number(20), merged.Value(0, "B_X"))
	assert.Empty(t, report.Collisions)
	assert.True(t, report.KeyUnique)
}

func TestConsolidateUnionOfKeys(t *testing.T) {
	a := sourceFrame([]string{"PATNO", "EVENT_ID", "A_VAL"},
		rowOf("PATNO", frame.Text("1"), "EVENT_ID", frame.Text("BL"), "A_VAL", frame.Number(1)))
	b := sourceFrame([]string{"PATNO", "EVENT_ID", "B_VAL"},
		rowOf("PATNO", frame.Text("1"), "EVENT_ID", frame.Text("V04"), "B_VAL", frame.Number(2)))

	merged, _ := Consolidate([]Source{{Name: "A", Frame: a}, {Name: "B", Frame: b}}, Options{})

	require.Equal(t, 2, merged.NumRows())

	byVisit := make(map[string]int)
	for r := 0; r < merged.NumRows(); r++ {
		byVisit[merged.Value(r, "EVENT_ID").String()] = r
	}
	require.Contains(t, byVisit, "BL")
	require.Contains(t, byVisit, "V04")

	assert.Equal(t, frame.Number(1), merged.Value(byVisit["BL"], "A_A_VAL"))
	assert.True(t, merged.Value(byVisit["BL"], "B_B_VAL").IsMissing())
	assert.Equal(t, frame.Number(2), merged.Value(byVisit["V04"], "B_B_VAL"))
	assert.True(t, merged.Value(byVisit["V04"], "A_A_VAL").IsMissing())
}

func TestConsolidateAggregatesWithinSource(t *testing.T) {
	a := sourceFrame([]string{"PATNO", "EVENT_ID", "V"},
		rowOf("PATNO", frame.Text("9999"), "EVENT_ID", frame.Text("V04"), "V", frame.Number(1)),
		rowOf("PATNO", frame.Text("9999"), "EVENT_ID", frame.Text("V04"), "V", frame.Number(2)))

	merged, report := Consolidate([]Source{{Name: "A", Frame: a}}, Options{})

	require.Equal(t, 1, merged.NumRows())
	assert.Equal(t, frame.Text("1|2"), merged.Value(0, "A_V"))
	assert.True(t, report.KeyUnique)
	require.Len(t, report.Sources, 1)
	assert.Equal(t, 1, report.Sources[0].Rows) // rows after local aggregation
	assert.Equal(t, 1, report.Sources[0].Columns)
}

func TestConsolidateSubjectPrefixStripping(t *testing.T) {
	a := sourceFrame([]string{"PATNO", "EVENT_ID", "V"},
		rowOf("PATNO", frame.Text("PPMI-1001"), "EVENT_ID", frame.Text("BL"), "V", frame.Number(1)))
	b := sourceFrame([]string{"PATNO", "EVENT_ID", "W"},
		rowOf("PATNO", frame.Text("1001"), "EVENT_ID", frame.Text("BL"), "W", frame.Number(2)))

	merged, _ := Consolidate(
		[]Source{{Name: "A", Frame: a}, {Name: "B", Frame: b}},
		Options{SubjectPrefix: SubjectPrefix},
	)

	// Same subject once the prefix is stripped: one key, both columns filled.
	require.Equal(t, 1, merged.NumRows())
	assert.Equal(t, frame.Text("1001"), merged.Value(0, "PATNO"))
	assert.Equal(t, frame.Number(1), merged.Value(0, "A_V"))
	assert.Equal(t, frame.Number(2), merged.Value(0, "B_W"))
}

func TestConsolidateIncludeExclude(t *testing.T) {
	mk := func() []Source {
		return []Source{
			{Name: "A", Frame: sourceFrame([]string{"PATNO", "EVENT_ID", "V"},
				rowOf("PATNO", frame.Text("1"), "EVENT_ID", frame.Text("BL"), "V", frame.Number(1)))},
			{Name: "B", Frame: sourceFrame([]string{"PATNO", "EVENT_ID", "W"},
				rowOf("PATNO", frame.Text("1"), "EVENT_ID", frame.Text("BL"), "W", frame.Number(2)))},
		}
	}

	merged, _ := Consolidate(mk(), Options{Include: []string{"B"}})
	assert.False(t, merged.HasColumn("A_V"))
	assert.True(t, merged.HasColumn("B_W"))

	merged, _ = Consolidate(mk(), Options{Exclude: []string{"B"}})
	assert.True(t, merged.HasColumn("A_V"))
	assert.False(t, merged.HasColumn("B_W"))

	// Include wins when both are given.
	merged, _ = Consolidate(mk(), Options{Include: []string{"A"}, Exclude: []string{"A"}})
	assert.True(t, merged.HasColumn("A_V"))
}

func TestConsolidateSkipsDegenerateSources(t *testing.T) {
	good := sourceFrame([]string{"PATNO", "EVENT_ID", "V"},
		rowOf("PATNO", frame.Text("1"), "EVENT_ID", frame.Text("BL"), "V", frame.Number(1)))
	noKey := sourceFrame([]string{"SOMETHING"},
		map[string]frame.Scalar{"SOMETHING": frame.Text("x")})

	merged, report := Consolidate([]Source{
		{Name: "good", Frame: good},
		{Name: "empty", Frame: frame.New()},
		{Name: "nil", Frame: nil},
		{Name: "nokey", Frame: noKey},
	}, Options{})

	require.Equal(t, 1, merged.NumRows())
	require.Len(t, report.Sources, 1)
	assert.Equal(t, "good", report.Sources[0].Name)
}

func TestConsolidateNoSources(t *testing.T) {
	merged, report := Consolidate(nil, Options{})
	assert.True(t, merged.Empty())
	assert.True(t, report.KeyUnique)
	assert.NotEmpty(t, report.RunID)
}

func TestConsolidateDoesNotMutateInputs(t *testing.T) {
	a := sourceFrame([]string{"PATNO", "EVENT_ID", "X"},
		rowOf("PATNO", frame.Text("PPMI-1"), "EVENT_ID", frame.Text("BL"), "X", frame.Number(1)))

	_, _ = Consolidate([]Source{{Name: "A", Frame: a}}, Options{SubjectPrefix: SubjectPrefix})

	assert.Equal(t, []string{"PATNO", "EVENT_ID", "X"}, a.Columns())
	assert.Equal(t, frame.Text("PPMI-1"), a.Value(0, "PATNO"))
}
