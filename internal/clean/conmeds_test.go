package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cohort-cli/internal/frame"
)

func conmedRow(trt string, code, text frame.Scalar) map[string]frame.Scalar {
	return map[string]frame.Scalar{
		treatmentName:  frame.Text(trt),
		indicationCode: code,
		indicationText: text,
	}
}

func newConmedFrame(rows ...map[string]frame.Scalar) *frame.Frame {
	f := frame.New()
	f.AddColumn(treatmentName, frame.KindText)
	f.AddColumn(indicationCode, frame.KindNumber)
	f.AddColumn(indicationText, frame.KindText)
	f.AddColumn(startDateColumn, frame.KindText)
	f.AddColumn(stopDateColumn, frame.KindText)
	for _, row := range rows {
		f.AppendRow(row)
	}
	return f
}

func TestConcomitantMedicationsKeepsExistingCode(t *testing.T) {
	out := ConcomitantMedications(newConmedFrame(
		conmedRow("SERTRALINE", frame.Number(10), frame.Text("feeling low")),
	))
	require.Equal(t, 1, out.NumRows())
	assert.Equal(t, "10", out.Value(0, indicationCode).String())
	assert.Equal(t, "Depression", out.Value(0, indicationText).String())
}

func TestConcomitantMedicationsMapsText(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
	}{
		{"exact short form", "ed", "20"},
		{"label substring", "anxiety", "1"},
		{"fragment match", "high cholesterol", "13"},
		{"fragment with typo family", "hypertension medication", "14"},
		{"no match falls to Other", "zzgibberishzz", "25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ConcomitantMedications(newConmedFrame(
				conmedRow("DRUG", frame.Missing(), frame.Text(tt.text)),
			))
			assert.Equal(t, tt.code, out.Value(0, indicationCode).String())
		})
	}
}

func TestConcomitantMedicationsTreatmentFallbacks(t *testing.T) {
	out := ConcomitantMedications(newConmedFrame(
		conmedRow("ASPIRIN", frame.Missing(), frame.Missing()),
		conmedRow("GINKOBIL", frame.Missing(), frame.Missing()),
		conmedRow("HUMULIN NPH", frame.Missing(), frame.Missing()),
		conmedRow("SOMETHING ELSE", frame.Missing(), frame.Missing()),
	))
	assert.Equal(t, "17", out.Value(0, indicationCode).String())
	assert.Equal(t, "Pain", out.Value(0, indicationText).String())
	assert.Equal(t, "22", out.Value(1, indicationCode).String())
	assert.Equal(t, "11", out.Value(2, indicationCode).String())
	assert.Equal(t, "25", out.Value(3, indicationCode).String())
	assert.Equal(t, "Other", out.Value(3, indicationText).String())
}

func TestConcomitantMedicationsNormalizesDates(t *testing.T) {
	row := conmedRow("SERTRALINE", frame.Number(10), frame.Text("depression"))
	row[startDateColumn] = frame.Text("01/2015")
	row[stopDateColumn] = frame.Text("3/2016")

	out := ConcomitantMedications(newConmedFrame(row))
	assert.Equal(t, "2015-01", out.Value(0, startDateColumn).String())
	assert.Equal(t, "2016-03", out.Value(0, stopDateColumn).String())
}

func TestConcomitantMedicationsInputUntouched(t *testing.T) {
	f := newConmedFrame(conmedRow("DRUG", frame.Missing(), frame.Text("anxiety")))
	_ = ConcomitantMedications(f)
	assert.True(t, f.Value(0, indicationCode).IsMissing())
}

func TestIndicationTableComplete(t *testing.T) {
	table := loadIndications()
	require.Len(t, table.Indications, 25)
	assert.Equal(t, "Other", table.Indications[25])
	for code := range table.Fragments {
		_, ok := table.Indications[code]
		assert.True(t, ok, "fragment list for unknown code %d", code)
	}
}
