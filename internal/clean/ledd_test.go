package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cohort-cli/internal/frame"
)

func leddRow(trt string, mg, dose, freq float64) map[string]frame.Scalar {
	return map[string]frame.Scalar{
		ledTreatment:  frame.Text(trt),
		ledStrengthMG: frame.Number(mg),
		ledDose:       frame.Number(dose),
		ledFrequency:  frame.Number(freq),
	}
}

func newLEDDFrame(rows ...map[string]frame.Scalar) *frame.Frame {
	f := frame.New()
	for _, col := range []string{ledTreatment, ledStrengthMG, ledDose, ledFrequency, ledDoseString, startDateColumn, stopDateColumn} {
		kind := frame.KindText
		if col == ledStrengthMG || col == ledDose || col == ledFrequency {
			kind = frame.KindNumber
		}
		f.AddColumn(col, kind)
	}
	f.AddColumn(leddColumn, frame.KindNumber)
	for _, row := range rows {
		f.AppendRow(row)
	}
	return f
}

func TestLEDDMedicationsKeepsExistingValue(t *testing.T) {
	row := leddRow("CARBIDOPA/LEVODOPA", 100, 1, 3)
	row[leddColumn] = frame.Number(425)

	out := LEDDMedications(newLEDDFrame(row))
	require.Equal(t, 1, out.NumRows())
	assert.Equal(t, "425", out.Value(0, leddColumn).String())
}

func TestLEDDMedicationsExcludesNonLEDDDrugs(t *testing.T) {
	out := LEDDMedications(newLEDDFrame(
		leddRow("BENZTROPINE MESYLATE", 1, 1, 1),
		leddRow("Cogentin", 1, 1, 1),
		leddRow("CARBIDOPA/LEVODOPA", 100, 1, 3),
	))
	require.Equal(t, 1, out.NumRows())
	assert.Equal(t, "CARBIDOPA/LEVODOPA", out.Value(0, ledTreatment).String())
}

func TestEquivalentDoseChain(t *testing.T) {
	tests := []struct {
		name     string
		row      map[string]frame.Scalar
		want     float64
		wantText string
		missing  bool
	}{
		{name: "fixed safinamide", row: leddRow("XADAGO", 50, 1, 2), want: 150},
		{name: "fixed trihexyphenidyl", row: leddRow("Trihexyphenidyl", 2, 1, 3), want: 100},
		{name: "duopa infusion", row: leddRow("DUOPA infusion", 100, 1, 1), want: 110},
		{name: "inhaled levodopa", row: leddRow("INBRIJA (levodopa inhal)", 42, 2, 1), want: 57.96},
		{name: "madopar", row: leddRow("MADOPAR", 100, 1, 2), want: 170},
		{name: "istradefylline factor", row: leddRow("NOURIANZ", 40, 1, 1), wantText: "LD x 0.2"},
		{name: "opicapone factor", row: leddRow("Opicapone", 50, 1, 1), wantText: "LD x 0.5"},
		{name: "entacapone factor", row: leddRow("ENTACAPONE", 200, 1, 3), wantText: "LD x 0.33"},
		{name: "pramipexole", row: leddRow("PRAMIPEXOLE", 0.5, 1, 3), want: 150},
		{name: "ropinirole", row: leddRow("ROPINIROLE", 2, 1, 3), want: 120},
		{name: "rotigotine", row: leddRow("NEUPRO (rotigotine)", 4, 1, 1), want: 121.2},
		{name: "amantadine plain", row: leddRow("AMANTADINE", 100, 1, 2), want: 200},
		{name: "amantadine cr", row: leddRow("Amantadine CR (GOCOVRI)", 137, 1, 1), want: 171.25},
		{name: "rytary", row: leddRow("RYTARY", 95, 2, 3), want: 285},
		{name: "sinemet retard", row: leddRow("SINEMET RETARD", 100, 1, 3), want: 225},
		{name: "plain carbidopa levodopa", row: leddRow("CARBIDOPA/LEVODOPA", 100, 1.5, 3), want: 450},
		{name: "unknown drug", row: leddRow("MYSTERY DRUG", 10, 1, 1), missing: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := LEDDMedications(newLEDDFrame(tt.row))
			require.Equal(t, 1, out.NumRows())
			got := out.Value(0, leddColumn)
			switch {
			case tt.missing:
				assert.True(t, got.IsMissing())
			case tt.wantText != "":
				assert.Equal(t, tt.wantText, got.String())
			default:
				n, ok := got.Float()
				require.True(t, ok)
				assert.InDelta(t, tt.want, n, 1e-9)
			}
		})
	}
}

func TestEquivalentDoseSelegilineRoutes(t *testing.T) {
	oral := leddRow("SELEGILINE", 5, 1, 2)
	oral[ledDoseString] = frame.Text("5 mg PO")
	out := LEDDMedications(newLEDDFrame(oral))
	assert.Equal(t, "100", out.Value(0, leddColumn).String())

	sub := leddRow("SELEGILINE", 1.25, 1, 1)
	sub[ledDoseString] = frame.Text("1.25 mg Sublingual")
	out = LEDDMedications(newLEDDFrame(sub))
	assert.Equal(t, "100", out.Value(0, leddColumn).String())
}

func TestLEDDMedicationsNormalizesDates(t *testing.T) {
	row := leddRow("CARBIDOPA/LEVODOPA", 100, 1, 3)
	row[startDateColumn] = frame.Text("6/2011")
	row[stopDateColumn] = frame.Text("garbage")

	out := LEDDMedications(newLEDDFrame(row))
	assert.Equal(t, "2011-06", out.Value(0, startDateColumn).String())
	assert.True(t, out.Value(0, stopDateColumn).IsMissing())
}

func TestEquivalentDoseMissingDoseParts(t *testing.T) {
	row := map[string]frame.Scalar{
		ledTreatment: frame.Text("ROPINIROLE"),
		ledDose:      frame.Number(1),
	}
	out := LEDDMedications(newLEDDFrame(row))
	assert.True(t, out.Value(0, leddColumn).IsMissing())
}
