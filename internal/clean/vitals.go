package clean

import (
	"github.com/sells-group/cohort-cli/internal/frame"
)

// Blood pressure band columns added to the vital signs table.
const (
	SupineBPCode    = "Sup BP code"
	SupineBPLabel   = "Sup BP label"
	StandingBPCode  = "Stnd BP code"
	StandingBPLabel = "Stnd BP label"
)

// bandBP labels a reading according to the American Heart Association
// blood pressure categories.
func bandBP(systolic, diastolic float64) (float64, string) {
	switch {
	case systolic < 120 && diastolic < 80:
		return 0, "Normal"
	case systolic < 130 && diastolic < 80:
		return 1, "Elevated"
	case systolic < 140 || diastolic < 90:
		return 2, "Stage 1 HTN"
	case systolic >= 180 || diastolic >= 120:
		return 4, "Hypertensive crisis"
	default:
		return 3, "Stage 2 HTN"
	}
}

// VitalSigns returns a copy of the vital signs table with banded
// blood pressure columns for the supine and standing measurements.
// Rows with unreadable pressures get missing bands.
func VitalSigns(f *frame.Frame) *frame.Frame {
	out := f.Clone()
	appendBand(out, "SYSSUP", "DIASUP", SupineBPCode, SupineBPLabel)
	appendBand(out, "SYSSTND", "DIASTND", StandingBPCode, StandingBPLabel)
	return out
}

func appendBand(f *frame.Frame, sysCol, diaCol, codeCol, labelCol string) {
	if !f.HasColumns(sysCol, diaCol) {
		return
	}
	n := f.NumRows()
	codes := make([]frame.Scalar, n)
	labels := make([]frame.Scalar, n)
	for r := 0; r < n; r++ {
		sys, okS := f.Value(r, sysCol).Float()
		dia, okD := f.Value(r, diaCol).Float()
		if !okS || !okD {
			continue
		}
		code, label := bandBP(sys, dia)
		codes[r] = frame.Number(code)
		labels[r] = frame.Text(label)
	}
	code := f.AddColumn(codeCol, frame.KindNumber)
	copy(code.Values, codes)
	label := f.AddColumn(labelCol, frame.KindText)
	copy(label.Values, labels)
}
