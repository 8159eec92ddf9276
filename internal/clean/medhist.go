package clean

import (
	"github.com/sells-group/cohort-cli/internal/loader"
)

// MedicalHistory applies the per-table recodings to the medical
// history tables that have them. Tables without a cleaner pass through
// untouched.
func MedicalHistory(tables []loader.Table, uncertain float64) []loader.Table {
	out := make([]loader.Table, len(tables))
	for i, t := range tables {
		switch t.Name {
		case "LEDD_Concomitant_Medication":
			t.Frame = LEDDMedications(t.Frame)
		case "Concomitant_Medication":
			t.Frame = ConcomitantMedications(t.Frame)
		case "Vital_Signs":
			t.Frame = VitalSigns(t.Frame)
		case "Features_of_Parkinsonism":
			t.Frame = FeaturesOfParkinsonism(t.Frame, uncertain)
		case "General_Physical_Exam":
			t.Frame = GeneralPhysicalExam(t.Frame, uncertain)
		}
		out[i] = t
	}
	return out
}
