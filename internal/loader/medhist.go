package loader

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/frame"
)

// medicalHistoryPrefixes lists the file families in the medical
// history folder. These tables describe events rather than visits, so
// they are kept separate instead of being merged into one frame.
var medicalHistoryPrefixes = []string{
	"Adverse_Event",
	"AV-133_Prodromal",
	"C05-05_PET_Imaging_Substudy",
	"Clinical_Diagnosis",
	"Clinical_Global_Impression",
	"Concomitant_Medication",
	"Determination_of_Freezing_and_Falls",
	"DPA-714_PET_Imaging_Substudy_Adverse_Event",
	"Early_Imaging",
	"Features_of_Parkinsonism",
	"Features_of_REM_Behavior_Disorder",
	"Gait_Substudy_Adverse_Event",
	"General_Physical_Exam",
	"Initiation_of_Dopaminergic_Therapy",
	"LEDD_Concomitant_Medication",
	"Medical_Conditions",
	"Neurological_Exam",
	"Other_Clinical_Features",
	"Participant_Global_Impression",
	"PD_Diagnosis_History",
	"Pregnancy_Test",
	"Primary_Clincial_Diagnosis",
	"Procedure_for_PD_Log",
	"Report_of_Pregnancy",
	"SVA2_PET_Imaging_Substudy",
	"Tau_Substudy",
	"Vital_Signs",
}

// Table is a named frame, used where a modality keeps its tables
// separate.
type Table struct {
	Name  string
	Frame *frame.Frame
}

// MedicalHistory loads the medical history folder as a slice of named
// tables in prefix order. Later files with the same prefix replace
// earlier ones. Columns already carrying merge suffixes are renamed so
// downstream joins cannot clash with them.
func (l *Loader) MedicalHistory(dataPath string) []Table {
	folder := filepath.Join(dataPath, FolderMedicalHistory)
	if _, err := os.Stat(folder); err != nil {
		zap.L().Warn("modality folder not found",
			zap.String("folder", folder), zap.String("modality", ModalityMedicalHistory))
		return nil
	}

	files := dataFiles(folder)
	var tables []Table
	for _, prefix := range medicalHistoryPrefixes {
		matches := matchPrefix(files, prefix)
		if len(matches) == 0 {
			zap.L().Warn("no files for prefix", zap.String("prefix", prefix))
			continue
		}
		var f *frame.Frame
		for _, path := range matches {
			t, err := ReadTable(path)
			if err != nil {
				zap.L().Warn("could not read file", zap.String("path", path), zap.Error(err))
				continue
			}
			consolidate.SanitizeSuffixes(t)
			f = t
		}
		if f != nil {
			tables = append(tables, Table{Name: prefix, Frame: f})
		}
	}

	if len(tables) == 0 {
		zap.L().Warn("no medical history files loaded")
	}
	return tables
}
