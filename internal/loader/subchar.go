package loader

import (
	"path/filepath"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// subjectCharacteristicPrefixes lists the file families that make up
// the subject characteristics modality.
var subjectCharacteristicPrefixes = []string{
	"Age_at_visit",
	"Demographics",
	"Family_History",
	"iu_genetic_consensus",
	"Participant_Status",
	"PPMI_PD_Variants",
	"PPMI_Project_9001",
	"Socio-Economics",
	"Subject_Cohort_History",
}

// SubjectCharacteristics loads and merges the subject characteristics
// folder into one frame with unique subject and visit keys.
func (l *Loader) SubjectCharacteristics(dataPath string) *frame.Frame {
	folder := filepath.Join(dataPath, FolderSubjectCharacteristics)
	return l.loadJoined(folder, subjectCharacteristicPrefixes, ModalitySubjectCharacteristics)
}
