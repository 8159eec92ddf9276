// Package loader reads a study data export from disk and shapes each
// modality folder into a frame keyed by subject and visit. Loaders are
// fail-safe: a missing folder or unreadable file is logged and skipped,
// and the worst outcome is an empty frame, never an error that stops a
// run.
package loader

import (
	"github.com/sells-group/cohort-cli/internal/consolidate"
)

// Column names shared by every source table.
const (
	SubjectColumn = "PATNO"
	EventColumn   = "EVENT_ID"
)

// Folder names inside a study export, one per modality.
const (
	FolderSubjectCharacteristics = "_Subject_Characteristics"
	FolderMedicalHistory         = "Medical_History"
	FolderMotor                  = "Motor___MDS-UPDRS"
	FolderNonMotor               = "Non-motor_Assessments"
	FolderBiospecimen            = "Biospecimen"
)

// Modality names accepted on the command line. Imaging and wearables are
// recognized but always load empty until those exports gain tabular form.
const (
	ModalitySubjectCharacteristics = "subject_characteristics"
	ModalityMedicalHistory         = "medical_history"
	ModalityMotor                  = "motor_assessments"
	ModalityNonMotor               = "non_motor_assessments"
	ModalityBiospecimen            = "biospecimen"
	ModalityImaging                = "imaging"
	ModalityWearables              = "wearables"
)

// AllModalities lists every modality in load order.
var AllModalities = []string{
	ModalitySubjectCharacteristics,
	ModalityMedicalHistory,
	ModalityMotor,
	ModalityNonMotor,
	ModalityBiospecimen,
}

// Loader reads modality folders under a study export root.
type Loader struct {
	// Tolerance is the relative closeness bound used when collapsing
	// join collision columns.
	Tolerance float64
}

// New returns a Loader with the given numeric tolerance. A zero or
// negative tolerance falls back to the package default.
func New(tolerance float64) *Loader {
	if tolerance <= 0 {
		tolerance = consolidate.DefaultTolerance
	}
	return &Loader{Tolerance: tolerance}
}

func eventKey(hasEvent bool) []string {
	if hasEvent {
		return []string{SubjectColumn, EventColumn}
	}
	return []string{SubjectColumn}
}
