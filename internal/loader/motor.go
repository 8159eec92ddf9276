package loader

import (
	"path/filepath"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// motorPrefixes lists the file families in the motor assessments
// folder. MDS-UPDRS_Part_I also matches Parts II through IV and the
// patient questionnaire variants.
var motorPrefixes = []string{
	"Gait_Data___Arm_swing",
	"Gait_Substudy_Gait_Mobility_Assessment",
	"MDS-UPDRS_Part_I",
	"Modified_Schwab",
	"Neuro_QoL",
	"Participant_Motor_Function",
}

// MotorAssessments loads and merges the motor assessments folder into
// one frame with unique subject and visit keys.
func (l *Loader) MotorAssessments(dataPath string) *frame.Frame {
	folder := filepath.Join(dataPath, FolderMotor)
	return l.loadJoined(folder, motorPrefixes, ModalityMotor)
}
