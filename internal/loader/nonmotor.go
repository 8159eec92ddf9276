package loader

import (
	"path/filepath"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// nonMotorPrefixes lists the file families in the non-motor
// assessments folder. The Neuro_QoL prefixes are spelled out in full
// because the motor folder carries its own Neuro_QoL files.
var nonMotorPrefixes = []string{
	"Benton_Judgement",
	"Clock_Drawing",
	"Cognitive_Categorization",
	"Cognitive_Change",
	"Epworth_Sleepiness_Scale",
	"Geriatric_Depression_Scale",
	"Hopkins_Verbal_Learning_Test",
	"IDEA_Cognitive_Screen",
	"Letter_-_Number_Sequencing",
	"Lexical_Fluency",
	"Modified_Boston_Naming_Test",
	"Modified_Semantic_Fluency",
	"Montreal_Cognitive_Assessment",
	"Neuro_QoL__Cognition",
	"Neuro_QoL__Communication",
	"PDAQ-27",
	"QUIP-Current-Short",
	"REM_Sleep_Behavior_Disorder_Questionnaire",
	"SCOPA-AUT",
	"State-Trait_Anxiety_Inventory",
	"Symbol_Digit_Modalities",
	"Trail_Making",
	"University_of_Pennsylvania_Smell_Identification",
}

// NonMotorAssessments loads and merges the non-motor assessments
// folder into one frame with unique subject and visit keys.
func (l *Loader) NonMotorAssessments(dataPath string) *frame.Frame {
	folder := filepath.Join(dataPath, FolderNonMotor)
	return l.loadJoined(folder, nonMotorPrefixes, ModalityNonMotor)
}
