package loader

import (
	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/consolidate"
)

// Sources loads the requested modalities from a study export and
// returns them as named consolidation sources. Medical history tables
// and biospecimen projects each become their own source, so they can
// be filtered and prefixed individually. An empty modality list loads
// everything.
func (l *Loader) Sources(dataPath string, modalities []string, biospecExclude []string) []consolidate.Source {
	if len(modalities) == 0 {
		modalities = AllModalities
	}
	var sources []consolidate.Source
	for _, m := range modalities {
		zap.L().Info("loading modality", zap.String("modality", m))
		switch m {
		case ModalitySubjectCharacteristics:
			sources = append(sources, consolidate.Source{Name: m, Frame: l.SubjectCharacteristics(dataPath)})
		case ModalityMotor:
			sources = append(sources, consolidate.Source{Name: m, Frame: l.MotorAssessments(dataPath)})
		case ModalityNonMotor:
			sources = append(sources, consolidate.Source{Name: m, Frame: l.NonMotorAssessments(dataPath)})
		case ModalityMedicalHistory:
			for _, t := range l.MedicalHistory(dataPath) {
				sources = append(sources, consolidate.Source{Name: t.Name, Frame: t.Frame})
			}
		case ModalityBiospecimen:
			sources = append(sources, l.Biospecimen(dataPath, biospecExclude)...)
		case ModalityImaging:
			sources = append(sources, consolidate.Source{Name: m, Frame: l.Imaging(dataPath)})
		case ModalityWearables:
			sources = append(sources, consolidate.Source{Name: m, Frame: l.Wearables(dataPath)})
		default:
			zap.L().Warn("unknown modality", zap.String("modality", m))
		}
	}
	return sources
}
