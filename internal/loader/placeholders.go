package loader

import (
	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// Imaging returns an empty table. Imaging exports are not part of the
// tabular study download this tool consumes.
func (l *Loader) Imaging(dataPath string) *frame.Frame {
	zap.L().Debug("imaging data not supported in this export", zap.String("path", dataPath))
	return frame.New()
}

// Wearables returns an empty table. Wearable device exports ship in a
// separate format this tool does not consume.
func (l *Loader) Wearables(dataPath string) *frame.Frame {
	zap.L().Debug("wearables data not supported in this export", zap.String("path", dataPath))
	return frame.New()
}
