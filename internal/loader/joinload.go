package loader

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/frame"
)

// loadJoined reads every file matching the given prefixes under folder
// and folds them into one frame. Files are outer-joined on PATNO, plus
// EVENT_ID when both sides carry it, and join collision columns are
// collapsed after each merge. The result is aggregated so each key
// appears once.
func (l *Loader) loadJoined(folder string, prefixes []string, name string) *frame.Frame {
	if _, err := os.Stat(folder); err != nil {
		zap.L().Warn("modality folder not found", zap.String("folder", folder), zap.String("modality", name))
		return frame.New()
	}

	files := dataFiles(folder)
	var merged *frame.Frame

	for _, prefix := range prefixes {
		matches := matchPrefix(files, prefix)
		if len(matches) == 0 {
			zap.L().Debug("no files for prefix", zap.String("prefix", prefix), zap.String("modality", name))
			continue
		}
		for _, path := range matches {
			f, err := ReadTable(path)
			if err != nil {
				zap.L().Error("could not read file", zap.String("path", path), zap.Error(err))
				continue
			}
			if !f.HasColumn(SubjectColumn) {
				zap.L().Warn("file missing subject column, skipping", zap.String("path", path))
				continue
			}
			consolidate.SanitizeSuffixes(f)

			if merged == nil {
				merged = f
				continue
			}
			on := []string{SubjectColumn}
			if merged.HasColumn(EventColumn) && f.HasColumn(EventColumn) {
				on = append(on, EventColumn)
			} else {
				zap.L().Debug("merging on subject only",
					zap.String("file", filepath.Base(path)), zap.String("modality", name))
			}
			out, err := frame.Join(merged, f, on, frame.OuterJoin, frame.DefaultSuffixes)
			if err != nil {
				zap.L().Error("merge failed", zap.String("file", filepath.Base(path)), zap.Error(err))
				continue
			}
			merged = consolidate.DeduplicateSuffixes(out, l.Tolerance)
		}
	}

	if merged == nil || merged.Empty() {
		zap.L().Warn("no files loaded for modality", zap.String("modality", name))
		return frame.New()
	}
	return consolidate.AggregateByKey(merged, eventKey(merged.HasColumn(EventColumn)), name)
}
