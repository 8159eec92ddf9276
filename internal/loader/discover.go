package loader

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// dataFiles walks root recursively and returns every CSV and XLSX file
// in sorted order. Walk errors are logged and the affected subtree is
// skipped.
func dataFiles(root string) []string {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			zap.L().Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".csv", ".xlsx":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("walk failed", zap.String("root", root), zap.Error(err))
	}
	sort.Strings(files)
	return files
}

// matchPrefix filters files whose basename starts with prefix. The
// match is case sensitive, mirroring the export's file naming.
func matchPrefix(files []string, prefix string) []string {
	var out []string
	for _, f := range files {
		if strings.HasPrefix(filepath.Base(f), prefix) {
			out = append(out, f)
		}
	}
	return out
}
