package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/frame"
	"github.com/sells-group/cohort-cli/internal/loader"
)

var (
	loadData       string
	loadOut        string
	loadModalities []string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load each modality and write it out as per-source CSV files",
	Long: `Loads the requested modalities from the study folder and writes every
source as its own CSV under the output directory. Medical history tables are
cleaned first unless cleaning is disabled in config.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outDir := loadOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrapf(err, "load: create output dir %s", outDir)
		}

		l := loader.New(cfg.Merge.Tolerance)
		modalities := loadModalities
		if len(modalities) == 0 {
			modalities = cfg.Data.Modalities
		}
		if len(modalities) == 0 {
			modalities = loader.AllModalities
		}

		written := 0
		for _, m := range modalities {
			dir := outDir
			if m == loader.ModalityMedicalHistory {
				// Medical history stays a folder of separate tables.
				dir = filepath.Join(outDir, "medical_history")
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return eris.Wrapf(err, "load: create output dir %s", dir)
				}
			}
			for _, s := range gatherSources(l, dataPath(loadData), []string{m}) {
				if s.Frame == nil || s.Frame.Empty() {
					zap.L().Warn("skipping empty source", zap.String("source", s.Name))
					continue
				}
				path := filepath.Join(dir, s.Name+".csv")
				if err := writeFrameCSV(path, s.Frame); err != nil {
					return err
				}
				zap.L().Info("wrote source",
					zap.String("source", s.Name),
					zap.String("path", path),
					zap.Int("rows", s.Frame.NumRows()),
					zap.Int("columns", s.Frame.NumCols()),
				)
				written++
			}
		}
		zap.L().Info("load complete", zap.Int("sources", written))
		return nil
	},
}

func writeFrameCSV(path string, f *frame.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "load: create %s", path)
	}
	defer out.Close()

	if err := frame.WriteCSV(out, f, cfg.Output.ChunkSize); err != nil {
		return eris.Wrapf(err, "load: write %s", path)
	}
	return eris.Wrapf(out.Close(), "load: close %s", path)
}

func init() {
	loadCmd.Flags().StringVar(&loadData, "data", "", "study folder (default: config data.path)")
	loadCmd.Flags().StringVar(&loadOut, "out", "", "output directory (default: config output.dir)")
	loadCmd.Flags().StringSliceVar(&loadModalities, "modality", nil, "modalities to load (default: all)")
	rootCmd.AddCommand(loadCmd)
}
