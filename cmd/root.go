package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/clean"
	"github.com/sells-group/cohort-cli/internal/config"
	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/loader"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cohort-cli",
	Short: "Consolidates longitudinal study tables into one cohort file",
	Long:  "Discovers downloaded study CSV/XLSX tables by modality, cleans medical history records, and merges everything into a single wide table keyed by subject and visit.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// dataPath resolves the study folder, preferring the --data flag.
func dataPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Data.Path
}

// gatherSources loads the requested modalities as consolidation sources,
// cleaning medical history tables first when cleaning is enabled.
func gatherSources(l *loader.Loader, path string, modalities []string) []consolidate.Source {
	if len(modalities) == 0 {
		modalities = cfg.Data.Modalities
	}
	if len(modalities) == 0 {
		modalities = loader.AllModalities
	}

	var sources []consolidate.Source
	for _, m := range modalities {
		if m == loader.ModalityMedicalHistory && cfg.Clean.Enabled {
			tables := clean.MedicalHistory(l.MedicalHistory(path), cfg.Clean.UncertainValue)
			for _, t := range tables {
				sources = append(sources, consolidate.Source{Name: t.Name, Frame: t.Frame})
			}
			continue
		}
		sources = append(sources, l.Sources(path, []string{m}, cfg.Data.BiospecExclude)...)
	}
	return sources
}
