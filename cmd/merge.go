package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/clean"
	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/frame"
	"github.com/sells-group/cohort-cli/internal/loader"
	"github.com/sells-group/cohort-cli/internal/store"
)

var (
	mergeData       string
	mergeOut        string
	mergeModalities []string
	mergeInclude    []string
	mergeExclude    []string
	mergeToStore    bool
	mergeReportPath string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge all data sources into one wide cohort table",
	Long: `Loads the requested modalities, cleans medical history, and consolidates
every source into a single table keyed by subject and visit. The merged table
is written as CSV; with --store it is also saved to the configured database
together with the run report.

Examples:
  # Merge everything under the configured data folder
  cohort-cli merge

  # Merge only motor and biospecimen sources, skip one project
  cohort-cli merge --modality motor_assessments --modality biospecimen \
    --exclude project_9000_pQTL_CSF

  # Persist the merged table and report to the configured database
  cohort-cli merge --store`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		l := loader.New(cfg.Merge.Tolerance)
		sources := gatherSources(l, dataPath(mergeData), mergeModalities)
		if len(sources) == 0 {
			return eris.New("merge: no data sources found")
		}

		merged, report := consolidate.Consolidate(sources, consolidate.Options{
			Key:           cfg.Merge.Key,
			SubjectPrefix: cfg.Merge.SubjectPrefix,
			Tolerance:     cfg.Merge.Tolerance,
			Include:       append(cfg.Merge.Include, mergeInclude...),
			Exclude:       append(cfg.Merge.Exclude, mergeExclude...),
		})

		if cfg.Clean.Enabled {
			sched, err := visitSchedule()
			if err != nil {
				return err
			}
			clean.AnnotateVisitMonths(merged, sched, loader.EventColumn)
		}

		outPath := mergeOut
		if outPath == "" {
			if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
				return eris.Wrapf(err, "merge: create output dir %s", cfg.Output.Dir)
			}
			outPath = filepath.Join(cfg.Output.Dir, "cohort.csv")
		}
		if err := writeFrameCSV(outPath, merged); err != nil {
			return err
		}
		zap.L().Info("wrote merged table",
			zap.String("run_id", report.RunID),
			zap.String("path", outPath),
			zap.Int("rows", report.Rows),
			zap.Int("columns", report.Columns),
		)

		if mergeReportPath != "" {
			if err := writeReport(mergeReportPath, report); err != nil {
				return err
			}
		}

		if mergeToStore {
			if err := saveToStore(cmd, merged, report); err != nil {
				return err
			}
		}

		fmt.Printf("Merged %d sources into %s: %d rows x %d columns (run %s)\n",
			len(report.Sources), outPath, report.Rows, report.Columns, report.RunID)
		return nil
	},
}

// visitSchedule loads the configured schedule override, or the embedded one.
func visitSchedule() (*clean.Schedule, error) {
	if cfg.Clean.SchedulePath == "" {
		return clean.DefaultSchedule(), nil
	}
	return clean.LoadSchedule(cfg.Clean.SchedulePath)
}

func writeReport(path string, report *consolidate.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "merge: marshal report")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "merge: write report %s", path)
}

func saveToStore(cmd *cobra.Command, merged *frame.Frame, report *consolidate.Report) error {
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	if err := st.SaveTable(ctx, "cohort", merged); err != nil {
		return err
	}
	if err := st.SaveRun(ctx, report); err != nil {
		return err
	}
	zap.L().Info("saved merged table to store",
		zap.String("driver", cfg.Store.Driver),
		zap.String("run_id", report.RunID),
	)
	return nil
}

func init() {
	mergeCmd.Flags().StringVar(&mergeData, "data", "", "study folder (default: config data.path)")
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "merged CSV path (default: <output.dir>/cohort.csv)")
	mergeCmd.Flags().StringSliceVar(&mergeModalities, "modality", nil, "modalities to load (default: all)")
	mergeCmd.Flags().StringSliceVar(&mergeInclude, "include", nil, "only merge these sources")
	mergeCmd.Flags().StringSliceVar(&mergeExclude, "exclude", nil, "merge all but these sources")
	mergeCmd.Flags().BoolVar(&mergeToStore, "store", false, "also save the merged table and report to the configured database")
	mergeCmd.Flags().StringVar(&mergeReportPath, "report", "", "write the run report JSON to this path")
	rootCmd.AddCommand(mergeCmd)
}
