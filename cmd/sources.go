package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/cohort-cli/internal/loader"
)

var (
	sourcesData       string
	sourcesModalities []string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the data sources discovered under the study folder",
	RunE: func(cmd *cobra.Command, _ []string) error {
		l := loader.New(cfg.Merge.Tolerance)
		srcs := gatherSources(l, dataPath(sourcesData), sourcesModalities)

		if len(srcs) == 0 {
			fmt.Fprintln(os.Stderr, "No sources found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SOURCE\tROWS\tCOLUMNS")
		for _, s := range srcs {
			rows, cols := 0, 0
			if s.Frame != nil {
				rows, cols = s.Frame.NumRows(), s.Frame.NumCols()
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\n", s.Name, rows, cols)
		}
		return tw.Flush()
	},
}

func init() {
	sourcesCmd.Flags().StringVar(&sourcesData, "data", "", "study folder (default: config data.path)")
	sourcesCmd.Flags().StringSliceVar(&sourcesModalities, "modality", nil, "modalities to load (default: all)")
	rootCmd.AddCommand(sourcesCmd)
}
