package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/KaramelBytes/medfill/internal/impute"
	"github.com/KaramelBytes/medfill/internal/runlog"
	"github.com/KaramelBytes/medfill/internal/utils"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Show a run report written by fill --report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		} else if c, err := currentConfig(); err == nil {
			path = c.ReportPath
		}
		if path == "" {
			return fmt.Errorf("no report path: pass one or set report_path")
		}
		path, err := utils.ExpandHome(path)
		if err != nil {
			return err
		}
		r, err := runlog.Load(path)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s\n", r.ID)
		fmt.Printf("  input:  %s\n", r.Input)
		fmt.Printf("  output: %s\n", r.Output)
		fmt.Printf("  rows: %d, groups: %d\n", r.Rows, r.Groups)
		if !r.FinishedAt.IsZero() {
			fmt.Printf("  took: %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
		}
		for _, c := range impute.TargetColumns {
			fmt.Printf("  %s: filled %d, left blank %d\n", c, r.Filled[c], r.Unfilled[c])
		}
		keys := make([]string, 0, len(r.Modes))
		for k := range r.Modes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m := r.Modes[k]
			fmt.Printf("  - %s: %s / %s\n", k, orNone(m[impute.TargetColumns[0]]), orNone(m[impute.TargetColumns[1]]))
		}
		return nil
	},
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
