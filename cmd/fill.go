package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/medfill/internal/dataset"
	"github.com/KaramelBytes/medfill/internal/impute"
	"github.com/KaramelBytes/medfill/internal/runlog"
	"github.com/KaramelBytes/medfill/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fillInput      string
	fillOutput     string
	fillReport     string
	fillSheetName  string
	fillSheetIndex int
	fillSummary    bool
	fillQuiet      bool
)

var fillCmd = &cobra.Command{
	Use:   "fill [input] [output]",
	Short: "Fill blank chemicalClass/actionClass cells with the therapeutic group mode",
	Long: `Fill loads the catalog, counts non-blank chemicalClass and actionClass values
per therapeuticClass, and writes a copy where blank cells hold the group's most
frequent value. Groups with no observed value keep the cell empty.

Positional arguments override --input/--output, which override config.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		opts := *c
		f := cmd.Flags()
		if f.Changed("input") {
			opts.InputPath = fillInput
		}
		if f.Changed("output") {
			opts.OutputPath = fillOutput
		}
		if f.Changed("report") {
			opts.ReportPath = fillReport
		}
		if f.Changed("sheet-name") {
			opts.SheetName = fillSheetName
		}
		if f.Changed("sheet-index") {
			opts.SheetIndex = fillSheetIndex
		}
		if len(args) > 0 {
			opts.InputPath = args[0]
		}
		if len(args) > 1 {
			opts.OutputPath = args[1]
		}
		if err := opts.Validate(); err != nil {
			return err
		}
		in, err := utils.ExpandHome(opts.InputPath)
		if err != nil {
			return err
		}
		out, err := utils.ExpandHome(opts.OutputPath)
		if err != nil {
			return err
		}
		report, err := utils.ExpandHome(opts.ReportPath)
		if err != nil {
			return err
		}

		run := runlog.New(in, out)
		log := logger.With(zap.String("run_id", run.ID))
		log.Info("loading dataset", zap.String("input", in))
		tab, err := dataset.Load(in, dataset.LoadOptions{SheetName: opts.SheetName, SheetIndex: opts.SheetIndex})
		if err != nil {
			return err
		}
		log.Debug("dataset loaded", zap.Int("rows", tab.Len()), zap.Strings("columns", tab.Columns))
		if tab.Len() == 0 {
			return &dataset.EmptyInputError{Path: out}
		}

		filled, res, err := impute.Run(tab)
		if err != nil {
			return err
		}
		for _, key := range res.Frequencies.Keys() {
			log.Debug("group mode",
				zap.String("group", key),
				zap.String(dataset.ColChemicalClass, res.Modes.Lookup(key, dataset.ColChemicalClass)),
				zap.String(dataset.ColActionClass, res.Modes.Lookup(key, dataset.ColActionClass)))
		}

		if err := dataset.Write(out, filled); err != nil {
			return err
		}
		log.Info("dataset written",
			zap.String("output", out),
			zap.Int("rows", res.Stats.Rows),
			zap.Int("groups", res.Frequencies.Len()),
			zap.Int("filled", res.Stats.TotalFilled()))

		if report != "" {
			run.Record(res)
			if err := run.Save(report); err != nil {
				return fmt.Errorf("write run report: %w", err)
			}
			log.Info("run report written", zap.String("path", report))
		}

		if fillQuiet {
			return nil
		}
		if fillSummary {
			fmt.Println(impute.Summarize(tab.Name, res.Frequencies, res.Modes, &res.Stats).Markdown())
		}
		fmt.Println("✓ Filled CSV written to", out)
		var parts []string
		for _, col := range impute.TargetColumns {
			parts = append(parts, fmt.Sprintf("%s %d", col, res.Stats.Filled[col]))
		}
		fmt.Printf("  %d rows, %d groups; filled %s\n", res.Stats.Rows, res.Frequencies.Len(), strings.Join(parts, ", "))
		if n := res.Stats.Unfilled[dataset.ColChemicalClass] + res.Stats.Unfilled[dataset.ColActionClass]; n > 0 {
			fmt.Printf("⚠ %d blank cell(s) left empty: their group has no observed value\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fillCmd)
	fillCmd.Flags().StringVarP(&fillInput, "input", "i", "", "input dataset (.csv or .xlsx)")
	fillCmd.Flags().StringVarP(&fillOutput, "output", "o", "", "output dataset (.csv or .xlsx)")
	fillCmd.Flags().StringVar(&fillReport, "report", "", "optional path for a JSON run report")
	fillCmd.Flags().StringVar(&fillSheetName, "sheet-name", "", "XLSX: sheet name to read")
	fillCmd.Flags().IntVar(&fillSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fillCmd.Flags().BoolVar(&fillSummary, "summary", false, "print per-group modes and fill counts")
	fillCmd.Flags().BoolVar(&fillQuiet, "quiet", false, "suppress non-essential output")
}
