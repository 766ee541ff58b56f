package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/medfill/internal/dataset"
	"github.com/KaramelBytes/medfill/internal/impute"
	"github.com/KaramelBytes/medfill/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	modesOutput     string
	modesMaxGroups  int
	modesValues     bool
	modesSheetName  string
	modesSheetIndex int
)

var modesCmd = &cobra.Command{
	Use:   "modes [input]",
	Short: "Show the chemicalClass/actionClass mode of every therapeutic group",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		in := c.InputPath
		if len(args) > 0 {
			in = args[0]
		}
		in, err = utils.ExpandHome(in)
		if err != nil {
			return err
		}
		opt := dataset.LoadOptions{SheetName: c.SheetName, SheetIndex: c.SheetIndex}
		if cmd.Flags().Changed("sheet-name") {
			opt.SheetName = modesSheetName
		}
		if cmd.Flags().Changed("sheet-index") {
			opt.SheetIndex = modesSheetIndex
		}

		tab, err := dataset.Load(in, opt)
		if err != nil {
			return err
		}
		ft, err := impute.Aggregate(tab)
		if err != nil {
			return err
		}
		modes := impute.ComputeModes(ft)
		logger.Debug("modes computed", zap.String("input", in), zap.Int("groups", ft.Len()))

		s := impute.Summarize(tab.Name, ft, modes, nil)
		s.MaxGroups = modesMaxGroups
		s.ShowValues = modesValues
		md := s.Markdown()
		if modesOutput != "" {
			out, err := utils.ExpandHome(modesOutput)
			if err != nil {
				return err
			}
			if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
				return fmt.Errorf("ensure output dir: %w", err)
			}
			if err := utils.SafeWriteFile(out, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote group modes to %s\n", out)
			return nil
		}
		fmt.Print(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
	modesCmd.Flags().StringVarP(&modesOutput, "output", "o", "", "optional path to write the summary (Markdown)")
	modesCmd.Flags().IntVar(&modesMaxGroups, "max-groups", 0, "limit listed groups (0 = all)")
	modesCmd.Flags().BoolVar(&modesValues, "values", false, "list every distinct value with its count")
	modesCmd.Flags().StringVar(&modesSheetName, "sheet-name", "", "XLSX: sheet name to read")
	modesCmd.Flags().IntVar(&modesSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
