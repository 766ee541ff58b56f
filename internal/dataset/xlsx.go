package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/medfill/internal/utils"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

// loadXLSX reads the selected sheet; row 1 is the header.
// If opt.SheetName is empty and opt.SheetIndex <= 0, the first sheet is used.
func loadXLSX(path string, opt LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FormatError{Path: path, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheet, err := pickSheet(f, opt)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &FormatError{Path: path, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	// blank lines are skipped, matching the CSV reader
	var nonEmpty [][]string
	var lines []int
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		nonEmpty = append(nonEmpty, r)
		lines = append(lines, i+1)
	}
	if len(nonEmpty) == 0 {
		return nil, &FormatError{Path: path, Err: errors.New("no header row")}
	}
	header := nonEmpty[0]
	ncol := len(header)
	t := &Table{Name: filepath.Base(path), Columns: header}
	for i, r := range nonEmpty[1:] {
		if len(r) > ncol {
			return nil, &FormatError{Path: path, Line: lines[i+1], Err: fmt.Errorf("row has %d cells, header has %d", len(r), ncol)}
		}
		// excelize trims trailing empty cells; pad back to header width
		rec := make(Record, ncol)
		copy(rec, r)
		t.Records = append(t.Records, rec)
	}
	t.reindex()
	return t, nil
}

func pickSheet(f *excelize.File, opt LoadOptions) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found; available sheets: %s", opt.SheetName, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}

func writeXLSX(path string, t *Table) error {
	x := excelize.NewFile()
	defer x.Close()
	put := func(row int, vals []string) error {
		for c, v := range vals {
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return err
			}
			if err := x.SetCellStr(xlsxSheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}
	if err := put(1, t.Columns); err != nil {
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("header: %w", err)}
	}
	for i, r := range t.Records {
		if err := put(i+2, r); err != nil {
			return &IOError{Op: "write", Path: path, Err: fmt.Errorf("row %d: %w", i+1, err)}
		}
	}
	err := utils.SafeWrite(path, func(w io.Writer) error {
		_, err := x.WriteTo(w)
		return err
	})
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
