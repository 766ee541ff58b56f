package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/medfill/internal/utils"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadOptions selects what to read from multi-sheet sources.
type LoadOptions struct {
	// SheetName picks an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based XLSX sheet used when SheetName is empty.
	SheetIndex int
}

// Load reads a dataset with a header row. Files ending in .xlsx are read as
// workbooks; everything else is parsed as comma-separated UTF-8 text.
func Load(path string, opt LoadOptions) (*Table, error) {
	if isXLSX(path) {
		return loadXLSX(path, opt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return ReadCSV(path, f)
}

// ReadCSV parses comma-separated text from r. name labels errors and the table.
// Every row must have as many fields as the header. Line breaks inside quoted
// fields are kept byte for byte, including "\r\n".
func ReadCSV(name string, r io.Reader) (*Table, error) {
	// Strip a UTF-8 BOM if present; other bytes pass through untouched.
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}
	data, mark := protectQuotedCRLF(data)
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Path: name, Err: errors.New("no header row")}
		}
		return nil, classifyReadErr(name, err)
	}
	t := &Table{Name: filepath.Base(name), Columns: restoreCRLF(header, mark)}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, classifyReadErr(name, err)
		}
		t.Records = append(t.Records, Record(restoreCRLF(rec, mark)))
	}
	t.reindex()
	return t, nil
}

// protectQuotedCRLF swaps the '\r' of every "\r\n" inside a quoted span for a
// private-use rune absent from data, since csv.Reader folds those pairs to
// "\n". The '\n' stays so parse errors keep their line numbers. mark is ""
// when nothing was replaced.
func protectQuotedCRLF(data []byte) (out []byte, mark string) {
	if !bytes.Contains(data, []byte("\r\n")) {
		return data, ""
	}
	for r := rune(0xE000); r <= 0xF8FF; r++ {
		if m := string(r); !bytes.Contains(data, []byte(m)) {
			mark = m
			break
		}
	}
	if mark == "" {
		return data, ""
	}
	var b bytes.Buffer
	b.Grow(len(data))
	inQuote := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote && c == '\r' && i+1 < len(data) && data[i+1] == '\n':
			b.WriteString(mark)
			continue
		}
		b.WriteByte(c)
	}
	return b.Bytes(), mark
}

func restoreCRLF(fields []string, mark string) []string {
	if mark == "" {
		return fields
	}
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, mark+"\n", "\r\n")
	}
	return fields
}

func classifyReadErr(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Path: name, Line: pe.Line, Err: pe.Err}
	}
	return &IOError{Op: "read", Path: name, Err: err}
}

// Write persists t to path, header first, rows in order. The destination is
// replaced atomically. Tables without records are rejected with EmptyInputError
// before the destination is touched.
func Write(path string, t *Table) error {
	if t == nil || len(t.Records) == 0 {
		return &EmptyInputError{Path: path}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := utils.EnsureDir(dir); err != nil {
			return &IOError{Op: "create", Path: path, Err: err}
		}
	}
	if isXLSX(path) {
		return writeXLSX(path, t)
	}
	err := utils.SafeWrite(path, func(w io.Writer) error {
		return WriteCSV(w, t)
	})
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// WriteCSV encodes t as comma-separated text.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Records {
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
