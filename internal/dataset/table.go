package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Column names the imputer depends on.
const (
	ColTherapeuticClass = "therapeuticClass"
	ColChemicalClass    = "chemicalClass"
	ColActionClass      = "actionClass"
)

// RequiredColumns must be present in every loaded header.
var RequiredColumns = []string{ColTherapeuticClass, ColChemicalClass, ColActionClass}

// Record is one row; values are positional and follow Table.Columns.
type Record []string

// Table is a fully materialized dataset.
type Table struct {
	Name    string
	Columns []string
	Records []Record

	index map[string]int
}

// NewTable builds a table from a header and rows. Rows are not copied.
func NewTable(name string, columns []string, records []Record) *Table {
	t := &Table{Name: name, Columns: columns, Records: records}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		// first occurrence wins on duplicate headers
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[name]
	return i, ok
}

// Get returns a record's value for the named column, or "" if the column is unknown.
func (t *Table) Get(r Record, name string) string {
	i, ok := t.ColumnIndex(name)
	if !ok || i >= len(r) {
		return ""
	}
	return r[i]
}

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.Records) }

// Clone returns a deep copy; edits to the clone never reach t.
func (t *Table) Clone() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	recs := make([]Record, len(t.Records))
	for i, r := range t.Records {
		cp := make(Record, len(r))
		copy(cp, r)
		recs[i] = cp
	}
	return NewTable(t.Name, cols, recs)
}

// RequireColumns reports a FormatError naming every missing column.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.ColumnIndex(n); !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &FormatError{Path: t.Name, Err: fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))}
	}
	return nil
}

// IsBlank reports whether v is empty after trimming whitespace.
func IsBlank(v string) bool { return strings.TrimSpace(v) == "" }

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
