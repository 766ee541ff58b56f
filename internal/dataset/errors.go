package dataset

import "fmt"

// IOError indicates the source could not be read or the destination could not be written.
type IOError struct {
	Op   string // open|read|create|write|rename
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "io error"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError indicates malformed tabular input: no header, ragged rows,
// bad quoting, or a required column missing from the header.
type FormatError struct {
	Path string
	Line int // 0 when not tied to a specific line
	Err  error
}

func (e *FormatError) Error() string {
	if e == nil {
		return "format error"
	}
	if e.Line > 0 {
		return fmt.Sprintf("malformed dataset %s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("malformed dataset %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// EmptyInputError is returned when a table with zero records is written.
// The caller must guard this case rather than emit a header-only file.
type EmptyInputError struct {
	Path string
}

func (e *EmptyInputError) Error() string {
	if e == nil || e.Path == "" {
		return "no data rows to write"
	}
	return fmt.Sprintf("no data rows to write to %s", e.Path)
}
