// Package dataset provides an in-memory tabular dataset backed by CSV files.
//
// A Table keeps column order and row order exactly as read. Cells are raw
// strings; the empty string is the missing-value marker used throughout the
// preprocessing pipeline.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Missing is the cell value representing a missing observation.
const Missing = ""

// Table is an ordered collection of named columns over row-major cells.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New creates a Table from column names and rows. Row widths are not
// validated here; ReadCSV guarantees rectangular input.
func New(columns []string, rows [][]string) *Table {
	return &Table{Columns: columns, Rows: rows, index: buildIndex(columns)}
}

func buildIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return idx
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	if t.index == nil {
		t.index = buildIndex(t.Columns)
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Column returns the named column's values in row order.
func (t *Table) Column(name string) ([]string, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, &SchemaError{Column: name}
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Require verifies that every named column is present, returning a
// SchemaError naming the first one that is not.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if !t.HasColumn(n) {
			return &SchemaError{Column: n}
		}
	}
	return nil
}

// Drop returns a copy of the table without the named column. Dropping an
// absent column is a SchemaError.
func (t *Table) Drop(name string) (*Table, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, &SchemaError{Column: name}
	}

	cols := make([]string, 0, len(t.Columns)-1)
	cols = append(cols, t.Columns[:i]...)
	cols = append(cols, t.Columns[i+1:]...)

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		nr := make([]string, 0, len(row)-1)
		nr = append(nr, row[:i]...)
		nr = append(nr, row[i+1:]...)
		rows[r] = nr
	}
	return New(cols, rows), nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := append([]string(nil), t.Columns...)
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		rows[r] = append([]string(nil), row...)
	}
	return New(cols, rows)
}

// Head returns a table holding at most n leading rows, sharing cell slices
// with the receiver.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return New(t.Columns, t.Rows[:n])
}

// ReadCSV loads a comma-delimited file with a header row into a Table.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AccessError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, &AccessError{Path: path, Op: "read", Err: fmt.Errorf("empty file")}
	}
	if err != nil {
		return nil, &AccessError{Path: path, Op: "read", Err: err}
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &AccessError{Path: path, Op: "read", Err: err}
		}
		rows = append(rows, record)
	}

	return New(header, rows), nil
}

// WriteCSV writes the table as a comma-delimited file with a header row,
// creating the destination directory if needed.
func (t *Table) WriteCSV(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &AccessError{Path: path, Op: "mkdir", Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &AccessError{Path: path, Op: "create", Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return &AccessError{Path: path, Op: "write", Err: err}
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return &AccessError{Path: path, Op: "write", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &AccessError{Path: path, Op: "write", Err: err}
	}
	return nil
}
