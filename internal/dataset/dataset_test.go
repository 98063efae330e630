package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "data.csv",
		"id,name,score\n1,alpha,10\n2,beta,20\n")

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	wantCols := []string{"id", "name", "score"}
	if len(tbl.Columns) != len(wantCols) {
		t.Fatalf("got %d columns, want %d", len(tbl.Columns), len(wantCols))
	}
	for i, c := range wantCols {
		if tbl.Columns[i] != c {
			t.Errorf("Columns[%d] = %q, want %q", i, tbl.Columns[i], c)
		}
	}

	if tbl.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", tbl.NumRows())
	}
	if tbl.Rows[1][1] != "beta" {
		t.Errorf("Rows[1][1] = %q, want %q", tbl.Rows[1][1], "beta")
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("error = %T, want *AccessError", err)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "empty.csv", "")

	_, err := ReadCSV(path)
	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("error = %v, want *AccessError", err)
	}
}

func TestColumn(t *testing.T) {
	tbl := New([]string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}})

	got, err := tbl.Column("b")
	if err != nil {
		t.Fatalf("Column() error = %v", err)
	}
	if got[0] != "x" || got[1] != "y" {
		t.Errorf("Column(b) = %v, want [x y]", got)
	}

	_, err = tbl.Column("missing")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if schemaErr.Column != "missing" {
		t.Errorf("SchemaError.Column = %q, want %q", schemaErr.Column, "missing")
	}
}

func TestRequire(t *testing.T) {
	tbl := New([]string{"a", "b"}, nil)

	if err := tbl.Require("a", "b"); err != nil {
		t.Errorf("Require(a, b) error = %v", err)
	}

	err := tbl.Require("a", "c", "d")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if schemaErr.Column != "c" {
		t.Errorf("SchemaError.Column = %q, want first missing column %q", schemaErr.Column, "c")
	}
}

func TestDrop(t *testing.T) {
	tbl := New([]string{"a", "b", "c"}, [][]string{{"1", "2", "3"}, {"4", "5", "6"}})

	dropped, err := tbl.Drop("b")
	if err != nil {
		t.Fatalf("Drop() error = %v", err)
	}

	if len(dropped.Columns) != 2 || dropped.Columns[0] != "a" || dropped.Columns[1] != "c" {
		t.Errorf("Columns = %v, want [a c]", dropped.Columns)
	}
	if dropped.Rows[0][1] != "3" || dropped.Rows[1][0] != "4" {
		t.Errorf("rows after drop = %v", dropped.Rows)
	}

	// Original untouched.
	if len(tbl.Columns) != 3 || tbl.Rows[0][1] != "2" {
		t.Errorf("original table modified: %v %v", tbl.Columns, tbl.Rows)
	}

	if _, err := tbl.Drop("nope"); err == nil {
		t.Error("expected SchemaError dropping absent column")
	}
}

func TestHead(t *testing.T) {
	tbl := New([]string{"a"}, [][]string{{"1"}, {"2"}, {"3"}})

	if got := tbl.Head(2).NumRows(); got != 2 {
		t.Errorf("Head(2).NumRows() = %d, want 2", got)
	}
	if got := tbl.Head(10).NumRows(); got != 3 {
		t.Errorf("Head(10).NumRows() = %d, want 3", got)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tbl := New([]string{"x", "y"}, [][]string{{"1", "a"}, {"2", "b"}})

	// Destination directory is created on demand.
	path := filepath.Join(dir, "nested", "out.csv")
	if err := tbl.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got.NumRows() != tbl.NumRows() {
		t.Errorf("round trip rows = %d, want %d", got.NumRows(), tbl.NumRows())
	}
	if got.Rows[1][1] != "b" {
		t.Errorf("round trip cell = %q, want %q", got.Rows[1][1], "b")
	}
}
