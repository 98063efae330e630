package dataset

import "fmt"

// AccessError reports a file that could not be read or written.
type AccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("dataset: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// SchemaError reports an expected column missing from a table.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset: missing column %q", e.Column)
}

// ParseError reports a cell in a numeric column that could not be parsed.
type ParseError struct {
	Column string
	Row    int
	Value  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset: column %q row %d: cannot parse %q as number", e.Column, e.Row, e.Value)
}
