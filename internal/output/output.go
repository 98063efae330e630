// Package output provides formatted rendering for preprocessing results and
// fitted artifacts. It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/churnprep/churnprep/internal/dataset"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Format returns the writer's configured format.
func (wr *Writer) Format() Format { return wr.format }

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteTable renders a dataset table. Text and table formats share the
// tabwriter rendering; JSON emits an array of row objects.
func (wr *Writer) WriteTable(t *dataset.Table) error {
	if wr.format == FormatJSON {
		rows := make([]map[string]string, len(t.Rows))
		for r, row := range t.Rows {
			m := make(map[string]string, len(t.Columns))
			for i, c := range t.Columns {
				m[c] = row[i]
			}
			rows[r] = m
		}
		return wr.WriteJSON(rows)
	}

	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	if wr.format == FormatTable {
		dashes := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			dashes[i] = strings.Repeat("-", len(c))
		}
		fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
