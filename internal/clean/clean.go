// Package clean applies the fixed value-normalization rules that make the
// churn feature space type-consistent before fitting.
package clean

import (
	"strconv"

	"github.com/churnprep/churnprep/internal/config"
	"github.com/churnprep/churnprep/internal/dataset"
)

// Canonical replacement values.
const (
	noInternetService = "No internet service"
	noPhoneService    = "No phone service"
	normalizedNo      = "No"
)

// Rules describes the cleaning applied to a raw churn table.
//
// The rules are independent and idempotent: applying them to an
// already-cleaned table produces no further change.
type Rules struct {
	// NoServiceColumns have "No internet service" replaced with "No".
	NoServiceColumns []string

	// NoPhoneColumn has "No phone service" replaced with "No".
	NoPhoneColumn string

	// CoerceColumn is parsed as floating point; cells that do not parse
	// become missing rather than failing the run.
	CoerceColumn string

	// DropColumns are removed entirely (identifier columns with no signal).
	DropColumns []string
}

// FromConfig builds the rule set for the configured schema.
func FromConfig(cols config.ColumnsConfig) Rules {
	r := Rules{
		NoServiceColumns: cols.InternetService,
		NoPhoneColumn:    cols.PhoneService,
		CoerceColumn:     cols.CoerceNumeric,
	}
	if cols.ID != "" {
		r.DropColumns = []string{cols.ID}
	}
	return r
}

// Apply runs the rules over a copy of the table. Columns a rule names that
// are not present are skipped, so the same rules work on inference-time
// tables that lack the target or identifier.
func (r Rules) Apply(t *dataset.Table) (*dataset.Table, error) {
	out := t.Clone()

	for _, name := range r.NoServiceColumns {
		replace(out, name, noInternetService, normalizedNo)
	}
	if r.NoPhoneColumn != "" {
		replace(out, r.NoPhoneColumn, noPhoneService, normalizedNo)
	}
	if r.CoerceColumn != "" {
		coerceNumeric(out, r.CoerceColumn)
	}

	for _, name := range r.DropColumns {
		if !out.HasColumn(name) {
			continue
		}
		dropped, err := out.Drop(name)
		if err != nil {
			return nil, err
		}
		out = dropped
	}
	return out, nil
}

func replace(t *dataset.Table, column, from, to string) {
	i := t.ColumnIndex(column)
	if i < 0 {
		return
	}
	for _, row := range t.Rows {
		if row[i] == from {
			row[i] = to
		}
	}
}

// coerceNumeric rewrites every parseable cell in canonical float form and
// blanks the rest. Tolerating malformed cells here is deliberate: the Telco
// export leaves TotalCharges blank for zero-tenure customers, and those rows
// must survive to be imputed downstream.
func coerceNumeric(t *dataset.Table, column string) {
	i := t.ColumnIndex(column)
	if i < 0 {
		return
	}
	for _, row := range t.Rows {
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			row[i] = dataset.Missing
			continue
		}
		row[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
}
