// Package transform fits a reusable column-wise feature transformation over
// a cleaned churn table and replays it on compatible tables.
//
// Numeric columns are mean-imputed then min-max scaled to [0,1]. Categorical
// columns are imputed with a constant placeholder then one-hot encoded over
// the vocabulary observed at fit time. The fitted state is a flat list of
// per-column specs so it serializes to a portable artifact.
package transform

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/churnprep/churnprep/internal/dataset"
)

// FillValue is the placeholder imputed into missing categorical cells.
const FillValue = "missing"

// ColumnKind discriminates the per-column transformation.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// ColumnSpec carries the fitted statistics for one input column. Which
// fields are meaningful depends on Kind: numeric columns use Mean/Min/Max,
// categorical columns use Fill/Categories.
type ColumnSpec struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`

	Mean float64 `json:"mean,omitempty"`
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`

	Fill       string   `json:"fill,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Width returns how many output features the column expands to.
func (s ColumnSpec) Width() int {
	if s.Kind == KindCategorical {
		return len(s.Categories)
	}
	return 1
}

// Transformer is a fitted column transformation. Column order is frozen at
// fit time: all numeric columns in their original table order, then all
// categorical columns in theirs, matching the output feature layout.
type Transformer struct {
	Version int          `json:"version"`
	Columns []ColumnSpec `json:"columns"`
}

// Fit learns per-column statistics from the table. Columns named in numeric
// are parsed as floats (a non-missing unparseable cell is a ParseError);
// every other column is treated as categorical.
func Fit(t *dataset.Table, numeric []string) (*Transformer, error) {
	numericSet := make(map[string]struct{}, len(numeric))
	for _, n := range numeric {
		numericSet[n] = struct{}{}
	}

	var numSpecs, catSpecs []ColumnSpec
	for _, name := range t.Columns {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if _, ok := numericSet[name]; ok {
			spec, err := fitNumeric(name, values)
			if err != nil {
				return nil, err
			}
			numSpecs = append(numSpecs, spec)
		} else {
			catSpecs = append(catSpecs, fitCategorical(name, values))
		}
	}

	return &Transformer{
		Version: artifactVersion,
		Columns: append(numSpecs, catSpecs...),
	}, nil
}

func fitNumeric(name string, values []string) (ColumnSpec, error) {
	var (
		sum   float64
		count int
		lo    = math.Inf(1)
		hi    = math.Inf(-1)
	)
	for row, v := range values {
		if v == dataset.Missing {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ColumnSpec{}, &dataset.ParseError{Column: name, Row: row, Value: v}
		}
		sum += f
		count++
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}

	spec := ColumnSpec{Name: name, Kind: KindNumeric}
	if count > 0 {
		spec.Mean = sum / float64(count)
		spec.Min = lo
		spec.Max = hi
	}
	return spec, nil
}

func fitCategorical(name string, values []string) ColumnSpec {
	seen := make(map[string]struct{})
	var categories []string
	for _, v := range values {
		if v == dataset.Missing {
			v = FillValue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		categories = append(categories, v)
	}
	sort.Strings(categories)

	return ColumnSpec{Name: name, Kind: KindCategorical, Fill: FillValue, Categories: categories}
}

// FeatureNames returns the output column labels in matrix order: numeric
// columns keep their names, categorical columns expand to "<column>_<category>".
func (tr *Transformer) FeatureNames() []string {
	var names []string
	for _, spec := range tr.Columns {
		switch spec.Kind {
		case KindCategorical:
			for _, c := range spec.Categories {
				names = append(names, spec.Name+"_"+c)
			}
		default:
			names = append(names, spec.Name)
		}
	}
	return names
}

// Width returns the total number of output features.
func (tr *Transformer) Width() int {
	w := 0
	for _, spec := range tr.Columns {
		w += spec.Width()
	}
	return w
}

// Transform applies the fitted transformation to a table of compatible
// schema, producing one fixed-length numeric vector per row. A column the
// transformer was fitted on must be present; a category unseen at fit time
// produces all-zero indicators for its column.
func (tr *Transformer) Transform(t *dataset.Table) ([][]float64, error) {
	indices := make([]int, len(tr.Columns))
	for i, spec := range tr.Columns {
		idx := t.ColumnIndex(spec.Name)
		if idx < 0 {
			return nil, &dataset.SchemaError{Column: spec.Name}
		}
		indices[i] = idx
	}

	width := tr.Width()
	out := make([][]float64, len(t.Rows))
	for r, row := range t.Rows {
		vec := make([]float64, 0, width)
		for i, spec := range tr.Columns {
			cell := row[indices[i]]
			switch spec.Kind {
			case KindNumeric:
				v, err := spec.applyNumeric(cell, r)
				if err != nil {
					return nil, err
				}
				vec = append(vec, v)
			case KindCategorical:
				vec = spec.applyCategorical(cell, vec)
			default:
				return nil, fmt.Errorf("transform: column %q has unknown kind %q", spec.Name, spec.Kind)
			}
		}
		out[r] = vec
	}
	return out, nil
}

func (s ColumnSpec) applyNumeric(cell string, row int) (float64, error) {
	v := s.Mean
	if cell != dataset.Missing {
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, &dataset.ParseError{Column: s.Name, Row: row, Value: cell}
		}
		v = f
	}
	// Constant columns scale to zero rather than dividing by zero.
	if s.Max == s.Min {
		return 0, nil
	}
	return (v - s.Min) / (s.Max - s.Min), nil
}

func (s ColumnSpec) applyCategorical(cell string, vec []float64) []float64 {
	if cell == dataset.Missing {
		cell = s.Fill
	}
	for _, c := range s.Categories {
		if c == cell {
			vec = append(vec, 1)
		} else {
			vec = append(vec, 0)
		}
	}
	return vec
}

// Matrix converts a transformed row set into a Table with feature-name
// headers, ready to be written as CSV.
func (tr *Transformer) Matrix(rows [][]float64) *dataset.Table {
	out := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		out[r] = cells
	}
	return dataset.New(tr.FeatureNames(), out)
}
