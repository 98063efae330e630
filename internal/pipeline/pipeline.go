// Package pipeline orchestrates the churn preprocessing run.
//
// The run is a single synchronous pass: load, clean, split, encode the
// target, fit-transform the features, persist. Any stage failure aborts the
// run; artifacts already written stay on disk as-is.
package pipeline

import (
	"strconv"

	"github.com/churnprep/churnprep/internal/clean"
	"github.com/churnprep/churnprep/internal/config"
	"github.com/churnprep/churnprep/internal/dataset"
	"github.com/churnprep/churnprep/internal/encode"
	"github.com/churnprep/churnprep/internal/transform"
)

// Result holds everything a completed run produced.
type Result struct {
	// Features is the transformed feature matrix with feature-name headers.
	Features *dataset.Table

	// Target is the encoded target vector, row-aligned with Features.
	Target []int

	Mapping     *encode.LabelMapping
	Transformer *transform.Transformer

	// InputRows counts the raw rows read, always equal to len(Target).
	InputRows int
}

// Run executes the full preprocessing pipeline described by cfg. Nothing is
// written to disk; pair with Persist.
func Run(cfg config.Config) (*Result, error) {
	raw, err := dataset.ReadCSV(cfg.RawDataPath)
	if err != nil {
		return nil, err
	}
	if err := raw.Require(requiredColumns(cfg.Columns)...); err != nil {
		return nil, err
	}

	cleaned, err := clean.FromConfig(cfg.Columns).Apply(raw)
	if err != nil {
		return nil, err
	}

	target, err := cleaned.Column(cfg.Columns.Target)
	if err != nil {
		return nil, err
	}
	features, err := cleaned.Drop(cfg.Columns.Target)
	if err != nil {
		return nil, err
	}

	mapping, err := encode.Fit(cfg.Columns.Target, target)
	if err != nil {
		return nil, err
	}
	encoded, err := mapping.Encode(target)
	if err != nil {
		return nil, err
	}

	tr, err := transform.Fit(features, cfg.Columns.Numeric)
	if err != nil {
		return nil, err
	}
	matrix, err := tr.Transform(features)
	if err != nil {
		return nil, err
	}

	return &Result{
		Features:    tr.Matrix(matrix),
		Target:      encoded,
		Mapping:     mapping,
		Transformer: tr,
		InputRows:   raw.NumRows(),
	}, nil
}

// requiredColumns lists every configured column the raw table must carry.
func requiredColumns(cols config.ColumnsConfig) []string {
	var names []string
	if cols.ID != "" {
		names = append(names, cols.ID)
	}
	names = append(names, cols.Target)
	names = append(names, cols.Numeric...)
	names = append(names, cols.InternetService...)
	if cols.PhoneService != "" {
		names = append(names, cols.PhoneService)
	}
	if cols.CoerceNumeric != "" {
		names = append(names, cols.CoerceNumeric)
	}
	return dedupe(names)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Persist writes the four artifacts: feature matrix CSV, encoded target CSV,
// transformer JSON, label mapping JSON. There is no cleanup on partial
// failure.
func Persist(cfg config.Config, res *Result) error {
	if err := res.Features.WriteCSV(cfg.FeaturesPath); err != nil {
		return err
	}
	if err := targetTable(cfg.Columns.Target, res.Target).WriteCSV(cfg.TargetPath); err != nil {
		return err
	}
	if err := res.Transformer.Save(cfg.TransformerPath); err != nil {
		return err
	}
	return res.Mapping.Save(cfg.LabelsPath)
}

func targetTable(column string, codes []int) *dataset.Table {
	rows := make([][]string, len(codes))
	for i, c := range codes {
		rows[i] = []string{strconv.Itoa(c)}
	}
	return dataset.New([]string{column + "_Encoded"}, rows)
}

// ApplyFitted replays previously fitted artifacts on a new raw table: the
// same cleaning rules, then the saved transformation. The target and
// identifier columns may be absent from the input; a present target column
// is dropped before transforming.
func ApplyFitted(cfg config.Config, tr *transform.Transformer, raw *dataset.Table) (*dataset.Table, error) {
	cleaned, err := clean.FromConfig(cfg.Columns).Apply(raw)
	if err != nil {
		return nil, err
	}
	if cleaned.HasColumn(cfg.Columns.Target) {
		cleaned, err = cleaned.Drop(cfg.Columns.Target)
		if err != nil {
			return nil, err
		}
	}
	matrix, err := tr.Transform(cleaned)
	if err != nil {
		return nil, err
	}
	return tr.Matrix(matrix), nil
}
