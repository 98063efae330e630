package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/churnprep/churnprep/internal/config"
	"github.com/churnprep/churnprep/internal/dataset"
	"github.com/churnprep/churnprep/internal/encode"
	"github.com/churnprep/churnprep/internal/output"
	"github.com/churnprep/churnprep/internal/transform"
)

// ArtifactSummary describes the fitted artifacts for display.
type ArtifactSummary struct {
	TransformerPath string          `json:"transformer_path"`
	LabelsPath      string          `json:"labels_path"`
	TargetColumn    string          `json:"target_column"`
	Classes         []string        `json:"classes"`
	Columns         []ColumnSummary `json:"columns"`
	TotalFeatures   int             `json:"total_features"`
}

// ColumnSummary describes one fitted column spec.
type ColumnSummary struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Width      int      `json:"width"`
	Mean       float64  `json:"mean,omitempty"`
	Min        float64  `json:"min,omitempty"`
	Max        float64  `json:"max,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the fitted preprocessing artifacts",
	Long: `Print the fitted transformer and label mapping: per-column kind and
statistics, one-hot vocabularies, total output width, and the target
class-to-integer mapping.

Examples:
  churnprep inspect
  churnprep inspect --format json
  churnprep inspect --format table`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tr, err := transform.Load(cfg.TransformerPath)
	if err != nil {
		return err
	}
	mapping, err := encode.LoadMapping(cfg.LabelsPath)
	if err != nil {
		return err
	}

	summary := buildSummary(cfg, tr, mapping)
	w := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))

	if w.Format() == output.FormatJSON {
		return w.WriteJSON(summary)
	}
	return writeSummaryText(cmd, w, summary)
}

func buildSummary(cfg config.Config, tr *transform.Transformer, mapping *encode.LabelMapping) ArtifactSummary {
	summary := ArtifactSummary{
		TransformerPath: cfg.TransformerPath,
		LabelsPath:      cfg.LabelsPath,
		TargetColumn:    mapping.Column,
		Classes:         mapping.Classes,
		TotalFeatures:   tr.Width(),
	}
	for _, spec := range tr.Columns {
		cs := ColumnSummary{
			Name:  spec.Name,
			Kind:  string(spec.Kind),
			Width: spec.Width(),
		}
		if spec.Kind == transform.KindNumeric {
			cs.Mean = spec.Mean
			cs.Min = spec.Min
			cs.Max = spec.Max
		} else {
			cs.Categories = spec.Categories
		}
		summary.Columns = append(summary.Columns, cs)
	}
	return summary
}

func writeSummaryText(cmd *cobra.Command, w *output.Writer, s ArtifactSummary) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s %s\n", w.Colorize("heading", "Transformer:", output.ColorAuto), s.TransformerPath)
	fmt.Fprintf(out, "%s %s\n", w.Colorize("heading", "Label mapping:", output.ColorAuto), s.LabelsPath)
	fmt.Fprintf(out, "%s %s (", w.Colorize("heading", "Target:", output.ColorAuto), s.TargetColumn)
	for i, c := range s.Classes {
		if i > 0 {
			fmt.Fprint(out, ", ")
		}
		fmt.Fprintf(out, "%s=%d", c, i)
	}
	fmt.Fprint(out, ")\n\n")

	cols := &dataset.Table{Columns: []string{"COLUMN", "KIND", "WIDTH", "DETAIL"}}
	for _, c := range s.Columns {
		detail := fmt.Sprintf("mean=%.4f min=%.4f max=%.4f", c.Mean, c.Min, c.Max)
		if c.Kind == string(transform.KindCategorical) {
			detail = fmt.Sprintf("%d categories", len(c.Categories))
		}
		cols.Rows = append(cols.Rows, []string{c.Name, c.Kind, strconv.Itoa(c.Width), detail})
	}
	if err := w.WriteTable(cols); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal output features: %d\n", s.TotalFeatures)
	return nil
}
