package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/churnprep/churnprep/internal/config"
	"github.com/churnprep/churnprep/internal/output"
	"github.com/churnprep/churnprep/internal/pipeline"
)

// headRows is how many transformed rows the run summary prints.
const headRows = 5

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full preprocessing pipeline",
	Long: `Load the raw churn CSV, clean it, encode the target, fit the feature
transformation, and write the four artifacts: transformed features, encoded
target, fitted transformer, and label mapping.

Examples:
  churnprep run
  churnprep run --raw-data data/churn.csv
  churnprep run --features-out out/X.csv --target-out out/y.csv`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("raw-data", "", "path to the raw churn CSV")
	runCmd.Flags().String("features-out", "", "output path for the transformed feature matrix")
	runCmd.Flags().String("target-out", "", "output path for the encoded target vector")
	runCmd.Flags().String("transformer-out", "", "output path for the fitted transformer")
	runCmd.Flags().String("labels-out", "", "output path for the fitted label mapping")

	rootCmd.AddCommand(runCmd)
}

// applyRunFlags overrides configured paths with any flags set on the command.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("raw-data"); v != "" {
		cfg.RawDataPath = v
	}
	if v, _ := cmd.Flags().GetString("features-out"); v != "" {
		cfg.FeaturesPath = v
	}
	if v, _ := cmd.Flags().GetString("target-out"); v != "" {
		cfg.TargetPath = v
	}
	if v, _ := cmd.Flags().GetString("transformer-out"); v != "" {
		cfg.TransformerPath = v
	}
	if v, _ := cmd.Flags().GetString("labels-out"); v != "" {
		cfg.LabelsPath = v
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loading raw data from: %s\n", cfg.RawDataPath)

	res, err := pipeline.Run(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Target variable mapping: %s\n", res.Mapping)

	if err := pipeline.Persist(cfg, res); err != nil {
		return err
	}

	fmt.Fprintf(out, "Transformer saved to: %s\n", cfg.TransformerPath)
	fmt.Fprintf(out, "Label mapping saved to: %s\n", cfg.LabelsPath)
	fmt.Fprintf(out, "Preprocessed X data saved to: %s\n", cfg.FeaturesPath)
	fmt.Fprintf(out, "Encoded y data saved to: %s\n", cfg.TargetPath)

	fmt.Fprintf(out, "\nShape of X: %d rows x %d columns\n", res.Features.NumRows(), len(res.Features.Columns))
	fmt.Fprintf(out, "First %d rows of X:\n", headRows)

	w := output.New(out, output.ParseFormat(viper.GetString("format")))
	return w.WriteTable(res.Features.Head(headRows))
}
