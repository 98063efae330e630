package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/churnprep/churnprep/internal/config"
	"github.com/churnprep/churnprep/internal/dataset"
	"github.com/churnprep/churnprep/internal/output"
	"github.com/churnprep/churnprep/internal/pipeline"
	"github.com/churnprep/churnprep/internal/transform"
)

var transformCmd = &cobra.Command{
	Use:   "transform [flags] <file>",
	Short: "Apply the fitted transformation to new raw data",
	Long: `Load the fitted transformer artifact and apply the same cleaning and
feature transformation to a new raw CSV. The input may omit the target and
identifier columns; categories unseen at fit time encode as all zeros.

Examples:
  churnprep transform new_customers.csv
  churnprep transform new_customers.csv --out out/X_new.csv
  churnprep transform --transformer preprocessing/transformer.json new.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringP("out", "o", "", "write the transformed matrix to this CSV instead of stdout")
	transformCmd.Flags().String("transformer", "", "path to the fitted transformer artifact")

	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")
	if p, _ := cmd.Flags().GetString("transformer"); p != "" {
		cfg.TransformerPath = p
	}

	tr, err := transform.Load(cfg.TransformerPath)
	if err != nil {
		return err
	}

	raw, err := dataset.ReadCSV(args[0])
	if err != nil {
		return err
	}

	matrix, err := pipeline.ApplyFitted(cfg, tr, raw)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := matrix.WriteCSV(outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Transformed %d rows x %d columns to: %s\n",
			matrix.NumRows(), len(matrix.Columns), outPath)
		return nil
	}

	w := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	return w.WriteTable(matrix)
}
