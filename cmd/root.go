package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/churnprep/churnprep/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "churnprep",
	Short: "Prepare the Telco churn dataset for modeling",
	Long: `Churnprep cleans the Telco customer-churn CSV, encodes the target,
fits a reusable feature transformation (numeric impute+scale, categorical
impute+one-hot), and persists the transformed dataset together with the
fitted artifacts so inference-time data is transformed identically.

Examples:
  churnprep run
  churnprep run --raw-data data/churn.csv --features-out out/X.csv
  churnprep transform new_customers.csv --out out/X_new.csv
  churnprep inspect --format json
  churnprep watch`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.churnprep.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".churnprep")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CHURNPREP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
