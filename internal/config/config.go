// Package config provides configuration types and helpers for churnprep.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the application-wide configuration.
type Config struct {
	// RawDataPath is the source CSV with one row per customer.
	RawDataPath string `mapstructure:"raw_data"`

	// Output artifact paths.
	FeaturesPath    string `mapstructure:"features_out"`    // transformed feature matrix (CSV)
	TargetPath      string `mapstructure:"target_out"`      // encoded target vector (CSV)
	TransformerPath string `mapstructure:"transformer_out"` // fitted column transformer (JSON)
	LabelsPath      string `mapstructure:"labels_out"`      // fitted label mapping (JSON)

	Columns ColumnsConfig `mapstructure:"columns"`
}

// ColumnsConfig names the schema-specific columns the pipeline operates on.
type ColumnsConfig struct {
	// ID is the unique-identifier column, dropped before fitting.
	ID string `mapstructure:"id"`

	// Target is the two-class label column.
	Target string `mapstructure:"target"`

	// Numeric lists the columns treated as numeric by the transformer.
	// Classification is declared here rather than inferred from the data so
	// that a stray non-numeric cell fails loudly instead of silently turning
	// the whole column categorical.
	Numeric []string `mapstructure:"numeric"`

	// CoerceNumeric is the numeric-as-text column; unparseable cells become
	// missing instead of failing the run.
	CoerceNumeric string `mapstructure:"coerce_numeric"`

	// InternetService lists the columns where "No internet service"
	// normalizes to "No".
	InternetService []string `mapstructure:"internet_service"`

	// PhoneService is the column where "No phone service" normalizes to "No".
	PhoneService string `mapstructure:"phone_service"`
}

// Load materializes a Config from the global viper instance.
func Load() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration names everything the pipeline needs.
func (c Config) Validate() error {
	switch {
	case c.RawDataPath == "":
		return fmt.Errorf("config: raw_data path is required")
	case c.FeaturesPath == "":
		return fmt.Errorf("config: features_out path is required")
	case c.TargetPath == "":
		return fmt.Errorf("config: target_out path is required")
	case c.TransformerPath == "":
		return fmt.Errorf("config: transformer_out path is required")
	case c.LabelsPath == "":
		return fmt.Errorf("config: labels_out path is required")
	case c.Columns.Target == "":
		return fmt.Errorf("config: columns.target is required")
	}
	return nil
}

// SetDefaults installs the Telco churn schema and output layout as viper
// defaults. Every value can be overridden by config file, environment, or
// flag.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("raw_data", "WA_Fn-UseC_-Telco-Customer-Churn.csv")
	v.SetDefault("features_out", "preprocessing/telco_customer_churn_preprocessed_X.csv")
	v.SetDefault("target_out", "preprocessing/telco_customer_churn_preprocessed_y.csv")
	v.SetDefault("transformer_out", "preprocessing/transformer.json")
	v.SetDefault("labels_out", "preprocessing/label_mapping.json")

	v.SetDefault("columns.id", "customerID")
	v.SetDefault("columns.target", "Churn")
	v.SetDefault("columns.numeric", []string{
		"SeniorCitizen",
		"tenure",
		"MonthlyCharges",
		"TotalCharges",
	})
	v.SetDefault("columns.coerce_numeric", "TotalCharges")
	v.SetDefault("columns.internet_service", []string{
		"OnlineSecurity",
		"OnlineBackup",
		"DeviceProtection",
		"TechSupport",
		"StreamingTV",
		"StreamingMovies",
	})
	v.SetDefault("columns.phone_service", "MultipleLines")
}
