package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/churnprep/churnprep/internal/config"
	"github.com/churnprep/churnprep/internal/dataset"
	"github.com/churnprep/churnprep/internal/encode"
	"github.com/churnprep/churnprep/internal/transform"
)

const sampleCSV = `customerID,gender,tenure,MultipleLines,OnlineSecurity,TotalCharges,Churn
0001,Female,1,No phone service,No,29.85,No
0002,Male,34,No,Yes,1889.5,No
0003,Male,2,No,No internet service,,Yes
0004,Female,45,Yes,Yes,1840.75,No
`

func testConfig(t *testing.T, csv string) config.Config {
	t.Helper()
	dir := t.TempDir()

	rawPath := filepath.Join(dir, "churn.csv")
	if err := os.WriteFile(rawPath, []byte(csv), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	return config.Config{
		RawDataPath:     rawPath,
		FeaturesPath:    filepath.Join(dir, "out", "X.csv"),
		TargetPath:      filepath.Join(dir, "out", "y.csv"),
		TransformerPath: filepath.Join(dir, "out", "transformer.json"),
		LabelsPath:      filepath.Join(dir, "out", "label_mapping.json"),
		Columns: config.ColumnsConfig{
			ID:              "customerID",
			Target:          "Churn",
			Numeric:         []string{"tenure", "TotalCharges"},
			CoerceNumeric:   "TotalCharges",
			InternetService: []string{"OnlineSecurity"},
			PhoneService:    "MultipleLines",
		},
	}
}

func TestRunPreservesRowCount(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.InputRows != 4 {
		t.Errorf("InputRows = %d, want 4", res.InputRows)
	}
	if res.Features.NumRows() != 4 {
		t.Errorf("Features rows = %d, want 4", res.Features.NumRows())
	}
	if len(res.Target) != 4 {
		t.Errorf("Target length = %d, want 4", len(res.Target))
	}
}

func TestRunEncodesTarget(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got, want := res.Mapping.String(), "No=0, Yes=1"; got != want {
		t.Errorf("mapping = %q, want %q", got, want)
	}
	if want := []int{0, 0, 1, 0}; !reflect.DeepEqual(res.Target, want) {
		t.Errorf("Target = %v, want %v", res.Target, want)
	}
}

func TestRunNormalizedServiceValueEncodesAsNo(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// "No internet service" was normalized to "No", so the vocabulary holds
	// only No/Yes and row 3 sets the No indicator.
	noCol, err := res.Features.Column("OnlineSecurity_No")
	if err != nil {
		t.Fatalf("Column(OnlineSecurity_No) error = %v", err)
	}
	yesCol, err := res.Features.Column("OnlineSecurity_Yes")
	if err != nil {
		t.Fatalf("Column(OnlineSecurity_Yes) error = %v", err)
	}
	if noCol[2] != "1" || yesCol[2] != "0" {
		t.Errorf("row 3 OnlineSecurity indicators = No:%s Yes:%s, want 1/0", noCol[2], yesCol[2])
	}
	for _, c := range res.Features.Columns {
		if strings.HasPrefix(c, "OnlineSecurity_") && c != "OnlineSecurity_No" && c != "OnlineSecurity_Yes" {
			t.Errorf("unexpected vocabulary column %q", c)
		}
	}
}

func TestRunDropsIdentifierAndTarget(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, c := range res.Features.Columns {
		if strings.HasPrefix(c, "customerID") || strings.HasPrefix(c, "Churn") {
			t.Errorf("leaked column %q in features", c)
		}
	}
}

func TestRunFailsOnThreeClassTarget(t *testing.T) {
	csv := strings.Replace(sampleCSV, "0004,Female,45,Yes,Yes,1840.75,No",
		"0004,Female,45,Yes,Yes,1840.75,Maybe", 1)
	cfg := testConfig(t, csv)

	_, err := Run(cfg)
	var cardErr *encode.CardinalityError
	if !errors.As(err, &cardErr) {
		t.Fatalf("Run() error = %v, want *CardinalityError", err)
	}

	// Fail-fast: nothing was written.
	if _, statErr := os.Stat(cfg.FeaturesPath); !os.IsNotExist(statErr) {
		t.Error("features file should not exist after failed run")
	}
	if _, statErr := os.Stat(cfg.TransformerPath); !os.IsNotExist(statErr) {
		t.Error("transformer file should not exist after failed run")
	}
}

func TestRunFailsOnMissingColumn(t *testing.T) {
	csv := "customerID,gender,Churn\n0001,Female,No\n0002,Male,Yes\n"
	cfg := testConfig(t, csv)

	_, err := Run(cfg)
	var schemaErr *dataset.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Run() error = %v, want *SchemaError", err)
	}
}

func TestRunFailsOnMissingFile(t *testing.T) {
	cfg := testConfig(t, sampleCSV)
	cfg.RawDataPath = filepath.Join(t.TempDir(), "nope.csv")

	_, err := Run(cfg)
	var accessErr *dataset.AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("Run() error = %v, want *AccessError", err)
	}
}

func TestPersistWritesFourArtifacts(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := Persist(cfg, res); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	for _, path := range []string{cfg.FeaturesPath, cfg.TargetPath, cfg.TransformerPath, cfg.LabelsPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact %s missing: %v", path, err)
		}
	}

	y, err := dataset.ReadCSV(cfg.TargetPath)
	if err != nil {
		t.Fatalf("ReadCSV(target) error = %v", err)
	}
	if len(y.Columns) != 1 || y.Columns[0] != "Churn_Encoded" {
		t.Errorf("target header = %v, want [Churn_Encoded]", y.Columns)
	}
	if y.NumRows() != 4 {
		t.Errorf("target rows = %d, want 4", y.NumRows())
	}

	x, err := dataset.ReadCSV(cfg.FeaturesPath)
	if err != nil {
		t.Fatalf("ReadCSV(features) error = %v", err)
	}
	if x.NumRows() != 4 {
		t.Errorf("features rows = %d, want 4", x.NumRows())
	}
}

func TestPersistedMappingDecodesOriginalLabels(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := Persist(cfg, res); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	mapping, err := encode.LoadMapping(cfg.LabelsPath)
	if err != nil {
		t.Fatalf("LoadMapping() error = %v", err)
	}

	decoded, err := mapping.Decode(res.Target)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []string{"No", "No", "Yes", "No"}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("decoded labels = %v, want %v", decoded, want)
	}
}

func TestApplyFittedMatchesRunOutput(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := Persist(cfg, res); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	tr, err := transform.Load(cfg.TransformerPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	raw, err := dataset.ReadCSV(cfg.RawDataPath)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	replayed, err := ApplyFitted(cfg, tr, raw)
	if err != nil {
		t.Fatalf("ApplyFitted() error = %v", err)
	}

	if !reflect.DeepEqual(replayed.Columns, res.Features.Columns) {
		t.Errorf("replayed headers differ: %v", replayed.Columns)
	}
	if !reflect.DeepEqual(replayed.Rows, res.Features.Rows) {
		t.Error("replaying fitted artifacts on the training file produced different output")
	}
}

func TestApplyFittedWithoutTargetColumn(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Inference table: no customerID, no Churn.
	raw := dataset.New(
		[]string{"gender", "tenure", "MultipleLines", "OnlineSecurity", "TotalCharges"},
		[][]string{{"Male", "12", "Yes", "No", "500.5"}},
	)

	matrix, err := ApplyFitted(cfg, res.Transformer, raw)
	if err != nil {
		t.Fatalf("ApplyFitted() error = %v", err)
	}
	if matrix.NumRows() != 1 {
		t.Errorf("rows = %d, want 1", matrix.NumRows())
	}
	if !reflect.DeepEqual(matrix.Columns, res.Transformer.FeatureNames()) {
		t.Errorf("headers = %v", matrix.Columns)
	}
}
