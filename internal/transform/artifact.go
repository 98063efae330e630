package transform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/churnprep/churnprep/internal/dataset"
)

// artifactVersion tags the serialized transformer format. Bump on any change
// to ColumnSpec semantics.
const artifactVersion = 1

// Save serializes the fitted transformer as indented JSON, creating the
// destination directory if needed. JSON keeps the artifact readable by
// inference-time code in other runtimes.
func (tr *Transformer) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &dataset.AccessError{Path: path, Op: "mkdir", Err: err}
		}
	}
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return fmt.Errorf("transform: marshal transformer: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return &dataset.AccessError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// Load reads a transformer previously written by Save.
func Load(path string) (*Transformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dataset.AccessError{Path: path, Op: "read", Err: err}
	}
	var tr Transformer
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("transform: parse transformer %s: %w", path, err)
	}
	if tr.Version != artifactVersion {
		return nil, fmt.Errorf("transform: transformer %s has version %d, want %d", path, tr.Version, artifactVersion)
	}
	for _, spec := range tr.Columns {
		if spec.Kind != KindNumeric && spec.Kind != KindCategorical {
			return nil, fmt.Errorf("transform: transformer %s: column %q has unknown kind %q", path, spec.Name, spec.Kind)
		}
	}
	return &tr, nil
}
