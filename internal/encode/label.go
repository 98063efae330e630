// Package encode fits and persists the binary target label mapping.
package encode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/churnprep/churnprep/internal/dataset"
)

// mappingVersion tags the serialized artifact format.
const mappingVersion = 1

// LabelMapping is a fitted bijection between the two target label strings
// and {0, 1}. The code of a class is its index in Classes, which is sorted
// lexicographically at fit time so the mapping is reproducible across runs.
type LabelMapping struct {
	Version int      `json:"version"`
	Column  string   `json:"column"`
	Classes []string `json:"classes"`
}

// CardinalityError reports a target column whose distinct-value count is not
// exactly two.
type CardinalityError struct {
	Column  string
	Classes []string
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("encode: target %q has %d distinct values (%s), want exactly 2",
		e.Column, len(e.Classes), strings.Join(e.Classes, ", "))
}

// Fit builds a LabelMapping over the distinct values observed in the target
// column. Anything other than exactly two distinct values is a
// CardinalityError.
func Fit(column string, values []string) (*LabelMapping, error) {
	seen := make(map[string]struct{})
	var classes []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)

	if len(classes) != 2 {
		return nil, &CardinalityError{Column: column, Classes: classes}
	}
	return &LabelMapping{Version: mappingVersion, Column: column, Classes: classes}, nil
}

// Encode maps label strings to their integer codes, row for row.
func (m *LabelMapping) Encode(values []string) ([]int, error) {
	codes := make([]int, len(values))
	for i, v := range values {
		code, ok := m.code(v)
		if !ok {
			return nil, fmt.Errorf("encode: label %q not in fitted classes %v", v, m.Classes)
		}
		codes[i] = code
	}
	return codes, nil
}

// Decode maps integer codes back to their label strings.
func (m *LabelMapping) Decode(codes []int) ([]string, error) {
	values := make([]string, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(m.Classes) {
			return nil, fmt.Errorf("encode: code %d out of range for %d classes", c, len(m.Classes))
		}
		values[i] = m.Classes[c]
	}
	return values, nil
}

func (m *LabelMapping) code(value string) (int, bool) {
	for i, c := range m.Classes {
		if c == value {
			return i, true
		}
	}
	return 0, false
}

// String renders the mapping in "No=0, Yes=1" form for progress output.
func (m *LabelMapping) String() string {
	parts := make([]string, len(m.Classes))
	for i, c := range m.Classes {
		parts[i] = fmt.Sprintf("%s=%d", c, i)
	}
	return strings.Join(parts, ", ")
}

// Save serializes the mapping as indented JSON, creating the destination
// directory if needed.
func (m *LabelMapping) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &dataset.AccessError{Path: path, Op: "mkdir", Err: err}
		}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: marshal label mapping: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return &dataset.AccessError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// LoadMapping reads a mapping previously written by Save.
func LoadMapping(path string) (*LabelMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dataset.AccessError{Path: path, Op: "read", Err: err}
	}
	var m LabelMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encode: parse label mapping %s: %w", path, err)
	}
	if m.Version != mappingVersion {
		return nil, fmt.Errorf("encode: label mapping %s has version %d, want %d", path, m.Version, mappingVersion)
	}
	if len(m.Classes) != 2 {
		return nil, &CardinalityError{Column: m.Column, Classes: m.Classes}
	}
	return &m, nil
}
