package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/helexia/contractrisk/schema"
	"gopkg.in/yaml.v3"
)

// riskFile is the object form of a risk register file.
type riskFile struct {
	Project string            `json:"project" yaml:"project"`
	Risks   []schema.RiskItem `json:"risks" yaml:"risks"`
}

// isJSONFile reports whether path should be read and written as JSON.
func isJSONFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// decodeFile unmarshals a JSON or YAML document into v based on the file extension.
// Files without a .json extension are read as YAML, which also accepts JSON.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeBytes(path, data, v)
}

func decodeBytes(path string, data []byte, v any) error {
	if isJSONFile(path) {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LoadInputsFile reads calculator inputs from a YAML or JSON file.
// Fields missing from the file keep the blank calculator defaults.
func LoadInputsFile(path string) (schema.CalculatorInputs, error) {
	in := schema.DefaultInputs()
	if err := decodeFile(path, &in); err != nil {
		return schema.CalculatorInputs{}, err
	}
	return in, nil
}

// LoadRisksFile reads a risk register from a YAML or JSON file.
// The file holds either a list of risks or an object with project and risks keys.
func LoadRisksFile(path string) (string, []schema.RiskItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var doc riskFile
	if objErr := decodeBytes(path, data, &doc); objErr == nil {
		return doc.Project, doc.Risks, nil
	}

	var risks []schema.RiskItem
	if err := decodeBytes(path, data, &risks); err != nil {
		return "", nil, err
	}
	return "", risks, nil
}

// LoadProjectFile reads a whole project from a YAML or JSON file.
func LoadProjectFile(path string) (schema.Project, error) {
	var p schema.Project
	if err := decodeFile(path, &p); err != nil {
		return schema.Project{}, err
	}
	return p, nil
}

// WriteProjectFile writes p to path as JSON or YAML based on the file extension.
func WriteProjectFile(path string, p schema.Project) error {
	var buf bytes.Buffer
	if isJSONFile(path) {
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	} else {
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
