package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kiidfreak/Ag3nt-05/pkg/errors"
)

func validManifest() Manifest {
	return Manifest{
		ID:          "agent-1",
		Name:        "Agent One",
		Version:     "1.0.0",
		Description: "does things",
		Runtime:     "go",
		Inputs:      map[string]FieldSchema{},
		Outputs:     map[string]FieldSchema{},
		Metadata: &Metadata{
			Author:   "tester",
			Tags:     []string{"a"},
			Category: "test",
		},
	}
}

func TestValidateAcceptsCompleteManifest(t *testing.T) {
	if err := validManifest().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Manifest)
	}{
		{"id", func(m *Manifest) { m.ID = "" }},
		{"name", func(m *Manifest) { m.Name = "" }},
		{"version", func(m *Manifest) { m.Version = "" }},
		{"description", func(m *Manifest) { m.Description = "" }},
		{"runtime", func(m *Manifest) { m.Runtime = "" }},
		{"inputs", func(m *Manifest) { m.Inputs = nil }},
		{"outputs", func(m *Manifest) { m.Outputs = nil }},
		{"metadata", func(m *Manifest) { m.Metadata = nil }},
		{"metadata.author", func(m *Manifest) { m.Metadata.Author = "" }},
		{"metadata.tags", func(m *Manifest) { m.Metadata.Tags = nil }},
		{"metadata.category", func(m *Manifest) { m.Metadata.Category = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(&m)
			err := m.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, errors.CodeManifest) {
				t.Errorf("expected CodeManifest, got %v", err)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	raw := `
id: yaml-agent
name: YAML Agent
version: "1.0.0"
description: loaded from yaml
runtime: go
inputs:
  amount:
    type: number
    required: true
    constraints:
      min: 0
outputs:
  total:
    type: number
config:
  timeout: 30
metadata:
  author: tester
  tags: [demo]
  category: test
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.ID != "yaml-agent" {
		t.Errorf("unexpected id %q", m.ID)
	}
	amount, ok := m.Inputs["amount"]
	if !ok {
		t.Fatal("missing amount input")
	}
	if !amount.Required {
		t.Error("expected amount to be required")
	}
	if amount.Constraints == nil || amount.Constraints.Min == nil || *amount.Constraints.Min != 0 {
		t.Errorf("unexpected constraints: %+v", amount.Constraints)
	}
	if m.Config["timeout"] == nil {
		t.Error("expected config defaults to survive loading")
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	raw := `{
  "id": "json-agent",
  "name": "JSON Agent",
  "version": "1.0.0",
  "description": "loaded from json",
  "runtime": "go",
  "inputs": {"q": {"type": "string", "required": true, "constraints": {"maxLength": 10}}},
  "outputs": {"answer": {"type": "string"}},
  "metadata": {"author": "tester", "tags": [], "category": "test"}
}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	q := m.Inputs["q"]
	if q.Constraints == nil || q.Constraints.MaxLength == nil || *q.Constraints.MaxLength != 10 {
		t.Errorf("unexpected constraints: %+v", q.Constraints)
	}
}

func TestLoadRejectsIncompleteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte("id: only-an-id\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.HasCode(err, errors.CodeManifest) {
		t.Errorf("expected CodeManifest, got %v", err)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.toml")
	if err := os.WriteFile(path, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}
