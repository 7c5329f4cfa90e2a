// Package manifest defines the static descriptor that declares an agent's
// identity, input/output schemas and metadata, plus its structural
// validation and file loading.
package manifest

import (
	"fmt"

	"github.com/kiidfreak/Ag3nt-05/pkg/errors"
)

// Field types accepted by schema validation.
const (
	TypeString  = "string"
	TypeText    = "text"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// KnownType reports whether t is one of the declared field types.
func KnownType(t string) bool {
	switch t {
	case TypeString, TypeText, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return true
	}
	return false
}

// Constraints narrows the set of values a field accepts. All members are
// optional; a nil pointer or zero value means the constraint is absent.
type Constraints struct {
	Min       *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	MinLength *int     `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int     `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Enum      []any    `yaml:"enum,omitempty" json:"enum,omitempty"`
}

// FieldSchema is the declarative type+constraint descriptor for one input
// or output field.
type FieldSchema struct {
	Type        string       `yaml:"type" json:"type"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool         `yaml:"required,omitempty" json:"required,omitempty"`
	Constraints *Constraints `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// Metadata carries authorship and discovery information for an agent.
type Metadata struct {
	Author   string   `yaml:"author" json:"author"`
	Tags     []string `yaml:"tags" json:"tags"`
	Category string   `yaml:"category" json:"category"`
}

// Manifest is the static descriptor for one agent.
type Manifest struct {
	ID          string                 `yaml:"id" json:"id"`
	Name        string                 `yaml:"name" json:"name"`
	Version     string                 `yaml:"version" json:"version"`
	Description string                 `yaml:"description" json:"description"`
	Runtime     string                 `yaml:"runtime" json:"runtime"`
	Inputs      map[string]FieldSchema `yaml:"inputs" json:"inputs"`
	Outputs     map[string]FieldSchema `yaml:"outputs" json:"outputs"`
	Config      map[string]any         `yaml:"config,omitempty" json:"config,omitempty"`
	Metadata    *Metadata              `yaml:"metadata" json:"metadata"`
}

// Validate checks the manifest for structural completeness. Absent required
// fields are fatal at construction time and never recovered internally.
func (m Manifest) Validate() error {
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"id", m.ID != ""},
		{"name", m.Name != ""},
		{"version", m.Version != ""},
		{"description", m.Description != ""},
		{"runtime", m.Runtime != ""},
		{"inputs", m.Inputs != nil},
		{"outputs", m.Outputs != nil},
		{"metadata", m.Metadata != nil},
	} {
		if !f.present {
			return errors.New(errors.CodeManifest,
				fmt.Sprintf("missing required field in manifest: %s", f.name), nil).
				WithContext("field", f.name)
		}
	}

	for _, f := range []struct {
		name    string
		present bool
	}{
		{"author", m.Metadata.Author != ""},
		{"tags", m.Metadata.Tags != nil},
		{"category", m.Metadata.Category != ""},
	} {
		if !f.present {
			return errors.New(errors.CodeManifest,
				fmt.Sprintf("missing required metadata field: %s", f.name), nil).
				WithContext("field", "metadata."+f.name)
		}
	}
	return nil
}
