// Package schema validates values against the declarative field schemas an
// agent manifest declares for its inputs and outputs.
package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/kiidfreak/Ag3nt-05/pkg/manifest"
)

// ValidationError reports a single schema violation. Exactly one of the
// type check, the presence check or one constraint is named; validation
// stops at the first violation for a field.
type ValidationError struct {
	// Path is the field name, or a dotted path for nested reports.
	Path string

	// Constraint names the failed check: "type", "required", "min", "max",
	// "minLength", "maxLength", "pattern" or "enum".
	Constraint string

	// Expected describes the accepted type, limit or allowed set.
	Expected string

	// Actual describes the offending value or its type.
	Actual string
}

func (e *ValidationError) Error() string {
	switch e.Constraint {
	case "required":
		return fmt.Sprintf("required field %q is missing", e.Path)
	case "type":
		return fmt.Sprintf("expected %s for %q, got %s", e.Expected, e.Path, e.Actual)
	default:
		return fmt.Sprintf("value for %q violates %s constraint (%s), got %s",
			e.Path, e.Constraint, e.Expected, e.Actual)
	}
}

// Validate checks value against fs. The type check runs first; constraints
// are evaluated only once the type check passed, in a fixed order, and the
// first violated constraint wins.
func Validate(value any, fs manifest.FieldSchema, path string) error {
	if err := checkType(value, fs.Type, path); err != nil {
		return err
	}
	if fs.Constraints != nil {
		return checkConstraints(value, *fs.Constraints, path)
	}
	return nil
}

// ValidateInput checks an input mapping against the declared schemas.
// Fields marked required must be present; present fields must satisfy
// their schema; undeclared keys are ignored.
func ValidateInput(input map[string]any, schemas map[string]manifest.FieldSchema) error {
	for _, key := range sortedKeys(schemas) {
		fs := schemas[key]
		value, ok := input[key]
		if !ok {
			if fs.Required {
				return &ValidationError{Path: key, Constraint: "required"}
			}
			continue
		}
		if err := Validate(value, fs, key); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOutput checks a result mapping against the declared schemas.
// Every declared output field must be present regardless of its Required
// flag; this asymmetry with input validation is intentional.
func ValidateOutput(output map[string]any, schemas map[string]manifest.FieldSchema) error {
	for _, key := range sortedKeys(schemas) {
		value, ok := output[key]
		if !ok {
			return &ValidationError{Path: key, Constraint: "required"}
		}
		if err := Validate(value, schemas[key], key); err != nil {
			return err
		}
	}
	return nil
}

func checkType(value any, declared, path string) error {
	fail := func(expected string) error {
		return &ValidationError{
			Path:       path,
			Constraint: "type",
			Expected:   expected,
			Actual:     typeName(value),
		}
	}

	switch declared {
	case manifest.TypeArray:
		k := reflect.ValueOf(value).Kind()
		if k != reflect.Slice && k != reflect.Array {
			return fail("array")
		}
	case manifest.TypeObject:
		if reflect.ValueOf(value).Kind() != reflect.Map {
			return fail("object")
		}
	case manifest.TypeString, manifest.TypeText:
		if _, ok := value.(string); !ok {
			return fail("string")
		}
	case manifest.TypeNumber:
		if _, ok := asFloat(value); !ok {
			return fail("number")
		}
	case manifest.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fail("boolean")
		}
	}
	return nil
}

func checkConstraints(value any, c manifest.Constraints, path string) error {
	num, isNum := asFloat(value)
	text := fmt.Sprintf("%v", value)

	if c.Min != nil && isNum && num < *c.Min {
		return &ValidationError{
			Path:       path,
			Constraint: "min",
			Expected:   fmt.Sprintf(">= %v", *c.Min),
			Actual:     text,
		}
	}
	if c.Max != nil && isNum && num > *c.Max {
		return &ValidationError{
			Path:       path,
			Constraint: "max",
			Expected:   fmt.Sprintf("<= %v", *c.Max),
			Actual:     text,
		}
	}
	if c.MinLength != nil && len(text) < *c.MinLength {
		return &ValidationError{
			Path:       path,
			Constraint: "minLength",
			Expected:   fmt.Sprintf("length >= %d", *c.MinLength),
			Actual:     fmt.Sprintf("length %d", len(text)),
		}
	}
	if c.MaxLength != nil && len(text) > *c.MaxLength {
		return &ValidationError{
			Path:       path,
			Constraint: "maxLength",
			Expected:   fmt.Sprintf("length <= %d", *c.MaxLength),
			Actual:     fmt.Sprintf("length %d", len(text)),
		}
	}
	if c.Pattern != "" {
		re, err := regexp.Compile("^(?:" + c.Pattern + ")$")
		if err != nil {
			return &ValidationError{
				Path:       path,
				Constraint: "pattern",
				Expected:   c.Pattern,
				Actual:     "invalid pattern: " + err.Error(),
			}
		}
		if !re.MatchString(text) {
			return &ValidationError{
				Path:       path,
				Constraint: "pattern",
				Expected:   c.Pattern,
				Actual:     text,
			}
		}
	}
	if len(c.Enum) > 0 {
		for _, allowed := range c.Enum {
			if equal(value, allowed) {
				return nil
			}
		}
		return &ValidationError{
			Path:       path,
			Constraint: "enum",
			Expected:   fmt.Sprintf("one of %v", c.Enum),
			Actual:     text,
		}
	}
	return nil
}

// equal compares an input value with an allowed enum value, treating
// numerically equal numbers as equal regardless of their Go kind. Enum
// values decoded from YAML or JSON may arrive as int or float64 while the
// runtime value uses the other.
func equal(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

func sortedKeys(schemas map[string]manifest.FieldSchema) []string {
	keys := make([]string, 0, len(schemas))
	for k := range schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
