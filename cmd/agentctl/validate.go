// Copyright 2026 © The Ag3nt Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/kiidfreak/Ag3nt-05/pkg/manifest"
)

type validateResult struct {
	Manifest checkResult   `json:"manifest"`
	Fields   []checkResult `json:"fields"`
	Overall  string        `json:"overall"`
}

type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warn", "error"
	Message string `json:"message,omitempty"`
}

func runValidate(global globalFlags, args []string) {
	if len(args) != 1 {
		fatal(fmt.Errorf("usage: agentctl validate <manifest>"))
	}

	result := validateResult{Fields: []checkResult{}}
	hasError := false
	hasWarn := false

	m, err := manifest.Load(args[0])
	if err != nil {
		result.Manifest = checkResult{Name: "manifest", Status: "error", Message: err.Error()}
		hasError = true
	} else {
		result.Manifest = checkResult{Name: "manifest", Status: "ok"}
		for _, check := range checkFields(m) {
			result.Fields = append(result.Fields, check)
			switch check.Status {
			case "error":
				hasError = true
			case "warn":
				hasWarn = true
			}
		}
	}

	switch {
	case hasError:
		result.Overall = "error"
	case hasWarn:
		result.Overall = "warn"
	default:
		result.Overall = "ok"
	}

	if global.JSON {
		printJSON(result)
	} else {
		printChecks(result)
	}
	if hasError {
		os.Exit(1)
	}
}

// checkFields sanity-checks every declared field schema. The runtime
// validator is deliberately permissive about unknown types and broken
// patterns at execution time, so this is the place to catch them early.
func checkFields(m manifest.Manifest) []checkResult {
	var checks []checkResult
	for _, section := range []struct {
		prefix  string
		schemas map[string]manifest.FieldSchema
	}{
		{"inputs", m.Inputs},
		{"outputs", m.Outputs},
	} {
		keys := make([]string, 0, len(section.schemas))
		for k := range section.schemas {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			checks = append(checks, checkField(section.prefix+"."+key, section.schemas[key]))
		}
	}
	return checks
}

func checkField(name string, fs manifest.FieldSchema) checkResult {
	if !manifest.KnownType(fs.Type) {
		return checkResult{
			Name:    name,
			Status:  "warn",
			Message: fmt.Sprintf("unknown type %q, type checks will be skipped", fs.Type),
		}
	}
	if c := fs.Constraints; c != nil {
		if c.Pattern != "" {
			if _, err := regexp.Compile(c.Pattern); err != nil {
				return checkResult{
					Name:    name,
					Status:  "error",
					Message: fmt.Sprintf("invalid pattern: %v", err),
				}
			}
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			return checkResult{
				Name:    name,
				Status:  "warn",
				Message: "min is greater than max, no value can satisfy both",
			}
		}
		if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
			return checkResult{
				Name:    name,
				Status:  "warn",
				Message: "minLength is greater than maxLength, no value can satisfy both",
			}
		}
	}
	return checkResult{Name: name, Status: "ok"}
}

func printChecks(result validateResult) {
	printCheck(result.Manifest)
	for _, check := range result.Fields {
		printCheck(check)
	}
	fmt.Printf("overall: %s\n", result.Overall)
}

func printCheck(check checkResult) {
	if check.Message != "" {
		fmt.Printf("%-6s %s: %s\n", check.Status, check.Name, check.Message)
		return
	}
	fmt.Printf("%-6s %s\n", check.Status, check.Name)
}
