package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kiidfreak/Ag3nt-05/pkg/errors"
)

// Load reads a manifest from a YAML or JSON file, chosen by extension, and
// validates its structure before returning it.
func Load(path string) (Manifest, error) {
	var m Manifest
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &m)
	default:
		return m, fmt.Errorf("unsupported manifest format: %s", filepath.Ext(path))
	}
	if err != nil {
		return m, errors.New(errors.CodeManifest, "manifest parse failed", err).
			WithContext("path", path)
	}

	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}
