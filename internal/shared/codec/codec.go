// Package codec decodes the document formats capsule catalogs and
// compositions are authored in.
//
// Documents are first decoded into generic values (maps, slices, scalars),
// normalized, and only then converted into typed structs. Going through one
// generic shape keeps JSON, YAML, TOML and HCL inputs behaviorally identical,
// including how numbers inside prop defaults and options come out.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Format is a supported document format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".hcl":
		return FormatHCL, true
	}
	return "", false
}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatTOML, FormatHCL:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", name)
}

// Decode parses data into a normalized generic value
func Decode(data []byte, format Format) (interface{}, error) {
	var parsed interface{}

	switch format {
	case FormatJSON:
		if err := sonic.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML:
		var table map[string]interface{}
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		parsed = table
	case FormatHCL:
		doc, err := decodeHCL(data)
		if err != nil {
			return nil, err
		}
		parsed = doc
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	return types.NormalizeValue(parsed), nil
}

// Convert maps a generic value onto a typed struct using its json tags
func Convert(generic interface{}, out interface{}) error {
	data, err := sonic.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to re-encode document: %w", err)
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to map document: %w", err)
	}
	return nil
}
