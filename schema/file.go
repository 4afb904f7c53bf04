package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a descriptor file encoding.
type Format string

// Supported descriptor formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf picks the descriptor format from a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Decode reads a schema descriptor.
//
// A YAML descriptor looks like:
//
//	name: person
//	fields:
//	  - name: name
//	    type: string
//	  - name: age
//	    type: integer
//	  - name: occupation
//	    type: string
//	    optional: true
//
// TOML and JSON descriptors use the same keys.
func Decode(data []byte, format Format) (*Schema, error) {
	s := &Schema{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, s)
	case FormatTOML:
		err = toml.Unmarshal(data, s)
	case FormatJSON:
		err = json.Unmarshal(data, s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidSchema, format, err)
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads a descriptor file, choosing the format by extension.
// A descriptor without a name is named after the file.
func LoadFile(path string) (*Schema, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return s, nil
}
