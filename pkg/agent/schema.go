package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaSet holds compiled JSON schemas keyed by analysis surface.
// Surfaces without a schema file skip structural validation.
type SchemaSet struct {
	schemas map[string]*gojsonschema.Schema
}

// LoadSchemas compiles the schema files referenced by the surface map.
// Missing schema references are an error; an empty set is valid.
func LoadSchemas(dir string, surfaces map[string]SurfaceConfig) (*SchemaSet, error) {
	set := &SchemaSet{schemas: make(map[string]*gojsonschema.Schema)}
	for name, surface := range surfaces {
		if strings.TrimSpace(surface.Schema) == "" {
			continue
		}
		path := surface.Schema
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema for surface %q: %w", name, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, fmt.Errorf("compile schema for surface %q: %w", name, err)
		}
		set.schemas[name] = schema
	}
	return set, nil
}

// Validate checks doc against the surface's schema, if one is configured.
func (s *SchemaSet) Validate(surface string, doc []byte) error {
	if s == nil {
		return nil
	}
	schema, ok := s.schemas[surface]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate %s payload: %w", surface, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &SchemaError{Surface: surface, Violations: violations}
}
