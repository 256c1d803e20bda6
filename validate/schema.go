package validate

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names.
const (
	SchemaPlayerCreate = "player-create-response"
	SchemaPlayerUpdate = "player-update-response"
	SchemaPlayerGet    = "player-get-response"
	SchemaPlayerGetAll = "player-get-all-response"
	SchemaError        = "error-response"
)

const schemaBaseURL = "https://schemas.player-qa.local/"

//go:embed schemas/*.json
var schemaFiles embed.FS

// SchemaSet is a compiled collection of named JSON Schema documents. It is safe for concurrent
// use once loaded.
type SchemaSet struct {
	schemas map[string]*jsonschema.Schema
}

// LoadSchemas compiles every schema shipped with this package.
func LoadSchemas() (*SchemaSet, error) {
	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil, err
	}
	docs := make(map[string][]byte, len(entries))
	for _, e := range entries {
		data, err := schemaFiles.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, err
		}
		docs[strings.TrimSuffix(e.Name(), ".json")] = data
	}
	return NewSchemaSet(docs)
}

// NewSchemaSet compiles the given schema documents, keyed by name.
func NewSchemaSet(docs map[string][]byte) (*SchemaSet, error) {
	c := jsonschema.NewCompiler()
	for name, data := range docs {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("schema %q is not valid JSON: %w", name, err)
		}
		if err := c.AddResource(schemaURL(name), doc); err != nil {
			return nil, fmt.Errorf("schema %q: %w", name, err)
		}
	}
	s := &SchemaSet{schemas: make(map[string]*jsonschema.Schema, len(docs))}
	for name := range docs {
		compiled, err := c.Compile(schemaURL(name))
		if err != nil {
			return nil, fmt.Errorf("schema %q does not compile: %w", name, err)
		}
		s.schemas[name] = compiled
	}
	return s, nil
}

func schemaURL(name string) string {
	return schemaBaseURL + name + ".json"
}

func (s *SchemaSet) Names() []string {
	names := make([]string, 0, len(s.schemas))
	for n := range s.schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Check validates a raw response body against the named schema.
func (s *SchemaSet) Check(name string, body []byte) error {
	sch, ok := s.schemas[name]
	if !ok {
		return fmt.Errorf("schema not found: %s", name)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("response body does not match schema %s: body is not valid JSON: %w", name, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("response body does not match schema %s: %w", name, err)
	}
	return nil
}
