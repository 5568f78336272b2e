// Package manifest reads YAML build descriptions and turns them into
// datapacks. A manifest is checked against an embedded JSON Schema before
// anything is built.
package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrSchema          = errors.New("manifest does not match schema")
	ErrUnknownTrigger  = errors.New("unknown trigger")
	ErrUnknownFunction = errors.New("unknown function")
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "manifest.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Schema returns the embedded JSON Schema document.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

type Manifest struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	PackFormat  int         `yaml:"pack_format"`
	Namespaces  []Namespace `yaml:"namespaces"`
}

type Namespace struct {
	Name          string     `yaml:"name"`
	Root          []int      `yaml:"root"`
	Functions     []Function `yaml:"functions"`
	OnLoad        []Step     `yaml:"on_load"`
	OnTick        []Step     `yaml:"on_tick"`
	Triggers      []Trigger  `yaml:"triggers"`
	CommandBlocks []Step     `yaml:"command_blocks"`
}

type Function struct {
	Name string `yaml:"name"`
	Body []Step `yaml:"body"`
}

type Trigger struct {
	ID string `yaml:"id"`
	At []At   `yaml:"at"`
}

// At is one point on a trigger timeline. Fractional ticks are rounded.
type At struct {
	Tick float64 `yaml:"tick"`
	Body []Step  `yaml:"body"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (*Manifest, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return &m, nil
}

// Validate checks a YAML document against the manifest schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	// The validator expects encoding/json types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
