// Package script reads and writes turtle drawings as YAML or JSON
// documents. A document lists turtles, each with an ordered list of ops:
//
//	turtles:
//	  - name: star
//	    commands:
//	      - speed: 300
//	      - fill_color: gold
//	      - begin_fill
//	      - repeat: {times: 5, do: [{forward: 200}, {right: 144}]}
//	      - end_fill
//
// An op is either a bare name or a single-key map from name to argument.
package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownOp is returned for op names the compiler does not know.
	ErrUnknownOp = errors.New("unknown op")
	// ErrInvalidOp is returned when an op has the wrong shape or argument.
	ErrInvalidOp = errors.New("invalid op")
)

// Document is a full script file.
type Document struct {
	Turtles []Turtle `yaml:"turtles" json:"turtles"`
}

// Turtle is the script of one turtle.
type Turtle struct {
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Commands []any  `yaml:"commands" json:"commands"`
}

// Parse decodes a document. JSON input is accepted as well, being a
// subset of YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &doc, nil
}

// Load reads a script file, choosing the decoder by extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return &doc, nil
	}
	return Parse(data)
}

// Marshal encodes a document as YAML.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// MarshalJSON encodes a document as indented JSON.
func MarshalJSON(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ParseOps decodes a bare op list, in YAML or JSON.
func ParseOps(data []byte) ([]any, error) {
	var ops []any
	if err := yaml.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("failed to parse ops: %w", err)
	}
	return ops, nil
}
