package model

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the YAML description of a program model: its classes, its
// callables with hint expressions, and the usage traces recorded for them.
// Hint expressions are plain strings here; the typeexpr package turns them
// into Hint values once the class table is known.
type Document struct {
	Module       string          `yaml:"module"`
	Seed         int64           `yaml:"seed"`
	NumericTower bool            `yaml:"numeric_tower"`
	Strategy     string          `yaml:"strategy"`
	Classes      []*ClassSpec    `yaml:"classes"`
	Callables    []*CallableSpec `yaml:"callables"`
}

// ClassSpec declares one class. Module defaults to the document module,
// QualName to Name.
type ClassSpec struct {
	Name       string   `yaml:"name"`
	QualName   string   `yaml:"qualname,omitempty"`
	Module     string   `yaml:"module,omitempty"`
	Abstract   bool     `yaml:"abstract,omitempty"`
	Bases      []string `yaml:"bases,omitempty"`
	Attributes []string `yaml:"attributes,omitempty"`
	Symbols    []string `yaml:"symbols,omitempty"`
}

// CallableSpec declares one callable with hint expressions per parameter and
// optional usage traces keyed by parameter name.
type CallableSpec struct {
	Name           string                    `yaml:"name"`
	QualName       string                    `yaml:"qualname,omitempty"`
	Module         string                    `yaml:"module,omitempty"`
	Constructor    bool                      `yaml:"constructor,omitempty"`
	BrokenHints    bool                      `yaml:"broken_hints,omitempty"`
	Params         []*ParamSpec              `yaml:"params,omitempty"`
	Return         string                    `yaml:"return,omitempty"`
	ObservedReturn string                    `yaml:"observed_return,omitempty"`
	Trace          map[string]*TraceNodeSpec `yaml:"trace,omitempty"`
}

type ParamSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind,omitempty"`
	Hint string `yaml:"hint,omitempty"`
}

// TraceNodeSpec is one node of a recorded usage trace: the accesses observed
// on a value, per-slot argument class names, and explicit type checks.
type TraceNodeSpec struct {
	Children   map[string]*TraceNodeSpec `yaml:"children,omitempty"`
	ArgTypes   [][]string                `yaml:"arg_types,omitempty"`
	TypeChecks []string                  `yaml:"type_checks,omitempty"`
}

// Load reads a document with strict field checking.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode model document: %w", err)
	}
	if doc.Module == "" {
		return nil, fmt.Errorf("model document: missing module name")
	}
	return doc, nil
}

func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model document: %w", err)
	}
	defer f.Close()
	return Load(f)
}
