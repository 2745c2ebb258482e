package model

import (
	"bytes"
	"strings"
)

// Hint is a declared-type annotation as it arrives from the outside world,
// before conversion into the proper-type algebra. The set of shapes is closed;
// anything the parser cannot recognize becomes an OpaqueHint and the converter
// degrades it to a caller-chosen fallback.
//
// A nil Hint means the annotation is absent entirely.
type Hint interface {
	hintNode()
	String() string
}

// AnyHint is an explicit Any annotation.
type AnyHint struct{}

func (h *AnyHint) hintNode()      {}
func (h *AnyHint) String() string { return "Any" }

// ClassHint is a bare class annotation, e.g. `int` or `pkg.Thing`.
type ClassHint struct {
	Class *Class
}

func (h *ClassHint) hintNode()      {}
func (h *ClassHint) String() string { return h.Class.FullName() }

// TupleHint is the tuple construct. Args == nil marks the bare,
// unparameterized form.
type TupleHint struct {
	Args []Hint
}

func (h *TupleHint) hintNode() {}
func (h *TupleHint) String() string {
	if h.Args == nil {
		return "tuple"
	}
	var out bytes.Buffer
	out.WriteString("tuple[")
	out.WriteString(joinHints(h.Args, ", "))
	out.WriteString("]")
	return out.String()
}

// UnionHint is a union over at least one alternative.
type UnionHint struct {
	Items []Hint
}

func (h *UnionHint) hintNode()      {}
func (h *UnionHint) String() string { return joinHints(h.Items, " | ") }

// GenericHint is a parameterized class annotation, e.g. `list[int]`.
type GenericHint struct {
	Origin *Class
	Args   []Hint
}

func (h *GenericHint) hintNode() {}
func (h *GenericHint) String() string {
	var out bytes.Buffer
	out.WriteString(h.Origin.FullName())
	out.WriteString("[")
	out.WriteString(joinHints(h.Args, ", "))
	out.WriteString("]")
	return out.String()
}

// OpaqueHint carries the raw text of an annotation nothing else could parse.
type OpaqueHint struct {
	Text string
}

func (h *OpaqueHint) hintNode()      {}
func (h *OpaqueHint) String() string { return h.Text }

func joinHints(hints []Hint, sep string) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = h.String()
	}
	return strings.Join(parts, sep)
}
