// Package model describes the program under analysis: its classes, its
// callables with declared hints, and the builtins catalog they build on.
// The typesys engine consumes these records; it never inspects live code.
package model

import "fmt"

// ParamKind mirrors the parameter kinds of the modeled language.
type ParamKind int

const (
	PositionalOnly ParamKind = iota
	PositionalOrKeyword
	VarPositional
	KeywordOnly
	VarKeyword
)

func (k ParamKind) String() string {
	switch k {
	case PositionalOnly:
		return "positional_only"
	case PositionalOrKeyword:
		return "positional_or_keyword"
	case VarPositional:
		return "var_positional"
	case KeywordOnly:
		return "keyword_only"
	case VarKeyword:
		return "var_keyword"
	}
	return fmt.Sprintf("paramkind(%d)", int(k))
}

// ParseParamKind reads the textual form used in documents.
// The empty string defaults to positional-or-keyword, the common case.
func ParseParamKind(s string) (ParamKind, error) {
	switch s {
	case "", "positional_or_keyword":
		return PositionalOrKeyword, nil
	case "positional_only":
		return PositionalOnly, nil
	case "var_positional":
		return VarPositional, nil
	case "keyword_only":
		return KeywordOnly, nil
	case "var_keyword":
		return VarKeyword, nil
	}
	return PositionalOrKeyword, fmt.Errorf("unknown parameter kind %q", s)
}

// Param is one parameter of a callable, in declaration order.
type Param struct {
	Name string
	Kind ParamKind
}

// ReturnKey is the reserved hint-map key for the return annotation.
const ReturnKey = "return"

// Callable is a function, method, or constructor of the modeled program.
type Callable struct {
	Name     string
	Module   string
	QualName string
	Params   []Param

	// Declared hints keyed by parameter name plus ReturnKey. May be empty.
	Hints map[string]Hint

	// BrokenHints marks a callable whose hints could not be resolved at
	// inspection time. The engine treats it as having no hints at all.
	BrokenHints bool

	// IsConstructor marks the __init__ of a class.
	IsConstructor bool
}

func (c *Callable) FullName() string {
	return c.Module + "." + c.QualName
}

func (c *Callable) AsCallable() *Callable { return c }

// Class is one class of the modeled program.
type Class struct {
	Name     string
	QualName string
	Module   string
	Abstract bool

	// Instance-level attribute names.
	InstanceAttrs []string

	// Attribute/method names the class declares, before pushdown.
	Symbols []string

	// Full names of direct base classes.
	Bases []string

	// Constructor, if the program declares one.
	Init *Callable
}

func (c *Class) FullName() string {
	return c.Module + "." + c.QualName
}

// AsCallable resolves a class to its constructor, synthesizing a
// receiver-only constructor when the program declares none.
func (c *Class) AsCallable() *Callable {
	if c.Init != nil {
		return c.Init
	}
	return &Callable{
		Name:          "__init__",
		Module:        c.Module,
		QualName:      c.QualName + ".__init__",
		Params:        []Param{{Name: "self", Kind: PositionalOrKeyword}},
		Hints:         map[string]Hint{},
		IsConstructor: true,
	}
}

// CallableRef is anything that resolves to a callable: a callable itself,
// or a class standing in for its constructor.
type CallableRef interface {
	AsCallable() *Callable
}
