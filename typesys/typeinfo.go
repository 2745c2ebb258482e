package typesys

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/auguria/augur/model"
)

// ClassID is the stable registry handle of a class. Proper types store the
// handle instead of a live descriptor, so type values never own graph nodes.
type ClassID int

// TypeInfo is the canonical descriptor of one class. Created once per
// distinct full name by ToTypeInfo and mutated only by graph registration
// and the pushdown pass.
type TypeInfo struct {
	ID       ClassID
	Name     string
	QualName string
	Module   string
	// FullName joins module and qualname; it is the interning key.
	FullName string
	Abstract bool

	InstanceAttrs *set.Set[string]
	Symbols       *set.Set[string]

	// GenericArity is the hardcoded generic parameter count, or -1 when the
	// class takes none. General generics are out of scope; only the builtin
	// containers carry an arity.
	GenericArity int
}

func (ti *TypeInfo) String() string {
	return "TypeInfo(" + ti.FullName + ")"
}

func compareTypeInfos(a, b *TypeInfo) int {
	return int(a.ID) - int(b.ID)
}

const (
	objectFullName  = "builtins.object"
	noneFullName    = "builtins.NoneType"
	tupleFullName   = "builtins.tuple"
	listFullName    = "builtins.list"
	setFullName     = "builtins.set"
	dictFullName    = "builtins.dict"
	strFullName     = "builtins.str"
	boolFullName    = "builtins.bool"
	intFullName     = "builtins.int"
	floatFullName   = "builtins.float"
	complexFullName = "builtins.complex"
	typeFullName    = "builtins.type"
)

func hardcodedArity(fullName string) int {
	switch fullName {
	case dictFullName:
		return 2
	case listFullName, setFullName:
		return 1
	}
	return -1
}

// ToTypeInfo interns a class descriptor. Idempotent: the same full name
// always yields the identical TypeInfo. New descriptors become graph nodes
// with no edges.
func (ts *System) ToTypeInfo(c *model.Class) *TypeInfo {
	full := c.FullName()
	if found, ok := ts.types[full]; ok {
		return found
	}
	info := &TypeInfo{
		ID:            ClassID(len(ts.arena)),
		Name:          c.Name,
		QualName:      c.QualName,
		Module:        c.Module,
		FullName:      full,
		Abstract:      c.Abstract,
		InstanceAttrs: stringSet(c.InstanceAttrs),
		Symbols:       stringSet(c.Symbols),
		GenericArity:  hardcodedArity(full),
	}
	ts.types[full] = info
	ts.arena = append(ts.arena, info)
	ts.addNode(info.ID)
	return info
}

// FindTypeInfo returns the descriptor registered under the given full name,
// or nil when absent.
func (ts *System) FindTypeInfo(fullName string) *TypeInfo {
	return ts.types[fullName]
}

// typeInfo resolves a handle. Handles come from the arena, so this is total.
func (ts *System) typeInfo(id ClassID) *TypeInfo {
	return ts.arena[id]
}

// AllTypes returns every registered descriptor in registration order.
func (ts *System) AllTypes() []*TypeInfo {
	return append([]*TypeInfo(nil), ts.arena...)
}

func stringSet(items []string) *set.Set[string] {
	s := set.New[string](len(items))
	s.InsertSlice(items)
	return s
}
