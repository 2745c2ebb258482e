package typesys

import (
	"fmt"
	"sort"
	"strings"
)

// Rendering is registry-aware: an Instance only knows its class handle, so
// the visitors hold the owning system to resolve names.

// TypeString renders the display form: builtins by bare name, everything
// else by full name, args bracketed, union items joined by " | ".
func (ts *System) TypeString(t ProperType) string {
	return Accept[string](&stringVisitor{ts: ts}, t)
}

// TypeRepr renders a constructor-like debug form.
func (ts *System) TypeRepr(t ProperType) string {
	return Accept[string](&reprVisitor{ts: ts}, t)
}

type stringVisitor struct {
	ts *System
}

func (v *stringVisitor) VisitAnyType(AnyType) string   { return "Any" }
func (v *stringVisitor) VisitNoneType(NoneType) string { return "None" }

func (v *stringVisitor) VisitInstance(left *Instance) string {
	info := v.ts.typeInfo(left.Class)
	rep := info.FullName
	if info.Module == "builtins" {
		rep = info.Name
	}
	if len(left.Args) > 0 {
		rep += "[" + v.sequence(left.Args, ", ") + "]"
	}
	return rep
}

func (v *stringVisitor) VisitTupleType(left *TupleType) string {
	rep := "tuple"
	if len(left.Args) > 0 {
		rep += "[" + v.sequence(left.Args, ", ") + "]"
	}
	return rep
}

func (v *stringVisitor) VisitUnionType(left *UnionType) string {
	if len(left.Items) == 1 {
		return Accept[string](v, left.Items[0])
	}
	return v.sequence(left.Items, " | ")
}

func (v *stringVisitor) VisitUnsupported(UnsupportedType) string { return "<?>" }

func (v *stringVisitor) sequence(types []ProperType, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = Accept[string](v, t)
	}
	return strings.Join(parts, sep)
}

type reprVisitor struct {
	ts *System
}

func (v *reprVisitor) VisitAnyType(AnyType) string   { return "AnyType()" }
func (v *reprVisitor) VisitNoneType(NoneType) string { return "NoneType()" }

func (v *reprVisitor) VisitInstance(left *Instance) string {
	rep := fmt.Sprintf("Instance(%s", v.ts.typeInfo(left.Class).FullName)
	if len(left.Args) > 0 {
		rep += ", " + v.sequence(left.Args)
	}
	return rep + ")"
}

func (v *reprVisitor) VisitTupleType(left *TupleType) string {
	if left.UnknownSize {
		return fmt.Sprintf("TupleType(%s, unknown_size=true)", v.sequence(left.Args))
	}
	return fmt.Sprintf("TupleType(%s)", v.sequence(left.Args))
}

func (v *reprVisitor) VisitUnionType(left *UnionType) string {
	return fmt.Sprintf("UnionType(%s)", v.sequence(left.Items))
}

func (v *reprVisitor) VisitUnsupported(UnsupportedType) string { return "Unsupported()" }

func (v *reprVisitor) sequence(types []ProperType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = Accept[string](v, t)
	}
	return strings.Join(parts, ", ")
}

// sortTypes orders types by display form, in place, and returns the slice.
// Display order drives union determinism.
func (ts *System) sortTypes(types []ProperType) []ProperType {
	sort.SliceStable(types, func(i, j int) bool {
		return ts.TypeString(types[i]) < ts.TypeString(types[j])
	})
	return types
}

// isCollection reports whether t is shaped like a builtin collection:
// list/set/dict instances and any tuple.
func (ts *System) isCollection(t ProperType) bool {
	return Accept[bool](&collectionVisitor{ts: ts}, t)
}

type collectionVisitor struct {
	ts *System
}

func (v *collectionVisitor) VisitAnyType(AnyType) bool   { return false }
func (v *collectionVisitor) VisitNoneType(NoneType) bool { return false }

func (v *collectionVisitor) VisitInstance(left *Instance) bool {
	switch v.ts.typeInfo(left.Class).FullName {
	case listFullName, setFullName, dictFullName:
		return true
	}
	return false
}

func (v *collectionVisitor) VisitTupleType(*TupleType) bool { return true }
func (v *collectionVisitor) VisitUnionType(*UnionType) bool { return false }

func (v *collectionVisitor) VisitUnsupported(UnsupportedType) bool {
	panic("unsupported type in collection classification")
}

// isPrimitive reports whether t is an instance of a builtin primitive.
func (ts *System) isPrimitive(t ProperType) bool {
	return Accept[bool](&primitiveVisitor{ts: ts}, t)
}

type primitiveVisitor struct {
	ts *System
}

func (v *primitiveVisitor) VisitAnyType(AnyType) bool   { return false }
func (v *primitiveVisitor) VisitNoneType(NoneType) bool { return false }

func (v *primitiveVisitor) VisitInstance(left *Instance) bool {
	switch v.ts.typeInfo(left.Class).FullName {
	case intFullName, strFullName, boolFullName, floatFullName, complexFullName,
		"builtins.bytes", typeFullName:
		return true
	}
	return false
}

func (v *primitiveVisitor) VisitTupleType(*TupleType) bool { return false }
func (v *primitiveVisitor) VisitUnionType(*UnionType) bool { return false }

func (v *primitiveVisitor) VisitUnsupported(UnsupportedType) bool {
	panic("unsupported type in primitive classification")
}
