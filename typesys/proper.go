package typesys

import "fmt"

// Kind discriminates the variants of the closed proper-type algebra.
type Kind int

const (
	AnyKind Kind = iota
	NoneKind
	InstanceKind
	TupleKind
	UnionKind
	UnsupportedKind
)

// ProperType is one immutable term of the type algebra. Rendering is
// registry-aware and therefore lives on the System, not on the terms.
type ProperType interface {
	Kind() Kind
	Hash() uint64
}

// Shared unit values to avoid repeated construction.
var (
	Any         ProperType = AnyType{}
	None        ProperType = NoneType{}
	Unsupported ProperType = UnsupportedType{}
)

// AnyType is the top type.
type AnyType struct{}

func (AnyType) Kind() Kind   { return AnyKind }
func (AnyType) Hash() uint64 { return hashKind(AnyKind) }

// NoneType is the null/absence type.
type NoneType struct{}

func (NoneType) Kind() Kind   { return NoneKind }
func (NoneType) Hash() uint64 { return hashKind(NoneKind) }

// UnsupportedType is a sentinel for hint constructs the converter cannot
// represent. It exists for statistics only and must never reach a subtype
// query.
type UnsupportedType struct{}

func (UnsupportedType) Kind() Kind   { return UnsupportedKind }
func (UnsupportedType) Hash() uint64 { return hashKind(UnsupportedKind) }

// Instance denotes "values of this class", optionally parameterized.
// The class is referenced by its registry handle, not a live descriptor.
// Args stays empty unless the class has a hardcoded generic arity.
type Instance struct {
	Class ClassID
	Args  []ProperType

	hash uint64
}

func NewInstance(class ClassID, args ...ProperType) *Instance {
	return &Instance{Class: class, Args: args}
}

func (i *Instance) Kind() Kind { return InstanceKind }

func (i *Instance) Hash() uint64 {
	if i.hash == 0 {
		h := hashKind(InstanceKind)
		h = hashMix(h, uint64(i.Class))
		for _, a := range i.Args {
			h = hashMix(h, a.Hash())
		}
		i.hash = nonZero(h)
	}
	return i.hash
}

// TupleType is a heterogeneous fixed-arity tuple. UnknownSize marks a tuple
// of unknown length and content; it always carries a single Any slot.
type TupleType struct {
	Args        []ProperType
	UnknownSize bool

	hash uint64
}

func NewTuple(args ...ProperType) *TupleType {
	return &TupleType{Args: args}
}

// UnknownTuple is the wildcard tuple of unknown size.
func UnknownTuple() *TupleType {
	return &TupleType{Args: []ProperType{Any}, UnknownSize: true}
}

func (t *TupleType) Kind() Kind { return TupleKind }

func (t *TupleType) Hash() uint64 {
	if t.hash == 0 {
		h := hashKind(TupleKind)
		if t.UnknownSize {
			h = hashMix(h, 1)
		}
		for _, a := range t.Args {
			h = hashMix(h, a.Hash())
		}
		t.hash = nonZero(h)
	}
	return t.hash
}

// UnionType holds at least one alternative. Item order is retained for
// display but irrelevant for equality and hashing; constructors sort items
// by rendered form for determinism.
type UnionType struct {
	Items []ProperType

	hash uint64
}

func NewUnion(items ...ProperType) *UnionType {
	if len(items) == 0 {
		panic("NewUnion: union needs at least one item")
	}
	return &UnionType{Items: items}
}

func (u *UnionType) Kind() Kind { return UnionKind }

func (u *UnionType) Hash() uint64 {
	if u.hash == 0 {
		// Commutative mix so item order does not matter.
		var sum uint64
		for _, it := range u.Items {
			sum += it.Hash()
		}
		u.hash = nonZero(hashMix(hashKind(UnionKind), sum))
	}
	return u.hash
}

// Equal performs structural equality with a dispatcher by Kind.
func Equal(a, b ProperType) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	cmp := typeComparer(a.Kind())
	return cmp(a, b)
}

func typeComparer(k Kind) func(a, b ProperType) bool {
	switch k {
	case AnyKind, NoneKind, UnsupportedKind:
		return eqUnit
	case InstanceKind:
		return eqInstance
	case TupleKind:
		return eqTuple
	case UnionKind:
		return eqUnion
	default:
		return func(a, b ProperType) bool { panic(fmt.Sprintf("Equal: unhandled kind %v", k)) }
	}
}

func eqUnit(a, b ProperType) bool { return true }

func eqInstance(a, b ProperType) bool {
	ai := a.(*Instance)
	bi := b.(*Instance)
	return ai.Class == bi.Class && equalTypeSlices(ai.Args, bi.Args)
}

func eqTuple(a, b ProperType) bool {
	at := a.(*TupleType)
	bt := b.(*TupleType)
	return at.UnknownSize == bt.UnknownSize && equalTypeSlices(at.Args, bt.Args)
}

// eqUnion compares items as multisets.
func eqUnion(a, b ProperType) bool {
	au := a.(*UnionType)
	bu := b.(*UnionType)
	if len(au.Items) != len(bu.Items) {
		return false
	}
	used := make([]bool, len(bu.Items))
outer:
	for _, l := range au.Items {
		for i, r := range bu.Items {
			if !used[i] && Equal(l, r) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func equalTypeSlices(xs, ys []ProperType) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

// ContainsType reports whether types contains a structural duplicate of t.
func ContainsType(types []ProperType, t ProperType) bool {
	for _, x := range types {
		if Equal(x, t) {
			return true
		}
	}
	return false
}

// TypeVisitor has one method per variant. Visitors must handle all six;
// an unhandled dynamic type in Accept is a defect, not a runtime condition.
type TypeVisitor[T any] interface {
	VisitAnyType(AnyType) T
	VisitNoneType(NoneType) T
	VisitInstance(*Instance) T
	VisitTupleType(*TupleType) T
	VisitUnionType(*UnionType) T
	VisitUnsupported(UnsupportedType) T
}

// Accept dispatches t to the matching visitor method.
func Accept[T any](v TypeVisitor[T], t ProperType) T {
	switch t := t.(type) {
	case AnyType:
		return v.VisitAnyType(t)
	case NoneType:
		return v.VisitNoneType(t)
	case *Instance:
		return v.VisitInstance(t)
	case *TupleType:
		return v.VisitTupleType(t)
	case *UnionType:
		return v.VisitUnionType(t)
	case UnsupportedType:
		return v.VisitUnsupported(t)
	default:
		panic(fmt.Sprintf("Accept: unhandled proper type %T", t))
	}
}

// FNV-1a style mixing for cached structural hashes.
const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

func hashKind(k Kind) uint64 {
	return hashMix(fnvOffset, uint64(k))
}

func hashMix(h, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h ^= (v >> (8 * i)) & 0xff
		h *= fnvPrime
	}
	return h
}

// nonZero keeps zero free as the "not yet computed" sentinel.
func nonZero(h uint64) uint64 {
	if h == 0 {
		return 1
	}
	return h
}
