// Package typesys is the structural type-lattice and signature-inference
// engine: a closed algebra of proper types, a class registry with an
// inheritance graph, subtype relations over the lattice, and trace-driven
// guessing of parameter and return types.
package typesys

import (
	"fmt"
	"log/slog"

	set "github.com/hashicorp/go-set/v3"

	"github.com/auguria/augur/config"
	"github.com/auguria/augur/model"
	"github.com/auguria/augur/randomness"
	"github.com/auguria/augur/trace"
)

// System owns the registry, the inheritance graph, the subtype caches, and
// the injected configuration and randomness handles. Registry and graph are
// mutated during setup only; after PushSymbolsDown the structures are
// treated as read-only for the rest of the run.
type System struct {
	cfg *config.Config
	rng *randomness.Source
	log *slog.Logger

	// Registry: full name -> descriptor, plus the handle arena.
	types map[string]*TypeInfo
	arena []*TypeInfo

	// Graph: super -> sub adjacency, both directions, append-only.
	succs   map[ClassID][]ClassID
	preds   map[ClassID][]ClassID
	nodes   []ClassID
	version int

	closures  *memo[closureKey, *set.TreeSet[*TypeInfo]]
	symbolMap map[string]*set.TreeSet[*TypeInfo]

	// Unbounded read-through subtype caches, hash-bucketed with
	// structural-equality verification. Type terms are immutable, so
	// entries never go stale.
	subMemo   map[uint64][]subtypeEntry
	maybeMemo map[uint64][]subtypeEntry

	primitives  []ProperType
	collections []ProperType
}

// NewSystem builds a system with the builtins catalog pre-registered.
func NewSystem(cfg *config.Config, rng *randomness.Source) *System {
	ts := &System{
		cfg:       cfg,
		rng:       rng,
		log:       slog.Default().With("section", "typesys"),
		types:     map[string]*TypeInfo{},
		succs:     map[ClassID][]ClassID{},
		preds:     map[ClassID][]ClassID{},
		closures:  newMemo[closureKey, *set.TreeSet[*TypeInfo]](1024),
		symbolMap: map[string]*set.TreeSet[*TypeInfo]{},
		subMemo:   map[uint64][]subtypeEntry{},
		maybeMemo: map[uint64][]subtypeEntry{},
	}

	builtins := model.Builtins()
	for _, c := range builtins {
		ts.ToTypeInfo(c)
	}
	for _, c := range builtins {
		sub := ts.FindTypeInfo(c.FullName())
		for _, base := range c.Bases {
			if super := ts.FindTypeInfo(base); super != nil {
				ts.AddSubclassEdge(super, sub)
			}
		}
	}

	for _, name := range model.PrimitiveNames() {
		info := ts.FindTypeInfo(model.BuiltinsModule + "." + name)
		ts.primitives = append(ts.primitives, ts.MakeInstance(info))
	}
	for _, name := range model.CollectionNames() {
		info := ts.FindTypeInfo(model.BuiltinsModule + "." + name)
		ts.collections = append(ts.collections, ts.MakeInstance(info))
	}
	return ts
}

// Config exposes the injected configuration handle.
func (ts *System) Config() *config.Config { return ts.cfg }

// Randomness exposes the injected randomness source.
func (ts *System) Randomness() *randomness.Source { return ts.rng }

// PrimitiveProperTypes returns the precomputed proper types of the builtin
// primitives, in catalog order.
func (ts *System) PrimitiveProperTypes() []ProperType {
	return append([]ProperType(nil), ts.primitives...)
}

// CollectionProperTypes returns the precomputed proper types of the builtin
// collections, in catalog order.
func (ts *System) CollectionProperTypes() []ProperType {
	return append([]ProperType(nil), ts.collections...)
}

// EnableNumericTower inserts bool < int < float < complex as plain subclass
// edges so ordinary subclass-based subtyping covers numeric promotion.
func (ts *System) EnableNumericTower() {
	boolInfo := ts.FindTypeInfo(boolFullName)
	intInfo := ts.FindTypeInfo(intFullName)
	floatInfo := ts.FindTypeInfo(floatFullName)
	complexInfo := ts.FindTypeInfo(complexFullName)
	ts.AddSubclassEdge(intInfo, boolInfo)
	ts.AddSubclassEdge(floatInfo, intInfo)
	ts.AddSubclassEdge(complexInfo, floatInfo)
}

// ConvertTypeHint converts a declared hint into the proper-type algebra.
// Total over all hint shapes: unknown constructs degrade to the fallback,
// never to an error. Generation callers pass Any; statistics callers pass
// Unsupported to tell "untyped" apart from "typed but unparseable".
func (ts *System) ConvertTypeHint(hint model.Hint, fallback ProperType) ProperType {
	if hint == nil {
		return Any
	}
	switch h := hint.(type) {
	case *model.AnyHint:
		return Any
	case *model.ClassHint:
		switch h.Class.FullName() {
		case noneFullName:
			return None
		case tupleFullName:
			return UnknownTuple()
		}
		return ts.fixupKnownGenerics(NewInstance(ts.ToTypeInfo(h.Class).ID))
	case *model.TupleHint:
		if len(h.Args) == 0 {
			return UnknownTuple()
		}
		return NewTuple(ts.convertArgs(h.Args, fallback)...)
	case *model.UnionHint:
		items := ts.dedupTypes(ts.sortTypes(ts.convertArgs(h.Items, fallback)))
		if len(items) == 1 {
			return items[0]
		}
		return NewUnion(items...)
	case *model.GenericHint:
		if h.Origin.FullName() == tupleFullName {
			if len(h.Args) == 0 {
				return UnknownTuple()
			}
			return NewTuple(ts.convertArgs(h.Args, fallback)...)
		}
		origin := ts.ToTypeInfo(h.Origin)
		return ts.fixupKnownGenerics(NewInstance(origin.ID, ts.convertArgs(h.Args, fallback)...))
	case *model.OpaqueHint:
		ts.log.Debug("unknown type hint", "hint", h.Text)
		return fallback
	default:
		ts.log.Debug("unknown type hint shape", "hint", fmt.Sprintf("%T", hint))
		return fallback
	}
}

func (ts *System) convertArgs(hints []model.Hint, fallback ProperType) []ProperType {
	args := make([]ProperType, len(hints))
	for i, h := range hints {
		args[i] = ts.ConvertTypeHint(h, fallback)
	}
	return args
}

func (ts *System) dedupTypes(types []ProperType) []ProperType {
	var out []ProperType
	for _, t := range types {
		if !ContainsType(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// fixupKnownGenerics pads missing trailing args with Any up to the class's
// hardcoded arity, or truncates excess args beyond it. Classes without a
// hardcoded arity pass through unchanged.
func (ts *System) fixupKnownGenerics(inst *Instance) *Instance {
	arity := ts.typeInfo(inst.Class).GenericArity
	if arity < 0 || len(inst.Args) == arity {
		return inst
	}
	args := append([]ProperType(nil), inst.Args...)
	for len(args) < arity {
		args = append(args, Any)
	}
	return NewInstance(inst.Class, args[:arity]...)
}

// MakeInstance produces the proper type for a bare class. The tuple class
// maps to the wildcard tuple and the null-marker class to None.
func (ts *System) MakeInstance(info *TypeInfo) ProperType {
	switch info.FullName {
	case tupleFullName:
		return UnknownTuple()
	case noneFullName:
		return None
	}
	return ts.fixupKnownGenerics(NewInstance(info.ID))
}

// WrapVarParamType wraps a type for a variadic-positional parameter as
// list[t] and for a variadic-keyword parameter as dict[str, t]. Any other
// kind is returned unchanged.
func (ts *System) WrapVarParamType(t ProperType, kind model.ParamKind) ProperType {
	switch kind {
	case model.VarPositional:
		return NewInstance(ts.FindTypeInfo(listFullName).ID, t)
	case model.VarKeyword:
		str := NewInstance(ts.FindTypeInfo(strFullName).ID)
		return NewInstance(ts.FindTypeInfo(dictFullName).ID, str, t)
	}
	return t
}

// IsSubtype reports whether left is a subtype of right. Unions on the left
// are conjunctive: every disjunct must satisfy the relation.
func (ts *System) IsSubtype(left, right ProperType) bool {
	return ts.memoizedSubtype(ts.subMemo, left, right, ts.IsSubtype, false)
}

// IsMaybeSubtype is the weaker, optimistic relation: unions on the left are
// disjunctive, one satisfied disjunct suffices. Used where exact containers
// cannot be distinguished at the call site.
func (ts *System) IsMaybeSubtype(left, right ProperType) bool {
	return ts.memoizedSubtype(ts.maybeMemo, left, right, ts.IsMaybeSubtype, true)
}

type subtypeEntry struct {
	left, right ProperType
	result      bool
}

func (ts *System) memoizedSubtype(
	cache map[uint64][]subtypeEntry,
	left, right ProperType,
	recurse func(ProperType, ProperType) bool,
	maybe bool,
) bool {
	key := hashMix(left.Hash(), right.Hash())
	for _, e := range cache[key] {
		if Equal(e.left, left) && Equal(e.right, right) {
			return e.result
		}
	}
	result := ts.subtypeImpl(left, right, recurse, maybe)
	cache[key] = append(cache[key], subtypeEntry{left: left, right: right, result: result})
	return result
}

func (ts *System) subtypeImpl(
	left, right ProperType,
	recurse func(ProperType, ProperType) bool,
	maybe bool,
) bool {
	if right.Kind() == AnyKind {
		return true
	}
	if right.Kind() == UnionKind && left.Kind() != UnionKind {
		// A non-union left matches a union right if any disjunct matches.
		for _, item := range right.(*UnionType).Items {
			if recurse(left, item) {
				return true
			}
		}
		return false
	}
	visitor := &subtypeVisitor{ts: ts, right: right, check: recurse, maybe: maybe}
	return Accept[bool](visitor, left)
}

// subtypeVisitor decides left <: right per variant of left. The right-Any
// and right-union cases are handled before dispatch.
type subtypeVisitor struct {
	ts    *System
	right ProperType
	check func(left, right ProperType) bool
	maybe bool
}

func (v *subtypeVisitor) VisitAnyType(AnyType) bool {
	// Any wins always.
	return true
}

func (v *subtypeVisitor) VisitNoneType(NoneType) bool {
	return v.right.Kind() == NoneKind
}

func (v *subtypeVisitor) VisitInstance(left *Instance) bool {
	right, ok := v.right.(*Instance)
	if !ok {
		return false
	}
	leftInfo := v.ts.typeInfo(left.Class)
	rightInfo := v.ts.typeInfo(right.Class)
	if !v.ts.IsSubclass(leftInfo, rightInfo) {
		return false
	}
	if leftInfo.GenericArity >= 0 && leftInfo.GenericArity == rightInfo.GenericArity {
		// Hardcoded generics are treated as invariant:
		// set[T1] <: set[T2] iff T1 <: T2 and T2 <: T1.
		for i := range left.Args {
			if !v.check(left.Args[i], right.Args[i]) || !v.check(right.Args[i], left.Args[i]) {
				return false
			}
		}
	}
	return true
}

func (v *subtypeVisitor) VisitTupleType(left *TupleType) bool {
	right, ok := v.right.(*TupleType)
	if !ok {
		return false
	}
	if len(left.Args) != len(right.Args) {
		// Unknown-size tuples are not unified here; mismatched lengths fail.
		return false
	}
	for i := range left.Args {
		if !v.check(left.Args[i], right.Args[i]) {
			return false
		}
	}
	return true
}

func (v *subtypeVisitor) VisitUnionType(left *UnionType) bool {
	if v.maybe {
		for _, item := range left.Items {
			if v.check(item, v.right) {
				return true
			}
		}
		return false
	}
	for _, item := range left.Items {
		if !v.check(item, v.right) {
			return false
		}
	}
	return true
}

func (v *subtypeVisitor) VisitUnsupported(UnsupportedType) bool {
	panic("unsupported type must not appear in subtype queries")
}

// HintProvider supplies declared hints for a callable.
type HintProvider func(*model.Callable) map[string]model.Hint

// TypeHintsProvider returns the callable's declared hints. A callable whose
// hint resolution failed wholesale is treated as having no hints at all.
func TypeHintsProvider(c *model.Callable) map[string]model.Hint {
	if c.BrokenHints || c.Hints == nil {
		return map[string]model.Hint{}
	}
	return c.Hints
}

// NoHintsProvider ignores declared hints entirely.
func NoHintsProvider(*model.Callable) map[string]model.Hint {
	return map[string]model.Hint{}
}

// InferTypeInfo dispatches on the configured inference strategy. An unknown
// strategy is a configuration error reported to the caller; this is the only
// error-returning entry point of the façade.
func (ts *System) InferTypeInfo(ref model.CallableRef, strategy config.TypeInferenceStrategy) (*InferredSignature, error) {
	switch strategy {
	case config.StrategyTypeHints:
		return ts.InferSignature(ref, TypeHintsProvider), nil
	case config.StrategyNone:
		return ts.InferSignature(ref, NoHintsProvider), nil
	}
	return nil, fmt.Errorf("unknown type-inference strategy %v", strategy)
}

// InferSignature builds the inference record for a callable: declared types
// converted twice, once with fallback Any for generation and once with
// fallback Unsupported for statistics. Classes resolve to their constructor;
// the receiver parameter is excluded.
func (ts *System) InferSignature(ref model.CallableRef, provider HintProvider) *InferredSignature {
	c := ref.AsCallable()
	hints := provider(c)

	sig := &InferredSignature{
		system:                  ts,
		Callable:                c,
		FullName:                c.FullName(),
		IsConstructor:           c.IsConstructor,
		OriginalParameters:      map[string]ProperType{},
		Knowledge:               map[string]*trace.UsageTraceNode{},
		guessed:                 map[string][]ProperType{},
		ParametersForStatistics: map[string]string{},
	}
	for _, p := range c.Params {
		if p.Name == receiverName {
			continue
		}
		sig.paramOrder = append(sig.paramOrder, p.Name)
		sig.paramKinds = append(sig.paramKinds, p.Kind)
		sig.OriginalParameters[p.Name] = ts.ConvertTypeHint(hints[p.Name], Any)
		sig.ParametersForStatistics[p.Name] = ts.TypeString(ts.ConvertTypeHint(hints[p.Name], Unsupported))
	}
	sig.OriginalReturnType = ts.ConvertTypeHint(hints[model.ReturnKey], Any)
	sig.ReturnType = sig.OriginalReturnType
	sig.ReturnTypeForStatistics = ts.TypeString(ts.ConvertTypeHint(hints[model.ReturnKey], Unsupported))
	return sig
}
