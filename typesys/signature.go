package typesys

import (
	"github.com/auguria/augur/model"
	"github.com/auguria/augur/randomness"
	"github.com/auguria/augur/trace"
)

// receiverName is the conventional first-parameter name of methods.
const receiverName = "self"

// InferredSignature is the per-callable inference state: declared types plus
// the usage knowledge accumulated at runtime. Created once per callable; the
// rolling guess lists accumulate across inference calls and are never reset.
type InferredSignature struct {
	system *System

	Callable      *model.Callable
	FullName      string
	IsConstructor bool

	// Parameter names and kinds in declaration order, receiver excluded.
	paramOrder []string
	paramKinds []model.ParamKind

	OriginalReturnType ProperType
	OriginalParameters map[string]ProperType

	// ReturnType starts as the declared return and may be updated from
	// observed returns.
	ReturnType ProperType

	// Knowledge holds the usage trace recorded per parameter.
	Knowledge map[string]*trace.UsageTraceNode

	// Rolling per-parameter guess lists: at most maxGuesses entries, no
	// structural duplicates, oldest evicted first.
	guessed map[string][]ProperType

	// Display forms converted with fallback Unsupported, statistics only.
	ParametersForStatistics map[string]string
	ReturnTypeForStatistics string
}

const maxGuesses = 5

// ParamNames returns the parameter names in declaration order, receiver
// excluded.
func (s *InferredSignature) ParamNames() []string {
	return append([]string(nil), s.paramOrder...)
}

func (s *InferredSignature) paramKind(name string) model.ParamKind {
	for i, n := range s.paramOrder {
		if n == name {
			return s.paramKinds[i]
		}
	}
	return model.PositionalOrKeyword
}

// SetKnowledge attaches a recorded usage trace to a parameter.
func (s *InferredSignature) SetKnowledge(param string, node *trace.UsageTraceNode) {
	s.Knowledge[param] = node
}

// GuessedTypes returns the current rolling guess list for a parameter.
func (s *InferredSignature) GuessedTypes(param string) []ProperType {
	return append([]ProperType(nil), s.guessed[param]...)
}

// SignatureMemo caches chosen parameter types per inference record for one
// run, so repeated use sites see a consistent signature.
type SignatureMemo map[*InferredSignature]map[string]ProperType

// GetParameterTypes chooses a possible type per parameter: a weighted random
// pick among None, Any, the declared type, and a union over the rolling
// guesses. Idempotent within one memo. The choice list is assembled in a
// fixed order; under a fixed seed the draw sequence is reproducible.
func (s *InferredSignature) GetParameterTypes(memo SignatureMemo) map[string]ProperType {
	if chosen, ok := memo[s]; ok {
		return chosen
	}
	cfg := s.system.cfg
	res := map[string]ProperType{}
	for i, name := range s.paramOrder {
		kind := s.paramKinds[i]
		if k, ok := s.Knowledge[name]; ok {
			// Fresh runtime knowledge refreshes the rolling guess list.
			if guess, ok := s.GuessParameterType(k, kind); ok {
				s.updateGuess(name, guess)
			}
		}

		orig := s.OriginalParameters[name]
		choices := []ProperType{None, Any}
		weights := []float64{cfg.NoneWeight, cfg.AnyWeight}
		if orig.Kind() != AnyKind {
			choices = append(choices, orig)
			weights = append(weights, cfg.OriginalTypeWeight)
		}
		if guessed := s.guessed[name]; len(guessed) > 0 {
			items := s.system.sortTypes(append([]ProperType(nil), guessed...))
			choices = append(choices, NewUnion(items...))
			weights = append(weights, cfg.TypeTracingWeight)
		}
		chosen := randomness.Choices(s.system.rng, choices, weights)

		if s.system.rng.NextFloat() < cfg.WrapVarParamTypeProbability {
			// Other containers can also be passed by * and **, so the wrap
			// is probabilistic rather than unconditional.
			chosen = s.system.WrapVarParamType(chosen, kind)
		}
		res[name] = chosen
	}
	memo[s] = res
	return res
}

func (s *InferredSignature) updateGuess(name string, guess ProperType) {
	old := s.guessed[name]
	if ContainsType(old, guess) {
		return
	}
	if len(old) >= maxGuesses {
		old = old[1:]
	}
	s.guessed[name] = append(old, guess)
}

// GuessParameterType derives one type guess from recorded knowledge,
// dispatching on the parameter kind. A variadic-keyword parameter is always
// dict[str, ?], so its value type hides under the subscript access of the
// trace; a variadic-positional parameter is always list[?], under iteration.
func (s *InferredSignature) GuessParameterType(k *trace.UsageTraceNode, kind model.ParamKind) (ProperType, bool) {
	switch kind {
	case model.VarKeyword:
		if item := k.Lookup("__getitem__"); item != nil {
			return s.guessParameterTypeFrom(item, 0)
		}
		return nil, false
	case model.VarPositional:
		if iter := k.Lookup("__iter__"); iter != nil {
			return s.guessParameterTypeFrom(iter, 0)
		}
		return nil, false
	}
	return s.guessParameterTypeFrom(k, 0)
}

// Accesses whose argument types indicate the traced value's own type.
// Multiplication is excluded: [1, 2] * 3 says nothing about element types.
var argumentSymbols = map[string]struct{}{
	"__eq__": {}, "__ne__": {},
	"__lt__": {}, "__le__": {}, "__gt__": {}, "__ge__": {},
	"__add__": {}, "__radd__": {},
	"__sub__": {}, "__rsub__": {},
	"__truediv__": {}, "__rtruediv__": {},
	"__floordiv__": {}, "__rfloordiv__": {},
}

// Element-type evidence per container shape.
var (
	listElementSymbols  = []string{"__iter__", "__getitem__"}
	setElementSymbols   = []string{"__iter__"}
	dictKeySymbols      = []string{"__iter__"}
	dictValueSymbols    = []string{"__getitem__"}
	tupleElementSymbols = []string{"__iter__", "__getitem__"}

	listElementArgSymbols  = []string{"__contains__", "__delitem__"}
	setElementArgSymbols   = []string{"__contains__", "__delitem__"}
	dictKeyArgSymbols      = []string{"__contains__", "__delitem__", "__getitem__", "__setitem__"}
	dictValueArgSymbols    = []string{"__setitem__"}
	tupleElementArgSymbols = []string{"__contains__"}

	listElementArgPaths = [][]string{{"append", "__call__"}, {"remove", "__call__"}}
	setElementArgPaths  = [][]string{{"add", "__call__"}, {"remove", "__call__"}, {"discard", "__call__"}}
	noArgPaths          [][]string
)

// guessParameterTypeFrom picks one applicable strategy at random and runs
// it: type-check based when explicit checks were recorded, symbol based when
// accesses were. Container-shaped guesses get their element types refined
// while the recursion depth allows.
func (s *InferredSignature) guessParameterTypeFrom(k *trace.UsageTraceNode, depth int) (ProperType, bool) {
	type strategy func(*trace.UsageTraceNode) (ProperType, bool)
	var strategies []strategy
	if len(k.TypeChecks) > 0 {
		strategies = append(strategies, s.fromTypeCheck)
	}
	if k.HasChildren() {
		strategies = append(strategies, s.fromSymbols)
	}
	if len(strategies) == 0 {
		return nil, false
	}
	guess, ok := randomness.Choice(s.system.rng, strategies)(k)
	if ok && depth <= 1 && s.system.isCollection(guess) {
		guess = s.guessGenericParameters(guess, k, depth)
	}
	return guess, ok
}

// fromTypeCheck resolves a random recorded type check.
func (s *InferredSignature) fromTypeCheck(k *trace.UsageTraceNode) (ProperType, bool) {
	checked := randomness.Choice(s.system.rng, k.TypeChecks)
	return s.chooseTypeOrNegate([]*TypeInfo{s.system.ToTypeInfo(checked)})
}

// fromSymbols picks a random accessed name. For argument-comparison symbols
// with recorded slot-0 argument types, half the time the guess comes from a
// random observed argument instead of the symbol index.
func (s *InferredSignature) fromSymbols(k *trace.UsageTraceNode) (ProperType, bool) {
	name := randomness.Choice(s.system.rng, k.ChildNames())
	if _, isArgSymbol := argumentSymbols[name]; isArgSymbol {
		argTypes := k.Lookup(name).ArgTypes[0]
		if len(argTypes) > 0 && s.system.rng.NextFloat() < 0.5 {
			argType := randomness.Choice(s.system.rng, argTypes)
			return s.chooseTypeOrNegate([]*TypeInfo{s.system.ToTypeInfo(argType)})
		}
	}
	return s.chooseTypeOrNegate(s.system.FindBySymbol(name))
}

// chooseTypeOrNegate resolves candidate classes to a concrete type. With the
// configured probability it instead returns a type outside the candidates'
// subclass closures, an intentionally mismatched guess for diversity. An
// empty outside set falls through to the positive choice.
func (s *InferredSignature) chooseTypeOrNegate(candidates []*TypeInfo) (ProperType, bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	if s.system.rng.NextFloat() < s.system.cfg.NegateTypeProbability {
		if outside := s.system.GetTypeOutsideOf(candidates); len(outside) > 0 {
			return s.system.MakeInstance(randomness.Choice(s.system.rng, outside)), true
		}
	}
	return s.system.MakeInstance(randomness.Choice(s.system.rng, candidates)), true
}

// guessGenericParameters refines the element types of a container-shaped
// guess from the same knowledge node.
func (s *InferredSignature) guessGenericParameters(guess ProperType, k *trace.UsageTraceNode, depth int) ProperType {
	switch g := guess.(type) {
	case *Instance:
		args := append([]ProperType(nil), g.Args...)
		switch s.system.typeInfo(g.Class).FullName {
		case listFullName:
			if elem, ok := s.guessGenericArguments(k, depth, listElementSymbols, listElementArgSymbols, listElementArgPaths, 0); ok {
				args[0] = elem
			}
		case setFullName:
			if elem, ok := s.guessGenericArguments(k, depth, setElementSymbols, setElementArgSymbols, setElementArgPaths, 0); ok {
				args[0] = elem
			}
		case dictFullName:
			if key, ok := s.guessGenericArguments(k, depth, dictKeySymbols, dictKeyArgSymbols, noArgPaths, 0); ok {
				args[0] = key
			}
			if value, ok := s.guessGenericArguments(k, depth, dictValueSymbols, dictValueArgSymbols, noArgPaths, 1); ok {
				args[1] = value
			}
		default:
			return guess
		}
		return NewInstance(g.Class, args...)
	case *TupleType:
		// Unknown tuple content: pick a random arity and guess each slot.
		numElements := s.system.rng.IntRange(1, s.system.cfg.CollectionSize)
		elements := make([]ProperType, 0, numElements)
		for i := 0; i < numElements; i++ {
			elem, ok := s.guessGenericArguments(k, depth, tupleElementSymbols, tupleElementArgSymbols, noArgPaths, 0)
			if !ok {
				elem = Any
			}
			elements = append(elements, elem)
		}
		return NewTuple(elements...)
	}
	return guess
}

// guessGenericArguments assembles the applicable element-type strategies in
// a fixed order and runs one at random: recurse into an element-access
// child, read observed argument types of a mutating access, follow a
// call path, or leave the element as Any.
func (s *InferredSignature) guessGenericArguments(
	k *trace.UsageTraceNode,
	depth int,
	elementSymbols, argSymbols []string,
	argPaths [][]string,
	argIdx int,
) (ProperType, bool) {
	type strategy func() (ProperType, bool)
	var strategies []strategy

	if present := k.PresentChildren(elementSymbols); len(present) > 0 {
		strategies = append(strategies, func() (ProperType, bool) {
			child := k.Lookup(randomness.Choice(s.system.rng, present))
			return s.guessParameterTypeFrom(child, depth+1)
		})
	}
	if present := k.PresentChildren(argSymbols); len(present) > 0 {
		strategies = append(strategies, func() (ProperType, bool) {
			return s.guessFromArgumentTypes(present, k, argIdx)
		})
	}
	var reachable [][]string
	for _, path := range argPaths {
		if k.FindPath(path) != nil {
			reachable = append(reachable, path)
		}
	}
	if len(reachable) > 0 {
		strategies = append(strategies, func() (ProperType, bool) {
			return s.guessFromArgumentPath(reachable, k)
		})
	}
	// Not making the element more specific is always an option.
	strategies = append(strategies, func() (ProperType, bool) { return Any, true })

	return randomness.Choice(s.system.rng, strategies)()
}

func (s *InferredSignature) guessFromArgumentTypes(present []string, k *trace.UsageTraceNode, argIdx int) (ProperType, bool) {
	child := k.Lookup(randomness.Choice(s.system.rng, present))
	argTypes := child.ArgTypes[argIdx]
	if len(argTypes) == 0 {
		return nil, false
	}
	argType := randomness.Choice(s.system.rng, argTypes)
	return s.chooseTypeOrNegate([]*TypeInfo{s.system.ToTypeInfo(argType)})
}

// guessFromArgumentPath guesses an element type from the slot-0 argument
// types of a call reached by following a path like append.__call__.
func (s *InferredSignature) guessFromArgumentPath(paths [][]string, k *trace.UsageTraceNode) (ProperType, bool) {
	path := randomness.Choice(s.system.rng, paths)
	end := k.FindPath(path)
	argTypes := end.ArgTypes[0]
	if len(argTypes) == 0 {
		return nil, false
	}
	argType := randomness.Choice(s.system.rng, argTypes)
	return s.chooseTypeOrNegate([]*TypeInfo{s.system.ToTypeInfo(argType)})
}
