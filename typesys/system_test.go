package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auguria/augur/config"
	"github.com/auguria/augur/model"
	"github.com/auguria/augur/randomness"
)

func testSystem(t *testing.T) *System {
	t.Helper()
	return NewSystem(config.Default(), randomness.New(42))
}

func testSystemWith(t *testing.T, cfg *config.Config) *System {
	t.Helper()
	return NewSystem(cfg, randomness.New(42))
}

func class(module, name string, symbols []string, bases ...string) *model.Class {
	return &model.Class{Name: name, QualName: name, Module: module, Symbols: symbols, Bases: bases}
}

// registerZoo adds Animal with subclasses Dog and Cat.
func registerZoo(ts *System) (animal, dog, cat *TypeInfo) {
	a := ts.ToTypeInfo(class("zoo", "Animal", []string{"speak"}))
	d := ts.ToTypeInfo(class("zoo", "Dog", []string{"speak", "fetch"}, "zoo.Animal"))
	c := ts.ToTypeInfo(class("zoo", "Cat", nil, "zoo.Animal"))
	ts.AddSubclassEdge(a, d)
	ts.AddSubclassEdge(a, c)
	return a, d, c
}

func builtinClass(t *testing.T, name string) *model.Class {
	t.Helper()
	for _, c := range model.Builtins() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no builtin class %q", name)
	return nil
}

func instanceOf(t *testing.T, ts *System, fullName string, args ...ProperType) ProperType {
	t.Helper()
	info := ts.FindTypeInfo(fullName)
	require.NotNil(t, info, "class %s not registered", fullName)
	if len(args) == 0 {
		return ts.MakeInstance(info)
	}
	return NewInstance(info.ID, args...)
}

func TestToTypeInfoInterning(t *testing.T) {
	ts := testSystem(t)
	c := class("zoo", "Animal", []string{"speak"})
	first := ts.ToTypeInfo(c)
	second := ts.ToTypeInfo(class("zoo", "Animal", nil))
	require.Same(t, first, second)
	assert.Equal(t, "zoo.Animal", first.FullName)
	assert.Equal(t, -1, first.GenericArity)
	assert.True(t, first.Symbols.Contains("speak"))
}

func TestHardcodedGenericArity(t *testing.T) {
	ts := testSystem(t)
	assert.Equal(t, 1, ts.FindTypeInfo(listFullName).GenericArity)
	assert.Equal(t, 1, ts.FindTypeInfo(setFullName).GenericArity)
	assert.Equal(t, 2, ts.FindTypeInfo(dictFullName).GenericArity)
	assert.Equal(t, -1, ts.FindTypeInfo(intFullName).GenericArity)
}

func TestConvertTypeHint(t *testing.T) {
	ts := testSystem(t)

	tests := []struct {
		name string
		hint model.Hint
		want string
	}{
		{"absent", nil, "Any"},
		{"any", &model.AnyHint{}, "Any"},
		{"class", &model.ClassHint{Class: builtinClass(t, "int")}, "int"},
		{"none marker", &model.ClassHint{Class: builtinClass(t, "NoneType")}, "None"},
		{"bare tuple", &model.TupleHint{}, "tuple[Any]"},
		{"tuple", &model.TupleHint{Args: []model.Hint{
			&model.ClassHint{Class: builtinClass(t, "int")},
			&model.ClassHint{Class: builtinClass(t, "str")},
		}}, "tuple[int, str]"},
		{"generic", &model.GenericHint{Origin: builtinClass(t, "dict"), Args: []model.Hint{
			&model.ClassHint{Class: builtinClass(t, "str")},
			&model.ClassHint{Class: builtinClass(t, "int")},
		}}, "dict[str, int]"},
		{"union sorted", &model.UnionHint{Items: []model.Hint{
			&model.ClassHint{Class: builtinClass(t, "str")},
			&model.ClassHint{Class: builtinClass(t, "int")},
		}}, "int | str"},
		{"union dedup collapses", &model.UnionHint{Items: []model.Hint{
			&model.ClassHint{Class: builtinClass(t, "int")},
			&model.ClassHint{Class: builtinClass(t, "int")},
		}}, "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ts.ConvertTypeHint(tt.hint, Any)
			assert.Equal(t, tt.want, ts.TypeString(got))
		})
	}
}

func TestConvertTypeHintFallback(t *testing.T) {
	ts := testSystem(t)
	opaque := &model.OpaqueHint{Text: "Callable[..., int]"}
	assert.Equal(t, AnyKind, ts.ConvertTypeHint(opaque, Any).Kind())
	assert.Equal(t, UnsupportedKind, ts.ConvertTypeHint(opaque, Unsupported).Kind())
}

func TestConvertTypeHintFixesGenericArity(t *testing.T) {
	ts := testSystem(t)

	// A bare list pads its single slot with Any.
	bare := ts.ConvertTypeHint(&model.ClassHint{Class: builtinClass(t, "list")}, Any)
	assert.Equal(t, "list[Any]", ts.TypeString(bare))

	// A dict with one argument pads, with three truncates.
	one := ts.ConvertTypeHint(&model.GenericHint{
		Origin: builtinClass(t, "dict"),
		Args:   []model.Hint{&model.ClassHint{Class: builtinClass(t, "str")}},
	}, Any)
	assert.Equal(t, "dict[str, Any]", ts.TypeString(one))

	three := ts.ConvertTypeHint(&model.GenericHint{
		Origin: builtinClass(t, "dict"),
		Args: []model.Hint{
			&model.ClassHint{Class: builtinClass(t, "str")},
			&model.ClassHint{Class: builtinClass(t, "int")},
			&model.ClassHint{Class: builtinClass(t, "int")},
		},
	}, Any)
	assert.Equal(t, "dict[str, int]", ts.TypeString(three))
}

func TestMakeInstanceSpecialCases(t *testing.T) {
	ts := testSystem(t)
	assert.Equal(t, NoneKind, ts.MakeInstance(ts.FindTypeInfo(noneFullName)).Kind())

	tup := ts.MakeInstance(ts.FindTypeInfo(tupleFullName))
	require.Equal(t, TupleKind, tup.Kind())
	assert.True(t, tup.(*TupleType).UnknownSize)

	// Hardcoded arity is padded even on the bare-class path.
	list := ts.MakeInstance(ts.FindTypeInfo(listFullName))
	require.Equal(t, InstanceKind, list.Kind())
	require.Len(t, list.(*Instance).Args, 1)
	assert.Equal(t, AnyKind, list.(*Instance).Args[0].Kind())
}

func TestWrapVarParamType(t *testing.T) {
	ts := testSystem(t)
	intType := instanceOf(t, ts, intFullName)

	wrapped := ts.WrapVarParamType(intType, model.VarPositional)
	assert.Equal(t, "list[int]", ts.TypeString(wrapped))

	wrapped = ts.WrapVarParamType(intType, model.VarKeyword)
	assert.Equal(t, "dict[str, int]", ts.TypeString(wrapped))

	assert.Equal(t, intType, ts.WrapVarParamType(intType, model.PositionalOrKeyword))
}

func TestIsSubtypeBasics(t *testing.T) {
	ts := testSystem(t)
	animal, dog, cat := registerZoo(ts)
	_ = cat

	animalType := ts.MakeInstance(animal)
	dogType := ts.MakeInstance(dog)
	intType := instanceOf(t, ts, intFullName)

	assert.True(t, ts.IsSubtype(dogType, dogType), "reflexive")
	assert.True(t, ts.IsSubtype(dogType, animalType))
	assert.False(t, ts.IsSubtype(animalType, dogType))

	// Any on either side always holds.
	assert.True(t, ts.IsSubtype(dogType, Any))
	assert.True(t, ts.IsSubtype(Any, dogType))

	assert.True(t, ts.IsSubtype(None, None))
	assert.False(t, ts.IsSubtype(None, intType))
	assert.False(t, ts.IsSubtype(intType, None))
}

func TestIsSubtypeUnions(t *testing.T) {
	ts := testSystem(t)
	intType := instanceOf(t, ts, intFullName)
	strType := instanceOf(t, ts, strFullName)
	objType := instanceOf(t, ts, objectFullName)
	intOrStr := NewUnion(intType, strType)

	// Non-union left against a union right: any disjunct suffices.
	assert.True(t, ts.IsSubtype(intType, intOrStr))
	assert.False(t, ts.IsSubtype(None, intOrStr))

	// Union left is conjunctive for the strict relation.
	assert.True(t, ts.IsSubtype(intOrStr, objType))
	assert.False(t, ts.IsSubtype(intOrStr, intType))

	// And disjunctive for the optimistic one.
	assert.True(t, ts.IsMaybeSubtype(intOrStr, intType))
	assert.False(t, ts.IsMaybeSubtype(NewUnion(None, strType), intType))
}

func TestIsSubtypeGenericInvariance(t *testing.T) {
	ts := testSystem(t)
	ts.EnableNumericTower()
	intType := instanceOf(t, ts, intFullName)
	boolType := instanceOf(t, ts, boolFullName)
	strType := instanceOf(t, ts, strFullName)

	listOf := func(elem ProperType) ProperType {
		return instanceOf(t, ts, listFullName, elem)
	}

	assert.True(t, ts.IsSubtype(listOf(intType), listOf(intType)))
	assert.False(t, ts.IsSubtype(listOf(intType), listOf(strType)))
	// bool <: int, but element types must match both ways.
	assert.True(t, ts.IsSubtype(boolType, intType))
	assert.False(t, ts.IsSubtype(listOf(boolType), listOf(intType)))

	dictOf := func(key, value ProperType) ProperType {
		return instanceOf(t, ts, dictFullName, key, value)
	}
	assert.True(t, ts.IsSubtype(dictOf(strType, intType), dictOf(strType, intType)))
	assert.False(t, ts.IsSubtype(dictOf(strType, boolType), dictOf(strType, intType)))
	assert.False(t, ts.IsSubtype(dictOf(boolType, intType), dictOf(intType, intType)))
}

func TestIsSubtypeTuples(t *testing.T) {
	ts := testSystem(t)
	intType := instanceOf(t, ts, intFullName)
	strType := instanceOf(t, ts, strFullName)

	assert.True(t, ts.IsSubtype(NewTuple(intType, strType), NewTuple(intType, strType)))
	assert.False(t, ts.IsSubtype(NewTuple(intType, strType), NewTuple(strType, intType)))
	assert.False(t, ts.IsSubtype(NewTuple(intType), NewTuple(intType, intType)))
	assert.False(t, ts.IsSubtype(NewTuple(intType), instanceOf(t, ts, listFullName, intType)))
}

func TestIsSubtypeMemoized(t *testing.T) {
	ts := testSystem(t)
	animal, dog, _ := registerZoo(ts)
	dogType := ts.MakeInstance(dog)
	animalType := ts.MakeInstance(animal)

	require.True(t, ts.IsSubtype(dogType, animalType))
	before := len(ts.subMemo)
	// Structurally equal fresh terms hit the cache.
	require.True(t, ts.IsSubtype(NewInstance(dog.ID), NewInstance(animal.ID)))
	assert.Equal(t, before, len(ts.subMemo))
}

func TestNumericTower(t *testing.T) {
	ts := testSystem(t)
	boolType := instanceOf(t, ts, boolFullName)
	intType := instanceOf(t, ts, intFullName)
	complexType := instanceOf(t, ts, complexFullName)

	assert.False(t, ts.IsSubtype(boolType, intType))

	ts.EnableNumericTower()
	assert.True(t, ts.IsSubtype(boolType, intType))
	assert.True(t, ts.IsSubtype(boolType, complexType), "transitive through the tower")
	assert.False(t, ts.IsSubtype(complexType, boolType))
}

func TestUnsupportedPanicsInSubtypeQuery(t *testing.T) {
	ts := testSystem(t)
	intType := instanceOf(t, ts, intFullName)
	assert.Panics(t, func() { ts.IsSubtype(Unsupported, intType) })
}

func TestTypeStringRendering(t *testing.T) {
	ts := testSystem(t)
	_, dog, _ := registerZoo(ts)
	intType := instanceOf(t, ts, intFullName)
	strType := instanceOf(t, ts, strFullName)

	tests := []struct {
		t    ProperType
		want string
	}{
		{Any, "Any"},
		{None, "None"},
		{Unsupported, "<?>"},
		{intType, "int"},
		{ts.MakeInstance(dog), "zoo.Dog"},
		{instanceOf(t, ts, dictFullName, strType, intType), "dict[str, int]"},
		{UnknownTuple(), "tuple[Any]"},
		{NewTuple(intType, strType), "tuple[int, str]"},
		{NewUnion(intType, None), "int | None"},
		{NewUnion(intType), "int"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ts.TypeString(tt.t))
	}
}

func TestTypeRepr(t *testing.T) {
	ts := testSystem(t)
	intType := instanceOf(t, ts, intFullName)
	assert.Equal(t, "Instance(builtins.int)", ts.TypeRepr(intType))
	assert.Equal(t, "TupleType(Any, unknown_size=true)", ts.TypeRepr(UnknownTuple()))
}

func TestPrimitiveAndCollectionClassification(t *testing.T) {
	ts := testSystem(t)
	assert.True(t, ts.isPrimitive(instanceOf(t, ts, intFullName)))
	assert.False(t, ts.isPrimitive(instanceOf(t, ts, listFullName, Any)))
	assert.True(t, ts.isCollection(instanceOf(t, ts, listFullName, Any)))
	assert.True(t, ts.isCollection(UnknownTuple()))
	assert.False(t, ts.isCollection(instanceOf(t, ts, strFullName)))

	assert.Len(t, ts.PrimitiveProperTypes(), len(model.PrimitiveNames()))
	assert.Len(t, ts.CollectionProperTypes(), len(model.CollectionNames()))
}

func TestInferSignature(t *testing.T) {
	ts := testSystem(t)
	c := &model.Callable{
		Name:     "greet",
		Module:   "zoo",
		QualName: "greet",
		Params: []model.Param{
			{Name: "self", Kind: model.PositionalOrKeyword},
			{Name: "name", Kind: model.PositionalOrKeyword},
			{Name: "times", Kind: model.PositionalOrKeyword},
		},
		Hints: map[string]model.Hint{
			"name":          &model.ClassHint{Class: builtinClass(t, "str")},
			model.ReturnKey: &model.ClassHint{Class: builtinClass(t, "str")},
		},
	}

	sig := ts.InferSignature(c, TypeHintsProvider)
	assert.Equal(t, "zoo.greet", sig.FullName)
	assert.Equal(t, []string{"name", "times"}, sig.ParamNames(), "receiver excluded")
	assert.Equal(t, "str", ts.TypeString(sig.OriginalParameters["name"]))
	assert.Equal(t, AnyKind, sig.OriginalParameters["times"].Kind())
	assert.Equal(t, "str", ts.TypeString(sig.OriginalReturnType))
	assert.True(t, Equal(sig.ReturnType, sig.OriginalReturnType))
	assert.Equal(t, "str", sig.ParametersForStatistics["name"])
	assert.Equal(t, "Any", sig.ParametersForStatistics["times"])
}

func TestInferSignatureBrokenHints(t *testing.T) {
	ts := testSystem(t)
	c := &model.Callable{
		Name:        "f",
		Module:      "m",
		QualName:    "f",
		BrokenHints: true,
		Params:      []model.Param{{Name: "x"}},
		Hints: map[string]model.Hint{
			"x": &model.ClassHint{Class: builtinClass(t, "int")},
		},
	}
	sig := ts.InferSignature(c, TypeHintsProvider)
	assert.Equal(t, AnyKind, sig.OriginalParameters["x"].Kind())
}

func TestInferSignatureForClassConstructor(t *testing.T) {
	ts := testSystem(t)
	registerZoo(ts)
	animal := class("zoo", "Animal", []string{"speak"})

	sig := ts.InferSignature(animal, TypeHintsProvider)
	assert.True(t, sig.IsConstructor)
	assert.Equal(t, "zoo.Animal.__init__", sig.FullName)
	assert.Empty(t, sig.ParamNames())
}

func TestInferTypeInfoStrategies(t *testing.T) {
	ts := testSystem(t)
	c := &model.Callable{
		Name:     "f",
		Module:   "m",
		QualName: "f",
		Params:   []model.Param{{Name: "x"}},
		Hints: map[string]model.Hint{
			"x": &model.ClassHint{Class: builtinClass(t, "int")},
		},
	}

	sig, err := ts.InferTypeInfo(c, config.StrategyTypeHints)
	require.NoError(t, err)
	assert.Equal(t, "int", ts.TypeString(sig.OriginalParameters["x"]))

	sig, err = ts.InferTypeInfo(c, config.StrategyNone)
	require.NoError(t, err)
	assert.Equal(t, AnyKind, sig.OriginalParameters["x"].Kind())

	_, err = ts.InferTypeInfo(c, config.TypeInferenceStrategy(99))
	assert.Error(t, err)
}
