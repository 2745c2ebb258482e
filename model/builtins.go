package model

// BuiltinsModule is the module name of the builtins catalog.
const BuiltinsModule = "builtins"

// The catalog below lists the builtin classes the engine always knows about,
// with the protocol symbols that symbol-based inference keys on. Symbols a
// subclass merely inherits are stripped later by the pushdown pass.

var objectSymbols = []string{
	"__eq__", "__ne__", "__lt__", "__le__", "__gt__", "__ge__",
	"__hash__", "__str__", "__repr__",
}

var numericSymbols = []string{
	"__add__", "__radd__", "__sub__", "__rsub__",
	"__mul__", "__truediv__", "__rtruediv__",
	"__floordiv__", "__rfloordiv__", "__neg__", "__abs__",
	"__bool__",
}

func builtin(name string, symbols []string, bases ...string) *Class {
	return &Class{
		Name:     name,
		QualName: name,
		Module:   BuiltinsModule,
		Symbols:  append([]string(nil), symbols...),
		Bases:    bases,
	}
}

// Builtins returns a fresh catalog of builtin class descriptors.
// Every class except object derives from builtins.object.
func Builtins() []*Class {
	const object = "builtins.object"
	return []*Class{
		builtin("object", objectSymbols),
		builtin("type", []string{"__call__", "mro"}, object),
		builtin("NoneType", []string{"__bool__"}, object),
		builtin("bool", append([]string{"__and__", "__or__", "__xor__"}, numericSymbols...), object),
		builtin("int", append([]string{"__int__", "__index__", "__mod__", "bit_length"}, numericSymbols...), object),
		builtin("float", append([]string{"__float__", "is_integer"}, numericSymbols...), object),
		builtin("complex", append([]string{"conjugate"}, numericSymbols...), object),
		builtin("str", []string{
			"__len__", "__iter__", "__getitem__", "__contains__", "__add__", "__mod__",
			"upper", "lower", "split", "join", "strip", "startswith", "endswith", "encode",
		}, object),
		builtin("bytes", []string{
			"__len__", "__iter__", "__getitem__", "__contains__", "__add__", "decode",
		}, object),
		builtin("list", []string{
			"__len__", "__iter__", "__getitem__", "__setitem__", "__delitem__",
			"__contains__", "__add__", "__mul__",
			"append", "extend", "insert", "remove", "pop", "clear", "sort", "reverse", "index", "count",
		}, object),
		builtin("set", []string{
			"__len__", "__iter__", "__contains__", "__and__", "__or__", "__sub__", "__xor__",
			"add", "remove", "discard", "pop", "clear", "union", "intersection", "difference",
		}, object),
		builtin("dict", []string{
			"__len__", "__iter__", "__getitem__", "__setitem__", "__delitem__", "__contains__",
			"keys", "values", "items", "get", "pop", "update", "setdefault", "clear",
		}, object),
		builtin("tuple", []string{
			"__len__", "__iter__", "__getitem__", "__contains__", "__add__", "count", "index",
		}, object),
	}
}

// PrimitiveNames lists builtin classes the engine treats as primitives.
func PrimitiveNames() []string {
	return []string{"int", "str", "bytes", "bool", "float", "complex"}
}

// CollectionNames lists builtin classes the engine treats as collections.
func CollectionNames() []string {
	return []string{"list", "set", "dict", "tuple"}
}
