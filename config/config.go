package config

import "fmt"

// TypeInferenceStrategy selects how declared hints feed signature inference.
type TypeInferenceStrategy int

const (
	// StrategyNone ignores declared hints entirely; every parameter starts as Any.
	StrategyNone TypeInferenceStrategy = iota
	// StrategyTypeHints uses the declared hints of a callable when available.
	StrategyTypeHints
)

func (s TypeInferenceStrategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyTypeHints:
		return "type_hints"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy converts a textual strategy selector, e.g. from a document or flag.
func ParseStrategy(s string) (TypeInferenceStrategy, error) {
	switch s {
	case "none":
		return StrategyNone, nil
	case "", "type_hints":
		return StrategyTypeHints, nil
	}
	return StrategyNone, fmt.Errorf("unknown type-inference strategy %q", s)
}

// Config carries all tunables of the inference engine. It is constructed once
// and passed by reference; there is no package-level configuration state.
type Config struct {
	// Relative weights for the choices made per parameter in GetParameterTypes.
	NoneWeight         float64
	AnyWeight          float64
	OriginalTypeWeight float64
	TypeTracingWeight  float64

	// Probability of wrapping a chosen type for variadic parameters.
	WrapVarParamTypeProbability float64

	// Probability of deliberately guessing a type outside the candidate set.
	NegateTypeProbability float64

	// Upper bound (exclusive) for randomly chosen tuple arities.
	CollectionSize int

	TypeInferenceStrategy TypeInferenceStrategy
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		NoneWeight:                  1,
		AnyWeight:                   5,
		OriginalTypeWeight:          5,
		TypeTracingWeight:           10,
		WrapVarParamTypeProbability: 0.05,
		NegateTypeProbability:       0.1,
		CollectionSize:              5,
		TypeInferenceStrategy:       StrategyTypeHints,
	}
}
