package typesys

import (
	"fmt"
	"strings"

	"github.com/auguria/augur/model"
)

// TypeGuessingStats accumulates declared, guessed, and observed type forms
// per callable for external reporting. A read-only side channel: filling it
// never touches the inference state used by GetParameterTypes.
type TypeGuessingStats struct {
	NumberOfConstructors       int                          `yaml:"number_of_constructors"`
	AnnotatedParameterTypes    map[string]map[string]string `yaml:"annotated_parameter_types"`
	AnnotatedReturnTypes       map[string]string            `yaml:"annotated_return_types"`
	RecordedReturnTypes        map[string]string            `yaml:"recorded_return_types"`
	GuessedParameterTypes      map[string]map[string]string `yaml:"guessed_parameter_types"`
	FormattedGuessedSignatures map[string]string            `yaml:"formatted_guessed_signatures"`
}

func NewTypeGuessingStats() *TypeGuessingStats {
	return &TypeGuessingStats{
		AnnotatedParameterTypes:    map[string]map[string]string{},
		AnnotatedReturnTypes:       map[string]string{},
		RecordedReturnTypes:        map[string]string{},
		GuessedParameterTypes:      map[string]map[string]string{},
		FormattedGuessedSignatures: map[string]string{},
	}
}

// StatsDraws is the number of independent guesses drawn per parameter when
// summarizing; the most frequent result becomes the representative guess.
const StatsDraws = 100

// LogStatsAndGuessSignature records declared versus guessed versus observed
// types for the callable and formats a guessed signature string. Parameters
// still annotated Any could not be guessed.
func (s *InferredSignature) LogStatsAndGuessSignature(stats *TypeGuessingStats, draws int) {
	annotated := map[string]string{}
	for name, form := range s.ParametersForStatistics {
		annotated[name] = form
	}
	stats.AnnotatedParameterTypes[s.FullName] = annotated
	if s.IsConstructor {
		// Constructors need no return type.
		stats.NumberOfConstructors++
	} else {
		stats.AnnotatedReturnTypes[s.FullName] = s.ReturnTypeForStatistics
	}

	guessed := map[string]string{}
	var rendered []string
	for _, p := range s.Callable.Params {
		if p.Name == receiverName {
			rendered = append(rendered, receiverName)
			continue
		}
		annotation := s.representativeGuess(p.Name, p.Kind, draws)
		guessed[p.Name] = annotation
		rendered = append(rendered, kindMarker(p.Kind)+p.Name+": "+annotation)
	}

	returnForm := s.system.TypeString(s.ReturnType)
	if !s.IsConstructor && !Equal(s.ReturnType, s.OriginalReturnType) {
		stats.RecordedReturnTypes[s.FullName] = returnForm
	}
	stats.GuessedParameterTypes[s.FullName] = guessed
	stats.FormattedGuessedSignatures[s.FullName] = fmt.Sprintf(
		"%s(%s) -> %s", s.FullName, strings.Join(rendered, ", "), returnForm)
}

// representativeGuess draws guesses repeatedly and keeps the most frequent
// display form; first seen wins ties. Parameters without knowledge stay Any.
func (s *InferredSignature) representativeGuess(name string, kind model.ParamKind, draws int) string {
	k, ok := s.Knowledge[name]
	if !ok {
		return "Any"
	}
	counter := map[string]int{}
	var order []string
	for i := 0; i < draws; i++ {
		guess, ok := s.GuessParameterType(k, kind)
		if !ok {
			continue
		}
		form := s.system.TypeString(guess)
		if counter[form] == 0 {
			order = append(order, form)
		}
		counter[form]++
	}
	top, best := "Any", 0
	for _, form := range order {
		if counter[form] > best {
			top, best = form, counter[form]
		}
	}
	return top
}

func kindMarker(kind model.ParamKind) string {
	switch kind {
	case model.VarPositional:
		return "*"
	case model.VarKeyword:
		return "**"
	}
	return ""
}
