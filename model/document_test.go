package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
module: shapes
seed: 7
numeric_tower: true
strategy: type_hints
classes:
  - name: Shape
    abstract: true
    symbols: [area]
  - name: Circle
    bases: [Shape]
    attributes: [radius]
callables:
  - name: scale
    params:
      - name: shape
        hint: Circle
      - name: factor
        hint: float
      - name: extras
        kind: var_positional
    return: Circle
    observed_return: Circle
    trace:
      factor:
        children:
          __add__:
            arg_types:
              - [int, float]
        type_checks: [float]
  - name: Circle
    constructor: true
    broken_hints: true
`

func TestLoadDocument(t *testing.T) {
	doc, err := Load(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "shapes", doc.Module)
	assert.Equal(t, int64(7), doc.Seed)
	assert.True(t, doc.NumericTower)
	assert.Equal(t, "type_hints", doc.Strategy)

	require.Len(t, doc.Classes, 2)
	assert.True(t, doc.Classes[0].Abstract)
	assert.Equal(t, []string{"Shape"}, doc.Classes[1].Bases)

	require.Len(t, doc.Callables, 2)
	scale := doc.Callables[0]
	require.Len(t, scale.Params, 3)
	assert.Equal(t, "var_positional", scale.Params[2].Kind)
	assert.Equal(t, "Circle", scale.Return)
	assert.Equal(t, "Circle", scale.ObservedReturn)

	factor := scale.Trace["factor"]
	require.NotNil(t, factor)
	add := factor.Children["__add__"]
	require.NotNil(t, add)
	assert.Equal(t, [][]string{{"int", "float"}}, add.ArgTypes)
	assert.Equal(t, []string{"float"}, factor.TypeChecks)

	assert.True(t, doc.Callables[1].Constructor)
	assert.True(t, doc.Callables[1].BrokenHints)
}

func TestLoadDocumentRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("module: m\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestLoadDocumentRequiresModule(t *testing.T) {
	_, err := Load(strings.NewReader("seed: 1\n"))
	assert.ErrorContains(t, err, "module")
}

func TestLoadDocumentBadYAML(t *testing.T) {
	_, err := Load(strings.NewReader("module: [unterminated"))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("no/such/file.yaml")
	assert.Error(t, err)
}
