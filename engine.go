package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/auguria/augur/config"
	"github.com/auguria/augur/model"
	"github.com/auguria/augur/randomness"
	"github.com/auguria/augur/trace"
	"github.com/auguria/augur/typeexpr"
	"github.com/auguria/augur/typesys"
)

// engine binds a loaded model document to a populated type system: all
// builtins and declared classes registered, symbols pushed down, and one
// inference record per callable with its usage traces attached.
type engine struct {
	doc     *model.Document
	cfg     *config.Config
	sys     *typesys.System
	classes map[string]*model.Class

	// Callable full names in document order, with their inference records.
	order []string
	sigs  map[string]*typesys.InferredSignature
}

func loadEngine(path string) (*engine, error) {
	doc, err := model.LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	strategy, err := config.ParseStrategy(doc.Strategy)
	if err != nil {
		return nil, err
	}
	cfg.TypeInferenceStrategy = strategy

	seed := doc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sys := typesys.NewSystem(cfg, randomness.New(seed))

	e := &engine{
		doc:     doc,
		cfg:     cfg,
		sys:     sys,
		classes: map[string]*model.Class{},
		sigs:    map[string]*typesys.InferredSignature{},
	}
	for _, c := range model.Builtins() {
		e.classes[c.FullName()] = c
	}

	declared := make([]*model.Class, 0, len(doc.Classes))
	for _, spec := range doc.Classes {
		c := &model.Class{
			Name:          spec.Name,
			QualName:      orDefault(spec.QualName, spec.Name),
			Module:        orDefault(spec.Module, doc.Module),
			Abstract:      spec.Abstract,
			InstanceAttrs: spec.Attributes,
			Symbols:       spec.Symbols,
			Bases:         spec.Bases,
		}
		if _, ok := e.classes[c.FullName()]; ok {
			return nil, fmt.Errorf("duplicate class %s", c.FullName())
		}
		e.classes[c.FullName()] = c
		declared = append(declared, c)
	}

	// Register every class before wiring edges so forward base references
	// within the document resolve.
	for _, c := range declared {
		sys.ToTypeInfo(c)
	}
	for _, c := range declared {
		sub := sys.FindTypeInfo(c.FullName())
		for _, base := range c.Bases {
			bc := e.resolveClass(base)
			if bc == nil {
				return nil, fmt.Errorf("class %s: unknown base %s", c.FullName(), base)
			}
			sys.AddSubclassEdge(sys.ToTypeInfo(bc), sub)
		}
	}
	if doc.NumericTower {
		sys.EnableNumericTower()
	}
	sys.PushSymbolsDown()

	for _, spec := range doc.Callables {
		if err := e.addCallable(spec); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *engine) addCallable(spec *model.CallableSpec) error {
	c := &model.Callable{
		Name:          spec.Name,
		QualName:      orDefault(spec.QualName, spec.Name),
		Module:        orDefault(spec.Module, e.doc.Module),
		IsConstructor: spec.Constructor,
		BrokenHints:   spec.BrokenHints,
		Hints:         map[string]model.Hint{},
	}
	for _, ps := range spec.Params {
		kind, err := model.ParseParamKind(ps.Kind)
		if err != nil {
			return fmt.Errorf("callable %s, param %s: %w", c.FullName(), ps.Name, err)
		}
		c.Params = append(c.Params, model.Param{Name: ps.Name, Kind: kind})
		if ps.Hint != "" {
			h, err := typeexpr.Parse(ps.Hint, e.resolveClass)
			if err != nil {
				return fmt.Errorf("callable %s, param %s: %w", c.FullName(), ps.Name, err)
			}
			c.Hints[ps.Name] = h
		}
	}
	if spec.Return != "" {
		h, err := typeexpr.Parse(spec.Return, e.resolveClass)
		if err != nil {
			return fmt.Errorf("callable %s, return: %w", c.FullName(), err)
		}
		c.Hints[model.ReturnKey] = h
	}

	sig, err := e.sys.InferTypeInfo(c, e.cfg.TypeInferenceStrategy)
	if err != nil {
		return fmt.Errorf("callable %s: %w", c.FullName(), err)
	}

	params := make([]string, 0, len(spec.Trace))
	for name := range spec.Trace {
		params = append(params, name)
	}
	sort.Strings(params)
	for _, name := range params {
		node, err := trace.FromSpec(name, spec.Trace[name], e.resolveClass)
		if err != nil {
			return fmt.Errorf("callable %s: %w", c.FullName(), err)
		}
		sig.SetKnowledge(name, node)
	}

	if spec.ObservedReturn != "" {
		h, err := typeexpr.Parse(spec.ObservedReturn, e.resolveClass)
		if err != nil {
			return fmt.Errorf("callable %s, observed return: %w", c.FullName(), err)
		}
		sig.ReturnType = e.sys.ConvertTypeHint(h, typesys.Any)
	}

	full := c.FullName()
	if _, ok := e.sigs[full]; ok {
		return fmt.Errorf("duplicate callable %s", full)
	}
	e.sigs[full] = sig
	e.order = append(e.order, full)
	return nil
}

// resolveClass looks a name up as written, then qualified with the document
// module, then as a builtin.
func (e *engine) resolveClass(name string) *model.Class {
	if c, ok := e.classes[name]; ok {
		return c
	}
	if c, ok := e.classes[e.doc.Module+"."+name]; ok {
		return c
	}
	if c, ok := e.classes["builtins."+name]; ok {
		return c
	}
	return nil
}

// parseType converts a type expression against the engine's class table.
// Unresolvable names come back as Any rather than an error; queries should
// degrade, not abort.
func (e *engine) parseType(expr string) (typesys.ProperType, error) {
	h, err := typeexpr.Parse(expr, e.resolveClass)
	if err != nil {
		return nil, err
	}
	return e.sys.ConvertTypeHint(h, typesys.Any), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
