// Package trace holds the usage knowledge recorded for traced values:
// which attributes and methods were accessed, with what argument types,
// and which explicit type checks were performed. The inference engine
// consumes these trees; it never produces them.
package trace

import (
	"fmt"
	"sort"

	"github.com/davecgh/go-spew/spew"

	"github.com/auguria/augur/model"
)

// UsageTraceNode is one node of a usage trace. Children are keyed by
// access name and kept in first-observed order so random choices over
// them are reproducible under a fixed seed.
type UsageTraceNode struct {
	Name string

	children map[string]*UsageTraceNode
	order    []string

	// ArgTypes maps positional slot to the raw classes observed there
	// across all recorded calls of this access.
	ArgTypes map[int][]*model.Class

	// TypeChecks lists classes the traced value was explicitly checked against.
	TypeChecks []*model.Class
}

func NewUsageTraceNode(name string) *UsageTraceNode {
	return &UsageTraceNode{
		Name:     name,
		children: map[string]*UsageTraceNode{},
		ArgTypes: map[int][]*model.Class{},
	}
}

// Child returns the child for the given access name, creating it lazily.
func (n *UsageTraceNode) Child(name string) *UsageTraceNode {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := NewUsageTraceNode(name)
	n.children[name] = c
	n.order = append(n.order, name)
	return c
}

// Lookup returns the child for the given access name, or nil if the access
// was never observed.
func (n *UsageTraceNode) Lookup(name string) *UsageTraceNode {
	return n.children[name]
}

func (n *UsageTraceNode) HasChildren() bool {
	return len(n.order) > 0
}

// ChildNames returns the access names in first-observed order.
func (n *UsageTraceNode) ChildNames() []string {
	return append([]string(nil), n.order...)
}

// PresentChildren filters names down to those observed on this node,
// preserving the order of the input.
func (n *UsageTraceNode) PresentChildren(names []string) []string {
	var present []string
	for _, name := range names {
		if _, ok := n.children[name]; ok {
			present = append(present, name)
		}
	}
	return present
}

func (n *UsageTraceNode) RecordArgType(slot int, c *model.Class) {
	n.ArgTypes[slot] = append(n.ArgTypes[slot], c)
}

func (n *UsageTraceNode) RecordTypeCheck(c *model.Class) {
	n.TypeChecks = append(n.TypeChecks, c)
}

// FindPath follows the full sequence of access names and returns the node it
// lands on, or nil if any step of the path was never observed.
func (n *UsageTraceNode) FindPath(path []string) *UsageTraceNode {
	cur := n
	for _, name := range path {
		cur = cur.children[name]
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Depth is the length of the longest observed access chain below this node.
func (n *UsageTraceNode) Depth() int {
	max := 0
	for _, name := range n.order {
		if d := n.children[name].Depth() + 1; d > max {
			max = d
		}
	}
	return max
}

// Size counts this node and every descendant.
func (n *UsageTraceNode) Size() int {
	size := 1
	for _, name := range n.order {
		size += n.children[name].Size()
	}
	return size
}

// Dump renders the whole subtree for diagnostics.
func (n *UsageTraceNode) Dump() string {
	return spew.Sdump(n.snapshot())
}

// snapshot converts to an exported, deterministic shape for dumping.
type nodeSnapshot struct {
	Name       string
	ArgTypes   map[int][]string
	TypeChecks []string
	Children   []nodeSnapshot
}

func (n *UsageTraceNode) snapshot() nodeSnapshot {
	snap := nodeSnapshot{Name: n.Name}
	if len(n.ArgTypes) > 0 {
		snap.ArgTypes = map[int][]string{}
		slots := make([]int, 0, len(n.ArgTypes))
		for slot := range n.ArgTypes {
			slots = append(slots, slot)
		}
		sort.Ints(slots)
		for _, slot := range slots {
			for _, c := range n.ArgTypes[slot] {
				snap.ArgTypes[slot] = append(snap.ArgTypes[slot], c.FullName())
			}
		}
	}
	for _, c := range n.TypeChecks {
		snap.TypeChecks = append(snap.TypeChecks, c.FullName())
	}
	for _, name := range n.order {
		snap.Children = append(snap.Children, n.children[name].snapshot())
	}
	return snap
}

// ClassResolver turns a class name from a trace spec into a class descriptor.
type ClassResolver func(name string) *model.Class

// FromSpec builds a usage trace from its document spec. Class names that do
// not resolve are an input error: traces reference only known classes.
func FromSpec(name string, spec *model.TraceNodeSpec, resolve ClassResolver) (*UsageTraceNode, error) {
	node := NewUsageTraceNode(name)
	if spec == nil {
		return node, nil
	}
	for slot, names := range spec.ArgTypes {
		for _, cn := range names {
			c := resolve(cn)
			if c == nil {
				return nil, fmt.Errorf("trace %s: unknown argument class %q", name, cn)
			}
			node.RecordArgType(slot, c)
		}
	}
	for _, cn := range spec.TypeChecks {
		c := resolve(cn)
		if c == nil {
			return nil, fmt.Errorf("trace %s: unknown type-check class %q", name, cn)
		}
		node.RecordTypeCheck(c)
	}
	childNames := make([]string, 0, len(spec.Children))
	for cn := range spec.Children {
		childNames = append(childNames, cn)
	}
	// Specs arrive as maps; sort for a stable child order.
	sort.Strings(childNames)
	for _, cn := range childNames {
		child, err := FromSpec(cn, spec.Children[cn], resolve)
		if err != nil {
			return nil, err
		}
		node.children[cn] = child
		node.order = append(node.order, cn)
	}
	return node, nil
}
