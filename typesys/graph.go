package typesys

import (
	"fmt"
	"sort"
	"strings"

	set "github.com/hashicorp/go-set/v3"
)

// The inheritance graph: nodes are class handles, edges point from a
// superclass to each direct subclass. Append-only; there is no edge removal.

type closureKey struct {
	id      ClassID
	version int
	down    bool
}

func (ts *System) addNode(id ClassID) {
	ts.nodes = append(ts.nodes, id)
	ts.version++
}

// AddSubclassEdge inserts a directed super -> sub edge. Both endpoints must
// already be registered via ToTypeInfo.
func (ts *System) AddSubclassEdge(super, sub *TypeInfo) {
	for _, existing := range ts.succs[super.ID] {
		if existing == sub.ID {
			return
		}
	}
	ts.succs[super.ID] = append(ts.succs[super.ID], sub.ID)
	ts.preds[sub.ID] = append(ts.preds[sub.ID], super.ID)
	ts.version++
}

// GetSubclasses returns info plus all its descendants as an ordered set.
func (ts *System) GetSubclasses(info *TypeInfo) *set.TreeSet[*TypeInfo] {
	return ts.closure(info, true)
}

// GetSuperclasses returns info plus all its ancestors as an ordered set.
func (ts *System) GetSuperclasses(info *TypeInfo) *set.TreeSet[*TypeInfo] {
	return ts.closure(info, false)
}

// closure computes the reflexive-transitive closure along succs (down) or
// preds (up). Memoized per node and graph version; a late edge insertion
// bumps the version and invalidates stale entries naturally.
func (ts *System) closure(info *TypeInfo, down bool) *set.TreeSet[*TypeInfo] {
	key := closureKey{id: info.ID, version: ts.version, down: down}
	if cached, ok := ts.closures.get(key); ok {
		return cached
	}
	edges := ts.succs
	if !down {
		edges = ts.preds
	}
	result := set.NewTreeSet[*TypeInfo](compareTypeInfos)
	seen := map[ClassID]struct{}{info.ID: {}}
	queue := []ClassID{info.ID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		result.Insert(ts.typeInfo(cur))
		for _, next := range edges[cur] {
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	ts.closures.put(key, result)
	return result
}

// IsSubclass reports whether left is a descendant of right. The zero-length
// path counts: left == right answers true even for classes without edges.
func (ts *System) IsSubclass(left, right *TypeInfo) bool {
	if left.ID == right.ID {
		return true
	}
	return ts.GetSubclasses(right).Contains(left)
}

// GetTypeOutsideOf returns every registered class minus the subclass
// closures of every excluded class, in registration order. Used to pick a
// type guaranteed not to satisfy a given set of constraints.
func (ts *System) GetTypeOutsideOf(exclude []*TypeInfo) []*TypeInfo {
	excluded := map[ClassID]struct{}{}
	for _, info := range exclude {
		for _, sub := range ts.GetSubclasses(info).Slice() {
			excluded[sub.ID] = struct{}{}
		}
	}
	var outside []*TypeInfo
	for _, info := range ts.arena {
		if _, ok := excluded[info.ID]; !ok {
			outside = append(outside, info)
		}
	}
	return outside
}

// Ordering comparisons on the universal root are stubs that raise rather
// than succeed, so advertising them as supported is misleading.
var rootStrippedSymbols = []string{"__lt__", "__le__", "__gt__", "__ge__"}

// PushSymbolsDown removes from each class any symbol already supplied by an
// ancestor, so every symbol is owned by the topmost class(es) introducing
// it, then builds the symbol index behind FindBySymbol. Least fixed point
// over reach-in/out sets, processed via a work list seeded with all nodes.
func (ts *System) PushSymbolsDown() {
	if obj := ts.FindTypeInfo(objectFullName); obj != nil {
		for _, sym := range rootStrippedSymbols {
			obj.Symbols.Remove(sym)
		}
	} else {
		ts.log.Debug("pushdown: universal root not registered", "root", objectFullName)
	}

	reachIn := map[ClassID]*set.Set[string]{}
	reachOut := map[ClassID]*set.Set[string]{}
	reach := func(m map[ClassID]*set.Set[string], id ClassID) *set.Set[string] {
		s, ok := m[id]
		if !ok {
			s = set.New[string](0)
			m[id] = s
		}
		return s
	}

	workList := append([]ClassID(nil), ts.nodes...)
	for len(workList) > 0 {
		current := workList[len(workList)-1]
		workList = workList[:len(workList)-1]

		in := reach(reachIn, current)
		for _, pred := range ts.preds[current] {
			in.InsertSlice(reach(reachOut, pred).Slice())
		}
		info := ts.typeInfo(current)
		for _, sym := range in.Slice() {
			info.Symbols.Remove(sym)
		}
		out := reach(reachOut, current)
		before := out.Size()
		out.InsertSlice(in.Slice())
		out.InsertSlice(info.Symbols.Slice())
		// Reach sets only grow, so a size change is the fixed-point test.
		if out.Size() != before {
			workList = append(workList, ts.succs[current]...)
		}
	}

	ts.symbolMap = map[string]*set.TreeSet[*TypeInfo]{}
	for _, info := range ts.arena {
		symbols := info.Symbols.Slice()
		sort.Strings(symbols)
		for _, sym := range symbols {
			owners, ok := ts.symbolMap[sym]
			if !ok {
				owners = set.NewTreeSet[*TypeInfo](compareTypeInfos)
				ts.symbolMap[sym] = owners
			}
			owners.Insert(info)
		}
	}
}

// FindBySymbol returns the classes that own the given symbol after pushdown.
// Unknown symbols yield an empty set.
func (ts *System) FindBySymbol(symbol string) []*TypeInfo {
	if owners, ok := ts.symbolMap[symbol]; ok {
		return owners.Slice()
	}
	return nil
}

// Dot renders the inheritance graph in DOT form, nodes and edges in
// registration order.
func (ts *System) Dot() string {
	var b strings.Builder
	b.WriteString("digraph hierarchy {\n")
	for _, info := range ts.arena {
		fmt.Fprintf(&b, "  %q;\n", info.FullName)
	}
	for _, info := range ts.arena {
		for _, sub := range ts.succs[info.ID] {
			fmt.Fprintf(&b, "  %q -> %q;\n", info.FullName, ts.typeInfo(sub).FullName)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
