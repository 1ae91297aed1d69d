package bundler

import (
	"fmt"
	"sort"
	"sync"
)

// ModuleGraphEdge records one dependency relationship discovered while
// analyzing a module's deps: `Source` is the original specifier text as it
// appeared in that module (e.g. "./a", not a module id), `Kind` is why the
// reference exists, and `Order` is this edge's position among its owning
// module's sibling dependencies.
type ModuleGraphEdge struct {
	Kind   ResolveKind
	Source string
	Order  int
}

// Dependency pairs a ModuleGraphEdge with the id of the module it points at.
type Dependency struct {
	TargetID string
	Edge     ModuleGraphEdge
}

// ModuleGraph is the directed graph of Modules discovered during the build
// phase. All mutating and reading methods are safe for concurrent use; the
// build driver holds Lock only across the brief check-then-insert, never
// across plugin hook calls.
type ModuleGraph struct {
	mu sync.RWMutex

	modules map[string]*Module
	// outEdges[from] is the set of dependencies that module `from` itself
	// declared, each paired with the target module id it resolved to.
	outEdges map[string][]Dependency

	entries map[string]struct{}
	// entriesInHTML is intentionally always empty: see DESIGN.md's Open
	// Question resolutions (the field exists for §3's data model but is
	// never populated).
	entriesInHTML map[string]struct{}

	pending map[string]chan struct{}
}

// NewModuleGraph returns an empty graph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{
		modules:       map[string]*Module{},
		outEdges:      map[string][]Dependency{},
		entries:       map[string]struct{}{},
		entriesInHTML: map[string]struct{}{},
		pending:       map[string]chan struct{}{},
	}
}

// Claim implements the module-graph's check-then-insert dedup protocol: the
// first caller for a given id becomes the "winner" and is responsible for
// loading/transforming/parsing it exactly once and then calling Finish; any
// other concurrent caller for the same id is a "loser" and receives a
// channel that closes once the winner has finished, so it can safely add an
// edge to the now-present module without re-parsing it.
func (g *ModuleGraph) Claim(id string) (winner bool, ready <-chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.modules[id]; ok {
		closed := make(chan struct{})
		close(closed)
		return false, closed
	}
	if ch, ok := g.pending[id]; ok {
		return false, ch
	}
	ch := make(chan struct{})
	g.pending[id] = ch
	return true, ch
}

// Finish completes a Claim won by the caller: it installs m into the graph
// and wakes any callers blocked on the channel Claim returned.
func (g *ModuleGraph) Finish(m *Module) {
	g.mu.Lock()
	g.modules[m.ID] = m
	ch, ok := g.pending[m.ID]
	delete(g.pending, m.ID)
	g.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Abort releases a Claim won by the caller without installing a module: it
// wakes any callers blocked on the channel Claim returned, leaving id absent
// from the graph so a failed build doesn't deadlock its waiters.
func (g *ModuleGraph) Abort(id string) {
	g.mu.Lock()
	ch, ok := g.pending[id]
	delete(g.pending, id)
	g.mu.Unlock()
	if ok {
		close(ch)
	}
}

// HasModule reports whether id has already been added to the graph.
func (g *ModuleGraph) HasModule(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.modules[id]
	return ok
}

// AddModule inserts m into the graph, keyed by m.ID. If m.ID is already
// present, it is left untouched: modules are parsed at most once.
func (g *ModuleGraph) AddModule(m *Module) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.modules[m.ID]; ok {
		return
	}
	g.modules[m.ID] = m
}

// Module returns the module with the given id, or nil if absent.
func (g *ModuleGraph) Module(id string) *Module {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.modules[id]
}

// MarkEntry records id as a build entry point.
func (g *ModuleGraph) MarkEntry(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[id] = struct{}{}
}

// Entries returns the set of entry module ids.
func (g *ModuleGraph) Entries() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.entries))
	for id := range g.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsEntryModule reports whether id is an entry module. checkEntriesInHTML
// additionally consults the (always empty, see NewModuleGraph) html-entries
// set.
func (g *ModuleGraph) IsEntryModule(id string, checkEntriesInHTML bool) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.entries[id]; ok {
		return true
	}
	if checkEntriesInHTML {
		if _, ok := g.entriesInHTML[id]; ok {
			return true
		}
	}
	return false
}

// AddEdge records that module `from` depends on module `to`, discovered via
// the original specifier text `specifier`, with the given kind, at position
// order among from's sibling deps. It errors if either endpoint has not been
// added to the graph yet. Self-edges are permitted.
func (g *ModuleGraph) AddEdge(from, to, specifier string, kind ResolveKind, order int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.modules[from]; !ok {
		return fmt.Errorf("add edge: source module %q not found in graph", from)
	}
	if _, ok := g.modules[to]; !ok {
		return fmt.Errorf("add edge: target module %q not found in graph", to)
	}
	g.outEdges[from] = append(g.outEdges[from], Dependency{
		TargetID: to,
		Edge:     ModuleGraphEdge{Kind: kind, Source: specifier, Order: order},
	})
	return nil
}

// Dependencies returns id's own outgoing dependencies (the modules id
// imports), sorted ascending by Order.
func (g *ModuleGraph) Dependencies(id string) []Dependency {
	g.mu.RLock()
	deps := append([]Dependency(nil), g.outEdges[id]...)
	g.mu.RUnlock()
	sort.SliceStable(deps, func(i, j int) bool { return deps[i].Edge.Order < deps[j].Edge.Order })
	return deps
}

// OutgoingEdges returns the target ids source has outgoing edges to,
// optionally filtered to the given ResolveKinds (no filter if empty),
// sorted by Order (edges with equal Order keep their insertion order).
func (g *ModuleGraph) OutgoingEdges(source string, kinds ...ResolveKind) []string {
	allow := map[ResolveKind]bool{}
	for _, k := range kinds {
		allow[k] = true
	}
	var targets []string
	for _, dep := range g.Dependencies(source) {
		if len(kinds) > 0 && !allow[dep.Edge.Kind] {
			continue
		}
		targets = append(targets, dep.TargetID)
	}
	return targets
}

// AllModuleIDs returns every module id currently in the graph.
func (g *ModuleGraph) AllModuleIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.modules))
	for id := range g.modules {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
