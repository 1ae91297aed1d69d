package bundler

import "sort"

// ModuleGroup is a set of modules reachable from a single root (an entry
// point, or a dynamic-import target) without crossing a DynamicImport edge.
// ModuleIDOrder preserves discovery (DFS) order, since rendering (e.g. CSS
// @import merge order) depends on it; ModuleIDs is the same set for O(1)
// membership checks.
type ModuleGroup struct {
	ID                 string
	ModuleIDs          map[string]struct{}
	ModuleIDOrder      []string
	ResourcePotIDs     map[string]struct{}
	ResourcePotIDOrder []string
}

// NewModuleGroup returns a group rooted at id, containing only id itself.
func NewModuleGroup(id string) *ModuleGroup {
	return &ModuleGroup{
		ID:             id,
		ModuleIDs:      map[string]struct{}{id: {}},
		ModuleIDOrder:  []string{id},
		ResourcePotIDs: map[string]struct{}{},
	}
}

// addModule appends id to the group if not already present.
func (g *ModuleGroup) addModule(id string) {
	if _, ok := g.ModuleIDs[id]; ok {
		return
	}
	g.ModuleIDs[id] = struct{}{}
	g.ModuleIDOrder = append(g.ModuleIDOrder, id)
}

// addResourcePot records potID against the group if not already present.
func (g *ModuleGroup) addResourcePot(potID string) {
	if _, ok := g.ResourcePotIDs[potID]; ok {
		return
	}
	g.ResourcePotIDs[potID] = struct{}{}
	g.ResourcePotIDOrder = append(g.ResourcePotIDOrder, potID)
}

// ModuleGroupMap is the id-indexed collection of ModuleGroups produced by
// AnalyzeModuleGraph.
type ModuleGroupMap map[string]*ModuleGroup

// SortedIDs returns the group ids in deterministic order.
func (m ModuleGroupMap) SortedIDs() []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// collectModuleDeps walks g from id depth-first over static (non-dynamic)
// edges, recording every module visited into group, and every
// DynamicImport target encountered into dynamicDeps (without recursing past
// it). seen guards against revisiting a module within this single group's
// walk (graph cycles are permitted).
func collectModuleDeps(g *ModuleGraph, group *ModuleGroup, id string, seen map[string]struct{}) []string {
	if _, ok := seen[id]; ok {
		return nil
	}
	seen[id] = struct{}{}
	group.addModule(id)
	if m := g.Module(id); m != nil {
		m.ModuleGroups[group.ID] = struct{}{}
	}

	var dynamicDeps []string
	for _, dep := range g.Dependencies(id) {
		if dep.Edge.Kind == ResolveDynamicImport {
			dynamicDeps = append(dynamicDeps, dep.TargetID)
			continue
		}
		dynamicDeps = append(dynamicDeps, collectModuleDeps(g, group, dep.TargetID, seen)...)
	}
	return dynamicDeps
}

// moduleGroupFromEntry builds the ModuleGroup reachable from id via static
// edges, returning the group and the dynamic-import targets discovered at
// its frontier.
func moduleGroupFromEntry(g *ModuleGraph, id string) (*ModuleGroup, []string) {
	group := NewModuleGroup(id)
	if m := g.Module(id); m != nil {
		m.ModuleGroups[group.ID] = struct{}{}
	}
	dynamicDeps := collectModuleDeps(g, group, id, map[string]struct{}{})
	return group, dynamicDeps
}

// AnalyzeModuleGraph partitions the graph reachable from its entries into
// ModuleGroups: one per entry (static reachability only), plus one more for
// every distinct DynamicImport target discovered along the way, each
// becoming a new group root in turn (BFS over the dynamic frontier, with a
// graph-global seen set so a given dynamic target is only ever made into one
// group).
func AnalyzeModuleGraph(g *ModuleGraph) ModuleGroupMap {
	groups := ModuleGroupMap{}
	seenRoots := map[string]struct{}{}

	var queue []string
	for _, entry := range g.Entries() {
		queue = append(queue, entry)
	}

	for len(queue) > 0 {
		root := queue[0]
		queue = queue[1:]
		if _, ok := seenRoots[root]; ok {
			continue
		}
		seenRoots[root] = struct{}{}

		group, dynamicDeps := moduleGroupFromEntry(g, root)
		groups[group.ID] = group
		for _, d := range dynamicDeps {
			if _, ok := seenRoots[d]; !ok {
				queue = append(queue, d)
			}
		}
	}
	return groups
}
