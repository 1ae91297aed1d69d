package bundler

import "sort"

// ResourcePotKind classifies a ResourcePot by the kind of output it
// produces; the script-family ModuleKinds (Js/Jsx/Ts/Tsx) all collapse to
// Js, since they're all rendered to plain JS by the time they reach a pot.
type ResourcePotKind int

const (
	PotHtml ResourcePotKind = iota
	PotCss
	PotJs
	PotCustom
)

// ResourcePotKindFromModuleKind maps a ModuleKind onto the ResourcePotKind
// of the pot its modules are bucketed into.
func ResourcePotKindFromModuleKind(k ModuleKind) ResourcePotKind {
	switch {
	case k.IsHTML():
		return PotHtml
	case k.IsStyle():
		return PotCss
	case k.IsScript():
		return PotJs
	default:
		return PotCustom
	}
}

// ResourcePotMeta holds the kind-specific rendered payload produced by
// RenderResourcePot, consumed by GenerateResources.
type ResourcePotMeta interface {
	isResourcePotMeta()
}

// BaseResourcePotMeta can be embedded to satisfy ResourcePotMeta.
type BaseResourcePotMeta struct{}

func (BaseResourcePotMeta) isResourcePotMeta() {}

// ResourcePot is a bucket of same-kind modules from one ModuleGroup,
// rendered together into one or more output Resources.
type ResourcePot struct {
	ID            string
	Kind          ResourcePotKind
	ModuleGroupID string
	ModuleIDs     map[string]struct{}
	// ModuleIDOrder preserves the order modules were added in, needed by
	// renderers (e.g. CSS @import ordering) where map iteration order isn't
	// sufficient.
	ModuleIDOrder []string
	ResourceIDs   map[string]struct{}
	// ResourceIDOrder preserves the order resources were added in, needed by
	// the html plugin's sibling-resource injection (§4.8 "preserving per-pot
	// order").
	ResourceIDOrder []string
	Meta            ResourcePotMeta
}

// NewResourcePot returns an empty pot of the given kind, rooted at
// moduleGroupID and seeded with the given id (conventionally the first
// module id assigned to it).
func NewResourcePot(id string, kind ResourcePotKind, moduleGroupID string) *ResourcePot {
	return &ResourcePot{
		ID:            id,
		Kind:          kind,
		ModuleGroupID: moduleGroupID,
		ModuleIDs:     map[string]struct{}{},
		ResourceIDs:   map[string]struct{}{},
	}
}

// AddModule adds moduleID to the pot if not already present, recording
// order.
func (p *ResourcePot) AddModule(moduleID string) {
	if _, ok := p.ModuleIDs[moduleID]; ok {
		return
	}
	p.ModuleIDs[moduleID] = struct{}{}
	p.ModuleIDOrder = append(p.ModuleIDOrder, moduleID)
}

// AddResource records resourceID against the pot if not already present.
func (p *ResourcePot) AddResource(resourceID string) {
	if _, ok := p.ResourceIDs[resourceID]; ok {
		return
	}
	p.ResourceIDs[resourceID] = struct{}{}
	p.ResourceIDOrder = append(p.ResourceIDOrder, resourceID)
}

// ResourceKind classifies an emitted Resource's content type.
type ResourceKind int

const (
	ResourceHTML ResourceKind = iota
	ResourceCSS
	ResourceJS
	ResourceRuntime
	ResourceSourceMap
	ResourceCustom
)

// Resource is one emitted output file, produced by a pot's
// GenerateResources hook and written to disk by write_resources.
type Resource struct {
	Name          string
	Content       []byte
	Kind          ResourceKind
	Emitted       bool
	ResourcePotID string
}

// ResourcePotMap is the id-indexed collection of ResourcePots produced by
// MergeModules.
type ResourcePotMap map[string]*ResourcePot

// SortedIDs returns the pot ids in deterministic order.
func (m ResourcePotMap) SortedIDs() []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MergeModules buckets every module of every group by
// ResourcePotKindFromModuleKind, creating one ResourcePot per non-empty
// bucket (id taken from the first module assigned to it), and records the
// resulting pot ids back onto their owning group.
func MergeModules(g *ModuleGraph, groups ModuleGroupMap) ResourcePotMap {
	pots := ResourcePotMap{}

	for _, groupID := range groups.SortedIDs() {
		group := groups[groupID]
		buckets := map[ResourcePotKind]*ResourcePot{}
		var bucketOrder []ResourcePotKind

		for _, id := range group.ModuleIDOrder {
			m := g.Module(id)
			if m == nil {
				continue
			}
			kind := ResourcePotKindFromModuleKind(m.Kind)
			pot, ok := buckets[kind]
			if !ok {
				pot = NewResourcePot(id, kind, group.ID)
				buckets[kind] = pot
				bucketOrder = append(bucketOrder, kind)
			}
			pot.AddModule(id)
		}

		for _, kind := range bucketOrder {
			pot := buckets[kind]
			pots[pot.ID] = pot
			group.addResourcePot(pot.ID)
		}
	}

	return pots
}
