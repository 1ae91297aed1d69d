package bundler

import (
	"context"
	"sort"
	"sync"
)

// CompilationContext is the shared state threaded through every plugin hook
// call: the resolved configuration, the plugin container, the module graph
// being built, and (once generation starts) the module-group map, the
// resource-pot map and the emitted-resources map.
type CompilationContext struct {
	Config    *Config
	Plugins   *PluginContainer
	Graph     *ModuleGraph

	groupsMu sync.RWMutex
	groups   ModuleGroupMap

	potsMu sync.RWMutex
	pots   ResourcePotMap

	resourcesMu sync.RWMutex
	resources   map[string]*Resource
}

// NewCompilationContext builds a context around cfg and plugins, running
// every plugin's Config hook immediately, as part of construction, before
// anything else touches cfg.
func NewCompilationContext(ctx context.Context, cfg *Config, plugins *PluginContainer) (*CompilationContext, error) {
	if err := plugins.Config(ctx, cfg); err != nil {
		return nil, err
	}
	return &CompilationContext{
		Config:    cfg,
		Plugins:   plugins,
		Graph:     NewModuleGraph(),
		resources: map[string]*Resource{},
	}, nil
}

// SetModuleGroups installs the ModuleGroupMap produced by
// analyze_module_graph.
func (c *CompilationContext) SetModuleGroups(groups ModuleGroupMap) {
	c.groupsMu.Lock()
	defer c.groupsMu.Unlock()
	c.groups = groups
}

// ModuleGroups returns the installed ModuleGroupMap.
func (c *CompilationContext) ModuleGroups() ModuleGroupMap {
	c.groupsMu.RLock()
	defer c.groupsMu.RUnlock()
	return c.groups
}

// SetResourcePots installs the ResourcePotMap produced by merge_modules.
func (c *CompilationContext) SetResourcePots(pots ResourcePotMap) {
	c.potsMu.Lock()
	defer c.potsMu.Unlock()
	c.pots = pots
}

// ResourcePots returns the installed ResourcePotMap.
func (c *CompilationContext) ResourcePots() ResourcePotMap {
	c.potsMu.RLock()
	defer c.potsMu.RUnlock()
	return c.pots
}

// AddResources merges newly generated resources into the shared resource
// map, keyed by Name, and records their ids against the owning pot in the
// order GenerateResources produced them.
func (c *CompilationContext) AddResources(potID string, resources []*Resource) {
	c.resourcesMu.Lock()
	defer c.resourcesMu.Unlock()
	if c.resources == nil {
		c.resources = map[string]*Resource{}
	}
	for _, r := range resources {
		r.ResourcePotID = potID
		c.resources[r.Name] = r
	}
	if pot, ok := c.pots[potID]; ok {
		for _, r := range resources {
			pot.AddResource(r.Name)
		}
	}
}

// Resources returns every resource currently known, in deterministic
// (name-sorted) order.
func (c *CompilationContext) Resources() []*Resource {
	c.resourcesMu.RLock()
	defer c.resourcesMu.RUnlock()
	out := make([]*Resource, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, r)
	}
	sortResourcesByName(out)
	return out
}

// ResourcesForGroup returns the resources belonging to any pot in the given
// module group, in group.ResourcePotIDOrder / per-pot ResourceIDOrder order
// (sibling pots, preserving per-pot order, per §4.8); partitioning by kind is
// left to the caller (see htmlplugin).
func (c *CompilationContext) ResourcesForGroup(groupID string) []*Resource {
	c.groupsMu.RLock()
	c.potsMu.RLock()
	c.resourcesMu.RLock()
	defer c.groupsMu.RUnlock()
	defer c.potsMu.RUnlock()
	defer c.resourcesMu.RUnlock()

	group := c.groups[groupID]
	if group == nil {
		return nil
	}

	var out []*Resource
	for _, potID := range group.ResourcePotIDOrder {
		pot, ok := c.pots[potID]
		if !ok {
			continue
		}
		for _, resID := range pot.ResourceIDOrder {
			if r, ok := c.resources[resID]; ok {
				out = append(out, r)
			}
		}
	}
	return out
}

func sortResourcesByName(rs []*Resource) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Name < rs[j].Name })
}
