package scriptplugin

import (
	"context"
	"strconv"
	"strings"

	"github.com/Codpoe/toy-bundler/internal/bundler"
)

// PotMeta is the rendered payload RenderResourcePot leaves on a JS
// ResourcePot for GenerateResources to turn into a Resource.
type PotMeta struct {
	bundler.BaseResourcePotMeta
	Code string
}

// RenderResourcePot implements §4.6's JS pot rendering: lower every
// constituent module's ESM declarations, wrap each in the
// (__toyModule__, __toyRequire__, __toyDynamicRequire__) call-site shape,
// key them by module id into one object literal, then either bootstrap
// that object against the runtime scaffold (entry pots) or expose it
// through a small chunk-local registry (dynamic-import target pots, looked
// up by __toyDynamicRequire__).
func (p *Plugin) RenderResourcePot(_ context.Context, cc *bundler.CompilationContext, pot *bundler.ResourcePot) error {
	if pot.Kind != bundler.PotJs {
		return nil
	}

	var b strings.Builder
	b.WriteString("{\n")
	for _, id := range pot.ModuleIDOrder {
		m := cc.Graph.Module(id)
		if m == nil {
			continue
		}
		lowered, err := lowerModule(m, cc.Graph)
		if err != nil {
			return err
		}
		b.WriteString("  ")
		b.WriteString(strconv.Quote(id))
		b.WriteString(": ")
		b.WriteString(wrapModule(lowered))
		b.WriteString(",\n")
	}
	b.WriteString("}")
	modulesObject := b.String()

	var code string
	if cc.Graph.IsEntryModule(pot.ID, false) {
		code = renderJSEntry(modulesObject, pot.ID)
	} else {
		code = renderJSChunk(modulesObject)
	}

	pot.Meta = &PotMeta{Code: code}
	return nil
}

// GenerateResources turns a rendered JS pot into its single output
// Resource, named from the pot's (root module's) stripped id with its
// extension normalized to ".js" — matching §4.6's "main<.js>" example.
func (p *Plugin) GenerateResources(_ context.Context, _ *bundler.CompilationContext, pot *bundler.ResourcePot) ([]*bundler.Resource, error) {
	meta, ok := pot.Meta.(*PotMeta)
	if !ok {
		return nil, nil
	}
	return []*bundler.Resource{{
		Name:    jsResourceName(pot.ID),
		Content: []byte(meta.Code),
		Kind:    bundler.ResourceJS,
	}}, nil
}

// jsResourceName derives an output filename from a JS pot's root module id:
// the stripped id's final path segment, with its extension replaced by
// ".js".
func jsResourceName(moduleID string) string {
	stripped := bundler.StripRootPrefix(moduleID)
	base := stripped
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base + ".js"
}
