package htmlplugin

import (
	"bytes"
	"context"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Codpoe/toy-bundler/internal/bundler"
)

// WriteResources implements §4.8: for every HTML resource, pull its
// sibling pots' resources (same module group, different pot), strip the
// original <script src>/<link href> elements whose value matches one of
// the HTML module's own outgoing specifiers, append the sibling CSS
// resources to <head> and the sibling JS resources to <body>, and
// code-generate the result into the resource's
// content. Must run before the resources plugin's disk write, so it's
// registered at the default priority while the resources plugin runs
// later (see resourcesplugin.New).
func (p *Plugin) WriteResources(_ context.Context, cc *bundler.CompilationContext) error {
	pots := cc.ResourcePots()
	resources := cc.Resources()

	resourceForPot := map[string]*bundler.Resource{}
	for _, r := range resources {
		if r.Kind == bundler.ResourceHTML {
			resourceForPot[r.ResourcePotID] = r
		}
	}

	for _, potID := range pots.SortedIDs() {
		pot := pots[potID]
		if pot.Kind != bundler.PotHtml {
			continue
		}
		meta, ok := pot.Meta.(*PotMeta)
		if !ok {
			continue
		}
		resource, ok := resourceForPot[pot.ID]
		if !ok {
			continue
		}

		group := cc.ModuleGroups()[pot.ModuleGroupID]
		var cssSiblings, jsSiblings []*bundler.Resource
		if group != nil {
			for _, r := range cc.ResourcesForGroup(group.ID) {
				switch r.Kind {
				case bundler.ResourceCSS:
					cssSiblings = append(cssSiblings, r)
				case bundler.ResourceJS:
					jsSiblings = append(jsSiblings, r)
				}
			}
		}

		originalSpecifiers := map[string]bool{}
		for _, dep := range cc.Graph.Dependencies(meta.ModuleID) {
			originalSpecifiers[dep.Edge.Source] = true
		}

		removeMatchingElements(meta.Doc, originalSpecifiers)
		injectStylesheets(meta.Doc, cssSiblings)
		injectScripts(meta.Doc, jsSiblings)

		var buf bytes.Buffer
		if err := html.Render(&buf, meta.Doc); err != nil {
			return err
		}
		resource.Content = buf.Bytes()
	}

	return nil
}

// removeMatchingElements deletes any <script src> or <link href> element
// whose attribute value is one of the HTML module's own original
// dependency specifiers.
func removeMatchingElements(doc *html.Node, originalSpecifiers map[string]bool) {
	var toRemove []*html.Node
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "script":
			if src, ok := attr(n, "src"); ok && originalSpecifiers[src] {
				toRemove = append(toRemove, n)
			}
		case "link":
			if href, ok := attr(n, "href"); ok && originalSpecifiers[href] {
				toRemove = append(toRemove, n)
			}
		}
	})
	for _, n := range toRemove {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func injectStylesheets(doc *html.Node, resources []*bundler.Resource) {
	head := findElement(doc, "head")
	if head == nil {
		return
	}
	for _, r := range resources {
		head.AppendChild(&html.Node{
			Type:     html.ElementNode,
			Data:     "link",
			DataAtom: atom.Link,
			Attr: []html.Attribute{
				{Key: "rel", Val: "stylesheet"},
				{Key: "href", Val: "./" + r.Name},
			},
		})
	}
}

func injectScripts(doc *html.Node, resources []*bundler.Resource) {
	body := findElement(doc, "body")
	if body == nil {
		return
	}
	for _, r := range resources {
		body.AppendChild(&html.Node{
			Type:     html.ElementNode,
			Data:     "script",
			DataAtom: atom.Script,
			Attr: []html.Attribute{
				{Key: "src", Val: "./" + r.Name},
			},
		})
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
