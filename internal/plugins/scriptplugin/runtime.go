package scriptplugin

import "strings"

// runtimeScaffold is the fixed JS runtime bundled with every entry JS
// artifact (§6 "JS runtime snippet"). It exposes __toyModule__,
// __toyRequire__ and __toyDynamicRequire__ plus an internal modules
// registry, and ends in a bootstrap() call-site whose arguments are
// rewritten by source substitution rather than AST mutation — see
// §C.4: the module's own collaborator only hands back
// retained text and declaration spans, not a mutable expression AST, so
// the call-site rewrite has to be textual to stay faithful to that
// contract.
//
// __toyDynamicRequire__(groupId, moduleId) implements the dynamic-import
// protocol: it issues a native import() of the dynamic group's own entry
// JS resource ("./" + groupId + ".js", a sibling-emitted file — see
// DESIGN.md's Open Question resolution), then looks moduleId up in that
// chunk's own exposed module registry once the import resolves.
//
// __toyRequire__ stamps a self-reference onto every module's exports under
// the literal key "*": §4.7's `* -> nsLocal` lowering destructures that key
// out of the required object (`const { "*": ns } = __toyRequire__(...)`)
// to bind the whole namespace, since a plain object pattern has no other
// way to capture "everything".
const runtimeScaffold = `(function () {
  var registry = {};
  var cache = {};

  function __toyRequire__(id) {
    if (cache[id]) {
      return cache[id].exports;
    }
    var mod = { exports: {} };
    cache[id] = mod;
    var factory = registry[id];
    if (!factory) {
      throw new Error("toy-bundler: unknown module " + id);
    }
    factory(mod, __toyRequire__, __toyDynamicRequire__);
    mod.exports["*"] = mod.exports;
    return mod.exports;
  }

  function __toyDynamicRequire__(groupId, moduleId) {
    return import("./" + groupId + ".js").then(function (chunk) {
      return chunk.__toyRegistry__ ? chunk.__toyRegistry__(moduleId) : __toyRequire__(moduleId);
    });
  }

  function bootstrap(modules, entryId) {
    for (var id in modules) {
      registry[id] = modules[id];
    }
    __toyRequire__(entryId);
  }

  bootstrap({}, "");
})();
`

// bootstrapPlaceholder is the literal call-site substring of
// runtimeScaffold that renderJSEntry rewrites with the real modules object
// and entry id.
const bootstrapPlaceholder = `bootstrap({}, "");`

// renderJSEntry concatenates the runtime scaffold with modulesObject (the
// `{ "<id>": function(...) {...}, … }` object literal §4.6 step 2 builds)
// and rewrites the scaffold's bootstrap() call-site to invoke it against
// entryID, matching §4.6 step 3.
func renderJSEntry(modulesObject, entryID string) string {
	call := "bootstrap(" + modulesObject + ", \"" + entryID + "\");"
	return strings.Replace(runtimeScaffold, bootstrapPlaceholder, call, 1)
}

// renderJSChunk renders a non-entry JS pot — a dynamic-import target's own
// group — as a self-contained module exposing __toyRegistry__, the lookup
// function __toyDynamicRequire__'s native import() resolves against once
// the chunk has loaded.
func renderJSChunk(modulesObject string) string {
	var b strings.Builder
	b.WriteString("var __toyRegistry_modules__ = ")
	b.WriteString(modulesObject)
	b.WriteString(";\nvar __toyRegistry_cache__ = {};\n")
	b.WriteString(`export function __toyRegistry__(id) {
  if (__toyRegistry_cache__[id]) {
    return __toyRegistry_cache__[id].exports;
  }
  var mod = { exports: {} };
  __toyRegistry_cache__[id] = mod;
  var factory = __toyRegistry_modules__[id];
  if (!factory) {
    throw new Error("toy-bundler: unknown module " + id);
  }
  factory(mod, __toyRegistry__, function () {
    throw new Error("toy-bundler: nested dynamic import not supported in a chunk");
  });
  mod.exports["*"] = mod.exports;
  return mod.exports;
}
`)
	return b.String()
}
