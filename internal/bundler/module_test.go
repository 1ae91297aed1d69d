package bundler

import (
	"reflect"
	"testing"
)

func TestParseQuery(t *testing.T) {
	got := ParseQuery("import&foo=bar&bar=baz")
	want := map[string]string{"import": "", "foo": "bar", "bar": "baz"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseQuery() = %v, want %v", got, want)
	}
}

func TestParseQueryEmpty(t *testing.T) {
	got := ParseQuery("")
	if len(got) != 0 {
		t.Fatalf("ParseQuery(\"\") = %v, want empty map", got)
	}
}

func TestSplitQuery(t *testing.T) {
	id, query := SplitQuery("./foo.css?import")
	if id != "./foo.css" || query != "import" {
		t.Fatalf("SplitQuery() = (%q, %q)", id, query)
	}

	id, query = SplitQuery("./foo.js")
	if id != "./foo.js" || query != "" {
		t.Fatalf("SplitQuery() with no query = (%q, %q)", id, query)
	}
}

func TestToModuleIDAndFulfillRootPrefix(t *testing.T) {
	root := "/repo"
	id := ToModuleID(root, "/repo/src/main.js")
	if id != "root:src/main.js" {
		t.Fatalf("ToModuleID() = %q", id)
	}
	back := FulfillRootPrefix(root, id)
	if back != "/repo/src/main.js" {
		t.Fatalf("FulfillRootPrefix() = %q", back)
	}

	// Outside root, left verbatim.
	outside := ToModuleID(root, "/other/pkg.js")
	if outside != "/other/pkg.js" {
		t.Fatalf("ToModuleID() outside root = %q", outside)
	}
}

func TestModuleKindFromExt(t *testing.T) {
	cases := map[string]ModuleKind{
		".html": KindHtml,
		"css":   KindCss,
		".js":   KindJs,
		".jsx":  KindJsx,
		".ts":   KindTs,
		".tsx":  KindTsx,
		".png":  KindAsset,
	}
	for ext, want := range cases {
		if got := ModuleKindFromExt(ext); got != want {
			t.Errorf("ModuleKindFromExt(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestModuleKindPredicates(t *testing.T) {
	if !KindHtml.IsHTML() || KindHtml.IsStyle() || KindHtml.IsScript() {
		t.Error("KindHtml predicates wrong")
	}
	if !KindCss.IsStyle() || KindCss.IsHTML() || KindCss.IsScript() {
		t.Error("KindCss predicates wrong")
	}
	for _, k := range []ModuleKind{KindJs, KindJsx, KindTs, KindTsx} {
		if !k.IsScript() || k.IsHTML() || k.IsStyle() {
			t.Errorf("%v should be script-only", k)
		}
	}
}
