package jsast

import "testing"

func TestParseExportVarBindings(t *testing.T) {
	prog := Scan(`export const a = 1, { b, c: d } = obj;
`, "mod.js")
	decl := prog.Statements[0].ExportNamed
	if decl == nil {
		t.Fatal("expected an export-named statement")
	}
	want := map[string]bool{"a": true, "b": true, "d": true}
	if len(decl.Specifiers) != len(want) {
		t.Fatalf("specifiers = %+v, want %d entries", decl.Specifiers, len(want))
	}
	for _, spec := range decl.Specifiers {
		if !want[spec.Local] {
			t.Errorf("unexpected bound name %q", spec.Local)
		}
		if spec.Local != spec.Exported {
			t.Errorf("inline export should re-export under the same name, got %+v", spec)
		}
	}
}

func TestParseExportFunctionRetainsDeclaration(t *testing.T) {
	prog := Scan(`export function greet(name) {
  return "hi " + name;
}
`, "mod.js")
	decl := prog.Statements[0].ExportNamed
	if decl == nil {
		t.Fatal("expected an export-named statement")
	}
	if len(decl.Specifiers) != 1 || decl.Specifiers[0].Local != "greet" {
		t.Fatalf("specifiers = %+v, want greet", decl.Specifiers)
	}
	if decl.Retained == "" {
		t.Fatal("expected the function declaration to be retained")
	}
}

func TestParseExportDefaultNamedFunctionBindsItsOwnName(t *testing.T) {
	prog := Scan(`export default function helper() {}
`, "mod.js")
	decl := prog.Statements[0].ExportDefault
	if decl == nil {
		t.Fatal("expected an export-default statement")
	}
	if decl.ExportedLocal != "helper" {
		t.Fatalf("exported local = %q, want helper", decl.ExportedLocal)
	}
	if decl.Retained == "" {
		t.Fatal("expected the named function to be retained")
	}
}

func TestParseExportDefaultBareIdentifierNeedsNoFreshLocal(t *testing.T) {
	prog := Scan(`export default helper;
`, "mod.js")
	decl := prog.Statements[0].ExportDefault
	if decl == nil {
		t.Fatal("expected an export-default statement")
	}
	if decl.ExportedLocal != "helper" || decl.Retained != "" {
		t.Fatalf("got %+v, want bare identifier with no retained decl", decl)
	}
}

func TestParseExportAllBareBindsNamespaceLocal(t *testing.T) {
	prog := Scan(`export * from './other';
`, "mod.js")
	decl := prog.Statements[0].ExportAll
	if decl == nil {
		t.Fatal("expected an export-all statement")
	}
	if decl.Import == nil || len(decl.Import.Specifiers) != 1 {
		t.Fatalf("expected a namespace import binding, got %+v", decl.Import)
	}
	if decl.Exported != "" {
		t.Fatalf("bare export * should have no exported name, got %q", decl.Exported)
	}
	if decl.Local == "" || decl.Local != decl.Import.Specifiers[0].Local {
		t.Fatalf("decl.Local = %q must match the bound namespace import local", decl.Local)
	}
}

func TestParseExportAllAsNamedBindsSameNamespaceLocal(t *testing.T) {
	prog := Scan(`export * as utils from './other';
`, "mod.js")
	decl := prog.Statements[0].ExportAll
	if decl == nil {
		t.Fatal("expected an export-all statement")
	}
	if decl.Exported != "utils" {
		t.Fatalf("exported = %q, want utils", decl.Exported)
	}
	if decl.Import == nil || len(decl.Import.Specifiers) != 1 || decl.Import.Specifiers[0].Local != decl.Local {
		t.Fatalf("expected the 'as' form to bind the same namespace local as the bare form, got %+v", decl)
	}
}
