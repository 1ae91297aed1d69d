package jsast

import "testing"

func TestScanImportDefaultAndNamed(t *testing.T) {
	prog := Scan(`import Foo, { bar, baz as qux } from './foo';
console.log(Foo, bar, qux);
`, "entry.js")

	if len(prog.Statements) < 2 {
		t.Fatalf("expected at least 2 statements, got %d", len(prog.Statements))
	}
	imp := prog.Statements[0]
	if imp.Kind != StmtImport || imp.Import == nil {
		t.Fatalf("expected first statement to be an import, got %+v", imp)
	}
	if imp.Import.Source != "./foo" {
		t.Fatalf("source = %q, want ./foo", imp.Import.Source)
	}
	want := map[string]string{"default": "Foo", "bar": "bar", "baz": "qux"}
	if len(imp.Import.Specifiers) != len(want) {
		t.Fatalf("specifiers = %+v, want %d entries", imp.Import.Specifiers, len(want))
	}
	for _, spec := range imp.Import.Specifiers {
		if want[spec.Imported] != spec.Local {
			t.Errorf("specifier %+v does not match expected local %q", spec, want[spec.Imported])
		}
	}
}

func TestScanSideEffectImport(t *testing.T) {
	prog := Scan(`import './styles.css';
`, "entry.js")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	imp := prog.Statements[0]
	if imp.Kind != StmtImport || imp.Import == nil {
		t.Fatalf("expected an import statement, got %+v", imp)
	}
	if imp.Import.Source != "./styles.css" || len(imp.Import.Specifiers) != 0 {
		t.Fatalf("got %+v, want bare './styles.css' import", imp.Import)
	}
}

func TestScanTypeOnlyImportDropped(t *testing.T) {
	prog := Scan(`import type { Foo } from './types';
export const x = 1;
`, "entry.ts")
	for _, stmt := range prog.Statements {
		if stmt.Kind == StmtImport {
			t.Fatalf("expected type-only import to be dropped, got %+v", stmt)
		}
	}
}

func TestScanDynamicImportsCollectedAnywhere(t *testing.T) {
	prog := Scan(`function load() {
  return import('./lazy');
}
const also = () => import("./other");
`, "entry.js")
	want := map[string]bool{"./lazy": true, "./other": true}
	if len(prog.DynamicImports) != len(want) {
		t.Fatalf("dynamic imports = %v, want 2 entries", prog.DynamicImports)
	}
	for _, d := range prog.DynamicImports {
		if !want[d] {
			t.Errorf("unexpected dynamic import %q", d)
		}
	}
}

func TestScanExportNamedReexport(t *testing.T) {
	prog := Scan(`export { a, b as c } from './other';
`, "entry.js")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	stmt := prog.Statements[0]
	if stmt.Kind != StmtExportNamed || stmt.ExportNamed == nil {
		t.Fatalf("expected an export-named statement, got %+v", stmt)
	}
	decl := stmt.ExportNamed
	if decl.Import == nil || decl.Import.Source != "./other" {
		t.Fatalf("expected a re-export import from './other', got %+v", decl.Import)
	}
	if len(decl.Specifiers) != 2 {
		t.Fatalf("expected 2 export specifiers, got %+v", decl.Specifiers)
	}
}

func TestScanExportDefaultExpressionGetsFreshLocal(t *testing.T) {
	prog := Scan(`export default { a: 1 };
`, "my-widget.js")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl := prog.Statements[0].ExportDefault
	if decl == nil {
		t.Fatal("expected an export-default statement")
	}
	want := "_my_widget$toy1"
	if decl.ExportedLocal != want {
		t.Fatalf("exported local = %q, want %q", decl.ExportedLocal, want)
	}
	if decl.Retained == "" {
		t.Fatal("expected a retained const declaration for the fresh local")
	}
}

func TestScanPerCallCounterDoesNotLeakAcrossCalls(t *testing.T) {
	// Two independent Scan calls on files with anonymous default exports
	// must each start their fresh-local counter at 1 — regression test for
	// the package-level counter this used to share across concurrently
	// scanned modules.
	a := Scan(`export default 1 + 1;`, "a.js")
	b := Scan(`export default 2 + 2;`, "b.js")
	if a.Statements[0].ExportDefault.ExportedLocal != "_a$toy1" {
		t.Fatalf("a local = %q", a.Statements[0].ExportDefault.ExportedLocal)
	}
	if b.Statements[0].ExportDefault.ExportedLocal != "_b$toy1" {
		t.Fatalf("b local = %q", b.Statements[0].ExportDefault.ExportedLocal)
	}
}
