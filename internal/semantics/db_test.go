package semantics

import (
	"bytes"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func newTestDB(t *testing.T, crates map[string]string) *DB {
	t.Helper()
	db := NewDB()
	t.Cleanup(db.Close)
	for _, name := range []string{"main", "other", "macros"} {
		src, ok := crates[name]
		if !ok {
			continue
		}
		if err := db.AddCrate(name, []byte(src)); err != nil {
			t.Fatalf("add crate %s: %v", name, err)
		}
	}
	return db
}

func mainSema(t *testing.T, src string) *Semantics {
	t.Helper()
	db := newTestDB(t, map[string]string{"main": src})
	sema, ok := db.Semantics("main")
	if !ok {
		t.Fatal("main crate missing")
	}
	return sema
}

// tokenIn returns the leaf at the start of the needle's nth occurrence.
func tokenIn(t *testing.T, sema *Semantics, needle string, skip int) *sitter.Node {
	t.Helper()
	src := sema.File().Source
	offset := -1
	for i := 0; i <= skip; i++ {
		next := bytes.Index(src[offset+1:], []byte(needle))
		if next < 0 {
			t.Fatalf("needle %q occurrence %d not found", needle, skip)
		}
		offset += 1 + next
	}
	token := sema.File().TokenAt(uint(offset))
	if token == nil {
		t.Fatalf("no token at offset %d", offset)
	}
	return token
}

func TestResolvePathThroughModules(t *testing.T) {
	sema := mainSema(t, `
mod outer {
    pub mod inner {
        pub fn leaf() {}
    }
}
fn main() {
    outer::inner::leaf();
}
`)
	res, ok := sema.ResolvePath(tokenIn(t, sema, "leaf", 1).Parent())
	if !ok {
		t.Fatal("path did not resolve")
	}
	fn, ok := res.(Function)
	if !ok {
		t.Fatalf("expected function, got %T", res)
	}
	if got := sema.DB().FunctionName(fn); got != "leaf" {
		t.Fatalf("resolved wrong function %q", got)
	}

	res, ok = sema.ResolvePath(tokenIn(t, sema, "inner", 1).Parent())
	if !ok {
		t.Fatal("qualifier did not resolve")
	}
	mod, ok := res.(Module)
	if !ok {
		t.Fatalf("expected module, got %T", res)
	}
	if got := sema.DB().ModuleName(mod); got != "inner" {
		t.Fatalf("resolved wrong module %q", got)
	}
}

func TestResolvePathThroughUseAlias(t *testing.T) {
	sema := mainSema(t, `
mod store {
    pub struct Entry { pub id: u32 }
}
use store::Entry as Row;
fn main() {
    let r: Row = make();
}
`)
	res, ok := sema.ResolvePath(tokenIn(t, sema, "Row", 1))
	if !ok {
		t.Fatal("alias did not resolve")
	}
	adt, ok := res.(Adt)
	if !ok {
		t.Fatalf("expected adt, got %T", res)
	}
	if got := sema.DB().AdtName(adt); got != "Entry" {
		t.Fatalf("alias resolved to %q", got)
	}
}

func TestResolvePathGlobImport(t *testing.T) {
	sema := mainSema(t, `
enum Shade { Light, Dark }
use Shade::*;
fn main() {
    let s = Light;
}
`)
	res, ok := sema.ResolvePath(tokenIn(t, sema, "Light", 1))
	if !ok {
		t.Fatal("glob import did not resolve")
	}
	v, ok := res.(Variant)
	if !ok {
		t.Fatalf("expected variant, got %T", res)
	}
	if got := sema.DB().VariantName(v); got != "Light" {
		t.Fatalf("resolved wrong variant %q", got)
	}
}

func TestLocalShadowing(t *testing.T) {
	sema := mainSema(t, `
fn main() {
    let count = 1;
    let count = count + 1;
    use_it(count);
}
`)
	res, ok := sema.ResolvePath(tokenIn(t, sema, "count", 3))
	if !ok {
		t.Fatal("local did not resolve")
	}
	last := res.(Local)

	res, ok = sema.ResolvePath(tokenIn(t, sema, "count", 2))
	if !ok {
		t.Fatal("initializer ref did not resolve")
	}
	first := res.(Local)

	if first == last {
		t.Fatal("shadowed binding and shadowing binding should differ")
	}
	// the initializer of the second let sees only the first binding
	declFirst, _ := sema.LocalForBinding(tokenIn(t, sema, "count", 0))
	if first != declFirst {
		t.Fatal("initializer should see the earlier binding")
	}
	declLast, _ := sema.LocalForBinding(tokenIn(t, sema, "count", 1))
	if last != declLast {
		t.Fatal("use site should see the shadowing binding")
	}
}

func TestResolveMethodCallAndFieldAccess(t *testing.T) {
	sema := mainSema(t, `
struct Point { x: i32, y: i32 }
impl Point {
    fn norm(&self) -> i32 { self.x }
}
fn main(p: Point) {
    p.norm();
    p.y;
}
`)
	fn, ok := sema.ResolveMethodCall(tokenIn(t, sema, "norm", 1))
	if !ok {
		t.Fatal("method call did not resolve")
	}
	if got := sema.DB().FunctionName(fn); got != "norm" {
		t.Fatalf("resolved wrong method %q", got)
	}

	field, ok := sema.ResolveFieldAccess(tokenIn(t, sema, "y", 1))
	if !ok {
		t.Fatal("field access did not resolve")
	}
	if got := sema.DB().FieldName(field); got != "y" {
		t.Fatalf("resolved wrong field %q", got)
	}

	// receiver type flows through the self parameter too
	field, ok = sema.ResolveFieldAccess(tokenIn(t, sema, "x", 1))
	if !ok {
		t.Fatal("self field access did not resolve")
	}
	if got := sema.DB().FieldName(field); got != "x" {
		t.Fatalf("resolved wrong self field %q", got)
	}
}

func TestResolveExternCrate(t *testing.T) {
	db := newTestDB(t, map[string]string{
		"other": `pub fn exported() {}`,
		"main":  `extern crate other as dep;`,
	})
	sema, _ := db.Semantics("main")
	m, ok := sema.ResolveExternCrate(tokenIn(t, sema, "other", 0))
	if !ok {
		t.Fatal("extern crate did not resolve")
	}
	if got := db.ModuleCrateName(m); got != "other" {
		t.Fatalf("resolved to crate %q", got)
	}
	if !db.IsCrateRoot(m) {
		t.Fatal("extern crate should resolve to a crate root")
	}
}

func TestProcMacroRegistration(t *testing.T) {
	db := newTestDB(t, map[string]string{"macros": `
#[proc_macro]
pub fn emit(input: TokenStream) -> TokenStream { input }

#[proc_macro_attribute]
pub fn trace(attr: TokenStream, item: TokenStream) -> TokenStream { item }

#[proc_macro_derive(Record)]
pub fn record_derive(input: TokenStream) -> TokenStream { input }
`})
	sema, _ := db.Semantics("macros")
	for _, tc := range []struct {
		name string
		kind MacroKind
	}{
		{"emit", MacroFnLike},
		{"trace", MacroAttr},
		{"Record", MacroDerive},
	} {
		m, ok := sema.ResolvePathAsMacro(tokenIn(t, sema, tc.name, 0))
		if !ok {
			t.Fatalf("macro %s not registered", tc.name)
		}
		if got := sema.MacroKindOf(m); got != tc.kind {
			t.Fatalf("macro %s registered with kind %d, want %d", tc.name, got, tc.kind)
		}
	}
}

func TestResolveBindingAsConst(t *testing.T) {
	sema := mainSema(t, `
const LIMIT: i32 = 10;
enum Signal { Quit, Run(i32) }
use Signal::Quit;
fn main(x: i32) {
    match x {
        LIMIT => {}
        _ => {}
    }
}
`)
	res, ok := sema.ResolveBindingAsConst(tokenIn(t, sema, "LIMIT", 1))
	if !ok {
		t.Fatal("const pattern did not resolve")
	}
	if _, ok := res.(Const); !ok {
		t.Fatalf("expected const, got %T", res)
	}

	res, ok = sema.ResolveBindingAsConst(tokenIn(t, sema, "Quit", 1))
	if !ok {
		t.Fatal("unit variant should resolve as const-like")
	}
	if _, ok := res.(Variant); !ok {
		t.Fatalf("expected variant, got %T", res)
	}

	if _, ok := sema.ResolveBindingAsConst(tokenIn(t, sema, "x", 0)); ok {
		t.Fatal("plain binding must not resolve as const")
	}
}

func TestResolveLabelAndLifetime(t *testing.T) {
	sema := mainSema(t, `
fn find<'a>(items: &'a str) -> &'a str {
    'outer: loop {
        break 'outer;
    }
    items
}
`)
	label, ok := sema.ResolveLabel(tokenIn(t, sema, "outer", 1).Parent())
	if !ok {
		t.Fatal("label did not resolve")
	}
	if got := sema.DB().LabelName(label); got != "outer" {
		t.Fatalf("resolved wrong label %q", got)
	}

	lp, ok := sema.ResolveLifetimeParam(tokenIn(t, sema, "'a", 1).Parent())
	if !ok {
		t.Fatal("lifetime use did not resolve")
	}
	if got := sema.DB().LifetimeParamName(lp); got != "a" {
		t.Fatalf("resolved wrong lifetime %q", got)
	}
}

func TestModulePathToRoot(t *testing.T) {
	sema := mainSema(t, `
mod a {
    pub mod b {
        pub struct Deep;
    }
}
`)
	db := sema.DB()
	adt, ok := sema.AdtForDeclaration(tokenIn(t, sema, "Deep", 0).Parent())
	if !ok {
		t.Fatal("struct not collected")
	}
	path := db.ModulePathToRoot(db.AdtModule(adt))
	if len(path) != 3 {
		t.Fatalf("expected root/a/b, got %d modules", len(path))
	}
	if !db.IsCrateRoot(path[0]) {
		t.Fatal("path must start at the crate root")
	}
	if db.ModuleName(path[1]) != "a" || db.ModuleName(path[2]) != "b" {
		t.Fatalf("wrong path %q/%q", db.ModuleName(path[1]), db.ModuleName(path[2]))
	}
}

func TestAddCrateCollectsBodyItems(t *testing.T) {
	sema := mainSema(t, `
fn outer() {
    fn helper() -> u32 { 7 }
    struct Scratch { n: u32 }
    let s = Scratch { n: helper() };
    let _ = s.n;
}
`)
	res, ok := sema.ResolvePath(tokenIn(t, sema, "helper", 1))
	if !ok {
		t.Fatal("nested function did not resolve")
	}
	fn, ok := res.(Function)
	if !ok {
		t.Fatalf("expected function, got %T", res)
	}
	if got := sema.DB().FunctionName(fn); got != "helper" {
		t.Fatalf("resolved wrong function %q", got)
	}

	res, ok = sema.ResolvePath(tokenIn(t, sema, "Scratch", 1))
	if !ok {
		t.Fatal("nested struct did not resolve")
	}
	if _, ok := res.(Adt); !ok {
		t.Fatalf("expected struct, got %T", res)
	}
}
