package defs

import (
	"bytes"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"lodestar/internal/semantics"
	"lodestar/internal/syntax"
)

func crateSema(t *testing.T, src string) *semantics.Semantics {
	t.Helper()
	db := semantics.NewDB()
	t.Cleanup(db.Close)
	if err := db.AddCrate("main", []byte(src)); err != nil {
		t.Fatalf("add crate: %v", err)
	}
	sema, ok := db.Semantics("main")
	if !ok {
		t.Fatal("main crate missing")
	}
	return sema
}

func tokenIn(t *testing.T, sema *semantics.Semantics, needle string, skip int) *sitter.Node {
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

func classifyAt(t *testing.T, sema *semantics.Semantics, needle string, skip int) []Definition {
	t.Helper()
	return FromToken(sema, tokenIn(t, sema, needle, skip))
}

func single(t *testing.T, defs []Definition, kind DefKind) Definition {
	t.Helper()
	if len(defs) != 1 {
		t.Fatalf("expected one definition, got %d", len(defs))
	}
	if defs[0].Kind != kind {
		t.Fatalf("expected %s, got %s", kind, defs[0].Kind)
	}
	return defs[0]
}

func TestClassifyDeclarations(t *testing.T) {
	sema := crateSema(t, `
mod storage {
    pub struct Page { pub size: u32 }
    pub union Raw { word: u32 }
    pub enum State { Idle, Busy(u32) }
    pub trait Flush { fn flush(&self); }
    pub const CAP: u32 = 64;
    pub static GLOBAL: u32 = 0;
    pub type Offset = u32;
    pub fn open() {}
}
macro_rules! check { () => {} }
`)
	cases := []struct {
		needle string
		skip   int
		kind   DefKind
	}{
		{"storage", 0, DefModule},
		{"Page", 0, DefAdt},
		{"size", 0, DefField},
		{"Raw", 0, DefAdt},
		{"State", 0, DefAdt},
		{"Idle", 0, DefVariant},
		{"Busy", 0, DefVariant},
		{"Flush", 0, DefTrait},
		{"flush", 0, DefFunction},
		{"CAP", 0, DefConst},
		{"GLOBAL", 0, DefStatic},
		{"Offset", 0, DefTypeAlias},
		{"open", 0, DefFunction},
		{"check", 0, DefMacro},
	}
	for _, tc := range cases {
		single(t, classifyAt(t, sema, tc.needle, tc.skip), tc.kind)
	}
}

func TestClassifyIsReferentiallyTransparent(t *testing.T) {
	sema := crateSema(t, `
struct Row { id: u32 }
fn main(w: Row) {
    w.id;
    w.id;
}
`)
	decl := single(t, classifyAt(t, sema, "id", 0), DefField)
	ref1 := single(t, classifyAt(t, sema, "id", 1), DefField)
	ref2 := single(t, classifyAt(t, sema, "id", 2), DefField)
	if decl != ref1 || ref1 != ref2 {
		t.Fatal("the same symbol must classify equal everywhere")
	}
}

func TestClassifyLocalAndReference(t *testing.T) {
	sema := crateSema(t, `
fn main() {
    let total = 0;
    consume(total);
}
`)
	decl := single(t, classifyAt(t, sema, "total", 0), DefLocal)
	ref := single(t, classifyAt(t, sema, "total", 1), DefLocal)
	if decl != ref {
		t.Fatal("reference must resolve to the declaring binding")
	}
}

func TestClassifyConstReferenceInPattern(t *testing.T) {
	sema := crateSema(t, `
enum Slot { Empty, Full(u32) }
use Slot::Empty;
fn scan(s: u32) {
    match s {
        Empty => {}
        other => {}
    }
}
`)
	single(t, classifyAt(t, sema, "Empty", 2), DefVariant)
	single(t, classifyAt(t, sema, "other", 0), DefLocal)
}

func TestClassifyPatFieldShorthand(t *testing.T) {
	sema := crateSema(t, `
struct Point { x: i32 }
fn main(p: Point) {
    let Point { x } = p;
    consume(x);
}
`)
	got := classifyAt(t, sema, "x", 1)
	if len(got) != 2 {
		t.Fatalf("pattern shorthand must yield local and field, got %d", len(got))
	}
	if got[0].Kind != DefLocal || got[1].Kind != DefField {
		t.Fatalf("wrong order: %s then %s", got[0].Kind, got[1].Kind)
	}
	// the binding introduced by the shorthand is what later code sees
	ref := single(t, classifyAt(t, sema, "x", 2), DefLocal)
	if ref != got[0] {
		t.Fatal("use site must resolve to the shorthand's binding")
	}
}

func TestClassifyExprFieldShorthand(t *testing.T) {
	sema := crateSema(t, `
struct Point { x: i32 }
fn make() -> Point {
    let x = 1;
    Point { x }
}
`)
	got := classifyAt(t, sema, "x", 2)
	if len(got) != 2 {
		t.Fatalf("literal shorthand must yield local and field, got %d", len(got))
	}
	if got[0].Kind != DefLocal || got[1].Kind != DefField {
		t.Fatalf("wrong order: %s then %s", got[0].Kind, got[1].Kind)
	}
	let := single(t, classifyAt(t, sema, "x", 1), DefLocal)
	if got[0] != let {
		t.Fatal("shorthand local must be the earlier binding")
	}
}

func TestClassifySpelledOutRecordField(t *testing.T) {
	sema := crateSema(t, `
struct Point { x: i32 }
fn make() -> Point {
    Point { x: 1 }
}
`)
	init := single(t, classifyAt(t, sema, "x", 1), DefField)
	decl := single(t, classifyAt(t, sema, "x", 0), DefField)
	if init != decl {
		t.Fatal("record literal field must match its declaration")
	}
}

func TestClassifyRecordPatFieldSpelledOut(t *testing.T) {
	sema := crateSema(t, `
struct Point { x: i32 }
fn main(p: Point) {
    let Point { x: horizontal } = p;
}
`)
	single(t, classifyAt(t, sema, "x", 1), DefField)
	single(t, classifyAt(t, sema, "horizontal", 0), DefLocal)
}

func TestClassifyMethodCall(t *testing.T) {
	sema := crateSema(t, `
struct Conn { open: bool }
impl Conn {
    fn close(&mut self) {}
}
fn main(c: Conn) {
    c.close();
    c.open;
}
`)
	method := single(t, classifyAt(t, sema, "close", 1), DefFunction)
	decl := single(t, classifyAt(t, sema, "close", 0), DefFunction)
	if method != decl {
		t.Fatal("method call must resolve to the impl function")
	}
	single(t, classifyAt(t, sema, "open", 1), DefField)
}

func TestClassifyUseRename(t *testing.T) {
	sema := crateSema(t, `
mod net {
    pub mod tcp {
        pub fn dial() {}
    }
}
use net::tcp as transport;
use net::tcp::{self as channel};
`)
	direct := single(t, classifyAt(t, sema, "transport", 0), DefModule)
	selfAs := single(t, classifyAt(t, sema, "channel", 0), DefModule)
	if direct != selfAs {
		t.Fatal("`self as` must rename the same module as a direct rename")
	}
}

func TestClassifySelfParam(t *testing.T) {
	sema := crateSema(t, `
struct Buf { len: u32 }
impl Buf {
    fn len(&self) -> u32 { self.len }
}
`)
	decl := single(t, classifyAt(t, sema, "self", 0), DefLocal)
	ref := single(t, classifyAt(t, sema, "self", 1), DefLocal)
	if decl != ref {
		t.Fatal("self reference must resolve to the self parameter")
	}
	// field and method share a name; field access picks the field
	single(t, classifyAt(t, sema, "len", 2), DefField)
}

func TestClassifyGenericParams(t *testing.T) {
	sema := crateSema(t, `
fn pick<T, const N: usize>(items: [T; N]) -> T {
    items.into_one()
}
`)
	tDecl := single(t, classifyAt(t, sema, "T", 0), DefGenericParam)
	tUse := single(t, classifyAt(t, sema, "T", 1), DefGenericParam)
	if tDecl != tUse {
		t.Fatal("type parameter use must resolve to its declaration")
	}
	nDecl := single(t, classifyAt(t, sema, "N", 0), DefGenericParam)
	nUse := single(t, classifyAt(t, sema, "N", 1), DefGenericParam)
	if nDecl != nUse {
		t.Fatal("const parameter use must resolve to its declaration")
	}
	if tDecl == nDecl {
		t.Fatal("distinct parameters must classify differently")
	}
}

func TestClassifyLifetimes(t *testing.T) {
	sema := crateSema(t, `
fn head<'a>(input: &'a str) -> &'a str {
    input
}
`)
	decl := single(t, classifyAt(t, sema, "'a", 0), DefGenericParam)
	use1 := single(t, classifyAt(t, sema, "'a", 1), DefGenericParam)
	use2 := single(t, classifyAt(t, sema, "'a", 2), DefGenericParam)
	if decl != use1 || use1 != use2 {
		t.Fatal("lifetime uses must resolve to the declaring parameter")
	}
}

func TestClassifyBoundedGenericParams(t *testing.T) {
	sema := crateSema(t, `
fn join<'a: 'b, 'b, T: Clone>(x: &'a T, y: &'b T) -> &'b T {
    y
}
`)
	aDecl := single(t, classifyAt(t, sema, "'a", 0), DefGenericParam)
	aUse := single(t, classifyAt(t, sema, "'a", 1), DefGenericParam)
	if aDecl != aUse {
		t.Fatal("bounded lifetime use must resolve to its declaration")
	}
	bBound := single(t, classifyAt(t, sema, "'b", 0), DefGenericParam)
	bDecl := single(t, classifyAt(t, sema, "'b", 1), DefGenericParam)
	bUse := single(t, classifyAt(t, sema, "'b", 2), DefGenericParam)
	if bDecl != bBound || bDecl != bUse {
		t.Fatal("a lifetime bound occurrence must resolve like any other use")
	}
	if aDecl == bDecl {
		t.Fatal("distinct lifetimes must classify differently")
	}
	tDecl := single(t, classifyAt(t, sema, "T", 0), DefGenericParam)
	tUse := single(t, classifyAt(t, sema, "T", 1), DefGenericParam)
	if tDecl != tUse {
		t.Fatal("bounded type parameter use must resolve to its declaration")
	}
}

func TestClassifyLabels(t *testing.T) {
	sema := crateSema(t, `
fn run() {
    'outer: loop {
        loop {
            break 'outer;
        }
    }
}
`)
	decl := single(t, classifyAt(t, sema, "'outer", 0), DefLabel)
	brk := single(t, classifyAt(t, sema, "'outer", 1), DefLabel)
	if decl != brk {
		t.Fatal("break label must resolve to the loop label")
	}
}

func TestClassifyBuiltinType(t *testing.T) {
	sema := crateSema(t, `
fn main() {
    let n: u32 = 0;
}
`)
	def := single(t, classifyAt(t, sema, "u32", 0), DefBuiltinType)
	name, ok := def.Name(sema.DB())
	if !ok || name != "u32" {
		t.Fatalf("builtin name = %q, ok=%v", name, ok)
	}
}

func TestClassifySelfType(t *testing.T) {
	sema := crateSema(t, `
struct Pool;
impl Pool {
    fn new() -> Self { Pool }
}
`)
	single(t, classifyAt(t, sema, "Self", 0), DefSelfType)
}

func TestClassifyMacroInvocation(t *testing.T) {
	sema := crateSema(t, `
macro_rules! trace { () => {} }
fn main() {
    trace!();
}
`)
	decl := single(t, classifyAt(t, sema, "trace", 0), DefMacro)
	call := single(t, classifyAt(t, sema, "trace", 1), DefMacro)
	if decl != call {
		t.Fatal("macro call must resolve to the definition")
	}
}

func TestClassifyAssocTypeBinding(t *testing.T) {
	sema := crateSema(t, `
trait Source {
    type Item;
}
fn drain<S: Source<Item = u32>>(s: S) {}
`)
	decl := single(t, classifyAt(t, sema, "Item", 0), DefTypeAlias)
	bound := single(t, classifyAt(t, sema, "Item", 1), DefTypeAlias)
	if decl != bound {
		t.Fatal("associated type binding must resolve to the trait's item")
	}
}

func TestClassifyDeriveInput(t *testing.T) {
	sema := crateSema(t, `
#[proc_macro_derive(Record)]
pub fn record_derive(input: TokenStream) -> TokenStream { input }

#[derive(Record)]
struct Row;

#[derive(Unknown)]
struct Other;
`)
	def := single(t, classifyAt(t, sema, "Record", 1), DefMacro)
	if got := sema.MacroKindOf(def.Macro); got != semantics.MacroDerive {
		t.Fatalf("expected derive macro, got kind %d", got)
	}
	// an unknown derive input still never falls through to path resolution
	if got := classifyAt(t, sema, "Unknown", 0); got != nil {
		t.Fatalf("unresolved derive input must classify to nothing, got %v", got)
	}
}

func TestClassifyAttributePaths(t *testing.T) {
	sema := crateSema(t, `
mod hooks {
    #[proc_macro_attribute]
    pub fn timed(attr: TokenStream, item: TokenStream) -> TokenStream { item }
}
mod args { pub fn x() {} }

#[hooks::timed(args::x)]
fn handler() {}
`)
	// final segment of the attribute path names the attribute macro
	def := single(t, classifyAt(t, sema, "timed", 1), DefMacro)
	if got := sema.MacroKindOf(def.Macro); got != semantics.MacroAttr {
		t.Fatalf("expected attribute macro, got kind %d", got)
	}
	// qualifier segments resolve as modules only
	single(t, classifyAt(t, sema, "hooks", 1), DefModule)
	// paths in the argument tokens are not references
	if got := classifyAt(t, sema, "args", 1); got != nil {
		t.Fatalf("attribute arguments must classify to nothing, got %v", got)
	}
}

func TestClassifyBuiltinAttribute(t *testing.T) {
	sema := crateSema(t, `
#[inline]
fn hot() {}
`)
	if got := classifyAt(t, sema, "inline", 0); got != nil {
		t.Fatalf("builtin attribute must classify to nothing, got %v", got)
	}
}

func TestClassifyExternCrate(t *testing.T) {
	db := semantics.NewDB()
	t.Cleanup(db.Close)
	if err := db.AddCrate("other", []byte(`pub fn exported() {}`)); err != nil {
		t.Fatal(err)
	}
	if err := db.AddCrate("main", []byte(`extern crate other as dep;`)); err != nil {
		t.Fatal(err)
	}
	sema, _ := db.Semantics("main")

	ref := single(t, classifyAt(t, sema, "other", 0), DefModule)
	alias := single(t, classifyAt(t, sema, "dep", 0), DefModule)
	if ref != alias {
		t.Fatal("name and alias of an extern crate point at the same root")
	}
	if !db.IsCrateRoot(ref.Module) {
		t.Fatal("extern crate must resolve to a crate root")
	}
}

func TestDefinitionMetadata(t *testing.T) {
	sema := crateSema(t, `
mod db {
    pub mod sql {
        pub struct Stmt;
    }
}
`)
	def := single(t, classifyAt(t, sema, "Stmt", 0), DefAdt)
	d := sema.DB()

	name, ok := def.Name(d)
	if !ok || name != "Stmt" {
		t.Fatalf("name = %q, ok=%v", name, ok)
	}
	vis, ok := def.DeclaredVisibility(d)
	if !ok || vis != semantics.VisPublic {
		t.Fatalf("visibility = %v, ok=%v", vis, ok)
	}
	path, ok := def.CanonicalModulePath(d)
	if !ok || len(path) != 3 {
		t.Fatalf("module path length = %d, ok=%v", len(path), ok)
	}
	if d.ModuleName(path[1]) != "db" || d.ModuleName(path[2]) != "sql" {
		t.Fatal("module path must run root-first")
	}
	ns, ok := def.Namespace()
	if !ok || ns != NsTypes {
		t.Fatalf("namespace = %v, ok=%v", ns, ok)
	}
}

func TestCrateRootHasNoModulePath(t *testing.T) {
	sema := crateSema(t, `
mod inner {}
`)
	def := single(t, classifyAt(t, sema, "inner", 0), DefModule)
	d := sema.DB()

	path, ok := def.CanonicalModulePath(d)
	if !ok || len(path) != 1 || !d.IsCrateRoot(path[0]) {
		t.Fatalf("top-level module path length = %d, ok=%v", len(path), ok)
	}
	root, ok := def.ContainerModule(d)
	if !ok {
		t.Fatal("top-level module has no container")
	}
	if _, ok := ModuleDef(root).CanonicalModulePath(d); ok {
		t.Fatal("crate root must report no module path")
	}
}

func TestNameClassAccessors(t *testing.T) {
	sema := crateSema(t, `
const LIMIT: i32 = 5;
fn check(n: i32) {
    match n {
        LIMIT => {}
        other => { let _ = other; }
    }
}
`)
	name, ok := syntax.AsName(tokenIn(t, sema, "LIMIT", 1))
	if !ok {
		t.Fatal("pattern identifier is not a name occurrence")
	}
	nc, ok := ClassifyName(sema, name)
	if !ok || nc.Kind != NameConstReference {
		t.Fatalf("const pattern classified as %v, ok=%v", nc.Kind, ok)
	}
	if _, ok := nc.DefinedAt(); ok {
		t.Fatal("a const matched in pattern position is not a definition")
	}
	if got := nc.ReferencedOrDefined(); got.Kind != DefConst {
		t.Fatalf("expected const, got %s", got.Kind)
	}

	name, ok = syntax.AsName(tokenIn(t, sema, "other", 0))
	if !ok {
		t.Fatal("binding is not a name occurrence")
	}
	nc, ok = ClassifyName(sema, name)
	if !ok {
		t.Fatal("binding did not classify")
	}
	def, ok := nc.DefinedAt()
	if !ok || def.Kind != DefLocal {
		t.Fatalf("binding must define a local, got ok=%v", ok)
	}
	if nc.ReferencedOrDefined() != def {
		t.Fatal("a defining occurrence points at its own symbol")
	}
}

func TestClassifyAtMostTwoResults(t *testing.T) {
	sema := crateSema(t, `
struct Point { x: i32, y: i32 }
fn main(p: Point) {
    let x = 1;
    let q = Point { x, y: 2 };
    let Point { x, y } = q;
}
`)
	// scan every identifier-ish byte; nothing may classify to more than two
	src := sema.File().Source
	for off := 0; off < len(src); off++ {
		token := sema.File().TokenAt(uint(off))
		if token == nil {
			continue
		}
		if got := FromToken(sema, token); len(got) > 2 {
			t.Fatalf("offset %d: %d definitions", off, len(got))
		}
	}
}
