package semantics

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"lodestar/internal/syntax"
)

// Semantics answers symbol questions about one crate of a DB. The zero
// value is not usable; obtain one from DB.Semantics.
type Semantics struct {
	db    *DB
	crate int32
	file  *syntax.File
}

// File returns the parsed source backing this crate.
func (s *Semantics) File() *syntax.File { return s.file }

// DB exposes the database for metadata queries on resolved handles.
func (s *Semantics) DB() *DB { return s.db }

func (s *Semantics) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return s.file.Text(node)
}

func (s *Semantics) declared(node *sitter.Node, kind symKind) (ID, bool) {
	sr, ok := s.db.lookupDef(s.crate, node)
	if !ok || sr.kind != kind {
		return 0, false
	}
	return sr.id, true
}

// LocalForBinding resolves a binding identifier in a pattern to its local.
func (s *Semantics) LocalForBinding(ident *sitter.Node) (Local, bool) {
	id, ok := s.declared(ident, symLocal)
	return Local{id: id}, ok
}

// LocalForSelfParam resolves a self parameter to the local it introduces.
func (s *Semantics) LocalForSelfParam(param *sitter.Node) (Local, bool) {
	id, ok := s.declared(param, symLocal)
	return Local{id: id}, ok
}

func (s *Semantics) ModuleForDeclaration(item *sitter.Node) (Module, bool) {
	id, ok := s.declared(item, symModule)
	return Module{id: id}, ok
}

func (s *Semantics) FunctionForDeclaration(item *sitter.Node) (Function, bool) {
	id, ok := s.declared(item, symFunction)
	return Function{id: id}, ok
}

// AdtForDeclaration resolves a struct, union or enum item.
func (s *Semantics) AdtForDeclaration(item *sitter.Node) (Adt, bool) {
	id, ok := s.declared(item, symAdt)
	return Adt{id: id}, ok
}

func (s *Semantics) VariantForDeclaration(item *sitter.Node) (Variant, bool) {
	id, ok := s.declared(item, symVariant)
	return Variant{id: id}, ok
}

func (s *Semantics) FieldForDeclaration(decl *sitter.Node) (Field, bool) {
	id, ok := s.declared(decl, symField)
	return Field{id: id}, ok
}

func (s *Semantics) TraitForDeclaration(item *sitter.Node) (Trait, bool) {
	id, ok := s.declared(item, symTrait)
	return Trait{id: id}, ok
}

func (s *Semantics) ConstForDeclaration(item *sitter.Node) (Const, bool) {
	id, ok := s.declared(item, symConst)
	return Const{id: id}, ok
}

func (s *Semantics) StaticForDeclaration(item *sitter.Node) (Static, bool) {
	id, ok := s.declared(item, symStatic)
	return Static{id: id}, ok
}

func (s *Semantics) TypeAliasForDeclaration(item *sitter.Node) (TypeAlias, bool) {
	id, ok := s.declared(item, symTypeAlias)
	return TypeAlias{id: id}, ok
}

func (s *Semantics) MacroForDeclaration(item *sitter.Node) (Macro, bool) {
	id, ok := s.declared(item, symMacro)
	return Macro{id: id}, ok
}

// TypeParamForDeclaration resolves the declaring name of a type parameter.
func (s *Semantics) TypeParamForDeclaration(nameNode *sitter.Node) (TypeParam, bool) {
	id, ok := s.declared(nameNode, symTypeParam)
	return TypeParam{id: id}, ok
}

func (s *Semantics) ConstParamForDeclaration(param *sitter.Node) (ConstParam, bool) {
	id, ok := s.declared(param, symConstParam)
	return ConstParam{id: id}, ok
}

func (s *Semantics) LifetimeParamForDeclaration(lifetime *sitter.Node) (LifetimeParam, bool) {
	id, ok := s.declared(lifetime, symLifetimeParam)
	return LifetimeParam{id: id}, ok
}

func (s *Semantics) LabelForDeclaration(label *sitter.Node) (Label, bool) {
	id, ok := s.declared(label, symLabel)
	return Label{id: id}, ok
}

// MacroKindOf reports what flavor of macro a handle is.
func (s *Semantics) MacroKindOf(m Macro) MacroKind {
	return s.db.macros[m.id].kind
}

// TraitItems lists the associated items declared by a trait.
func (s *Semantics) TraitItems(t Trait) []AssocItem {
	return s.db.traits[t.id].items
}

// TypeAliasName returns the declared name of a type alias.
func (s *Semantics) TypeAliasName(ta TypeAlias) string {
	return s.db.aliases[ta.id].name
}
