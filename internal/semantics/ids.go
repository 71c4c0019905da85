// Package semantics is the reference implementation of the semantic query
// facade the classifier consumes: a database of resolved program facts built
// from parsed crates. Symbols are exposed as small opaque handles into the
// database's arenas; callers never see or own symbol data directly.
package semantics

// ID indexes into one of the database arenas.
type ID int32

// Handle types, one per symbol kind. They are cheap to copy, comparable,
// and only meaningful together with the DB that issued them.
type (
	Module        struct{ id ID }
	Function      struct{ id ID }
	Adt           struct{ id ID }
	Variant       struct{ id ID }
	Field         struct{ id ID }
	Const         struct{ id ID }
	Static        struct{ id ID }
	Trait         struct{ id ID }
	TypeAlias     struct{ id ID }
	Macro         struct{ id ID }
	Impl          struct{ id ID }
	Local         struct{ id ID }
	TypeParam     struct{ id ID }
	ConstParam    struct{ id ID }
	LifetimeParam struct{ id ID }
	Label         struct{ id ID }
	BuiltinType   struct{ idx int16 }
)

// AdtKind discriminates the aggregate flavors behind an Adt handle.
type AdtKind uint8

const (
	AdtStruct AdtKind = iota
	AdtUnion
	AdtEnum
)

// MacroKind mirrors the flavors of macro a path can resolve to.
type MacroKind uint8

const (
	MacroDeclarative MacroKind = iota
	MacroFnLike
	MacroDerive
	MacroAttr
)

// Visibility is the declared visibility of an item.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisPublic
	VisCrate
	VisSuper
	VisRestricted
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "pub"
	case VisCrate:
		return "pub(crate)"
	case VisSuper:
		return "pub(super)"
	case VisRestricted:
		return "pub(in ...)"
	default:
		return "private"
	}
}

// GenericParamKind discriminates GenericParam.
type GenericParamKind uint8

const (
	GenericTypeParam GenericParamKind = iota
	GenericConstParam
	GenericLifetimeParam
)

// GenericParam folds the three parameter flavors into one handle, the shape
// the classifier's Definition carries.
type GenericParam struct {
	Kind          GenericParamKind
	TypeParam     TypeParam
	ConstParam    ConstParam
	LifetimeParam LifetimeParam
}

func FromTypeParam(p TypeParam) GenericParam {
	return GenericParam{Kind: GenericTypeParam, TypeParam: p}
}

func FromConstParam(p ConstParam) GenericParam {
	return GenericParam{Kind: GenericConstParam, ConstParam: p}
}

func FromLifetimeParam(p LifetimeParam) GenericParam {
	return GenericParam{Kind: GenericLifetimeParam, LifetimeParam: p}
}

// PathResolution is the closed set of outcomes of resolving a path: a
// module-level definition, an associated item, a local, a generic
// parameter, a macro, or the Self type of an impl.
type PathResolution interface{ isPathResolution() }

func (Module) isPathResolution()      {}
func (Function) isPathResolution()    {}
func (Adt) isPathResolution()         {}
func (Variant) isPathResolution()     {}
func (Const) isPathResolution()       {}
func (Static) isPathResolution()      {}
func (Trait) isPathResolution()       {}
func (TypeAlias) isPathResolution()   {}
func (BuiltinType) isPathResolution() {}
func (Macro) isPathResolution()       {}
func (Local) isPathResolution()       {}
func (TypeParam) isPathResolution()   {}
func (ConstParam) isPathResolution()  {}
func (Impl) isPathResolution()        {}

// AssocItem is an item owned by a trait or impl.
type AssocItem interface{ isAssocItem() }

func (Function) isAssocItem()  {}
func (Const) isAssocItem()     {}
func (TypeAlias) isAssocItem() {}

// RecordField is the result of resolving a record-expression field: the
// field itself plus, for shorthand initializers, the same-named local read
// by the initializer.
type RecordField struct {
	Field    Field
	Local    Local
	HasLocal bool
}
