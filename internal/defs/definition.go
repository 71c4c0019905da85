// Package defs classifies name occurrences in Rust source. Every
// identifier is either the defining name of some symbol, a reference to
// one, or neither; the classifiers here decide which, and Definition is
// the sum of everything a name can point at.
package defs

import (
	"lodestar/internal/semantics"
)

// DefKind discriminates Definition.
type DefKind uint8

const (
	DefInvalid DefKind = iota
	DefMacro
	DefField
	DefModule
	DefFunction
	DefAdt
	DefVariant
	DefConst
	DefStatic
	DefTrait
	DefTypeAlias
	DefBuiltinType
	DefSelfType
	DefLocal
	DefGenericParam
	DefLabel
)

var defKindNames = [...]string{
	DefInvalid:      "invalid",
	DefMacro:        "macro",
	DefField:        "field",
	DefModule:       "module",
	DefFunction:     "function",
	DefAdt:          "adt",
	DefVariant:      "variant",
	DefConst:        "const",
	DefStatic:       "static",
	DefTrait:        "trait",
	DefTypeAlias:    "type_alias",
	DefBuiltinType:  "builtin_type",
	DefSelfType:     "self_type",
	DefLocal:        "local",
	DefGenericParam: "generic_param",
	DefLabel:        "label",
}

func (k DefKind) String() string {
	if int(k) < len(defKindNames) {
		return defKindNames[k]
	}
	return "invalid"
}

// Definition identifies one symbol of any kind. Only the handle selected
// by Kind is meaningful; the zero value is invalid. Definitions are
// comparable, so classifying the same occurrence twice yields equal
// values.
type Definition struct {
	Kind DefKind

	Macro        semantics.Macro
	Field        semantics.Field
	Module       semantics.Module
	Function     semantics.Function
	Adt          semantics.Adt
	Variant      semantics.Variant
	Const        semantics.Const
	Static       semantics.Static
	Trait        semantics.Trait
	TypeAlias    semantics.TypeAlias
	Builtin      semantics.BuiltinType
	SelfType     semantics.Impl
	Local        semantics.Local
	GenericParam semantics.GenericParam
	Label        semantics.Label
}

func MacroDef(m semantics.Macro) Definition       { return Definition{Kind: DefMacro, Macro: m} }
func FieldDef(f semantics.Field) Definition       { return Definition{Kind: DefField, Field: f} }
func ModuleDef(m semantics.Module) Definition     { return Definition{Kind: DefModule, Module: m} }
func FunctionDef(f semantics.Function) Definition { return Definition{Kind: DefFunction, Function: f} }
func AdtDef(a semantics.Adt) Definition           { return Definition{Kind: DefAdt, Adt: a} }
func VariantDef(v semantics.Variant) Definition   { return Definition{Kind: DefVariant, Variant: v} }
func ConstDef(c semantics.Const) Definition       { return Definition{Kind: DefConst, Const: c} }
func StaticDef(s semantics.Static) Definition     { return Definition{Kind: DefStatic, Static: s} }
func TraitDef(t semantics.Trait) Definition       { return Definition{Kind: DefTrait, Trait: t} }
func TypeAliasDef(t semantics.TypeAlias) Definition {
	return Definition{Kind: DefTypeAlias, TypeAlias: t}
}
func BuiltinTypeDef(b semantics.BuiltinType) Definition {
	return Definition{Kind: DefBuiltinType, Builtin: b}
}
func SelfTypeDef(i semantics.Impl) Definition { return Definition{Kind: DefSelfType, SelfType: i} }
func LocalDef(l semantics.Local) Definition   { return Definition{Kind: DefLocal, Local: l} }
func GenericParamDef(p semantics.GenericParam) Definition {
	return Definition{Kind: DefGenericParam, GenericParam: p}
}
func LabelDef(l semantics.Label) Definition { return Definition{Kind: DefLabel, Label: l} }

// FromResolution converts a path resolution into a Definition.
func FromResolution(res semantics.PathResolution) (Definition, bool) {
	switch r := res.(type) {
	case semantics.Module:
		return ModuleDef(r), true
	case semantics.Function:
		return FunctionDef(r), true
	case semantics.Adt:
		return AdtDef(r), true
	case semantics.Variant:
		return VariantDef(r), true
	case semantics.Const:
		return ConstDef(r), true
	case semantics.Static:
		return StaticDef(r), true
	case semantics.Trait:
		return TraitDef(r), true
	case semantics.TypeAlias:
		return TypeAliasDef(r), true
	case semantics.BuiltinType:
		return BuiltinTypeDef(r), true
	case semantics.Macro:
		return MacroDef(r), true
	case semantics.Local:
		return LocalDef(r), true
	case semantics.TypeParam:
		return GenericParamDef(semantics.FromTypeParam(r)), true
	case semantics.ConstParam:
		return GenericParamDef(semantics.FromConstParam(r)), true
	case semantics.Impl:
		return SelfTypeDef(r), true
	}
	return Definition{}, false
}

// ContainerModule returns the module a definition lives in. Crate roots
// and builtin types have none.
func (d Definition) ContainerModule(db *semantics.DB) (semantics.Module, bool) {
	switch d.Kind {
	case DefMacro:
		return db.MacroModule(d.Macro), true
	case DefField:
		return db.FieldModule(d.Field), true
	case DefModule:
		return db.ModuleParent(d.Module)
	case DefFunction:
		return db.FunctionModule(d.Function), true
	case DefAdt:
		return db.AdtModule(d.Adt), true
	case DefVariant:
		return db.VariantModule(d.Variant), true
	case DefConst:
		return db.ConstModule(d.Const), true
	case DefStatic:
		return db.StaticModule(d.Static), true
	case DefTrait:
		return db.TraitModule(d.Trait), true
	case DefTypeAlias:
		return db.TypeAliasModule(d.TypeAlias), true
	case DefSelfType:
		return db.ImplModule(d.SelfType), true
	case DefLocal:
		return db.LocalModule(d.Local), true
	case DefGenericParam:
		switch d.GenericParam.Kind {
		case semantics.GenericTypeParam:
			return db.TypeParamModule(d.GenericParam.TypeParam), true
		case semantics.GenericConstParam:
			return db.ConstParamModule(d.GenericParam.ConstParam), true
		case semantics.GenericLifetimeParam:
			return db.LifetimeParamModule(d.GenericParam.LifetimeParam), true
		}
	case DefLabel:
		return db.LabelModule(d.Label), true
	}
	return semantics.Module{}, false
}

// Name returns the symbol's declared name. Impl self types, crate root
// modules and unnamed constants have none.
func (d Definition) Name(db *semantics.DB) (string, bool) {
	switch d.Kind {
	case DefMacro:
		return db.MacroName(d.Macro), true
	case DefField:
		return db.FieldName(d.Field), true
	case DefModule:
		if db.IsCrateRoot(d.Module) {
			return "", false
		}
		return db.ModuleName(d.Module), true
	case DefFunction:
		return db.FunctionName(d.Function), true
	case DefAdt:
		return db.AdtName(d.Adt), true
	case DefVariant:
		return db.VariantName(d.Variant), true
	case DefConst:
		return db.ConstName(d.Const)
	case DefStatic:
		return db.StaticName(d.Static), true
	case DefTrait:
		return db.TraitName(d.Trait), true
	case DefTypeAlias:
		return db.TypeAliasNameOf(d.TypeAlias), true
	case DefBuiltinType:
		return d.Builtin.Name(), true
	case DefLocal:
		return db.LocalName(d.Local), true
	case DefGenericParam:
		switch d.GenericParam.Kind {
		case semantics.GenericTypeParam:
			return db.TypeParamName(d.GenericParam.TypeParam), true
		case semantics.GenericConstParam:
			return db.ConstParamName(d.GenericParam.ConstParam), true
		case semantics.GenericLifetimeParam:
			return db.LifetimeParamName(d.GenericParam.LifetimeParam), true
		}
	case DefLabel:
		return db.LabelName(d.Label), true
	}
	return "", false
}

// DeclaredVisibility returns the visibility written on the declaration.
// Only item-like definitions carry one; builtin types are always public.
func (d Definition) DeclaredVisibility(db *semantics.DB) (semantics.Visibility, bool) {
	switch d.Kind {
	case DefField:
		return db.FieldVisibility(d.Field), true
	case DefModule:
		if db.IsCrateRoot(d.Module) {
			return semantics.VisPublic, true
		}
		return db.ModuleVisibility(d.Module), true
	case DefFunction:
		return db.FunctionVisibility(d.Function), true
	case DefAdt:
		return db.AdtVisibility(d.Adt), true
	case DefVariant:
		return db.AdtVisibility(db.VariantEnum(d.Variant)), true
	case DefConst:
		return db.ConstVisibility(d.Const), true
	case DefStatic:
		return db.StaticVisibility(d.Static), true
	case DefTrait:
		return db.TraitVisibility(d.Trait), true
	case DefTypeAlias:
		return db.TypeAliasVisibility(d.TypeAlias), true
	case DefBuiltinType:
		return semantics.VisPublic, true
	}
	return semantics.VisPrivate, false
}

// CanonicalModulePath lists the modules from the crate root down to the
// one containing the definition. The definition's own module is not part
// of the path, so a crate root has none.
func (d Definition) CanonicalModulePath(db *semantics.DB) ([]semantics.Module, bool) {
	module, ok := d.ContainerModule(db)
	if !ok {
		return nil, false
	}
	return db.ModulePathToRoot(module), true
}

// Namespace places item-like definitions in the namespace an import of
// them would occupy. Locals, fields, labels and other non-items report
// false.
type Namespace uint8

const (
	NsTypes Namespace = iota
	NsValues
	NsMacros
)

func (d Definition) Namespace() (Namespace, bool) {
	switch d.Kind {
	case DefMacro:
		return NsMacros, true
	case DefModule, DefAdt, DefTrait, DefTypeAlias, DefBuiltinType:
		return NsTypes, true
	case DefFunction, DefConst, DefStatic, DefVariant:
		return NsValues, true
	}
	return 0, false
}
