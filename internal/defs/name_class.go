package defs

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"lodestar/internal/semantics"
	"lodestar/internal/syntax"
)

// NameClassKind discriminates NameClass.
type NameClassKind uint8

const (
	// NameDefinition: the name defines the symbol outright.
	NameDefinition NameClassKind = iota
	// NameConstReference: the name sits in pattern position but matches an
	// existing constant or unit variant instead of binding.
	NameConstReference
	// NamePatFieldShorthand: `Foo { field }` in a pattern, which both binds
	// a local and refers to the struct field.
	NamePatFieldShorthand
)

// NameClass is the classification of a defining occurrence.
type NameClass struct {
	Kind NameClassKind

	// Def is set for NameDefinition and NameConstReference.
	Def Definition

	// LocalDef and FieldRef are set for NamePatFieldShorthand.
	LocalDef semantics.Local
	FieldRef semantics.Field
}

// DefinedAt returns the symbol this occurrence defines, if it defines
// one. Const references define nothing.
func (nc NameClass) DefinedAt() (Definition, bool) {
	switch nc.Kind {
	case NameDefinition:
		return nc.Def, true
	case NamePatFieldShorthand:
		return LocalDef(nc.LocalDef), true
	}
	return Definition{}, false
}

// ReferencedOrDefined returns the symbol the occurrence points at,
// whether by defining or referencing it.
func (nc NameClass) ReferencedOrDefined() Definition {
	switch nc.Kind {
	case NamePatFieldShorthand:
		return LocalDef(nc.LocalDef)
	default:
		return nc.Def
	}
}

func nameClassDef(d Definition) (NameClass, bool) {
	return NameClass{Kind: NameDefinition, Def: d}, true
}

// ClassifyName classifies a defining occurrence.
func ClassifyName(sema *semantics.Semantics, name syntax.Name) (NameClass, bool) {
	node := name.Node
	parent := node.Parent()
	if parent == nil {
		return NameClass{}, false
	}

	switch node.Kind() {
	case syntax.KindSelf:
		if local, ok := sema.LocalForSelfParam(parent); ok {
			return nameClassDef(LocalDef(local))
		}
		return NameClass{}, false

	case syntax.KindShorthandFieldIdent:
		// pattern shorthand: a const of the same name wins over binding
		if res, ok := sema.ResolveBindingAsConst(node); ok {
			if def, ok := FromResolution(res); ok {
				return NameClass{Kind: NameConstReference, Def: def}, true
			}
		}
		local, ok := sema.LocalForBinding(node)
		if !ok {
			return NameClass{}, false
		}
		if field, ok := sema.ResolveRecordPatField(node); ok {
			return NameClass{Kind: NamePatFieldShorthand, LocalDef: local, FieldRef: field}, true
		}
		return nameClassDef(LocalDef(local))
	}

	if syntax.IsBindingPattern(node) {
		if res, ok := sema.ResolveBindingAsConst(node); ok {
			if def, ok := FromResolution(res); ok {
				return NameClass{Kind: NameConstReference, Def: def}, true
			}
		}
		if local, ok := sema.LocalForBinding(node); ok {
			return nameClassDef(LocalDef(local))
		}
		return NameClass{}, false
	}

	switch parent.Kind() {
	case syntax.KindModItem:
		if m, ok := sema.ModuleForDeclaration(parent); ok {
			return nameClassDef(ModuleDef(m))
		}
	case syntax.KindFunctionItem, syntax.KindFunctionSignature:
		if f, ok := sema.FunctionForDeclaration(parent); ok {
			return nameClassDef(FunctionDef(f))
		}
	case syntax.KindStructItem, syntax.KindUnionItem, syntax.KindEnumItem:
		if a, ok := sema.AdtForDeclaration(parent); ok {
			return nameClassDef(AdtDef(a))
		}
	case syntax.KindEnumVariant:
		if v, ok := sema.VariantForDeclaration(parent); ok {
			return nameClassDef(VariantDef(v))
		}
	case syntax.KindFieldDecl:
		if f, ok := sema.FieldForDeclaration(parent); ok {
			return nameClassDef(FieldDef(f))
		}
	case syntax.KindTraitItem:
		if t, ok := sema.TraitForDeclaration(parent); ok {
			return nameClassDef(TraitDef(t))
		}
	case syntax.KindConstItem:
		if c, ok := sema.ConstForDeclaration(parent); ok {
			return nameClassDef(ConstDef(c))
		}
	case syntax.KindStaticItem:
		if st, ok := sema.StaticForDeclaration(parent); ok {
			return nameClassDef(StaticDef(st))
		}
	case syntax.KindTypeItem, syntax.KindAssociatedType:
		if ta, ok := sema.TypeAliasForDeclaration(parent); ok {
			return nameClassDef(TypeAliasDef(ta))
		}
	case syntax.KindMacroDefinition:
		if m, ok := sema.MacroForDeclaration(parent); ok {
			return nameClassDef(MacroDef(m))
		}
	case syntax.KindConstParameter:
		if p, ok := sema.ConstParamForDeclaration(parent); ok {
			return nameClassDef(GenericParamDef(semantics.FromConstParam(p)))
		}
	case syntax.KindTypeParameter:
		if p, ok := sema.TypeParamForDeclaration(node); ok {
			return nameClassDef(GenericParamDef(semantics.FromTypeParam(p)))
		}
	case syntax.KindUseAsClause:
		return classifyRename(sema, parent)
	case syntax.KindExternCrateDecl:
		if m, ok := sema.ResolveExternCrate(parent); ok {
			return nameClassDef(ModuleDef(m))
		}
	}
	return NameClass{}, false
}

// classifyRename classifies the alias of `use path as alias`: the alias
// names whatever the renamed path segment resolves to. A `self as x`
// rename points at the parent of the enclosing use list.
func classifyRename(sema *semantics.Semantics, useAs *sitter.Node) (NameClass, bool) {
	path := useAs.ChildByFieldName(syntax.FieldPath)
	if path == nil {
		return NameClass{}, false
	}
	seg := syntax.LastPathSegment(path)
	if seg.Kind() == syntax.KindSelf {
		// use foo::bar::{self as baz} renames bar
		if outer := renameSelfTarget(useAs); outer != nil {
			seg = outer
		}
	}
	nrc, ok := ClassifyNameRef(sema, syntax.NameRef{Node: seg})
	if !ok {
		return NameClass{}, false
	}
	switch nrc.Kind {
	case NameRefFieldShorthand:
		return nameClassDef(FieldDef(nrc.FieldRef))
	default:
		return nameClassDef(nrc.Def)
	}
}

func renameSelfTarget(useAs *sitter.Node) *sitter.Node {
	list := useAs.Parent()
	if list == nil || list.Kind() != syntax.KindUseList {
		return nil
	}
	scoped := list.Parent()
	if scoped == nil || scoped.Kind() != syntax.KindScopedUseList {
		return nil
	}
	path := scoped.ChildByFieldName(syntax.FieldPath)
	if path == nil {
		return nil
	}
	return syntax.LastPathSegment(path)
}

// ClassifyLifetimeName classifies a lifetime or label occurrence in
// defining position.
func ClassifyLifetimeName(sema *semantics.Semantics, lt syntax.Lifetime) (NameClass, bool) {
	node := lt.Node
	parent := node.Parent()
	if parent == nil {
		return NameClass{}, false
	}
	switch parent.Kind() {
	case syntax.KindLifetimeParameter, syntax.KindForLifetimes:
		if p, ok := sema.LifetimeParamForDeclaration(node); ok {
			return nameClassDef(GenericParamDef(semantics.FromLifetimeParam(p)))
		}
	case syntax.KindLoopExpr, syntax.KindWhileExpr, syntax.KindForExpr, syntax.KindBlock:
		if node.Kind() != syntax.KindLabel {
			return NameClass{}, false
		}
		if l, ok := sema.LabelForDeclaration(node); ok {
			return nameClassDef(LabelDef(l))
		}
	}
	return NameClass{}, false
}
