package defs

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"lodestar/internal/semantics"
	"lodestar/internal/syntax"
)

// NameRefClassKind discriminates NameRefClass.
type NameRefClassKind uint8

const (
	// NameRefDefinition: the reference points at one symbol.
	NameRefDefinition NameRefClassKind = iota
	// NameRefFieldShorthand: `Foo { field }` in an expression, which reads
	// a local and refers to the struct field.
	NameRefFieldShorthand
)

// NameRefClass is the classification of a referencing occurrence.
type NameRefClass struct {
	Kind NameRefClassKind

	// Def is set for NameRefDefinition.
	Def Definition

	// LocalRef and FieldRef are set for NameRefFieldShorthand.
	LocalRef semantics.Local
	FieldRef semantics.Field
}

func nameRefDef(d Definition) (NameRefClass, bool) {
	return NameRefClass{Kind: NameRefDefinition, Def: d}, true
}

// pathLeafKinds are the leaf kinds that can end a path.
var pathLeafKinds = map[string]bool{
	syntax.KindIdentifier:     true,
	syntax.KindTypeIdentifier: true,
	syntax.KindPrimitiveType:  true,
	syntax.KindSelf:           true,
	syntax.KindSuper:          true,
	syntax.KindCrate:          true,
}

// ClassifyNameRef classifies a referencing occurrence. The cases are
// ordered from most to least specific syntactic context; the first one
// whose shape matches decides.
func ClassifyNameRef(sema *semantics.Semantics, ref syntax.NameRef) (NameRefClass, bool) {
	node := ref.Node
	parent := node.Parent()
	if parent == nil {
		return NameRefClass{}, false
	}

	// receiver.method(...)
	if parent.Kind() == syntax.KindFieldExpr && syntax.IsField(parent, node, syntax.FieldField) {
		if isMethodCallee(parent) {
			if fn, ok := sema.ResolveMethodCall(node); ok {
				return nameRefDef(FunctionDef(fn))
			}
			// an unresolved method may still be a field holding a callable
		}
		if field, ok := sema.ResolveFieldAccess(node); ok {
			return nameRefDef(FieldDef(field))
		}
		return NameRefClass{}, false
	}

	// record literal fields, shorthand or spelled out
	if parent.Kind() == syntax.KindShorthandInit ||
		(parent.Kind() == syntax.KindFieldInit && syntax.IsField(parent, node, syntax.FieldField)) {
		rf, ok := sema.ResolveRecordField(node)
		if !ok {
			return NameRefClass{}, false
		}
		if rf.HasLocal {
			return NameRefClass{Kind: NameRefFieldShorthand, LocalRef: rf.Local, FieldRef: rf.Field}, true
		}
		return nameRefDef(FieldDef(rf.Field))
	}

	// `field: pat` in a record pattern
	if parent.Kind() == syntax.KindFieldPattern && node.Kind() == syntax.KindFieldIdentifier &&
		syntax.IsField(parent, node, syntax.FieldName) {
		if field, ok := sema.ResolveRecordPatField(node); ok {
			return nameRefDef(FieldDef(field))
		}
		return NameRefClass{}, false
	}

	// `Item = T` associated type bindings
	if parent.Kind() == syntax.KindTypeBinding && syntax.IsField(parent, node, syntax.FieldName) {
		return classifyAssocTypeBinding(sema, node, parent)
	}

	if pathLeafKinds[node.Kind()] && parent.Kind() != syntax.KindExternCrateDecl {
		return classifyPath(sema, node)
	}

	if parent.Kind() == syntax.KindExternCrateDecl && syntax.IsField(parent, node, syntax.FieldName) {
		if m, ok := sema.ResolveExternCrate(parent); ok {
			return nameRefDef(ModuleDef(m))
		}
	}
	return NameRefClass{}, false
}

func isMethodCallee(fieldExpr *sitter.Node) bool {
	call := fieldExpr.Parent()
	return call != nil && call.Kind() == syntax.KindCallExpr &&
		syntax.IsField(call, fieldExpr, syntax.FieldFunction)
}

// classifyAssocTypeBinding resolves the name of `Trait<Name = T>` against
// the trait's associated types.
func classifyAssocTypeBinding(sema *semantics.Semantics, node, binding *sitter.Node) (NameRefClass, bool) {
	args := binding.Parent()
	if args == nil || args.Kind() != syntax.KindTypeArguments {
		return NameRefClass{}, false
	}
	generic := args.Parent()
	if generic == nil || generic.Kind() != syntax.KindGenericType {
		return NameRefClass{}, false
	}
	traitPath := generic.ChildByFieldName(syntax.FieldType)
	if traitPath == nil {
		return NameRefClass{}, false
	}
	res, ok := sema.ResolvePath(syntax.LastPathSegment(traitPath))
	if !ok {
		return NameRefClass{}, false
	}
	trait, ok := res.(semantics.Trait)
	if !ok {
		return NameRefClass{}, false
	}
	want := sema.File().Text(node)
	for _, item := range sema.TraitItems(trait) {
		ta, ok := item.(semantics.TypeAlias)
		if !ok || sema.TypeAliasName(ta) != want {
			continue
		}
		return nameRefDef(TypeAliasDef(ta))
	}
	return NameRefClass{}, false
}

// classifyPath classifies a path segment. Paths inside attributes get
// special treatment: the attribute's own path may name an attribute
// macro, while paths in its argument tokens mean nothing by themselves.
func classifyPath(sema *semantics.Semantics, node *sitter.Node) (NameRefClass, bool) {
	// the path ending at this segment
	sub := node
	if parent := node.Parent(); parent != nil && syntax.IsPathKind(parent.Kind()) &&
		syntax.IsField(parent, node, syntax.FieldName) {
		sub = parent
	}

	// macro calls resolve in the macro namespace first
	if mp := sub.Parent(); mp != nil && mp.Kind() == syntax.KindMacroInvocation &&
		syntax.IsField(mp, sub, syntax.FieldMacro) {
		if m, ok := sema.ResolveMacroCall(sub); ok {
			return nameRefDef(MacroDef(m))
		}
	}

	// the outermost path this segment is part of
	top := sub
	for {
		parent := top.Parent()
		if parent == nil || !syntax.IsPathKind(parent.Kind()) {
			break
		}
		top = parent
	}

	if attr := syntax.AncestorOfKind(node, syntax.KindAttribute); attr != nil {
		return classifyAttrPath(sema, node, sub, top, attr)
	}

	res, ok := sema.ResolvePath(sub)
	if !ok {
		return NameRefClass{}, false
	}
	def, ok := FromResolution(res)
	if !ok {
		return NameRefClass{}, false
	}
	return nameRefDef(def)
}

func classifyAttrPath(sema *semantics.Semantics, node, sub, top, attr *sitter.Node) (NameRefClass, bool) {
	attrPath := syntax.AttributePath(attr)
	if attrPath == nil || !syntax.SameNode(top, attrPath) {
		// part of the attribute's arguments or value: not a reference
		return NameRefClass{}, false
	}
	if syntax.SameNode(sub, top) {
		// final segment of the attribute path: an attribute macro, or
		// nothing at all for builtin attributes
		if m, ok := sema.ResolvePathAsMacro(sub); ok && sema.MacroKindOf(m) == semantics.MacroAttr {
			return nameRefDef(MacroDef(m))
		}
		return NameRefClass{}, false
	}
	// qualifier segments resolve as modules only
	res, ok := sema.ResolvePath(sub)
	if !ok {
		return NameRefClass{}, false
	}
	if m, ok := res.(semantics.Module); ok {
		return nameRefDef(ModuleDef(m))
	}
	return NameRefClass{}, false
}

// ClassifyLifetimeRef classifies a lifetime or label occurrence in
// referencing position. Lifetimes resolve only in the handful of places
// the language actually reads them.
func ClassifyLifetimeRef(sema *semantics.Semantics, lt syntax.Lifetime) (NameRefClass, bool) {
	node := lt.Node
	parent := node.Parent()
	if parent == nil {
		return NameRefClass{}, false
	}
	switch parent.Kind() {
	case syntax.KindBreakExpr, syntax.KindContinueExpr:
		if l, ok := sema.ResolveLabel(node); ok {
			return nameRefDef(LabelDef(l))
		}
	case syntax.KindTypeArguments, syntax.KindSelfParameter, syntax.KindTraitBounds,
		syntax.KindWherePredicate, syntax.KindReferenceType, syntax.KindBoundedType:
		// trait_bounds also covers lifetime bounds in `<'a: 'b>`
		if p, ok := sema.ResolveLifetimeParam(node); ok {
			return nameRefDef(GenericParamDef(semantics.FromLifetimeParam(p)))
		}
	}
	return NameRefClass{}, false
}
