package semantics

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"lodestar/internal/syntax"
)

// analyzer builds the arenas for one crate in a single pass over its tree.
// Name resolution happens later, at query time, against the finished arenas.
type analyzer struct {
	db    *DB
	crate int32
	file  *syntax.File
}

func (a *analyzer) text(node *sitter.Node) string {
	return a.file.Text(node)
}

func (a *analyzer) ref(node *sitter.Node) nodeRef {
	return a.db.ref(a.crate, node)
}

func (a *analyzer) define(node *sitter.Node, kind symKind, id ID) {
	a.db.defs[a.ref(node)] = symbolRef{kind: kind, id: id}
}

func (a *analyzer) newModule(name string, parent ID, vis Visibility, node *sitter.Node) ID {
	id := ID(len(a.db.modules))
	a.db.modules = append(a.db.modules, moduleData{
		name:    name,
		crate:   a.crate,
		parent:  parent,
		vis:     vis,
		node:    a.ref(node),
		types:   make(map[string]symbolRef),
		values:  make(map[string]symbolRef),
		macros:  make(map[string]symbolRef),
		externs: make(map[string]string),
	})
	if node.Kind() == syntax.KindModItem {
		a.define(node, symModule, id)
	}
	return id
}

func (a *analyzer) itemVisibility(item *sitter.Node) Visibility {
	vis := syntax.ChildOfKind(item, syntax.KindVisibilityMod)
	if vis == nil {
		return VisPrivate
	}
	return parseVisibility(a.text(vis))
}

func parseVisibility(text string) Visibility {
	text = strings.Join(strings.Fields(text), "")
	switch {
	case text == "pub":
		return VisPublic
	case text == "pub(crate)":
		return VisCrate
	case text == "pub(super)":
		return VisSuper
	case strings.HasPrefix(text, "pub("):
		return VisRestricted
	default:
		return VisPrivate
	}
}

// normalizeTypeName reduces a type annotation to the bare name the resolver
// can look up: references and generic arguments are stripped, scoped paths
// keep their final segment.
func normalizeTypeName(text string) string {
	text = strings.TrimSpace(text)
	for {
		switch {
		case strings.HasPrefix(text, "&"):
			text = strings.TrimSpace(text[1:])
		case strings.HasPrefix(text, "mut "):
			text = strings.TrimSpace(text[4:])
		case strings.HasPrefix(text, "'"):
			if i := strings.IndexAny(text, " \t\n"); i >= 0 {
				text = strings.TrimSpace(text[i:])
			} else {
				return ""
			}
		default:
			if i := strings.Index(text, "<"); i >= 0 {
				text = text[:i]
			}
			if i := strings.LastIndex(text, "::"); i >= 0 {
				text = text[i+2:]
			}
			return strings.TrimSpace(text)
		}
	}
}

// collectItems walks the named children of a source file, declaration list
// or similar container, registering each item.
func (a *analyzer) collectItems(container *sitter.Node, module ID, own owner) {
	var pendingAttrs []*sitter.Node
	for _, child := range syntax.NamedChildren(container) {
		switch child.Kind() {
		case syntax.KindAttributeItem:
			pendingAttrs = append(pendingAttrs, child)
			continue
		case syntax.KindInnerAttributeItem:
			continue
		}
		a.collectItem(child, module, own, pendingAttrs)
		pendingAttrs = nil
	}
}

func (a *analyzer) collectItem(item *sitter.Node, module ID, own owner, attrs []*sitter.Node) {
	switch item.Kind() {
	case syntax.KindModItem:
		a.collectModule(item, module)
	case syntax.KindFunctionItem, syntax.KindFunctionSignature:
		a.collectFunction(item, module, own, attrs)
	case syntax.KindStructItem:
		a.collectAdt(item, module, AdtStruct)
	case syntax.KindUnionItem:
		a.collectAdt(item, module, AdtUnion)
	case syntax.KindEnumItem:
		a.collectEnum(item, module)
	case syntax.KindTraitItem:
		a.collectTrait(item, module)
	case syntax.KindImplItem:
		a.collectImpl(item, module)
	case syntax.KindConstItem:
		a.collectConst(item, module, own)
	case syntax.KindStaticItem:
		a.collectStatic(item, module)
	case syntax.KindTypeItem, syntax.KindAssociatedType:
		a.collectTypeAlias(item, module, own)
	case syntax.KindMacroDefinition:
		a.collectMacroDefinition(item, module)
	case syntax.KindUseDeclaration:
		a.collectUse(item, module)
	case syntax.KindExternCrateDecl:
		a.collectExternCrate(item, module)
	}
}

func (a *analyzer) collectModule(item *sitter.Node, parent ID) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	id := a.newModule(name, parent, a.itemVisibility(item), item)
	a.db.modules[parent].types[name] = symbolRef{kind: symModule, id: id}
	if body := item.ChildByFieldName(syntax.FieldBody); body != nil {
		a.collectItems(body, id, owner{kind: ownerModule})
	}
}

func (a *analyzer) collectFunction(item *sitter.Node, module ID, own owner, attrs []*sitter.Node) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	id := ID(len(a.db.functions))
	a.db.functions = append(a.db.functions, functionData{
		name:   name,
		module: module,
		vis:    a.itemVisibility(item),
		node:   a.ref(item),
		owner:  own,
	})
	a.define(item, symFunction, id)

	switch own.kind {
	case ownerModule:
		a.db.modules[module].values[name] = symbolRef{kind: symFunction, id: id}
		a.registerProcMacro(name, module, attrs)
	case ownerTrait:
		td := &a.db.traits[own.trait.id]
		td.items = append(td.items, Function{id: id})
	case ownerImpl:
		idp := &a.db.impls[own.impl.id]
		idp.methods = append(idp.methods, id)
	}

	a.collectGenericParams(item, module)
	selfType := ""
	if own.kind == ownerImpl {
		selfType = a.db.impls[own.impl.id].typeName
	}
	a.collectBody(item, module, selfType)
}

// registerProcMacro turns #[proc_macro*] annotations on a function into
// macro definitions in the module's macro namespace.
func (a *analyzer) registerProcMacro(fnName string, module ID, attrs []*sitter.Node) {
	for _, attrItem := range attrs {
		attr := syntax.ChildOfKind(attrItem, syntax.KindAttribute)
		if attr == nil {
			continue
		}
		path := a.text(syntax.AttributePath(attr))
		name := fnName
		var kind MacroKind
		switch path {
		case "proc_macro":
			kind = MacroFnLike
		case "proc_macro_attribute":
			kind = MacroAttr
		case "proc_macro_derive":
			kind = MacroDerive
			args := attr.ChildByFieldName(syntax.FieldArguments)
			if args == nil {
				continue
			}
			ident := syntax.ChildOfKind(args, syntax.KindIdentifier)
			if ident == nil {
				continue
			}
			name = a.text(ident)
		default:
			continue
		}
		id := ID(len(a.db.macros))
		a.db.macros = append(a.db.macros, macroData{name: name, kind: kind, module: module})
		a.db.modules[module].macros[name] = symbolRef{kind: symMacro, id: id}
	}
}

func (a *analyzer) collectAdt(item *sitter.Node, module ID, kind AdtKind) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	id := ID(len(a.db.adts))
	a.db.adts = append(a.db.adts, adtData{
		kind:   kind,
		name:   name,
		module: module,
		vis:    a.itemVisibility(item),
		node:   a.ref(item),
	})
	a.define(item, symAdt, id)
	a.db.modules[module].types[name] = symbolRef{kind: symAdt, id: id}

	if body := item.ChildByFieldName(syntax.FieldBody); body != nil && body.Kind() == syntax.KindFieldDeclList {
		a.collectFields(body, id, -1)
	}
	a.collectGenericParams(item, module)
}

func (a *analyzer) collectFields(list *sitter.Node, adt ID, variant ID) {
	for _, decl := range syntax.NamedChildren(list) {
		if decl.Kind() != syntax.KindFieldDecl {
			continue
		}
		name := a.text(decl.ChildByFieldName(syntax.FieldName))
		if name == "" {
			continue
		}
		id := ID(len(a.db.fields))
		a.db.fields = append(a.db.fields, fieldData{
			name:     name,
			adt:      adt,
			variant:  variant,
			vis:      a.itemVisibility(decl),
			node:     a.ref(decl),
			typeName: normalizeTypeName(a.text(decl.ChildByFieldName(syntax.FieldType))),
		})
		a.define(decl, symField, id)
	}
}

func (a *analyzer) collectEnum(item *sitter.Node, module ID) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	id := ID(len(a.db.adts))
	a.db.adts = append(a.db.adts, adtData{
		kind:   AdtEnum,
		name:   name,
		module: module,
		vis:    a.itemVisibility(item),
		node:   a.ref(item),
	})
	a.define(item, symAdt, id)
	a.db.modules[module].types[name] = symbolRef{kind: symAdt, id: id}

	if body := item.ChildByFieldName(syntax.FieldBody); body != nil {
		for _, variant := range syntax.NamedChildren(body) {
			if variant.Kind() != syntax.KindEnumVariant {
				continue
			}
			vname := a.text(variant.ChildByFieldName(syntax.FieldName))
			if vname == "" {
				continue
			}
			vid := ID(len(a.db.variants))
			vbody := variant.ChildByFieldName(syntax.FieldBody)
			a.db.variants = append(a.db.variants, variantData{
				name: vname,
				enum: id,
				node: a.ref(variant),
				unit: vbody == nil,
			})
			a.define(variant, symVariant, vid)
			if vbody != nil && vbody.Kind() == syntax.KindFieldDeclList {
				a.collectFields(vbody, id, vid)
			}
		}
	}
	a.collectGenericParams(item, module)
}

func (a *analyzer) collectTrait(item *sitter.Node, module ID) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	id := ID(len(a.db.traits))
	a.db.traits = append(a.db.traits, traitData{
		name:   name,
		module: module,
		vis:    a.itemVisibility(item),
		node:   a.ref(item),
	})
	a.define(item, symTrait, id)
	a.db.modules[module].types[name] = symbolRef{kind: symTrait, id: id}
	a.collectGenericParams(item, module)
	if body := item.ChildByFieldName(syntax.FieldBody); body != nil {
		a.collectItems(body, module, owner{kind: ownerTrait, trait: Trait{id: id}})
	}
}

func (a *analyzer) collectImpl(item *sitter.Node, module ID) {
	id := ID(len(a.db.impls))
	a.db.impls = append(a.db.impls, implData{
		module:   module,
		node:     a.ref(item),
		typeName: normalizeTypeName(a.text(item.ChildByFieldName(syntax.FieldType))),
	})
	a.define(item, symImpl, id)
	a.collectGenericParams(item, module)
	if body := item.ChildByFieldName(syntax.FieldBody); body != nil {
		a.collectItems(body, module, owner{kind: ownerImpl, impl: Impl{id: id}})
	}
}

func (a *analyzer) collectConst(item *sitter.Node, module ID, own owner) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	id := ID(len(a.db.consts))
	a.db.consts = append(a.db.consts, constData{
		name:   name,
		module: module,
		vis:    a.itemVisibility(item),
		node:   a.ref(item),
		owner:  own,
	})
	a.define(item, symConst, id)
	switch own.kind {
	case ownerModule:
		if name != "" && name != "_" {
			a.db.modules[module].values[name] = symbolRef{kind: symConst, id: id}
		}
	case ownerTrait:
		td := &a.db.traits[own.trait.id]
		td.items = append(td.items, Const{id: id})
	case ownerImpl:
		idp := &a.db.impls[own.impl.id]
		idp.consts = append(idp.consts, id)
	}
}

func (a *analyzer) collectStatic(item *sitter.Node, module ID) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	id := ID(len(a.db.statics))
	a.db.statics = append(a.db.statics, staticData{
		name:   name,
		module: module,
		vis:    a.itemVisibility(item),
		node:   a.ref(item),
	})
	a.define(item, symStatic, id)
	a.db.modules[module].values[name] = symbolRef{kind: symStatic, id: id}
}

func (a *analyzer) collectTypeAlias(item *sitter.Node, module ID, own owner) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	id := ID(len(a.db.aliases))
	a.db.aliases = append(a.db.aliases, typeAliasData{
		name:   name,
		module: module,
		vis:    a.itemVisibility(item),
		node:   a.ref(item),
		owner:  own,
	})
	a.define(item, symTypeAlias, id)
	switch own.kind {
	case ownerModule:
		a.db.modules[module].types[name] = symbolRef{kind: symTypeAlias, id: id}
	case ownerTrait:
		td := &a.db.traits[own.trait.id]
		td.items = append(td.items, TypeAlias{id: id})
	case ownerImpl:
		idp := &a.db.impls[own.impl.id]
		idp.aliases = append(idp.aliases, id)
	}
	a.collectGenericParams(item, module)
}

func (a *analyzer) collectMacroDefinition(item *sitter.Node, module ID) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	id := ID(len(a.db.macros))
	a.db.macros = append(a.db.macros, macroData{
		name:   name,
		kind:   MacroDeclarative,
		module: module,
		node:   a.ref(item),
	})
	a.define(item, symMacro, id)
	a.db.modules[module].macros[name] = symbolRef{kind: symMacro, id: id}
}

func (a *analyzer) collectExternCrate(item *sitter.Node, module ID) {
	name := a.text(item.ChildByFieldName(syntax.FieldName))
	if name == "" {
		return
	}
	local := name
	if alias := item.ChildByFieldName(syntax.FieldAlias); alias != nil {
		local = a.text(alias)
	}
	a.db.modules[module].externs[local] = name
}

// collectUse flattens a use declaration into per-name imports.
func (a *analyzer) collectUse(item *sitter.Node, module ID) {
	for _, child := range syntax.NamedChildren(item) {
		if child.Kind() == syntax.KindVisibilityMod {
			continue
		}
		a.flattenUse(child, nil, module)
	}
}

func (a *analyzer) flattenUse(node *sitter.Node, prefix []string, module ID) {
	switch node.Kind() {
	case syntax.KindUseAsClause:
		segs := append(append([]string(nil), prefix...), a.pathSegments(node.ChildByFieldName(syntax.FieldPath))...)
		alias := a.text(node.ChildByFieldName(syntax.FieldAlias))
		if len(segs) > 0 && segs[len(segs)-1] == "self" {
			segs = segs[:len(segs)-1]
		}
		if len(segs) == 0 || alias == "" {
			return
		}
		a.addUse(module, alias, segs)
	case syntax.KindScopedUseList:
		next := prefix
		if path := node.ChildByFieldName(syntax.FieldPath); path != nil {
			next = append(append([]string(nil), prefix...), a.pathSegments(path)...)
		}
		if list := syntax.ChildOfKind(node, syntax.KindUseList); list != nil {
			for _, entry := range syntax.NamedChildren(list) {
				a.flattenUse(entry, next, module)
			}
		}
	case syntax.KindUseList:
		for _, entry := range syntax.NamedChildren(node) {
			a.flattenUse(entry, prefix, module)
		}
	case syntax.KindUseWildcard:
		segs := prefix
		for _, child := range syntax.NamedChildren(node) {
			segs = append(append([]string(nil), segs...), a.pathSegments(child)...)
		}
		a.addUse(module, "*", segs)
	default:
		segs := append(append([]string(nil), prefix...), a.pathSegments(node)...)
		if len(segs) == 0 {
			return
		}
		alias := segs[len(segs)-1]
		if alias == "self" {
			segs = segs[:len(segs)-1]
			if len(segs) == 0 {
				return
			}
			alias = segs[len(segs)-1]
		}
		a.addUse(module, alias, segs)
	}
}

func (a *analyzer) addUse(module ID, alias string, segments []string) {
	md := &a.db.modules[module]
	md.uses = append(md.uses, useImport{alias: alias, segments: segments})
}

func (a *analyzer) pathSegments(node *sitter.Node) []string {
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case syntax.KindScopedIdentifier, syntax.KindScopedTypeIdent:
		qual := a.pathSegments(node.ChildByFieldName(syntax.FieldPath))
		if name := node.ChildByFieldName(syntax.FieldName); name != nil {
			return append(qual, a.text(name))
		}
		return qual
	default:
		return []string{a.text(node)}
	}
}

// collectGenericParams registers type, const and lifetime parameters
// declared in an item's parameter list.
func (a *analyzer) collectGenericParams(item *sitter.Node, module ID) {
	tp := item.ChildByFieldName(syntax.FieldTypeParams)
	if tp == nil {
		return
	}
	for _, param := range syntax.NamedChildren(tp) {
		a.collectGenericParam(param, module)
	}
}

func (a *analyzer) collectGenericParam(param *sitter.Node, module ID) {
	switch param.Kind() {
	case syntax.KindTypeParameter:
		if name := param.ChildByFieldName(syntax.FieldName); name != nil {
			a.newTypeParam(name, module)
		}
	case syntax.KindLifetimeParameter:
		if lt := param.ChildByFieldName(syntax.FieldName); lt != nil {
			a.newLifetimeParam(lt, module)
		}
	case syntax.KindConstParameter:
		name := a.text(param.ChildByFieldName(syntax.FieldName))
		if name == "" {
			return
		}
		id := ID(len(a.db.constParams))
		a.db.constParams = append(a.db.constParams, paramData{name: name, module: module, node: a.ref(param)})
		a.define(param, symConstParam, id)
	}
}

func (a *analyzer) newTypeParam(nameNode *sitter.Node, module ID) {
	id := ID(len(a.db.typeParams))
	a.db.typeParams = append(a.db.typeParams, paramData{
		name:   a.text(nameNode),
		module: module,
		node:   a.ref(nameNode),
	})
	a.define(nameNode, symTypeParam, id)
}

func (a *analyzer) newLifetimeParam(lifetime *sitter.Node, module ID) {
	ident := syntax.LifetimeIdent(lifetime)
	if ident == nil {
		return
	}
	id := ID(len(a.db.lifetimeParams))
	a.db.lifetimeParams = append(a.db.lifetimeParams, paramData{
		name:   a.text(ident),
		module: module,
		node:   a.ref(lifetime),
	})
	a.define(lifetime, symLifetimeParam, id)
}

// collectBody sweeps a function subtree for bindings, labels and
// higher-ranked lifetimes. Items nested in the body are collected as if
// declared in the enclosing module.
func (a *analyzer) collectBody(fn *sitter.Node, module ID, selfType string) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case syntax.KindModItem, syntax.KindFunctionItem, syntax.KindStructItem,
			syntax.KindUnionItem, syntax.KindEnumItem, syntax.KindTraitItem,
			syntax.KindImplItem, syntax.KindConstItem, syntax.KindStaticItem,
			syntax.KindTypeItem, syntax.KindMacroDefinition, syntax.KindUseDeclaration:
			a.collectItem(n, module, owner{kind: ownerModule}, nil)
			return
		case syntax.KindSelfParameter:
			a.newLocal(n, "self", module, selfType)
			return
		case syntax.KindIdentifier:
			if syntax.IsBindingPattern(n) {
				a.newLocal(n, a.text(n), module, a.bindingTypeName(n))
			}
			return
		case syntax.KindShorthandFieldIdent:
			if parent := n.Parent(); parent != nil && parent.Kind() == syntax.KindFieldPattern {
				a.newLocal(n, a.text(n), module, "")
			}
			return
		case syntax.KindLabel:
			parent := n.Parent()
			if parent != nil && parent.Kind() != syntax.KindBreakExpr && parent.Kind() != syntax.KindContinueExpr {
				id := ID(len(a.db.labels))
				ident := syntax.LifetimeIdent(n)
				a.db.labels = append(a.db.labels, labelData{name: a.text(ident), module: module, node: a.ref(n)})
				a.define(n, symLabel, id)
			}
			return
		case syntax.KindForLifetimes:
			for _, lt := range syntax.NamedChildren(n) {
				if lt.Kind() == syntax.KindLifetime {
					a.newLifetimeParam(lt, module)
				}
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	// start below fn itself; walking the function_item would re-dispatch it
	for i := uint(0); i < fn.ChildCount(); i++ {
		walk(fn.Child(i))
	}
}

func (a *analyzer) newLocal(node *sitter.Node, name string, module ID, typeName string) {
	id := ID(len(a.db.locals))
	a.db.locals = append(a.db.locals, localData{
		name:     name,
		module:   module,
		node:     a.ref(node),
		typeName: typeName,
	})
	a.define(node, symLocal, id)
}

// bindingTypeName recovers a type name for a binding from its annotation or
// from an obvious initializer shape. Unknown types stay empty; field and
// method resolution simply fails for them.
func (a *analyzer) bindingTypeName(ident *sitter.Node) string {
	parent := ident.Parent()
	if parent == nil {
		return ""
	}
	if parent.Kind() == syntax.KindParameter {
		return normalizeTypeName(a.text(parent.ChildByFieldName(syntax.FieldType)))
	}
	let := syntax.AncestorOfKind(ident, syntax.KindLetDeclaration)
	if let == nil {
		return ""
	}
	if ty := let.ChildByFieldName(syntax.FieldType); ty != nil {
		return normalizeTypeName(a.text(ty))
	}
	if value := let.ChildByFieldName(syntax.FieldValue); value != nil && value.Kind() == syntax.KindStructExpr {
		return normalizeTypeName(a.text(value.ChildByFieldName(syntax.FieldName)))
	}
	return ""
}
