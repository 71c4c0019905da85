package syntax

// Node kind strings produced by the tree-sitter Rust grammar. Only the kinds
// the classifier dispatches on are named here; everything else is matched by
// its literal kind string at the call site.
const (
	// Tokens and name-bearing leaves.
	KindIdentifier          = "identifier"
	KindTypeIdentifier      = "type_identifier"
	KindFieldIdentifier     = "field_identifier"
	KindShorthandFieldIdent = "shorthand_field_identifier"
	KindPrimitiveType       = "primitive_type"
	KindSelf                = "self"
	KindSuper               = "super"
	KindCrate               = "crate"
	KindLifetime            = "lifetime"
	KindLabel               = "label"

	// Items.
	KindSourceFile        = "source_file"
	KindModItem           = "mod_item"
	KindFunctionItem      = "function_item"
	KindFunctionSignature = "function_signature_item"
	KindStructItem        = "struct_item"
	KindUnionItem         = "union_item"
	KindEnumItem          = "enum_item"
	KindEnumVariantList   = "enum_variant_list"
	KindEnumVariant       = "enum_variant"
	KindFieldDeclList     = "field_declaration_list"
	KindFieldDecl         = "field_declaration"
	KindTraitItem         = "trait_item"
	KindImplItem          = "impl_item"
	KindStaticItem        = "static_item"
	KindConstItem         = "const_item"
	KindTypeItem          = "type_item"
	KindAssociatedType    = "associated_type"
	KindMacroDefinition   = "macro_definition"
	KindDeclarationList   = "declaration_list"
	KindVisibilityMod     = "visibility_modifier"

	// Imports.
	KindUseDeclaration   = "use_declaration"
	KindUseAsClause      = "use_as_clause"
	KindUseList          = "use_list"
	KindScopedUseList    = "scoped_use_list"
	KindUseWildcard      = "use_wildcard"
	KindExternCrateDecl  = "extern_crate_declaration"
	KindScopedIdentifier = "scoped_identifier"
	KindScopedTypeIdent  = "scoped_type_identifier"

	// Attributes and macros.
	KindAttributeItem      = "attribute_item"
	KindInnerAttributeItem = "inner_attribute_item"
	KindAttribute          = "attribute"
	KindTokenTree          = "token_tree"
	KindMacroInvocation    = "macro_invocation"

	// Generics.
	KindTypeParameters    = "type_parameters"
	KindTypeParameter     = "type_parameter"
	KindLifetimeParameter = "lifetime_parameter"
	KindConstParameter    = "const_parameter"
	KindTraitBounds       = "trait_bounds"
	KindWhereClause       = "where_clause"
	KindWherePredicate    = "where_predicate"
	KindForLifetimes      = "for_lifetimes"
	KindTypeArguments     = "type_arguments"
	KindTypeBinding       = "type_binding"
	KindGenericType       = "generic_type"
	KindReferenceType     = "reference_type"
	KindBoundedType       = "bounded_type"

	// Expressions.
	KindCallExpr         = "call_expression"
	KindFieldExpr        = "field_expression"
	KindStructExpr       = "struct_expression"
	KindFieldInitList    = "field_initializer_list"
	KindFieldInit        = "field_initializer"
	KindShorthandInit    = "shorthand_field_initializer"
	KindBaseFieldInit    = "base_field_initializer"
	KindBreakExpr        = "break_expression"
	KindContinueExpr     = "continue_expression"
	KindLoopExpr         = "loop_expression"
	KindWhileExpr        = "while_expression"
	KindForExpr          = "for_expression"
	KindIfExpr           = "if_expression"
	KindMatchExpr        = "match_expression"
	KindMatchArm         = "match_arm"
	KindMatchPattern     = "match_pattern"
	KindLetDeclaration   = "let_declaration"
	KindLetCondition     = "let_condition"
	KindBlock            = "block"
	KindClosureExpr      = "closure_expression"
	KindClosureParams    = "closure_parameters"
	KindParameters       = "parameters"
	KindParameter        = "parameter"
	KindSelfParameter    = "self_parameter"
	KindGenericFunction  = "generic_function"
	KindArguments        = "arguments"
	KindUnitExpr         = "unit_expression"
	KindReferenceExpr    = "reference_expression"
	KindParenthesizedExp = "parenthesized_expression"

	// Patterns.
	KindTuplePattern       = "tuple_pattern"
	KindSlicePattern       = "slice_pattern"
	KindTupleStructPattern = "tuple_struct_pattern"
	KindStructPattern      = "struct_pattern"
	KindFieldPattern       = "field_pattern"
	KindRemainingFieldPat  = "remaining_field_pattern"
	KindMutPattern         = "mut_pattern"
	KindRefPattern         = "ref_pattern"
	KindReferencePattern   = "reference_pattern"
	KindCapturedPattern    = "captured_pattern"
	KindOrPattern          = "or_pattern"
)

// Field names used by the grammar for the children the classifier reads.
const (
	FieldName        = "name"
	FieldAlias       = "alias"
	FieldPath        = "path"
	FieldPattern     = "pattern"
	FieldType        = "type"
	FieldValue       = "value"
	FieldField       = "field"
	FieldFunction    = "function"
	FieldBody        = "body"
	FieldLeft        = "left"
	FieldMacro       = "macro"
	FieldArguments   = "arguments"
	FieldCondition   = "condition"
	FieldTrait       = "trait"
	FieldConsequence = "consequence"
	FieldTypeParams  = "type_parameters"
	FieldParameters  = "parameters"
)
