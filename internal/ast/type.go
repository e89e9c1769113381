package ast

import "github.com/sunholo/lumen/internal/ident"

// TypeVarAnno is a lowercase type-variable reference in an annotation
// (becomes a rigid var at canonicalization, spec.md §4.5.3).
type TypeVarAnno struct {
	Base
	Name ident.Idx
}

func (*TypeVarAnno) typeAnnoNode() {}

// TypeApplyAnno is a named type applied to zero or more argument
// types, e.g. `List a`, `Result err ok`, or a bare `Str`.
type TypeApplyAnno struct {
	Base
	Name ident.Idx
	Args []TypeIdx
}

func (*TypeApplyAnno) typeAnnoNode() {}

type FuncTypeAnno struct {
	Base
	Params []TypeIdx
	Return TypeIdx
	Pure   bool
}

func (*FuncTypeAnno) typeAnnoNode() {}

type TupleTypeAnno struct {
	Base
	Elements []TypeIdx
}

func (*TupleTypeAnno) typeAnnoNode() {}

type RecordFieldAnno struct {
	Name ident.Idx
	Type TypeIdx
}

// RecordTypeAnno is a record type, optionally row-polymorphic via Ext
// (InvalidTypeIdx if the record is closed).
type RecordTypeAnno struct {
	Base
	Fields []RecordFieldAnno
	Ext    TypeIdx
}

func (*RecordTypeAnno) typeAnnoNode() {}

type TagAnno struct {
	Name   ident.Idx
	Fields []TypeIdx
}

// TagUnionTypeAnno is an open or closed tag union, e.g. `[Ok a, Err e]`
// or `[Ok a, Err e]*` (open, Ext != InvalidTypeIdx).
type TagUnionTypeAnno struct {
	Base
	Tags []TagAnno
	Ext  TypeIdx
}

func (*TagUnionTypeAnno) typeAnnoNode() {}

// AliasTypeAnno names a type alias definition's right-hand side, used
// from TypeDeclStmt.Definition.
type AliasTypeAnno struct {
	Base
	Target TypeIdx
}

func (*AliasTypeAnno) typeAnnoNode() {}

// ConstructorAnno is one variant of an algebraic-type declaration.
type ConstructorAnno struct {
	Name   ident.Idx
	Fields []TypeIdx
}

type AlgebraicTypeAnno struct {
	Base
	Constructors []ConstructorAnno
}

func (*AlgebraicTypeAnno) typeAnnoNode() {}

type WildcardTypeAnno struct{ Base }

func (*WildcardTypeAnno) typeAnnoNode() {}

type MalformedTypeAnno struct {
	Base
	Reason string
}

func (*MalformedTypeAnno) typeAnnoNode() {}
