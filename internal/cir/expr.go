package cir

import (
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/strlit"
)

type IntLit struct {
	Base
	Text      string
	Precision string
}

func (*IntLit) exprNode() {}

type FracLit struct {
	Base
	Text      string
	Precision string
}

func (*FracLit) exprNode() {}

type BoolLit struct {
	Base
	Value bool
}

func (*BoolLit) exprNode() {}

type ScalarLit struct {
	Base
	Value rune
}

func (*ScalarLit) exprNode() {}

// StrSegment is one flattened piece of a (possibly interpolated)
// string literal: either a literal chunk or an embedded expression,
// per spec.md §4.4's "string interpolation canonicalized to a span of
// alternating str_segment(StringLiteral.Idx) and arbitrary CIR
// expressions."
type StrSegment struct {
	IsLiteral bool
	Literal   strlit.Idx
	Expr      ExprIdx
}

type StrExpr struct {
	Base
	Segments []StrSegment
}

func (*StrExpr) exprNode() {}

// LookupLocal is a resolved reference to a binding introduced in an
// enclosing scope: Pattern is the PatternIdx of the binder.
type LookupLocal struct {
	Base
	Pattern PatternIdx
}

func (*LookupLocal) exprNode() {}

// LookupExternal is a resolved reference to an imported declaration.
type LookupExternal struct {
	Base
	Ref External
}

func (*LookupExternal) exprNode() {}

// RuntimeError is substituted for any reference or construct the
// canonicalizer could not resolve (e.g. ident_not_in_scope); it
// carries the diagnostic reason so the checker/interpreter need not
// re-derive it, and unifies with a fresh err type rather than
// cascading further diagnostics.
type RuntimeError struct {
	Base
	Reason string
}

func (*RuntimeError) exprNode() {}

type TagCtorExpr struct {
	Base
	Name ident.Idx
	Args []ExprIdx
}

func (*TagCtorExpr) exprNode() {}

type ListExpr struct {
	Base
	Elements []ExprIdx
}

func (*ListExpr) exprNode() {}

type TupleExpr struct {
	Base
	Elements []ExprIdx
}

func (*TupleExpr) exprNode() {}

type FieldInit struct {
	Name  ident.Idx
	Value ExprIdx
}

type RecordExpr struct {
	Base
	Fields []FieldInit
}

func (*RecordExpr) exprNode() {}

type RecordUpdateExpr struct {
	Base
	BaseExpr ExprIdx
	Fields   []FieldInit
}

func (*RecordUpdateExpr) exprNode() {}

type RecordAccessExpr struct {
	Base
	Target ExprIdx
	Field  ident.Idx
}

func (*RecordAccessExpr) exprNode() {}

type LambdaExpr struct {
	Base
	Params []PatternIdx
	Body   ExprIdx
}

func (*LambdaExpr) exprNode() {}

type ApplyExpr struct {
	Base
	Func ExprIdx
	Args []ExprIdx
}

func (*ApplyExpr) exprNode() {}

// BinOp is the fixed closed set every surface operator desugars to
// (spec.md §4.4 "Operator desugaring"). Pipeline `|>` desugars away
// entirely into an ApplyExpr, so it has no BinOp of its own.
type BinOp int8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
)

type BinOpExpr struct {
	Base
	Op    BinOp
	Left  ExprIdx
	Right ExprIdx
}

func (*BinOpExpr) exprNode() {}

type UnaryOp int8

const (
	OpNeg UnaryOp = iota
	OpNot
)

type UnaryOpExpr struct {
	Base
	Op      UnaryOp
	Operand ExprIdx
}

func (*UnaryOpExpr) exprNode() {}

type IfBranch struct {
	Cond ExprIdx
	Then ExprIdx
}

type IfExpr struct {
	Base
	Branches []IfBranch
	Else     ExprIdx
}

func (*IfExpr) exprNode() {}

type MatchCase struct {
	Pattern PatternIdx
	Guard   ExprIdx // InvalidExprIdx if no guard
	Body    ExprIdx
}

// MatchExpr is the canonicalized `when`. Exhaustive is set by the
// canonicalizer's decision-tree compilation over the cases' top-level
// pattern shapes (spec.md §4.5.3 "record exhaustiveness via a
// designated mark"). The checker neither reads nor recomputes it.
type MatchExpr struct {
	Base
	Scrutinee  ExprIdx
	Cases      []MatchCase
	Exhaustive bool
}

func (*MatchExpr) exprNode() {}

type BlockExpr struct {
	Base
	Defs   []DefIdx
	Result ExprIdx
}

func (*BlockExpr) exprNode() {}

type DbgExpr struct {
	Base
	Expr ExprIdx
}

func (*DbgExpr) exprNode() {}

type ExpectExpr struct {
	Base
	Expr ExprIdx
}

func (*ExpectExpr) exprNode() {}

type CrashExpr struct {
	Base
	Message ExprIdx
}

func (*CrashExpr) exprNode() {}

// MalformedExpr survives into CIR only for ast.MalformedExpr inputs
// the canonicalizer had no better desugaring for; it carries the
// AST-level reason through unchanged.
type MalformedExpr struct {
	Base
	Reason string
}

func (*MalformedExpr) exprNode() {}
