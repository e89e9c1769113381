package ast

import (
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/strlit"
)

// IntLit is a decimal, hex, or binary integer literal with an optional
// precision suffix recorded verbatim (e.g. "i64", "" if unsuffixed).
type IntLit struct {
	Base
	Text      string
	Precision string
}

func (*IntLit) exprNode() {}

// FloatLit is a fractional literal, including scientific notation and
// an optional precision suffix ("f32", "f64", "dec", or "").
type FloatLit struct {
	Base
	Text      string
	Precision string
}

func (*FloatLit) exprNode() {}

// StrPart is one segment of a (possibly interpolated) string: either
// a literal text chunk or an embedded expression.
type StrPart struct {
	IsLiteral bool
	Literal   strlit.Idx
	Expr      ExprIdx
}

type StrExpr struct {
	Base
	Parts []StrPart
}

func (*StrExpr) exprNode() {}

type ScalarLit struct {
	Base
	Value rune
}

func (*ScalarLit) exprNode() {}

type BoolLit struct {
	Base
	Value bool
}

func (*BoolLit) exprNode() {}

// VarExpr is a lowercase-identifier reference (a binding use).
type VarExpr struct {
	Base
	Name ident.Idx
}

func (*VarExpr) exprNode() {}

// TagCtorExpr is an uppercase-identifier applied to zero or more
// arguments, naming a tag-union constructor.
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
	R     region.Region
}

type RecordExpr struct {
	Base
	Fields []FieldInit
}

func (*RecordExpr) exprNode() {}

// RecordUpdateExpr is `{ Base | field: value, ... }`.
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

// BinOpExpr covers the full operator precedence table (spec.md §4.3):
// "or", "and", comparisons, "+ -", "* / // %", and "|>" pipeline.
type BinOpExpr struct {
	Base
	Op    string
	Left  ExprIdx
	Right ExprIdx
}

func (*BinOpExpr) exprNode() {}

type UnaryOpExpr struct {
	Base
	Op      string
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
	Else     ExprIdx // InvalidExprIdx if `no_else` was recovered from
}

func (*IfExpr) exprNode() {}

type WhenCase struct {
	Pattern PatternIdx
	Guard   ExprIdx // InvalidExprIdx if no guard clause
	Body    ExprIdx
}

// WhenExpr is `when expr is pat1 -> body1 ...` (spec.md's `match`).
type WhenExpr struct {
	Base
	Scrutinee ExprIdx
	Cases     []WhenCase
}

func (*WhenExpr) exprNode() {}

// BlockExpr is a sequence of let-bindings/statements followed by a
// final result expression.
type BlockExpr struct {
	Base
	Stmts  []StmtIdx
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
	Message ExprIdx // InvalidExprIdx if bare `crash`
}

func (*CrashExpr) exprNode() {}

// MalformedExpr records a parse failure; the parser always recovers
// by emitting one of these rather than aborting (spec.md §4.3, §8).
type MalformedExpr struct {
	Base
	Reason string
}

func (*MalformedExpr) exprNode() {}
