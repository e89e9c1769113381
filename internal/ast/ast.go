// Package ast holds the untyped parse-tree node families, each in its
// own index-based arena. Every family carries a mandatory malformed
// variant recording a diagnostic reason; the parser never fails to
// produce an AST (spec.md §3, §4.3, §8 "parser totality").
//
// Nodes are represented as small structs implementing a per-family
// interface (Expr, Pattern, Stmt, TypeAnno), generalizing the
// teacher's internal/ast.Node pointer-tree (internal/ast/ast.go) into
// arena storage: children are referenced by Idx, never by pointer, so
// recursive shapes never form reference cycles (Design Notes, "Arena
// + index ownership").
package ast

import (
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/strlit"
)

// Index types. Each arena has its own distinct type so mixing up, say,
// an ExprIdx with a PatternIdx is a compile error.
type (
	ExprIdx    int32
	PatternIdx int32
	StmtIdx    int32
	TypeIdx    int32
	HeaderIdx  int32
)

const (
	InvalidExprIdx    ExprIdx    = -1
	InvalidPatternIdx PatternIdx = -1
	InvalidStmtIdx    StmtIdx    = -1
	InvalidTypeIdx    TypeIdx    = -1
	InvalidHeaderIdx  HeaderIdx  = -1
)

// Expr is any node in the expression arena.
type Expr interface {
	exprNode()
	Region() region.Region
}

// Pattern is any node in the pattern arena.
type Pattern interface {
	patternNode()
	Region() region.Region
}

// Stmt is any node in the top-level-statement arena.
type Stmt interface {
	stmtNode()
	Region() region.Region
}

// TypeAnno is any node in the type-annotation arena.
type TypeAnno interface {
	typeAnnoNode()
	Region() region.Region
}

type Base struct{ R region.Region }

func (b Base) Region() region.Region { return b.R }

// Arena is a generic append-only store; T is one of Expr, Pattern,
// Stmt, TypeAnno, or a Header. Append/Get are the only operations
// spec.md §3 requires ("append(x) -> Idx", "get(Idx) -> x").
type Arena[T any] struct {
	items []T
}

func (a *Arena[T]) Append(x T) int32 {
	idx := int32(len(a.items))
	a.items = append(a.items, x)
	return idx
}

func (a *Arena[T]) Get(idx int32) T { return a.items[idx] }

func (a *Arena[T]) Set(idx int32, x T) { a.items[idx] = x }

func (a *Arena[T]) Len() int { return len(a.items) }

func (a *Arena[T]) All() []T { return a.items }

// File is the top-level container for one parsed source file: one
// arena per node family plus the top-level statement list and header.
type File struct {
	Path string

	Idents  *ident.Store
	Strings *strlit.Store

	Exprs   Arena[Expr]
	Pats    Arena[Pattern]
	Stmts   Arena[Stmt]
	Types   Arena[TypeAnno]
	Headers Arena[Header]

	Header     HeaderIdx // InvalidHeaderIdx if file has no header
	TopLevel   []StmtIdx
}

func NewFile(path string) *File {
	return &File{
		Path:    path,
		Idents:  ident.NewStore(),
		Strings: strlit.NewStore(),
		Header:  InvalidHeaderIdx,
	}
}

func (f *File) NewExpr(e Expr) ExprIdx       { return ExprIdx(f.Exprs.Append(e)) }
func (f *File) NewPattern(p Pattern) PatternIdx { return PatternIdx(f.Pats.Append(p)) }
func (f *File) NewStmt(s Stmt) StmtIdx       { return StmtIdx(f.Stmts.Append(s)) }
func (f *File) NewType(t TypeAnno) TypeIdx   { return TypeIdx(f.Types.Append(t)) }
func (f *File) NewHeader(h Header) HeaderIdx { return HeaderIdx(f.Headers.Append(h)) }

func (f *File) Expr(idx ExprIdx) Expr          { return f.Exprs.Get(int32(idx)) }
func (f *File) Pattern(idx PatternIdx) Pattern { return f.Pats.Get(int32(idx)) }
func (f *File) Stmt(idx StmtIdx) Stmt          { return f.Stmts.Get(int32(idx)) }
func (f *File) Type(idx TypeIdx) TypeAnno      { return f.Types.Get(int32(idx)) }
func (f *File) HeaderAt(idx HeaderIdx) Header  { return f.Headers.Get(int32(idx)) }
