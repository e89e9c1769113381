// Package cir holds the canonicalized intermediate representation:
// the form the canonicalizer (internal/canon) produces from an
// internal/ast.File and the checker/interpreter consume thereafter.
// Relative to the AST, names are resolved (locals point at the
// PatternIdx that introduced them, imports at an External handle),
// operators are desugared to a fixed closed set, string interpolation
// is flattened to alternating literal/expression segments, and every
// top-level or let binding is represented uniformly as a Def.
//
// Type annotations are NOT re-represented here: a Def's Annotation
// field is the original ast.TypeIdx into the same ast.File's Types
// arena. The checker only ever reads an annotation, never rewrites
// it, so duplicating it into a parallel CIR arena would just be two
// copies of the same read-only data to keep in sync.
package cir

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/strlit"
)

type (
	ExprIdx    int32
	PatternIdx int32
	DefIdx     int32
)

const (
	InvalidExprIdx    ExprIdx    = -1
	InvalidPatternIdx PatternIdx = -1
	InvalidDefIdx     DefIdx     = -1
)

type Expr interface {
	exprNode()
	Region() region.Region
}

type Pattern interface {
	patternNode()
	Region() region.Region
}

type Base struct{ R region.Region }

func (b Base) Region() region.Region { return b.R }

// ExternalKind distinguishes what kind of cross-module declaration an
// External handle names, mirroring the canonicalizer's name-resolution
// kinds (spec.md §4.4: "value, type, alias, constructor").
type ExternalKind int8

const (
	ExternalValue ExternalKind = iota
	ExternalType
	ExternalAlias
	ExternalConstructor
)

// External names a cross-module declaration by (module, local_name,
// kind), per spec.md §5's description of how imports resolve.
type External struct {
	Module ident.Idx
	Name   ident.Idx
	Kind   ExternalKind
}

// Module is the canonicalized form of one source file: its own
// Expr/Pattern arenas, the Defs introduced at top level, and a
// back-reference to the ast.File it was canonicalized from (for
// Region rendering and for reading type annotations).
type Module struct {
	Source *ast.File

	Exprs ast.Arena[Expr]
	Pats  ast.Arena[Pattern]

	Defs     ast.Arena[Def]
	TopLevel []DefIdx
}

func NewModule(source *ast.File) *Module {
	return &Module{Source: source}
}

func (m *Module) NewExpr(e Expr) ExprIdx       { return ExprIdx(m.Exprs.Append(e)) }
func (m *Module) NewPattern(p Pattern) PatternIdx { return PatternIdx(m.Pats.Append(p)) }
func (m *Module) NewDef(d Def) DefIdx          { return DefIdx(m.Defs.Append(d)) }

func (m *Module) Expr(idx ExprIdx) Expr       { return m.Exprs.Get(int32(idx)) }
func (m *Module) Pattern(idx PatternIdx) Pattern { return m.Pats.Get(int32(idx)) }
func (m *Module) Def(idx DefIdx) Def          { return m.Defs.Get(int32(idx)) }

// DefKind mirrors spec.md §3's Def.kind: a plain value binding, a
// bare effectful statement whose result is discarded, or a `_ = ...`
// binding whose pattern is intentionally ignored.
type DefKind int8

const (
	DefLet DefKind = iota
	DefStmtFx
	DefIgnoredFx
)

// Def is a top-level or let binding, per spec.md §3's Def entity. The
// checker tracks each Def's inferred types.Var in its own side table
// keyed by ExprIdx/PatternIdx rather than here, since Def itself is
// canon's output and must stay read-only once built. Annotation is
// InvalidTypeIdx when the binding carries no user-written signature.
type Def struct {
	Pattern       PatternIdx
	PatternRegion region.Region
	Expr          ExprIdx
	ExprRegion    region.Region
	Annotation    ast.TypeIdx
	Kind          DefKind
}

// strlit re-exported for callers that only import cir for segment
// construction and would otherwise need a second import line for one
// type.
type StrLitIdx = strlit.Idx
