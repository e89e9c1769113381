// Package moduleenv provides the single per-module container spec.md
// §3 names: it aggregates the interned stores and diagnostics every
// pipeline stage reads from and appends to, and accumulates each
// stage's output in turn as a module moves lex -> parse -> canon ->
// check -> layout -> eval. There is no direct teacher equivalent —
// the teacher threads a *module.Module plus a separately constructed
// *errors bag through its loader/pipeline packages; this package is
// grounded on that split (internal/module/loader.go's Module struct
// holding AST/Dependencies/Exports alongside internal/pipeline's own
// per-stage bookkeeping) collapsed into one owner, per spec.md §3's
// explicit naming of ModuleEnv as that owner.
package moduleenv

import (
	"github.com/sirupsen/logrus"

	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/canon"
	"github.com/sunholo/lumen/internal/checker"
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/diagnostic"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/interp"
	"github.com/sunholo/lumen/internal/layout"
	"github.com/sunholo/lumen/internal/modname"
	"github.com/sunholo/lumen/internal/parser"
	"github.com/sunholo/lumen/internal/strlit"
	"github.com/sunholo/lumen/internal/types"
)

// ModuleEnv owns one source file's arenas, interned stores, and
// diagnostics across every compilation stage. Every Idx minted into
// any of its arenas stays valid for ModuleEnv's whole lifetime — its
// arenas never shrink, per spec.md §3 invariant 1. A single instance
// is thread-confined: the host may build one ModuleEnv per module
// concurrently, but an individual instance is touched by one
// goroutine only (spec.md §5), so no field here is guarded by a
// mutex.
type ModuleEnv struct {
	Path string

	ModNames    *modname.Store
	Diagnostics *diagnostic.Bag

	// Idents/Strings are the parser's stores, shared by every later
	// stage; nil until Parse runs.
	Idents  *ident.Store
	Strings *strlit.Store

	Source *ast.File
	CIR    *cir.Module

	Types        *types.Store
	ExprTypes    map[cir.ExprIdx]types.Var
	PatternTypes map[cir.PatternIdx]types.Var

	Layouts  *layout.Cache
	defaults layout.Defaults
}

// New creates an empty ModuleEnv for the source file at path. Parse
// must run before Canonicalize, which must run before Check, which
// must run before Layouts is usable.
func New(path string, log *logrus.Entry) *ModuleEnv {
	return &ModuleEnv{
		Path:        path,
		ModNames:    modname.NewStore(),
		Diagnostics: diagnostic.NewBag(log),
	}
}

// Parse lexes and parses src, populating Source, Idents, and Strings.
// Parsing never fails outright (spec.md §8 "parser totality"); malformed
// input surfaces as diagnostics plus malformed AST nodes instead of an
// error return.
func (m *ModuleEnv) Parse(src []byte) {
	m.Source = parser.ParseFile(src, m.Path, m.Diagnostics)
	m.Idents = m.Source.Idents
	m.Strings = m.Source.Strings
}

// Canonicalize resolves scope and desugars Source into CIR. Parse must
// have already run.
func (m *ModuleEnv) Canonicalize() {
	m.CIR = canon.New(m.Source, m.Diagnostics).Canonicalize()
}

// Check runs Hindley-Milner inference over CIR, populating Types and
// the two inferred-type side tables. defaults supplies the fallback
// int/frac precision an unconstrained literal defaults to (internal/config
// overrides layout.DefaultDefaults with this). Canonicalize must have
// already run.
func (m *ModuleEnv) Check(defaults layout.Defaults) {
	m.Types = types.NewStore(m.Idents)
	c := checker.New(m.Types, m.Idents, m.Diagnostics)
	c.CheckModule(m.CIR)
	m.ExprTypes = c.ExprTypes
	m.PatternTypes = c.PatternTypes
	m.defaults = defaults
	m.Layouts = layout.NewCache(m.Types, defaults)
}

// NewInterp builds an interpreter over this ModuleEnv's checked CIR.
// Check must have already run.
func (m *ModuleEnv) NewInterp(limits interp.Limits, log *logrus.Entry) *interp.Interp {
	return interp.New(m.CIR, m.Types, m.Idents, m.ExprTypes, m.PatternTypes, m.defaults, limits, log)
}
