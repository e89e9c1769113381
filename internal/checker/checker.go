// Package checker implements Hindley-Milner type inference over a
// canonicalized cir.Module, walking it once per spec.md §4.5.3 against
// a union-find internal/types.Store rather than building a
// substitution map. Grounded on the teacher's internal/types
// inference shape (an environment-threaded walk producing a type and
// an effect marker per node) generalized to read/write union-find
// roots directly instead of returning substitutions to apply
// afterward.
package checker

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/diagnostic"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/types"
)

// Checker holds the state threaded through one module's inference
// pass: the shared union-find store, the file/module being checked,
// and the side tables inference fills in for the layout engine and
// interpreter to consume afterward.
type Checker struct {
	store   *types.Store
	idents  *ident.Store
	file    *ast.File
	mod     *cir.Module
	diags   *diagnostic.Bag
	typeDefs map[ident.Idx]*typeDef

	rank types.Rank

	// ExprTypes/PatternTypes are the inferred-type side tables: the
	// checker's output. Def is canon's read-only output, so types are
	// tracked here rather than mutated onto it.
	ExprTypes    map[cir.ExprIdx]types.Var
	PatternTypes map[cir.PatternIdx]types.Var

	global *env
}

// New creates a Checker for one module. store and idents are shared
// with the owning ModuleEnv so rendered diagnostics and later stages
// see the same interned names and type variables.
func New(store *types.Store, idents *ident.Store, diags *diagnostic.Bag) *Checker {
	return &Checker{
		store:        store,
		idents:       idents,
		diags:        diags,
		ExprTypes:    make(map[cir.ExprIdx]types.Var),
		PatternTypes: make(map[cir.PatternIdx]types.Var),
	}
}

type regioned interface {
	Region() region.Region
}

func (c *Checker) errorf(r regioned, code, msg string) {
	c.diags.Add(diagnostic.New(diagnostic.PhaseCheck, diagnostic.Error, code, msg, r.Region()))
}

// unify wraps Store.Unify, turning a *types.Mismatch into a diagnostic
// anchored at r rather than bubbling a Go error up through every
// inference call site.
func (c *Checker) unify(r regioned, a, b types.Var) {
	if err := c.store.Unify(a, b); err != nil {
		c.errorf(r, "type_mismatch", err.Error())
	}
}

// CheckModule runs inference over every top-level def in mod, per
// spec.md §4.5.4: the whole top level is one generalization boundary,
// so mutually recursive top-level functions all see each other's
// final generalized schemes once inference completes.
func (c *Checker) CheckModule(mod *cir.Module) {
	c.mod = mod
	c.file = mod.Source
	c.typeDefs = buildTypeDefs(mod.Source)
	c.global = c.inferBlock(mod.TopLevel, nil)
}

// exprRegion adapts a bare region.Region to the regioned interface for
// diagnostics that have no ast/cir node handy (e.g. a Def's own
// region rather than one of its children's).
type exprRegion struct{ r region.Region }

func (e exprRegion) Region() region.Region { return e.r }
