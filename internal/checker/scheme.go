package checker

import "github.com/sunholo/lumen/internal/types"

// scheme is either a monomorphic var (lambda parameters, match binders,
// and any def still being inferred) or a generalized types.Scheme (a
// completed let/top-level binding). Only the polymorphic case goes
// through Store.Instantiate on lookup — Instantiate mints a fresh copy
// of every flex/rigid var it walks, which is correct for a scheme's
// quantified vars but would wrongly sever a monomorphic var's identity
// from the rest of the in-progress inference if called on it too.
type scheme struct {
	mono bool
	v    types.Var
	sch  types.Scheme
}

func monoScheme(v types.Var) scheme { return scheme{mono: true, v: v} }

func polyScheme(s types.Scheme) scheme { return scheme{mono: false, sch: s} }

func (s scheme) instantiate(store *types.Store, rank types.Rank) types.Var {
	if s.mono {
		return s.v
	}
	return store.Instantiate(s.sch.Root, rank)
}
