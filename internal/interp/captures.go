package interp

import "github.com/sunholo/lumen/internal/cir"

// freeVarPatterns returns, in deterministic first-occurrence order,
// the PatternIdx of every binding a lambda's body references that the
// lambda doesn't itself bind (via its params) and that isn't a
// top-level global. This is the set spec.md §4.7.3 needs copied into
// a closure's environment at creation time. CIR carries no explicit
// capture list on LambdaExpr, so this package derives it the same way
// at both closure-creation and closure-call time — a pure function of
// the LambdaExpr, so both call sites agree on order without needing to
// persist it anywhere.
func (ip *Interp) freeVarPatterns(lambdaExpr cir.ExprIdx) []cir.PatternIdx {
	lam, ok := ip.mod.Expr(lambdaExpr).(*cir.LambdaExpr)
	if !ok {
		return nil
	}
	bound := map[cir.PatternIdx]bool{}
	for _, p := range lam.Params {
		ip.markBound(p, bound)
	}
	seen := map[cir.PatternIdx]bool{}
	var order []cir.PatternIdx
	ip.walkFree(lam.Body, bound, seen, &order)
	return order
}

// markBound marks pat, and every binder nested inside it (a
// destructured record/tuple/tag/list/as pattern), as bound.
func (ip *Interp) markBound(pat cir.PatternIdx, bound map[cir.PatternIdx]bool) {
	if pat == cir.InvalidPatternIdx {
		return
	}
	bound[pat] = true
	switch p := ip.mod.Pattern(pat).(type) {
	case *cir.TagPattern:
		for _, s := range p.Patterns {
			ip.markBound(s, bound)
		}
	case *cir.TuplePattern:
		for _, s := range p.Elements {
			ip.markBound(s, bound)
		}
	case *cir.RecordPattern:
		for _, f := range p.Fields {
			ip.markBound(f.Pattern, bound)
		}
	case *cir.ListPattern:
		for _, s := range p.Elements {
			ip.markBound(s, bound)
		}
		if p.Rest != nil {
			ip.markBound(*p.Rest, bound)
		}
	case *cir.AltPattern:
		for _, s := range p.Alternatives {
			ip.markBound(s, bound)
		}
	case *cir.AsPattern:
		ip.markBound(p.Inner, bound)
	}
}

func copyBound(bound map[cir.PatternIdx]bool) map[cir.PatternIdx]bool {
	c := make(map[cir.PatternIdx]bool, len(bound)+4)
	for k := range bound {
		c[k] = true
	}
	return c
}

func (ip *Interp) addFree(pat cir.PatternIdx, bound, seen map[cir.PatternIdx]bool, order *[]cir.PatternIdx) {
	if bound[pat] || seen[pat] || ip.topLevel[pat] {
		return
	}
	seen[pat] = true
	*order = append(*order, pat)
}

// walkFree walks idx collecting free LookupLocal references into
// order, respecting nested scopes (lambda params, match-case
// patterns, block defs) by extending bound with a fresh copy rather
// than mutating the caller's set.
func (ip *Interp) walkFree(idx cir.ExprIdx, bound, seen map[cir.PatternIdx]bool, order *[]cir.PatternIdx) {
	if idx == cir.InvalidExprIdx {
		return
	}
	switch x := ip.mod.Expr(idx).(type) {
	case *cir.IntLit, *cir.FracLit, *cir.BoolLit, *cir.ScalarLit, *cir.LookupExternal, *cir.RuntimeError, *cir.MalformedExpr:
		// leaves with no sub-expressions to walk

	case *cir.StrExpr:
		for _, seg := range x.Segments {
			if !seg.IsLiteral {
				ip.walkFree(seg.Expr, bound, seen, order)
			}
		}

	case *cir.LookupLocal:
		ip.addFree(x.Pattern, bound, seen, order)

	case *cir.TagCtorExpr:
		for _, a := range x.Args {
			ip.walkFree(a, bound, seen, order)
		}

	case *cir.ListExpr:
		for _, e := range x.Elements {
			ip.walkFree(e, bound, seen, order)
		}

	case *cir.TupleExpr:
		for _, e := range x.Elements {
			ip.walkFree(e, bound, seen, order)
		}

	case *cir.RecordExpr:
		for _, f := range x.Fields {
			ip.walkFree(f.Value, bound, seen, order)
		}

	case *cir.RecordUpdateExpr:
		ip.walkFree(x.BaseExpr, bound, seen, order)
		for _, f := range x.Fields {
			ip.walkFree(f.Value, bound, seen, order)
		}

	case *cir.RecordAccessExpr:
		ip.walkFree(x.Target, bound, seen, order)

	case *cir.LambdaExpr:
		inner := copyBound(bound)
		for _, p := range x.Params {
			ip.markBound(p, inner)
		}
		ip.walkFree(x.Body, inner, seen, order)

	case *cir.ApplyExpr:
		ip.walkFree(x.Func, bound, seen, order)
		for _, a := range x.Args {
			ip.walkFree(a, bound, seen, order)
		}

	case *cir.BinOpExpr:
		ip.walkFree(x.Left, bound, seen, order)
		ip.walkFree(x.Right, bound, seen, order)

	case *cir.UnaryOpExpr:
		ip.walkFree(x.Operand, bound, seen, order)

	case *cir.IfExpr:
		for _, br := range x.Branches {
			ip.walkFree(br.Cond, bound, seen, order)
			ip.walkFree(br.Then, bound, seen, order)
		}
		ip.walkFree(x.Else, bound, seen, order)

	case *cir.MatchExpr:
		ip.walkFree(x.Scrutinee, bound, seen, order)
		for _, mc := range x.Cases {
			inner := copyBound(bound)
			ip.markBound(mc.Pattern, inner)
			if mc.Guard != cir.InvalidExprIdx {
				ip.walkFree(mc.Guard, inner, seen, order)
			}
			ip.walkFree(mc.Body, inner, seen, order)
		}

	case *cir.BlockExpr:
		inner := copyBound(bound)
		for _, d := range x.Defs {
			ip.markBound(ip.mod.Def(d).Pattern, inner)
		}
		for _, d := range x.Defs {
			ip.walkFree(ip.mod.Def(d).Expr, inner, seen, order)
		}
		ip.walkFree(x.Result, inner, seen, order)

	case *cir.DbgExpr:
		ip.walkFree(x.Expr, bound, seen, order)

	case *cir.ExpectExpr:
		ip.walkFree(x.Expr, bound, seen, order)

	case *cir.CrashExpr:
		ip.walkFree(x.Message, bound, seen, order)
	}
}
