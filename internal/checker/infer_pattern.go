package checker

import "github.com/sunholo/lumen/internal/cir"
import "github.com/sunholo/lumen/internal/types"

// bindPatternShape unifies v with the structural shape patIdx implies
// and binds every identifier binder inside it (monomorphically — see
// scheme.go) into e. It serves both pattern introduction (lambda
// params, let patterns before generalization) and match-case testing:
// called once per case against the SAME scrutinee var, each case's
// open tag-union/record shape unifies progressively into the
// scrutinee's evolving inferred type (spec.md §4.5.3's "match: unify
// scrutinee with each pattern's type").
func (c *Checker) bindPatternShape(patIdx cir.PatternIdx, v types.Var, e *env) {
	if patIdx == cir.InvalidPatternIdx {
		return
	}
	c.PatternTypes[patIdx] = v

	switch p := c.mod.Pattern(patIdx).(type) {
	case *cir.IdentPattern:
		e.bind(patIdx, monoScheme(v))

	case *cir.WildcardPattern:
		// Matches anything; nothing further to unify or bind.

	case *cir.IntPattern:
		c.unify(p, v, c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.IntUnbound}}))

	case *cir.FracPattern:
		c.unify(p, v, c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.FracUnbound}}))

	case *cir.StringPattern:
		c.unify(p, v, c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatStr}))

	case *cir.TagPattern:
		args := make([]types.Var, len(p.Patterns))
		for i, sub := range p.Patterns {
			args[i] = c.store.Fresh(c.rank)
			c.bindPatternShape(sub, args[i], e)
		}
		open := c.store.Fresh(c.rank)
		c.unify(p, v, c.store.FreshStructure(c.rank, types.FlatType{
			Kind: types.FlatTagUnion,
			Tags: []types.Tag{{Name: p.Name, Args: args}},
			Ext:  open,
		}))

	case *cir.TuplePattern:
		elems := make([]types.Var, len(p.Elements))
		for i, el := range p.Elements {
			elems[i] = c.store.Fresh(c.rank)
			c.bindPatternShape(el, elems[i], e)
		}
		c.unify(p, v, c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatTuple, Elems: elems}))

	case *cir.RecordPattern:
		fields := make([]types.Field, len(p.Fields))
		for i, f := range p.Fields {
			fv := c.store.Fresh(c.rank)
			c.bindPatternShape(f.Pattern, fv, e)
			fields[i] = types.Field{Name: f.Name, Type: fv}
		}
		kind := types.FlatRecord
		ext := types.NoVar
		if p.Rest {
			ext = c.store.Fresh(c.rank)
		} else if len(fields) == 0 {
			kind = types.FlatEmptyRecord
		}
		c.unify(p, v, c.store.FreshStructure(c.rank, types.FlatType{Kind: kind, Fields: fields, Ext: ext}))

	case *cir.ListPattern:
		elem := c.store.Fresh(c.rank)
		for _, el := range p.Elements {
			c.bindPatternShape(el, elem, e)
		}
		if p.Rest != nil {
			c.bindPatternShape(*p.Rest, v, e)
		}
		c.unify(p, v, c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatList, Elem: elem}))

	case *cir.AltPattern:
		for _, alt := range p.Alternatives {
			c.bindPatternShape(alt, v, e)
		}

	case *cir.AsPattern:
		c.bindPatternShape(p.Inner, v, e)
		e.bind(patIdx, monoScheme(v))

	case *cir.MalformedPattern:
		// Already diagnosed during canonicalization; leave v unconstrained.
	}
}

// rebindPatternShape is called once per top-level def, after its body
// has been inferred and its pattern var generalized. Only a bare name
// binding is let-polymorphic here: a destructured top-level pattern
// (tuple/record) keeps each of its binders at the monomorphic var
// bindPatternShape already installed, matching the common restricted
// value-restriction real MLs apply to destructuring lets.
func (c *Checker) rebindPatternShape(patIdx cir.PatternIdx, sch types.Scheme, e *env) {
	if _, ok := c.mod.Pattern(patIdx).(*cir.IdentPattern); ok {
		e.bind(patIdx, polyScheme(sch))
	}
}
