package checker

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/types"
)

// boolType is fresh every call rather than cached: callers unify it
// against whatever they're checking, and a shared var would wrongly
// link unrelated Bool occurrences together once one of them picked up
// a more specific descriptor through an (impossible, but cheap to
// avoid) future nominal refinement.
func (c *Checker) boolType() types.Var {
	return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatNominal, Nom: types.Nominal{Ident: c.idents.Intern("Bool")}})
}

func (c *Checker) strType() types.Var {
	return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatStr})
}

// inferExpr is the main inference switch, per spec.md §4.5.3's
// per-node rules: every case either produces a var directly (for
// leaves) or recurses into sub-expressions and unifies the shape their
// combination implies.
func (c *Checker) inferExpr(idx cir.ExprIdx, e *env) types.Var {
	if idx == cir.InvalidExprIdx {
		return c.errVar(c.rank)
	}
	expr := c.mod.Expr(idx)
	c.ExprTypes[idx] = c.inferExprNode(expr, e)
	return c.ExprTypes[idx]
}

func (c *Checker) inferExprNode(expr cir.Expr, e *env) types.Var {
	switch x := expr.(type) {
	case *cir.IntLit:
		return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.NumUnbound}})

	case *cir.FracLit:
		return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.FracUnbound}})

	case *cir.BoolLit:
		return c.boolType()

	case *cir.ScalarLit:
		return c.strType()

	case *cir.StrExpr:
		for _, seg := range x.Segments {
			if !seg.IsLiteral {
				c.inferExpr(seg.Expr, e)
			}
		}
		return c.strType()

	case *cir.LookupLocal:
		sch, ok := e.lookup(x.Pattern)
		if !ok {
			return c.errVar(c.rank)
		}
		return sch.instantiate(c.store, c.rank)

	case *cir.LookupExternal:
		// Cross-module type information isn't resolved yet (no linker
		// phase wired in); an external reference gets an unconstrained
		// var of its own so the rest of this module's inference still
		// proceeds.
		return c.store.Fresh(c.rank)

	case *cir.RuntimeError:
		return c.errVar(c.rank)

	case *cir.TagCtorExpr:
		args := make([]types.Var, len(x.Args))
		for i, a := range x.Args {
			args[i] = c.inferExpr(a, e)
		}
		return c.store.FreshStructure(c.rank, types.FlatType{
			Kind: types.FlatTagUnion,
			Tags: []types.Tag{{Name: x.Name, Args: args}},
			Ext:  c.store.Fresh(c.rank),
		})

	case *cir.ListExpr:
		if len(x.Elements) == 0 {
			return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatListUnbound})
		}
		elem := c.inferExpr(x.Elements[0], e)
		for _, el := range x.Elements[1:] {
			c.unify(x, elem, c.inferExpr(el, e))
		}
		return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatList, Elem: elem})

	case *cir.TupleExpr:
		elems := make([]types.Var, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = c.inferExpr(el, e)
		}
		return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatTuple, Elems: elems})

	case *cir.RecordExpr:
		if len(x.Fields) == 0 {
			return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatEmptyRecord})
		}
		fields := make([]types.Field, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = types.Field{Name: f.Name, Type: c.inferExpr(f.Value, e)}
		}
		return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatRecord, Fields: fields, Ext: types.NoVar})

	case *cir.RecordUpdateExpr:
		base := c.inferExpr(x.BaseExpr, e)
		fields := make([]types.Field, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = types.Field{Name: f.Name, Type: c.inferExpr(f.Value, e)}
		}
		ext := c.store.Fresh(c.rank)
		c.unify(x, base, c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatRecord, Fields: fields, Ext: ext}))
		return base

	case *cir.RecordAccessExpr:
		target := c.inferExpr(x.Target, e)
		field := c.store.Fresh(c.rank)
		ext := c.store.Fresh(c.rank)
		c.unify(x, target, c.store.FreshStructure(c.rank, types.FlatType{
			Kind:   types.FlatRecord,
			Fields: []types.Field{{Name: x.Field, Type: field}},
			Ext:    ext,
		}))
		return field

	case *cir.LambdaExpr:
		child := newEnv(e)
		params := make([]types.Var, len(x.Params))
		for i, p := range x.Params {
			params[i] = c.store.Fresh(c.rank)
			c.bindPatternShape(p, params[i], child)
		}
		ret := c.inferExpr(x.Body, child)
		return c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatFnUnbound, Fn: types.Func{Params: params, Ret: ret}})

	case *cir.ApplyExpr:
		fn := c.inferExpr(x.Func, e)
		args := make([]types.Var, len(x.Args))
		for i, a := range x.Args {
			args[i] = c.inferExpr(a, e)
		}
		ret := c.store.Fresh(c.rank)
		c.unify(x, fn, c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatFnUnbound, Fn: types.Func{Params: args, Ret: ret}}))
		return ret

	case *cir.BinOpExpr:
		return c.inferBinOp(x, e)

	case *cir.UnaryOpExpr:
		return c.inferUnaryOp(x, e)

	case *cir.IfExpr:
		boolv := c.boolType()
		var result types.Var
		for i, br := range x.Branches {
			c.unify(x, c.inferExpr(br.Cond, e), boolv)
			then := c.inferExpr(br.Then, e)
			if i == 0 {
				result = then
			} else {
				c.unify(x, result, then)
			}
		}
		c.unify(x, result, c.inferExpr(x.Else, e))
		return result

	case *cir.MatchExpr:
		return c.inferMatch(x, e)

	case *cir.BlockExpr:
		child := c.inferBlock(x.Defs, e)
		return c.inferExpr(x.Result, child)

	case *cir.DbgExpr:
		return c.inferExpr(x.Expr, e)

	case *cir.ExpectExpr:
		c.unify(x, c.inferExpr(x.Expr, e), c.boolType())
		return c.boolType()

	case *cir.CrashExpr:
		c.unify(x, c.inferExpr(x.Message, e), c.strType())
		return c.store.Fresh(c.rank)

	case *cir.MalformedExpr:
		return c.errVar(c.rank)
	}
	return c.errVar(c.rank)
}

func (c *Checker) inferMatch(x *cir.MatchExpr, e *env) types.Var {
	scrutinee := c.inferExpr(x.Scrutinee, e)
	if len(x.Cases) == 0 {
		return c.errVar(c.rank)
	}
	var result types.Var
	for i, mc := range x.Cases {
		caseEnv := newEnv(e)
		c.bindPatternShape(mc.Pattern, scrutinee, caseEnv)
		if mc.Guard != cir.InvalidExprIdx {
			c.unify(x, c.inferExpr(mc.Guard, caseEnv), c.boolType())
		}
		body := c.inferExpr(mc.Body, caseEnv)
		if i == 0 {
			result = body
		} else {
			c.unify(x, result, body)
		}
	}
	return result
}

func (c *Checker) inferBinOp(x *cir.BinOpExpr, e *env) types.Var {
	l := c.inferExpr(x.Left, e)
	r := c.inferExpr(x.Right, e)
	switch x.Op {
	case cir.OpAdd, cir.OpSub, cir.OpMul, cir.OpDiv, cir.OpFloorDiv, cir.OpMod:
		c.unify(x, l, r)
		return l
	case cir.OpEq, cir.OpNe, cir.OpLt, cir.OpGt, cir.OpLe, cir.OpGe:
		c.unify(x, l, r)
		return c.boolType()
	case cir.OpAnd, cir.OpOr:
		boolv := c.boolType()
		c.unify(x, l, boolv)
		c.unify(x, r, boolv)
		return boolv
	}
	return c.errVar(c.rank)
}

func (c *Checker) inferUnaryOp(x *cir.UnaryOpExpr, e *env) types.Var {
	operand := c.inferExpr(x.Operand, e)
	switch x.Op {
	case cir.OpNeg:
		c.unify(x, operand, c.store.FreshStructure(c.rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.NumUnbound}}))
		return operand
	case cir.OpNot:
		boolv := c.boolType()
		c.unify(x, operand, boolv)
		return boolv
	}
	return c.errVar(c.rank)
}

// inferBlock runs the same predeclare-then-infer-then-generalize shape
// CheckModule uses at the top level, scoped to one BlockExpr's Defs at
// a fresh rank so names local to the block don't leak generalization
// back into the enclosing one.
func (c *Checker) inferBlock(defs []cir.DefIdx, parent *env) *env {
	child := newEnv(parent)
	boundary := c.rank
	c.rank++

	vars := make([]types.Var, len(defs))
	for i, di := range defs {
		def := c.mod.Def(di)
		if def.Pattern == cir.InvalidPatternIdx {
			continue
		}
		v := c.store.Fresh(c.rank)
		vars[i] = v
		c.bindPatternShape(def.Pattern, v, child)
	}

	for i, di := range defs {
		def := c.mod.Def(di)
		bodyVar := c.inferExpr(def.Expr, child)

		if def.Pattern == cir.InvalidPatternIdx {
			continue
		}
		patVar := vars[i]
		c.unify(exprRegion{def.ExprRegion}, patVar, bodyVar)

		if def.Annotation != ast.InvalidTypeIdx {
			annoVar := c.typeFromAnno(def.Annotation, make(map[ident.Idx]types.Var), c.rank)
			c.unify(exprRegion{def.ExprRegion}, patVar, annoVar)
		}

		sch := c.store.Generalize(patVar, boundary)
		c.rebindPatternShape(def.Pattern, sch, child)
	}

	return child
}
