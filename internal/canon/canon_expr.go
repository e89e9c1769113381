package canon

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/ident"
)

// canonExpr lowers one AST expression to CIR, recursing into children.
func (c *Canonicalizer) canonExpr(idx ast.ExprIdx) cir.ExprIdx {
	if idx == ast.InvalidExprIdx {
		return cir.InvalidExprIdx
	}
	switch e := c.file.Expr(idx).(type) {
	case *ast.IntLit:
		return c.mod.NewExpr(&cir.IntLit{Base: cir.Base{R: e.R}, Text: e.Text, Precision: e.Precision})

	case *ast.FloatLit:
		return c.mod.NewExpr(&cir.FracLit{Base: cir.Base{R: e.R}, Text: e.Text, Precision: e.Precision})

	case *ast.BoolLit:
		return c.mod.NewExpr(&cir.BoolLit{Base: cir.Base{R: e.R}, Value: e.Value})

	case *ast.ScalarLit:
		return c.mod.NewExpr(&cir.ScalarLit{Base: cir.Base{R: e.R}, Value: e.Value})

	case *ast.StrExpr:
		segs := make([]cir.StrSegment, len(e.Parts))
		for i, p := range e.Parts {
			if p.IsLiteral {
				segs[i] = cir.StrSegment{IsLiteral: true, Literal: p.Literal}
			} else {
				segs[i] = cir.StrSegment{Expr: c.canonExpr(p.Expr)}
			}
		}
		return c.mod.NewExpr(&cir.StrExpr{Base: cir.Base{R: e.R}, Segments: segs})

	case *ast.VarExpr:
		return c.resolveValue(e.Name, e)

	case *ast.TagCtorExpr:
		args := make([]cir.ExprIdx, len(e.Args))
		for i, a := range e.Args {
			args[i] = c.canonExpr(a)
		}
		return c.mod.NewExpr(&cir.TagCtorExpr{Base: cir.Base{R: e.R}, Name: e.Name, Args: args})

	case *ast.ListExpr:
		elems := make([]cir.ExprIdx, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = c.canonExpr(el)
		}
		return c.mod.NewExpr(&cir.ListExpr{Base: cir.Base{R: e.R}, Elements: elems})

	case *ast.TupleExpr:
		elems := make([]cir.ExprIdx, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = c.canonExpr(el)
		}
		return c.mod.NewExpr(&cir.TupleExpr{Base: cir.Base{R: e.R}, Elements: elems})

	case *ast.RecordExpr:
		fields := make([]cir.FieldInit, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = cir.FieldInit{Name: f.Name, Value: c.canonExpr(f.Value)}
		}
		return c.mod.NewExpr(&cir.RecordExpr{Base: cir.Base{R: e.R}, Fields: fields})

	case *ast.RecordUpdateExpr:
		fields := make([]cir.FieldInit, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = cir.FieldInit{Name: f.Name, Value: c.canonExpr(f.Value)}
		}
		return c.mod.NewExpr(&cir.RecordUpdateExpr{Base: cir.Base{R: e.R}, BaseExpr: c.canonExpr(e.BaseExpr), Fields: fields})

	case *ast.RecordAccessExpr:
		return c.mod.NewExpr(&cir.RecordAccessExpr{Base: cir.Base{R: e.R}, Target: c.canonExpr(e.Target), Field: e.Field})

	case *ast.LambdaExpr:
		c.scope = NewScope(c.scope)
		params := make([]cir.PatternIdx, len(e.Params))
		for i, p := range e.Params {
			params[i] = c.canonPattern(p)
		}
		body := c.canonExpr(e.Body)
		c.scope = c.scope.parent
		return c.mod.NewExpr(&cir.LambdaExpr{Base: cir.Base{R: e.R}, Params: params, Body: body})

	case *ast.ApplyExpr:
		args := make([]cir.ExprIdx, len(e.Args))
		for i, a := range e.Args {
			args[i] = c.canonExpr(a)
		}
		return c.mod.NewExpr(&cir.ApplyExpr{Base: cir.Base{R: e.R}, Func: c.canonExpr(e.Func), Args: args})

	case *ast.BinOpExpr:
		return c.canonBinOp(e)

	case *ast.UnaryOpExpr:
		op := cir.OpNeg
		if e.Op == "!" {
			op = cir.OpNot
		}
		return c.mod.NewExpr(&cir.UnaryOpExpr{Base: cir.Base{R: e.R}, Op: op, Operand: c.canonExpr(e.Operand)})

	case *ast.IfExpr:
		branches := make([]cir.IfBranch, len(e.Branches))
		for i, b := range e.Branches {
			branches[i] = cir.IfBranch{Cond: c.canonExpr(b.Cond), Then: c.canonExpr(b.Then)}
		}
		return c.mod.NewExpr(&cir.IfExpr{Base: cir.Base{R: e.R}, Branches: branches, Else: c.canonExpr(e.Else)})

	case *ast.WhenExpr:
		scrutinee := c.canonExpr(e.Scrutinee)
		cases := make([]cir.MatchCase, len(e.Cases))
		for i, wc := range e.Cases {
			c.scope = NewScope(c.scope)
			pat := c.canonPattern(wc.Pattern)
			guard := c.canonExpr(wc.Guard)
			body := c.canonExpr(wc.Body)
			c.scope = c.scope.parent
			cases[i] = cir.MatchCase{Pattern: pat, Guard: guard, Body: body}
		}
		exhaustive := c.matchExhaustive(e.Cases)
		if !exhaustive {
			c.warnf(e, "non_exhaustive_match", "match does not cover every possible value")
		}
		return c.mod.NewExpr(&cir.MatchExpr{Base: cir.Base{R: e.R}, Scrutinee: scrutinee, Cases: cases, Exhaustive: exhaustive})

	case *ast.BlockExpr:
		c.scope = NewScope(c.scope)
		// Block-local decls are predeclared first (same recursion
		// invariant as top level), then lowered in source order.
		for _, sidx := range e.Stmts {
			if decl, ok := c.file.Stmt(sidx).(*ast.DeclStmt); ok && decl.Kind == ast.DeclLet {
				c.predeclarePattern(decl.Pattern)
			}
		}
		defs := make([]cir.DefIdx, 0, len(e.Stmts))
		for _, sidx := range e.Stmts {
			decl, ok := c.file.Stmt(sidx).(*ast.DeclStmt)
			if !ok {
				continue
			}
			var patIdx cir.PatternIdx
			if cached, ok := c.declPattern[decl.Pattern]; ok {
				patIdx = cached
			} else {
				patIdx = c.canonPattern(decl.Pattern)
			}
			exprIdx := c.canonExpr(decl.Expr)
			kind := cir.DefLet
			switch decl.Kind {
			case ast.DeclStmtFx:
				kind = cir.DefStmtFx
			case ast.DeclIgnoredFx:
				kind = cir.DefIgnoredFx
			}
			defs = append(defs, c.mod.NewDef(cir.Def{
				Pattern: patIdx, PatternRegion: decl.R,
				Expr: exprIdx, ExprRegion: decl.R,
				Annotation: decl.Annotation, Kind: kind,
			}))
		}
		result := c.canonExpr(e.Result)
		c.scope = c.scope.parent
		return c.mod.NewExpr(&cir.BlockExpr{Base: cir.Base{R: e.R}, Defs: defs, Result: result})

	case *ast.DbgExpr:
		return c.mod.NewExpr(&cir.DbgExpr{Base: cir.Base{R: e.R}, Expr: c.canonExpr(e.Expr)})

	case *ast.ExpectExpr:
		return c.mod.NewExpr(&cir.ExpectExpr{Base: cir.Base{R: e.R}, Expr: c.canonExpr(e.Expr)})

	case *ast.CrashExpr:
		return c.mod.NewExpr(&cir.CrashExpr{Base: cir.Base{R: e.R}, Message: c.canonExpr(e.Message)})

	case *ast.MalformedExpr:
		return c.mod.NewExpr(&cir.MalformedExpr{Base: cir.Base{R: e.R}, Reason: e.Reason})
	}
	return cir.InvalidExprIdx
}

// resolveValue resolves a lowercase identifier reference to a local
// binder, an external import, or a runtime_error(ident_not_in_scope)
// node plus diagnostic (spec.md §4.4).
func (c *Canonicalizer) resolveValue(name ident.Idx, e *ast.VarExpr) cir.ExprIdx {
	b, ok := c.scope.Resolve(name, KindValue)
	if !ok {
		c.errorf(e, "ident_not_in_scope", "name "+c.file.Idents.Text(name)+" is not in scope")
		return c.mod.NewExpr(&cir.RuntimeError{Base: cir.Base{R: e.R}, Reason: "ident_not_in_scope"})
	}
	if b.isExternal {
		return c.mod.NewExpr(&cir.LookupExternal{Base: cir.Base{R: e.R}, Ref: cir.External{
			Module: b.externalModule, Name: name, Kind: cir.ExternalValue,
		}})
	}
	return c.mod.NewExpr(&cir.LookupLocal{Base: cir.Base{R: e.R}, Pattern: cir.PatternIdx(b.pattern)})
}
