package interp

import (
	"math/big"

	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/layout"
)

// Eval drives the work_stack to completion and returns the single
// value left on value_stack, per spec.md §4.7.2. Callers supply the
// expression to evaluate; Run (module.go) is the only caller that
// needs to cross Def boundaries.
//
// Eval is reentrant: a handful of expression forms whose continuation
// can't be expressed as a single scheduled WorkItem (match, which must
// try several candidate cases; a block's sequential defs; crash/expect,
// which need a fully-formed value before deciding whether to fail)
// call Eval again for a sub-expression rather than scheduling it.
// workBase pins the point below which this invocation's own loop must
// not drain, so a nested call only processes the work it itself
// pushed and returns control to the outer loop's remaining items.
func (ip *Interp) Eval(expr cir.ExprIdx) (valueEntry, error) {
	valueBase := len(ip.valueStack)
	workBase := len(ip.workStack)
	ip.push(WorkItem{Kind: KindEvalExpr, Expr: expr})
	for len(ip.workStack) > workBase {
		w := ip.pop()
		if err := ip.step(w); err != nil {
			return valueEntry{}, err
		}
	}
	if len(ip.valueStack) != valueBase+1 {
		return valueEntry{}, fail(InvalidStackState, expr, "evaluation left %d values on value_stack, expected 1", len(ip.valueStack)-valueBase)
	}
	return ip.popValue(), nil
}

// step processes one work_stack item, per spec.md §4.7.2's dispatch
// table: either scheduling an expression's sub-evaluations (pushing a
// continuation beneath them) or, for a continuation item, popping the
// values its sub-evaluations deposited and combining them.
func (ip *Interp) step(w WorkItem) error {
	switch w.Kind {
	case KindEvalExpr:
		return ip.evalExpr(w.Expr)

	case KindBinopAdd, KindBinopSub, KindBinopMul, KindBinopDiv, KindBinopFloorDiv, KindBinopMod,
		KindBinopEq, KindBinopNe, KindBinopGt, KindBinopLt, KindBinopGe, KindBinopLe,
		KindBinopAnd, KindBinopOr:
		right := ip.popValue()
		left := ip.popValue()
		v, err := ip.evalBinop(w.Expr, w.Kind, left, right)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case KindUnaryMinus, KindUnaryNot:
		operand := ip.popValue()
		op := cir.OpNeg
		if w.Kind == KindUnaryNot {
			op = cir.OpNot
		}
		v, err := ip.evalUnary(w.Expr, op, operand)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case KindIfCheckCondition:
		return ip.continueIf(w)

	case KindLambdaCall:
		return ip.continueLambdaCall(w)

	case KindLambdaReturn:
		return ip.continueLambdaReturn(w)

	case KindEvalRecordFields:
		return ip.continueRecordFields(w)

	case KindEvalTupleElements:
		return ip.continueTupleElements(w)

	case KindDbgLog:
		v := ip.popValue()
		ip.log.WithField("expr", w.Expr).Debug("dbg")
		ip.pushValue(v)
		return nil
	}
	return fail(InvalidStackState, w.Expr, "unrecognized work item kind %v", w.Kind)
}

// evalExpr schedules the sub-evaluations (if any) a CIR expression
// needs before it can produce a value, per spec.md §4.7.2's
// left-to-right, continuation-last ordering.
func (ip *Interp) evalExpr(idx cir.ExprIdx) error {
	switch x := ip.mod.Expr(idx).(type) {
	case *cir.IntLit:
		v, err := ip.writeIntLit(idx, x)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case *cir.FracLit:
		v, err := ip.writeFracLit(idx, x)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case *cir.BoolLit:
		v, err := ip.writeBool(x.Value)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case *cir.ScalarLit:
		v, err := ip.writeScalar(x.Value)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case *cir.StrExpr:
		return ip.evalStrExpr(idx, x)

	case *cir.LookupLocal:
		b, ok := ip.lookupBinding(x.Pattern)
		if !ok {
			return fail(PatternNotFound, idx, "unbound local reference")
		}
		ip.pushValue(b.value)
		return nil

	case *cir.LookupExternal:
		return fail(Crash, idx, "external reference %q is unresolved at interpretation time", ip.idents.Text(x.Ref.Name))

	case *cir.RuntimeError:
		return fail(Crash, idx, "%s", x.Reason)

	case *cir.TagCtorExpr:
		return ip.evalTagCtor(idx, x)

	case *cir.ListExpr:
		return ip.evalListExpr(idx, x)

	case *cir.TupleExpr:
		ip.scheduleThen(WorkItem{Kind: KindEvalTupleElements, Expr: idx, Extra: int32(len(x.Elements)), Base: ip.used, ValueMark: len(ip.valueStack)}, x.Elements...)
		return nil

	case *cir.RecordExpr:
		exprs := make([]cir.ExprIdx, len(x.Fields))
		for i, f := range x.Fields {
			exprs[i] = f.Value
		}
		ip.scheduleThen(WorkItem{Kind: KindEvalRecordFields, Expr: idx, Extra: int32(len(exprs)), Base: ip.used, ValueMark: len(ip.valueStack)}, exprs...)
		return nil

	case *cir.RecordUpdateExpr:
		return ip.evalRecordUpdate(idx, x)

	case *cir.RecordAccessExpr:
		return ip.evalRecordAccess(idx, x)

	case *cir.LambdaExpr:
		v, err := ip.evalLambda(idx, x)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case *cir.ApplyExpr:
		ip.push(WorkItem{Kind: KindLambdaCall, Expr: idx, Extra: int32(len(x.Args)), Base: ip.used, ValueMark: len(ip.valueStack)})
		for i := len(x.Args) - 1; i >= 0; i-- {
			ip.push(WorkItem{Kind: KindEvalExpr, Expr: x.Args[i]})
		}
		ip.push(WorkItem{Kind: KindEvalExpr, Expr: x.Func})
		return nil

	case *cir.BinOpExpr:
		ip.scheduleThen(WorkItem{Kind: binopKind(x.Op), Expr: idx}, x.Left, x.Right)
		return nil

	case *cir.UnaryOpExpr:
		kind := KindUnaryMinus
		if x.Op == cir.OpNot {
			kind = KindUnaryNot
		}
		ip.scheduleThen(WorkItem{Kind: kind, Expr: idx}, x.Operand)
		return nil

	case *cir.IfExpr:
		return ip.evalIf(idx, x, 0)

	case *cir.MatchExpr:
		return ip.evalMatch(idx, x)

	case *cir.BlockExpr:
		return ip.evalBlock(idx, x)

	case *cir.DbgExpr:
		ip.scheduleThen(WorkItem{Kind: KindDbgLog, Expr: idx}, x.Expr)
		return nil

	case *cir.ExpectExpr:
		return ip.evalExpect(idx, x)

	case *cir.CrashExpr:
		return ip.evalCrash(idx, x)

	case *cir.MalformedExpr:
		return fail(Crash, idx, "%s", x.Reason)
	}
	return fail(InvalidStackState, idx, "unrecognized expression node")
}

// literalLayout resolves a literal expression's Layout via the
// checker's ExprTypes side table: the checker has already pinned down
// (or defaulted, per numLayout) the concrete precision a literal's
// bytes should be encoded at, so the interpreter never re-derives it
// from the surface-syntax suffix text itself.
func (ip *Interp) literalLayout(idx cir.ExprIdx) layout.Layout {
	return ip.layouts.Compute(ip.exprTypes[idx])
}

func (ip *Interp) writeIntLit(idx cir.ExprIdx, x *cir.IntLit) (valueEntry, error) {
	l := ip.literalLayout(idx)
	n, ok := new(big.Int).SetString(x.Text, 0)
	if !ok {
		return valueEntry{}, fail(Crash, idx, "malformed integer literal %q", x.Text)
	}
	if l.NumPrecision.IsDecimal() {
		n = new(big.Int).Mul(n, decScale)
	}
	return ip.writeIntResult(l, n)
}

func (ip *Interp) writeFracLit(idx cir.ExprIdx, x *cir.FracLit) (valueEntry, error) {
	l := ip.literalLayout(idx)
	f := parseFloatLiteral(x.Text)
	if l.NumPrecision.IsDecimal() {
		scaled := new(big.Float).Mul(big.NewFloat(f), new(big.Float).SetInt(decScale))
		n, _ := scaled.Int(nil)
		return ip.writeIntResult(l, n)
	}
	return ip.writeFloatResult(l, f)
}

func (ip *Interp) writeScalar(r rune) (valueEntry, error) {
	l := layout.Layout{Size: 4, Align: 4, Repr: layout.ReprScalar}
	off, err := ip.alloc(l)
	if err != nil {
		return valueEntry{}, err
	}
	putU32(ip.stackMemory[off:off+4], uint32(r))
	return valueEntry{layout: l, offset: off}, nil
}
