package interp

import (
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/layout"
)

// continueLambdaCall fires once an ApplyExpr's function and all of its
// arguments have been evaluated (value_stack holds, bottom to top,
// the function value then each argument in order). It binds the
// closure's captures and parameters into fresh bindings_stack entries
// and schedules the body for evaluation followed by a lambda_return
// continuation, per spec.md §4.7.3.
func (ip *Interp) continueLambdaCall(w WorkItem) error {
	n := int(w.Extra)
	args := popN(ip, n)
	funcVal := ip.popValue()

	if funcVal.layout.Repr != layout.ReprClosure {
		return fail(TypeMismatch, w.Expr, "apply target is not a closure value")
	}
	lambdaExpr := ip.readClosureLambdaExpr(funcVal.offset)
	lam, ok := ip.mod.Expr(lambdaExpr).(*cir.LambdaExpr)
	if !ok {
		return fail(InvalidStackState, w.Expr, "closure header references a non-lambda expression")
	}
	if len(lam.Params) != n {
		return fail(ArityMismatch, w.Expr, "closure expects %d argument(s), got %d", len(lam.Params), n)
	}
	if len(ip.frameStack) >= ip.limits.MaxFrameDepth {
		return fail(StackOverflow, w.Expr, "call depth exceeded limit of %d", ip.limits.MaxFrameDepth)
	}

	ip.frameStack = append(ip.frameStack, CallFrame{
		stackBase:    w.Base,
		valueBase:    w.ValueMark,
		bindingsBase: len(ip.bindingsStack),
		workBase:     len(ip.workStack),
	})

	ip.reattachCaptures(funcVal)
	for i, p := range lam.Params {
		var bound []Binding
		ok, err := ip.bindPattern(p, args[i], &bound)
		if err != nil {
			return err
		}
		if !ok {
			return fail(PatternNotFound, w.Expr, "argument %d did not match its parameter pattern", i)
		}
		ip.bindingsStack = append(ip.bindingsStack, bound...)
	}

	ip.push(WorkItem{Kind: KindLambdaReturn, Expr: lambdaExpr})
	ip.push(WorkItem{Kind: KindEvalExpr, Expr: lam.Body})
	return nil
}

// continueLambdaReturn fires once a call's body has produced its
// value: it pops the matching CallFrame, discards the captures/
// parameter bindings it introduced, and relocates the return value
// out from under the call's now-dead stack_memory region so the
// caller sees it at a stable offset below frame.stackBase.
func (ip *Interp) continueLambdaReturn(w WorkItem) error {
	n := len(ip.frameStack) - 1
	frame := ip.frameStack[n]
	ip.frameStack = ip.frameStack[:n]

	result := ip.popValue()
	relocated, err := ip.relocate(frame.stackBase, result)
	if err != nil {
		return err
	}
	ip.bindingsStack = ip.bindingsStack[:frame.bindingsBase]
	ip.pushValue(relocated)
	return nil
}
