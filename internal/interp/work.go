package interp

import "github.com/sunholo/lumen/internal/cir"

// WorkKind enumerates the work_stack item kinds spec.md §4.7.2 names.
// BinopFloorDiv/BinopMod and UnaryNot extend the spec's listed set —
// CIR's BinOp/UnaryOp enums (internal/cir/expr.go) carry floor-div,
// mod, and logical-not as first-class operators the checker already
// accepts, so the interpreter needs a place to schedule them too;
// they follow the same binop_*/unary_* shape the spec does name.
type WorkKind int8

const (
	KindEvalExpr WorkKind = iota

	KindBinopAdd
	KindBinopSub
	KindBinopMul
	KindBinopDiv
	KindBinopFloorDiv
	KindBinopMod
	KindBinopEq
	KindBinopNe
	KindBinopGt
	KindBinopLt
	KindBinopGe
	KindBinopLe
	KindBinopAnd
	KindBinopOr

	KindUnaryMinus
	KindUnaryNot

	KindIfCheckCondition
	KindLambdaCall
	KindLambdaReturn
	KindEvalRecordFields
	KindEvalTupleElements
	KindDbgLog
)

// WorkItem is one work_stack entry, per spec.md §4.7.2. Base and
// ValueMark are this implementation's concrete realization of the
// bookkeeping the spec describes only at the level of a generic
// "extra" slot: they snapshot stack_memory.used and len(value_stack)
// at schedule time so a continuation (record/tuple assembly, a call's
// return) knows where to truncate back to once its sub-evaluations
// have deposited their results.
type WorkItem struct {
	Kind      WorkKind
	Expr      cir.ExprIdx
	Extra     int32
	Base      uint32
	ValueMark int
}

func binopKind(op cir.BinOp) WorkKind {
	switch op {
	case cir.OpAdd:
		return KindBinopAdd
	case cir.OpSub:
		return KindBinopSub
	case cir.OpMul:
		return KindBinopMul
	case cir.OpDiv:
		return KindBinopDiv
	case cir.OpFloorDiv:
		return KindBinopFloorDiv
	case cir.OpMod:
		return KindBinopMod
	case cir.OpEq:
		return KindBinopEq
	case cir.OpNe:
		return KindBinopNe
	case cir.OpGt:
		return KindBinopGt
	case cir.OpLt:
		return KindBinopLt
	case cir.OpGe:
		return KindBinopGe
	case cir.OpLe:
		return KindBinopLe
	case cir.OpAnd:
		return KindBinopAnd
	case cir.OpOr:
		return KindBinopOr
	}
	return KindBinopAdd
}

func (ip *Interp) push(w WorkItem) {
	ip.workStack = append(ip.workStack, w)
}

func (ip *Interp) pop() WorkItem {
	n := len(ip.workStack) - 1
	w := ip.workStack[n]
	ip.workStack = ip.workStack[:n]
	return w
}

func (ip *Interp) pushValue(v valueEntry) {
	ip.valueStack = append(ip.valueStack, v)
}

func (ip *Interp) popValue() valueEntry {
	n := len(ip.valueStack) - 1
	v := ip.valueStack[n]
	ip.valueStack = ip.valueStack[:n]
	return v
}

// scheduleThen pushes continuation, then each of exprs in reverse, so
// the work_stack's LIFO pop order evaluates exprs left-to-right and
// fires continuation last, per spec.md §4.7.2's f(a,b) example.
func (ip *Interp) scheduleThen(continuation WorkItem, exprs ...cir.ExprIdx) {
	ip.push(continuation)
	for i := len(exprs) - 1; i >= 0; i-- {
		ip.push(WorkItem{Kind: KindEvalExpr, Expr: exprs[i]})
	}
}
