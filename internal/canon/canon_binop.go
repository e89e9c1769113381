package canon

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
)

var binOpTable = map[string]cir.BinOp{
	"+":  cir.OpAdd,
	"-":  cir.OpSub,
	"*":  cir.OpMul,
	"/":  cir.OpDiv,
	"//": cir.OpFloorDiv,
	"%":  cir.OpMod,
	"==": cir.OpEq,
	"!=": cir.OpNe,
	"<":  cir.OpLt,
	">":  cir.OpGt,
	"<=": cir.OpLe,
	">=": cir.OpGe,
	"and": cir.OpAnd,
	"or":  cir.OpOr,
}

// canonBinOp desugars a surface operator to cir's closed BinOp set.
// `|>` is the one exception: it desugars straight to an ApplyExpr
// (spec.md §4.4, "|> to function application") rather than a BinOp.
func (c *Canonicalizer) canonBinOp(e *ast.BinOpExpr) cir.ExprIdx {
	if e.Op == "|>" {
		left := c.canonExpr(e.Left)
		right := c.canonExpr(e.Right)
		return c.mod.NewExpr(&cir.ApplyExpr{Base: cir.Base{R: e.R}, Func: right, Args: []cir.ExprIdx{left}})
	}

	op, ok := binOpTable[e.Op]
	if !ok {
		c.errorf(e, "malformed_operator", "unknown operator "+e.Op)
		return c.mod.NewExpr(&cir.MalformedExpr{Base: cir.Base{R: e.R}, Reason: "malformed_operator"})
	}
	return c.mod.NewExpr(&cir.BinOpExpr{
		Base: cir.Base{R: e.R}, Op: op,
		Left: c.canonExpr(e.Left), Right: c.canonExpr(e.Right),
	})
}
