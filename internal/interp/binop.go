package interp

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/layout"
	"github.com/sunholo/lumen/internal/types"
)

// decScale is the 18-decimal-place fixed-point scale spec.md §4.7.4
// specifies for dec arithmetic: a dec's 16 raw bytes hold value *
// 10^18 as a two's-complement integer.
var decScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// evalBinop computes the result of applying kind to left/right,
// per spec.md §4.7.4: integer/dec binops read operands via their
// layout-stored precision, operate in a 128-bit accumulator, and
// write the result back at the left operand's precision; comparisons
// always produce a 1-byte bool.
func (ip *Interp) evalBinop(expr cir.ExprIdx, kind WorkKind, left, right valueEntry) (valueEntry, error) {
	switch kind {
	case KindBinopAnd:
		return ip.writeBool(ip.readBool(left) && ip.readBool(right))
	case KindBinopOr:
		return ip.writeBool(ip.readBool(left) || ip.readBool(right))
	case KindBinopEq, KindBinopNe, KindBinopGt, KindBinopLt, KindBinopGe, KindBinopLe:
		return ip.compareNum(expr, kind, left, right)
	default:
		return ip.arith(expr, kind, left, right)
	}
}

func (ip *Interp) compareNum(expr cir.ExprIdx, kind WorkKind, left, right valueEntry) (valueEntry, error) {
	var cmp int
	prec := left.layout.NumPrecision
	switch {
	case prec.IsFloat() || prec.IsDecimal():
		lf, rf := ip.readFloatLike(left), ip.readFloatLike(right)
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	default:
		l := bytesToBig(ip.bytesOf(left), prec.IsSigned())
		r := bytesToBig(ip.bytesOf(right), prec.IsSigned())
		cmp = l.Cmp(r)
	}
	var result bool
	switch kind {
	case KindBinopEq:
		result = cmp == 0
	case KindBinopNe:
		result = cmp != 0
	case KindBinopGt:
		result = cmp > 0
	case KindBinopLt:
		result = cmp < 0
	case KindBinopGe:
		result = cmp >= 0
	case KindBinopLe:
		result = cmp <= 0
	}
	return ip.writeBool(result)
}

func (ip *Interp) arith(expr cir.ExprIdx, kind WorkKind, left, right valueEntry) (valueEntry, error) {
	prec := left.layout.NumPrecision
	switch {
	case prec.IsDecimal():
		return ip.arithDecimal(expr, kind, left, right)
	case prec.IsFloat():
		return ip.arithFloat(expr, kind, left, right)
	default:
		return ip.arithInt(expr, kind, left, right)
	}
}

func (ip *Interp) arithInt(expr cir.ExprIdx, kind WorkKind, left, right valueEntry) (valueEntry, error) {
	prec := left.layout.NumPrecision
	signed := prec.IsSigned()
	l := bytesToBig(ip.bytesOf(left), signed)
	r := bytesToBig(ip.bytesOf(right), signed)

	var result *big.Int
	switch kind {
	case KindBinopAdd:
		result = new(big.Int).Add(l, r)
	case KindBinopSub:
		result = new(big.Int).Sub(l, r)
	case KindBinopMul:
		result = new(big.Int).Mul(l, r)
	case KindBinopDiv:
		if r.Sign() == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "integer division by zero")
		}
		result = new(big.Int).Quo(l, r)
	case KindBinopFloorDiv:
		if r.Sign() == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "integer division by zero")
		}
		result, _ = new(big.Int).DivMod(l, r, new(big.Int))
	case KindBinopMod:
		if r.Sign() == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "integer modulo by zero")
		}
		_, result = new(big.Int).DivMod(l, r, new(big.Int))
	default:
		return valueEntry{}, fail(InvalidStackState, expr, "unrecognized integer binop %v", kind)
	}

	return ip.writeIntResult(left.layout, result)
}

func (ip *Interp) arithFloat(expr cir.ExprIdx, kind WorkKind, left, right valueEntry) (valueEntry, error) {
	l, r := ip.readFloatLike(left), ip.readFloatLike(right)
	var result float64
	switch kind {
	case KindBinopAdd:
		result = l + r
	case KindBinopSub:
		result = l - r
	case KindBinopMul:
		result = l * r
	case KindBinopDiv:
		if r == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "float division by zero")
		}
		result = l / r
	case KindBinopFloorDiv:
		if r == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "float division by zero")
		}
		result = math.Floor(l / r)
	case KindBinopMod:
		if r == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "float modulo by zero")
		}
		result = math.Mod(l, r)
	default:
		return valueEntry{}, fail(InvalidStackState, expr, "unrecognized float binop %v", kind)
	}
	return ip.writeFloatResult(left.layout, result)
}

func (ip *Interp) arithDecimal(expr cir.ExprIdx, kind WorkKind, left, right valueEntry) (valueEntry, error) {
	l := bytesToBig(ip.bytesOf(left), true)
	r := bytesToBig(ip.bytesOf(right), true)

	var result *big.Int
	switch kind {
	case KindBinopAdd:
		result = new(big.Int).Add(l, r)
	case KindBinopSub:
		result = new(big.Int).Sub(l, r)
	case KindBinopMul:
		result = new(big.Int).Quo(new(big.Int).Mul(l, r), decScale)
	case KindBinopDiv:
		if r.Sign() == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "dec division by zero")
		}
		result = new(big.Int).Quo(new(big.Int).Mul(l, decScale), r)
	case KindBinopFloorDiv:
		if r.Sign() == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "dec division by zero")
		}
		num := new(big.Int).Mul(l, decScale)
		result, _ = new(big.Int).DivMod(num, r, new(big.Int))
	case KindBinopMod:
		if r.Sign() == 0 {
			return valueEntry{}, fail(DivisionByZero, expr, "dec modulo by zero")
		}
		_, result = new(big.Int).DivMod(l, r, new(big.Int))
	default:
		return valueEntry{}, fail(InvalidStackState, expr, "unrecognized dec binop %v", kind)
	}
	return ip.writeIntResult(left.layout, result)
}

func (ip *Interp) evalUnary(expr cir.ExprIdx, op cir.UnaryOp, operand valueEntry) (valueEntry, error) {
	switch op {
	case cir.OpNot:
		return ip.writeBool(!ip.readBool(operand))
	case cir.OpNeg:
		prec := operand.layout.NumPrecision
		if prec.IsFloat() {
			return ip.writeFloatResult(operand.layout, -ip.readFloatLike(operand))
		}
		n := bytesToBig(ip.bytesOf(operand), true)
		return ip.writeIntResult(operand.layout, new(big.Int).Neg(n))
	}
	return valueEntry{}, fail(InvalidStackState, expr, "unrecognized unary op %v", op)
}

func (ip *Interp) writeIntResult(l layout.Layout, n *big.Int) (valueEntry, error) {
	off, err := ip.alloc(l)
	if err != nil {
		return valueEntry{}, err
	}
	copy(ip.stackMemory[off:off+l.Size], bigToBytes(n, int(l.Size)))
	return valueEntry{layout: l, offset: off}, nil
}

func (ip *Interp) writeFloatResult(l layout.Layout, v float64) (valueEntry, error) {
	off, err := ip.alloc(l)
	if err != nil {
		return valueEntry{}, err
	}
	buf := ip.stackMemory[off : off+l.Size]
	if l.NumPrecision == types.PrecF32 {
		putU32(buf, math.Float32bits(float32(v)))
	} else {
		putU64(buf, math.Float64bits(v))
	}
	return valueEntry{layout: l, offset: off}, nil
}

// readFloatLike reads a float32/float64/dec value as a float64 for
// comparison and non-arithmetic purposes (dec is converted by
// dividing its fixed-point integer by the scale).
func (ip *Interp) readFloatLike(v valueEntry) float64 {
	buf := ip.bytesOf(v)
	switch {
	case v.layout.NumPrecision == types.PrecF32:
		return float64(math.Float32frombits(getU32(buf)))
	case v.layout.NumPrecision == types.PrecF64:
		return math.Float64frombits(getU64(buf))
	case v.layout.NumPrecision.IsDecimal():
		n := bytesToBig(buf, true)
		f := new(big.Float).SetInt(n)
		f.Quo(f, new(big.Float).SetInt(decScale))
		result, _ := f.Float64()
		return result
	default:
		return float64(bytesToBig(buf, v.layout.NumPrecision.IsSigned()).Int64())
	}
}

func parseFloatLiteral(text string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSuffix(text, "f"), 64)
	return v
}

func putU64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

func getU64(buf []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v
}

// bytesToBig interprets buf as a little-endian integer, sign-extended
// when signed is true and the high bit of the most significant byte
// is set.
func bytesToBig(buf []byte, signed bool) *big.Int {
	be := make([]byte, len(buf))
	for i, b := range buf {
		be[len(buf)-1-i] = b
	}
	n := new(big.Int).SetBytes(be)
	if signed && len(buf) > 0 && buf[len(buf)-1]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(buf)))
		n.Sub(n, mod)
	}
	return n
}

// bigToBytes truncates n (two's-complement wraparound via Mod into
// [0, 2^(8*size))) to size little-endian bytes.
func bigToBytes(n *big.Int, size int) []byte {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*size))
	m := new(big.Int).Mod(n, mod)
	be := m.FillBytes(make([]byte, size))
	le := make([]byte, size)
	for i, b := range be {
		le[size-1-i] = b
	}
	return le
}
