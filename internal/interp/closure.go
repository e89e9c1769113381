package interp

import (
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/layout"
)

// closureShape recomputes a lambda's capture list and the resulting
// Layout, deterministically from the LambdaExpr alone — used both
// when a closure value is created and, later, when it's called, so
// neither side needs to persist capture metadata in the value's bytes
// beyond the originating ExprIdx.
func (ip *Interp) closureShape(lambdaExpr cir.ExprIdx) ([]cir.PatternIdx, layout.Layout) {
	captures := ip.freeVarPatterns(lambdaExpr)
	fields := make([]layout.Field, len(captures))
	for i, p := range captures {
		fields[i] = layout.Field{Index: i, Layout: ip.layouts.Compute(ip.patternTypes[p])}
	}
	return captures, layout.NewClosureLayout(fields)
}

// writeClosureHeader fills in the 6-word header NewClosureLayout
// reserves: lambdaExpr (doubling as spec.md §4.7.3's body_idx, since
// recovering Body and Params only needs the LambdaExpr's own index),
// param/capture counts, and env size. params_span/captures_span
// collapse to plain counts here since this implementation recomputes
// Params and the capture list from lambdaExpr rather than slicing a
// separately materialized arena.
func (ip *Interp) writeClosureHeader(off uint32, lambdaExpr cir.ExprIdx, paramCount, captureCount int, envSize uint32) {
	buf := ip.stackMemory[off : off+layout.ClosureHeaderSize]
	putU32(buf[0:4], uint32(lambdaExpr))
	putU32(buf[4:8], uint32(paramCount))
	putU32(buf[8:12], 0)
	putU32(buf[12:16], uint32(captureCount))
	putU32(buf[16:20], 0)
	putU32(buf[20:24], envSize)
}

func (ip *Interp) readClosureLambdaExpr(off uint32) cir.ExprIdx {
	return cir.ExprIdx(getU32(ip.stackMemory[off : off+4]))
}

// evalLambda creates a closure value for x at the current bindings
// scope: resolves its free variables' current bindings, copies their
// bytes into a fresh closure allocation, and writes the header.
func (ip *Interp) evalLambda(idx cir.ExprIdx, x *cir.LambdaExpr) (valueEntry, error) {
	captures, cl := ip.closureShape(idx)

	off, err := ip.alloc(cl)
	if err != nil {
		return valueEntry{}, err
	}
	ip.writeClosureHeader(off, idx, len(x.Params), len(captures), cl.Size-cl.EnvOffset)

	for i, pat := range captures {
		b, ok := ip.lookupBinding(pat)
		if !ok {
			return valueEntry{}, fail(InvalidStackState, idx, "capture %d of lambda has no live binding", i)
		}
		f := cl.Captures[i]
		dst := ip.stackMemory[off+f.Offset : off+f.Offset+f.Layout.Size]
		copy(dst, ip.bytesOf(b.value))
	}
	return valueEntry{layout: cl, offset: off}, nil
}

// lookupBinding walks bindings_stack top-down, falling back to
// globals, per spec.md §4.7.3.
func (ip *Interp) lookupBinding(pat cir.PatternIdx) (Binding, bool) {
	for i := len(ip.bindingsStack) - 1; i >= 0; i-- {
		if ip.bindingsStack[i].pattern == pat {
			return ip.bindingsStack[i], true
		}
	}
	if v, ok := ip.globals[pat]; ok {
		return Binding{pattern: pat, value: v}, true
	}
	return Binding{}, false
}

// reattachCaptures pushes one fresh Binding per capture of the
// closure at closureVal onto bindings_stack, per spec.md §4.7.3 ("on
// call each capture is reattached as a fresh Binding into the
// closure's env").
func (ip *Interp) reattachCaptures(closureVal valueEntry) {
	lambdaExpr := ip.readClosureLambdaExpr(closureVal.offset)
	captures, cl := ip.closureShape(lambdaExpr)
	for i, pat := range captures {
		f := cl.Captures[i]
		ip.bindingsStack = append(ip.bindingsStack, Binding{
			pattern: pat,
			value:   valueEntry{layout: f.Layout, offset: closureVal.offset + f.Offset},
		})
	}
}
