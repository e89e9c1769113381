package interp

import (
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/layout"
)

// evalStrExpr concatenates a string literal's flattened segments.
// The canonicalizer lowers each embedded expression unchanged, with no
// conversion call inserted, and each non-literal segment's value is
// read back out via readString once evaluated.
func (ip *Interp) evalStrExpr(idx cir.ExprIdx, x *cir.StrExpr) error {
	exprs := make([]cir.ExprIdx, 0, len(x.Segments))
	for _, seg := range x.Segments {
		if !seg.IsLiteral {
			exprs = append(exprs, seg.Expr)
		}
	}
	ip.scheduleThen(WorkItem{Kind: KindEvalRecordFields, Expr: idx, Extra: int32(len(exprs)), Base: ip.used, ValueMark: len(ip.valueStack)}, exprs...)
	return nil
}

// assembleString concatenates a StrExpr's segments, then truncates
// stack_memory back to base before writing the result — the segment
// values' text already lives in ip.strings (readString never touches
// stack_memory bytes directly), so their bump-allocated headers are
// pure waste once concatenated.
func (ip *Interp) assembleString(base uint32, x *cir.StrExpr, segmentValues []valueEntry) (valueEntry, error) {
	var out []byte
	vi := 0
	for _, seg := range x.Segments {
		if seg.IsLiteral {
			out = append(out, ip.mod.Source.Strings.Text(seg.Literal)...)
		} else {
			out = append(out, ip.readString(segmentValues[vi])...)
			vi++
		}
	}
	ip.truncate(base)
	return ip.writeString(string(out))
}

func (ip *Interp) evalTagCtor(idx cir.ExprIdx, x *cir.TagCtorExpr) error {
	ip.scheduleThen(WorkItem{Kind: KindEvalTupleElements, Expr: idx, Extra: int32(len(x.Args)), Base: ip.used, ValueMark: len(ip.valueStack)}, x.Args...)
	return nil
}

// evalListExpr allocates a list header only; elements are evaluated
// for their side effects and discarded immediately, per spec.md §4.6
// ("list elements reserved by size but never expanded") — there is no
// populated-list representation for this interpreter to store them
// into.
func (ip *Interp) evalListExpr(idx cir.ExprIdx, x *cir.ListExpr) error {
	base := ip.used
	for _, e := range x.Elements {
		if _, err := ip.Eval(e); err != nil {
			return err
		}
	}
	ip.truncate(base)
	l := layout.Layout{Size: 24, Align: 8, Repr: layout.ReprList}
	off, err := ip.alloc(l)
	if err != nil {
		return err
	}
	for i := off; i < off+l.Size; i++ {
		ip.stackMemory[i] = 0
	}
	ip.pushValue(valueEntry{layout: l, offset: off})
	return nil
}

func (ip *Interp) evalRecordUpdate(idx cir.ExprIdx, x *cir.RecordUpdateExpr) error {
	watermark := ip.used
	base, err := ip.Eval(x.BaseExpr)
	if err != nil {
		return err
	}
	l := ip.literalLayout(idx)
	buf := make([]byte, l.Size)
	copy(buf, ip.bytesOf(base))
	for _, f := range x.Fields {
		fv, err := ip.Eval(f.Value)
		if err != nil {
			return err
		}
		target, ok := fieldByName(l.Fields, f.Name)
		if !ok {
			return fail(InvalidStackState, idx, "record update field %q has no matching layout", ip.idents.Text(f.Name))
		}
		copy(buf[target.Offset:target.Offset+target.Layout.Size], ip.bytesOf(fv))
	}
	ip.truncate(watermark)
	off, err := ip.alloc(l)
	if err != nil {
		return err
	}
	copy(ip.stackMemory[off:off+l.Size], buf)
	ip.pushValue(valueEntry{layout: l, offset: off})
	return nil
}

func (ip *Interp) evalRecordAccess(idx cir.ExprIdx, x *cir.RecordAccessExpr) error {
	target, err := ip.Eval(x.Target)
	if err != nil {
		return err
	}
	f, ok := fieldByName(target.layout.Fields, x.Field)
	if !ok {
		return fail(InvalidStackState, idx, "record access field %q has no matching layout", ip.idents.Text(x.Field))
	}
	ip.pushValue(valueEntry{layout: f.Layout, offset: target.offset + f.Offset})
	return nil
}

// evalIf evaluates branches[i]'s condition, scheduling a
// KindIfCheckCondition continuation that decides (once the condition
// value is on value_stack) whether to evaluate that branch's Then or
// move on to branch i+1 / the Else, per spec.md §4.7.2.
func (ip *Interp) evalIf(idx cir.ExprIdx, x *cir.IfExpr, i int) error {
	if i >= len(x.Branches) {
		ip.push(WorkItem{Kind: KindEvalExpr, Expr: x.Else})
		return nil
	}
	ip.push(WorkItem{Kind: KindIfCheckCondition, Expr: idx, Extra: int32(i)})
	ip.push(WorkItem{Kind: KindEvalExpr, Expr: x.Branches[i].Cond})
	return nil
}

func (ip *Interp) continueIf(w WorkItem) error {
	x, ok := ip.mod.Expr(w.Expr).(*cir.IfExpr)
	if !ok {
		return fail(InvalidStackState, w.Expr, "if_check_condition continuation on non-IfExpr")
	}
	cond := ip.popValue()
	i := int(w.Extra)
	if ip.readBool(cond) {
		ip.push(WorkItem{Kind: KindEvalExpr, Expr: x.Branches[i].Then})
		return nil
	}
	return ip.evalIf(w.Expr, x, i+1)
}

func (ip *Interp) evalMatch(idx cir.ExprIdx, x *cir.MatchExpr) error {
	scrutinee, err := ip.Eval(x.Scrutinee)
	if err != nil {
		return err
	}
	for _, mc := range x.Cases {
		var bindings []Binding
		ok, err := ip.bindPattern(mc.Pattern, scrutinee, &bindings)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		base := len(ip.bindingsStack)
		ip.bindingsStack = append(ip.bindingsStack, bindings...)
		if mc.Guard != cir.InvalidExprIdx {
			gv, err := ip.Eval(mc.Guard)
			if err != nil {
				ip.bindingsStack = ip.bindingsStack[:base]
				return err
			}
			if !ip.readBool(gv) {
				ip.bindingsStack = ip.bindingsStack[:base]
				continue
			}
		}
		v, err := ip.Eval(mc.Body)
		ip.bindingsStack = ip.bindingsStack[:base]
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil
	}
	return fail(PatternNotFound, idx, "no match case matched the scrutinee")
}

func (ip *Interp) evalBlock(idx cir.ExprIdx, x *cir.BlockExpr) error {
	base := len(ip.bindingsStack)
	for _, defIdx := range x.Defs {
		def := ip.mod.Def(defIdx)
		v, err := ip.Eval(def.Expr)
		if err != nil {
			ip.bindingsStack = ip.bindingsStack[:base]
			return err
		}
		var bindings []Binding
		ok, err := ip.bindPattern(def.Pattern, v, &bindings)
		if err != nil {
			ip.bindingsStack = ip.bindingsStack[:base]
			return err
		}
		if !ok {
			ip.bindingsStack = ip.bindingsStack[:base]
			return fail(PatternNotFound, idx, "block def's pattern did not match its own value")
		}
		ip.bindingsStack = append(ip.bindingsStack, bindings...)
	}
	result, err := ip.Eval(x.Result)
	ip.bindingsStack = ip.bindingsStack[:base]
	return ip.finishOrErr(result, err)
}

func (ip *Interp) finishOrErr(v valueEntry, err error) error {
	if err != nil {
		return err
	}
	ip.pushValue(v)
	return nil
}

func (ip *Interp) evalExpect(idx cir.ExprIdx, x *cir.ExpectExpr) error {
	v, err := ip.Eval(x.Expr)
	if err != nil {
		return err
	}
	if !ip.readBool(v) {
		return fail(Crash, idx, "expectation failed")
	}
	ip.pushValue(v)
	return nil
}

func (ip *Interp) evalCrash(idx cir.ExprIdx, x *cir.CrashExpr) error {
	msg, err := ip.Eval(x.Message)
	if err != nil {
		return err
	}
	return fail(Crash, idx, "%s", ip.readString(msg))
}

// continueRecordFields fires once all of a RecordExpr's (or
// StrExpr's embedded-expression) field values have been evaluated and
// pushed onto value_stack in order; it pops exactly Extra of them and
// assembles the composite.
func (ip *Interp) continueRecordFields(w WorkItem) error {
	n := int(w.Extra)
	values := popN(ip, n)

	switch x := ip.mod.Expr(w.Expr).(type) {
	case *cir.StrExpr:
		v, err := ip.assembleString(w.Base, x, values)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case *cir.RecordExpr:
		l := ip.literalLayout(w.Expr)
		placements := make([]layout.Field, n)
		for i, f := range x.Fields {
			target, ok := fieldByName(l.Fields, f.Name)
			if !ok {
				return fail(InvalidStackState, w.Expr, "record field %q has no matching layout", ip.idents.Text(f.Name))
			}
			placements[i] = target
		}
		v, err := ip.assemble(w.Base, l, placements, values)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil
	}
	return fail(InvalidStackState, w.Expr, "eval_record_fields continuation on unsupported expression")
}

func (ip *Interp) continueTupleElements(w WorkItem) error {
	n := int(w.Extra)
	values := popN(ip, n)

	switch x := ip.mod.Expr(w.Expr).(type) {
	case *cir.TupleExpr:
		l := ip.literalLayout(w.Expr)
		v, err := ip.assemble(w.Base, l, l.Fields, values)
		if err != nil {
			return err
		}
		ip.pushValue(v)
		return nil

	case *cir.TagCtorExpr:
		l := ip.literalLayout(w.Expr)
		tc, ok := tagCaseByName(l.Tags, x.Name)
		if !ok {
			return fail(InvalidStackState, w.Expr, "tag constructor %q has no matching layout case", ip.idents.Text(x.Name))
		}
		buf := make([]byte, l.Size)
		if l.DiscSize > 0 {
			putDiscriminant(buf[:l.DiscSize], tc.Discriminant)
		}
		for _, f := range tc.Args {
			dst := buf[l.PayloadOffset+f.Offset : l.PayloadOffset+f.Offset+f.Layout.Size]
			copy(dst, ip.bytesOf(values[f.Index]))
		}
		ip.truncate(w.Base)
		off, err := ip.alloc(l)
		if err != nil {
			return err
		}
		copy(ip.stackMemory[off:off+l.Size], buf)
		ip.pushValue(valueEntry{layout: l, offset: off})
		return nil
	}
	return fail(InvalidStackState, w.Expr, "eval_tuple_elements continuation on unsupported expression")
}

func popN(ip *Interp, n int) []valueEntry {
	start := len(ip.valueStack) - n
	values := make([]valueEntry, n)
	copy(values, ip.valueStack[start:])
	ip.valueStack = ip.valueStack[:start]
	return values
}

func putDiscriminant(buf []byte, disc uint32) {
	for i := range buf {
		buf[i] = byte(disc >> (8 * i))
	}
}
