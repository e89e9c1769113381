package interp

import (
	"math/big"

	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/layout"
)

// bindPattern tests val against the pattern at patIdx, appending a
// Binding per identifier binder it introduces to *bindings on
// success. It implements spec.md §4.7.3's binder recursion (record
// destructuring via the layout's field table, tuple destructuring by
// element index) plus literal-pattern testing for match arms.
func (ip *Interp) bindPattern(patIdx cir.PatternIdx, val valueEntry, bindings *[]Binding) (bool, error) {
	switch p := ip.mod.Pattern(patIdx).(type) {
	case *cir.IdentPattern:
		*bindings = append(*bindings, Binding{pattern: patIdx, value: val})
		return true, nil

	case *cir.WildcardPattern:
		return true, nil

	case *cir.IntPattern:
		want, ok := new(big.Int).SetString(p.Text, 0)
		if !ok {
			return false, nil
		}
		got := bytesToBig(ip.bytesOf(val), val.layout.NumPrecision.IsSigned())
		return want.Cmp(got) == 0, nil

	case *cir.FracPattern:
		want := parseFloatLiteral(p.Text)
		got := ip.readFloatLike(val)
		return want == got, nil

	case *cir.StringPattern:
		return ip.readString(val) == p.Value, nil

	case *cir.TuplePattern:
		for i, elemPat := range p.Elements {
			field, ok := fieldByIndex(val.layout.Fields, i)
			if !ok {
				return false, fail(InvalidStackState, cir.InvalidExprIdx, "tuple pattern element %d has no matching field layout", i)
			}
			sub := valueEntry{layout: field.Layout, offset: val.offset + field.Offset}
			ok2, err := ip.bindPattern(elemPat, sub, bindings)
			if err != nil || !ok2 {
				return false, err
			}
		}
		return true, nil

	case *cir.RecordPattern:
		for _, fp := range p.Fields {
			field, ok := fieldByName(val.layout.Fields, fp.Name)
			if !ok {
				return false, fail(InvalidStackState, cir.InvalidExprIdx, "record pattern field %q has no matching layout", ip.idents.Text(fp.Name))
			}
			sub := valueEntry{layout: field.Layout, offset: val.offset + field.Offset}
			ok2, err := ip.bindPattern(fp.Pattern, sub, bindings)
			if err != nil || !ok2 {
				return false, err
			}
		}
		return true, nil

	case *cir.TagPattern:
		disc, payloadOff, ok := ip.readDiscriminant(val)
		if !ok {
			return false, fail(TypeMismatch, cir.InvalidExprIdx, "tag pattern matched against a non-tag-union value")
		}
		tc, found := tagCaseByName(val.layout.Tags, p.Name)
		if !found || tc.Discriminant != disc {
			return false, nil
		}
		for i, argPat := range p.Patterns {
			if i >= len(tc.Args) {
				return false, fail(ArityMismatch, cir.InvalidExprIdx, "tag %q pattern expects %d args, constructor has %d", ip.idents.Text(p.Name), len(p.Patterns), len(tc.Args))
			}
			f := tc.Args[i]
			sub := valueEntry{layout: f.Layout, offset: val.offset + payloadOff + f.Offset}
			ok2, err := ip.bindPattern(argPat, sub, bindings)
			if err != nil || !ok2 {
				return false, err
			}
		}
		return true, nil

	case *cir.AsPattern:
		ok, err := ip.bindPattern(p.Inner, val, bindings)
		if err != nil || !ok {
			return false, err
		}
		*bindings = append(*bindings, Binding{pattern: patIdx, value: val})
		return true, nil

	case *cir.AltPattern:
		for _, alt := range p.Alternatives {
			var trial []Binding
			ok, err := ip.bindPattern(alt, val, &trial)
			if err != nil {
				return false, err
			}
			if ok {
				*bindings = append(*bindings, trial...)
				return true, nil
			}
		}
		return false, nil

	case *cir.ListPattern:
		// Lists are reserved-by-size only (spec.md §4.6); this
		// interpreter never constructs a populated list, so only the
		// empty-list shape can ever match.
		return len(p.Elements) == 0 && p.Rest == nil, nil

	case *cir.MalformedPattern:
		return false, nil
	}
	return false, nil
}

func fieldByIndex(fields []layout.Field, index int) (layout.Field, bool) {
	for _, f := range fields {
		if f.Index == index {
			return f, true
		}
	}
	return layout.Field{}, false
}

func fieldByName(fields []layout.Field, name ident.Idx) (layout.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return layout.Field{}, false
}

func tagCaseByName(cases []layout.TagCase, name ident.Idx) (layout.TagCase, bool) {
	for _, c := range cases {
		if c.Name == name {
			return c, true
		}
	}
	return layout.TagCase{}, false
}

// readDiscriminant returns the tag index and payload start offset for
// a ReprTagUnion value. SingleTagStruct unions carry no discriminant
// byte — their single case is always the match.
func (ip *Interp) readDiscriminant(v valueEntry) (uint32, uint32, bool) {
	if v.layout.Repr != layout.ReprTagUnion {
		return 0, 0, false
	}
	if v.layout.TagRepr == layout.TagSingleTagStruct {
		return 0, 0, true
	}
	buf := ip.bytesOf(v)[:v.layout.DiscSize]
	var disc uint32
	for i := len(buf) - 1; i >= 0; i-- {
		disc = disc<<8 | uint32(buf[i])
	}
	return disc, v.layout.PayloadOffset, true
}
