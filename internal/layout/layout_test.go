package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/types"
)

func newTestCache() (*Cache, *types.Store, *ident.Store) {
	idents := ident.NewStore()
	store := types.NewStore(idents)
	return NewCache(store, DefaultDefaults()), store, idents
}

func numVar(store *types.Store, kind types.NumKind, prec types.Precision) types.Var {
	return store.FreshStructure(0, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: kind, Precision: prec}})
}

func TestScalarSizes(t *testing.T) {
	c, store, _ := newTestCache()

	cases := []struct {
		prec types.Precision
		size uint32
	}{
		{types.PrecI8, 1}, {types.PrecU8, 1},
		{types.PrecI16, 2},
		{types.PrecI32, 4}, {types.PrecF32, 4},
		{types.PrecI64, 8}, {types.PrecF64, 8},
		{types.PrecI128, 16}, {types.PrecDec, 16},
	}
	for _, tc := range cases {
		v := numVar(store, types.IntPrecision, tc.prec)
		l := c.Compute(v)
		require.Equal(t, tc.size, l.Size, "precision %s", tc.prec)
		require.Equal(t, tc.size, l.Align, "precision %s", tc.prec)
	}
}

func TestUnboundIntDefaultsToConfiguredPrecision(t *testing.T) {
	idents := ident.NewStore()
	store := types.NewStore(idents)
	c := NewCache(store, Defaults{IntPrecision: types.PrecI32, FracPrecision: types.PrecF64})

	v := numVar(store, types.IntUnbound, "")
	l := c.Compute(v)
	require.Equal(t, uint32(4), l.Size)

	fv := numVar(store, types.FracUnbound, "")
	fl := c.Compute(fv)
	require.Equal(t, uint32(8), fl.Size)
}

func TestBoolLayout(t *testing.T) {
	c, store, idents := newTestCache()
	v := store.FreshStructure(0, types.FlatType{Kind: types.FlatNominal, Nom: types.Nominal{Ident: idents.Intern("Bool")}})
	l := c.Compute(v)
	require.Equal(t, ReprBool, l.Repr)
	require.Equal(t, uint32(1), l.Size)
	require.Equal(t, uint32(1), l.Align)
}

// TestRecordFieldOrder checks the canonical order rule: alignment
// descending, then source order for ties. A record {a: i8, b: i64,
// c: i8} should place b first (align 8), then a, then c (both align
// 1, source order preserved).
func TestRecordFieldOrder(t *testing.T) {
	c, store, idents := newTestCache()
	a := numVar(store, types.IntPrecision, types.PrecI8)
	b := numVar(store, types.IntPrecision, types.PrecI64)
	cc := numVar(store, types.IntPrecision, types.PrecI8)

	rec := store.FreshStructure(0, types.FlatType{
		Kind: types.FlatRecord,
		Fields: []types.Field{
			{Name: idents.Intern("a"), Type: a},
			{Name: idents.Intern("b"), Type: b},
			{Name: idents.Intern("c"), Type: cc},
		},
		Ext: types.NoVar,
	})

	l := c.Compute(rec)
	require.Equal(t, ReprRecord, l.Repr)
	require.Len(t, l.Fields, 3)
	require.Equal(t, "b", idents.Text(l.Fields[0].Name))
	require.Equal(t, uint32(0), l.Fields[0].Offset)
	require.Equal(t, "a", idents.Text(l.Fields[1].Name))
	require.Equal(t, uint32(8), l.Fields[1].Offset)
	require.Equal(t, "c", idents.Text(l.Fields[2].Name))
	require.Equal(t, uint32(9), l.Fields[2].Offset)
	require.Equal(t, uint32(16), l.Size) // rounded up to align-8
	require.Equal(t, uint32(8), l.Align)
}

func TestEmptyRecordIsZeroSized(t *testing.T) {
	c, store, _ := newTestCache()
	rec := store.FreshStructure(0, types.FlatType{Kind: types.FlatEmptyRecord})
	l := c.Compute(rec)
	require.Equal(t, uint32(0), l.Size)
	require.Equal(t, uint32(1), l.Align)
}

// TestTagUnionEnumeration: all-nullary tag union becomes a bare
// discriminant with no payload region.
func TestTagUnionEnumeration(t *testing.T) {
	c, store, idents := newTestCache()
	u := store.FreshStructure(0, types.FlatType{
		Kind: types.FlatTagUnion,
		Tags: []types.Tag{
			{Name: idents.Intern("Red")},
			{Name: idents.Intern("Green")},
			{Name: idents.Intern("Blue")},
		},
	})
	l := c.Compute(u)
	require.Equal(t, TagEnumeration, l.TagRepr)
	require.Equal(t, uint32(1), l.Size)
	require.Len(t, l.Tags, 3)
}

// TestTagUnionNullableWrapped: two variants, one nullary — classified
// as NullableWrapped even though the byte shape is the general
// discriminant+payload form (see TagRepr doc comment).
func TestTagUnionNullableWrapped(t *testing.T) {
	c, store, idents := newTestCache()
	i64 := numVar(store, types.IntPrecision, types.PrecI64)
	u := store.FreshStructure(0, types.FlatType{
		Kind: types.FlatTagUnion,
		Tags: []types.Tag{
			{Name: idents.Intern("None")},
			{Name: idents.Intern("Some"), Args: []types.Var{i64}},
		},
	})
	l := c.Compute(u)
	require.Equal(t, TagNullableWrapped, l.TagRepr)
	require.Equal(t, uint32(1), l.DiscSize)
	require.True(t, l.PayloadOffset >= l.DiscSize)
	require.Equal(t, uint32(8), l.Tags[1].Args[0].Layout.Size)
}

func TestTagUnionSingleTagStruct(t *testing.T) {
	c, store, idents := newTestCache()
	i32 := numVar(store, types.IntPrecision, types.PrecI32)
	u := store.FreshStructure(0, types.FlatType{
		Kind: types.FlatTagUnion,
		Tags: []types.Tag{{Name: idents.Intern("Wrap"), Args: []types.Var{i32}}},
	})
	l := c.Compute(u)
	require.Equal(t, TagSingleTagStruct, l.TagRepr)
	require.Equal(t, uint32(0), l.DiscSize)
	require.Equal(t, uint32(4), l.Size)
}

func TestClosureLayoutPlacesCapturesAfterHeader(t *testing.T) {
	idents := ident.NewStore()
	i8 := Field{Name: idents.Intern("flag"), Layout: Layout{Size: 1, Align: 1, Repr: ReprScalar}}
	i64 := Field{Name: idents.Intern("count"), Layout: Layout{Size: 8, Align: 8, Repr: ReprScalar}}

	l := NewClosureLayout([]Field{i8, i64})
	require.Equal(t, ReprClosure, l.Repr)
	require.Equal(t, ClosureHeaderSize, l.EnvOffset)
	require.Equal(t, ClosureHeaderSize, l.Captures[0].Offset)
	require.Equal(t, uint32(32), l.Captures[1].Offset) // aligned up to 8 from 25
	require.Equal(t, uint32(40), l.Size)
}

func TestClosureLayoutNoCapturesIsHeaderOnly(t *testing.T) {
	l := NewClosureLayout(nil)
	require.Equal(t, ClosureHeaderSize, l.Size)
	require.Empty(t, l.Captures)
}
