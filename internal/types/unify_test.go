package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/lumen/internal/ident"
)

func newTestStore() (*Store, *ident.Store) {
	ids := ident.NewStore()
	return NewStore(ids), ids
}

func TestFreshVarsAreDistinctAndResolveToSelf(t *testing.T) {
	s, _ := newTestStore()
	a := s.Fresh(0)
	b := s.Fresh(0)
	require.NotEqual(t, a, b)
	require.Equal(t, a, s.Resolve(a))
}

func TestUnifyFlexWithStructureAdoptsStructure(t *testing.T) {
	s, _ := newTestStore()
	flex := s.Fresh(0)
	str := s.FreshStructure(0, FlatType{Kind: FlatStr})

	require.NoError(t, s.Unify(flex, str))
	require.Equal(t, Structure, s.Desc(flex).Kind)
	require.Equal(t, FlatStr, s.Desc(flex).Flat.Kind)
}

func TestUnifyStrWithListFails(t *testing.T) {
	s, _ := newTestStore()
	str := s.FreshStructure(0, FlatType{Kind: FlatStr})
	list := s.FreshStructure(0, FlatType{Kind: FlatListUnbound})

	err := s.Unify(str, list)
	require.Error(t, err)
	require.Equal(t, Err, s.Desc(str).Kind)
	require.Equal(t, Err, s.Desc(list).Kind)
}

func TestUnifyTuplesElementwise(t *testing.T) {
	s, _ := newTestStore()
	intA := s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: IntUnbound}})
	flexB := s.Fresh(0)
	t1 := s.FreshStructure(0, FlatType{Kind: FlatTuple, Elems: []Var{intA, flexB}})

	strC := s.FreshStructure(0, FlatType{Kind: FlatStr})
	intD := s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: IntUnbound}})
	t2 := s.FreshStructure(0, FlatType{Kind: FlatTuple, Elems: []Var{intD, strC}})

	require.NoError(t, s.Unify(t1, t2))
	require.Equal(t, FlatStr, s.Desc(flexB).Flat.Kind)
}

func TestUnifyNumUnboundJoinsToIntUnbound(t *testing.T) {
	s, _ := newTestStore()
	numUnbound := s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: NumUnbound}})
	intUnbound := s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: IntUnbound}})

	require.NoError(t, s.Unify(numUnbound, intUnbound))
	require.Equal(t, IntUnbound, s.Desc(numUnbound).Flat.Num.Kind)
}

func TestUnifyIntUnboundWithPrecisionCompacts(t *testing.T) {
	s, _ := newTestStore()
	intUnbound := s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: IntUnbound}})
	precise := s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: IntPrecision, Precision: PrecI32}})

	require.NoError(t, s.Unify(intUnbound, precise))
	num := s.Desc(intUnbound).Flat.Num
	require.Equal(t, NumCompact, num.Kind)
	require.Equal(t, PrecI32, num.Precision)
	require.True(t, num.CompactIsInt)
}

func TestUnifyConflictingPrecisionsFails(t *testing.T) {
	s, _ := newTestStore()
	i32 := s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: IntPrecision, Precision: PrecI32}})
	i64 := s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: IntPrecision, Precision: PrecI64}})

	require.Error(t, s.Unify(i32, i64))
}

func TestUnifyFunctionsMergesPurityBottom(t *testing.T) {
	s, _ := newTestStore()
	retA := s.Fresh(0)
	unbound := s.FreshStructure(0, FlatType{Kind: FlatFnUnbound, Fn: Func{Params: []Var{s.Fresh(0)}, Ret: retA}})

	retB := s.Fresh(0)
	pure := s.FreshStructure(0, FlatType{Kind: FlatFnPure, Fn: Func{Params: []Var{s.Fresh(0)}, Ret: retB}})

	require.NoError(t, s.Unify(unbound, pure))
	require.Equal(t, FlatFnPure, s.Desc(unbound).Flat.Kind)
}

func TestUnifyPureVsEffectfulFails(t *testing.T) {
	s, _ := newTestStore()
	pure := s.FreshStructure(0, FlatType{Kind: FlatFnPure, Fn: Func{Ret: s.Fresh(0)}})
	fx := s.FreshStructure(0, FlatType{Kind: FlatFnEffectful, Fn: Func{Ret: s.Fresh(0)}})

	require.Error(t, s.Unify(pure, fx))
}

func TestUnifyRecordsRowPolymorphic(t *testing.T) {
	s, ids := newTestStore()
	xName := ids.Intern("x")
	yName := ids.Intern("y")

	extA := s.Fresh(0)
	recA := s.FreshStructure(0, FlatType{
		Kind:   FlatRecordUnbound,
		Fields: []Field{{Name: xName, Type: s.FreshStructure(0, FlatType{Kind: FlatStr})}},
		Ext:    extA,
	})

	recB := s.FreshStructure(0, FlatType{
		Kind: FlatRecord,
		Fields: []Field{
			{Name: xName, Type: s.FreshStructure(0, FlatType{Kind: FlatStr})},
			{Name: yName, Type: s.FreshStructure(0, FlatType{Kind: FlatNum, Num: Num{Kind: IntUnbound}})},
		},
	})

	require.NoError(t, s.Unify(recA, recB))
	require.Equal(t, FlatRecord, s.Desc(extA).Flat.Kind)
}

func TestInstantiateSharesSameVarForRepeatedOccurrence(t *testing.T) {
	s, _ := newTestStore()
	a := s.FreshRigid(0, "a")
	fn := s.FreshStructure(0, FlatType{Kind: FlatFnPure, Fn: Func{Params: []Var{a}, Ret: a}})

	fresh := s.Instantiate(fn, 1)
	flat := s.Desc(fresh).Flat
	require.Equal(t, flat.Fn.Params[0], flat.Fn.Ret)
	require.NotEqual(t, a, flat.Fn.Ret)
}

func TestGeneralizeOnlyQuantifiesDeeperRank(t *testing.T) {
	s, _ := newTestStore()
	outer := s.Fresh(0)
	inner := s.Fresh(1)
	fn := s.FreshStructure(1, FlatType{Kind: FlatFnUnbound, Fn: Func{Params: []Var{outer, inner}, Ret: inner}})

	scheme := s.Generalize(fn, 0)
	require.Len(t, scheme.Vars, 1)
	require.Equal(t, inner, scheme.Vars[0])
	require.Equal(t, RigidVar, s.Desc(inner).Kind)
	require.Equal(t, FlexVar, s.Desc(outer).Kind)
}

func TestRenderProducesReadableNames(t *testing.T) {
	s, _ := newTestStore()
	str := s.FreshStructure(0, FlatType{Kind: FlatStr})
	require.Equal(t, "Str", s.Render(str))

	rigid := s.FreshRigid(0, "a")
	require.Equal(t, "a", s.Render(rigid))
}
