package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/layout"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/types"
)

// testFixture bundles the module/store/side-tables an interp_test
// case builds CIR nodes against directly, bypassing the parser/
// canonicalizer/checker entirely (those are exercised by their own
// packages' tests; this package only needs a checked CIR module's
// shape, not a real front end to produce one).
type testFixture struct {
	mod          *cir.Module
	idents       *ident.Store
	store        *types.Store
	exprTypes    map[cir.ExprIdx]types.Var
	patternTypes map[cir.PatternIdx]types.Var
}

func newFixture() *testFixture {
	file := ast.NewFile("test.lm")
	return &testFixture{
		mod:          cir.NewModule(file),
		idents:       file.Idents,
		store:        types.NewStore(file.Idents),
		exprTypes:    map[cir.ExprIdx]types.Var{},
		patternTypes: map[cir.PatternIdx]types.Var{},
	}
}

func (f *testFixture) i64() types.Var {
	return f.store.FreshStructure(0, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.IntPrecision, Precision: types.PrecI64}})
}

func (f *testFixture) intLit(text string) cir.ExprIdx {
	idx := f.mod.NewExpr(&cir.IntLit{Base: cir.Base{R: region.Zero}, Text: text})
	f.exprTypes[idx] = f.i64()
	return idx
}

func (f *testFixture) ident(pat cir.PatternIdx, t types.Var) {
	f.patternTypes[pat] = t
}

func (f *testFixture) identPattern(name string) cir.PatternIdx {
	return f.mod.NewPattern(&cir.IdentPattern{Base: cir.Base{R: region.Zero}, Name: f.idents.Intern(name)})
}

func (f *testFixture) interp() *Interp {
	return New(f.mod, f.store, f.idents, f.exprTypes, f.patternTypes, layout.DefaultDefaults(), DefaultLimits(), nil)
}

func readI64(ip *Interp, v valueEntry) int64 {
	return bytesToBig(ip.bytesOf(v), true).Int64()
}

func TestEval_IntAddition(t *testing.T) {
	f := newFixture()
	left := f.intLit("1")
	right := f.intLit("2")
	sum := f.mod.NewExpr(&cir.BinOpExpr{Base: cir.Base{R: region.Zero}, Op: cir.OpAdd, Left: left, Right: right})
	f.exprTypes[sum] = f.i64()

	ip := f.interp()
	v, err := ip.Eval(sum)
	require.NoError(t, err)
	require.Equal(t, int64(3), readI64(ip, v))
}

func TestEval_IntDivisionByZeroCrashes(t *testing.T) {
	f := newFixture()
	left := f.intLit("10")
	right := f.intLit("0")
	div := f.mod.NewExpr(&cir.BinOpExpr{Base: cir.Base{R: region.Zero}, Op: cir.OpDiv, Left: left, Right: right})

	ip := f.interp()
	_, err := ip.Eval(div)
	require.Error(t, err)
	failure, ok := err.(*Failure)
	require.True(t, ok)
	require.Equal(t, DivisionByZero, failure.Kind)
}

func TestEval_IfTakesMatchingBranch(t *testing.T) {
	f := newFixture()
	cond := f.mod.NewExpr(&cir.BoolLit{Base: cir.Base{R: region.Zero}, Value: true})
	thenE := f.intLit("1")
	elseE := f.intLit("2")
	ifExpr := f.mod.NewExpr(&cir.IfExpr{
		Base:     cir.Base{R: region.Zero},
		Branches: []cir.IfBranch{{Cond: cond, Then: thenE}},
		Else:     elseE,
	})

	ip := f.interp()
	v, err := ip.Eval(ifExpr)
	require.NoError(t, err)
	require.Equal(t, int64(1), readI64(ip, v))
}

// TestEval_ClosureCapturesBlockLocal builds `(block: x = 10; -> \y ->
// x + y)(5)`: x is bound inside a block, not at top level, so the
// closure must copy x's value into its own environment at creation —
// by the time it's called, x's bindings_stack entry from the block has
// already been popped.
func TestEval_ClosureCapturesBlockLocal(t *testing.T) {
	f := newFixture()

	xPat := f.identPattern("x")
	f.ident(xPat, f.i64())
	xInit := f.intLit("10")
	xDef := f.mod.NewDef(cir.Def{Pattern: xPat, Expr: xInit})

	yPat := f.identPattern("y")
	f.ident(yPat, f.i64())

	xLookup := f.mod.NewExpr(&cir.LookupLocal{Base: cir.Base{R: region.Zero}, Pattern: xPat})
	f.exprTypes[xLookup] = f.i64()
	yLookup := f.mod.NewExpr(&cir.LookupLocal{Base: cir.Base{R: region.Zero}, Pattern: yPat})
	f.exprTypes[yLookup] = f.i64()
	body := f.mod.NewExpr(&cir.BinOpExpr{Base: cir.Base{R: region.Zero}, Op: cir.OpAdd, Left: xLookup, Right: yLookup})

	lambda := f.mod.NewExpr(&cir.LambdaExpr{Base: cir.Base{R: region.Zero}, Params: []cir.PatternIdx{yPat}, Body: body})

	block := f.mod.NewExpr(&cir.BlockExpr{Base: cir.Base{R: region.Zero}, Defs: []cir.DefIdx{xDef}, Result: lambda})

	arg := f.intLit("5")
	apply := f.mod.NewExpr(&cir.ApplyExpr{Base: cir.Base{R: region.Zero}, Func: block, Args: []cir.ExprIdx{arg}})

	ip := f.interp()
	v, err := ip.Eval(apply)
	require.NoError(t, err)
	require.Equal(t, int64(15), readI64(ip, v))
}

func TestEval_RecordFieldAccess(t *testing.T) {
	f := newFixture()

	aName := f.idents.Intern("a")
	bName := f.idents.Intern("b")
	aVar, bVar := f.i64(), f.i64()
	recVar := f.store.FreshStructure(0, types.FlatType{
		Kind:   types.FlatRecord,
		Fields: []types.Field{{Name: aName, Type: aVar}, {Name: bName, Type: bVar}},
		Ext:    types.NoVar,
	})

	aVal := f.intLit("3")
	bVal := f.intLit("4")
	rec := f.mod.NewExpr(&cir.RecordExpr{Base: cir.Base{R: region.Zero}, Fields: []cir.FieldInit{
		{Name: aName, Value: aVal},
		{Name: bName, Value: bVal},
	}})
	f.exprTypes[rec] = recVar

	access := f.mod.NewExpr(&cir.RecordAccessExpr{Base: cir.Base{R: region.Zero}, Target: rec, Field: aName})

	ip := f.interp()
	v, err := ip.Eval(access)
	require.NoError(t, err)
	require.Equal(t, int64(3), readI64(ip, v))
}

// TestEval_TagUnionMatch builds a None/Some(i64) union, constructs
// Some(7), and matches it back out.
func TestEval_TagUnionMatch(t *testing.T) {
	f := newFixture()

	noneName := f.idents.Intern("None")
	someName := f.idents.Intern("Some")
	i64Var := f.i64()
	unionVar := f.store.FreshStructure(0, types.FlatType{
		Kind: types.FlatTagUnion,
		Tags: []types.Tag{
			{Name: noneName},
			{Name: someName, Args: []types.Var{i64Var}},
		},
	})

	payload := f.intLit("7")
	someExpr := f.mod.NewExpr(&cir.TagCtorExpr{Base: cir.Base{R: region.Zero}, Name: someName, Args: []cir.ExprIdx{payload}})
	f.exprTypes[someExpr] = unionVar

	nPat := f.identPattern("n")
	f.ident(nPat, i64Var)
	nLookup := f.mod.NewExpr(&cir.LookupLocal{Base: cir.Base{R: region.Zero}, Pattern: nPat})
	f.exprTypes[nLookup] = i64Var

	zero := f.intLit("0")

	nonePat := f.mod.NewPattern(&cir.TagPattern{Base: cir.Base{R: region.Zero}, Name: noneName})
	somePat := f.mod.NewPattern(&cir.TagPattern{Base: cir.Base{R: region.Zero}, Name: someName, Patterns: []cir.PatternIdx{nPat}})

	match := f.mod.NewExpr(&cir.MatchExpr{
		Base:      cir.Base{R: region.Zero},
		Scrutinee: someExpr,
		Cases: []cir.MatchCase{
			{Pattern: nonePat, Guard: cir.InvalidExprIdx, Body: zero},
			{Pattern: somePat, Guard: cir.InvalidExprIdx, Body: nLookup},
		},
	})

	ip := f.interp()
	v, err := ip.Eval(match)
	require.NoError(t, err)
	require.Equal(t, int64(7), readI64(ip, v))
}

func TestRun_EarlierDefSurvivesLaterCrash(t *testing.T) {
	f := newFixture()

	xPat := f.identPattern("x")
	f.ident(xPat, f.i64())
	xInit := f.intLit("42")
	xDef := f.mod.NewDef(cir.Def{Pattern: xPat, Expr: xInit})

	yPat := f.identPattern("y")
	ten := f.intLit("10")
	zero := f.intLit("0")
	div := f.mod.NewExpr(&cir.BinOpExpr{Base: cir.Base{R: region.Zero}, Op: cir.OpDiv, Left: ten, Right: zero})
	yDef := f.mod.NewDef(cir.Def{Pattern: yPat, Expr: div})

	f.mod.TopLevel = []cir.DefIdx{xDef, yDef}

	ip := f.interp()
	crashes, err := ip.Run()
	require.NoError(t, err)
	require.Len(t, crashes, 1)
	require.Equal(t, DivisionByZero, crashes[0].Kind)

	v, ok := ip.Global(xPat)
	require.True(t, ok)
	require.Equal(t, int64(42), readI64(ip, v))

	_, ok = ip.Global(yPat)
	require.False(t, ok)
}
