package checker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/diagnostic"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/types"
)

func newTestChecker() (*Checker, *cir.Module) {
	file := ast.NewFile("test.lm")
	mod := cir.NewModule(file)
	store := types.NewStore(file.Idents)
	diags := diagnostic.NewBag(nil)
	c := New(store, file.Idents, diags)
	return c, mod
}

func identPattern(mod *cir.Module, idents *ident.Store, name string) cir.PatternIdx {
	return mod.NewPattern(&cir.IdentPattern{Base: cir.Base{R: region.Zero}, Name: idents.Intern(name)})
}

func TestInferExpr_IntLiteralIsNumUnbound(t *testing.T) {
	c, mod := newTestChecker()
	c.mod = mod
	c.typeDefs = map[ident.Idx]*typeDef{}
	e := newEnv(nil)

	idx := mod.NewExpr(&cir.IntLit{Base: cir.Base{R: region.Zero}, Text: "1"})
	v := c.inferExpr(idx, e)

	desc := c.store.Desc(v)
	require.Equal(t, types.Structure, desc.Kind)
	require.Equal(t, types.FlatNum, desc.Flat.Kind)
	require.Equal(t, types.NumUnbound, desc.Flat.Num.Kind)
	require.False(t, c.diags.HasErrors())
}

func TestInferExpr_BoolLiteralIsNominalBool(t *testing.T) {
	c, mod := newTestChecker()
	c.mod = mod
	e := newEnv(nil)

	idx := mod.NewExpr(&cir.BoolLit{Base: cir.Base{R: region.Zero}, Value: true})
	v := c.inferExpr(idx, e)

	desc := c.store.Desc(v)
	require.Equal(t, types.Structure, desc.Kind)
	require.Equal(t, types.FlatNominal, desc.Flat.Kind)
	require.Equal(t, "Bool", c.idents.Text(desc.Flat.Nom.Ident))
}

func TestInferExpr_IfBranchMismatchReportsError(t *testing.T) {
	c, mod := newTestChecker()
	c.mod = mod
	e := newEnv(nil)

	cond := mod.NewExpr(&cir.BoolLit{Base: cir.Base{R: region.Zero}, Value: true})
	then := mod.NewExpr(&cir.IntLit{Base: cir.Base{R: region.Zero}, Text: "1"})
	els := mod.NewExpr(&cir.BoolLit{Base: cir.Base{R: region.Zero}, Value: false})
	ifIdx := mod.NewExpr(&cir.IfExpr{
		Base:     cir.Base{R: region.Zero},
		Branches: []cir.IfBranch{{Cond: cond, Then: then}},
		Else:     els,
	})

	c.inferExpr(ifIdx, e)

	require.True(t, c.diags.HasErrors())
}

func TestInferExpr_BinOpAddUnifiesOperands(t *testing.T) {
	c, mod := newTestChecker()
	c.mod = mod
	e := newEnv(nil)

	left := mod.NewExpr(&cir.IntLit{Base: cir.Base{R: region.Zero}, Text: "1"})
	right := mod.NewExpr(&cir.BoolLit{Base: cir.Base{R: region.Zero}, Value: true})
	add := mod.NewExpr(&cir.BinOpExpr{Base: cir.Base{R: region.Zero}, Op: cir.OpAdd, Left: left, Right: right})

	c.inferExpr(add, e)

	require.True(t, c.diags.HasErrors())
}

// TestCheckModule_LetPolymorphism checks that a bare top-level identity
// function generalizes at the top-level boundary: two call sites can
// instantiate it at different, incompatible concrete types without
// either call failing to unify against the other.
func TestCheckModule_LetPolymorphism(t *testing.T) {
	c, mod := newTestChecker()

	idPat := identPattern(mod, mod.Source.Idents, "id")
	paramPat := identPattern(mod, mod.Source.Idents, "x")
	paramRef := mod.NewExpr(&cir.LookupLocal{Base: cir.Base{R: region.Zero}, Pattern: paramPat})
	lambda := mod.NewExpr(&cir.LambdaExpr{Base: cir.Base{R: region.Zero}, Params: []cir.PatternIdx{paramPat}, Body: paramRef})

	idDef := mod.NewDef(cir.Def{Pattern: idPat, Expr: lambda, Annotation: ast.InvalidTypeIdx})
	mod.TopLevel = append(mod.TopLevel, idDef)

	idRefForInt := mod.NewExpr(&cir.LookupLocal{Base: cir.Base{R: region.Zero}, Pattern: idPat})
	intArg := mod.NewExpr(&cir.IntLit{Base: cir.Base{R: region.Zero}, Text: "1"})
	applyInt := mod.NewExpr(&cir.ApplyExpr{Base: cir.Base{R: region.Zero}, Func: idRefForInt, Args: []cir.ExprIdx{intArg}})
	aPat := identPattern(mod, mod.Source.Idents, "a")
	aDef := mod.NewDef(cir.Def{Pattern: aPat, Expr: applyInt, Annotation: ast.InvalidTypeIdx})
	mod.TopLevel = append(mod.TopLevel, aDef)

	idRefForBool := mod.NewExpr(&cir.LookupLocal{Base: cir.Base{R: region.Zero}, Pattern: idPat})
	boolArg := mod.NewExpr(&cir.BoolLit{Base: cir.Base{R: region.Zero}, Value: true})
	applyBool := mod.NewExpr(&cir.ApplyExpr{Base: cir.Base{R: region.Zero}, Func: idRefForBool, Args: []cir.ExprIdx{boolArg}})
	bPat := identPattern(mod, mod.Source.Idents, "b")
	bDef := mod.NewDef(cir.Def{Pattern: bPat, Expr: applyBool, Annotation: ast.InvalidTypeIdx})
	mod.TopLevel = append(mod.TopLevel, bDef)

	c.CheckModule(mod)

	require.False(t, c.diags.HasErrors())

	aType := c.store.Desc(c.ExprTypes[applyInt])
	bType := c.store.Desc(c.ExprTypes[applyBool])
	require.Equal(t, types.FlatNum, aType.Flat.Kind)
	require.Equal(t, types.FlatNominal, bType.Flat.Kind)
}

func TestCheckModule_AnnotationMismatchReportsError(t *testing.T) {
	c, mod := newTestChecker()

	anno := mod.Source.NewType(&ast.TypeApplyAnno{Base: ast.Base{R: region.Zero}, Name: mod.Source.Idents.Intern("Bool")})

	pat := identPattern(mod, mod.Source.Idents, "flag")
	body := mod.NewExpr(&cir.IntLit{Base: cir.Base{R: region.Zero}, Text: "1"})
	def := mod.NewDef(cir.Def{Pattern: pat, Expr: body, Annotation: anno})
	mod.TopLevel = append(mod.TopLevel, def)

	c.CheckModule(mod)

	require.True(t, c.diags.HasErrors())
}
