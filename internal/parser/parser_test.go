package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/diagnostic"
)

func parseBody(t *testing.T, src string) (*ast.File, *diagnostic.Bag) {
	t.Helper()
	diags := diagnostic.NewBag(nil)
	f := ParseFile([]byte(src), "test.lm", diags)
	require.NotNil(t, f)
	return f, diags
}

func TestParseIntExpr(t *testing.T) {
	f, diags := parseBody(t, "module exposes [x]\nx = 42")
	require.False(t, diags.HasErrors())
	require.Len(t, f.TopLevel, 1)

	decl, ok := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	require.True(t, ok)
	require.Equal(t, ast.DeclLet, decl.Kind)

	lit, ok := f.Expr(decl.Expr).(*ast.IntLit)
	require.True(t, ok)
	require.Equal(t, "42", lit.Text)
}

func TestParseIfExpr(t *testing.T) {
	f, diags := parseBody(t, "module exposes [x]\nx = if 1 == 1 then 42 else 99")
	require.False(t, diags.HasErrors())

	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	ifExpr, ok := f.Expr(decl.Expr).(*ast.IfExpr)
	require.True(t, ok)
	require.Len(t, ifExpr.Branches, 1)
	require.NotEqual(t, ast.InvalidExprIdx, ifExpr.Else)
}

func TestParseLambdaAndApply(t *testing.T) {
	f, diags := parseBody(t, "module exposes [x]\nx = (\\a, b -> a + b)(1, 2)")
	require.False(t, diags.HasErrors())

	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	apply, ok := f.Expr(decl.Expr).(*ast.ApplyExpr)
	require.True(t, ok)
	require.Len(t, apply.Args, 2)

	lambda, ok := f.Expr(apply.Func).(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lambda.Params, 2)
}

func TestParseListTypeCheckFailureShapeSurvives(t *testing.T) {
	// [1, "hello"] is syntactically valid; type mismatch is a checker
	// concern, not a parser one — the parser must not reject it.
	f, diags := parseBody(t, "module exposes [x]\nx = [1, \"hello\"]")
	require.False(t, diags.HasErrors())

	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	list, ok := f.Expr(decl.Expr).(*ast.ListExpr)
	require.True(t, ok)
	require.Len(t, list.Elements, 2)
}

func TestParseWhenExprWithGuardAndAltPattern(t *testing.T) {
	src := `module exposes [x]
x = when n is
  0 -> "zero"
  1 | 2 -> "small"
  k if k > 10 -> "big"
  _ -> "other"`
	f, diags := parseBody(t, src)
	require.False(t, diags.HasErrors())

	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	when, ok := f.Expr(decl.Expr).(*ast.WhenExpr)
	require.True(t, ok)
	require.Len(t, when.Cases, 4)

	_, isAlt := f.Pattern(when.Cases[1].Pattern).(*ast.AltPattern)
	require.True(t, isAlt)
	require.NotEqual(t, ast.InvalidExprIdx, when.Cases[2].Guard)
}

func TestParseRecordLiteralAndUpdate(t *testing.T) {
	f, diags := parseBody(t, "module exposes [x]\nx = { a: 1, b: 2 }")
	require.False(t, diags.HasErrors())
	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	rec, ok := f.Expr(decl.Expr).(*ast.RecordExpr)
	require.True(t, ok)
	require.Len(t, rec.Fields, 2)

	f2, diags2 := parseBody(t, "module exposes [y]\ny = { x | a: 3 }")
	require.False(t, diags2.HasErrors())
	decl2 := f2.Stmt(f2.TopLevel[0]).(*ast.DeclStmt)
	upd, ok := f2.Expr(decl2.Expr).(*ast.RecordUpdateExpr)
	require.True(t, ok)
	require.Len(t, upd.Fields, 1)
}

func TestParseTuplePatternDestructure(t *testing.T) {
	f, diags := parseBody(t, "module exposes [x]\n(a, b) = (1, 2)")
	require.False(t, diags.HasErrors())
	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	_, ok := f.Pattern(decl.Pattern).(*ast.TuplePattern)
	require.True(t, ok)
}

func TestParseWildcardAssignIsIgnoredFx(t *testing.T) {
	f, diags := parseBody(t, "module exposes [x]\n_ = dbg 1")
	require.False(t, diags.HasErrors())
	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	require.Equal(t, ast.DeclIgnoredFx, decl.Kind)
}

func TestParseBareExprStatementIsStmtFx(t *testing.T) {
	f, diags := parseBody(t, "module exposes [x]\ncrash \"boom\"")
	require.False(t, diags.HasErrors())
	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	require.Equal(t, ast.DeclStmtFx, decl.Kind)
	require.Equal(t, ast.InvalidPatternIdx, decl.Pattern)
}

func TestParseTypeAnnotationAndDecl(t *testing.T) {
	src := `module exposes [add]
add : Int, Int -> Int
add = \a, b -> a + b`
	f, diags := parseBody(t, src)
	require.False(t, diags.HasErrors())
	require.Len(t, f.TopLevel, 2)

	anno, ok := f.Stmt(f.TopLevel[0]).(*ast.TypeAnnoStmt)
	require.True(t, ok)
	fn, ok := f.Type(anno.Anno).(*ast.FuncTypeAnno)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	require.True(t, fn.Pure)
}

func TestParseAlgebraicTypeDecl(t *testing.T) {
	f, diags := parseBody(t, "module exposes [Option]\nOption a :: Some(a) | None")
	require.False(t, diags.HasErrors())

	decl, ok := f.Stmt(f.TopLevel[0]).(*ast.TypeDeclStmt)
	require.True(t, ok)
	require.Len(t, decl.TypeParams, 1)

	alg, ok := f.Type(decl.Definition).(*ast.AlgebraicTypeAnno)
	require.True(t, ok)
	require.Len(t, alg.Constructors, 2)
	require.Equal(t, "None", f.Idents.Text(alg.Constructors[1].Name))
}

func TestParseOpenTagUnionType(t *testing.T) {
	src := `module exposes [f]
f : [Ok(a), Err(e)]* -> a`
	f, diags := parseBody(t, src)
	require.False(t, diags.HasErrors())

	anno := f.Stmt(f.TopLevel[0]).(*ast.TypeAnnoStmt)
	fn := f.Type(anno.Anno).(*ast.FuncTypeAnno)
	union, ok := f.Type(fn.Params[0]).(*ast.TagUnionTypeAnno)
	require.True(t, ok)
	require.Len(t, union.Tags, 2)
	require.NotEqual(t, ast.InvalidTypeIdx, union.Ext)
}

func TestParseAppHeader(t *testing.T) {
	src := `app provides [main]
{ pf: platform "https://example.com/platform.tar.br" }
main = 1`
	f, diags := parseBody(t, src)
	require.False(t, diags.HasErrors())

	app, ok := f.HeaderAt(f.Header).(*ast.AppHeader)
	require.True(t, ok)
	require.Len(t, app.Provides, 1)
	require.Equal(t, "pf", app.Platform.Shorthand)
	require.Equal(t, "https://example.com/platform.tar.br", app.Platform.Location)
}

func TestParseImportStmt(t *testing.T) {
	src := `module exposes [x]
import pf.Stdout as Out exposes [line!]
x = 1`
	f, diags := parseBody(t, src)
	require.False(t, diags.HasErrors())

	imp, ok := f.Stmt(f.TopLevel[0]).(*ast.ImportStmt)
	require.True(t, ok)
	require.Equal(t, "pf.Stdout", imp.ModulePath)
	require.Equal(t, "Out", imp.Shorthand)
	require.Len(t, imp.Exposing, 1)
}

func TestParseMissingHeaderEmitsDiagnosticButStillParsesBody(t *testing.T) {
	f, diags := parseBody(t, "x = 1")
	require.True(t, diags.HasErrors())
	require.Len(t, f.TopLevel, 1)

	_, ok := f.HeaderAt(f.Header).(*ast.MalformedHeader)
	require.True(t, ok)
}

func TestParseTypeModuleHeaderSynthesis(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	f := ParseFile([]byte("Shape :: Circle(Int) | Square(Int)"), "Shape.lm", diags)
	require.False(t, diags.HasErrors())

	hdr, ok := f.HeaderAt(f.Header).(*ast.TypeModuleHeader)
	require.True(t, ok)
	require.Equal(t, "Shape", hdr.TypeName)
}

func TestParseMalformedExprRecovers(t *testing.T) {
	f, diags := parseBody(t, "module exposes [x]\nx = )")
	require.True(t, diags.HasErrors())
	require.Len(t, f.TopLevel, 1)

	decl := f.Stmt(f.TopLevel[0]).(*ast.DeclStmt)
	_, ok := f.Expr(decl.Expr).(*ast.MalformedExpr)
	require.True(t, ok)
}

func TestParseTotalityNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"module",
		"module exposes",
		"x = ",
		"{ ",
		"[1, 2",
		"when is",
		"\\ -> ",
	}
	for _, in := range inputs {
		require.NotPanics(t, func() {
			diags := diagnostic.NewBag(nil)
			ParseFile([]byte(in), "test.lm", diags)
		}, "input: %q", in)
	}
}
