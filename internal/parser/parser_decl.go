package parser

import (
	"path/filepath"
	"strings"

	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/token"
)

// parseHeader parses one of the five header kinds (spec.md §4.3). A
// file with none of these leading keywords is left with
// ast.InvalidHeaderIdx; ParseFile resolves that case once the body has
// been parsed, since type-module synthesis depends on seeing the
// top-level declarations.
func (p *Parser) parseHeader() {
	switch p.cur().Tag {
	case token.KwModule:
		p.advance()
		p.expect(token.KwExposes, "PAR040", "expected_exposes_in_module_header")
		exposes := p.parseIdentList()
		p.file.Header = p.file.NewHeader(&ast.ModuleHeader{Exposes: exposes})
	case token.KwApp:
		p.advance()
		p.expect(token.KwProvides, "PAR041", "expected_provides_in_app_header")
		provides := p.parseIdentList()
		platform := p.parsePlatformPackage()
		p.file.Header = p.file.NewHeader(&ast.AppHeader{Provides: provides, Platform: platform})
	case token.KwPackage:
		p.advance()
		p.expect(token.KwExposes, "PAR042", "expected_exposes_in_package_header")
		exposes := p.parseIdentList()
		deps := p.parsePackageDeps()
		p.file.Header = p.file.NewHeader(&ast.PackageHeader{Exposes: exposes, Deps: deps})
	case token.KwPlatform:
		p.advance()
		p.expect(token.KwRequires, "PAR043", "expected_requires_in_platform_header")
		requires := p.parseIdentList()
		p.expect(token.KwExposes, "PAR044", "expected_exposes_in_platform_header")
		exposes := p.parseIdentList()
		p.expect(token.KwPackages, "PAR045", "expected_packages_in_platform_header")
		packages := p.parsePackageDeps()
		var imports []string
		if p.accept(token.KwImport) {
			imports = p.parseStringList()
		}
		p.file.Header = p.file.NewHeader(&ast.PlatformHeader{Requires: requires, Exposes: exposes, Packages: packages, Imports: imports})
	case token.KwHosted:
		p.advance()
		p.expect(token.KwExposes, "PAR046", "expected_exposes_in_hosted_header")
		exposes := p.parseIdentList()
		p.file.Header = p.file.NewHeader(&ast.HostedHeader{Exposes: exposes})
	default:
		p.file.Header = ast.InvalidHeaderIdx
	}
}

// resolveImplicitHeader runs after the body has parsed, synthesizing a
// TypeModuleHeader when a top-level type matches the file's base name,
// else recording `missing_header` (spec.md §4.3).
func (p *Parser) resolveImplicitHeader() {
	base := filepath.Base(p.file.Path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, idx := range p.file.TopLevel {
		if decl, ok := p.file.Stmt(idx).(*ast.TypeDeclStmt); ok {
			if p.file.Idents.Text(decl.Name) == base {
				p.file.Header = p.file.NewHeader(&ast.TypeModuleHeader{TypeName: base})
				return
			}
		}
	}
	p.emit("PAR047", "missing_header", region.Zero)
	p.file.Header = p.file.NewHeader(&ast.MalformedHeader{Reason: "missing_header"})
}

func (p *Parser) parseIdentList() []ident.Idx {
	var out []ident.Idx
	if !p.expect(token.LBracket, "PAR060", "expected_open_bracket_in_exposing_list") {
		return out
	}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		t := p.cur()
		if t.Tag != token.LowerIdent && t.Tag != token.UpperIdent {
			p.emit("PAR061", "expected_ident_in_exposing_list", t.Region)
			break
		}
		p.advance()
		out = append(out, p.file.Idents.Intern(t.Literal))
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, "PAR062", "expected_close_bracket_in_exposing_list")
	return out
}

func (p *Parser) parseStringList() []string {
	var out []string
	if !p.expect(token.LBracket, "PAR063", "expected_open_bracket_in_string_list") {
		return out
	}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if !p.at(token.String) {
			p.emit("PAR064", "expected_string_literal_in_list", p.cur().Region)
			break
		}
		out = append(out, p.cur().Literal)
		p.advance()
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, "PAR065", "expected_close_bracket_in_string_list")
	return out
}

func (p *Parser) parsePackageDeps() []ast.PackageDep {
	var out []ast.PackageDep
	if !p.expect(token.LBrace, "PAR066", "expected_open_brace_in_package_deps") {
		return out
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		t := p.cur()
		if t.Tag != token.LowerIdent {
			p.emit("PAR067", "expected_dep_shorthand", t.Region)
			break
		}
		p.advance()
		shorthand := t.Literal
		p.expect(token.Colon, "PAR068", "expected_colon_after_dep_shorthand")
		loc := ""
		if p.at(token.String) {
			loc = p.cur().Literal
			p.advance()
		} else {
			p.emit("PAR069", "expected_dep_location_string", p.cur().Region)
		}
		out = append(out, ast.PackageDep{Shorthand: shorthand, Location: loc})
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, "PAR070", "expected_close_brace_in_package_deps")
	return out
}

func (p *Parser) parsePlatformPackage() ast.PlatformPackage {
	var pp ast.PlatformPackage
	if !p.expect(token.LBrace, "PAR071", "expected_open_brace_in_platform_package") {
		return pp
	}
	if p.at(token.LowerIdent) {
		pp.Shorthand = p.cur().Literal
		p.advance()
	}
	p.expect(token.Colon, "PAR072", "expected_colon_in_platform_package")
	p.expect(token.KwPlatform, "PAR073", "expected_platform_keyword")
	if p.at(token.String) {
		pp.Location = p.cur().Literal
		p.advance()
	}
	p.expect(token.RBrace, "PAR074", "expected_close_brace_in_platform_package")
	return pp
}

func (p *Parser) parseModulePath() string {
	var sb strings.Builder
	for p.at(token.UpperIdent) || p.at(token.LowerIdent) {
		sb.WriteString(p.cur().Literal)
		p.advance()
		if p.at(token.Dot) {
			sb.WriteByte('.')
			p.advance()
			continue
		}
		break
	}
	return sb.String()
}

// parseTopLevelStmt dispatches on the lookahead token set that
// distinguishes the five top-level statement forms (spec.md §4.4
// "top-level statement validation").
func (p *Parser) parseTopLevelStmt() ast.StmtIdx {
	switch p.cur().Tag {
	case token.KwImport:
		return p.parseImportStmt()
	case token.KwExpect:
		return p.parseExpectStmt()
	case token.UpperIdent:
		if p.peek().Tag == token.DoubleColon {
			return p.parseTypeDeclStmt()
		}
	case token.LowerIdent:
		if p.peek().Tag == token.Colon {
			return p.parseTypeAnnoStmt()
		}
	}
	return p.parseDeclStmt()
}

func (p *Parser) parseImportStmt() ast.StmtIdx {
	start := p.advance().Region // import
	path := p.parseModulePath()
	shorthand := ""
	if p.accept(token.KwAs) {
		t := p.cur()
		if t.Tag == token.UpperIdent || t.Tag == token.LowerIdent {
			shorthand = t.Literal
			p.advance()
		}
	}
	var exposing []ident.Idx
	if p.accept(token.KwExposes) {
		exposing = p.parseIdentList()
	}
	end := p.toks[maxInt(p.pos-1, 0)].Region
	return p.file.NewStmt(&ast.ImportStmt{Base: baseAt(start.Span(end)), ModulePath: path, Shorthand: shorthand, Exposing: exposing})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (p *Parser) parseExpectStmt() ast.StmtIdx {
	start := p.advance().Region // expect
	e := p.parseExpr(precLowest)
	end := p.file.Expr(e).Region()
	return p.file.NewStmt(&ast.ExpectStmt{Base: baseAt(start.Span(end)), Expr: e})
}

func (p *Parser) parseTypeAnnoStmt() ast.StmtIdx {
	nameTok := p.advance()
	name := p.file.Idents.Intern(nameTok.Literal)
	p.expect(token.Colon, "PAR080", "expected_colon_in_type_annotation")
	anno := p.parseTypeAnno()
	end := p.file.Type(anno).Region()
	return p.file.NewStmt(&ast.TypeAnnoStmt{Base: baseAt(nameTok.Region.Span(end)), Name: name, Anno: anno})
}

// parseTypeDeclStmt parses `Name param... :: definition`, where
// Definition is an algebraic type (pipe-separated constructors) or a
// plain alias (spec.md §4.5 "type declaration").
func (p *Parser) parseTypeDeclStmt() ast.StmtIdx {
	nameTok := p.advance()
	name := p.file.Idents.Intern(nameTok.Literal)
	var params []ident.Idx
	for p.at(token.LowerIdent) {
		t := p.advance()
		params = append(params, p.file.Idents.Intern(t.Literal))
	}
	p.expect(token.DoubleColon, "PAR081", "expected_double_colon_in_type_decl")
	def := p.parseTypeDefinition()
	end := p.file.Type(def).Region()
	return p.file.NewStmt(&ast.TypeDeclStmt{Base: baseAt(nameTok.Region.Span(end)), Name: name, TypeParams: params, Definition: def, Exported: false})
}

func (p *Parser) parseTypeDefinition() ast.TypeIdx {
	start := p.cur().Region
	first := p.parseTypeTerm()
	if p.at(token.Pipe) {
		ctors := []ast.ConstructorAnno{p.typeTermToConstructor(first)}
		var lastTerm ast.TypeIdx = first
		for p.accept(token.Pipe) {
			lastTerm = p.parseTypeTerm()
			ctors = append(ctors, p.typeTermToConstructor(lastTerm))
		}
		end := p.file.Type(lastTerm).Region()
		return p.file.NewType(&ast.AlgebraicTypeAnno{Base: baseAt(start.Span(end)), Constructors: ctors})
	}
	return p.file.NewType(&ast.AliasTypeAnno{Base: baseAt(start.Span(p.file.Type(first).Region())), Target: first})
}

func (p *Parser) typeTermToConstructor(idx ast.TypeIdx) ast.ConstructorAnno {
	if apply, ok := p.file.Type(idx).(*ast.TypeApplyAnno); ok {
		return ast.ConstructorAnno{Name: apply.Name, Fields: apply.Args}
	}
	return ast.ConstructorAnno{Name: ident.Invalid}
}

// parseDeclStmt parses a value binding or bare effectful statement by
// first parsing an expression and, only if `=` follows, reinterpreting
// its left-hand side as a pattern. This mirrors how the grammar's
// pattern forms are a syntactic subset of its expression forms.
func (p *Parser) parseDeclStmt() ast.StmtIdx {
	start := p.cur().Region

	if p.at(token.Underscore) {
		wildTok := p.advance()
		pat := p.file.NewPattern(&ast.WildcardPattern{Base: baseAt(wildTok.Region)})
		p.expect(token.Assign, "PAR082", "expected_assign_after_wildcard_pattern")
		rhs := p.parseExpr(precLowest)
		end := p.file.Expr(rhs).Region()
		return p.file.NewStmt(&ast.DeclStmt{
			Base:       baseAt(start.Span(end)),
			Pattern:    pat,
			Expr:       rhs,
			Annotation: ast.InvalidTypeIdx,
			Kind:       ast.DeclIgnoredFx,
		})
	}

	lhs := p.parseExpr(precLowest)

	if !p.accept(token.Assign) {
		end := p.file.Expr(lhs).Region()
		return p.file.NewStmt(&ast.DeclStmt{
			Base:       baseAt(start.Span(end)),
			Pattern:    ast.InvalidPatternIdx,
			Expr:       lhs,
			Annotation: ast.InvalidTypeIdx,
			Kind:       ast.DeclStmtFx,
		})
	}

	pat, ok := p.exprToPattern(lhs)
	if !ok {
		pat = p.malformedPattern("pattern_from_invalid_lhs", p.file.Expr(lhs).Region())
	}
	rhs := p.parseExpr(precLowest)
	kind := ast.DeclLet
	if _, isWildcard := p.file.Pattern(pat).(*ast.WildcardPattern); isWildcard {
		kind = ast.DeclIgnoredFx
	}
	end := p.file.Expr(rhs).Region()
	return p.file.NewStmt(&ast.DeclStmt{
		Base:       baseAt(start.Span(end)),
		Pattern:    pat,
		Expr:       rhs,
		Annotation: ast.InvalidTypeIdx,
		Kind:       kind,
	})
}

// exprToPattern converts an already-parsed expression into the pattern
// it denotes as a decl's left-hand side. Patterns and expressions share
// syntax for idents, literals, tags, tuples, and lists, so re-parsing
// is unnecessary; anything else fails.
func (p *Parser) exprToPattern(idx ast.ExprIdx) (ast.PatternIdx, bool) {
	e := p.file.Expr(idx)
	switch n := e.(type) {
	case *ast.VarExpr:
		return p.file.NewPattern(&ast.IdentPattern{Base: n.Base, Name: n.Name}), true
	case *ast.IntLit:
		return p.file.NewPattern(&ast.IntPattern{Base: n.Base, Text: n.Text}), true
	case *ast.FloatLit:
		return p.file.NewPattern(&ast.FracPattern{Base: n.Base, Text: n.Text}), true
	case *ast.StrExpr:
		if len(n.Parts) == 1 && n.Parts[0].IsLiteral {
			return p.file.NewPattern(&ast.StringPattern{Base: n.Base, Value: p.file.Strings.Text(n.Parts[0].Literal)}), true
		}
		return ast.InvalidPatternIdx, false
	case *ast.TagCtorExpr:
		pats := make([]ast.PatternIdx, 0, len(n.Args))
		for _, a := range n.Args {
			sub, ok := p.exprToPattern(a)
			if !ok {
				return ast.InvalidPatternIdx, false
			}
			pats = append(pats, sub)
		}
		return p.file.NewPattern(&ast.TagPattern{Base: n.Base, Name: n.Name, Patterns: pats}), true
	case *ast.TupleExpr:
		pats := make([]ast.PatternIdx, 0, len(n.Elements))
		for _, el := range n.Elements {
			sub, ok := p.exprToPattern(el)
			if !ok {
				return ast.InvalidPatternIdx, false
			}
			pats = append(pats, sub)
		}
		return p.file.NewPattern(&ast.TuplePattern{Base: n.Base, Elements: pats}), true
	case *ast.ListExpr:
		pats := make([]ast.PatternIdx, 0, len(n.Elements))
		for _, el := range n.Elements {
			sub, ok := p.exprToPattern(el)
			if !ok {
				return ast.InvalidPatternIdx, false
			}
			pats = append(pats, sub)
		}
		return p.file.NewPattern(&ast.ListPattern{Base: n.Base, Elements: pats}), true
	case *ast.MalformedExpr:
		return p.file.NewPattern(&ast.MalformedPattern{Base: n.Base, Reason: n.Reason}), true
	default:
		return ast.InvalidPatternIdx, false
	}
}
