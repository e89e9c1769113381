package parser

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/token"
)

func (p *Parser) registerTables() {
	p.prefix = map[token.Tag]prefixFn{
		token.Int:         p.parseInt,
		token.Float:       p.parseFloat,
		token.String:      p.parseString,
		token.MultilineStr: p.parseString,
		token.Scalar:      p.parseScalar,
		token.LowerIdent:  p.parseVar,
		token.UpperIdent:  p.parseTagExpr,
		token.True:        p.parseBool,
		token.False:       p.parseBool,
		token.LParen:      p.parseParenOrTuple,
		token.LBracket:    p.parseList,
		token.LBrace:      p.parseRecord,
		token.Minus:       p.parseUnary,
		token.Not:         p.parseUnary,
		token.Backslash:   p.parseLambda,
		token.KwIf:        p.parseIf,
		token.KwWhen:      p.parseWhen,
		token.KwExpect:    p.parseExpect,
		token.KwCrash:     p.parseCrash,
		token.KwDbg:       p.parseDbg,
	}

	p.infix = map[token.Tag]infixFn{
		token.Plus: p.parseBinOp, token.Minus: p.parseBinOp,
		token.Star: p.parseBinOp, token.Slash: p.parseBinOp,
		token.DoubleSlash: p.parseBinOp, token.Percent: p.parseBinOp,
		token.EqEq: p.parseBinOp, token.NotEq: p.parseBinOp,
		token.Lt: p.parseBinOp, token.Gt: p.parseBinOp,
		token.Le: p.parseBinOp, token.Ge: p.parseBinOp,
		token.And: p.parseBinOp, token.Or: p.parseBinOp,
		token.Pipe:     p.parsePipe,
		token.Dot:      p.parseFieldAccess,
		token.LParen:   p.parseApply,
	}

	p.prec = map[token.Tag]int{
		token.Pipe: precPipe,
		token.Or:   precOr,
		token.And:  precAnd,
		token.EqEq: precCompare, token.NotEq: precCompare,
		token.Lt: precCompare, token.Gt: precCompare,
		token.Le: precCompare, token.Ge: precCompare,
		token.Plus: precAdd, token.Minus: precAdd,
		token.Star: precMul, token.Slash: precMul,
		token.DoubleSlash: precMul, token.Percent: precMul,
		token.Dot:    precApply,
		token.LParen: precApply,
	}
}

func (p *Parser) precedenceOf(t token.Tag) int {
	if pr, ok := p.prec[t]; ok {
		return pr
	}
	return precLowest
}

// parseExpr implements Pratt precedence climbing.
func (p *Parser) parseExpr(minPrec int) ast.ExprIdx {
	start := p.cur().Region
	prefix, ok := p.prefix[p.cur().Tag]
	if !ok {
		tok := p.advance()
		return p.malformedExpr("expr_unexpected_token: "+tok.Tag.String(), start.Span(tok.Region))
	}
	left := prefix()

	for {
		tag := p.cur().Tag
		pr := p.precedenceOf(tag)
		if pr <= minPrec {
			break
		}
		infix, ok := p.infix[tag]
		if !ok {
			break
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseExprTopLevel() ast.ExprIdx {
	return p.parseExpr(precLowest)
}

func (p *Parser) parseInt() ast.ExprIdx {
	tok := p.advance()
	text, prec := splitPrecisionSuffix(tok.Literal)
	return p.file.NewExpr(&ast.IntLit{Base: baseAt(tok.Region), Text: text, Precision: prec})
}

func (p *Parser) parseFloat() ast.ExprIdx {
	tok := p.advance()
	text, prec := splitPrecisionSuffix(tok.Literal)
	return p.file.NewExpr(&ast.FloatLit{Base: baseAt(tok.Region), Text: text, Precision: prec})
}

func splitPrecisionSuffix(lit string) (text, precision string) {
	for suf := range token.NumPrecisionSuffixes {
		if len(lit) > len(suf) && lit[len(lit)-len(suf):] == suf {
			return lit[:len(lit)-len(suf)], suf
		}
	}
	return lit, ""
}

func (p *Parser) parseString() ast.ExprIdx {
	tok := p.advance()
	lit := p.file.Strings.Intern(tok.Literal)
	return p.file.NewExpr(&ast.StrExpr{
		Base:  baseAt(tok.Region),
		Parts: []ast.StrPart{{IsLiteral: true, Literal: lit}},
	})
}

func (p *Parser) parseScalar() ast.ExprIdx {
	tok := p.advance()
	var r rune
	for _, c := range tok.Literal {
		r = c
		break
	}
	return p.file.NewExpr(&ast.ScalarLit{Base: baseAt(tok.Region), Value: r})
}

func (p *Parser) parseBool() ast.ExprIdx {
	tok := p.advance()
	return p.file.NewExpr(&ast.BoolLit{Base: baseAt(tok.Region), Value: tok.Tag == token.True})
}

func (p *Parser) parseVar() ast.ExprIdx {
	tok := p.advance()
	name := p.file.Idents.Intern(tok.Literal)
	return p.file.NewExpr(&ast.VarExpr{Base: baseAt(tok.Region), Name: name})
}

func (p *Parser) parseTagExpr() ast.ExprIdx {
	tok := p.advance()
	name := p.file.Idents.Intern(tok.Literal)
	var args []ast.ExprIdx
	end := tok.Region
	if p.at(token.LParen) {
		p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			args = append(args, p.parseExpr(precLowest))
			if !p.accept(token.Comma) {
				break
			}
		}
		end = p.cur().Region
		p.expect(token.RParen, "PAR012", "expected_expr_close_round_or_comma")
	}
	return p.file.NewExpr(&ast.TagCtorExpr{Base: baseAt(tok.Region.Span(end)), Name: name, Args: args})
}

func (p *Parser) parseParenOrTuple() ast.ExprIdx {
	open := p.advance() // (
	if p.accept(token.RParen) {
		return p.file.NewExpr(&ast.TupleExpr{Base: baseAt(open.Region)})
	}
	first := p.parseExpr(precLowest)
	if p.at(token.RParen) {
		end := p.advance()
		_ = end
		return first
	}
	elems := []ast.ExprIdx{first}
	for p.accept(token.Comma) {
		if p.at(token.RParen) {
			break
		}
		elems = append(elems, p.parseExpr(precLowest))
	}
	end := p.cur().Region
	p.expect(token.RParen, "PAR012", "expected_expr_close_round_or_comma")
	return p.file.NewExpr(&ast.TupleExpr{Base: baseAt(open.Region.Span(end)), Elements: elems})
}

func (p *Parser) parseList() ast.ExprIdx {
	open := p.advance() // [
	var elems []ast.ExprIdx
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpr(precLowest))
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.cur().Region
	p.expect(token.RBracket, "PAR013", "expected_list_close_bracket_or_comma")
	return p.file.NewExpr(&ast.ListExpr{Base: baseAt(open.Region.Span(end)), Elements: elems})
}

func (p *Parser) parseFieldInits(closing token.Tag) []ast.FieldInit {
	var fields []ast.FieldInit
	for !p.at(closing) && !p.at(token.EOF) {
		nameTok := p.cur()
		if nameTok.Tag != token.LowerIdent {
			p.emit("PAR014", "expected_field_name", nameTok.Region)
			p.resync()
			break
		}
		p.advance()
		name := p.file.Idents.Intern(nameTok.Literal)
		p.expect(token.Colon, "PAR015", "expected_colon_after_field_name")
		value := p.parseExpr(precLowest)
		fields = append(fields, ast.FieldInit{Name: name, Value: value, R: nameTok.Region})
		if !p.accept(token.Comma) {
			break
		}
	}
	return fields
}

func (p *Parser) parseRecord() ast.ExprIdx {
	open := p.advance() // {
	// Disambiguate `{ base | field: value }` (record update) from a
	// plain record literal by looking for `|` before any `:`.
	if !p.at(token.RBrace) && p.looksLikeRecordUpdate() {
		baseExpr := p.parseExpr(precPipe)
		p.expect(token.Pipe, "PAR016", "expected_pipe_in_record_update")
		fields := p.parseFieldInits(token.RBrace)
		end := p.cur().Region
		p.expect(token.RBrace, "PAR017", "expected_record_close_brace")
		return p.file.NewExpr(&ast.RecordUpdateExpr{Base: baseAt(open.Region.Span(end)), BaseExpr: baseExpr, Fields: fields})
	}
	fields := p.parseFieldInits(token.RBrace)
	end := p.cur().Region
	p.expect(token.RBrace, "PAR017", "expected_record_close_brace")
	return p.file.NewExpr(&ast.RecordExpr{Base: baseAt(open.Region.Span(end)), Fields: fields})
}

// looksLikeRecordUpdate scans ahead for a `|` before the matching `}`
// at depth 0, without consuming tokens.
func (p *Parser) looksLikeRecordUpdate() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Tag {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace:
			if depth == 0 {
				return false
			}
			depth--
		case token.RParen, token.RBracket:
			depth--
		case token.Pipe:
			if depth == 0 {
				return true
			}
		case token.Colon:
			if depth == 0 {
				return false
			}
		case token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseUnary() ast.ExprIdx {
	tok := p.advance()
	operand := p.parseExpr(precUnary)
	opEnd := p.exprRegion(operand)
	return p.file.NewExpr(&ast.UnaryOpExpr{Base: baseAt(tok.Region.Span(opEnd)), Op: tok.Tag.String(), Operand: operand})
}

func (p *Parser) exprRegion(idx ast.ExprIdx) region.Region {
	return p.file.Expr(idx).Region()
}

func (p *Parser) parseBinOp(left ast.ExprIdx) ast.ExprIdx {
	tok := p.advance()
	prec := p.precedenceOf(tok.Tag)
	right := p.parseExpr(prec)
	leftR := p.file.Expr(left).Region()
	rightR := p.file.Expr(right).Region()
	return p.file.NewExpr(&ast.BinOpExpr{Base: baseAt(leftR.Span(rightR)), Op: tok.Tag.String(), Left: left, Right: right})
}

// parsePipe parses `a |> f` as a BinOpExpr, not as `f(a)`;
// canonicalization (per spec.md §4.4) does the desugar, and the parser
// keeps it as a distinct BinOp so canon can tell `|>` apart from other
// operators.
func (p *Parser) parsePipe(left ast.ExprIdx) ast.ExprIdx {
	return p.parseBinOp(left)
}

func (p *Parser) parseFieldAccess(left ast.ExprIdx) ast.ExprIdx {
	p.advance() // .
	nameTok := p.cur()
	if nameTok.Tag != token.LowerIdent {
		return p.malformedExpr("expr_no_space_dot_int", nameTok.Region)
	}
	p.advance()
	name := p.file.Idents.Intern(nameTok.Literal)
	leftR := p.file.Expr(left).Region()
	return p.file.NewExpr(&ast.RecordAccessExpr{Base: baseAt(leftR.Span(nameTok.Region)), Target: left, Field: name})
}

func (p *Parser) parseApply(fn ast.ExprIdx) ast.ExprIdx {
	open := p.advance() // (
	var args []ast.ExprIdx
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseExpr(precLowest))
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.cur().Region
	p.expect(token.RParen, "PAR012", "expected_expr_close_round_or_comma")
	fnR := p.file.Expr(fn).Region()
	_ = open
	return p.file.NewExpr(&ast.ApplyExpr{Base: baseAt(fnR.Span(end)), Func: fn, Args: args})
}

func (p *Parser) parseLambda() ast.ExprIdx {
	open := p.advance() // backslash
	var params []ast.PatternIdx
	for {
		params = append(params, p.parsePattern())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.Arrow, "PAR018", "expected_arrow_after_lambda_params")
	body := p.parseExpr(precLowest)
	bodyR := p.file.Expr(body).Region()
	return p.file.NewExpr(&ast.LambdaExpr{Base: baseAt(open.Region.Span(bodyR)), Params: params, Body: body})
}

func (p *Parser) parseIf() ast.ExprIdx {
	start := p.cur().Region
	var branches []ast.IfBranch
	for {
		p.expect(token.KwIf, "PAR019", "expected_if")
		cond := p.parseExpr(precLowest)
		p.expect(token.KwThen, "PAR020", "expected_then")
		then := p.parseExpr(precLowest)
		branches = append(branches, ast.IfBranch{Cond: cond, Then: then})
		if !p.accept(token.KwElse) {
			return p.file.NewExpr(&ast.IfExpr{Base: baseAt(start.Span(p.file.Expr(then).Region())), Branches: branches, Else: ast.InvalidExprIdx})
		}
		if p.at(token.KwIf) {
			continue
		}
		elseExpr := p.parseExpr(precLowest)
		return p.file.NewExpr(&ast.IfExpr{Base: baseAt(start.Span(p.file.Expr(elseExpr).Region())), Branches: branches, Else: elseExpr})
	}
}

func (p *Parser) parseWhen() ast.ExprIdx {
	start := p.advance().Region // when
	scrutinee := p.parseExpr(precLowest)
	p.expect(token.KwIs, "PAR021", "expected_is_after_when_scrutinee")
	var cases []ast.WhenCase
	for p.isPatternStart() {
		pat := p.parsePattern()
		guard := ast.InvalidExprIdx
		if p.accept(token.KwIf) {
			guard = p.parseExpr(precLowest)
		}
		p.expect(token.Arrow, "PAR022", "expected_arrow_in_when_case")
		body := p.parseExpr(precLowest)
		cases = append(cases, ast.WhenCase{Pattern: pat, Guard: guard, Body: body})
	}
	end := start
	if len(cases) > 0 {
		end = p.file.Expr(cases[len(cases)-1].Body).Region()
	}
	return p.file.NewExpr(&ast.WhenExpr{Base: baseAt(start.Span(end)), Scrutinee: scrutinee, Cases: cases})
}

func (p *Parser) parseExpect() ast.ExprIdx {
	start := p.advance().Region
	e := p.parseExpr(precLowest)
	return p.file.NewExpr(&ast.ExpectExpr{Base: baseAt(start.Span(p.file.Expr(e).Region())), Expr: e})
}

func (p *Parser) parseDbg() ast.ExprIdx {
	start := p.advance().Region
	e := p.parseExpr(precLowest)
	return p.file.NewExpr(&ast.DbgExpr{Base: baseAt(start.Span(p.file.Expr(e).Region())), Expr: e})
}

func (p *Parser) parseCrash() ast.ExprIdx {
	start := p.advance().Region
	msg := ast.InvalidExprIdx
	end := start
	if p.at(token.String) || p.at(token.MultilineStr) {
		msg = p.parseExpr(precUnary)
		end = p.file.Expr(msg).Region()
	}
	return p.file.NewExpr(&ast.CrashExpr{Base: baseAt(start.Span(end)), Message: msg})
}
