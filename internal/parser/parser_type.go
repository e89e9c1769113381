package parser

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/token"
)

// parseTypeAnno parses a type annotation, including the comma-separated
// parameter list and pure/effectful arrow of a function type (spec.md
// §4.5.3 "function type and purity attribute").
func (p *Parser) parseTypeAnno() ast.TypeIdx {
	start := p.cur().Region
	first := p.parseTypeTerm()
	terms := []ast.TypeIdx{first}
	for p.accept(token.Comma) {
		terms = append(terms, p.parseTypeTerm())
	}

	if p.at(token.Arrow) || p.at(token.FatArrow) {
		pure := p.at(token.Arrow)
		p.advance()
		ret := p.parseTypeAnno()
		end := p.file.Type(ret).Region()
		return p.file.NewType(&ast.FuncTypeAnno{Base: baseAt(start.Span(end)), Params: terms, Return: ret, Pure: pure})
	}
	if len(terms) > 1 {
		return p.malformedType("type_comma_list_without_arrow", start.Span(p.file.Type(terms[len(terms)-1]).Region()))
	}
	return first
}

func (p *Parser) curIsTypeAtomStart() bool {
	switch p.cur().Tag {
	case token.LowerIdent, token.UpperIdent, token.Underscore, token.LParen, token.LBrace, token.LBracket:
		return true
	}
	return false
}

func (p *Parser) parseTypeTerm() ast.TypeIdx {
	tok := p.cur()
	switch tok.Tag {
	case token.LowerIdent:
		p.advance()
		name := p.file.Idents.Intern(tok.Literal)
		return p.file.NewType(&ast.TypeVarAnno{Base: baseAt(tok.Region), Name: name})
	case token.Underscore:
		p.advance()
		return p.file.NewType(&ast.WildcardTypeAnno{Base: baseAt(tok.Region)})
	case token.UpperIdent:
		p.advance()
		name := p.file.Idents.Intern(tok.Literal)
		var args []ast.TypeIdx
		end := tok.Region
		for p.curIsTypeAtomStart() && p.toks[p.pos-1].Tag != token.Newline {
			arg := p.parseTypeAtomNoApply()
			args = append(args, arg)
			end = p.file.Type(arg).Region()
		}
		return p.file.NewType(&ast.TypeApplyAnno{Base: baseAt(tok.Region.Span(end)), Name: name, Args: args})
	case token.LParen:
		return p.parseTupleTypeAnno()
	case token.LBrace:
		return p.parseRecordTypeAnno()
	case token.LBracket:
		return p.parseTagUnionTypeAnno()
	default:
		t := p.advance()
		return p.malformedType("type_unexpected_token: "+t.Tag.String(), t.Region)
	}
}

// parseTypeAtomNoApply parses one juxtaposed type argument without
// itself consuming further juxtaposed arguments (`List a` applies `a`
// to `List`, not `a`'s own argument list).
func (p *Parser) parseTypeAtomNoApply() ast.TypeIdx {
	tok := p.cur()
	switch tok.Tag {
	case token.LowerIdent:
		p.advance()
		name := p.file.Idents.Intern(tok.Literal)
		return p.file.NewType(&ast.TypeVarAnno{Base: baseAt(tok.Region), Name: name})
	case token.Underscore:
		p.advance()
		return p.file.NewType(&ast.WildcardTypeAnno{Base: baseAt(tok.Region)})
	case token.UpperIdent:
		p.advance()
		name := p.file.Idents.Intern(tok.Literal)
		return p.file.NewType(&ast.TypeApplyAnno{Base: baseAt(tok.Region), Name: name})
	case token.LParen:
		return p.parseTupleTypeAnno()
	case token.LBrace:
		return p.parseRecordTypeAnno()
	case token.LBracket:
		return p.parseTagUnionTypeAnno()
	default:
		t := p.advance()
		return p.malformedType("type_unexpected_token: "+t.Tag.String(), t.Region)
	}
}

func (p *Parser) parseTupleTypeAnno() ast.TypeIdx {
	open := p.advance() // (
	if p.accept(token.RParen) {
		return p.file.NewType(&ast.TupleTypeAnno{Base: baseAt(open.Region)})
	}
	first := p.parseTypeAnno()
	if p.at(token.RParen) {
		p.advance()
		return first
	}
	elems := []ast.TypeIdx{first}
	for p.accept(token.Comma) {
		if p.at(token.RParen) {
			break
		}
		elems = append(elems, p.parseTypeAnno())
	}
	end := p.cur().Region
	p.expect(token.RParen, "PAR050", "expected_tuple_type_close_round_or_comma")
	return p.file.NewType(&ast.TupleTypeAnno{Base: baseAt(open.Region.Span(end)), Elements: elems})
}

func (p *Parser) parseRecordTypeAnno() ast.TypeIdx {
	open := p.advance() // {
	var fields []ast.RecordFieldAnno
	ext := ast.InvalidTypeIdx
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		nameTok := p.cur()
		if nameTok.Tag != token.LowerIdent {
			p.emit("PAR051", "expected_record_type_field_name", nameTok.Region)
			p.resync()
			break
		}
		p.advance()
		name := p.file.Idents.Intern(nameTok.Literal)
		p.expect(token.Colon, "PAR052", "expected_colon_after_record_type_field")
		fieldType := p.parseTypeAnno()
		fields = append(fields, ast.RecordFieldAnno{Name: name, Type: fieldType})
		if !p.accept(token.Comma) {
			break
		}
	}
	if p.accept(token.Pipe) {
		ext = p.parseTypeAnno()
	}
	end := p.cur().Region
	p.expect(token.RBrace, "PAR053", "expected_record_type_close_brace")
	return p.file.NewType(&ast.RecordTypeAnno{Base: baseAt(open.Region.Span(end)), Fields: fields, Ext: ext})
}

// parseTagUnionTypeAnno parses `[Tag(a, b), Tag2]` plus an optional
// trailing `*` marking the union open (spec.md §4.5.3 "open tag
// unions").
func (p *Parser) parseTagUnionTypeAnno() ast.TypeIdx {
	open := p.advance() // [
	var tags []ast.TagAnno
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		nameTok := p.cur()
		if nameTok.Tag != token.UpperIdent {
			p.emit("PAR054", "expected_tag_name", nameTok.Region)
			p.resync()
			break
		}
		p.advance()
		name := p.file.Idents.Intern(nameTok.Literal)
		var fields []ast.TypeIdx
		if p.at(token.LParen) {
			p.advance()
			for !p.at(token.RParen) && !p.at(token.EOF) {
				fields = append(fields, p.parseTypeAnno())
				if !p.accept(token.Comma) {
					break
				}
			}
			p.expect(token.RParen, "PAR055", "expected_tag_field_close_round_or_comma")
		}
		tags = append(tags, ast.TagAnno{Name: name, Fields: fields})
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.cur().Region
	p.expect(token.RBracket, "PAR056", "expected_tag_union_close_bracket")
	ext := ast.InvalidTypeIdx
	if p.at(token.Star) {
		starTok := p.advance()
		end = starTok.Region
		ext = p.file.NewType(&ast.WildcardTypeAnno{Base: baseAt(starTok.Region)})
	}
	return p.file.NewType(&ast.TagUnionTypeAnno{Base: baseAt(open.Region.Span(end)), Tags: tags, Ext: ext})
}
