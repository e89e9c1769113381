package parser

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/token"
)

// parsePattern parses one pattern, including the trailing `as name`
// binder and `|` alternation (spec.md §4.4 "pattern canonicalization").
func (p *Parser) parsePattern() ast.PatternIdx {
	first := p.parsePatternPrimary()

	if p.at(token.Pipe) {
		start := p.file.Pattern(first).Region()
		alts := []ast.PatternIdx{first}
		for p.accept(token.Pipe) {
			alts = append(alts, p.parsePatternPrimary())
		}
		end := p.file.Pattern(alts[len(alts)-1]).Region()
		first = p.file.NewPattern(&ast.AltPattern{Base: baseAt(start.Span(end)), Alternatives: alts})
	}

	if p.at(token.KwAs) {
		p.advance()
		nameTok := p.cur()
		if nameTok.Tag != token.LowerIdent {
			return p.malformedPattern("expected_as_binder_name", nameTok.Region)
		}
		p.advance()
		name := p.file.Idents.Intern(nameTok.Literal)
		start := p.file.Pattern(first).Region()
		return p.file.NewPattern(&ast.AsPattern{Base: baseAt(start.Span(nameTok.Region)), Inner: first, Name: name})
	}

	return first
}

func (p *Parser) parsePatternPrimary() ast.PatternIdx {
	tok := p.cur()
	switch tok.Tag {
	case token.LowerIdent:
		p.advance()
		name := p.file.Idents.Intern(tok.Literal)
		return p.file.NewPattern(&ast.IdentPattern{Base: baseAt(tok.Region), Name: name})
	case token.Underscore:
		p.advance()
		return p.file.NewPattern(&ast.WildcardPattern{Base: baseAt(tok.Region)})
	case token.Int:
		p.advance()
		return p.file.NewPattern(&ast.IntPattern{Base: baseAt(tok.Region), Text: tok.Literal})
	case token.Float:
		p.advance()
		return p.file.NewPattern(&ast.FracPattern{Base: baseAt(tok.Region), Text: tok.Literal})
	case token.String, token.MultilineStr:
		p.advance()
		return p.file.NewPattern(&ast.StringPattern{Base: baseAt(tok.Region), Value: tok.Literal})
	case token.UpperIdent:
		return p.parseTagPattern()
	case token.LParen:
		return p.parseTuplePattern()
	case token.LBrace:
		return p.parseRecordPattern()
	case token.LBracket:
		return p.parseListPattern()
	default:
		t := p.advance()
		return p.malformedPattern("pattern_unexpected_token: "+t.Tag.String(), t.Region)
	}
}

func (p *Parser) parseTagPattern() ast.PatternIdx {
	tok := p.advance()
	name := p.file.Idents.Intern(tok.Literal)
	var pats []ast.PatternIdx
	end := tok.Region
	if p.at(token.LParen) {
		p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			pats = append(pats, p.parsePattern())
			if !p.accept(token.Comma) {
				break
			}
		}
		end = p.cur().Region
		p.expect(token.RParen, "PAR024", "expected_tag_pattern_close_round_or_comma")
	}
	return p.file.NewPattern(&ast.TagPattern{Base: baseAt(tok.Region.Span(end)), Name: name, Patterns: pats})
}

func (p *Parser) parseTuplePattern() ast.PatternIdx {
	open := p.advance() // (
	if p.accept(token.RParen) {
		return p.file.NewPattern(&ast.TuplePattern{Base: baseAt(open.Region)})
	}
	first := p.parsePattern()
	if p.at(token.RParen) {
		p.advance()
		return first
	}
	elems := []ast.PatternIdx{first}
	for p.accept(token.Comma) {
		if p.at(token.RParen) {
			break
		}
		elems = append(elems, p.parsePattern())
	}
	end := p.cur().Region
	p.expect(token.RParen, "PAR025", "expected_tuple_pattern_close_round_or_comma")
	return p.file.NewPattern(&ast.TuplePattern{Base: baseAt(open.Region.Span(end)), Elements: elems})
}

func (p *Parser) parseRecordPattern() ast.PatternIdx {
	open := p.advance() // {
	var fields []ast.RecordFieldPattern
	rest := false
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.DotDot) {
			p.advance()
			rest = true
			break
		}
		nameTok := p.cur()
		if nameTok.Tag != token.LowerIdent {
			p.emit("PAR026", "expected_record_pattern_field_name", nameTok.Region)
			p.resync()
			break
		}
		p.advance()
		name := p.file.Idents.Intern(nameTok.Literal)
		if p.accept(token.Colon) {
			sub := p.parsePattern()
			fields = append(fields, ast.RecordFieldPattern{Name: name, Kind: ast.FieldSubPattern, Pattern: sub})
		} else {
			fields = append(fields, ast.RecordFieldPattern{Name: name, Kind: ast.FieldRequired})
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.cur().Region
	p.expect(token.RBrace, "PAR027", "expected_record_pattern_close_brace")
	return p.file.NewPattern(&ast.RecordPattern{Base: baseAt(open.Region.Span(end)), Fields: fields, Rest: rest})
}

func (p *Parser) parseListPattern() ast.PatternIdx {
	open := p.advance() // [
	var elems []ast.PatternIdx
	var rest *ast.PatternIdx
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if p.at(token.DotDot) {
			p.advance()
			invalid := ast.InvalidPatternIdx
			rest = &invalid
			break
		}
		if p.at(token.DotDotAs) {
			p.advance()
			nameTok := p.cur()
			if nameTok.Tag == token.LowerIdent {
				p.advance()
				name := p.file.Idents.Intern(nameTok.Literal)
				bound := p.file.NewPattern(&ast.IdentPattern{Base: baseAt(nameTok.Region), Name: name})
				rest = &bound
			} else {
				p.emit("PAR028", "expected_rest_pattern_binder_name", nameTok.Region)
				invalid := ast.InvalidPatternIdx
				rest = &invalid
			}
			break
		}
		elems = append(elems, p.parsePattern())
		if !p.accept(token.Comma) {
			break
		}
	}
	end := p.cur().Region
	p.expect(token.RBracket, "PAR029", "expected_list_pattern_close_bracket")
	return p.file.NewPattern(&ast.ListPattern{Base: baseAt(open.Region.Span(end)), Elements: elems, Rest: rest})
}
