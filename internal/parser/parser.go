// Package parser implements a recursive-descent, Pratt-style
// expression parser that never halts on error: unexpected input
// becomes a malformed AST node tagged with a reason, and parsing
// resynchronizes at the next statement boundary, closing bracket, or
// block delimiter (spec.md §4.3, §8 "parser totality").
//
// Structure is grounded on the teacher's internal/parser/parser.go
// (prefix/infix parse-function tables keyed by token kind, precedence
// climbing) generalized from lexer.Token/ast.Expr pointer nodes to
// token.Token/ast.ExprIdx arena handles.
package parser

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/diagnostic"
	"github.com/sunholo/lumen/internal/lexer"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/token"
)

// Precedence levels, low to high, per spec.md §4.3.
const (
	precLowest int = iota
	precPipe       // |>
	precOr         // or
	precAnd        // and
	precCompare    // == != < > <= >=
	precAdd        // + -
	precMul        // * / // %
	precUnary      // unary - !
	precApply      // f x, r.field
)

type prefixFn func() ast.ExprIdx
type infixFn func(left ast.ExprIdx) ast.ExprIdx

// Parser parses one token stream into one ast.File.
type Parser struct {
	toks []token.Token
	pos  int

	file  *ast.File
	diags *diagnostic.Bag

	prefix map[token.Tag]prefixFn
	infix  map[token.Tag]infixFn
	prec   map[token.Tag]int
}

func New(src []byte, path string, diags *diagnostic.Bag) *Parser {
	toks := lexer.Tokenize(src, path, diags)
	filtered := toks[:0:0]
	for _, t := range toks {
		if t.Tag == token.Comment {
			continue
		}
		filtered = append(filtered, t)
	}

	p := &Parser{
		toks:  filtered,
		file:  ast.NewFile(path),
		diags: diags,
	}
	p.registerTables()
	return p
}

func (p *Parser) File() *ast.File { return p.file }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) peek() token.Token { return p.peekAt(1) }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.skipNewlines()
	return t
}

// skipNewlines treats Newline tokens as insignificant everywhere
// except where a grammar rule explicitly checks for one (block
// statement separation uses either a newline or nothing, so this
// compiler treats newlines as pure whitespace at the token-stream
// level, matching the "indentation-insensitive" lexer rule of
// spec.md §4.2).
func (p *Parser) skipNewlines() {
	for p.pos < len(p.toks)-1 && p.toks[p.pos].Tag == token.Newline {
		p.pos++
	}
}

func (p *Parser) at(tag token.Tag) bool { return p.cur().Tag == tag }

func (p *Parser) accept(tag token.Tag) bool {
	if p.at(tag) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) emit(code, reason string, r region.Region) {
	if p.diags != nil {
		p.diags.Add(diagnostic.New(diagnostic.PhaseParse, diagnostic.Error, code, reason, r))
	}
}

// expect consumes tag or records a diagnostic and returns false,
// WITHOUT advancing — callers decide how to recover.
func (p *Parser) expect(tag token.Tag, code, reason string) bool {
	if p.at(tag) {
		p.advance()
		return true
	}
	p.emit(code, reason, p.cur().Region)
	return false
}

// malformedExpr appends a MalformedExpr node covering r and returns
// its Idx; the parser's totality guarantee runs through this.
func (p *Parser) malformedExpr(reason string, r region.Region) ast.ExprIdx {
	p.emit("PAR001", reason, r)
	return p.file.NewExpr(&ast.MalformedExpr{Base: baseAt(r), Reason: reason})
}

func (p *Parser) malformedPattern(reason string, r region.Region) ast.PatternIdx {
	p.emit("PAR008", reason, r)
	return p.file.NewPattern(&ast.MalformedPattern{Base: baseAt(r), Reason: reason})
}

func (p *Parser) malformedType(reason string, r region.Region) ast.TypeIdx {
	p.emit("PAR009", reason, r)
	return p.file.NewType(&ast.MalformedTypeAnno{Base: baseAt(r), Reason: reason})
}

func (p *Parser) malformedStmt(reason string, r region.Region) ast.StmtIdx {
	p.emit("PAR011", reason, r)
	return p.file.NewStmt(&ast.MalformedStmt{Base: baseAt(r), Reason: reason})
}

// resync advances until a statement boundary, closing bracket, or EOF,
// so a single bad token never cascades into unrelated diagnostics.
func (p *Parser) resync() {
	for {
		switch p.cur().Tag {
		case token.EOF, token.RParen, token.RBrace, token.RBracket, token.Comma:
			p.skipNewlines()
			return
		}
		if p.pos >= len(p.toks)-1 {
			return
		}
		p.pos++
	}
}

// ParseFile parses a complete source file: an optional header followed
// by top-level statements.
func ParseFile(src []byte, path string, diags *diagnostic.Bag) *ast.File {
	p := New(src, path, diags)
	p.parseHeader()
	for !p.at(token.EOF) {
		start := p.pos
		stmt := p.parseTopLevelStmt()
		p.file.TopLevel = append(p.file.TopLevel, stmt)
		if p.pos == start {
			// Guard against zero-progress loops on unexpected input.
			p.advance()
		}
	}
	if p.file.Header == ast.InvalidHeaderIdx {
		p.resolveImplicitHeader()
	}
	return p.file
}
