package parser

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/token"
)

// baseAt is sugar so every node constructor can write `Base: baseAt(r)`
// instead of spelling out the embedded struct.
func baseAt(r region.Region) ast.Base { return ast.Base{R: r} }

func (p *Parser) isPatternStart() bool {
	switch p.cur().Tag {
	case token.LowerIdent, token.UpperIdent, token.Underscore,
		token.Int, token.Float, token.String, token.MultilineStr,
		token.LParen, token.LBrace, token.LBracket:
		return true
	}
	return false
}
