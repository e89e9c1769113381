// Package lexer turns normalized UTF-8 source bytes into a finite
// token stream, preserving byte regions on every token. The lexer
// never fails: unrecognized bytes become Illegal tokens and scanning
// continues, so later stages can rely on lexer totality (spec.md §8).
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sunholo/lumen/internal/diagnostic"
	"github.com/sunholo/lumen/internal/region"
	"github.com/sunholo/lumen/internal/token"
)

// Lexer scans one source file. Construct with New, drive with Next
// until it returns an EOF token.
type Lexer struct {
	src    string
	file   string
	pos    int // byte offset of ch
	rdPos  int // byte offset after ch
	ch     rune
	diags  *diagnostic.Bag
	quotes []quoteFrame // active multiline/interpolated string contexts
}

// quoteFrame tracks state while inside a """..."""-with-interpolation
// string, so StrInterpOpen/Close can be paired correctly.
type quoteFrame struct {
	multiline bool
}

func New(src []byte, file string, diags *diagnostic.Bag) *Lexer {
	normalized := Normalize(src)
	l := &Lexer{src: string(normalized), file: file, diags: diags}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.rdPos >= len(l.src) {
		l.ch = 0
		l.pos = len(l.src)
		l.rdPos = len(l.src) + 1 // past EOF sentinel, readChar idempotent at EOF
		return
	}
	ch, size := utf8.DecodeRuneInString(l.src[l.rdPos:])
	l.pos = l.rdPos
	l.ch = ch
	l.rdPos += size
}

func (l *Lexer) peek() rune {
	if l.rdPos >= len(l.src) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.src[l.rdPos:])
	return ch
}

func (l *Lexer) peekAt(offset int) rune {
	pos := l.rdPos
	for i := 0; i < offset-1; i++ {
		if pos >= len(l.src) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.src[pos:])
		pos += size
	}
	if pos >= len(l.src) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.src[pos:])
	return ch
}

func (l *Lexer) atEOF() bool { return l.pos >= len(l.src) }

func (l *Lexer) emitError(code, msg string, r region.Region) {
	if l.diags != nil {
		l.diags.Add(diagnostic.New(diagnostic.PhaseLex, diagnostic.Error, code, msg, r))
	}
}

// Tokenize drains the lexer into a slice, ending with exactly one EOF
// token. Useful for tests and for the parser's non-streaming mode.
func Tokenize(src []byte, file string, diags *diagnostic.Bag) []token.Token {
	l := New(src, file, diags)
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Tag == token.EOF {
			return toks
		}
	}
}

// Next returns the next token, advancing the lexer. Comments and
// newlines are returned as tokens (not skipped) so the parser can
// preserve indentation-significant cues and attach comments to
// regions, per spec.md §4.2.
func (l *Lexer) Next() token.Token {
	l.skipInsignificantSpace()

	start := l.pos

	if l.atEOF() {
		return l.tok(token.EOF, "", start)
	}

	switch l.ch {
	case '\n':
		l.readChar()
		return l.tok(token.Newline, "\n", start)
	case '-':
		if l.peek() == '-' {
			return l.readLineComment(start)
		}
		if l.peek() == '>' {
			l.readChar()
			l.readChar()
			return l.tok(token.Arrow, "->", start)
		}
		l.readChar()
		return l.tok(token.Minus, "-", start)
	case '=':
		if l.peek() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(token.EqEq, "==", start)
		}
		if l.peek() == '>' {
			l.readChar()
			l.readChar()
			return l.tok(token.FatArrow, "=>", start)
		}
		l.readChar()
		return l.tok(token.Assign, "=", start)
	case '!':
		if l.peek() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(token.NotEq, "!=", start)
		}
		l.readChar()
		return l.tok(token.Not, "!", start)
	case '<':
		if l.peek() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(token.Le, "<=", start)
		}
		l.readChar()
		return l.tok(token.Lt, "<", start)
	case '>':
		if l.peek() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(token.Ge, ">=", start)
		}
		l.readChar()
		return l.tok(token.Gt, ">", start)
	case '+':
		l.readChar()
		return l.tok(token.Plus, "+", start)
	case '*':
		l.readChar()
		return l.tok(token.Star, "*", start)
	case '/':
		if l.peek() == '/' {
			l.readChar()
			l.readChar()
			return l.tok(token.DoubleSlash, "//", start)
		}
		l.readChar()
		return l.tok(token.Slash, "/", start)
	case '%':
		l.readChar()
		return l.tok(token.Percent, "%", start)
	case '|':
		if l.peek() == '>' {
			l.readChar()
			l.readChar()
			return l.tok(token.Pipe, "|>", start)
		}
		l.readChar()
		return l.tok(token.Pipe, "|", start)
	case '\\':
		l.readChar()
		return l.tok(token.Backslash, "\\", start)
	case ':':
		if l.peek() == ':' {
			l.readChar()
			l.readChar()
			return l.tok(token.DoubleColon, "::", start)
		}
		l.readChar()
		return l.tok(token.Colon, ":", start)
	case '.':
		if l.peek() == '.' && l.peekAt(2) == '.' {
			l.readChar()
			l.readChar()
			l.readChar()
			return l.tok(token.Ellipsis, "...", start)
		}
		if l.peek() == '.' {
			l.readChar()
			l.readChar()
			if l.ch == ' ' {
				save := l.pos
				l.skipSpacesOnly()
				if l.matchWord("as") {
					return l.tok(token.DotDotAs, "..as", start)
				}
				l.readCharAt(save)
			}
			return l.tok(token.DotDot, "..", start)
		}
		l.readChar()
		return l.tok(token.Dot, ".", start)
	case ',':
		l.readChar()
		return l.tok(token.Comma, ",", start)
	case '(':
		l.readChar()
		return l.tok(token.LParen, "(", start)
	case ')':
		l.readChar()
		return l.tok(token.RParen, ")", start)
	case '{':
		l.readChar()
		return l.tok(token.LBrace, "{", start)
	case '}':
		l.readChar()
		return l.tok(token.RBrace, "}", start)
	case '[':
		l.readChar()
		return l.tok(token.LBracket, "[", start)
	case ']':
		l.readChar()
		return l.tok(token.RBracket, "]", start)
	case '"':
		return l.readString(start)
	case '\'':
		return l.readScalar(start)
	case '_':
		if !isIdentCont(l.peek()) {
			l.readChar()
			return l.tok(token.Underscore, "_", start)
		}
		return l.readIdent(start)
	default:
		if isDigit(l.ch) {
			return l.readNumber(start)
		}
		if isIdentStart(l.ch) {
			return l.readIdent(start)
		}
		ch := l.ch
		l.readChar()
		r := region.New(start, l.pos)
		l.emitError("LEX001", "unexpected character "+string(ch), r)
		return l.tok(token.Illegal, string(ch), start)
	}
}

func (l *Lexer) readCharAt(pos int) {
	l.pos = pos
	if pos >= len(l.src) {
		l.ch = 0
		l.rdPos = pos
		return
	}
	ch, size := utf8.DecodeRuneInString(l.src[pos:])
	l.ch = ch
	l.rdPos = pos + size
}

func (l *Lexer) skipSpacesOnly() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func (l *Lexer) matchWord(word string) bool {
	if strings.HasPrefix(l.src[l.pos:], word) {
		after := l.pos + len(word)
		if after >= len(l.src) || !isIdentCont(runeAt(l.src, after)) {
			for range word {
				l.readChar()
			}
			return true
		}
	}
	return false
}

func runeAt(s string, pos int) rune {
	if pos >= len(s) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(s[pos:])
	return ch
}

func (l *Lexer) tok(tag token.Tag, lit string, start int) token.Token {
	return token.New(tag, lit, region.New(start, l.pos))
}

func (l *Lexer) skipInsignificantSpace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readLineComment(start int) token.Token {
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
	return l.tok(token.Comment, l.src[start:l.pos], start)
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isIdentCont(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func (l *Lexer) readIdent(start int) token.Token {
	for isIdentCont(l.ch) {
		l.readChar()
	}
	if l.ch == '!' {
		l.readChar()
	}
	text := l.src[start:l.pos]
	if tag, ok := token.LookupKeyword(text); ok {
		return l.tok(tag, text, start)
	}
	r, _ := utf8.DecodeRuneInString(text)
	if unicode.IsUpper(r) {
		return l.tok(token.UpperIdent, text, start)
	}
	return l.tok(token.LowerIdent, text, start)
}

func (l *Lexer) readNumber(start int) token.Token {
	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.withSuffix(token.Int, start)
	}
	if l.ch == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		l.readChar()
		l.readChar()
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			l.readChar()
		}
		return l.withSuffix(token.Int, start)
	}

	leadingZero := l.ch == '0'
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peek()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	digits := l.src[start:l.pos]
	if leadingZero && !isFloat && len(strings.TrimLeft(digits, "0")) > 0 {
		l.emitError("LEX002", "leading zero in integer literal "+digits, region.New(start, l.pos))
	}

	tag := token.Int
	if isFloat {
		tag = token.Float
	}
	return l.withSuffix(tag, start)
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// withSuffix consumes an optional precision suffix (i8..i128, u8..
// u128, f32, f64, dec) after a numeric literal has been scanned.
func (l *Lexer) withSuffix(tag token.Tag, start int) token.Token {
	sufStart := l.pos
	for isIdentCont(l.ch) {
		l.readChar()
	}
	suffix := l.src[sufStart:l.pos]
	if suffix != "" && !token.NumPrecisionSuffixes[suffix] {
		// Not a recognized suffix: this wasn't part of the number at
		// all, put it back for the next token.
		l.readCharAt(sufStart)
	}
	return l.tok(tag, l.src[start:l.pos], start)
}

func (l *Lexer) readString(start int) token.Token {
	if strings.HasPrefix(l.src[l.pos:], `"""`) {
		return l.readMultilineString(start)
	}
	l.readChar() // opening quote
	var out strings.Builder
	for l.ch != '"' && !l.atEOF() {
		if l.ch == '\\' {
			l.readChar()
			out.WriteRune(l.escapeRune())
			continue
		}
		if l.ch == '$' && l.peek() == '{' {
			// Interpolation is not tokenized: scanning stops at `${`,
			// the token ends without its closing quote and is reported
			// below as an unterminated string literal (LEX003), and the
			// `${...}` text is then lexed as ordinary tokens.
			break
		}
		out.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	} else {
		l.emitError("LEX003", "unterminated string literal", region.New(start, l.pos))
	}
	return l.tok(token.String, out.String(), start)
}

func (l *Lexer) readMultilineString(start int) token.Token {
	l.readChar()
	l.readChar()
	l.readChar()
	var out strings.Builder
	for {
		if l.atEOF() {
			l.emitError("LEX004", "unterminated multiline string literal", region.New(start, l.pos))
			break
		}
		if strings.HasPrefix(l.src[l.pos:], `"""`) {
			l.readChar()
			l.readChar()
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			out.WriteRune(l.escapeRune())
			continue
		}
		out.WriteRune(l.ch)
		l.readChar()
	}
	return l.tok(token.MultilineStr, out.String(), start)
}

func (l *Lexer) escapeRune() rune {
	defer l.readChar()
	switch l.ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '\\':
		return '\\'
	case '"':
		return '"'
	case '$':
		return '$'
	default:
		return l.ch
	}
}

func (l *Lexer) readScalar(start int) token.Token {
	l.readChar() // opening quote
	if l.ch == '\'' {
		l.emitError("LEX005", "empty_single_quote", region.New(start, l.pos+1))
		l.readChar()
		return l.tok(token.Scalar, "", start)
	}
	var val rune
	if l.ch == '\\' {
		l.readChar()
		val = l.escapeRune()
	} else {
		val = l.ch
		l.readChar()
	}
	if l.ch != '\'' {
		// consume remaining runes up to the closing quote (or EOF) so
		// the diagnostic's region covers the whole malformed literal
		for l.ch != '\'' && !l.atEOF() {
			l.readChar()
		}
		l.emitError("LEX006", "too_long_single_quote", region.New(start, l.pos+1))
	}
	if l.ch == '\'' {
		l.readChar()
	}
	return l.tok(token.Scalar, string(val), start)
}
