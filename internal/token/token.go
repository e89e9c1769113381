// Package token defines the closed token-tag enum and the Token type
// produced by internal/lexer, generalized from the teacher's
// internal/lexer/token.go (which carried Line/Column/File on every
// token) to the spec's region-only token shape.
package token

import (
	"fmt"

	"github.com/sunholo/lumen/internal/region"
)

// Tag is the closed enumeration of token kinds.
type Tag int

const (
	Illegal Tag = iota
	EOF
	Comment
	Newline

	LowerIdent // starts lowercase; may carry a trailing '!'
	UpperIdent // starts uppercase
	Int
	Float
	String       // single-line "..."
	MultilineStr // """..."""
	Scalar       // 'x'

	StrInterpOpen  // ${  inside a string literal
	StrInterpClose // }   closing an interpolation
	StrPart        // a literal text segment between interpolations

	// Keywords
	KwModule
	KwApp
	KwPackage
	KwPlatform
	KwHosted
	KwExposes
	KwProvides
	KwRequires
	KwPackages
	KwImport
	KwAs
	KwIf
	KwThen
	KwElse
	KwWhen
	KwIs
	KwExpect
	KwCrash
	KwDbg

	// Operators
	Plus
	Minus
	Star
	Slash
	DoubleSlash
	Percent
	EqEq
	NotEq
	Lt
	Gt
	Le
	Ge
	And // `and`
	Or  // `or`
	Not // `!`
	Pipe
	Backslash // lambda intro `\x -> ...`
	FatArrow  // =>
	Arrow     // ->
	Assign    // =
	Colon
	DoubleColon
	Dot
	DotDot
	DotDotAs // `.. as name` (rest-pattern binder)
	Ellipsis // ...

	// Delimiters
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Underscore

	True
	False
)

var names = map[Tag]string{
	Illegal: "ILLEGAL", EOF: "EOF", Comment: "COMMENT", Newline: "NEWLINE",
	LowerIdent: "LOWER_IDENT", UpperIdent: "UPPER_IDENT",
	Int: "INT", Float: "FLOAT", String: "STRING", MultilineStr: "MULTILINE_STRING", Scalar: "SCALAR",
	StrInterpOpen: "STR_INTERP_OPEN", StrInterpClose: "STR_INTERP_CLOSE", StrPart: "STR_PART",
	KwModule: "module", KwApp: "app", KwPackage: "package", KwPlatform: "platform", KwHosted: "hosted",
	KwExposes: "exposes", KwProvides: "provides", KwRequires: "requires", KwPackages: "packages",
	KwImport: "import", KwAs: "as", KwIf: "if", KwThen: "then", KwElse: "else",
	KwWhen: "when", KwIs: "is", KwExpect: "expect", KwCrash: "crash", KwDbg: "dbg",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", DoubleSlash: "//", Percent: "%",
	EqEq: "==", NotEq: "!=", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
	And: "and", Or: "or", Not: "!", Pipe: "|>", Backslash: "\\",
	FatArrow: "=>", Arrow: "->", Assign: "=", Colon: ":", DoubleColon: "::",
	Dot: ".", DotDot: "..", DotDotAs: "..as", Ellipsis: "...",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Underscore: "_",
	True: "True", False: "False",
}

func (t Tag) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(%d)", t)
}

var keywords = map[string]Tag{
	"module": KwModule, "app": KwApp, "package": KwPackage,
	"platform": KwPlatform, "hosted": KwHosted,
	"exposes": KwExposes, "provides": KwProvides, "requires": KwRequires, "packages": KwPackages,
	"import": KwImport, "as": KwAs,
	"if": KwIf, "then": KwThen, "else": KwElse,
	"when": KwWhen, "is": KwIs,
	"expect": KwExpect, "crash": KwCrash, "dbg": KwDbg,
	"and": And, "or": Or,
	"True": True, "False": False,
}

// LookupKeyword returns the keyword tag for text, or (LowerIdent /
// UpperIdent, false) if text is not a keyword — the caller decides
// ident casing.
func LookupKeyword(text string) (Tag, bool) {
	tag, ok := keywords[text]
	return tag, ok
}

// NumPrecisionSuffixes is the set of valid numeric literal suffixes.
var NumPrecisionSuffixes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true,
	"f32": true, "f64": true, "dec": true,
}

// Token is a single lexical token with its source region.
type Token struct {
	Tag     Tag
	Literal string
	Region  region.Region
}

func New(tag Tag, literal string, r region.Region) Token {
	return Token{Tag: tag, Literal: literal, Region: r}
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %s}", t.Tag, t.Literal, t.Region)
}

func (t Token) IsOperator() bool {
	switch t.Tag {
	case Plus, Minus, Star, Slash, DoubleSlash, Percent,
		EqEq, NotEq, Lt, Gt, Le, Ge, And, Or, Not, Pipe:
		return true
	}
	return false
}
