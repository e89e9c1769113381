package ast

import "github.com/sunholo/lumen/internal/ident"

// ImportStmt is a top-level `import` statement.
type ImportStmt struct {
	Base
	ModulePath string
	Shorthand  string // package shorthand, "" if none
	Exposing   []ident.Idx
}

func (*ImportStmt) stmtNode() {}

// DeclKind distinguishes plain value bindings from the two effectful
// statement forms the spec's Def.kind enumerates.
type DeclKind int

const (
	DeclLet DeclKind = iota
	DeclStmtFx
	DeclIgnoredFx
)

// DeclStmt is a top-level or let binding: `pattern = expr`.
type DeclStmt struct {
	Base
	Pattern    PatternIdx
	Expr       ExprIdx
	Annotation TypeIdx // InvalidTypeIdx if unannotated
	Kind       DeclKind
}

func (*DeclStmt) stmtNode() {}

type TypeDeclStmt struct {
	Base
	Name       ident.Idx
	TypeParams []ident.Idx
	Definition TypeIdx
	Exported   bool
}

func (*TypeDeclStmt) stmtNode() {}

// TypeAnnoStmt is a standalone top-level type signature preceding a
// DeclStmt, e.g. `add : Num a, Num a -> Num a`.
type TypeAnnoStmt struct {
	Base
	Name ident.Idx
	Anno TypeIdx
}

func (*TypeAnnoStmt) stmtNode() {}

type ExpectStmt struct {
	Base
	Expr ExprIdx
}

func (*ExpectStmt) stmtNode() {}

// MalformedStmt records an invalid top-level statement, e.g. a bare
// expression where only import/decl/type_decl/type_anno/expect are
// allowed (spec.md §4.4 "Top-level statement validation").
type MalformedStmt struct {
	Base
	Reason string
}

func (*MalformedStmt) stmtNode() {}
