package checker

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/ident"
)

// typeDef records one source-level type declaration's shape, enough
// for annotation.go to expand a reference to it: its own type
// parameters, and either an alias target or an algebraic type's
// constructor list.
type typeDef struct {
	params []ident.Idx

	isAlias     bool
	aliasTarget ast.TypeIdx // valid when isAlias

	ctors []ast.ConstructorAnno // valid when !isAlias
}

// buildTypeDefs scans a file's top-level type declarations once,
// before any annotation is resolved, so forward references between
// types (and a type referencing itself recursively) all work
// regardless of declaration order.
func buildTypeDefs(file *ast.File) map[ident.Idx]*typeDef {
	defs := make(map[ident.Idx]*typeDef)
	for _, sidx := range file.TopLevel {
		td, ok := file.Stmt(sidx).(*ast.TypeDeclStmt)
		if !ok {
			continue
		}
		def := &typeDef{params: td.TypeParams}
		switch d := file.Type(td.Definition).(type) {
		case *ast.AliasTypeAnno:
			def.isAlias = true
			def.aliasTarget = d.Target
		case *ast.AlgebraicTypeAnno:
			def.ctors = d.Constructors
		}
		defs[td.Name] = def
	}
	return defs
}
