// Package canon lowers an internal/ast.File into an internal/cir.Module:
// names are resolved, operators are desugared to cir's closed BinOp
// set, string interpolation is flattened, and top-level structure
// (imports/decls/type decls/exposes) is validated. Grounded on the
// teacher's internal/elaborate/elaborate.go AST-walk shape, its
// elaborate/patterns.go pattern canonicalization, and its
// elaborate/exhaustiveness.go + dtree/decision_tree.go for the
// match-exhaustiveness mark it records on each MatchExpr.
package canon

import "github.com/sunholo/lumen/internal/ident"

// Kind distinguishes the four namespaces spec.md §4.4 names: "value,
// type, alias, constructor". Each is resolved independently so a type
// and a value may share a name without colliding.
type Kind int8

const (
	KindValue Kind = iota
	KindType
	KindAlias
	KindConstructor
)

// binding is one name introduced into a Scope level. isExternal marks
// a name introduced by an import: externalModule is then the interned
// module path and pattern is unused.
type binding struct {
	name           ident.Idx
	kind           Kind
	pattern        int32 // cir.PatternIdx for KindValue; unused otherwise
	isExternal     bool
	externalModule ident.Idx
}

// Scope is a lexically-nested symbol table. Each level owns its own
// introductions and is popped on block exit (spec.md §4.4).
type Scope struct {
	parent *Scope
	names  map[nameKey]binding
}

type nameKey struct {
	name ident.Idx
	kind Kind
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[nameKey]binding)}
}

// Declare introduces name at this scope level. ok is false if the
// same (name, kind) is already declared in THIS level (the caller
// should emit ident_already_in_scope); shadowed is true if an outer
// scope already had it (the caller should emit shadowing_warning, not
// an error).
func (s *Scope) Declare(name ident.Idx, kind Kind, pattern int32) (shadowed bool, ok bool) {
	key := nameKey{name, kind}
	if _, exists := s.names[key]; exists {
		return false, false
	}
	_, shadowed = s.lookupOuter(key)
	s.names[key] = binding{name: name, kind: kind, pattern: pattern}
	return shadowed, true
}

func (s *Scope) lookupOuter(key nameKey) (binding, bool) {
	for p := s.parent; p != nil; p = p.parent {
		if b, ok := p.names[key]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// Resolve looks up name at kind, searching this scope and all
// enclosing scopes.
func (s *Scope) Resolve(name ident.Idx, kind Kind) (binding, bool) {
	key := nameKey{name, kind}
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.names[key]; ok {
			return b, true
		}
	}
	return binding{}, false
}
