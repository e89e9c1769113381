package checker

import "github.com/sunholo/lumen/internal/cir"

// env is a lexically-nested type environment: Scope.values from
// spec.md §4.5.3, keyed by the PatternIdx a value binder resolves to
// (cir's LookupLocal already carries that same key, so lookup here
// needs no name comparison).
type env struct {
	parent *env
	vars   map[cir.PatternIdx]scheme
}

func newEnv(parent *env) *env {
	return &env{parent: parent, vars: make(map[cir.PatternIdx]scheme)}
}

func (e *env) bind(p cir.PatternIdx, s scheme) {
	e.vars[p] = s
}

func (e *env) lookup(p cir.PatternIdx) (scheme, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if s, ok := cur.vars[p]; ok {
			return s, true
		}
	}
	return scheme{}, false
}
