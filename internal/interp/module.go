package interp

import "github.com/sunholo/lumen/internal/cir"

// recoverable reports whether a Failure of this kind represents a
// modeled program-level failure (a crash(), a division by zero, a
// pattern match that genuinely has no case, a value applied with the
// wrong arity or type) that Run should confine to the one def that
// raised it, versus one that means the interpreter itself violated its
// own invariants (a stack exhausted past its configured limit, or a
// WorkItem/value_stack state that should never arise), which aborts
// the whole run instead.
func recoverable(kind FailureKind) bool {
	switch kind {
	case StackOverflow, LayoutErrorKind, InvalidStackState:
		return false
	default:
		return true
	}
}

// Run evaluates mod.TopLevel's defs in source order, binding each into
// globals as it completes. A recoverable failure aborts only the def
// that raised it — globals already bound by earlier defs survive, per
// spec.md §4.7.5.
func (ip *Interp) Run() ([]*Failure, error) {
	var crashes []*Failure
	for _, defIdx := range ip.mod.TopLevel {
		def := ip.mod.Def(defIdx)
		v, err := ip.Eval(def.Expr)
		if err != nil {
			f, ok := err.(*Failure)
			if !ok || !recoverable(f.Kind) {
				return crashes, err
			}
			crashes = append(crashes, f)
			continue
		}
		var bindings []Binding
		ok, err := ip.bindPattern(def.Pattern, v, &bindings)
		if err != nil {
			return crashes, err
		}
		if !ok {
			crashes = append(crashes, fail(PatternNotFound, def.Expr, "top-level binding's pattern did not match its own value"))
			continue
		}
		for _, b := range bindings {
			ip.globals[b.pattern] = b.value
		}
	}
	return crashes, nil
}

// Global looks up a top-level binding's computed value by the
// PatternIdx that introduced it, for callers (cmd/lumenc) that want to
// inspect or print a specific def's result after Run completes.
func (ip *Interp) Global(pat cir.PatternIdx) (valueEntry, bool) {
	v, ok := ip.globals[pat]
	return v, ok
}
