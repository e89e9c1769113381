package types

import (
	"fmt"
	"strings"

	"github.com/sunholo/lumen/internal/ident"
)

// Render produces a human-readable rendering of the type rooted at v,
// for diagnostic messages. It does not mutate the store beyond the
// path compression Resolve already performs.
func (s *Store) Render(v Var) string {
	return s.render(v, make(map[Var]bool))
}

func (s *Store) render(v Var, seen map[Var]bool) string {
	root := s.Resolve(v)
	if seen[root] {
		return "<cycle>"
	}
	seen[root] = true
	d := s.descs[root]
	switch d.Kind {
	case FlexVar:
		if d.Name != "" {
			return d.Name
		}
		return fmt.Sprintf("_t%d", root)
	case RigidVar:
		return d.Name
	case Err:
		return "<error>"
	case Alias:
		return s.renderNominal(d.Nom, seen)
	case Structure:
		return s.renderFlat(d.Flat, seen)
	}
	return "<?>"
}

func (s *Store) renderNominal(n Nominal, seen map[Var]bool) string {
	if len(n.Args) == 0 {
		return s.identText(n.Ident)
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = s.render(a, seen)
	}
	return s.identText(n.Ident) + " " + strings.Join(parts, " ")
}

func (s *Store) renderFlat(f FlatType, seen map[Var]bool) string {
	switch f.Kind {
	case FlatStr:
		return "Str"
	case FlatBox:
		return "Box " + s.render(f.Elem, seen)
	case FlatList, FlatListUnbound:
		if f.Kind == FlatListUnbound {
			return "List *"
		}
		return "List " + s.render(f.Elem, seen)
	case FlatTuple:
		parts := make([]string, len(f.Elems))
		for i, e := range f.Elems {
			parts[i] = s.render(e, seen)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case FlatNum:
		return renderNum(f.Num)
	case FlatNominal:
		return s.renderNominal(f.Nom, seen)
	case FlatFnPure, FlatFnEffectful, FlatFnUnbound:
		parts := make([]string, len(f.Fn.Params))
		for i, p := range f.Fn.Params {
			parts[i] = s.render(p, seen)
		}
		arrow := "->"
		if f.Kind == FlatFnEffectful {
			arrow = "=>"
		}
		return strings.Join(parts, ", ") + " " + arrow + " " + s.render(f.Fn.Ret, seen)
	case FlatRecord, FlatRecordUnbound, FlatEmptyRecord:
		parts := make([]string, len(f.Fields))
		for i, fl := range f.Fields {
			parts[i] = s.identText(fl.Name) + ": " + s.render(fl.Type, seen)
		}
		body := strings.Join(parts, ", ")
		if f.Kind != FlatEmptyRecord && f.Ext != NoVar {
			body += " | " + s.render(f.Ext, seen)
		}
		return "{ " + body + " }"
	case FlatTagUnion, FlatEmptyTagUnion:
		parts := make([]string, len(f.Tags))
		for i, t := range f.Tags {
			if len(t.Args) == 0 {
				parts[i] = s.identText(t.Name)
				continue
			}
			argParts := make([]string, len(t.Args))
			for j, a := range t.Args {
				argParts[j] = s.render(a, seen)
			}
			parts[i] = s.identText(t.Name) + "(" + strings.Join(argParts, ", ") + ")"
		}
		body := strings.Join(parts, ", ")
		if f.Kind != FlatEmptyTagUnion {
			body += "*"
		}
		return "[" + body + "]"
	}
	return "<?>"
}

func renderNum(n Num) string {
	switch n.Kind {
	case NumUnbound:
		return "Num *"
	case IntUnbound:
		return "Int *"
	case FracUnbound:
		return "Frac *"
	case NumCompact:
		if n.CompactIsInt {
			return "Int " + string(n.Precision)
		}
		return "Frac " + string(n.Precision)
	case IntPrecision:
		return "Int " + string(n.Precision)
	case FracPrecision:
		return "Frac " + string(n.Precision)
	default:
		return "Num"
	}
}

// identText borrows the display text for an interned identifier. A
// nil idents store (only possible in unit tests that build a Store
// directly) falls back to a placeholder rather than panicking.
func (s *Store) identText(idx ident.Idx) string {
	if s.idents == nil {
		return "?"
	}
	return s.idents.Text(idx)
}
