package canon

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/dtree"
	"github.com/sunholo/lumen/internal/ident"
)

// matchExhaustive compiles cases' top-level pattern shapes into a
// decision tree and reports whether it covers every possible
// scrutinee value (spec.md §4.4's exhaustiveness mark, computed at
// canonicalization rather than deferred to the checker).
func (c *Canonicalizer) matchExhaustive(cases []ast.WhenCase) bool {
	shapes := make([]dtree.CaseShape, len(cases))
	var allTags []ident.Idx
	for i, wc := range cases {
		shapes[i] = c.caseShape(wc)
		if shapes[i].IsTag {
			if tags, ok := c.typeCtors[c.ctorType[shapes[i].Tag]]; ok {
				allTags = tags
			}
		}
	}
	tree := dtree.Compile(shapes, allTags)
	return dtree.Exhaustive(tree)
}

func (c *Canonicalizer) caseShape(wc ast.WhenCase) dtree.CaseShape {
	guarded := wc.Guard != ast.InvalidExprIdx
	switch p := c.file.Pattern(wc.Pattern).(type) {
	case *ast.TagPattern:
		return dtree.CaseShape{IsTag: true, Tag: p.Name, Guarded: guarded}
	case *ast.WildcardPattern, *ast.IdentPattern, *ast.AsPattern:
		return dtree.CaseShape{IsWildcard: true, Guarded: guarded}
	default:
		// Literal, tuple, record, list, and alt patterns aren't
		// modeled structurally by dtree; treat conservatively as a
		// non-wildcard, non-tag shape so they never spuriously count
		// toward exhaustiveness.
		return dtree.CaseShape{Guarded: true}
	}
}
