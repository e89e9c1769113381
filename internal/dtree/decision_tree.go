// Package dtree compiles a match expression's case shapes into a
// decision tree and reports whether the tree is exhaustive. Adapted
// from a multi-column row/matrix pattern-matching compiler down to the
// single scrutinee column CIR's match expressions need: each case
// contributes one top-level shape (tag name or wildcard),
// and Compile builds a Switch/Leaf/Fail tree over those shapes in
// source order, mirroring how an unmatched value falls through to
// later arms and finally to Fail if none catch it.
package dtree

import "github.com/sunholo/lumen/internal/ident"

// Node is one point in a compiled decision tree.
type Node interface {
	isNode()
	String() string
}

// Leaf selects case CaseIndex's body.
type Leaf struct{ CaseIndex int }

func (*Leaf) isNode()        {}
func (*Leaf) String() string { return "leaf" }

// Fail means no case matches: the interpreter's runtime_error
// PatternNotFound reaches here (spec.md §4.7's failure taxonomy).
type Fail struct{}

func (*Fail) isNode()        {}
func (*Fail) String() string { return "fail" }

// Switch dispatches on the scrutinee's tag against Cases, falling
// through to Default when no case matches the observed tag — a bare
// wildcard/ident/as-pattern
// case, or Fail if none was given.
type Switch struct {
	Cases   map[ident.Idx]Node
	Default Node

	// Total is set when Cases already names every constructor of the
	// scrutinee's known tag union, making Default unreachable: no
	// value can fail to match one of Cases, regardless of what
	// Default itself computes to.
	Total bool
}

func (*Switch) isNode()        {}
func (*Switch) String() string { return "switch" }

// CaseShape is one match case's top-level pattern shape, abstracted
// away from cir.Pattern so this package stays independent of cir.
type CaseShape struct {
	// IsTag marks a TagPattern case; Tag is its constructor name.
	IsTag bool
	Tag   ident.Idx

	// IsWildcard marks a pattern that matches any value at this
	// position: WildcardPattern, IdentPattern, or AsPattern.
	IsWildcard bool

	// Guarded cases only take the arm when their guard expression
	// evaluates true at runtime, so a guarded case can never alone
	// make the tree exhaustive — there must be an unguarded fallback.
	Guarded bool
}

// Compile builds a decision tree from shapes in source order. allTags
// is the full constructor set of the scrutinee's tag union, used to
// recognize when a run of non-wildcard Tag cases already covers every
// variant; pass nil when the scrutinee's type isn't a known tag union
// (a literal, tuple, or record match), in which case only a trailing
// unguarded wildcard can make the match exhaustive.
func Compile(shapes []CaseShape, allTags []ident.Idx) Node {
	return compile(shapes, 0, allTags)
}

func compile(shapes []CaseShape, from int, allTags []ident.Idx) Node {
	if from >= len(shapes) {
		return &Fail{}
	}
	s := shapes[from]

	rest := compile(shapes, from+1, allTags)

	if s.IsWildcard && !s.Guarded {
		// An unguarded catch-all shadows everything after it: the
		// tree need not distinguish further, this arm always applies
		// once reached.
		return &Leaf{CaseIndex: from}
	}

	if !s.IsTag {
		// A guarded wildcard, or a literal/tuple/record shape this
		// package doesn't model structurally: orLeaf already falls
		// through to rest when guarded, or commits to this arm's leaf
		// when not.
		return orLeaf(s, from, rest)
	}

	sw := &Switch{Cases: map[ident.Idx]Node{}}
	sw.Cases[s.Tag] = orLeaf(s, from, rest)
	collectTagCases(shapes, from+1, allTags, sw, rest)
	sw.Default = rest
	sw.Total = coversAll(sw.Cases, allTags)
	return sw
}

func coversAll(cases map[ident.Idx]Node, allTags []ident.Idx) bool {
	if len(allTags) == 0 {
		return false
	}
	for _, t := range allTags {
		if _, ok := cases[t]; !ok {
			return false
		}
	}
	return true
}

// orLeaf yields this case's leaf unless it's guarded, in which case a
// failed guard at runtime must still fall through to rest.
func orLeaf(s CaseShape, idx int, rest Node) Node {
	if s.Guarded {
		return &Switch{Cases: map[ident.Idx]Node{}, Default: rest}
	}
	return &Leaf{CaseIndex: idx}
}

// collectTagCases folds any later unguarded Tag cases for tags not yet
// covered into sw, so a later case for a sibling constructor is
// represented even though compile's recursion already linearized
// "from+1 onward" into rest/Default.
func collectTagCases(shapes []CaseShape, from int, allTags []ident.Idx, sw *Switch, fallback Node) {
	for i := from; i < len(shapes); i++ {
		s := shapes[i]
		if s.IsWildcard && !s.Guarded {
			return
		}
		if !s.IsTag {
			continue
		}
		if _, covered := sw.Cases[s.Tag]; covered {
			continue
		}
		sw.Cases[s.Tag] = orLeaf(s, i, compile(shapes, i+1, allTags))
	}
}

// Exhaustive reports whether every possible scrutinee value reaches a
// Leaf rather than Fail.
func Exhaustive(n Node) bool {
	switch t := n.(type) {
	case *Leaf:
		return true
	case *Fail:
		return false
	case *Switch:
		for _, c := range t.Cases {
			if !Exhaustive(c) {
				return false
			}
		}
		if t.Total {
			return true
		}
		return t.Default != nil && Exhaustive(t.Default)
	}
	return false
}
