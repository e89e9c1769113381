// Package types implements the type store: a union-find over type
// variables whose roots carry either an unresolved marker (flex/rigid/
// err) or a resolved Structure. Unlike a substitution map, unifying two
// variables never rewrites every occurrence of one with the other —
// it just repoints one root's parent, so unification is O(alpha(n))
// instead of O(size of type).
package types

import "github.com/sunholo/lumen/internal/ident"

// Var is a handle into a Store. Two Vars are the same type iff
// Store.Resolve returns the same root for both.
//
// Index 0 is permanently reserved as NoVar: a FlatType literal that
// leaves a Var field unset (e.g. a closed record's Ext) gets Go's
// zero value for free, and that zero value must mean "absent" rather
// than aliasing whatever the first real variable turns out to be.
type Var int32

const NoVar Var = 0

// Rank tracks how many enclosing let-bindings a variable was created
// under; generalization only quantifies over variables whose rank is
// deeper than the current binding's rank (Store.youngRank).
type Rank int32

const NoRank Rank = -1

// Content is what a variable's root currently holds.
type Content int8

const (
	FlexVar Content = iota
	RigidVar
	Err
	Structure
	Alias
)

// Desc is the per-variable record a Store maintains. Name is set for
// RigidVar (and surfaces in error messages) and optionally for FlexVar
// (inferred-name hints copied from annotations). Flat is only
// meaningful when Kind == Structure. Nom is only meaningful when
// Kind == Alias — it reuses the Nominal shape (ident/args/backing)
// since an alias and a nominal type carry the same three fields, just
// with different unification rules (aliases always unify through to
// Backing; nominals never do).
type Desc struct {
	Kind Content
	Name string
	Rank Rank
	Flat FlatType
	Nom  Nominal
}

// Store is the append-only union-find arena for one module's worth of
// type inference. It is not safe for concurrent use.
type Store struct {
	parents []Var
	descs   []Desc
	rank    []int32 // union-by-rank tree height, distinct from Desc.Rank (binding depth)

	idents *ident.Store // shared with the owning ModuleEnv, for rendering names
}

func NewStore(idents *ident.Store) *Store {
	// parents[0]/descs[0]/rank[0] are dummy placeholders so real
	// vars never land on index 0 (reserved as NoVar).
	return &Store{
		parents: []Var{NoVar},
		descs:   []Desc{{Kind: Err}},
		rank:    []int32{0},
		idents:  idents,
	}
}

// Fresh allocates a new unbound flex variable at the given binding
// rank.
func (s *Store) Fresh(r Rank) Var {
	v := Var(len(s.parents))
	s.parents = append(s.parents, v)
	s.descs = append(s.descs, Desc{Kind: FlexVar, Rank: r})
	s.rank = append(s.rank, 0)
	return v
}

// FreshRigid allocates a new rigid (skolem) variable: one that must
// unify only with itself or a flex var, never be generalized away.
func (s *Store) FreshRigid(r Rank, name string) Var {
	v := s.Fresh(r)
	s.descs[v].Kind = RigidVar
	s.descs[v].Name = name
	return v
}

// FreshStructure allocates a variable already bound to a concrete
// FlatType.
func (s *Store) FreshStructure(r Rank, flat FlatType) Var {
	v := s.Fresh(r)
	s.descs[v].Kind = Structure
	s.descs[v].Flat = flat
	return v
}

// Idents borrows the ident.Store this Store renders names through,
// for callers (internal/layout) that need to inspect interned text
// for a handful of built-in names (e.g. distinguishing the Bool
// nominal) without threading a second *ident.Store of their own.
func (s *Store) Idents() *ident.Store { return s.idents }

// Resolve finds v's representative root, compressing the path as it
// walks so subsequent lookups are near O(1).
func (s *Store) Resolve(v Var) Var {
	root := v
	for s.parents[root] != root {
		root = s.parents[root]
	}
	for s.parents[v] != root {
		next := s.parents[v]
		s.parents[v] = root
		v = next
	}
	return root
}

// Desc returns the descriptor at v's root.
func (s *Store) Desc(v Var) Desc {
	return s.descs[s.Resolve(v)]
}

// SetDesc overwrites the descriptor at v's root in place — used when
// a flex var is refined into a Structure, or a numeric default is
// applied.
func (s *Store) SetDesc(v Var, d Desc) {
	s.descs[s.Resolve(v)] = d
}

// union repoints b's root at a's root (union-by-rank on the tree
// height, not the binding Rank) and returns the surviving root.
func (s *Store) union(a, b Var) Var {
	ra, rb := s.Resolve(a), s.Resolve(b)
	if ra == rb {
		return ra
	}
	if s.rank[ra] < s.rank[rb] {
		ra, rb = rb, ra
	}
	s.parents[rb] = ra
	if s.rank[ra] == s.rank[rb] {
		s.rank[ra]++
	}
	return ra
}

// MinRank returns the shallower of two variables' binding ranks,
// which is the rank the merged variable must carry: a variable reached
// from an outer binding can never be generalized at an inner one.
func minRank(a, b Rank) Rank {
	if a == NoRank {
		return b
	}
	if b == NoRank {
		return a
	}
	if a < b {
		return a
	}
	return b
}
