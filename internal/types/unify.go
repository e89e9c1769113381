package types

import (
	"fmt"

	"github.com/sunholo/lumen/internal/ident"
)

// Mismatch describes a failed unification: both sides are rendered to
// strings (Render, defined in render.go) at the point of failure since
// by the time an error bubbles up to the caller the roots may already
// have been stomped to Err.
type Mismatch struct {
	Code string
	Lhs  string
	Rhs  string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("%s: %s vs %s", m.Code, m.Lhs, m.Rhs)
}

// Unify unifies a and b in place, mutating the store, per spec.md's
// unification table. On success both variables resolve to the same
// root. On failure, per spec, both representatives are set to Err so
// the mismatch does not cascade into unrelated unifications.
func (s *Store) Unify(a, b Var) error {
	ra, rb := s.Resolve(a), s.Resolve(b)
	if ra == rb {
		return nil
	}
	da, db := s.descs[ra], s.descs[rb]

	switch {
	case da.Kind == Err || db.Kind == Err:
		s.union(ra, rb)
		return nil

	case da.Kind == FlexVar:
		merged := s.union(ra, rb)
		s.descs[merged] = db
		s.descs[merged].Rank = minRank(da.Rank, db.Rank)
		return nil

	case db.Kind == FlexVar:
		merged := s.union(ra, rb)
		s.descs[merged] = da
		s.descs[merged].Rank = minRank(da.Rank, db.Rank)
		return nil

	case da.Kind == RigidVar && db.Kind == RigidVar:
		if da.Name == db.Name {
			s.union(ra, rb)
			return nil
		}
		return s.fail(ra, rb, "rigid_mismatch")

	case da.Kind == RigidVar || db.Kind == RigidVar:
		return s.fail(ra, rb, "rigid_mismatch")

	case da.Kind == Alias && db.Kind == Alias:
		if da.Nom.Ident == db.Nom.Ident {
			if err := s.zipUnify(da.Nom.Args, db.Nom.Args); err != nil {
				return err
			}
			s.union(ra, rb)
			return nil
		}
		return s.Unify(da.Nom.Backing, db.Nom.Backing)

	case da.Kind == Alias:
		return s.Unify(da.Nom.Backing, rb)

	case db.Kind == Alias:
		return s.Unify(ra, db.Nom.Backing)

	case da.Kind == Structure && db.Kind == Structure:
		return s.unifyFlat(ra, rb, da.Flat, db.Flat)
	}
	return s.fail(ra, rb, "unify_impossible")
}

func (s *Store) fail(ra, rb Var, code string) error {
	m := &Mismatch{Code: code, Lhs: s.Render(ra), Rhs: s.Render(rb)}
	s.descs[ra] = Desc{Kind: Err}
	s.descs[rb] = Desc{Kind: Err}
	return m
}

func (s *Store) zipUnify(as, bs []Var) error {
	if len(as) != len(bs) {
		return &Mismatch{Code: "arity_mismatch"}
	}
	for i := range as {
		if err := s.Unify(as[i], bs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) unifyFlat(ra, rb Var, a, b FlatType) error {
	switch {
	case a.Kind == FlatNominal && b.Kind == FlatNominal:
		if a.Nom.Ident == b.Nom.Ident {
			if err := s.zipUnify(a.Nom.Args, b.Nom.Args); err != nil {
				return err
			}
			s.union(ra, rb)
			return nil
		}
		return s.fail(ra, rb, "nominal_mismatch")

	case a.Kind == FlatNominal || b.Kind == FlatNominal:
		return s.fail(ra, rb, "nominal_mismatch")

	case a.Kind == FlatStr && b.Kind == FlatStr:
		s.union(ra, rb)
		return nil

	case a.Kind == FlatBox && b.Kind == FlatBox:
		if err := s.Unify(a.Elem, b.Elem); err != nil {
			return err
		}
		s.union(ra, rb)
		return nil

	case isListKind(a.Kind) && isListKind(b.Kind):
		return s.unifyList(ra, rb, a, b)

	case a.Kind == FlatTuple && b.Kind == FlatTuple:
		if len(a.Elems) != len(b.Elems) {
			return s.fail(ra, rb, "tuple_arity_mismatch")
		}
		if err := s.zipUnify(a.Elems, b.Elems); err != nil {
			return err
		}
		s.union(ra, rb)
		return nil

	case a.Kind == FlatNum && b.Kind == FlatNum:
		merged, err := unifyNum(a.Num, b.Num)
		if err != nil {
			return s.fail(ra, rb, err.Error())
		}
		root := s.union(ra, rb)
		s.descs[root] = Desc{Kind: Structure, Flat: FlatType{Kind: FlatNum, Num: merged}}
		return nil

	case isFnKind(a.Kind) && isFnKind(b.Kind):
		return s.unifyFn(ra, rb, a, b)

	case isRecordKind(a.Kind) && isRecordKind(b.Kind):
		return s.unifyRecord(ra, rb, a, b)

	case isTagUnionKind(a.Kind) && isTagUnionKind(b.Kind):
		return s.unifyTagUnion(ra, rb, a, b)
	}
	return s.fail(ra, rb, "shape_mismatch")
}

func isListKind(k FlatKind) bool   { return k == FlatList || k == FlatListUnbound }
func isFnKind(k FlatKind) bool     { return k == FlatFnPure || k == FlatFnEffectful || k == FlatFnUnbound }
func isRecordKind(k FlatKind) bool { return k == FlatRecord || k == FlatRecordUnbound || k == FlatEmptyRecord }
func isTagUnionKind(k FlatKind) bool {
	return k == FlatTagUnion || k == FlatEmptyTagUnion
}

func (s *Store) unifyList(ra, rb Var, a, b FlatType) error {
	switch {
	case a.Kind == FlatListUnbound && b.Kind == FlatListUnbound:
		s.union(ra, rb)
		return nil
	case a.Kind == FlatListUnbound:
		s.union(ra, rb)
		s.descs[s.Resolve(ra)] = Desc{Kind: Structure, Flat: b}
		return nil
	case b.Kind == FlatListUnbound:
		s.union(ra, rb)
		s.descs[s.Resolve(ra)] = Desc{Kind: Structure, Flat: a}
		return nil
	default:
		if err := s.Unify(a.Elem, b.Elem); err != nil {
			return err
		}
		s.union(ra, rb)
		return nil
	}
}

// unifyFn merges purity: fn_unbound is the bottom element, combining
// with either fn_pure or fn_effectful adopts the more specific side;
// fn_pure vs fn_effectful is a hard mismatch.
func (s *Store) unifyFn(ra, rb Var, a, b FlatType) error {
	if len(a.Fn.Params) != len(b.Fn.Params) {
		return s.fail(ra, rb, "arity_mismatch")
	}
	if err := s.zipUnify(a.Fn.Params, b.Fn.Params); err != nil {
		return err
	}
	if err := s.Unify(a.Fn.Ret, b.Fn.Ret); err != nil {
		return err
	}
	kind, ok := mergePurity(a.Kind, b.Kind)
	if !ok {
		return s.fail(ra, rb, "purity_mismatch")
	}
	root := s.union(ra, rb)
	s.descs[root] = Desc{Kind: Structure, Flat: FlatType{Kind: kind, Fn: a.Fn}}
	return nil
}

func mergePurity(a, b FlatKind) (FlatKind, bool) {
	if a == b {
		return a, true
	}
	if a == FlatFnUnbound {
		return b, true
	}
	if b == FlatFnUnbound {
		return a, true
	}
	return 0, false
}

// unifyRecord implements row polymorphism: shared fields unify
// pairwise; an open side's extension variable unifies with a fresh
// record holding exactly the fields only the other side has.
func (s *Store) unifyRecord(ra, rb Var, a, b FlatType) error {
	if a.Kind == FlatEmptyRecord && b.Kind == FlatEmptyRecord {
		s.union(ra, rb)
		return nil
	}

	byName := func(fs []Field) map[ident.Idx]Var {
		m := make(map[ident.Idx]Var, len(fs))
		for _, f := range fs {
			m[f.Name] = f.Type
		}
		return m
	}
	am, bm := byName(a.Fields), byName(b.Fields)

	var onlyA, onlyB []Field
	for _, f := range a.Fields {
		if bv, ok := bm[f.Name]; ok {
			if err := s.Unify(f.Type, bv); err != nil {
				return err
			}
		} else {
			onlyA = append(onlyA, f)
		}
	}
	for _, f := range b.Fields {
		if _, ok := am[f.Name]; !ok {
			onlyB = append(onlyB, f)
		}
	}

	aOpen := a.Ext != NoVar
	bOpen := b.Ext != NoVar

	merged := append(append([]Field{}, a.Fields...), onlyB...)

	switch {
	case len(onlyA) == 0 && len(onlyB) == 0:
		s.union(ra, rb)
		return nil
	case len(onlyB) == 0 && bOpen:
		// b's known fields are a subset of a's, so b's row-remainder
		// var takes the fields only a has, plus a's own remainder.
		if err := s.Unify(b.Ext, s.FreshStructure(NoRank, FlatType{Kind: FlatRecord, Fields: onlyA, Ext: a.Ext})); err != nil {
			return err
		}
		root := s.union(ra, rb)
		s.descs[root] = Desc{Kind: Structure, Flat: FlatType{Kind: FlatRecord, Fields: merged, Ext: a.Ext}}
		return nil
	case len(onlyA) == 0 && aOpen:
		if err := s.Unify(a.Ext, s.FreshStructure(NoRank, FlatType{Kind: FlatRecord, Fields: onlyB, Ext: b.Ext})); err != nil {
			return err
		}
		root := s.union(ra, rb)
		s.descs[root] = Desc{Kind: Structure, Flat: FlatType{Kind: FlatRecord, Fields: merged, Ext: b.Ext}}
		return nil
	case aOpen && bOpen:
		rank := minRank(a.extRank(s), b.extRank(s))
		finalExt := s.Fresh(rank)
		extA := s.FreshStructure(rank, FlatType{Kind: FlatRecordUnbound, Fields: onlyB, Ext: finalExt})
		extB := s.FreshStructure(rank, FlatType{Kind: FlatRecordUnbound, Fields: onlyA, Ext: finalExt})
		if err := s.Unify(a.Ext, extA); err != nil {
			return err
		}
		if err := s.Unify(b.Ext, extB); err != nil {
			return err
		}
		root := s.union(ra, rb)
		s.descs[root] = Desc{Kind: Structure, Flat: FlatType{Kind: FlatRecord, Fields: merged, Ext: finalExt}}
		return nil
	default:
		return s.fail(ra, rb, "record_field_mismatch")
	}
}

// extRank is a small accessor kept local to unify.go: the extension
// variable's own rank, used when minting a fresh row-remainder var.
func (f FlatType) extRank(s *Store) Rank {
	if f.Ext == NoVar {
		return NoRank
	}
	return s.Desc(f.Ext).Rank
}

func (s *Store) unifyTagUnion(ra, rb Var, a, b FlatType) error {
	if a.Kind == FlatEmptyTagUnion && b.Kind == FlatEmptyTagUnion {
		s.union(ra, rb)
		return nil
	}

	byName := func(ts []Tag) map[ident.Idx]Tag {
		m := make(map[ident.Idx]Tag, len(ts))
		for _, t := range ts {
			m[t.Name] = t
		}
		return m
	}
	am, bm := byName(a.Tags), byName(b.Tags)

	var onlyA, onlyB []Tag
	for _, t := range a.Tags {
		if bt, ok := bm[t.Name]; ok {
			if err := s.zipUnify(t.Args, bt.Args); err != nil {
				return err
			}
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range b.Tags {
		if _, ok := am[t.Name]; !ok {
			onlyB = append(onlyB, t)
		}
	}

	aOpen := a.Kind != FlatEmptyTagUnion
	bOpen := b.Kind != FlatEmptyTagUnion

	merged := append(append([]Tag{}, a.Tags...), onlyB...)

	switch {
	case len(onlyA) == 0 && len(onlyB) == 0:
		s.union(ra, rb)
		return nil
	case !aOpen && len(onlyB) == 0:
		s.union(ra, rb)
		return nil
	case !bOpen && len(onlyA) == 0:
		s.union(ra, rb)
		return nil
	case aOpen && bOpen:
		finalExt := s.Fresh(NoRank)
		extA := s.FreshStructure(NoRank, FlatType{Kind: FlatTagUnion, Tags: onlyB, Ext: finalExt})
		extB := s.FreshStructure(NoRank, FlatType{Kind: FlatTagUnion, Tags: onlyA, Ext: finalExt})
		if err := s.Unify(a.Ext, extA); err != nil {
			return err
		}
		if err := s.Unify(b.Ext, extB); err != nil {
			return err
		}
		root := s.union(ra, rb)
		s.descs[root] = Desc{Kind: Structure, Flat: FlatType{Kind: FlatTagUnion, Tags: merged, Ext: finalExt}}
		return nil
	default:
		return s.fail(ra, rb, "tag_union_mismatch")
	}
}

// unifyNum implements spec.md's numeric joining table.
func unifyNum(a, b Num) (Num, error) {
	if a.Kind == NumUnbound {
		return joinUnbound(a, b)
	}
	if b.Kind == NumUnbound {
		return joinUnbound(b, a)
	}
	if a.Kind == IntUnbound && b.Kind == IntUnbound {
		return a, nil
	}
	if a.Kind == FracUnbound && b.Kind == FracUnbound {
		return a, nil
	}
	if a.Kind == IntUnbound && b.Kind == IntPrecision {
		return Num{Kind: NumCompact, Precision: b.Precision, CompactIsInt: true}, nil
	}
	if b.Kind == IntUnbound && a.Kind == IntPrecision {
		return Num{Kind: NumCompact, Precision: a.Precision, CompactIsInt: true}, nil
	}
	if a.Kind == FracUnbound && b.Kind == FracPrecision {
		return Num{Kind: NumCompact, Precision: b.Precision, CompactIsInt: false}, nil
	}
	if b.Kind == FracUnbound && a.Kind == FracPrecision {
		return Num{Kind: NumCompact, Precision: a.Precision, CompactIsInt: false}, nil
	}
	if a.Kind == IntPrecision && b.Kind == IntPrecision {
		if a.Precision != b.Precision {
			return Num{}, fmt.Errorf("int_precision_mismatch")
		}
		return a, nil
	}
	if a.Kind == FracPrecision && b.Kind == FracPrecision {
		if a.Precision != b.Precision {
			return Num{}, fmt.Errorf("frac_precision_mismatch")
		}
		return a, nil
	}
	if a.Kind == NumCompact && b.Kind == NumCompact {
		if a.Precision != b.Precision || a.CompactIsInt != b.CompactIsInt {
			return Num{}, fmt.Errorf("int_precision_mismatch")
		}
		return a, nil
	}
	if (a.Kind == IntUnbound || a.Kind == IntPrecision) && (b.Kind == FracUnbound || b.Kind == FracPrecision) {
		return Num{}, fmt.Errorf("num_kind_mismatch")
	}
	if (b.Kind == IntUnbound || b.Kind == IntPrecision) && (a.Kind == FracUnbound || a.Kind == FracPrecision) {
		return Num{}, fmt.Errorf("num_kind_mismatch")
	}
	return Num{}, fmt.Errorf("num_kind_mismatch")
}

func joinUnbound(unbound, other Num) (Num, error) {
	if other.Kind == NumUnbound {
		return Num{Kind: NumUnbound, UnboundSigned: unbound.UnboundSigned || other.UnboundSigned}, nil
	}
	return unifyNum(Num{Kind: evidenceKind(other)}, other)
}

// evidenceKind picks which family num_unbound commits to once it
// meets a more specific operand: anything fractional-flavored commits
// num_unbound to frac_unbound, anything int-flavored to int_unbound.
func evidenceKind(other Num) NumKind {
	switch other.Kind {
	case FracUnbound, FracPrecision, FracPoly:
		return FracUnbound
	default:
		return IntUnbound
	}
}
