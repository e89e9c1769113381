// Package layout computes the runtime memory layout of a resolved
// type: byte size, alignment, and (for composite shapes) field
// offsets. The interpreter never heap-allocates an intermediate
// value; every value it produces occupies a fixed span of its bump
// allocator sized and aligned by a Layout computed here, per
// spec.md §4.6.
//
// There is no direct teacher equivalent — the teacher's
// internal/eval walks core.CoreExpr and produces heap-allocated
// eval.Value interface values, never computing a byte layout at all.
// The shape catalogue this package switches over (scalar/bool/list/
// tuple/record/tagged) is grounded on internal/eval/value.go's
// Value-kind catalogue; the idea of a resolved-shape side table kept
// apart from the node arena it describes is grounded on
// internal/typedast's typed-AST-alongside-AST precedent, applied here
// to byte layout instead of to types.
package layout

import (
	"sort"

	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/types"
)

// Repr discriminates the representation strategies spec.md §4.6
// distinguishes.
type Repr int8

const (
	ReprZeroSized Repr = iota
	ReprScalar
	ReprBool
	ReprRecord
	ReprTuple
	ReprTagUnion
	ReprList
	ReprBox
	ReprClosure
)

// TagRepr records which of the optimized tag-union representations
// spec.md §4.6 names was chosen for a ReprTagUnion layout.
// TagDefault is the general discriminant-plus-widest-payload form; it
// is what NullableWrapped and NonNullableUnwrapped fall back to here,
// since unwrapping either needs a real heap pointer to overlay the
// empty variant onto (spec.md §5's Box is reserved-by-size only, with
// no heap runtime behind it in this interpreter) — the classification
// is still computed and exposed, it just isn't given a distinct byte
// shape.
type TagRepr int8

const (
	TagDefault TagRepr = iota
	TagEnumeration
	TagSingleTagStruct
	TagNullableWrapped
	TagNonNullableUnwrapped
)

func (r TagRepr) String() string {
	switch r {
	case TagEnumeration:
		return "enumeration"
	case TagSingleTagStruct:
		return "single_tag_struct"
	case TagNullableWrapped:
		return "nullable_wrapped"
	case TagNonNullableUnwrapped:
		return "non_nullable_unwrapped"
	default:
		return "default"
	}
}

// Field is one offset-assigned member of a record, tuple, tag
// payload, or closure environment. Name is ident.Invalid for
// positional members (tuple elements, tag constructor arguments).
type Field struct {
	Name   ident.Idx
	Index  int
	Offset uint32
	Layout Layout
}

// TagCase is one variant of a ReprTagUnion layout: its discriminant
// value and its constructor arguments laid out as a tuple, offsets
// relative to PayloadOffset.
type TagCase struct {
	Name         ident.Idx
	Discriminant uint32
	Args         []Field
}

// Layout is the computed size/alignment/shape of one resolved type.
// Only the fields relevant to Repr are meaningful; the rest are zero.
type Layout struct {
	Size  uint32
	Align uint32
	Repr  Repr

	// Record, Tuple: canonical-order field list.
	Fields []Field

	// TagUnion.
	TagRepr       TagRepr
	DiscSize      uint32
	PayloadOffset uint32
	Tags          []TagCase

	// Closure: header occupies [0, EnvOffset); captures follow.
	EnvOffset uint32
	Captures  []Field

	// Scalar: the concrete precision this value's bytes are encoded
	// at, carried on the layout itself so the interpreter's binop
	// evaluation never has to re-resolve a types.Var at runtime to
	// know how to read a value it already has a Layout for.
	NumPrecision types.Precision
}

// ZeroSized is the layout.zero handle spec.md §4.6 requires every
// zero-sized type (an empty record, a single-tag enum with no
// payload) to still carry: a valid, cacheable Layout whose Size is 0.
func ZeroSized() Layout {
	return Layout{Size: 0, Align: 1, Repr: ReprZeroSized}
}

// Defaults supplies the concrete precision an unbound numeric type
// defaults to when it reaches layout computation without ever having
// been pinned down during checking (e.g. a top-level `x = 1` binding
// with no consuming context). internal/config's defaultIntPrecision
// field is the source of IntPrecision; there is no equivalent
// fractional-default config knob, so FracPrecision is fixed at f64.
type Defaults struct {
	IntPrecision  types.Precision
	FracPrecision types.Precision
}

// DefaultDefaults is the fallback Defaults used when no
// internal/config value overrides it.
func DefaultDefaults() Defaults {
	return Defaults{IntPrecision: types.PrecI64, FracPrecision: types.PrecF64}
}

// Cache memoizes Layout computation per resolved types.Var, since the
// same structural type is reached repeatedly (once per call site,
// once per recursive occurrence) while interpreting one module.
type Cache struct {
	store    *types.Store
	defaults Defaults
	memo     map[types.Var]Layout
}

func NewCache(store *types.Store, defaults Defaults) *Cache {
	return &Cache{store: store, defaults: defaults, memo: make(map[types.Var]Layout)}
}

// Compute returns v's layout, computing and memoizing it on first
// request.
func (c *Cache) Compute(v types.Var) Layout {
	root := c.store.Resolve(v)
	if l, ok := c.memo[root]; ok {
		return l
	}
	// Seed the memo with a zero-sized placeholder before recursing so
	// a self-referential nominal (e.g. a recursive `type Tree = ...`
	// backed by a Box[Tree] field) can't loop forever computing its
	// own layout; Box never expands its element's layout anyway (see
	// computeFlat's FlatBox case), so the placeholder is never
	// actually observed, only the recursion guard matters.
	c.memo[root] = ZeroSized()
	l := c.computeVar(root)
	c.memo[root] = l
	return l
}

func (c *Cache) computeVar(v types.Var) Layout {
	desc := c.store.Desc(v)
	switch desc.Kind {
	case types.Alias:
		return c.Compute(desc.Nom.Backing)
	case types.Structure:
		return c.computeFlat(desc.Flat)
	default:
		// FlexVar/RigidVar/Err reaching layout computation means the
		// checker left this position unconstrained (an unreachable
		// branch, or a cross-module reference the linker never
		// resolved). Treated as zero-sized so the rest of the module's
		// layout still completes; a value actually produced there
		// would be an interpreter LayoutError, not a layout-time one.
		return ZeroSized()
	}
}

func (c *Cache) computeFlat(flat types.FlatType) Layout {
	switch flat.Kind {
	case types.FlatNum:
		return c.numLayout(flat.Num)

	case types.FlatNominal:
		if flat.Nom.Backing == types.NoVar {
			// Bool is the one built-in nominal the checker constructs
			// with no structural backing (checker.boolType). Every
			// other bare nominal reaching layout with no backing is an
			// unresolved forward reference; fall back to zero-sized
			// the same as an unconstrained var.
			if c.idents().Text(flat.Nom.Ident) == "Bool" {
				return Layout{Size: 1, Align: 1, Repr: ReprBool}
			}
			return ZeroSized()
		}
		return c.Compute(flat.Nom.Backing)

	case types.FlatStr, types.FlatList, types.FlatListUnbound:
		// Header only: pointer + length + capacity, three 8-byte
		// words. The element type is reserved-by-size but never
		// expanded, per spec.md §4.6 ("out of scope for the
		// interpreter but reserved by size").
		return Layout{Size: 24, Align: 8, Repr: ReprList}

	case types.FlatBox:
		// Pointer-sized, element never expanded (recursion guard in
		// Compute relies on this: a Box never recurses into Elem).
		return Layout{Size: 8, Align: 8, Repr: ReprBox}

	case types.FlatTuple:
		raw := make([]rawField, len(flat.Elems))
		for i, e := range flat.Elems {
			raw[i] = rawField{index: i, name: ident.Invalid, l: c.Compute(e)}
		}
		fields, size, align := layoutFields(raw)
		return Layout{Size: size, Align: align, Repr: ReprTuple, Fields: fields}

	case types.FlatRecord, types.FlatRecordUnbound, types.FlatEmptyRecord:
		raw := make([]rawField, len(flat.Fields))
		for i, f := range flat.Fields {
			raw[i] = rawField{index: i, name: f.Name, l: c.Compute(f.Type)}
		}
		fields, size, align := layoutFields(raw)
		return Layout{Size: size, Align: align, Repr: ReprRecord, Fields: fields}

	case types.FlatTagUnion, types.FlatEmptyTagUnion:
		return c.computeTagUnion(flat.Tags)

	case types.FlatFnPure, types.FlatFnEffectful, types.FlatFnUnbound:
		// The type alone carries no information about which bindings a
		// particular lambda captures — that's a property of the CIR
		// LambdaExpr, not of its function type. Compute returns a
		// closure value's fixed header shape with no captures; the
		// interpreter builds the real per-closure layout (with actual
		// captures) via NewClosureLayout when a closure value is
		// created (spec.md §4.7.3).
		return NewClosureLayout(nil)

	default:
		return ZeroSized()
	}
}

// idents borrows the ident.Store the Cache's types.Store renders
// names through. Exists only to keep computeFlat's Bool special case
// readable.
func (c *Cache) idents() *ident.Store { return c.store.Idents() }

func (c *Cache) numLayout(n types.Num) Layout {
	prec := n.Precision
	if prec == "" {
		switch n.Kind {
		case types.FracUnbound, types.FracPoly:
			prec = c.defaults.FracPrecision
		default:
			// IntUnbound, IntPoly, NumUnbound, NumPoly: a bare numeric
			// literal or polymorphic numeric var that was never pinned
			// to a fractional family defaults to the integer default —
			// NumUnbound in
			// particular is ambiguous between int and frac, but an
			// Int default is the conservative choice: a literal with
			// no consuming context (`x = 1`) reads as an integer to a
			// human before it reads as a float.
			prec = c.defaults.IntPrecision
		}
	}
	size, align := scalarSize(prec)
	return Layout{Size: size, Align: align, Repr: ReprScalar, NumPrecision: prec}
}

func scalarSize(p types.Precision) (size, align uint32) {
	switch p {
	case types.PrecI8, types.PrecU8:
		return 1, 1
	case types.PrecI16, types.PrecU16:
		return 2, 2
	case types.PrecI32, types.PrecU32, types.PrecF32:
		return 4, 4
	case types.PrecI64, types.PrecU64, types.PrecF64:
		return 8, 8
	case types.PrecI128, types.PrecU128, types.PrecDec:
		return 16, 16
	default:
		return 8, 8
	}
}

type rawField struct {
	name  ident.Idx
	index int
	l     Layout
}

// layoutFields assigns offsets to raw in the canonical order spec.md
// §4.6 specifies for records and tuples: alignment descending, then
// source order for ties (sort.SliceStable preserves raw's incoming
// order as the tiebreak).
func layoutFields(raw []rawField) ([]Field, uint32, uint32) {
	ordered := make([]rawField, len(raw))
	copy(ordered, raw)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].l.Align > ordered[j].l.Align
	})

	var offset, align uint32 = 0, 1
	out := make([]Field, len(ordered))
	for i, rf := range ordered {
		a := rf.l.Align
		if a == 0 {
			a = 1
		}
		off := alignUp(offset, a)
		out[i] = Field{Name: rf.name, Index: rf.index, Offset: off, Layout: rf.l}
		offset = off + rf.l.Size
		if a > align {
			align = a
		}
	}
	return out, alignUp(offset, align), align
}

func alignUp(n, a uint32) uint32 {
	if a <= 1 {
		return n
	}
	return (n + a - 1) / a * a
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
