// Package interp is the single-threaded, stack-based tree-walking
// evaluator over a canonicalized cir.Module, per spec.md §4.7. It
// never heap-allocates an intermediate value: every value a CIR
// expression produces occupies a span of a bump-allocated
// stack_memory buffer, and control flow is driven by an explicit LIFO
// work queue rather than the Go call stack, so evaluation depth is
// bounded by the interpreter's own configured limits instead of by
// goroutine stack growth.
//
// There is no direct teacher equivalent: internal/eval in the teacher
// repo is a straightforward recursive Go-stack walk over core.CoreExpr
// producing heap-allocated eval.Value interface values (see
// internal/eval/eval_core.go's evalExpr). This package is grounded on
// that file's case-by-case expression dispatch order (If/Match/
// Lambda/Apply/Record/Tuple, in the same relative order
// eval_core.go/eval_expressions.go switch over them) and on
// eval_core.go's evalFuncLit closure-construction bookkeeping, but
// rebuilt entirely around stack_memory/value_stack/work_stack/
// bindings_stack/frame_stack and a WorkItem queue, since the teacher's
// pointer/interface value representation is the opposite of what
// spec.md §4.7 asks for.
package interp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/layout"
	"github.com/sunholo/lumen/internal/types"
)

// FailureKind enumerates spec.md §4.7.5's failure taxonomy.
type FailureKind int8

const (
	Crash FailureKind = iota
	DivisionByZero
	StackOverflow
	LayoutErrorKind
	ArityMismatch
	PatternNotFound
	InvalidStackState
	TypeMismatch
)

func (k FailureKind) String() string {
	switch k {
	case Crash:
		return "Crash"
	case DivisionByZero:
		return "DivisionByZero"
	case StackOverflow:
		return "StackOverflow"
	case LayoutErrorKind:
		return "LayoutError"
	case ArityMismatch:
		return "ArityMismatch"
	case PatternNotFound:
		return "PatternNotFound"
	case InvalidStackState:
		return "InvalidStackState"
	case TypeMismatch:
		return "TypeMismatch"
	default:
		return "Unknown"
	}
}

// Failure is the error type every evaluation path that can fail
// returns. Most FailureKinds are modeled program failures that Run
// catches per-Def, leaving module state (globals already bound by
// earlier defs) intact, per spec.md §4.7.5 — see recoverable in
// module.go for the exact split.
type Failure struct {
	Kind    FailureKind
	Message string
	Expr    cir.ExprIdx
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func fail(kind FailureKind, expr cir.ExprIdx, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...), Expr: expr}
}

// valueEntry is one value_stack entry: a (layout, offset) pair
// pointing into stack_memory, per spec.md §4.7.1.
type valueEntry struct {
	layout layout.Layout
	offset uint32
}

// Binding is one bindings_stack entry, per spec.md §4.7.3.
type Binding struct {
	pattern cir.PatternIdx
	value   valueEntry
}

// CallFrame captures the bases of all four stacks at a call's entry,
// per spec.md §4.7.3, so LambdaReturn can truncate back to them.
type CallFrame struct {
	stackBase    uint32
	valueBase    int
	bindingsBase int
	workBase     int
}

// Limits bounds the interpreter's resource use; the host is
// responsible for enforcing step/time limits externally (spec.md §5),
// but stack sizing is this package's own concern since stack_memory is
// a fixed buffer it owns.
type Limits struct {
	StackMemoryBytes int
	MaxFrameDepth    int
}

func DefaultLimits() Limits {
	return Limits{StackMemoryBytes: 4 << 20, MaxFrameDepth: 4096}
}

// Interp holds every stack spec.md §4.7 names plus the static inputs
// (the canonicalized module, the checker's inferred-type side tables,
// and a layout.Cache) needed to size and interpret each value.
type Interp struct {
	mod          *cir.Module
	store        *types.Store
	idents       *ident.Store
	layouts      *layout.Cache
	exprTypes    map[cir.ExprIdx]types.Var
	patternTypes map[cir.PatternIdx]types.Var
	limits       Limits
	log          *logrus.Entry

	stackMemory []byte
	used        uint32

	valueStack    []valueEntry
	workStack     []WorkItem
	bindingsStack []Binding
	frameStack    []CallFrame

	// strings backs string-valued cells: stack_memory reserves a
	// 24-byte header for a string the same as for a list (spec.md
	// §4.6's "header... reserved by size"), but the interpreter still
	// needs the actual text for str-typed crash messages and dbg
	// output, so it's kept out of band here rather than given a real
	// heap.
	strings map[uint32]string

	// globals holds each top-level Def's computed value, populated by
	// Run as it evaluates the module's TopLevel in order; a later
	// def's body can reference an earlier one via e_lookup_local's
	// "falling back to global defs" per spec.md §4.7.3.
	globals map[cir.PatternIdx]valueEntry

	// topLevel marks which PatternIdx values belong to the module's
	// top level, so free-variable analysis at closure creation knows
	// to skip them (a global doesn't need capturing — it's always
	// reachable through globals).
	topLevel map[cir.PatternIdx]bool
}

// New builds an Interp for one checked module. exprTypes/patternTypes
// are the checker's output side tables (Checker.ExprTypes,
// Checker.PatternTypes).
func New(
	mod *cir.Module,
	store *types.Store,
	idents *ident.Store,
	exprTypes map[cir.ExprIdx]types.Var,
	patternTypes map[cir.PatternIdx]types.Var,
	defaults layout.Defaults,
	limits Limits,
	log *logrus.Entry,
) *Interp {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	ip := &Interp{
		mod:          mod,
		store:        store,
		idents:       idents,
		layouts:      layout.NewCache(store, defaults),
		exprTypes:    exprTypes,
		patternTypes: patternTypes,
		limits:       limits,
		log:          log,
		stackMemory:  make([]byte, limits.StackMemoryBytes),
		strings:      make(map[uint32]string),
		globals:      make(map[cir.PatternIdx]valueEntry),
		topLevel:     make(map[cir.PatternIdx]bool),
	}
	for _, defIdx := range mod.TopLevel {
		ip.topLevel[mod.Def(defIdx).Pattern] = true
	}
	return ip
}

// alloc bump-allocates size bytes aligned to align at the current
// stack_memory watermark, per spec.md §4.7.1.
func (ip *Interp) alloc(l layout.Layout) (uint32, error) {
	align := l.Align
	if align == 0 {
		align = 1
	}
	off := alignUp(ip.used, align)
	end := off + l.Size
	if end > uint32(len(ip.stackMemory)) {
		return 0, fail(StackOverflow, cir.InvalidExprIdx, "stack_memory exhausted (%d bytes requested at offset %d, capacity %d)", l.Size, off, len(ip.stackMemory))
	}
	ip.used = end
	return off, nil
}

func alignUp(n, a uint32) uint32 {
	if a <= 1 {
		return n
	}
	return (n + a - 1) / a * a
}

// truncate pops stack_memory back to a previous watermark, per
// spec.md §4.7.1 ("popping truncates stack_memory.used to the value's
// offset").
func (ip *Interp) truncate(mark uint32) {
	ip.used = mark
}
