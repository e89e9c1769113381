package layout

// Closure header fields, per spec.md §4.7.3:
// {body_idx, params_span, captures_span, env_size}. Each span is an
// (offset, length) pair into the CIR's own arenas, so the header is
// six 4-byte words: body_idx, params_offset, params_len,
// captures_offset, captures_len, env_size.
const (
	ClosureHeaderSize  uint32 = 24
	ClosureHeaderAlign uint32 = 4
)

// NewClosureLayout builds the full layout of a closure value with the
// given captured fields already computed (one Field per captured
// binding, Offset left unset — this function assigns it). Captures
// are placed in the order given, each at the next aligned offset
// after the header, per spec.md §4.7.3 ("on creation each captured
// pattern's current binding is copied into env at next aligned
// offset"); capture order itself is set by internal/interp's capture
// analysis, not by this package — field order here is NOT re-sorted by alignment the
// way record fields are, since it must match the order the
// interpreter reattaches captures as fresh Bindings on call.
func NewClosureLayout(captures []Field) Layout {
	offset := ClosureHeaderSize
	align := ClosureHeaderAlign
	laidOut := make([]Field, len(captures))
	for i, f := range captures {
		a := f.Layout.Align
		if a == 0 {
			a = 1
		}
		off := alignUp(offset, a)
		laidOut[i] = Field{Name: f.Name, Index: f.Index, Offset: off, Layout: f.Layout}
		offset = off + f.Layout.Size
		align = maxU32(align, a)
	}
	size := alignUp(offset, align)
	return Layout{
		Size: size, Align: align, Repr: ReprClosure,
		EnvOffset: ClosureHeaderSize, Captures: laidOut,
	}
}
