package interp

import (
	"encoding/binary"

	"github.com/sunholo/lumen/internal/layout"
)

func (ip *Interp) bytesOf(v valueEntry) []byte {
	return ip.stackMemory[v.offset : v.offset+v.layout.Size]
}

func (ip *Interp) writeBool(b bool) (valueEntry, error) {
	l := layout.Layout{Size: 1, Align: 1, Repr: layout.ReprBool}
	off, err := ip.alloc(l)
	if err != nil {
		return valueEntry{}, err
	}
	if b {
		ip.stackMemory[off] = 1
	} else {
		ip.stackMemory[off] = 0
	}
	return valueEntry{layout: l, offset: off}, nil
}

func (ip *Interp) readBool(v valueEntry) bool {
	return ip.stackMemory[v.offset] != 0
}

func (ip *Interp) writeString(s string) (valueEntry, error) {
	l := layout.Layout{Size: 24, Align: 8, Repr: layout.ReprList}
	off, err := ip.alloc(l)
	if err != nil {
		return valueEntry{}, err
	}
	for i := off; i < off+l.Size; i++ {
		ip.stackMemory[i] = 0
	}
	ip.strings[off] = s
	return valueEntry{layout: l, offset: off}, nil
}

func (ip *Interp) readString(v valueEntry) string {
	return ip.strings[v.offset]
}

func putU32(buf []byte, v uint32) { binary.LittleEndian.PutUint32(buf, v) }
func getU32(buf []byte) uint32    { return binary.LittleEndian.Uint32(buf) }

// assemble copies the bytes of each (placement, value) pair into a
// fresh layout_-shaped allocation and truncates stack_memory back to
// base first, so the composite's bytes land exactly where its
// sub-values' now-redundant temporaries used to start — the general
// idiom every composite-construction path (record, tuple, tag)
// uses, per spec.md §4.7.1's bump-allocator
// discipline.
// placements and values both describe the same N sub-values, but
// placements may be reordered from values' source order (layoutFields
// sorts fields by descending alignment); f.Index is each placement's
// original source position, so it's the key that reconnects the two.
func (ip *Interp) assemble(base uint32, l layout.Layout, placements []layout.Field, values []valueEntry) (valueEntry, error) {
	buf := make([]byte, l.Size)
	for _, f := range placements {
		v := values[f.Index]
		copy(buf[f.Offset:f.Offset+f.Layout.Size], ip.bytesOf(v))
	}
	ip.truncate(base)
	off, err := ip.alloc(l)
	if err != nil {
		return valueEntry{}, err
	}
	copy(ip.stackMemory[off:off+l.Size], buf)
	return valueEntry{layout: l, offset: off}, nil
}

// relocate copies v's bytes out, truncates stack_memory back to base,
// and reallocates v's layout at the freed base — the single-value
// case of assemble's idiom, used by a call return to drop the dead
// callee frame (args, captures reattachment, body temporaries) while
// keeping the one value that survives it.
func (ip *Interp) relocate(base uint32, v valueEntry) (valueEntry, error) {
	buf := make([]byte, v.layout.Size)
	copy(buf, ip.bytesOf(v))
	ip.truncate(base)
	off, err := ip.alloc(v.layout)
	if err != nil {
		return valueEntry{}, err
	}
	copy(ip.stackMemory[off:off+v.layout.Size], buf)
	return valueEntry{layout: v.layout, offset: off}, nil
}
