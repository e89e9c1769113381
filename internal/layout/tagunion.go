package layout

import "github.com/sunholo/lumen/internal/types"

// computeTagUnion picks one of spec.md §4.6's tag-union
// representations by the shape of tags: how many variants there are
// and how many of them carry constructor arguments.
func (c *Cache) computeTagUnion(tags []types.Tag) Layout {
	if len(tags) == 0 {
		return ZeroSized()
	}

	payloads := make([]Layout, len(tags))
	var payloadSize, payloadAlign uint32 = 0, 1
	nonEmpty := 0
	for i, t := range tags {
		raw := make([]rawField, len(t.Args))
		for j, a := range t.Args {
			raw[j] = rawField{index: j, l: c.Compute(a)}
		}
		fields, size, align := layoutFields(raw)
		payloads[i] = Layout{Size: size, Align: align, Repr: ReprTuple, Fields: fields}
		if len(t.Args) > 0 {
			nonEmpty++
		}
		payloadSize = maxU32(payloadSize, size)
		payloadAlign = maxU32(payloadAlign, align)
	}

	switch {
	case len(tags) == 1:
		return c.singleTagLayout(tags, payloads[0])
	case nonEmpty == 0:
		return c.enumerationLayout(tags)
	case nonEmpty == 1 && len(tags) == 2:
		return c.discriminatedUnion(tags, payloads, payloadSize, payloadAlign, TagNullableWrapped)
	case nonEmpty == 1:
		return c.discriminatedUnion(tags, payloads, payloadSize, payloadAlign, TagNonNullableUnwrapped)
	default:
		return c.discriminatedUnion(tags, payloads, payloadSize, payloadAlign, TagDefault)
	}
}

// enumerationLayout handles a tag union whose variants all carry no
// arguments: discriminant only, no payload region at all.
func (c *Cache) enumerationLayout(tags []types.Tag) Layout {
	discSize := discriminantSize(len(tags))
	cases := make([]TagCase, len(tags))
	for i, t := range tags {
		cases[i] = TagCase{Name: t.Name, Discriminant: uint32(i)}
	}
	return Layout{
		Size: discSize, Align: discSize, Repr: ReprTagUnion,
		TagRepr: TagEnumeration, DiscSize: discSize, Tags: cases,
	}
}

// singleTagLayout handles a tag union with exactly one variant: no
// discriminant is needed since there's nothing to disambiguate.
func (c *Cache) singleTagLayout(tags []types.Tag, payload Layout) Layout {
	align := payload.Align
	if align == 0 {
		align = 1
	}
	return Layout{
		Size: payload.Size, Align: align, Repr: ReprTagUnion,
		TagRepr: TagSingleTagStruct, PayloadOffset: 0,
		Tags: []TagCase{{Name: tags[0].Name, Discriminant: 0, Args: payload.Fields}},
	}
}

// discriminatedUnion is the general representation — and the actual
// byte shape used for NullableWrapped/NonNullableUnwrapped/TagDefault
// alike, since this interpreter has no heap pointer to overlay the
// empty variant onto (see the TagRepr doc comment). repr is recorded
// purely as a classification.
func (c *Cache) discriminatedUnion(tags []types.Tag, payloads []Layout, payloadSize, payloadAlign uint32, repr TagRepr) Layout {
	discSize := discriminantSize(len(tags))
	payloadOffset := alignUp(discSize, maxU32(payloadAlign, 1))
	align := maxU32(discSize, payloadAlign)
	size := alignUp(payloadOffset+payloadSize, align)

	cases := make([]TagCase, len(tags))
	for i, t := range tags {
		cases[i] = TagCase{Name: t.Name, Discriminant: uint32(i), Args: payloads[i].Fields}
	}
	return Layout{
		Size: size, Align: align, Repr: ReprTagUnion,
		TagRepr: repr, DiscSize: discSize, PayloadOffset: payloadOffset, Tags: cases,
	}
}

func discriminantSize(n int) uint32 {
	switch {
	case n <= 1<<8:
		return 1
	case n <= 1<<16:
		return 2
	default:
		return 4
	}
}
