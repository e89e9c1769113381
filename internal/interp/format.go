package interp

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/layout"
)

// GlobalString renders the top-level binding introduced by pat as
// text. valueEntry itself stays unexported — this is the one seam
// cmd/lumenc (or any other caller outside this package) needs to
// print a Run result without reaching into stack_memory directly.
func (ip *Interp) GlobalString(pat cir.PatternIdx) (string, bool) {
	v, ok := ip.globals[pat]
	if !ok {
		return "", false
	}
	return ip.formatValue(v), true
}

func (ip *Interp) formatValue(v valueEntry) string {
	switch v.layout.Repr {
	case layout.ReprZeroSized:
		return "{}"
	case layout.ReprBool:
		return strconv.FormatBool(ip.readBool(v))
	case layout.ReprScalar:
		return ip.formatScalar(v)
	case layout.ReprList:
		if s, ok := ip.strings[v.offset]; ok {
			return strconv.Quote(s)
		}
		return "<list>"
	case layout.ReprTuple:
		return ip.formatTuple(v)
	case layout.ReprRecord:
		return ip.formatRecord(v)
	case layout.ReprTagUnion:
		return ip.formatTag(v)
	case layout.ReprBox:
		return "<box>"
	case layout.ReprClosure:
		return "<closure>"
	default:
		return "<?>"
	}
}

func (ip *Interp) formatScalar(v valueEntry) string {
	switch {
	case v.layout.NumPrecision.IsFloat():
		return strconv.FormatFloat(ip.readFloatLike(v), 'g', -1, 64)
	case v.layout.NumPrecision.IsDecimal():
		n := bytesToBig(ip.bytesOf(v), true)
		f := new(big.Float).SetInt(n)
		f.Quo(f, new(big.Float).SetInt(decScale))
		return f.Text('f', -1)
	default:
		n := bytesToBig(ip.bytesOf(v), v.layout.NumPrecision.IsSigned())
		return n.String()
	}
}

func (ip *Interp) formatTuple(v valueEntry) string {
	parts := make([]string, len(v.layout.Fields))
	for _, f := range v.layout.Fields {
		parts[f.Index] = ip.formatValue(ip.fieldValue(v, f))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (ip *Interp) formatRecord(v valueEntry) string {
	parts := make([]string, len(v.layout.Fields))
	for i, f := range v.layout.Fields {
		parts[i] = fmt.Sprintf("%s: %s", ip.idents.Text(f.Name), ip.formatValue(ip.fieldValue(v, f)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (ip *Interp) formatTag(v valueEntry) string {
	disc, payloadOff, ok := ip.readDiscriminant(v)
	if !ok {
		return "<tag>"
	}
	for _, c := range v.layout.Tags {
		if c.Discriminant != disc {
			continue
		}
		name := ip.idents.Text(c.Name)
		if len(c.Args) == 0 {
			return name
		}
		args := make([]string, len(c.Args))
		for _, f := range c.Args {
			args[f.Index] = ip.formatValue(valueEntry{layout: f.Layout, offset: v.offset + payloadOff + f.Offset})
		}
		return name + "(" + strings.Join(args, ", ") + ")"
	}
	return "<unknown tag>"
}

func (ip *Interp) fieldValue(v valueEntry, f layout.Field) valueEntry {
	return valueEntry{layout: f.Layout, offset: v.offset + f.Offset}
}
