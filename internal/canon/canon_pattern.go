package canon

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
)

// canonPattern lowers one AST pattern to CIR, declaring any identifier
// binders it introduces into the current scope. Top-level and
// block-level let patterns go through predeclarePattern instead (so
// the binder exists before the paired expr is checked); canonPattern
// is for patterns introduced inline where no forward reference is
// possible: lambda parameters and match-case patterns.
func (c *Canonicalizer) canonPattern(idx ast.PatternIdx) cir.PatternIdx {
	if idx == ast.InvalidPatternIdx {
		return cir.InvalidPatternIdx
	}
	if cached, ok := c.declPattern[idx]; ok {
		return cached
	}

	switch p := c.file.Pattern(idx).(type) {
	case *ast.IdentPattern:
		cidx := c.mod.NewPattern(&cir.IdentPattern{Base: cir.Base{R: p.R}, Name: p.Name})
		c.declPattern[idx] = cidx
		if _, ok, isDup := c.declare(p.Name, KindValue, int32(cidx)); isDup {
			c.errorf(p, "ident_already_in_scope", "name "+c.file.Idents.Text(p.Name)+" is already in scope")
		} else if !ok {
			c.warnf(p, "shadowing_warning", "name "+c.file.Idents.Text(p.Name)+" shadows an outer binding")
		}
		return cidx

	case *ast.WildcardPattern:
		return c.mod.NewPattern(&cir.WildcardPattern{Base: cir.Base{R: p.R}})

	case *ast.IntPattern:
		return c.mod.NewPattern(&cir.IntPattern{Base: cir.Base{R: p.R}, Text: p.Text})

	case *ast.FracPattern:
		return c.mod.NewPattern(&cir.FracPattern{Base: cir.Base{R: p.R}, Text: p.Text})

	case *ast.StringPattern:
		return c.mod.NewPattern(&cir.StringPattern{Base: cir.Base{R: p.R}, Value: p.Value})

	case *ast.TagPattern:
		pats := make([]cir.PatternIdx, len(p.Patterns))
		for i, sub := range p.Patterns {
			pats[i] = c.canonPattern(sub)
		}
		return c.mod.NewPattern(&cir.TagPattern{Base: cir.Base{R: p.R}, Name: p.Name, Patterns: pats})

	case *ast.TuplePattern:
		elems := make([]cir.PatternIdx, len(p.Elements))
		for i, el := range p.Elements {
			elems[i] = c.canonPattern(el)
		}
		return c.mod.NewPattern(&cir.TuplePattern{Base: cir.Base{R: p.R}, Elements: elems})

	case *ast.RecordPattern:
		fields := make([]cir.RecordFieldPattern, len(p.Fields))
		for i, f := range p.Fields {
			switch f.Kind {
			case ast.FieldSubPattern:
				fields[i] = cir.RecordFieldPattern{Name: f.Name, Kind: cir.FieldSubPattern, Pattern: c.canonPattern(f.Pattern)}
			default:
				cidx := c.mod.NewPattern(&cir.IdentPattern{Base: cir.Base{R: p.R}, Name: f.Name})
				c.declare(f.Name, KindValue, int32(cidx))
				fields[i] = cir.RecordFieldPattern{Name: f.Name, Kind: cir.FieldRequired, Pattern: cidx}
			}
		}
		return c.mod.NewPattern(&cir.RecordPattern{Base: cir.Base{R: p.R}, Fields: fields, Rest: p.Rest})

	case *ast.ListPattern:
		elems := make([]cir.PatternIdx, len(p.Elements))
		for i, el := range p.Elements {
			elems[i] = c.canonPattern(el)
		}
		var rest *cir.PatternIdx
		if p.Rest != nil {
			r := c.canonPattern(*p.Rest)
			rest = &r
		}
		return c.mod.NewPattern(&cir.ListPattern{Base: cir.Base{R: p.R}, Elements: elems, Rest: rest})

	case *ast.AltPattern:
		alts := make([]cir.PatternIdx, len(p.Alternatives))
		for i, a := range p.Alternatives {
			alts[i] = c.canonPattern(a)
		}
		return c.mod.NewPattern(&cir.AltPattern{Base: cir.Base{R: p.R}, Alternatives: alts})

	case *ast.AsPattern:
		inner := c.canonPattern(p.Inner)
		cidx := c.mod.NewPattern(&cir.IdentPattern{Base: cir.Base{R: p.R}, Name: p.Name})
		c.declare(p.Name, KindValue, int32(cidx))
		return c.mod.NewPattern(&cir.AsPattern{Base: cir.Base{R: p.R}, Inner: inner, Name: p.Name})

	case *ast.MalformedPattern:
		return c.mod.NewPattern(&cir.MalformedPattern{Base: cir.Base{R: p.R}, Reason: p.Reason})
	}
	return cir.InvalidPatternIdx
}
