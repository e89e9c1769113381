package canon

import "github.com/sunholo/lumen/internal/ast"

// validateTypeRefs walks a type annotation resolving every named type
// against the type scope (distinct from the value scope, spec.md
// §4.4: "references to types are resolved in a separate type scope").
// Unresolved names produce undeclared_type; nothing is lowered here,
// since the checker reads annotations straight out of ast.File.Types.
func (c *Canonicalizer) validateTypeRefs(t ast.TypeIdx) {
	if t == ast.InvalidTypeIdx {
		return
	}
	switch ty := c.file.Type(t).(type) {
	case *ast.TypeVarAnno:
		// Lowercase type variables need no scope lookup: they're bound
		// implicitly by appearing in the annotation.

	case *ast.TypeApplyAnno:
		if _, ok := c.scope.Resolve(ty.Name, KindType); !ok {
			c.errorf(ty, "undeclared_type", "type "+c.file.Idents.Text(ty.Name)+" is not declared")
		}
		for _, a := range ty.Args {
			c.validateTypeRefs(a)
		}

	case *ast.FuncTypeAnno:
		for _, p := range ty.Params {
			c.validateTypeRefs(p)
		}
		c.validateTypeRefs(ty.Return)

	case *ast.TupleTypeAnno:
		for _, e := range ty.Elements {
			c.validateTypeRefs(e)
		}

	case *ast.RecordTypeAnno:
		for _, f := range ty.Fields {
			c.validateTypeRefs(f.Type)
		}
		if ty.Ext != ast.InvalidTypeIdx {
			c.validateTypeRefs(ty.Ext)
		}

	case *ast.TagUnionTypeAnno:
		for _, tag := range ty.Tags {
			for _, f := range tag.Fields {
				c.validateTypeRefs(f)
			}
		}
		if ty.Ext != ast.InvalidTypeIdx {
			c.validateTypeRefs(ty.Ext)
		}

	case *ast.AliasTypeAnno:
		c.validateTypeRefs(ty.Target)

	case *ast.AlgebraicTypeAnno:
		for _, ctor := range ty.Constructors {
			for _, f := range ctor.Fields {
				c.validateTypeRefs(f)
			}
		}

	case *ast.WildcardTypeAnno:
		// Matches anything; nothing to resolve.

	case *ast.MalformedTypeAnno:
		c.errorf(ty, "malformed_type", ty.Reason)
	}
}
