package checker

import (
	"strconv"

	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/types"
)

// typeFromAnno canonicalizes a user-written type annotation into a
// types.Var, per spec.md §4.5.3: "canonicalize the annotation to a Var
// with rigid vars for each user-written type variable." rigids is
// shared across one annotation so repeated occurrences of the same
// lowercase type variable (`a -> a`) resolve to the same var; it also
// doubles as the substitution frame when expanding an alias or
// algebraic type's own parameters (see expandNamed).
func (c *Checker) typeFromAnno(t ast.TypeIdx, rigids map[ident.Idx]types.Var, rank types.Rank) types.Var {
	if t == ast.InvalidTypeIdx {
		return c.errVar(rank)
	}
	switch ty := c.file.Type(t).(type) {
	case *ast.TypeVarAnno:
		if v, ok := rigids[ty.Name]; ok {
			return v
		}
		v := c.store.FreshRigid(rank, c.idents.Text(ty.Name))
		rigids[ty.Name] = v
		return v

	case *ast.TypeApplyAnno:
		return c.applyType(ty, rigids, rank)

	case *ast.FuncTypeAnno:
		params := make([]types.Var, len(ty.Params))
		for i, p := range ty.Params {
			params[i] = c.typeFromAnno(p, rigids, rank)
		}
		ret := c.typeFromAnno(ty.Return, rigids, rank)
		kind := types.FlatFnEffectful
		if ty.Pure {
			kind = types.FlatFnPure
		}
		return c.store.FreshStructure(rank, types.FlatType{Kind: kind, Fn: types.Func{Params: params, Ret: ret}})

	case *ast.TupleTypeAnno:
		elems := make([]types.Var, len(ty.Elements))
		for i, e := range ty.Elements {
			elems[i] = c.typeFromAnno(e, rigids, rank)
		}
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatTuple, Elems: elems})

	case *ast.RecordTypeAnno:
		if len(ty.Fields) == 0 && ty.Ext == ast.InvalidTypeIdx {
			return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatEmptyRecord})
		}
		fields := make([]types.Field, len(ty.Fields))
		for i, f := range ty.Fields {
			fields[i] = types.Field{Name: f.Name, Type: c.typeFromAnno(f.Type, rigids, rank)}
		}
		ext := types.NoVar
		if ty.Ext != ast.InvalidTypeIdx {
			ext = c.typeFromAnno(ty.Ext, rigids, rank)
		}
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatRecord, Fields: fields, Ext: ext})

	case *ast.TagUnionTypeAnno:
		if len(ty.Tags) == 0 && ty.Ext == ast.InvalidTypeIdx {
			return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatEmptyTagUnion})
		}
		tags := make([]types.Tag, len(ty.Tags))
		for i, tag := range ty.Tags {
			args := make([]types.Var, len(tag.Fields))
			for j, f := range tag.Fields {
				args[j] = c.typeFromAnno(f, rigids, rank)
			}
			tags[i] = types.Tag{Name: tag.Name, Args: args}
		}
		ext := types.NoVar
		if ty.Ext != ast.InvalidTypeIdx {
			ext = c.typeFromAnno(ty.Ext, rigids, rank)
		}
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatTagUnion, Tags: tags, Ext: ext})

	case *ast.AliasTypeAnno:
		return c.typeFromAnno(ty.Target, rigids, rank)

	case *ast.AlgebraicTypeAnno:
		tags := make([]types.Tag, len(ty.Constructors))
		for i, ctor := range ty.Constructors {
			args := make([]types.Var, len(ctor.Fields))
			for j, f := range ctor.Fields {
				args[j] = c.typeFromAnno(f, rigids, rank)
			}
			tags[i] = types.Tag{Name: ctor.Name, Args: args}
		}
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatTagUnion, Tags: tags})

	case *ast.WildcardTypeAnno:
		return c.store.Fresh(rank)

	case *ast.MalformedTypeAnno:
		return c.errVar(rank)
	}
	return c.errVar(rank)
}

// errVar allocates a var already resolved to Err, for annotation
// shapes the canonicalizer already flagged as malformed or unresolved.
func (c *Checker) errVar(rank types.Rank) types.Var {
	v := c.store.Fresh(rank)
	c.store.SetDesc(v, types.Desc{Kind: types.Err})
	return v
}

// applyType resolves a named type application: a builtin scalar
// family, List/Box, or a user-declared alias/algebraic type.
func (c *Checker) applyType(ty *ast.TypeApplyAnno, rigids map[ident.Idx]types.Var, rank types.Rank) types.Var {
	name := c.idents.Text(ty.Name)

	switch name {
	case "Str":
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatStr})

	case "Bool":
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNominal, Nom: types.Nominal{Ident: ty.Name}})

	case "List":
		if len(ty.Args) == 0 {
			return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatListUnbound})
		}
		elem := c.typeFromAnno(ty.Args[0], rigids, rank)
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatList, Elem: elem})

	case "Box":
		if len(ty.Args) == 0 {
			return c.store.Fresh(rank)
		}
		elem := c.typeFromAnno(ty.Args[0], rigids, rank)
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatBox, Elem: elem})

	case "Num":
		if prec, ok := c.precisionArg(ty); ok {
			if prec.IsInteger() {
				return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.IntPrecision, Precision: prec}})
			}
			return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.FracPrecision, Precision: prec}})
		}
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.NumUnbound}})

	case "Int":
		if prec, ok := c.precisionArg(ty); ok && prec.IsInteger() {
			return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.IntPrecision, Precision: prec}})
		}
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.IntUnbound}})

	case "Frac":
		if prec, ok := c.precisionArg(ty); ok && !prec.IsInteger() {
			return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.FracPrecision, Precision: prec}})
		}
		return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNum, Num: types.Num{Kind: types.FracUnbound}})
	}

	return c.expandNamed(ty, rigids, rank)
}

// precisionArg recognizes a bare precision marker type (I8, F64, Dec,
// …) given as Int/Frac/Num's sole type argument.
func (c *Checker) precisionArg(ty *ast.TypeApplyAnno) (types.Precision, bool) {
	if len(ty.Args) != 1 {
		return "", false
	}
	apply, ok := c.file.Type(ty.Args[0]).(*ast.TypeApplyAnno)
	if !ok {
		return "", false
	}
	switch c.idents.Text(apply.Name) {
	case "I8":
		return types.PrecI8, true
	case "I16":
		return types.PrecI16, true
	case "I32":
		return types.PrecI32, true
	case "I64":
		return types.PrecI64, true
	case "I128":
		return types.PrecI128, true
	case "U8":
		return types.PrecU8, true
	case "U16":
		return types.PrecU16, true
	case "U32":
		return types.PrecU32, true
	case "U64":
		return types.PrecU64, true
	case "U128":
		return types.PrecU128, true
	case "F32":
		return types.PrecF32, true
	case "F64":
		return types.PrecF64, true
	case "Dec":
		return types.PrecDec, true
	}
	return "", false
}

// expandNamed resolves a reference to a user-declared alias or
// algebraic type, substituting the declaration's own type parameters
// for the application's argument vars.
func (c *Checker) expandNamed(ty *ast.TypeApplyAnno, rigids map[ident.Idx]types.Var, rank types.Rank) types.Var {
	def, ok := c.typeDefs[ty.Name]
	if !ok {
		// Already flagged undeclared_type during canonicalization.
		return c.errVar(rank)
	}
	if len(ty.Args) != len(def.params) {
		c.errorf(ty, "type_arity_mismatch", "type "+c.idents.Text(ty.Name)+" expects "+strconv.Itoa(len(def.params))+" argument(s)")
		return c.errVar(rank)
	}

	args := make([]types.Var, len(ty.Args))
	for i, a := range ty.Args {
		args[i] = c.typeFromAnno(a, rigids, rank)
	}

	// The declaration's own parameters substitute directly to this
	// call site's argument vars within the expansion — reusing
	// typeFromAnno's TypeVarAnno case by seeding a fresh local frame.
	local := make(map[ident.Idx]types.Var, len(def.params))
	for i, p := range def.params {
		local[p] = args[i]
	}

	if def.isAlias {
		backing := c.typeFromAnno(def.aliasTarget, local, rank)
		v := c.store.Fresh(rank)
		c.store.SetDesc(v, types.Desc{Kind: types.Alias, Rank: rank, Nom: types.Nominal{Ident: ty.Name, Args: args, Backing: backing}})
		return v
	}

	tags := make([]types.Tag, len(def.ctors))
	for i, ctor := range def.ctors {
		cargs := make([]types.Var, len(ctor.Fields))
		for j, f := range ctor.Fields {
			cargs[j] = c.typeFromAnno(f, local, rank)
		}
		tags[i] = types.Tag{Name: ctor.Name, Args: cargs}
	}
	backing := c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatTagUnion, Tags: tags})
	return c.store.FreshStructure(rank, types.FlatType{Kind: types.FlatNominal, Nom: types.Nominal{Ident: ty.Name, Args: args, Backing: backing}})
}
