package canon

import (
	"github.com/sunholo/lumen/internal/ast"
	"github.com/sunholo/lumen/internal/cir"
	"github.com/sunholo/lumen/internal/diagnostic"
	"github.com/sunholo/lumen/internal/ident"
	"github.com/sunholo/lumen/internal/region"
)

// builtinTypeNames are declared into every module's type scope before
// canonicalization begins, so annotations referencing them never
// trip undeclared_type.
var builtinTypeNames = []string{
	"Str", "Int", "Frac", "Num", "Bool", "List", "Box",
	"I8", "I16", "I32", "I64", "I128",
	"U8", "U16", "U32", "U64", "U128",
	"F32", "F64", "Dec",
}

type Canonicalizer struct {
	file  *ast.File
	mod   *cir.Module
	diags *diagnostic.Bag
	scope *Scope

	// declPattern maps an ast.PatternIdx (identifier patterns only) to
	// the cir.PatternIdx already allocated for it, so a later reference
	// to the same surface binder resolves to the same CIR binder
	// instead of minting a duplicate.
	declPattern map[ast.PatternIdx]cir.PatternIdx

	// ctorType/typeCtors record which algebraic type each constructor
	// belongs to, and that type's full constructor set in declaration
	// order. Used by canon_match.go to decide match-exhaustiveness
	// without waiting for the checker to resolve the scrutinee's type.
	ctorType  map[ident.Idx]ident.Idx
	typeCtors map[ident.Idx][]ident.Idx
}

func New(file *ast.File, diags *diagnostic.Bag) *Canonicalizer {
	return &Canonicalizer{
		file:        file,
		mod:         cir.NewModule(file),
		diags:       diags,
		scope:       NewScope(nil),
		declPattern: make(map[ast.PatternIdx]cir.PatternIdx),
		ctorType:    make(map[ident.Idx]ident.Idx),
		typeCtors:   make(map[ident.Idx][]ident.Idx),
	}
}

// regioned is satisfied by every ast node family (Expr/Pattern/Stmt/
// TypeAnno all expose Region()), letting errorf/warnf accept any of
// them without per-family overloads.
type regioned interface {
	Region() region.Region
}

func (c *Canonicalizer) errorf(r regioned, code, msg string) {
	c.diags.Add(diagnostic.New(diagnostic.PhaseCanon, diagnostic.Error, code, msg, r.Region()))
}

func (c *Canonicalizer) warnf(r regioned, code, msg string) {
	c.diags.Add(diagnostic.New(diagnostic.PhaseCanon, diagnostic.Warning, code, msg, r.Region()))
}

// Canonicalize runs the full AST->CIR lowering for the file passed to
// New and returns the resulting Module.
func (c *Canonicalizer) Canonicalize() *cir.Module {
	for _, name := range builtinTypeNames {
		c.scope.Declare(c.file.Idents.Intern(name), KindType, 0)
	}

	c.canonImportsAndTypes()
	c.declareTopLevelPatterns()
	c.canonTopLevelDefs()
	c.validateExposes()

	return c.mod
}

// canonImportsAndTypes does a first pass over top-level statements
// that only introduces names (imports' exposed bindings, and every
// type/constructor name), so forward references across the file's
// decls all resolve regardless of source order.
func (c *Canonicalizer) canonImportsAndTypes() {
	for _, sidx := range c.file.TopLevel {
		switch stmt := c.file.Stmt(sidx).(type) {
		case *ast.ImportStmt:
			modIdx := c.file.Idents.Intern(stmt.ModulePath)
			for _, name := range stmt.Exposing {
				c.declareExternal(name, modIdx, KindValue, stmt)
			}
		case *ast.TypeDeclStmt:
			if _, ok, isDup := c.declare(stmt.Name, KindType, 0); isDup {
				c.errorf(stmt, "type_redeclared", "type "+c.file.Idents.Text(stmt.Name)+" is already declared")
			} else if !ok {
				c.warnf(stmt, "shadowing_warning", "type "+c.file.Idents.Text(stmt.Name)+" shadows an outer declaration")
			}
			c.declareConstructors(stmt.Name, stmt.Definition)
		}
	}
}

func (c *Canonicalizer) declareConstructors(typeName ident.Idx, t ast.TypeIdx) {
	if t == ast.InvalidTypeIdx {
		return
	}
	alg, ok := c.file.Type(t).(*ast.AlgebraicTypeAnno)
	if !ok {
		return
	}
	ctors := make([]ident.Idx, len(alg.Constructors))
	for i, ctor := range alg.Constructors {
		c.declare(ctor.Name, KindConstructor, 0)
		c.ctorType[ctor.Name] = typeName
		ctors[i] = ctor.Name
	}
	c.typeCtors[typeName] = ctors
}

// declare wraps Scope.Declare, returning isDup when the SAME scope
// level already has this (name, kind) and ok=false for any other
// result (including a legitimate shadow of an outer scope, where
// shadowed=true, ok=true).
func (c *Canonicalizer) declare(name ident.Idx, kind Kind, pattern int32) (shadowed, ok, isDup bool) {
	shadowed, declared := c.scope.Declare(name, kind, pattern)
	return shadowed, declared && !shadowed, !declared
}

func (c *Canonicalizer) declareExternal(name ident.Idx, modIdx ident.Idx, kind Kind, stmt *ast.ImportStmt) {
	key := nameKey{name, kind}
	if _, exists := c.scope.names[key]; exists {
		c.errorf(stmt, "ident_already_in_scope", "name "+c.file.Idents.Text(name)+" is already in scope")
		return
	}
	c.scope.names[key] = binding{name: name, kind: kind, isExternal: true, externalModule: modIdx}
}

// declareTopLevelPatterns introduces every top-level DeclStmt's
// pattern into the root scope BEFORE any def's body is canonicalized,
// per spec.md Invariant 6 ("a def.pattern is introduced into scope
// before def.expr is checked, enabling recursion").
func (c *Canonicalizer) declareTopLevelPatterns() {
	for _, sidx := range c.file.TopLevel {
		decl, ok := c.file.Stmt(sidx).(*ast.DeclStmt)
		if !ok || decl.Kind != ast.DeclLet {
			continue
		}
		c.predeclarePattern(decl.Pattern)
	}
}

// predeclarePattern walks a pattern shape introducing any identifier
// binders it contains, allocating their CIR PatternIdx up front so
// canonImportsAndTypes-style forward reference works for values too.
func (c *Canonicalizer) predeclarePattern(idx ast.PatternIdx) {
	if idx == ast.InvalidPatternIdx {
		return
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
	case *ast.TuplePattern:
		for _, e := range p.Elements {
			c.predeclarePattern(e)
		}
	case *ast.RecordPattern:
		for _, f := range p.Fields {
			if f.Kind == ast.FieldSubPattern {
				c.predeclarePattern(f.Pattern)
			} else {
				cidx := c.mod.NewPattern(&cir.IdentPattern{Base: cir.Base{R: p.R}, Name: f.Name})
				c.declPattern[idx] = cidx
				c.declare(f.Name, KindValue, int32(cidx))
			}
		}
	case *ast.ListPattern:
		for _, e := range p.Elements {
			c.predeclarePattern(e)
		}
		if p.Rest != nil && *p.Rest != ast.InvalidPatternIdx {
			c.predeclarePattern(*p.Rest)
		}
	case *ast.AsPattern:
		c.predeclarePattern(p.Inner)
		cidx := c.mod.NewPattern(&cir.IdentPattern{Base: cir.Base{R: p.R}, Name: p.Name})
		c.declPattern[idx] = cidx
		c.declare(p.Name, KindValue, int32(cidx))
	}
}

func (c *Canonicalizer) canonTopLevelDefs() {
	for _, sidx := range c.file.TopLevel {
		switch stmt := c.file.Stmt(sidx).(type) {
		case *ast.DeclStmt:
			c.canonDeclStmt(stmt)
		case *ast.ImportStmt, *ast.TypeDeclStmt, *ast.TypeAnnoStmt:
			// Already handled (imports/types) or pure annotation
			// bookkeeping with nothing to lower on its own.
			c.validateTypeAnnoStmt(stmt)
		case *ast.ExpectStmt:
			c.mod.TopLevel = append(c.mod.TopLevel, c.mod.NewDef(cir.Def{
				Pattern:       cir.InvalidPatternIdx,
				Expr:          c.canonExpr(stmt.Expr),
				PatternRegion: stmt.R,
				ExprRegion:    stmt.R,
				Annotation:    ast.InvalidTypeIdx,
				Kind:          cir.DefStmtFx,
			}))
		case *ast.MalformedStmt:
			c.errorf(stmt, "invalid_top_level_statement", stmt.Reason)
		}
	}
}

func (c *Canonicalizer) validateTypeAnnoStmt(stmt ast.Stmt) {
	anno, ok := stmt.(*ast.TypeAnnoStmt)
	if !ok {
		return
	}
	c.validateTypeRefs(anno.Anno)
}

func (c *Canonicalizer) canonDeclStmt(stmt *ast.DeclStmt) {
	if stmt.Annotation != ast.InvalidTypeIdx {
		c.validateTypeRefs(stmt.Annotation)
	}

	var patIdx cir.PatternIdx
	if cached, ok := c.declPattern[stmt.Pattern]; ok {
		patIdx = cached
	} else {
		patIdx = c.canonPattern(stmt.Pattern)
	}

	exprIdx := c.canonExpr(stmt.Expr)

	kind := cir.DefLet
	switch stmt.Kind {
	case ast.DeclStmtFx:
		kind = cir.DefStmtFx
	case ast.DeclIgnoredFx:
		kind = cir.DefIgnoredFx
	}

	c.mod.TopLevel = append(c.mod.TopLevel, c.mod.NewDef(cir.Def{
		Pattern:       patIdx,
		PatternRegion: stmt.R,
		Expr:          exprIdx,
		ExprRegion:    stmt.R,
		Annotation:    stmt.Annotation,
		Kind:          kind,
	}))
}

// validateExposes checks the header's exposed-name list (if any)
// against what was actually declared at top level.
func (c *Canonicalizer) validateExposes() {
	if c.file.Header == ast.InvalidHeaderIdx {
		return
	}
	var exposes []ident.Idx
	switch h := c.file.HeaderAt(c.file.Header).(type) {
	case *ast.ModuleHeader:
		exposes = h.Exposes
	case *ast.PackageHeader:
		exposes = h.Exposes
	case *ast.PlatformHeader:
		exposes = h.Exposes
	case *ast.HostedHeader:
		exposes = h.Exposes
	default:
		return
	}

	// The header grammar carries no Region of its own; exposes
	// diagnostics anchor to the zero region rather than fabricating one.
	zero := region.Zero

	seen := make(map[ident.Idx]bool, len(exposes))
	for _, name := range exposes {
		if seen[name] {
			c.diags.Add(diagnostic.New(diagnostic.PhaseCanon, diagnostic.Error, "redundant_exposed", "name "+c.file.Idents.Text(name)+" is exposed more than once", zero))
			continue
		}
		seen[name] = true
		if _, ok := c.scope.Resolve(name, KindValue); !ok {
			if _, ok := c.scope.Resolve(name, KindType); !ok {
				c.diags.Add(diagnostic.New(diagnostic.PhaseCanon, diagnostic.Error, "exposed_but_not_implemented", "exposed name "+c.file.Idents.Text(name)+" has no matching top-level definition", zero))
			}
		}
	}
}
