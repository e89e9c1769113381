package types

// Instantiate copies the type graph rooted at v, replacing every
// rigid or still-generalizable flex var with a fresh one at rank r,
// sharing the substitution across the walk so two uses of the same
// type variable inside a polymorphic scheme refer to the same fresh
// var after instantiation (e.g. `a -> a` instantiates to `t7 -> t7`,
// never `t7 -> t8`).
func (s *Store) Instantiate(v Var, r Rank) Var {
	sub := make(map[Var]Var)
	return s.instantiate(v, r, sub)
}

func (s *Store) instantiate(v Var, r Rank, sub map[Var]Var) Var {
	if v == NoVar {
		return NoVar
	}
	root := s.Resolve(v)
	if fresh, ok := sub[root]; ok {
		return fresh
	}
	d := s.descs[root]

	switch d.Kind {
	case FlexVar, RigidVar:
		fresh := s.Fresh(r)
		sub[root] = fresh
		return fresh

	case Err:
		fresh := s.Fresh(r)
		s.descs[fresh] = Desc{Kind: Err}
		sub[root] = fresh
		return fresh

	case Alias:
		fresh := s.Fresh(r)
		sub[root] = fresh
		args := make([]Var, len(d.Nom.Args))
		for i, a := range d.Nom.Args {
			args[i] = s.instantiate(a, r, sub)
		}
		backing := s.instantiate(d.Nom.Backing, r, sub)
		s.descs[fresh] = Desc{Kind: Alias, Nom: Nominal{Ident: d.Nom.Ident, Args: args, Backing: backing, Origin: d.Nom.Origin}}
		return fresh

	case Structure:
		fresh := s.Fresh(r)
		sub[root] = fresh
		s.descs[fresh] = Desc{Kind: Structure, Flat: s.instantiateFlat(d.Flat, r, sub)}
		return fresh
	}
	return root
}

func (s *Store) instantiateFlat(f FlatType, r Rank, sub map[Var]Var) FlatType {
	out := FlatType{Kind: f.Kind, Num: f.Num}

	if f.Elem != NoVar {
		out.Elem = s.instantiate(f.Elem, r, sub)
	}
	if f.Elems != nil {
		out.Elems = make([]Var, len(f.Elems))
		for i, e := range f.Elems {
			out.Elems[i] = s.instantiate(e, r, sub)
		}
	}
	if f.Fields != nil {
		out.Fields = make([]Field, len(f.Fields))
		for i, fl := range f.Fields {
			out.Fields[i] = Field{Name: fl.Name, Type: s.instantiate(fl.Type, r, sub)}
		}
	}
	if f.Ext != NoVar {
		out.Ext = s.instantiate(f.Ext, r, sub)
	} else {
		out.Ext = NoVar
	}
	if f.Tags != nil {
		out.Tags = make([]Tag, len(f.Tags))
		for i, t := range f.Tags {
			args := make([]Var, len(t.Args))
			for j, a := range t.Args {
				args[j] = s.instantiate(a, r, sub)
			}
			out.Tags[i] = Tag{Name: t.Name, Args: args}
		}
	}
	if isFnKind(f.Kind) {
		params := make([]Var, len(f.Fn.Params))
		for i, p := range f.Fn.Params {
			params[i] = s.instantiate(p, r, sub)
		}
		out.Fn = Func{Params: params, Ret: s.instantiate(f.Fn.Ret, r, sub)}
	}
	if f.Kind == FlatNominal {
		args := make([]Var, len(f.Nom.Args))
		for i, a := range f.Nom.Args {
			args[i] = s.instantiate(a, r, sub)
		}
		out.Nom = Nominal{Ident: f.Nom.Ident, Args: args, Backing: s.instantiate(f.Nom.Backing, r, sub), Origin: f.Nom.Origin}
	}
	return out
}
