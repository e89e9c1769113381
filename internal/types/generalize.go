package types

// Scheme is a generalized type: Vars lists every root that was
// quantified over at the generalizing let-boundary. Instantiate must
// be called with a fresh rank to get a usable monomorphic type back
// out of a Scheme.
type Scheme struct {
	Root Var
	Vars []Var
}

// Generalize walks the type graph rooted at v and collects every
// flex var whose Rank is strictly deeper than boundaryRank —
// per spec.md §4.5.4, vars that escaped to an outer (shallower) rank
// stay monomorphic. Collected vars are promoted to RigidVar in place
// so later uses of the un-instantiated root see them as fixed, not
// further unifiable flex vars.
func (s *Store) Generalize(v Var, boundaryRank Rank) Scheme {
	seen := make(map[Var]bool)
	var vars []Var
	s.collectGeneralizable(v, boundaryRank, seen, &vars)
	for _, fv := range vars {
		d := s.descs[s.Resolve(fv)]
		d.Kind = RigidVar
		s.descs[s.Resolve(fv)] = d
	}
	return Scheme{Root: v, Vars: vars}
}

func (s *Store) collectGeneralizable(v Var, boundary Rank, seen map[Var]bool, out *[]Var) {
	root := s.Resolve(v)
	if seen[root] {
		return
	}
	seen[root] = true
	d := s.descs[root]

	switch d.Kind {
	case FlexVar:
		if d.Rank != NoRank && d.Rank > boundary {
			*out = append(*out, root)
		}
		return
	case RigidVar, Err:
		return
	case Alias:
		for _, a := range d.Nom.Args {
			s.collectGeneralizable(a, boundary, seen, out)
		}
		if d.Nom.Backing != NoVar {
			s.collectGeneralizable(d.Nom.Backing, boundary, seen, out)
		}
		return
	case Structure:
		s.collectGeneralizableFlat(d.Flat, boundary, seen, out)
	}
}

func (s *Store) collectGeneralizableFlat(f FlatType, boundary Rank, seen map[Var]bool, out *[]Var) {
	if f.Elem != NoVar {
		s.collectGeneralizable(f.Elem, boundary, seen, out)
	}
	for _, e := range f.Elems {
		s.collectGeneralizable(e, boundary, seen, out)
	}
	for _, fl := range f.Fields {
		s.collectGeneralizable(fl.Type, boundary, seen, out)
	}
	if f.Ext != NoVar {
		s.collectGeneralizable(f.Ext, boundary, seen, out)
	}
	for _, t := range f.Tags {
		for _, a := range t.Args {
			s.collectGeneralizable(a, boundary, seen, out)
		}
	}
	if isFnKind(f.Kind) {
		for _, p := range f.Fn.Params {
			s.collectGeneralizable(p, boundary, seen, out)
		}
		s.collectGeneralizable(f.Fn.Ret, boundary, seen, out)
	}
	if f.Kind == FlatNominal {
		for _, a := range f.Nom.Args {
			s.collectGeneralizable(a, boundary, seen, out)
		}
		if f.Nom.Backing != NoVar {
			s.collectGeneralizable(f.Nom.Backing, boundary, seen, out)
		}
	}
}
