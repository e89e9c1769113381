// Package ident provides content-keyed identifier interning. Two
// identifiers with the same text always resolve to the same Idx.
package ident

// Idx is a stable, dense handle into a Store. It remains valid for the
// lifetime of the owning Store; arenas never shrink.
type Idx int32

const Invalid Idx = -1

// entry records interned identifier text plus the module it was
// imported from, if any.
type entry struct {
	text   string
	origin string // originating module name, "" if locally defined
}

// Store is an append-only, content-keyed interner for identifier text.
// It is not safe for concurrent use; each ModuleEnv owns one Store.
type Store struct {
	entries []entry
	byText  map[string]Idx
}

func NewStore() *Store {
	return &Store{
		byText: make(map[string]Idx),
	}
}

// Intern returns the Idx for text, allocating a fresh one if text has
// not been seen before. At most one allocation per distinct text.
func (s *Store) Intern(text string) Idx {
	if idx, ok := s.byText[text]; ok {
		return idx
	}
	idx := Idx(len(s.entries))
	s.entries = append(s.entries, entry{text: text})
	s.byText[text] = idx
	return idx
}

// InternImported is like Intern but also records the originating
// module for a freshly allocated entry. If text was already interned
// (e.g. a same-named local shadowing an import), the existing Idx is
// returned and its origin is left untouched.
func (s *Store) InternImported(text, originModule string) Idx {
	if idx, ok := s.byText[text]; ok {
		return idx
	}
	idx := Idx(len(s.entries))
	s.entries = append(s.entries, entry{text: text, origin: originModule})
	s.byText[text] = idx
	return idx
}

// Text borrows the interned text for idx. O(1).
func (s *Store) Text(idx Idx) string {
	return s.entries[idx].text
}

// Origin returns the originating module for idx, or "" if idx was
// introduced locally.
func (s *Store) Origin(idx Idx) string {
	return s.entries[idx].origin
}

func (s *Store) Len() int { return len(s.entries) }

// Lookup returns the Idx for text if it has already been interned.
func (s *Store) Lookup(text string) (Idx, bool) {
	idx, ok := s.byText[text]
	return idx, ok
}

// image is the serializable form of a Store (see Store.Image / Load).
type image struct {
	Texts   []string `json:"texts"`
	Origins []string `json:"origins"`
}

// Image produces a compact, serializable snapshot of the store.
func (s *Store) Image() any {
	img := image{
		Texts:   make([]string, len(s.entries)),
		Origins: make([]string, len(s.entries)),
	}
	for i, e := range s.entries {
		img.Texts[i] = e.text
		img.Origins[i] = e.origin
	}
	return img
}

// Load rebuilds a Store from a snapshot produced by Image, rebinding
// indices to a fresh lookup map.
func Load(raw any) *Store {
	img, ok := raw.(image)
	if !ok {
		return NewStore()
	}
	s := &Store{
		entries: make([]entry, len(img.Texts)),
		byText:  make(map[string]Idx, len(img.Texts)),
	}
	for i, t := range img.Texts {
		s.entries[i] = entry{text: t, origin: img.Origins[i]}
		s.byText[t] = Idx(i)
	}
	return s
}
