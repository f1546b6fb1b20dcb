package typesystem

// Store holds the union-find state of one inference pass.
//
// Every binding goes through bind, which records the previous state on a trail.
// Mark/Rollback use the trail to undo a failed unification, so a failure never
// leaves variables shared with other parts of the tree half-bound.
type Store struct {
	next     int
	bindings map[int]Type
	classes  map[int]Class
	hints    map[int]string
	trail    []trailEntry
}

type trailEntry struct {
	id         int
	binding    Type
	hadBinding bool
	class      Class
	isClass    bool
}

// NewStore creates a store whose first fresh variable gets ID start+1.
func NewStore(start int) *Store {
	if start < 0 {
		start = 0
	}
	return &Store{
		next:     start,
		bindings: make(map[int]Type),
		classes:  make(map[int]Class),
		hints:    make(map[int]string),
	}
}

// Next returns the counter value to hand to the next inference pass.
func (s *Store) Next() int {
	return s.next
}

// Fresh creates an unconstrained type variable. hint is used when the variable
// is later given a printable name.
func (s *Store) Fresh(hint string) TVar {
	return s.FreshClass(ClassNone, hint)
}

// FreshClass creates a type variable restricted to the given class.
func (s *Store) FreshClass(c Class, hint string) TVar {
	s.next++
	id := s.next
	if c != ClassNone {
		s.classes[id] = c
	}
	if hint != "" {
		s.hints[id] = hint
	}
	return TVar{ID: id, Name: hint, Class: c}
}

// Mark returns a position on the trail for a later Rollback.
func (s *Store) Mark() int {
	return len(s.trail)
}

// Rollback undoes every binding and class change recorded after mark.
func (s *Store) Rollback(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		e := s.trail[i]
		if e.isClass {
			if e.class == ClassNone {
				delete(s.classes, e.id)
			} else {
				s.classes[e.id] = e.class
			}
			continue
		}
		if e.hadBinding {
			s.bindings[e.id] = e.binding
		} else {
			delete(s.bindings, e.id)
		}
	}
	s.trail = s.trail[:mark]
}

func (s *Store) bind(id int, t Type) {
	prev, had := s.bindings[id]
	s.trail = append(s.trail, trailEntry{id: id, binding: prev, hadBinding: had})
	s.bindings[id] = t
}

func (s *Store) setClass(id int, c Class) {
	s.trail = append(s.trail, trailEntry{id: id, class: s.classes[id], isClass: true})
	if c == ClassNone {
		delete(s.classes, id)
	} else {
		s.classes[id] = c
	}
}

// ClassOf returns the current class of a variable.
func (s *Store) ClassOf(v TVar) Class {
	if v.ID == 0 {
		return v.Class
	}
	return s.classes[v.ID]
}

// Find follows variable links and returns the representative: either an
// unbound variable (with its current class and hint) or a non-variable type.
// The result is shallow: nested variables are not resolved.
func (s *Store) Find(t Type) Type {
	for {
		v, ok := t.(TVar)
		if !ok || v.ID == 0 {
			return t
		}
		bound, ok := s.bindings[v.ID]
		if !ok {
			return TVar{ID: v.ID, Name: s.hints[v.ID], Class: s.classes[v.ID]}
		}
		t = bound
	}
}

// IsBound reports whether the variable has been linked or bound.
func (s *Store) IsBound(v TVar) bool {
	_, ok := s.bindings[v.ID]
	return ok
}
