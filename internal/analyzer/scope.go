package analyzer

import "github.com/funvibe/gencode/internal/typesystem"

// Scope maps local names to their type schemes. Inner scopes shadow outer ones.
type Scope struct {
	parent *Scope
	values map[string]typesystem.Scheme
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, values: make(map[string]typesystem.Scheme)}
}

// Child opens a nested scope.
func (s *Scope) Child() *Scope {
	return NewScope(s)
}

func (s *Scope) Set(name string, sc typesystem.Scheme) {
	s.values[name] = sc
}

// Lookup finds name in this scope or any enclosing one.
func (s *Scope) Lookup(name string) (typesystem.Scheme, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sc, ok := cur.values[name]; ok {
			return sc, true
		}
	}
	return typesystem.Scheme{}, false
}
