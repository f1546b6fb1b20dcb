package typesystem

// Scheme is a type generalized over some of its variables (let-polymorphism).
type Scheme struct {
	Vars []TVar
	Type Type
}

// Mono wraps a type without quantified variables.
func Mono(t Type) Scheme {
	return Scheme{Type: t}
}

// Generalize quantifies the variables of t that are not free in env.
func (s *Store) Generalize(t Type, env []Type) Scheme {
	t = s.Resolve(t)
	fixed := map[int]bool{}
	for _, e := range env {
		for _, v := range s.FreeVariables(e) {
			fixed[v.ID] = true
		}
	}
	var vars []TVar
	for _, v := range s.FreeVariables(t) {
		if !fixed[v.ID] {
			vars = append(vars, v)
		}
	}
	return Scheme{Vars: vars, Type: t}
}

// InstantiateScheme gives every quantified variable a fresh identity.
func (s *Store) InstantiateScheme(sc Scheme) Type {
	if len(sc.Vars) == 0 {
		return sc.Type
	}
	subst := Subst{}
	for _, v := range sc.Vars {
		subst[v.Key()] = s.FreshClass(s.ClassOf(v), v.Name)
	}
	return s.Resolve(sc.Type).Apply(subst)
}
