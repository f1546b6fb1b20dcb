package typesystem

// Resolve replaces every bound variable inside t by its binding, recursively,
// and flattens extensible records whose row has been bound to more fields.
func (s *Store) Resolve(t Type) Type {
	return s.resolve(t, make(map[int]bool))
}

func (s *Store) resolve(t Type, visiting map[int]bool) Type {
	if t == nil {
		return nil
	}
	t = s.Find(t)
	switch typ := t.(type) {
	case TVar:
		return typ
	case TNamed:
		if len(typ.Args) == 0 {
			return typ
		}
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			newArgs[i] = s.resolve(arg, visiting)
		}
		return TNamed{Module: typ.Module, Name: typ.Name, Args: newArgs}
	case TFunc:
		newParams := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			newParams[i] = s.resolve(p, visiting)
		}
		return TFunc{Params: newParams, ReturnType: s.resolve(typ.ReturnType, visiting)}
	case TTuple:
		newElements := make([]Type, len(typ.Elements))
		for i, e := range typ.Elements {
			newElements[i] = s.resolve(e, visiting)
		}
		return TTuple{Elements: newElements}
	case TRecord:
		flat := s.flatten(typ)
		newFields := make([]Field, len(flat.Fields))
		for i, f := range flat.Fields {
			newFields[i] = Field{Name: f.Name, Type: s.resolve(f.Type, visiting)}
		}
		return TRecord{Fields: newFields, Row: flat.Row}
	default:
		return t
	}
}

// flatten merges the fields contributed by bound row variables into one
// record. The returned Row, if any, is an unbound variable.
func (s *Store) flatten(r TRecord) TRecord {
	fields := append([]Field{}, r.Fields...)
	row := r.Row
	for row != nil {
		switch next := s.Find(*row).(type) {
		case TVar:
			return TRecord{Fields: fields, Row: &next}
		case TRecord:
			fields = append(fields, next.Fields...)
			row = next.Row
		default:
			return TRecord{Fields: fields}
		}
	}
	return TRecord{Fields: fields}
}

// FreeVariables returns the unbound engine variables of t in order of first
// appearance.
func (s *Store) FreeVariables(t Type) []TVar {
	vars := []TVar{}
	for _, v := range s.Resolve(t).FreeTypeVariables() {
		if v.ID != 0 {
			vars = append(vars, v)
		}
	}
	return vars
}

// occurs reports whether the variable id appears in t.
func (s *Store) occurs(id int, t Type) bool {
	for _, v := range s.Resolve(t).FreeTypeVariables() {
		if v.ID == id {
			return true
		}
	}
	return false
}

// Instantiate replaces the variables of a caller-supplied type with fresh
// variables of this store. The same variable maps to the same fresh variable
// through mapping, which may be shared across several calls (e.g. all parts
// of one signature). Variables left over from an earlier inference pass are
// treated like caller-named ones, which keeps re-inference of an annotated
// tree independent of the previous counter.
func (s *Store) Instantiate(t Type, mapping map[string]TVar) Type {
	if t == nil {
		return nil
	}
	subst := Subst{}
	for _, v := range t.FreeTypeVariables() {
		fresh, ok := mapping[v.Key()]
		if !ok {
			fresh = s.FreshClass(v.Class, v.Name)
			mapping[v.Key()] = fresh
		}
		subst[v.Key()] = fresh
	}
	if len(subst) == 0 {
		return t
	}
	return t.Apply(subst)
}
