package typesystem

import (
	"fmt"
	"github.com/funvibe/gencode/internal/config"
	"strings"
)

// Unify makes t1 and t2 equal by binding variables in the store and returns
// the resolved unified type.
//
// t1 is the expected side: arity errors report its arity as Expected.
// Unification is transactional: if it fails, every binding made during the
// attempt is rolled back before the error is returned.
func (s *Store) Unify(t1, t2 Type) (Type, error) {
	mark := s.Mark()
	if err := s.unifyInternal(t1, t2); err != nil {
		s.Rollback(mark)
		return nil, err
	}
	return s.Resolve(t1), nil
}

func (s *Store) unifyInternal(t1, t2 Type) error {
	t1 = s.Find(t1)
	t2 = s.Find(t2)

	if v1, ok := t1.(TVar); ok && !v1.IsNamed() {
		return s.bindVar(v1, t2)
	}
	if v2, ok := t2.(TVar); ok && !v2.IsNamed() {
		return s.bindVar(v2, t1)
	}

	switch t1 := t1.(type) {
	case TVar:
		// Caller-named variable that escaped instantiation: rigid.
		if t2, ok := t2.(TVar); ok && t2.Name == t1.Name {
			return nil
		}
		return s.errUnify(t1, t2, "")
	case TUnit:
		if _, ok := t2.(TUnit); ok {
			return nil
		}
		return s.errUnify(t1, t2, "")
	case TCon:
		if t2, ok := t2.(TCon); ok && t2.Name == t1.Name {
			return nil
		}
		return s.errUnify(t1, t2, "")
	case TNamed:
		t2Named, ok := t2.(TNamed)
		if !ok || !t1.SameConstructor(t2Named) {
			return s.errUnify(t1, t2, "")
		}
		if len(t1.Args) != len(t2Named.Args) {
			return &ArityMismatch{
				Expected: len(t1.Args),
				Found:    len(t2Named.Args),
				Context:  fmt.Sprintf("type %s", t1.QualifiedName()),
			}
		}
		for i := range t1.Args {
			if err := s.unifyInternal(t1.Args[i], t2Named.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case TTuple:
		t2Tuple, ok := t2.(TTuple)
		if !ok {
			return s.errUnify(t1, t2, "")
		}
		if len(t1.Elements) != len(t2Tuple.Elements) {
			return s.errUnify(t1, t2, fmt.Sprintf("tuple sizes differ: %d vs %d", len(t1.Elements), len(t2Tuple.Elements)))
		}
		for i := range t1.Elements {
			if err := s.unifyInternal(t1.Elements[i], t2Tuple.Elements[i]); err != nil {
				return WithContext(err, fmt.Sprintf("tuple element %d", i+1))
			}
		}
		return nil
	case TFunc:
		t2Func, ok := t2.(TFunc)
		if !ok {
			return s.errUnify(t1, t2, "")
		}
		if len(t1.Params) != len(t2Func.Params) {
			return &ArityMismatch{Expected: len(t1.Params), Found: len(t2Func.Params), Context: "function"}
		}
		for i := range t1.Params {
			if err := s.unifyInternal(t1.Params[i], t2Func.Params[i]); err != nil {
				return WithContext(err, fmt.Sprintf("argument %d", i+1))
			}
		}
		if err := s.unifyInternal(t1.ReturnType, t2Func.ReturnType); err != nil {
			return WithContext(err, "return type")
		}
		return nil
	case TRecord:
		t2Record, ok := t2.(TRecord)
		if !ok {
			return s.errUnify(t1, t2, "")
		}
		return s.unifyRecords(t1, t2Record)
	default:
		return s.errUnify(t1, t2, fmt.Sprintf("unknown type kind %T", t1))
	}
}

// unifyRecords implements extensible-record unification. Common fields unify
// pairwise; fields present on only one side are pushed into the other side's
// row variable. A closed record missing a field is an error.
func (s *Store) unifyRecords(r1, r2 TRecord) error {
	r1 = s.flatten(r1)
	r2 = s.flatten(r2)

	var extra1, extra2 []Field
	for _, f := range r1.Fields {
		t2, ok := r2.Field(f.Name)
		if !ok {
			extra1 = append(extra1, f)
			continue
		}
		if err := s.unifyInternal(f.Type, t2); err != nil {
			return WithContext(err, fmt.Sprintf("record field `%s`", f.Name))
		}
	}
	for _, f := range r2.Fields {
		if _, ok := r1.Field(f.Name); !ok {
			extra2 = append(extra2, f)
		}
	}

	if len(extra2) > 0 && r1.Row == nil {
		return s.errUnify(r1, r2, "missing field"+plural(len(extra2))+" "+fieldNames(extra2))
	}
	if len(extra1) > 0 && r2.Row == nil {
		return s.errUnify(r1, r2, "missing field"+plural(len(extra1))+" "+fieldNames(extra1))
	}

	switch {
	case r1.Row == nil && r2.Row == nil:
		return nil
	case r1.Row != nil && r2.Row != nil:
		if r1.Row.ID == r2.Row.ID {
			if len(extra1) > 0 || len(extra2) > 0 {
				return s.errUnify(r1, r2, "records share a row but have different fields")
			}
			return nil
		}
		if len(extra1) == 0 && len(extra2) == 0 {
			return s.unifyInternal(*r1.Row, *r2.Row)
		}
		if len(extra1) == 0 {
			return s.bindVar(*r1.Row, TRecord{Fields: extra2, Row: r2.Row})
		}
		if len(extra2) == 0 {
			return s.bindVar(*r2.Row, TRecord{Fields: extra1, Row: r1.Row})
		}
		rest := s.Fresh("")
		if err := s.bindVar(*r1.Row, TRecord{Fields: extra2, Row: &rest}); err != nil {
			return err
		}
		return s.bindVar(*r2.Row, TRecord{Fields: extra1, Row: &rest})
	case r1.Row != nil:
		return s.bindVar(*r1.Row, TRecord{Fields: extra2})
	default:
		return s.bindVar(*r2.Row, TRecord{Fields: extra1})
	}
}

// bindVar binds the unbound variable v to t, performing the occurs check and
// enforcing v's class.
func (s *Store) bindVar(v TVar, t Type) error {
	t = s.Find(t)
	if other, ok := t.(TVar); ok && !other.IsNamed() {
		if other.ID == v.ID {
			return nil
		}
		return s.link(v, other)
	}
	if s.occurs(v.ID, t) {
		return s.errUnify(v, t, "infinite type")
	}
	if class := s.classes[v.ID]; class != ClassNone {
		if err := s.constrain(t, class); err != nil {
			return s.errUnify(v, t, fmt.Sprintf("not a %s type", class))
		}
	}
	s.bind(v.ID, t)
	return nil
}

// link joins two unbound variables. The older variable (smaller ID) stays the
// representative so repeated runs pick the same names.
func (s *Store) link(a, b TVar) error {
	if b.ID < a.ID {
		a, b = b, a
	}
	merged, ok := mergeClasses(s.classes[a.ID], s.classes[b.ID])
	if !ok {
		return s.errUnify(a, b, fmt.Sprintf("%s and %s are incompatible", s.classes[a.ID], s.classes[b.ID]))
	}
	if merged != s.classes[a.ID] {
		s.setClass(a.ID, merged)
	}
	s.bind(b.ID, a)
	return nil
}

func mergeClasses(c1, c2 Class) (Class, bool) {
	switch {
	case c1 == c2:
		return c1, true
	case c1 == ClassNone:
		return c2, true
	case c2 == ClassNone:
		return c1, true
	case (c1 == ClassNumber && c2 == ClassComparable) || (c1 == ClassComparable && c2 == ClassNumber):
		return ClassNumber, true
	default:
		return ClassNone, false
	}
}

// constrain checks that t can belong to class, pushing the class down onto
// unbound variables where the class is structural (List comparable).
func (s *Store) constrain(t Type, class Class) error {
	t = s.Find(t)
	if v, ok := t.(TVar); ok && !v.IsNamed() {
		merged, ok := mergeClasses(s.classes[v.ID], class)
		if !ok {
			return fmt.Errorf("%s is not %s", v, class)
		}
		if merged != s.classes[v.ID] {
			s.setClass(v.ID, merged)
		}
		return nil
	}
	switch class {
	case ClassNumber:
		if c, ok := t.(TCon); ok && (c.Name == config.IntTypeName || c.Name == config.FloatTypeName) {
			return nil
		}
	case ClassComparable:
		switch typ := t.(type) {
		case TCon:
			if typ.Name != config.BoolTypeName {
				return nil
			}
		case TNamed:
			if len(typ.Module) == 0 && typ.Name == config.ListTypeName && len(typ.Args) == 1 {
				return s.constrain(typ.Args[0], ClassComparable)
			}
		case TTuple:
			for _, el := range typ.Elements {
				if err := s.constrain(el, ClassComparable); err != nil {
					return err
				}
			}
			return nil
		}
	case ClassAppendable:
		switch typ := t.(type) {
		case TCon:
			if typ.Name == config.StringTypeName {
				return nil
			}
		case TNamed:
			if len(typ.Module) == 0 && typ.Name == config.ListTypeName {
				return nil
			}
		}
	default:
		return nil
	}
	return fmt.Errorf("%s is not %s", t, class)
}

func (s *Store) errUnify(t1, t2 Type, reason string) error {
	return &CannotUnify{Left: s.Resolve(t1), Right: s.Resolve(t2), Reason: reason}
}

func fieldNames(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = "`" + f.Name + "`"
	}
	return strings.Join(names, ", ")
}
