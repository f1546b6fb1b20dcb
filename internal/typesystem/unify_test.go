package typesystem

import (
	"strings"
	"testing"
)

func TestUnifyBindsVariables(t *testing.T) {
	s := NewStore(0)
	a := s.Fresh("")
	got, err := s.Unify(List(a), List(Int))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatType(got) != "List Int" {
		t.Errorf("expected List Int, got %s", FormatType(got))
	}
	if FormatType(s.Resolve(a)) != "Int" {
		t.Errorf("expected a to resolve to Int, got %s", FormatType(s.Resolve(a)))
	}
}

func TestUnifyFailureRollsBack(t *testing.T) {
	s := NewStore(0)
	a := s.Fresh("")
	b := s.Fresh("")
	// The first element binds a before the second element fails.
	left := TTuple{Elements: []Type{a, b, String}}
	right := TTuple{Elements: []Type{Int, Bool, Int}}
	if _, err := s.Unify(left, right); err == nil {
		t.Fatal("expected an error")
	}
	if s.IsBound(a) || s.IsBound(b) {
		t.Error("failed unification left bindings behind")
	}
	if _, err := s.Unify(a, String); err != nil {
		t.Errorf("a should still be free: %v", err)
	}
}

func TestUnifyLinkKeepsOlderVariable(t *testing.T) {
	s := NewStore(0)
	a := s.Fresh("")
	b := s.Fresh("")
	if _, err := s.Unify(b, a); err != nil {
		t.Fatal(err)
	}
	if v, ok := s.Find(b).(TVar); !ok || v.ID != a.ID {
		t.Errorf("expected %s to be the representative, got %v", a, s.Find(b))
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	s := NewStore(0)
	a := s.Fresh("")
	_, err := s.Unify(a, List(a))
	cu, ok := err.(*CannotUnify)
	if !ok {
		t.Fatalf("expected CannotUnify, got %v", err)
	}
	if cu.Reason != "infinite type" {
		t.Errorf("unexpected reason %q", cu.Reason)
	}
}

func TestUnifyArity(t *testing.T) {
	s := NewStore(0)
	_, err := s.Unify(Func(Int, Int, Int), Func(Int, Int))
	am, ok := err.(*ArityMismatch)
	if !ok {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
	if am.Expected != 2 || am.Found != 1 {
		t.Errorf("expected 2/1, got %d/%d", am.Expected, am.Found)
	}

	_, err = s.Unify(TTuple{Elements: []Type{Int, Int}}, TTuple{Elements: []Type{Int}})
	if _, ok := err.(*CannotUnify); !ok {
		t.Errorf("tuple size mismatch should be CannotUnify, got %v", err)
	}

	_, err = s.Unify(Named("Dict", "Dict", Int), Named("Dict", "Dict", Int, Int))
	if _, ok := err.(*ArityMismatch); !ok {
		t.Errorf("expected ArityMismatch for named types, got %v", err)
	}
}

func TestUnifyClasses(t *testing.T) {
	tests := []struct {
		class Class
		typ   Type
		ok    bool
	}{
		{ClassNumber, Int, true},
		{ClassNumber, Float, true},
		{ClassNumber, String, false},
		{ClassComparable, String, true},
		{ClassComparable, Char, true},
		{ClassComparable, Bool, false},
		{ClassComparable, List(Int), true},
		{ClassComparable, List(Bool), false},
		{ClassComparable, TTuple{Elements: []Type{Int, String}}, true},
		{ClassComparable, Maybe(Int), false},
		{ClassAppendable, String, true},
		{ClassAppendable, List(Bool), true},
		{ClassAppendable, Int, false},
	}
	for _, tt := range tests {
		s := NewStore(0)
		v := s.FreshClass(tt.class, "")
		_, err := s.Unify(v, tt.typ)
		if (err == nil) != tt.ok {
			t.Errorf("%s with %s: expected ok=%v, got %v", tt.class, FormatType(tt.typ), tt.ok, err)
		}
	}
}

func TestUnifyMergesClasses(t *testing.T) {
	s := NewStore(0)
	n := s.FreshClass(ClassNumber, "")
	c := s.FreshClass(ClassComparable, "")
	if _, err := s.Unify(n, c); err != nil {
		t.Fatal(err)
	}
	if s.ClassOf(s.Find(c).(TVar)) != ClassNumber {
		t.Errorf("expected number, got %s", s.ClassOf(s.Find(c).(TVar)))
	}

	ap := s.FreshClass(ClassAppendable, "")
	if _, err := s.Unify(n, ap); err == nil {
		t.Error("number and appendable should not merge")
	}
}

func TestUnifyRecords(t *testing.T) {
	s := NewStore(0)
	row := s.Fresh("")
	open := TRecord{Fields: []Field{{Name: "name", Type: String}}, Row: &row}
	closed := TRecord{Fields: []Field{{Name: "name", Type: String}, {Name: "age", Type: Int}}}

	got, err := s.Unify(open, closed)
	if err != nil {
		t.Fatal(err)
	}
	if FormatType(got) != "{ name : String, age : Int }" {
		t.Errorf("unexpected record %s", FormatType(got))
	}

	small := TRecord{Fields: []Field{{Name: "name", Type: String}}}
	_, err = s.Unify(small, closed)
	cu, ok := err.(*CannotUnify)
	if !ok || !strings.Contains(cu.Reason, "age") {
		t.Errorf("expected missing field error, got %v", err)
	}
}

func TestUnifyOpenRecordsShareRest(t *testing.T) {
	s := NewStore(0)
	r1 := s.Fresh("")
	r2 := s.Fresh("")
	a := TRecord{Fields: []Field{{Name: "x", Type: Int}}, Row: &r1}
	b := TRecord{Fields: []Field{{Name: "y", Type: Int}}, Row: &r2}
	if _, err := s.Unify(a, b); err != nil {
		t.Fatal(err)
	}
	ra, rb := FormatType(s.Resolve(a)), FormatType(s.Resolve(b))
	if ra != "{ a | x : Int, y : Int }" {
		t.Errorf("unexpected left %s", ra)
	}
	if rb != "{ a | y : Int, x : Int }" {
		t.Errorf("unexpected right %s", rb)
	}
}

func TestUnifyErrorContext(t *testing.T) {
	s := NewStore(0)
	_, err := s.Unify(Func(Int, List(Int)), Func(Int, List(String)))
	cu, ok := err.(*CannotUnify)
	if !ok {
		t.Fatalf("expected CannotUnify, got %v", err)
	}
	if strings.Join(cu.Context, ", ") != "argument 1" {
		t.Errorf("unexpected context %v", cu.Context)
	}
}

func TestGeneralizeAndInstantiate(t *testing.T) {
	s := NewStore(0)
	a := s.Fresh("")
	fixed := s.Fresh("")
	sc := s.Generalize(Func(fixed, a), []Type{fixed})
	if len(sc.Vars) != 1 || sc.Vars[0].ID != a.ID {
		t.Fatalf("expected only %s to be quantified, got %v", a, sc.Vars)
	}
	inst := s.InstantiateScheme(sc).(TFunc)
	if v, ok := inst.Params[0].(TVar); !ok || v.ID == a.ID {
		t.Errorf("expected a fresh variable, got %v", inst.Params[0])
	}
	if v, ok := inst.ReturnType.(TVar); !ok || v.ID != fixed.ID {
		t.Errorf("expected the fixed variable to be kept, got %v", inst.ReturnType)
	}
}

func TestInstantiateSharesMapping(t *testing.T) {
	s := NewStore(5)
	mapping := map[string]TVar{}
	first := s.Instantiate(Var("a"), mapping)
	second := s.Instantiate(List(Var("a")), mapping)
	if first.(TVar).ID != second.(TNamed).Args[0].(TVar).ID {
		t.Error("the same name should map to the same variable")
	}
	if first.(TVar).ID != 6 || s.Next() != 6 {
		t.Errorf("expected ID 6 and counter 6, got %d and %d", first.(TVar).ID, s.Next())
	}
	num := s.Instantiate(Var("number"), map[string]TVar{}).(TVar)
	if c := s.ClassOf(num); c != ClassNumber {
		t.Errorf("expected number class, got %s", c)
	}
}
