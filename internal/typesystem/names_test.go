package typesystem

import (
	"strings"
	"testing"
)

func TestFormatType(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{Int, "Int"},
		{Unit, "()"},
		{nil, "unknown"},
		{List(Maybe(Int)), "List (Maybe Int)"},
		{Result(String, List(Int)), "Result String (List Int)"},
		{Func(Bool, Int, String), "Int -> String -> Bool"},
		{Func(Int, Func(Int, Int)), "(Int -> Int) -> Int"},
		{Func(Func(Int, Int), Int), "Int -> (Int -> Int)"},
		{List(Func(Int, Int)), "List (Int -> Int)"},
		{TTuple{Elements: []Type{Int, String}}, "( Int, String )"},
		{TRecord{}, "{}"},
		{TRecord{Fields: []Field{{Name: "x", Type: Float}, {Name: "y", Type: Float}}}, "{ x : Float, y : Float }"},
		{Named("Json.Decode", "Decoder", Var("a")), "Json.Decode.Decoder a"},
		{Func(Var("msg"), Var("model"), Var("msg")), "model -> msg -> msg"},
	}
	for _, tt := range tests {
		if got := FormatType(tt.typ); got != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, got)
		}
	}
}

func TestNamerIsStable(t *testing.T) {
	s := NewStore(40)
	a := s.Fresh("")
	b := s.Fresh("")
	typ := Func(b, a, List(b))
	first := FormatType(typ)
	if first != "a -> List b -> b" {
		t.Fatalf("unexpected format %s", first)
	}
	for i := 0; i < 5; i++ {
		if got := FormatType(typ); got != first {
			t.Errorf("run %d: expected %s, got %s", i, first, got)
		}
	}
}

func TestNamerAvoidsReservedNames(t *testing.T) {
	s := NewStore(0)
	engine := s.Fresh("")
	// The caller-named "a" claims its name before the engine variable does,
	// even though the engine variable is printed first.
	typ := Func(Var("a"), engine)
	if got := FormatType(typ); got != "b -> a" {
		t.Errorf("expected b -> a, got %s", got)
	}
}

func TestFormatKeywordFieldName(t *testing.T) {
	typ := TRecord{Fields: []Field{{Name: "type", Type: Int}, {Name: "name", Type: String}}}
	if got := FormatType(typ); got != "{ type_ : Int, name : String }" {
		t.Errorf("unexpected format %s", got)
	}
}

func TestNamerClassNames(t *testing.T) {
	s := NewStore(0)
	n1 := s.FreshClass(ClassNumber, "")
	n2 := s.FreshClass(ClassNumber, "")
	c := s.FreshClass(ClassComparable, "")
	typ := Func(Bool, n1, n2, c)
	if got := FormatType(typ); got != "number -> number1 -> comparable -> Bool" {
		t.Errorf("unexpected format %s", got)
	}
}

func TestNamerHints(t *testing.T) {
	s := NewStore(0)
	model := s.Fresh("model")
	clash := s.Fresh("model")
	keyword := s.Fresh("case")
	typ := Func(model, model, clash, keyword)
	if got := FormatType(typ); got != "model -> model1 -> a -> model" {
		t.Errorf("unexpected format %s", got)
	}
}

func TestFormatError(t *testing.T) {
	s := NewStore(0)
	_, err := s.Unify(Func(Int, Int), Func(Int, String))
	msg := FormatError(err.(InferenceError))
	if !strings.Contains(msg, "argument 1") || !strings.Contains(msg, "`Int`") || !strings.Contains(msg, "`String`") {
		t.Errorf("unexpected message %q", msg)
	}

	msg = FormatError(&ArityMismatch{Expected: 1, Found: 2, Context: "function `f`"})
	if msg != "Function `f` expects 1 argument, but it got 2." {
		t.Errorf("unexpected message %q", msg)
	}

	msg = FormatError(&UnboundRecordField{Field: "age", Record: TRecord{Fields: []Field{{Name: "name", Type: String}}}})
	if msg != "The record `{ name : String }` does not have a `age` field." {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestErrorList(t *testing.T) {
	list := ErrorList{
		&UnknownConstructor{Name: "Foo"},
		&ArityMismatch{Expected: 1, Found: 0},
	}
	if got := list.Error(); got != "unknown constructor Foo; application expects 1 argument(s), found 0" {
		t.Errorf("unexpected message %q", got)
	}
}
