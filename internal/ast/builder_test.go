package ast

import (
	"errors"
	"testing"
)

func TestConstructionErrors(t *testing.T) {
	x := Local("x")
	tests := []struct {
		name     string
		build    func() error
		expected error
	}{
		{"duplicate field", func() error {
			_, err := Record(Field("a", x), Field("a", x))
			return err
		}, ErrDuplicateField},
		{"empty update", func() error {
			_, err := Update(x)
			return err
		}, ErrEmptyUpdate},
		{"empty lambda", func() error {
			_, err := Fn(nil, Int(1))
			return err
		}, ErrEmptyLambda},
		{"empty typed lambda", func() error {
			_, err := FnTyped([]Param{}, Int(1))
			return err
		}, ErrEmptyLambda},
		{"duplicate parameter", func() error {
			_, err := Fn([]string{"a", "a"}, x)
			return err
		}, ErrDuplicateParam},
		{"empty let", func() error {
			_, err := Let(nil, x)
			return err
		}, ErrEmptyLet},
		{"duplicate binding", func() error {
			_, err := Let([]Binding{Bind("a", x), Bind("a", x)}, x)
			return err
		}, ErrDuplicateBinding},
		{"empty case", func() error {
			_, err := Case(x, nil)
			return err
		}, ErrEmptyCase},
		{"duplicate branch", func() error {
			_, err := Case(x, nil, Pattern("Just", nil, x), Pattern("Just", nil, x))
			return err
		}, ErrDuplicateBranch},
		{"branch after wildcard", func() error {
			_, err := Case(x, nil, Wildcard(x), Pattern("Just", nil, x))
			return err
		}, ErrUnreachable},
		{"unknown operator", func() error {
			_, err := Op("<=>", x, x)
			return err
		}, ErrUnknownOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.build(); !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestFnIgnoresRepeatedWildcards(t *testing.T) {
	fn, err := Fn([]string{"_", "_", "x"}, Local("x"))
	if err != nil {
		t.Fatal(err)
	}
	if len(fn.Params) != 3 {
		t.Errorf("expected 3 parameters, got %d", len(fn.Params))
	}
}
