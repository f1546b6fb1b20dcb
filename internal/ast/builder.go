package ast

import (
	"errors"
	"fmt"
	"github.com/funvibe/gencode/internal/typesystem"
)

// Construction errors. They are reported when a tree is built, never by inference.
var (
	ErrDuplicateField   = errors.New("duplicate record field")
	ErrDuplicateBranch  = errors.New("duplicate case branch")
	ErrDuplicateBinding = errors.New("duplicate let binding")
	ErrDuplicateParam   = errors.New("duplicate lambda parameter")
	ErrUnknownOperator  = errors.New("unknown operator")
	ErrEmptyUpdate      = errors.New("record update without fields")
	ErrEmptyCase        = errors.New("case expression without branches")
	ErrEmptyLet         = errors.New("let expression without bindings")
	ErrEmptyLambda      = errors.New("lambda without parameters")
	ErrUnreachable      = errors.New("case branch after catch-all")
)

func String(s string) *StringLiteral { return &StringLiteral{Value: s} }
func Int(i int64) *IntegerLiteral    { return &IntegerLiteral{Value: i} }
func Float(f float64) *FloatLiteral  { return &FloatLiteral{Value: f} }
func Bool(b bool) *BooleanLiteral    { return &BooleanLiteral{Value: b} }
func Char(r rune) *CharLiteral       { return &CharLiteral{Value: r} }
func Unit() *UnitLiteral             { return &UnitLiteral{} }

func List(elements ...Expression) *ListLiteral {
	return &ListLiteral{Elements: append([]Expression(nil), elements...)}
}

func Tuple(elements ...Expression) *TupleLiteral {
	return &TupleLiteral{Elements: append([]Expression(nil), elements...)}
}

// Field pairs a field name with its value for Record and Update.
func Field(name string, value Expression) RecordField {
	return RecordField{Name: name, Value: value}
}

// Record builds a record literal, rejecting duplicate field names.
func Record(fields ...RecordField) (*RecordLiteral, error) {
	if err := checkFields(fields); err != nil {
		return nil, err
	}
	return &RecordLiteral{Fields: append([]RecordField(nil), fields...)}, nil
}

// Update builds { base | fields }.
func Update(base Expression, fields ...RecordField) (*RecordUpdate, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}
	if err := checkFields(fields); err != nil {
		return nil, err
	}
	return &RecordUpdate{Base: base, Fields: append([]RecordField(nil), fields...)}, nil
}

func checkFields(fields []RecordField) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Fn builds a lambda with untyped parameters.
func Fn(params []string, body Expression) (*Lambda, error) {
	typed := make([]Param, len(params))
	for i, p := range params {
		typed[i] = Param{Name: p}
	}
	return FnTyped(typed, body)
}

// FnTyped builds a lambda whose parameters may carry known types.
func FnTyped(params []Param, body Expression) (*Lambda, error) {
	if len(params) == 0 {
		return nil, ErrEmptyLambda
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "_" {
			continue
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParam, p.Name)
		}
		seen[p.Name] = true
	}
	return &Lambda{Params: append([]Param(nil), params...), Body: body}, nil
}

// Apply builds fn args... keeping the argument order. With no arguments the
// application stands for fn itself.
func Apply(fn Expression, args ...Expression) *Application {
	return &Application{Function: fn, Arguments: append([]Expression(nil), args...)}
}

// Local references an unqualified name (a parameter, let binding or local value).
func Local(name string) *ValueRef {
	return &ValueRef{Name: name}
}

// Ref references a value exported by a module, e.g. Ref("Json.Decode", "string").
func Ref(module, name string) *ValueRef {
	return &ValueRef{Module: ModulePath(module), Name: name}
}

// RefTyped references an external value whose type is known.
func RefTyped(module, name string, t typesystem.Type) *ValueRef {
	return &ValueRef{Typed: Typed{Type: t}, Module: ModulePath(module), Name: name}
}

// Bind pairs a let binding name with its value.
func Bind(name string, value Expression) Binding {
	return Binding{Name: name, Value: value}
}

// Let builds a let expression, rejecting duplicate binding names.
func Let(bindings []Binding, body Expression) (*LetIn, error) {
	if len(bindings) == 0 {
		return nil, ErrEmptyLet
	}
	seen := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		if seen[b.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBinding, b.Name)
		}
		seen[b.Name] = true
	}
	return &LetIn{Bindings: append([]Binding(nil), bindings...), Body: body}, nil
}

// Pattern builds a constructor branch binding untyped variables.
func Pattern(constructor string, bindings []string, body Expression) Branch {
	pb := make([]PatternBinding, len(bindings))
	for i, name := range bindings {
		pb[i] = PatternBinding{Name: name}
	}
	return Branch{Constructor: constructor, Bindings: pb, Body: body}
}

// QualifiedPattern builds a branch on a constructor exported by another module.
func QualifiedPattern(module, constructor string, bindings []PatternBinding, body Expression) Branch {
	return Branch{Module: ModulePath(module), Constructor: constructor, Bindings: bindings, Body: body}
}

// Wildcard builds the catch-all branch _ -> body.
func Wildcard(body Expression) Branch {
	return Branch{Constructor: "_", Body: body}
}

// Case builds a case expression. Branches are kept in order; the same
// constructor may not appear twice and nothing may follow a catch-all.
func Case(subject Expression, subjectType typesystem.Type, branches ...Branch) (*CaseOf, error) {
	if len(branches) == 0 {
		return nil, ErrEmptyCase
	}
	seen := make(map[string]bool, len(branches))
	for i, b := range branches {
		if b.IsWildcard() && i != len(branches)-1 {
			return nil, ErrUnreachable
		}
		key := b.QualifiedConstructor()
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBranch, key)
		}
		seen[key] = true
		names := make(map[string]bool, len(b.Bindings))
		for _, pb := range b.Bindings {
			if pb.Name == "_" {
				continue
			}
			if names[pb.Name] {
				return nil, fmt.Errorf("%w: %s in pattern %s", ErrDuplicateBinding, pb.Name, key)
			}
			names[pb.Name] = true
		}
	}
	return &CaseOf{Subject: subject, SubjectType: subjectType, Branches: append([]Branch(nil), branches...)}, nil
}

// Op builds a binary operator application.
func Op(symbol string, left, right Expression) (*Operator, error) {
	if !IsOperator(symbol) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, symbol)
	}
	return &Operator{Symbol: symbol, Left: left, Right: right}, nil
}

// Access builds record.field.
func Access(record Expression, field string) *FieldAccess {
	return &FieldAccess{Record: record, Field: field}
}

// If builds if cond then a else b.
func If(cond, then, otherwise Expression) *IfThenElse {
	return &IfThenElse{Condition: cond, Then: then, Else: otherwise}
}

// Declare builds a top-level declaration.
func Declare(name string, expr Expression) *Declaration {
	return &Declaration{Name: name, Expr: expr}
}

// WithSignature returns a copy of the declaration with an explicit signature.
func (d *Declaration) WithSignature(t typesystem.Type) *Declaration {
	c := *d
	c.Signature = t
	return &c
}

// WithDoc returns a copy of the declaration with a documentation comment.
func (d *Declaration) WithDoc(doc string) *Declaration {
	c := *d
	c.Doc = doc
	return &c
}

// WithType returns a shallow copy of expr carrying the known type t. The
// original node is left untouched.
func WithType(expr Expression, t typesystem.Type) Expression {
	switch e := expr.(type) {
	case *StringLiteral:
		c := *e
		c.Type = t
		return &c
	case *IntegerLiteral:
		c := *e
		c.Type = t
		return &c
	case *FloatLiteral:
		c := *e
		c.Type = t
		return &c
	case *BooleanLiteral:
		c := *e
		c.Type = t
		return &c
	case *CharLiteral:
		c := *e
		c.Type = t
		return &c
	case *UnitLiteral:
		c := *e
		c.Type = t
		return &c
	case *ValueRef:
		c := *e
		c.Type = t
		return &c
	case *ListLiteral:
		c := *e
		c.Type = t
		return &c
	case *TupleLiteral:
		c := *e
		c.Type = t
		return &c
	case *RecordLiteral:
		c := *e
		c.Type = t
		return &c
	case *RecordUpdate:
		c := *e
		c.Type = t
		return &c
	case *Lambda:
		c := *e
		c.Type = t
		return &c
	case *Application:
		c := *e
		c.Type = t
		return &c
	case *LetIn:
		c := *e
		c.Type = t
		return &c
	case *CaseOf:
		c := *e
		c.Type = t
		return &c
	case *Operator:
		c := *e
		c.Type = t
		return &c
	case *FieldAccess:
		c := *e
		c.Type = t
		return &c
	case *IfThenElse:
		c := *e
		c.Type = t
		return &c
	default:
		return expr
	}
}
