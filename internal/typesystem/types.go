package typesystem

import (
	"fmt"
	"github.com/funvibe/gencode/internal/config"
	"strconv"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
	typeNode()
}

// TVar represents a type variable.
//
// Variables created by the engine carry a positive ID handed out by a Store.
// Variables written by callers (in known types and signatures) have ID 0 and a
// Name; they are instantiated to fresh IDs at every use site.
type TVar struct {
	ID    int
	Name  string // Caller-supplied name, or a naming hint for engine variables
	Class Class
}

func (TVar) typeNode() {}

// Key identifies the variable inside a Subst.
func (t TVar) Key() string {
	if t.ID == 0 {
		return "'" + t.Name
	}
	return "t" + strconv.Itoa(t.ID)
}

// IsNamed reports whether the variable was written by a caller and has not
// been instantiated yet.
func (t TVar) IsNamed() bool { return t.ID == 0 }

func (t TVar) String() string {
	if t.ID == 0 {
		return t.Name
	}
	return "t" + strconv.Itoa(t.ID)
}

func (t TVar) Apply(s Subst) Type {
	if replacement, ok := s[t.Key()]; ok {
		return replacement
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// Class restricts which types a variable may stand for.
type Class string

const (
	ClassNone       Class = ""
	ClassNumber     Class = "number"
	ClassComparable Class = "comparable"
	ClassAppendable Class = "appendable"
)

// TUnit is the unit type ().
type TUnit struct{}

func (TUnit) typeNode()                 {}
func (TUnit) String() string            { return "()" }
func (t TUnit) Apply(Subst) Type        { return t }
func (TUnit) FreeTypeVariables() []TVar { return nil }

// TCon represents a primitive type constant (String, Int, Float, Bool, Char).
type TCon struct {
	Name string
}

func (TCon) typeNode()                 {}
func (t TCon) String() string          { return t.Name }
func (t TCon) Apply(Subst) Type        { return t }
func (TCon) FreeTypeVariables() []TVar { return nil }

// TNamed represents a named, possibly applied type (e.g. List Int, Json.Decode.Decoder a).
// Built-in types (List, Maybe, Result...) have an empty Module.
type TNamed struct {
	Module []string
	Name   string
	Args   []Type
}

func (TNamed) typeNode() {}

// QualifiedName returns Module.Name, or just Name for unqualified types.
func (t TNamed) QualifiedName() string {
	if len(t.Module) == 0 {
		return t.Name
	}
	return strings.Join(t.Module, ".") + "." + t.Name
}

func (t TNamed) String() string {
	if len(t.Args) == 0 {
		return t.QualifiedName()
	}
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("(%s %s)", t.QualifiedName(), strings.Join(args, " "))
}

func (t TNamed) Apply(s Subst) Type {
	if len(t.Args) == 0 {
		return t
	}
	newArgs := make([]Type, len(t.Args))
	for i, arg := range t.Args {
		newArgs[i] = arg.Apply(s)
	}
	return TNamed{Module: t.Module, Name: t.Name, Args: newArgs}
}

func (t TNamed) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// SameConstructor reports whether two named types refer to the same type constructor.
func (t TNamed) SameConstructor(other TNamed) bool {
	return t.QualifiedName() == other.QualifiedName()
}

// TFunc represents a function type (e.g. (Int, Int) -> Bool).
type TFunc struct {
	Params     []Type
	ReturnType Type
}

func (TFunc) typeNode() {}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.ReturnType.String())
}

func (t TFunc) Apply(s Subst) Type {
	newParams := make([]Type, len(t.Params))
	for i, p := range t.Params {
		newParams[i] = p.Apply(s)
	}
	return TFunc{Params: newParams, ReturnType: t.ReturnType.Apply(s)}
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// Field is one entry of a record type.
type Field struct {
	Name string
	Type Type
}

// TRecord represents a record type (e.g. { x : Int, y : Bool }).
// Fields keep declaration order. A non-nil Row makes the record extensible:
// { r | x : Int } stands for any record with at least the field x.
type TRecord struct {
	Fields []Field
	Row    *TVar
}

func (TRecord) typeNode() {}

// Field looks up a field type by name.
func (t TRecord) Field(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// IsOpen reports whether the record has a row variable.
func (t TRecord) IsOpen() bool { return t.Row != nil }

func (t TRecord) String() string {
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = fmt.Sprintf("%s : %s", f.Name, f.Type.String())
	}
	if t.Row != nil {
		if len(fields) == 0 {
			return fmt.Sprintf("{ %s }", t.Row.String())
		}
		return fmt.Sprintf("{ %s | %s }", t.Row.String(), strings.Join(fields, ", "))
	}
	if len(fields) == 0 {
		return "{}"
	}
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

func (t TRecord) Apply(s Subst) Type {
	newFields := make([]Field, len(t.Fields))
	for i, f := range t.Fields {
		newFields[i] = Field{Name: f.Name, Type: f.Type.Apply(s)}
	}
	if t.Row == nil {
		return TRecord{Fields: newFields}
	}
	switch row := t.Row.Apply(s).(type) {
	case TVar:
		return TRecord{Fields: newFields, Row: &row}
	case TRecord:
		// The row was replaced by a record: splice its fields in.
		return TRecord{Fields: append(newFields, row.Fields...), Row: row.Row}
	default:
		return TRecord{Fields: newFields, Row: t.Row}
	}
}

func (t TRecord) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, f := range t.Fields {
		vars = append(vars, f.Type.FreeTypeVariables()...)
	}
	if t.Row != nil {
		vars = append(vars, *t.Row)
	}
	return uniqueTVars(vars)
}

// TTuple represents a tuple type (e.g. ( Int, Bool )).
type TTuple struct {
	Elements []Type
}

func (TTuple) typeNode() {}

func (t TTuple) String() string {
	args := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		args[i] = el.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(args, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	newElems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		newElems[i] = e.Apply(s)
	}
	return TTuple{Elements: newElems}
}

func (t TTuple) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, el := range t.Elements {
		vars = append(vars, el.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// Subst is a mapping from type variable keys to types.
type Subst map[string]Type

// Constructors for the built-in types.

var (
	String = TCon{Name: config.StringTypeName}
	Int    = TCon{Name: config.IntTypeName}
	Float  = TCon{Name: config.FloatTypeName}
	Bool   = TCon{Name: config.BoolTypeName}
	Char   = TCon{Name: config.CharTypeName}
	Unit   = TUnit{}
)

func List(elem Type) TNamed {
	return TNamed{Name: config.ListTypeName, Args: []Type{elem}}
}

func Maybe(elem Type) TNamed {
	return TNamed{Name: config.MaybeTypeName, Args: []Type{elem}}
}

func Result(err, ok Type) TNamed {
	return TNamed{Name: config.ResultTypeName, Args: []Type{err, ok}}
}

// Named builds a qualified named type from a dotted module path.
func Named(module string, name string, args ...Type) TNamed {
	var mod []string
	if module != "" {
		mod = strings.Split(module, ".")
	}
	return TNamed{Module: mod, Name: name, Args: args}
}

// Func builds a function type.
func Func(ret Type, params ...Type) TFunc {
	return TFunc{Params: params, ReturnType: ret}
}

// Var builds a caller-named type variable.
func Var(name string) TVar {
	return TVar{Name: name, Class: ClassOfName(name)}
}

// ClassOfName derives the constraint class implied by a variable name
// (number, number1, comparableKey...).
func ClassOfName(name string) Class {
	for _, c := range []Class{ClassNumber, ClassComparable, ClassAppendable} {
		if strings.HasPrefix(name, string(c)) {
			return c
		}
	}
	return ClassNone
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Key()] {
			seen[v.Key()] = true
			unique = append(unique, v)
		}
	}
	return unique
}
