package typesystem

import (
	"github.com/funvibe/gencode/internal/config"
	"strings"
)

// Variant is one constructor of a union type.
type Variant struct {
	Name string
	Args []Type
}

// Union describes a custom type and its constructors. Params are the names of
// the type parameters; constructor argument types refer to them as named
// variables.
type Union struct {
	Module   []string
	Name     string
	Params   []string
	Variants []Variant
}

// QualifiedName returns Module.Name, or just Name for built-in types.
func (u *Union) QualifiedName() string {
	if len(u.Module) == 0 {
		return u.Name
	}
	return strings.Join(u.Module, ".") + "." + u.Name
}

// Variant looks up a constructor by name.
func (u *Union) Variant(name string) (Variant, bool) {
	for _, v := range u.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Type returns the union applied to its parameters as named variables.
func (u *Union) Type() Type {
	if len(u.Module) == 0 && len(u.Params) == 0 {
		switch u.Name {
		case config.BoolTypeName, config.StringTypeName, config.IntTypeName, config.FloatTypeName, config.CharTypeName:
			return TCon{Name: u.Name}
		}
	}
	args := make([]Type, len(u.Params))
	for i, p := range u.Params {
		args[i] = Var(p)
	}
	return TNamed{Module: u.Module, Name: u.Name, Args: args}
}

// BuiltinUnions are the custom types every module of the target language can
// match on without an import.
var BuiltinUnions = []*Union{
	{
		Name: config.BoolTypeName,
		Variants: []Variant{
			{Name: config.TrueCtorName},
			{Name: config.FalseCtorName},
		},
	},
	{
		Name:   config.MaybeTypeName,
		Params: []string{"a"},
		Variants: []Variant{
			{Name: config.JustCtorName, Args: []Type{Var("a")}},
			{Name: config.NothingCtorName},
		},
	},
	{
		Name:   config.ResultTypeName,
		Params: []string{"error", "value"},
		Variants: []Variant{
			{Name: config.OkCtorName, Args: []Type{Var("value")}},
			{Name: config.ErrCtorName, Args: []Type{Var("error")}},
		},
	},
	{
		Name: config.OrderTypeName,
		Variants: []Variant{
			{Name: "LT"},
			{Name: "EQ"},
			{Name: "GT"},
		},
	},
}

// ConstructorType returns the type of a constructor used as a value:
// Just : a -> Maybe a, Nothing : Maybe a.
func (u *Union) ConstructorType(v Variant) Type {
	if len(v.Args) == 0 {
		return u.Type()
	}
	return TFunc{Params: v.Args, ReturnType: u.Type()}
}
