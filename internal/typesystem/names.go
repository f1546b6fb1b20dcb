package typesystem

import (
	"github.com/funvibe/gencode/internal/config"
	"strconv"
	"strings"
	"unicode"
)

// Namer assigns printable names to type variables. Within one Namer the same
// variable always gets the same name and different variables get different
// names. Names are handed out in order of first appearance, so printing the
// same type twice yields the same text.
type Namer struct {
	names   map[string]string
	used    map[string]bool
	letters int
}

func NewNamer() *Namer {
	return &Namer{names: make(map[string]string), used: make(map[string]bool)}
}

// Reserve names every variable of the given types, caller-chosen names and
// hints first, so that generated letters never steal them.
func (n *Namer) Reserve(types ...Type) {
	var vars []TVar
	for _, t := range types {
		if t != nil {
			vars = append(vars, t.FreeTypeVariables()...)
		}
	}
	for _, v := range vars {
		if _, ok := n.names[v.Key()]; ok {
			continue
		}
		if v.IsNamed() || usableHint(v) {
			name := n.unique(v.Name)
			n.names[v.Key()] = name
		}
	}
	for _, v := range vars {
		n.Name(v)
	}
}

// Name returns the printable name of a variable.
func (n *Namer) Name(v TVar) string {
	if name, ok := n.names[v.Key()]; ok {
		return name
	}
	var name string
	switch {
	case v.IsNamed() || usableHint(v):
		name = n.unique(v.Name)
	case v.Class != ClassNone:
		name = n.unique(string(v.Class))
	default:
		name = n.nextLetter()
	}
	n.names[v.Key()] = name
	return name
}

func (n *Namer) unique(base string) string {
	if !n.used[base] {
		n.used[base] = true
		return base
	}
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}
}

func (n *Namer) nextLetter() string {
	for {
		round := n.letters / 26
		name := string(rune('a' + n.letters%26))
		if round > 0 {
			name += strconv.Itoa(round)
		}
		n.letters++
		if !n.used[name] && ClassOfName(name) == ClassNone {
			n.used[name] = true
			return name
		}
	}
}

// usableHint reports whether an engine variable's hint can serve as its name.
// A constrained variable only keeps a hint that starts with its class name,
// since the class is encoded in the name.
func usableHint(v TVar) bool {
	if v.IsNamed() || v.Name == "" {
		return false
	}
	if !IsLowerIdent(v.Name) || config.Keywords[v.Name] {
		return false
	}
	if v.Class != ClassNone {
		return strings.HasPrefix(v.Name, string(v.Class))
	}
	return ClassOfName(v.Name) == ClassNone
}

// IsLowerIdent reports whether s is a lowercase identifier.
func IsLowerIdent(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLower(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return s != ""
}

type formatContext int

const (
	ctxTop formatContext = iota
	ctxFuncParam
	ctxTypeArg
)

// Format renders t in the target language's type syntax.
func (n *Namer) Format(t Type) string {
	var b strings.Builder
	n.format(&b, t, ctxTop)
	return b.String()
}

// FormatArg renders t as a function parameter: function types are
// parenthesized.
func (n *Namer) FormatArg(t Type) string {
	var b strings.Builder
	n.format(&b, t, ctxFuncParam)
	return b.String()
}

func (n *Namer) format(b *strings.Builder, t Type, ctx formatContext) {
	switch typ := t.(type) {
	case nil:
		b.WriteString(config.PlaceholderTypeName)
	case TVar:
		b.WriteString(n.Name(typ))
	case TUnit:
		b.WriteString("()")
	case TCon:
		b.WriteString(typ.Name)
	case TNamed:
		parens := ctx == ctxTypeArg && len(typ.Args) > 0
		if parens {
			b.WriteString("(")
		}
		b.WriteString(typ.QualifiedName())
		for _, arg := range typ.Args {
			b.WriteString(" ")
			n.format(b, arg, ctxTypeArg)
		}
		if parens {
			b.WriteString(")")
		}
	case TFunc:
		parens := ctx != ctxTop
		if parens {
			b.WriteString("(")
		}
		for _, p := range typ.Params {
			n.format(b, p, ctxFuncParam)
			b.WriteString(" -> ")
		}
		// A function-typed result keeps its parentheses so the arity
		// survives a round trip through the parser.
		if _, ok := typ.ReturnType.(TFunc); ok {
			n.format(b, typ.ReturnType, ctxFuncParam)
		} else {
			n.format(b, typ.ReturnType, ctxTop)
		}
		if parens {
			b.WriteString(")")
		}
	case TTuple:
		b.WriteString("( ")
		for i, el := range typ.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			n.format(b, el, ctxTop)
		}
		b.WriteString(" )")
	case TRecord:
		if len(typ.Fields) == 0 && typ.Row == nil {
			b.WriteString("{}")
			return
		}
		if len(typ.Fields) == 0 {
			b.WriteString(n.Name(*typ.Row))
			return
		}
		b.WriteString("{ ")
		if typ.Row != nil {
			b.WriteString(n.Name(*typ.Row))
			b.WriteString(" | ")
		}
		for i, f := range typ.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(config.SafeName(f.Name))
			b.WriteString(" : ")
			n.format(b, f.Type, ctxTop)
		}
		b.WriteString(" }")
	default:
		b.WriteString(t.String())
	}
}

// FormatType renders a single type with a fresh Namer.
func FormatType(t Type) string {
	n := NewNamer()
	n.Reserve(t)
	return n.Format(t)
}
