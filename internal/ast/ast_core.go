package ast

import (
	"github.com/funvibe/gencode/internal/typesystem"
	"strings"
)

// Node is the base interface for all AST nodes.
type Node interface {
	Accept(v Visitor)
}

// Expression is a Node that represents an expression.
//
// Expressions are immutable once built: functions that "change" a tree return
// a new node and share the untouched children. The same node may appear in
// several trees.
type Expression interface {
	Node
	expressionNode()
	// KnownType is the type supplied by the caller for this node, or nil
	// when the type should be inferred.
	KnownType() typesystem.Type
}

// Typed carries an optional caller-supplied type. It is embedded in every expression.
type Typed struct {
	Type typesystem.Type
}

func (t Typed) KnownType() typesystem.Type { return t.Type }

// Declaration is a named top-level value.
type Declaration struct {
	Name      string
	Expr      Expression
	Signature typesystem.Type // Optional explicit signature
	Doc       string          // Optional documentation comment
}

func (d *Declaration) Accept(v Visitor) { v.VisitDeclaration(d) }

// ModulePath splits a dotted module name ("Json.Decode") into segments.
func ModulePath(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// JoinPath joins module segments with dots.
func JoinPath(parts []string) string {
	return strings.Join(parts, ".")
}

// StringLiteral represents a string literal.
type StringLiteral struct {
	Typed
	Value string
}

func (sl *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()  {}

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	Typed
	Value int64
}

func (il *IntegerLiteral) Accept(v Visitor) { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()  {}

// FloatLiteral represents a float literal.
type FloatLiteral struct {
	Typed
	Value float64
}

func (fl *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(fl) }
func (fl *FloatLiteral) expressionNode()  {}

// BooleanLiteral represents boolean literals True/False.
type BooleanLiteral struct {
	Typed
	Value bool
}

func (b *BooleanLiteral) Accept(v Visitor) { v.VisitBooleanLiteral(b) }
func (b *BooleanLiteral) expressionNode()  {}

// CharLiteral represents a character literal, e.g. 'a'.
type CharLiteral struct {
	Typed
	Value rune
}

func (cl *CharLiteral) Accept(v Visitor) { v.VisitCharLiteral(cl) }
func (cl *CharLiteral) expressionNode()  {}

// UnitLiteral represents the unit value ().
type UnitLiteral struct {
	Typed
}

func (ul *UnitLiteral) Accept(v Visitor) { v.VisitUnitLiteral(ul) }
func (ul *UnitLiteral) expressionNode()  {}

// ValueRef references a value by name. Module is empty for local or
// unqualified names; otherwise it is the module the value is imported from.
// The reference is a lookup token, never a pointer to the referenced definition.
type ValueRef struct {
	Typed
	Module []string
	Name   string
}

func (vr *ValueRef) Accept(v Visitor) { v.VisitValueRef(vr) }
func (vr *ValueRef) expressionNode()  {}

// QualifiedName returns Module.Name.
func (vr *ValueRef) QualifiedName() string {
	if len(vr.Module) == 0 {
		return vr.Name
	}
	return JoinPath(vr.Module) + "." + vr.Name
}

// File is a whole module: a header and its top-level declarations.
type File struct {
	Module string
	// Exposing lists the exported names; nil exposes everything.
	Exposing     []string
	Declarations []*Declaration
}
