package ast

import (
	"github.com/funvibe/gencode/internal/typesystem"
)

// ListLiteral represents a list, e.g. [ 1, 2, 3 ].
type ListLiteral struct {
	Typed
	Elements []Expression
}

func (ll *ListLiteral) Accept(v Visitor) { v.VisitListLiteral(ll) }
func (ll *ListLiteral) expressionNode()  {}

// TupleLiteral represents a tuple, e.g. ( 1, "a" ).
type TupleLiteral struct {
	Typed
	Elements []Expression
}

func (tl *TupleLiteral) Accept(v Visitor) { v.VisitTupleLiteral(tl) }
func (tl *TupleLiteral) expressionNode()  {}

// RecordField is a field assignment inside a record literal or update.
type RecordField struct {
	Name  string
	Value Expression
}

// RecordLiteral represents a record, e.g. { x = 1, y = 2 }. Field names are unique.
type RecordLiteral struct {
	Typed
	Fields []RecordField
}

func (rl *RecordLiteral) Accept(v Visitor) { v.VisitRecordLiteral(rl) }
func (rl *RecordLiteral) expressionNode()  {}

// RecordUpdate represents { base | field = value }. Only the overridden
// fields are listed.
type RecordUpdate struct {
	Typed
	Base   Expression
	Fields []RecordField
}

func (ru *RecordUpdate) Accept(v Visitor) { v.VisitRecordUpdate(ru) }
func (ru *RecordUpdate) expressionNode()  {}

// Param is a lambda parameter with an optional known type.
type Param struct {
	Name string
	Type typesystem.Type
}

// Lambda represents an anonymous function, e.g. \a b -> a + b.
type Lambda struct {
	Typed
	Params []Param
	Body   Expression
}

func (l *Lambda) Accept(v Visitor) { v.VisitLambda(l) }
func (l *Lambda) expressionNode()  {}

// ParamNames returns the parameter names in declaration order.
func (l *Lambda) ParamNames() []string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name
	}
	return names
}

// Application represents a function call, f a b c. Arguments keep the order
// in which they were supplied.
type Application struct {
	Typed
	Function  Expression
	Arguments []Expression
}

func (a *Application) Accept(v Visitor) { v.VisitApplication(a) }
func (a *Application) expressionNode()  {}

// Binding is one definition inside a let expression.
type Binding struct {
	Name  string
	Value Expression
}

// LetIn represents let bindings in body. Later bindings may refer to earlier ones.
type LetIn struct {
	Typed
	Bindings []Binding
	Body     Expression
}

func (l *LetIn) Accept(v Visitor) { v.VisitLetIn(l) }
func (l *LetIn) expressionNode()  {}

// PatternBinding is a variable bound by a constructor pattern, with an
// optional expected type. The name "_" ignores the value.
type PatternBinding struct {
	Name string
	Type typesystem.Type
}

// Branch is one arm of a case expression: Constructor bindings -> Body.
// The constructor "_" is the catch-all branch and binds nothing.
type Branch struct {
	Module      []string
	Constructor string
	Bindings    []PatternBinding
	Body        Expression
}

// IsWildcard reports whether the branch matches anything.
func (b Branch) IsWildcard() bool {
	return b.Constructor == "_"
}

// QualifiedConstructor returns Module.Constructor.
func (b Branch) QualifiedConstructor() string {
	if len(b.Module) == 0 {
		return b.Constructor
	}
	return JoinPath(b.Module) + "." + b.Constructor
}

// CaseOf represents a pattern match. SubjectType is the declared type of the
// subject; it may be nil when the caller leaves it to inference.
type CaseOf struct {
	Typed
	Subject     Expression
	SubjectType typesystem.Type
	Branches    []Branch
}

func (c *CaseOf) Accept(v Visitor) { v.VisitCaseOf(c) }
func (c *CaseOf) expressionNode()  {}

// Operator represents a binary operator application, e.g. a + b.
type Operator struct {
	Typed
	Symbol string
	Left   Expression
	Right  Expression
}

func (o *Operator) Accept(v Visitor) { v.VisitOperator(o) }
func (o *Operator) expressionNode()  {}

// FieldAccess represents record.field.
type FieldAccess struct {
	Typed
	Record Expression
	Field  string
}

func (fa *FieldAccess) Accept(v Visitor) { v.VisitFieldAccess(fa) }
func (fa *FieldAccess) expressionNode()  {}

// IfThenElse represents if c then a else b.
type IfThenElse struct {
	Typed
	Condition Expression
	Then      Expression
	Else      Expression
}

func (ie *IfThenElse) Accept(v Visitor) { v.VisitIfThenElse(ie) }
func (ie *IfThenElse) expressionNode()  {}
