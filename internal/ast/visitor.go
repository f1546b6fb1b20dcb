package ast

// Visitor is implemented by passes that handle every node kind.
type Visitor interface {
	VisitDeclaration(*Declaration)
	VisitStringLiteral(*StringLiteral)
	VisitIntegerLiteral(*IntegerLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitBooleanLiteral(*BooleanLiteral)
	VisitCharLiteral(*CharLiteral)
	VisitUnitLiteral(*UnitLiteral)
	VisitValueRef(*ValueRef)
	VisitListLiteral(*ListLiteral)
	VisitTupleLiteral(*TupleLiteral)
	VisitRecordLiteral(*RecordLiteral)
	VisitRecordUpdate(*RecordUpdate)
	VisitLambda(*Lambda)
	VisitApplication(*Application)
	VisitLetIn(*LetIn)
	VisitCaseOf(*CaseOf)
	VisitOperator(*Operator)
	VisitFieldAccess(*FieldAccess)
	VisitIfThenElse(*IfThenElse)
}

// Inspect traverses a tree in depth-first order, calling f for each node
// before its children. If f returns false the children are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Declaration:
		Inspect(n.Expr, f)
	case *ListLiteral:
		for _, el := range n.Elements {
			Inspect(el, f)
		}
	case *TupleLiteral:
		for _, el := range n.Elements {
			Inspect(el, f)
		}
	case *RecordLiteral:
		for _, field := range n.Fields {
			Inspect(field.Value, f)
		}
	case *RecordUpdate:
		Inspect(n.Base, f)
		for _, field := range n.Fields {
			Inspect(field.Value, f)
		}
	case *Lambda:
		Inspect(n.Body, f)
	case *Application:
		Inspect(n.Function, f)
		for _, arg := range n.Arguments {
			Inspect(arg, f)
		}
	case *LetIn:
		for _, b := range n.Bindings {
			Inspect(b.Value, f)
		}
		Inspect(n.Body, f)
	case *CaseOf:
		Inspect(n.Subject, f)
		for _, b := range n.Branches {
			Inspect(b.Body, f)
		}
	case *Operator:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *FieldAccess:
		Inspect(n.Record, f)
	case *IfThenElse:
		Inspect(n.Condition, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	}
}
