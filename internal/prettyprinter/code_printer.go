package prettyprinter

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/mattn/go-runewidth"
	"math"
	"strings"
)

// --- Code Printer (Output looks like source code) ---

// CodePrinter renders expressions in elm-format layout.
//
// Every Visit method leaves the text of the visited node in p.out. The text
// of a node is relative: its first line starts wherever the parent places it
// and later lines carry indentation relative to the node's own start column.
// Parents shift child text with indent and indentTail.
type CodePrinter struct {
	lineWidth int // max line width (0 = unlimited)
	column    int // absolute column at which the visited node starts
	out       string
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{lineWidth: config.DefaultLineWidth}
}

func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{lineWidth: width}
}

func (p *CodePrinter) SetLineWidth(width int) {
	p.lineWidth = width
}

// Expression renders a single expression starting at column 0.
func (p *CodePrinter) Expression(e ast.Expression) string {
	return p.print(e, 0)
}

func (p *CodePrinter) print(e ast.Expression, column int) string {
	if e == nil {
		// Still valid source: the downstream compiler reports the hole.
		return `Debug.todo "missing expression"`
	}
	saved := p.column
	p.column = column
	e.Accept(p)
	p.column = saved
	return p.out
}

// fits reports whether s is a single line that fits the width when it
// starts at column.
func (p *CodePrinter) fits(column int, s string) bool {
	if strings.Contains(s, "\n") {
		return false
	}
	return p.lineWidth <= 0 || column+runewidth.StringWidth(s) <= p.lineWidth
}

func isMultiline(s string) bool {
	return strings.Contains(s, "\n")
}

// indent shifts every non-empty line of s by n spaces.
func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// indentTail shifts every non-empty line of s but the first by n spaces.
func indentTail(s string, n int) string {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s
	}
	return s[:i+1] + indent(s[i+1:], n)
}

// isAtomic reports whether e can stand as a function argument without
// parentheses.
func isAtomic(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.StringLiteral, *ast.CharLiteral, *ast.BooleanLiteral, *ast.UnitLiteral,
		*ast.ValueRef, *ast.ListLiteral, *ast.TupleLiteral, *ast.RecordLiteral,
		*ast.RecordUpdate, *ast.FieldAccess:
		return true
	case *ast.IntegerLiteral:
		return n.Value >= 0
	case *ast.FloatLiteral:
		return !math.Signbit(n.Value)
	default:
		return false
	}
}

// parens wraps e in parentheses. A multi-line body closes on its own line.
func (p *CodePrinter) parens(e ast.Expression, column int) string {
	s := p.print(e, column+1)
	if isMultiline(s) {
		return "(" + s + "\n)"
	}
	return "(" + s + ")"
}

// argument renders e in argument position.
func (p *CodePrinter) argument(e ast.Expression, column int) string {
	if isAtomic(e) {
		return p.print(e, column)
	}
	return p.parens(e, column)
}

// operand renders e as a side of a binary operator, adding parentheses only
// if needed.
func (p *CodePrinter) operand(e ast.Expression, column int, parent ast.OperatorInfo, isRight bool) string {
	switch n := e.(type) {
	case *ast.Operator:
		info := ast.Operators[n.Symbol]
		needParens := info.Precedence < parent.Precedence
		// For same precedence, check associativity
		if info.Precedence == parent.Precedence {
			switch {
			case info.Assoc != parent.Assoc || info.Assoc == ast.AssocNone:
				needParens = true
			case isRight && info.Assoc != ast.AssocRight:
				needParens = true
			case !isRight && info.Assoc != ast.AssocLeft:
				needParens = true
			}
		}
		if needParens {
			return p.parens(e, column)
		}
		return p.print(e, column)
	case *ast.Application, *ast.IntegerLiteral, *ast.FloatLiteral:
		return p.print(e, column)
	default:
		if isAtomic(e) {
			return p.print(e, column)
		}
		return p.parens(e, column)
	}
}

func (p *CodePrinter) VisitDeclaration(n *ast.Declaration) {
	p.out = p.definition(n.Name, n.Expr, p.column)
}

// definition renders "name params =" followed by the indented body. A
// lambda value is written with its parameters on the left-hand side.
func (p *CodePrinter) definition(name string, value ast.Expression, column int) string {
	head := config.SafeName(name)
	if l, ok := value.(*ast.Lambda); ok && len(l.Params) > 0 {
		for _, param := range l.Params {
			head += " " + config.SafeName(param.Name)
		}
		value = l.Body
	}
	return head + " =\n" + indent(p.print(value, column+config.IndentWidth), config.IndentWidth)
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.out = QuoteString(n.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.out = FormatInt(n.Value)
}

func (p *CodePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	p.out = FormatFloat(n.Value)
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	if n.Value {
		p.out = config.TrueCtorName
	} else {
		p.out = config.FalseCtorName
	}
}

func (p *CodePrinter) VisitCharLiteral(n *ast.CharLiteral) {
	p.out = QuoteChar(n.Value)
}

func (p *CodePrinter) VisitUnitLiteral(n *ast.UnitLiteral) {
	p.out = "()"
}

func (p *CodePrinter) VisitValueRef(n *ast.ValueRef) {
	if len(n.Module) == 0 {
		p.out = config.SafeName(n.Name)
		return
	}
	p.out = ast.JoinPath(n.Module) + "." + n.Name
}

func (p *CodePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.out = p.sequence("[", "]", n.Elements)
}

func (p *CodePrinter) VisitTupleLiteral(n *ast.TupleLiteral) {
	if len(n.Elements) == 0 {
		p.out = "()"
		return
	}
	p.out = p.sequence("(", ")", n.Elements)
}

// sequence renders "[ a, b ]" on one line, or one element per line with
// leading commas when it does not fit.
func (p *CodePrinter) sequence(open, close string, elements []ast.Expression) string {
	if len(elements) == 0 {
		return open + close
	}
	items := make([]string, len(elements))
	for i, el := range elements {
		items[i] = p.print(el, p.column+2)
	}
	return p.layoutItems(open, close, items)
}

func (p *CodePrinter) layoutItems(open, close string, items []string) string {
	flat := open + " " + strings.Join(items, ", ") + " " + close
	if p.fits(p.column, flat) {
		return flat
	}
	var b strings.Builder
	for i, item := range items {
		if i == 0 {
			b.WriteString(open + " ")
		} else {
			b.WriteString("\n, ")
		}
		b.WriteString(indentTail(item, 2))
	}
	b.WriteString("\n" + close)
	return b.String()
}

// field renders "name = value"; a multi-line value moves below the name.
func (p *CodePrinter) field(f ast.RecordField, column int) string {
	name := config.SafeName(f.Name)
	value := p.print(f.Value, column+config.IndentWidth)
	if isMultiline(value) {
		return name + " =\n" + indent(value, config.IndentWidth-2)
	}
	return name + " = " + value
}

func (p *CodePrinter) VisitRecordLiteral(n *ast.RecordLiteral) {
	if len(n.Fields) == 0 {
		p.out = "{}"
		return
	}
	items := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		items[i] = p.field(f, p.column+2)
	}
	p.out = p.layoutItems("{", "}", items)
}

// VisitRecordUpdate writes only the overridden fields.
func (p *CodePrinter) VisitRecordUpdate(n *ast.RecordUpdate) {
	base := p.argument(n.Base, p.column+2)
	items := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		items[i] = p.field(f, p.column+6)
	}
	flat := "{ " + base + " | " + strings.Join(items, ", ") + " }"
	if p.fits(p.column, flat) {
		p.out = flat
		return
	}
	var b strings.Builder
	b.WriteString("{ " + indentTail(base, 2))
	for i, item := range items {
		if i == 0 {
			b.WriteString("\n    | ")
		} else {
			b.WriteString("\n    , ")
		}
		b.WriteString(indentTail(item, 6))
	}
	b.WriteString("\n}")
	p.out = b.String()
}

func (p *CodePrinter) VisitLambda(n *ast.Lambda) {
	head := "\\"
	for i, param := range n.Params {
		if i > 0 {
			head += " "
		}
		head += config.SafeName(param.Name)
	}
	head += " ->"
	body := p.print(n.Body, p.column+config.IndentWidth)
	flat := head + " " + body
	if p.fits(p.column, flat) {
		p.out = flat
		return
	}
	p.out = head + "\n" + indent(body, config.IndentWidth)
}

// VisitApplication renders the callee followed by the arguments in the order
// they were given.
func (p *CodePrinter) VisitApplication(n *ast.Application) {
	callee := p.argument(n.Function, p.column)
	if len(n.Arguments) == 0 {
		p.out = callee
		return
	}
	args := make([]string, len(n.Arguments))
	for i, arg := range n.Arguments {
		args[i] = p.argument(arg, p.column+config.IndentWidth)
	}
	flat := callee + " " + strings.Join(args, " ")
	if p.fits(p.column, flat) {
		p.out = flat
		return
	}
	var b strings.Builder
	b.WriteString(callee)
	for _, arg := range args {
		b.WriteString("\n")
		b.WriteString(indent(arg, config.IndentWidth))
	}
	p.out = b.String()
}

// VisitOperator renders a chain of operators of the same precedence on one
// line, or one "op operand" per line when it does not fit.
func (p *CodePrinter) VisitOperator(n *ast.Operator) {
	info := ast.Operators[n.Symbol]
	first, rest := p.chain(n, info)

	ops := make([]string, len(rest))
	for i, link := range rest {
		column := p.column + config.IndentWidth + len(link.symbol) + 1
		ops[i] = p.operand(link.operand, column, info, link.isRight)
	}
	head := p.operand(first.operand, p.column, info, first.isRight)

	var flat strings.Builder
	flat.WriteString(head)
	for i, link := range rest {
		flat.WriteString(" " + link.symbol + " " + ops[i])
	}
	if p.fits(p.column, flat.String()) {
		p.out = flat.String()
		return
	}
	var b strings.Builder
	b.WriteString(head)
	for i, link := range rest {
		b.WriteString("\n" + strings.Repeat(" ", config.IndentWidth) + link.symbol + " ")
		b.WriteString(indentTail(ops[i], config.IndentWidth+len(link.symbol)+1))
	}
	p.out = b.String()
}

type chainLink struct {
	symbol  string
	operand ast.Expression
	isRight bool
}

// chain flattens nested operators of the same precedence and associativity
// into first operand plus (symbol, operand) links in source order.
func (p *CodePrinter) chain(n *ast.Operator, info ast.OperatorInfo) (chainLink, []chainLink) {
	sameGroup := func(e ast.Expression) (*ast.Operator, bool) {
		op, ok := e.(*ast.Operator)
		if !ok {
			return nil, false
		}
		other := ast.Operators[op.Symbol]
		return op, other.Precedence == info.Precedence && other.Assoc == info.Assoc && info.Assoc != ast.AssocNone
	}
	switch info.Assoc {
	case ast.AssocRight:
		first := chainLink{operand: n.Left}
		var rest []chainLink
		cur := n
		for {
			next, ok := sameGroup(cur.Right)
			if !ok {
				rest = append(rest, chainLink{symbol: cur.Symbol, operand: cur.Right, isRight: true})
				return first, rest
			}
			rest = append(rest, chainLink{symbol: cur.Symbol, operand: next.Left})
			cur = next
		}
	default:
		var links []chainLink
		cur := n
		for {
			links = append(links, chainLink{symbol: cur.Symbol, operand: cur.Right, isRight: true})
			prev, ok := sameGroup(cur.Left)
			if !ok {
				break
			}
			cur = prev
		}
		for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
			links[i], links[j] = links[j], links[i]
		}
		return chainLink{operand: cur.Left}, links
	}
}

func (p *CodePrinter) VisitFieldAccess(n *ast.FieldAccess) {
	var base string
	switch n.Record.(type) {
	case *ast.ValueRef, *ast.FieldAccess, *ast.RecordLiteral, *ast.RecordUpdate:
		base = p.print(n.Record, p.column)
	default:
		base = p.parens(n.Record, p.column)
	}
	p.out = base + "." + config.SafeName(n.Field)
}

// VisitLetIn always uses the block layout:
//
//	let
//	    x =
//	        1
//	in
//	x
func (p *CodePrinter) VisitLetIn(n *ast.LetIn) {
	column := p.column
	bindings := make([]string, len(n.Bindings))
	for i, b := range n.Bindings {
		bindings[i] = indent(p.definition(b.Name, b.Value, column+config.IndentWidth), config.IndentWidth)
	}
	body := p.print(n.Body, column)
	p.out = "let\n" + strings.Join(bindings, "\n\n") + "\nin\n" + body
}

func (p *CodePrinter) VisitCaseOf(n *ast.CaseOf) {
	column := p.column
	subject := p.print(n.Subject, column+5)
	var b strings.Builder
	if isMultiline(subject) {
		b.WriteString("case\n" + indent(p.print(n.Subject, column+config.IndentWidth), config.IndentWidth) + "\nof")
	} else {
		b.WriteString("case " + subject + " of")
	}
	for i, br := range n.Branches {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n")
		body := p.print(br.Body, column+2*config.IndentWidth)
		arm := pattern(br) + " ->\n" + indent(body, config.IndentWidth)
		b.WriteString(indent(arm, config.IndentWidth))
	}
	p.out = b.String()
}

func pattern(b ast.Branch) string {
	if b.IsWildcard() {
		return config.WildcardPattern
	}
	parts := []string{b.QualifiedConstructor()}
	for _, pb := range b.Bindings {
		parts = append(parts, config.SafeName(pb.Name))
	}
	return strings.Join(parts, " ")
}

// VisitIfThenElse chains "else if" without extra indentation.
func (p *CodePrinter) VisitIfThenElse(n *ast.IfThenElse) {
	column := p.column
	cond := p.print(n.Condition, column+3)
	var b strings.Builder
	if isMultiline(cond) {
		b.WriteString("if\n" + indent(p.print(n.Condition, column+config.IndentWidth), config.IndentWidth) + "\nthen")
	} else {
		b.WriteString("if " + cond + " then")
	}
	b.WriteString("\n" + indent(p.print(n.Then, column+config.IndentWidth), config.IndentWidth))
	b.WriteString("\n\nelse")
	if nested, ok := n.Else.(*ast.IfThenElse); ok {
		b.WriteString(" " + p.print(nested, column))
	} else {
		b.WriteString("\n" + indent(p.print(n.Else, column+config.IndentWidth), config.IndentWidth))
	}
	p.out = b.String()
}
