package manifest

import (
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/parser"
	"github.com/funvibe/gencode/internal/typesystem"
	"gopkg.in/yaml.v3"
	"strings"
	"unicode/utf8"
)

// decoder turns YAML nodes into expressions. Anchored nodes decode once, so
// aliases share the same subtree.
type decoder struct {
	seen map[*yaml.Node]ast.Expression
}

func decodeExpression(n *yaml.Node) (ast.Expression, error) {
	d := &decoder{seen: make(map[*yaml.Node]ast.Expression)}
	return d.expression(n)
}

func nodeError(n *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

func (d *decoder) expression(n *yaml.Node) (ast.Expression, error) {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if e, ok := d.seen[n]; ok {
		return e, nil
	}
	e, err := d.decode(n)
	if err != nil {
		return nil, err
	}
	d.seen[n] = e
	return e, nil
}

func (d *decoder) decode(n *yaml.Node) (ast.Expression, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, nodeError(n, "an expression node needs exactly one key")
		}
		return d.tagged(n.Content[0].Value, n.Content[1])
	default:
		return nil, nodeError(n, "expected an expression")
	}
}

// scalar decodes a plain scalar. Booleans and numbers are literals; any
// other text is source code.
func (d *decoder) scalar(n *yaml.Node) (ast.Expression, error) {
	switch n.Tag {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return ast.Bool(b), nil
	case "!!null":
		return nil, nodeError(n, "empty expression")
	}
	return d.source(n, n.Value)
}

func (d *decoder) source(n *yaml.Node, text string) (ast.Expression, error) {
	e, err := parser.ParseExpression(text)
	if err != nil {
		return nil, nodeError(n, "%v", err)
	}
	return e, nil
}

func (d *decoder) tagged(tag string, n *yaml.Node) (ast.Expression, error) {
	switch tag {
	case "source":
		return d.source(n, n.Value)
	case "int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return ast.Int(i), nil
	case "float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return ast.Float(f), nil
	case "string":
		return ast.String(n.Value), nil
	case "char":
		r, size := utf8.DecodeRuneInString(n.Value)
		if size == 0 || size != len(n.Value) {
			return nil, nodeError(n, "a char must be exactly one character, got %q", n.Value)
		}
		return ast.Char(r), nil
	case "bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return ast.Bool(b), nil
	case "unit":
		return ast.Unit(), nil
	case "ref":
		return reference(n.Value), nil
	case "list":
		elements, err := d.sequence(n)
		if err != nil {
			return nil, err
		}
		return ast.List(elements...), nil
	case "tuple":
		elements, err := d.sequence(n)
		if err != nil {
			return nil, err
		}
		if len(elements) < 2 {
			return nil, nodeError(n, "a tuple needs at least two elements")
		}
		return ast.Tuple(elements...), nil
	case "record":
		fields, err := d.fields(n)
		if err != nil {
			return nil, err
		}
		rec, err := ast.Record(fields...)
		if err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return rec, nil
	case "update":
		return d.update(n)
	case "lambda":
		return d.lambda(n)
	case "apply":
		parts, err := d.sequence(n)
		if err != nil {
			return nil, err
		}
		if len(parts) < 2 {
			return nil, nodeError(n, "apply needs a function and at least one argument")
		}
		return ast.Apply(parts[0], parts[1:]...), nil
	case "op":
		return d.operator(n)
	case "access":
		return d.access(n)
	case "let":
		return d.let(n)
	case "case":
		return d.caseOf(n)
	case "if":
		return d.ifThenElse(n)
	case "typed":
		return d.typed(n)
	default:
		return nil, nodeError(n, "unknown expression node %q", tag)
	}
}

// reference splits "Json.Decode.string" into module and name.
func reference(qualified string) ast.Expression {
	i := strings.LastIndexByte(qualified, '.')
	if i < 0 {
		return ast.Local(qualified)
	}
	return ast.Ref(qualified[:i], qualified[i+1:])
}

func (d *decoder) sequence(n *yaml.Node) ([]ast.Expression, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "expected a list")
	}
	out := make([]ast.Expression, 0, len(n.Content))
	for _, c := range n.Content {
		e, err := d.expression(c)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// pairs iterates a mapping in document order.
func pairs(n *yaml.Node, f func(key, value *yaml.Node) error) error {
	if n.Kind != yaml.MappingNode {
		return nodeError(n, "expected a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := f(n.Content[i], n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// attributes collects the keys of a mapping, rejecting unknown ones.
func attributes(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	attrs := map[string]*yaml.Node{}
	err := pairs(n, func(k, v *yaml.Node) error {
		for _, a := range allowed {
			if a == k.Value {
				attrs[k.Value] = v
				return nil
			}
		}
		return nodeError(k, "unexpected key %q", k.Value)
	})
	return attrs, err
}

func (d *decoder) required(n *yaml.Node, attrs map[string]*yaml.Node, key string) (ast.Expression, error) {
	v, ok := attrs[key]
	if !ok {
		return nil, nodeError(n, "missing %q", key)
	}
	return d.expression(v)
}

func (d *decoder) fields(n *yaml.Node) ([]ast.RecordField, error) {
	var fields []ast.RecordField
	err := pairs(n, func(k, v *yaml.Node) error {
		if !typesystem.IsLowerIdent(k.Value) {
			return nodeError(k, "invalid field name %q", k.Value)
		}
		e, err := d.expression(v)
		if err != nil {
			return err
		}
		fields = append(fields, ast.Field(k.Value, e))
		return nil
	})
	return fields, err
}

func (d *decoder) update(n *yaml.Node) (ast.Expression, error) {
	attrs, err := attributes(n, "base", "fields")
	if err != nil {
		return nil, err
	}
	base, err := d.required(n, attrs, "base")
	if err != nil {
		return nil, err
	}
	var fields []ast.RecordField
	if v, ok := attrs["fields"]; ok {
		if fields, err = d.fields(v); err != nil {
			return nil, err
		}
	}
	upd, err := ast.Update(base, fields...)
	if err != nil {
		return nil, nodeError(n, "%v", err)
	}
	return upd, nil
}

func (d *decoder) lambda(n *yaml.Node) (ast.Expression, error) {
	attrs, err := attributes(n, "params", "body")
	if err != nil {
		return nil, err
	}
	var params []string
	if v, ok := attrs["params"]; ok {
		if err := v.Decode(&params); err != nil {
			return nil, nodeError(v, "%v", err)
		}
	}
	if len(params) == 0 {
		return nil, nodeError(n, "a lambda needs parameters")
	}
	body, err := d.required(n, attrs, "body")
	if err != nil {
		return nil, err
	}
	fn, err := ast.Fn(params, body)
	if err != nil {
		return nil, nodeError(n, "%v", err)
	}
	return fn, nil
}

// operator decodes [left, symbol, right].
func (d *decoder) operator(n *yaml.Node) (ast.Expression, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 3 {
		return nil, nodeError(n, "op expects [left, symbol, right]")
	}
	left, err := d.expression(n.Content[0])
	if err != nil {
		return nil, err
	}
	right, err := d.expression(n.Content[2])
	if err != nil {
		return nil, err
	}
	op, err := ast.Op(n.Content[1].Value, left, right)
	if err != nil {
		return nil, nodeError(n.Content[1], "%v", err)
	}
	return op, nil
}

func (d *decoder) access(n *yaml.Node) (ast.Expression, error) {
	attrs, err := attributes(n, "record", "field")
	if err != nil {
		return nil, err
	}
	rec, err := d.required(n, attrs, "record")
	if err != nil {
		return nil, err
	}
	field, ok := attrs["field"]
	if !ok || !typesystem.IsLowerIdent(field.Value) {
		return nil, nodeError(n, "access needs a field name")
	}
	return ast.Access(rec, field.Value), nil
}

func (d *decoder) let(n *yaml.Node) (ast.Expression, error) {
	attrs, err := attributes(n, "bindings", "in")
	if err != nil {
		return nil, err
	}
	var bindings []ast.Binding
	if v, ok := attrs["bindings"]; ok {
		err := pairs(v, func(k, v *yaml.Node) error {
			e, err := d.expression(v)
			if err != nil {
				return err
			}
			bindings = append(bindings, ast.Bind(k.Value, e))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	body, err := d.required(n, attrs, "in")
	if err != nil {
		return nil, err
	}
	let, err := ast.Let(bindings, body)
	if err != nil {
		return nil, nodeError(n, "%v", err)
	}
	return let, nil
}

func (d *decoder) caseOf(n *yaml.Node) (ast.Expression, error) {
	attrs, err := attributes(n, "of", "type", "branches")
	if err != nil {
		return nil, err
	}
	subject, err := d.required(n, attrs, "of")
	if err != nil {
		return nil, err
	}
	var subjectType typesystem.Type
	if v, ok := attrs["type"]; ok {
		if subjectType, err = parser.ParseType(v.Value); err != nil {
			return nil, nodeError(v, "%v", err)
		}
	}
	var branches []ast.Branch
	if v, ok := attrs["branches"]; ok {
		err := pairs(v, func(k, v *yaml.Node) error {
			body, err := d.expression(v)
			if err != nil {
				return err
			}
			br, err := branch(k, body)
			if err != nil {
				return err
			}
			branches = append(branches, br)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	c, err := ast.Case(subject, subjectType, branches...)
	if err != nil {
		return nil, nodeError(n, "%v", err)
	}
	return c, nil
}

// branch parses a pattern key such as "Maybe.Just x" or "_".
func branch(k *yaml.Node, body ast.Expression) (ast.Branch, error) {
	words := strings.Fields(k.Value)
	if len(words) == 0 {
		return ast.Branch{}, nodeError(k, "empty pattern")
	}
	if words[0] == config.WildcardPattern {
		if len(words) > 1 {
			return ast.Branch{}, nodeError(k, "a catch-all pattern binds nothing")
		}
		return ast.Wildcard(body), nil
	}
	module, ctor := "", words[0]
	if i := strings.LastIndexByte(ctor, '.'); i >= 0 {
		module, ctor = ctor[:i], ctor[i+1:]
	}
	if ctor == "" || typesystem.IsLowerIdent(ctor) {
		return ast.Branch{}, nodeError(k, "invalid constructor %q", words[0])
	}
	var bindings []ast.PatternBinding
	for _, w := range words[1:] {
		if w != config.WildcardPattern && !typesystem.IsLowerIdent(w) {
			return ast.Branch{}, nodeError(k, "invalid pattern variable %q", w)
		}
		bindings = append(bindings, ast.PatternBinding{Name: w})
	}
	return ast.QualifiedPattern(module, ctor, bindings, body), nil
}

func (d *decoder) ifThenElse(n *yaml.Node) (ast.Expression, error) {
	attrs, err := attributes(n, "cond", "then", "else")
	if err != nil {
		return nil, err
	}
	var parts [3]ast.Expression
	for i, key := range []string{"cond", "then", "else"} {
		if parts[i], err = d.required(n, attrs, key); err != nil {
			return nil, err
		}
	}
	return ast.If(parts[0], parts[1], parts[2]), nil
}

// typed attaches a known type to an expression.
func (d *decoder) typed(n *yaml.Node) (ast.Expression, error) {
	attrs, err := attributes(n, "expr", "type")
	if err != nil {
		return nil, err
	}
	e, err := d.required(n, attrs, "expr")
	if err != nil {
		return nil, err
	}
	v, ok := attrs["type"]
	if !ok {
		return nil, nodeError(n, "missing %q", "type")
	}
	t, err := parser.ParseType(v.Value)
	if err != nil {
		return nil, nodeError(v, "%v", err)
	}
	return ast.WithType(e, t), nil
}
