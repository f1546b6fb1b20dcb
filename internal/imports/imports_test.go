package imports

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
	"reflect"
	"testing"
)

func names(stmts []ImportStatement) []string {
	out := []string{}
	for _, s := range stmts {
		out = append(out, s.Name())
	}
	return out
}

func TestCollectFromLetBinding(t *testing.T) {
	tests := []struct {
		bindings []ast.Binding
		body     ast.Expression
		expected []string
	}{
		// let foo = () in Json.Encode.null
		{[]ast.Binding{ast.Bind("foo", ast.Unit())}, ast.Ref("Json.Encode", "null"), []string{"Json.Encode"}},
		// let foo = Json.Decode.value in (), the binding is never used
		{[]ast.Binding{ast.Bind("foo", ast.Ref("Json.Decode", "value"))}, ast.Unit(), []string{"Json.Decode"}},
	}
	for _, tt := range tests {
		let, err := ast.Let(tt.bindings, tt.body)
		if err != nil {
			t.Fatal(err)
		}
		if got := names(Collect(let)); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("expected %v, got %v", tt.expected, got)
		}
	}
}

func TestCollectNestedScopes(t *testing.T) {
	inner, err := ast.Fn([]string{"x"}, ast.Apply(ast.Ref("Html.Attributes", "class"), ast.Local("x")))
	if err != nil {
		t.Fatal(err)
	}
	c, err := ast.Case(ast.Local("m"), nil,
		ast.Pattern("Just", []string{"v"}, ast.Apply(inner, ast.Local("v"))),
		ast.Wildcard(ast.Ref("Html", "text")),
	)
	if err != nil {
		t.Fatal(err)
	}
	expr := ast.List(c, ast.Ref("Html", "div"), ast.Ref("Dict", "empty"))
	got := names(Collect(expr))
	want := []string{"Dict", "Html", "Html.Attributes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCollectSkipsImplicitAndLocal(t *testing.T) {
	expr := ast.Apply(ast.Ref("List", "map"), ast.Ref("String", "fromInt"), ast.Local("xs"))
	if got := Collect(expr); len(got) != 0 {
		t.Errorf("expected no imports, got %v", names(got))
	}
	platform := ast.Ref("Platform.Cmd", "none")
	if got := Collect(platform); len(got) != 0 {
		t.Errorf("expected no imports, got %v", names(got))
	}
}

func TestCollectIsOrderIndependent(t *testing.T) {
	a := ast.List(ast.Ref("Zeta", "z"), ast.Ref("Alpha", "a"), ast.Ref("Zeta", "y"))
	b := ast.List(ast.Ref("Alpha", "a"), ast.Ref("Zeta", "y"), ast.Ref("Zeta", "z"))
	if !reflect.DeepEqual(names(Collect(a)), names(Collect(b))) {
		t.Errorf("order dependent: %v vs %v", names(Collect(a)), names(Collect(b)))
	}
	if got := names(Collect(a)); !reflect.DeepEqual(got, []string{"Alpha", "Zeta"}) {
		t.Errorf("unexpected imports %v", got)
	}
}

func TestCollectDeclarationIncludesSignature(t *testing.T) {
	decoder := typesystem.Named("Json.Decode", "Decoder", typesystem.String)
	decl := ast.Declare("name", ast.Local("x")).WithSignature(decoder)
	got := names(CollectDeclaration(decl))
	if !reflect.DeepEqual(got, []string{"Json.Decode"}) {
		t.Errorf("expected [Json.Decode], got %v", got)
	}
}

func TestForType(t *testing.T) {
	typ := typesystem.Func(
		typesystem.Named("Html", "Html", typesystem.Var("msg")),
		typesystem.List(typesystem.Named("Dict", "Dict", typesystem.String, typesystem.Int)),
	)
	got := names(ForType(typ))
	if !reflect.DeepEqual(got, []string{"Dict", "Html"}) {
		t.Errorf("unexpected imports %v", got)
	}
}

func TestRender(t *testing.T) {
	var s Set
	s.Add([]string{"Json", "Decode"})
	s.Add([]string{"Html"})
	s.Add([]string{"Html"})
	s.Add(nil)
	if s.Len() != 2 {
		t.Fatalf("expected 2 modules, got %d", s.Len())
	}
	expected := "import Html\nimport Json.Decode\n"
	if got := Render(s.Statements()); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
