package manifest

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/prettyprinter"
	"github.com/funvibe/gencode/internal/typesystem"
	"path/filepath"
	"strings"
	"testing"
)

const counterManifest = `
module: Counter
exposing: [init, increment]
facts: [vendor/http.yaml, /abs/core.mp]
declarations:
  - name: init
    doc: |
      The initial model.
    body:
      record:
        count: { int: 0 }
        label: { string: clicks }
  - name: increment
    params: [model]
    body: "{ model | count = model.count + 1 }"
  - name: describe
    params: [m]
    signature: Maybe Int -> String
    body:
      case:
        of: m
        branches:
          Just n: { apply: [String.fromInt, n] }
          _: { string: none }
  - name: pair
    body:
      tuple: [&one { int: 1 }, *one]
  - name: flag
    body: true
`

func mustParse(t *testing.T, src string) *Manifest {
	t.Helper()
	m, err := Parse([]byte(src), filepath.Join("project", "counter.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestManifestFile(t *testing.T) {
	m := mustParse(t, counterManifest)
	f, err := m.File()
	if err != nil {
		t.Fatal(err)
	}
	if f.Module != "Counter" || len(f.Exposing) != 2 || len(f.Declarations) != 5 {
		t.Fatalf("unexpected file %#v", f)
	}

	init := f.Declarations[0]
	if init.Doc != "The initial model." {
		t.Errorf("unexpected doc %q", init.Doc)
	}
	if rec, ok := init.Expr.(*ast.RecordLiteral); !ok || len(rec.Fields) != 2 || rec.Fields[0].Name != "count" {
		t.Errorf("expected fields in document order, got %#v", init.Expr)
	}
	if _, ok := f.Declarations[1].Expr.(*ast.Lambda); !ok {
		t.Errorf("expected params to become a lambda, got %#v", f.Declarations[1].Expr)
	}
	if got := typesystem.FormatType(f.Declarations[2].Signature); got != "Maybe Int -> String" {
		t.Errorf("unexpected signature %s", got)
	}
	tuple, ok := f.Declarations[3].Expr.(*ast.TupleLiteral)
	if !ok || tuple.Elements[0] != tuple.Elements[1] {
		t.Errorf("expected an alias to share its subtree, got %#v", f.Declarations[3].Expr)
	}
	if b, ok := f.Declarations[4].Expr.(*ast.BooleanLiteral); !ok || !b.Value {
		t.Errorf("expected True, got %#v", f.Declarations[4].Expr)
	}
}

func TestManifestFactsPaths(t *testing.T) {
	m := mustParse(t, counterManifest)
	paths := m.FactsPaths()
	expected := []string{filepath.Join("project", "vendor", "http.yaml"), "/abs/core.mp"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, paths)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], paths[i])
		}
	}
}

func TestManifestRenders(t *testing.T) {
	f, err := mustParse(t, counterManifest).File()
	if err != nil {
		t.Fatal(err)
	}
	text, details := prettyprinter.RenderFile(f)
	for i, d := range details {
		if !d.OK() {
			t.Errorf("declaration %s failed: %v", f.Declarations[i].Name, d.Errors)
		}
	}
	for _, want := range []string{
		"module Counter exposing (init, increment)\n",
		"{-| The initial model.\n-}\ninit : { count : Int, label : String }\ninit =\n    { count = 0, label = \"clicks\" }\n",
		"increment model =\n    { model | count = model.count + 1 }\n",
		"describe : Maybe Int -> String\ndescribe m =\n    case m of\n        Just n ->\n            String.fromInt n\n\n        _ ->\n            \"none\"\n",
		"pair : ( Int, Int )\npair =\n    ( 1, 1 )\n",
		"flag : Bool\nflag =\n    True\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
	}{
		{"no module", "declarations: []", "module is required"},
		{"bad module", "module: counter", "invalid module name"},
		{"bad name", "module: A\ndeclarations:\n  - name: Init\n    body: 1", "invalid name"},
		{"duplicate", "module: A\ndeclarations:\n  - name: a\n    body: 1\n  - name: a\n    body: 2", "duplicate declaration a"},
		{"no body", "module: A\ndeclarations:\n  - name: a", "body is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "m.yaml")
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"unknown node", "{ foo: 1 }", `unknown expression node "foo"`},
		{"two keys", "{ int: 1, float: 2 }", "exactly one key"},
		{"bad operator", "{ op: [1, '<>', 2] }", "unknown operator"},
		{"long char", "{ char: ab }", "exactly one character"},
		{"short tuple", "{ tuple: [1] }", "at least two elements"},
		{"lambda without params", "{ lambda: { body: 1 } }", "needs parameters"},
		{"let without body", "{ let: { bindings: { x: 1 } } }", `missing "in"`},
		{"unexpected key", "{ if: { cond: c, then: 1, otherwise: 2 } }", `unexpected key "otherwise"`},
		{"bad source", `"f ("`, "line 4"},
		{"duplicate field", "{ update: { base: m, fields: { a: 1, a: 2 } } }", "duplicate record field"},
		{"bad pattern", "{ case: { of: m, branches: { just x: 1 } } }", "invalid constructor"},
		{"null", "~", "empty expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustParse(t, "module: A\ndeclarations:\n  - name: a\n    body: "+tt.body)
			_, err := m.File()
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestStructuredNodes(t *testing.T) {
	src := `module: A
declarations:
  - name: view
    params: [model]
    body:
      let:
        bindings:
          total: { op: [{ access: { record: model, field: count } }, "*", 2] }
        in:
          if:
            cond: "total > 10"
            then: { apply: [Html.text, { string: big }] }
            else: { typed: { expr: { ref: Html.none }, type: Html.Html msg } }
`
	f, err := mustParse(t, src).File()
	if err != nil {
		t.Fatal(err)
	}
	got := prettyprinter.NewCodePrinter().Expression(f.Declarations[0].Expr)
	expected := strings.Join([]string{
		`\model ->`,
		`    let`,
		`        total =`,
		`            model.count * 2`,
		`    in`,
		`    if total > 10 then`,
		`        Html.text "big"`,
		``,
		`    else`,
		`        Html.none`,
	}, "\n")
	if got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}
