package facts

import (
	"bytes"
	"errors"
	"github.com/funvibe/gencode/internal/analyzer"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
	"github.com/vmihailenco/msgpack/v5"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleYAML = `
modules:
  - module: Shapes
    values:
      area: Shapes.Shape -> Float
      unit: Shapes.Shape
      scale: Float -> Shapes.Shape -> Shapes.Shape
    types:
      - name: Shape
        constructors:
          - Circle Float
          - Rect Float Float
      - name: Tagged
        params: [a]
        constructors:
          - Tagged String (List a)
`

func mustParse(t *testing.T, src string) *Table {
	t.Helper()
	table, err := Parse([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return table
}

func TestParseFacts(t *testing.T) {
	table := mustParse(t, sampleYAML)

	typ, ok := table.LookupValue([]string{"Shapes"}, "scale")
	if !ok {
		t.Fatal("scale not found")
	}
	if got := typesystem.FormatType(typ); got != "Float -> Shapes.Shape -> Shapes.Shape" {
		t.Errorf("unexpected type %s", got)
	}

	u, ok := table.LookupUnion([]string{"Shapes"}, "Tagged")
	if !ok {
		t.Fatal("Tagged not found")
	}
	v, ok := u.Variant("Tagged")
	if !ok || len(v.Args) != 2 {
		t.Fatalf("unexpected variant %#v", v)
	}
	if got := typesystem.FormatType(v.Args[1]); got != "List a" {
		t.Errorf("unexpected argument %s", got)
	}

	owner, ok := table.LookupConstructor([]string{"Shapes"}, "Rect")
	if !ok || owner.Name != "Shape" {
		t.Errorf("unexpected owner of Rect: %#v", owner)
	}
	if _, ok := table.LookupConstructor(nil, "Rect"); ok {
		t.Error("constructors must be looked up by module")
	}
	if table.Len() != 5 {
		t.Errorf("expected 5 facts, got %d", table.Len())
	}
}

func TestParseFactsErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
	}{
		{
			"bad type",
			"modules:\n  - module: A\n    values:\n      f: Int ->",
			"A.f",
		},
		{
			"bad value name",
			"modules:\n  - module: A\n    values:\n      F: Int",
			"invalid value name",
		},
		{
			"missing module",
			"modules:\n  - values:\n      f: Int",
			"module is required",
		},
		{
			"unbound variable",
			"modules:\n  - module: A\n    types:\n      - name: T\n        constructors:\n          - T a",
			"unbound type variable a",
		},
		{
			"duplicate constructor",
			"modules:\n  - module: A\n    types:\n      - name: T\n        constructors:\n          - X\n      - name: U\n        constructors:\n          - X",
			"duplicate constructor: A.X",
		},
		{
			"qualified constructor",
			"modules:\n  - module: A\n    types:\n      - name: T\n        constructors:\n          - B.X",
			"must not be qualified",
		},
		{
			"not yaml",
			"modules: [",
			"parsing test.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test.yaml")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	table := mustParse(t, sampleYAML)

	var buf bytes.Buffer
	if err := table.WriteSnapshot(&buf); err != nil {
		t.Fatal(err)
	}
	decoded, err := ReadSnapshot(&buf, "test.mp")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded.Document(), table.Document()) {
		t.Errorf("snapshot changed the facts:\n%#v\n%#v", decoded.Document(), table.Document())
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	table := mustParse(t, sampleYAML)
	data, err := table.YAML()
	if err != nil {
		t.Fatal(err)
	}
	again := mustParse(t, string(data))
	if !reflect.DeepEqual(again.Document(), table.Document()) {
		t.Errorf("yaml changed the facts:\n%s", data)
	}
}

func TestSnapshotSchema(t *testing.T) {
	data, err := msgpack.Marshal(&Document{Schema: 99})
	if err != nil {
		t.Fatal(err)
	}
	_, err = ReadSnapshot(bytes.NewReader(data), "old.mp")
	if !errors.Is(err, ErrSnapshotSchema) {
		t.Errorf("expected a schema error, got %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "shapes.yaml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	snapshotPath := filepath.Join(dir, "out", "extra.mp")
	extra := mustParse(t, "modules:\n  - module: Extra\n    values:\n      answer: Int\n")
	if err := extra.WriteSnapshotFile(snapshotPath); err != nil {
		t.Fatal(err)
	}

	table, err := LoadAll(Prelude(), yamlPath, snapshotPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Extra", "List", "Shapes"} {
		found := false
		for _, m := range table.Modules() {
			found = found || m == want
		}
		if !found {
			t.Errorf("module %s missing from %v", want, table.Modules())
		}
	}
	if _, ok := table.LookupValue([]string{"Extra"}, "answer"); !ok {
		t.Error("snapshot value missing")
	}

	_, err = LoadAll(nil, yamlPath, yamlPath)
	if !errors.Is(err, ErrDuplicateValue) {
		t.Errorf("expected a duplicate value error, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestPreludeDrivesInference(t *testing.T) {
	must := func(e ast.Expression, err error) ast.Expression {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return e
	}
	tests := []struct {
		expr     ast.Expression
		expected string
	}{
		{
			ast.Apply(ast.Ref("List", "map"), ast.Ref("String", "fromInt"), ast.List(ast.Int(1), ast.Int(2))),
			"List String",
		},
		{
			ast.Apply(ast.Ref("Json.Decode", "field"), ast.String("name"), ast.Ref("Json.Decode", "string")),
			"Json.Decode.Decoder String",
		},
		{
			ast.Apply(ast.Ref("Html", "div"), ast.List(), ast.List(ast.Apply(ast.Ref("Html", "text"), ast.String("hi")))),
			"Html.Html msg",
		},
		{
			must(ast.Fn([]string{"e"}, must(ast.Case(ast.Local("e"), nil,
				ast.QualifiedPattern("Json.Decode", "Failure", []ast.PatternBinding{{Name: "msg"}, {Name: "_"}}, ast.Local("msg")),
				ast.QualifiedPattern("Json.Decode", "Field", []ast.PatternBinding{{Name: "name"}, {Name: "_"}}, ast.Local("name")),
			)))),
			"Json.Decode.Error -> String",
		},
	}
	for _, tt := range tests {
		_, d := analyzer.Infer(0, tt.expr, analyzer.WithFacts(Prelude()))
		typ, err := d.Annotation()
		if err != nil {
			t.Errorf("inference failed: %v", err)
			continue
		}
		if got := typesystem.FormatType(typ); got != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, got)
		}
	}
}

func TestPreludeCatchesMistakes(t *testing.T) {
	expr := ast.Apply(ast.Ref("String", "toUpper"), ast.Int(1))
	_, d := analyzer.Infer(0, expr, analyzer.WithFacts(Prelude()))
	if d.OK() {
		t.Fatalf("expected an error, got %s", typesystem.FormatType(d.Type))
	}
	if _, ok := d.Errors[0].(*typesystem.CannotUnify); !ok {
		t.Errorf("expected CannotUnify, got %#v", d.Errors[0])
	}
}
