package analyzer

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
	"strings"
	"testing"
)

// must unwraps a builder result; builders only fail on malformed test input.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// inferType infers expr and returns the formatted type, failing on errors.
func inferType(t *testing.T, expr ast.Expression, opts ...Option) string {
	t.Helper()
	_, d := Infer(0, expr, opts...)
	if _, err := d.Annotation(); err != nil {
		t.Fatalf("inference failed: %v", err)
	}
	return typesystem.FormatType(d.Type)
}

// inferErrors infers expr and returns its errors, failing when there are none.
func inferErrors(t *testing.T, expr ast.Expression, opts ...Option) []typesystem.InferenceError {
	t.Helper()
	_, d := Infer(0, expr, opts...)
	if d.OK() {
		t.Fatalf("expected inference errors, got type %s", typesystem.FormatType(d.Type))
	}
	return d.Errors
}

func TestInferLiterals(t *testing.T) {
	tests := []struct {
		expr     ast.Expression
		expected string
	}{
		{ast.String("a"), "String"},
		{ast.Int(1), "Int"},
		{ast.Float(1.5), "Float"},
		{ast.Bool(true), "Bool"},
		{ast.Char('x'), "Char"},
		{ast.Unit(), "()"},
		{ast.List(ast.Int(1), ast.Int(2)), "List Int"},
		{ast.List(), "List a"},
		{ast.Tuple(ast.Int(1), ast.String("a")), "( Int, String )"},
		{must(ast.Record(ast.Field("name", ast.String("a")), ast.Field("age", ast.Int(3)))), "{ name : String, age : Int }"},
	}
	for _, tt := range tests {
		if got := inferType(t, tt.expr); got != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, got)
		}
	}
}

func TestInferListElementMismatch(t *testing.T) {
	errs := inferErrors(t, ast.List(ast.Int(1), ast.String("a")))
	cu, ok := errs[0].(*typesystem.CannotUnify)
	if !ok {
		t.Fatalf("expected CannotUnify, got %T", errs[0])
	}
	if len(cu.Context) == 0 || cu.Context[0] != "list element 2" {
		t.Errorf("unexpected context %v", cu.Context)
	}
}

func TestInferLambdaNamesVariablesAfterParameters(t *testing.T) {
	expr := must(ast.Fn([]string{"x"}, ast.Local("x")))
	if got := inferType(t, expr); got != "x -> x" {
		t.Errorf("expected x -> x, got %s", got)
	}
}

func TestInferLetPolymorphism(t *testing.T) {
	id := must(ast.Fn([]string{"x"}, ast.Local("x")))
	body := ast.Tuple(
		ast.Apply(ast.Local("id"), ast.Int(1)),
		ast.Apply(ast.Local("id"), ast.String("s")),
	)
	expr := must(ast.Let([]ast.Binding{ast.Bind("id", id)}, body))
	if got := inferType(t, expr); got != "( Int, String )" {
		t.Errorf("expected ( Int, String ), got %s", got)
	}
}

func TestInferLambdaParameterIsMonomorphic(t *testing.T) {
	body := ast.Tuple(
		ast.Apply(ast.Local("f"), ast.Int(1)),
		ast.Apply(ast.Local("f"), ast.String("s")),
	)
	expr := must(ast.Fn([]string{"f"}, body))
	inferErrors(t, expr)
}

func TestInferApplicationArgumentOrder(t *testing.T) {
	repeat := ast.RefTyped("String", "repeat",
		typesystem.Func(typesystem.String, typesystem.Int, typesystem.String))

	if got := inferType(t, ast.Apply(repeat, ast.Int(3), ast.String("x"))); got != "String" {
		t.Errorf("expected String, got %s", got)
	}

	errs := inferErrors(t, ast.Apply(repeat, ast.String("x"), ast.Int(3)))
	cu, ok := errs[0].(*typesystem.CannotUnify)
	if !ok {
		t.Fatalf("expected CannotUnify, got %T", errs[0])
	}
	ctx := strings.Join(cu.Context, ", ")
	if !strings.Contains(ctx, "String.repeat") || !strings.Contains(ctx, "argument 1") {
		t.Errorf("unexpected context %q", ctx)
	}
}

func TestInferApplicationArity(t *testing.T) {
	repeat := ast.RefTyped("String", "repeat",
		typesystem.Func(typesystem.String, typesystem.Int, typesystem.String))
	errs := inferErrors(t, ast.Apply(repeat, ast.Int(3)))
	am, ok := errs[0].(*typesystem.ArityMismatch)
	if !ok {
		t.Fatalf("expected ArityMismatch, got %T", errs[0])
	}
	if am.Expected != 2 || am.Found != 1 {
		t.Errorf("expected 2/1, got %d/%d", am.Expected, am.Found)
	}
}

func TestInferOperators(t *testing.T) {
	tests := []struct {
		symbol      string
		left, right ast.Expression
		expected    string
	}{
		{"+", ast.Int(1), ast.Int(2), "Int"},
		{"*", ast.Float(1), ast.Float(2), "Float"},
		{"/", ast.Float(1), ast.Float(2), "Float"},
		{"//", ast.Int(1), ast.Int(2), "Int"},
		{"++", ast.String("a"), ast.String("b"), "String"},
		{"++", ast.List(ast.Int(1)), ast.List(), "List Int"},
		{"<", ast.Int(1), ast.Int(2), "Bool"},
		{"==", ast.Bool(true), ast.Bool(false), "Bool"},
		{"::", ast.Int(1), ast.List(), "List Int"},
		{"&&", ast.Bool(true), ast.Bool(false), "Bool"},
	}
	for _, tt := range tests {
		expr := must(ast.Op(tt.symbol, tt.left, tt.right))
		if got := inferType(t, expr); got != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.symbol, tt.expected, got)
		}
	}
}

func TestInferOperatorClassViolations(t *testing.T) {
	tests := []struct {
		symbol      string
		left, right ast.Expression
	}{
		{"+", ast.Int(1), ast.Float(1.5)},
		{"+", ast.String("a"), ast.String("b")},
		{"<", ast.Bool(true), ast.Bool(false)},
		{"++", ast.Int(1), ast.Int(2)},
	}
	for _, tt := range tests {
		expr := must(ast.Op(tt.symbol, tt.left, tt.right))
		errs := inferErrors(t, expr)
		if _, ok := errs[0].(*typesystem.CannotUnify); !ok {
			t.Errorf("%s: expected CannotUnify, got %T", tt.symbol, errs[0])
		}
	}
}

func TestInferPipeline(t *testing.T) {
	toString := ast.RefTyped("String", "fromInt", typesystem.Func(typesystem.String, typesystem.Int))
	expr := must(ast.Op("|>", ast.Int(1), toString))
	if got := inferType(t, expr); got != "String" {
		t.Errorf("expected String, got %s", got)
	}
}

func TestInferRecordUpdateClosedRecord(t *testing.T) {
	base := must(ast.Record(ast.Field("name", ast.String("a")), ast.Field("age", ast.Int(1))))

	ok := must(ast.Update(base, ast.Field("age", ast.Int(2))))
	if got := inferType(t, ok); got != "{ name : String, age : Int }" {
		t.Errorf("unexpected type %s", got)
	}

	missing := must(ast.Update(base, ast.Field("email", ast.String("x"))))
	errs := inferErrors(t, missing)
	uf, isField := errs[0].(*typesystem.UnboundRecordField)
	if !isField {
		t.Fatalf("expected UnboundRecordField, got %T", errs[0])
	}
	if uf.Field != "email" {
		t.Errorf("expected field email, got %s", uf.Field)
	}

	wrong := must(ast.Update(base, ast.Field("age", ast.String("x"))))
	inferErrors(t, wrong)
}

func TestInferRecordUpdateOpenRecord(t *testing.T) {
	update := must(ast.Update(ast.Local("person"), ast.Field("name", ast.String("x"))))
	expr := must(ast.Fn([]string{"person"}, update))
	expected := "{ a | name : String } -> { a | name : String }"
	if got := inferType(t, expr); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestInferFieldAccess(t *testing.T) {
	expr := must(ast.Fn([]string{"r"}, ast.Access(ast.Local("r"), "name")))
	expected := "{ b | name : a } -> a"
	if got := inferType(t, expr); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}

	rec := must(ast.Record(ast.Field("name", ast.String("a"))))
	if got := inferType(t, ast.Access(rec, "name")); got != "String" {
		t.Errorf("expected String, got %s", got)
	}
	errs := inferErrors(t, ast.Access(rec, "age"))
	if _, ok := errs[0].(*typesystem.UnboundRecordField); !ok {
		t.Errorf("expected UnboundRecordField, got %T", errs[0])
	}
}

func TestInferCaseOnMaybe(t *testing.T) {
	c := must(ast.Case(ast.Local("m"), nil,
		ast.Pattern("Just", []string{"x"}, ast.Local("x")),
		ast.Pattern("Nothing", nil, ast.Int(0)),
	))
	expr := must(ast.Fn([]string{"m"}, c))
	if got := inferType(t, expr); got != "Maybe Int -> Int" {
		t.Errorf("expected Maybe Int -> Int, got %s", got)
	}
}

func TestInferCaseWithSubjectType(t *testing.T) {
	c := must(ast.Case(ast.Local("r"), typesystem.Result(typesystem.String, typesystem.Int),
		ast.Pattern("Ok", []string{"n"}, ast.Local("n")),
		ast.Wildcard(ast.Int(0)),
	))
	expr := must(ast.Fn([]string{"r"}, c))
	if got := inferType(t, expr); got != "Result String Int -> Int" {
		t.Errorf("unexpected type %s", got)
	}
}

func TestInferCaseErrors(t *testing.T) {
	unknown := must(ast.Case(ast.Local("m"), typesystem.Maybe(typesystem.Int),
		ast.Pattern("Just", []string{"x"}, ast.Local("x")),
		ast.Pattern("Foo", nil, ast.Int(0)),
	))
	errs := inferErrors(t, must(ast.Fn([]string{"m"}, unknown)))
	if _, ok := errs[0].(*typesystem.UnknownConstructor); !ok {
		t.Errorf("expected UnknownConstructor, got %T", errs[0])
	}

	arity := must(ast.Case(ast.Local("m"), typesystem.Maybe(typesystem.Int),
		ast.Pattern("Just", []string{"x", "y"}, ast.Local("x")),
		ast.Wildcard(ast.Int(0)),
	))
	errs = inferErrors(t, must(ast.Fn([]string{"m"}, arity)))
	if _, ok := errs[0].(*typesystem.ArityMismatch); !ok {
		t.Errorf("expected ArityMismatch, got %T", errs[0])
	}

	branches := must(ast.Case(ast.Local("m"), typesystem.Maybe(typesystem.Int),
		ast.Pattern("Just", []string{"x"}, ast.Local("x")),
		ast.Pattern("Nothing", nil, ast.String("none")),
	))
	errs = inferErrors(t, must(ast.Fn([]string{"m"}, branches)))
	if _, ok := errs[0].(*typesystem.CannotUnify); !ok {
		t.Errorf("expected CannotUnify, got %T", errs[0])
	}

	onString := must(ast.Case(ast.String("a"), nil, ast.Pattern("Just", []string{"x"}, ast.Local("x"))))
	errs = inferErrors(t, onString)
	if _, ok := errs[0].(*typesystem.UnknownConstructor); !ok {
		t.Errorf("expected UnknownConstructor, got %T", errs[0])
	}
}

func TestInferIf(t *testing.T) {
	if got := inferType(t, ast.If(ast.Bool(true), ast.Int(1), ast.Int(2))); got != "Int" {
		t.Errorf("expected Int, got %s", got)
	}
	inferErrors(t, ast.If(ast.Int(1), ast.Int(1), ast.Int(2)))
	inferErrors(t, ast.If(ast.Bool(true), ast.Int(1), ast.String("a")))
}

func TestInferAccumulatesErrors(t *testing.T) {
	expr := ast.Tuple(
		ast.List(ast.Int(1), ast.String("a")),
		must(ast.Op("+", ast.Bool(true), ast.Int(1))),
	)
	_, d := Infer(0, expr)
	if len(d.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(d.Errors), d.Errors)
	}
	if d.Type == nil {
		t.Error("expected a partial type")
	}
	if _, err := d.Annotation(); err == nil {
		t.Error("expected Annotation to fail")
	}
}

func TestInferThreadsCounter(t *testing.T) {
	expr := must(ast.Fn([]string{"x"}, ast.Local("x")))
	next, d := Infer(10, expr)
	if next <= 10 {
		t.Fatalf("expected counter to advance past 10, got %d", next)
	}
	for _, v := range d.Type.FreeTypeVariables() {
		if v.ID <= 10 || v.ID > next {
			t.Errorf("variable %s outside (10, %d]", v, next)
		}
	}
	next2, d2 := Infer(next, expr)
	for _, v := range d2.Type.FreeTypeVariables() {
		if v.ID <= next || v.ID > next2 {
			t.Errorf("variable %s outside (%d, %d]", v, next, next2)
		}
	}
}

func TestInferIsIdempotent(t *testing.T) {
	update := must(ast.Update(ast.Local("person"), ast.Field("name", ast.String("x"))))
	exprs := []ast.Expression{
		must(ast.Fn([]string{"x"}, ast.Local("x"))),
		must(ast.Fn([]string{"person"}, update)),
		ast.List(ast.Int(1)),
	}
	for _, expr := range exprs {
		next, d := Infer(0, expr)
		annotated := ast.WithType(expr, d.Type)
		_, d2 := Infer(next, annotated)
		if !d2.OK() {
			t.Fatalf("re-inference failed: %v", d2.Errors)
		}
		if a, b := typesystem.FormatType(d.Type), typesystem.FormatType(d2.Type); a != b {
			t.Errorf("expected %s, got %s", a, b)
		}
	}
}

func TestInferKnownTypeMismatch(t *testing.T) {
	errs := inferErrors(t, ast.WithType(ast.Int(1), typesystem.String))
	cu, ok := errs[0].(*typesystem.CannotUnify)
	if !ok {
		t.Fatalf("expected CannotUnify, got %T", errs[0])
	}
	if cu.Context[0] != "the annotated type" {
		t.Errorf("unexpected context %v", cu.Context)
	}
}

func TestInferSharedSubtree(t *testing.T) {
	shared := ast.Int(1)
	_, d := Infer(0, ast.List(shared, shared))
	if len(d.Types) != 2 {
		t.Errorf("expected 2 entries, got %d", len(d.Types))
	}
	if got, ok := d.TypeOf(shared); !ok || typesystem.FormatType(got) != "Int" {
		t.Errorf("expected Int for shared node, got %v", got)
	}
}

func TestInferWithScope(t *testing.T) {
	scope := map[string]typesystem.Type{
		"f": typesystem.Func(typesystem.String, typesystem.Int),
	}
	if got := inferType(t, ast.Apply(ast.Local("f"), ast.Int(1)), WithScope(scope)); got != "String" {
		t.Errorf("expected String, got %s", got)
	}
}

func TestInferDeclarationSignature(t *testing.T) {
	sig := typesystem.Func(typesystem.Var("a"), typesystem.Var("a"))

	identity := ast.Declare("identity", must(ast.Fn([]string{"x"}, ast.Local("x")))).WithSignature(sig)
	_, d := InferDeclaration(0, identity)
	if !d.OK() {
		t.Fatalf("unexpected errors: %v", d.Errors)
	}
	if got := typesystem.FormatType(d.Type); got != "a -> a" {
		t.Errorf("expected a -> a, got %s", got)
	}

	constant := ast.Declare("f", must(ast.Fn([]string{"x"}, ast.Int(1)))).WithSignature(sig)
	_, d = InferDeclaration(0, constant)
	if d.OK() {
		t.Fatal("expected the signature to be rejected")
	}
}

func TestInferRecursiveDeclaration(t *testing.T) {
	// countdown n = if n < 1 then 0 else countdown (n - 1)
	cond := must(ast.Op("<", ast.Local("n"), ast.Int(1)))
	rec := ast.Apply(ast.Local("countdown"), must(ast.Op("-", ast.Local("n"), ast.Int(1))))
	body := must(ast.Fn([]string{"n"}, ast.If(cond, ast.Int(0), rec)))
	_, d := InferDeclaration(0, ast.Declare("countdown", body))
	if !d.OK() {
		t.Fatalf("unexpected errors: %v", d.Errors)
	}
	if got := typesystem.FormatType(d.Type); got != "Int -> Int" {
		t.Errorf("expected Int -> Int, got %s", got)
	}
}

func TestInferListOfRecords(t *testing.T) {
	point := func(x int64, y string) ast.Expression {
		return must(ast.Record(ast.Field("x", ast.Int(x)), ast.Field("y", ast.String(y))))
	}
	if got := inferType(t, ast.List(point(1, "a"), point(2, "b"), point(3, "c"))); got != "List { x : Int, y : String }" {
		t.Errorf("expected one uniform record type, got %s", got)
	}

	mixed := ast.List(point(1, "a"), must(ast.Record(ast.Field("x", ast.String("b")), ast.Field("y", ast.String("c")))))
	errs := inferErrors(t, mixed)
	if _, ok := errs[0].(*typesystem.CannotUnify); !ok {
		t.Errorf("expected CannotUnify, got %T", errs[0])
	}
}

func TestInferCaseReturningRecords(t *testing.T) {
	wrap := func(v ast.Expression) ast.Expression {
		return must(ast.Record(ast.Field("x", v)))
	}
	same := must(ast.Case(ast.Local("m"), nil,
		ast.Pattern("Just", []string{"n"}, wrap(ast.Local("n"))),
		ast.Pattern("Nothing", nil, wrap(ast.Int(0))),
	))
	if got := inferType(t, must(ast.Fn([]string{"m"}, same))); got != "Maybe Int -> { x : Int }" {
		t.Errorf("expected Maybe Int -> { x : Int }, got %s", got)
	}

	mismatched := must(ast.Case(ast.Local("m"), nil,
		ast.Pattern("Just", []string{"n"}, wrap(ast.Local("n"))),
		ast.Pattern("Nothing", nil, wrap(ast.String("none"))),
	))
	errs := inferErrors(t, must(ast.Fn([]string{"m"}, mismatched)))
	if _, ok := errs[0].(*typesystem.CannotUnify); !ok {
		t.Errorf("expected CannotUnify, got %T", errs[0])
	}
}

func TestInferApplicationWithoutArguments(t *testing.T) {
	if got := inferType(t, ast.Apply(ast.Int(1))); got != "Int" {
		t.Errorf("expected Int, got %s", got)
	}
	scope := WithScope(map[string]typesystem.Type{
		"f": typesystem.Func(typesystem.String, typesystem.Int),
	})
	if got := inferType(t, ast.Apply(ast.Local("f")), scope); got != "Int -> String" {
		t.Errorf("expected Int -> String, got %s", got)
	}
}

func TestOptionVariablesAreNumberedByName(t *testing.T) {
	values := map[string]typesystem.Type{
		"zeta":  typesystem.Var("z"),
		"alpha": typesystem.Var("a"),
		"mid":   typesystem.Var("m"),
		"beta":  typesystem.Var("b"),
	}
	for _, opt := range []Option{WithScope(values), WithGlobals(values)} {
		ctx := NewInferenceContext(0, opt)
		last := -1
		for _, name := range []string{"alpha", "beta", "mid", "zeta"} {
			sc, ok := ctx.scope.Lookup(name)
			if !ok {
				t.Fatalf("%s is not in scope", name)
			}
			v, ok := sc.Type.(typesystem.TVar)
			if !ok {
				t.Fatalf("expected a variable for %s, got %s", name, sc.Type)
			}
			if v.ID <= last {
				t.Errorf("%s got id %d after %d", name, v.ID, last)
			}
			last = v.ID
		}
	}
}
