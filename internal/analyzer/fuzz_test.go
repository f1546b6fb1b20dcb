package analyzer

import (
	"github.com/funvibe/gencode/internal/testgen"
	"github.com/funvibe/gencode/internal/typesystem"
	"testing"
)

// FuzzInferStable runs inference on mutated trees, which are mostly ill
// typed. Inference must not panic, and the outcome must not depend on the
// counter it starts from.
func FuzzInferStable(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{14, 1, 1, 2, 0, 4})
	f.Add([]byte{9, 0, 1, 0, 2, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 512 {
			return
		}
		expr := testgen.NewFromData(data).Expression()
		testgen.NewMutatorFromData(data).Mutate(expr)

		_, first := Infer(0, expr)
		_, second := Infer(1000, expr)
		if a, b := typesystem.FormatType(first.Type), typesystem.FormatType(second.Type); a != b {
			t.Errorf("type depends on the start counter: %s vs %s", a, b)
		}
		if len(first.Errors) != len(second.Errors) {
			t.Errorf("errors depend on the start counter: %v vs %v", first.Errors, second.Errors)
		}
	})
}
