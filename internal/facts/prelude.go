package facts

import (
	_ "embed"
	"sync"
)

//go:embed prelude.yaml
var preludeYAML []byte

var (
	preludeOnce  sync.Once
	preludeTable *Table
)

// Prelude returns the facts of the core packages. The table is built once
// and shared, so callers must not modify it; use LoadAll to extend it.
func Prelude() *Table {
	preludeOnce.Do(func() {
		t, err := Parse(preludeYAML, "prelude.yaml")
		if err != nil {
			panic(err)
		}
		preludeTable = t
	})
	return preludeTable
}
