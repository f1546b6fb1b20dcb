// Package facts holds what the inference engine knows about modules outside
// the tree being generated: the types of their exported values and their
// custom types.
//
// A Table is filled once, from YAML files, msgpack snapshots or code, and
// then only read. Concurrent lookups are safe; concurrent mutation is not.
package facts

import (
	"errors"
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
	"sort"
)

var (
	ErrDuplicateValue       = errors.New("duplicate value")
	ErrDuplicateType        = errors.New("duplicate type")
	ErrDuplicateConstructor = errors.New("duplicate constructor")
	ErrUnboundTypeVariable  = errors.New("unbound type variable")
)

// Table implements analyzer.Facts.
type Table struct {
	values map[string]typesystem.Type
	unions map[string]*typesystem.Union
	ctors  map[string]*typesystem.Union
	// modules keeps the declaration order of each module's names.
	modules map[string]*moduleIndex
}

type moduleIndex struct {
	values []string
	unions []string
}

func New() *Table {
	return &Table{
		values:  make(map[string]typesystem.Type),
		unions:  make(map[string]*typesystem.Union),
		ctors:   make(map[string]*typesystem.Union),
		modules: make(map[string]*moduleIndex),
	}
}

func key(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}

func (t *Table) module(name string) *moduleIndex {
	m, ok := t.modules[name]
	if !ok {
		m = &moduleIndex{}
		t.modules[name] = m
	}
	return m
}

// AddValue records the type of module.name. Type variables in typ are
// caller-named.
func (t *Table) AddValue(module, name string, typ typesystem.Type) error {
	k := key(module, name)
	if _, ok := t.values[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateValue, k)
	}
	t.values[k] = typ
	m := t.module(module)
	m.values = append(m.values, name)
	return nil
}

// AddUnion records a custom type and its constructors. Constructor arguments
// may only mention the union's parameters.
func (t *Table) AddUnion(u *typesystem.Union) error {
	module := ast.JoinPath(u.Module)
	k := key(module, u.Name)
	if _, ok := t.unions[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, k)
	}
	params := make(map[string]bool, len(u.Params))
	for _, p := range u.Params {
		params[p] = true
	}
	seen := make(map[string]bool, len(u.Variants))
	for _, v := range u.Variants {
		ck := key(module, v.Name)
		if _, ok := t.ctors[ck]; ok || seen[v.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateConstructor, ck)
		}
		seen[v.Name] = true
		for _, arg := range v.Args {
			if arg == nil {
				continue
			}
			for _, tv := range arg.FreeTypeVariables() {
				if !params[tv.Name] {
					return fmt.Errorf("%w %s in constructor %s", ErrUnboundTypeVariable, tv.Name, ck)
				}
			}
		}
	}
	t.unions[k] = u
	for _, v := range u.Variants {
		t.ctors[key(module, v.Name)] = u
	}
	m := t.module(module)
	m.unions = append(m.unions, u.Name)
	return nil
}

// Merge copies every fact of other into t. A name known to both is an error.
func (t *Table) Merge(other *Table) error {
	for _, module := range other.Modules() {
		m := other.modules[module]
		for _, name := range m.values {
			if err := t.AddValue(module, name, other.values[key(module, name)]); err != nil {
				return err
			}
		}
		for _, name := range m.unions {
			if err := t.AddUnion(other.unions[key(module, name)]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Modules returns the names of all described modules, sorted.
func (t *Table) Modules() []string {
	names := make([]string, 0, len(t.modules))
	for name := range t.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of values and custom types in the table.
func (t *Table) Len() int {
	return len(t.values) + len(t.unions)
}

func (t *Table) LookupValue(module []string, name string) (typesystem.Type, bool) {
	if t == nil {
		return nil, false
	}
	typ, ok := t.values[key(ast.JoinPath(module), name)]
	return typ, ok
}

func (t *Table) LookupUnion(module []string, name string) (*typesystem.Union, bool) {
	if t == nil {
		return nil, false
	}
	u, ok := t.unions[key(ast.JoinPath(module), name)]
	return u, ok
}

func (t *Table) LookupConstructor(module []string, name string) (*typesystem.Union, bool) {
	if t == nil {
		return nil, false
	}
	u, ok := t.ctors[key(ast.JoinPath(module), name)]
	return u, ok
}
