package facts

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/parser"
	"github.com/funvibe/gencode/internal/typesystem"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// snapshotSchema is bumped whenever Document changes shape.
const snapshotSchema uint16 = 1

var ErrSnapshotSchema = errors.New("unsupported facts snapshot schema")

// Document is the serialized form of a Table. Types are written in the
// target language's syntax, so YAML files stay hand-editable.
//
//	modules:
//	  - module: Json.Decode
//	    values:
//	      string: Decoder String
//	      field: String -> Decoder a -> Decoder a
//	    types:
//	      - name: Decoder
//	        params: [a]
type Document struct {
	Schema  uint16           `yaml:"-" msgpack:"schema"`
	Modules []ModuleDocument `yaml:"modules" msgpack:"modules"`
}

type ModuleDocument struct {
	Module string            `yaml:"module" msgpack:"module"`
	Values map[string]string `yaml:"values,omitempty" msgpack:"values"`
	Types  []UnionDocument   `yaml:"types,omitempty" msgpack:"types"`
}

// UnionDocument describes a custom type. Each constructor is written as a
// type application: "Just a", "Pair (List a) Int", "Nothing".
type UnionDocument struct {
	Name         string   `yaml:"name" msgpack:"name"`
	Params       []string `yaml:"params,omitempty" msgpack:"params"`
	Constructors []string `yaml:"constructors,omitempty" msgpack:"constructors"`
}

// FromDocument builds a table. source names the origin in error messages.
func FromDocument(doc *Document, source string) (*Table, error) {
	t := New()
	for i, m := range doc.Modules {
		if m.Module == "" {
			return nil, fmt.Errorf("%s: modules[%d]: module is required", source, i)
		}
		names := make([]string, 0, len(m.Values))
		for name := range m.Values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !typesystem.IsLowerIdent(name) {
				return nil, fmt.Errorf("%s: %s: invalid value name %q", source, m.Module, name)
			}
			typ, err := parser.ParseType(m.Values[name])
			if err != nil {
				return nil, fmt.Errorf("%s: %s.%s: %w", source, m.Module, name, err)
			}
			if err := t.AddValue(m.Module, name, typ); err != nil {
				return nil, fmt.Errorf("%s: %w", source, err)
			}
		}
		for _, ud := range m.Types {
			u, err := ud.union(m.Module)
			if err != nil {
				return nil, fmt.Errorf("%s: %s.%s: %w", source, m.Module, ud.Name, err)
			}
			if err := t.AddUnion(u); err != nil {
				return nil, fmt.Errorf("%s: %w", source, err)
			}
		}
	}
	return t, nil
}

func (ud UnionDocument) union(module string) (*typesystem.Union, error) {
	if ud.Name == "" || typesystem.IsLowerIdent(ud.Name) {
		return nil, fmt.Errorf("invalid type name %q", ud.Name)
	}
	for _, p := range ud.Params {
		if !typesystem.IsLowerIdent(p) {
			return nil, fmt.Errorf("invalid type parameter %q", p)
		}
	}
	u := &typesystem.Union{Module: ast.ModulePath(module), Name: ud.Name, Params: ud.Params}
	for _, c := range ud.Constructors {
		v, err := parseConstructor(c)
		if err != nil {
			return nil, err
		}
		u.Variants = append(u.Variants, v)
	}
	return u, nil
}

func parseConstructor(s string) (typesystem.Variant, error) {
	typ, err := parser.ParseType(s)
	if err != nil {
		return typesystem.Variant{}, fmt.Errorf("constructor %q: %w", s, err)
	}
	switch t := typ.(type) {
	case typesystem.TNamed:
		if len(t.Module) > 0 {
			return typesystem.Variant{}, fmt.Errorf("constructor %q must not be qualified", s)
		}
		return typesystem.Variant{Name: t.Name, Args: t.Args}, nil
	case typesystem.TCon:
		return typesystem.Variant{Name: t.Name}, nil
	default:
		return typesystem.Variant{}, fmt.Errorf("invalid constructor %q", s)
	}
}

// Document returns the serialized form of the table with modules sorted by
// name and types in declaration order.
func (t *Table) Document() *Document {
	doc := &Document{Schema: snapshotSchema}
	for _, module := range t.Modules() {
		idx := t.modules[module]
		md := ModuleDocument{Module: module}
		if len(idx.values) > 0 {
			md.Values = make(map[string]string, len(idx.values))
			for _, name := range idx.values {
				md.Values[name] = typesystem.FormatType(t.values[key(module, name)])
			}
		}
		for _, name := range idx.unions {
			u := t.unions[key(module, name)]
			ud := UnionDocument{Name: u.Name, Params: u.Params}
			for _, v := range u.Variants {
				ud.Constructors = append(ud.Constructors, typesystem.FormatType(typesystem.TNamed{Name: v.Name, Args: v.Args}))
			}
			md.Types = append(md.Types, ud)
		}
		doc.Modules = append(doc.Modules, md)
	}
	return doc
}

// Parse reads a YAML facts document.
func Parse(data []byte, source string) (*Table, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	return FromDocument(&doc, source)
}

// YAML writes the table as a YAML facts document.
func (t *Table) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t.Document()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshot writes the table in the binary snapshot format.
func (t *Table) WriteSnapshot(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(t.Document())
}

// ReadSnapshot reads a table written by WriteSnapshot.
func ReadSnapshot(r io.Reader, source string) (*Table, error) {
	var doc Document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	if doc.Schema != snapshotSchema {
		return nil, fmt.Errorf("%s: %w %d", source, ErrSnapshotSchema, doc.Schema)
	}
	return FromDocument(&doc, source)
}

// IsSnapshot reports whether path names a binary snapshot rather than YAML.
func IsSnapshot(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack":
		return true
	}
	return false
}

// Load reads a facts file, YAML or snapshot depending on its extension.
func Load(path string) (*Table, error) {
	if IsSnapshot(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading facts %s: %w", path, err)
		}
		defer f.Close()
		return ReadSnapshot(f, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facts %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadAll loads and merges several facts files into base. base may be nil.
func LoadAll(base *Table, paths ...string) (*Table, error) {
	t := New()
	if base != nil {
		if err := t.Merge(base); err != nil {
			return nil, err
		}
	}
	for _, path := range paths {
		other, err := Load(path)
		if err != nil {
			return nil, err
		}
		if err := t.Merge(other); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return t, nil
}

// WriteSnapshotFile writes the snapshot atomically through a temporary file.
func (t *Table) WriteSnapshotFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "facts-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := t.WriteSnapshot(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
