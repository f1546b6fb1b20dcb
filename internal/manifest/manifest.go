// Package manifest reads YAML descriptions of modules to generate.
//
// A manifest names the module, what it exposes, and its declarations. A
// declaration body is either expression text in the target language or a
// structured node tree:
//
//	module: Counter
//	exposing: [init, increment]
//	facts: [vendor/http.yaml]
//	declarations:
//	  - name: init
//	    doc: The initial model.
//	    body:
//	      record:
//	        count: { int: 0 }
//	  - name: increment
//	    params: [model]
//	    body: "{ model | count = model.count + 1 }"
package manifest

import (
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/parser"
	"github.com/funvibe/gencode/internal/typesystem"
	"github.com/funvibe/gencode/internal/utils"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

// Manifest is the decoded form of a manifest file.
type Manifest struct {
	Module string `yaml:"module"`
	// Exposing lists exported names. Omitted means everything.
	Exposing     []string      `yaml:"exposing,omitempty"`
	Facts        []string      `yaml:"facts,omitempty"`
	Declarations []Declaration `yaml:"declarations"`

	path string
}

type Declaration struct {
	Name      string    `yaml:"name"`
	Doc       string    `yaml:"doc,omitempty"`
	Signature string    `yaml:"signature,omitempty"`
	Params    []string  `yaml:"params,omitempty"`
	Body      yaml.Node `yaml:"body"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes manifest content. The path is used for error messages and to
// resolve relative facts files.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m.path = path
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Module == "" {
		return fmt.Errorf("%s: module is required", m.path)
	}
	for _, seg := range ast.ModulePath(m.Module) {
		if seg == "" || typesystem.IsLowerIdent(seg) {
			return fmt.Errorf("%s: invalid module name %q", m.path, m.Module)
		}
	}
	seen := make(map[string]bool, len(m.Declarations))
	for i, d := range m.Declarations {
		if !typesystem.IsLowerIdent(d.Name) {
			return fmt.Errorf("%s: declarations[%d]: invalid name %q", m.path, i, d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("%s: declarations[%d]: duplicate declaration %s", m.path, i, d.Name)
		}
		seen[d.Name] = true
		if d.Body.Kind == 0 {
			return fmt.Errorf("%s: %s: body is required", m.path, d.Name)
		}
	}
	return nil
}

// Path returns the file the manifest was read from.
func (m *Manifest) Path() string {
	return m.path
}

// FactsPaths returns the facts files, relative paths resolved against the
// manifest's directory.
func (m *Manifest) FactsPaths() []string {
	dir := filepath.Dir(m.path)
	paths := make([]string, len(m.Facts))
	for i, p := range m.Facts {
		paths[i] = utils.ResolveRelative(dir, p)
	}
	return paths
}

// File builds the module tree.
func (m *Manifest) File() (ast.File, error) {
	f := ast.File{Module: m.Module, Exposing: m.Exposing}
	for _, d := range m.Declarations {
		decl, err := d.declaration()
		if err != nil {
			return ast.File{}, fmt.Errorf("%s: %w", m.path, err)
		}
		f.Declarations = append(f.Declarations, decl)
	}
	return f, nil
}

func (d Declaration) declaration() (*ast.Declaration, error) {
	body, err := decodeExpression(&d.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	if len(d.Params) > 0 {
		fn, err := ast.Fn(d.Params, body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
		body = fn
	}
	decl := ast.Declare(d.Name, body)
	if doc := strings.TrimSpace(d.Doc); doc != "" {
		decl = decl.WithDoc(doc)
	}
	if d.Signature != "" {
		sig, err := parser.ParseType(d.Signature)
		if err != nil {
			return nil, fmt.Errorf("%s: signature: %w", d.Name, err)
		}
		decl = decl.WithSignature(sig)
	}
	return decl, nil
}
