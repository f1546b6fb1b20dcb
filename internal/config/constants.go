package config

const SourceFileExt = ".elm"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".elm"}

// ManifestFileExtensions are the module manifest extensions accepted by the CLI.
var ManifestFileExtensions = []string{".yaml", ".yml"}

// ProjectFileName is the optional project configuration looked up by the CLI.
const ProjectFileName = "gencode.toml"

// Layout
const (
	IndentWidth      = 4
	DefaultLineWidth = 100
)

// PlaceholderTypeName is printed in place of a type that could not be inferred.
// It is a valid type variable name, so the emitted text still parses.
const PlaceholderTypeName = "unknown"

// WildcardPattern is the catch-all branch tag of a case expression.
const WildcardPattern = "_"

// Built-in type names
const (
	StringTypeName = "String"
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	BoolTypeName   = "Bool"
	CharTypeName   = "Char"
	ListTypeName   = "List"
	MaybeTypeName  = "Maybe"
	ResultTypeName = "Result"
	OrderTypeName  = "Order"
	NeverTypeName  = "Never"
)

// Built-in constructor names
const (
	TrueCtorName    = "True"
	FalseCtorName   = "False"
	JustCtorName    = "Just"
	NothingCtorName = "Nothing"
	OkCtorName      = "Ok"
	ErrCtorName     = "Err"
)

// ImplicitModules are imported by default in every module of the target
// language; references into them never produce an import line.
var ImplicitModules = map[string]bool{
	"Basics":       true,
	"List":         true,
	"Maybe":        true,
	"Result":       true,
	"String":       true,
	"Char":         true,
	"Tuple":        true,
	"Debug":        true,
	"Platform":     true,
	"Platform.Cmd": true,
	"Platform.Sub": true,
}

// Reserved words of the target language. Names colliding with them are
// suffixed with an underscore by the renderer.
var Keywords = map[string]bool{
	"if":       true,
	"then":     true,
	"else":     true,
	"case":     true,
	"of":       true,
	"let":      true,
	"in":       true,
	"type":     true,
	"module":   true,
	"where":    true,
	"import":   true,
	"exposing": true,
	"as":       true,
	"port":     true,
	"alias":    true,
	"infix":    true,
}

// SafeName appends an underscore to names that collide with a keyword, so
// that generated fields and variables stay valid identifiers.
func SafeName(name string) string {
	if Keywords[name] {
		return name + "_"
	}
	return name
}

// HasSourceExt reports whether path ends with a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// TrimSourceExt removes a recognized source extension from name.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
