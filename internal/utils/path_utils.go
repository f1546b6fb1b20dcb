package utils

import (
	"github.com/funvibe/gencode/internal/config"
	"path/filepath"
	"strings"
)

// ResolveRelative resolves path against baseDir unless it is absolute.
func ResolveRelative(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" || baseDir == "." {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ModuleFilePath is where a module's source lives under root:
// "Page.Home" becomes root/Page/Home.elm.
func ModuleFilePath(root, module string) string {
	parts := strings.Split(module, ".")
	parts[len(parts)-1] += config.SourceFileExt
	return filepath.Join(append([]string{root}, parts...)...)
}

// IsManifestFile reports whether path has a manifest extension.
func IsManifestFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range config.ManifestFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
