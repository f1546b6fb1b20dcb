package main

import (
	"errors"
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/utils"
	"os"
	"path/filepath"
)

// project is the optional gencode.toml found above the working directory.
type project struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Render renderConfig `toml:"render"`
	Facts  factsConfig  `toml:"facts"`
}

type renderConfig struct {
	OutDir    string `toml:"out_dir"`
	LineWidth int    `toml:"line_width"`
}

type factsConfig struct {
	Files   []string `toml:"files"`
	Prelude bool     `toml:"prelude"`
}

func defaultProjectConfig() projectConfig {
	return projectConfig{
		Render: renderConfig{OutDir: ".", LineWidth: config.DefaultLineWidth},
		Facts:  factsConfig{Prelude: true},
	}
}

// defaultProject is used when no project file exists; paths are relative to
// the working directory.
func defaultProject() *project {
	return &project{Root: ".", Config: defaultProjectConfig()}
}

func findProjectFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, config.ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProject reads the project file at path, or looks for one above startDir
// when path is empty.
func loadProject(path, startDir string) (*project, error) {
	if path == "" {
		found, ok, err := findProjectFile(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return defaultProject(), nil
		}
		path = found
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, err
	}
	return &project{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	cfg := defaultProjectConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("render", "line_width") && cfg.Render.LineWidth <= 0 {
		return projectConfig{}, fmt.Errorf("%s: [render].line_width must be positive", path)
	}
	if meta.IsDefined("render", "out_dir") && cfg.Render.OutDir == "" {
		return projectConfig{}, fmt.Errorf("%s: [render].out_dir must not be empty", path)
	}
	return cfg, nil
}

// OutDir is the directory rendered modules are written to.
func (p *project) OutDir() string {
	return utils.ResolveRelative(p.Root, p.Config.Render.OutDir)
}

// FactsFiles are the project-wide facts files, resolved against the root.
func (p *project) FactsFiles() []string {
	paths := make([]string, len(p.Config.Facts.Files))
	for i, f := range p.Config.Facts.Files {
		paths[i] = utils.ResolveRelative(p.Root, f)
	}
	return paths
}
