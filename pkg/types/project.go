package types

import (
	"path/filepath"
)

// Toolchain layout, relative to the project root
const (
	ToolchainDirName = ".knitkit"
	MillBinName      = "mill"
	JarsDirName      = "jars"
	CacheDirName     = ".cache"
	KnitkitJarName   = "knitkit.jar"
)

// Substitution keys available to build descriptor templates
const (
	SubstMillPath      = "mill_path"
	SubstMillLibPath   = "mill_lib_path"
	SubstMillCachePath = "mill_cache_path"
	SubstProjectName   = "project_name"
)

// ProjectContext describes the project a command operates on
type ProjectContext struct {
	// Name is the project name as given on the command line ("." for cwd)
	Name string
	// Root is the absolute project root
	Root string
}

// NewProjectContext resolves name against the current working directory
func NewProjectContext(name string) (ProjectContext, error) {
	if name == "" {
		name = "."
	}
	root, err := filepath.Abs(name)
	if err != nil {
		return ProjectContext{}, err
	}
	return ProjectContext{Name: name, Root: root}, nil
}

// IsCurrentDir reports whether the project is the current directory
func (p ProjectContext) IsCurrentDir() bool {
	return filepath.Clean(p.Name) == "."
}

// DisplayName returns the base name of the root
func (p ProjectContext) DisplayName() string {
	return filepath.Base(p.Root)
}

// ToolchainDir is the hidden toolchain directory, relative to the root
func (p ProjectContext) ToolchainDir() string {
	return ToolchainDirName
}

// MillPath is the build runner location, relative to the root
func (p ProjectContext) MillPath() string {
	return ToolchainDirName + "/" + MillBinName
}

// MillLibPath is the dependency jar directory, relative to the root
func (p ProjectContext) MillLibPath() string {
	return ToolchainDirName + "/" + JarsDirName
}

// MillCachePath is the dependency cache directory, relative to the root
func (p ProjectContext) MillCachePath() string {
	return ToolchainDirName + "/" + CacheDirName
}

// KnitkitJarPath is the library jar, relative to the root
func (p ProjectContext) KnitkitJarPath() string {
	return p.MillLibPath() + "/" + KnitkitJarName
}

// Abs joins a root-relative slash path onto the root
func (p ProjectContext) Abs(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Substitutions returns the values available to parametrized templates
func (p ProjectContext) Substitutions() map[string]string {
	return map[string]string{
		SubstMillPath:      p.MillPath(),
		SubstMillLibPath:   p.MillLibPath(),
		SubstMillCachePath: p.MillCachePath(),
		SubstProjectName:   p.DisplayName(),
	}
}
