package testutil

import (
	"path/filepath"
	"testing"

	"github.com/colin4124/knitkit/pkg/filesystem"
	"github.com/colin4124/knitkit/pkg/types"
	"github.com/stretchr/testify/require"
)

// EnvType selects the filesystem backing a test project
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // afero in-memory filesystem
	EnvIsolated                  // real filesystem under t.TempDir()
)

// Project is an isolated project root for a single test
type Project struct {
	FS      types.FS
	Context types.ProjectContext
	// Home is a scratch directory beside the root for sources and settings
	Home string
}

// NewProject creates an existing, empty project root named name
func NewProject(t *testing.T, envType EnvType, name string) *Project {
	t.Helper()

	var (
		fsys types.FS
		base string
	)
	switch envType {
	case EnvIsolated:
		fsys = filesystem.NewOS()
		base = t.TempDir()
	default:
		fsys = filesystem.NewMemory()
		base = "/test"
	}

	p := &Project{
		FS:      fsys,
		Context: types.ProjectContext{Name: name, Root: filepath.Join(base, "work", name)},
		Home:    filepath.Join(base, "home"),
	}
	require.NoError(t, fsys.MkdirAll(p.Context.Root, 0755))
	require.NoError(t, fsys.MkdirAll(p.Home, 0755))
	return p
}

// Path joins a slash-separated relative path onto the project root
func (p *Project) Path(rel string) string {
	return p.Context.Abs(rel)
}

// HomeFile writes a file below Home and returns its path
func (p *Project) HomeFile(t *testing.T, rel string, data []byte) string {
	t.Helper()
	full := filepath.Join(p.Home, filepath.FromSlash(rel))
	require.NoError(t, p.FS.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, p.FS.WriteFile(full, data, 0644))
	return full
}
