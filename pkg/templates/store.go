package templates

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/types"
)

// cleanName normalizes a template reference to an fs.FS path
func cleanName(name string) (string, bool) {
	name = strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "./")
	return name, fs.ValidPath(name) && name != "."
}

func notFound(name string) error {
	return errors.Newf(errors.ErrTemplateNotFound, "template %q not found", name).
		WithDetail("template", name)
}

// FSStore resolves templates from an fs.FS
type FSStore struct {
	fsys fs.FS
}

// NewFSStore creates a store over fsys
func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// NewDirStore creates a store over a directory on disk
func NewDirStore(dir string) *FSStore {
	return NewFSStore(os.DirFS(dir))
}

// Lookup implements types.TemplateStore
func (s *FSStore) Lookup(name string) ([]byte, error) {
	clean, ok := cleanName(name)
	if !ok {
		return nil, notFound(name)
	}
	data, err := fs.ReadFile(s.fsys, clean)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateNotFound, "template %q not found", name).
			WithDetail("template", name)
	}
	return data, nil
}

// Has implements types.TemplateStore
func (s *FSStore) Has(name string) bool {
	clean, ok := cleanName(name)
	if !ok {
		return false
	}
	info, err := fs.Stat(s.fsys, clean)
	return err == nil && !info.IsDir()
}

// MemoryStore is a map-backed store
type MemoryStore struct {
	files map[string][]byte
}

// NewMemoryStore creates a store from name → content pairs
func NewMemoryStore(files map[string]string) *MemoryStore {
	m := &MemoryStore{files: make(map[string][]byte, len(files))}
	for name, content := range files {
		m.Add(name, []byte(content))
	}
	return m
}

// Add registers or replaces a template
func (m *MemoryStore) Add(name string, content []byte) {
	clean, _ := cleanName(name)
	m.files[clean] = content
}

// Names returns the registered template names, sorted
func (m *MemoryStore) Names() []string {
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup implements types.TemplateStore
func (m *MemoryStore) Lookup(name string) ([]byte, error) {
	clean, ok := cleanName(name)
	if !ok {
		return nil, notFound(name)
	}
	data, found := m.files[clean]
	if !found {
		return nil, notFound(name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Has implements types.TemplateStore
func (m *MemoryStore) Has(name string) bool {
	clean, ok := cleanName(name)
	if !ok {
		return false
	}
	_, found := m.files[clean]
	return found
}

// Layered resolves a name against each store in turn; the first hit wins
type Layered []types.TemplateStore

// Lookup implements types.TemplateStore
func (l Layered) Lookup(name string) ([]byte, error) {
	for _, s := range l {
		if s.Has(name) {
			return s.Lookup(name)
		}
	}
	return nil, notFound(name)
}

// Has implements types.TemplateStore
func (l Layered) Has(name string) bool {
	for _, s := range l {
		if s.Has(name) {
			return true
		}
	}
	return false
}

// Default returns the bundled store, overlaid by dir when dir is set
func Default(dir string) types.TemplateStore {
	if dir == "" {
		return Bundled()
	}
	return Layered{NewDirStore(dir), Bundled()}
}
