package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/colin4124/knitkit/pkg/types"
)

// Op is one recorded filesystem call
type Op struct {
	Name string
	Path string
}

// FaultFS wraps a types.FS, recording mutating calls and failing the ones
// registered with FailOn.
type FaultFS struct {
	types.FS

	mu     sync.Mutex
	ops    []Op
	faults map[string]error
}

// NewFaultFS wraps inner
func NewFaultFS(inner types.FS) *FaultFS {
	return &FaultFS{FS: inner, faults: make(map[string]error)}
}

// FailOn makes every later operation named op on path return err.
// An empty op matches any operation on path.
func (f *FaultFS) FailOn(op, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[faultKey(op, path)] = err
}

// Ops returns the recorded mutating operations in call order
func (f *FaultFS) Ops() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Op, len(f.ops))
	copy(out, f.ops)
	return out
}

// Touched returns the paths of the recorded operations
func (f *FaultFS) Touched() []string {
	ops := f.Ops()
	paths := make([]string, 0, len(ops))
	for _, op := range ops {
		paths = append(paths, op.Path)
	}
	return paths
}

func faultKey(op, path string) string {
	return op + "\x00" + filepath.Clean(path)
}

func (f *FaultFS) record(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, Op{Name: op, Path: path})
	if err, ok := f.faults[faultKey(op, path)]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	if err, ok := f.faults[faultKey("", path)]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (f *FaultFS) Mkdir(name string, perm fs.FileMode) error {
	if err := f.record("mkdir", name); err != nil {
		return err
	}
	return f.FS.Mkdir(name, perm)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.record("mkdirall", path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultFS) CreateFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.record("create", name); err != nil {
		return err
	}
	return f.FS.CreateFile(name, data, perm)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.record("write", name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultFS) Chmod(name string, mode fs.FileMode) error {
	if err := f.record("chmod", name); err != nil {
		return err
	}
	return f.FS.Chmod(name, mode)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.record("symlink", newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}
