package types

import (
	"io/fs"
)

// FS is the filesystem surface knitkit mutates the project through
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	// Lstat describes a symlink itself rather than its target
	Lstat(name string) (fs.FileInfo, error)
	Open(name string) (fs.File, error)
	ReadFile(name string) ([]byte, error)

	// Mkdir creates a single directory and fails if it already exists
	Mkdir(name string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error

	// CreateFile writes a new file and fails if name already exists
	CreateFile(name string, data []byte, perm fs.FileMode) error
	WriteFile(name string, data []byte, perm fs.FileMode) error

	Chmod(name string, mode fs.FileMode) error
	Symlink(oldname, newname string) error
}

// TemplateStore resolves logical template names to their raw content
type TemplateStore interface {
	// Lookup returns the template bytes or a TEMPLATE_NOT_FOUND error
	Lookup(name string) ([]byte, error)
	// Has reports whether name resolves
	Has(name string) bool
}
