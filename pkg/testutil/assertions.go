package testutil

import (
	"testing"

	"github.com/colin4124/knitkit/pkg/types"
	"github.com/stretchr/testify/assert"
)

// AssertFileContent checks that path is a regular file holding expected
func AssertFileContent(t *testing.T, fsys types.FS, path, expected string) bool {
	t.Helper()
	data, err := fsys.ReadFile(path)
	if !assert.NoError(t, err, "reading %s", path) {
		return false
	}
	return assert.Equal(t, expected, string(data), "content of %s", path)
}

// AssertDirExists checks that path is a directory
func AssertDirExists(t *testing.T, fsys types.FS, path string) bool {
	t.Helper()
	info, err := fsys.Stat(path)
	if !assert.NoError(t, err, "stat %s", path) {
		return false
	}
	return assert.True(t, info.IsDir(), "%s should be a directory", path)
}

// AssertFileExists checks that path is a regular file
func AssertFileExists(t *testing.T, fsys types.FS, path string) bool {
	t.Helper()
	info, err := fsys.Stat(path)
	if !assert.NoError(t, err, "stat %s", path) {
		return false
	}
	return assert.False(t, info.IsDir(), "%s should be a file", path)
}

// AssertNotExists checks that nothing exists at path
func AssertNotExists(t *testing.T, fsys types.FS, path string) bool {
	t.Helper()
	_, err := fsys.Stat(path)
	return assert.Error(t, err, "%s should not exist", path)
}
