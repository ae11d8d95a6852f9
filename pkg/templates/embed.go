package templates

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assets embed.FS

// DefaultHierarchyName is the bundled hierarchy document
const DefaultHierarchyName = "assets/default.yaml"

// Bundled returns a store over the templates compiled into the binary
func Bundled() *FSStore {
	return NewFSStore(assets)
}

// Assets exposes the embedded asset tree
func Assets() fs.FS {
	return assets
}

// DefaultHierarchy returns the content of the bundled hierarchy document
func DefaultHierarchy() []byte {
	data, err := assets.ReadFile(DefaultHierarchyName)
	if err != nil {
		panic("embedded default hierarchy missing: " + err.Error())
	}
	return data
}
