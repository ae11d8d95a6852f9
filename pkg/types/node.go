package types

import (
	"fmt"
	"path"
)

// NodeKind discriminates the Node variant
type NodeKind int

const (
	// KindDir is an inner node: a directory with described children
	KindDir NodeKind = iota
	// KindEmptyDir is the empty marker: a directory with nothing declared inside
	KindEmptyDir
	// KindTemplate is a file produced from a template reference
	KindTemplate
)

// String returns a human-readable name for the kind
func (k NodeKind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindEmptyDir:
		return "empty-dir"
	case KindTemplate:
		return "template"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Role classifies how a template leaf is materialized
type Role string

const (
	// RoleOpaque templates are copied byte for byte
	RoleOpaque Role = "copy"
	// RoleBuildDescriptor templates are rendered with toolchain path substitutions
	RoleBuildDescriptor Role = "build"
	// RoleEntrypoint templates pass through the renderer unchanged
	RoleEntrypoint Role = "entrypoint"
)

// Roles lists the closed set of roles
var Roles = []Role{RoleOpaque, RoleBuildDescriptor, RoleEntrypoint}

// IsSpecial reports whether the role goes through the renderer
func (r Role) IsSpecial() bool {
	return r == RoleBuildDescriptor || r == RoleEntrypoint
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Node is one entry of a normalized hierarchy description.
// Exactly one of Children (KindDir) or Template/Role (KindTemplate) is
// meaningful, depending on Kind.
type Node struct {
	Name     string
	Kind     NodeKind
	Children []*Node
	Template string
	Role     Role
}

// NewDir creates an inner node
func NewDir(name string, children ...*Node) *Node {
	return &Node{Name: name, Kind: KindDir, Children: children}
}

// NewEmptyDir creates an empty-marker leaf
func NewEmptyDir(name string) *Node {
	return &Node{Name: name, Kind: KindEmptyDir}
}

// NewTemplate creates a template leaf
func NewTemplate(name, template string, role Role) *Node {
	return &Node{Name: name, Kind: KindTemplate, Template: template, Role: role}
}

// Child returns the direct child with the given name, or nil
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Walk visits every descendant of n in pre-order, passing the slash-separated
// path relative to n. n itself is not visited.
func (n *Node) Walk(fn func(rel string, node *Node) error) error {
	return n.walk("", fn)
}

func (n *Node) walk(prefix string, fn func(rel string, node *Node) error) error {
	for _, c := range n.Children {
		rel := path.Join(prefix, c.Name)
		if err := fn(rel, c); err != nil {
			return err
		}
		if c.Kind == KindDir {
			if err := c.walk(rel, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeclaredPaths returns every declared path below n in pre-order
func (n *Node) DeclaredPaths() []string {
	var paths []string
	_ = n.Walk(func(rel string, _ *Node) error {
		paths = append(paths, rel)
		return nil
	})
	return paths
}

// Templates returns the distinct template references below n in first-use order
func (n *Node) Templates() []string {
	seen := make(map[string]bool)
	var refs []string
	_ = n.Walk(func(_ string, node *Node) error {
		if node.Kind == KindTemplate && !seen[node.Template] {
			seen[node.Template] = true
			refs = append(refs, node.Template)
		}
		return nil
	})
	return refs
}
