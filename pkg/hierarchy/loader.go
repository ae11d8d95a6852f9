package hierarchy

import (
	"path"
	"strings"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
	"gopkg.in/yaml.v3"
)

// RootKey is the top level key holding the tree description
const RootKey = "hierarchy"

// Options controls normalization
type Options struct {
	Roles RolePatterns
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{Roles: DefaultRolePatterns()}
}

// Load reads and parses a hierarchy document from fsys
func Load(fsys types.FS, filename string, opts Options) (*types.Node, error) {
	data, err := fsys.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read hierarchy document %s", filename).
			WithDetail("path", filename)
	}
	root, err := Parse(data, opts)
	if err != nil {
		if ke, ok := err.(*errors.KnitkitError); ok {
			ke.WithDetail("file", filename)
		}
		return nil, err
	}
	return root, nil
}

// Parse parses a hierarchy document and normalizes its "hierarchy" mapping.
// The returned node is a KindDir with an empty name standing for the
// project root.
func Parse(data []byte, opts Options) (*types.Node, error) {
	logger := logging.GetLogger("hierarchy")

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid hierarchy document")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New(errors.ErrConfigShape, "hierarchy document is empty")
	}

	top := resolve(doc.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, shapeError(top, "", "document must be a mapping with a %q key", RootKey)
	}

	var tree *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value == RootKey {
			tree = resolve(top.Content[i+1])
			break
		}
	}
	if tree == nil {
		return nil, shapeError(top, "", "document has no %q key", RootKey)
	}
	if tree.Kind != yaml.MappingNode {
		return nil, shapeError(tree, "", "%q must be a mapping", RootKey)
	}

	n := &normalizer{opts: opts, active: make(map[*yaml.Node]bool)}
	root := types.NewDir("")
	children, err := n.mapping(tree, "")
	if err != nil {
		return nil, err
	}
	root.Children = children

	logger.Debug().
		Int("nodes", n.count).
		Int("templates", len(root.Templates())).
		Msg("normalized hierarchy")
	return root, nil
}

type normalizer struct {
	opts  Options
	count int
	// mappings currently being expanded, to stop self-referencing aliases
	active map[*yaml.Node]bool
}

func (n *normalizer) mapping(m *yaml.Node, prefix string) ([]*types.Node, error) {
	if n.active[m] {
		return nil, shapeError(m, prefix, "alias refers to a mapping that contains it")
	}
	n.active[m] = true
	defer delete(n.active, m)

	entries, err := n.mergedEntries(m, prefix)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(entries))
	children := make([]*types.Node, 0, len(entries))

	for _, e := range entries {
		keyNode := resolve(e.key)
		valueNode := resolve(e.value)

		if keyNode.Kind != yaml.ScalarNode {
			return nil, shapeError(keyNode, prefix, "entry names must be scalars")
		}
		name := keyNode.Value
		rel := path.Join(prefix, name)
		if reason := invalidName(name); reason != "" {
			return nil, shapeError(keyNode, rel, "invalid entry name %q: %s", name, reason)
		}
		if seen[name] {
			return nil, shapeError(keyNode, rel, "duplicate entry %q", name)
		}
		seen[name] = true

		child, err := n.value(name, rel, valueNode)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		n.count++
	}
	return children, nil
}

type entry struct {
	key, value *yaml.Node
}

// mergedEntries flattens the key/value pairs of m, splicing in the entries
// of any "<<" merge key at its position. Keys written in m override merged
// ones, and among several merged mappings the earlier one wins.
func (n *normalizer) mergedEntries(m *yaml.Node, prefix string) ([]entry, error) {
	explicit := make(map[string]bool, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := resolve(m.Content[i]); !isMergeKey(k) {
			explicit[k.Value] = true
		}
	}

	entries := make([]entry, 0, len(m.Content)/2)
	merged := make(map[string]bool)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keyNode := resolve(m.Content[i])
		if !isMergeKey(keyNode) {
			entries = append(entries, entry{m.Content[i], m.Content[i+1]})
			continue
		}

		sources, err := mergeSources(resolve(m.Content[i+1]), prefix)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			if n.active[src] {
				return nil, shapeError(keyNode, prefix, "merge refers to a mapping that contains it")
			}
			n.active[src] = true
			inner, err := n.mergedEntries(src, prefix)
			delete(n.active, src)
			if err != nil {
				return nil, err
			}
			for _, e := range inner {
				name := resolve(e.key).Value
				if explicit[name] || merged[name] {
					continue
				}
				merged[name] = true
				entries = append(entries, e)
			}
		}
	}
	return entries, nil
}

func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge"
}

// mergeSources accepts a mapping or a sequence of mappings as a merge value
func mergeSources(v *yaml.Node, prefix string) ([]*yaml.Node, error) {
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{v}, nil
	case yaml.SequenceNode:
		sources := make([]*yaml.Node, 0, len(v.Content))
		for _, item := range v.Content {
			item = resolve(item)
			if item.Kind != yaml.MappingNode {
				return nil, shapeError(item, prefix, "merge key takes mappings only")
			}
			sources = append(sources, item)
		}
		return sources, nil
	default:
		return nil, shapeError(v, prefix, "merge key takes a mapping or a list of mappings")
	}
}

func (n *normalizer) value(name, rel string, v *yaml.Node) (*types.Node, error) {
	switch v.Kind {
	case yaml.MappingNode:
		children, err := n.mapping(v, rel)
		if err != nil {
			return nil, err
		}
		return types.NewDir(name, children...), nil

	case yaml.ScalarNode:
		tag := v.ShortTag()
		if role, ok := roleForTag(tag); ok {
			if v.Value == "" {
				return nil, shapeError(v, rel, "%s needs a template reference", tag)
			}
			return types.NewTemplate(name, v.Value, role), nil
		}
		switch tag {
		case "!!null":
			return types.NewEmptyDir(name), nil
		case "!!str":
			if v.Value == "" {
				return types.NewEmptyDir(name), nil
			}
			return types.NewTemplate(name, v.Value, n.opts.Roles.Classify(v.Value)), nil
		default:
			return nil, shapeError(v, rel, "unsupported value %q (%s); expected a mapping, \"\" or a template reference", v.Value, tag)
		}

	case yaml.SequenceNode:
		return nil, shapeError(v, rel, "lists are not supported; expected a mapping, \"\" or a template reference")

	default:
		return nil, shapeError(v, rel, "unsupported node")
	}
}

// resolve follows aliases to the anchored node
func resolve(n *yaml.Node) *yaml.Node {
	for depth := 0; n.Kind == yaml.AliasNode && n.Alias != nil && depth < 32; depth++ {
		n = n.Alias
	}
	return n
}

// invalidName explains why name cannot be a directory entry, or returns ""
func invalidName(name string) string {
	switch {
	case name == "":
		return "empty name"
	case name == "." || name == "..":
		return "relative path component"
	case strings.ContainsAny(name, "/\\\x00"):
		return "names must be a single path element"
	}
	return ""
}

func shapeError(n *yaml.Node, rel string, format string, args ...interface{}) error {
	err := errors.Newf(errors.ErrConfigShape, format, args...).
		WithDetail("line", n.Line).
		WithDetail("column", n.Column)
	if rel != "" {
		err.WithDetail("path", rel)
		err.Message = rel + ": " + err.Message
	}
	return err
}
