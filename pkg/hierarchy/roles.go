package hierarchy

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/types"
)

// RolePatterns maps special roles to the glob patterns that select them.
// A pattern containing "/" is matched against the whole reference,
// otherwise against its base name.
type RolePatterns struct {
	Build      []string
	Entrypoint []string
}

// DefaultRolePatterns recognizes the bundled build descriptor and demo entry point
func DefaultRolePatterns() RolePatterns {
	return RolePatterns{
		Build:      []string{"project.mk"},
		Entrypoint: []string{"Main.scala"},
	}
}

// Validate checks every pattern is well formed
func (p RolePatterns) Validate() error {
	for _, pattern := range append(append([]string{}, p.Build...), p.Entrypoint...) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Newf(errors.ErrConfigValid, "invalid role pattern %q", pattern).
				WithDetail("pattern", pattern)
		}
	}
	return nil
}

// Classify returns the role of an untagged template reference.
// Build patterns are checked before entry point patterns.
func (p RolePatterns) Classify(ref string) types.Role {
	if matchAny(p.Build, ref) {
		return types.RoleBuildDescriptor
	}
	if matchAny(p.Entrypoint, ref) {
		return types.RoleEntrypoint
	}
	return types.RoleOpaque
}

func matchAny(patterns []string, ref string) bool {
	base := path.Base(ref)
	for _, pattern := range patterns {
		subject := base
		if strings.Contains(pattern, "/") {
			subject = path.Clean(ref)
		}
		if ok, _ := doublestar.Match(pattern, subject); ok {
			return true
		}
	}
	return false
}

// roleForTag maps an explicit YAML tag to a role
func roleForTag(tag string) (types.Role, bool) {
	switch tag {
	case "!build":
		return types.RoleBuildDescriptor, true
	case "!entrypoint":
		return types.RoleEntrypoint, true
	case "!copy":
		return types.RoleOpaque, true
	}
	return "", false
}
