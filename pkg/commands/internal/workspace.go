// Package internal wires settings into the generation pipeline shared by
// the project commands.
package internal

import (
	"github.com/colin4124/knitkit/pkg/config"
	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/filesystem"
	"github.com/colin4124/knitkit/pkg/generator"
	"github.com/colin4124/knitkit/pkg/hierarchy"
	"github.com/colin4124/knitkit/pkg/templates"
	"github.com/colin4124/knitkit/pkg/toolchain"
	"github.com/colin4124/knitkit/pkg/types"
)

// BundledSource names the built-in hierarchy document in results and logs
const BundledSource = "(bundled default)"

// FileSystem returns fsys, or the OS filesystem when fsys is nil
func FileSystem(fsys types.FS) types.FS {
	if fsys == nil {
		return filesystem.NewOS()
	}
	return fsys
}

// RolePatterns returns the role table configured in s
func RolePatterns(s *config.Settings) hierarchy.RolePatterns {
	return hierarchy.RolePatterns{Build: s.Roles.Build, Entrypoint: s.Roles.Entrypoint}
}

// LoadTree reads the configured hierarchy document, or the bundled default
// when none is configured. The second return value names the source.
func LoadTree(fsys types.FS, s *config.Settings) (*types.Node, string, error) {
	opts := hierarchy.Options{Roles: RolePatterns(s)}
	if err := opts.Roles.Validate(); err != nil {
		return nil, "", err
	}

	if s.Hierarchy.File == "" {
		tree, err := hierarchy.Parse(templates.DefaultHierarchy(), opts)
		if err != nil {
			return nil, "", errors.Wrap(err, errors.ErrInternal, "bundled hierarchy is invalid")
		}
		return tree, BundledSource, nil
	}

	tree, err := hierarchy.Load(fsys, s.Hierarchy.File, opts)
	if err != nil {
		return nil, "", err
	}
	return tree, s.Hierarchy.File, nil
}

// Store returns the template store configured in s
func Store(s *config.Settings) types.TemplateStore {
	return templates.Default(s.Templates.Dir)
}

// NewGenerator builds a generator for project
func NewGenerator(fsys types.FS, s *config.Settings, project types.ProjectContext) *generator.Generator {
	return generator.New(generator.Options{
		FS:            fsys,
		Store:         Store(s),
		Substitutions: project.Substitutions(),
		DirMode:       s.DirMode(),
		FileMode:      s.FileMode(),
	})
}

// NewProvisioner builds a provisioner from the configured toolchain sources
func NewProvisioner(fsys types.FS, s *config.Settings) *toolchain.Provisioner {
	return toolchain.New(fsys, toolchain.Sources{
		CacheTarball: s.Toolchain.CacheTarball,
		MillBin:      s.Toolchain.MillBin,
		KnitkitJar:   s.Toolchain.KnitkitJar,
	})
}

// RequireDir fails unless path is an existing directory
func RequireDir(fsys types.FS, path string) error {
	info, err := fsys.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "project directory %s does not exist", path).
			WithDetail("path", path)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrFilesystem, "%s is not a directory", path).
			WithDetail("path", path)
	}
	return nil
}

// ProjectContext resolves name, rejecting the empty name
func ProjectContext(name string) (types.ProjectContext, error) {
	if name == "" {
		return types.ProjectContext{}, errors.New(errors.ErrInvalidInput, "project name cannot be empty")
	}
	project, err := types.NewProjectContext(name)
	if err != nil {
		return types.ProjectContext{}, errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve project %q", name)
	}
	return project, nil
}
