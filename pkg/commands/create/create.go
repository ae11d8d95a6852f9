package create

import (
	"context"

	"github.com/colin4124/knitkit/pkg/commands/internal"
	"github.com/colin4124/knitkit/pkg/config"
	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
)

// CreateProjectOptions defines the options for the CreateProject command.
type CreateProjectOptions struct {
	// ProjectName is the directory to create; "." generates into the current directory.
	ProjectName string
	// Settings is the effective configuration.
	Settings *config.Settings
	// FileSystem is the filesystem to use (defaults to the OS filesystem).
	FileSystem types.FS
	// SkipProvision leaves the toolchain out.
	SkipProvision bool
}

// CreateProject creates the project root, generates the hierarchy inside it
// and provisions the toolchain.
func CreateProject(ctx context.Context, opts CreateProjectOptions) (*types.CreateResult, error) {
	log := logging.GetLogger("commands.create")
	log.Debug().Str("command", "CreateProject").Str("project", opts.ProjectName).Msg("Executing command")

	project, err := internal.ProjectContext(opts.ProjectName)
	if err != nil {
		return nil, err
	}
	fsys := internal.FileSystem(opts.FileSystem)

	// 1. Everything that can be checked without writing is checked first
	tree, source, err := internal.LoadTree(fsys, opts.Settings)
	if err != nil {
		return nil, err
	}
	gen := internal.NewGenerator(fsys, opts.Settings, project)
	if err := gen.Check(tree); err != nil {
		return nil, err
	}
	prov := internal.NewProvisioner(fsys, opts.Settings)
	if !opts.SkipProvision {
		if err := prov.CheckSources(); err != nil {
			return nil, err
		}
	}

	// 2. Project root
	if project.IsCurrentDir() {
		if err := internal.RequireDir(fsys, project.Root); err != nil {
			return nil, err
		}
	} else if err := fsys.Mkdir(project.Root, opts.Settings.DirMode()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "cannot create project directory %s", project.Root).
			WithDetail("op", "mkdir").
			WithDetail("path", project.Root)
	}

	result := &types.CreateResult{Project: project}

	// 3. Tree
	log.Info().Str("hierarchy", source).Str("root", project.Root).Msg("Generating project tree")
	report, err := gen.Generate(ctx, project.Root, tree)
	result.Created = report.Paths()
	if err != nil {
		return result, err
	}

	// 4. Toolchain
	if opts.SkipProvision {
		return result, nil
	}
	provision, err := prov.Provision(ctx, project)
	result.Provision = provision
	if err != nil {
		return result, err
	}

	log.Info().
		Str("project", project.DisplayName()).
		Int("created", len(result.Created)).
		Msg("Project created")
	return result, nil
}
