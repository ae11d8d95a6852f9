package initialize

import (
	"context"

	"github.com/colin4124/knitkit/pkg/commands/internal"
	"github.com/colin4124/knitkit/pkg/config"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
)

// InitProjectOptions defines the options for the InitProject command.
type InitProjectOptions struct {
	// ProjectName is an existing directory; "." is the current directory.
	ProjectName string
	Settings    *config.Settings
	FileSystem  types.FS
}

// InitProject generates the hierarchy into an existing project directory.
// The toolchain is not provisioned.
func InitProject(ctx context.Context, opts InitProjectOptions) (*types.CreateResult, error) {
	log := logging.GetLogger("commands.init")
	log.Debug().Str("command", "InitProject").Str("project", opts.ProjectName).Msg("Executing command")

	project, err := internal.ProjectContext(opts.ProjectName)
	if err != nil {
		return nil, err
	}
	fsys := internal.FileSystem(opts.FileSystem)
	if err := internal.RequireDir(fsys, project.Root); err != nil {
		return nil, err
	}

	tree, source, err := internal.LoadTree(fsys, opts.Settings)
	if err != nil {
		return nil, err
	}
	gen := internal.NewGenerator(fsys, opts.Settings, project)
	if err := gen.Check(tree); err != nil {
		return nil, err
	}

	log.Info().Str("hierarchy", source).Str("root", project.Root).Msg("Generating project tree")
	report, err := gen.Generate(ctx, project.Root, tree)
	result := &types.CreateResult{Project: project, Created: report.Paths()}
	return result, err
}
