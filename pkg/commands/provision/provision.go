package provision

import (
	"context"

	"github.com/colin4124/knitkit/pkg/commands/internal"
	"github.com/colin4124/knitkit/pkg/config"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
)

// ProvisionOptions defines the options for the Provision command.
type ProvisionOptions struct {
	// ProjectName is an existing project directory; "." is the current directory.
	ProjectName string
	Settings    *config.Settings
	FileSystem  types.FS
}

// Provision installs the missing parts of the toolchain into a project.
// Parts already present are left untouched.
func Provision(ctx context.Context, opts ProvisionOptions) (*types.ProvisionResult, error) {
	log := logging.GetLogger("commands.provision")
	log.Debug().Str("command", "Provision").Str("project", opts.ProjectName).Msg("Executing command")

	project, err := internal.ProjectContext(opts.ProjectName)
	if err != nil {
		return nil, err
	}
	fsys := internal.FileSystem(opts.FileSystem)
	if err := internal.RequireDir(fsys, project.Root); err != nil {
		return nil, err
	}

	return internal.NewProvisioner(fsys, opts.Settings).Provision(ctx, project)
}
