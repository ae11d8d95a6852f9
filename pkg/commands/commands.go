// Package commands provides high-level command implementations for knitkit.
//
// Each command is implemented in its own subdirectory:
//   - create/      - CreateProject command
//   - initialize/  - InitProject command
//   - provision/   - Provision command
//   - dumpconfig/  - DumpConfig command
//   - tree/        - ShowTree command
//   - genfilelist/ - GenFilelist command
//   - internal/    - Settings to pipeline wiring shared by the project commands
//
// This file re-exports the command functions.
package commands

import (
	"context"

	"github.com/colin4124/knitkit/pkg/commands/create"
	"github.com/colin4124/knitkit/pkg/commands/dumpconfig"
	"github.com/colin4124/knitkit/pkg/commands/genfilelist"
	"github.com/colin4124/knitkit/pkg/commands/initialize"
	"github.com/colin4124/knitkit/pkg/commands/provision"
	"github.com/colin4124/knitkit/pkg/commands/tree"
	"github.com/colin4124/knitkit/pkg/types"
)

// CreateProject creates a project directory, its tree and its toolchain.
type CreateProjectOptions = create.CreateProjectOptions

func CreateProject(ctx context.Context, opts CreateProjectOptions) (*types.CreateResult, error) {
	return create.CreateProject(ctx, opts)
}

// InitProject generates the tree into an existing directory.
type InitProjectOptions = initialize.InitProjectOptions

func InitProject(ctx context.Context, opts InitProjectOptions) (*types.CreateResult, error) {
	return initialize.InitProject(ctx, opts)
}

// Provision installs the toolchain into an existing project.
type ProvisionOptions = provision.ProvisionOptions

func Provision(ctx context.Context, opts ProvisionOptions) (*types.ProvisionResult, error) {
	return provision.Provision(ctx, opts)
}

// DumpConfig writes the bundled hierarchy document.
type DumpConfigOptions = dumpconfig.DumpConfigOptions

func DumpConfig(opts DumpConfigOptions) (*types.DumpConfigResult, error) {
	return dumpconfig.DumpConfig(opts)
}

// ShowTree loads the configured hierarchy for display.
type ShowTreeOptions = tree.ShowTreeOptions

func ShowTree(opts ShowTreeOptions) (*types.TreeResult, error) {
	return tree.ShowTree(opts)
}

// GenFilelist builds a Verilog filelist.
type GenFilelistOptions = genfilelist.GenFilelistOptions

func GenFilelist(opts GenFilelistOptions) (*types.FilelistResult, error) {
	return genfilelist.GenFilelist(opts)
}
