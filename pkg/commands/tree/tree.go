package tree

import (
	"github.com/colin4124/knitkit/pkg/commands/internal"
	"github.com/colin4124/knitkit/pkg/config"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
)

// ShowTreeOptions holds options for the tree command
type ShowTreeOptions struct {
	Settings   *config.Settings
	FileSystem types.FS
}

// ShowTree loads and normalizes the configured hierarchy without writing anything
func ShowTree(opts ShowTreeOptions) (*types.TreeResult, error) {
	logger := logging.GetLogger("commands.tree")

	root, source, err := internal.LoadTree(internal.FileSystem(opts.FileSystem), opts.Settings)
	if err != nil {
		return nil, err
	}

	result := &types.TreeResult{Source: source, Root: root}
	_ = root.Walk(func(_ string, n *types.Node) error {
		switch n.Kind {
		case types.KindTemplate:
			result.Files++
		default:
			result.Dirs++
		}
		return nil
	})

	logger.Debug().Str("source", source).Int("dirs", result.Dirs).Int("files", result.Files).Msg("Loaded hierarchy")
	return result, nil
}
