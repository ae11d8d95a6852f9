package dumpconfig

import (
	"os"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/filesystem"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/templates"
	"github.com/colin4124/knitkit/pkg/types"
)

// DefaultName is the file written when no name is given
const DefaultName = "config.yml"

// DumpConfigOptions holds options for the dump-config command
type DumpConfigOptions struct {
	// Path is the destination file
	Path       string
	FileSystem types.FS
	// Force overwrites an existing file
	Force bool
}

// DumpConfig writes the bundled hierarchy document so it can be edited and
// passed back with --config.
func DumpConfig(opts DumpConfigOptions) (*types.DumpConfigResult, error) {
	logger := logging.GetLogger("commands.dumpconfig")

	path := opts.Path
	if path == "" {
		path = DefaultName
	}
	content := templates.DefaultHierarchy()
	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	var err error
	if opts.Force {
		err = fsys.WriteFile(path, content, 0644)
	} else {
		err = fsys.CreateFile(path, content, 0644)
	}
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Newf(errors.ErrFileExists, "%s already exists (use --force to overwrite)", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "cannot write %s", path).
			WithDetail("path", path)
	}

	logger.Info().Str("path", path).Int("bytes", len(content)).Msg("Written hierarchy document")
	return &types.DumpConfigResult{Path: path, Bytes: len(content)}, nil
}
