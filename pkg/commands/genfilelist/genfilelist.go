package genfilelist

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/filelist"
	"github.com/colin4124/knitkit/pkg/filesystem"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
)

// GenFilelistOptions holds options for the filelist command
type GenFilelistOptions struct {
	// ProjectFile is the project description
	ProjectFile string
	// Target is a target name or "all"
	Target string
	// Root is the tree globs are expanded in. Nil means the directory of ProjectFile.
	Root       fs.FS
	FileSystem types.FS
	// Output, when set, receives the filelist instead of the caller printing it
	Output string
}

// GenFilelist builds the filelist for a target
func GenFilelist(opts GenFilelistOptions) (*types.FilelistResult, error) {
	logger := logging.GetLogger("commands.filelist")

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	project, err := filelist.Load(fsys, opts.ProjectFile)
	if err != nil {
		return nil, err
	}

	root := opts.Root
	if root == nil {
		root = os.DirFS(filepath.Dir(opts.ProjectFile))
	}
	target := opts.Target
	if target == "" {
		target = filelist.AllTargets
	}

	result, err := filelist.Generate(root, project, target)
	if err != nil {
		return nil, err
	}

	if opts.Output != "" {
		if err := fsys.WriteFile(opts.Output, []byte(filelist.String(result)), 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFilesystem, "cannot write %s", opts.Output).
				WithDetail("path", opts.Output)
		}
		logger.Info().Str("path", opts.Output).Int("lines", len(result.Lines)).Msg("Written filelist")
	}
	return result, nil
}
