package filelist

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
)

// Line prefixes understood by Verilog simulators
const (
	PrefixIncludeDir  = "+incdir+"
	PrefixLibraryDir  = "-y "
	PrefixLibraryFile = "-v "
)

type section struct {
	prefix   string
	patterns []string
	dirs     bool
}

func sections(t Target) []section {
	return []section{
		{PrefixIncludeDir, t.IncludeDirs, true},
		{PrefixLibraryDir, t.LibraryDirs, true},
		{PrefixLibraryFile, t.LibraryFiles, false},
		{"", t.Files, false},
	}
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Generate builds the filelist for target, expanding globs against root
func Generate(root fs.FS, project *Project, target string) (*types.FilelistResult, error) {
	logger := logging.GetLogger("filelist")

	targets, err := project.Select(target)
	if err != nil {
		return nil, err
	}

	result := &types.FilelistResult{Target: target}
	seen := make(map[string]bool)
	emit := func(line string) {
		if !seen[line] {
			seen[line] = true
			result.Lines = append(result.Lines, line)
		}
	}

	for _, t := range targets {
		for _, sec := range sections(t) {
			for _, pattern := range sec.patterns {
				pattern = path.Clean(strings.ReplaceAll(pattern, "\\", "/"))
				if !hasMeta(pattern) {
					emit(sec.prefix + pattern)
					continue
				}

				matches, err := expand(root, pattern, sec.dirs)
				if err != nil {
					return nil, errors.Wrapf(err, errors.ErrInvalidInput, "target %s: bad pattern %q", t.Name, pattern).
						WithDetail("target", t.Name).
						WithDetail("pattern", pattern)
				}
				if len(matches) == 0 {
					logger.Warn().
						Str("target", t.Name).
						Str("pattern", pattern).
						Msg("pattern matched nothing")
				}
				for _, m := range matches {
					emit(sec.prefix + m)
				}
			}
		}
	}

	logger.Debug().
		Str("target", target).
		Int("lines", len(result.Lines)).
		Msg("generated filelist")
	return result, nil
}

// expand returns the sorted matches of pattern, keeping only directories
// or only files
func expand(root fs.FS, pattern string, dirs bool) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	if !fs.ValidPath(strings.TrimSuffix(pattern, "/")) {
		return nil, errors.Newf(errors.ErrInvalidInput, "glob %q must be relative to the project", pattern)
	}

	var matches []string
	err := doublestar.GlobWalk(root, pattern, func(p string, d fs.DirEntry) error {
		if d.IsDir() == dirs {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// String joins the lines into filelist content
func String(r *types.FilelistResult) string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}
