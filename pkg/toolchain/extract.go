package toolchain

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/types"
)

type extractStats struct {
	entries int
	bytes   int64
}

func extractError(err error, src, format string, args ...interface{}) *errors.KnitkitError {
	if err == nil {
		return errors.Newf(errors.ErrToolchainExtract, format, args...).WithDetail("source", src)
	}
	return errors.Wrapf(err, errors.ErrToolchainExtract, format, args...).WithDetail("source", src)
}

// extract unpacks the gzip tarball at src into dest. Entries whose names or
// link targets would land outside dest are rejected, and so is any entry
// whose path crosses a symlink already written by the archive.
func extract(ctx context.Context, fsys types.FS, src, dest string) (extractStats, error) {
	var stats extractStats

	f, err := fsys.Open(src)
	if err != nil {
		return stats, errors.Wrapf(err, errors.ErrToolchainSource, "cannot open %s", src).
			WithDetail("path", src)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return stats, extractError(err, src, "%s is not a gzip archive", src)
	}
	defer gz.Close()

	if err := fsys.MkdirAll(dest, dirMode); err != nil {
		return stats, errors.Wrapf(err, errors.ErrFilesystem, "cannot create %s", dest).
			WithDetail("path", dest)
	}

	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return stats, errors.Wrap(err, errors.ErrInternal, "extraction cancelled")
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		// non-local names are checked below with a clearer error
		if err != nil && err != tar.ErrInsecurePath {
			return stats, extractError(err, src, "corrupt archive %s", src)
		}

		name := path.Clean(hdr.Name)
		if name == "." {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return stats, extractError(nil, src, "archive entry %q escapes the destination", hdr.Name).
				WithDetail("entry", hdr.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(name))
		link, err := firstSymlink(fsys, dest, name)
		if err != nil {
			return stats, fsError(err, target)
		}
		if link != "" {
			return stats, extractError(nil, src, "archive entry %q escapes the destination through symlink %s", hdr.Name, link).
				WithDetail("entry", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fsys.MkdirAll(target, dirMode); err != nil {
				return stats, fsError(err, target)
			}

		case tar.TypeReg:
			if err := fsys.MkdirAll(filepath.Dir(target), dirMode); err != nil {
				return stats, fsError(err, filepath.Dir(target))
			}
			data, err := io.ReadAll(tr)
			if err != nil {
				return stats, extractError(err, src, "cannot read archive entry %q", hdr.Name).
					WithDetail("entry", hdr.Name)
			}
			mode := fs.FileMode(hdr.Mode).Perm()
			if mode == 0 {
				mode = jarMode
			}
			if err := fsys.WriteFile(target, data, mode); err != nil {
				return stats, fsError(err, target)
			}
			stats.bytes += int64(len(data))

		case tar.TypeSymlink:
			resolved := path.Join(path.Dir(name), hdr.Linkname)
			if path.IsAbs(hdr.Linkname) || !filepath.IsLocal(filepath.FromSlash(resolved)) {
				return stats, extractError(nil, src, "archive link %q -> %q escapes the destination", hdr.Name, hdr.Linkname).
					WithDetail("entry", hdr.Name)
			}
			if err := fsys.MkdirAll(filepath.Dir(target), dirMode); err != nil {
				return stats, fsError(err, filepath.Dir(target))
			}
			if err := fsys.Symlink(hdr.Linkname, target); err != nil {
				return stats, fsError(err, target)
			}

		default:
			// hard links, devices and fifos have no place in a dependency cache
			continue
		}
		stats.entries++
	}

	return stats, nil
}

// firstSymlink walks name below dest one component at a time and returns the
// first existing component that is a symlink, name itself included.
func firstSymlink(fsys types.FS, dest, name string) (string, error) {
	cur := dest
	for _, part := range strings.Split(name, "/") {
		cur = filepath.Join(cur, part)
		info, err := fsys.Lstat(cur)
		if os.IsNotExist(err) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return cur, nil
		}
	}
	return "", nil
}

func fsError(err error, target string) error {
	return errors.Wrapf(err, errors.ErrFilesystem, "cannot write %s", target).
		WithDetail("path", target)
}
