// Package generator materializes a normalized hierarchy on disk.
//
// The walk is a sequential pre-order traversal: a directory is created
// before any of its children are visited, and every declared node is
// created exactly once. The first failure aborts the walk; whatever was
// created up to that point is left in place.
package generator

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/render"
	"github.com/colin4124/knitkit/pkg/types"
	"github.com/rs/zerolog"
)

const (
	defaultDirMode  fs.FileMode = 0755
	defaultFileMode fs.FileMode = 0644
)

// Options configures a Generator
type Options struct {
	FS    types.FS
	Store types.TemplateStore
	// Substitutions are the values build descriptor templates are rendered with
	Substitutions map[string]string
	DirMode       fs.FileMode
	FileMode      fs.FileMode
}

// Entry is one filesystem entry created by a run
type Entry struct {
	Path     string
	Kind     types.NodeKind
	Role     types.Role
	Template string
}

// Report lists the entries created, in creation order
type Report struct {
	Root    string
	Entries []Entry
}

// Paths returns the created paths relative to the root, slash separated
func (r *Report) Paths() []string {
	paths := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		rel, err := filepath.Rel(r.Root, e.Path)
		if err != nil {
			rel = e.Path
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	return paths
}

// Generator walks hierarchy trees into a filesystem
type Generator struct {
	fs       types.FS
	store    types.TemplateStore
	renderer *render.Renderer
	subst    map[string]string
	dirMode  fs.FileMode
	fileMode fs.FileMode
	logger   zerolog.Logger
}

// New creates a Generator
func New(opts Options) *Generator {
	g := &Generator{
		fs:       opts.FS,
		store:    opts.Store,
		renderer: render.New(opts.Store),
		subst:    opts.Substitutions,
		dirMode:  opts.DirMode,
		fileMode: opts.FileMode,
		logger:   logging.GetLogger("generator"),
	}
	if g.dirMode == 0 {
		g.dirMode = defaultDirMode
	}
	if g.fileMode == 0 {
		g.fileMode = defaultFileMode
	}
	return g
}

// Generate creates tree's children under root, which must be an existing
// directory. The report is returned even on failure and lists what was
// created before the error.
func (g *Generator) Generate(ctx context.Context, root string, tree *types.Node) (*Report, error) {
	report := &Report{Root: root}

	if tree == nil || tree.Kind != types.KindDir {
		return report, errors.New(errors.ErrInternal, "generation needs a directory node")
	}

	info, err := g.fs.Stat(root)
	if err != nil {
		return report, errors.Wrapf(err, errors.ErrFilesystem, "project root %s is not accessible", root).
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return report, errors.Newf(errors.ErrFilesystem, "project root %s is not a directory", root).
			WithDetail("path", root)
	}

	op := logging.StartOperation(g.logger, "generate", root)
	if err := g.walk(ctx, root, tree, report); err != nil {
		g.logger.Error().
			Err(err).
			Int("created", len(report.Entries)).
			Msg("generation aborted")
		return report, op.Finish(err)
	}
	op.Finish(nil)

	g.logger.Info().
		Str("root", root).
		Int("created", len(report.Entries)).
		Msg("generated project tree")
	return report, nil
}

func (g *Generator) walk(ctx context.Context, dir string, node *types.Node, report *Report) error {
	for _, child := range node.Children {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "generation cancelled")
		}

		target := filepath.Join(dir, child.Name)

		switch child.Kind {
		case types.KindDir:
			if err := g.mkdir(target); err != nil {
				return err
			}
			report.Entries = append(report.Entries, Entry{Path: target, Kind: child.Kind})
			if err := g.walk(ctx, target, child, report); err != nil {
				return err
			}

		case types.KindEmptyDir:
			if err := g.mkdir(target); err != nil {
				return err
			}
			report.Entries = append(report.Entries, Entry{Path: target, Kind: child.Kind})

		case types.KindTemplate:
			if err := g.writeTemplate(target, child); err != nil {
				return err
			}
			report.Entries = append(report.Entries, Entry{
				Path:     target,
				Kind:     child.Kind,
				Role:     child.Role,
				Template: child.Template,
			})

		default:
			return errors.Newf(errors.ErrConfigShape, "cannot generate %s: unknown node kind %s", target, child.Kind).
				WithDetail("path", target)
		}
	}
	return nil
}

func (g *Generator) mkdir(target string) error {
	if err := g.fs.Mkdir(target, g.dirMode); err != nil {
		return fsError(err, "mkdir", target)
	}
	g.logger.Debug().Str("path", target).Msg("created directory")
	return nil
}

func (g *Generator) writeTemplate(target string, node *types.Node) error {
	var (
		content []byte
		err     error
	)
	if node.Role.IsSpecial() {
		content, err = g.renderer.Render(node.Template, node.Role, g.subst)
	} else {
		content, err = g.store.Lookup(node.Template)
	}
	if err != nil {
		return err
	}

	if err := g.fs.CreateFile(target, content, g.fileMode); err != nil {
		return fsError(err, "create", target)
	}

	g.logger.Debug().
		Str("path", target).
		Str("template", node.Template).
		Str("role", string(node.Role)).
		Int("bytes", len(content)).
		Msg("created file")
	return nil
}

func fsError(err error, op, target string) error {
	reason := "failed"
	switch {
	case os.IsExist(err):
		reason = "already exists"
	case os.IsPermission(err):
		reason = "permission denied"
	}
	return errors.Wrapf(err, errors.ErrFilesystem, "%s %s: %s", op, target, reason).
		WithDetail("op", op).
		WithDetail("path", target)
}

// Check verifies, without touching the filesystem, that every template
// in tree resolves and every build descriptor renders with the
// generator's substitutions.
func (g *Generator) Check(tree *types.Node) error {
	var missing []string
	var renderErr error

	_ = tree.Walk(func(rel string, node *types.Node) error {
		if node.Kind != types.KindTemplate {
			return nil
		}
		if !g.store.Has(node.Template) {
			missing = append(missing, node.Template)
			return nil
		}
		if node.Role == types.RoleBuildDescriptor && renderErr == nil {
			if _, err := g.renderer.Render(node.Template, node.Role, g.subst); err != nil {
				renderErr = err
			}
		}
		return nil
	})

	if len(missing) > 0 {
		missing = unique(missing)
		return errors.Newf(errors.ErrTemplateNotFound, "unknown template(s): %s", strings.Join(missing, ", ")).
			WithDetail("templates", missing)
	}
	return renderErr
}

func unique(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for i, s := range in {
		if i == 0 || s != in[i-1] {
			out = append(out, s)
		}
	}
	return out
}
