package toolchain

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Step actions
const (
	ActionExtracted = "extracted"
	ActionCopied    = "copied"
	ActionCreated   = "created"
	ActionSkipped   = "skipped"
)

const (
	millMode fs.FileMode = 0755
	dirMode  fs.FileMode = 0755
	jarMode  fs.FileMode = 0644
)

// Sources locates the artifacts copied into a project
type Sources struct {
	// CacheTarball is a gzip tarball extracted into the toolchain directory
	CacheTarball string
	// MillBin is the build runner binary
	MillBin string
	// KnitkitJar is the library jar
	KnitkitJar string
}

// Provisioner installs the toolchain into project roots
type Provisioner struct {
	fs      types.FS
	sources Sources
	logger  zerolog.Logger
}

// New creates a Provisioner reading sources and writing projects through fsys
func New(fsys types.FS, sources Sources) *Provisioner {
	return &Provisioner{
		fs:      fsys,
		sources: sources,
		logger:  logging.GetLogger("toolchain"),
	}
}

// CheckSources verifies every configured source is a readable regular file
func (p *Provisioner) CheckSources() error {
	for _, src := range []struct{ name, path string }{
		{"cache tarball", p.sources.CacheTarball},
		{"mill binary", p.sources.MillBin},
		{"knitkit jar", p.sources.KnitkitJar},
	} {
		if err := p.checkSource(src.name, src.path); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provisioner) checkSource(name, path string) error {
	if path == "" {
		return errors.Newf(errors.ErrToolchainSource, "no %s configured", name).
			WithDetail("source", name)
	}
	info, err := p.fs.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrToolchainSource, "%s %s is not accessible", name, path).
			WithDetail("source", name).
			WithDetail("path", path)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrToolchainSource, "%s %s is a directory", name, path).
			WithDetail("source", name).
			WithDetail("path", path)
	}
	return nil
}

// Provision installs whatever part of the toolchain is missing from project
func (p *Provisioner) Provision(ctx context.Context, project types.ProjectContext) (result *types.ProvisionResult, err error) {
	result = &types.ProvisionResult{Project: project}

	op := logging.StartOperation(p.logger, "provision", project.Root)
	defer func() { op.Finish(err) }()

	steps := []func(context.Context, types.ProjectContext) (types.ProvisionStep, error){
		p.extractCache,
		p.copyMill,
		p.createJarDir,
		p.copyJar,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, errors.ErrInternal, "provisioning cancelled")
		}
		s, err := step(ctx, project)
		if err != nil {
			return result, err
		}
		result.Steps = append(result.Steps, s)
	}

	p.logger.Info().
		Str("root", project.Root).
		Bool("changed", result.Changed()).
		Msg("toolchain provisioned")
	return result, nil
}

// exists reports whether path is present; errors other than not-exist are returned
func (p *Provisioner) exists(path string) (bool, error) {
	_, err := p.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrFilesystem, "cannot stat %s", path).
		WithDetail("path", path)
}

func (p *Provisioner) skip(rel string) types.ProvisionStep {
	p.logger.Debug().Str("path", rel).Msg("already present, skipping")
	return types.ProvisionStep{Path: rel, Action: ActionSkipped}
}

func (p *Provisioner) extractCache(ctx context.Context, project types.ProjectContext) (types.ProvisionStep, error) {
	rel := project.ToolchainDir()
	dest := project.Abs(rel)

	present, err := p.exists(dest)
	if err != nil {
		return types.ProvisionStep{}, err
	}
	if present {
		return p.skip(rel), nil
	}
	if err := p.checkSource("cache tarball", p.sources.CacheTarball); err != nil {
		return types.ProvisionStep{}, err
	}

	stats, err := extract(ctx, p.fs, p.sources.CacheTarball, dest)
	if err != nil {
		return types.ProvisionStep{}, err
	}

	p.logger.Info().
		Str("source", p.sources.CacheTarball).
		Int("entries", stats.entries).
		Str("size", humanize.Bytes(uint64(stats.bytes))).
		Msg("extracted dependency cache")
	return types.ProvisionStep{Path: rel, Action: ActionExtracted, Bytes: stats.bytes, Entries: stats.entries}, nil
}

func (p *Provisioner) copyMill(_ context.Context, project types.ProjectContext) (types.ProvisionStep, error) {
	return p.copySource("mill binary", p.sources.MillBin, project, project.MillPath(), millMode)
}

func (p *Provisioner) copyJar(_ context.Context, project types.ProjectContext) (types.ProvisionStep, error) {
	return p.copySource("knitkit jar", p.sources.KnitkitJar, project, project.KnitkitJarPath(), jarMode)
}

func (p *Provisioner) copySource(name, src string, project types.ProjectContext, rel string, mode fs.FileMode) (types.ProvisionStep, error) {
	dest := project.Abs(rel)

	present, err := p.exists(dest)
	if err != nil {
		return types.ProvisionStep{}, err
	}
	if present {
		return p.skip(rel), nil
	}
	if err := p.checkSource(name, src); err != nil {
		return types.ProvisionStep{}, err
	}

	data, err := p.fs.ReadFile(src)
	if err != nil {
		return types.ProvisionStep{}, errors.Wrapf(err, errors.ErrToolchainSource, "cannot read %s %s", name, src).
			WithDetail("source", name).
			WithDetail("path", src)
	}
	if err := p.fs.MkdirAll(filepath.Dir(dest), dirMode); err != nil {
		return types.ProvisionStep{}, errors.Wrapf(err, errors.ErrFilesystem, "cannot create %s", filepath.Dir(dest)).
			WithDetail("path", filepath.Dir(dest))
	}
	if err := p.fs.CreateFile(dest, data, mode); err != nil {
		return types.ProvisionStep{}, errors.Wrapf(err, errors.ErrFilesystem, "cannot write %s", dest).
			WithDetail("path", dest)
	}
	// CreateFile is subject to the umask
	if err := p.fs.Chmod(dest, mode); err != nil {
		return types.ProvisionStep{}, errors.Wrapf(err, errors.ErrFilesystem, "cannot chmod %s", dest).
			WithDetail("path", dest)
	}

	p.logger.Info().
		Str("source", src).
		Str("dest", rel).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msgf("copied %s", name)
	return types.ProvisionStep{Path: rel, Action: ActionCopied, Bytes: int64(len(data))}, nil
}

func (p *Provisioner) createJarDir(_ context.Context, project types.ProjectContext) (types.ProvisionStep, error) {
	rel := project.MillLibPath()
	dest := project.Abs(rel)

	present, err := p.exists(dest)
	if err != nil {
		return types.ProvisionStep{}, err
	}
	if present {
		return p.skip(rel), nil
	}
	if err := p.fs.MkdirAll(dest, dirMode); err != nil {
		return types.ProvisionStep{}, errors.Wrapf(err, errors.ErrFilesystem, "cannot create %s", dest).
			WithDetail("path", dest)
	}
	p.logger.Debug().Str("path", rel).Msg("created jar directory")
	return types.ProvisionStep{Path: rel, Action: ActionCreated}, nil
}
