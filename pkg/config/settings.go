package config

import (
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/paths"
	"github.com/pelletier/go-toml/v2"
)

// Default toolchain artifact names under the knitkit data directory
const (
	DefaultCacheTarball = "mill-cache.tar.gz"
	DefaultMillBin      = "mill"
	DefaultKnitkitJar   = "knitkit.jar"
)

// Settings is the effective knitkit configuration
type Settings struct {
	Hierarchy HierarchySettings `koanf:"hierarchy" toml:"hierarchy"`
	Templates TemplateSettings  `koanf:"templates" toml:"templates"`
	Toolchain ToolchainSettings `koanf:"toolchain" toml:"toolchain"`
	Roles     RoleSettings      `koanf:"roles" toml:"roles"`
	Generate  GenerateSettings  `koanf:"generate" toml:"generate"`
	Filelist  FilelistSettings  `koanf:"filelist" toml:"filelist"`
}

type HierarchySettings struct {
	File string `koanf:"file" toml:"file"`
}

type TemplateSettings struct {
	Dir string `koanf:"dir" toml:"dir"`
}

type ToolchainSettings struct {
	CacheTarball string `koanf:"cache_tarball" toml:"cache_tarball" validate:"required"`
	MillBin      string `koanf:"mill_bin" toml:"mill_bin" validate:"required"`
	KnitkitJar   string `koanf:"knitkit_jar" toml:"knitkit_jar" validate:"required"`
}

type RoleSettings struct {
	Build      []string `koanf:"build" toml:"build" validate:"dive,required,glob"`
	Entrypoint []string `koanf:"entrypoint" toml:"entrypoint" validate:"dive,required,glob"`
}

type GenerateSettings struct {
	DirMode  string `koanf:"dir_mode" toml:"dir_mode" validate:"required,filemode"`
	FileMode string `koanf:"file_mode" toml:"file_mode" validate:"required,filemode"`
}

type FilelistSettings struct {
	Project string `koanf:"project" toml:"project" validate:"required"`
	Target  string `koanf:"target" toml:"target" validate:"required"`
}

// DataDir is where toolchain artifacts are looked up by default
func DataDir() string {
	return paths.DataDir()
}

// resolvePaths expands "~/" in every path setting and fills empty
// toolchain sources with the data directory defaults
func (s *Settings) resolvePaths() {
	for _, p := range []*string{
		&s.Hierarchy.File,
		&s.Templates.Dir,
		&s.Toolchain.CacheTarball,
		&s.Toolchain.MillBin,
		&s.Toolchain.KnitkitJar,
		&s.Filelist.Project,
	} {
		*p = paths.ExpandHome(*p)
	}

	if s.Toolchain.CacheTarball == "" {
		s.Toolchain.CacheTarball = filepath.Join(DataDir(), DefaultCacheTarball)
	}
	if s.Toolchain.MillBin == "" {
		s.Toolchain.MillBin = filepath.Join(DataDir(), DefaultMillBin)
	}
	if s.Toolchain.KnitkitJar == "" {
		s.Toolchain.KnitkitJar = filepath.Join(DataDir(), DefaultKnitkitJar)
	}
}

// DirMode returns the permission bits for generated directories
func (s *Settings) DirMode() fs.FileMode {
	mode, _ := parseMode(s.Generate.DirMode)
	return mode
}

// FileMode returns the permission bits for generated files
func (s *Settings) FileMode() fs.FileMode {
	mode, _ := parseMode(s.Generate.FileMode)
	return mode
}

func parseMode(s string) (fs.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	if v > 0777 {
		return 0, strconv.ErrRange
	}
	return fs.FileMode(v), nil
}

// Dump renders the settings as TOML
func (s *Settings) Dump() ([]byte, error) {
	out, err := toml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot encode settings")
	}
	return out, nil
}
