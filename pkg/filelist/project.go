package filelist

import (
	"fmt"

	"github.com/colin4124/knitkit/pkg/config"
	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/types"
	"gopkg.in/yaml.v3"
)

// AllTargets selects every target of a project
const AllTargets = "all"

// Target is one named group of sources
type Target struct {
	Name         string   `yaml:"-" validate:"required,ne=all"`
	IncludeDirs  []string `yaml:"include_dirs" validate:"dive,required"`
	LibraryDirs  []string `yaml:"library_dirs" validate:"dive,required"`
	LibraryFiles []string `yaml:"library_files" validate:"dive,required"`
	Files        []string `yaml:"files" validate:"dive,required"`
}

// Targets keeps targets in document order
type Targets []Target

// UnmarshalYAML decodes a mapping of target name to target
func (t *Targets) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: targets must be a mapping", value.Line)
	}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		if seen[name] {
			return fmt.Errorf("line %d: duplicate target %q", value.Content[i].Line, name)
		}
		seen[name] = true

		var target Target
		if err := value.Content[i+1].Decode(&target); err != nil {
			return err
		}
		target.Name = name
		*t = append(*t, target)
	}
	return nil
}

// Project is a parsed project file
type Project struct {
	Targets Targets `yaml:"targets" validate:"required,min=1,dive"`
}

// Parse decodes and validates a project file
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid project file")
	}
	if err := config.ValidateStruct(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses a project file
func Load(fsys types.FS, filename string) (*Project, error) {
	data, err := fsys.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read project file %s", filename).
			WithDetail("file", filename)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, errors.Annotatef(err, "project file %s", filename).
			WithDetail("file", filename)
	}
	return p, nil
}

// Select returns the targets named by name
func (p *Project) Select(name string) ([]Target, error) {
	if name == AllTargets {
		return p.Targets, nil
	}
	for _, t := range p.Targets {
		if t.Name == name {
			return []Target{t}, nil
		}
	}
	names := make([]string, 0, len(p.Targets))
	for _, t := range p.Targets {
		names = append(names, t.Name)
	}
	return nil, errors.Newf(errors.ErrTargetNotFound, "no target %q", name).
		WithDetail("target", name).
		WithDetail("available", names)
}
