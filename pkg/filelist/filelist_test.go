package filelist

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/filesystem"
	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projectTree = fstest.MapFS{
	"rtl/core.v":              {Data: []byte("module core; endmodule")},
	"rtl/alu/alu.v":           {Data: []byte("module alu; endmodule")},
	"rtl/alu/alu_pkg.sv":      {Data: []byte("package alu_pkg; endpackage")},
	"rtl/include/defs.vh":     {Data: []byte("`define W 32")},
	"lib/cells.v":             {Data: []byte("module cell; endmodule")},
	"lib/pads/pad.v":          {Data: []byte("module pad; endmodule")},
	"sim/tb/tb_core.v":        {Data: []byte("module tb; endmodule")},
	"sim/tb/include/tb_pkg.v": {Data: []byte("")},
}

const projectYAML = `
	targets:
	  rtl:
	    include_dirs: [rtl/include]
	    library_dirs: [lib, "lib/*"]
	    library_files: [lib/cells.v]
	    files: ["rtl/**/*.v"]
	  tb:
	    include_dirs: ["sim/**/include", rtl/include]
	    files:
	      - sim/tb/tb_core.v
	      - ../shared/uvm_pkg.sv
`

func mustParse(t *testing.T) *Project {
	t.Helper()
	p, err := Parse([]byte(dedent.Dedent(projectYAML)))
	require.NoError(t, err)
	return p
}

func TestParse(t *testing.T) {
	p := mustParse(t)
	require.Len(t, p.Targets, 2)
	assert.Equal(t, "rtl", p.Targets[0].Name)
	assert.Equal(t, "tb", p.Targets[1].Name)
	assert.Equal(t, []string{"rtl/include"}, p.Targets[0].IncludeDirs)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.ErrorCode
	}{
		{"not yaml", "targets: [", errors.ErrConfigParse},
		{"no targets", "other: 1\n", errors.ErrConfigValid},
		{"targets is a list", "targets:\n  - rtl\n", errors.ErrConfigParse},
		{"reserved name", "targets:\n  all:\n    files: [a.v]\n", errors.ErrConfigValid},
		{"empty entry", "targets:\n  rtl:\n    files: [\"\"]\n", errors.ErrConfigValid},
		{"duplicate target", "targets:\n  rtl: {}\n  rtl: {}\n", errors.ErrConfigParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestGenerate_SingleTarget(t *testing.T) {
	result, err := Generate(projectTree, mustParse(t), "rtl")
	require.NoError(t, err)

	assert.Equal(t, "rtl", result.Target)
	assert.Equal(t, []string{
		"+incdir+rtl/include",
		"-y lib",
		"-y lib/pads",
		"-v lib/cells.v",
		"rtl/alu/alu.v",
		"rtl/core.v",
	}, result.Lines)
}

func TestGenerate_All(t *testing.T) {
	result, err := Generate(projectTree, mustParse(t), AllTargets)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"+incdir+rtl/include",
		"-y lib",
		"-y lib/pads",
		"-v lib/cells.v",
		"rtl/alu/alu.v",
		"rtl/core.v",
		"+incdir+sim/tb/include",
		"sim/tb/tb_core.v",
		"../shared/uvm_pkg.sv",
	}, result.Lines)
	assert.True(t, strings.HasPrefix(String(result), "+incdir+rtl/include\n-y lib\n"))
	assert.True(t, strings.HasSuffix(String(result), "../shared/uvm_pkg.sv\n"))
}

func TestGenerate_UnknownTarget(t *testing.T) {
	_, err := Generate(projectTree, mustParse(t), "syn")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetNotFound))
	assert.Equal(t, []string{"rtl", "tb"}, errors.GetErrorDetails(err)["available"])
}

func TestGenerate_BadPattern(t *testing.T) {
	p := &Project{Targets: Targets{{Name: "x", Files: []string{"rtl/[*.v"}}}}
	_, err := Generate(projectTree, p, "x")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestGenerate_GlobOutsideProject(t *testing.T) {
	p := &Project{Targets: Targets{{Name: "x", Files: []string{"../**/*.v"}}}}
	_, err := Generate(projectTree, p, "x")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestGenerate_NoMatches(t *testing.T) {
	p := &Project{Targets: Targets{{Name: "x", Files: []string{"gen/**/*.v"}}}}
	result, err := Generate(projectTree, p, "x")
	require.NoError(t, err)
	assert.Empty(t, result.Lines)
	assert.Equal(t, "", String(result))
}

func TestLoad(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/prj", 0755))
	require.NoError(t, fsys.WriteFile("/prj/project.yml", []byte(dedent.Dedent(projectYAML)), 0644))

	p, err := Load(fsys, "/prj/project.yml")
	require.NoError(t, err)
	assert.Len(t, p.Targets, 2)

	_, err = Load(fsys, "/prj/missing.yml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
