// pkg/types/types_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test the hierarchy node variant and the project layout

package types_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/colin4124/knitkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *types.Node {
	return types.NewDir("",
		types.NewEmptyDir("builds"),
		types.NewDir("rtl",
			types.NewEmptyDir("src"),
			types.NewTemplate("Makefile", "assets/project.mk", types.RoleBuildDescriptor),
		),
		types.NewDir("chisel",
			types.NewDir("src", types.NewTemplate("Main.scala", "assets/Main.scala", types.RoleEntrypoint)),
		),
		types.NewTemplate("Makefile", "assets/project.mk", types.RoleBuildDescriptor),
		types.NewTemplate("build.sc", "assets/build.sc", types.RoleOpaque),
	)
}

func TestNode_Walk(t *testing.T) {
	assert.Equal(t, []string{
		"builds",
		"rtl",
		"rtl/src",
		"rtl/Makefile",
		"chisel",
		"chisel/src",
		"chisel/src/Main.scala",
		"Makefile",
		"build.sc",
	}, sampleTree().DeclaredPaths())
}

func TestNode_WalkStops(t *testing.T) {
	stop := errors.New("stop")
	var visited []string
	err := sampleTree().Walk(func(rel string, n *types.Node) error {
		visited = append(visited, rel)
		if rel == "rtl/src" {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, []string{"builds", "rtl", "rtl/src"}, visited)
}

func TestNode_Templates(t *testing.T) {
	assert.Equal(t, []string{"assets/project.mk", "assets/Main.scala", "assets/build.sc"}, sampleTree().Templates())
}

func TestNode_Child(t *testing.T) {
	tree := sampleTree()
	require.NotNil(t, tree.Child("rtl"))
	assert.Equal(t, types.KindDir, tree.Child("rtl").Kind)
	assert.Nil(t, tree.Child("missing"))
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "dir", types.KindDir.String())
	assert.Equal(t, "empty-dir", types.KindEmptyDir.String())
	assert.Equal(t, "template", types.KindTemplate.String())
	assert.Equal(t, "NodeKind(9)", types.NodeKind(9).String())
}

func TestRole(t *testing.T) {
	tests := []struct {
		role    types.Role
		special bool
		valid   bool
	}{
		{types.RoleOpaque, false, true},
		{types.RoleBuildDescriptor, true, true},
		{types.RoleEntrypoint, true, true},
		{types.Role("script"), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.special, tt.role.IsSpecial())
			assert.Equal(t, tt.valid, tt.role.Valid())
		})
	}
}

func TestProjectContext(t *testing.T) {
	p := types.ProjectContext{Name: "cpu", Root: filepath.FromSlash("/work/cpu")}

	assert.False(t, p.IsCurrentDir())
	assert.Equal(t, "cpu", p.DisplayName())
	assert.Equal(t, ".knitkit", p.ToolchainDir())
	assert.Equal(t, ".knitkit/mill", p.MillPath())
	assert.Equal(t, ".knitkit/jars", p.MillLibPath())
	assert.Equal(t, ".knitkit/.cache", p.MillCachePath())
	assert.Equal(t, ".knitkit/jars/knitkit.jar", p.KnitkitJarPath())
	assert.Equal(t, filepath.FromSlash("/work/cpu/.knitkit/mill"), p.Abs(p.MillPath()))

	assert.Equal(t, map[string]string{
		"mill_path":       ".knitkit/mill",
		"mill_lib_path":   ".knitkit/jars",
		"mill_cache_path": ".knitkit/.cache",
		"project_name":    "cpu",
	}, p.Substitutions())
}

func TestNewProjectContext(t *testing.T) {
	cwd, err := filepath.Abs(".")
	require.NoError(t, err)

	p, err := types.NewProjectContext("")
	require.NoError(t, err)
	assert.Equal(t, ".", p.Name)
	assert.True(t, p.IsCurrentDir())
	assert.Equal(t, cwd, p.Root)

	p, err = types.NewProjectContext("chip")
	require.NoError(t, err)
	assert.False(t, p.IsCurrentDir())
	assert.Equal(t, filepath.Join(cwd, "chip"), p.Root)
}

func TestProvisionResult_Changed(t *testing.T) {
	r := &types.ProvisionResult{Steps: []types.ProvisionStep{{Action: "skipped"}, {Action: "skipped"}}}
	assert.False(t, r.Changed())
	r.Steps = append(r.Steps, types.ProvisionStep{Action: "copied"})
	assert.True(t, r.Changed())
}
