package generator

import (
	"context"
	"os"
	"testing"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/hierarchy"
	"github.com/colin4124/knitkit/pkg/templates"
	"github.com/colin4124/knitkit/pkg/testutil"
	"github.com/colin4124/knitkit/pkg/types"
	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectMk = "MILL = {mill_path}\nLIB = {mill_lib_path}\nCACHE = {mill_cache_path}\n"

func testStore() *templates.MemoryStore {
	return templates.NewMemoryStore(map[string]string{
		"project.mk": projectMk,
		"Main.scala": "object Main { def x = Map(1 -> 2) }\n",
		"blob.bin":   "\x00\x01{not_a_key}\xff",
	})
}

func newGenerator(fsys types.FS, store types.TemplateStore, subst map[string]string) *Generator {
	return New(Options{FS: fsys, Store: store, Substitutions: subst})
}

func projectSubst(p *testutil.Project) map[string]string {
	return p.Context.Substitutions()
}

func TestGenerate_ExampleScenario(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "demo")

	tree := types.NewDir("",
		types.NewDir("rtl", types.NewEmptyDir("core.v")),
		types.NewTemplate("build", "project.mk", types.RoleBuildDescriptor),
	)

	report, err := newGenerator(p.FS, testStore(), projectSubst(p)).
		Generate(context.Background(), p.Context.Root, tree)
	require.NoError(t, err)

	assert.Equal(t, []string{"rtl", "rtl/core.v", "build"}, report.Paths())
	testutil.AssertDirExists(t, p.FS, p.Path("rtl"))
	testutil.AssertDirExists(t, p.FS, p.Path("rtl/core.v"))
	testutil.AssertFileContent(t, p.FS, p.Path("build"),
		"MILL = .knitkit/mill\nLIB = .knitkit/jars\nCACHE = .knitkit/.cache\n")
}

func TestGenerate_StructuralRoundTrip(t *testing.T) {
	for _, envType := range []testutil.EnvType{testutil.EnvMemoryOnly, testutil.EnvIsolated} {
		p := testutil.NewProject(t, envType, "roundtrip")

		tree, err := hierarchy.Parse([]byte(dedent.Dedent(`
			hierarchy:
			  builds: ""
			  docs:
			  rtl:
			    src: ""
			    include: ""
			  chisel:
			    src:
			      Main.scala: Main.scala
			  Makefile: project.mk
			  data.bin: blob.bin
		`)), hierarchy.DefaultOptions())
		require.NoError(t, err)

		report, err := newGenerator(p.FS, testStore(), projectSubst(p)).
			Generate(context.Background(), p.Context.Root, tree)
		require.NoError(t, err)
		assert.Equal(t, tree.DeclaredPaths(), report.Paths())

		_ = tree.Walk(func(rel string, node *types.Node) error {
			switch node.Kind {
			case types.KindTemplate:
				testutil.AssertFileExists(t, p.FS, p.Path(rel))
			default:
				testutil.AssertDirExists(t, p.FS, p.Path(rel))
			}
			return nil
		})
	}
}

func TestGenerate_RolesDispatch(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "roles")
	store := testStore()

	tree := types.NewDir("",
		types.NewTemplate("Main.scala", "Main.scala", types.RoleEntrypoint),
		types.NewTemplate("data.bin", "blob.bin", types.RoleOpaque),
	)

	_, err := newGenerator(p.FS, store, nil).Generate(context.Background(), p.Context.Root, tree)
	require.NoError(t, err)

	for name, ref := range map[string]string{"Main.scala": "Main.scala", "data.bin": "blob.bin"} {
		want, err := store.Lookup(ref)
		require.NoError(t, err)
		got, err := p.FS.ReadFile(p.Path(name))
		require.NoError(t, err)
		assert.Equal(t, want, got, "%s should be byte-identical", name)
	}
}

func TestGenerate_SecondRunFails(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "twice")
	tree := types.NewDir("",
		types.NewDir("rtl", types.NewEmptyDir("src")),
		types.NewTemplate("Makefile", "project.mk", types.RoleBuildDescriptor),
	)
	gen := newGenerator(p.FS, testStore(), projectSubst(p))

	_, err := gen.Generate(context.Background(), p.Context.Root, tree)
	require.NoError(t, err)

	report, err := gen.Generate(context.Background(), p.Context.Root, tree)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystem))
	assert.Empty(t, report.Entries)
	assert.Equal(t, p.Path("rtl"), errors.GetErrorDetails(err)["path"])
}

func TestGenerate_ExistingFileFails(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "clash")
	require.NoError(t, p.FS.WriteFile(p.Path("Makefile"), []byte("mine"), 0644))

	tree := types.NewDir("", types.NewTemplate("Makefile", "project.mk", types.RoleBuildDescriptor))
	_, err := newGenerator(p.FS, testStore(), projectSubst(p)).
		Generate(context.Background(), p.Context.Root, tree)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystem))
	assert.Contains(t, err.Error(), "already exists")
	testutil.AssertFileContent(t, p.FS, p.Path("Makefile"), "mine")
}

func TestGenerate_MissingSubstitutionWritesNothing(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "missing")
	tree := types.NewDir("", types.NewTemplate("Makefile", "project.mk", types.RoleBuildDescriptor))

	subst := projectSubst(p)
	delete(subst, types.SubstMillLibPath)

	_, err := newGenerator(p.FS, testStore(), subst).
		Generate(context.Background(), p.Context.Root, tree)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingSubstitution))
	assert.Equal(t, []string{types.SubstMillLibPath}, errors.GetErrorDetails(err)["missing"])
	testutil.AssertNotExists(t, p.FS, p.Path("Makefile"))
}

func TestGenerate_UnknownTemplate(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "unknown")
	tree := types.NewDir("", types.NewTemplate("README", "nope.md", types.RoleOpaque))

	_, err := newGenerator(p.FS, testStore(), nil).Generate(context.Background(), p.Context.Root, tree)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
	testutil.AssertNotExists(t, p.FS, p.Path("README"))
}

func TestGenerate_PreOrder(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "preorder")
	fault := testutil.NewFaultFS(p.FS)
	fault.FailOn("mkdir", p.Path("rtl"), os.ErrPermission)

	tree := types.NewDir("",
		types.NewEmptyDir("docs"),
		types.NewDir("rtl",
			types.NewEmptyDir("src"),
			types.NewTemplate("Makefile", "project.mk", types.RoleBuildDescriptor),
		),
		types.NewEmptyDir("sim"),
	)

	report, err := newGenerator(fault, testStore(), projectSubst(p)).
		Generate(context.Background(), p.Context.Root, tree)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystem))
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, []string{"docs"}, report.Paths())
	assert.Equal(t, []string{p.Path("docs"), p.Path("rtl")}, fault.Touched(),
		"no child of rtl and nothing after it may be attempted")
}

func TestGenerate_VisitsParentsFirst(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "order")
	fault := testutil.NewFaultFS(p.FS)

	tree := types.NewDir("",
		types.NewDir("a", types.NewDir("b", types.NewEmptyDir("c")), types.NewEmptyDir("d")),
		types.NewTemplate("e", "Main.scala", types.RoleEntrypoint),
	)

	_, err := newGenerator(fault, testStore(), nil).Generate(context.Background(), p.Context.Root, tree)
	require.NoError(t, err)

	assert.Equal(t, []testutil.Op{
		{Name: "mkdir", Path: p.Path("a")},
		{Name: "mkdir", Path: p.Path("a/b")},
		{Name: "mkdir", Path: p.Path("a/b/c")},
		{Name: "mkdir", Path: p.Path("a/d")},
		{Name: "create", Path: p.Path("e")},
	}, fault.Ops())
}

func TestGenerate_RootMustBeDirectory(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "root")
	tree := types.NewDir("", types.NewEmptyDir("x"))
	gen := newGenerator(p.FS, testStore(), nil)

	_, err := gen.Generate(context.Background(), p.Path("absent"), tree)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystem))

	require.NoError(t, p.FS.WriteFile(p.Path("file"), []byte("x"), 0644))
	_, err = gen.Generate(context.Background(), p.Path("file"), tree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestGenerate_Cancelled(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "cancel")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newGenerator(p.FS, testStore(), nil).
		Generate(ctx, p.Context.Root, types.NewDir("", types.NewEmptyDir("x")))
	require.Error(t, err)
	assert.Empty(t, report.Entries)
	testutil.AssertNotExists(t, p.FS, p.Path("x"))
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		tree    *types.Node
		subst   map[string]string
		code    errors.ErrorCode
		wantErr bool
	}{
		{
			name: "all templates resolve",
			tree: types.NewDir("",
				types.NewTemplate("Makefile", "project.mk", types.RoleBuildDescriptor),
				types.NewDir("src", types.NewTemplate("Main.scala", "Main.scala", types.RoleEntrypoint)),
			),
			subst: types.ProjectContext{Name: ".", Root: "/p"}.Substitutions(),
		},
		{
			name: "unknown templates are reported together",
			tree: types.NewDir("",
				types.NewTemplate("a", "x.txt", types.RoleOpaque),
				types.NewDir("d", types.NewTemplate("b", "y.txt", types.RoleOpaque)),
			),
			code:    errors.ErrTemplateNotFound,
			wantErr: true,
		},
		{
			name:    "build descriptor without substitutions",
			tree:    types.NewDir("", types.NewTemplate("Makefile", "project.mk", types.RoleBuildDescriptor)),
			subst:   map[string]string{},
			code:    errors.ErrMissingSubstitution,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newGenerator(nil, testStore(), tt.subst).Check(tt.tree)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestCheck_ListsMissingTemplates(t *testing.T) {
	tree := types.NewDir("",
		types.NewTemplate("a", "y.txt", types.RoleOpaque),
		types.NewTemplate("b", "x.txt", types.RoleOpaque),
		types.NewTemplate("c", "y.txt", types.RoleOpaque),
	)
	err := newGenerator(nil, testStore(), nil).Check(tree)
	require.Error(t, err)
	assert.Equal(t, []string{"x.txt", "y.txt"}, errors.GetErrorDetails(err)["templates"])
}
