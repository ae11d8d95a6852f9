package toolchain

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"testing"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/testutil"
	"github.com/colin4124/knitkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, envType testutil.EnvType) (*testutil.Project, Sources) {
	t.Helper()
	p := testutil.NewProject(t, envType, "chip")
	sources := Sources{
		CacheTarball: p.HomeFile(t, "share/mill-cache.tar.gz", testutil.TarGz(t, map[string]string{
			".cache/":                        "",
			".cache/coursier/":               "",
			".cache/coursier/chisel3.jar":    "chisel3-bytes",
			".cache/coursier/firrtl.jar":     "firrtl-bytes",
			".cache/mill/versions/0.9.7.txt": "0.9.7",
		})),
		MillBin:    p.HomeFile(t, "share/mill", []byte("#!/bin/sh\nexec java -jar mill.jar \"$@\"\n")),
		KnitkitJar: p.HomeFile(t, "share/knitkit.jar", []byte("PK-knitkit")),
	}
	return p, sources
}

func TestProvision(t *testing.T) {
	p, sources := setup(t, testutil.EnvMemoryOnly)

	result, err := New(p.FS, sources).Provision(context.Background(), p.Context)
	require.NoError(t, err)
	require.Len(t, result.Steps, 4)
	assert.True(t, result.Changed())

	assert.Equal(t, types.ProvisionStep{Path: ".knitkit", Action: ActionExtracted, Bytes: 30, Entries: 5}, result.Steps[0])
	assert.Equal(t, ".knitkit/mill", result.Steps[1].Path)
	assert.Equal(t, ActionCopied, result.Steps[1].Action)
	assert.Equal(t, types.ProvisionStep{Path: ".knitkit/jars", Action: ActionCreated}, result.Steps[2])
	assert.Equal(t, ".knitkit/jars/knitkit.jar", result.Steps[3].Path)

	testutil.AssertFileContent(t, p.FS, p.Path(".knitkit/.cache/coursier/chisel3.jar"), "chisel3-bytes")
	testutil.AssertFileContent(t, p.FS, p.Path(".knitkit/.cache/mill/versions/0.9.7.txt"), "0.9.7")
	testutil.AssertFileContent(t, p.FS, p.Path(".knitkit/jars/knitkit.jar"), "PK-knitkit")
	testutil.AssertDirExists(t, p.FS, p.Path(".knitkit/jars"))

	info, err := p.FS.Stat(p.Path(".knitkit/mill"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestProvision_Idempotent(t *testing.T) {
	p, sources := setup(t, testutil.EnvMemoryOnly)
	prov := New(p.FS, sources)

	_, err := prov.Provision(context.Background(), p.Context)
	require.NoError(t, err)

	// a user edit must survive re-provisioning
	require.NoError(t, p.FS.WriteFile(p.Path(".knitkit/mill"), []byte("patched"), 0755))

	fault := testutil.NewFaultFS(p.FS)
	result, err := New(fault, sources).Provision(context.Background(), p.Context)
	require.NoError(t, err)

	assert.False(t, result.Changed())
	for _, s := range result.Steps {
		assert.Equal(t, ActionSkipped, s.Action, s.Path)
	}
	assert.Empty(t, fault.Ops(), "nothing may be written")
	testutil.AssertFileContent(t, p.FS, p.Path(".knitkit/mill"), "patched")
}

func TestProvision_FillsGaps(t *testing.T) {
	p, sources := setup(t, testutil.EnvMemoryOnly)
	require.NoError(t, p.FS.MkdirAll(p.Path(".knitkit/jars"), 0755))

	result, err := New(p.FS, sources).Provision(context.Background(), p.Context)
	require.NoError(t, err)

	actions := make([]string, 0, len(result.Steps))
	for _, s := range result.Steps {
		actions = append(actions, s.Action)
	}
	assert.Equal(t, []string{ActionSkipped, ActionCopied, ActionSkipped, ActionCopied}, actions)
	testutil.AssertNotExists(t, p.FS, p.Path(".knitkit/.cache"))
}

func TestProvision_MissingSource(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Sources)
		source string
	}{
		{"no tarball", func(s *Sources) { s.CacheTarball = "/nowhere/cache.tar.gz" }, "cache tarball"},
		{"no mill", func(s *Sources) { s.MillBin = "" }, "mill binary"},
		{"no jar", func(s *Sources) { s.KnitkitJar = "/nowhere/knitkit.jar" }, "knitkit jar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, sources := setup(t, testutil.EnvMemoryOnly)
			tt.mutate(&sources)
			prov := New(p.FS, sources)

			err := prov.CheckSources()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrToolchainSource))
			assert.Equal(t, tt.source, errors.GetErrorDetails(err)["source"])

			_, err = prov.Provision(context.Background(), p.Context)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrToolchainSource))
		})
	}
}

func TestCheckSources_Directory(t *testing.T) {
	p, sources := setup(t, testutil.EnvMemoryOnly)
	sources.MillBin = p.Home

	err := New(p.FS, sources).CheckSources()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func rawTarGz(t *testing.T, headers ...*tar.Header) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, h := range headers {
		require.NoError(t, tw.WriteHeader(h))
		if h.Size > 0 {
			_, err := tw.Write(bytes.Repeat([]byte("x"), int(h.Size)))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestExtract_RejectsEscapes(t *testing.T) {
	tests := []struct {
		name   string
		header *tar.Header
	}{
		{"parent traversal", &tar.Header{Name: "../evil", Typeflag: tar.TypeReg, Size: 1, Mode: 0644}},
		{"nested traversal", &tar.Header{Name: ".cache/../../evil", Typeflag: tar.TypeReg, Size: 1, Mode: 0644}},
		{"absolute", &tar.Header{Name: "/etc/evil", Typeflag: tar.TypeReg, Size: 1, Mode: 0644}},
		{"absolute link", &tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "/etc/passwd"}},
		{"escaping link", &tar.Header{Name: "a/link", Typeflag: tar.TypeSymlink, Linkname: "../../x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewProject(t, testutil.EnvMemoryOnly, "x")
			src := p.HomeFile(t, "bad.tar.gz", rawTarGz(t, tt.header))

			_, err := extract(context.Background(), p.FS, src, p.Path(".knitkit"))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrToolchainExtract))
			assert.Contains(t, err.Error(), "escapes the destination")
			testutil.AssertNotExists(t, p.FS, p.Path("evil"))
		})
	}
}

func TestExtract_RejectsWritesThroughSymlinks(t *testing.T) {
	tests := []struct {
		name    string
		headers []*tar.Header
	}{
		{"chained parent links", []*tar.Header{
			{Name: "d/", Typeflag: tar.TypeDir, Mode: 0755},
			{Name: "d/l", Typeflag: tar.TypeSymlink, Linkname: ".."},
			{Name: "d/l/l2", Typeflag: tar.TypeSymlink, Linkname: ".."},
			{Name: "d/l/l2/evil", Typeflag: tar.TypeReg, Size: 1, Mode: 0644},
		}},
		{"file below a link", []*tar.Header{
			{Name: "d/", Typeflag: tar.TypeDir, Mode: 0755},
			{Name: "d/l", Typeflag: tar.TypeSymlink, Linkname: ".."},
			{Name: "d/l/evil", Typeflag: tar.TypeReg, Size: 1, Mode: 0644},
		}},
		{"overwrite a link", []*tar.Header{
			{Name: "real.jar", Typeflag: tar.TypeReg, Size: 1, Mode: 0644},
			{Name: "current.jar", Typeflag: tar.TypeSymlink, Linkname: "real.jar"},
			{Name: "current.jar", Typeflag: tar.TypeReg, Size: 2, Mode: 0644},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewProject(t, testutil.EnvIsolated, "x")
			src := p.HomeFile(t, "bad.tar.gz", rawTarGz(t, tt.headers...))

			_, err := extract(context.Background(), p.FS, src, p.Path(".knitkit"))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrToolchainExtract))
			assert.Contains(t, err.Error(), "through symlink")

			_, statErr := os.Lstat(p.Path("evil"))
			assert.True(t, os.IsNotExist(statErr), "nothing may land beside .knitkit")
			_, statErr = os.Lstat(p.Path("../evil"))
			assert.True(t, os.IsNotExist(statErr), "nothing may land above the project root")
		})
	}
}

func TestExtract_NotGzip(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly, "x")
	src := p.HomeFile(t, "cache.tar.gz", []byte("plain text"))

	_, err := extract(context.Background(), p.FS, src, p.Path(".knitkit"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolchainExtract))
}

func TestExtract_Symlinks(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvIsolated, "x")
	src := p.HomeFile(t, "cache.tar.gz", rawTarGz(t,
		&tar.Header{Name: "lib/", Typeflag: tar.TypeDir, Mode: 0755},
		&tar.Header{Name: "lib/real.jar", Typeflag: tar.TypeReg, Size: 4, Mode: 0644},
		&tar.Header{Name: "lib/current.jar", Typeflag: tar.TypeSymlink, Linkname: "real.jar"},
	))

	stats, err := extract(context.Background(), p.FS, src, p.Path(".knitkit"))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.entries)
	assert.Equal(t, int64(4), stats.bytes)

	target, err := os.Readlink(p.Path(".knitkit/lib/current.jar"))
	require.NoError(t, err)
	assert.Equal(t, "real.jar", target)
	testutil.AssertFileContent(t, p.FS, p.Path(".knitkit/lib/current.jar"), "xxxx")
}

func TestProvision_Cancelled(t *testing.T) {
	p, sources := setup(t, testutil.EnvMemoryOnly)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(p.FS, sources).Provision(ctx, p.Context)
	require.Error(t, err)
	assert.Empty(t, result.Steps)
	testutil.AssertNotExists(t, p.FS, p.Path(".knitkit"))
}
