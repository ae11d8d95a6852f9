package testutil

import (
	"testing"

	"github.com/colin4124/knitkit/pkg/config"
)

// Toolchain artifact contents written by Settings
const (
	MillContent = "#!/bin/sh\nexec java -jar \"$0\" \"$@\"\n"
	JarContent  = "PK\x03\x04knitkit"
)

// CacheEntries is the dependency cache written by Settings
var CacheEntries = map[string]string{
	".cache/":                     "",
	".cache/coursier/":            "",
	".cache/coursier/chisel3.jar": "chisel3",
}

// Settings returns default settings whose toolchain sources exist below
// p.Home on p.FS.
func Settings(t *testing.T, p *Project) *config.Settings {
	t.Helper()
	return &config.Settings{
		Toolchain: config.ToolchainSettings{
			CacheTarball: p.HomeFile(t, "share/mill-cache.tar.gz", TarGz(t, CacheEntries)),
			MillBin:      p.HomeFile(t, "share/mill", []byte(MillContent)),
			KnitkitJar:   p.HomeFile(t, "share/knitkit.jar", []byte(JarContent)),
		},
		Roles: config.RoleSettings{
			Build:      []string{"project.mk"},
			Entrypoint: []string{"Main.scala"},
		},
		Generate: config.GenerateSettings{DirMode: "0755", FileMode: "0644"},
		Filelist: config.FilelistSettings{Project: "project.yml", Target: "all"},
	}
}
