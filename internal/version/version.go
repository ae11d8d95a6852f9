package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/colin4124/knitkit/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/colin4124/knitkit/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/colin4124/knitkit/internal/version.Date={{.Date}}
)
