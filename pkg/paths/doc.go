// Package paths provides centralized path handling for knitkit.
//
// knitkit follows the XDG Base Directory specification:
//
//   - Data: $XDG_DATA_HOME/knitkit (toolchain sources: mill, mill-cache.tar.gz, knitkit.jar)
//   - Config: $XDG_CONFIG_HOME/knitkit (config.toml or config.yaml)
//   - State: $XDG_STATE_HOME/knitkit (knitkit.log)
//
// Paths taken from settings may start with "~/", which ExpandHome resolves
// against the user's home directory.
package paths
