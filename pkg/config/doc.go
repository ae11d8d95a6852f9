// Package config loads knitkit settings.
//
// Settings come from embedded TOML defaults, the user configuration file,
// a project-local knitkit.toml, KNITKIT_ environment variables and command
// line overrides, in that order. The merged result is decoded into
// Settings and validated.
package config
