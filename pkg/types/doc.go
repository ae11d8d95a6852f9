// Package types defines the core types and interfaces used throughout knitkit.
// This includes the hierarchy Node variant and its template Role, the
// ProjectContext carrying the toolchain layout, and the FS and TemplateStore
// interfaces the generator and provisioner are written against.
package types
