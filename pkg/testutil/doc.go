// Package testutil provides helpers shared by knitkit tests.
//
// Key components:
//   - FaultFS: a types.FS wrapper that records operations and injects errors
//   - Project: an isolated project root on the real filesystem or in memory
//   - TarGz: builds gzip tarballs inline for toolchain tests
//   - Assert*: filesystem assertions on top of testify
//
// All test data should be defined inline, not in external files.
package testutil
