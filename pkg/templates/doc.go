// Package templates resolves template references used by hierarchy
// documents.
//
// Bundled templates live under assets/ and are compiled into the binary;
// the default hierarchy document references them as "assets/<file>".
// A user template directory can be layered on top, and tests swap in
// an in-memory store.
package templates
