// Package hierarchy loads hierarchy documents and normalizes them into
// types.Node trees.
//
// A hierarchy document is YAML with a top level "hierarchy" mapping:
//
//	hierarchy:
//	  rtl:
//	    core: ""                 # empty directory
//	  Makefile: assets/project.mk  # build descriptor, rendered
//	  build.sc: !copy assets/build.sc
//
// Every value is classified once, here: a mapping is a directory, an
// empty string (or null) is an empty directory, and any other string is a
// template reference. The template role comes from an explicit tag
// (!build, !entrypoint, !copy) or, when untagged, from the role patterns.
package hierarchy
