// Package filelist produces Verilog simulator filelists from a project file.
//
// A project file names one or more targets:
//
//	targets:
//	  rtl:
//	    include_dirs: [rtl/include]   # +incdir+rtl/include
//	    library_dirs: [lib]           # -y lib
//	    library_files: [lib/cells.v]  # -v lib/cells.v
//	    files: ["rtl/**/*.v"]
//
// Entries containing glob syntax are expanded against the project
// directory with doublestar; other entries are emitted as written.
// Targets keep document order, and the target name "all" selects every
// target, dropping repeated lines.
package filelist
