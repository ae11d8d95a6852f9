package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Hardware project scaffolder and mill toolchain provisioner"
	MsgCreateShort     = "Create a project, generate its tree and provision the toolchain"
	MsgInitShort       = "Generate the project tree into an existing directory"
	MsgInitLong        = "Init generates the configured hierarchy into an existing directory without creating it and without provisioning."
	MsgProvisionShort  = "Install the mill toolchain into a project"
	MsgProvisionLong   = "Provision extracts the dependency cache, copies the mill binary and copies knitkit.jar into .knitkit. Steps whose target already exists are skipped."
	MsgDumpConfigShort = "Write the default hierarchy document"
	MsgTreeShort       = "Show the configured hierarchy"
	MsgFilelistShort   = "Print a Verilog filelist for a target"
	MsgSettingsShort   = "Print the effective settings as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgProjectCreated    = "Created project '%s' in %s\n"
	MsgProjectInit       = "Generated project '%s' in %s\n"
	MsgCreatedItem       = "  + %s\n"
	MsgToolchainHeader   = "Toolchain:\n"
	MsgToolchainUpToDate = "Toolchain already provisioned in %s\n"
	MsgStepItem          = "  %s %s%s\n"
	MsgPartialCreated    = "Created before the failure:\n"
	MsgConfigWritten     = "Wrote hierarchy document to %s (%s)\n"
	MsgFilelistWritten   = "Wrote %d lines for target '%s' to %s\n"
	MsgTreeSummary       = "\n%d directories, %d files\n"
	MsgManWritten        = "Wrote man pages to %s\n"

	// Version output
	MsgVersionFormat = "knitkit version %s\n"
	MsgCommitFormat  = "  commit: %s\n"
	MsgBuiltFormat   = "  built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Hierarchy document to generate from (default: bundled)"
	MsgFlagTemplates   = "Directory searched for templates before the bundled ones"
	MsgFlagNoProvision = "Skip toolchain provisioning"
	MsgFlagForce       = "Overwrite an existing file"
	MsgFlagTarget      = "Target to emit, or \"all\""
	MsgFlagOutput      = "Write the filelist to a file instead of stdout"
	MsgFlagCommented   = "Print the default settings with every value commented out"
	MsgFlagManDir      = "Directory the man pages are written to"

	// Error messages
	MsgErrNoCommand = "no command specified"
	MsgErrDetail    = "  %s: %v\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/create-long.txt
	msgCreateLongRaw string
	MsgCreateLong    = strings.TrimSpace(msgCreateLongRaw)

	//go:embed msgs/filelist-long.txt
	msgFilelistLongRaw string
	MsgFilelistLong    = strings.TrimSpace(msgFilelistLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
