// Package cli wires the knitkit commands into a cobra command tree.
package cli

import (
	"github.com/colin4124/knitkit/internal/version"
	"github.com/colin4124/knitkit/pkg/config"
	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	verbosity    int
	configFile   string
	templatesDir string
}

// settings loads the effective settings, letting the global flags win over
// every file and environment layer
func (o *globalOptions) settings() (*config.Settings, error) {
	overrides := make(map[string]interface{})
	if o.configFile != "" {
		overrides["hierarchy.file"] = o.configFile
	}
	if o.templatesDir != "" {
		overrides["templates.dir"] = o.templatesDir
	}
	return config.Load(config.LoadOptions{
		ProjectDir: ".",
		Overrides:  overrides,
	})
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "knitkit",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity, cmd.Name())
			log.Debug().Strs("args", args).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	flags.StringVar(&opts.templatesDir, "templates", "", MsgFlagTemplates)
	_ = rootCmd.MarkPersistentFlagFilename("config", "yml", "yaml")
	_ = rootCmd.MarkPersistentFlagDirname("templates")

	rootCmd.AddGroup(&cobra.Group{ID: "project", Title: "PROJECT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "config", Title: "CONFIGURATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newCreateCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newProvisionCmd(opts))
	rootCmd.AddCommand(newFilelistCmd(opts))
	rootCmd.AddCommand(newTreeCmd(opts))
	rootCmd.AddCommand(newDumpConfigCmd())
	rootCmd.AddCommand(newSettingsCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}
