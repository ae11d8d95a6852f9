package cli

import (
	"fmt"
	"os"

	"github.com/colin4124/knitkit/internal/version"
	"github.com/colin4124/knitkit/pkg/commands"
	"github.com/colin4124/knitkit/pkg/config"
	"github.com/colin4124/knitkit/pkg/filelist"
	"github.com/colin4124/knitkit/pkg/filesystem"
	"github.com/colin4124/knitkit/pkg/hierarchy"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// projectArg returns the project name argument, "." when omitted
func projectArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// dirCompletion completes project names with directories
func dirCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

func newCreateCmd(opts *globalOptions) *cobra.Command {
	var noProvision bool

	cmd := &cobra.Command{
		Use:               "create [project_name]",
		Short:             MsgCreateShort,
		Long:              MsgCreateLong,
		Example:           "  knitkit create riscv-core\n  knitkit --config my-layout.yml create riscv-core",
		GroupID:           "project",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: dirCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}

			result, err := commands.CreateProject(cmd.Context(), commands.CreateProjectOptions{
				ProjectName:   projectArg(args),
				Settings:      settings,
				SkipProvision: noProvision,
			})
			if err != nil {
				if result != nil && len(result.Created) > 0 {
					fmt.Fprint(cmd.ErrOrStderr(), MsgPartialCreated)
					printCreated(cmd.ErrOrStderr(), result.Created)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgProjectCreated, result.Project.DisplayName(), result.Project.Root)
			printCreated(out, result.Created)
			if result.Provision != nil {
				fmt.Fprint(out, MsgToolchainHeader)
				printSteps(out, result.Provision)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noProvision, "no-provision", false, MsgFlagNoProvision)
	return cmd
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "init [project_name]",
		Short:             MsgInitShort,
		Long:              MsgInitLong,
		GroupID:           "project",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: dirCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}

			result, err := commands.InitProject(cmd.Context(), commands.InitProjectOptions{
				ProjectName: projectArg(args),
				Settings:    settings,
			})
			if err != nil {
				if result != nil && len(result.Created) > 0 {
					fmt.Fprint(cmd.ErrOrStderr(), MsgPartialCreated)
					printCreated(cmd.ErrOrStderr(), result.Created)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgProjectInit, result.Project.DisplayName(), result.Project.Root)
			printCreated(out, result.Created)
			return nil
		},
	}
}

func newProvisionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "provision [project_name]",
		Short:             MsgProvisionShort,
		Long:              MsgProvisionLong,
		GroupID:           "project",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: dirCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}

			result, err := commands.Provision(cmd.Context(), commands.ProvisionOptions{
				ProjectName: projectArg(args),
				Settings:    settings,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Changed() {
				fmt.Fprintf(out, MsgToolchainUpToDate, result.Project.Root)
				return nil
			}
			fmt.Fprint(out, MsgToolchainHeader)
			printSteps(out, result)
			return nil
		},
	}
}

func newFilelistCmd(opts *globalOptions) *cobra.Command {
	var (
		target string
		output string
	)

	cmd := &cobra.Command{
		Use:     "filelist [project_cfg]",
		Short:   MsgFilelistShort,
		Long:    MsgFilelistLong,
		Example: "  knitkit filelist -t core\n  knitkit filelist sim/project.yml -t tb -o tb.f",
		GroupID: "config",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}

			projectFile := settings.Filelist.Project
			if len(args) > 0 {
				projectFile = args[0]
			}
			if target == "" {
				target = settings.Filelist.Target
			}

			result, err := commands.GenFilelist(commands.GenFilelistOptions{
				ProjectFile: projectFile,
				Target:      target,
				Output:      output,
			})
			if err != nil {
				return err
			}

			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), MsgFilelistWritten, len(result.Lines), result.Target, output)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), filelist.String(result))
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", MsgFlagTarget)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	_ = cmd.RegisterFlagCompletionFunc("target", opts.targetCompletion)
	return cmd
}

// targetCompletion offers the targets of the project file being completed
func (o *globalOptions) targetCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	settings, err := o.settings()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	projectFile := settings.Filelist.Project
	if len(args) > 0 {
		projectFile = args[0]
	}
	project, err := filelist.Load(filesystem.NewOS(), projectFile)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := []string{filelist.AllTargets}
	for _, t := range project.Targets {
		names = append(names, t.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newTreeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "tree",
		Short:   MsgTreeShort,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}

			result, err := commands.ShowTree(commands.ShowTreeOptions{Settings: settings})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := hierarchy.Print(out, result.Source, result.Root); err != nil {
				return err
			}
			fmt.Fprintf(out, MsgTreeSummary, result.Dirs, result.Files)
			return nil
		},
	}
}

func newDumpConfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "dump-config [file]",
		Short:   MsgDumpConfigShort,
		GroupID: "config",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}

			result, err := commands.DumpConfig(commands.DumpConfigOptions{
				Path:  path,
				Force: force,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, result.Path, humanize.Bytes(uint64(result.Bytes)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func newSettingsCmd(opts *globalOptions) *cobra.Command {
	var commented bool

	cmd := &cobra.Command{
		Use:     "settings",
		Short:   MsgSettingsShort,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if commented {
				fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
				return nil
			}

			settings, err := opts.settings()
			if err != nil {
				return err
			}
			data, err := settings.Dump()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&commented, "commented", false, MsgFlagCommented)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
			return err
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			header := &doc.GenManHeader{
				Title:   "KNITKIT",
				Section: "1",
				Source:  "knitkit " + version.Version,
				Manual:  "knitkit manual",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten, dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "man", MsgFlagManDir)
	return cmd
}
