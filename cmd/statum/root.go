package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudhex/statum/internal/logger"
)

// rootFlags holds every persistent flag shared by all subcommands, grounded
// on the teacher's rootFlags pattern in cmd/streamy/root.go (a flags struct
// threaded into each subcommand constructor rather than globals).
type rootFlags struct {
	dir        string
	configPath string
	overrides  map[string]string
	verbosity  int
	noColor    bool
}

func (f *rootFlags) logLevel() string {
	switch {
	case f.verbosity >= 2:
		return "debug"
	case f.verbosity == 1:
		return "debug"
	default:
		return "info"
	}
}

func (f *rootFlags) newLogger() *logger.Logger {
	return logger.New(logger.Options{
		Level:         f.logLevel(),
		HumanReadable: !f.noColor,
	})
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{overrides: map[string]string{}}

	cmd := &cobra.Command{
		Use:           "statum",
		Short:         "statum reconciles machine state against declarative manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.dir, "dir", "d", "", "manifest directory to scan, overriding manifest_paths")
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to statum.yaml")
	cmd.PersistentFlags().StringToStringVarP(&flags.overrides, "define", "D", nil, "override a variable: -D section.key=value")
	cmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable human-readable colored log output")

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newStatusCmd(flags))
	cmd.AddCommand(newContextsCmd(flags))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCompletionsCmd())

	return cmd
}
