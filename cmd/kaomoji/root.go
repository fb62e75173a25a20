package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/kaomoji/cmd/kaomoji/commands"
	"github.com/walteh/kaomoji/cmd/kaomoji/opts"
	"github.com/walteh/kaomoji/pkg/log"
)

// newRootCmd wires every command around one set of root options
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "kaomoji",
		Short: "Replace [kaomoji:keyword] placeholders with kaomoji",
		Long: `kaomoji resolves [kaomoji:keyword] placeholders in text against a keyword
dataset, using exact, alias and fuzzy matching.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd, o.Debug)
			if err := o.Init(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cmd.Flag("config").Changed); err != nil {
				return err
			}
			cmd.SetContext(log.NewContext(ctx, o.Logger))
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewReplaceCmd(o),
		commands.NewSearchCmd(o),
		commands.NewValidateCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", opts.DefaultConfigFile, "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringSliceVar(&o.Datasets, "dataset", nil, "dataset files or globs, replacing the configured sources")
}

// setupLogging configures zerolog based on flags and puts the zerolog logger in the command context
func setupLogging(cmd *cobra.Command, debug bool) context.Context {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &zlog

	ctx := zlog.WithContext(cmd.Context())
	cmd.SetContext(ctx)
	return ctx
}
