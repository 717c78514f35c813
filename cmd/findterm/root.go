package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a2y-d5l/findterm/internal/config"
	"github.com/a2y-d5l/findterm/internal/scan"
)

func newRootCommand() *cobra.Command {
	var opts config.Options

	cmd := &cobra.Command{
		Use:   "findterm [flags] <root_path> <search_term>",
		Short: "Print every line below a directory that contains a term",
		Long: `findterm walks root_path recursively, opens every file it finds and prints
each line containing search_term as an exact, case-sensitive substring.

Files that cannot be read are reported on stderr and skipped.
Use -- before the arguments if the term starts with a dash.`,
		Version:       config.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New(append([]string{cmd.Name()}, args...), opts)
			if err != nil {
				return err
			}
			_, err = scan.Run(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
			return err
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrInvalidArguments, err)
	})
	opts.AddFlags(cmd.Flags())

	return cmd
}
