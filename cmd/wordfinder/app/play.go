package app

import (
	"github.com/spf13/cobra"

	"github.com/stacklok/wordfinder/internal/repl"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Filter words interactively",
		Long: `Start the interactive prompt over a word file (--file) or the configured
word source (--config). Words are narrowed to --length letters first.

Type 'help' at the prompt to see the available commands.`,
		RunE: runPlay,
	}

	addSourceFlags(cmd)
	return cmd
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	return repl.New(source, cfg.GetLanguage(), cfg.GetWordLength(), cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
}
