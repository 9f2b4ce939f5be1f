package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/wordfinder/internal/config"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}

	cmd.Flags().String(configFlag, "", "Path to configuration file (YAML format)")
	if err := cmd.MarkFlagRequired(configFlag); err != nil {
		panic(err)
	}

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	// LoadConfig validates before returning
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Valid configuration")
	fmt.Fprintf(out, "  Language: %s\n", cfg.GetLanguage())
	fmt.Fprintf(out, "  Word length: %d\n", cfg.GetWordLength())
	fmt.Fprintf(out, "  Source type: %s\n", cfg.GetSourceType())
	if cfg.Sessions != nil {
		fmt.Fprintf(out, "  Session TTL: %s\n", cfg.GetSessionTTL())
	}
	return nil
}
