package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	serverapp "github.com/stacklok/wordfinder/internal/app"
	"github.com/stacklok/wordfinder/internal/config"
	"github.com/stacklok/wordfinder/internal/wordlist"
)

const (
	configFlag   = "config"
	fileFlag     = "file"
	languageFlag = "language"
	lengthFlag   = "length"
)

// addSourceFlags registers the flags that pick a word source
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String(configFlag, "", "Path to configuration file (YAML format)")
	cmd.Flags().StringP(fileFlag, "f", "", "Word file to read, one word per line (overrides the configured source)")
	cmd.Flags().StringP(languageFlag, "L", "", "Language of the word list (default from config, or en)")
	cmd.Flags().IntP(lengthFlag, "l", 0, "Length of the words to load, 0 for every length (default from config, or 5)")
}

// resolveConfig builds the configuration from --config and lets --file,
// --language and --length override it. Without --config, --file is required.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	file, err := cmd.Flags().GetString(fileFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to get file flag: %w", err)
	}

	var cfg *config.Config
	switch {
	case configPath != "":
		cfg, err = config.LoadConfig(config.WithConfigPath(configPath))
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		if file != "" {
			cfg.Wordlist = &config.WordlistConfig{Path: file}
			cfg.Database = nil
		}
	case file != "":
		cfg = config.Default(file)
	default:
		return nil, fmt.Errorf("either --%s or --%s is required", configFlag, fileFlag)
	}

	if cmd.Flags().Changed(languageFlag) {
		if cfg.Language, err = cmd.Flags().GetString(languageFlag); err != nil {
			return nil, fmt.Errorf("failed to get language flag: %w", err)
		}
	}
	if cmd.Flags().Changed(lengthFlag) {
		length, err := cmd.Flags().GetInt(lengthFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to get length flag: %w", err)
		}
		cfg.WordLength = &length
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openSource creates the word source the configuration selects
func openSource(ctx context.Context, cfg *config.Config) (wordlist.Source, func(), error) {
	return serverapp.OpenSource(ctx, cfg)
}
