package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stacklok/wordfinder/database"
	"github.com/stacklok/wordfinder/internal/config"
	"github.com/stacklok/wordfinder/internal/db"
	"github.com/stacklok/wordfinder/internal/wordlist"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a word file into the word store",
		Long: `Read a word file, keep the entries made only of letters, upper-case and
deduplicate them, and replace every stored word of the given language.
Pending migrations are applied first.`,
		RunE: runImport,
	}

	cmd.Flags().String(configFlag, "", "Path to configuration file with a database section (required)")
	cmd.Flags().StringP(fileFlag, "f", "", "Word file to import, one word per line (required)")
	cmd.Flags().StringP(languageFlag, "L", "", "Language of the word file (required)")
	for _, name := range []string{configFlag, fileFlag, languageFlag} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	return cmd
}

// loadDatabaseConfig loads a configuration that must have a database section
func loadDatabaseConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database == nil {
		return nil, fmt.Errorf("database configuration is required")
	}
	return cfg, nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadDatabaseConfig(cmd)
	if err != nil {
		return err
	}
	file, err := cmd.Flags().GetString(fileFlag)
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	language, err := cmd.Flags().GetString(languageFlag)
	if err != nil {
		return fmt.Errorf("failed to get language flag: %w", err)
	}
	if err := wordlist.ValidateLanguage(language); err != nil {
		return err
	}

	words, err := wordlist.LoadFile(file)
	if err != nil {
		return err
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return fmt.Errorf("failed to get connection string: %w", err)
	}
	if err := database.MigrateUp(connString); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	stored, err := db.NewStore(pool, cfg.Database.Database).ReplaceWords(ctx, language, "file:"+file, words)
	if err != nil {
		return err
	}

	slog.Info("Imported word file",
		"file", file,
		"language", language,
		"read", len(words),
		"stored", stored)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stored %d %s words from %s.\n", stored, language, file)
	return err
}
