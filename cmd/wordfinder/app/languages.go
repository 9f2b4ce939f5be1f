package app

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stacklok/wordfinder/internal/db"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the languages in the word store",
		RunE:  runLanguages,
	}

	cmd.Flags().String(configFlag, "", "Path to configuration file with a database section (required)")
	if err := cmd.MarkFlagRequired(configFlag); err != nil {
		panic(err)
	}

	return cmd
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadDatabaseConfig(cmd)
	if err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	languages, err := db.NewStore(pool, cfg.Database.Database).Languages(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LANGUAGE\tWORDS\tSOURCE\tIMPORTED")
	for _, info := range languages {
		imported := "-"
		if info.ImportedAt != nil {
			imported = info.ImportedAt.Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", info.Language, info.WordCount, info.Source, imported)
	}
	return w.Flush()
}
