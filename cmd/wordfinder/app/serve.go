package app

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	serverapp "github.com/stacklok/wordfinder/internal/app"
)

const defaultGracefulTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the word filtering API server",
		Long: `Start the HTTP API. Clients either run one-shot searches or create filtering
sessions that keep their constraints between requests. Idle sessions are
evicted after the configured TTL.

See the examples/ directory for sample configurations.`,
		RunE: runServe,
	}

	addSourceFlags(cmd)
	cmd.Flags().String("address", "", "Address to listen on (default from config, or :8080)")
	if err := viper.BindPFlag("address", cmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
	}

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	opts := []serverapp.ServerAppOption{serverapp.WithConfig(cfg)}
	// --address or WORDFINDER_ADDRESS wins over the config file
	if address := viper.GetString("address"); address != "" {
		opts = append(opts, serverapp.WithAddress(address))
	}

	server, err := serverapp.NewServerApp(ctx, opts...)
	if err != nil {
		return err
	}

	slog.Info("Starting wordfinder API server",
		"address", server.GetHTTPServer().Addr,
		"language", cfg.GetLanguage())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		return server.Stop(defaultGracefulTimeout)
	})

	return g.Wait()
}
