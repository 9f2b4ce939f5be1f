package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/wordfinder/internal/api"
	"github.com/stacklok/wordfinder/internal/config"
	"github.com/stacklok/wordfinder/internal/db"
	"github.com/stacklok/wordfinder/internal/httpclient"
	"github.com/stacklok/wordfinder/internal/session"
	"github.com/stacklok/wordfinder/internal/telemetry"
	"github.com/stacklok/wordfinder/internal/versions"
	"github.com/stacklok/wordfinder/internal/wordlist"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second // Must be > request timeout to let middleware handle timeout
	defaultIdleTimeout    = 60 * time.Second
)

// ServerAppOption configures the server app builder
type ServerAppOption func(*serverAppConfig) error

type serverAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	source         wordlist.Source
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
}

func baseConfig(opts ...ServerAppOption) (*serverAppConfig, error) {
	cfg := &serverAppConfig{
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if cfg.address == "" {
		cfg.address = cfg.config.GetAddress()
	}

	return cfg, nil
}

// NewServerApp builds the word source, session manager and HTTP server
// described by the configuration
func NewServerApp(ctx context.Context, opts ...ServerAppOption) (*ServerApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	cleanup := func() {}
	if cfg.source == nil {
		cfg.source, cleanup, err = OpenSource(ctx, cfg.config)
		if err != nil {
			return nil, fmt.Errorf("failed to open word source: %w", err)
		}
	}

	// Release the source if anything below fails
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			cleanup()
		}
	}()

	if cfg.tracerProvider == nil {
		cfg.tracerProvider, err = telemetry.NewTracerProvider(ctx, cfg.config.Tracing, versions.Get().Version)
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer provider: %w", err)
		}
	}

	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
		cfg.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	manager, err := session.NewManager(cfg.source,
		session.WithTTL(cfg.config.GetSessionTTL()),
		session.WithCleanupInterval(cfg.config.GetCleanupInterval()),
		session.WithMaxSessions(cfg.config.GetMaxSessions()),
		session.WithMetrics(telemetry.NewFilterMetrics(cfg.registry)),
		session.WithTracerProvider(cfg.tracerProvider),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	httpServer := buildHTTPServer(cfg, manager)

	appCtx, cancel := context.WithCancel(ctx)
	cleanupNeeded = false

	slog.Info("Server app initialized",
		"address", cfg.address,
		"source", cfg.source.GetSource(),
		"session_ttl", cfg.config.GetSessionTTL())

	return &ServerApp{
		manager:        manager,
		httpServer:     httpServer,
		tracerProvider: cfg.tracerProvider,
		ctx:            appCtx,
		cancelFunc: func() {
			cancel()
			cleanup()
		},
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) ServerAppOption {
	return func(cfg *serverAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress overrides the configured listen address
func WithAddress(addr string) ServerAppOption {
	return func(cfg *serverAppConfig) error {
		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default middleware chain
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerAppOption {
	return func(cfg *serverAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithTracerProvider sets the tracer provider instead of building one from the configuration
func WithTracerProvider(tp trace.TracerProvider) ServerAppOption {
	return func(cfg *serverAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithSource replaces the word source the configuration describes
func WithSource(source wordlist.Source) ServerAppOption {
	return func(cfg *serverAppConfig) error {
		if source == nil {
			return fmt.Errorf("source cannot be nil")
		}
		cfg.source = source
		return nil
	}
}

// WithRegistry sets the Prometheus registry metrics are recorded in and served from
func WithRegistry(reg *prometheus.Registry) ServerAppOption {
	return func(cfg *serverAppConfig) error {
		cfg.registry = reg
		return nil
	}
}

// OpenSource creates the word source the configuration selects. The returned
// function releases its resources.
func OpenSource(ctx context.Context, cfg *config.Config) (wordlist.Source, func(), error) {
	switch cfg.GetSourceType() {
	case config.SourceTypeFile:
		return wordlist.NewFileSource(cfg.Wordlist.Path), func() {}, nil
	case config.SourceTypeURL:
		client := httpclient.NewDefaultClient(cfg.Wordlist.GetTimeout())
		return wordlist.NewURLSource(cfg.Wordlist.URL, client), func() {}, nil
	case config.SourceTypeDatabase:
		pool, err := db.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Connected to word store",
			"host", cfg.Database.Host,
			"database", cfg.Database.Database)
		return db.NewStore(pool, cfg.Database.Database), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("no word source configured")
	}
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(b *serverAppConfig, svc session.Service) *http.Server {
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Tracing and metrics come first so requests rejected further down are seen too
	b.middlewares = append([]func(http.Handler) http.Handler{
		telemetry.TracingMiddleware(b.tracerProvider),
		telemetry.NewHTTPMetrics(b.registry).Middleware,
	}, b.middlewares...)

	router := api.NewServer(svc,
		api.WithMiddlewares(b.middlewares...),
		api.WithMetricsHandler(promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{Registry: b.registry})),
	)

	return &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}
}
