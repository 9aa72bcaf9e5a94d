// Command aetherius-server runs the Aetherius Archive MCP server: it
// indexes the document directory, exposes the archive tools and
// resources over HTTP, and optionally serves Prometheus metrics and
// exports traces.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/everlight/aetherius/pkg/archive"
	"github.com/everlight/aetherius/pkg/config"
	"github.com/everlight/aetherius/pkg/embedding"
	"github.com/everlight/aetherius/pkg/logging"
	"github.com/everlight/aetherius/pkg/observability"
	"github.com/everlight/aetherius/pkg/server"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string
	flagHost   string
	flagPort   int
	flagDocs   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "aetherius-server",
		Short:        "MCP server for the Aetherius Archive",
		Long:         "Serves the Aetherius Archive document repository over the Model Context Protocol: document tools, resources, and context for AI-assistant clients.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.Flags().StringVar(&flagHost, "host", "", "bind host (overrides config)")
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "bind port (overrides config)")
	rootCmd.Flags().StringVar(&flagDocs, "docs-dir", "", "documents directory (overrides config)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// A .env file is optional; real environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flagHost != "" {
		cfg.Server.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}
	if flagDocs != "" {
		cfg.Archive.DocumentsDir = flagDocs
	}

	logger := buildLogger(cfg.Logging)
	logger.Info("starting archive server",
		logging.String("name", cfg.Server.Name),
		logging.String("version", cfg.Server.Version),
		logging.String("documents_dir", cfg.Archive.DocumentsDir),
	)

	indexOpts := []archive.IndexOption{
		archive.WithSummaryLength(cfg.Archive.SummaryLength),
		archive.WithIndexLogger(logger),
	}
	if cfg.Embedding.Enabled {
		provider, err := embedding.NewHashProvider(cfg.Embedding.Dimension)
		if err != nil {
			// Search degrades to empty results; document processing still works
			logger.WithError(err).Warn("embedding provider unavailable, search disabled")
		} else {
			indexOpts = append(indexOpts, archive.WithProvider(provider))
		}
	}
	index := archive.NewIndex(indexOpts...)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics, err = observability.NewMetrics(observability.MetricsConfig{
			ServiceName:    cfg.Server.Name,
			ServiceVersion: cfg.Server.Version,
			MetricsPath:    cfg.Metrics.Path,
			MetricsPort:    cfg.Metrics.Port,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	srvOpts := []server.Option{
		server.WithName(cfg.Server.Name),
		server.WithVersion(cfg.Server.Version),
		server.WithLogger(logger),
	}
	if metrics != nil {
		srvOpts = append(srvOpts, server.WithMetrics(metrics))
	}
	srv := server.New(srvOpts...)

	handlers := archive.NewHandlers(cfg.Archive.DocumentsDir, index, logger)
	if err := handlers.Register(srv); err != nil {
		return fmt.Errorf("failed to register archive handlers: %w", err)
	}

	docs, err := archive.LoadDocuments(cfg.Archive.DocumentsDir)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	index.ProcessBatch(docs)
	logger.Info("archive indexed", logging.Int("documents", index.Len()))
	if metrics != nil {
		metrics.SetDocumentsIndexed(index.Len())
	}

	var handler observability.Handler = srv
	var tracing *observability.TracingProvider
	if cfg.Tracing.Enabled {
		tracing, err = observability.NewTracingProvider(observability.TracingConfig{
			ServiceName:    cfg.Server.Name,
			ServiceVersion: cfg.Server.Version,
			ExporterType:   observability.ExporterType(cfg.Tracing.Exporter),
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
			SampleRate:     cfg.Tracing.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		handler = observability.TraceHandler(tracing, srv)
	}

	mux := http.NewServeMux()
	mux.Handle("/", logging.HTTPMiddleware(logger, nil)(server.NewHTTPHandler(handler, logger)))
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("listening", logging.String("addr", cfg.Server.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if metrics != nil {
		group.Go(func() error {
			return metrics.Start(ctx)
		})
	}

	if cfg.Archive.Watch {
		watcher, err := archive.NewWatcher(handlers, srv, logger)
		if err != nil {
			return fmt.Errorf("failed to start document watcher: %w", err)
		}
		group.Go(func() error {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		if metrics != nil {
			if merr := metrics.Shutdown(shutdownCtx); err == nil {
				err = merr
			}
		}
		if tracing != nil {
			if terr := tracing.Shutdown(shutdownCtx); err == nil {
				err = terr
			}
		}
		return err
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("server exited with error")
		return err
	}
	logger.Info("server stopped")
	return nil
}

func buildLogger(cfg config.LoggingConfig) logging.Logger {
	var formatter logging.Formatter
	switch cfg.Format {
	case "json":
		formatter = logging.NewJSONFormatter()
	default:
		formatter = logging.NewTextFormatter()
	}

	logger := logging.New(os.Stderr, formatter)
	switch cfg.Level {
	case "debug":
		logger.SetLevel(logging.DebugLevel)
	case "warn":
		logger.SetLevel(logging.WarnLevel)
	case "error":
		logger.SetLevel(logging.ErrorLevel)
	default:
		logger.SetLevel(logging.InfoLevel)
	}
	return logger
}
