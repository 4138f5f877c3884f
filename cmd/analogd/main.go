// Analogd is an MCP server that finds cross-domain analogies for technical
// problems, backed by a concept graph and a persisted pattern library.
//
// The server speaks MCP over stdio. An optional HTTP API can be enabled with
// --http or via configuration.
//
// Usage:
//
//	# Start the MCP server on stdio
//	analogd serve
//
//	# Also expose the HTTP API
//	analogd serve --http
//
//	# Configure via environment
//	ANALOGD_LIBRARY_PATH=/var/lib/analogd/patterns.json analogd serve
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/analogd/internal/analogy"
	"github.com/fyrsmithlabs/analogd/internal/conceptgraph"
	"github.com/fyrsmithlabs/analogd/internal/config"
	analogdhttp "github.com/fyrsmithlabs/analogd/internal/http"
	"github.com/fyrsmithlabs/analogd/internal/logging"
	"github.com/fyrsmithlabs/analogd/internal/mcp"
	"github.com/fyrsmithlabs/analogd/internal/patterns"
	"github.com/fyrsmithlabs/analogd/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	configPath string
	httpFlag   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "analogd",
	Short: "Cross-domain analogy server",
	Long: `analogd finds structural analogies between technical problems and
patterns from other domains (kitchens, ant colonies, hospitals), and exposes
them as MCP tools plus an optional HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/analogd/config.yaml)")
	serveCmd.Flags().BoolVar(&httpFlag, "http", false, "also start the HTTP API listener")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analogd MCP server on stdio",
	Long: `Start the analogd MCP server on the stdio transport.

Examples:
  # Start with defaults
  analogd serve

  # Start with the HTTP API enabled
  analogd serve --http

  # Use an explicit config file
  analogd serve --config /etc/analogd/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		go func() {
			<-sigCh
			cancel()
		}()

		return run(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("analogd by Fyrsmith Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

// run wires the engine and its stores, then blocks on the MCP stdio transport
// until the context is cancelled.
func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	logger.Info("starting analogd",
		zap.String("version", version),
		zap.String("library_path", cfg.Library.Path),
		zap.Bool("http_enabled", cfg.HTTP.Enabled || httpFlag),
		zap.String("log_level", cfg.Logging.Level))

	library, err := patterns.NewLibrary(cfg.Library.Path, logger.Named("patterns"))
	if err != nil {
		return fmt.Errorf("failed to open pattern library: %w", err)
	}

	httpEnabled := cfg.HTTP.Enabled || httpFlag

	// The metric pipeline is only useful when something can scrape /metrics.
	tel, err := telemetry.New(&telemetry.Config{
		Enabled:        cfg.Metrics.Enabled || httpEnabled,
		ServiceName:    cfg.Server.Name,
		ServiceVersion: version,
	})
	if err != nil {
		logger.Warn("telemetry disabled", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer shutdownCancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				logger.Warn("telemetry shutdown failed", zap.Error(err))
			}
		}()
	}

	graph := conceptgraph.NewGraph(logger.Named("conceptgraph"))

	engine, err := analogy.NewEngine(library, logger.Named("analogy"),
		analogy.WithReinforceThreshold(cfg.Analogy.ReinforceThreshold))
	if err != nil {
		return fmt.Errorf("failed to create analogy engine: %w", err)
	}

	mcpServer, err := mcp.NewServer(&mcp.Config{
		Name:    cfg.Server.Name,
		Version: version,
		Logger:  logger.Named("mcp"),
	}, engine, graph, library)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if httpEnabled {
		httpServer, err := analogdhttp.NewServer(engine, library, logger.Named("http"), &analogdhttp.Config{
			Host: cfg.HTTP.Host,
			Port: cfg.HTTP.Port,
		})
		if err != nil {
			return fmt.Errorf("failed to create HTTP server: %w", err)
		}

		go func() {
			if err := httpServer.Start(); err != nil {
				logger.Error("http server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http server shutdown failed", zap.Error(err))
			}
		}()
	}

	if err := mcpServer.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("analogd shutdown complete")
	return nil
}
