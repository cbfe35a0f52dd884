package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-composer/internal/currency"
	"github.com/rezonia/invoice-composer/internal/items"
	"github.com/rezonia/invoice-composer/internal/logger"
	"github.com/rezonia/invoice-composer/internal/metrics"
	"github.com/rezonia/invoice-composer/internal/server"
	"github.com/rezonia/invoice-composer/internal/workspace"
)

var (
	serverAddr      string
	serverDebug     bool
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	exportTimeout   time.Duration
	autosaveDelay   time.Duration
	nodeID          int64
	currencyURL     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server holding one invoice being composed.

The API provides endpoints for:
  - GET|PUT    /api/v1/document        - Whole invoice
  - PUT        /api/v1/document/fields - Free-form fields
  - POST       /api/v1/items           - Add a line item
  - PUT|DELETE /api/v1/items/:id       - Edit or remove a line item
  - POST       /api/v1/items/:id/move  - Reorder a line item
  - PUT|DELETE /api/v1/logo            - Upload or remove the logo
  - PUT        /api/v1/template        - Switch the template
  - GET        /api/v1/preview[/html]  - Live preview
  - GET        /api/v1/totals          - Computed totals
  - GET        /api/v1/progress        - Completion percentage
  - POST       /api/v1/compute         - Stateless totals
  - GET        /api/v1/export/pdf|png  - Download an export
  - GET        /api/v1/currencies      - Currency options
  - GET        /api/v1/share           - Email share link
  - DELETE     /api/v1/draft           - Clear the draft
  - GET        /health                 - Health check
  - GET        /metrics                - Prometheus metrics

Examples:
  # Start server on default port
  invoice-composer serve

  # Keep drafts in redis
  invoice-composer serve --redis-addr localhost:6379

  # Start in debug mode
  invoice-composer serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().DurationVar(&exportTimeout, "export-timeout", 2*time.Minute, "Timeout for one export")
	serveCmd.Flags().DurationVar(&autosaveDelay, "autosave-delay", 2*time.Second, "Quiet period before the draft is saved")
	serveCmd.Flags().Int64Var(&nodeID, "node", 1, "Snowflake node for item and request ids")
	serveCmd.Flags().StringVar(&currencyURL, "currency-url", currency.DefaultURL, "Country directory used for currency options")
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := logger.New(serverDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	node, err := items.NewNode(nodeID)
	if err != nil {
		return err
	}
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, release, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer release()

	ws, err := workspace.New(store,
		workspace.WithNode(node),
		workspace.WithAutosaveDelay(autosaveDelay),
		workspace.WithMetrics(m),
		workspace.WithLogger(log))
	if err != nil {
		return err
	}
	restored, err := ws.Open(ctx)
	if err != nil {
		return err
	}
	log.Info("workspace ready", zap.Bool("restored", restored))
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := ws.Close(flushCtx); err != nil {
			log.Warn("final draft save failed", zap.Error(err))
		}
	}()

	currencies := currency.NewDirectory(
		currency.WithURL(currencyURL),
		currency.WithMetrics(m),
		currency.WithLogger(log))

	config := &server.Config{
		Address:         serverAddr,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ShutdownTimeout: shutdownTimeout,
		ExportTimeout:   exportTimeout,
		Debug:           serverDebug,
		Logger:          log,
		Metrics:         m,
		Node:            node,
	}
	srv := server.NewServer(config, ws, currencies)

	fmt.Printf("Starting server on %s\n", serverAddr)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	fmt.Println("\nServer stopped")
	return nil
}
