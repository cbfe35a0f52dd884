package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	draftDir     string
	redisAddr    string
	redisPrefix  string
)

var rootCmd = &cobra.Command{
	Use:   "invoice-composer",
	Short: "Compose invoices and export them as PDF or PNG",
	Long: `Invoice Composer keeps a draft invoice, computes its totals and renders a
preview that can be exported as a paginated PDF or a single PNG image.

Drafts are stored in a local directory, or in redis when --redis-addr is set.

Examples:
  # Serve the interactive API
  invoice-composer serve --address :8080

  # Show the totals of the stored draft
  invoice-composer totals -f table

  # Export a saved draft file as PDF
  invoice-composer export draft.json --pdf -o invoice.pdf

  # List currencies without network access
  invoice-composer currencies --offline`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&draftDir, "draft-dir", "", "Directory holding the draft (env: INVOICE_DRAFT_DIR)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address for drafts (env: INVOICE_REDIS_ADDR)")
	rootCmd.PersistentFlags().StringVar(&redisPrefix, "redis-prefix", "invoice-composer:", "Key prefix for redis drafts")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if draftDir == "" {
		draftDir = os.Getenv("INVOICE_DRAFT_DIR")
	}
	if draftDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			draftDir = filepath.Join(dir, "invoice-composer")
		} else {
			draftDir = ".invoice-composer"
		}
	}
	if redisAddr == "" {
		redisAddr = os.Getenv("INVOICE_REDIS_ADDR")
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
