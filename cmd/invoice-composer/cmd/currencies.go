package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-composer/internal/currency"
)

var (
	currenciesOffline bool
	currenciesURL     string
	currenciesTimeout time.Duration
)

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List selectable currencies",
	Long: `List the currencies offered by the currency selector, one per code, sorted
by code. The list is fetched from a country directory; when that fails, or with
--offline, a built-in list of common currencies is shown instead.`,
	Args: cobra.NoArgs,
	RunE: runCurrencies,
}

func init() {
	rootCmd.AddCommand(currenciesCmd)

	currenciesCmd.Flags().BoolVar(&currenciesOffline, "offline", false, "Use the built-in list only")
	currenciesCmd.Flags().StringVar(&currenciesURL, "url", currency.DefaultURL, "Country directory URL")
	currenciesCmd.Flags().DurationVar(&currenciesTimeout, "timeout", 10*time.Second, "Directory request timeout")
}

func runCurrencies(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}

	var list []currency.Currency
	if currenciesOffline {
		list = currency.Fallback()
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), currenciesTimeout)
		defer cancel()

		printVerbose("Fetching %s\n", currenciesURL)
		dir := currency.NewDirectory(
			currency.WithURL(currenciesURL),
			currency.WithHTTPClient(&http.Client{Timeout: currenciesTimeout}))
		list = dir.List(ctx)
	}

	if outputFormat == "json" {
		return outputJSON(os.Stdout, list)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSYMBOL\tNAME\tCOUNTRY")
	fmt.Fprintln(tw, "----\t------\t----\t-------")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Code, c.Symbol, c.Name, c.Country)
	}
	return tw.Flush()
}
