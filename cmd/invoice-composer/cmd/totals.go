package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-composer/internal/calc"
)

var totalsCmd = &cobra.Command{
	Use:   "totals [draft.json]",
	Short: "Compute the invoice totals",
	Long: `Compute subtotal, tax, discount and grand total of a draft file, or of the
stored draft when no file is given. Items with a negative quantity or price are
left out and counted as skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTotals,
}

func init() {
	rootCmd.AddCommand(totalsCmd)
}

// TotalsOutput is the JSON form of the totals command
type TotalsOutput struct {
	Totals  calc.Totals  `json:"totals"`
	Summary calc.Summary `json:"summary"`
}

func runTotals(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	ws, done, err := openWorkspace(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer done()

	totals := ws.Totals()
	if totals.Skipped > 0 {
		printVerbose("%d item(s) with a negative quantity or price skipped\n", totals.Skipped)
	}
	if outputFormat == "json" {
		return outputJSON(os.Stdout, TotalsOutput{Totals: totals, Summary: totals.Summary()})
	}
	return outputTotalsTable(totals)
}

func outputTotalsTable(t calc.Totals) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDESCRIPTION\tQTY\tPRICE\tAMOUNT")
	fmt.Fprintln(tw, "-\t-----------\t---\t-----\t------")
	for _, line := range t.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			line.Index+1,
			line.Description,
			line.Quantity.String(),
			t.Money(line.UnitPrice),
			t.Money(line.Amount),
		)
	}

	s := t.Summary()
	fmt.Fprintln(tw, "\t\t\t\t")
	fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\n", s.Subtotal)
	fmt.Fprintf(tw, "\t\t\tTax (%s)\t%s\n", s.TaxLabel, s.Tax)
	fmt.Fprintf(tw, "\t\t\tDiscount (%s)\t%s\n", s.DiscountLabel, s.Discount)
	fmt.Fprintf(tw, "\t\t\tGrand Total\t%s\n", s.GrandTotal)
	return tw.Flush()
}
