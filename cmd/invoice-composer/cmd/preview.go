package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-composer/internal/render"
)

var previewHTML bool

var previewCmd = &cobra.Command{
	Use:   "preview [draft.json]",
	Short: "Render the invoice preview",
	Long: `Render the preview of a draft file, or of the stored draft when no file is
given.

Examples:
  # Structured preview as JSON
  invoice-composer preview draft.json

  # Human readable
  invoice-composer preview -f table

  # Standalone HTML page
  invoice-composer preview --html > invoice.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().BoolVar(&previewHTML, "html", false, "Write the preview as an HTML page")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	ws, done, err := openWorkspace(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer done()

	if previewHTML {
		page, err := ws.PreviewHTML()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(page)
		return err
	}

	doc := ws.Preview()
	if outputFormat == "json" {
		return outputJSON(os.Stdout, doc)
	}

	if doc.Failed() {
		fmt.Println(doc.Placeholder)
		return nil
	}
	for _, line := range doc.Lines() {
		switch line.Kind {
		case render.LineRule:
			fmt.Println("----------------------------------------")
		case render.LineBlank:
			fmt.Println()
		case render.LineHeading:
			fmt.Println(strings.ToUpper(line.Text))
		default:
			fmt.Println(line.Text)
		}
	}
	return nil
}
