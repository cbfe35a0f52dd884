package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-composer/internal/document"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or clear the stored draft",
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored draft",
	Long: `Print the stored draft in its persisted form. The output can be edited and
passed back to preview, totals, export or share as a draft file.`,
	Args: cobra.NoArgs,
	RunE: runDraftShow,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored draft",
	Args:  cobra.NoArgs,
	RunE:  runDraftClear,
}

func init() {
	rootCmd.AddCommand(draftCmd)
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftClearCmd)
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	ws, done, err := openWorkspace(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer done()

	data, err := document.Encode(ws.Snapshot())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

func runDraftClear(cmd *cobra.Command, args []string) error {
	ws, done, err := openWorkspace(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer done()

	if err := ws.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Draft cleared")
	return nil
}
