package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-composer/internal/share"
)

var shareCmd = &cobra.Command{
	Use:   "share [draft.json]",
	Short: "Print the email link for the invoice",
	Long: `Print a mailto link addressed to the client with the invoice subject and a
short message. The exported file still has to be attached by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)
}

// ShareOutput is the JSON form of the share command
type ShareOutput struct {
	Mailto  string `json:"mailto"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func runShare(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	ws, done, err := openWorkspace(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer done()

	s := ws.Snapshot()
	if s.Client.Email == "" {
		printVerbose("Client email is empty, the link has no recipient\n")
	}
	if outputFormat == "table" {
		fmt.Println(ws.Mailto())
		return nil
	}
	return outputJSON(os.Stdout, ShareOutput{
		Mailto:  ws.Mailto(),
		Subject: share.Subject(s),
		Body:    share.Body(s),
	})
}
