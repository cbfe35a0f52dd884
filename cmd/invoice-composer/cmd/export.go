package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-composer/internal/export"
	"github.com/rezonia/invoice-composer/internal/model"
	"github.com/rezonia/invoice-composer/internal/paginate"
	"github.com/rezonia/invoice-composer/internal/workspace"
)

var (
	exportPDF      bool
	exportPNG      bool
	exportOutput   string
	exportScale    float64
	exportMargin   float64
	exportDeadline time.Duration
	exportVerify   bool
)

var exportCmd = &cobra.Command{
	Use:   "export [draft.json]",
	Short: "Export the invoice as PDF or PNG",
	Long: `Export a draft file, or the stored draft when no file is given.

PDF exports capture the full preview and tile it over as many A4 pages as it
needs. PNG exports write the full preview as one image.

Without -o the file is named invoice_<number>.<ext> in the current directory.

Examples:
  invoice-composer export --pdf
  invoice-composer export draft.json --png -o out/invoice.png`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportPDF, "pdf", false, "Export as PDF (default)")
	exportCmd.Flags().BoolVar(&exportPNG, "png", false, "Export as PNG")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file")
	exportCmd.Flags().Float64Var(&exportScale, "scale", export.DefaultScale, "Rasterization scale")
	exportCmd.Flags().Float64Var(&exportMargin, "margin", paginate.A4.MarginMM, "PDF page margin in mm")
	exportCmd.Flags().DurationVar(&exportDeadline, "timeout", 2*time.Minute, "Export timeout")
	exportCmd.Flags().BoolVar(&exportVerify, "verify", true, "Check the page count of the written PDF")
	exportCmd.MarkFlagsMutuallyExclusive("pdf", "png")
}

func runExport(cmd *cobra.Command, args []string) error {
	layout := paginate.A4
	layout.MarginMM = exportMargin

	ws, done, err := openWorkspace(cmd.Context(), args,
		workspace.WithExportOptions(
			export.WithScale(exportScale),
			export.WithLayout(layout),
			export.WithVerify(exportVerify),
		))
	if err != nil {
		return err
	}
	defer done()

	format := export.FormatPDF
	run := ws.ExportPDF
	if exportPNG {
		format = export.FormatPNG
		run = ws.ExportPNG
	}

	path := exportOutput
	if path == "" {
		path = export.FileName(ws.Snapshot(), format)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), exportDeadline)
	defer cancel()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	res, err := run(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		var exportErr *model.ExportError
		if errors.As(err, &exportErr) {
			printVerbose("Export failed at stage %s\n", exportErr.Stage)
		}
		return err
	}

	printVerbose("Captured %dx%d px\n", res.Width, res.Height)
	fmt.Printf("Wrote %s (%d page(s))\n", path, res.Pages)
	return nil
}
