// Package export writes the rendered invoice as a multi-page PDF or a
// single PNG image.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/jonboulle/clockwork"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-composer/internal/logger"
	"github.com/rezonia/invoice-composer/internal/metrics"
	"github.com/rezonia/invoice-composer/internal/model"
	"github.com/rezonia/invoice-composer/internal/paginate"
	"github.com/rezonia/invoice-composer/internal/raster"
	"github.com/rezonia/invoice-composer/internal/render"
)

// Formats
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// DefaultScale is the rasterization scale used for exports
const DefaultScale = 2.0

// Export stages reported in model.ExportError
const (
	StageRender    = "render"
	StageRasterize = "rasterize"
	StageTile      = "tile"
	StageWrite     = "write"
	StageVerify    = "verify"
)

var disableConfigDir sync.Once

// Result describes a finished export
type Result struct {
	FileName string
	Pages    int
	Width    int
	Height   int
}

// Exporter captures the preview at full height and writes it out. Exports
// are serialized: only one capture scope is active at a time.
type Exporter struct {
	mu sync.Mutex

	renderer   *render.Renderer
	rasterizer raster.Rasterizer
	viewport   *raster.Viewport
	layout     paginate.Layout
	scale      float64
	verify     bool
	metrics    *metrics.Metrics
	log        *zap.Logger
	clock      clockwork.Clock
}

// Option configures an Exporter
type Option func(*Exporter)

// WithLayout sets the PDF page layout
func WithLayout(l paginate.Layout) Option {
	return func(e *Exporter) {
		e.layout = l
	}
}

// WithScale sets the rasterization scale
func WithScale(scale float64) Option {
	return func(e *Exporter) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithVerify toggles re-reading written PDFs to check their page count
func WithVerify(verify bool) Option {
	return func(e *Exporter) {
		e.verify = verify
	}
}

// WithMetrics records export metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Exporter) {
		e.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(e *Exporter) {
		e.log = log
	}
}

// WithClock sets the clock used to time exports
func WithClock(clock clockwork.Clock) Option {
	return func(e *Exporter) {
		e.clock = clock
	}
}

// NewExporter creates an exporter over the given preview collaborators
func NewExporter(renderer *render.Renderer, rasterizer raster.Rasterizer, viewport *raster.Viewport, opts ...Option) *Exporter {
	e := &Exporter{
		renderer:   renderer,
		rasterizer: rasterizer,
		viewport:   viewport,
		layout:     paginate.A4,
		scale:      DefaultScale,
		verify:     true,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.viewport == nil {
		e.viewport = raster.NewViewport(0)
	}
	e.log = logger.OrNop(e.log).Named("export")
	return e
}

// FileName returns the download name for a snapshot: invoice_<number>.<ext>,
// with "001" standing in for an empty number.
func FileName(s model.Snapshot, ext string) string {
	return fmt.Sprintf("invoice_%s.%s", s.InvoiceNumberOr("001"), ext)
}

// PDF writes the snapshot as an A4 PDF, tiling the captured image over as
// many pages as it needs.
func (e *Exporter) PDF(ctx context.Context, s model.Snapshot, w io.Writer) (Result, error) {
	return e.run(ctx, FormatPDF, s, func(img image.Image, res *Result) error {
		return e.writePDF(img, w, res)
	})
}

// PNG writes the snapshot as a single image at the export scale.
func (e *Exporter) PNG(ctx context.Context, s model.Snapshot, w io.Writer) (Result, error) {
	return e.run(ctx, FormatPNG, s, func(img image.Image, res *Result) error {
		if err := png.Encode(w, img); err != nil {
			return model.NewExportError(FormatPNG, StageWrite, "encode image", err)
		}
		res.Pages = 1
		return nil
	})
}

func (e *Exporter) run(ctx context.Context, format string, s model.Snapshot, write func(image.Image, *Result) error) (res Result, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := e.clock.Now()
	res.FileName = FileName(s, format)
	defer func() {
		e.metrics.ObserveExport(format, res.Pages, e.clock.Since(start), err)
		if err != nil {
			e.log.Error("export failed",
				zap.String("format", format),
				zap.String("file", res.FileName),
				zap.Error(err))
			return
		}
		e.log.Info("export complete",
			zap.String("format", format),
			zap.String("file", res.FileName),
			zap.Int("pages", res.Pages))
	}()

	restore := e.viewport.Relax()
	defer restore()

	doc := e.renderer.Render(s)
	if doc.Failed() {
		return res, model.NewExportError(format, StageRender, doc.Placeholder, nil)
	}

	img, err := e.rasterizer.Rasterize(ctx, doc, e.scale)
	if err != nil {
		return res, model.NewExportError(format, StageRasterize, "capture preview", err)
	}
	res.Width, res.Height = img.Bounds().Dx(), img.Bounds().Dy()

	if err := write(img, &res); err != nil {
		return res, err
	}
	return res, nil
}

func (e *Exporter) writePDF(img image.Image, w io.Writer, res *Result) error {
	plan, err := paginate.TileLayout(res.Width, res.Height, e.layout)
	if err != nil {
		return model.NewExportError(FormatPDF, StageTile, "plan pages", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: e.layout.PageWidthMM, Ht: e.layout.PageHeightMM},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(e.layout.MarginMM, e.layout.MarginMM, e.layout.MarginMM)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	origin := img.Bounds().Min
	for _, page := range plan.Pages {
		var slice bytes.Buffer
		if err := png.Encode(&slice, crop(img, page.Rect().Add(origin))); err != nil {
			return model.NewExportError(FormatPDF, StageWrite, fmt.Sprintf("encode page %d", page.Index+1), err)
		}

		name := fmt.Sprintf("page-%d", page.Index)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &slice)
		pdf.ImageOptions(name, e.layout.MarginMM, e.layout.MarginMM,
			e.layout.ContentWidth(), page.PlacedHeight(plan.Scale), false, opts, 0, "")
		if pdf.Err() {
			return model.NewExportError(FormatPDF, StageWrite, fmt.Sprintf("place page %d", page.Index+1), pdf.Error())
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return model.NewExportError(FormatPDF, StageWrite, "write document", err)
	}

	if e.verify {
		if err := verifyPageCount(out.Bytes(), len(plan.Pages)); err != nil {
			return model.NewExportError(FormatPDF, StageVerify, "check written document", err)
		}
	}

	if _, err := w.Write(out.Bytes()); err != nil {
		return model.NewExportError(FormatPDF, StageWrite, "copy document", err)
	}
	res.Pages = len(plan.Pages)
	return nil
}

func verifyPageCount(data []byte, want int) error {
	disableConfigDir.Do(api.DisableConfigDir)

	got, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("document has %d pages, planned %d", got, want)
	}
	return nil
}

func crop(img image.Image, r image.Rectangle) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}
