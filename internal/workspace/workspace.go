// Package workspace owns the invoice being composed: the form, its live
// preview, autosave and exports.
package workspace

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-composer/internal/calc"
	"github.com/rezonia/invoice-composer/internal/document"
	"github.com/rezonia/invoice-composer/internal/draft"
	"github.com/rezonia/invoice-composer/internal/export"
	"github.com/rezonia/invoice-composer/internal/items"
	"github.com/rezonia/invoice-composer/internal/logger"
	"github.com/rezonia/invoice-composer/internal/metrics"
	"github.com/rezonia/invoice-composer/internal/model"
	"github.com/rezonia/invoice-composer/internal/raster"
	"github.com/rezonia/invoice-composer/internal/render"
	"github.com/rezonia/invoice-composer/internal/share"
)

// DefaultClipHeight is the on-screen preview height in unscaled pixels
const DefaultClipHeight = 1100

// Workspace is safe for concurrent use. Every edit re-renders the preview
// synchronously and schedules an autosave.
type Workspace struct {
	mu      sync.Mutex
	form    *document.Form
	preview render.Document

	store    draft.Store
	renderer *render.Renderer
	exporter *export.Exporter
	autosave *draft.Autosaver
	viewport *raster.Viewport
	metrics  *metrics.Metrics
	log      *zap.Logger
}

type options struct {
	node          *snowflake.Node
	clock         clockwork.Clock
	autosaveDelay time.Duration
	clipHeight    int
	rasterizer    raster.Rasterizer
	exportOpts    []export.Option
	metrics       *metrics.Metrics
	log           *zap.Logger
}

// Option configures a Workspace
type Option func(*options)

// WithNode sets the snowflake node used for item identities
func WithNode(node *snowflake.Node) Option {
	return func(o *options) {
		o.node = node
	}
}

// WithClock sets the clock for preview dates and autosave timers
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithAutosaveDelay sets the quiet period before a draft save
func WithAutosaveDelay(d time.Duration) Option {
	return func(o *options) {
		o.autosaveDelay = d
	}
}

// WithClipHeight sets the preview viewport height
func WithClipHeight(h int) Option {
	return func(o *options) {
		o.clipHeight = h
	}
}

// WithRasterizer replaces the built-in text rasterizer
func WithRasterizer(r raster.Rasterizer) Option {
	return func(o *options) {
		o.rasterizer = r
	}
}

// WithExportOptions passes options through to the exporter
func WithExportOptions(opts ...export.Option) Option {
	return func(o *options) {
		o.exportOpts = append(o.exportOpts, opts...)
	}
}

// WithMetrics records workspace metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// New creates a workspace persisting drafts to store. Call Open before use.
func New(store draft.Store, opts ...Option) (*Workspace, error) {
	o := options{
		clock:         clockwork.NewRealClock(),
		autosaveDelay: draft.DefaultDelay,
		clipHeight:    DefaultClipHeight,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.node == nil {
		node, err := items.NewNode(1)
		if err != nil {
			return nil, err
		}
		o.node = node
	}
	log := logger.OrNop(o.log)

	w := &Workspace{
		form:     document.NewForm(items.NewStore(o.node)),
		store:    store,
		viewport: raster.NewViewport(o.clipHeight),
		metrics:  o.metrics,
		log:      log.Named("workspace"),
	}
	w.renderer = render.NewRenderer(render.WithClock(o.clock), render.WithLogger(log))

	rasterizer := o.rasterizer
	if rasterizer == nil {
		rasterizer = raster.NewTextRasterizer(raster.DefaultWidth, w.viewport)
	}
	exportOpts := append([]export.Option{
		export.WithMetrics(o.metrics),
		export.WithLogger(log),
		export.WithClock(o.clock),
	}, o.exportOpts...)
	w.exporter = export.NewExporter(w.renderer, rasterizer, w.viewport, exportOpts...)

	w.autosave = draft.NewAutosaver(store, w.Snapshot,
		draft.WithDelay(o.autosaveDelay),
		draft.WithClock(o.clock),
		draft.WithMetrics(o.metrics),
		draft.WithLogger(log))

	w.form.Reset()
	w.rerender()
	return w, nil
}

// Open restores the persisted draft, or starts a blank invoice with one empty
// item when there is none or it cannot be read. It reports whether a draft
// was restored.
func (w *Workspace) Open(ctx context.Context) (bool, error) {
	s, ok, err := draft.LoadSnapshot(ctx, w.store)
	if err != nil {
		w.log.Warn("starting fresh, draft unusable", zap.Error(err))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if ok {
		w.form.Restore(s)
	} else {
		w.form.Reset()
	}
	w.rerender()
	return ok, ctx.Err()
}

// Close saves any pending edits and stops autosaving
func (w *Workspace) Close(ctx context.Context) error {
	err := w.autosave.Flush(ctx)
	w.autosave.Stop()
	return err
}

// Clear deletes the persisted draft and resets the form to a blank invoice
// with one empty item.
func (w *Workspace) Clear(ctx context.Context) error {
	w.autosave.Cancel()
	if err := w.store.Delete(ctx, document.DraftKey); err != nil {
		return model.NewDraftError(document.DraftKey, "delete failed", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Reset()
	w.rerender()
	return nil
}

// Snapshot captures the current invoice
func (w *Workspace) Snapshot() model.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Capture()
}

// Restore replaces the whole invoice with s
func (w *Workspace) Restore(s model.Snapshot) model.Snapshot {
	return w.edit(func(f *document.Form) {
		f.Restore(s)
	})
}

// SetFields replaces the free-form fields
func (w *Workspace) SetFields(fields model.Fields) model.Snapshot {
	return w.edit(func(f *document.Form) {
		f.Fields = fields
	})
}

// Items lists the line items with their identities
func (w *Workspace) Items() []items.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Items.List()
}

// AddItem appends an item
func (w *Workspace) AddItem(item model.LineItem) items.Entry {
	var id items.ID
	w.edit(func(f *document.Form) {
		id = f.Items.Append(item)
	})
	return items.Entry{ID: id, Item: item}
}

// UpdateItem replaces the fields of an existing item
func (w *Workspace) UpdateItem(id items.ID, item model.LineItem) error {
	return w.editItem(func(s *items.Store) bool { return s.Set(id, item) })
}

// RemoveItem deletes an item. Removing the last item leaves none.
func (w *Workspace) RemoveItem(id items.ID) error {
	return w.editItem(func(s *items.Store) bool { return s.Remove(id) })
}

// MoveItem places an item before another, or last when before is items.End
func (w *Workspace) MoveItem(id, before items.ID) error {
	return w.editItem(func(s *items.Store) bool {
		if id == before {
			_, ok := s.Get(id)
			return ok
		}
		return s.Reorder(id, before)
	})
}

// SetLogo stores an uploaded logo. An oversized upload clears the logo and
// returns an error wrapping model.ErrLogoTooLarge.
func (w *Workspace) SetLogo(data []byte, mime string) error {
	var err error
	w.edit(func(f *document.Form) {
		err = f.SetLogo(data, mime)
	})
	return err
}

// ClearLogo removes the logo
func (w *Workspace) ClearLogo() {
	w.edit(func(f *document.Form) {
		f.ClearLogo()
	})
}

// SetTemplate switches the presentation variant; unknown names fall back to
// minimalist.
func (w *Workspace) SetTemplate(name string) model.Template {
	var t model.Template
	w.edit(func(f *document.Form) {
		t = f.SetTemplate(name)
	})
	return t
}

// Preview returns the document rendered after the latest edit
func (w *Workspace) Preview() render.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.preview
}

// PreviewHTML returns the latest preview as a standalone HTML page
func (w *Workspace) PreviewHTML() ([]byte, error) {
	return render.HTML(w.Preview())
}

// Totals computes the totals of the current invoice
func (w *Workspace) Totals() calc.Totals {
	return calc.ComputeSnapshot(w.Snapshot())
}

// Progress returns the completion percentage of the current invoice
func (w *Workspace) Progress() int {
	return document.Progress(w.Snapshot())
}

// Mailto builds the share link for the current invoice
func (w *Workspace) Mailto() string {
	return share.Mailto(w.Snapshot())
}

// ExportPDF writes the current invoice as a paginated PDF
func (w *Workspace) ExportPDF(ctx context.Context, out io.Writer) (export.Result, error) {
	return w.exporter.PDF(ctx, w.Snapshot(), out)
}

// ExportPNG writes the current invoice as one image
func (w *Workspace) ExportPNG(ctx context.Context, out io.Writer) (export.Result, error) {
	return w.exporter.PNG(ctx, w.Snapshot(), out)
}

// Viewport exposes the preview layout constraint
func (w *Workspace) Viewport() *raster.Viewport {
	return w.viewport
}

func (w *Workspace) edit(fn func(*document.Form)) model.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.form)
	w.rerender()
	w.autosave.Touch()
	return w.form.Capture()
}

func (w *Workspace) editItem(fn func(*items.Store) bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !fn(w.form.Items) {
		return model.ErrItemNotFound
	}
	w.rerender()
	w.autosave.Touch()
	return nil
}

// rerender requires w.mu
func (w *Workspace) rerender() {
	w.preview = w.renderer.Render(w.form.Capture())
	w.metrics.ObserveRender(w.preview.Failed())
}

// IsNotFound reports whether err addresses an unknown line item
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrItemNotFound)
}
