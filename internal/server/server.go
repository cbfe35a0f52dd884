package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-composer/internal/calc"
	"github.com/rezonia/invoice-composer/internal/currency"
	"github.com/rezonia/invoice-composer/internal/document"
	"github.com/rezonia/invoice-composer/internal/export"
	"github.com/rezonia/invoice-composer/internal/items"
	"github.com/rezonia/invoice-composer/internal/logger"
	"github.com/rezonia/invoice-composer/internal/metrics"
	"github.com/rezonia/invoice-composer/internal/model"
	"github.com/rezonia/invoice-composer/internal/share"
	"github.com/rezonia/invoice-composer/internal/workspace"
)

// Config holds server configuration
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	ExportTimeout   time.Duration
	Debug           bool

	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Node    *snowflake.Node
}

// Server represents the HTTP API server
type Server struct {
	config     *Config
	router     *gin.Engine
	workspace  *workspace.Workspace
	currencies *currency.Directory
	log        *zap.Logger
}

// NewServer creates a new API server around an opened workspace
func NewServer(config *Config, ws *workspace.Workspace, currencies *currency.Directory) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.ExportTimeout <= 0 {
		config.ExportTimeout = 2 * time.Minute
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	log := logger.OrNop(config.Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware(log, config.Node))
	router.Use(metrics.GinMiddleware(config.Metrics))

	s := &Server{
		config:     config,
		router:     router,
		workspace:  ws,
		currencies: currencies,
		log:        log.Named("server"),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)
	if s.config.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.config.Metrics.Handler()))
	}

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Document state
		v1.GET("/document", s.handleGetDocument)
		v1.PUT("/document", s.handlePutDocument)
		v1.PUT("/document/fields", s.handlePutFields)

		// Line items
		v1.POST("/items", s.handleAddItem)
		v1.PUT("/items/:id", s.handleUpdateItem)
		v1.DELETE("/items/:id", s.handleRemoveItem)
		v1.POST("/items/:id/move", s.handleMoveItem)

		// Presentation
		v1.PUT("/logo", s.handlePutLogo)
		v1.DELETE("/logo", s.handleDeleteLogo)
		v1.PUT("/template", s.handlePutTemplate)

		// Derived views
		v1.GET("/preview", s.handlePreview)
		v1.GET("/preview/html", s.handlePreviewHTML)
		v1.GET("/totals", s.handleTotals)
		v1.GET("/progress", s.handleProgress)
		v1.POST("/compute", s.handleCompute)

		// Exports
		v1.GET("/export/pdf", s.handleExportPDF)
		v1.GET("/export/png", s.handleExportPNG)

		// Collaborators
		v1.GET("/currencies", s.handleCurrencies)
		v1.GET("/share", s.handleShare)
		v1.DELETE("/draft", s.handleClearDraft)
	}
}

// Run starts the HTTP server and shuts it down when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("address", s.config.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) documentResponse() DocumentResponse {
	snap := s.workspace.Snapshot()
	return DocumentResponse{
		Document: snap,
		Items:    itemResponses(s.workspace.Items()),
		Progress: document.Progress(snap),
	}
}

func (s *Server) handleGetDocument(c *gin.Context) {
	c.JSON(http.StatusOK, s.documentResponse())
}

func (s *Server) handlePutDocument(c *gin.Context) {
	var snap model.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid document", Details: err.Error()})
		return
	}
	s.workspace.Restore(snap)
	c.JSON(http.StatusOK, s.documentResponse())
}

func (s *Server) handlePutFields(c *gin.Context) {
	var fields model.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid fields", Details: err.Error()})
		return
	}
	s.workspace.SetFields(fields)
	c.JSON(http.StatusOK, s.documentResponse())
}

func (s *Server) handleAddItem(c *gin.Context) {
	var item model.LineItem
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item", Details: err.Error()})
			return
		}
	}
	entry := s.workspace.AddItem(item)
	c.JSON(http.StatusCreated, ItemResponse{ID: entry.ID.String(), LineItem: entry.Item})
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	id, ok := itemID(c, c.Param("id"))
	if !ok {
		return
	}
	var item model.LineItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item", Details: err.Error()})
		return
	}
	if err := s.workspace.UpdateItem(id, item); err != nil {
		s.itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, ItemResponse{ID: id.String(), LineItem: item})
}

func (s *Server) handleRemoveItem(c *gin.Context) {
	id, ok := itemID(c, c.Param("id"))
	if !ok {
		return
	}
	if err := s.workspace.RemoveItem(id); err != nil {
		s.itemError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMoveItem(c *gin.Context) {
	id, ok := itemID(c, c.Param("id"))
	if !ok {
		return
	}
	var req MoveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid move", Details: err.Error()})
			return
		}
	}
	before := items.End
	if req.Before != "" {
		if before, ok = itemID(c, req.Before); !ok {
			return
		}
	}
	if err := s.workspace.MoveItem(id, before); err != nil {
		s.itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": itemResponses(s.workspace.Items())})
}

func (s *Server) handlePutLogo(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, model.MaxLogoBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	mime := c.ContentType()
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}

	if err := s.workspace.SetLogo(data, mime); err != nil {
		if errors.Is(err, model.ErrLogoTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "logo too large", Details: err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid logo", Details: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteLogo(c *gin.Context) {
	s.workspace.ClearLogo()
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePutTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid template", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, TemplateResponse{Template: s.workspace.SetTemplate(req.Template)})
}

func (s *Server) handlePreview(c *gin.Context) {
	c.JSON(http.StatusOK, s.workspace.Preview())
}

func (s *Server) handlePreviewHTML(c *gin.Context) {
	page, err := s.workspace.PreviewHTML()
	if err != nil {
		s.log.Error("preview page failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "preview unavailable"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleTotals(c *gin.Context) {
	c.JSON(http.StatusOK, totalsResponse(s.workspace.Totals()))
}

func (s *Server) handleProgress(c *gin.Context) {
	c.JSON(http.StatusOK, ProgressResponse{Progress: s.workspace.Progress()})
}

func (s *Server) handleCompute(c *gin.Context) {
	var req ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, totalsResponse(calc.Compute(req.Items, req.TaxRate, req.Discount, req.Currency)))
}

func (s *Server) handleExportPDF(c *gin.Context) {
	s.handleExport(c, "application/pdf", s.workspace.ExportPDF)
}

func (s *Server) handleExportPNG(c *gin.Context) {
	s.handleExport(c, "image/png", s.workspace.ExportPNG)
}

func (s *Server) handleExport(c *gin.Context, contentType string, run func(context.Context, io.Writer) (export.Result, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.ExportTimeout)
	defer cancel()

	var buf bytes.Buffer
	res, err := run(ctx, &buf)
	if err != nil {
		var exportErr *model.ExportError
		if errors.As(err, &exportErr) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "export failed", Details: exportErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "export failed", Details: err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) handleCurrencies(c *gin.Context) {
	var list []currency.Currency
	if c.Query("offline") == "true" || s.currencies == nil {
		list = currency.Fallback()
	} else {
		list = s.currencies.List(c.Request.Context())
	}

	options := make([]CurrencyOption, 0, len(list))
	for _, cur := range list {
		options = append(options, CurrencyOption{Currency: cur, Label: cur.Label()})
	}
	c.JSON(http.StatusOK, CurrenciesResponse{Currencies: options})
}

func (s *Server) handleShare(c *gin.Context) {
	snap := s.workspace.Snapshot()
	c.JSON(http.StatusOK, ShareResponse{
		Mailto:  share.Mailto(snap),
		Subject: share.Subject(snap),
		Body:    share.Body(snap),
	})
}

func (s *Server) handleClearDraft(c *gin.Context) {
	if err := s.workspace.Clear(c.Request.Context()); err != nil {
		s.log.Error("clear draft failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to clear draft", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.documentResponse())
}

// Helper functions

func itemID(c *gin.Context, raw string) (items.ID, bool) {
	id, err := snowflake.ParseString(raw)
	if err != nil || id == items.End {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item id", Details: raw})
		return items.End, false
	}
	return id, true
}

func (s *Server) itemError(c *gin.Context, err error) {
	if workspace.IsNotFound(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
