// Package server serves the upload page and its JSON API with echo.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/assets"
	"github.com/alnah/go-docx2html/internal/export"
	"github.com/alnah/go-docx2html/internal/session"
)

// ErrNoConverter is returned by New when Deps.Converter is nil.
var ErrNoConverter = errors.New("server: converter is required")

const (
	// shutdownTimeout bounds graceful shutdown once the run context ends.
	shutdownTimeout = 10 * time.Second

	defaultMaxUploadBytes = 20 << 20
)

// Page labels of the upload UI.
const (
	PageTitle     = "Word Dosya Düzenleyici"
	UploadLabel   = "Dosya Seçin"
	LoadingText   = "Dosya yükleniyor..."
	DownloadLabel = "HTML İndir"
	ContentLabel  = "Dosya İçeriği:"
)

// Converter turns an uploaded document into displayable HTML.
type Converter interface {
	Convert(ctx context.Context, input docx2html.Input) (*docx2html.Result, error)
}

// Copier places a document on the clipboard.
type Copier interface {
	Copy(ctx context.Context, document string) export.CopyResult
}

// PDFRenderer renders a standalone HTML page to PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, page []byte) ([]byte, error)
}

// Config holds listener and page settings.
type Config struct {
	Address        string
	MaxUploadBytes int64
	Version        string
	StatusDuration time.Duration
}

// Deps are the collaborators of the server. Only Converter is required;
// every other nil field gets its default.
type Deps struct {
	Converter Converter
	Store     *session.Store
	Clipboard Copier
	Exporter  *export.FileExporter
	PDF       PDFRenderer // nil disables the PDF route
	Assets    assets.AssetLoader
	Metrics   *Metrics
	Logger    *log.Logger
}

// Server is the web UI.
type Server struct {
	cfg  Config
	deps Deps
	echo *echo.Echo
}

// New builds the echo instance and registers every route.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Converter == nil {
		return nil, ErrNoConverter
	}
	if deps.Store == nil {
		deps.Store = session.New(session.WithStatusDuration(statusDuration(cfg)))
	}
	if deps.Clipboard == nil {
		deps.Clipboard = export.NewClipboard()
	}
	if deps.Exporter == nil {
		deps.Exporter = export.NewFileExporter()
	}
	if deps.Assets == nil {
		deps.Assets = assets.NewEmbeddedLoader()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.Logger == nil {
		deps.Logger = log.New(os.Stderr, "[HTTP] ", log.LstdFlags)
	}

	renderer, err := newPageRenderer(deps.Assets)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, deps: deps}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = s.handleError

	e.GET("/", s.index)
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))

	api := e.Group("/api")
	api.POST("/upload", s.upload, s.uploadErrors, middleware.BodyLimit(bodyLimit(cfg.MaxUploadBytes)))
	api.GET("/document", s.document)
	api.POST("/copy", s.copy)
	api.GET("/download", s.downloadHTML)
	api.GET("/download.md", s.downloadMarkdown)
	if deps.PDF != nil {
		api.GET("/download.pdf", s.downloadPDF)
	}

	s.echo = e
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Store returns the session state served by this server.
func (s *Server) Store() *session.Store {
	return s.deps.Store
}

// Start serves on cfg.Address until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.deps.Store.Close()

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Printf("listening on http://%s", s.cfg.Address)
		errCh <- s.echo.Start(s.cfg.Address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// handleError logs the failure and answers with a JSON error body.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	}
	req := c.Request()
	s.deps.Logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}

// pageRenderer renders the upload page with html/template.
type pageRenderer struct {
	page       *template.Template
	stylesheet template.CSS
}

func newPageRenderer(loader assets.AssetLoader) (*pageRenderer, error) {
	src, err := loader.LoadTemplate(assets.IndexTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	page, err := template.New(assets.IndexTemplateName).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	css, err := loader.LoadStyle(assets.UIStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading page stylesheet: %w", err)
	}
	// #nosec G203 -- stylesheet comes from embedded or operator-provided assets
	return &pageRenderer{page: page, stylesheet: template.CSS(css)}, nil
}

// Render implements echo.Renderer.
func (r *pageRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	if pd, ok := data.(pageData); ok {
		pd.Stylesheet = r.stylesheet
		data = pd
	}
	return r.page.ExecuteTemplate(w, name, data)
}

// pageData feeds the upload page template.
type pageData struct {
	Title         string
	Version       string
	Stylesheet    template.CSS
	UploadLabel   string
	Accept        string
	CopyLabel     string
	DownloadLabel string
	LoadingText   string
	ContentLabel  string
	StatusMillis  int64
	PDFEnabled    bool
}

func statusDuration(cfg Config) time.Duration {
	if cfg.StatusDuration > 0 {
		return cfg.StatusDuration
	}
	return session.DefaultStatusDuration
}

// bodyLimit formats the upload request limit for middleware.BodyLimit.
func bodyLimit(n int64) string {
	if n <= 0 {
		n = defaultMaxUploadBytes
	}
	return fmt.Sprintf("%dB", n)
}
