package export

import (
	"context"
	"strings"

	"github.com/alnah/go-docx2html/internal/fileutil"
	"github.com/alnah/go-docx2html/internal/pipeline"
)

// File export defaults.
const (
	DefaultFilename = "dokuman.html"
	DefaultTitle    = "Döküman"
)

// FileExporter renders the document as downloadable files.
type FileExporter struct {
	Filename string
	Title    string
	CSS      string
}

// NewFileExporter creates a FileExporter with the default name, title and
// stylesheet.
func NewFileExporter() *FileExporter {
	return &FileExporter{
		Filename: DefaultFilename,
		Title:    DefaultTitle,
		CSS:      pipeline.ExportStylesheet,
	}
}

// HTML returns document wrapped in a standalone UTF-8 page.
func (e *FileExporter) HTML(ctx context.Context, document string) []byte {
	shell := pipeline.DocumentShell{Title: e.Title, CSS: e.CSS}
	return []byte(shell.Wrap(ctx, document))
}

// Markdown returns document rendered as Markdown.
func (e *FileExporter) Markdown(ctx context.Context, document string) ([]byte, error) {
	md, err := pipeline.ToMarkdown(ctx, document)
	if err != nil {
		return nil, err
	}
	return []byte(md), nil
}

// HTMLFilename is the name offered for the HTML download.
func (e *FileExporter) HTMLFilename() string {
	if e.Filename == "" {
		return DefaultFilename
	}
	return e.Filename
}

// SiblingFilename swaps the extension of the HTML filename.
// SiblingFilename("md") on "dokuman.html" returns "dokuman.md".
func (e *FileExporter) SiblingFilename(ext string) string {
	name := e.HTMLFilename()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}

// WriteHTML writes the standalone page into dir and returns its path.
func (e *FileExporter) WriteHTML(ctx context.Context, dir, document string) (string, error) {
	return fileutil.WriteFileInDir(dir, e.HTMLFilename(), e.HTML(ctx, document))
}

// WriteMarkdown writes the Markdown rendition into dir and returns its path.
func (e *FileExporter) WriteMarkdown(ctx context.Context, dir, document string) (string, error) {
	data, err := e.Markdown(ctx, document)
	if err != nil {
		return "", err
	}
	return fileutil.WriteFileInDir(dir, e.SiblingFilename("md"), data)
}
