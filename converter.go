package docx2html

import (
	"context"
	"fmt"

	"github.com/alnah/go-docx2html/internal/fileutil"
	"github.com/alnah/go-docx2html/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.DocumentConverter = (*pipeline.DocxConverter)(nil)
	_ pipeline.CSSInjector       = (*pipeline.CSSInjection)(nil)
	_ pdfConverter               = (*rodConverter)(nil)
	_ pdfRenderer                = (*rodRenderer)(nil)
)

// Converter turns .docx uploads into bold-anchored HTML and renders
// exported pages to PDF.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
type Converter struct {
	cfg          converterConfig
	styles       pipeline.StyleMap
	docConverter pipeline.DocumentConverter
	pdfConverter pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Returns ErrInvalidStyleMap if a rule given with WithStyleRules is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			styleRules: pipeline.DefaultStyleRules,
		},
		docConverter: pipeline.NewDocxConverter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	styles, err := pipeline.ParseStyleMap(c.cfg.styleRules)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyleMap, err)
	}
	c.styles = styles

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert checks the file name, converts the document to HTML and
// re-segments it into bold-anchored paragraphs.
//
// A name without the .docx extension fails with ErrInvalidFileType before
// any conversion. Converter failures are wrapped in ErrConversion and no
// partial result is returned. A document without bold text converts to an
// empty HTML string, not an error.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: internal error: %v", ErrConversion, r)
		}
	}()

	if err := CheckFilename(input.Name); err != nil {
		return nil, err
	}
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrConversion, ErrEmptyDocument)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	raw, err := c.docConverter.ToHTML(ctx, input.Data, c.styles)
	if err != nil {
		// Both wrapped so callers can still match context errors.
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	frags := pipeline.Fragments(raw)
	return &Result{
		Name:       input.Name,
		RawHTML:    raw,
		HTML:       pipeline.Resegment(raw),
		Paragraphs: len(frags),
	}, nil
}

// ToPDF renders a standalone HTML page to PDF with headless Chrome.
func (c *Converter) ToPDF(ctx context.Context, page []byte, opts *PDFOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pdf, err := c.pdfConverter.ToPDF(ctx, string(page), opts)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	return pdf, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// CheckFilename returns ErrInvalidFileType unless name ends with ".docx".
func CheckFilename(name string) error {
	if !fileutil.HasExtension(name, DocxExtension) {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, name)
	}
	return nil
}

// Resegment regroups converter HTML into <p>-wrapped fragments, each
// starting at a bold span. HTML without bold text yields "".
func Resegment(raw string) string {
	return pipeline.Resegment(raw)
}
