package docx2html

import (
	"fmt"
	"strings"
	"time"
)

// DocxExtension is the only accepted upload extension. Matching is
// case-sensitive.
const DocxExtension = ".docx"

// Input is an uploaded document.
type Input struct {
	Name string // file name, used for the extension check
	Data []byte // raw .docx bytes
}

// Result holds the converter output and its re-segmented form.
type Result struct {
	Name       string
	RawHTML    string // converter output before re-segmentation
	HTML       string // the displayed document
	Paragraphs int    // number of bold-anchored paragraphs in HTML
}

// Empty reports whether re-segmentation produced no paragraphs.
func (r *Result) Empty() bool {
	return r == nil || r.Paragraphs == 0
}

// Page size constants for PDF export.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
)

// PDFOptions configures PDF export.
type PDFOptions struct {
	PageSize       string // "a4" (default), "letter"
	ShowPageNumber bool
}

// Validate checks that PDF options are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PDFOptions) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.PageSize) {
	case "", PageSizeA4, PageSizeLetter:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be a4 or letter)", ErrInvalidPDFPage, p.PageSize)
	}
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	styleRules []string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the conversion and PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docx2html: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyleRules replaces the default style map rules.
// Rules use the form "p[style-name='Normal'] => p:fresh" or "b => strong".
// Invalid rules make NewConverter fail with ErrInvalidStyleMap.
func WithStyleRules(rules []string) Option {
	return func(c *Converter) {
		c.cfg.styleRules = append([]string(nil), rules...)
	}
}
