package server

import (
	"context"

	"github.com/alnah/go-docx2html"
)

// PoolPDF renders pages with converters borrowed from a pool, so
// concurrent downloads each drive their own browser.
type PoolPDF struct {
	Pool    *docx2html.ConverterPool
	Options *docx2html.PDFOptions
}

// RenderPDF implements PDFRenderer.
func (p *PoolPDF) RenderPDF(ctx context.Context, page []byte) ([]byte, error) {
	conv, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Pool.Release(conv)
	return conv.ToPDF(ctx, page, p.Options)
}

// Compile-time interface check.
var _ PDFRenderer = (*PoolPDF)(nil)
