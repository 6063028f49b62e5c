package docx2html

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidFileType = errors.New("only .docx files are accepted")
	ErrEmptyDocument   = errors.New("document is empty")
	ErrConversion      = errors.New("document conversion failed")
	ErrInvalidStyleMap = errors.New("invalid style map")

	// PDF export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrInvalidPDFPage = errors.New("invalid PDF page size")

	// Pool errors.
	ErrPoolClosed = errors.New("converter pool is closed")
)
