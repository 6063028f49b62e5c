package main

import (
	"errors"
	"os"

	"github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/assets"
	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/fileutil"
)

// Exit codes for the docx2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error, including conversion failures
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, docx2html.ErrBrowserConnect) ||
		errors.Is(err, docx2html.ErrPageCreate) ||
		errors.Is(err, docx2html.ErrPageLoad) ||
		errors.Is(err, docx2html.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadDocument) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, fileutil.ErrUnsafeFilename) ||
		errors.Is(err, assets.ErrAssetRead) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, docx2html.ErrInvalidFileType) ||
		errors.Is(err, docx2html.ErrInvalidStyleMap) ||
		errors.Is(err, docx2html.ErrInvalidPDFPage) {
		return ExitUsage
	}

	return ExitGeneral
}
