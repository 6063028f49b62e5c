// Package fileutil provides file and path helpers shared by the CLI,
// the exporters and the PDF renderer.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrUnsafeFilename         = errors.New("filename must not contain path separators")
)

// File permission constants.
const (
	DirPermissions  = 0o750 // rwxr-x---
	FilePermissions = 0o644 // rw-r--r--
)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "docx2html-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// HasExtension reports whether name ends with ext (".docx").
// The comparison is case-sensitive: "Report.DOCX" does not match ".docx".
func HasExtension(name, ext string) bool {
	return ext != "" && strings.HasSuffix(name, ext)
}

// WriteFileInDir writes data to dir/filename, creating dir when missing.
// The filename is a bare name; separators are rejected so exports cannot
// escape the target directory.
func WriteFileInDir(dir, filename string, data []byte) (string, error) {
	if filename == "" || strings.ContainsAny(filename, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, filename)
	// #nosec G306 -- exported documents are meant to be readable
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
//
// Examples:
//   - "local" -> false (name)
//   - "./docx2html.yaml" -> true (relative path)
//   - "/etc/docx2html.yaml" -> true (absolute)
//   - "C:\cfg\docx2html.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
