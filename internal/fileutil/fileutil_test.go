package fileutil_test

// Notes:
// - WriteString and Close error branches in WriteTempFile are not tested
//   because triggering disk write failures is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-docx2html/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "valid extension html", extension: "html"},
		{name: "empty extension", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "html\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation and cleanup
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := "<html><body><p><strong>Başlık</strong>metin</p></body></html>"
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if !strings.Contains(filepath.Base(path), "docx2html-") {
		t.Errorf("path %q does not contain prefix 'docx2html-'", path)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q does not have extension .html", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read temp file: %v", err)
	}
	if string(data) != content {
		t.Errorf("file content = %q, want %q", data, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup at %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, _, err := fileutil.WriteTempFile("x", "../foo")
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestHasExtension - Case-sensitive suffix matching
// ---------------------------------------------------------------------------

func TestHasExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		ext  string
		want bool
	}{
		{name: "docx matches", file: "rapor.docx", ext: ".docx", want: true},
		{name: "path with docx", file: "/tmp/a/rapor.docx", ext: ".docx", want: true},
		{name: "legacy doc rejected", file: "rapor.doc", ext: ".docx", want: false},
		{name: "uppercase rejected", file: "RAPOR.DOCX", ext: ".docx", want: false},
		{name: "pdf rejected", file: "rapor.pdf", ext: ".docx", want: false},
		{name: "empty extension never matches", file: "rapor.docx", ext: "", want: false},
		{name: "bare extension", file: ".docx", ext: ".docx", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.HasExtension(tt.file, tt.ext); got != tt.want {
				t.Errorf("HasExtension(%q, %q) = %v, want %v", tt.file, tt.ext, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileInDir - Export file writing
// ---------------------------------------------------------------------------

func TestWriteFileInDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	path, err := fileutil.WriteFileInDir(dir, "dokuman.html", []byte("<p>x</p>"))
	if err != nil {
		t.Fatalf("WriteFileInDir() error = %v", err)
	}
	if path != filepath.Join(dir, "dokuman.html") {
		t.Errorf("path = %q, want %q", path, filepath.Join(dir, "dokuman.html"))
	}
	if !fileutil.FileExists(path) {
		t.Errorf("FileExists(%q) = false, want true", path)
	}
}

func TestWriteFileInDir_RejectsSeparators(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "../escape.html", "a\\b.html"} {
		if _, err := fileutil.WriteFileInDir(t.TempDir(), name, nil); !errors.Is(err, fileutil.ErrUnsafeFilename) {
			t.Errorf("WriteFileInDir(%q) error = %v, want ErrUnsafeFilename", name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing.docx")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"local":               false,
		"./docx2html.yaml":    true,
		"/etc/docx2html.yaml": true,
		`C:\cfg\x.yaml`:       true,
		"my-config":           false,
	}
	for in, want := range tests {
		if got := fileutil.IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}
