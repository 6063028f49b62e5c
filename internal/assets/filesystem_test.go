package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Test fixtures
// ---------------------------------------------------------------------------

// writeOverride writes content to dir/rel, creating parent directories.
func writeOverride(t *testing.T, dir, rel, content string) {
	t.Helper()

	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// overrideDir builds an --asset-path directory holding the given files.
func overrideDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for rel, content := range files {
		writeOverride(t, dir, rel, content)
	}
	return dir
}

// ---------------------------------------------------------------------------
// TestNewFilesystemLoader - --asset-path validation
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docx := filepath.Join(dir, "report.docx")
	if err := os.WriteFile(docx, []byte("PK"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"empty directory is accepted", t.TempDir(), nil},
		{"relative path is resolved", ".", nil},
		{"empty path", "", ErrInvalidBasePath},
		{"missing directory", filepath.Join(dir, "no-such-theme"), ErrInvalidBasePath},
		{"document passed by mistake", docx, ErrInvalidBasePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader, err := NewFilesystemLoader(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewFilesystemLoader(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFilesystemLoader(%q) unexpected error: %v", tt.path, err)
			}
			if !filepath.IsAbs(loader.basePath) {
				t.Errorf("basePath = %q, want absolute", loader.basePath)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_Overrides - the three assets the tool reads
// ---------------------------------------------------------------------------

func TestFilesystemLoader_Overrides(t *testing.T) {
	t.Parallel()

	const (
		exportCSS = "body { font-family: 'DejaVu Serif'; }"
		uiCSS     = ".drop { border: 2px dashed teal; }"
		indexHTML = `<!doctype html><title>{{.Title}}</title><div id="doc"></div>`
	)

	loader, err := NewFilesystemLoader(overrideDir(t, map[string]string{
		"styles/export.css":    exportCSS,
		"styles/ui.css":        uiCSS,
		"templates/index.html": indexHTML,
		// Wrong folders are not searched.
		"export.css":        "/* stray */",
		"templates/ui.css":  "/* misplaced */",
		"styles/index.html": "<!-- misplaced -->",
	}))
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	tests := []struct {
		name    string
		load    func(string) (string, error)
		asset   string
		want    string
		wantErr error
	}{
		{"export stylesheet", loader.LoadStyle, ExportStyleName, exportCSS, nil},
		{"ui stylesheet", loader.LoadStyle, UIStyleName, uiCSS, nil},
		{"index page keeps template actions", loader.LoadTemplate, IndexTemplateName, indexHTML, nil},
		{"index is not a style", loader.LoadStyle, IndexTemplateName, "", ErrStyleNotFound},
		{"ui is not a template", loader.LoadTemplate, UIStyleName, "", ErrTemplateNotFound},
		{"unknown style", loader.LoadStyle, "print", "", ErrStyleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load(tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("load(%q) error = %v, want %v", tt.asset, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("load(%q) unexpected error: %v", tt.asset, err)
			}
			if got != tt.want {
				t.Errorf("load(%q) = %q, want %q", tt.asset, got, tt.want)
			}
		})
	}
}

func TestFilesystemLoader_EmptyOverrideIsKept(t *testing.T) {
	t.Parallel()

	// An empty export.css disables the built-in export styling.
	loader, err := NewFilesystemLoader(overrideDir(t, map[string]string{
		"styles/export.css": "",
	}))
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	got, err := loader.LoadStyle(ExportStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if got != "" {
		t.Errorf("LoadStyle() = %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_RejectsUnsafeNames - names never leave the folder
// ---------------------------------------------------------------------------

func TestFilesystemLoader_RejectsUnsafeNames(t *testing.T) {
	t.Parallel()

	loader, err := NewFilesystemLoader(overrideDir(t, map[string]string{
		"styles/export.css": "/* ok */",
	}))
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	names := []string{
		"",
		"../export",
		"../../etc/passwd",
		"styles/export",
		`..\export`,
		"export.css",
		"index.html",
		"..",
	}

	for _, name := range names {
		t.Run("style "+name, func(t *testing.T) {
			t.Parallel()

			if _, err := loader.LoadStyle(name); !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("LoadStyle(%q) error = %v, want ErrInvalidAssetName", name, err)
			}
		})
		t.Run("template "+name, func(t *testing.T) {
			t.Parallel()

			if _, err := loader.LoadTemplate(name); !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("LoadTemplate(%q) error = %v, want ErrInvalidAssetName", name, err)
			}
		})
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.html")
	if err := os.WriteFile(secret, []byte("<p>not yours</p>"), 0o644); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir templates: %v", err)
	}
	if err := os.Symlink(secret, filepath.Join(base, "templates", "index.html")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	_, err = loader.LoadTemplate(IndexTemplateName)
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadTemplate() error = %v, want ErrPathTraversal", err)
	}
}

func TestFilesystemLoader_SymlinkInsideBase(t *testing.T) {
	t.Parallel()

	// A theme folder that links export.css to a shared file inside itself.
	base := overrideDir(t, map[string]string{
		"shared/print.css": "@page { size: A4; }",
	})
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o755); err != nil {
		t.Fatalf("mkdir styles: %v", err)
	}
	link := filepath.Join(base, "styles", "export.css")
	if err := os.Symlink(filepath.Join(base, "shared", "print.css"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	got, err := loader.LoadStyle(ExportStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if got != "@page { size: A4; }" {
		t.Errorf("LoadStyle() = %q", got)
	}
}
