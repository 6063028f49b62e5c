// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-docx2html/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	// Suggest ROD_NO_SANDBOX for container/CI environments
	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	// Suggest ROD_BROWSER_BIN if not set
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForClipboard returns hints for clipboard failures. Rich HTML copies need
// wl-copy (Wayland) or xclip (X11) on PATH and a display to talk to.
func ForClipboard(lookPath func(string) (string, error)) string {
	var hints []string

	if os.Getenv("WAYLAND_DISPLAY") == "" && os.Getenv("DISPLAY") == "" {
		hints = append(hints, "no display found; use --output to write a file instead")
	}

	_, wlErr := lookPath("wl-copy")
	_, xErr := lookPath("xclip")
	if wlErr != nil && xErr != nil {
		hints = append(hints, "install wl-clipboard or xclip for rich HTML copies")
	}

	return formatHints(hints)
}

// ForInvalidFileType returns a hint for rejected uploads.
func ForInvalidFileType(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".doc") {
		return format("legacy .doc files are not supported; save as .docx in your word processor")
	}
	if strings.HasSuffix(strings.ToLower(name), ".docx") {
		return format("the extension check is case-sensitive; rename to lowercase .docx")
	}
	return format("only Word .docx files can be converted")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-docx2html/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-docx2html) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-docx2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleMap returns a hint showing the accepted style rule syntax.
func ForStyleMap() string {
	return format(`rules look like "p[style-name='Heading 1'] => h1:fresh" or "b => strong"`)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
