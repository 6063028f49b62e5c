package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/alnah/go-docx2html/internal/pipeline"
)

// Clipboard statuses shown after a copy attempt.
const (
	StatusCopied      = "Kopyalandı!"
	StatusCopiedPlain = "Kopyalandı! (düz metin)"
	StatusCopyFailed  = "Kopyalama başarısız"
)

// Sentinel errors for clipboard operations.
var (
	ErrNoRichClipboard = errors.New("no HTML-capable clipboard tool found")
	ErrClipboardWrite  = errors.New("clipboard write failed")
)

// RichWriter places HTML on the clipboard with an HTML content type.
type RichWriter interface {
	WriteHTML(ctx context.Context, html string) error
}

// PlainWriter places plain text on the clipboard.
type PlainWriter interface {
	WriteText(text string) error
}

// CopyMode tells which clipboard format a copy ended up using.
type CopyMode int

// Copy modes, in fallback order.
const (
	CopyRich CopyMode = iota
	CopyPlain
	CopyNone
)

// String returns the mode name used in logs and metrics.
func (m CopyMode) String() string {
	switch m {
	case CopyRich:
		return "rich"
	case CopyPlain:
		return "plain"
	default:
		return "none"
	}
}

// CopyResult is the outcome of a clipboard copy. Err keeps the last
// failure for diagnostics; callers show Status either way.
type CopyResult struct {
	Mode   CopyMode
	Status string
	Err    error
}

// Clipboard copies documents with a rich-then-plain fallback chain.
type Clipboard struct {
	Rich  RichWriter
	Plain PlainWriter
}

// NewClipboard creates a Clipboard backed by the system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{
		Rich:  NewCommandRichWriter(),
		Plain: SystemPlainWriter{},
	}
}

// Copy writes document as HTML, falling back to its text content.
// It never fails: the result always carries a status to display.
func (c *Clipboard) Copy(ctx context.Context, document string) CopyResult {
	richErr := ErrNoRichClipboard
	if c.Rich != nil {
		richErr = c.Rich.WriteHTML(ctx, document)
		if richErr == nil {
			return CopyResult{Mode: CopyRich, Status: StatusCopied}
		}
	}

	if c.Plain == nil {
		return CopyResult{Mode: CopyNone, Status: StatusCopyFailed, Err: richErr}
	}

	if err := c.Plain.WriteText(pipeline.PlainText(document)); err != nil {
		return CopyResult{
			Mode:   CopyNone,
			Status: StatusCopyFailed,
			Err:    errors.Join(richErr, err),
		}
	}
	return CopyResult{Mode: CopyPlain, Status: StatusCopiedPlain, Err: richErr}
}

// ClipboardCommand is an external tool that accepts HTML on stdin.
type ClipboardCommand struct {
	Name string
	Args []string
	// Env, when set, must be non-empty for the command to be tried.
	Env string
}

// DefaultClipboardCommands lists HTML-capable clipboard tools per platform.
func DefaultClipboardCommands() []ClipboardCommand {
	if runtime.GOOS != "linux" && runtime.GOOS != "freebsd" {
		return nil
	}
	return []ClipboardCommand{
		{Name: "wl-copy", Args: []string{"--type", "text/html"}, Env: "WAYLAND_DISPLAY"},
		{Name: "xclip", Args: []string{"-selection", "clipboard", "-t", "text/html"}, Env: "DISPLAY"},
	}
}

// CommandRichWriter writes HTML through the first available clipboard tool.
type CommandRichWriter struct {
	Commands []ClipboardCommand
	LookPath func(file string) (string, error)
	Getenv   func(key string) string
	// Run executes the tool with html on stdin.
	Run func(ctx context.Context, path string, args []string, stdin string) error
}

// NewCommandRichWriter creates a CommandRichWriter for the current platform.
func NewCommandRichWriter() *CommandRichWriter {
	return &CommandRichWriter{
		Commands: DefaultClipboardCommands(),
		LookPath: exec.LookPath,
		Getenv:   os.Getenv,
		Run:      runWithStdin,
	}
}

// WriteHTML tries each configured tool in order and stops at the first
// success. Returns ErrNoRichClipboard when no tool is usable.
func (w *CommandRichWriter) WriteHTML(ctx context.Context, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error
	for _, cmd := range w.Commands {
		if cmd.Env != "" && w.Getenv(cmd.Env) == "" {
			continue
		}
		path, err := w.LookPath(cmd.Name)
		if err != nil {
			continue
		}
		if err := w.Run(ctx, path, cmd.Args, html); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cmd.Name, err))
			continue
		}
		return nil
	}

	if len(errs) == 0 {
		return ErrNoRichClipboard
	}
	return fmt.Errorf("%w: %v", ErrClipboardWrite, errors.Join(errs...))
}

func runWithStdin(ctx context.Context, path string, args []string, stdin string) error {
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 -- fixed tool list
	cmd.Stdin = strings.NewReader(stdin)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%v: %s", err, msg)
		}
		return err
	}
	return nil
}

// SystemPlainWriter writes text with atotto/clipboard.
type SystemPlainWriter struct{}

// WriteText places text on the system clipboard.
func (SystemPlainWriter) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: clipboard unsupported on this platform", ErrClipboardWrite)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardWrite, err)
	}
	return nil
}
