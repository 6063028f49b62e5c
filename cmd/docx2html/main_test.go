package main

// Notes:
// - run: we test exit codes and the stderr contract for the command tree,
//   including usage errors raised by cobra itself.
// - hintFor: we test that common failures get a hint and others do not.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/export"
)

// ---------------------------------------------------------------------------
// TestRun - Exit codes
// ---------------------------------------------------------------------------

func TestRun_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeDocx(t, dir, "rapor.docx", true)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"version", []string{"version"}, ExitSuccess, ""},
		{"convert", []string{"convert", src, "-q", "-o", filepath.Join(dir, "out")}, ExitSuccess, ""},
		{"convert without file", []string{"convert"}, ExitUsage, "accepts 1 arg"},
		{"unknown flag", []string{"convert", src, "--bogus"}, ExitUsage, "unknown flag"},
		{"unknown command", []string{"explode"}, ExitUsage, "unknown command"},
		{"wrong extension", []string{"convert", filepath.Join(dir, "rapor.doc")}, ExitUsage, docx2html.MsgInvalidFileType},
		{"missing config", []string{"convert", src, "-c", filepath.Join(dir, "nope.yaml")}, ExitUsage, "config file not found"},
		{"missing file", []string{"convert", filepath.Join(dir, "yok.docx")}, ExitIO, "failed to read document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv()
			got := run(context.Background(), tt.args, env)
			if got != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d (stderr %q)", tt.args, got, tt.wantCode, stderr.String())
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := run(context.Background(), []string{"version"}, env); code != ExitSuccess {
		t.Fatalf("run(version) = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "docx2html "+Version) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_ConvertCopy(t *testing.T) {
	t.Parallel()

	src := writeDocx(t, t.TempDir(), "rapor.docx", true)
	env, stdout, stderr := testEnv()
	clip := &fakeClipboard{result: export.CopyResult{Mode: export.CopyRich, Status: export.StatusCopied}}
	env.Clipboard = clip

	code := run(context.Background(), []string{"convert", src, "--stdout", "--copy"}, env)
	if code != ExitSuccess {
		t.Fatalf("run() = %d, stderr %q", code, stderr.String())
	}
	if !strings.HasPrefix(clip.got, "<p><strong>Başlık</strong>") {
		t.Errorf("clipboard got %q", clip.got)
	}
	if strings.TrimSpace(stdout.String()) != clip.got {
		t.Errorf("stdout %q differs from the copied document", stdout.String())
	}
	if !strings.Contains(stderr.String(), export.StatusCopied) {
		t.Errorf("stderr = %q, want copy status", stderr.String())
	}
}

func TestRun_ConversionMessage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := filepath.Join(dir, "bozuk.docx")
	if err := os.WriteFile(broken, []byte("not a zip"), 0o600); err != nil {
		t.Fatal(err)
	}

	env, _, stderr := testEnv()
	if code := run(context.Background(), []string{"convert", broken}, env); code != ExitGeneral {
		t.Errorf("run() = %d, want %d", code, ExitGeneral)
	}
	if !strings.Contains(stderr.String(), "error: "+docx2html.MsgConversionPrefix) {
		t.Errorf("stderr = %q, want the conversion message", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{"timeout", fmt.Errorf("x: %w", context.DeadlineExceeded), "--timeout"},
		{"legacy doc", fmt.Errorf("%w: %q", docx2html.ErrInvalidFileType, "eski.doc"), "legacy .doc"},
		{"upper-case docx", fmt.Errorf("%w: %q", docx2html.ErrInvalidFileType, "RAPOR.DOCX"), "case-sensitive"},
		{"style map", docx2html.ErrInvalidStyleMap, "style-name"},
		{"output dir", fmt.Errorf("%w: denied", ErrWriteOutput), "writable"},
		{"config not found", fmt.Errorf("%w: tried a.yaml, /home/u/.config/go-docx2html/a.yaml", config.ErrConfigNotFound), "or create /home/u/.config/go-docx2html/a.yaml"},
		{"no hint", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.wantHint == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.wantHint) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.wantHint)
			}
		})
	}
}

func TestRejectedName(t *testing.T) {
	t.Parallel()

	err := docx2html.CheckFilename("belge.pdf")
	if got := rejectedName(err); got != "belge.pdf" {
		t.Errorf("rejectedName() = %q, want %q", got, "belge.pdf")
	}
	if got := rejectedName(errors.New("no name here")); got != "" {
		t.Errorf("rejectedName() = %q, want empty", got)
	}
}
