package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/export"
)

// copier places a document on the clipboard.
type copier interface {
	Copy(ctx context.Context, document string) export.CopyResult
}

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration, and the clipboard.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	Clipboard copier
	LookPath  func(file string) (string, error)
	Config    *config.Config // Resolved once per command, shared by its steps
}

// DefaultEnv returns the production environment backed by the system
// clipboard.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: export.NewClipboard(),
		LookPath:  exec.LookPath,
		Config:    config.DefaultConfig(),
	}
}
