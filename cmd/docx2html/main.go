package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], DefaultEnv()))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	root := newRootCmd(env)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		err = fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var silent *silentError
	if !errors.As(err, &silent) {
		fmt.Fprintf(env.Stderr, "error: %s%s\n", errorMessage(err), hintFor(err))
	}
	return exitCodeFor(err)
}

// errorMessage shows document problems the way the web UI does.
func errorMessage(err error) string {
	if errors.Is(err, docx2html.ErrInvalidFileType) || errors.Is(err, docx2html.ErrConversion) {
		return docx2html.UserMessage(err)
	}
	return err.Error()
}

// silentError fails a command that already reported its problem.
type silentError struct {
	msg string
}

func (e *silentError) Error() string { return e.msg }

// hintFor returns an actionable hint for common failures, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, docx2html.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, docx2html.ErrInvalidFileType):
		return hints.ForInvalidFileType(rejectedName(err))
	case errors.Is(err, docx2html.ErrInvalidStyleMap):
		return hints.ForStyleMap()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths recovers the searched locations from a config-not-found
// error ("...: tried a.yaml, b.yml").
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// rejectedName recovers the file name quoted by CheckFilename.
func rejectedName(err error) string {
	msg := err.Error()
	i := strings.LastIndex(msg, ": ")
	if i < 0 {
		return ""
	}
	name, uerr := strconv.Unquote(msg[i+2:])
	if uerr != nil {
		return ""
	}
	return name
}

// printHint writes a hint on its own line.
func printHint(w io.Writer, hint string) {
	if hint != "" {
		fmt.Fprintln(w, strings.TrimPrefix(hint, "\n"))
	}
}
