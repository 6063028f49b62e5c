package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/assets"
	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/export"
	"github.com/alnah/go-docx2html/internal/fileutil"
	"github.com/alnah/go-docx2html/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrReadDocument = errors.New("failed to read document")
	ErrWriteOutput  = errors.New("failed to write output")
)

// convertFlags holds the convert flags that have no config counterpart.
// The others are read back through viper into Environment.Config.
type convertFlags struct {
	stdout   bool
	copy     bool
	markdown bool
}

func newConvertCmd(env *Environment, common *commonFlags) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <file.docx>",
		Short: "Convert a Word document to bold-anchored HTML",
		Long: `Convert a Word document to HTML and regroup it into paragraphs that each
start at a bold span. Content before the first bold span is dropped, and a
document without bold text converts to an empty page.

The page is written as dokuman.html next to the source file unless
--output-dir or export.outputDir say otherwise.`,
		Example: `  docx2html convert rapor.docx
  docx2html convert rapor.docx --copy --stdout
  docx2html convert rapor.docx --pdf --page-size letter -o out/`,
		Args: exactlyOneArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := notifyContext(cmd.Context())
			defer stop()
			return runConvert(ctx, args[0], flags, *common, env)
		},
	}

	f := cmd.Flags()
	f.StringP(keyOutputDir, "o", "", "directory for the exported files (default: next to the source)")
	f.Duration(keyTimeout, 0, "conversion and PDF timeout (default 30s)")
	f.Bool(keyPDF, false, "also export a PDF (needs Chrome)")
	f.String(keyPageSize, "", "PDF page size: a4, letter")
	f.Bool(keyPageNumbers, false, "print page numbers in the PDF footer")
	f.String(keyAssetPath, "", "directory overriding the embedded stylesheets")
	f.BoolVar(&flags.stdout, "stdout", false, "print the HTML fragment instead of writing the page")
	f.BoolVar(&flags.copy, "copy", false, "copy the document to the clipboard")
	f.BoolVar(&flags.markdown, "markdown", false, "also export Markdown")

	return cmd
}

// exactlyOneArg wraps cobra.ExactArgs so argument errors map to ExitUsage.
func exactlyOneArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// runConvert converts one document and runs the requested exports.
func runConvert(ctx context.Context, path string, flags convertFlags, common commonFlags, env *Environment) error {
	cfg := env.Config
	name := filepath.Base(path)

	// Reject before touching the file, like an upload.
	if err := docx2html.CheckFilename(name); err != nil {
		return err
	}

	start := env.Now()
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadDocument, err)
	}

	conv, err := docx2html.NewConverter(converterOptions(cfg)...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	result, err := conv.Convert(ctx, docx2html.Input{Name: name, Data: data})
	if err != nil {
		return err
	}

	if result.Empty() && !common.quiet {
		fmt.Fprintln(env.Stderr, "warning: no bold text found; the document is empty")
	}
	if common.verbose {
		fmt.Fprintf(env.Stderr, "%s: %d paragraphs (%v)\n", path, result.Paragraphs, env.Now().Sub(start).Round(time.Millisecond))
	}

	loader, err := newAssetLoader(cfg)
	if err != nil {
		return err
	}
	exporter, err := newExporter(cfg, loader)
	if err != nil {
		return err
	}
	outDir := resolveOutputDir(path, cfg)

	// Keep stdout clean for the fragment.
	report := env.Stdout
	if flags.stdout {
		report = env.Stderr
	}

	if flags.stdout {
		fmt.Fprintln(env.Stdout, result.HTML)
	} else {
		written, err := exporter.WriteHTML(ctx, outDir, result.HTML)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		reportCreated(report, common, written)
	}

	if flags.markdown {
		written, err := exporter.WriteMarkdown(ctx, outDir, result.HTML)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		reportCreated(report, common, written)
	}

	if cfg.PDF.Enabled {
		written, err := exportPDF(ctx, conv, exporter, cfg, outDir, result.HTML)
		if err != nil {
			return err
		}
		reportCreated(report, common, written)
	}

	if flags.copy {
		copyDocument(ctx, env, common, result.HTML)
	}

	return nil
}

// converterOptions builds the converter options from the config.
func converterOptions(cfg *config.Config) []docx2html.Option {
	opts := []docx2html.Option{docx2html.WithStyleRules(cfg.Conversion.StyleMap)}
	if cfg.Conversion.Timeout > 0 {
		opts = append(opts, docx2html.WithTimeout(cfg.Conversion.Timeout))
	}
	return opts
}

// pdfOptions maps the pdf config section.
func pdfOptions(cfg *config.Config) *docx2html.PDFOptions {
	return &docx2html.PDFOptions{
		PageSize:       cfg.PDF.PageSize,
		ShowPageNumber: cfg.PDF.PageNumbers,
	}
}

// newAssetLoader layers assets.basePath over the embedded assets.
func newAssetLoader(cfg *config.Config) (*assets.AssetResolver, error) {
	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, fmt.Errorf("%w: assets.basePath: %w", config.ErrInvalidValue, err)
	}
	return resolver, nil
}

// newExporter builds a FileExporter named and titled by the config, styled
// with the export stylesheet from loader.
func newExporter(cfg *config.Config, loader assets.AssetLoader) (*export.FileExporter, error) {
	e := export.NewFileExporter()
	if cfg.Export.Filename != "" {
		e.Filename = cfg.Export.Filename
	}
	if cfg.Export.Title != "" {
		e.Title = cfg.Export.Title
	}
	css, err := loader.LoadStyle(assets.ExportStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading export stylesheet: %w", err)
	}
	e.CSS = strings.TrimSpace(css)
	return e, nil
}

// resolveOutputDir determines the export directory.
// Priority: --output-dir / config > source file directory.
func resolveOutputDir(inputPath string, cfg *config.Config) string {
	if cfg.Export.OutputDir != "" {
		return cfg.Export.OutputDir
	}
	return filepath.Dir(inputPath)
}

func exportPDF(ctx context.Context, conv *docx2html.Converter, exporter *export.FileExporter, cfg *config.Config, dir, document string) (string, error) {
	if cfg.PDF.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.PDF.Timeout)
		defer cancel()
	}

	pdf, err := conv.ToPDF(ctx, exporter.HTML(ctx, document), pdfOptions(cfg))
	if err != nil {
		return "", err
	}

	written, err := fileutil.WriteFileInDir(dir, exporter.SiblingFilename("pdf"), pdf)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return written, nil
}

// copyDocument runs the clipboard chain. A failed copy is reported as a
// status, never as an error.
func copyDocument(ctx context.Context, env *Environment, common commonFlags, document string) {
	res := env.Clipboard.Copy(ctx, document)
	if !common.quiet || res.Mode == export.CopyNone {
		fmt.Fprintln(env.Stderr, res.Status)
	}
	if res.Err != nil && common.verbose {
		fmt.Fprintf(env.Stderr, "clipboard (%s): %v\n", res.Mode, res.Err)
	}
	if res.Mode != export.CopyRich && !common.quiet {
		printHint(env.Stderr, hints.ForClipboard(env.LookPath))
	}
}

func reportCreated(w io.Writer, common commonFlags, path string) {
	if !common.quiet {
		fmt.Fprintf(w, "Created %s\n", path)
	}
}
