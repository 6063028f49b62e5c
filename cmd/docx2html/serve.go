package main

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/spf13/cobra"

	"github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/server"
)

// serveFlags holds the serve flags that have no config counterpart.
type serveFlags struct {
	workers int
}

func newServeCmd(env *Environment, common *commonFlags) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web UI",
		Long: `Serve the upload page on a local address. Uploaded documents are shown
re-segmented, and can be copied to the clipboard or downloaded as
dokuman.html. Markdown and PDF downloads are available too; PDF needs
--pdf and a local Chrome.

Copies are written to the clipboard of the machine running serve. When
listening beyond loopback, a remote browser's copy lands on this host.`,
		Example: `  docx2html serve
  docx2html serve --address 127.0.0.1:9000 --pdf
  DOCX2HTML_ADDRESS=:8080 docx2html serve`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := notifyContext(cmd.Context())
			defer stop()
			return runServe(ctx, flags, *common, env)
		},
	}

	f := cmd.Flags()
	f.String(keyAddress, "", "listen address (default "+config.DefaultAddress+")")
	f.Int64(keyMaxUploadBytes, 0, "largest accepted upload in bytes")
	f.Duration(keyTimeout, 0, "conversion and PDF timeout (default 30s)")
	f.Duration(keyStatusDuration, 0, "how long copy statuses stay visible (default 2s)")
	f.Bool(keyPDF, false, "enable PDF downloads (needs Chrome)")
	f.String(keyPageSize, "", "PDF page size: a4, letter")
	f.Bool(keyPageNumbers, false, "print page numbers in the PDF footer")
	f.String(keyAssetPath, "", "directory overriding the embedded page template and stylesheets")
	f.IntVarP(&flags.workers, "workers", "w", 0, "browsers kept for PDF export (0 = auto)")

	return cmd
}

// noArgs wraps cobra.NoArgs so argument errors map to ExitUsage.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// runServe serves the web UI until ctx is done.
func runServe(ctx context.Context, flags serveFlags, common commonFlags, env *Environment) error {
	srv, cleanup, err := buildServer(flags, common, env)
	if err != nil {
		return err
	}
	defer cleanup()
	return srv.Start(ctx)
}

// buildServer wires the server from Environment.Config. cleanup closes
// the converters; the session store is closed by Server.Start.
func buildServer(flags serveFlags, common commonFlags, env *Environment) (*server.Server, func(), error) {
	cfg := env.Config

	conv, err := docx2html.NewConverter(converterOptions(cfg)...)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{conv.Close}
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	loader, err := newAssetLoader(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	exporter, err := newExporter(cfg, loader)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if loader.HasCustomLoader() && common.verbose {
		fmt.Fprintf(env.Stderr, "Assets: %s (embedded fallback)\n", cfg.Assets.BasePath)
	}

	deps := server.Deps{
		Converter: conv,
		Clipboard: env.Clipboard,
		Exporter:  exporter,
		Assets:    loader,
		Logger:    log.New(env.Stderr, "[HTTP] ", log.LstdFlags),
	}

	if cfg.PDF.Enabled {
		opts := converterOptions(cfg)
		if cfg.PDF.Timeout > 0 {
			opts = append(opts, docx2html.WithTimeout(cfg.PDF.Timeout))
		}
		pool := docx2html.NewConverterPool(docx2html.ResolvePoolSize(flags.workers), opts...)
		closers = append(closers, pool.Close)
		deps.PDF = &server.PoolPDF{Pool: pool, Options: pdfOptions(cfg)}
		if common.verbose {
			fmt.Fprintf(env.Stderr, "PDF pool size: %d\n", pool.Size())
		}
	}

	if !common.quiet && !isLoopback(cfg.Server.Address) {
		fmt.Fprintf(env.Stderr, "warning: listening on %s; copies from remote browsers go to this host's clipboard\n", cfg.Server.Address)
	}

	srv, err := server.New(server.Config{
		Address:        cfg.Server.Address,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Version:        Version,
		StatusDuration: cfg.Export.StatusDuration,
	}, deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return srv, cleanup, nil
}

// isLoopback reports whether addr only accepts local connections.
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
