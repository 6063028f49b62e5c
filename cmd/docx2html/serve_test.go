package main

// Notes:
// - buildServer: we check the wiring through the HTTP handler only. Start is
//   not called, so no port is bound and no browser is launched (the PDF pool
//   creates converters lazily).

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pdf     bool
		wantPDF bool
	}{
		{name: "pdf disabled", pdf: false, wantPDF: false},
		{name: "pdf enabled", pdf: true, wantPDF: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv()
			env.Config.PDF.Enabled = tt.pdf

			srv, cleanup, err := buildServer(serveFlags{workers: 1}, commonFlags{quiet: true}, env)
			if err != nil {
				t.Fatalf("buildServer() error = %v", err)
			}
			t.Cleanup(cleanup)
			t.Cleanup(srv.Store().Close)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("GET / = %d", rec.Code)
			}
			if got := strings.Contains(rec.Body.String(), "/api/download.pdf"); got != tt.wantPDF {
				t.Errorf("pdf link present = %v, want %v", got, tt.wantPDF)
			}
			if !strings.Contains(rec.Body.String(), Version) {
				t.Errorf("page does not show version %q", Version)
			}
		})
	}
}

func TestBuildServer_InvalidStyleMap(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	env.Config.Conversion.StyleMap = []string{"not a rule"}

	if _, _, err := buildServer(serveFlags{}, commonFlags{}, env); exitCodeFor(err) != ExitUsage {
		t.Errorf("buildServer() error = %v, want a usage error", err)
	}
}

func TestRun_ServeRejectsArgs(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := run(t.Context(), []string{"serve", "extra"}, env); code != ExitUsage {
		t.Errorf("run(serve extra) = %d, want %d", code, ExitUsage)
	}
}

func TestBuildServer_RemoteClipboardWarning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address  string
		wantWarn bool
	}{
		{"127.0.0.1:8080", false},
		{"localhost:8080", false},
		{"[::1]:8080", false},
		{"0.0.0.0:8080", true},
		{":8080", true},
		{"192.168.1.10:8080", true},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv()
			env.Config.Server.Address = tt.address

			srv, cleanup, err := buildServer(serveFlags{}, commonFlags{}, env)
			if err != nil {
				t.Fatalf("buildServer() error = %v", err)
			}
			t.Cleanup(cleanup)
			t.Cleanup(srv.Store().Close)

			if got := strings.Contains(stderr.String(), "clipboard"); got != tt.wantWarn {
				t.Errorf("warning shown = %v, want %v (stderr %q)", got, tt.wantWarn, stderr.String())
			}
		})
	}
}
