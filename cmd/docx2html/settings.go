package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alnah/go-docx2html/internal/config"
)

// envPrefix namespaces the environment overrides: --output-dir is also
// read from DOCX2HTML_OUTPUT_DIR.
const envPrefix = "DOCX2HTML"

// Setting keys. Each is a flag name and, through viper, an environment
// variable.
const (
	keyConfig         = "config"
	keyAddress        = "address"
	keyMaxUploadBytes = "max-upload-bytes"
	keyTimeout        = "timeout"
	keyOutputDir      = "output-dir"
	keyStatusDuration = "status-duration"
	keyPDF            = "pdf"
	keyPageSize       = "page-size"
	keyPageNumbers    = "page-numbers"
	keyAssetPath      = "asset-path"
)

// settingKeys lists every key readable from the environment.
var settingKeys = []string{
	keyConfig,
	keyAddress,
	keyMaxUploadBytes,
	keyTimeout,
	keyOutputDir,
	keyStatusDuration,
	keyPDF,
	keyPageSize,
	keyPageNumbers,
	keyAssetPath,
}

// extraEnvVars are DOCX2HTML_* variables read outside viper.
var extraEnvVars = []string{"DOCX2HTML_CONTAINER"}

// envName returns the environment variable read for key.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// newViper returns a viper instance reading DOCX2HTML_* variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadSettings resolves the configuration of one command run.
// Precedence: flags > DOCX2HTML_* environment > config file > defaults.
// Flags left at their default never override the config file.
func loadSettings(flags *pflag.FlagSet) (*config.Config, error) {
	v := newViper()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	cfg := config.DefaultConfig()
	if name := v.GetString(keyConfig); name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyOverrides(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides copies every key set by a flag or the environment into cfg.
func applyOverrides(v *viper.Viper, cfg *config.Config) {
	if v.IsSet(keyAddress) {
		cfg.Server.Address = v.GetString(keyAddress)
	}
	if v.IsSet(keyMaxUploadBytes) {
		cfg.Server.MaxUploadBytes = v.GetInt64(keyMaxUploadBytes)
	}

	// One timeout bounds both the conversion and the PDF render.
	if v.IsSet(keyTimeout) {
		d := v.GetDuration(keyTimeout)
		cfg.Conversion.Timeout = d
		cfg.PDF.Timeout = d
	}

	if v.IsSet(keyOutputDir) {
		cfg.Export.OutputDir = v.GetString(keyOutputDir)
	}
	if v.IsSet(keyStatusDuration) {
		cfg.Export.StatusDuration = v.GetDuration(keyStatusDuration)
	}

	// PDF (page settings imply nothing about enabling export)
	if v.IsSet(keyPDF) {
		cfg.PDF.Enabled = v.GetBool(keyPDF)
	}
	if v.IsSet(keyPageSize) {
		cfg.PDF.PageSize = v.GetString(keyPageSize)
	}
	if v.IsSet(keyPageNumbers) {
		cfg.PDF.PageNumbers = v.GetBool(keyPageNumbers)
	}

	if v.IsSet(keyAssetPath) {
		cfg.Assets.BasePath = v.GetString(keyAssetPath)
	}
}

// warnUnknownEnvVars logs warnings for unrecognized DOCX2HTML_* variables.
// Helps catch typos like DOCX2HTML_OUTPUTDIR instead of DOCX2HTML_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	known := make(map[string]bool, len(settingKeys))
	for _, key := range settingKeys {
		known[envName(key)] = true
	}
	for _, name := range extraEnvVars {
		known[name] = true
	}
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix+"_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !known[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}
