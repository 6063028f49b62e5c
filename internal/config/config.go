package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docx2html/internal/export"
	"github.com/alnah/go-docx2html/internal/fileutil"
	"github.com/alnah/go-docx2html/internal/pipeline"
	"github.com/alnah/go-docx2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddressLength   = 255  // host:port
	MaxStyleRuleLength = 200  // one style map rule
	MaxStyleRules      = 100  // rules per style map
	MaxFilenameLength  = 255  // common filesystem limit
	MaxTitleLength     = 100  // <title> of the exported page
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxPageSizeLength  = 10   // "letter", "a4"
)

// Upload size bounds.
const (
	DefaultMaxUploadBytes = 20 << 20
	MaxUploadBytesLimit   = 200 << 20
)

// DefaultAddress keeps the web UI local unless configured otherwise.
const DefaultAddress = "127.0.0.1:8080"

// appDirName is the directory searched under the user config dir.
const appDirName = "go-docx2html"

// Config holds all configuration for conversion, export and serving.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Conversion ConversionConfig `yaml:"conversion"`
	Export     ExportConfig     `yaml:"export"`
	PDF        PDFConfig        `yaml:"pdf"`
	Assets     AssetsConfig     `yaml:"assets"`
}

// ServerConfig defines the web UI listener.
type ServerConfig struct {
	Address        string `yaml:"address"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
}

// ConversionConfig defines how documents become HTML.
type ConversionConfig struct {
	StyleMap []string      `yaml:"styleMap"` // replaces the default rules when set
	Timeout  time.Duration `yaml:"timeout"`
}

// ExportConfig defines clipboard and file export.
type ExportConfig struct {
	Filename       string        `yaml:"filename"`       // must end in .html
	Title          string        `yaml:"title"`          // <title> of the exported page
	StatusDuration time.Duration `yaml:"statusDuration"` // how long copy statuses stay visible
	OutputDir      string        `yaml:"outputDir"`      // empty = next to the source file
}

// PDFConfig defines PDF export.
type PDFConfig struct {
	Enabled     bool          `yaml:"enabled"`
	PageSize    string        `yaml:"pageSize"` // "a4" (default), "letter"
	PageNumbers bool          `yaml:"pageNumbers"`
	Timeout     time.Duration `yaml:"timeout"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	// Server
	if err := validateFieldLength("server.address", c.Server.Address, MaxAddressLength); err != nil {
		return err
	}
	if c.Server.MaxUploadBytes <= 0 || c.Server.MaxUploadBytes > MaxUploadBytesLimit {
		return fmt.Errorf("%w: server.maxUploadBytes must be between 1 and %d, got %d",
			ErrInvalidValue, MaxUploadBytesLimit, c.Server.MaxUploadBytes)
	}

	// Conversion
	if len(c.Conversion.StyleMap) > MaxStyleRules {
		return fmt.Errorf("%w: conversion.styleMap has %d rules (max %d)",
			ErrInvalidValue, len(c.Conversion.StyleMap), MaxStyleRules)
	}
	for i, rule := range c.Conversion.StyleMap {
		if err := validateFieldLength(fmt.Sprintf("conversion.styleMap[%d]", i), rule, MaxStyleRuleLength); err != nil {
			return err
		}
	}
	if _, err := pipeline.ParseStyleMap(c.Conversion.StyleMap); err != nil {
		return fmt.Errorf("%w: conversion.styleMap: %v", ErrInvalidValue, err)
	}
	if err := validatePositive("conversion.timeout", c.Conversion.Timeout); err != nil {
		return err
	}

	// Export
	if err := validateFieldLength("export.filename", c.Export.Filename, MaxFilenameLength); err != nil {
		return err
	}
	if c.Export.Filename != "" {
		if strings.ContainsAny(c.Export.Filename, `/\`) {
			return fmt.Errorf("%w: export.filename must not contain a path separator, got %q", ErrInvalidValue, c.Export.Filename)
		}
		if !fileutil.HasExtension(c.Export.Filename, ".html") {
			return fmt.Errorf("%w: export.filename must end in .html, got %q", ErrInvalidValue, c.Export.Filename)
		}
	}
	if err := validateFieldLength("export.title", c.Export.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.outputDir", c.Export.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if err := validatePositive("export.statusDuration", c.Export.StatusDuration); err != nil {
		return err
	}

	// PDF
	if err := validateFieldLength("pdf.pageSize", c.PDF.PageSize, MaxPageSizeLength); err != nil {
		return err
	}
	switch strings.ToLower(c.PDF.PageSize) {
	case "", "a4", "letter":
	default:
		return fmt.Errorf("%w: pdf.pageSize must be a4 or letter, got %q", ErrInvalidValue, c.PDF.PageSize)
	}
	if err := validatePositive("pdf.timeout", c.PDF.Timeout); err != nil {
		return err
	}

	// Assets
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validatePositive(fieldName string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, d)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        DefaultAddress,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Conversion: ConversionConfig{
			StyleMap: append([]string(nil), pipeline.DefaultStyleRules...),
			Timeout:  30 * time.Second,
		},
		Export: ExportConfig{
			Filename:       export.DefaultFilename,
			Title:          export.DefaultTitle,
			StatusDuration: 2 * time.Second,
		},
		PDF: PDFConfig{
			Enabled:  false,
			PageSize: "a4",
			Timeout:  30 * time.Second,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(data, cfg, true); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-docx2html/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
