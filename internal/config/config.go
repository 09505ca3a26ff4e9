// Package config holds the options of an export run. Values come from
// defaults, then a TOML file, then command-line flags and arguments.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matheus3301/smsarchive/internal/attachment"
	"github.com/matheus3301/smsarchive/internal/paths"
)

// Config represents ~/.smsarchive/config.toml and the export command line.
type Config struct {
	Database        string `toml:"database"`
	Output          string `toml:"output"`
	AttachmentsDir  string `toml:"attachments_dir"`
	CopyAttachments bool   `toml:"copy_attachments"`
	ResourcesDir    string `toml:"resources_dir"`
	EscapeHTML      bool   `toml:"escape_html"`
	Workers         int    `toml:"workers"`
	LogLevel        string `toml:"log_level"`
	LogFile         string `toml:"log_file"`
	Progress        bool   `toml:"progress"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Workers:  1,
		LogLevel: "info",
		Progress: true,
	}
}

// Error reports an invalid or contradictory option.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Load reads config from the given path on top of Default. Returns an error
// if the file is missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := paths.EnsureParent(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Normalize canonicalizes free-form values before validation.
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if c.Output != "" {
		c.Output = filepath.Clean(c.Output)
	}
	if c.AttachmentsDir != "" {
		c.AttachmentsDir = filepath.Clean(c.AttachmentsDir)
	}
}

// Validate checks that the options describe a runnable export. The returned
// error is a *Error.
func (c *Config) Validate() error {
	if c.Database == "" {
		return &Error{Field: "database", Reason: "path to the message store is required"}
	}
	if c.Output == "" {
		return &Error{Field: "output", Reason: "output directory is required"}
	}
	if c.CopyAttachments && c.AttachmentsDir == "" {
		return &Error{Field: "copy_attachments", Reason: "requires attachments_dir"}
	}
	if c.AttachmentsDir != "" && filepath.Base(filepath.Clean(c.AttachmentsDir)) != attachment.RootSegment {
		return &Error{Field: "attachments_dir", Reason: fmt.Sprintf("must be the full path of the %s directory, got %s", attachment.RootSegment, c.AttachmentsDir)}
	}
	if c.Workers < 1 {
		return &Error{Field: "workers", Reason: fmt.Sprintf("must be at least 1, got %d", c.Workers)}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &Error{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}

// IsConfigError reports whether err is, or wraps, a *Error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}
