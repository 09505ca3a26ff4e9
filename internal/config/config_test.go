package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".smsarchive", "config.toml")

	cfg := Default()
	cfg.AttachmentsDir = "/backup/Library/SMS/Attachments"
	cfg.Workers = 4
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("escape_html = true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.EscapeHTML {
		t.Error("EscapeHTML = false, want true from file")
	}
	if cfg.Workers != 1 || cfg.LogLevel != "info" || !cfg.Progress {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Database = "sms.db"
		cfg.Output = "out"
		return cfg
	}

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"with attachments", func(c *Config) { c.AttachmentsDir = "/backup/Attachments" }, ""},
		{"attachments trailing slash", func(c *Config) { c.AttachmentsDir = "/backup/Attachments/" }, ""},
		{"copy with attachments", func(c *Config) { c.AttachmentsDir = "/backup/Attachments"; c.CopyAttachments = true }, ""},
		{"missing database", func(c *Config) { c.Database = "" }, "database"},
		{"missing output", func(c *Config) { c.Output = "" }, "output"},
		{"copy without attachments", func(c *Config) { c.CopyAttachments = true }, "copy_attachments"},
		{"attachments wrong dir", func(c *Config) { c.AttachmentsDir = "/backup/Library/SMS" }, "attachments_dir"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var ce *Error
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *Error", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func newCommand(t *testing.T, argv ...string) (*cobra.Command, []string) {
	t.Helper()
	cmd := &cobra.Command{Use: "test", Args: cobra.MaximumNArgs(2)}
	RegisterFlags(cmd)
	if err := cmd.ParseFlags(argv); err != nil {
		t.Fatal(err)
	}
	return cmd, cmd.Flags().Args()
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	file := Default()
	file.AttachmentsDir = "/from/file/Attachments"
	file.Workers = 2
	file.LogLevel = "debug"
	if err := Save(path, file); err != nil {
		t.Fatal(err)
	}

	cmd, args := newCommand(t, "--config", path, "--workers", "8", "--log-level", "WARNING", "--no-progress", "sms.db", "out/")
	cfg, err := LoadConfig(cmd, args)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Database != "sms.db" || cfg.Output != "out" {
		t.Errorf("positional args = %q, %q", cfg.Database, cfg.Output)
	}
	if cfg.AttachmentsDir != "/from/file/Attachments" {
		t.Errorf("AttachmentsDir = %q, want value from file", cfg.AttachmentsDir)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want flag value 8", cfg.Workers)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Progress {
		t.Error("Progress = true, want false from --no-progress")
	}
}

func TestLoadConfigCopyWithoutAttachments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}
	cmd, args := newCommand(t, "--config", path, "--copy-attachments", "sms.db", "out")
	_, err := LoadConfig(cmd, args)
	if !IsConfigError(err) {
		t.Errorf("err = %v, want config error", err)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	cmd, args := newCommand(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "sms.db", "out")
	if _, err := LoadConfig(cmd, args); err == nil {
		t.Error("LoadConfig() with a missing --config file should fail")
	}
}
