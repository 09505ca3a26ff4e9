package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/matheus3301/smsarchive/internal/paths"
)

// RegisterFlags attaches the export flags to the provided command.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("config", "", "Config file (default ~/.smsarchive/config.toml when present)")
	flags.StringP("attachments", "a", "", "Full path of the Attachments directory matching the store")
	flags.Bool("copy-attachments", false, "Copy the Attachments directory into the output (requires --attachments)")
	flags.String("resources", "", "Directory holding chat.html, index.html and the static assets")
	flags.Bool("escape-html", false, "HTML-escape message bodies and addresses")
	flags.Int("workers", 1, "Number of conversations rendered in parallel")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error")
	flags.String("log-file", "", "Also write JSON logs to this file")
	flags.Bool("no-progress", false, "Disable the progress bar")
}

// LoadConfig builds the run configuration from the config file, the flags
// explicitly set on cmd and the positional <database> <output> arguments.
func LoadConfig(cmd *cobra.Command, args []string) (*Config, error) {
	cfg, err := loadFile(cmd)
	if err != nil {
		return nil, err
	}
	if err := apply(cmd, cfg); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Database = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cmd *cobra.Command) (*Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		cfg, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, nil
	}

	cfg, err := Load(paths.ConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", paths.ConfigPath(), err)
	}
	return cfg, nil
}

// apply copies flags explicitly set on the command line over cfg.
func apply(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("attachments") {
		if cfg.AttachmentsDir, err = flags.GetString("attachments"); err != nil {
			return err
		}
	}
	if flags.Changed("copy-attachments") {
		if cfg.CopyAttachments, err = flags.GetBool("copy-attachments"); err != nil {
			return err
		}
	}
	if flags.Changed("resources") {
		if cfg.ResourcesDir, err = flags.GetString("resources"); err != nil {
			return err
		}
	}
	if flags.Changed("escape-html") {
		if cfg.EscapeHTML, err = flags.GetBool("escape-html"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = flags.GetString("log-level"); err != nil {
			return err
		}
	}
	if flags.Changed("log-file") {
		if cfg.LogFile, err = flags.GetString("log-file"); err != nil {
			return err
		}
	}
	if flags.Changed("no-progress") {
		noProgress, err := flags.GetBool("no-progress")
		if err != nil {
			return err
		}
		cfg.Progress = !noProgress
	}
	return nil
}
