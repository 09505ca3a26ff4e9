// Package paths names the files of an export and the tool's own directory.
package paths

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.smsarchive.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".smsarchive")
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LockPath returns the lock file guarding an output directory. It sits
// beside the directory since the directory itself must not exist yet.
func LockPath(output string) string {
	return filepath.Clean(output) + ".lock"
}

// IndexPath returns the index page of an export.
func IndexPath(output string) string {
	return filepath.Join(output, "index.html")
}

// AttachmentsDir returns where copied attachments live inside an export.
func AttachmentsDir(output string) string {
	return filepath.Join(output, "Attachments")
}

// EnsureParent creates the parent directory of p.
func EnsureParent(p string) error {
	return os.MkdirAll(filepath.Dir(p), 0700)
}
