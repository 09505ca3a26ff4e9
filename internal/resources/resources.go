// Package resources locates the page templates and static assets of an export
// and copies files into the output directory.
package resources

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnavailable is returned when a required template cannot be found.
var ErrUnavailable = errors.New("resource unavailable")

const (
	ChatTemplate  = "chat.html"
	IndexTemplate = "index.html"

	// Embedded is the Source of a Set backed by the built-in defaults.
	Embedded = "embedded"
)

// StaticFiles are copied next to the generated pages.
var StaticFiles = []string{"ios7.min.css", "style.css", "glyphs.ttf"}

//go:embed defaults
var defaults embed.FS

// DefaultDirs are searched, in order, when no resources directory is given.
func DefaultDirs() []string {
	return []string{
		"./Content",
		"/usr/share/smsarchive/resources",
	}
}

// Set is a resolved resources location with its templates loaded.
type Set struct {
	Source string
	Chat   string
	Index  string

	fsys fs.FS
}

// Locate resolves the resources to use. An explicit dir must exist and is
// never substituted. Otherwise the DefaultDirs are tried, then the embedded
// defaults.
func Locate(dir string) (*Set, error) {
	return locate(dir, DefaultDirs())
}

func locate(dir string, search []string) (*Set, error) {
	if dir = strings.TrimSpace(dir); dir != "" {
		if !isDir(dir) {
			return nil, fmt.Errorf("%w: resources directory %s not found", ErrUnavailable, dir)
		}
		return load(dir, os.DirFS(dir))
	}
	for _, d := range search {
		if isDir(d) {
			return load(d, os.DirFS(d))
		}
	}
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		return nil, fmt.Errorf("embedded resources: %w", err)
	}
	return load(Embedded, sub)
}

func load(source string, fsys fs.FS) (*Set, error) {
	set := &Set{Source: source, fsys: fsys}
	for name, dst := range map[string]*string{ChatTemplate: &set.Chat, IndexTemplate: &set.Index} {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s in %s: %v", ErrUnavailable, name, source, err)
		}
		*dst = string(data)
	}
	return set, nil
}

// CopyStatic copies the StaticFiles present in the set into dst and returns
// the names of those that were missing.
func (s *Set) CopyStatic(dst string) (missing []string, err error) {
	for _, name := range StaticFiles {
		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dst, name), data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	return missing, nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
