// Package attachment maps attachment paths recorded on the phone to paths
// usable from the export, and classifies attachments by media kind.
package attachment

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// RootSegment is the directory name under which the phone stores attachments.
const RootSegment = "Attachments"

// ErrInvalidPath is returned when a recorded path cannot be turned into a usable one.
var ErrInvalidPath = errors.New("invalid attachment path")

// Kind selects how an attachment is displayed.
type Kind int

const (
	KindFile Kind = iota
	KindImage
	KindAudio
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "file"
	}
}

// Classify dispatches on the MIME type prefix. Unknown or empty types are plain files.
func Classify(mime string) Kind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "audio/"):
		return KindAudio
	case strings.HasPrefix(mime, "video/"):
		return KindVideo
	default:
		return KindFile
	}
}

// Resolver reroots attachment paths under a local attachments directory.
type Resolver struct {
	baseDir  string
	relative bool
}

// NewResolver returns a resolver that reroots paths under baseDir and returns
// absolute, symlink-resolved paths.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{baseDir: baseDir}
}

// NewRelativeResolver returns a resolver whose results stay relative to the
// pages, for attachments copied next to the export.
func NewRelativeResolver(baseDir string) *Resolver {
	return &Resolver{baseDir: baseDir, relative: true}
}

// BaseDir returns the directory paths are rerooted under.
func (r *Resolver) BaseDir() string {
	return r.baseDir
}

// Resolve maps a recorded path to a usable one. A path with an
// "Attachments" segment keeps only what follows that segment, joined under
// the base directory; any other path is used as recorded.
func (r *Resolver) Resolve(recorded string) (string, error) {
	if strings.TrimSpace(recorded) == "" || strings.ContainsRune(recorded, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, recorded)
	}

	p := recorded
	if rest, ok := reroot(recorded); ok {
		p = filepath.Join(r.baseDir, filepath.FromSlash(rest))
	}

	if r.relative {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	return realPath(p)
}

// reroot returns the part of p after its first "Attachments" segment.
func reroot(p string) (string, bool) {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if s == RootSegment {
			return path.Join(segs[i+1:]...), true
		}
	}
	return "", false
}

// realPath makes p absolute and resolves symlinks when the file exists.
func realPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return abs, nil
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return resolved, nil
}
