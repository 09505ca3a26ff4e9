package resources

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyTree duplicates the directory tree at src into dst, which must not
// exist. Symlinks are recreated as links rather than followed. It returns the
// number of regular files copied.
func CopyTree(src, dst string) (int, error) {
	src, err := filepath.EvalSymlinks(src)
	if err != nil {
		return 0, fmt.Errorf("copy tree: %w", err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("copy tree: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("copy tree: %s is not a directory", src)
	}
	if _, err := os.Lstat(dst); err == nil {
		return 0, fmt.Errorf("copy tree: %s already exists", dst)
	}

	files := 0
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.IsDir():
			fi, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, fi.Mode().Perm()|0700)
		case d.Type().IsRegular():
			fi, err := d.Info()
			if err != nil {
				return err
			}
			if err := copyFile(path, target, fi.Mode().Perm()); err != nil {
				return err
			}
			files++
			return nil
		default:
			// Sockets, devices and pipes have no place in an archive.
			return nil
		}
	})
	if err != nil {
		return files, fmt.Errorf("copy tree %s: %w", src, err)
	}
	return files, nil
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(out, in)
	if closeErr := out.Close(); closeErr != nil && copyErr == nil {
		return closeErr
	}
	return copyErr
}
