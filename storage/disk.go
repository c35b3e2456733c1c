package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Disk stores files on the local filesystem under a media root directory.
type Disk struct {
	root    string
	maxSize int64
}

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file exceeds maximum upload size")

// NewDisk returns a Disk rooted at dir. maxSizeBytes caps a single stored
// file; zero or negative disables the limit.
func NewDisk(dir string, maxSizeBytes int64) *Disk {
	return &Disk{root: dir, maxSize: maxSizeBytes}
}

// Store writes r below the media root, creating parent directories as needed.
// Keys are cleaned; path escapes outside the root are rejected.
func (d *Disk) Store(key string, r io.Reader) (string, error) {
	abs, err := d.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	out, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	src := r
	if d.maxSize > 0 {
		src = &io.LimitedReader{R: r, N: d.maxSize + 1}
	}
	written, err := io.Copy(out, src)
	if err != nil {
		out.Close()
		_ = os.Remove(abs)
		return "", fmt.Errorf("write file: %w", err)
	}
	if d.maxSize > 0 && written > d.maxSize {
		out.Close()
		_ = os.Remove(abs)
		return "", ErrFileTooLarge
	}
	return key, nil
}

// Remove deletes the file at key. Missing files report NotFound.
func (d *Disk) Remove(key string) RemoveStatus {
	abs, err := d.resolve(key)
	if err != nil {
		return Failed
	}
	switch err := os.Remove(abs); {
	case err == nil:
		return Removed
	case os.IsNotExist(err):
		return NotFound
	default:
		return Failed
	}
}

// Exists reports whether key holds a regular file.
func (d *Disk) Exists(key string) bool {
	abs, err := d.resolve(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

func (d *Disk) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(d.root, clean), nil
}
