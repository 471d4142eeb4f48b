// Package imagestore keeps uploaded event images on local disk.
//
// Images are stored under a single directory and referenced by key. Keys carry a
// random suffix, so two uploads named "poster.png" never overwrite each other.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidImage is returned for filenames outside the extension allow-list.
var ErrInvalidImage = errors.New("image must be a png, jpg, jpeg or gif file")

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Store writes images into dir.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir is the directory images are served from.
func (s *Store) Dir() string {
	return s.dir
}

// Allowed reports whether filename has an allowed image extension.
// The check is case-insensitive and requires a "." separator.
func Allowed(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[idx+1:])]
}

// Key derives a storage key from a client-supplied filename.
func Key(filename string) (string, error) {
	if !Allowed(filename) {
		return "", ErrInvalidImage
	}
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.Trim(unsafeChars.ReplaceAllString(strings.TrimSuffix(base, filepath.Ext(base)), "_"), "._")
	if stem == "" {
		stem = "image"
	}
	return fmt.Sprintf("%s-%s%s", stem, uuid.NewString(), ext), nil
}

// Save validates filename and writes body under a fresh key.
// Nothing touches the disk when the filename is rejected.
func (s *Store) Save(filename string, body io.Reader) (string, error) {
	key, err := Key(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.dir, key)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(dst, body); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close image: %w", err)
	}
	return key, nil
}

// Remove deletes the image stored under key. Missing files are not an error.
func (s *Store) Remove(key string) error {
	if key == "" {
		return nil
	}
	if key != filepath.Base(key) {
		return fmt.Errorf("invalid image key %q", key)
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
