package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes media files to a directory on disk. The HTTP layer
// serves the same directory under the media URL prefix.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore returns a store rooted at root, serving files under baseURL.
func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Save writes data to root/name, creating parent directories as needed.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) error {
	full := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write media file: %w", err)
	}
	return nil
}

// Delete removes root/name. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	full := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}

// URL returns the path the router serves the file from.
func (s *LocalStore) URL(name string) string {
	return s.baseURL + "/" + name
}

// Path returns the absolute filesystem location of a stored name.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}
