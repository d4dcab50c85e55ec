// Copyright (c) 2026 BookHaven. All rights reserved.

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore persists objects on the local filesystem under a single root
// directory. It is the only [ObjectStore] implementation today.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates the root directory if needed and returns the store.
//
// Parameters:
//   - root: Filesystem directory that holds all objects (e.g. ./data/uploads)
//   - baseURL: URL prefix the router serves the root under (e.g. /static)
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", root, err)
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the content to disk under the given key, creating intermediate
// directories as needed. Writes go through a temporary file and a rename so a
// failed upload never leaves a partial object behind.
func (store *LocalStore) Save(ctx context.Context, key string, content io.Reader) (int64, error) {
	diskPath, err := store.diskPath(key)
	if err != nil {
		return 0, err
	}

	// 1. Ensure the parent directory exists
	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
		return 0, fmt.Errorf("storage: create dir for %s: %w", key, err)
	}

	// 2. Stream into a temporary sibling file
	tmpFile, err := os.CreateTemp(filepath.Dir(diskPath), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("storage: create temp file for %s: %w", key, err)
	}

	written, err := io.Copy(tmpFile, content)
	if closeErr := tmpFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpFile.Name())
		return 0, fmt.Errorf("storage: write %s: %w", key, err)
	}

	// 3. Atomically move into place
	if err := os.Rename(tmpFile.Name(), diskPath); err != nil {
		_ = os.Remove(tmpFile.Name())
		return 0, fmt.Errorf("storage: finalize %s: %w", key, err)
	}

	return written, nil
}

// Remove deletes the object from disk. A missing object is treated as success.
func (store *LocalStore) Remove(ctx context.Context, key string) error {
	diskPath, err := store.diskPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %s: %w", key, err)
	}
	return nil
}

// PublicURL maps an object key to the URL path served by the static mount.
func (store *LocalStore) PublicURL(key string) string {
	return store.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Root returns the filesystem directory backing the store. The HTTP server
// uses it to mount the static file handler.
func (store *LocalStore) Root() string {
	return store.root
}

// diskPath resolves a key to an absolute path, rejecting traversal attempts.
func (store *LocalStore) diskPath(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("storage: invalid object key %q", key)
	}
	return filepath.Join(store.root, filepath.FromSlash(cleaned)), nil
}
