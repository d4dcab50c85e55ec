// Copyright (c) 2026 BookHaven. All rights reserved.

package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/storage"
)

/*
TestLocalStore_SaveAndRemove verifies the full object lifecycle on disk.
*/
func TestLocalStore_SaveAndRemove(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewLocalStore(root, "/static")
	require.NoError(t, err)

	ctx := context.Background()
	content := "page one of a very short book"

	// 1. Save the object
	written, err := store.Save(ctx, "books/test-book.txt", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), written)

	// 2. The file must exist on disk with the exact content
	data, err := os.ReadFile(filepath.Join(root, "books", "test-book.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	// 3. Remove the object
	require.NoError(t, store.Remove(ctx, "books/test-book.txt"))
	_, err = os.Stat(filepath.Join(root, "books", "test-book.txt"))
	assert.True(t, os.IsNotExist(err))

	// 4. Removing again is idempotent
	assert.NoError(t, store.Remove(ctx, "books/test-book.txt"))
}

/*
TestLocalStore_PublicURL checks URL mapping for stored objects.
*/
func TestLocalStore_PublicURL(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "/static/")
	require.NoError(t, err)

	assert.Equal(t, "/static/covers/abc.jpg", store.PublicURL("covers/abc.jpg"))
	assert.Equal(t, "/static/covers/abc.jpg", store.PublicURL("/covers/abc.jpg"))
}

/*
TestLocalStore_RejectsTraversal ensures keys cannot escape the root directory.
*/
func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "/static")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../escape.txt", strings.NewReader("x"))
	assert.Error(t, err)

	err = store.Remove(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
