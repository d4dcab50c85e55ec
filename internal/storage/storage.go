// Copyright (c) 2026 BookHaven. All rights reserved.

/*
Package storage provides object storage for uploaded media.

Book files (PDF/EPUB), cover images, and user avatars are persisted through the
[ObjectStore] interface. The default implementation writes to the local disk
and serves files back through the router's /static mount.

Object Keys:

Keys are relative, slash-separated paths ("covers/<uuid>.jpg"). The store maps
them to disk paths internally; callers never build filesystem paths themselves.
*/
package storage

import (
	"context"
	"io"
)

// ObjectStore abstracts persistent blob storage.
type ObjectStore interface {
	// Save streams content to the object identified by key and returns
	// the number of bytes written.
	Save(ctx context.Context, key string, content io.Reader) (int64, error)

	// Remove deletes the object. Removing a missing object is not an error.
	Remove(ctx context.Context, key string) error

	// PublicURL returns the URL path clients use to fetch the object.
	PublicURL(key string) string
}
