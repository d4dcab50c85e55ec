// Copyright (c) 2026 BookHaven. All rights reserved.

/*
Package book defines the core domain entities for the BookHaven catalog.

It manages hosted books and their reading content, which comes in one of two
shapes: a sequence of text pages stored in the database, or a single
downloadable file (PDF/EPUB) held in object storage.

Core Responsibility:

  - Catalog: Browsing with category filtering and free-text search.
  - Discovery: Merges public volumes from an external source into searches.
  - Content: Resolves how a given book is read (paged or file).

This package is the source of truth for all catalog data models.
*/
package book

import "time"

// # Domain Entities

// Book represents a hosted title in the catalog.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description *string   `json:"description"`
	CategoryID  *string   `json:"category_id"`
	Category    *string   `json:"category,omitempty"` // Resolved category name in list/detail queries.
	Slug        string    `json:"slug"`
	CoverURL    string    `json:"cover_url,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	PublishYear *int      `json:"publish_year"`
	UploaderID  string    `json:"uploader_id"`
	PageCount   int       `json:"page_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Page is a single unit of paginated reading content.
type Page struct {
	ID         string `json:"id"`
	BookID     string `json:"book_id"`
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// Filter narrows catalog listing queries. SearchText is applied by the
// service after retrieval, never by the repository.
type Filter struct {
	CategoryID string
	SearchText string
}

// # Search Union

// Entry sources distinguish hosted books from transient public results.
const (
	SourceLocal  = "local"
	SourcePublic = "public"
)

// PublicVolume is a transient search hit from the external books source.
// It is never persisted and carries no catalog identity.
type PublicVolume struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	CoverURL    string   `json:"cover_url,omitempty"`
	InfoURL     string   `json:"info_url,omitempty"`
}

// Entry is one row of a catalog search: either a hosted book or a public
// volume, tagged by Source. Public entries always follow local ones.
type Entry struct {
	Source string        `json:"source"`
	Book   *Book         `json:"book,omitempty"`
	Public *PublicVolume `json:"public,omitempty"`
}
