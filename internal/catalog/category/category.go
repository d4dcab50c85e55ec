// Copyright (c) 2026 BookHaven. All rights reserved.

// Package category manages the catalog's book genre taxonomy.
package category

import "time"

// Category represents a browsable genre shelf in the catalog.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"-"`
}
