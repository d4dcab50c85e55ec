// Copyright (c) 2026 BookHaven. All rights reserved.

package category

import "context"

type Repository interface {
	ListCategories(context context.Context) ([]*Category, error)
	GetByID(context context.Context, id string) (*Category, error)
	GetBySlug(context context.Context, slug string) (*Category, error)
	Create(context context.Context, category *Category) error
}
