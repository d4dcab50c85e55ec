// Copyright (c) 2026 BookHaven. All rights reserved.

package category

import (
	"context"
	"log/slog"

	"github.com/bookhaven/bookhaven/internal/platform/validate"
	"github.com/bookhaven/bookhaven/pkg/slug"
	"github.com/bookhaven/bookhaven/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.ListCategories(context)
}

func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	return service.repo.GetByID(context, id)
}

func (service *Service) GetCategoryBySlug(context context.Context, categorySlug string) (*Category, error) {
	return service.repo.GetBySlug(context, categorySlug)
}

// CreateInput holds the fields required to add a new genre shelf.
type CreateInput struct {
	Name        string
	Description *string
}

func (service *Service) CreateCategory(context context.Context, input CreateInput) (*Category, error) {
	v := &validate.Validator{}
	v.Required("name", input.Name).MaxLen("name", input.Name, 80)
	if err := v.Err(); err != nil {
		return nil, err
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Description: input.Description,
	}

	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created", slog.String("category_id", category.ID), slog.String("slug", category.Slug))

	return category, nil
}
