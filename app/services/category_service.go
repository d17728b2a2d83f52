package services

import (
	"context"
	"errors"
	"time"

	"inkwell/app/logger"
	"inkwell/app/models"
	"inkwell/app/repositories"
)

// CategoryInput carries the fields of a new category.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService lists and creates categories.
type CategoryService struct {
	categories repositories.CategoryRepository
	log        *logger.Logger
	now        func() time.Time
}

func NewCategoryService(categories repositories.CategoryRepository, log *logger.Logger) *CategoryService {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryService{
		categories: categories,
		log:        log.With("service", "CategoryService"),
		now:        time.Now,
	}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) (categories []*models.Category, err error) {
	_, span := startSpan(ctx, "CategoryService.List")
	defer func() { finishSpan(span, err) }()

	categories, err = s.categories.List()
	if err != nil {
		return nil, storeError(err, "list categories", "Categories not found")
	}
	return categories, nil
}

// Create adds a category. Only admins may create categories.
func (s *CategoryService) Create(ctx context.Context, principal models.Principal, input CategoryInput) (category *models.Category, err error) {
	_, span := startSpan(ctx, "CategoryService.Create")
	defer func() { finishSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !principal.IsAdmin() {
		return nil, newError(ErrForbidden, "Not authorized as an admin")
	}

	category = &models.Category{Name: input.Name, Description: input.Description}
	category.BeforeCreate(s.now())
	if err := category.Validate(); err != nil {
		return nil, invalid(err)
	}
	if category.Slug == "" {
		return nil, newError(ErrValidation, "Name must contain letters or digits")
	}

	if err := s.categories.Create(category); err != nil {
		if errors.Is(err, repositories.ErrSlugTaken) {
			return nil, newError(ErrConflict, "Category already exists")
		}
		return nil, storeError(err, "create category", "Category not found")
	}

	s.log.Info("category created", "category_id", category.ID, "slug", category.Slug)
	return category, nil
}
