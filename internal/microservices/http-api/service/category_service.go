package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context, search string, page dto.Page) (*dto.Paginated[dto.CategoryResponse], error)
	Create(ctx context.Context, actor permission.Actor, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor permission.Actor, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, page dto.Page) (*dto.Paginated[dto.CategoryResponse], error) {
	list, total, err := s.repo.List(ctx, search, page)
	if err != nil {
		return nil, err
	}
	results := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		results = append(results, dto.CategoryFromModel(c))
	}
	return dto.NewPaginated(results, total), nil
}

func (s *categoryService) Create(ctx context.Context, actor permission.Actor, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	if err := permission.Authorize(actor, permission.Category, permission.Create, false); err != nil {
		return nil, err
	}

	value, err := resolveSlug(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySlug(ctx, value); err == nil {
		return nil, NewValidationError("slug", "category with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := req.ToModel()
	category.Slug = value
	if err := s.repo.Create(ctx, &category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("slug", "category with this slug already exists")
		}
		return nil, err
	}

	resp := dto.CategoryFromModel(category)
	return &resp, nil
}

// Delete removes the category; titles that referenced it keep existing without one.
func (s *categoryService) Delete(ctx context.Context, actor permission.Actor, slug string) error {
	if err := permission.Authorize(actor, permission.Category, permission.Delete, false); err != nil {
		return err
	}
	return notFound(s.repo.DeleteBySlug(ctx, slug), fmt.Sprintf("category %q", slug))
}
