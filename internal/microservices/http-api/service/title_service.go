package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/validators"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filter dto.TitleFilter, page dto.Page) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, actor permission.Actor, req dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor permission.Actor, id int64, req dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor permission.Actor, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (s *titleService) List(ctx context.Context, filter dto.TitleFilter, page dto.Page) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	results := make([]dto.TitleResponse, 0, len(titles))
	for _, t := range titles {
		results = append(results, dto.TitleFromModel(t))
	}
	return dto.NewPaginated(results, total), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	t, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "title")
	}
	resp := dto.TitleFromModel(*t)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, actor permission.Actor, req dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if err := permission.Authorize(actor, permission.Title, permission.Create, false); err != nil {
		return nil, err
	}
	if req.Year == nil {
		return nil, NewValidationError("year", "this field is required")
	}
	if err := validators.Year(*req.Year); err != nil {
		return nil, NewValidationError("year", err.Error())
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	t := &models.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}
	if err := s.titleRepo.Create(ctx, t, genres); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

// Update applies a partial change. Genre and category writes replace the
// previous references in the same transaction as the column updates.
func (s *titleService) Update(ctx context.Context, actor permission.Actor, id int64, req dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	if err := permission.Authorize(actor, permission.Title, permission.Update, false); err != nil {
		return nil, err
	}

	upd := repository.TitleUpdate{Fields: map[string]any{}}
	if req.Name != nil {
		upd.Fields["name"] = *req.Name
	}
	if req.Year != nil {
		if err := validators.Year(*req.Year); err != nil {
			return nil, NewValidationError("year", err.Error())
		}
		upd.Fields["year"] = *req.Year
	}
	if req.Description != nil {
		upd.Fields["description"] = *req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		upd.Fields["category_id"] = category.ID
	}
	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		upd.Genres = genres
	}

	if err := s.titleRepo.Update(ctx, id, upd); err != nil {
		return nil, notFound(err, "title")
	}
	return s.Get(ctx, id)
}

// Delete removes the title together with its reviews and their comments.
func (s *titleService) Delete(ctx context.Context, actor permission.Actor, id int64) error {
	if err := permission.Authorize(actor, permission.Title, permission.Delete, false); err != nil {
		return err
	}
	return notFound(s.titleRepo.Delete(ctx, id), "title")
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
		}
		return nil, err
	}
	return category, nil
}

// resolveGenres looks up every slug and fails on the first unknown one.
// Repeated slugs collapse to one genre. The result is never nil.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, sl := range slugs {
		if !seen[sl] {
			seen[sl] = true
			unique = append(unique, sl)
		}
	}

	found, err := s.genreRepo.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]models.Genre, len(found))
	for _, g := range found {
		bySlug[g.Slug] = g
	}

	genres := make([]models.Genre, 0, len(unique))
	for _, sl := range unique {
		g, ok := bySlug[sl]
		if !ok {
			return nil, fmt.Errorf("genre %q: %w", sl, ErrNotFound)
		}
		genres = append(genres, g)
	}
	return genres, nil
}
