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

type GenreService interface {
	List(ctx context.Context, search string, page dto.Page) (*dto.Paginated[dto.GenreResponse], error)
	Create(ctx context.Context, actor permission.Actor, req dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(ctx context.Context, actor permission.Actor, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

// List returns one page of genres ordered by name
func (s *genreService) List(ctx context.Context, search string, page dto.Page) (*dto.Paginated[dto.GenreResponse], error) {
	list, total, err := s.repo.List(ctx, search, page)
	if err != nil {
		return nil, err
	}
	results := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		results = append(results, dto.GenreFromModel(g))
	}
	return dto.NewPaginated(results, total), nil
}

func (s *genreService) Create(ctx context.Context, actor permission.Actor, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	if err := permission.Authorize(actor, permission.Genre, permission.Create, false); err != nil {
		return nil, err
	}

	value, err := resolveSlug(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySlug(ctx, value); err == nil {
		return nil, NewValidationError("slug", "genre with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := req.ToModel()
	genre.Slug = value
	if err := s.repo.Create(ctx, &genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("slug", "genre with this slug already exists")
		}
		return nil, err
	}

	resp := dto.GenreFromModel(genre)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, actor permission.Actor, slug string) error {
	if err := permission.Authorize(actor, permission.Genre, permission.Delete, false); err != nil {
		return err
	}
	return notFound(s.repo.DeleteBySlug(ctx, slug), fmt.Sprintf("genre %q", slug))
}
