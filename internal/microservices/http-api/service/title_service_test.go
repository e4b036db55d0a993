package service

import (
	"context"
	"testing"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type titleMocks struct {
	titles     *MockTitleRepository
	categories *MockCategoryRepository
	genres     *MockGenreRepository
}

func newTitleService() (TitleService, titleMocks) {
	m := titleMocks{
		titles:     new(MockTitleRepository),
		categories: new(MockCategoryRepository),
		genres:     new(MockGenreRepository),
	}
	return NewTitleService(m.titles, m.categories, m.genres), m
}

func TestTitleCreate_Success(t *testing.T) {
	svc, m := newTitleService()

	film := &models.Category{ID: 3, Name: "Film", Slug: "film"}
	drama := models.Genre{ID: 7, Name: "Drama", Slug: "drama"}
	m.categories.On("FindBySlug", mock.Anything, "film").Return(film, nil)
	m.genres.On("FindBySlugs", mock.Anything, []string{"drama"}).Return([]models.Genre{drama}, nil)
	m.titles.On("Create", mock.Anything, mock.MatchedBy(func(t *models.Title) bool {
		return t.Name == "Solaris" && t.Year == 1972 && *t.CategoryID == 3
	}), []models.Genre{drama}).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Title).ID = 11
	}).Return(nil)
	m.titles.On("GetByID", mock.Anything, int64(11)).Return(&models.Title{
		ID: 11, Name: "Solaris", Year: 1972, Category: film, Genres: []models.Genre{drama},
	}, nil)

	resp, err := svc.Create(context.Background(), adminActor, dto.CreateTitleDTO{
		Name: "Solaris", Year: intPtr(1972), Genre: []string{"drama", "drama"}, Category: "film",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.ID)
	assert.Nil(t, resp.Rating)
	assert.Equal(t, "film", resp.Category.Slug)
	require.Len(t, resp.Genre, 1)
	m.titles.AssertExpectations(t)
}

func TestTitleCreate_UnknownGenre(t *testing.T) {
	svc, m := newTitleService()

	m.categories.On("FindBySlug", mock.Anything, "film").Return(&models.Category{ID: 3, Slug: "film"}, nil)
	m.genres.On("FindBySlugs", mock.Anything, []string{"drama", "nope"}).Return([]models.Genre{{ID: 7, Slug: "drama"}}, nil)

	_, err := svc.Create(context.Background(), adminActor, dto.CreateTitleDTO{
		Name: "X", Year: intPtr(2000), Genre: []string{"drama", "nope"}, Category: "film",
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, `"nope"`)
	m.titles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestTitleCreate_UnknownCategory(t *testing.T) {
	svc, m := newTitleService()

	m.categories.On("FindBySlug", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), adminActor, dto.CreateTitleDTO{
		Name: "X", Year: intPtr(2000), Genre: []string{}, Category: "ghost",
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTitleCreate_FutureYear(t *testing.T) {
	svc, _ := newTitleService()

	_, err := svc.Create(context.Background(), adminActor, dto.CreateTitleDTO{
		Name: "X", Year: intPtr(time.Now().Year() + 1), Genre: []string{}, Category: "film",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "year")
}

func TestTitleWrites_AdminOnly(t *testing.T) {
	svc, _ := newTitleService()
	ctx := context.Background()

	_, err := svc.Create(ctx, userActor, dto.CreateTitleDTO{})
	assert.ErrorIs(t, err, permission.ErrPermissionDenied)

	_, err = svc.Update(ctx, permission.Actor{}, 1, dto.UpdateTitleDTO{})
	assert.ErrorIs(t, err, permission.ErrAuthenticationRequired)

	err = svc.Delete(ctx, permission.Actor{Authenticated: true, Role: models.RoleModerator}, 1)
	assert.ErrorIs(t, err, permission.ErrPermissionDenied)
}

func TestTitleUpdate_ClearsGenres(t *testing.T) {
	svc, m := newTitleService()

	m.genres.On("FindBySlugs", mock.Anything, []string{}).Return([]models.Genre{}, nil)
	m.titles.On("Update", mock.Anything, int64(4), mock.MatchedBy(func(u repository.TitleUpdate) bool {
		return u.Genres != nil && len(u.Genres) == 0 && u.Fields["name"] == "Renamed"
	})).Return(nil)
	m.titles.On("GetByID", mock.Anything, int64(4)).Return(&models.Title{ID: 4, Name: "Renamed"}, nil)

	resp, err := svc.Update(context.Background(), adminActor, 4, dto.UpdateTitleDTO{
		Name: strPtr("Renamed"), Genre: []string{},
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Name)
	assert.Empty(t, resp.Genre)
	m.titles.AssertExpectations(t)
}

func TestTitleUpdate_KeepsGenresWhenOmitted(t *testing.T) {
	svc, m := newTitleService()

	m.titles.On("Update", mock.Anything, int64(4), mock.MatchedBy(func(u repository.TitleUpdate) bool {
		return u.Genres == nil && u.Fields["year"] == 1999
	})).Return(nil)
	m.titles.On("GetByID", mock.Anything, int64(4)).Return(&models.Title{ID: 4, Year: 1999}, nil)

	_, err := svc.Update(context.Background(), adminActor, 4, dto.UpdateTitleDTO{Year: intPtr(1999)})

	require.NoError(t, err)
	m.genres.AssertNotCalled(t, "FindBySlugs", mock.Anything, mock.Anything)
}

func TestTitleGet_NotFound(t *testing.T) {
	svc, m := newTitleService()
	m.titles.On("GetByID", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTitleList_Rating(t *testing.T) {
	svc, m := newTitleService()
	filter := dto.TitleFilter{Genre: "drama"}
	page := dto.Page{Limit: 10}
	rating := 8

	m.titles.On("List", mock.Anything, filter, page).Return([]models.Title{
		{ID: 1, Name: "A", Rating: &rating},
		{ID: 2, Name: "B"},
	}, int64(2), nil)

	resp, err := svc.List(context.Background(), filter, page)

	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 8, *resp.Results[0].Rating)
	assert.Nil(t, resp.Results[1].Rating)
}
