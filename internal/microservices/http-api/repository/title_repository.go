package repository

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ratingColumn selects the rounded mean review score; NULL when there are no reviews.
const ratingColumn = "(SELECT CAST(ROUND(AVG(reviews.score)) AS INTEGER) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleUpdate carries the columns of a partial title update. Genres nil leaves
// the genre set untouched.
type TitleUpdate struct {
	Fields map[string]any
	Genres []models.Genre
}

type TitleRepository interface {
	List(ctx context.Context, filter dto.TitleFilter, page dto.Page) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, t *models.Title, genres []models.Genre) error
	Update(ctx context.Context, id int64, upd TitleUpdate) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) filtered(ctx context.Context, f dto.TitleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.Category != "" {
		q = q.Where("titles.category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("slug = ?", f.Category))
	}
	if f.Genre != "" {
		q = q.Where("titles.id IN (?)",
			r.db.Model(&models.TitleGenre{}).
				Select("title_genres.title_id").
				Joins("JOIN genres ON genres.id = title_genres.genre_id").
				Where("genres.slug = ?", f.Genre))
	}
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", containsPattern(f.Name))
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	return q
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.Select("titles.*, " + ratingColumn).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name, genres.id") })
}

func (r *titleRepository) List(ctx context.Context, filter dto.TitleFilter, page dto.Page) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	err := withRelations(r.filtered(ctx, filter)).
		Order("titles.name asc, titles.id asc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}
	return list, total, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := withRelations(r.db.WithContext(ctx).Model(&models.Title{})).Where("titles.id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *titleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts the title and its genre links in one transaction.
func (r *titleRepository) Create(ctx context.Context, t *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Create(t).Error; err != nil {
			return fmt.Errorf("create title: %w", translate(err))
		}
		return linkGenres(tx, t.ID, genres)
	})
}

func (r *titleRepository) Update(ctx context.Context, id int64, upd TitleUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Title{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}

		if len(upd.Fields) > 0 {
			if err := tx.Model(&models.Title{}).Where("id = ?", id).Updates(upd.Fields).Error; err != nil {
				return fmt.Errorf("update title: %w", translate(err))
			}
		}
		if upd.Genres != nil {
			if err := tx.Where("title_id = ?", id).Delete(&models.TitleGenre{}).Error; err != nil {
				return fmt.Errorf("clear title genres: %w", err)
			}
			return linkGenres(tx, id, upd.Genres)
		}
		return nil
	})
}

// Delete removes the title; reviews and their comments go with it.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Title{})
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func linkGenres(tx *gorm.DB, titleID int64, genres []models.Genre) error {
	if len(genres) == 0 {
		return nil
	}
	links := make([]models.TitleGenre, 0, len(genres))
	for _, g := range genres {
		links = append(links, models.TitleGenre{TitleID: titleID, GenreID: g.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("link title genres: %w", translate(err))
	}
	return nil
}
