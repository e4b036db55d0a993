package dto

import "yamdb/internal/microservices/http-api/models"

// CreateTitleDTO used for POST /titles/. Genres and category are referenced by slug.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required,min=0,notfuture"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" binding:"required,dive,slug"`
	Category    string   `json:"category" binding:"required,slug"`
}

// UpdateTitleDTO used for PATCH /titles/{id}/ (partial updates allowed).
// A nil Genre leaves the genre set untouched; an empty list clears it.
type UpdateTitleDTO struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=1,max=256"`
	Year        *int     `json:"year,omitempty" binding:"omitempty,min=0,notfuture"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre,omitempty" binding:"omitempty,dive,slug"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,slug"`
}

// TitleFilter binds the query string of GET /titles/.
type TitleFilter struct {
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
}

// TitleResponse is the read representation with nested genres and category.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *int              `json:"rating"`
	Description string            `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func TitleFromModel(t models.Title) TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, GenreFromModel(g))
	}
	var category *CategoryResponse
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		category = &c
	}
	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       genres,
		Category:    category,
	}
}
