package dto

import "reviewhub/internal/api/models"

// CreateTitleDTO for POST /api/v1/titles. Category and genres arrive as
// slugs and are resolved by the service.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required,pastyear"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,max=50,slug"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50,slug"`
}

// UpdateTitleDTO for PATCH /api/v1/titles/:title_id; nil fields keep their
// current value, Genre replaces the whole set when present.
type UpdateTitleDTO struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year" binding:"omitempty,pastyear"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" binding:"omitempty,max=50,slug"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,max=50,slug"`
}

func (in UpdateTitleDTO) ApplyTo(t *models.Title) {
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Year != nil {
		t.Year = *in.Year
	}
	if in.Description != nil {
		t.Description = in.Description
	}
}

type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description,omitempty"`
	Category    *CategoryResponse `json:"category"`
	Genre       []GenreResponse   `json:"genre"`
}

func FromModelToTitleResponse(t models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	return resp
}
