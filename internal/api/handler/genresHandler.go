package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// RegisterRoutes wires the genre endpoints: open reads, admin writes.
func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	genres := rg.Group("/genres")
	genres.GET("", h.List)
	genres.POST("", auth, middleware.RequireAdmin(), h.Create)
	genres.DELETE("/:slug", auth, middleware.RequireAdmin(), h.Delete)
}

// List handles GET /api/v1/genres?search=<name>&limit=&offset=
func (h *GenreHandler) List(c *gin.Context) {
	limit, offset := parsePage(c)

	list, total, err := h.genreService.List(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.GenreResponse, 0, len(list))
	for _, genre := range list {
		resp = append(resp, dto.GenreFromModel(genre))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, total))
}

// Create handles POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreDTO
	if !bindJSON(c, &req) {
		return
	}

	genre := models.Genre{Name: req.Name, Slug: req.Slug}
	if err := h.genreService.Create(c.Request.Context(), &genre); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.GenreFromModel(genre))
}

// Delete handles DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
