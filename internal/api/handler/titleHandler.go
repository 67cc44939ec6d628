package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// RegisterRoutes wires the title endpoints: open reads, admin writes.
func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	titles := rg.Group("/titles")
	titles.GET("", h.List)
	titles.GET("/:title_id", h.Get)
	titles.POST("", auth, middleware.RequireAdmin(), h.Create)
	titles.PATCH("/:title_id", auth, middleware.RequireAdmin(), h.Update)
	titles.DELETE("/:title_id", auth, middleware.RequireAdmin(), h.Delete)
}

// List handles GET /api/v1/titles?name=&year=&category=&genre=&limit=&offset=
func (h *TitleHandler) List(c *gin.Context) {
	limit, offset := parsePage(c)

	filter := repository.TitleFilter{
		Name:         c.Query("name"),
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		filter.Year = &year
	}

	titles, total, err := h.titleService.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.TitleResponse, 0, len(titles))
	for _, title := range titles {
		resp = append(resp, dto.FromModelToTitleResponse(title))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, total))
}

// Get handles GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	title, err := h.titleService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTitleResponse(*title))
}

// Create handles POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleDTO
	if !bindJSON(c, &req) {
		return
	}

	title := models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}
	created, err := h.titleService.Create(c.Request.Context(), &title, req.Category, req.Genre)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToTitleResponse(*created))
}

// Update handles PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	var req dto.UpdateTitleDTO
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.titleService.Update(c.Request.Context(), id, req.ApplyTo, req.Category, req.Genre)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToTitleResponse(*updated))
}

// Delete handles DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
