package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes wires the category endpoints: open reads, admin writes.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	categories := rg.Group("/categories")
	categories.GET("", h.List)
	categories.POST("", auth, middleware.RequireAdmin(), h.Create)
	categories.DELETE("/:slug", auth, middleware.RequireAdmin(), h.Delete)
}

// List handles GET /api/v1/categories?search=<name>&limit=&offset=
func (h *CategoryHandler) List(c *gin.Context) {
	limit, offset := parsePage(c)

	list, total, err := h.categoryService.List(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, category := range list {
		resp = append(resp, dto.CategoryFromModel(category))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, total))
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryDTO
	if !bindJSON(c, &req) {
		return
	}

	category := models.Category{Name: req.Name, Slug: req.Slug}
	if err := h.categoryService.Create(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CategoryFromModel(category))
}

// Delete handles DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
