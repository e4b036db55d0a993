package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	pageSize        int
}

func NewCategoryHandler(categoryService service.CategoryService, pageSize int) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, pageSize: pageSize}
}

// RegisterRoutes registers category routes; categories have no retrieve or update
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("/", h.List)
		categories.POST("/", h.Create)
		categories.DELETE("/:slug/", h.Delete)
	}
}

// GET /api/v1/categories/?search=
func (h *CategoryHandler) List(c *gin.Context) {
	page, err := parsePage(c, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.categoryService.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, resp, page)
}

// POST /api/v1/categories/
func (h *CategoryHandler) Create(c *gin.Context) {
	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := permission.Authorize(actor, permission.Category, permission.Create, false); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateCategoryDTO
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.categoryService.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DELETE /api/v1/categories/:slug/
func (h *CategoryHandler) Delete(c *gin.Context) {
	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := h.categoryService.Delete(c.Request.Context(), actor, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
