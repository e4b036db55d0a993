package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	genreService service.GenreService
	pageSize     int
}

func NewGenreHandler(genreService service.GenreService, pageSize int) *GenreHandler {
	return &GenreHandler{genreService: genreService, pageSize: pageSize}
}

func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres")
	{
		genres.GET("/", h.List)
		genres.POST("/", h.Create)
		genres.DELETE("/:slug/", h.Delete)
	}
}

// List genres ordered by name
// GET /api/v1/genres/?search=
func (h *GenreHandler) List(c *gin.Context) {
	page, err := parsePage(c, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.genreService.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, resp, page)
}

// POST /api/v1/genres/
func (h *GenreHandler) Create(c *gin.Context) {
	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := permission.Authorize(actor, permission.Genre, permission.Create, false); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateGenreDTO
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.genreService.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DELETE /api/v1/genres/:slug/
func (h *GenreHandler) Delete(c *gin.Context) {
	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := h.genreService.Delete(c.Request.Context(), actor, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
