package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	titleService service.TitleService
	pageSize     int
}

func NewTitleHandler(titleService service.TitleService, pageSize int) *TitleHandler {
	return &TitleHandler{titleService: titleService, pageSize: pageSize}
}

func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles")
	{
		titles.GET("/", h.List)
		titles.POST("/", h.Create)
		titles.GET("/:title_id/", h.Get)
		titles.PATCH("/:title_id/", h.Update)
		titles.DELETE("/:title_id/", h.Delete)
	}
}

// List titles, filtered by ?category=&genre=&name=&year=
// GET /api/v1/titles/
func (h *TitleHandler) List(c *gin.Context) {
	page, err := parsePage(c, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	var filter dto.TitleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		// year is the only non-string filter
		respondError(c, service.NewValidationError("year", "enter a whole number"))
		return
	}

	resp, err := h.titleService.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, resp, page)
}

// GET /api/v1/titles/:title_id/
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	resp, err := h.titleService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/titles/
func (h *TitleHandler) Create(c *gin.Context) {
	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := permission.Authorize(actor, permission.Title, permission.Create, false); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateTitleDTO
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.titleService.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PATCH /api/v1/titles/:title_id/
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := permission.Authorize(actor, permission.Title, permission.Update, false); err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateTitleDTO
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.titleService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/titles/:title_id/
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := h.titleService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
