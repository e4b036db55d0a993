package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/microservices/http-api/validators"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	pageSize    int
}

func NewUserHandler(userService service.UserService, pageSize int) *UserHandler {
	return &UserHandler{userService: userService, pageSize: pageSize}
}

// RegisterRoutes registers the admin user routes and the self-service /me routes
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/", h.List)
		users.POST("/", h.Create)

		users.GET("/me/", h.GetMe)
		users.PATCH("/me/", h.UpdateMe)

		users.GET("/:username/", h.Get)
		users.PATCH("/:username/", h.Update)
		users.DELETE("/:username/", h.Delete)
	}
}

// List returns a page of users, optionally filtered by ?search=
// GET /api/v1/users/
func (h *UserHandler) List(c *gin.Context) {
	page, err := parsePage(c, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	actor := permission.ActorOf(middleware.CurrentUser(c))
	resp, err := h.userService.List(c.Request.Context(), actor, c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, resp, page)
}

// POST /api/v1/users/
func (h *UserHandler) Create(c *gin.Context) {
	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := permission.Authorize(actor, permission.Users, permission.Create, false); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.userService.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /api/v1/users/:username/
func (h *UserHandler) Get(c *gin.Context) {
	actor := permission.ActorOf(middleware.CurrentUser(c))
	resp, err := h.userService.Get(c.Request.Context(), actor, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /api/v1/users/:username/
func (h *UserHandler) Update(c *gin.Context) {
	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := permission.Authorize(actor, permission.Users, permission.Update, false); err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.userService.Update(c.Request.Context(), actor, c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/users/:username/
func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	// /users/me/ shares this pattern but does not allow DELETE
	if username == validators.ReservedUsername {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": `method "DELETE" not allowed`})
		return
	}

	actor := permission.ActorOf(middleware.CurrentUser(c))
	if err := h.userService.Delete(c.Request.Context(), actor, username); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/users/me/
func (h *UserHandler) GetMe(c *gin.Context) {
	resp, err := h.userService.GetMe(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /api/v1/users/me/
func (h *UserHandler) UpdateMe(c *gin.Context) {
	me := middleware.CurrentUser(c)
	if me == nil {
		respondError(c, permission.ErrAuthenticationRequired)
		return
	}

	var req dto.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.userService.UpdateMe(c.Request.Context(), me, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
