package handler

import (
	"log/slog"
	"net/http"

	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Services is the set of use cases the API exposes.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Categories service.CategoryService
	Genres     service.GenreService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
}

type RouterOptions struct {
	PageSize int
	// AuthLimiter throttles /auth/ per client IP; nil disables throttling.
	AuthLimiter middleware.Limiter
	Logger      *slog.Logger
}

// NewRouter builds the /api/v1 engine.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	RegisterValidators()

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "method \"" + c.Request.Method + "\" not allowed"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	if opts.AuthLimiter != nil {
		authGroup.Use(middleware.RateLimit(opts.AuthLimiter, "auth", log))
	}
	NewAuthHandler(svc.Auth).RegisterRoutes(authGroup)

	v1 := api.Group("", middleware.Authenticate(svc.Auth))
	NewUserHandler(svc.Users, opts.PageSize).RegisterRoutes(v1)
	NewCategoryHandler(svc.Categories, opts.PageSize).RegisterRoutes(v1)
	NewGenreHandler(svc.Genres, opts.PageSize).RegisterRoutes(v1)
	NewTitleHandler(svc.Titles, opts.PageSize).RegisterRoutes(v1)
	NewReviewHandler(svc.Reviews, opts.PageSize).RegisterRoutes(v1)
	NewCommentHandler(svc.Comments, opts.PageSize).RegisterRoutes(v1)

	return r
}
