package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/microservices/mailer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close(db)

	if cfg.MigrationsOnRun {
		if err := database.RunMigrations(db, logger); err != nil {
			logger.Error("migrations_failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	limiter, closeLimiter := newAuthLimiter(cfg, logger)
	defer closeLimiter()

	sender, closeSender, err := newMailSender(cfg, logger)
	if err != nil {
		logger.Error("mailer_init_failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeSender()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	tokens := service.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	services := handler.Services{
		Auth:       service.NewAuthService(userRepo, tokens, mailer.NewConfirmationNotifier(sender)),
		Users:      service.NewUserService(userRepo),
		Categories: service.NewCategoryService(categoryRepo),
		Genres:     service.NewGenreService(genreRepo),
		Titles:     service.NewTitleService(titleRepo, categoryRepo, genreRepo),
		Reviews:    service.NewReviewService(reviewRepo, titleRepo),
		Comments:   service.NewCommentService(commentRepo, reviewRepo),
	}

	router := handler.NewRouter(services, handler.RouterOptions{
		PageSize:    cfg.PageSize,
		AuthLimiter: limiter,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http_server_starting", slog.String("addr", srv.Addr), slog.String("env", cfg.GoEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", slog.Any("error", err))
		return
	}
	logger.Info("server_stopped_gracefully")
}

// newAuthLimiter prefers the shared Redis bucket and falls back to an
// in-process limiter when REDIS_URL is unset or unreachable.
func newAuthLimiter(cfg *config.Config, logger *slog.Logger) (middleware.Limiter, func()) {
	local := func() (middleware.Limiter, func()) {
		logger.Info("auth_rate_limiter", slog.String("backend", "local"))
		return middleware.NewLocalLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst), func() {}
	}
	if cfg.RedisURL == "" {
		return local()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid_redis_url", slog.Any("error", err))
		return local()
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis_unreachable", slog.Any("error", err))
		_ = rdb.Close()
		return local()
	}

	logger.Info("auth_rate_limiter", slog.String("backend", "redis"), slog.String("addr", opts.Addr))
	return middleware.NewRedisLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateBurst), func() { _ = rdb.Close() }
}

func newMailSender(cfg *config.Config, logger *slog.Logger) (mailer.Sender, func(), error) {
	switch cfg.MailBackend {
	case "queue":
		sender, closeFn, err := mailer.DialQueueSender(cfg.AMQPURL, cfg.MailQueue)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("mail_backend", slog.String("backend", "queue"), slog.String("queue", cfg.MailQueue))
		return sender, func() { _ = closeFn() }, nil
	case "smtp":
		logger.Info("mail_backend", slog.String("backend", "smtp"), slog.String("addr", cfg.SMTPAddr()))
		return mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom), func() {}, nil
	default:
		logger.Info("mail_backend", slog.String("backend", "log"))
		return mailer.NewLogSender(logger), func() {}, nil
	}
}
