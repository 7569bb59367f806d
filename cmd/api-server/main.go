package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"critichub/database"
	"critichub/internal/api/handler"
	"critichub/internal/api/middleware"
	"critichub/internal/api/repository"
	"critichub/internal/api/service"
	"critichub/internal/config"
	"critichub/internal/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.RateLimitEnabled {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("could not parse redis url", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	mail := newMailer(cfg, logger)

	// repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// services
	authService := service.NewAuthService(userRepo, mail, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.Use(middleware.OptionalAuthenticate(authService, userRepo))

	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(cfg, rdb))
	handler.NewAuthHandler(authService).RegisterRoutes(auth)

	handler.NewUserHandler(userService, authService).RegisterRoutes(v1.Group("/users"))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(v1.Group("/categories"))
	handler.NewGenreHandler(genreService).RegisterRoutes(v1.Group("/genres"))

	titles := v1.Group("/titles")
	handler.NewTitleHandler(titleService).RegisterRoutes(titles)

	reviews := titles.Group("/:title_id/reviews")
	handler.NewReviewHandler(reviewService).RegisterRoutes(reviews)

	// mounted off titles, not reviews, so the comment handler applies its
	// own write policy exactly once
	comments := titles.Group("/:title_id/reviews/:review_id/comments")
	handler.NewCommentHandler(commentService).RegisterRoutes(comments)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// newMailer delivers over SMTP when a host is configured and logs the
// codes otherwise, which keeps local development working without a relay.
func newMailer(cfg *config.Config, logger *slog.Logger) mailer.Sender {
	var inner mailer.Sender
	if cfg.SMTPHost != "" {
		inner = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		logger.Warn("SMTP_HOST not set, confirmation codes will be logged instead of emailed")
		inner = &mailer.LogSender{Logger: logger}
	}
	return mailer.NewAsyncSender(inner, cfg.EmailPerSec, logger)
}
