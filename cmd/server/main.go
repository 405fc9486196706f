package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/config"
	"github.com/quitecodedevelopers/elearning/course"
	"github.com/quitecodedevelopers/elearning/handler"
	"github.com/quitecodedevelopers/elearning/logging"
	"github.com/quitecodedevelopers/elearning/middleware/authware"
)

// App wires configuration, storage, authentication, and the HTTP surface.
type App struct {
	config *config.AppConfig
	db     *bun.DB
	logger *logging.Logger
	repo   course.RepositoryManager
	auther auth.Authenticator
	srv    *fiber.App
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := app.srv.Listen(cfg.Server.Addr); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("server listening", "addr", cfg.Server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.srv.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		logger.Error("close database", "error", err)
	}
}

func newApp(cfg *config.AppConfig, logger *logging.Logger) (*App, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if err := createTables(ctx, db); err != nil {
		return nil, err
	}

	repo := course.NewRepositoryManager(db)
	repo.MustValidate()

	provider := auth.NewUserProvider(repo.Users())

	// Fails closed: a missing or short signing key aborts startup.
	signingKey, err := auth.NewSigningKey(cfg.GetSigningKey())
	if err != nil {
		return nil, err
	}

	auther := auth.NewAuthenticator(provider, signingKey, cfg).
		WithLogger(logger.Named("auth"))

	srv := fiber.New(fiber.Config{
		AppName:      "elearning",
		ErrorHandler: handler.ErrorHandler,
	})

	srv.Use(authware.New(authware.Config{
		Validator:  auther.TokenService(),
		Provider:   provider,
		ContextKey: cfg.GetContextKey(),
		AuthScheme: cfg.GetAuthScheme(),
		Logger:     logger.Named("authware"),
	}))

	registerRoutes(srv, cfg, db, repo, auther, logger)

	return &App{
		config: cfg,
		db:     db,
		logger: logger,
		repo:   repo,
		auther: auther,
		srv:    srv,
	}, nil
}

func registerRoutes(srv *fiber.App, cfg *config.AppConfig, db *bun.DB, repo course.RepositoryManager, auther auth.Authenticator, logger *logging.Logger) {
	contextKey := cfg.GetContextKey()
	svc := course.NewService(repo)

	handler.NewAuthController(repo.Users(), auther, logger.Named("auth")).RegisterRoutes(srv)
	handler.NewCourseController(repo, logger.Named("courses"), contextKey).RegisterRoutes(srv)
	handler.NewLectureController(repo, logger.Named("lectures"), contextKey).RegisterRoutes(srv)
	handler.NewAssignmentController(repo, svc, logger.Named("assignments"), contextKey).RegisterRoutes(srv)
	handler.NewEnrollmentController(svc, logger.Named("enrollments"), contextKey).RegisterRoutes(srv)
	handler.NewProfileController(repo.Users(), logger.Named("profile"), contextKey).RegisterRoutes(srv)
	handler.NewDashboardController(db, repo, logger.Named("dashboard"), contextKey).RegisterRoutes(srv)
}

func createTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*course.Course)(nil),
		(*course.Lecture)(nil),
		(*course.Assignment)(nil),
		(*course.Submission)(nil),
		(*course.Enrollment)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
