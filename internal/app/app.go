package app

import (
	"context"
	"fmt"
	"time"

	"courselab_backend/database"
	"courselab_backend/internal/auth"
	"courselab_backend/internal/config"
	"courselab_backend/internal/email"
	"courselab_backend/internal/handlers"
	"courselab_backend/internal/logger"
	"courselab_backend/internal/middleware"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
	"courselab_backend/internal/routes"
	"courselab_backend/internal/services"
	"courselab_backend/internal/services/billing"
	"courselab_backend/internal/validator"
	"courselab_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Println("failed to load config:", err)
		return
	}

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(repositories.NewUserRepository(gormDB), cfg); err != nil {
		logger.Fatal("failed to seed first admin user", "error", err)
	}

	// The single place the Stripe API key is set.
	stripe.Key = cfg.Stripe.SecretKey

	ginRouter := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)

	serviceContainer := initializeServices(cfg, gormDB, tokens)
	appHandlers := initializeHandlers(cfg, serviceContainer, tokens)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, tokens *auth.TokenManager) *services.ServiceContainer {
	emailProvider := buildEmailProvider(cfg)

	userRepo := repositories.NewUserRepository(gormDB)
	businessRepo := repositories.NewBusinessRepository(gormDB)
	paymentRepo := repositories.NewPaymentRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	resetTokenRepo := repositories.NewResetTokenRepository(gormDB)
	progressRepo := repositories.NewProgressRepository(gormDB)

	return &services.ServiceContainer{
		AuthService: services.NewAuthService(
			userRepo, businessRepo, resetTokenRepo, refreshTokenRepo,
			emailProvider, tokens, cfg.App.BaseURL,
		),
		UserService:     services.NewUserService(userRepo),
		StaffService:    services.NewStaffService(userRepo, businessRepo, emailProvider, cfg.App.BaseURL),
		ProgressService: services.NewProgressService(progressRepo),

		CheckoutService: billing.NewCheckoutService(userRepo, businessRepo, cfg.Stripe.Currency, cfg.App.BaseURL),
		AccessService:   billing.NewAccessService(paymentRepo),
		Reconciler:      billing.NewReconciler(paymentRepo, userRepo, emailProvider),
	}
}

func initializeHandlers(cfg *config.Config, sc *services.ServiceContainer, tokens *auth.TokenManager) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	authMW := middleware.AuthMiddleware(tokens)

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, sc.AuthService, authMW),
		BillingHandler:  handlers.NewBillingHandler(baseHandler, sc.CheckoutService, sc.AccessService, sc.Reconciler, cfg.Stripe.WebhookSecret, authMW),
		StaffHandler:    handlers.NewStaffHandler(baseHandler, sc.StaffService, authMW),
		ProgressHandler: handlers.NewProgressHandler(baseHandler, sc.ProgressService, authMW),
		UserHandler:     handlers.NewUserHandler(baseHandler, sc.UserService, authMW),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func startWorkers(ctx context.Context, gormDB *gorm.DB) {
	sweeper := workers.NewTokenSweeper(
		repositories.NewRefreshTokenRepository(gormDB),
		repositories.NewResetTokenRepository(gormDB),
	)
	sweeper.Start(ctx)
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	renderer := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if err := renderer.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			logger.Warn("failed to load email templates, using builtins", "error", err)
		}
	}

	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, renderer)

	if err := provider.Validate(); err != nil {
		logger.Warn("email provider misconfigured, outgoing mail disabled", "error", err)
		return email.NewNoopProvider()
	}
	return provider
}

func seedFirstAdmin(userRepo repositories.UserRepository, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn("admin email or password not configured, skipping admin seeding")
		return nil
	}

	admins, err := userRepo.CountByRole(models.UserRoleAdmin)
	if err != nil {
		return fmt.Errorf("count admin users: %w", err)
	}
	if admins > 0 {
		logger.Info("admin user already exists, skipping creation")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(newAdmin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	logger.Info("first admin user created", "email", cfg.Admin.Email)
	return nil
}
