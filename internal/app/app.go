package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suprema-shop/auth-service/internal/config"
	"github.com/suprema-shop/auth-service/internal/domain"
	"github.com/suprema-shop/auth-service/internal/handler"
	"github.com/suprema-shop/auth-service/internal/mailer"
	"github.com/suprema-shop/auth-service/internal/repository"
	"github.com/suprema-shop/auth-service/internal/service"
	"github.com/suprema-shop/auth-service/internal/utils"
	"github.com/suprema-shop/auth-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

// NewApp wires repositories, services and handlers. The email sender may be
// overridden (tests swap in a recording fake); pass nil to use SMTP from
// config.
func NewApp(infra Infrastructure, cfg *config.Config, sender service.Mailer) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repository.EnsureIndexes(ctx, infra.Mongo()); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	repos := repository.NewRepositories(infra.Mongo())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	if sender == nil {
		smtp, err := mailer.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			return nil, fmt.Errorf("failed to create mailer: %w", err)
		}
		sender = smtp
	}

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Token,
		jwtManager,
		sender,
		cfg.Security.BCryptCost,
		cfg.Frontend.BaseURL,
	)

	authMetrics, err := observability.NewAuthMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to register auth metrics: %w", err)
	}

	authHandler := handler.NewAuthHandler(authService, cfg.JWT.CookieWindow, authMetrics)

	router := gin.Default()
	router.Use(otelgin.Middleware("suprema-auth"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	throttle := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
	)
	authenticate := handler.Authenticate(authService)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", throttle, authHandler.Signup)
			auth.POST("/admin-signup", authenticate, handler.RequireRoles(domain.RoleAdmin), authHandler.AdminSignup)
			auth.POST("/login", throttle, authHandler.Login)
			auth.POST("/logout", authenticate, authHandler.Logout)
			auth.PATCH("/verify-account/:id", authHandler.VerifyAccount)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.PATCH("/reset-password/:resetToken", authHandler.ResetPassword)
			auth.PATCH("/update-password", authenticate, authHandler.UpdatePassword)
			auth.POST("/refresh-token", authHandler.Refresh)
			auth.GET("/me", authenticate, authHandler.GetMe)
			auth.DELETE("/me", authenticate, authHandler.DeleteMe)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
