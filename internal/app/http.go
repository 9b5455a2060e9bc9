package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rageventura-api/internal/auth"
	authhandler "rageventura-api/internal/auth/handler"
	"rageventura-api/internal/cart"
	"rageventura-api/internal/community"
	"rageventura-api/internal/config"
	"rageventura-api/internal/contact"
	"rageventura-api/internal/middleware"
	"rageventura-api/internal/profile"
	"rageventura-api/internal/session"
	"rageventura-api/internal/user"
)

func setupHTTP(ctx context.Context, cfg config.Config, logger *zap.Logger) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	userStore := user.NewStore(infra.DB)

	cookieOpts := session.CookieOptions{
		Name:     cfg.Session.CookieName,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	authSvc := auth.NewService(userStore, sessionStore, cfg.Session.Lifetime, logger)
	profileSvc := profile.NewService(userStore, logger)
	communitySvc := community.NewService(infra.DB, logger)
	contactSvc := contact.NewService(infra.DB, logger)

	pricing, err := cart.ParsePricing(
		cfg.Cart.TaxRate,
		cfg.Cart.FlatShippingRate,
		cfg.Cart.FreeShippingAbove,
	)
	if err != nil {
		return nil, nil, err
	}
	cartStorage := cart.NewRedisStorage(infra.Redis.Client)

	authHandler := authhandler.NewHandler(authSvc, cookieOpts, logger)
	profileHandler := profile.NewHandler(
		profileSvc, authSvc,
		cfg.Uploads.Dir, cfg.Uploads.MaxAvatarSize,
		logger,
	)
	communityHandler := community.NewHandler(communitySvc, logger)
	contactHandler := contact.NewHandler(contactSvc, logger)
	cartHandler := cart.NewHandler(cartStorage, pricing, cfg.Session.Secure, logger)

	authMiddleware := middleware.NewAuth(sessionStore, cfg.Session.CookieName)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(authMiddleware.Resolve())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.Static("/uploads", cfg.Uploads.Dir)

	api := router.Group("/api")
	protected := router.Group("/api")
	protected.Use(middleware.RequireAuth())

	authHandler.RegisterRoutes(api)
	communityHandler.RegisterRoutes(api)
	contactHandler.RegisterRoutes(api)
	cartHandler.RegisterRoutes(api)
	profileHandler.RegisterRoutes(api, protected)

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
