package http

import (
	"context"
	"log/slog"

	"github.com/avelazco/contactdeck/internal/cache"
	"github.com/avelazco/contactdeck/internal/config"
	"github.com/avelazco/contactdeck/internal/http/handlers"
	"github.com/avelazco/contactdeck/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/avelazco/contactdeck/internal/observability"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Store is everything the HTTP layer needs from a backing store. Both
// the file and the postgres drivers satisfy it.
type Store interface {
	handlers.UserStore
	handlers.ProfileStore
	handlers.CollectionStore
	handlers.BookmarkStore
	handlers.MembershipStore
}

type TokenManager interface {
	handlers.TokenIssuer
	middlewares.TokenVerifier
}

type Deps struct {
	Cfg      config.Config
	Store    Store
	JWT      TokenManager
	Prom     *observability.Prom
	Registry *prometheus.Registry
	Cache    cache.Cache

	// Ping reports store connectivity for /readyz; nil skips the check.
	Ping func(ctx context.Context) error
}

func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	if deps.Cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("contactdeck-api"))
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger(log))
	router.Use(middlewares.CORSMiddleware(deps.Cfg.CORSAllowedOrigins))
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	router.Use(middlewares.RequireJSON())

	if deps.Prom != nil {
		router.Use(deps.Prom.GinHandleMiddleware())
	}

	health := handlers.NewHealthHandler(deps.Ping)
	router.GET("/healthz", health.Healthz)
	router.GET("/readyz", health.Readyz)

	if deps.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	authHandler := handlers.NewAuthHandler(deps.Store, deps.JWT, log)
	authLimiter := middlewares.NewRateLimiter(deps.Cfg.AuthRateLimit, deps.Cfg.AuthRateWindow, middlewares.KeyByIP)

	authGroup := router.Group("/api/auth")
	authGroup.Use(authLimiter.Middleware())
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	authMW := middlewares.NewAuthMiddleware(deps.JWT)

	api := router.Group("/api")
	api.Use(authMW.RequireAuth())
	{
		api.GET("/auth/me", authHandler.Me)

		profilesHandler := handlers.NewProfilesHandler(deps.Store, deps.Cache, log)
		api.GET("/profiles", profilesHandler.List)
		api.POST("/profiles", profilesHandler.Create)
		api.PUT("/profiles/:id", profilesHandler.Update)
		api.DELETE("/profiles/:id", profilesHandler.Delete)

		membershipHandler := handlers.NewMembershipHandler(deps.Store, log)
		api.PUT("/profiles/:id/collections", membershipHandler.SetCollections)

		collectionsHandler := handlers.NewCollectionsHandler(deps.Store, log)
		api.GET("/collections", collectionsHandler.List)
		api.POST("/collections", collectionsHandler.Create)
		api.PUT("/collections/:id", collectionsHandler.Update)
		api.DELETE("/collections/:id", collectionsHandler.Delete)

		bookmarksHandler := handlers.NewBookmarksHandler(deps.Store, log)
		api.GET("/bookmarks", bookmarksHandler.List)
		api.POST("/bookmarks", bookmarksHandler.Create)
		api.PUT("/bookmarks/:id", bookmarksHandler.Update)
		api.DELETE("/bookmarks/:id", bookmarksHandler.Delete)
	}

	return router
}
