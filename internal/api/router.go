package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"reservas-backend/config"
	"reservas-backend/internal/auth"
	"reservas-backend/internal/model"
	"reservas-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router. Every route beyond
// login, signup, health and the push endpoints requires a valid token;
// catalog and user administration additionally require the admin role.
func NewRouter(handler *Handler, tokens *auth.TokenManager, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst, cfg.Server.RequestIPHeader)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.BustCache(cacheStore))
	{
		api.GET("/health", handler.Health)
		api.POST("/auth/signup", handler.Signup)
		api.POST("/auth/login", handler.Login)

		// Push subscriptions are keyed by browser endpoint, not account.
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authed := api.Group("")
		authed.Use(mw.RequireAuth(tokens))
		{
			authed.GET("/profile", handler.GetProfile)
			authed.PUT("/profile", handler.UpdateProfile)

			authed.GET("/environment-types", caching, handler.ListEnvironmentTypes)
			authed.GET("/resources", caching, handler.ListResources)
			authed.GET("/environments", caching, handler.ListEnvironments)
			authed.GET("/environments/available", handler.SearchAvailable)

			authed.GET("/reservations", handler.ListReservations)
			authed.POST("/reservations", handler.CreateReservation)
			authed.POST("/reservations/series", handler.CreateReservationSeries)
			authed.DELETE("/reservations/:id", handler.DeleteReservation)

			authed.POST("/finder", handler.FindEnvironment)

			admin := authed.Group("")
			admin.Use(mw.RequireRole(model.RoleAdmin))
			{
				admin.POST("/environment-types", handler.CreateEnvironmentType)
				admin.PUT("/environment-types/:id", handler.UpdateEnvironmentType)
				admin.DELETE("/environment-types/:id", handler.DeleteEnvironmentType)

				admin.POST("/resources", handler.CreateResource)
				admin.PUT("/resources/:id", handler.UpdateResource)
				admin.DELETE("/resources/:id", handler.DeleteResource)

				admin.POST("/environments", handler.CreateEnvironment)
				admin.PUT("/environments/:id", handler.UpdateEnvironment)
				admin.DELETE("/environments/:id", handler.DeleteEnvironment)

				admin.GET("/users", handler.ListUsers)
				admin.POST("/users", handler.CreateUser)
				admin.PUT("/users/:id", handler.UpdateUser)
				admin.DELETE("/users/:id", handler.DeleteUser)

				admin.GET("/backup", handler.ExportBackup)
				admin.POST("/backup", handler.RestoreBackup)
			}
		}
	}

	return r
}
