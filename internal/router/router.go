package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tastebook/backend/config"
	"github.com/tastebook/backend/internal/api"
	"github.com/tastebook/backend/internal/middleware"
)

// Handlers bundles everything SetupRouter wires into routes.
type Handlers struct {
	Auth     *api.AuthHandler
	User     *api.UserHandler
	Recipe   *api.RecipeHandler
	Bookmark *api.BookmarkHandler
	Health   *api.HealthHandler
}

// SetupRouter configures the application routes. rateLimiter may be nil
// when Redis is not configured.
func SetupRouter(
	cfg *config.Config,
	h Handlers,
	resolver middleware.UserResolver,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")

	// Auth routes, rate-limited per client IP when Redis is available
	auth := v1.Group("/auth")
	if rateLimiter != nil {
		auth.Use(rateLimiter.Middleware())
	}
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	// Recipes are publicly readable
	v1.GET("/recipes", h.Recipe.List)
	v1.GET("/recipes/:id", h.Recipe.Get)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.Auth(resolver))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", h.User.Me)
			users.DELETE("/me", h.User.DeleteMe)
		}

		recipes := protected.Group("/recipes")
		{
			recipes.POST("", h.Recipe.Create)
			recipes.PUT("/:id", h.Recipe.Update)
			recipes.DELETE("/:id", h.Recipe.Delete)
			recipes.POST("/:id/photo", h.Recipe.UploadPhoto)
		}

		bookmarks := protected.Group("/bookmarks")
		{
			bookmarks.GET("", h.Bookmark.List)
			bookmarks.POST("", h.Bookmark.Add)
			bookmarks.DELETE("/:recipe_id", h.Bookmark.Remove)
		}
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	return corsCfg
}
