package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/habit-quest/internal/config"
	"github.com/iliyamo/habit-quest/internal/handler"
	"github.com/iliyamo/habit-quest/internal/middleware"
)

// APIDeps bundles everything the game API routes need.
type APIDeps struct {
	JWTSecret string
	Redis     *redis.Client
	CacheCfg  config.CacheConfig
	RateCfg   config.RateLimitConfig

	Habits       *handler.HabitHandler
	Achievements *handler.AchievementHandler
	Missions     *handler.MissionHandler
	Profile      *handler.ProfileHandler
}

// RegisterAPI registers the progression endpoints. Everything under
// /v1 requires a valid access token and passes through the shared
// rate limiter. The public catalog route is cached; per-user routes
// are not, because the cache key ignores the caller's identity.
func RegisterAPI(e *echo.Echo, d APIDeps) {
	cache := middleware.NewRedisCache(d.CacheCfg, d.Redis)
	e.GET("/v1/catalog/achievements", d.Achievements.Catalog, cache)
	e.GET("/v1/catalog/missions", d.Missions.Catalog, cache)

	api := e.Group("/v1")
	// Auth runs first so the limiter can key buckets on the caller's
	// user id; swapping the order degrades every request to "anon".
	api.Use(middleware.JWTAuth(d.JWTSecret))
	api.Use(middleware.NewTokenBucket(d.RateCfg, d.Redis))

	api.GET("/habits", d.Habits.List)
	api.POST("/habits", d.Habits.Create)
	api.PUT("/habits/:id", d.Habits.Update)
	api.POST("/habits/:id/archive", d.Habits.Archive)
	api.DELETE("/habits/:id", d.Habits.Delete)
	api.POST("/habits/:id/complete", d.Habits.Complete)

	api.GET("/achievements", d.Achievements.List)
	api.POST("/achievements/:id/share", d.Achievements.Share)

	api.GET("/missions/today", d.Missions.Today)

	api.GET("/profile", d.Profile.Get)
	api.PUT("/profile", d.Profile.UpdateUsername)
	api.DELETE("/account", d.Profile.DeleteAccount)
}
