package handlers

import (
	"time"

	"habitrpg/internal/middleware"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string
	AdminKey       string
	Logger         *log.Logger
	Limiter        *middleware.RateLimiter
	Tokens         middleware.AccessValidator
}

type Handlers struct {
	Auth    *AuthHandler
	Habits  *HabitHandler
	Profile *ProfileHandler
	Catalog *CatalogHandler
	Admin   *AdminHandler
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(cfg.Logger))

	config := cors.DefaultConfig()
	config.AllowOrigins = cfg.AllowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	r.Static("/static/avatars", "./static/avatars")

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", cfg.Limiter.Limit("register", 5, 10*time.Minute), h.Auth.Register)
			auth.POST("/login", cfg.Limiter.Limit("login", 5, 1*time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		api.GET("/leaderboard", h.Profile.Leaderboard)
		api.GET("/rewards", h.Catalog.ListRewards)
		api.GET("/avatars", h.Catalog.ListAvatars)

		user := api.Group("")
		user.Use(middleware.AuthMiddleware(cfg.Tokens))
		{
			user.GET("/habits", h.Habits.List)
			user.POST("/habits", h.Habits.Create)
			user.POST("/habits/:id/done", h.Habits.Complete)
			user.DELETE("/habits/:id", h.Habits.Delete)
			user.GET("/progress/weekly", h.Habits.Weekly)
			user.GET("/profile", h.Profile.Get)
			user.POST("/rewards/buy", h.Catalog.BuyReward)
			user.GET("/rewards/purchases", h.Catalog.Purchases)
			user.POST("/avatars/select", h.Catalog.SelectAvatar)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminKey(cfg.AdminKey))
		{
			admin.POST("/daily-reset", h.Admin.DailyReset)
		}
	}

	return r
}
