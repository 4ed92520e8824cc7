package api

import (
	"context"
	"net/http"
	"time"

	"onlypans/internal/api/handlers/accounts"
	"onlypans/internal/api/handlers/catalog"
	"onlypans/internal/api/handlers/health"
	recipesHandler "onlypans/internal/api/handlers/recipes"
	"onlypans/internal/api/middleware"
	"onlypans/internal/core/account"
	"onlypans/internal/core/cache"
	"onlypans/internal/core/engage"
	"onlypans/internal/core/notify"
	"onlypans/internal/core/recipe"
	"onlypans/internal/core/recommend"
	"onlypans/internal/infrastructure/config"
	"onlypans/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (5MB)
	maxBodySize = 5 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, db *gorm.DB, store cache.Store, notifier *notify.Notifier) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// 初始化服務
	accountSvc := account.NewService(db)
	recipeSvc := recipe.NewService(db)
	engageSvc := engage.NewService(db)
	recommendSvc := recommend.NewService(recipeSvc, store)

	common.LogInfo("Services initialized",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("mail_enabled", cfg.Mail.Enabled),
		zap.Int("recommend_default_limit", cfg.Recommend.DefaultLimit),
	)

	// 身分解析與請求超時
	router.Use(middleware.Identity(accountSvc))
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck(cfg, store, notifier))
	router.GET("/ready", health.ReadinessCheck(db))
	router.GET("/live", health.LivenessCheck)

	recipesH := recipesHandler.NewHandler(recipeSvc, engageSvc, recommendSvc, notifier, cfg)
	catalogH := catalog.NewHandler(db)
	accountsH := accounts.NewHandler(accountSvc, recipeSvc, recommendSvc, notifier, cfg)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipesGroup := api.Group("/recipes")
		{
			recipesGroup.GET("", recipesH.List)
			recipesGroup.POST("", middleware.RequireUser(), recipesH.Create)
			recipesGroup.GET("/:slug", recipesH.Detail)
			recipesGroup.PUT("/:slug", middleware.RequireUser(), recipesH.Update)
			recipesGroup.DELETE("/:slug", middleware.RequireUser(), recipesH.Delete)

			recipesGroup.POST("/:slug/like", middleware.RequireUser(), recipesH.ToggleLike)
			recipesGroup.GET("/:slug/comments", recipesH.ListComments)
			recipesGroup.POST("/:slug/comments", middleware.RequireUser(), recipesH.AddComment)
			recipesGroup.POST("/:slug/rating", middleware.RequireUser(), recipesH.Rate)
			recipesGroup.GET("/:slug/nutrition", recipesH.Nutrition)
		}

		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("/tags", catalogH.ListTags)
			catalogGroup.GET("/ingredients", catalogH.ListIngredients)
			catalogGroup.GET("/units", catalogH.ListUnits)
		}

		api.GET("/profiles/:username", accountsH.GetProfile)
		api.GET("/profiles/:username/followers", accountsH.ListFollowers)
		api.GET("/profiles/:username/following", accountsH.ListFollowing)
		api.POST("/profiles/:username/follow", middleware.RequireUser(), accountsH.ToggleFollow)

		meGroup := api.Group("/me", middleware.RequireUser())
		{
			meGroup.GET("", accountsH.GetMyProfile)
			meGroup.PUT("/preferences", accountsH.UpdatePreferences)
			meGroup.GET("/likes", accountsH.ListLiked)
			meGroup.GET("/recommendations", accountsH.Recommendations)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
