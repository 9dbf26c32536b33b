package routers

import (
	"time"

	"github.com/haierkeys/resource-usage-service/internal/app"
	"github.com/haierkeys/resource-usage-service/internal/middleware"
	"github.com/haierkeys/resource-usage-service/internal/routers/api_router"
	"github.com/haierkeys/resource-usage-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/resources",
		FillInterval: time.Second,
		Capacity:     200,
		Quantum:      200,
	},
)

func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.SessionWithConfig(cfg.Usage.SessionCookieDomain))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		usageHandler := api_router.NewUsageHandler(appContainer)
		popularHandler := api_router.NewPopularHandler(appContainer)
		catalogHandler := api_router.NewCatalogHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		// 事件记录
		api.POST("/resources/:id/view", usageHandler.View)
		api.POST("/resources/:id/share", usageHandler.Share)
		api.POST("/resources/:id/download", usageHandler.Download)
		api.GET("/resources/:id/usage", usageHandler.Usage)

		// 热门排行
		api.GET("/resources/popular", popularHandler.Popular)

		// 资源目录
		api.GET("/resources", catalogHandler.List)
		api.POST("/resources", catalogHandler.Upsert)
		api.GET("/resources/:id", catalogHandler.Get)

		// 系统接口
		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
