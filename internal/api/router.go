package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/bikeshare-backend-go/internal/config"
	"github.com/jengzang/bikeshare-backend-go/internal/handler"
	"github.com/jengzang/bikeshare-backend-go/internal/middleware"
	"github.com/jengzang/bikeshare-backend-go/internal/observability"
	"github.com/jengzang/bikeshare-backend-go/internal/service"
)

// Deps 路由依赖
type Deps struct {
	Explore *service.ExploreService
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		info := deps.Explore.Dataset()
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"message":     "Bike rentals API is running",
			"rows":        info.Rows,
			"fingerprint": info.Fingerprint,
		})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	exploreHandler := handler.NewExploreHandler(deps.Explore)

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))
	{
		api.GET("/dataset", exploreHandler.GetDataset)

		// 筛选
		api.GET("/filters/options", exploreHandler.GetFilterOptions)
		api.GET("/summary", exploreHandler.GetSummary)
		api.GET("/rows", exploreHandler.GetRows)
		api.GET("/correlations", exploreHandler.GetCorrelations)

		// 图表
		charts := api.Group("/charts")
		{
			charts.GET("/:name", exploreHandler.GetChart)
			charts.GET("/:name/png", exploreHandler.GetChartPNG)
		}
	}

	return r
}
