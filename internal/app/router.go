package app

import (
	"boca_backend/docs"
	"boca_backend/internal/config"
	"boca_backend/internal/middleware"
	"boca_backend/internal/util"
	"boca_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// 查询接口无需登录
	contests := api.Group("/contests")
	{
		contests.GET("", c.contest.ListContests)
		contests.GET("/active", c.contest.ActiveContest)
		contests.GET("/:id", c.contest.GetContest)
	}

	// 修改接口仅管理员可用
	admin := api.Group("/contests")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(util.RoleAdmin))
	{
		admin.POST("", c.contest.CreateContest)
		admin.PUT("/:id", c.contest.UpdateContest)
		admin.PUT("/:id/activate", c.contest.ActivateContest)
		admin.DELETE("/:id", c.contest.DeleteContest)
	}
}
