package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oresamakami/Asset/config"
	"github.com/oresamakami/Asset/internal/api/handler"
	"github.com/oresamakami/Asset/internal/api/middleware"
	"github.com/oresamakami/Asset/pkg/jwt"
	"github.com/oresamakami/Asset/pkg/redis"
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
	r.Use(middleware.BodyLimit(cfg.Server.MaxUploadBytes))

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
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 借出 / 归还操作（扫码画面）
			operations := authorized.Group("/operations")
			{
				operations.POST("/checkout", h.Operation.Checkout)
				operations.POST("/checkin", h.Operation.Checkin)
				operations.GET("/employees/:code", h.Operation.LookupEmployee)
				operations.GET("/assets/:qr_code_id", h.Operation.LookupAsset)
			}

			// 资产模块
			assets := authorized.Group("/assets")
			{
				assets.GET("", h.Asset.ListAssets)
				assets.GET("/assignments", h.Asset.ListAssignmentHistory)
				assets.GET("/export", h.Asset.ExportAssets)
				assets.GET("/import/template", h.Asset.DownloadAssetCSVTemplate)
				assets.POST("/import", middleware.RoleAuth("ADMIN"), h.Asset.ImportAssetCSV)
				assets.GET("/:id", h.Asset.GetAsset)
				assets.GET("/:id/qrcode", h.Asset.GetAssetQRCode)
				assets.POST("", middleware.RoleAuth("ADMIN"), h.Asset.CreateAsset)
				assets.PUT("/:id", middleware.RoleAuth("ADMIN"), h.Asset.UpdateAsset)
				assets.DELETE("/:id", middleware.RoleAuth("ADMIN"), h.Asset.DeleteAsset)
			}

			// 员工模块
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.ListEmployees)
				employees.GET("/import/template", h.Employee.DownloadEmployeeCSVTemplate)
				employees.POST("/import", middleware.RoleAuth("ADMIN"), h.Employee.ImportEmployeeCSV)
				employees.GET("/:id", h.Employee.GetEmployee)
				employees.GET("/:id/qrcode", h.Employee.GetEmployeeQRCode)
				employees.POST("", middleware.RoleAuth("ADMIN"), h.Employee.CreateEmployee)
				employees.PUT("/:id", middleware.RoleAuth("ADMIN"), h.Employee.UpdateEmployee)
				employees.DELETE("/:id", middleware.RoleAuth("ADMIN"), h.Employee.DeleteEmployee)
			}

			// 部门模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth("ADMIN"), h.Department.CreateDepartment)
				departments.PUT("/:id", middleware.RoleAuth("ADMIN"), h.Department.UpdateDepartment)
				departments.DELETE("/:id", middleware.RoleAuth("ADMIN"), h.Department.DeleteDepartment)
			}

			// 科室模块
			sections := authorized.Group("/sections")
			{
				sections.GET("", h.Section.ListSections)
				sections.GET("/:id", h.Section.GetSection)
				sections.POST("", middleware.RoleAuth("ADMIN"), h.Section.CreateSection)
				sections.PUT("/:id", middleware.RoleAuth("ADMIN"), h.Section.UpdateSection)
				sections.DELETE("/:id", middleware.RoleAuth("ADMIN"), h.Section.DeleteSection)
			}

			// 用户管理（仅管理员）
			users := authorized.Group("/users", middleware.RoleAuth("ADMIN"))
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.POST("", h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
