package router

import (
	"mcpdex/internal/handlers"
	"mcpdex/internal/middleware"
	"mcpdex/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, storage *services.Storage) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	listingHandler := handlers.NewListingHandler()
	voteHandler := handlers.NewVoteHandler()
	reviewHandler := handlers.NewReviewHandler()
	submissionHandler := handlers.NewSubmissionHandler()
	reportHandler := handlers.NewReportHandler()
	adminHandler := handlers.NewAdminHandler()
	imageHandler := handlers.NewImageHandler(storage)

	// 上传文件静态托管（logos / thumbnails 两个桶）
	r.Static("/uploads", storage.Root())

	// 公共路由 (Public Routes)
	api := r.Group("/api")
	{
		api.GET("/mcps", listingHandler.List)                   // 目录分页查询
		api.GET("/mcps/:platform/:slug", listingHandler.Detail) // 条目详情
		api.GET("/categories", listingHandler.Categories)       // 分类标签及计数

		api.GET("/votes/:id", voteHandler.Stats)     // 条目投票统计
		api.POST("/votes/:id", voteHandler.Cast)     // 投票
		api.DELETE("/votes/:id", voteHandler.Remove) // 取消投票

		api.GET("/reviews", reviewHandler.List) // 条目评价列表（树形），?mcp_id=N
		api.GET("/ip", handlers.EchoIP)         // 公网 IP 回显

		api.POST("/submissions", submissionHandler.Create) // 公开提交新条目

		api.POST("/login", authHandler.Login)   // 本地账号登录（管理员用）
		api.POST("/logout", authHandler.Logout) // 退出登录
		api.GET("/me", authHandler.Me)          // 当前会话用户
	}

	// OAuth 路由
	r.GET("/auth/:provider/login", authHandler.OAuthLogin)
	r.GET("/auth/:provider/callback", authHandler.OAuthCallback)

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/reviews", reviewHandler.Create)              // 发表评价/回复
		authorized.POST("/reviews/:id/helpful", reviewHandler.Helpful) // 有帮助投票
		authorized.POST("/reports", reportHandler.Create)              // 举报
		authorized.POST("/upload", imageHandler.Upload)                // 图片上传
	}

	// 管理端路由 (Admin Routes)
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/pending", adminHandler.ListPending)           // 待审核提交列表
		admin.POST("/pending/:id/approve", adminHandler.Approve)  // 批准提交
		admin.POST("/pending/:id/reject", adminHandler.Reject)    // 驳回提交
		admin.GET("/reports", adminHandler.ListReports)           // 举报列表
		admin.POST("/mcps/:id/promote", adminHandler.SetPromoted) // 设置推广位
	}

	// 未匹配路径统一 404 JSON
	r.NoRoute(func(c *gin.Context) {
		handlers.JSONError(c, 404, "not found")
	})
}
