package main

import (
	"log"
	"os"

	"mcpdex/internal/db"
	"mcpdex/internal/handlers"
	"mcpdex/internal/middleware"
	"mcpdex/internal/router"
	"mcpdex/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// 确保管理员账号存在（由环境变量配置）
	handlers.EnsureAdminAccount()

	// OAuth 提供方配置
	handlers.InitOAuth()

	// 初始化异步排名服务并挂起每日全量刷新
	ranking := services.GetRankingService()
	ranking.StartScheduledScoreUpdate()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("mcpdex_session", store))

	// Middleware
	r.Use(middleware.LoadUser())

	// Routes
	storage := services.NewStorage()
	router.RegisterRoutes(r, storage)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("mcpdex server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
