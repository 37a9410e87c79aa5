package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"mcpdex/internal/db"
	"mcpdex/internal/models"
	"mcpdex/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 本地账号登录 (POST /api/login)
// 普通访客走 OAuth；这条路径主要给管理员账号用
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error; err != nil {
		JSONError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if user.Password == "" || !utils.CheckPassword(req.Password, user.Password) {
		JSONError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout 退出登录 (POST /api/logout)
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me 当前会话用户 (GET /api/me)
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		JSONError(c, http.StatusUnauthorized, "not logged in")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// EnsureAdminAccount 根据环境变量确保管理员账号存在
// 幂等：已存在则只校正角色
func EnsureAdminAccount() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err == nil {
		if user.Role != "admin" {
			db.DB.Model(&user).UpdateColumn("role", "admin")
		}
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Username: strings.Split(email, "@")[0],
		Email:    email,
		Password: hash,
		Role:     "admin",
	}
	if err := db.DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create admin account: %v", err)
		return
	}
	log.Printf("admin account %s created", email)
}
