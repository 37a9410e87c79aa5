package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"mcpdex/internal/db"
	"mcpdex/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// discordEndpoint x/oauth2 没有内置 Discord，端点手工声明
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

var oauthConfigs map[string]*oauth2.Config

// InitOAuth 初始化两个 OAuth 提供方的配置
func InitOAuth() {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	oauthConfigs = map[string]*oauth2.Config{
		"google": {
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  siteURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		"discord": {
			ClientID:     os.Getenv("DISCORD_CLIENT_ID"),
			ClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
			RedirectURL:  siteURL + "/auth/discord/callback",
			Scopes:       []string{"identify", "email"},
			Endpoint:     discordEndpoint,
		},
	}
}

// oauthProfile 两个提供方拉回来的用户信息的公共形态
type oauthProfile struct {
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// generateStateToken 生成随机 state token
func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// OAuthLogin 发起 OAuth 登录 (GET /auth/:provider/login)
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	provider := c.Param("provider")
	config, ok := oauthConfigs[provider]
	if !ok {
		JSONError(c, http.StatusNotFound, "unknown provider")
		return
	}

	state, err := generateStateToken()
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to generate state token")
		return
	}

	// 将 state 存储到 session 中，用于验证回调
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	url := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// OAuthCallback 处理 OAuth 回调 (GET /auth/:provider/callback)
// 验证 state，交换 token，拉取用户信息，查找或自动注册用户并写入会话
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	config, ok := oauthConfigs[provider]
	if !ok {
		JSONError(c, http.StatusNotFound, "unknown provider")
		return
	}

	session := sessions.Default(c)
	savedState := session.Get("oauth_state")

	if savedState == nil || c.Query("state") != savedState.(string) {
		JSONError(c, http.StatusBadRequest, "invalid state parameter")
		return
	}

	session.Delete("oauth_state")
	session.Save()

	code := c.Query("code")
	if code == "" {
		JSONError(c, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := config.Exchange(context.Background(), code)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to exchange token")
		return
	}

	var profile *oauthProfile
	switch provider {
	case "google":
		profile, err = fetchGoogleProfile(token.AccessToken)
	case "discord":
		profile, err = fetchDiscordProfile(token.AccessToken)
	}
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to fetch user info")
		return
	}

	user, err := h.findOrCreateOAuthUser(provider, profile)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to sign in")
		return
	}

	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// findOrCreateOAuthUser 按提供方 ID 或邮箱查找用户，不存在则自动注册
func (h *AuthHandler) findOrCreateOAuthUser(provider string, profile *oauthProfile) (*models.User, error) {
	idColumn := "google_id"
	if provider == "discord" {
		idColumn = "discord_id"
	}

	var user models.User
	err := db.DB.Where(idColumn+" = ?", profile.ProviderID).
		Or("email = ?", profile.Email).First(&user).Error
	if err == nil {
		// 老用户，补绑提供方 ID 和头像
		updates := map[string]interface{}{}
		if provider == "google" && user.GoogleID == "" {
			updates["google_id"] = profile.ProviderID
		}
		if provider == "discord" && user.DiscordID == "" {
			updates["discord_id"] = profile.ProviderID
		}
		if user.AvatarURL == "" && profile.AvatarURL != "" {
			updates["avatar_url"] = profile.AvatarURL
		}
		if len(updates) > 0 {
			db.DB.Model(&user).Updates(updates)
		}
		return &user, nil
	}

	// 新用户，自动注册
	username := profile.Name
	if username == "" {
		username = strings.Split(profile.Email, "@")[0]
	}

	user = models.User{
		Username:  username,
		Email:     profile.Email,
		Password:  "",
		AvatarURL: profile.AvatarURL,
	}
	if provider == "google" {
		user.GoogleID = profile.ProviderID
	} else {
		user.DiscordID = profile.ProviderID
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func fetchJSON(url, accessToken string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("userinfo request failed: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func fetchGoogleProfile(accessToken string) (*oauthProfile, error) {
	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		GivenName     string `json:"given_name"`
		Picture       string `json:"picture"`
	}
	if err := fetchJSON("https://www.googleapis.com/oauth2/v2/userinfo", accessToken, &info); err != nil {
		return nil, err
	}
	if !info.VerifiedEmail {
		return nil, fmt.Errorf("google email not verified")
	}

	name := info.GivenName
	if name == "" {
		name = info.Name
	}
	return &oauthProfile{
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       name,
		AvatarURL:  info.Picture,
	}, nil
}

func fetchDiscordProfile(accessToken string) (*oauthProfile, error) {
	var info struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
	if err := fetchJSON("https://discord.com/api/users/@me", accessToken, &info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("discord account has no email")
	}

	avatarURL := ""
	if info.Avatar != "" {
		avatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", info.ID, info.Avatar)
	}
	return &oauthProfile{
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       info.Username,
		AvatarURL:  avatarURL,
	}, nil
}
