package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"mcpdex/internal/db"
	"mcpdex/internal/models"
	"mcpdex/internal/utils"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct{}

func NewSubmissionHandler() *SubmissionHandler {
	return &SubmissionHandler{}
}

type submitRequest struct {
	Name         string                  `json:"name"`
	Company      string                  `json:"company"`
	Summary      string                  `json:"summary"`
	Description  string                  `json:"description"`
	HostingType  string                  `json:"hosting_type"`
	SetupType    string                  `json:"setup_type"`
	Pricing      string                  `json:"pricing"`
	Categories   []string                `json:"categories"`
	GithubURL    string                  `json:"github_url"`
	LogoURL      *string                 `json:"logo_url"`
	Contact      string                  `json:"contact"`
	Features     []models.PendingFeature `json:"features"`
	GuideSteps   []string                `json:"guide_steps"`
	GuideCommand *string                 `json:"guide_command"`
	GuideURL     *string                 `json:"guide_url"`
}

func validHostingType(s string) bool {
	return s == models.HostingSelfHosted || s == models.HostingCloudHosted
}

func validSetupType(s string) bool {
	return s == models.SetupEasy || s == models.SetupFlexible || s == models.SetupForDev
}

func validPricing(s string) bool {
	return s == models.PricingFree || s == models.PricingPaid || s == models.PricingEnterprise
}

// Create 公开提交新条目 (POST /api/submissions)
// 不要求登录；提交进入待审核表，管理员批准后才会出现在目录里
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(utils.SanitizeText(req.Name))
	if name == "" {
		JSONError(c, http.StatusBadRequest, "name is required")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		JSONError(c, http.StatusBadRequest, "description is required")
		return
	}
	if u, err := url.Parse(req.GithubURL); err != nil || u.Scheme == "" || u.Host == "" {
		JSONError(c, http.StatusBadRequest, "a valid repository URL is required")
		return
	}
	if !validHostingType(req.HostingType) {
		JSONError(c, http.StatusBadRequest, "invalid hosting_type")
		return
	}
	if !validSetupType(req.SetupType) {
		JSONError(c, http.StatusBadRequest, "invalid setup_type")
		return
	}
	if !validPricing(req.Pricing) {
		JSONError(c, http.StatusBadRequest, "invalid pricing")
		return
	}

	categories := make(models.StringList, 0, len(req.Categories))
	for _, cat := range req.Categories {
		if s := strings.TrimSpace(utils.SanitizeText(cat)); s != "" {
			categories = append(categories, strings.ToLower(s))
		}
	}

	featuresJSON := "[]"
	if len(req.Features) > 0 {
		if b, err := json.Marshal(req.Features); err == nil {
			featuresJSON = string(b)
		}
	}

	pending := models.PendingListing{
		Name:         name,
		Company:      strings.TrimSpace(utils.SanitizeText(req.Company)),
		Summary:      strings.TrimSpace(utils.SanitizeText(req.Summary)),
		Description:  req.Description,
		HostingType:  req.HostingType,
		SetupType:    req.SetupType,
		Pricing:      req.Pricing,
		Categories:   categories,
		GithubURL:    req.GithubURL,
		LogoURL:      req.LogoURL,
		Contact:      strings.TrimSpace(utils.SanitizeText(req.Contact)),
		Features:     featuresJSON,
		GuideSteps:   models.StringList(req.GuideSteps),
		GuideCommand: req.GuideCommand,
		GuideURL:     req.GuideURL,
	}

	if user := CurrentUser(c); user != nil {
		pending.SubmitterID = &user.ID
	}

	if err := db.DB.Create(&pending).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to save submission")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      pending.ID,
		"message": "submission received, pending review",
	})
}
