package handlers

import (
	"net/http"
	"strings"

	"mcpdex/internal/db"
	"mcpdex/internal/models"
	"mcpdex/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

type reportRequest struct {
	ItemType string `json:"item_type"` // "listing" or "review"
	ItemID   uint   `json:"item_id"`
	Reason   string `json:"reason"`
}

// Create 举报条目或评价 (POST /api/reports)
// 需要登录，举报原因必填
func (h *ReportHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemType != "listing" && req.ItemType != "review" {
		JSONError(c, http.StatusBadRequest, "invalid item_type")
		return
	}

	// 被举报对象必须存在
	var err error
	if req.ItemType == "listing" {
		err = db.DB.First(&models.Listing{}, req.ItemID).Error
	} else {
		err = db.DB.First(&models.Review{}, req.ItemID).Error
	}
	if err != nil {
		JSONError(c, http.StatusNotFound, "reported item not found")
		return
	}

	reason := strings.TrimSpace(utils.SanitizeText(req.Reason))
	if reason == "" {
		JSONError(c, http.StatusBadRequest, "reason is required")
		return
	}

	report := models.Report{
		UserID:   user.ID,
		ItemType: req.ItemType,
		ItemID:   req.ItemID,
		Reason:   reason,
	}
	if err := db.DB.Create(&report).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to save report")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "report received"})
}
