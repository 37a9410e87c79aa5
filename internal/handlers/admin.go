package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"mcpdex/internal/db"
	"mcpdex/internal/models"
	"mcpdex/internal/services"
	"mcpdex/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// ListPending 待审核提交列表 (GET /api/admin/pending)
func (h *AdminHandler) ListPending(c *gin.Context) {
	query := db.DB.Model(&models.PendingListing{}).Order("submitted_at DESC")
	if c.Query("all") != "true" {
		query = query.Where("reviewed = ?", false)
	}

	var pending []models.PendingListing
	if err := query.Find(&pending).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load pending submissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

// Approve 批准提交 (POST /api/admin/pending/:id/approve)
// 事务内完成：建目录条目（社区身份）、落功能亮点和安装指引、标记已审核。
// slug 由名称生成，冲突时追加随机后缀重试。
func (h *AdminHandler) Approve(c *gin.Context) {
	pendingID := utils.StringToUint(c.Param("id"))

	var pending models.PendingListing
	if err := db.DB.First(&pending, pendingID).Error; err != nil {
		JSONError(c, http.StatusNotFound, "submission not found")
		return
	}
	if pending.Reviewed {
		JSONError(c, http.StatusConflict, "submission already reviewed")
		return
	}

	var listing models.Listing
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		slug := utils.Slugify(pending.Name)
		if slug == "" {
			slug = utils.SlugWithSuffix("mcp")
		}

		var clash models.Listing
		if err := tx.Where("slug = ?", slug).First(&clash).Error; err == nil {
			slug = utils.SlugWithSuffix(slug)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		listing = models.Listing{
			Slug:        slug,
			Platform:    "mcp",
			Name:        pending.Name,
			Company:     pending.Company,
			Summary:     pending.Summary,
			Description: pending.Description,
			HostingType: pending.HostingType,
			Status:      models.StatusCommunity,
			SetupType:   pending.SetupType,
			Pricing:     pending.Pricing,
			Categories:  pending.Categories,
			GithubURL:   pending.GithubURL,
			LogoURL:     pending.LogoURL,
			LastUpdated: now,
		}
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}

		var features []models.PendingFeature
		if pending.Features != "" {
			_ = json.Unmarshal([]byte(pending.Features), &features)
		}
		for _, f := range features {
			feature := models.Feature{
				ListingID:   listing.ID,
				Title:       f.Title,
				Description: f.Description,
			}
			if err := tx.Create(&feature).Error; err != nil {
				return err
			}
		}

		if len(pending.GuideSteps) > 0 {
			guide := models.SetupGuide{
				ListingID: listing.ID,
				Steps:     pending.GuideSteps,
				Command:   pending.GuideCommand,
				URL:       pending.GuideURL,
			}
			if err := tx.Create(&guide).Error; err != nil {
				return err
			}
		}

		reviewedAt := time.Now()
		return tx.Model(&pending).Updates(map[string]interface{}{
			"reviewed":     true,
			"reviewed_at":  reviewedAt,
			"review_notes": "Approved and published",
		}).Error
	})
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to approve submission")
		return
	}

	// 新条目立即可见：清目录缓存并同步算一次分数
	utils.GetCache().Purge()
	services.UpdateListingScoreSync(listing.ID)

	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject 驳回提交 (POST /api/admin/pending/:id/reject)
func (h *AdminHandler) Reject(c *gin.Context) {
	pendingID := utils.StringToUint(c.Param("id"))

	var pending models.PendingListing
	if err := db.DB.First(&pending, pendingID).Error; err != nil {
		JSONError(c, http.StatusNotFound, "submission not found")
		return
	}
	if pending.Reviewed {
		JSONError(c, http.StatusConflict, "submission already reviewed")
		return
	}

	var req rejectRequest
	_ = c.ShouldBindJSON(&req)
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Rejected"
	}

	reviewedAt := time.Now()
	if err := db.DB.Model(&pending).Updates(map[string]interface{}{
		"reviewed":     true,
		"reviewed_at":  reviewedAt,
		"review_notes": reason,
	}).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to reject submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "submission rejected"})
}

// ListReports 举报列表 (GET /api/admin/reports)
func (h *AdminHandler) ListReports(c *gin.Context) {
	var reports []models.Report
	if err := db.DB.Preload("User").Order("created_at DESC").Limit(200).Find(&reports).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// SetPromoted 设置推广位 (POST /api/admin/mcps/:id/promote)
func (h *AdminHandler) SetPromoted(c *gin.Context) {
	listingID := utils.StringToUint(c.Param("id"))

	var req struct {
		Promoted bool `json:"promoted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var listing models.Listing
	if err := db.DB.First(&listing, listingID).Error; err != nil {
		JSONError(c, http.StatusNotFound, "listing not found")
		return
	}

	if err := db.DB.Model(&listing).UpdateColumn("is_promoted", req.Promoted).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to update listing")
		return
	}

	utils.GetCache().Purge()
	services.UpdateListingScoreSync(listingID)

	c.JSON(http.StatusOK, gin.H{"message": "listing updated"})
}
