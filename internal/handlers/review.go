package handlers

import (
	"errors"
	"net/http"
	"strings"

	"mcpdex/internal/db"
	"mcpdex/internal/models"
	"mcpdex/internal/services"
	"mcpdex/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewHandler struct{}

func NewReviewHandler() *ReviewHandler {
	return &ReviewHandler{}
}

// List 条目的评价列表 (GET /api/reviews?mcp_id=N)
// 平铺记录按时间倒序取出后组装成回复树，并附带评分汇总
func (h *ReviewHandler) List(c *gin.Context) {
	listingID := utils.StringToUint(c.Query("mcp_id"))
	if listingID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	var reviews []models.Review
	if err := db.DB.Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	stats, err := services.GetReviewStats(listingID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load review stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": services.OrganizeThreads(reviews),
		"stats":   stats,
	})
}

type createReviewRequest struct {
	ListingID uint     `json:"listing_id"`
	Rating    int      `json:"rating"`
	Body      string   `json:"body"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`
	UseCase   string   `json:"use_case"`
	ParentID  *uint    `json:"parent_id"`
}

// Create 发表评价或回复 (POST /api/reviews)
// 需要登录；作者名和头像在发表时快照，之后不随资料变更。
// 回复深度不设数据层上限，展示层自行按 depth 截断回复入口。
func (h *ReviewHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	listingID := req.ListingID
	if listingID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	var listing models.Listing
	if err := db.DB.First(&listing, listingID).Error; err != nil {
		JSONError(c, http.StatusNotFound, "listing not found")
		return
	}

	body := strings.TrimSpace(utils.SanitizeText(req.Body))
	if body == "" {
		JSONError(c, http.StatusBadRequest, "review body is required")
		return
	}

	isReply := req.ParentID != nil
	if !isReply && (req.Rating < 1 || req.Rating > 5) {
		JSONError(c, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	if isReply {
		// 父评价必须存在且属于同一条目
		var parent models.Review
		if err := db.DB.First(&parent, *req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				JSONError(c, http.StatusBadRequest, "parent review not found")
				return
			}
			JSONError(c, http.StatusInternalServerError, "failed to check parent review")
			return
		}
		if parent.ListingID != listingID {
			JSONError(c, http.StatusBadRequest, "parent review belongs to another listing")
			return
		}
	}

	pros := make(models.StringList, 0, len(req.Pros))
	for _, p := range req.Pros {
		if s := strings.TrimSpace(utils.SanitizeText(p)); s != "" {
			pros = append(pros, s)
		}
	}
	cons := make(models.StringList, 0, len(req.Cons))
	for _, p := range req.Cons {
		if s := strings.TrimSpace(utils.SanitizeText(p)); s != "" {
			cons = append(cons, s)
		}
	}

	review := models.Review{
		ListingID:    listingID,
		UserID:       user.ID,
		ParentID:     req.ParentID,
		Rating:       req.Rating,
		Body:         body,
		Pros:         pros,
		Cons:         cons,
		UseCase:      strings.TrimSpace(utils.SanitizeText(req.UseCase)),
		AuthorName:   user.Username,
		AuthorAvatar: user.AvatarURL,
	}
	if isReply {
		review.Rating = 0 // 回复不计分
	}

	if err := db.DB.Create(&review).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to create review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

type helpfulRequest struct {
	Helpful bool `json:"helpful"`
}

// Helpful 标记评价是否有帮助 (POST /api/reviews/:id/helpful)
func (h *ReviewHandler) Helpful(c *gin.Context) {
	reviewID := utils.StringToUint(c.Param("id"))
	if reviewID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid review id")
		return
	}

	var req helpfulRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	delta := 1
	if !req.Helpful {
		delta = -1
	}

	var review models.Review
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, reviewID).Error; err != nil {
			return err
		}
		return tx.Model(&review).
			UpdateColumn("helpful_votes", gorm.Expr("helpful_votes + ?", delta)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			JSONError(c, http.StatusNotFound, "review not found")
			return
		}
		JSONError(c, http.StatusInternalServerError, "failed to update review")
		return
	}

	db.DB.First(&review, reviewID)
	c.JSON(http.StatusOK, review)
}
