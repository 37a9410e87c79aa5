package handlers

import (
	"fmt"
	"net/http"
	"time"

	"mcpdex/internal/db"
	"mcpdex/internal/models"
	"mcpdex/internal/utils"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct{}

func NewListingHandler() *ListingHandler {
	return &ListingHandler{}
}

// DefaultPageSize 无限滚动每页条数
const DefaultPageSize = 12

// fillRatings 批量填充条目的点赞数（目录里叫 rating）
func fillRatings(listings []models.Listing) {
	if len(listings) == 0 {
		return
	}

	listingIDs := make([]uint, len(listings))
	for i, l := range listings {
		listingIDs[i] = l.ID
	}

	type countResult struct {
		ListingID uint
		Count     int
	}
	var results []countResult
	db.DB.Model(&models.Vote{}).
		Select("listing_id, COUNT(*) as count").
		Where("listing_id IN ? AND vote_type = ?", listingIDs, models.VoteTypeUp).
		Group("listing_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.ListingID] = r.Count
	}

	for i := range listings {
		listings[i].Rating = countMap[listings[i].ID]
	}
}

type listQuery struct {
	Search       string
	HostingType  string
	SetupType    string
	Pricing      string
	Category     string
	PromotedOnly bool
	SortBy       string
	Ascending    bool
	Cursor       int
	Limit        int
}

func parseListQuery(c *gin.Context) listQuery {
	q := listQuery{
		Search:       c.Query("q"),
		HostingType:  c.Query("hosting_type"),
		SetupType:    c.Query("setup_type"),
		Pricing:      c.Query("pricing"),
		Category:     c.Query("category"),
		PromotedOnly: c.Query("promoted") == "true",
		SortBy:       c.DefaultQuery("sort", utils.SortWeighted),
		Ascending:    c.Query("direction") == "asc",
		Limit:        DefaultPageSize,
	}

	if cursor := utils.StringToInt(c.Query("cursor")); cursor > 0 {
		q.Cursor = cursor
	}
	if limit := utils.StringToInt(c.Query("limit")); limit > 0 && limit <= 50 {
		q.Limit = limit
	}

	switch q.SortBy {
	case utils.SortWeighted, utils.SortRating, utils.SortLastUpdated, utils.SortCreatedAt:
	default:
		q.SortBy = utils.SortWeighted
	}
	return q
}

func (q listQuery) cacheKey() string {
	return fmt.Sprintf("listings:%s:%s:%s:%s:%s:%t:%s:%t:%d:%d",
		q.Search, q.HostingType, q.SetupType, q.Pricing, q.Category,
		q.PromotedOnly, q.SortBy, q.Ascending, q.Cursor, q.Limit)
}

// List 目录分页查询 (GET /api/mcps)
// 支持文本搜索、结构化过滤、四种排序和 cursor 分页。
// cursor 为行偏移，取满一页时返回 next_cursor，否则为 null。
func (h *ListingHandler) List(c *gin.Context) {
	q := parseListQuery(c)

	cacheKey := q.cacheKey()
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	query := db.DB.Model(&models.Listing{}).
		Preload("Features").
		Preload("SetupGuide")

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"name ILIKE ? OR description ILIKE ? OR categories::text ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.HostingType != "" {
		query = query.Where("hosting_type = ?", q.HostingType)
	}
	if q.SetupType != "" {
		query = query.Where("setup_type = ?", q.SetupType)
	}
	if q.Pricing != "" {
		query = query.Where("pricing = ?", q.Pricing)
	}
	if q.Category != "" {
		query = query.Where("categories::text ILIKE ?", "%"+q.Category+"%")
	}
	if q.PromotedOnly {
		query = query.Where("is_promoted = ?", true)
	}

	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}

	// 并列时按 created_at/id 固定次序，分页结果可复现
	switch q.SortBy {
	case utils.SortLastUpdated:
		query = query.Order("last_updated " + dir).Order("created_at DESC, id DESC")
	case utils.SortCreatedAt:
		query = query.Order("created_at " + dir).Order("id DESC")
	case utils.SortRating:
		// 票数不在 listings 表里，取出本页后在内存中稳定排序
		query = query.Order("created_at DESC, id DESC")
	default: // weighted
		query = query.Order("is_promoted DESC, score DESC, created_at DESC, id DESC")
	}

	var listings []models.Listing
	if err := query.Limit(q.Limit).Offset(q.Cursor).Find(&listings).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load listings")
		return
	}

	fillRatings(listings)

	if q.SortBy == utils.SortRating {
		utils.SortListings(listings, utils.SortRating, q.Ascending)
	}

	var nextCursor *int
	if len(listings) == q.Limit {
		next := q.Cursor + q.Limit
		nextCursor = &next
	}

	data := gin.H{
		"mcps":        listings,
		"next_cursor": nextCursor,
	}

	// 热点页缓存 1 分钟
	utils.GetCache().Set(cacheKey, data, 1*time.Minute)

	c.JSON(http.StatusOK, data)
}

// Detail 条目详情 (GET /api/mcps/:platform/:slug)
// slug 优先匹配，纯数字时回退按 ID 查，兼容旧链接
func (h *ListingHandler) Detail(c *gin.Context) {
	platform := c.Param("platform")
	slug := c.Param("slug")

	var listing models.Listing
	err := db.DB.Preload("Features").Preload("SetupGuide").
		Where("platform = ? AND slug = ?", platform, slug).
		First(&listing).Error
	if err != nil {
		if id := utils.StringToUint(slug); id > 0 {
			err = db.DB.Preload("Features").Preload("SetupGuide").
				Where("platform = ? AND id = ?", platform, id).
				First(&listing).Error
		}
	}
	if err != nil {
		JSONError(c, http.StatusNotFound, "listing not found")
		return
	}

	var upvotes int64
	db.DB.Model(&models.Vote{}).
		Where("listing_id = ? AND vote_type = ?", listing.ID, models.VoteTypeUp).
		Count(&upvotes)
	listing.Rating = int(upvotes)

	c.JSON(http.StatusOK, gin.H{
		"mcp":              listing,
		"description_html": utils.RenderMarkdown(listing.Description),
	})
}

// Categories 全部分类标签及计数 (GET /api/categories)
func (h *ListingHandler) Categories(c *gin.Context) {
	const cacheKey = "listings:categories"
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	var listings []models.Listing
	if err := db.DB.Select("categories").Find(&listings).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load categories")
		return
	}

	counts := make(map[string]int)
	for _, l := range listings {
		for _, cat := range l.Categories {
			counts[cat]++
		}
	}

	data := gin.H{"categories": counts}
	utils.GetCache().Set(cacheKey, data, 5*time.Minute)
	c.JSON(http.StatusOK, data)
}
