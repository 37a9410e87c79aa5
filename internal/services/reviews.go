package services

import (
	"mcpdex/internal/db"
	"mcpdex/internal/models"
)

// MaxReplyDepth 展示层允许继续回复的最大嵌套深度
// 超过此深度的回复仍然入库并挂到树上，只是前端不再提供回复入口
const MaxReplyDepth = 3

// ThreadedReview 带回复列表的评价节点
type ThreadedReview struct {
	models.Review
	Depth    int               `json:"depth"`
	CanReply bool              `json:"can_reply"`
	Replies  []*ThreadedReview `json:"replies"`

	parent *ThreadedReview
}

// OrganizeThreads 把平铺的评价列表重组成嵌套回复树
// 先建映射再连边，不依赖输入顺序（父节点晚于子节点出现也能挂上）。
// 父节点不在当前集合中的评价静默降级为顶层；自引用和环形父链
// 同样降级，评价不可能是自己的祖先。
func OrganizeThreads(reviews []models.Review) []*ThreadedReview {
	nodes := make(map[uint]*ThreadedReview, len(reviews))
	for _, r := range reviews {
		nodes[r.ID] = &ThreadedReview{Review: r, Replies: []*ThreadedReview{}}
	}

	var topLevel []*ThreadedReview
	for _, r := range reviews {
		node := nodes[r.ID]
		if r.ParentID == nil {
			topLevel = append(topLevel, node)
			continue
		}

		parent, ok := nodes[*r.ParentID]
		if !ok || parent == node || createsCycle(parent, node) {
			topLevel = append(topLevel, node)
			continue
		}

		node.parent = parent
		parent.Replies = append(parent.Replies, node)
	}

	for _, root := range topLevel {
		fillDepth(root, 1)
	}
	return topLevel
}

// createsCycle 检查把 child 挂到 parent 下是否会形成环
// 沿 parent 的祖先链上溯，遇到 child 即为环
func createsCycle(parent, child *ThreadedReview) bool {
	for p := parent; p != nil; p = p.parent {
		if p == child {
			return true
		}
	}
	return false
}

func fillDepth(node *ThreadedReview, depth int) {
	node.Depth = depth
	node.CanReply = depth < MaxReplyDepth
	for _, reply := range node.Replies {
		fillDepth(reply, depth+1)
	}
}

// ReviewStats 条目的评价汇总
type ReviewStats struct {
	TotalReviews       int         `json:"total_reviews"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// GetReviewStats 汇总条目的评分分布和平均分
func GetReviewStats(listingID uint) (ReviewStats, error) {
	var ratings []int
	if err := db.DB.Model(&models.Review{}).
		Where("listing_id = ?", listingID).
		Pluck("rating", &ratings).Error; err != nil {
		return ReviewStats{}, err
	}

	stats := ReviewStats{
		RatingDistribution: make(map[int]int),
	}
	sum := 0
	for _, r := range ratings {
		sum += r
		stats.RatingDistribution[r]++
	}
	stats.TotalReviews = len(ratings)
	if len(ratings) > 0 {
		stats.AverageRating = float64(sum) / float64(len(ratings))
	}
	return stats, nil
}
