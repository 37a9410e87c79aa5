package utils

import (
	"sort"
	"time"

	"mcpdex/internal/models"
)

type RankConfig struct {
	PromotedBoost float64 // 推广置顶权重 (1000)
	VoteWeight    float64 // 单票权重 (100)
	RecencyScale  float64 // 新鲜度上限 (10)
}

// 常量选取保证严格的优先级：推广 > 票数 > 新鲜度。
// 新鲜度项上限为 10（更新当天），随天数衰减趋向 0，
// 永远无法翻越 1 票的差距，更不可能翻越推广位。
var DefaultConfig = RankConfig{
	PromotedBoost: 1000.0,
	VoteWeight:    100.0,
	RecencyScale:  10.0,
}

// WeightedScoreAt 计算条目在 now 时刻的加权分数
// score = promoted*1000 + upvotes*100 + 10/(days_since_update+1)
func WeightedScoreAt(isPromoted bool, upvotes int, lastUpdated time.Time, now time.Time) float64 {
	days := int(now.Sub(lastUpdated).Hours() / 24)
	if days < 0 {
		days = 0
	}

	score := float64(upvotes) * DefaultConfig.VoteWeight
	if isPromoted {
		score += DefaultConfig.PromotedBoost
	}
	score += DefaultConfig.RecencyScale / (float64(days) + 1)
	return score
}

// WeightedScore 计算条目的当前加权分数
func WeightedScore(isPromoted bool, upvotes int, lastUpdated time.Time) float64 {
	return WeightedScoreAt(isPromoted, upvotes, lastUpdated, time.Now())
}

// 排序方式
const (
	SortWeighted    = "weighted"
	SortRating      = "rating"
	SortLastUpdated = "last_updated"
	SortCreatedAt   = "created_at"
)

// SortListings 按指定方式对条目做稳定排序
// 稳定排序保证同分条目保持输入顺序，结果可复现
func SortListings(listings []models.Listing, sortBy string, ascending bool) {
	now := time.Now()

	less := func(a, b models.Listing) bool {
		switch sortBy {
		case SortRating:
			return a.Rating < b.Rating
		case SortLastUpdated:
			return a.LastUpdated.Before(b.LastUpdated)
		case SortCreatedAt:
			return a.CreatedAt.Before(b.CreatedAt)
		default: // weighted
			sa := WeightedScoreAt(a.IsPromoted, a.Rating, a.LastUpdated, now)
			sb := WeightedScoreAt(b.IsPromoted, b.Rating, b.LastUpdated, now)
			return sa < sb
		}
	}

	sort.SliceStable(listings, func(i, j int) bool {
		if ascending {
			return less(listings[i], listings[j])
		}
		return less(listings[j], listings[i])
	})
}
