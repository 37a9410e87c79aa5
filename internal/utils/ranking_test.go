package utils

import (
	"testing"
	"time"

	"mcpdex/internal/models"
)

func TestWeightedScoreAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	// 当天更新、无票、未推广：只剩新鲜度项 10/(0+1)
	score := WeightedScoreAt(false, 0, now, now)
	if score != 10.0 {
		t.Errorf("Expected 10.0, got %v", score)
	}

	// 3 天前更新：10/(3+1) = 2.5
	score = WeightedScoreAt(false, 0, now.Add(-3*24*time.Hour), now)
	if score != 2.5 {
		t.Errorf("Expected 2.5, got %v", score)
	}

	// 推广 + 同样 3 天前更新：1000 + 2.5
	score = WeightedScoreAt(true, 0, now.Add(-3*24*time.Hour), now)
	if score != 1002.5 {
		t.Errorf("Expected 1002.5, got %v", score)
	}

	// 5 票：500 + 10
	score = WeightedScoreAt(false, 5, now, now)
	if score != 510.0 {
		t.Errorf("Expected 510.0, got %v", score)
	}

	// 未来时间戳按 0 天处理，不产生负衰减
	score = WeightedScoreAt(false, 0, now.Add(48*time.Hour), now)
	if score != 10.0 {
		t.Errorf("Expected 10.0 for future timestamp, got %v", score)
	}
}

// 推广位必须压过任何现实票数差距：无票的推广条目 > 9 票的普通条目
func TestPromotionDominatesVotes(t *testing.T) {
	now := time.Now()
	promoted := WeightedScoreAt(true, 0, now.Add(-365*24*time.Hour), now)
	popular := WeightedScoreAt(false, 9, now, now)
	if promoted <= popular {
		t.Errorf("Promoted listing should outrank 9 votes: %v <= %v", promoted, popular)
	}
}

// 一票的差距永远无法被新鲜度追平
func TestVoteDominatesRecency(t *testing.T) {
	now := time.Now()
	oneVoteStale := WeightedScoreAt(false, 1, now.Add(-1000*24*time.Hour), now)
	zeroVoteFresh := WeightedScoreAt(false, 0, now, now)
	if oneVoteStale <= zeroVoteFresh {
		t.Errorf("One vote should outrank freshness: %v <= %v", oneVoteStale, zeroVoteFresh)
	}
}

func TestSortListingsStable(t *testing.T) {
	now := time.Now()
	listings := []models.Listing{
		{Name: "a", Rating: 3, LastUpdated: now, CreatedAt: now},
		{Name: "b", Rating: 3, LastUpdated: now, CreatedAt: now},
		{Name: "c", Rating: 5, LastUpdated: now, CreatedAt: now},
	}

	SortListings(listings, SortRating, false)

	if listings[0].Name != "c" {
		t.Errorf("Expected c first, got %s", listings[0].Name)
	}
	// 同分条目保持输入顺序
	if listings[1].Name != "a" || listings[2].Name != "b" {
		t.Errorf("Stable sort violated: got %s, %s", listings[1].Name, listings[2].Name)
	}
}

func TestSortListingsWeighted(t *testing.T) {
	now := time.Now()
	listings := []models.Listing{
		{Name: "popular", Rating: 9, LastUpdated: now, CreatedAt: now},
		{Name: "promoted", IsPromoted: true, Rating: 0, LastUpdated: now.Add(-30 * 24 * time.Hour), CreatedAt: now},
		{Name: "fresh", Rating: 0, LastUpdated: now, CreatedAt: now},
	}

	SortListings(listings, SortWeighted, false)

	if listings[0].Name != "promoted" {
		t.Errorf("Expected promoted first, got %s", listings[0].Name)
	}
	if listings[1].Name != "popular" {
		t.Errorf("Expected popular second, got %s", listings[1].Name)
	}

	// 升序时顺序反转
	SortListings(listings, SortWeighted, true)
	if listings[0].Name != "fresh" {
		t.Errorf("Expected fresh first ascending, got %s", listings[0].Name)
	}
}
