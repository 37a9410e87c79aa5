package services

import (
	"errors"
	"fmt"
	"time"

	"mcpdex/internal/db"
	"mcpdex/internal/models"
	"mcpdex/internal/utils"

	"gorm.io/gorm"
)

// VoteCooldown 同一 IP 对同一条目的投票冷却窗口
const VoteCooldown = 24 * time.Hour

var (
	// ErrDownvoteUnsupported 点踩是明确不支持的功能，不是 bug
	ErrDownvoteUnsupported = errors.New("downvoting is not supported")
	// ErrCooldownActive 冷却窗口未过，重复投票被拒绝
	ErrCooldownActive = errors.New("you can only vote once every 24 hours")
	// ErrListingNotFound 条目不存在
	ErrListingNotFound = errors.New("listing not found")
)

// VoteStats 单个条目的投票统计
// Downvotes 恒为 0，保留字段是为了前端展示结构稳定
type VoteStats struct {
	Upvotes   int     `json:"upvotes"`
	Downvotes int     `json:"downvotes"`
	Total     int     `json:"total"`
	UserVote  *string `json:"user_vote"`
}

// VoteAction 冷却判定的结果动作
type VoteAction int

const (
	VoteActionNone    VoteAction = iota // 无事可做（删除不存在的票）
	VoteActionInsert                    // 插入新票
	VoteActionRemove                    // 删除现有票（主动取消）
	VoteActionReplace                   // 冷却已过，删旧插新
)

// DecideVote 纯函数：根据现有投票记录和移除意图判定动作
// 状态机：NoVote -> Voted(up) 投票；Voted(up) -> NoVote 同类型再投且声明移除；
// 冷却期内非移除的再投被拒绝，状态不变。
func DecideVote(existing *models.Vote, now time.Time, remove bool) (VoteAction, error) {
	if existing == nil {
		if remove {
			return VoteActionNone, nil
		}
		return VoteActionInsert, nil
	}

	if remove {
		return VoteActionRemove, nil
	}

	if now.Sub(existing.CreatedAt) < VoteCooldown {
		return VoteActionNone, ErrCooldownActive
	}
	return VoteActionReplace, nil
}

func voteStatsCacheKey(listingID uint) string {
	return fmt.Sprintf("votes:stats:%d", listingID)
}

// GetVoteStats 统计条目的点赞数
// UserVote 始终为 nil：服务端只认 IP，访客身份由客户端本地缓存维护
func GetVoteStats(listingID uint) (VoteStats, error) {
	if cached := utils.GetCache().Get(voteStatsCacheKey(listingID)); cached != nil {
		if stats, ok := cached.(VoteStats); ok {
			return stats, nil
		}
	}

	var upvotes int64
	if err := db.DB.Model(&models.Vote{}).
		Where("listing_id = ? AND vote_type = ?", listingID, models.VoteTypeUp).
		Count(&upvotes).Error; err != nil {
		return VoteStats{}, err
	}

	stats := VoteStats{
		Upvotes:   int(upvotes),
		Downvotes: 0,
		Total:     int(upvotes),
	}
	utils.GetCache().Set(voteStatsCacheKey(listingID), stats, 1*time.Minute)
	return stats, nil
}

// CastVote 以 IP 为去重键投票或取消投票
// 冷却判定、删旧、插新在一个事务内完成
func CastVote(listingID uint, ip, voteType string, remove bool) (VoteStats, error) {
	if voteType != models.VoteTypeUp {
		return VoteStats{}, ErrDownvoteUnsupported
	}

	var listing models.Listing
	if err := db.DB.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VoteStats{}, ErrListingNotFound
		}
		return VoteStats{}, err
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		var existingPtr *models.Vote
		err := tx.Where("listing_id = ? AND ip_address = ?", listingID, ip).First(&existing).Error
		if err == nil {
			existingPtr = &existing
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		action, err := DecideVote(existingPtr, time.Now(), remove)
		if err != nil {
			return err
		}

		switch action {
		case VoteActionNone:
			return nil
		case VoteActionRemove, VoteActionReplace:
			if err := tx.Where("listing_id = ? AND ip_address = ?", listingID, ip).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if action == VoteActionRemove {
				return nil
			}
			fallthrough
		case VoteActionInsert:
			vote := models.Vote{
				ListingID: listingID,
				IPAddress: ip,
				VoteType:  voteType,
			}
			return tx.Create(&vote).Error
		}
		return nil
	})
	if err != nil {
		return VoteStats{}, err
	}

	// 投票变更后失效统计缓存并调度分数重算
	utils.GetCache().Delete(voteStatsCacheKey(listingID))
	GetRankingService().ScheduleUpdate(listingID)

	return GetVoteStats(listingID)
}
