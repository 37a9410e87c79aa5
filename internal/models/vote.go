package models

import (
	"time"
)

// 投票类型，目前仅支持点赞
const (
	VoteTypeUp   = "up"
	VoteTypeDown = "down"
)

// Vote 投票记录，以访客 IP 作为去重键
// 约束：同一 (listing, ip) 在 24 小时窗口内最多一条有效记录
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index;uniqueIndex:idx_listing_ip" json:"listing_id"`
	IPAddress string    `gorm:"size:45;not null;uniqueIndex:idx_listing_ip" json:"ip_address"`
	VoteType  string    `gorm:"size:10;not null;default:'up'" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}
