package models

import (
	"time"
)

// Review 用户评价，支持嵌套回复（自引用 ParentID）
// 数据层允许任意嵌套深度，展示层超过 3 层后不再提供回复入口
type Review struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ListingID    uint       `gorm:"not null;index" json:"listing_id"`
	Listing      Listing    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID     *uint      `gorm:"index" json:"parent_id"` // Nullable for top-level reviews
	Rating       int        `gorm:"not null;default:0" json:"rating"`
	Body         string     `gorm:"type:text;not null" json:"body"`
	Pros         StringList `gorm:"type:text" json:"pros"`
	Cons         StringList `gorm:"type:text" json:"cons"`
	UseCase      string     `gorm:"size:200" json:"use_case"`
	HelpfulVotes int        `gorm:"default:0" json:"helpful_votes"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified_user"`
	// 作者快照，发布时从用户资料复制，之后不随资料变更
	AuthorName   string    `gorm:"size:100" json:"author_name"`
	AuthorAvatar string    `json:"author_avatar"`
	CreatedAt    time.Time `json:"created_at"`
}
