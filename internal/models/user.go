package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"not null" json:"username"` // Username can be modified
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // Hash, empty for OAuth-only accounts
	AvatarURL string    `json:"avatar_url"`
	Role      string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	GoogleID  string    `gorm:"index" json:"-"`                              // Google OAuth ID
	DiscordID string    `gorm:"index" json:"-"`                              // Discord OAuth ID
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// No DeletedAt for hard delete
}

// IsAdmin 判断是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
