package models

import (
	"time"
)

// PendingFeature 待审核条目附带的功能亮点（审核通过后落入 features 表）
type PendingFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PendingListing 公开提交的待审核条目，管理员批准后复制进 listings
type PendingListing struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Company     string     `json:"company"`
	Summary     string     `gorm:"size:300" json:"summary"`
	Description string     `gorm:"type:text" json:"description"`
	HostingType string     `gorm:"size:20;not null" json:"hosting_type"`
	SetupType   string     `gorm:"size:20;not null" json:"setup_type"`
	Pricing     string     `gorm:"size:20;not null" json:"pricing"`
	Categories  StringList `gorm:"type:text" json:"categories"`
	GithubURL   string     `gorm:"not null" json:"github_url"`
	LogoURL     *string    `json:"logo_url"`
	Contact     string     `gorm:"size:200" json:"contact"` // 提交者联系方式（邮箱或 GitHub 用户名）

	// 随提交一并给出的功能亮点和安装指引，JSON 存储
	Features     string     `gorm:"type:text" json:"features"`
	GuideSteps   StringList `gorm:"type:text" json:"guide_steps"`
	GuideCommand *string    `json:"guide_command"`
	GuideURL     *string    `json:"guide_url"`

	SubmitterID *uint      `gorm:"index" json:"submitter_id"` // 登录用户提交时记录
	SubmittedAt time.Time  `gorm:"autoCreateTime;index" json:"submitted_at"`
	Reviewed    bool       `gorm:"default:false;index" json:"reviewed"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewNotes string     `gorm:"size:500" json:"review_notes"`
}
