package models

import (
	"time"
)

// 主机托管方式
const (
	HostingSelfHosted  = "self-hosted"
	HostingCloudHosted = "cloud-hosted"
)

// 成熟度
const (
	StatusOfficial  = "official"
	StatusCommunity = "community"
)

// 安装复杂度
const (
	SetupEasy     = "easy-setup"
	SetupFlexible = "flexible-config"
	SetupForDev   = "for-developers"
)

// 定价
const (
	PricingFree       = "free"
	PricingPaid       = "paid"
	PricingEnterprise = "enterprise"
)

// Listing MCP 服务器目录条目
type Listing struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Slug        string     `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	Platform    string     `gorm:"size:40;not null;default:'mcp';index" json:"platform"`
	Name        string     `gorm:"not null" json:"name"`
	Company     string     `json:"company"`
	Summary     string     `gorm:"size:300" json:"summary"`
	Description string     `gorm:"type:text" json:"description"`
	HostingType string     `gorm:"size:20;not null;index" json:"hosting_type"`
	Status      string     `gorm:"size:20;not null;default:'community'" json:"status"`
	SetupType   string     `gorm:"size:20;not null;index" json:"setup_type"`
	Pricing     string     `gorm:"size:20;not null;index" json:"pricing"`
	Categories  StringList `gorm:"type:text" json:"categories"`
	GithubURL   string     `gorm:"not null" json:"github_url"`
	LogoURL     *string    `json:"logo_url"`
	IsPromoted  bool       `gorm:"default:false;index" json:"is_promoted"`
	IsFeatured  bool       `gorm:"default:false" json:"is_featured"`
	Score       float64    `gorm:"default:0;index" json:"score"`
	LastUpdated time.Time  `gorm:"not null;index" json:"last_updated"`
	CreatedAt   time.Time  `json:"created_at"`

	// 非数据库字段，用于查询时填充
	Rating     int          `gorm:"-" json:"rating"`
	Features   []Feature    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"features,omitempty"`
	SetupGuide *SetupGuide  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"setup_guide,omitempty"`
}

// Feature 条目的功能亮点
type Feature struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ListingID   uint      `gorm:"not null;index" json:"listing_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetupGuide 条目的安装指引
type SetupGuide struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ListingID uint       `gorm:"not null;uniqueIndex" json:"listing_id"`
	Steps     StringList `gorm:"type:text" json:"steps"`
	Command   *string    `json:"command"`
	URL       *string    `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
}
