package db

import (
	"log"
	"os"
	"time"

	"mcpdex/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=mcpdex port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Feature{},
		&models.SetupGuide{},
		&models.PendingListing{},
		&models.Vote{},
		&models.Review{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial listings
	seedListings()
}

func seedListings() {
	// 检查是否已有目录数据
	var count int64
	DB.Model(&models.Listing{}).Count(&count)
	if count > 0 {
		log.Println("Listings already seeded, skipping")
		return
	}

	now := time.Now()
	listings := []models.Listing{
		{
			Slug:        "filesystem",
			Platform:    "mcp",
			Name:        "Filesystem",
			Company:     "Anthropic",
			Summary:     "Secure file operations with configurable access controls",
			HostingType: models.HostingSelfHosted,
			Status:      models.StatusOfficial,
			SetupType:   models.SetupEasy,
			Pricing:     models.PricingFree,
			Categories:  models.StringList{"files", "developer-tools"},
			GithubURL:   "https://github.com/modelcontextprotocol/servers",
			LastUpdated: now,
		},
		{
			Slug:        "postgres",
			Platform:    "mcp",
			Name:        "PostgreSQL",
			Company:     "Anthropic",
			Summary:     "Read-only database access with schema inspection",
			HostingType: models.HostingSelfHosted,
			Status:      models.StatusOfficial,
			SetupType:   models.SetupFlexible,
			Pricing:     models.PricingFree,
			Categories:  models.StringList{"database", "developer-tools"},
			GithubURL:   "https://github.com/modelcontextprotocol/servers",
			LastUpdated: now,
		},
	}

	for _, listing := range listings {
		if err := DB.Create(&listing).Error; err != nil {
			log.Printf("Failed to create listing %s: %v", listing.Name, err)
		}
	}
	log.Println("Initial listings created successfully")
}
