package main

import (
	"fmt"
	"time"

	"emoticon-hub/pkg/config"
	"emoticon-hub/pkg/database"
	"emoticon-hub/pkg/logger"
	"emoticon-hub/services/pack/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testAccounts := []struct {
		email    string
		username string
		password string
		role     string
	}{
		{"alice@test.com", "alice_draws", "password123", "creator"},
		{"bob@test.com", "bob_draws", "password123", "creator"},
		{"mod@test.com", "pack_moderator", "password123", "moderator"},
	}

	accountIDs := make([]string, 0, len(testAccounts))
	for _, acc := range testAccounts {
		var existing model.AccountModel
		err := db.Where("email = ?", acc.email).First(&existing).Error
		if err == nil {
			log.Info("Account %s already exists, skipping", acc.email)
			accountIDs = append(accountIDs, existing.ID)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		now := time.Now()
		account := model.AccountModel{
			ID:        uuid.New().String(),
			Email:     acc.email,
			Username:  acc.username,
			Password:  string(hashed),
			Role:      acc.role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.Create(&account).Error; err != nil {
			return err
		}

		log.Info("Created account %s (%s)", acc.username, acc.role)
		accountIDs = append(accountIDs, account.ID)
	}

	return seedDemoPack(db, log, accountIDs[0])
}

// seedDemoPack inserts one approved pack so the catalog is browsable right
// after a fresh deploy.
func seedDemoPack(db *gorm.DB, log *logger.Logger, accountID string) error {
	var existing model.PackModel
	err := db.Where("title = ?", "Welcome Cats").First(&existing).Error
	if err == nil {
		log.Info("Demo pack already exists, skipping")
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	now := time.Now()
	pack := model.PackModel{
		ID:           uuid.New().String(),
		Title:        "Welcome Cats",
		AccountID:    accountID,
		Price:        0,
		IsPublic:     true,
		Category:     "CUTE",
		ThumbnailImg: "https://cdn.emoticon-hub.dev/seed/welcome-cats/thumbnail.png",
		ListImg:      "https://cdn.emoticon-hub.dev/seed/welcome-cats/list.png",
		Description:  "A starter pack of friendly cats.",
		ExamineState: "APPROVED",
		ShareLink:    "public",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pack).Error; err != nil {
			return err
		}

		for i := 0; i < 4; i++ {
			emoticon := model.EmoticonModel{
				ID:        uuid.New().String(),
				PackID:    pack.ID,
				ImageURL:  fmt.Sprintf("https://cdn.emoticon-hub.dev/seed/welcome-cats/cat-%d.png", i+1),
				Order:     i,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&emoticon).Error; err != nil {
				return err
			}
		}

		log.Info("Created demo pack %q with 4 emoticons", pack.Title)
		return nil
	})
}
