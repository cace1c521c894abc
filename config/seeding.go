package config

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tradedesk.ae/brokerage/models"
)

// SeedDefaults creates the records a fresh installation needs: the active
// year setting and an initial admin user. Safe to run repeatedly.
func SeedDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.AppSetting{}).Where("key = ?", models.SettingActiveYear).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := models.SetActiveYear(db, time.Now().Year()); err != nil {
			return err
		}
		log.Println("Seeded active year setting")
	}

	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			log.Println("ADMIN_PASSWORD not set, skipping admin user seed")
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			Name:         "Administrator",
			Email:        "admin@tradedesk.ae",
			PasswordHash: string(hash),
			Role:         "super_admin",
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Println("Seeded admin user")
	}
	return nil
}
