package models

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppSetting is a generic key/value store. The only operationally
// meaningful row is the active fiscal year.
type AppSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

const SettingActiveYear = "active_year"

// ActiveYear returns the stored active year, falling back to the current
// calendar year when the setting is missing or unparseable. It never errors:
// year scoping has to work before anyone has touched the settings screen.
func ActiveYear(db *gorm.DB) int {
	var setting AppSetting
	err := db.Where("key = ?", SettingActiveYear).First(&setting).Error
	if err != nil {
		return time.Now().Year()
	}
	year, convErr := strconv.Atoi(setting.Value)
	if convErr != nil {
		return time.Now().Year()
	}
	return year
}

// SetActiveYear upserts the active year setting by key.
func SetActiveYear(db *gorm.DB, year int) error {
	if year < 2000 || year > 2100 {
		return &ValidationError{Field: "year", Reason: "out of range"}
	}
	setting := AppSetting{Key: SettingActiveYear, Value: strconv.Itoa(year)}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// Setting reads an arbitrary key, returning ok=false when absent.
func Setting(db *gorm.DB, key string) (string, bool) {
	var setting AppSetting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false
		}
		return "", false
	}
	return setting.Value, true
}
