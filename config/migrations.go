package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"tradedesk.ae/brokerage/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250812_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.User{},
					&models.Quotation{},
					&models.Order{},
					&models.StatusLog{},
					&models.AppSetting{},
				)
			},
		},
		{
			ID: "20250819_index_insured_names",
			Migrate: func(tx *gorm.DB) error {
				// Cross-department analytics joins by insured name.
				if err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_quotations_insured_year ON quotations(insured_name, year)").Error; err != nil {
					return err
				}
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_orders_insured_year ON orders(insured_name, year)").Error
			},
		},
	})
	return m.Migrate()
}
