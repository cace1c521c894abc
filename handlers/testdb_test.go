package handlers

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tradedesk.ae/brokerage/config"
	"tradedesk.ae/brokerage/models"
)

var testDBSeq atomic.Int64

// newTestDB opens an in-memory database, runs the schema, and swaps it in
// as the global connection for the duration of the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Quotation{}, &models.Order{}, &models.StatusLog{}, &models.AppSetting{},
	))

	previous := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = previous
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func ptr[T any](v T) *T { return &v }

func seedQuotation(t *testing.T, db *gorm.DB, dept models.Department, broker, insured string, status models.QuotationStatus, premium string, currency models.Currency, date time.Time) *models.Quotation {
	t.Helper()
	jt := models.JSONTime(date)
	q, err := models.NewLifecycleService(db).CreateQuotation(dept, models.QuotationInput{
		BrokerName:       ptr(broker),
		InsuredName:      ptr(insured),
		ProductType:      ptr(dept.ProductTypes()[0]),
		EstimatedPremium: ptr(premium),
		Currency:         ptr(currency),
		QuotationDate:    &jt,
		Status:           ptr(status),
	}, uuid.New())
	require.NoError(t, err)
	return q
}

func seedOrder(t *testing.T, db *gorm.DB, dept models.Department, broker, insured, businessType, premium string, currency models.Currency, date time.Time) *models.Order {
	t.Helper()
	jt := models.JSONTime(date)
	o, err := models.NewLifecycleService(db).CreateOrder(dept, models.OrderInput{
		BrokerName:   ptr(broker),
		InsuredName:  ptr(insured),
		ProductType:  ptr(dept.ProductTypes()[0]),
		BusinessType: ptr(businessType),
		Premium:      ptr(premium),
		Currency:     ptr(currency),
		OrderDate:    &jt,
	}, uuid.New())
	require.NoError(t, err)
	return o
}
