package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk.ae/brokerage/models"
)

func TestBrokers_HitRatioBoundaries(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	// Two quotations, both confirmed: 100.00.
	seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Insured A", models.QuotationConfirmed, "1000", models.CurrencyAED, now)
	seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Insured B", models.QuotationConfirmed, "2000", models.CurrencyAED, now)
	// One open quotation, nothing confirmed: 0.00.
	seedQuotation(t, db, models.DeptMarine, "Beta Brokers", "Insured C", models.QuotationOpen, "500", models.CurrencyAED, now)
	// Three quotations, one confirmed: 33.33.
	seedQuotation(t, db, models.DeptLiabilityFinancial, "Gamma Brokers", "Insured D", models.QuotationConfirmed, "100", models.CurrencyAED, now)
	seedQuotation(t, db, models.DeptLiabilityFinancial, "Gamma Brokers", "Insured D", models.QuotationOpen, "100", models.CurrencyAED, now)
	seedQuotation(t, db, models.DeptLiabilityFinancial, "Gamma Brokers", "Insured D", models.QuotationDeclined, "100", models.CurrencyAED, now)
	// Orders only, no quotations at all: 0.00 rather than a division error.
	seedOrder(t, db, models.DeptMarine, "Delta Brokers", "Insured E", models.BusinessRenewal, "750", models.CurrencyAED, now)

	rows, err := NewAnalyticsEngine(db).Brokers()
	require.NoError(t, err)

	byName := map[string]BrokerAnalytics{}
	for _, row := range rows {
		byName[row.BrokerName] = row
	}

	assert.Equal(t, "100.00", byName["Alpha Brokers"].HitRatio)
	assert.Equal(t, "0.00", byName["Beta Brokers"].HitRatio)
	assert.Equal(t, "33.33", byName["Gamma Brokers"].HitRatio)
	assert.Equal(t, "0.00", byName["Delta Brokers"].HitRatio)
	assert.Equal(t, 0, byName["Delta Brokers"].TotalQuotations)
	assert.Equal(t, 1, byName["Delta Brokers"].OrderCount)
	assert.InDelta(t, 750, byName["Delta Brokers"].OrderPremium, 0.001)

	// Alpha's confirmed quotations cascaded into orders carrying its name.
	assert.Equal(t, 2, byName["Alpha Brokers"].OrderCount)
	assert.InDelta(t, 3000, byName["Alpha Brokers"].OrderPremium, 0.001)

	// Sorted by broker name.
	require.Len(t, rows, 4)
	assert.Equal(t, "Alpha Brokers", rows[0].BrokerName)
	assert.Equal(t, "Delta Brokers", rows[2].BrokerName)
}

func TestInsuredProfiles_CrossDepartmentRollup(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Al Noor Trading LLC", models.QuotationOpen, "1000", models.CurrencyAED, now)
	seedQuotation(t, db, models.DeptLiabilityFinancial, "Alpha Brokers", "Al Noor Trading LLC", models.QuotationDeclined, "400", models.CurrencyAED, now)
	seedOrder(t, db, models.DeptMarine, "Alpha Brokers", "Al Noor Trading LLC", models.BusinessNew, "900", models.CurrencyAED, now)
	seedOrder(t, db, models.DeptMarine, "Alpha Brokers", "Al Noor Trading LLC", models.BusinessRenewal, "600", models.CurrencyAED, now)
	seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Zayed Steel", models.QuotationOpen, "50", models.CurrencyAED, now)

	profiles, err := NewAnalyticsEngine(db).InsuredProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Al Noor Trading LLC", profiles[0].InsuredName, "sorted by insured name")
	assert.Equal(t, "Zayed Steel", profiles[1].InsuredName)

	p := profiles[0]
	marine := p.Departments[models.DeptMarine]
	assert.Equal(t, 1, marine.OpenQuotations)
	assert.Equal(t, 1, marine.NewBusinessOrders)
	assert.Equal(t, 1, marine.RenewalOrders)
	assert.InDelta(t, 900, marine.NewBusinessPremium, 0.001)
	assert.InDelta(t, 600, marine.RenewalPremium, 0.001)
	assert.InDelta(t, 1500, marine.TotalOrderPremium, 0.001)

	lf := p.Departments[models.DeptLiabilityFinancial]
	assert.Equal(t, 1, lf.DeclinedQuotations)
	assert.InDelta(t, 400, lf.QuotedPremium, 0.001)

	assert.Equal(t, 1, p.Total.OpenQuotations)
	assert.Equal(t, 1, p.Total.DeclinedQuotations)
	assert.InDelta(t, 1400, p.Total.QuotedPremium, 0.001)
	assert.InDelta(t, 1500, p.Total.TotalOrderPremium, 0.001)
}

func TestProducts_AveragePremium(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	seedOrder(t, db, models.DeptMarine, "Alpha Brokers", "Insured A", models.BusinessNew, "1000", models.CurrencyAED, now)
	seedOrder(t, db, models.DeptMarine, "Alpha Brokers", "Insured B", models.BusinessNew, "3000", models.CurrencyAED, now)
	seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Insured C", models.QuotationOpen, "500", models.CurrencyAED, now)

	rows, err := NewAnalyticsEngine(db).Products()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Marine Cargo", row.ProductType)
	assert.Equal(t, 1, row.QuotationCount)
	assert.Equal(t, 2, row.OrderCount)
	assert.InDelta(t, 4000, row.OrderPremium, 0.001)
	assert.InDelta(t, 2000, row.AveragePremium, 0.001)
}

func TestBusinessTypes_AlwaysBothRows(t *testing.T) {
	db := newTestDB(t)

	rows, err := NewAnalyticsEngine(db).BusinessTypes()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.BusinessNew, rows[0].BusinessType)
	assert.Equal(t, models.BusinessRenewal, rows[1].BusinessType)
	assert.Zero(t, rows[0].OrderCount)
	assert.Zero(t, rows[1].AveragePremium)

	seedOrder(t, db, models.DeptMarine, "Alpha Brokers", "Insured A", models.BusinessRenewal, "800", models.CurrencyAED, time.Now())
	rows, err = NewAnalyticsEngine(db).BusinessTypes()
	require.NoError(t, err)
	assert.Equal(t, 1, rows[1].OrderCount)
	assert.InDelta(t, 800, rows[1].AveragePremium, 0.001)
}

func TestTimeSeries_ZeroFilled(t *testing.T) {
	db := newTestDB(t)

	day2 := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Insured A", models.QuotationConfirmed, "100", models.CurrencyAED, day2)
	// The cascaded order lands on today's date, outside this window; add one
	// explicitly inside it.
	seedOrder(t, db, models.DeptMarine, "Alpha Brokers", "Insured A", models.BusinessNew, "250", models.CurrencyAED, day3)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	series, err := NewAnalyticsEngine(db).TimeSeries(start, end)
	require.NoError(t, err)
	require.Len(t, series, 5, "one entry per calendar day, inclusive")

	assert.Equal(t, "2025-06-01", series[0].Date)
	assert.Zero(t, series[0].NewQuotations)
	assert.Zero(t, series[0].OrderPremium)

	assert.Equal(t, 1, series[1].NewQuotations)
	assert.Equal(t, 1, series[1].ConfirmedQuotations)
	assert.InDelta(t, 250, series[2].OrderPremium, 0.001)

	assert.Equal(t, "2025-06-05", series[4].Date)
	assert.Zero(t, series[4].NewQuotations)
}

func TestTimeSeries_ReversedRangeSwapped(t *testing.T) {
	db := newTestDB(t)

	start := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series, err := NewAnalyticsEngine(db).TimeSeries(start, end)
	require.NoError(t, err)
	require.Len(t, series, 5)
	assert.Equal(t, "2025-06-01", series[0].Date)
	assert.Equal(t, "2025-06-05", series[4].Date)
}

func TestPrimaryCurrency_MostFrequentWins(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	primary, err := NewAnalyticsEngine(db).PrimaryCurrency()
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyAED, primary, "empty dataset defaults to AED")

	seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Insured A", models.QuotationOpen, "100", models.Currency("USD"), now)
	seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Insured B", models.QuotationOpen, "100", models.Currency("USD"), now)
	seedOrder(t, db, models.DeptMarine, "Alpha Brokers", "Insured C", models.BusinessNew, "100", models.CurrencyAED, now)

	primary, err = NewAnalyticsEngine(db).PrimaryCurrency()
	require.NoError(t, err)
	assert.Equal(t, models.Currency("USD"), primary)
}

func TestUnmatchedConfirmations(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	// A healthy confirmation: the cascade created its order.
	matched := seedQuotation(t, db, models.DeptMarine, "Alpha Brokers", "Insured A", models.QuotationConfirmed, "100", models.CurrencyAED, now)

	// An orphaned confirmation, written directly as a failed cascade would
	// leave it.
	orphan := models.Quotation{
		Department:       models.DeptMarine,
		BrokerName:       "Beta Brokers",
		InsuredName:      "Insured B",
		ProductType:      "Marine Cargo",
		EstimatedPremium: "200",
		Currency:         models.CurrencyAED,
		QuotationDate:    models.JSONTime(now),
		Status:           models.QuotationConfirmed,
		Year:             models.ActiveYear(db),
	}
	require.NoError(t, db.Create(&orphan).Error)

	unmatched, err := NewAnalyticsEngine(db).UnmatchedConfirmations()
	require.NoError(t, err)
	require.Len(t, unmatched, 1)
	assert.Equal(t, orphan.ID, unmatched[0].ID)
	assert.NotEqual(t, matched.ID, unmatched[0].ID)
}
