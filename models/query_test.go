package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, dept Department, date time.Time, statuses StatusList) *Order {
	t.Helper()
	jt := JSONTime(date)
	o, err := NewLifecycleService(db).CreateOrder(dept, OrderInput{
		BrokerName:  ptr("Gulf Shield Brokers"),
		InsuredName: ptr("Al Noor Trading LLC"),
		ProductType: ptr(dept.ProductTypes()[0]),
		OrderDate:   &jt,
		Statuses:    &statuses,
	}, uuid.New())
	require.NoError(t, err)
	return o
}

func seedQuotation(t *testing.T, db *gorm.DB, dept Department, date time.Time, status QuotationStatus) *Quotation {
	t.Helper()
	jt := JSONTime(date)
	q, err := NewLifecycleService(db).CreateQuotation(dept, QuotationInput{
		BrokerName:    ptr("Gulf Shield Brokers"),
		InsuredName:   ptr("Al Noor Trading LLC"),
		ProductType:   ptr(dept.ProductTypes()[0]),
		QuotationDate: &jt,
		Status:        ptr(status),
	}, uuid.New())
	require.NoError(t, err)
	return q
}

func TestListOrders_ClosedBucketIsComplement(t *testing.T) {
	db := newTestDB(t)
	queries := NewQueryService(db)
	now := time.Now()

	seedOrder(t, db, DeptMarine, now, StatusList{StatusFirmOrderReceived})
	seedOrder(t, db, DeptMarine, now, StatusList{StatusKYCCompleted, StatusCOIIssued})
	closed := seedOrder(t, db, DeptMarine, now, StatusList{StatusCOIIssued, StatusPolicyIssued})

	listed, err := queries.ListOrders(DeptMarine)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, o := range listed {
		assert.NotEqual(t, closed.ID, o.ID)
	}

	issued, err := queries.ListOrdersInDateRange(DeptMarine, OrderFilter{Status: StatusPolicyIssued})
	require.NoError(t, err)
	require.Len(t, issued, 1)
	assert.Equal(t, closed.ID, issued[0].ID)

	everything, err := queries.ListOrdersInDateRange(DeptMarine, OrderFilter{IncludeAll: true})
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestListOrders_StatusTagFilterSkipsClosed(t *testing.T) {
	db := newTestDB(t)
	queries := NewQueryService(db)
	now := time.Now()

	tagged := seedOrder(t, db, DeptMarine, now, StatusList{StatusFirmOrderReceived, StatusCOIIssued})
	seedOrder(t, db, DeptMarine, now, StatusList{StatusFirmOrderReceived})
	// Carries the tag but is closed, so the tag filter must not surface it.
	seedOrder(t, db, DeptMarine, now, StatusList{StatusCOIIssued, StatusPolicyIssued})

	rows, err := queries.ListOrdersInDateRange(DeptMarine, OrderFilter{Status: StatusCOIIssued})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tagged.ID, rows[0].ID)
}

func TestListOrders_UnknownStatusRejected(t *testing.T) {
	db := newTestDB(t)
	_, err := NewQueryService(db).ListOrdersInDateRange(DeptMarine, OrderFilter{Status: "Bound"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)
}

func TestListOrders_DepartmentIsolation(t *testing.T) {
	db := newTestDB(t)
	queries := NewQueryService(db)
	now := time.Now()

	seedOrder(t, db, DeptMarine, now, StatusList{StatusFirmOrderReceived})
	seedOrder(t, db, DeptLiabilityFinancial, now, StatusList{StatusFirmOrderReceived})

	marine, err := queries.ListOrders(DeptMarine)
	require.NoError(t, err)
	assert.Len(t, marine, 1)
	assert.Equal(t, DeptMarine, marine[0].Department)
}

func TestListOrdersInDateRange_BoundaryDaysInclusive(t *testing.T) {
	db := newTestDB(t)
	queries := NewQueryService(db)

	// Late in the evening of the end-boundary day.
	lateBoundary := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	inRange := seedOrder(t, db, DeptMarine, lateBoundary, StatusList{StatusFirmOrderReceived})
	seedOrder(t, db, DeptMarine, time.Date(2025, 3, 11, 0, 15, 0, 0, time.UTC), StatusList{StatusFirmOrderReceived})

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rows, err := queries.ListOrdersInDateRange(DeptMarine, OrderFilter{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, rows, 1, "boundary-day record included regardless of time of day")
	assert.Equal(t, inRange.ID, rows[0].ID)
}

func TestListOrders_YearPartition(t *testing.T) {
	db := newTestDB(t)
	queries := NewQueryService(db)

	require.NoError(t, SetActiveYear(db, 2025))
	o := seedOrder(t, db, DeptMarine, time.Now(), StatusList{StatusFirmOrderReceived})

	require.NoError(t, SetActiveYear(db, 2026))
	rows, err := queries.ListOrders(DeptMarine)
	require.NoError(t, err)
	assert.Empty(t, rows, "prior-year rows disappear from listings")

	// The row itself is untouched and still addressable by id.
	got, err := queries.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year)

	require.NoError(t, SetActiveYear(db, 2025))
	rows, err = queries.ListOrders(DeptMarine)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "switching back restores visibility")
}

func TestListQuotations_StatusAndDateFilters(t *testing.T) {
	db := newTestDB(t)
	queries := NewQueryService(db)

	open := seedQuotation(t, db, DeptLiabilityFinancial, time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC), QuotationOpen)
	seedQuotation(t, db, DeptLiabilityFinancial, time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC), QuotationDeclined)

	declined, err := queries.ListQuotationsInDateRange(DeptLiabilityFinancial, QuotationFilter{Status: QuotationDeclined})
	require.NoError(t, err)
	require.Len(t, declined, 1)
	assert.Equal(t, QuotationDeclined, declined[0].Status)

	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	early, err := queries.ListQuotationsInDateRange(DeptLiabilityFinancial, QuotationFilter{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, early, 1)
	assert.Equal(t, open.ID, early[0].ID)

	_, err = queries.ListQuotationsInDateRange(DeptLiabilityFinancial, QuotationFilter{Status: QuotationStatus("Bound")})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestListStatusLogs_OldestFirst(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycleService(db)
	queries := NewQueryService(db)

	o := seedOrder(t, db, DeptMarine, time.Now(), StatusList{StatusFirmOrderReceived})
	time.Sleep(5 * time.Millisecond)
	_, _, _, err := lifecycle.UpdateOrder(o.ID, OrderInput{Statuses: ptr(StatusList{StatusFirmOrderReceived, StatusKYCCompleted})})
	require.NoError(t, err)

	logs, err := queries.ListStatusLogs(o.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, StatusList{StatusFirmOrderReceived}, logs[0].Statuses)
	assert.True(t, logs[1].Statuses.Contains(StatusKYCCompleted))
}
