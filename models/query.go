package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueryService answers list/export queries scoped to the active year.
// Year and department filters run in SQL; status-set and calendar-date
// filters are evaluated in Go over the scoped rows, which keeps the
// "statuses contains tag" semantics identical on postgres and sqlite at
// back-office row volumes.
type QueryService struct {
	db *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// OrderFilter narrows date-range order listings. Start/End are inclusive
// calendar dates (time-of-day ignored). Status selects a single tag;
// IncludeAll skips the open/closed filtering entirely.
type OrderFilter struct {
	Start      *time.Time
	End        *time.Time
	Status     string
	IncludeAll bool
}

// QuotationFilter narrows quotation listings; quotations carry a single
// status so the filter is an exact equality.
type QuotationFilter struct {
	Start  *time.Time
	End    *time.Time
	Status QuotationStatus
}

// ListOrders is the default listing: active-year rows that have not moved
// to the closed-policies bucket.
func (s *QueryService) ListOrders(dept Department) ([]Order, error) {
	return s.ListOrdersInDateRange(dept, OrderFilter{})
}

// ListOrdersInDateRange applies the date window and the status visibility
// rules:
//   - IncludeAll: no status filtering (analytics/export path)
//   - Status == "Policy Issued": only closed orders
//   - Status == other tag: open orders carrying that tag
//   - no Status: open orders only
func (s *QueryService) ListOrdersInDateRange(dept Department, f OrderFilter) ([]Order, error) {
	if f.Status != "" && !ValidOrderStatusTag(f.Status) {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status tag %q", f.Status)}
	}
	var rows []Order
	err := s.db.
		Where("department = ? AND year = ?", dept, ActiveYear(s.db)).
		Order("order_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(rows))
	for _, o := range rows {
		if !withinDateRange(o.OrderDate.Time(), f.Start, f.End) {
			continue
		}
		switch {
		case f.IncludeAll:
		case f.Status == StatusPolicyIssued:
			if !o.Closed() {
				continue
			}
		case f.Status != "":
			if o.Closed() || !o.Statuses.Contains(f.Status) {
				continue
			}
		default:
			if o.Closed() {
				continue
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// ListQuotations is the default active-year quotation listing.
func (s *QueryService) ListQuotations(dept Department) ([]Quotation, error) {
	return s.ListQuotationsInDateRange(dept, QuotationFilter{})
}

func (s *QueryService) ListQuotationsInDateRange(dept Department, f QuotationFilter) ([]Quotation, error) {
	if f.Status != "" && !ValidQuotationStatus(f.Status) {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", f.Status)}
	}
	query := s.db.Where("department = ? AND year = ?", dept, ActiveYear(s.db))
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	var rows []Quotation
	if err := query.Order("quotation_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Quotation, 0, len(rows))
	for _, q := range rows {
		if withinDateRange(q.QuotationDate.Time(), f.Start, f.End) {
			out = append(out, q)
		}
	}
	return out, nil
}

// GetQuotation and GetOrder load single rows without year scoping so a
// record stays addressable by id after a year switch.
func (s *QueryService) GetQuotation(id uuid.UUID) (*Quotation, error) {
	var q Quotation
	if err := s.db.First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *QueryService) GetOrder(id uuid.UUID) (*Order, error) {
	var o Order
	if err := s.db.First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListStatusLogs returns the audit trail of one order, oldest first.
func (s *QueryService) ListStatusLogs(orderID uuid.UUID) ([]StatusLog, error) {
	var logs []StatusLog
	err := s.db.
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

// withinDateRange compares calendar dates only, so a record timestamped at
// any hour of a boundary day is included.
func withinDateRange(t time.Time, start, end *time.Time) bool {
	day := truncateToDay(t)
	if start != nil && day.Before(truncateToDay(*start)) {
		return false
	}
	if end != nil && day.After(truncateToDay(*end)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
