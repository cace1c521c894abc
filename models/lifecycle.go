package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradedesk.ae/brokerage/utils"
)

// LifecycleService owns every quotation/order write. It stamps new rows
// with the active year and runs the one real business rule in the system:
// a quotation whose status crosses into Confirmed produces exactly one
// firm order.
//
// The cascade is deliberately not wrapped in a transaction with the
// quotation write. If order creation fails the quotation stays Confirmed
// and the error propagates; re-saving the quotation will not re-fire the
// cascade because the stored status is already Confirmed. The analytics
// engine exposes the resulting unmatched confirmations for manual repair.
type LifecycleService struct {
	db *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db}
}

// CreateQuotation validates and persists a quotation stamped with the
// current active year, cascading into a firm order when it arrives
// already Confirmed.
func (s *LifecycleService) CreateQuotation(dept Department, in QuotationInput, userID uuid.UUID) (*Quotation, error) {
	q := &Quotation{
		Department:       dept,
		EstimatedPremium: "0",
		Currency:         CurrencyAED,
		QuotationDate:    JSONTime(time.Now()),
		Status:           QuotationOpen,
	}
	applyQuotationInput(q, in)
	if err := validateQuotation(q); err != nil {
		return nil, err
	}
	q.CreatedBy = userID
	q.Year = ActiveYear(s.db)
	if err := s.db.Create(q).Error; err != nil {
		return nil, err
	}
	if q.Status == QuotationConfirmed {
		if _, err := s.FirmOrderFromQuotation(q); err != nil {
			return q, fmt.Errorf("firm order cascade: %w", err)
		}
	}
	return q, nil
}

// UpdateQuotation applies a partial update. The cascade is edge-triggered:
// it fires only when the previously stored status was not Confirmed and the
// updated one is. Re-saving an already Confirmed quotation is a no-op with
// respect to order creation. The returned bool reports whether an order
// was created.
func (s *LifecycleService) UpdateQuotation(id uuid.UUID, in QuotationInput) (*Quotation, bool, error) {
	var q Quotation
	if err := s.db.First(&q, "id = ?", id).Error; err != nil {
		return nil, false, err
	}
	previous := q.Status
	applyQuotationInput(&q, in)
	if err := validateQuotation(&q); err != nil {
		return nil, false, err
	}
	if err := s.db.Save(&q).Error; err != nil {
		return nil, false, err
	}
	if previous != QuotationConfirmed && q.Status == QuotationConfirmed {
		if _, err := s.FirmOrderFromQuotation(&q); err != nil {
			return &q, false, fmt.Errorf("firm order cascade: %w", err)
		}
		return &q, true, nil
	}
	return &q, false, nil
}

// FirmOrderFromQuotation derives the firm order for a confirmed quotation.
// The order is stamped with the active year at cascade time, not the
// quotation's original year, and gets its initial status-log snapshot.
func (s *LifecycleService) FirmOrderFromQuotation(q *Quotation) (*Order, error) {
	order := &Order{
		Department:        q.Department,
		BrokerName:        q.BrokerName,
		InsuredName:       q.InsuredName,
		ProductType:       q.ProductType,
		BusinessType:      BusinessNew,
		Premium:           q.EstimatedPremium,
		Currency:          q.Currency,
		OrderDate:         JSONTime(time.Now()),
		Statuses:          StatusList{StatusFirmOrderReceived, StatusKYCPending},
		Notes:             q.Notes,
		SurveyRequired:    q.SurveyRequired,
		SourceQuotationID: &q.ID,
		CreatedBy:         q.CreatedBy,
		Year:              ActiveYear(s.db),
	}
	if err := s.db.Create(order).Error; err != nil {
		return nil, err
	}
	log := StatusLog{
		OrderID:  order.ID,
		Statuses: order.Statuses,
		Change:   encodeStatusChange(nil, order.Statuses),
		Notes:    "firm order created from confirmed quotation",
	}
	if err := s.db.Create(&log).Error; err != nil {
		return order, err
	}
	return order, nil
}

// CreateOrder persists a manually entered order with its initial
// status-log snapshot.
func (s *LifecycleService) CreateOrder(dept Department, in OrderInput, userID uuid.UUID) (*Order, error) {
	o := &Order{
		Department:   dept,
		BusinessType: BusinessNew,
		Premium:      "0",
		Currency:     CurrencyAED,
		OrderDate:    JSONTime(time.Now()),
		Statuses:     StatusList{StatusFirmOrderReceived},
	}
	applyOrderInput(o, in)
	if err := validateOrder(o); err != nil {
		return nil, err
	}
	o.CreatedBy = userID
	o.Year = ActiveYear(s.db)
	if err := s.db.Create(o).Error; err != nil {
		return nil, err
	}
	log := StatusLog{
		OrderID:  o.ID,
		Statuses: o.Statuses,
		Change:   encodeStatusChange(nil, o.Statuses),
		Notes:    "order created",
	}
	if err := s.db.Create(&log).Error; err != nil {
		return o, err
	}
	return o, nil
}

// UpdateOrder applies a partial update. A status-log row is written only
// when the payload carried a statuses field; non-status edits never log.
// The previous snapshot is returned so the handler can report whether the
// update moved the order into the closed bucket.
func (s *LifecycleService) UpdateOrder(id uuid.UUID, in OrderInput) (*Order, StatusList, bool, error) {
	var o Order
	if err := s.db.First(&o, "id = ?", id).Error; err != nil {
		return nil, nil, false, err
	}
	previous := make(StatusList, len(o.Statuses))
	copy(previous, o.Statuses)

	applyOrderInput(&o, in)
	if err := validateOrder(&o); err != nil {
		return nil, nil, false, err
	}
	if err := s.db.Save(&o).Error; err != nil {
		return nil, nil, false, err
	}
	logged := false
	if in.Statuses != nil {
		log := StatusLog{
			OrderID:  o.ID,
			Statuses: o.Statuses,
			Change:   encodeStatusChange(previous, o.Statuses),
		}
		if err := s.db.Create(&log).Error; err != nil {
			return &o, previous, false, err
		}
		logged = true
	}
	return &o, previous, logged, nil
}

// DeleteOrder removes an order together with its status-log history.
func (s *LifecycleService) DeleteOrder(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&StatusLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&o).Error
	})
}

// DeleteOrders deletes each id independently, matching the bulk-delete
// semantics of the rest of the system: a failure partway leaves the earlier
// deletions in place. Returns how many rows were actually removed.
func (s *LifecycleService) DeleteOrders(ids []uuid.UUID) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := s.DeleteOrder(id); err != nil {
			return deleted, fmt.Errorf("delete order %s: %w", id, err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *LifecycleService) DeleteQuotation(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&Quotation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyQuotationInput(q *Quotation, in QuotationInput) {
	if in.BrokerName != nil {
		q.BrokerName = *in.BrokerName
	}
	if in.InsuredName != nil {
		q.InsuredName = *in.InsuredName
	}
	if in.ProductType != nil {
		q.ProductType = *in.ProductType
	}
	if in.EstimatedPremium != nil {
		q.EstimatedPremium = *in.EstimatedPremium
	}
	if in.Currency != nil {
		q.Currency = *in.Currency
	}
	if in.QuotationDate != nil {
		q.QuotationDate = *in.QuotationDate
	}
	if in.Status != nil {
		q.Status = *in.Status
	}
	if in.DeclineReason != nil {
		q.DeclineReason = in.DeclineReason
	}
	if in.Notes != nil {
		q.Notes = *in.Notes
	}
	if in.SurveyRequired != nil {
		q.SurveyRequired = *in.SurveyRequired
	}
}

func validateQuotation(q *Quotation) error {
	if q.BrokerName == "" {
		return &ValidationError{Field: "brokerName", Reason: "required"}
	}
	if q.InsuredName == "" {
		return &ValidationError{Field: "insuredName", Reason: "required"}
	}
	if !q.Department.ValidProduct(q.ProductType) {
		return &ValidationError{Field: "productType", Reason: fmt.Sprintf("%q is not a %s product", q.ProductType, q.Department.Label())}
	}
	if _, err := utils.ParsePremium(q.EstimatedPremium); err != nil {
		return &ValidationError{Field: "estimatedPremium", Reason: err.Error()}
	}
	if !ValidCurrency(q.Currency) {
		return &ValidationError{Field: "currency", Reason: fmt.Sprintf("unknown currency %q", q.Currency)}
	}
	if !ValidQuotationStatus(q.Status) {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", q.Status)}
	}
	return nil
}

func applyOrderInput(o *Order, in OrderInput) {
	if in.BrokerName != nil {
		o.BrokerName = *in.BrokerName
	}
	if in.InsuredName != nil {
		o.InsuredName = *in.InsuredName
	}
	if in.ProductType != nil {
		o.ProductType = *in.ProductType
	}
	if in.BusinessType != nil {
		o.BusinessType = *in.BusinessType
	}
	if in.Premium != nil {
		o.Premium = *in.Premium
	}
	if in.Currency != nil {
		o.Currency = *in.Currency
	}
	if in.OrderDate != nil {
		o.OrderDate = *in.OrderDate
	}
	if in.Statuses != nil {
		o.Statuses = *in.Statuses
	}
	if in.Notes != nil {
		o.Notes = *in.Notes
	}
	if in.SurveyRequired != nil {
		o.SurveyRequired = *in.SurveyRequired
	}
}

func validateOrder(o *Order) error {
	if o.BrokerName == "" {
		return &ValidationError{Field: "brokerName", Reason: "required"}
	}
	if o.InsuredName == "" {
		return &ValidationError{Field: "insuredName", Reason: "required"}
	}
	if !o.Department.ValidProduct(o.ProductType) {
		return &ValidationError{Field: "productType", Reason: fmt.Sprintf("%q is not a %s product", o.ProductType, o.Department.Label())}
	}
	if !ValidBusinessType(o.BusinessType) {
		return &ValidationError{Field: "businessType", Reason: fmt.Sprintf("unknown business type %q", o.BusinessType)}
	}
	if _, err := utils.ParsePremium(o.Premium); err != nil {
		return &ValidationError{Field: "premium", Reason: err.Error()}
	}
	if !ValidCurrency(o.Currency) {
		return &ValidationError{Field: "currency", Reason: fmt.Sprintf("unknown currency %q", o.Currency)}
	}
	if len(o.Statuses) == 0 {
		return &ValidationError{Field: "statuses", Reason: "must not be empty"}
	}
	for _, tag := range o.Statuses {
		if !ValidOrderStatusTag(tag) {
			return &ValidationError{Field: "statuses", Reason: fmt.Sprintf("unknown status tag %q", tag)}
		}
	}
	return nil
}
