package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusList is the jsonb-backed set of status tags an order carries.
// Tags are not mutually exclusive; "Policy Issued" closes the order.
type StatusList []string

func (s *StatusList) Scan(value interface{}) error {
	if value == nil {
		*s = StatusList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("StatusList: unsupported scan type %T", value)
	}
}

func (s StatusList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

func (StatusList) GormDataType() string {
	return "jsonb"
}

func (s StatusList) Contains(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// Order is a bound/firm business record tracked through onboarding status
// tags until policy issuance.
type Order struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Department        Department `gorm:"size:40;index;not null" json:"department"`
	BrokerName        string     `gorm:"size:255;not null" json:"brokerName"`
	InsuredName       string     `gorm:"size:255;index;not null" json:"insuredName"`
	ProductType       string     `gorm:"size:120;not null" json:"productType"`
	BusinessType      string     `gorm:"size:20;not null;default:'New Business'" json:"businessType"`
	Premium           string     `gorm:"size:40;not null;default:'0'" json:"premium"`
	Currency          Currency   `gorm:"size:8;not null;default:'AED'" json:"currency"`
	OrderDate         JSONTime   `gorm:"column:order_date;not null" json:"orderDate"`
	Statuses          StatusList `gorm:"not null" json:"statuses"`
	Notes             string     `gorm:"type:text" json:"notes"`
	SurveyRequired    bool       `gorm:"default:false" json:"surveyRequired"`
	SourceQuotationID *uuid.UUID `gorm:"type:uuid;index" json:"sourceQuotationId,omitempty"`
	CreatedBy         uuid.UUID  `gorm:"type:uuid;index" json:"createdBy"`
	Year              int        `gorm:"index;not null" json:"year"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Closed reports whether the order has moved to the closed-policies bucket.
func (o *Order) Closed() bool {
	return o.Statuses.Contains(StatusPolicyIssued)
}

// OrderInput is the create/update payload; pointer fields mark presence.
// A Statuses entry in an update payload is what triggers a status log row.
type OrderInput struct {
	BrokerName     *string     `json:"brokerName"`
	InsuredName    *string     `json:"insuredName"`
	ProductType    *string     `json:"productType"`
	BusinessType   *string     `json:"businessType"`
	Premium        *string     `json:"premium"`
	Currency       *Currency   `json:"currency"`
	OrderDate      *JSONTime   `json:"orderDate"`
	Statuses       *StatusList `json:"statuses"`
	Notes          *string     `json:"notes"`
	SurveyRequired *bool       `json:"surveyRequired"`
}
