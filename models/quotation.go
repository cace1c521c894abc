package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quotation is a pre-bind estimate for any of the three departments.
// Confirming it promotes it into a firm Order (see LifecycleService).
type Quotation struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Department       Department      `gorm:"size:40;index;not null" json:"department"`
	BrokerName       string          `gorm:"size:255;not null" json:"brokerName"`
	InsuredName      string          `gorm:"size:255;index;not null" json:"insuredName"`
	ProductType      string          `gorm:"size:120;not null" json:"productType"`
	EstimatedPremium string          `gorm:"size:40;not null;default:'0'" json:"estimatedPremium"`
	Currency         Currency        `gorm:"size:8;not null;default:'AED'" json:"currency"`
	QuotationDate    JSONTime        `gorm:"column:quotation_date;not null" json:"quotationDate"`
	Status           QuotationStatus `gorm:"size:20;index;not null;default:'Open'" json:"status"`
	DeclineReason    *string         `gorm:"size:500" json:"declineReason,omitempty"`
	Notes            string          `gorm:"type:text" json:"notes"`
	SurveyRequired   bool            `gorm:"default:false" json:"surveyRequired"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid;index" json:"createdBy"`
	Year             int             `gorm:"index;not null" json:"year"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// QuotationInput is the create/update payload. Pointer fields distinguish
// "not provided" from zero values so updates only touch submitted fields.
type QuotationInput struct {
	BrokerName       *string          `json:"brokerName"`
	InsuredName      *string          `json:"insuredName"`
	ProductType      *string          `json:"productType"`
	EstimatedPremium *string          `json:"estimatedPremium"`
	Currency         *Currency        `json:"currency"`
	QuotationDate    *JSONTime        `json:"quotationDate"`
	Status           *QuotationStatus `json:"status"`
	DeclineReason    *string          `json:"declineReason"`
	Notes            *string          `json:"notes"`
	SurveyRequired   *bool            `json:"surveyRequired"`
}
