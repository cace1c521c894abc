package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatusLog is an immutable audit row recording the full status-set
// snapshot of an order: one at creation and one per status mutation.
// Rows are removed only when the parent order is deleted.
type StatusLog struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID  uuid.UUID      `gorm:"type:uuid;index;not null" json:"orderId"`
	Statuses StatusList     `gorm:"not null" json:"statuses"`
	Change   datatypes.JSON `gorm:"type:jsonb" json:"change,omitempty"`
	Notes    string         `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (l *StatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// statusChange is the diff stored in the Change column.
type statusChange struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// encodeStatusChange diffs the previous and new snapshots for the audit row.
func encodeStatusChange(previous, next StatusList) datatypes.JSON {
	change := statusChange{Added: []string{}, Removed: []string{}}
	for _, tag := range next {
		if !previous.Contains(tag) {
			change.Added = append(change.Added, tag)
		}
	}
	for _, tag := range previous {
		if !next.Contains(tag) {
			change.Removed = append(change.Removed, tag)
		}
	}
	raw, _ := json.Marshal(change)
	return datatypes.JSON(raw)
}
