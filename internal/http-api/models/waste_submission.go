package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// CollectionStatus represents the lifecycle stage of a waste submission
type CollectionStatus string

const (
	StatusPending   CollectionStatus = "pending"
	StatusScheduled CollectionStatus = "scheduled"
	StatusCollected CollectionStatus = "collected"
)

// StringList is a JSON-encoded array column for tag sets.
// Rows written by older clients can hold malformed JSON; those decode to an
// empty list instead of failing the whole read.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported source type for StringList: %T", value)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		// lenient parse: corrupted tag data degrades to an empty set
		*l = StringList{}
		return nil
	}

	*l = out
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Contains reports whether the tag set holds the given value
func (l StringList) Contains(tag string) bool {
	for _, t := range l {
		if t == tag {
			return true
		}
	}
	return false
}

// WasteSubmission is a resident's pickup request: classification, location and
// an image reference, moving through pending -> scheduled -> collected.
// Cancellation removes the row entirely instead of adding a status value.
type WasteSubmission struct {
	ID                 int64            `gorm:"column:submission_id;primaryKey;autoIncrement" json:"submission_id"`
	UserID             string           `gorm:"type:uuid;not null;index" json:"user_id"`
	ImagePath          *string          `json:"image_path,omitempty"`
	PredictedCategory  *string          `json:"predicted_category,omitempty"`
	ConfidenceScore    *float64         `json:"confidence_score,omitempty"`
	ConfirmedCategory  *string          `json:"confirmed_category,omitempty"`
	WasteTypes         StringList       `gorm:"type:jsonb" json:"waste_types"`
	WasteAdjectives    StringList       `gorm:"type:jsonb" json:"waste_adjectives"`
	WasteDescription   string           `gorm:"type:text" json:"waste_description"`
	Latitude           *float64         `json:"latitude,omitempty"`
	Longitude          *float64         `json:"longitude,omitempty"`
	AddressDescription string           `gorm:"type:text" json:"address_description"`
	BarangayID         *int64           `gorm:"index" json:"barangay_id,omitempty"`
	CollectionStatus   CollectionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"collection_status"`
	CollectorID        *string          `gorm:"type:uuid;index" json:"collector_id,omitempty"`
	ScheduledDate      *datatypes.Date  `json:"scheduled_date,omitempty"`
	CollectedAt        *time.Time       `json:"collected_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`

	// Associations
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Barangay *Location `gorm:"foreignKey:BarangayID" json:"barangay,omitempty"`
}

func (WasteSubmission) TableName() string {
	return "waste_submissions"
}
