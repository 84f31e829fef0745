package models

import (
	"time"

	"gorm.io/datatypes"
)

// CollectionDays are the accepted values for Schedule.CollectionDay
var CollectionDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Schedule binds a location to a recurring collection day/time/waste-type.
// Consumed read-only by the workflow, written only by admins.
type Schedule struct {
	ID             int64          `gorm:"column:schedule_id;primaryKey;autoIncrement" json:"schedule_id"`
	LocationID     int64          `gorm:"not null;index" json:"location_id"`
	CollectionDay  string         `gorm:"type:varchar(10);not null" json:"collection_day"`
	CollectionTime datatypes.Time `json:"collection_time"`
	WasteType      string         `gorm:"default:'mixed';not null" json:"waste_type"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedBy      string         `gorm:"type:uuid" json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`

	// Associations
	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}
