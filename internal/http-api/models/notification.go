package models

import "time"

const (
	NotificationScheduleChange = "schedule_change"
	NotificationSystem         = "system"
)

// Notification is a one-way advisory to a user. Created by the workflow on
// state transitions, mutated only by the recipient marking it read.
type Notification struct {
	ID         int64     `gorm:"column:notification_id;primaryKey;autoIncrement" json:"notification_id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ScheduleID *int64    `json:"schedule_id,omitempty"` // weak back-reference for grouping, not ownership
	Type       string    `gorm:"column:notification_type;not null" json:"notification_type"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	SentAt     time.Time `gorm:"autoCreateTime" json:"sent_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
