package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleResident  = "resident"
	RoleCollector = "collector"
	RoleAdmin     = "admin"
)

type User struct {
	ID          string     `gorm:"column:user_id;primaryKey;type:uuid" json:"user_id"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"column:password_hash;not null" json:"-"` // Not shown in JSON
	FullName    string     `gorm:"not null" json:"full_name"`
	Role        string     `gorm:"default:'resident';not null" json:"role"` // resident, collector, admin
	PhoneNumber string     `json:"phone_number"`
	Address     string     `json:"address"`
	BarangayID  *int64     `gorm:"index" json:"barangay_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`

	// Associations
	Barangay *Location `gorm:"foreignKey:BarangayID" json:"barangay,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
