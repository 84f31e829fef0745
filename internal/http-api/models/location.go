package models

// Location is an administrative area (barangay) used for routing and
// authorization. Reference data, owned by admins.
type Location struct {
	ID           int64   `gorm:"column:location_id;primaryKey;autoIncrement" json:"location_id"`
	BarangayName string  `gorm:"not null" json:"barangay_name"`
	Municipality string  `gorm:"not null" json:"municipality"`
	Province     string  `gorm:"not null" json:"province"`
	ZoneOrStreet *string `json:"zone_or_street,omitempty"`
}

func (Location) TableName() string {
	return "locations"
}
