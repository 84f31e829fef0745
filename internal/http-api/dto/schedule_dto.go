package dto

// CreateScheduleRequest: admin payload for a new recurring collection slot
type CreateScheduleRequest struct {
	LocationID     int64  `json:"location_id" binding:"required"`
	CollectionDay  string `json:"collection_day" binding:"required"`
	CollectionTime string `json:"collection_time" binding:"required"`
	WasteType      string `json:"waste_type,omitempty"`
}

// UpdateScheduleRequest: partial admin edit of a schedule
type UpdateScheduleRequest struct {
	LocationID     *int64  `json:"location_id,omitempty"`
	CollectionDay  *string `json:"collection_day,omitempty"`
	CollectionTime *string `json:"collection_time,omitempty"`
	WasteType      *string `json:"waste_type,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// CreateLocationRequest: admin payload for a new barangay entry
type CreateLocationRequest struct {
	BarangayName string  `json:"barangay_name" binding:"required"`
	Municipality string  `json:"municipality" binding:"required"`
	Province     string  `json:"province" binding:"required"`
	ZoneOrStreet *string `json:"zone_or_street,omitempty"`
}

// UpdateLocationRequest: partial admin edit of a barangay entry
type UpdateLocationRequest struct {
	BarangayName *string `json:"barangay_name,omitempty"`
	Municipality *string `json:"municipality,omitempty"`
	Province     *string `json:"province,omitempty"`
	ZoneOrStreet *string `json:"zone_or_street,omitempty"`
}
