package repository

import (
	"context"
	"fmt"

	"basurahub/internal/http-api/models"

	"gorm.io/gorm"
)

var locationUpdatableFields = map[string]bool{
	"barangay_name":  true,
	"municipality":   true,
	"province":       true,
	"zone_or_street": true,
}

type LocationRepository interface {
	FindAll(ctx context.Context) ([]models.Location, error)
	FindByID(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) FindAll(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).
		Order("barangay_name, municipality").
		Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

func (r *locationRepository) FindByID(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, "location_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return fmt.Errorf("create location: %w", translateError(err))
	}
	return nil
}

func (r *locationRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if locationUpdatableFields[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return ErrNoUpdatableFields
	}

	result := r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("location_id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update location: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *locationRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("location_id = ?", id).
		Delete(&models.Location{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete location: %w", translateError(result.Error))
	}
	return result.RowsAffected, nil
}
