package repository

import (
	"context"
	"fmt"

	"basurahub/internal/http-api/models"

	"gorm.io/gorm"
)

var scheduleUpdatableFields = map[string]bool{
	"location_id":     true,
	"collection_day":  true,
	"collection_time": true,
	"waste_type":      true,
	"is_active":       true,
}

type ScheduleRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	FindByLocation(ctx context.Context, locationID int64) ([]models.Schedule, error)
	FindByUser(ctx context.Context, userID string) ([]models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Location").
		First(&schedule, "schedule_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) FindByLocation(ctx context.Context, locationID int64) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Location").
		Where("location_id = ? AND is_active = true", locationID).
		Order("collection_day").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list schedules by location: %w", err)
	}
	return schedules, nil
}

// FindByUser resolves the resident's collection calendar through their
// barangay.
func (r *scheduleRepository) FindByUser(ctx context.Context, userID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Location").
		Joins("JOIN users ON users.barangay_id = schedules.location_id").
		Where("users.user_id = ? AND schedules.is_active = true", userID).
		Order("schedules.collection_day").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list schedules by user: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return fmt.Errorf("create schedule: %w", translateError(err))
	}
	return nil
}

func (r *scheduleRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if scheduleUpdatableFields[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return ErrNoUpdatableFields
	}

	result := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("schedule_id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update schedule: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		Delete(&models.Schedule{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete schedule: %w", result.Error)
	}
	return result.RowsAffected, nil
}
