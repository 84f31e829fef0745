package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"basurahub/internal/http-api/models"

	"gorm.io/gorm"
)

// PendingFilters narrows the pending-submission view. Multi-value tag filters
// use set intersection (OR within a field), and the two tag clauses plus the
// area clause are ANDed together.
type PendingFilters struct {
	WasteTypes      []string
	WasteAdjectives []string
	BarangayID      *int64
}

// allowed fields for partial updates; everything else is silently ignored
var submissionUpdatableFields = map[string]bool{
	"confirmed_category":  true,
	"confidence_score":    true,
	"waste_types":         true,
	"waste_adjectives":    true,
	"waste_description":   true,
	"address_description": true,
	"barangay_id":         true,
	"latitude":            true,
	"longitude":           true,
	"scheduled_date":      true,
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.WasteSubmission) error
	FindByID(ctx context.Context, id int64) (*models.WasteSubmission, error)
	FindByUser(ctx context.Context, userID string) ([]models.WasteSubmission, error)
	FindPending(ctx context.Context, filters PendingFilters) ([]models.WasteSubmission, error)
	FindAssignedToCollector(ctx context.Context, collectorID string) ([]models.WasteSubmission, error)
	FindTodaysRoutes(ctx context.Context, collectorID string, day time.Time) ([]models.WasteSubmission, error)
	FindUpcoming(ctx context.Context, collectorID string, from time.Time, limit int) ([]models.WasteSubmission, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateWhereStatus(ctx context.Context, id int64, expected models.CollectionStatus, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteWhereStatus(ctx context.Context, id int64, expected models.CollectionStatus) (int64, error)
}

// submissionRepository is the GORM implementation of SubmissionRepository.
type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.WasteSubmission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("create submission: %w", translateError(err))
	}
	return nil
}

func (r *submissionRepository) FindByID(ctx context.Context, id int64) (*models.WasteSubmission, error) {
	var submission models.WasteSubmission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Barangay").
		First(&submission, "submission_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByUser(ctx context.Context, userID string) ([]models.WasteSubmission, error) {
	var submissions []models.WasteSubmission
	if err := r.db.WithContext(ctx).
		Preload("Barangay").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("list submissions by user: %w", err)
	}
	return submissions, nil
}

func (r *submissionRepository) FindPending(ctx context.Context, filters PendingFilters) ([]models.WasteSubmission, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Barangay").
		Where("collection_status = ?", models.StatusPending)

	// OR across values within each tag field
	if cond, args := tagMembershipClause("waste_types", filters.WasteTypes); cond != "" {
		q = q.Where(cond, args...)
	}
	if cond, args := tagMembershipClause("waste_adjectives", filters.WasteAdjectives); cond != "" {
		q = q.Where(cond, args...)
	}

	if filters.BarangayID != nil {
		q = q.Where("barangay_id = ?", *filters.BarangayID)
	}

	var submissions []models.WasteSubmission
	if err := q.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	return submissions, nil
}

// tagMembershipClause builds "tag column holds any of the given values" for a
// jsonb array column. Each value becomes a jsonb containment check, ORed.
func tagMembershipClause(column string, values []string) (string, []interface{}) {
	if len(values) == 0 {
		return "", nil
	}

	conds := make([]string, 0, len(values))
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		encoded, err := json.Marshal(v)
		if err != nil {
			continue
		}
		conds = append(conds, column+" @> ?::jsonb")
		args = append(args, string(encoded))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

func (r *submissionRepository) FindAssignedToCollector(ctx context.Context, collectorID string) ([]models.WasteSubmission, error) {
	var submissions []models.WasteSubmission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Barangay").
		Where("collector_id = ? AND collection_status IN ?", collectorID, []models.CollectionStatus{models.StatusScheduled, models.StatusCollected}).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("list assigned submissions: %w", err)
	}
	return submissions, nil
}

func (r *submissionRepository) FindTodaysRoutes(ctx context.Context, collectorID string, day time.Time) ([]models.WasteSubmission, error) {
	var submissions []models.WasteSubmission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Barangay").
		Where("collector_id = ? AND collection_status = ? AND scheduled_date = ?",
			collectorID, models.StatusScheduled, day.Format("2006-01-02")).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("list today's routes: %w", err)
	}
	return submissions, nil
}

func (r *submissionRepository) FindUpcoming(ctx context.Context, collectorID string, from time.Time, limit int) ([]models.WasteSubmission, error) {
	var submissions []models.WasteSubmission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Barangay").
		Where("collector_id = ? AND collection_status = ? AND scheduled_date >= ?",
			collectorID, models.StatusScheduled, from.Format("2006-01-02")).
		Order("scheduled_date ASC, created_at ASC").
		Limit(limit).
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("list upcoming collections: %w", err)
	}
	return submissions, nil
}

// Update applies a partial edit. Unrecognized fields are dropped; if nothing
// recognized remains the call fails with ErrNoUpdatableFields and the row is
// untouched.
func (r *submissionRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if submissionUpdatableFields[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return ErrNoUpdatableFields
	}

	result := r.db.WithContext(ctx).
		Model(&models.WasteSubmission{}).
		Where("submission_id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update submission: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateWhereStatus performs the status-guarded write backing workflow
// transitions: the precondition and the mutation run in one conditional
// UPDATE, so a concurrent actor that got there first leaves this call with
// zero rows affected.
func (r *submissionRepository) UpdateWhereStatus(ctx context.Context, id int64, expected models.CollectionStatus, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.WasteSubmission{}).
		Where("submission_id = ? AND collection_status = ?", id, expected).
		Updates(fields)
	if result.Error != nil {
		return 0, fmt.Errorf("transition submission: %w", translateError(result.Error))
	}
	return result.RowsAffected, nil
}

// Delete is a hard delete; blob cleanup is the caller's concern.
func (r *submissionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		Delete(&models.WasteSubmission{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete submission: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteWhereStatus removes the row only while it still holds the expected
// status. Like UpdateWhereStatus, a concurrent transition that got there
// first leaves this call with zero rows affected.
func (r *submissionRepository) DeleteWhereStatus(ctx context.Context, id int64, expected models.CollectionStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("submission_id = ? AND collection_status = ?", id, expected).
		Delete(&models.WasteSubmission{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete submission: %w", result.Error)
	}
	return result.RowsAffected, nil
}
