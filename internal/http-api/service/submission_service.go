package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"basurahub/internal/http-api/models"
	"basurahub/internal/http-api/repository"
	"basurahub/internal/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrForbidden         = errors.New("not authorized for this action")
	ErrInvalidTransition = errors.New("submission state does not allow this action")
	ErrValidation        = errors.New("invalid payload")
)

const maxImageBytes = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// SubmitInput carries a resident's pickup request. Image is optional.
type SubmitInput struct {
	PredictedCategory  *string
	ConfidenceScore    *float64
	ConfirmedCategory  *string
	WasteTypes         []string
	WasteAdjectives    []string
	WasteDescription   string
	Latitude           *float64
	Longitude          *float64
	AddressDescription string
	BarangayID         *int64
	Image              io.Reader
	ImageName          string
	ImageSize          int64
}

// UpdateInput is a partial, non-transition edit. Nil fields are untouched.
type UpdateInput struct {
	ConfirmedCategory  *string
	WasteTypes         []string
	WasteAdjectives    []string
	WasteDescription   *string
	AddressDescription *string
	BarangayID         *int64
	Latitude           *float64
	Longitude          *float64
	ScheduledDate      *time.Time // admins only
}

// SubmissionService is the claim-workflow state machine over waste
// submissions: pending -> scheduled -> collected, with cancellation removing
// the row entirely while still pending.
type SubmissionService interface {
	Submit(ctx context.Context, userID string, in SubmitInput) (*models.WasteSubmission, error)
	GetByID(ctx context.Context, id int64) (*models.WasteSubmission, error)
	ListPending(ctx context.Context, filters repository.PendingFilters) ([]models.WasteSubmission, error)
	ListOwnedBy(ctx context.Context, userID string) ([]models.WasteSubmission, error)
	ListAssignedTo(ctx context.Context, collectorID string) ([]models.WasteSubmission, error)
	TodaysRoutes(ctx context.Context, collectorID string) ([]models.WasteSubmission, error)
	UpcomingCollections(ctx context.Context, collectorID string) ([]models.WasteSubmission, error)
	Accept(ctx context.Context, actorID, role string, id int64) (*models.WasteSubmission, error)
	Complete(ctx context.Context, actorID, role string, id int64) (*models.WasteSubmission, error)
	Cancel(ctx context.Context, actorID, role string, id int64) error
	Update(ctx context.Context, actorID, role string, id int64, in UpdateInput) (*models.WasteSubmission, error)
}

type submissionService struct {
	repo     repository.SubmissionRepository
	notifier NotificationService
	blobs    storage.BlobStore
	logger   *slog.Logger
}

func NewSubmissionService(
	repo repository.SubmissionRepository,
	notifier NotificationService,
	blobs storage.BlobStore,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		repo:     repo,
		notifier: notifier,
		blobs:    blobs,
		logger:   logger,
	}
}

func (s *submissionService) Submit(ctx context.Context, userID string, in SubmitInput) (*models.WasteSubmission, error) {
	// validation happens before any persistence call
	if len(in.WasteTypes) == 0 && in.ConfirmedCategory == nil && in.PredictedCategory == nil {
		return nil, fmt.Errorf("%w: at least one waste type or a category is required", ErrValidation)
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be provided together", ErrValidation)
	}

	var imagePath *string
	if in.Image != nil {
		if !allowedImageExts[strings.ToLower(filepath.Ext(in.ImageName))] {
			return nil, fmt.Errorf("%w: only jpg, jpeg, png, gif and webp images are accepted", ErrValidation)
		}
		if in.ImageSize > maxImageBytes {
			return nil, fmt.Errorf("%w: image must be 5MB or smaller", ErrValidation)
		}
		path, err := s.blobs.Save(ctx, in.ImageName, in.Image)
		if err != nil {
			return nil, fmt.Errorf("store submission image: %w", err)
		}
		imagePath = &path
	}

	submission := &models.WasteSubmission{
		UserID:             userID,
		ImagePath:          imagePath,
		PredictedCategory:  in.PredictedCategory,
		ConfidenceScore:    in.ConfidenceScore,
		ConfirmedCategory:  in.ConfirmedCategory,
		WasteTypes:         models.StringList(in.WasteTypes),
		WasteAdjectives:    models.StringList(in.WasteAdjectives),
		WasteDescription:   in.WasteDescription,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		AddressDescription: in.AddressDescription,
		BarangayID:         in.BarangayID,
		CollectionStatus:   models.StatusPending,
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		// the row is the source of truth; an orphaned blob is only cleanup
		if imagePath != nil {
			if cleanupErr := s.blobs.Delete(ctx, *imagePath); cleanupErr != nil {
				s.logger.Warn("orphaned submission image not cleaned up",
					"path", *imagePath, "error", cleanupErr)
			}
		}
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, fmt.Errorf("%w: unknown barangay", ErrValidation)
		}
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, submission.ID)
	if err != nil {
		return submission, nil
	}
	return created, nil
}

func (s *submissionService) GetByID(ctx context.Context, id int64) (*models.WasteSubmission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return submission, nil
}

func (s *submissionService) ListPending(ctx context.Context, filters repository.PendingFilters) ([]models.WasteSubmission, error) {
	return s.repo.FindPending(ctx, filters)
}

func (s *submissionService) ListOwnedBy(ctx context.Context, userID string) ([]models.WasteSubmission, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *submissionService) ListAssignedTo(ctx context.Context, collectorID string) ([]models.WasteSubmission, error) {
	return s.repo.FindAssignedToCollector(ctx, collectorID)
}

func (s *submissionService) TodaysRoutes(ctx context.Context, collectorID string) ([]models.WasteSubmission, error) {
	return s.repo.FindTodaysRoutes(ctx, collectorID, time.Now())
}

func (s *submissionService) UpcomingCollections(ctx context.Context, collectorID string) ([]models.WasteSubmission, error) {
	return s.repo.FindUpcoming(ctx, collectorID, time.Now(), 10)
}

// Accept claims a pending submission for the acting collector. The status
// precondition is re-checked inside the conditional update, so of two
// concurrent accepts exactly one wins and the other surfaces
// ErrInvalidTransition.
func (s *submissionService) Accept(ctx context.Context, actorID, role string, id int64) (*models.WasteSubmission, error) {
	if role != models.RoleCollector && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only collectors or admins can accept submissions", ErrForbidden)
	}

	submission, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if submission.CollectionStatus != models.StatusPending {
		return nil, fmt.Errorf("%w: only pending submissions can be accepted", ErrInvalidTransition)
	}

	rows, err := s.repo.UpdateWhereStatus(ctx, id, models.StatusPending, map[string]interface{}{
		"collection_status": models.StatusScheduled,
		"collector_id":      actorID,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// claimed by a concurrent actor between our read and the write
		return nil, fmt.Errorf("%w: submission already claimed", ErrInvalidTransition)
	}

	s.notifier.Notify(ctx, submission.UserID, nil, models.NotificationScheduleChange,
		"Your waste collection request has been accepted and scheduled.")

	return s.GetByID(ctx, id)
}

// Complete marks a scheduled submission as collected. Only the assigned
// collector or an admin may complete.
func (s *submissionService) Complete(ctx context.Context, actorID, role string, id int64) (*models.WasteSubmission, error) {
	submission, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isAssignedCollector := role == models.RoleCollector &&
		submission.CollectorID != nil && *submission.CollectorID == actorID
	if !isAssignedCollector && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only the assigned collector or an admin can complete this submission", ErrForbidden)
	}

	if submission.CollectionStatus != models.StatusScheduled {
		return nil, fmt.Errorf("%w: only scheduled submissions can be marked as collected", ErrInvalidTransition)
	}

	rows, err := s.repo.UpdateWhereStatus(ctx, id, models.StatusScheduled, map[string]interface{}{
		"collection_status": models.StatusCollected,
		"collected_at":      time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: submission is no longer scheduled", ErrInvalidTransition)
	}

	s.notifier.Notify(ctx, submission.UserID, nil, models.NotificationSystem,
		"Your waste collection request has been marked as collected. Thank you for participating!")

	return s.GetByID(ctx, id)
}

// Cancel removes the submission row and its image. Residents can only cancel
// their own pending submissions; admins can remove any submission.
func (s *submissionService) Cancel(ctx context.Context, actorID, role string, id int64) error {
	submission, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isOwner := submission.UserID == actorID
	isAdmin := role == models.RoleAdmin
	if !isOwner && !isAdmin {
		return fmt.Errorf("%w: not authorized to cancel this submission", ErrForbidden)
	}
	if isOwner && !isAdmin && submission.CollectionStatus != models.StatusPending {
		return fmt.Errorf("%w: only pending submissions can be cancelled", ErrInvalidTransition)
	}

	// non-admin deletes re-check the pending precondition inside the
	// conditional delete, so a concurrent accept that wins between the read
	// and the delete keeps the claimed row
	var rows int64
	if isAdmin {
		rows, err = s.repo.Delete(ctx, id)
	} else {
		rows, err = s.repo.DeleteWhereStatus(ctx, id, models.StatusPending)
	}
	if err != nil {
		return err
	}
	if rows == 0 {
		if !isAdmin {
			return fmt.Errorf("%w: submission was claimed before it could be cancelled", ErrInvalidTransition)
		}
		return ErrNotFound
	}

	// blob delete is best-effort and only runs once the row is gone; a failed
	// blob delete never surfaces to the caller
	if submission.ImagePath != nil {
		if err := s.blobs.Delete(ctx, *submission.ImagePath); err != nil {
			s.logger.Warn("submission image not deleted",
				"submission_id", id, "path", *submission.ImagePath, "error", err)
		}
	}
	return nil
}

// Update applies a non-transition edit; status and assignment never change
// through this path.
func (s *submissionService) Update(ctx context.Context, actorID, role string, id int64, in UpdateInput) (*models.WasteSubmission, error) {
	submission, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isAdmin := role == models.RoleAdmin
	if submission.UserID != actorID && !isAdmin {
		return nil, fmt.Errorf("%w: not authorized to update this submission", ErrForbidden)
	}

	fields := map[string]interface{}{}
	if in.ConfirmedCategory != nil {
		fields["confirmed_category"] = *in.ConfirmedCategory
	}
	if in.WasteTypes != nil {
		fields["waste_types"] = models.StringList(in.WasteTypes)
	}
	if in.WasteAdjectives != nil {
		fields["waste_adjectives"] = models.StringList(in.WasteAdjectives)
	}
	if in.WasteDescription != nil {
		fields["waste_description"] = *in.WasteDescription
	}
	if in.AddressDescription != nil {
		fields["address_description"] = *in.AddressDescription
	}
	if in.BarangayID != nil {
		fields["barangay_id"] = *in.BarangayID
	}
	if in.Latitude != nil {
		fields["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		fields["longitude"] = *in.Longitude
	}
	if in.ScheduledDate != nil && isAdmin {
		fields["scheduled_date"] = datatypes.Date(*in.ScheduledDate)
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, fmt.Errorf("%w: unknown barangay", ErrValidation)
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}
