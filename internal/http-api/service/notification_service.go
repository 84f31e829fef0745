package service

import (
	"context"
	"errors"
	"log/slog"

	"basurahub/internal/http-api/models"
	"basurahub/internal/http-api/repository"

	"gorm.io/gorm"
)

const defaultNotificationLimit = 20

// NotifyResult reports what happened to a best-effort notification. Workflow
// callers are allowed to ignore it; the failure is already logged.
type NotifyResult struct {
	Notification *models.Notification
	Err          error
}

type NotificationService interface {
	// Notify inserts a notification for the user. Never fails the caller: an
	// insert error is logged and carried in the result only.
	Notify(ctx context.Context, userID string, scheduleID *int64, notificationType, message string) NotifyResult
	GetForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	// MarkRead flips is_read when the caller owns the notification and
	// silently no-ops (nil, nil) otherwise.
	MarkRead(ctx context.Context, userID string, id int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo   repository.NotificationRepository
	logger *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *slog.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, userID string, scheduleID *int64, notificationType, message string) NotifyResult {
	notification := &models.Notification{
		UserID:     userID,
		ScheduleID: scheduleID,
		Type:       notificationType,
		Message:    message,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("notification create failed",
			"user_id", userID, "type", notificationType, "error", err)
		return NotifyResult{Err: err}
	}
	return NotifyResult{Notification: notification}
}

func (s *notificationService) GetForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return s.repo.FindForUser(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, id int64) (*models.Notification, error) {
	rows, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// not this user's notification, or it doesn't exist
		return nil, nil
	}

	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
