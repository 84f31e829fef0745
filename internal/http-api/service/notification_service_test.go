package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"basurahub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id int64) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id int64, userID string) (int64, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestNotificationService(repo *MockNotificationRepository) NotificationService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNotificationService(repo, logger)
}

func TestNotify_Success(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == "user-1" && n.Type == models.NotificationSystem
	})).Return(nil)

	result := svc.Notify(context.Background(), "user-1", nil, models.NotificationSystem, "hello")

	assert.NoError(t, result.Err)
	assert.NotNil(t, result.Notification)
	assert.Equal(t, "hello", result.Notification.Message)
}

func TestNotify_FailureIsCarriedNotRaised(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	result := svc.Notify(context.Background(), "user-1", nil, models.NotificationSystem, "hello")

	assert.Error(t, result.Err)
	assert.Nil(t, result.Notification)
}

func TestGetForUser_DefaultLimit(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)

	repo.On("FindForUser", mock.Anything, "user-1", defaultNotificationLimit).
		Return([]models.Notification{}, nil)

	_, err := svc.GetForUser(context.Background(), "user-1", 0)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMarkRead_Owned(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)

	repo.On("MarkRead", mock.Anything, int64(3), "user-1").Return(int64(1), nil)
	repo.On("FindByID", mock.Anything, int64(3)).
		Return(&models.Notification{ID: 3, UserID: "user-1", IsRead: true}, nil)

	notification, err := svc.MarkRead(context.Background(), "user-1", 3)

	assert.NoError(t, err)
	assert.True(t, notification.IsRead)
}

func TestMarkRead_ForeignNotificationNoOps(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)

	repo.On("MarkRead", mock.Anything, int64(3), "user-2").Return(int64(0), nil)

	notification, err := svc.MarkRead(context.Background(), "user-2", 3)

	assert.NoError(t, err)
	assert.Nil(t, notification)
	repo.AssertNotCalled(t, "FindByID")
}
