package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"basurahub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockScheduleRepository mocks the ScheduleRepository interface
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) FindByLocation(ctx context.Context, locationID int64) ([]models.Schedule, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) FindByUser(ctx context.Context, userID string) ([]models.Schedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestScheduleService(repo *MockScheduleRepository, userRepo *MockUserRepository) ScheduleService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// nil redis client means caching is off
	return NewScheduleService(repo, userRepo, nil, time.Hour, logger)
}

func TestNextCollectionDate(t *testing.T) {
	// Tuesday 2026-09-01
	from := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		day  string
		want string
	}{
		{"Wednesday", "2026-09-02"},
		{"Saturday", "2026-09-05"},
		{"Monday", "2026-09-07"},
		// same weekday rolls over to next week
		{"Tuesday", "2026-09-08"},
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			next, ok := nextCollectionDate(tt.day, from)
			assert.True(t, ok)
			assert.Equal(t, tt.want, next.Format("2006-01-02"))
		})
	}
}

func TestNextCollectionDate_UnknownDay(t *testing.T) {
	_, ok := nextCollectionDate("Someday", time.Now())
	assert.False(t, ok)
}

func TestUpcomingForUser_SortedByDate(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestScheduleService(repo, new(MockUserRepository))

	repo.On("FindByUser", mock.Anything, "user-1").Return([]models.Schedule{
		{ID: 1, CollectionDay: "Monday"},
		{ID: 2, CollectionDay: "Wednesday"},
		{ID: 3, CollectionDay: "Friday"},
	}, nil)

	upcoming, err := svc.UpcomingForUser(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, upcoming, 3)
	for i := 1; i < len(upcoming); i++ {
		assert.LessOrEqual(t, upcoming[i-1].NextCollectionDate, upcoming[i].NextCollectionDate)
	}
}

func TestByLocation_ResidentOwnArea(t *testing.T) {
	repo := new(MockScheduleRepository)
	userRepo := new(MockUserRepository)
	svc := newTestScheduleService(repo, userRepo)

	barangay := int64(7)
	userRepo.On("FindByID", mock.Anything, "resident-1").
		Return(&models.User{ID: "resident-1", Role: models.RoleResident, BarangayID: &barangay}, nil)
	repo.On("FindByLocation", mock.Anything, int64(7)).Return([]models.Schedule{{ID: 1, LocationID: 7}}, nil)

	schedules, err := svc.ByLocation(context.Background(), "resident-1", models.RoleResident, 7)

	assert.NoError(t, err)
	assert.Len(t, schedules, 1)
}

func TestByLocation_ResidentOtherAreaForbidden(t *testing.T) {
	repo := new(MockScheduleRepository)
	userRepo := new(MockUserRepository)
	svc := newTestScheduleService(repo, userRepo)

	barangay := int64(7)
	userRepo.On("FindByID", mock.Anything, "resident-1").
		Return(&models.User{ID: "resident-1", Role: models.RoleResident, BarangayID: &barangay}, nil)

	_, err := svc.ByLocation(context.Background(), "resident-1", models.RoleResident, 8)

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "FindByLocation")
}

func TestByLocation_CollectorAnyArea(t *testing.T) {
	repo := new(MockScheduleRepository)
	userRepo := new(MockUserRepository)
	svc := newTestScheduleService(repo, userRepo)

	repo.On("FindByLocation", mock.Anything, int64(8)).Return([]models.Schedule{}, nil)

	_, err := svc.ByLocation(context.Background(), "collector-1", models.RoleCollector, 8)

	assert.NoError(t, err)
	userRepo.AssertNotCalled(t, "FindByID")
}

func TestCreateSchedule_InvalidDay(t *testing.T) {
	svc := newTestScheduleService(new(MockScheduleRepository), new(MockUserRepository))

	_, err := svc.Create(context.Background(), "admin-1", ScheduleInput{
		LocationID:     1,
		CollectionDay:  "Funday",
		CollectionTime: "07:00",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSchedule_InvalidTime(t *testing.T) {
	svc := newTestScheduleService(new(MockScheduleRepository), new(MockUserRepository))

	_, err := svc.Create(context.Background(), "admin-1", ScheduleInput{
		LocationID:     1,
		CollectionDay:  "Monday",
		CollectionTime: "late morning",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSchedule_Success(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestScheduleService(repo, new(MockUserRepository))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *models.Schedule) bool {
		return s.LocationID == 1 && s.CollectionDay == "Monday" && s.WasteType == "mixed" && s.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Schedule).ID = 5
	}).Return(nil)
	repo.On("FindByID", mock.Anything, int64(5)).Return(&models.Schedule{ID: 5, LocationID: 1}, nil)

	schedule, err := svc.Create(context.Background(), "admin-1", ScheduleInput{
		LocationID:     1,
		CollectionDay:  "Monday",
		CollectionTime: "07:00",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(5), schedule.ID)
	repo.AssertExpectations(t)
}
