package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"basurahub/internal/http-api/models"
	"basurahub/internal/http-api/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UpcomingSchedule decorates a schedule with its next concrete occurrence.
type UpcomingSchedule struct {
	models.Schedule
	NextCollectionDate string `json:"next_collection_date"`
}

type ScheduleInput struct {
	LocationID     int64
	CollectionDay  string
	CollectionTime string // "15:04" or "15:04:05"
	WasteType      string
}

type ScheduleUpdateInput struct {
	LocationID     *int64
	CollectionDay  *string
	CollectionTime *string
	WasteType      *string
	IsActive       *bool
}

// ScheduleService is the read-mostly collection-calendar directory. Residents
// may only read their own area's schedules; location reads go through a redis
// cache because the data changes rarely.
type ScheduleService interface {
	UpcomingForUser(ctx context.Context, userID string) ([]UpcomingSchedule, error)
	ForUser(ctx context.Context, userID string) ([]models.Schedule, error)
	ByLocation(ctx context.Context, actorID, role string, locationID int64) ([]models.Schedule, error)
	Create(ctx context.Context, createdBy string, in ScheduleInput) (*models.Schedule, error)
	Update(ctx context.Context, id int64, in ScheduleUpdateInput) (*models.Schedule, error)
	Delete(ctx context.Context, id int64) error
}

type scheduleService struct {
	repo     repository.ScheduleRepository
	userRepo repository.UserRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	userRepo repository.UserRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		repo:     repo,
		userRepo: userRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func scheduleCacheKey(locationID int64) string {
	return fmt.Sprintf("schedules:location:%d", locationID)
}

func (s *scheduleService) UpcomingForUser(ctx context.Context, userID string) ([]UpcomingSchedule, error) {
	schedules, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	upcoming := make([]UpcomingSchedule, 0, len(schedules))
	for _, schedule := range schedules {
		next, ok := nextCollectionDate(schedule.CollectionDay, now)
		if !ok {
			continue
		}
		upcoming = append(upcoming, UpcomingSchedule{
			Schedule:           schedule,
			NextCollectionDate: next.Format("2006-01-02"),
		})
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].NextCollectionDate < upcoming[j].NextCollectionDate
	})
	return upcoming, nil
}

// nextCollectionDate finds the next occurrence of the weekday strictly after
// today; a collection day equal to today's weekday means next week.
func nextCollectionDate(day string, from time.Time) (time.Time, bool) {
	target := -1
	for i, d := range []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		if d == day {
			target = i
			break
		}
	}
	if target < 0 {
		return time.Time{}, false
	}

	delta := target - int(from.Weekday())
	if delta <= 0 {
		delta += 7
	}
	return from.AddDate(0, 0, delta), true
}

func (s *scheduleService) ForUser(ctx context.Context, userID string) ([]models.Schedule, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *scheduleService) ByLocation(ctx context.Context, actorID, role string, locationID int64) ([]models.Schedule, error) {
	// residents may only view their own area's schedule
	if role == models.RoleResident {
		user, err := s.userRepo.FindByID(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("resolve resident area: %w", err)
		}
		if user.BarangayID == nil || *user.BarangayID != locationID {
			return nil, fmt.Errorf("%w: not authorized to view schedules for this location", ErrForbidden)
		}
	}

	if cached, ok := s.fromCache(ctx, locationID); ok {
		return cached, nil
	}

	schedules, err := s.repo.FindByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, locationID, schedules)
	return schedules, nil
}

func (s *scheduleService) fromCache(ctx context.Context, locationID int64) ([]models.Schedule, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, scheduleCacheKey(locationID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("schedule cache read failed", "location_id", locationID, "error", err)
		}
		return nil, false
	}

	var schedules []models.Schedule
	if err := json.Unmarshal(raw, &schedules); err != nil {
		return nil, false
	}
	return schedules, true
}

func (s *scheduleService) toCache(ctx context.Context, locationID int64, schedules []models.Schedule) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(schedules)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, scheduleCacheKey(locationID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("schedule cache write failed", "location_id", locationID, "error", err)
	}
}

func (s *scheduleService) invalidate(ctx context.Context, locationID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, scheduleCacheKey(locationID)).Err(); err != nil {
		s.logger.Debug("schedule cache invalidation failed", "location_id", locationID, "error", err)
	}
}

func (s *scheduleService) Create(ctx context.Context, createdBy string, in ScheduleInput) (*models.Schedule, error) {
	if !validCollectionDay(in.CollectionDay) {
		return nil, fmt.Errorf("%w: collection_day must be a weekday name", ErrValidation)
	}
	collectionTime, err := parseCollectionTime(in.CollectionTime)
	if err != nil {
		return nil, fmt.Errorf("%w: collection_time must be HH:MM", ErrValidation)
	}

	wasteType := in.WasteType
	if wasteType == "" {
		wasteType = "mixed"
	}

	schedule := &models.Schedule{
		LocationID:     in.LocationID,
		CollectionDay:  in.CollectionDay,
		CollectionTime: collectionTime,
		WasteType:      wasteType,
		IsActive:       true,
		CreatedBy:      createdBy,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, fmt.Errorf("%w: unknown location", ErrValidation)
		}
		return nil, err
	}

	s.invalidate(ctx, in.LocationID)
	return s.repo.FindByID(ctx, schedule.ID)
}

func (s *scheduleService) Update(ctx context.Context, id int64, in ScheduleUpdateInput) (*models.Schedule, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.LocationID != nil {
		fields["location_id"] = *in.LocationID
	}
	if in.CollectionDay != nil {
		if !validCollectionDay(*in.CollectionDay) {
			return nil, fmt.Errorf("%w: collection_day must be a weekday name", ErrValidation)
		}
		fields["collection_day"] = *in.CollectionDay
	}
	if in.CollectionTime != nil {
		collectionTime, err := parseCollectionTime(*in.CollectionTime)
		if err != nil {
			return nil, fmt.Errorf("%w: collection_time must be HH:MM", ErrValidation)
		}
		fields["collection_time"] = collectionTime
	}
	if in.WasteType != nil {
		fields["waste_type"] = *in.WasteType
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// both old and (possibly) new location entries are stale now
	s.invalidate(ctx, existing.LocationID)
	if in.LocationID != nil && *in.LocationID != existing.LocationID {
		s.invalidate(ctx, *in.LocationID)
	}

	return s.repo.FindByID(ctx, id)
}

func (s *scheduleService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.invalidate(ctx, existing.LocationID)
	return nil
}

func validCollectionDay(day string) bool {
	for _, d := range models.CollectionDays {
		if d == day {
			return true
		}
	}
	return false
}

func parseCollectionTime(value string) (datatypes.Time, error) {
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		t, err = time.Parse("15:04", value)
		if err != nil {
			return datatypes.Time(0), err
		}
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
}
