package service

import (
	"context"
	"errors"
	"fmt"

	"basurahub/internal/http-api/models"
	"basurahub/internal/http-api/repository"

	"gorm.io/gorm"
)

type LocationInput struct {
	BarangayName string
	Municipality string
	Province     string
	ZoneOrStreet *string
}

type LocationUpdateInput struct {
	BarangayName *string
	Municipality *string
	Province     *string
	ZoneOrStreet *string
}

type LocationService interface {
	List(ctx context.Context) ([]models.Location, error)
	Get(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, in LocationInput) (*models.Location, error)
	Update(ctx context.Context, id int64, in LocationUpdateInput) (*models.Location, error)
	Delete(ctx context.Context, id int64) error
}

type locationService struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func (s *locationService) List(ctx context.Context) ([]models.Location, error) {
	return s.repo.FindAll(ctx)
}

func (s *locationService) Get(ctx context.Context, id int64) (*models.Location, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return location, nil
}

func (s *locationService) Create(ctx context.Context, in LocationInput) (*models.Location, error) {
	if in.BarangayName == "" || in.Municipality == "" || in.Province == "" {
		return nil, fmt.Errorf("%w: barangay_name, municipality and province are required", ErrValidation)
	}

	location := &models.Location{
		BarangayName: in.BarangayName,
		Municipality: in.Municipality,
		Province:     in.Province,
		ZoneOrStreet: in.ZoneOrStreet,
	}
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *locationService) Update(ctx context.Context, id int64, in LocationUpdateInput) (*models.Location, error) {
	fields := map[string]interface{}{}
	if in.BarangayName != nil {
		fields["barangay_name"] = *in.BarangayName
	}
	if in.Municipality != nil {
		fields["municipality"] = *in.Municipality
	}
	if in.Province != nil {
		fields["province"] = *in.Province
	}
	if in.ZoneOrStreet != nil {
		fields["zone_or_street"] = *in.ZoneOrStreet
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoUpdatableFields):
			return nil, fmt.Errorf("%w: no updatable fields provided", ErrValidation)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *locationService) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return fmt.Errorf("%w: location is still referenced by schedules or users", ErrValidation)
		}
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
