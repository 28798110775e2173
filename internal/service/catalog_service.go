package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/voyago/trip-planner-api/internal/models"
	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

type destinationRepository interface {
	List(ctx context.Context, filter models.DestinationFilter) ([]models.Destination, int, error)
	FindByID(ctx context.Context, id string) (*models.Destination, error)
}

type activityRepository interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error)
	FindByID(ctx context.Context, id string) (*models.Activity, error)
}

// CatalogService exposes the locally mirrored destination and activity catalog.
type CatalogService struct {
	destinations destinationRepository
	activities   activityRepository
	logger       *zap.Logger
}

// NewCatalogService instantiates CatalogService.
func NewCatalogService(destinations destinationRepository, activities activityRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{destinations: destinations, activities: activities, logger: logger}
}

// ListDestinations returns destinations with pagination metadata.
func (s *CatalogService) ListDestinations(ctx context.Context, filter models.DestinationFilter) ([]models.Destination, *models.Pagination, error) {
	destinations, total, err := s.destinations.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list destinations")
	}
	return destinations, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetDestination loads one destination by ID.
func (s *CatalogService) GetDestination(ctx context.Context, id string) (*models.Destination, error) {
	destination, err := s.destinations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "destination not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load destination")
	}
	return destination, nil
}

// ListActivities returns cached activities matching the filter.
func (s *CatalogService) ListActivities(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, *models.Pagination, error) {
	activities, total, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	return activities, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetActivity loads one cached activity by ID.
func (s *CatalogService) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	return activity, nil
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
