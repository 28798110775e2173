package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voyago/trip-planner-api/internal/models"
	"github.com/voyago/trip-planner-api/internal/provider"
	"github.com/voyago/trip-planner-api/pkg/config"
	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

type catalogSource interface {
	FetchCatalog(ctx context.Context, destinationID string) ([]provider.CatalogItem, error)
}

type activityWriter interface {
	Upsert(ctx context.Context, activity *models.Activity) error
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CatalogSyncService refreshes the local activity mirror from the booking
// provider. It runs on a schedule and can be triggered per destination.
type CatalogSyncService struct {
	destinations destinationRepository
	source       catalogSource
	writer       activityWriter
	cache        cacheInvalidator
	retries      int
	logger       *zap.Logger
}

// SyncResult summarises one catalog refresh run.
type SyncResult struct {
	Destinations int `json:"destinations"`
	Upserted     int `json:"upserted"`
	Failed       int `json:"failed"`
}

// NewCatalogSyncService instantiates CatalogSyncService.
func NewCatalogSyncService(
	destinations destinationRepository,
	source catalogSource,
	writer activityWriter,
	cache cacheInvalidator,
	cfg config.CatalogConfig,
	logger *zap.Logger,
) *CatalogSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	retries := cfg.SyncRetries
	if retries < 0 {
		retries = 0
	}
	return &CatalogSyncService{
		destinations: destinations,
		source:       source,
		writer:       writer,
		cache:        cache,
		retries:      retries,
		logger:       logger,
	}
}

// SyncAll refreshes every known destination. Destination failures are counted
// and logged but do not abort the run.
func (s *CatalogSyncService) SyncAll(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{}
	page := 1
	for {
		destinations, total, err := s.destinations.List(ctx, models.DestinationFilter{Page: page, PageSize: 100})
		if err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list destinations for sync")
		}
		for _, destination := range destinations {
			result.Destinations++
			upserted, err := s.SyncDestination(ctx, destination.ID)
			if err != nil {
				result.Failed++
				s.logger.Warn("catalog sync failed for destination",
					zap.String("destination_id", destination.ID), zap.Error(err))
				continue
			}
			result.Upserted += upserted
		}
		if page*100 >= total || len(destinations) == 0 {
			break
		}
		page++
	}
	s.logger.Info("catalog sync complete",
		zap.Int("destinations", result.Destinations),
		zap.Int("upserted", result.Upserted),
		zap.Int("failed", result.Failed))
	return result, nil
}

// SyncDestination mirrors the provider catalog for one destination and
// invalidates the cached availability of its activities.
func (s *CatalogSyncService) SyncDestination(ctx context.Context, destinationID string) (int, error) {
	items, err := s.fetchWithRetry(ctx, destinationID)
	if err != nil {
		return 0, err
	}

	upserted := 0
	for _, item := range items {
		activity := &models.Activity{
			DestinationID:   destinationID,
			ProviderID:      item.ActivityID,
			Title:           item.Title,
			Description:     item.Description,
			AvgRating:       item.Rating.Average,
			ReviewCount:     item.Rating.Count,
			DurationMinutes: item.DurationMinutes,
			PriceAmount:     item.PriceAmount,
			PriceCurrency:   item.PriceCurrency,
			Images:          item.Images,
			BookingURL:      item.BookingURL,
		}
		if err := s.writer.Upsert(ctx, activity); err != nil {
			s.logger.Warn("failed to upsert activity",
				zap.String("destination_id", destinationID),
				zap.String("provider_id", item.ActivityID),
				zap.Error(err))
			continue
		}
		upserted++
		if s.cache != nil {
			if err := s.cache.DeleteByPattern(ctx, availabilityCacheKey(item.ActivityID)); err != nil {
				s.logger.Warn("failed to invalidate cached availability",
					zap.String("provider_id", item.ActivityID), zap.Error(err))
			}
		}
	}
	return upserted, nil
}

func (s *CatalogSyncService) fetchWithRetry(ctx context.Context, destinationID string) ([]provider.CatalogItem, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		items, err := s.source.FetchCatalog(ctx, destinationID)
		if err == nil {
			return items, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("catalog fetch for %s exhausted retries: %w", destinationID, lastErr)
}
