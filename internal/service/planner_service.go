package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voyago/trip-planner-api/internal/dto"
	"github.com/voyago/trip-planner-api/internal/models"
	"github.com/voyago/trip-planner-api/internal/provider"
	"github.com/voyago/trip-planner-api/internal/scheduling"
	"github.com/voyago/trip-planner-api/pkg/config"
	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

type destinationReader interface {
	FindByID(ctx context.Context, id string) (*models.Destination, error)
}

type activityCatalog interface {
	ListByDestination(ctx context.Context, destinationID string) ([]models.Activity, error)
}

type availabilityFetcher interface {
	FetchAll(ctx context.Context, activityIDs []string) []provider.AvailabilityPayload
}

type availabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type scheduleBuilder interface {
	BuildSchedule(ctx context.Context, grid scheduling.Grid) (scheduling.Schedule, error)
}

// PlannerService runs the availability-to-itinerary pipeline: load the cached
// catalog, fetch per-activity availability, map it onto the time grid, solve,
// and assemble day plans.
type PlannerService struct {
	destinations destinationReader
	catalog      activityCatalog
	fetcher      availabilityFetcher
	cache        availabilityCache
	mapper       *scheduling.Mapper
	adapter      scheduleBuilder
	metrics      *MetricsService
	cfg          config.PlannerConfig
	cacheTTL     time.Duration
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewPlannerService wires the planning pipeline. The cache is optional; when
// nil every request fetches availability from the provider.
func NewPlannerService(
	destinations destinationReader,
	catalog activityCatalog,
	fetcher availabilityFetcher,
	cache availabilityCache,
	adapter scheduleBuilder,
	metrics *MetricsService,
	cfg config.PlannerConfig,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger *zap.Logger,
) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		destinations: destinations,
		catalog:      catalog,
		fetcher:      fetcher,
		cache:        cache,
		mapper:       scheduling.NewMapper(logger),
		adapter:      adapter,
		metrics:      metrics,
		cfg:          cfg,
		cacheTTL:     cacheTTL,
		validator:    validate,
		logger:       logger,
	}
}

func availabilityCacheKey(providerID string) string {
	return "availability:" + providerID
}

// GeneratePlan produces an itinerary for the requested destination and date
// range. Activities whose availability cannot be fetched are excluded rather
// than failing the whole plan; an empty catalog still yields one empty day
// plan per horizon day.
func (s *PlannerService) GeneratePlan(ctx context.Context, req dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan request")
	}
	startDate, err := time.Parse(scheduling.DateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be formatted as YYYY-MM-DD")
	}
	endDate, err := time.Parse(scheduling.DateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must be formatted as YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	horizon := int(endDate.Sub(startDate).Hours()/24) + 1
	if s.cfg.MaxHorizonDays > 0 && horizon > s.cfg.MaxHorizonDays {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("date range spans %d days, maximum is %d", horizon, s.cfg.MaxHorizonDays))
	}

	destination, err := s.destinations.FindByID(ctx, req.DestinationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "destination not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load destination")
	}

	catalog, err := s.catalog.ListByDestination(ctx, destination.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity catalog")
	}

	candidates := s.collectCandidates(ctx, catalog)

	grid := s.mapper.Build(candidates, startDate, endDate)
	solveStart := time.Now()
	schedule, err := s.adapter.BuildSchedule(ctx, grid)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSolve(schedule.Status.String(), time.Since(solveStart))

	var plans []scheduling.DayPlan
	if grid.Empty() {
		plans = emptyDayPlans(startDate, horizon)
	} else {
		plans, err = scheduling.AssembleDayPlans(candidates, grid, schedule)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.GeneratePlanResponse{
		PlanID:        uuid.NewString(),
		DestinationID: destination.ID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Days:          make([]dto.DayPlanResponse, 0, len(plans)),
		Stats: dto.PlanStats{
			CandidateCount: len(candidates),
			ScheduledCount: schedule.ScheduledCount(),
			SolverStatus:   schedule.Status.String(),
		},
	}
	for _, plan := range plans {
		day := dto.DayPlanResponse{
			Date:       plan.Date.Format(scheduling.DateLayout),
			Activities: make([]dto.PlannedActivity, 0, len(plan.Activities)),
		}
		for _, act := range plan.Activities {
			day.Activities = append(day.Activities, dto.PlannedActivity{
				ProviderID:      act.ProviderID,
				Title:           act.Title,
				Description:     act.Description,
				Rating:          act.AvgRating,
				ReviewCount:     act.ReviewCount,
				DurationMinutes: act.DurationMinutes,
				Price:           act.PriceAmount,
				Currency:        act.PriceCurrency,
				Images:          act.Images,
				BookingURL:      act.BookingURL,
				StartTimestamp:  act.Start,
				EndTimestamp:    act.End,
			})
		}
		resp.Days = append(resp.Days, day)
	}

	s.logger.Info("plan generated",
		zap.String("plan_id", resp.PlanID),
		zap.String("destination_id", destination.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("scheduled", resp.Stats.ScheduledCount),
		zap.String("solver_status", resp.Stats.SolverStatus))
	return resp, nil
}

// collectCandidates resolves availability for every catalog activity, reading
// the cache first and fetching the rest from the provider. Activities without
// a payload are dropped from planning.
func (s *PlannerService) collectCandidates(ctx context.Context, catalog []models.Activity) []scheduling.Activity {
	payloads := make(map[string]provider.AvailabilityPayload, len(catalog))
	var missing []string
	for _, activity := range catalog {
		if s.cache != nil {
			var cached provider.AvailabilityPayload
			if err := s.cache.Get(ctx, availabilityCacheKey(activity.ProviderID), &cached); err == nil {
				payloads[activity.ProviderID] = cached
				s.metrics.RecordCacheLookup(true)
				continue
			} else if !errors.Is(err, appErrors.ErrCacheMiss) {
				s.logger.Warn("availability cache read failed",
					zap.String("provider_id", activity.ProviderID), zap.Error(err))
			}
			s.metrics.RecordCacheLookup(false)
		}
		missing = append(missing, activity.ProviderID)
	}

	if len(missing) > 0 && s.fetcher != nil {
		for _, payload := range s.fetcher.FetchAll(ctx, missing) {
			payloads[payload.ActivityID] = payload
			if s.cache != nil {
				if err := s.cache.Set(ctx, availabilityCacheKey(payload.ActivityID), payload, s.cacheTTL); err != nil {
					s.logger.Warn("availability cache write failed",
						zap.String("provider_id", payload.ActivityID), zap.Error(err))
				}
			}
		}
	}

	candidates := make([]scheduling.Activity, 0, len(catalog))
	for _, activity := range catalog {
		payload, ok := payloads[activity.ProviderID]
		if !ok {
			s.metrics.RecordFetchExclusion()
			s.logger.Warn("excluding activity without availability",
				zap.String("provider_id", activity.ProviderID))
			continue
		}
		candidates = append(candidates, toCandidate(activity, payload))
	}
	return candidates
}

// toCandidate merges the cached catalog record with the live availability
// payload. Live rating and duration win over the cached copy when present.
func toCandidate(activity models.Activity, payload provider.AvailabilityPayload) scheduling.Activity {
	details := scheduling.ActivityDetails{
		ProviderID:      activity.ProviderID,
		Title:           activity.Title,
		Description:     activity.Description,
		AvgRating:       activity.AvgRating,
		ReviewCount:     activity.ReviewCount,
		DurationMinutes: activity.DurationMinutes,
		PriceAmount:     activity.PriceAmount,
		PriceCurrency:   activity.PriceCurrency,
		Images:          activity.Images,
		BookingURL:      activity.BookingURL,
	}
	rating := scheduling.Rating{Average: activity.AvgRating, Count: activity.ReviewCount}
	if payload.Rating.Count > 0 {
		rating = scheduling.Rating{Average: payload.Rating.Average, Count: payload.Rating.Count}
		details.AvgRating = payload.Rating.Average
		details.ReviewCount = payload.Rating.Count
	}
	if payload.DurationMinutes > 0 {
		details.DurationMinutes = payload.DurationMinutes
	}

	windows := make([]scheduling.Window, 0, len(payload.Windows))
	for _, w := range payload.Windows {
		window := scheduling.Window{
			SeasonStart: w.SeasonStart,
			Weekdays:    w.Weekdays,
			Entries:     make([]scheduling.TimeEntry, 0, len(w.TimeEntries)),
		}
		if w.SeasonEnd != nil {
			window.SeasonEnd = *w.SeasonEnd
		}
		for _, entry := range w.TimeEntries {
			window.Entries = append(window.Entries, scheduling.TimeEntry{
				StartTime:     entry.StartTime,
				BlackoutDates: entry.BlackoutDates,
			})
		}
		windows = append(windows, window)
	}
	return scheduling.Activity{Details: details, Rating: rating, Windows: windows}
}

func emptyDayPlans(start time.Time, horizon int) []scheduling.DayPlan {
	plans := make([]scheduling.DayPlan, horizon)
	for d := 0; d < horizon; d++ {
		plans[d] = scheduling.DayPlan{
			Date:       start.AddDate(0, 0, d),
			Activities: []scheduling.ScheduledActivity{},
		}
	}
	return plans
}
