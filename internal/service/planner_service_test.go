package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/trip-planner-api/internal/dto"
	"github.com/voyago/trip-planner-api/internal/models"
	"github.com/voyago/trip-planner-api/internal/provider"
	"github.com/voyago/trip-planner-api/internal/scheduling"
	"github.com/voyago/trip-planner-api/pkg/config"
	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

type stubDestinations struct {
	destination *models.Destination
	err         error
}

func (s *stubDestinations) FindByID(_ context.Context, _ string) (*models.Destination, error) {
	return s.destination, s.err
}

type stubCatalog struct {
	activities []models.Activity
	err        error
}

func (s *stubCatalog) ListByDestination(_ context.Context, _ string) ([]models.Activity, error) {
	return s.activities, s.err
}

type stubFetcher struct {
	requested []string
	payloads  []provider.AvailabilityPayload
}

func (s *stubFetcher) FetchAll(_ context.Context, activityIDs []string) []provider.AvailabilityPayload {
	s.requested = append(s.requested, activityIDs...)
	return s.payloads
}

type stubCache struct {
	entries map[string]provider.AvailabilityPayload
	sets    int
}

func (s *stubCache) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*provider.AvailabilityPayload) = payload
	return nil
}

func (s *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.sets++
	if s.entries == nil {
		s.entries = map[string]provider.AvailabilityPayload{}
	}
	s.entries[key] = value.(provider.AvailabilityPayload)
	return nil
}

func plannerConfig() config.PlannerConfig {
	return config.PlannerConfig{MaxHorizonDays: 30, BufferSlots: 3, SolverTimeout: time.Second}
}

func newTestAdapter(t *testing.T) *scheduling.Adapter {
	t.Helper()
	adapter, err := scheduling.NewAdapter(scheduling.NewBranchBoundSolver(time.Second), 3, nil)
	require.NoError(t, err)
	return adapter
}

func mondayPayload(id string) provider.AvailabilityPayload {
	return provider.AvailabilityPayload{
		ActivityID:      id,
		Rating:          provider.RatingPayload{Average: 4.5, Count: 120},
		DurationMinutes: 60,
		Windows: []provider.WindowPayload{{
			SeasonStart: "2025-06-01",
			Weekdays:    []string{"MONDAY"},
			TimeEntries: []provider.TimeEntryPayload{{StartTime: "10:00"}},
		}},
	}
}

func tourActivity(providerID, title string) models.Activity {
	return models.Activity{
		ID:              "row-" + providerID,
		DestinationID:   "dest-1",
		ProviderID:      providerID,
		Title:           title,
		AvgRating:       4.0,
		ReviewCount:     10,
		DurationMinutes: 90,
		PriceAmount:     45,
		PriceCurrency:   "EUR",
		BookingURL:      "https://provider.example/" + providerID,
	}
}

func TestGeneratePlanSchedulesAvailableActivity(t *testing.T) {
	fetcher := &stubFetcher{payloads: []provider.AvailabilityPayload{mondayPayload("act-1")}}
	svc := NewPlannerService(
		&stubDestinations{destination: &models.Destination{ID: "dest-1", Name: "Lisbon"}},
		&stubCatalog{activities: []models.Activity{tourActivity("act-1", "Tram Tour")}},
		fetcher,
		nil,
		newTestAdapter(t),
		nil,
		plannerConfig(),
		time.Minute,
		nil, nil,
	)

	// 2025-07-07 is a Monday.
	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		DestinationID: "dest-1",
		StartDate:     "2025-07-07",
		EndDate:       "2025-07-09",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.NotEmpty(t, resp.PlanID)
	assert.Equal(t, "dest-1", resp.DestinationID)
	assert.Equal(t, 1, resp.Stats.CandidateCount)
	assert.Equal(t, 1, resp.Stats.ScheduledCount)
	assert.Equal(t, "OPTIMAL", resp.Stats.SolverStatus)

	require.Len(t, resp.Days, 3)
	require.Len(t, resp.Days[0].Activities, 1)
	assert.Empty(t, resp.Days[1].Activities)
	assert.Empty(t, resp.Days[2].Activities)

	placed := resp.Days[0].Activities[0]
	assert.Equal(t, "Tram Tour", placed.Title)
	assert.Equal(t, 60, placed.DurationMinutes)
	assert.Equal(t, 4.5, placed.Rating)
	assert.Equal(t, time.Date(2025, time.July, 7, 10, 0, 0, 0, time.UTC), placed.StartTimestamp)
	assert.Equal(t, time.Date(2025, time.July, 7, 11, 0, 0, 0, time.UTC), placed.EndTimestamp)
}

func TestGeneratePlanEmptyCatalogEmitsEmptyDays(t *testing.T) {
	svc := NewPlannerService(
		&stubDestinations{destination: &models.Destination{ID: "dest-1"}},
		&stubCatalog{},
		&stubFetcher{},
		nil,
		newTestAdapter(t),
		nil,
		plannerConfig(),
		time.Minute,
		nil, nil,
	)

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		DestinationID: "dest-1",
		StartDate:     "2025-07-07",
		EndDate:       "2025-07-08",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Stats.CandidateCount)
	assert.Equal(t, 0, resp.Stats.ScheduledCount)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-07-07", resp.Days[0].Date)
	assert.Empty(t, resp.Days[0].Activities)
	assert.Equal(t, "2025-07-08", resp.Days[1].Date)
	assert.Empty(t, resp.Days[1].Activities)
}

func TestGeneratePlanExcludesFailedFetches(t *testing.T) {
	// act-2 never comes back from the provider; the plan proceeds without it.
	fetcher := &stubFetcher{payloads: []provider.AvailabilityPayload{mondayPayload("act-1")}}
	svc := NewPlannerService(
		&stubDestinations{destination: &models.Destination{ID: "dest-1"}},
		&stubCatalog{activities: []models.Activity{
			tourActivity("act-1", "Tram Tour"),
			tourActivity("act-2", "Boat Trip"),
		}},
		fetcher,
		nil,
		newTestAdapter(t),
		nil,
		plannerConfig(),
		time.Minute,
		nil, nil,
	)

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		DestinationID: "dest-1",
		StartDate:     "2025-07-07",
		EndDate:       "2025-07-07",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"act-1", "act-2"}, fetcher.requested)
	assert.Equal(t, 1, resp.Stats.CandidateCount)
	assert.Equal(t, 1, resp.Stats.ScheduledCount)
}

func TestGeneratePlanUsesAvailabilityCache(t *testing.T) {
	cache := &stubCache{entries: map[string]provider.AvailabilityPayload{
		"availability:act-1": mondayPayload("act-1"),
	}}
	fetcher := &stubFetcher{payloads: []provider.AvailabilityPayload{mondayPayload("act-2")}}
	svc := NewPlannerService(
		&stubDestinations{destination: &models.Destination{ID: "dest-1"}},
		&stubCatalog{activities: []models.Activity{
			tourActivity("act-1", "Tram Tour"),
			tourActivity("act-2", "Boat Trip"),
		}},
		fetcher,
		cache,
		newTestAdapter(t),
		nil,
		plannerConfig(),
		time.Minute,
		nil, nil,
	)

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		DestinationID: "dest-1",
		StartDate:     "2025-07-07",
		EndDate:       "2025-07-08",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"act-2"}, fetcher.requested)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, resp.Stats.CandidateCount)
}

func TestGeneratePlanValidation(t *testing.T) {
	svc := NewPlannerService(
		&stubDestinations{destination: &models.Destination{ID: "dest-1"}},
		&stubCatalog{},
		&stubFetcher{},
		nil,
		newTestAdapter(t),
		nil,
		plannerConfig(),
		time.Minute,
		nil, nil,
	)

	cases := []struct {
		name string
		req  dto.GeneratePlanRequest
	}{
		{"missing destination", dto.GeneratePlanRequest{StartDate: "2025-07-07", EndDate: "2025-07-08"}},
		{"malformed start date", dto.GeneratePlanRequest{DestinationID: "dest-1", StartDate: "07/07/2025", EndDate: "2025-07-08"}},
		{"inverted range", dto.GeneratePlanRequest{DestinationID: "dest-1", StartDate: "2025-07-08", EndDate: "2025-07-07"}},
		{"horizon too long", dto.GeneratePlanRequest{DestinationID: "dest-1", StartDate: "2025-07-01", EndDate: "2025-08-15"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GeneratePlan(context.Background(), tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
}

func TestGeneratePlanDestinationNotFound(t *testing.T) {
	svc := NewPlannerService(
		&stubDestinations{err: sql.ErrNoRows},
		&stubCatalog{},
		&stubFetcher{},
		nil,
		newTestAdapter(t),
		nil,
		plannerConfig(),
		time.Minute,
		nil, nil,
	)

	_, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		DestinationID: "missing",
		StartDate:     "2025-07-07",
		EndDate:       "2025-07-08",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
