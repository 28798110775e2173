package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/voyago/trip-planner-api/internal/models"
	"github.com/voyago/trip-planner-api/internal/provider"
	"github.com/voyago/trip-planner-api/internal/scheduling"
	"github.com/voyago/trip-planner-api/internal/service"
	"github.com/voyago/trip-planner-api/pkg/config"
)

type fixedDestinations struct{}

func (fixedDestinations) FindByID(_ context.Context, id string) (*models.Destination, error) {
	return &models.Destination{ID: id, Name: "Lisbon"}, nil
}

type fixedCatalog struct{}

func (fixedCatalog) ListByDestination(_ context.Context, destinationID string) ([]models.Activity, error) {
	return []models.Activity{{
		ID:            "row-1",
		DestinationID: destinationID,
		ProviderID:    "act-1",
		Title:         "Tram Tour",
		PriceCurrency: "EUR",
	}}, nil
}

type fixedFetcher struct{}

func (fixedFetcher) FetchAll(_ context.Context, activityIDs []string) []provider.AvailabilityPayload {
	payloads := make([]provider.AvailabilityPayload, 0, len(activityIDs))
	for _, id := range activityIDs {
		payloads = append(payloads, provider.AvailabilityPayload{
			ActivityID:      id,
			Rating:          provider.RatingPayload{Average: 4.5, Count: 80},
			DurationMinutes: 60,
			Windows: []provider.WindowPayload{{
				SeasonStart: "2025-01-01",
				Weekdays:    []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"},
				TimeEntries: []provider.TimeEntryPayload{{StartTime: "10:00"}},
			}},
		})
	}
	return payloads
}

func buildPlanRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adapter, err := scheduling.NewAdapter(scheduling.NewBranchBoundSolver(time.Second), 3, nil)
	require.NoError(t, err)

	planner := service.NewPlannerService(
		fixedDestinations{}, fixedCatalog{}, fixedFetcher{}, nil, adapter, nil,
		config.PlannerConfig{MaxHorizonDays: 30, BufferSlots: 3},
		time.Minute, nil, nil,
	)
	exporter := service.NewExportService(nil, nil, nil, nil)
	h := NewPlanHandler(planner, exporter)

	router := gin.New()
	router.POST("/plans", h.Generate)
	router.POST("/plans/export", h.Export)
	return router
}

func TestPlanHandlerGenerate(t *testing.T) {
	router := buildPlanRouter(t)

	body := `{"destinationId":"dest-1","startDate":"2025-07-07","endDate":"2025-07-09"}`
	req, _ := http.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"planId"`)
	require.Contains(t, resp.Body.String(), `"Tram Tour"`)
	require.Contains(t, resp.Body.String(), `"2025-07-09"`)
}

func TestPlanHandlerGenerateRejectsBadPayload(t *testing.T) {
	router := buildPlanRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(`{"destinationId":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPlanHandlerExportCSV(t *testing.T) {
	router := buildPlanRouter(t)

	body := `{"format":"csv","plan":{"planId":"p1","destinationId":"dest-1","startDate":"2025-07-07","endDate":"2025-07-07","days":[{"date":"2025-07-07","activities":[]}]}}`
	req, _ := http.NewRequest(http.MethodPost, "/plans/export", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	require.Contains(t, resp.Header().Get("Content-Disposition"), "itinerary_dest-1_2025-07-07.csv")
}
