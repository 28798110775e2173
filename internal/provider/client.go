package provider

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/voyago/trip-planner-api/pkg/config"
	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

// RatingPayload is the provider review summary.
type RatingPayload struct {
	Average float64 `json:"avg"`
	Count   int     `json:"count"`
}

// TimeEntryPayload is one daily start time with its blackout dates.
type TimeEntryPayload struct {
	StartTime     string   `json:"startTime"`
	BlackoutDates []string `json:"blackoutDates"`
}

// WindowPayload is one seasonal availability pattern.
type WindowPayload struct {
	SeasonStart string             `json:"seasonStart"`
	SeasonEnd   *string            `json:"seasonEnd"`
	Weekdays    []string           `json:"allowedWeekdays"`
	TimeEntries []TimeEntryPayload `json:"timeEntries"`
}

// AvailabilityPayload is the raw per-activity availability record.
type AvailabilityPayload struct {
	ActivityID      string          `json:"activityId"`
	Rating          RatingPayload   `json:"rating"`
	DurationMinutes int             `json:"durationMinutes"`
	Windows         []WindowPayload `json:"windows"`
}

// CatalogItem is one activity listing from the provider catalog.
type CatalogItem struct {
	ActivityID      string        `json:"activityId"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Rating          RatingPayload `json:"rating"`
	DurationMinutes int           `json:"durationMinutes"`
	PriceAmount     float64       `json:"priceAmount"`
	PriceCurrency   string        `json:"priceCurrency"`
	Images          []string      `json:"images"`
	BookingURL      string        `json:"bookingUrl"`
}

// Client talks to the upstream booking provider.
type Client struct {
	http    *resty.Client
	workers int
	logger  *zap.Logger
}

// NewClient configures the provider HTTP client.
func NewClient(cfg config.ProviderConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		http.SetHeader("X-Api-Key", cfg.APIKey)
	}
	workers := cfg.FetchWorkers
	if workers <= 0 {
		workers = 4
	}
	return &Client{http: http, workers: workers, logger: logger}
}

// FetchCatalog lists the provider's activities for a destination.
func (c *Client) FetchCatalog(ctx context.Context, destinationID string) ([]CatalogItem, error) {
	var items []CatalogItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&items).
		SetPathParam("destinationId", destinationID).
		Get("/destinations/{destinationId}/activities")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to fetch provider catalog")
	}
	if resp.IsError() {
		return nil, appErrors.Clone(appErrors.ErrUpstream,
			fmt.Sprintf("provider catalog returned status %d", resp.StatusCode()))
	}
	return items, nil
}

// FetchWindows loads the raw availability windows for one activity.
func (c *Client) FetchWindows(ctx context.Context, activityID string) (*AvailabilityPayload, error) {
	var payload AvailabilityPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		SetPathParam("activityId", activityID).
		Get("/activities/{activityId}/availability")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to fetch activity availability")
	}
	if resp.IsError() {
		return nil, appErrors.Clone(appErrors.ErrUpstream,
			fmt.Sprintf("provider availability returned status %d for activity %s", resp.StatusCode(), activityID))
	}
	if payload.ActivityID == "" {
		payload.ActivityID = activityID
	}
	return &payload, nil
}
