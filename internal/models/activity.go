package models

import (
	"time"

	"github.com/lib/pq"
)

// Activity is a locally cached catalog record mirrored from the booking provider.
// Availability windows are not stored here; they are fetched per request.
type Activity struct {
	ID              string         `db:"id" json:"id"`
	DestinationID   string         `db:"destination_id" json:"destination_id"`
	ProviderID      string         `db:"provider_id" json:"provider_id"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	AvgRating       float64        `db:"avg_rating" json:"avg_rating"`
	ReviewCount     int            `db:"review_count" json:"review_count"`
	DurationMinutes int            `db:"duration_minutes" json:"duration_minutes"`
	PriceAmount     float64        `db:"price_amount" json:"price_amount"`
	PriceCurrency   string         `db:"price_currency" json:"price_currency"`
	Images          pq.StringArray `db:"images" json:"images"`
	BookingURL      string         `db:"booking_url" json:"booking_url"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// ActivityFilter describes query params for listing cached activities.
type ActivityFilter struct {
	DestinationID string
	Search        string
	MinRating     float64
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
