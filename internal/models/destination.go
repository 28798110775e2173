package models

import "time"

// Destination represents a bookable travel destination.
type Destination struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Country     string    `db:"country" json:"country"`
	Timezone    string    `db:"timezone" json:"timezone"`
	Description string    `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DestinationFilter describes query params for listing destinations.
type DestinationFilter struct {
	Country   string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
