package dto

import "time"

// GeneratePlanRequest asks for an itinerary over an inclusive date range.
type GeneratePlanRequest struct {
	DestinationID string `json:"destinationId" validate:"required"`
	StartDate     string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// PlannedActivity is one scheduled activity inside a day plan.
type PlannedActivity struct {
	ProviderID      string    `json:"providerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"reviewCount"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	Images          []string  `json:"images"`
	BookingURL      string    `json:"bookingUrl"`
	StartTimestamp  time.Time `json:"startTimestamp"`
	EndTimestamp    time.Time `json:"endTimestamp"`
}

// DayPlanResponse lists the activities scheduled on one calendar day. Days
// without activities are present with an empty list.
type DayPlanResponse struct {
	Date       string            `json:"date"`
	Activities []PlannedActivity `json:"activities"`
}

// PlanStats summarises a planning run.
type PlanStats struct {
	CandidateCount int    `json:"candidateCount"`
	ScheduledCount int    `json:"scheduledCount"`
	SolverStatus   string `json:"solverStatus"`
}

// GeneratePlanResponse returns the assembled itinerary.
type GeneratePlanResponse struct {
	PlanID        string            `json:"planId"`
	DestinationID string            `json:"destinationId"`
	StartDate     string            `json:"startDate"`
	EndDate       string            `json:"endDate"`
	Days          []DayPlanResponse `json:"days"`
	Stats         PlanStats         `json:"stats"`
}

// ExportPlanRequest renders a previously generated plan to a document.
type ExportPlanRequest struct {
	Format string               `json:"format" validate:"required,oneof=pdf csv"`
	Plan   GeneratePlanResponse `json:"plan" validate:"required"`
}
