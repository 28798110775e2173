package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voyago/trip-planner-api/internal/models"
)

// ActivityRepository persists the locally cached activity catalog.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = "id, destination_id, provider_id, title, description, avg_rating, review_count, duration_minutes, price_amount, price_currency, images, booking_url, created_at, updated_at"

// List returns cached activities with optional filtering and pagination.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error) {
	base := "FROM activities WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DestinationID != "" {
		conditions = append(conditions, fmt.Sprintf("destination_id = $%d", len(args)+1))
		args = append(args, filter.DestinationID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.MinRating > 0 {
		conditions = append(conditions, fmt.Sprintf("avg_rating >= $%d", len(args)+1))
		args = append(args, filter.MinRating)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"title":            true,
		"avg_rating":       true,
		"duration_minutes": true,
		"price_amount":     true,
		"created_at":       true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "avg_rating"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", activityColumns, base, sortBy, order, size, offset)
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}

	return activities, total, nil
}

// ListByDestination returns every cached activity for a destination, in a
// stable provider id order.
func (r *ActivityRepository) ListByDestination(ctx context.Context, destinationID string) ([]models.Activity, error) {
	query := fmt.Sprintf("SELECT %s FROM activities WHERE destination_id = $1 ORDER BY provider_id", activityColumns)
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, destinationID); err != nil {
		return nil, fmt.Errorf("list activities by destination: %w", err)
	}
	return activities, nil
}

// FindByID loads a cached activity by id.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	query := fmt.Sprintf("SELECT %s FROM activities WHERE id = $1", activityColumns)
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Upsert inserts or refreshes a cached catalog record keyed by provider id.
func (r *ActivityRepository) Upsert(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO activities (id, destination_id, provider_id, title, description, avg_rating, review_count, duration_minutes, price_amount, price_currency, images, booking_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (destination_id, provider_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			avg_rating = EXCLUDED.avg_rating,
			review_count = EXCLUDED.review_count,
			duration_minutes = EXCLUDED.duration_minutes,
			price_amount = EXCLUDED.price_amount,
			price_currency = EXCLUDED.price_currency,
			images = EXCLUDED.images,
			booking_url = EXCLUDED.booking_url,
			updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query,
		activity.ID,
		activity.DestinationID,
		activity.ProviderID,
		activity.Title,
		activity.Description,
		activity.AvgRating,
		activity.ReviewCount,
		activity.DurationMinutes,
		activity.PriceAmount,
		activity.PriceCurrency,
		activity.Images,
		activity.BookingURL,
	); err != nil {
		return fmt.Errorf("upsert activity: %w", err)
	}
	return nil
}
