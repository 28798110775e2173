package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/voyago/trip-planner-api/internal/models"
)

// DestinationRepository provides persistence for destinations.
type DestinationRepository struct {
	db *sqlx.DB
}

// NewDestinationRepository creates a new destination repository.
func NewDestinationRepository(db *sqlx.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

// List returns destinations with optional filtering and pagination.
func (r *DestinationRepository) List(ctx context.Context, filter models.DestinationFilter) ([]models.Destination, int, error) {
	base := "FROM destinations WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Country != "" {
		conditions = append(conditions, fmt.Sprintf("country = $%d", len(args)+1))
		args = append(args, filter.Country)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"country":    true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf("SELECT id, name, country, timezone, description, image_url, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var destinations []models.Destination
	if err := r.db.SelectContext(ctx, &destinations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list destinations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count destinations: %w", err)
	}

	return destinations, total, nil
}

// FindByID loads a destination by id.
func (r *DestinationRepository) FindByID(ctx context.Context, id string) (*models.Destination, error) {
	const query = `SELECT id, name, country, timezone, description, image_url, created_at, updated_at FROM destinations WHERE id = $1`
	var destination models.Destination
	if err := r.db.GetContext(ctx, &destination, query, id); err != nil {
		return nil, err
	}
	return &destination, nil
}
