package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voyago/trip-planner-api/internal/models"
	"github.com/voyago/trip-planner-api/internal/service"
	"github.com/voyago/trip-planner-api/pkg/response"
)

// DestinationHandler manages catalog browsing endpoints.
type DestinationHandler struct {
	catalog *service.CatalogService
}

// NewDestinationHandler constructs handler.
func NewDestinationHandler(catalog *service.CatalogService) *DestinationHandler {
	return &DestinationHandler{catalog: catalog}
}

// List godoc
// @Summary List destinations
// @Tags Destinations
// @Produce json
// @Param country query string false "Filter by country"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /destinations [get]
func (h *DestinationHandler) List(c *gin.Context) {
	var filter models.DestinationFilter
	filter.Country = c.Query("country")
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	destinations, pagination, err := h.catalog.ListDestinations(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, destinations, pagination)
}

// Get godoc
// @Summary Get a destination
// @Tags Destinations
// @Produce json
// @Param id path string true "Destination ID"
// @Success 200 {object} response.Envelope
// @Router /destinations/{id} [get]
func (h *DestinationHandler) Get(c *gin.Context) {
	destination, err := h.catalog.GetDestination(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, destination, nil)
}

// Activities godoc
// @Summary List cached activities for a destination
// @Tags Destinations
// @Produce json
// @Param id path string true "Destination ID"
// @Param search query string false "Search by title"
// @Param minRating query number false "Minimum average rating"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /destinations/{id}/activities [get]
func (h *DestinationHandler) Activities(c *gin.Context) {
	var filter models.ActivityFilter
	filter.DestinationID = c.Param("id")
	filter.Search = c.Query("search")
	if minRating, err := strconv.ParseFloat(c.Query("minRating"), 64); err == nil {
		filter.MinRating = minRating
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	activities, pagination, err := h.catalog.ListActivities(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, pagination)
}

// GetActivity godoc
// @Summary Get a cached activity
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Router /activities/{id} [get]
func (h *DestinationHandler) GetActivity(c *gin.Context) {
	activity, err := h.catalog.GetActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}
