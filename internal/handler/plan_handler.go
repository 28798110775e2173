package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyago/trip-planner-api/internal/dto"
	"github.com/voyago/trip-planner-api/internal/service"
	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
	"github.com/voyago/trip-planner-api/pkg/response"
)

// PlanHandler manages itinerary generation endpoints.
type PlanHandler struct {
	planner  *service.PlannerService
	exporter *service.ExportService
}

// NewPlanHandler constructs handler.
func NewPlanHandler(planner *service.PlannerService, exporter *service.ExportService) *PlanHandler {
	return &PlanHandler{planner: planner, exporter: exporter}
}

// Generate godoc
// @Summary Generate a day-by-day itinerary
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePlanRequest true "Plan request"
// @Success 200 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	plan, err := h.planner.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Export godoc
// @Summary Export a generated itinerary as PDF or CSV
// @Tags Plans
// @Accept json
// @Produce application/octet-stream
// @Param payload body dto.ExportPlanRequest true "Export request"
// @Success 200 {file} binary
// @Router /plans/export [post]
func (h *PlanHandler) Export(c *gin.Context) {
	var req dto.ExportPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.exporter.ExportPlan(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.MimeType, result.Payload)
}
