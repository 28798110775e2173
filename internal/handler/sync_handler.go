package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
	"github.com/voyago/trip-planner-api/pkg/jobs"
	"github.com/voyago/trip-planner-api/pkg/response"
)

// SyncHandler queues catalog refresh jobs.
type SyncHandler struct {
	queue *jobs.Queue
}

// NewSyncHandler constructs handler.
func NewSyncHandler(queue *jobs.Queue) *SyncHandler {
	return &SyncHandler{queue: queue}
}

// TriggerDestination godoc
// @Summary Queue a catalog refresh for one destination
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Param id path string true "Destination ID"
// @Success 202 {object} response.Envelope
// @Router /destinations/{id}/sync [post]
func (h *SyncHandler) TriggerDestination(c *gin.Context) {
	jobID := uuid.NewString()
	err := h.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Type:    "catalog_sync_destination",
		Payload: c.Param("id"),
	})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue catalog sync"))
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"job_id": jobID}, nil)
}

// TriggerAll godoc
// @Summary Queue a full catalog refresh
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Router /sync [post]
func (h *SyncHandler) TriggerAll(c *gin.Context) {
	jobID := uuid.NewString()
	err := h.queue.Enqueue(jobs.Job{ID: jobID, Type: "catalog_sync_all"})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue catalog sync"))
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"job_id": jobID}, nil)
}
