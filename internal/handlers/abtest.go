package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/helioslabs/supportdesk-backend/internal/apperr"
	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/services"
)

type ABTestHandler struct {
	log           *logger.Logger
	experimentSvc services.ExperimentService
	assignmentSvc services.AssignmentService
	eventSvc      services.ExperimentEventService
	resultsSvc    services.ResultsService
}

func NewABTestHandler(log *logger.Logger, experimentSvc services.ExperimentService, assignmentSvc services.AssignmentService, eventSvc services.ExperimentEventService, resultsSvc services.ResultsService) *ABTestHandler {
	return &ABTestHandler{
		log:           log.With("handler", "ABTestHandler"),
		experimentSvc: experimentSvc,
		assignmentSvc: assignmentSvc,
		eventSvc:      eventSvc,
		resultsSvc:    resultsSvc,
	}
}

func parseExperimentID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid experiment id", apperr.ErrInvalidArgument)
	}
	return id, nil
}

// GET /api/ab-tests
func (h *ABTestHandler) List(c *gin.Context) {
	experiments, err := h.experimentSvc.List(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, experiments)
}

// GET /api/ab-tests/:id
func (h *ABTestHandler) Get(c *gin.Context) {
	id, err := parseExperimentID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	detail, err := h.experimentSvc.GetDetail(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, detail)
}

// POST /api/ab-tests
func (h *ABTestHandler) Create(c *gin.Context) {
	var in services.CreateExperimentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	experiment, err := h.experimentSvc.Create(c.Request.Context(), nil, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, experiment)
}

// PUT /api/ab-tests/:id/status
func (h *ABTestHandler) SetStatus(c *gin.Context) {
	id, err := parseExperimentID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	experiment, err := h.experimentSvc.SetStatus(c.Request.Context(), nil, id, body.Status)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, experiment)
}

// POST /api/ab-tests/:id/assign
func (h *ABTestHandler) Assign(c *gin.Context) {
	id, err := parseExperimentID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var body struct {
		UserIdentifier string `json:"user_identifier"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	result, err := h.assignmentSvc.Assign(c.Request.Context(), nil, id, body.UserIdentifier)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"experiment_id":   id,
		"user_identifier": result.Assignment.UserIdentifier,
		"variant":         result.Assignment.Variant,
		"existing":        result.Existing,
	})
}

// POST /api/ab-tests/:id/events
func (h *ABTestHandler) RecordEvent(c *gin.Context) {
	id, err := parseExperimentID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.RecordEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	event, err := h.eventSvc.Record(c.Request.Context(), nil, id, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, event)
}

// POST /api/ab-tests/:id/calculate
func (h *ABTestHandler) Calculate(c *gin.Context) {
	id, err := parseExperimentID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	out, err := h.resultsSvc.Calculate(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, out)
}

// GET /api/ab-tests/:id/results
func (h *ABTestHandler) LiveResults(c *gin.Context) {
	id, err := parseExperimentID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	results, err := h.resultsSvc.Live(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, results)
}
