package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/services"
)

type PreferenceHandler struct {
	log           *logger.Logger
	preferenceSvc services.PreferenceService
}

func NewPreferenceHandler(log *logger.Logger, preferenceSvc services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		log:           log.With("handler", "PreferenceHandler"),
		preferenceSvc: preferenceSvc,
	}
}

// GET /api/preferences/:email
func (h *PreferenceHandler) Get(c *gin.Context) {
	view, err := h.preferenceSvc.Get(c.Request.Context(), nil, c.Param("email"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/preferences
func (h *PreferenceHandler) Upsert(c *gin.Context) {
	var in services.UpsertPreferenceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	pref, err := h.preferenceSvc.Upsert(c.Request.Context(), nil, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, pref)
}
