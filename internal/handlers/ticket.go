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

type TicketHandler struct {
	log       *logger.Logger
	ticketSvc services.TicketService
}

func NewTicketHandler(log *logger.Logger, ticketSvc services.TicketService) *TicketHandler {
	return &TicketHandler{
		log:       log.With("handler", "TicketHandler"),
		ticketSvc: ticketSvc,
	}
}

func parseTicketID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid ticket id", apperr.ErrInvalidArgument)
	}
	return id, nil
}

// GET /api/tickets
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.ticketSvc.List(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, tickets)
}

// GET /api/tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	id, err := parseTicketID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	ticket, err := h.ticketSvc.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, ticket)
}

// POST /api/tickets
func (h *TicketHandler) Create(c *gin.Context) {
	var in services.CreateTicketInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	ticket, err := h.ticketSvc.Create(c.Request.Context(), nil, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, ticket)
}

// PUT /api/tickets/:id
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	id, err := parseTicketID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.UpdateTicketStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	ticket, err := h.ticketSvc.UpdateStatus(c.Request.Context(), nil, id, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, ticket)
}

// GET /api/tickets/:id/history
func (h *TicketHandler) History(c *gin.Context) {
	id, err := parseTicketID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	history, err := h.ticketSvc.History(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, history)
}
