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

type FAQHandler struct {
	log    *logger.Logger
	faqSvc services.FAQService
}

func NewFAQHandler(log *logger.Logger, faqSvc services.FAQService) *FAQHandler {
	return &FAQHandler{
		log:    log.With("handler", "FAQHandler"),
		faqSvc: faqSvc,
	}
}

func parseFAQID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid faq id", apperr.ErrInvalidArgument)
	}
	return id, nil
}

// GET /api/faqs?search=...&category=...
func (h *FAQHandler) List(c *gin.Context) {
	faqs, err := h.faqSvc.List(c.Request.Context(), nil, c.Query("search"), c.Query("category"))
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, faqs)
}

// GET /api/faqs/:id
func (h *FAQHandler) Get(c *gin.Context) {
	id, err := parseFAQID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	faq, err := h.faqSvc.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, faq)
}

// POST /api/faqs
func (h *FAQHandler) Create(c *gin.Context) {
	var in services.FAQInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	faq, err := h.faqSvc.Create(c.Request.Context(), nil, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, faq)
}

// PUT /api/faqs/:id
func (h *FAQHandler) Update(c *gin.Context) {
	id, err := parseFAQID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.FAQInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	faq, err := h.faqSvc.Update(c.Request.Context(), nil, id, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, faq)
}

// DELETE /api/faqs/:id
func (h *FAQHandler) Delete(c *gin.Context) {
	id, err := parseFAQID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := h.faqSvc.Delete(c.Request.Context(), nil, id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
