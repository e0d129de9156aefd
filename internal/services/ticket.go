package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/apperr"
	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

var validTicketPriorities = map[string]bool{
	types.TicketPriorityLow:    true,
	types.TicketPriorityMedium: true,
	types.TicketPriorityHigh:   true,
}

var validTicketStatuses = map[string]bool{
	types.TicketStatusNew:        true,
	types.TicketStatusInProgress: true,
	types.TicketStatusResolved:   true,
}

type CreateTicketInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	ContactEmail string `json:"contact_email"`
}

type UpdateTicketStatusInput struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type TicketService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateTicketInput) (*types.Ticket, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Ticket, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Ticket, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, in UpdateTicketStatusInput) (*types.Ticket, error)
	History(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]*types.TicketStatusHistory, error)
}

type ticketService struct {
	db              *gorm.DB
	log             *logger.Logger
	ticketRepo      repos.TicketRepo
	historyRepo     repos.TicketStatusHistoryRepo
	notificationSvc NotificationService
}

func NewTicketService(db *gorm.DB, baseLog *logger.Logger, ticketRepo repos.TicketRepo, historyRepo repos.TicketStatusHistoryRepo, notificationSvc NotificationService) TicketService {
	return &ticketService{
		db:              db,
		log:             baseLog.With("service", "TicketService"),
		ticketRepo:      ticketRepo,
		historyRepo:     historyRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *ticketService) Create(ctx context.Context, tx *gorm.DB, in CreateTicketInput) (*types.Ticket, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	contactEmail := strings.TrimSpace(in.ContactEmail)
	priority := strings.TrimSpace(in.Priority)
	if priority == "" {
		priority = types.TicketPriorityMedium
	}

	if title == "" || description == "" || contactEmail == "" {
		return nil, fmt.Errorf("%w: title, description and contact_email are required", apperr.ErrInvalidArgument)
	}
	if !isValidEmail(contactEmail) {
		return nil, fmt.Errorf("%w: invalid email format", apperr.ErrInvalidArgument)
	}
	if !validTicketPriorities[priority] {
		return nil, fmt.Errorf("%w: priority must be low, medium, or high", apperr.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	ticket := &types.Ticket{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		Priority:     priority,
		Status:       types.TicketStatusNew,
		ContactEmail: contactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.ticketRepo.Create(ctx, tx, ticket); err != nil {
		s.log.Error("ticket create failed", "error", err, "title", title)
		return nil, err
	}
	s.log.Info("ticket created", "ticket_id", ticket.ID, "title", title)

	// Best-effort: a failed confirmation email never fails ticket intake.
	if _, err := s.notificationSvc.SendTicketCreated(ctx, tx, ticket); err != nil {
		s.log.Warn("ticket created notification failed", "error", err, "ticket_id", ticket.ID)
	}

	return ticket, nil
}

func (s *ticketService) List(ctx context.Context, tx *gorm.DB) ([]*types.Ticket, error) {
	return s.ticketRepo.List(ctx, tx)
}

func (s *ticketService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, fmt.Errorf("%w: ticket %s", apperr.ErrNotFound, id)
	}
	return ticket, nil
}

func (s *ticketService) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, in UpdateTicketStatusInput) (*types.Ticket, error) {
	if !validTicketStatuses[in.Status] {
		return nil, fmt.Errorf("%w: status must be new, in-progress, or resolved", apperr.ErrInvalidArgument)
	}

	ticket, err := s.ticketRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, fmt.Errorf("%w: ticket %s", apperr.ErrNotFound, id)
	}

	oldStatus := ticket.Status
	now := time.Now().UTC()
	ticket.Status = in.Status
	ticket.UpdatedAt = now
	if err := s.ticketRepo.Update(ctx, tx, ticket); err != nil {
		s.log.Error("ticket status update failed", "error", err, "ticket_id", id)
		return nil, err
	}

	entry := &types.TicketStatusHistory{
		ID:        uuid.New(),
		TicketID:  ticket.ID,
		OldStatus: oldStatus,
		NewStatus: in.Status,
		ChangedBy: "system",
		Notes:     strings.TrimSpace(in.Notes),
		ChangedAt: now,
	}
	if err := s.historyRepo.Create(ctx, tx, entry); err != nil {
		s.log.Error("ticket history create failed", "error", err, "ticket_id", id)
		return nil, err
	}
	s.log.Info("ticket status updated", "ticket_id", id, "old_status", oldStatus, "new_status", in.Status)

	if oldStatus != in.Status {
		if _, err := s.notificationSvc.SendTicketStatusChanged(ctx, tx, ticket, oldStatus, entry.Notes); err != nil {
			s.log.Warn("status change notification failed", "error", err, "ticket_id", id)
		}
	}

	return ticket, nil
}

func (s *ticketService) History(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]*types.TicketStatusHistory, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, fmt.Errorf("%w: ticket %s", apperr.ErrNotFound, id)
	}
	return s.historyRepo.GetByTicketID(ctx, tx, id)
}
