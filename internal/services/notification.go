package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

// Notification types logged to the notification table.
const (
	NotificationTypeTicketCreated = "ticket_created"
	NotificationTypeStatusChanged = "status_changed"
)

// EmailSender abstracts the delivery provider. Production wires the SendGrid
// client; development uses the mock sender which only logs.
type EmailSender interface {
	Send(ctx context.Context, to, subject, content string) error
}

type mockEmailSender struct {
	log *logger.Logger
}

func NewMockEmailSender(baseLog *logger.Logger) EmailSender {
	return &mockEmailSender{log: baseLog.With("service", "MockEmailSender")}
}

func (s *mockEmailSender) Send(ctx context.Context, to, subject, content string) error {
	s.log.Info("mock email sent", "to", to, "subject", subject, "content", content)
	return nil
}

type NotificationService interface {
	SendTicketCreated(ctx context.Context, tx *gorm.DB, ticket *types.Ticket) (*types.Notification, error)
	SendTicketStatusChanged(ctx context.Context, tx *gorm.DB, ticket *types.Ticket, oldStatus, notes string) (*types.Notification, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	preferenceRepo   repos.UserPreferenceRepo
	sender           EmailSender
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, notificationRepo repos.NotificationRepo, preferenceRepo repos.UserPreferenceRepo, sender EmailSender) NotificationService {
	return &notificationService{
		db:               db,
		log:              baseLog.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		sender:           sender,
	}
}

func (s *notificationService) SendTicketCreated(ctx context.Context, tx *gorm.DB, ticket *types.Ticket) (*types.Notification, error) {
	subject := fmt.Sprintf("Support ticket received: %s", ticket.Title)
	content := fmt.Sprintf(
		"Hi,\n\nWe received your support request \"%s\" and created ticket %s for it.\nPriority: %s\n\nWe'll keep you posted as its status changes.\n\nThe support team",
		ticket.Title, ticket.ID, ticket.Priority,
	)
	return s.send(ctx, tx, ticket, NotificationTypeTicketCreated, subject, content)
}

func (s *notificationService) SendTicketStatusChanged(ctx context.Context, tx *gorm.DB, ticket *types.Ticket, oldStatus, notes string) (*types.Notification, error) {
	subject := fmt.Sprintf("Ticket %s status update: %s", ticket.ID, ticket.Status)
	content := fmt.Sprintf(
		"Hi,\n\nYour ticket \"%s\" moved from %s to %s.",
		ticket.Title, oldStatus, ticket.Status,
	)
	if notes != "" {
		content += fmt.Sprintf("\n\nNotes: %s", notes)
	}
	content += "\n\nThe support team"
	return s.send(ctx, tx, ticket, NotificationTypeStatusChanged, subject, content)
}

// send logs the notification, dispatches it, and records the outcome on the
// logged row. Recipients who disabled email notifications are skipped with a
// nil notification.
func (s *notificationService) send(ctx context.Context, tx *gorm.DB, ticket *types.Ticket, notificationType, subject, content string) (*types.Notification, error) {
	pref, err := s.preferenceRepo.GetByEmail(ctx, tx, ticket.ContactEmail)
	if err != nil {
		return nil, err
	}
	if pref != nil && !pref.EmailNotifications {
		s.log.Info("email notifications disabled for recipient, skipping", "recipient", ticket.ContactEmail, "type", notificationType)
		return nil, nil
	}

	ticketID := ticket.ID
	notification := &types.Notification{
		ID:               uuid.New(),
		TicketID:         &ticketID,
		RecipientEmail:   ticket.ContactEmail,
		NotificationType: notificationType,
		Subject:          subject,
		Content:          content,
		Status:           types.NotificationStatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.notificationRepo.Create(ctx, tx, notification); err != nil {
		return nil, err
	}

	sendErr := s.sender.Send(ctx, ticket.ContactEmail, subject, content)
	now := time.Now().UTC()
	if sendErr != nil {
		s.log.Warn("notification send failed", "error", sendErr, "recipient", ticket.ContactEmail, "type", notificationType)
		notification.Status = types.NotificationStatusFailed
		if err := s.notificationRepo.UpdateStatus(ctx, tx, notification.ID, types.NotificationStatusFailed, nil); err != nil {
			return nil, err
		}
		return notification, sendErr
	}

	notification.Status = types.NotificationStatusSent
	notification.SentAt = &now
	if err := s.notificationRepo.UpdateStatus(ctx, tx, notification.ID, types.NotificationStatusSent, &now); err != nil {
		return nil, err
	}
	return notification, nil
}
