package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/apperr"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type capturedEmail struct {
	To      string
	Subject string
}

// captureSender records outgoing mail; fail flips it into a failing provider.
type captureSender struct {
	sent []capturedEmail
	fail bool
}

func (s *captureSender) Send(ctx context.Context, to, subject, content string) error {
	if s.fail {
		return fmt.Errorf("provider rejected message to %s", to)
	}
	s.sent = append(s.sent, capturedEmail{To: to, Subject: subject})
	return nil
}

type ticketEnv struct {
	db               *gorm.DB
	sender           *captureSender
	notificationRepo repos.NotificationRepo
	preferenceSvc    PreferenceService
	ticketSvc        TicketService
}

func newTicketEnv(t *testing.T) *ticketEnv {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	sender := &captureSender{}
	ticketRepo := repos.NewTicketRepo(db, log)
	historyRepo := repos.NewTicketStatusHistoryRepo(db, log)
	notificationRepo := repos.NewNotificationRepo(db, log)
	preferenceRepo := repos.NewUserPreferenceRepo(db, log)
	notificationSvc := NewNotificationService(db, log, notificationRepo, preferenceRepo, sender)

	return &ticketEnv{
		db:               db,
		sender:           sender,
		notificationRepo: notificationRepo,
		preferenceSvc:    NewPreferenceService(db, log, preferenceRepo),
		ticketSvc:        NewTicketService(db, log, ticketRepo, historyRepo, notificationSvc),
	}
}

func TestCreateTicketSendsConfirmation(t *testing.T) {
	env := newTicketEnv(t)
	ctx := context.Background()

	ticket, err := env.ticketSvc.Create(ctx, nil, CreateTicketInput{
		Title:        "Cannot log in",
		Description:  "Password reset loops forever",
		ContactEmail: "sam@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.Status != types.TicketStatusNew {
		t.Errorf("status = %q, want new", ticket.Status)
	}
	if ticket.Priority != types.TicketPriorityMedium {
		t.Errorf("priority = %q, want medium default", ticket.Priority)
	}

	if len(env.sender.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(env.sender.sent))
	}
	if env.sender.sent[0].To != "sam@example.com" {
		t.Errorf("recipient = %q", env.sender.sent[0].To)
	}

	notifications, err := env.notificationRepo.GetByTicketID(ctx, nil, ticket.ID)
	if err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notification rows = %d, want 1", len(notifications))
	}
	if notifications[0].Status != types.NotificationStatusSent {
		t.Errorf("notification status = %q, want sent", notifications[0].Status)
	}
	if notifications[0].SentAt == nil {
		t.Error("sent_at should be set")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	env := newTicketEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateTicketInput
	}{
		{"missing title", CreateTicketInput{Description: "d", ContactEmail: "a@b.co"}},
		{"missing description", CreateTicketInput{Title: "t", ContactEmail: "a@b.co"}},
		{"bad email", CreateTicketInput{Title: "t", Description: "d", ContactEmail: "not-an-email"}},
		{"bad priority", CreateTicketInput{Title: "t", Description: "d", ContactEmail: "a@b.co", Priority: "urgent"}},
	}
	for _, tc := range cases {
		if _, err := env.ticketSvc.Create(ctx, nil, tc.in); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("%s: err = %v, want ErrInvalidArgument", tc.name, err)
		}
	}
}

func TestUpdateTicketStatusRecordsHistory(t *testing.T) {
	env := newTicketEnv(t)
	ctx := context.Background()

	ticket, err := env.ticketSvc.Create(ctx, nil, CreateTicketInput{
		Title:        "Billing question",
		Description:  "Charged twice",
		ContactEmail: "pat@example.com",
		Priority:     types.TicketPriorityHigh,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	env.sender.sent = nil

	updated, err := env.ticketSvc.UpdateStatus(ctx, nil, ticket.ID, UpdateTicketStatusInput{
		Status: types.TicketStatusInProgress,
		Notes:  "refund initiated",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != types.TicketStatusInProgress {
		t.Errorf("status = %q, want in-progress", updated.Status)
	}

	history, err := env.ticketSvc.History(ctx, nil, ticket.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(history))
	}
	if history[0].OldStatus != types.TicketStatusNew || history[0].NewStatus != types.TicketStatusInProgress {
		t.Errorf("history transition = %q -> %q", history[0].OldStatus, history[0].NewStatus)
	}
	if history[0].Notes != "refund initiated" {
		t.Errorf("notes = %q", history[0].Notes)
	}

	if len(env.sender.sent) != 1 {
		t.Errorf("status change emails = %d, want 1", len(env.sender.sent))
	}
}

func TestUpdateTicketStatusNoopSkipsNotification(t *testing.T) {
	env := newTicketEnv(t)
	ctx := context.Background()

	ticket, err := env.ticketSvc.Create(ctx, nil, CreateTicketInput{
		Title:        "t",
		Description:  "d",
		ContactEmail: "pat@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	env.sender.sent = nil

	if _, err := env.ticketSvc.UpdateStatus(ctx, nil, ticket.ID, UpdateTicketStatusInput{Status: types.TicketStatusNew}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(env.sender.sent) != 0 {
		t.Errorf("unchanged status should not notify, got %d emails", len(env.sender.sent))
	}
}

func TestUpdateTicketStatusValidation(t *testing.T) {
	env := newTicketEnv(t)
	ctx := context.Background()

	if _, err := env.ticketSvc.UpdateStatus(ctx, nil, uuid.New(), UpdateTicketStatusInput{Status: "closed"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("bad status: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := env.ticketSvc.UpdateStatus(ctx, nil, uuid.New(), UpdateTicketStatusInput{Status: types.TicketStatusResolved}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown ticket: err = %v, want ErrNotFound", err)
	}
}

func TestNotificationRespectsOptOut(t *testing.T) {
	env := newTicketEnv(t)
	ctx := context.Background()

	off := false
	if _, err := env.preferenceSvc.Upsert(ctx, nil, UpsertPreferenceInput{
		Email:              "quiet@example.com",
		EmailNotifications: &off,
	}); err != nil {
		t.Fatalf("upsert preference: %v", err)
	}

	ticket, err := env.ticketSvc.Create(ctx, nil, CreateTicketInput{
		Title:        "t",
		Description:  "d",
		ContactEmail: "quiet@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(env.sender.sent) != 0 {
		t.Errorf("opted-out recipient received %d emails", len(env.sender.sent))
	}
	notifications, err := env.notificationRepo.GetByTicketID(ctx, nil, ticket.ID)
	if err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notifications) != 0 {
		t.Errorf("notification rows = %d, want 0 for opted-out recipient", len(notifications))
	}
}

func TestTicketCreateSurvivesSendFailure(t *testing.T) {
	env := newTicketEnv(t)
	env.sender.fail = true
	ctx := context.Background()

	ticket, err := env.ticketSvc.Create(ctx, nil, CreateTicketInput{
		Title:        "t",
		Description:  "d",
		ContactEmail: "sam@example.com",
	})
	if err != nil {
		t.Fatalf("create should not fail on email errors: %v", err)
	}

	notifications, err := env.notificationRepo.GetByTicketID(ctx, nil, ticket.ID)
	if err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notification rows = %d, want 1", len(notifications))
	}
	if notifications[0].Status != types.NotificationStatusFailed {
		t.Errorf("notification status = %q, want failed", notifications[0].Status)
	}
}
