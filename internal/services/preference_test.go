package services

import (
	"context"
	"errors"
	"testing"

	"github.com/helioslabs/supportdesk-backend/internal/apperr"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
)

func newPreferenceService(t *testing.T) PreferenceService {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	return NewPreferenceService(db, log, repos.NewUserPreferenceRepo(db, log))
}

func TestGetPreferenceServesDefaults(t *testing.T) {
	svc := newPreferenceService(t)
	view, err := svc.Get(context.Background(), nil, "new@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !view.IsNew {
		t.Error("unknown address should be marked new")
	}
	if !view.EmailNotifications || view.SMSNotifications {
		t.Errorf("defaults = email:%v sms:%v, want email on, sms off", view.EmailNotifications, view.SMSNotifications)
	}
	if view.NotificationFrequency != "immediate" || view.PreferredLanguage != "en" {
		t.Errorf("defaults = %q/%q, want immediate/en", view.NotificationFrequency, view.PreferredLanguage)
	}
}

func TestGetPreferenceRejectsBadEmail(t *testing.T) {
	svc := newPreferenceService(t)
	if _, err := svc.Get(context.Background(), nil, "nope"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestUpsertPreferenceCreateThenUpdate(t *testing.T) {
	svc := newPreferenceService(t)
	ctx := context.Background()

	off := false
	created, err := svc.Upsert(ctx, nil, UpsertPreferenceInput{
		Email:                 "pat@example.com",
		EmailNotifications:    &off,
		NotificationFrequency: "daily",
		PreferredLanguage:     "fr",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.EmailNotifications {
		t.Error("email notifications should be off")
	}
	if created.NotificationFrequency != "daily" || created.PreferredLanguage != "fr" {
		t.Errorf("stored = %q/%q", created.NotificationFrequency, created.PreferredLanguage)
	}

	on := true
	updated, err := svc.Upsert(ctx, nil, UpsertPreferenceInput{
		Email:              "pat@example.com",
		EmailNotifications: &on,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("upsert created a second row: %s != %s", updated.ID, created.ID)
	}
	if !updated.EmailNotifications {
		t.Error("email notifications should be back on")
	}
	// Omitted fields fall back to defaults, matching the form's full payload.
	if updated.NotificationFrequency != "immediate" {
		t.Errorf("frequency = %q, want immediate", updated.NotificationFrequency)
	}

	view, err := svc.Get(ctx, nil, "pat@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.IsNew {
		t.Error("stored preference should not be marked new")
	}
}

func TestUpsertPreferenceValidation(t *testing.T) {
	svc := newPreferenceService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   UpsertPreferenceInput
	}{
		{"missing email", UpsertPreferenceInput{}},
		{"bad email", UpsertPreferenceInput{Email: "nope"}},
		{"bad frequency", UpsertPreferenceInput{Email: "a@b.co", NotificationFrequency: "hourly"}},
		{"bad language", UpsertPreferenceInput{Email: "a@b.co", PreferredLanguage: "xx"}},
	}
	for _, tc := range cases {
		if _, err := svc.Upsert(ctx, nil, tc.in); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("%s: err = %v, want ErrInvalidArgument", tc.name, err)
		}
	}
}
