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

var validNotificationFrequencies = map[string]bool{
	"immediate": true,
	"daily":     true,
	"weekly":    true,
	"none":      true,
}

var validPreferredLanguages = map[string]bool{
	"en": true, "es": true, "fr": true, "de": true, "it": true, "pt": true,
}

type UpsertPreferenceInput struct {
	Email                 string `json:"email"`
	EmailNotifications    *bool  `json:"email_notifications"`
	SMSNotifications      *bool  `json:"sms_notifications"`
	NotificationFrequency string `json:"notification_frequency"`
	PreferredLanguage     string `json:"preferred_language"`
}

// PreferenceView adds the is_new marker the UI uses to distinguish stored
// preferences from served defaults.
type PreferenceView struct {
	*types.UserPreference
	IsNew bool `json:"is_new"`
}

type PreferenceService interface {
	Get(ctx context.Context, tx *gorm.DB, email string) (*PreferenceView, error)
	Upsert(ctx context.Context, tx *gorm.DB, in UpsertPreferenceInput) (*types.UserPreference, error)
}

type preferenceService struct {
	db             *gorm.DB
	log            *logger.Logger
	preferenceRepo repos.UserPreferenceRepo
}

func NewPreferenceService(db *gorm.DB, baseLog *logger.Logger, preferenceRepo repos.UserPreferenceRepo) PreferenceService {
	return &preferenceService{
		db:             db,
		log:            baseLog.With("service", "PreferenceService"),
		preferenceRepo: preferenceRepo,
	}
}

// Get serves defaults for addresses with no stored preferences instead of
// failing, so the UI can always render a settings form.
func (s *preferenceService) Get(ctx context.Context, tx *gorm.DB, email string) (*PreferenceView, error) {
	email = strings.TrimSpace(email)
	if !isValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", apperr.ErrInvalidArgument)
	}

	pref, err := s.preferenceRepo.GetByEmail(ctx, tx, email)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &PreferenceView{
			UserPreference: &types.UserPreference{
				Email:                 email,
				EmailNotifications:    true,
				SMSNotifications:      false,
				NotificationFrequency: "immediate",
				PreferredLanguage:     "en",
			},
			IsNew: true,
		}, nil
	}
	return &PreferenceView{UserPreference: pref, IsNew: false}, nil
}

func (s *preferenceService) Upsert(ctx context.Context, tx *gorm.DB, in UpsertPreferenceInput) (*types.UserPreference, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperr.ErrInvalidArgument)
	}
	if !isValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", apperr.ErrInvalidArgument)
	}

	frequency := strings.TrimSpace(in.NotificationFrequency)
	if frequency == "" {
		frequency = "immediate"
	}
	if !validNotificationFrequencies[frequency] {
		return nil, fmt.Errorf("%w: notification_frequency must be immediate, daily, weekly, or none", apperr.ErrInvalidArgument)
	}

	language := strings.TrimSpace(in.PreferredLanguage)
	if language == "" {
		language = "en"
	}
	if !validPreferredLanguages[language] {
		return nil, fmt.Errorf("%w: preferred_language must be en, es, fr, de, it, or pt", apperr.ErrInvalidArgument)
	}

	emailNotifications := true
	if in.EmailNotifications != nil {
		emailNotifications = *in.EmailNotifications
	}
	smsNotifications := false
	if in.SMSNotifications != nil {
		smsNotifications = *in.SMSNotifications
	}

	now := time.Now().UTC()
	existing, err := s.preferenceRepo.GetByEmail(ctx, tx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.EmailNotifications = emailNotifications
		existing.SMSNotifications = smsNotifications
		existing.NotificationFrequency = frequency
		existing.PreferredLanguage = language
		existing.UpdatedAt = now
		if err := s.preferenceRepo.Update(ctx, tx, existing); err != nil {
			s.log.Error("preference update failed", "error", err, "email", email)
			return nil, err
		}
		return existing, nil
	}

	pref := &types.UserPreference{
		ID:                    uuid.New(),
		Email:                 email,
		EmailNotifications:    emailNotifications,
		SMSNotifications:      smsNotifications,
		NotificationFrequency: frequency,
		PreferredLanguage:     language,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.preferenceRepo.Create(ctx, tx, pref); err != nil {
		s.log.Error("preference create failed", "error", err, "email", email)
		return nil, err
	}
	return pref, nil
}
