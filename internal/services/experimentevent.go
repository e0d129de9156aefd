package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/apperr"
	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type RecordEventInput struct {
	UserIdentifier string         `json:"user_identifier"`
	EventName      string         `json:"event_name"`
	EventValue     *float64       `json:"event_value,omitempty"`
	EventData      map[string]any `json:"event_data,omitempty"`
}

type ExperimentEventService interface {
	Record(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, in RecordEventInput) (*types.ExperimentEvent, error)
}

type experimentEventService struct {
	db             *gorm.DB
	log            *logger.Logger
	assignmentRepo repos.ExperimentAssignmentRepo
	eventRepo      repos.ExperimentEventRepo
}

func NewExperimentEventService(db *gorm.DB, baseLog *logger.Logger, assignmentRepo repos.ExperimentAssignmentRepo, eventRepo repos.ExperimentEventRepo) ExperimentEventService {
	return &experimentEventService{
		db:             db,
		log:            baseLog.With("service", "ExperimentEventService"),
		assignmentRepo: assignmentRepo,
		eventRepo:      eventRepo,
	}
}

// Record appends an event attributed to the user's assigned variant. The
// variant comes from the assignment row, never from a fresh draw. Repeated
// identical calls all persist; repeat conversions are legitimate signal.
func (s *experimentEventService) Record(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, in RecordEventInput) (*types.ExperimentEvent, error) {
	userIdentifier := strings.TrimSpace(in.UserIdentifier)
	eventName := strings.TrimSpace(in.EventName)
	if userIdentifier == "" || eventName == "" {
		return nil, fmt.Errorf("%w: user_identifier and event_name are required", apperr.ErrInvalidArgument)
	}

	assignment, err := s.assignmentRepo.GetByExperimentAndUser(ctx, tx, experimentID, userIdentifier)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, fmt.Errorf("%w: user is not assigned to this experiment", apperr.ErrFailedPrecondition)
	}

	var eventData datatypes.JSON
	if len(in.EventData) > 0 {
		raw, err := json.Marshal(in.EventData)
		if err != nil {
			return nil, fmt.Errorf("%w: event_data is not serializable", apperr.ErrInvalidArgument)
		}
		eventData = datatypes.JSON(raw)
	}

	event := &types.ExperimentEvent{
		ID:             uuid.New(),
		ExperimentID:   experimentID,
		UserIdentifier: userIdentifier,
		Variant:        assignment.Variant,
		EventName:      eventName,
		EventValue:     in.EventValue,
		EventData:      eventData,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		s.log.Error("event record failed", "error", err, "experiment_id", experimentID, "event_name", eventName)
		return nil, err
	}
	s.log.Debug("event recorded", "experiment_id", experimentID, "user_identifier", userIdentifier, "event_name", eventName, "variant", assignment.Variant)
	return event, nil
}
