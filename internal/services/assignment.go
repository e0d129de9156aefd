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

// RandSource supplies the variant draw. Injectable so tests can force a
// deterministic split; production wires math/rand.
type RandSource interface {
	Float64() float64
}

type AssignmentResult struct {
	Assignment *types.ExperimentAssignment `json:"assignment"`
	Existing   bool                        `json:"existing"`
}

type AssignmentService interface {
	Assign(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, userIdentifier string) (*AssignmentResult, error)
}

type assignmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	experimentRepo repos.ExperimentRepo
	assignmentRepo repos.ExperimentAssignmentRepo
	rand           RandSource
}

func NewAssignmentService(db *gorm.DB, baseLog *logger.Logger, experimentRepo repos.ExperimentRepo, assignmentRepo repos.ExperimentAssignmentRepo, rand RandSource) AssignmentService {
	return &assignmentService{
		db:             db,
		log:            baseLog.With("service", "AssignmentService"),
		experimentRepo: experimentRepo,
		assignmentRepo: assignmentRepo,
		rand:           rand,
	}
}

// Assign places a user into one of the experiment's two variants with a
// uniform 50/50 draw. Idempotent: a user who already holds an assignment gets
// it back unchanged and no new randomization happens. The storage layer's
// unique (experiment, user) index guarantees at most one row even under
// concurrent calls.
func (s *assignmentService) Assign(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, userIdentifier string) (*AssignmentResult, error) {
	userIdentifier = strings.TrimSpace(userIdentifier)
	if userIdentifier == "" {
		return nil, fmt.Errorf("%w: user_identifier is required", apperr.ErrInvalidArgument)
	}

	experiment, err := s.experimentRepo.GetByID(ctx, tx, experimentID)
	if err != nil {
		return nil, err
	}
	if experiment == nil {
		return nil, fmt.Errorf("%w: experiment %s", apperr.ErrNotFound, experimentID)
	}
	if experiment.Status != types.ExperimentStatusRunning {
		return nil, fmt.Errorf("%w: experiment is not currently running", apperr.ErrInvalidState)
	}

	existing, err := s.assignmentRepo.GetByExperimentAndUser(ctx, tx, experimentID, userIdentifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &AssignmentResult{Assignment: existing, Existing: true}, nil
	}

	variant := experiment.ControlVariant
	if s.rand.Float64() >= 0.5 {
		variant = experiment.TestVariant
	}

	assignment := &types.ExperimentAssignment{
		ID:             uuid.New(),
		ExperimentID:   experimentID,
		UserIdentifier: userIdentifier,
		Variant:        variant,
		AssignedAt:     time.Now().UTC(),
	}
	persisted, created, err := s.assignmentRepo.CreateOrGet(ctx, tx, assignment)
	if err != nil {
		s.log.Error("assignment create failed", "error", err, "experiment_id", experimentID, "user_identifier", userIdentifier)
		return nil, err
	}
	if created {
		s.log.Info("user assigned to variant", "experiment_id", experimentID, "user_identifier", userIdentifier, "variant", persisted.Variant)
	}
	return &AssignmentResult{Assignment: persisted, Existing: !created}, nil
}
