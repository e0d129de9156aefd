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

const (
	defaultMinimumSampleSize = 100
	minMinimumSampleSize     = 50
	defaultConfidenceLevel   = 0.95
	minConfidenceLevel       = 0.80
	maxConfidenceLevel       = 0.99
)

var validExperimentStatuses = map[string]bool{
	types.ExperimentStatusDraft:     true,
	types.ExperimentStatusRunning:   true,
	types.ExperimentStatusPaused:    true,
	types.ExperimentStatusCompleted: true,
}

type CreateExperimentInput struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Hypothesis        string   `json:"hypothesis"`
	ControlVariant    string   `json:"control_variant"`
	TestVariant       string   `json:"test_variant"`
	TargetMetric      string   `json:"target_metric"`
	MinimumSampleSize *int     `json:"minimum_sample_size"`
	ConfidenceLevel   *float64 `json:"confidence_level"`
}

type ExperimentSummary struct {
	*types.Experiment
	TotalParticipants int64 `json:"total_participants"`
}

type ExperimentDetail struct {
	Experiment   *types.Experiment         `json:"experiment"`
	Participants []repos.VariantCount      `json:"participants"`
	Results      []*types.ExperimentResult `json:"results"`
}

type ExperimentService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateExperimentInput) (*types.Experiment, error)
	List(ctx context.Context, tx *gorm.DB) ([]*ExperimentSummary, error)
	GetDetail(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ExperimentDetail, error)
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) (*types.Experiment, error)
}

type experimentService struct {
	db             *gorm.DB
	log            *logger.Logger
	experimentRepo repos.ExperimentRepo
	assignmentRepo repos.ExperimentAssignmentRepo
	resultRepo     repos.ExperimentResultRepo
}

func NewExperimentService(db *gorm.DB, baseLog *logger.Logger, experimentRepo repos.ExperimentRepo, assignmentRepo repos.ExperimentAssignmentRepo, resultRepo repos.ExperimentResultRepo) ExperimentService {
	return &experimentService{
		db:             db,
		log:            baseLog.With("service", "ExperimentService"),
		experimentRepo: experimentRepo,
		assignmentRepo: assignmentRepo,
		resultRepo:     resultRepo,
	}
}

func (s *experimentService) Create(ctx context.Context, tx *gorm.DB, in CreateExperimentInput) (*types.Experiment, error) {
	name := strings.TrimSpace(in.Name)
	control := strings.TrimSpace(in.ControlVariant)
	test := strings.TrimSpace(in.TestVariant)
	metric := strings.TrimSpace(in.TargetMetric)

	if name == "" || control == "" || test == "" || metric == "" {
		return nil, fmt.Errorf("%w: name, control_variant, test_variant and target_metric are required", apperr.ErrInvalidArgument)
	}
	if control == test {
		return nil, fmt.Errorf("%w: control_variant and test_variant must differ", apperr.ErrInvalidArgument)
	}

	minimumSampleSize := defaultMinimumSampleSize
	if in.MinimumSampleSize != nil {
		if *in.MinimumSampleSize < minMinimumSampleSize {
			return nil, fmt.Errorf("%w: minimum_sample_size must be at least %d", apperr.ErrInvalidArgument, minMinimumSampleSize)
		}
		minimumSampleSize = *in.MinimumSampleSize
	}

	confidenceLevel := defaultConfidenceLevel
	if in.ConfidenceLevel != nil {
		if *in.ConfidenceLevel < minConfidenceLevel || *in.ConfidenceLevel > maxConfidenceLevel {
			return nil, fmt.Errorf("%w: confidence_level must be between %v and %v", apperr.ErrInvalidArgument, minConfidenceLevel, maxConfidenceLevel)
		}
		confidenceLevel = *in.ConfidenceLevel
	}

	now := time.Now().UTC()
	experiment := &types.Experiment{
		ID:                uuid.New(),
		Name:              name,
		Description:       strings.TrimSpace(in.Description),
		Hypothesis:        strings.TrimSpace(in.Hypothesis),
		ControlVariant:    control,
		TestVariant:       test,
		TargetMetric:      metric,
		MinimumSampleSize: minimumSampleSize,
		ConfidenceLevel:   confidenceLevel,
		Status:            types.ExperimentStatusDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.experimentRepo.Create(ctx, tx, experiment); err != nil {
		s.log.Error("experiment create failed", "error", err, "name", name)
		return nil, err
	}
	s.log.Info("experiment created", "experiment_id", experiment.ID, "name", name)
	return experiment, nil
}

func (s *experimentService) List(ctx context.Context, tx *gorm.DB) ([]*ExperimentSummary, error) {
	experiments, err := s.experimentRepo.List(ctx, tx)
	if err != nil {
		return nil, err
	}
	summaries := make([]*ExperimentSummary, 0, len(experiments))
	for _, experiment := range experiments {
		count, err := s.assignmentRepo.CountByExperiment(ctx, tx, experiment.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &ExperimentSummary{
			Experiment:        experiment,
			TotalParticipants: count,
		})
	}
	return summaries, nil
}

func (s *experimentService) GetDetail(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ExperimentDetail, error) {
	experiment, err := s.experimentRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if experiment == nil {
		return nil, fmt.Errorf("%w: experiment %s", apperr.ErrNotFound, id)
	}

	participants, err := s.assignmentRepo.CountByVariant(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	results, err := s.resultRepo.GetByExperimentID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	return &ExperimentDetail{
		Experiment:   experiment,
		Participants: participants,
		Results:      results,
	}, nil
}

// SetStatus applies an explicit lifecycle transition. Completed is terminal;
// start_date is set on the first entry into running only, so pausing and
// resuming keeps the original start.
func (s *experimentService) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) (*types.Experiment, error) {
	if !validExperimentStatuses[status] {
		return nil, fmt.Errorf("%w: status must be draft, running, paused, or completed", apperr.ErrInvalidArgument)
	}

	experiment, err := s.experimentRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if experiment == nil {
		return nil, fmt.Errorf("%w: experiment %s", apperr.ErrNotFound, id)
	}
	if experiment.Status == types.ExperimentStatusCompleted {
		return nil, fmt.Errorf("%w: experiment is completed", apperr.ErrInvalidState)
	}

	now := time.Now().UTC()
	experiment.Status = status
	experiment.UpdatedAt = now
	if status == types.ExperimentStatusRunning && experiment.StartDate == nil {
		experiment.StartDate = &now
	}
	if status == types.ExperimentStatusCompleted {
		experiment.EndDate = &now
	}

	if err := s.experimentRepo.Update(ctx, tx, experiment); err != nil {
		s.log.Error("experiment status update failed", "error", err, "experiment_id", id)
		return nil, err
	}
	s.log.Info("experiment status updated", "experiment_id", id, "status", status)
	return experiment, nil
}
