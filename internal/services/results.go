package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/apperr"
	redisclient "github.com/helioslabs/supportdesk-backend/internal/clients/redis"
	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
	"github.com/helioslabs/supportdesk-backend/internal/stats"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type ResultsSummary struct {
	TotalVariants            int       `json:"total_variants"`
	HasSignificantDifference bool      `json:"has_significant_difference"`
	PValue                   *float64  `json:"p_value"`
	CalculatedAt             time.Time `json:"calculated_at"`
}

type CalculateOutput struct {
	ExperimentID uuid.UUID                 `json:"experiment_id"`
	Results      []*types.ExperimentResult `json:"results"`
	Summary      ResultsSummary            `json:"summary"`
}

type ResultsService interface {
	Calculate(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) (*CalculateOutput, error)
	Live(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) ([]*types.ExperimentResult, error)
}

type resultsService struct {
	db             *gorm.DB
	log            *logger.Logger
	experimentRepo repos.ExperimentRepo
	eventRepo      repos.ExperimentEventRepo
	resultRepo     repos.ExperimentResultRepo
	cache          redisclient.ResultsCache
}

// NewResultsService wires the aggregator. cache may be nil; live results then
// recompute on every call.
func NewResultsService(db *gorm.DB, baseLog *logger.Logger, experimentRepo repos.ExperimentRepo, eventRepo repos.ExperimentEventRepo, resultRepo repos.ExperimentResultRepo, cache redisclient.ResultsCache) ResultsService {
	return &resultsService{
		db:             db,
		log:            baseLog.With("service", "ResultsService"),
		experimentRepo: experimentRepo,
		eventRepo:      eventRepo,
		resultRepo:     resultRepo,
		cache:          cache,
	}
}

type variantStat struct {
	conversionRate float64
	standardError  float64
}

// buildResults turns the per-variant aggregates into result rows and stamps
// the shared test-vs-control p-value and significance flag onto every row.
// Variants without data get zero-valued statistics, not errors.
func buildResults(experiment *types.Experiment, counts []repos.VariantConversionCounts, now time.Time) []*types.ExperimentResult {
	results := make([]*types.ExperimentResult, 0, len(counts))
	variantStats := make(map[string]variantStat, len(counts))

	for _, data := range counts {
		conversionRate := stats.ConversionRate(data.Conversions, data.TotalUsers)
		standardError := stats.StandardError(conversionRate, data.TotalUsers)
		lower, upper := stats.ConfidenceInterval(conversionRate, standardError, experiment.ConfidenceLevel)

		variantStats[data.Variant] = variantStat{
			conversionRate: conversionRate,
			standardError:  standardError,
		}

		results = append(results, &types.ExperimentResult{
			ID:                      uuid.New(),
			ExperimentID:            experiment.ID,
			Variant:                 data.Variant,
			MetricName:              experiment.TargetMetric,
			SampleSize:              int(data.TotalUsers),
			ConversionCount:         int(data.Conversions),
			ConversionRate:          conversionRate,
			ConfidenceIntervalLower: lower,
			ConfidenceIntervalUpper: upper,
			CalculatedAt:            now,
		})
	}

	controlStats, hasControl := variantStats[experiment.ControlVariant]
	testStats, hasTest := variantStats[experiment.TestVariant]
	if hasControl && hasTest {
		zScore := stats.ZScore(
			testStats.conversionRate,
			controlStats.conversionRate,
			testStats.standardError,
			controlStats.standardError,
		)
		pValue := stats.PValue(zScore)
		isSignificant := stats.IsSignificant(pValue, experiment.ConfidenceLevel)

		for _, result := range results {
			p := pValue
			result.PValue = &p
			result.IsStatisticallySignificant = isSignificant
		}
	}

	return results
}

// Calculate recomputes the experiment's result snapshot from assignment and
// event data and replaces the persisted set wholesale.
func (s *resultsService) Calculate(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) (*CalculateOutput, error) {
	experiment, err := s.experimentRepo.GetByID(ctx, tx, experimentID)
	if err != nil {
		return nil, err
	}
	if experiment == nil {
		return nil, fmt.Errorf("%w: experiment %s", apperr.ErrNotFound, experimentID)
	}

	counts, err := s.eventRepo.ConversionCountsByVariant(ctx, tx, experimentID, experiment.TargetMetric)
	if err != nil {
		return nil, err
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("%w: need both control and test variants to calculate results", apperr.ErrFailedPrecondition)
	}

	now := time.Now().UTC()
	results := buildResults(experiment, counts, now)

	if err := s.resultRepo.ReplaceForExperiment(ctx, tx, experimentID, results); err != nil {
		s.log.Error("result snapshot replace failed", "error", err, "experiment_id", experimentID)
		return nil, err
	}
	s.log.Info("experiment results calculated", "experiment_id", experimentID, "variants", len(results))

	summary := ResultsSummary{
		TotalVariants: len(results),
		CalculatedAt:  now,
	}
	if len(results) > 0 {
		summary.HasSignificantDifference = results[0].IsStatisticallySignificant
		summary.PValue = results[0].PValue
	}

	return &CalculateOutput{
		ExperimentID: experimentID,
		Results:      results,
		Summary:      summary,
	}, nil
}

// Live runs the same aggregation without persisting, for near-real-time
// display. Numerically identical to Calculate on the same underlying data.
func (s *resultsService) Live(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) ([]*types.ExperimentResult, error) {
	experiment, err := s.experimentRepo.GetByID(ctx, tx, experimentID)
	if err != nil {
		return nil, err
	}
	if experiment == nil {
		return nil, fmt.Errorf("%w: experiment %s", apperr.ErrNotFound, experimentID)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, experimentID.String()); ok {
			return cached, nil
		}
	}

	counts, err := s.eventRepo.ConversionCountsByVariant(ctx, tx, experimentID, experiment.TargetMetric)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return []*types.ExperimentResult{}, nil
	}

	results := buildResults(experiment, counts, time.Now().UTC())

	if s.cache != nil {
		s.cache.Set(ctx, experimentID.String(), results)
	}
	return results, nil
}
