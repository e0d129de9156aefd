package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// newTestDB opens a per-test in-memory sqlite database. The shared cache keeps
// the database alive across the multiple connections gorm may open.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.Ticket{},
		&types.TicketStatusHistory{},
		&types.FAQ{},
		&types.UserPreference{},
		&types.Notification{},
		&types.Experiment{},
		&types.ExperimentAssignment{},
		&types.ExperimentEvent{},
		&types.ExperimentResult{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seqRand cycles through a fixed sequence of draws.
type seqRand struct {
	values []float64
	i      int
}

func (r *seqRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

type experimentEnv struct {
	db             *gorm.DB
	experimentRepo repos.ExperimentRepo
	assignmentRepo repos.ExperimentAssignmentRepo
	eventRepo      repos.ExperimentEventRepo
	resultRepo     repos.ExperimentResultRepo
	experimentSvc  ExperimentService
	assignmentSvc  AssignmentService
	eventSvc       ExperimentEventService
	resultsSvc     ResultsService
}

func newExperimentEnv(t *testing.T, randValues ...float64) *experimentEnv {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	env := &experimentEnv{
		db:             db,
		experimentRepo: repos.NewExperimentRepo(db, log),
		assignmentRepo: repos.NewExperimentAssignmentRepo(db, log),
		eventRepo:      repos.NewExperimentEventRepo(db, log),
		resultRepo:     repos.NewExperimentResultRepo(db, log),
	}
	env.experimentSvc = NewExperimentService(db, log, env.experimentRepo, env.assignmentRepo, env.resultRepo)
	env.assignmentSvc = NewAssignmentService(db, log, env.experimentRepo, env.assignmentRepo, &seqRand{values: randValues})
	env.eventSvc = NewExperimentEventService(db, log, env.assignmentRepo, env.eventRepo)
	env.resultsSvc = NewResultsService(db, log, env.experimentRepo, env.eventRepo, env.resultRepo, nil)
	return env
}

// runningExperiment creates a draft signup-conversion experiment and moves it
// to running.
func (env *experimentEnv) runningExperiment(t *testing.T) *types.Experiment {
	t.Helper()
	ctx := context.Background()
	experiment, err := env.experimentSvc.Create(ctx, nil, CreateExperimentInput{
		Name:           "checkout button color",
		Hypothesis:     "green converts better than blue",
		ControlVariant: "blue",
		TestVariant:    "green",
		TargetMetric:   "signup",
	})
	if err != nil {
		t.Fatalf("create experiment: %v", err)
	}
	experiment, err = env.experimentSvc.SetStatus(ctx, nil, experiment.ID, types.ExperimentStatusRunning)
	if err != nil {
		t.Fatalf("start experiment: %v", err)
	}
	return experiment
}
