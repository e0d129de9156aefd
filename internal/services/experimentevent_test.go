package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/helioslabs/supportdesk-backend/internal/apperr"
)

func TestRecordEventCopiesAssignedVariant(t *testing.T) {
	env := newExperimentEnv(t, 0.75)
	ctx := context.Background()
	experiment := env.runningExperiment(t)

	assigned, err := env.assignmentSvc.Assign(ctx, nil, experiment.ID, "user-1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	value := 19.99
	event, err := env.eventSvc.Record(ctx, nil, experiment.ID, RecordEventInput{
		UserIdentifier: "user-1",
		EventName:      "signup",
		EventValue:     &value,
		EventData:      map[string]any{"plan": "pro"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if event.Variant != assigned.Assignment.Variant {
		t.Errorf("event variant = %q, want assignment variant %q", event.Variant, assigned.Assignment.Variant)
	}
	if event.EventValue == nil || *event.EventValue != value {
		t.Errorf("event_value = %v, want %v", event.EventValue, value)
	}

	var data map[string]any
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		t.Fatalf("unmarshal event_data: %v", err)
	}
	if data["plan"] != "pro" {
		t.Errorf("event_data plan = %v, want pro", data["plan"])
	}
}

func TestRecordEventRequiresAssignment(t *testing.T) {
	env := newExperimentEnv(t)
	experiment := env.runningExperiment(t)

	_, err := env.eventSvc.Record(context.Background(), nil, experiment.ID, RecordEventInput{
		UserIdentifier: "stranger",
		EventName:      "signup",
	})
	if !errors.Is(err, apperr.ErrFailedPrecondition) {
		t.Fatalf("err = %v, want ErrFailedPrecondition", err)
	}
}

func TestRecordEventValidation(t *testing.T) {
	env := newExperimentEnv(t)
	experiment := env.runningExperiment(t)
	ctx := context.Background()

	if _, err := env.eventSvc.Record(ctx, nil, experiment.ID, RecordEventInput{EventName: "signup"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("missing user: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := env.eventSvc.Record(ctx, nil, experiment.ID, RecordEventInput{UserIdentifier: "user-1"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("missing event name: err = %v, want ErrInvalidArgument", err)
	}
}

func TestRecordEventAllowsRepeats(t *testing.T) {
	env := newExperimentEnv(t, 0.25)
	ctx := context.Background()
	experiment := env.runningExperiment(t)

	if _, err := env.assignmentSvc.Assign(ctx, nil, experiment.ID, "user-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := env.eventSvc.Record(ctx, nil, experiment.ID, RecordEventInput{
			UserIdentifier: "user-1",
			EventName:      "signup",
		}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	// Repeat conversions are stored as rows but count once per user in the
	// aggregates.
	counts, err := env.eventRepo.ConversionCountsByVariant(ctx, nil, experiment.ID, "signup")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("len(counts) = %d, want 1", len(counts))
	}
	if counts[0].Conversions != 1 {
		t.Errorf("conversions = %d, want 1", counts[0].Conversions)
	}
}
