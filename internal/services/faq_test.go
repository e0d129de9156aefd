package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/helioslabs/supportdesk-backend/internal/apperr"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
)

func newFAQService(t *testing.T) FAQService {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	return NewFAQService(db, log, repos.NewFAQRepo(db, log))
}

func TestCreateFAQDefaultsCategory(t *testing.T) {
	svc := newFAQService(t)
	faq, err := svc.Create(context.Background(), nil, FAQInput{
		Question: "How do I reset my password?",
		Answer:   "Use the reset link on the login page.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if faq.Category != "general" {
		t.Errorf("category = %q, want general default", faq.Category)
	}
}

func TestCreateFAQValidation(t *testing.T) {
	svc := newFAQService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, nil, FAQInput{Answer: "a"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("missing question: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.Create(ctx, nil, FAQInput{Question: "q", Answer: "a", Category: "random"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("bad category: err = %v, want ErrInvalidArgument", err)
	}
}

func TestListFAQsFilters(t *testing.T) {
	svc := newFAQService(t)
	ctx := context.Background()

	seed := []FAQInput{
		{Question: "How do I reset my password?", Answer: "Use the reset link.", Category: "account"},
		{Question: "Why is the app slow?", Answer: "Check your connection.", Category: "technical"},
		{Question: "How do refunds work?", Answer: "Within 30 days.", Category: "billing"},
	}
	for _, in := range seed {
		if _, err := svc.Create(ctx, nil, in); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := svc.List(ctx, nil, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered = %d, want 3", len(all))
	}

	// "all" means no category filter.
	all, err = svc.List(ctx, nil, "", "all")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("category=all = %d, want 3", len(all))
	}

	billing, err := svc.List(ctx, nil, "", "billing")
	if err != nil {
		t.Fatalf("list billing: %v", err)
	}
	if len(billing) != 1 {
		t.Errorf("billing = %d, want 1", len(billing))
	}

	matched, err := svc.List(ctx, nil, "password", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matched) != 1 {
		t.Errorf("search password = %d, want 1", len(matched))
	}
}

func TestUpdateAndDeleteFAQ(t *testing.T) {
	svc := newFAQService(t)
	ctx := context.Background()

	faq, err := svc.Create(ctx, nil, FAQInput{Question: "q", Answer: "a", Category: "general"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, nil, faq.ID, FAQInput{Question: "q2", Answer: "a2", Category: "technical"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Question != "q2" || updated.Category != "technical" {
		t.Errorf("update result = %q/%q", updated.Question, updated.Category)
	}

	if err := svc.Delete(ctx, nil, faq.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, nil, faq.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, nil, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete unknown: err = %v, want ErrNotFound", err)
	}
}
