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

var validFAQCategories = map[string]bool{
	"general":   true,
	"account":   true,
	"technical": true,
	"billing":   true,
}

type FAQInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

type FAQService interface {
	Create(ctx context.Context, tx *gorm.DB, in FAQInput) (*types.FAQ, error)
	List(ctx context.Context, tx *gorm.DB, search, category string) ([]*types.FAQ, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FAQ, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, in FAQInput) (*types.FAQ, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type faqService struct {
	db      *gorm.DB
	log     *logger.Logger
	faqRepo repos.FAQRepo
}

func NewFAQService(db *gorm.DB, baseLog *logger.Logger, faqRepo repos.FAQRepo) FAQService {
	return &faqService{
		db:      db,
		log:     baseLog.With("service", "FAQService"),
		faqRepo: faqRepo,
	}
}

func (s *faqService) Create(ctx context.Context, tx *gorm.DB, in FAQInput) (*types.FAQ, error) {
	question := strings.TrimSpace(in.Question)
	answer := strings.TrimSpace(in.Answer)
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "general"
	}

	if question == "" || answer == "" {
		return nil, fmt.Errorf("%w: question and answer are required", apperr.ErrInvalidArgument)
	}
	if !validFAQCategories[category] {
		return nil, fmt.Errorf("%w: category must be general, account, technical, or billing", apperr.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	faq := &types.FAQ{
		ID:        uuid.New(),
		Question:  question,
		Answer:    answer,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.faqRepo.Create(ctx, tx, faq); err != nil {
		s.log.Error("faq create failed", "error", err)
		return nil, err
	}
	return faq, nil
}

func (s *faqService) List(ctx context.Context, tx *gorm.DB, search, category string) ([]*types.FAQ, error) {
	return s.faqRepo.List(ctx, tx, strings.TrimSpace(search), strings.TrimSpace(category))
}

func (s *faqService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FAQ, error) {
	faq, err := s.faqRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, fmt.Errorf("%w: faq %s", apperr.ErrNotFound, id)
	}
	return faq, nil
}

func (s *faqService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, in FAQInput) (*types.FAQ, error) {
	faq, err := s.faqRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, fmt.Errorf("%w: faq %s", apperr.ErrNotFound, id)
	}

	question := strings.TrimSpace(in.Question)
	answer := strings.TrimSpace(in.Answer)
	category := strings.TrimSpace(in.Category)

	if question == "" || answer == "" {
		return nil, fmt.Errorf("%w: question and answer are required", apperr.ErrInvalidArgument)
	}
	if category != "" && !validFAQCategories[category] {
		return nil, fmt.Errorf("%w: category must be general, account, technical, or billing", apperr.ErrInvalidArgument)
	}

	faq.Question = question
	faq.Answer = answer
	if category != "" {
		faq.Category = category
	}
	faq.UpdatedAt = time.Now().UTC()
	if err := s.faqRepo.Update(ctx, tx, faq); err != nil {
		s.log.Error("faq update failed", "error", err, "faq_id", id)
		return nil, err
	}
	return faq, nil
}

func (s *faqService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	faq, err := s.faqRepo.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if faq == nil {
		return fmt.Errorf("%w: faq %s", apperr.ErrNotFound, id)
	}
	return s.faqRepo.Delete(ctx, tx, id)
}
