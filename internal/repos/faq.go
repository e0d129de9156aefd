package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type FAQRepo interface {
	Create(ctx context.Context, tx *gorm.DB, faq *types.FAQ) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FAQ, error)
	List(ctx context.Context, tx *gorm.DB, search, category string) ([]*types.FAQ, error)
	Update(ctx context.Context, tx *gorm.DB, faq *types.FAQ) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type faqRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFAQRepo(db *gorm.DB, baseLog *logger.Logger) FAQRepo {
	repoLog := baseLog.With("repo", "FAQRepo")
	return &faqRepo{db: db, log: repoLog}
}

func (r *faqRepo) Create(ctx context.Context, tx *gorm.DB, faq *types.FAQ) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(faq).Error; err != nil {
		return err
	}
	return nil
}

// GetByID returns (nil, nil) when the FAQ does not exist.
func (r *faqRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FAQ, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FAQ
	if id == uuid.Nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// List filters by a case-insensitive substring over question/answer/category
// and by exact category ("" or "all" means no category filter).
func (r *faqRepo) List(ctx context.Context, tx *gorm.DB, search, category string) ([]*types.FAQ, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.FAQ{})
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("question LIKE ? OR answer LIKE ? OR category LIKE ?", term, term, term)
	}
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	var results []*types.FAQ
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *faqRepo) Update(ctx context.Context, tx *gorm.DB, faq *types.FAQ) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Save(faq).Error; err != nil {
		return err
	}
	return nil
}

func (r *faqRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.FAQ{}).Error; err != nil {
		return err
	}
	return nil
}
